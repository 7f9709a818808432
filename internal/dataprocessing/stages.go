package dataprocessing

import (
	"gemscope/pkg/contracts/domain"
)

// Clean keeps the records that are complete, have nonzero dimensions and
// weigh at most domain.MaxCarat. Source order is preserved and the input
// is not modified.
func Clean(records []domain.Record) []domain.Record {
	return CleanBelow(records, domain.MaxCarat)
}

// CleanBelow is Clean with an explicit carat bound.
func CleanBelow(records []domain.Record, maxCarat float64) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if r.HasMissing() || r.HasDegenerateGeometry() || r.Carat > maxCarat {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterColor keeps records whose color is in allowed.
func FilterColor(records []domain.Record, allowed []domain.Color) []domain.Record {
	return filterBy(records, allowed, func(r domain.Record) domain.Color { return r.Color })
}

// FilterClarity keeps records whose clarity is in allowed.
func FilterClarity(records []domain.Record, allowed []domain.Clarity) []domain.Record {
	return filterBy(records, allowed, func(r domain.Record) domain.Clarity { return r.Clarity })
}

// FilterCut keeps records whose cut is in allowed.
func FilterCut(records []domain.Record, allowed []domain.Cut) []domain.Record {
	return filterBy(records, allowed, func(r domain.Record) domain.Cut { return r.Cut })
}

func filterBy[T comparable](records []domain.Record, allowed []T, key func(domain.Record) T) []domain.Record {
	set := make(map[T]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}

	out := make([]domain.Record, 0, len(records))
	for _, r := range records {
		if _, ok := set[key(r)]; ok {
			out = append(out, r)
		}
	}
	return out
}
