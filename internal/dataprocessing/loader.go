package dataprocessing

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"gemscope/internal/errors"
	"gemscope/internal/infrastructure"
	"gemscope/pkg/contracts/domain"
)

// cancelCheckInterval is how many rows are read between context checks.
const cancelCheckInterval = 1000

// naTokens are the cell values read as missing.
var naTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"None": {},
	"#N/A": {},
}

// idHeaders are the header names recognised as the row identifier column.
// The public diamonds dataset ships with an unnamed pandas index.
var idHeaders = []string{"id", "index", "unnamed: 0", ""}

type columnIndices struct {
	id      int
	carat   int
	cut     int
	color   int
	clarity int
	price   int
	x       int
	y       int
	z       int
}

// Loader reads diamond records from CSV.
type Loader struct {
	logger   *slog.Logger
	validate *validator.Validate
}

// NewLoader creates a loader. A nil logger falls back to slog.Default.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		logger:   infrastructure.WithComponent(logger, "loader"),
		validate: validator.New(),
	}
}

// LoadFile opens path and loads it with Load. A missing file is reported
// as a NOT_FOUND AppError.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NewNotFoundError("dataset").WithContext("path", path)
		}
		return nil, errors.NewStorageError("failed to open dataset", err).WithContext("path", path)
	}
	defer f.Close()

	records, err := l.Load(ctx, f)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", path),
		slog.Int("rows", len(records)))
	return records, nil
}

// Load reads a CSV with a header row. Columns are matched by name; missing
// cells become NaN or "" and are left for Clean to drop. Unparseable or
// negative numbers fail the whole load.
func (l *Loader) Load(ctx context.Context, r io.Reader) ([]domain.Record, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParsingError("dataset is empty", nil)
	}
	if err != nil {
		return nil, errors.NewParsingError("failed to read header", err)
	}

	cols, err := findColumnIndices(header)
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, 1024)
	for row := 1; ; row++ {
		if row%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError("malformed CSV row", err).WithContext("row", row)
		}

		rec, err := l.parseRow(fields, cols, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	l.logger.DebugContext(ctx, "parsed CSV", slog.Int("rows", len(records)), slog.Bool("id_column", cols.id >= 0))
	return records, nil
}

func (l *Loader) parseRow(fields []string, cols columnIndices, row int) (domain.Record, error) {
	rec := domain.Record{
		Cut:     domain.Cut(category(fields[cols.cut])),
		Color:   domain.Color(category(fields[cols.color])),
		Clarity: domain.Clarity(category(fields[cols.clarity])),
	}

	if cols.id >= 0 {
		rec.ID = category(fields[cols.id])
	} else {
		rec.ID = strconv.Itoa(row)
	}

	numeric := []struct {
		name  string
		field string
		idx   int
		dst   *float64
	}{
		{"carat", "Carat", cols.carat, &rec.Carat},
		{"price", "Price", cols.price, &rec.Price},
		{"x", "X", cols.x, &rec.X},
		{"y", "Y", cols.y, &rec.Y},
		{"z", "Z", cols.z, &rec.Z},
	}

	present := make([]string, 0, len(numeric))
	for _, n := range numeric {
		v, err := parseNumber(fields[n.idx])
		if err != nil {
			return rec, errors.NewParsingError("invalid numeric value", err).
				WithContext("row", row).
				WithContext("column", n.name)
		}
		*n.dst = v
		if !math.IsNaN(v) {
			present = append(present, n.field)
		}
	}

	if len(present) > 0 {
		if err := l.validate.StructPartial(rec, present...); err != nil {
			return rec, errors.NewParsingError("numeric value out of range", err).WithContext("row", row)
		}
	}

	return rec, nil
}

// RequiredColumns are the header names a dataset must carry, lower-cased.
func RequiredColumns() []string {
	return []string{"carat", "cut", "color", "clarity", "price", "x", "y", "z"}
}

func findColumnIndices(header []string) (columnIndices, error) {
	cols := columnIndices{id: -1, carat: -1, cut: -1, color: -1, clarity: -1, price: -1, x: -1, y: -1, z: -1}

	names := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, seen := names[name]; !seen {
			names[name] = i
		}
	}

	required := []struct {
		name string
		dst  *int
	}{
		{"carat", &cols.carat},
		{"cut", &cols.cut},
		{"color", &cols.color},
		{"clarity", &cols.clarity},
		{"price", &cols.price},
		{"x", &cols.x},
		{"y", &cols.y},
		{"z", &cols.z},
	}
	for _, c := range required {
		idx, ok := names[c.name]
		if !ok {
			return cols, errors.NewParsingError("missing required column", nil).WithContext("column", c.name)
		}
		*c.dst = idx
	}

	for _, name := range idHeaders {
		if idx, ok := names[name]; ok {
			cols.id = idx
			return cols, nil
		}
	}

	// otherwise the first column is the identifier, unless it holds data
	first := true
	for _, c := range required {
		if *c.dst == 0 {
			first = false
			break
		}
	}
	if first {
		cols.id = 0
	}

	return cols, nil
}

func isNA(cell string) bool {
	_, ok := naTokens[cell]
	return ok
}

func category(cell string) string {
	cell = strings.TrimSpace(cell)
	if isNA(cell) {
		return ""
	}
	return cell
}

func parseNumber(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if isNA(cell) {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("non-finite value %q", cell)
	}
	return v, nil
}
