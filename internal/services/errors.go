package services

import "errors"

// Analysis service errors
var (
	// Subset errors
	ErrUnknownSubset = errors.New("unknown subset")

	// Asset errors
	ErrImageNotFound = errors.New("reference image not found")

	// Statistic errors
	ErrInsufficientData = errors.New("insufficient data for statistic")

	// Paging errors
	ErrInvalidPage = errors.New("invalid page parameters")
)
