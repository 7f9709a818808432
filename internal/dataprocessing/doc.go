// Package dataprocessing turns a diamond dataset into the record subsets and
// statistics the dashboard presents.
//
// The pipeline is a fixed linear chain:
//
//	load -> clean -> color -> clarity -> cut
//
// Clean drops incomplete rows, rows with a zero dimension and stones above
// the carat bound. The three filters keep the curated grade sets and
// commute. Every stage returns a new slice and leaves its input untouched.
//
// Aggregation groups by color, cut or clarity and yields counts or mean
// prices keyed by grade:
//
//	res, err := dataprocessing.NewProcessor(logger, dataprocessing.DefaultCriteria()).Run(ctx, records)
//	for _, color := range res.Aggregates.CountByColor.Keys() { ... }
//
// FitLine, EstimateDensity and Describe supply the regression line, the
// violin shapes and the descriptive statistics.
package dataprocessing
