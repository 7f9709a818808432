// Package charts renders the five dashboard panels as SVG or PNG with
// go-chart.
//
// Each panel reads one part of a pipeline result:
//
//	color-distribution  pie of cleaned rows per color
//	price-by-color      violin of cleaned prices per color
//	cut-distribution    pie of segment rows per cut
//	price-vs-carat      segment scatter by cut with a dashed linear fit
//	price-by-clarity    bar of mean segment price per clarity
//
// A panel whose input is empty renders a placeholder image instead of
// failing.
package charts
