// Package http implements the HTTP handlers of the gemscope web service.
//
// Handlers are thin: they parse and validate the request, call the analysis
// service, and render either JSON, an image, a download or the dashboard
// page. Service errors are mapped to RFC 7807 problem responses through
// errors.ErrorHandler.
//
// # Routes
//
//	GET /                              dashboard page with inline SVG charts
//	GET /assets/color-grade            reference color scale image
//	GET /charts/{panel}.{svg|png}      a single panel
//	GET /api/health[/ready|/live]      health checks
//	GET /api/version                   build information
//	GET /api/analysis/summary          stage counts and aggregates
//	GET /api/analysis/subsets/{name}   paged records (offset, limit)
//	GET /api/analysis/describe/{name}  descriptive statistics
//	GET /api/analysis/regression       price on carat fit over the segment
//	GET /api/export/{name}.csv         subset download
//	GET /api/export/aggregates.csv     aggregates download
//	GET /api/export/workbook.xlsx      workbook download
//	GET /metrics                       Prometheus metrics
//
// Handlers expose Routes() returning a chi.Router that the application
// mounts under its prefix. The dashboard owns root paths and registers them
// directly with RegisterRoutes.
package http
