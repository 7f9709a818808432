// Package services implements the application layer between the HTTP
// handlers, the CLI and the data pipeline.
//
// AnalysisService loads the configured dataset, runs the cleaning and
// filtering pipeline and derives the statistics the API exposes. Each call
// performs a fresh run; nothing is cached between requests.
//
//	svc := services.NewAnalysisService(cfg.Dataset, criteria, metrics, tracer, logger)
//	summary, err := svc.Summary(ctx)
//
// HealthService reports liveness, readiness and build information.
//
// Services return the sentinel errors in errors.go, or AppErrors from the
// pipeline, and leave translation to RFC 7807 problems to the transport.
package services
