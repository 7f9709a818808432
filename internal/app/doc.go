// Package app wires the gemscope web service and manages its lifecycle.
//
// NewApplication loads configuration, initializes the slog logger and the
// OpenTelemetry providers, builds the analysis and health services, and
// assembles the chi router:
//
//	RequestID → RealIP → OTel → StructuredLogger → Recoverer →
//	SecurityHeaders → CORS → RateLimiter → Timeout → handlers
//
// /metrics sits outside the middleware group.
//
// Run starts the server and blocks until SIGINT or SIGTERM, then shuts the
// server and the telemetry providers down within Server.ShutdownTimeout.
//
//	application, err := app.NewApplication(nil, nil)
//	if err != nil {
//	    return err
//	}
//	return application.Run()
package app
