package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"
)

// HealthService provides health check functionality
type HealthService struct {
	version     string
	commit      string
	buildTime   string
	datasetPath string
	imagePath   string
	startTime   time.Time
	logger      *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual dependency health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// BuildInfo carries the values injected at link time.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// NewHealthService creates a health service. The dataset must be readable
// for the service to report ready; the reference image is optional.
func NewHealthService(build BuildInfo, datasetPath, imagePath string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", build.Version),
		slog.String("commit", build.Commit),
		slog.String("build_time", build.BuildTime))

	return &HealthService{
		version:     build.Version,
		commit:      build.Commit,
		buildTime:   build.BuildTime,
		datasetPath: datasetPath,
		imagePath:   imagePath,
		startTime:   time.Now(),
		logger:      logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "HealthCheck: performing health check",
		slog.String("uptime", time.Since(hs.startTime).String()))

	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck reports ready when the dataset can be opened.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]ServiceHealth{
			"dataset": checkFile(hs.datasetPath, "dataset"),
			"assets":  checkFile(hs.imagePath, "reference image"),
		},
	}

	if status.Services["dataset"].Status != "ready" {
		status.Status = "not_ready"
		hs.logger.WarnContext(ctx, "ReadinessCheck: dataset unavailable",
			slog.String("path", hs.datasetPath),
			slog.String("message", status.Services["dataset"].Message))
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	return map[string]interface{}{
		"version":      hs.version,
		"commit":       hs.commit,
		"build_time":   hs.buildTime,
		"go_version":   runtime.Version(),
		"os":           runtime.GOOS,
		"arch":         runtime.GOARCH,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

func checkFile(path, what string) ServiceHealth {
	if path == "" {
		return ServiceHealth{Status: "not_ready", Message: fmt.Sprintf("%s path not configured", what)}
	}
	f, err := os.Open(path)
	if err != nil {
		return ServiceHealth{Status: "not_ready", Message: fmt.Sprintf("%s unavailable: %v", what, err)}
	}
	f.Close()
	return ServiceHealth{Status: "ready", Message: fmt.Sprintf("%s is readable", what)}
}
