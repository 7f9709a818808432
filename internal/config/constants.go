package config

// Application info
const (
	AppName = "gemscope"
)

// Build metadata, set with -ldflags "-X gemscope/internal/config.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)
