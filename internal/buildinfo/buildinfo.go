package buildinfo

import "runtime"

// Set with -ldflags "-X github.com/TinaKropaneva/restricted-domains/internal/buildinfo.Version=..."
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown" // RFC3339 UTC
	Go        = runtime.Version()
)
