package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/assetcfg/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/assetcfg/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/assetcfg/internal/version.Date={{.Date}}
)
