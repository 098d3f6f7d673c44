package identity

import (
	"strings"

	"gitlab.com/motorlane/api/motorlane-market-service/internal/adapters/config"
)

// Mode names the verification strategy chosen at startup.
type Mode string

const (
	ModeRemote Mode = "remote"
	ModeSeed   Mode = "seed"
)

// placeholderMarkers are substrings that identify a templated, never-edited
// identity base URL from a copied sample config.
var placeholderMarkers = []string{
	"your-project",
	"example.com",
	"changeme",
}

// DetectMode decides the verification strategy from configuration validity
// alone. It runs exactly once during bootstrap; nothing request-supplied
// ever reaches this decision.
func DetectMode(cfg config.IdentityConfig) Mode {
	if cfg.BaseURL == "" || cfg.ServiceKey == "" {
		return ModeSeed
	}
	lowered := strings.ToLower(cfg.BaseURL)
	for _, marker := range placeholderMarkers {
		if strings.Contains(lowered, marker) {
			return ModeSeed
		}
	}
	return ModeRemote
}
