package main

import (
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"

	"github.com/michaellee1019/working-wheel/cmd"
	"github.com/michaellee1019/working-wheel/internal/logger"
)

// Build-time variables injected by ldflags
var (
	Version    = "dev"
	CommitHash = "unknown"
	BuildTime  = "unknown"
)

func main() {
	// Load a .env file if present so WORKING_WHEEL_CREDENTIALS can be set
	// per project or per user. First match wins.
	tryPaths := []string{".env"}
	if cfgHome, err := os.UserConfigDir(); err == nil {
		tryPaths = append(tryPaths, filepath.Join(cfgHome, "working-wheel", ".env"))
	}
	for _, p := range tryPaths {
		if _, err := os.Stat(p); err == nil {
			if loadErr := gotenv.Load(p); loadErr == nil {
				break
			}
		}
	}

	cmd.SetVersionInfo(Version, CommitHash, BuildTime)

	if err := cmd.Execute(); err != nil {
		logger.Error("Token generation failed", "error", err)
		os.Exit(1)
	}
}
