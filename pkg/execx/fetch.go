package execx

import (
	"context"
	"os"
	"path/filepath"

	"github.com/example/devsetup/pkg/logging"
)

// Fetch downloads a URL to a local path, trying curl first and falling back
// to wget. It reports success as a boolean since a failed download is a
// recoverable condition for every caller.
func Fetch(ctx context.Context, r Runner, url, dest string) bool {
	logger := logging.GetLogger("execx.fetch")

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		logger.Error().Err(err).Str("dest", dest).Msg("Failed to create download directory")
		return false
	}

	attempts := []Command{
		{Name: "curl", Args: []string{"-fsSL", url, "-o", dest}, Check: true},
		{Name: "wget", Args: []string{"-q", url, "-O", dest}, Check: true},
	}

	for _, cmd := range attempts {
		if _, err := r.Run(ctx, cmd); err != nil {
			logger.Debug().Err(err).Str("tool", cmd.Name).Str("url", url).Msg("Download attempt failed")
			continue
		}
		return true
	}

	logger.Error().Str("url", url).Msg("Failed to download with curl and wget")
	return false
}
