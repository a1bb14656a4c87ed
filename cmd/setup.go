package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/tracklist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes a config file from the embedded template unless one already exists.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	if _, err := os.Stat(r.configPath); err == nil {
		r.logger.Info("config file already exists", "path", r.configPath)
		r.writePlain("✓ Using existing config at %s\n", r.configPath)
		return nil
	}

	r.logger.Info("config file not found, creating from template", "path", r.configPath)
	if err := shared.CreateConfigFile(r.configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.writePlain("✓ Config written to %s\n", r.configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set client_id and client_secret under [credentials.spotify]\n")
	r.writePlain("2. Run 'tracklist auth login' to authorize\n")
	return nil
}
