package main

import (
	"context"
	"os"

	"github.com/offify/offify/internal/services"
	"github.com/offify/offify/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warnf("failed to load config.toml, using defaults: %v", err)
		}
	}
	shared.LoadEnv(config)

	var source services.SourceClient
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map())
		if err != nil {
			logger.Warnf("failed to create Spotify service: %v", err)
		} else {
			if config.Credentials.Spotify.AccessToken != "" {
				if err := svc.Authenticate(context.Background(), config.Credentials.Spotify.Map()); err != nil {
					logger.Warnf("spotify authentication failed: %v", err)
				}
			}
			source = svc
		}
	}

	dest := services.NewYouTubeService(config.Credentials.YouTube.ProxyURL)
	if config.Credentials.YouTube.AuthFile != "" {
		if err := dest.Authenticate(context.Background(), map[string]string{"auth_file": config.Credentials.YouTube.AuthFile}); err != nil {
			logger.Warnf("youtube music authentication failed: %v", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Source: source,
		Dest:   dest,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "offify",
		Usage:    "Migrate playlists from Spotify to YouTube Music",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
