package main

import (
	"context"
	"os"

	"autodj/internal/repositories"
	"autodj/internal/services"
	"autodj/internal/shared"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}
	config.LoadEnvCredentials()

	opts := RunnerOpts{
		Config:  config,
		Sources: buildSources(config, logger),
		Logger:  logger,
	}

	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		candidates := repositories.NewCandidateRepository(db)
		opts.DB = db
		opts.Candidates = candidates
		opts.Playlists = repositories.NewPlaylistRepository(db)
		opts.History = candidates
		defer db.Close()
	} else {
		logger.Warn("database unavailable", "path", config.Database.Path, "error", err)
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "autodj",
		Usage:    "Discover, score, and curate themed DJ playlists",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}

// buildSources wires every discovery source the configured credentials allow.
// A source with missing credentials is skipped with a warning, not an error;
// discovery runs with whatever remains.
func buildSources(config *shared.Config, logger *log.Logger) []services.Source {
	var sources []services.Source

	if src, err := services.NewPerplexitySource(config.Credentials.Perplexity, config.Discovery); err == nil {
		sources = append(sources, src)
	} else {
		logger.Warn("perplexity source disabled", "error", err)
	}

	for _, mode := range []services.DiscoveryMode{
		services.ModeLabelReleases, services.ModeArtistTracks, services.ModeGenreCharts,
	} {
		if src, err := services.NewBeatportSource(mode, config.Credentials.Beatport, config.Discovery); err == nil {
			sources = append(sources, src)
		} else {
			logger.Warn("beatport source disabled", "mode", mode.String(), "error", err)
			break
		}
	}

	return sources
}
