package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jask/daytally/internal/config"
	"github.com/jask/daytally/internal/database"
	"github.com/jask/daytally/internal/database/repository"
	"github.com/jask/daytally/internal/ledger"
	"github.com/jask/daytally/internal/llm"
	"github.com/jask/daytally/internal/logging"
	"github.com/jask/daytally/internal/prefs"
	"github.com/jask/daytally/internal/service"
	"github.com/jask/daytally/internal/tui"
)

var (
	configPath string
	debug      bool

	rootCmd = &cobra.Command{
		Use:   "daytally",
		Short: "Daily consumption tracker for the terminal",
		Long: `daytally keeps a calendar of what you spend each day.

Open a day to log items with amounts like "20+35", review 15-day periods
on the analysis screen and ask for a short AI summary of recent habits.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default $XDG_CONFIG_HOME/daytally/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug logging")
}

func run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, logCloser, err := logging.New(logging.Options{Level: cfg.Log.Level, Path: cfg.Log.Path, Debug: debug})
	if err != nil {
		return err
	}
	defer logCloser.Close()

	if created, err := config.WriteDefault(configPath); err != nil {
		log.Warn().Err(err).Msg("write default config failed")
	} else if created {
		log.Info().Str("path", configFile()).Msg("wrote default config")
	}

	loc, err := cfg.Location()
	if err != nil {
		log.Warn().Err(err).Msg("using local timezone")
	}

	blobs, closeBlobs, err := openBlobs(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBlobs.Close()

	store := ledger.Load(ctx, blobs, logging.Component(log, "store"))
	summaries := &service.SummaryService{
		Provider: llm.New(cfg.LLM.Provider, resolveAPIKey(cfg), cfg.LLM.Model),
		Log:      logging.Component(log, "summary"),
	}

	weekStart := time.Sunday
	if cfg.WeekStartsMonday() {
		weekStart = time.Monday
	}

	log.Info().
		Str("backend", cfg.Storage.Backend).
		Str("provider", cfg.LLM.Provider).
		Int("days", store.Len()).
		Msg("starting")

	app := tui.New(ctx, store, tui.Options{
		Summarizer: summaries,
		Location:   loc,
		WeekStart:  weekStart,
		Log:        logging.Component(log, "tui"),
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	logStoreError(log, store)
	return nil
}

func configFile() string {
	if configPath != "" {
		return configPath
	}
	return config.Path()
}

// openBlobs returns the configured blob backend and a closer for it.
func openBlobs(ctx context.Context, cfg config.Config) (ledger.Blobs, io.Closer, error) {
	switch cfg.Storage.Backend {
	case "file":
		dir := cfg.Storage.Path
		if dir == "" || strings.HasSuffix(dir, ".db") {
			d, err := prefs.DefaultDir()
			if err != nil {
				return nil, nil, fmt.Errorf("resolve data dir: %w", err)
			}
			dir = d
		}
		return prefs.FileBlobs{Dir: dir}, io.NopCloser(nil), nil
	default:
		db, err := database.OpenMigrated(ctx, cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewBlobRepo(db), db, nil
	}
}

// resolveAPIKey prefers the environment variable named in the config, then
// the key stored in the config file.
func resolveAPIKey(cfg config.Config) string {
	env := strings.TrimSpace(cfg.LLM.APIKeyEnv)
	if env == "" {
		switch cfg.LLM.Provider {
		case "openai":
			env = "OPENAI_API_KEY"
		default:
			env = "GEMINI_API_KEY"
		}
	}
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v
	}
	return strings.TrimSpace(cfg.LLM.APIKey)
}

func logStoreError(log zerolog.Logger, store *ledger.Store) {
	if err := store.Err(); err != nil {
		log.Error().Err(err).Msg("last save failed")
	}
}
