package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-labyrinth/internal/config"
	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/assets"
	"github.com/vovakirdan/tui-labyrinth/internal/games/labyrinth/levels"
	"github.com/vovakirdan/tui-labyrinth/internal/platform/tui"
	"github.com/vovakirdan/tui-labyrinth/internal/storage"
)

// newLogger creates the application logger. The TUI owns the terminal, so
// interactive commands log to ~/.labyrinth/labyrinth.log; the server logs
// to stderr.
func newLogger(toFile bool) (*log.Logger, io.Closer, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	var w io.Writer = os.Stderr
	var closer io.Closer = io.NopCloser(nil)
	if toFile {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		dir := filepath.Join(home, ".labyrinth")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(dir, "labyrinth.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closer = f, f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "labyrinth",
		Level:           level,
	})
	return logger, closer, nil
}

// loadConfig resolves the config file, difficulty preset and flag overrides.
func loadConfig() (config.LabyrinthConfig, config.DifficultyPreset, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, "", err
	}

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return cfg, "", err
	}
	config.ApplyPreset(&cfg, preset)

	// Explicit flags win over config and preset
	if flagFPS > 0 {
		cfg.Timing.TickRate = flagFPS
	}
	if flagEnemyPeriod > 0 {
		cfg.Timing.EnemyPeriodMS = max(1, int(flagEnemyPeriod.Milliseconds()))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, "", err
	}
	return cfg, preset, nil
}

// levelLoader returns the loader for --levels, or the built-in pack.
func levelLoader() *levels.Loader {
	if flagLevels != "" {
		return levels.FromDir(flagLevels)
	}
	return levels.Embedded()
}

// openStore opens the run history, carrying on without it on failure.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run history", "path", flagDBPath, "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open run history: %v\n", err)
		return nil
	}
	return store
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

// buildDeps loads everything the TUI needs. The returned cleanup closes the
// store and the log file.
func buildDeps(logToFile bool) (*tui.Deps, func(), error) {
	logger, logCloser, err := newLogger(logToFile)
	if err != nil {
		return nil, nil, err
	}

	cfg, preset, err := loadConfig()
	if err != nil {
		logCloser.Close()
		return nil, nil, err
	}

	all, err := levelLoader().LoadAll()
	if err != nil {
		logCloser.Close()
		return nil, nil, fmt.Errorf("cannot load levels: %w", err)
	}
	if len(all) == 0 {
		logCloser.Close()
		return nil, nil, fmt.Errorf("no levels found")
	}

	atlas, err := assets.Default()
	if err != nil {
		logCloser.Close()
		return nil, nil, fmt.Errorf("cannot load sprites: %w", err)
	}
	for _, lvl := range all {
		if err := atlas.Check(lvl.TileSize, lvl.Tiles, lvl.EnemyKinds()); err != nil {
			logCloser.Close()
			return nil, nil, fmt.Errorf("level %s (%s): %w", lvl.ID, lvl.FilePath, err)
		}
	}

	store := openStore(logger)
	logger.Info("starting",
		"levels", len(all),
		"tick_rate", cfg.Timing.TickRate,
		"enemy_period", cfg.EnemyPeriod(),
		"difficulty", preset,
	)

	deps := &tui.Deps{
		Levels:     all,
		Atlas:      atlas,
		Store:      store,
		Logger:     logger,
		Config:     cfg,
		Difficulty: preset,
		Player:     currentUser(),
	}
	cleanup := func() {
		if store != nil {
			store.Close()
		}
		logCloser.Close()
	}
	return deps, cleanup, nil
}

// currentUser names the local player in the run history.
func currentUser() string {
	for _, env := range []string{"USER", "USERNAME", "LOGNAME"} {
		if u := os.Getenv(env); u != "" {
			return u
		}
	}
	return "player"
}
