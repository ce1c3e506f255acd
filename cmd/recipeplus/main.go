// Recipe+ keeps a personal recipe book in the terminal: recipes filed by
// section, favorites, search, and a cook mode that walks the steps with
// inline timers.
//
// Usage:
//
//	recipeplus [--db path] [--memory] [--log-level level] <command>
package main

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hammamikhairi/recipeplus/internal/catalog"
	"github.com/hammamikhairi/recipeplus/internal/config"
	"github.com/hammamikhairi/recipeplus/internal/display"
	"github.com/hammamikhairi/recipeplus/internal/domain"
	"github.com/hammamikhairi/recipeplus/internal/logger"
	"github.com/hammamikhairi/recipeplus/internal/settings"
	"github.com/hammamikhairi/recipeplus/internal/storage"
)

// app holds everything a command needs. Built once per invocation in the
// root command's PersistentPreRunE.
type app struct {
	cfg      config.Config
	log      *logger.Logger
	store    domain.RecipeStore
	settings *settings.Store
	catalog  *catalog.Catalog
	render   *display.Renderer
	out      io.Writer
	closers  []func() error
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("shutdown: %v", err)
		}
	}
}

// cli carries per-invocation state between the root command and its
// subcommands.
type cli struct {
	v          *viper.Viper
	configFile string
	app        *app
}

func newRootCmd() (*cobra.Command, *cli) {
	c := &cli{v: config.New()}
	root := &cobra.Command{
		Use:           "recipeplus",
		Short:         "A recipe book with inline cooking timers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.v, c.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			a, err := newApp(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file (default "+filepath.Join(config.Dir(), "config.yaml")+")")
	pf.String(config.KeyDB, "", "SQLite database path")
	pf.String(config.KeySettings, "", "settings file path")
	pf.String(config.KeyLogLevel, "", "log level: off, normal or verbose")
	pf.String(config.KeyLogFile, "", "file to write logs to (\"stderr\" for the console)")
	pf.Bool(config.KeyMemory, false, "keep recipes in memory only (nothing is saved)")

	root.AddCommand(
		newRecipesCmd(c),
		newFavoritesCmd(c),
		newSectionsCmd(c),
		newSettingsCmd(c),
		newCookCmd(c),
		newExportCmd(c),
		newImportCmd(c),
		newSeedCmd(c),
		newEraseCmd(c),
	)
	return root, c
}

// close releases whatever the last command opened.
func (c *cli) close() {
	if c.app != nil {
		c.app.close()
		c.app = nil
	}
}

func newApp(cfg config.Config, out io.Writer) (*app, error) {
	a := &app{cfg: cfg, out: out}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	// Logs go to a file by default so command output stays clean.
	logOut, closeLog := openLogFile(cfg.LogFile, os.Stderr)
	if closeLog != nil {
		a.closers = append(a.closers, closeLog)
	}
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)
	a.log = logger.New(level, logOut)

	a.settings, err = settings.Open(cfg.SettingsPath, a.log.Named("settings"))
	if err != nil {
		return nil, err
	}

	if cfg.Memory {
		a.store = storage.NewMemoryStore(a.log.Named("store"))
	} else {
		s, err := storage.OpenSQLite(cfg.DBPath, a.log.Named("store"))
		if err != nil {
			return nil, err
		}
		a.store = s
		a.closers = append(a.closers, s.Close)
	}

	a.catalog = catalog.New(a.store, a.log.Named("catalog"),
		catalog.WithImageQuality(func() float64 { return a.settings.Snapshot().ImageQuality }),
	)

	a.render, err = display.NewRenderer(display.NewTheme(a.settings.Snapshot(), nil), a.log.Named("display"))
	if err != nil {
		return nil, err
	}
	cancel := a.render.Follow(a.settings, nil)
	a.closers = append(a.closers, func() error { cancel(); return nil })

	a.log.Debug("ready: db=%s memory=%v settings=%s", cfg.DBPath, cfg.Memory, cfg.SettingsPath)
	return a, nil
}

// openLogFile opens path for appending. An empty path or "stderr", or any
// failure to create the file, yields fallback and a nil closer.
func openLogFile(path string, fallback io.Writer) (io.Writer, func() error) {
	if path == "" || path == "stderr" {
		return fallback, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(fallback, "warning: could not create log dir %s: %v (falling back to stderr)\n", dir, err)
			return fallback, nil
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(fallback, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return fallback, nil
	}
	return f, f.Close
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root, c := newRootCmd()
	err := root.ExecuteContext(ctx)
	c.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
