package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/morkato/morkato-bot/api"
	"github.com/morkato/morkato-bot/config"
	"github.com/morkato/morkato-bot/filter"
	"github.com/morkato/morkato-bot/morkato"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records the build information injected by main
func SetVersion(v, t string) {
	version = v
	buildTime = t
}

// app carries everything a command needs once PersistentPreRunE ran
type app struct {
	cfgFile string
	debug   bool

	cfg      *config.Config
	logger   zerolog.Logger
	client   *api.Client
	state    *morkato.State
	compiler *filter.Compiler
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "morkato",
		Short: "Manage the arts, attacks and players of a morkato RPG guild",
		Long: `morkato is a CLI for the morkato RPG backend. It reads and edits guild
arts, attacks, abilities, families and players, and uploads images to the CDN.

The backend hosts come from the config file, URL / CDN_URL, or MORKATO_* variables.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.initialize,
		PersistentPostRunE: a.shutdown,
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newGuildCmd(a),
		newArtCmd(a),
		newAttackCmd(a),
		newTraitCmd(a, abilityKind),
		newTraitCmd(a, familyKind),
		newUserCmd(a),
		newUploadCmd(a),
		newCDNCmd(a),
		newUpdateCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initialize loads the configuration and opens the client session
func (a *app) initialize(cmd *cobra.Command, args []string) error {
	var err error
	a.cfg, err = config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.debug {
		a.cfg.Logging.Level = "debug"
	}

	a.logger = setupLogger(a.cfg.Logging, os.Stderr)

	a.client, err = api.NewClient(
		api.Hosts{BaseURL: a.cfg.API.URL, CDNURL: a.cfg.API.CDNURL},
		a.logger,
		api.WithTimeout(a.cfg.HTTP.Timeout),
		api.WithMaxAttempts(a.cfg.HTTP.MaxAttempts),
	)
	if err != nil {
		return fmt.Errorf("failed to create morkato client: %w", err)
	}
	a.client.StaticLogin()

	a.state = morkato.NewState(a.client, a.logger)
	a.compiler = filter.NewCompiler(filter.WithCache(a.cfg.Filter.CacheSize))
	return nil
}

func (a *app) shutdown(cmd *cobra.Command, args []string) error {
	if a.state != nil {
		a.state.Close()
	}
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	if cfg.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(out),
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// guild resolves the guild argument and loads it into the cache
func (a *app) guild(ctx context.Context, arg string) (*morkato.Guild, error) {
	id, err := api.ParseSnowflake(arg)
	if err != nil {
		return nil, err
	}
	return a.state.FetchGuild(ctx, id)
}

// compileFilter picks --filter over --preset; an empty result means no filter
func (a *app) compileFilter(expression, preset string) (*filter.Filter, error) {
	if expression == "" && preset != "" {
		var ok bool
		expression, ok = a.cfg.Filter.Presets[strings.ToLower(preset)]
		if !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", preset)
		}
	}
	if expression == "" {
		return nil, nil
	}
	f, err := a.compiler.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}
	return f, nil
}
