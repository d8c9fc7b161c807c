// Package cli implements the formwizard command: run a questionnaire in the
// terminal, serve it over HTTP, or check a question document.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/pkg/question"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// app carries state shared by the subcommands once flags are resolved.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        Config
	logger     zerolog.Logger

	// driver replaces the survey prompts; nil uses the terminal.
	driver tui.PromptDriver
}

// Option customises the root command.
type Option func(*app)

// WithPromptDriver swaps the terminal prompts used by `run`.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(a *app) {
		a.driver = driver
	}
}

// NewRootCommand assembles the formwizard command tree.
func NewRootCommand(options ...Option) *cobra.Command {
	a := &app{v: newViper(), logger: zerolog.Nop()}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:   "formwizard",
		Short: "Multi-step forms from a question document",
		Long: `formwizard walks users through a question document one page at a time,
validating each page before moving on. Run it in the terminal, serve it as
HTML, or check a document for mistakes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (YAML, JSON, or TOML)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console or json)")
	flags.String("source", "", "question document path or URL (default: bundled sample)")
	flags.Duration("http-timeout", 10*time.Second, "timeout for remote question documents")
	a.bind(flags.Lookup("log-level"), "log.level")
	a.bind(flags.Lookup("log-format"), "log.format")
	a.bind(flags.Lookup("source"), "source")
	a.bind(flags.Lookup("http-timeout"), "http_timeout")

	root.AddCommand(
		a.newRunCommand(),
		a.newServeCommand(),
		a.newCheckCommand(),
	)
	return root
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, options ...Option) error {
	return NewRootCommand(options...).ExecuteContext(ctx)
}

// bind lets a flag override its config key. Unset flags defer to the
// environment and the config file.
func (a *app) bind(flag *pflag.Flag, key string) {
	if flag == nil {
		panic(fmt.Sprintf("cli: no flag bound to %q", key))
	}
	_ = a.v.BindPFlag(key, flag)
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.v, a.configPath)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// source resolves the configured document. An empty source selects the
// bundled sample.
func (a *app) source() (question.Source, error) {
	if a.cfg.Source == "" {
		return formwizard.SampleSource(), nil
	}
	src := question.ParseSource(a.cfg.Source)
	if src == nil {
		return nil, fmt.Errorf("cli: invalid source %q", a.cfg.Source)
	}
	return src, nil
}

func (a *app) loader() question.Loader {
	return formwizard.NewLoader(
		question.WithFileSystem(formwizard.SampleFS()),
		question.WithHTTPFallback(a.cfg.HTTPTimeout),
	)
}

// loadSession returns the session even when loading fails; the caller decides
// whether the failure is fatal.
func (a *app) loadSession(ctx context.Context) (*wizard.Session, error) {
	src, err := a.source()
	if err != nil {
		return nil, err
	}
	return formwizard.LoadSession(ctx, src,
		wizard.WithLoader(a.loader()),
		wizard.WithLogger(a.logger),
	)
}
