package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/pkg/preferences"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/vanilla"
	"github.com/goliatone/go-formwizard/pkg/server"
)

const shutdownTimeout = 5 * time.Second

func (a *app) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the questionnaire as HTML",
		Long: `serve hosts a single wizard session over HTTP. Pages live at /form/{id},
JSON state at /api/state, and the theme and font size controls post to
/preferences.`,
		Args: cobra.NoArgs,
		RunE: a.serve,
	}
	flags := cmd.Flags()
	flags.String("addr", ":8383", "listen address")
	flags.String("base-path", "", "mount every route below this path")
	flags.String("prefs", "", "preferences file (default: kept in memory)")
	flags.String("theme", "", "initial theme (light or dark)")
	flags.String("font-size", "", "initial font size (small, medium, or large)")
	a.bind(flags.Lookup("addr"), "addr")
	a.bind(flags.Lookup("base-path"), "base_path")
	a.bind(flags.Lookup("prefs"), "prefs")
	a.bind(flags.Lookup("theme"), "theme")
	a.bind(flags.Lookup("font-size"), "font_size")
	return cmd
}

func (a *app) serve(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	handler, err := a.buildHandler(ctx)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info().Str("addr", a.cfg.Addr).Str("base_path", a.cfg.BasePath).Msg("serving")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("cli: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.logger.Info().Msg("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("cli: shutdown: %w", err)
	}
	return nil
}

// buildHandler wires session, renderer, preferences, and assets. A failed
// question load is logged and served as the page's error state.
func (a *app) buildHandler(ctx context.Context) (http.Handler, error) {
	session, err := a.loadSession(ctx)
	if session == nil {
		return nil, err
	}
	if err != nil {
		a.logger.Error().Err(err).Msg("questions unavailable")
	}

	prefs, err := a.preferences()
	if err != nil {
		return nil, err
	}

	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	renderers := render.NewRegistry()
	if err := renderers.Register(html); err != nil {
		return nil, err
	}

	srv, err := server.New(session, renderers, prefs,
		server.WithBasePath(a.cfg.BasePath),
		server.WithRenderer(html.Name()),
		server.WithAssets(formwizard.EmbeddedAssets(), "/assets"),
		server.WithLogger(a.logger),
	)
	if err != nil {
		return nil, err
	}
	return srv.Handler(), nil
}

func (a *app) preferences() (*preferences.Service, error) {
	var store preferences.Store = preferences.NewMemoryStore(preferences.Stored{})
	if a.cfg.Prefs != "" {
		store = preferences.NewFileStore(a.cfg.Prefs)
	}

	svc, err := preferences.NewService(store, preferences.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}

	if a.cfg.Theme != "" {
		t, err := preferences.ParseTheme(a.cfg.Theme)
		if err != nil {
			return nil, fmt.Errorf("cli: %w", err)
		}
		if err := svc.SetTheme(t); err != nil {
			return nil, err
		}
	}
	if a.cfg.FontSize != "" {
		size, err := preferences.ParseFontSize(a.cfg.FontSize)
		if err != nil {
			return nil, fmt.Errorf("cli: %w", err)
		}
		if err := svc.SetFontSize(size); err != nil {
			return nil, err
		}
	}
	return svc, nil
}
