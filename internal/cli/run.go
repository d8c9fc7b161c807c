package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

func (a *app) newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Answer the questionnaire in the terminal",
		Long: `run prompts for every field page by page and prints the submission once
all pages validate. Choose Quit from the menu to leave without submitting.`,
		Args: cobra.NoArgs,
		RunE: a.runTerminal,
	}
	cmd.Flags().String("format", "json", "submission output (json, form, or pretty)")
	a.bind(cmd.Flags().Lookup("format"), "format")
	return cmd
}

func (a *app) runTerminal(cmd *cobra.Command, _ []string) error {
	format, ok := tui.ParseOutputFormat(a.cfg.Format)
	if !ok {
		return fmt.Errorf("cli: unsupported output format %q", a.cfg.Format)
	}

	ctx := cmd.Context()
	session, err := a.loadSession(ctx)
	if session == nil {
		return err
	}
	// A failed load still goes through the renderer so the user sees the
	// failure message.

	renderer, err := tui.New(
		tui.WithPromptDriver(a.driver),
		tui.WithOutput(cmd.ErrOrStderr()),
		tui.WithOutputFormat(format),
		tui.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	out, err := renderer.Render(ctx, session, render.RenderOptions{})
	if errors.Is(err, tui.ErrQuit) {
		a.logger.Info().Str("question", session.CurrentID()).Msg("left without submitting")
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(out)); err != nil {
		return fmt.Errorf("cli: write submission: %w", err)
	}
	return nil
}
