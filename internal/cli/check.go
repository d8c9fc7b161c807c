package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwizard/pkg/question"
)

// ErrInvalidDocument is returned by `check` when the document has issues.
var ErrInvalidDocument = errors.New("cli: question document is invalid")

func (a *app) newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [source]",
		Short: "Validate a question document",
		Long: `check loads a question document and reports every schema and structural
issue found. The source argument overrides --source.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.check,
	}
}

func (a *app) check(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		a.cfg.Source = args[0]
	}
	src, err := a.source()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	doc, err := a.loader().Load(ctx, src)
	if err != nil {
		return fmt.Errorf("cli: load %s: %w", src.Location(), err)
	}

	out := cmd.OutOrStdout()
	set, err := question.Parse(doc)
	var invalid *question.ValidationError
	if errors.As(err, &invalid) {
		fmt.Fprintf(out, "%s: %d issue(s)\n", src.Location(), len(invalid.Issues))
		for _, issue := range invalid.Issues {
			fmt.Fprintf(out, "  %s: %s\n", issue.Path, issue.Message)
		}
		return ErrInvalidDocument
	}
	if err != nil {
		return err
	}

	fields := 0
	for _, q := range set.Questions {
		fields += len(q.Fields)
	}
	fmt.Fprintf(out, "%s: ok (%d questions, %d fields)\n", src.Location(), len(set.Questions), fields)
	a.logger.Debug().Str("source", src.Location()).Int("questions", len(set.Questions)).Msg("document checked")
	return nil
}
