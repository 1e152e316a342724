package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/triskis777/ketaverso-bot/config"
	"github.com/triskis777/ketaverso-bot/handlers"
	"github.com/triskis777/ketaverso-bot/pipeline"
	"github.com/triskis777/ketaverso-bot/presenter"
	"github.com/triskis777/ketaverso-bot/validation"
)

var errQueryFailed = errors.New("substance query failed")

var resolveCmd = &cobra.Command{
	Use:   "resolve <name...>",
	Short: "Resolve one substance name and print the result",
	Long: `Runs the resolution pipeline once against the configured knowledge base and
prints the resulting view as plain text. Records with several routes of
administration print one section per route.

Exits with status 1 when the knowledge base query fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResolve(cmd.Context(), appConfig, strings.Join(args, " "), cmd.OutOrStdout())
	},
}

func runResolve(ctx context.Context, cfg *config.Config, name string, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validation.NewInputValidator().ValidateQuery(name); err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	res := a.pipeline.Resolve(ctx, name)
	view, _, interactive, _ := handlers.RenderResult(a.presenter, res)

	if interactive {
		sections := make([]string, 0, len(res.Record.Roas))
		for i := range res.Record.Roas {
			sections = append(sections, presenter.PlainText(a.presenter.Render(*res.Record, i)))
		}
		fmt.Fprint(out, strings.Join(sections, "\n"))
	} else {
		fmt.Fprint(out, presenter.PlainText(view))
	}

	if res.Outcome == pipeline.OutcomeQueryFailed {
		return fmt.Errorf("%w: %w", errQueryFailed, res.Err)
	}
	return nil
}
