package commands

import (
	"context"
	"fmt"
	"os"

	"ditztime/internal/eventlog"
	"ditztime/internal/report"
	"ditztime/internal/watch"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var polling bool

	cmd := &cobra.Command{
		Use:   "watch PATH...",
		Short: "Re-print the report whenever an issue file changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.openHTML && a.htmlFile == "" {
				return fmt.Errorf("--open requires --html")
			}

			provider := eventlog.NewLogProvider(eventlog.NewIssueStore(), a.cfg.IssuePattern)
			w, err := watch.New(provider, args, watch.Options{
				Debounce: a.cfg.WatchDebounce,
				Polling:  polling,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			clearScreen := out == os.Stdout && isatty.IsTerminal(os.Stdout.Fd())

			return w.Run(cmd.Context(), func(ctx context.Context, issues []eventlog.Issue) error {
				res, err := report.Run(ctx, issues, a.reportOptions())
				if err != nil {
					return err
				}
				if clearScreen {
					fmt.Fprint(out, "\033[H\033[2J")
				}
				if err := a.render(out, res); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for changes... (Press Ctrl+C to exit)\n")
				return nil
			})
		},
	}

	a.addOutputFlags(cmd)
	cmd.Flags().BoolVar(&polling, "poll", false, "poll modification times instead of using filesystem notifications")
	return cmd
}
