package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"ditztime/internal/eventlog"
	"ditztime/internal/report"
	"ditztime/internal/visuals"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report PATH...",
		Short: "Print the in-progress time per issue, day and ISO week",
		Args:  cobra.MinimumNArgs(1),
		RunE:  a.runReport,
	}
	a.addOutputFlags(cmd)
	return cmd
}

func (a *app) addOutputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.BoolVar(&a.mermaid, "mermaid", false, "append Mermaid charts of the weekly and daily totals")
	flags.StringVar(&a.htmlFile, "html", "", "also write a standalone HTML report to `FILE`")
	flags.BoolVar(&a.openHTML, "open", false, "open the HTML report in the default browser")
}

func (a *app) runReport(cmd *cobra.Command, args []string) error {
	if a.openHTML && a.htmlFile == "" {
		return fmt.Errorf("--open requires --html")
	}

	ctx := cmd.Context()
	provider := eventlog.NewLogProvider(eventlog.NewIssueStore(), a.cfg.IssuePattern)
	issues, err := provider.Hydrate(ctx, args)
	if err != nil {
		return err
	}

	res, err := report.Run(ctx, issues, a.reportOptions())
	if err != nil {
		return err
	}
	return a.render(cmd.OutOrStdout(), res)
}

// render writes the text report and the optional chart and HTML outputs.
func (a *app) render(out io.Writer, res *report.Result) error {
	if err := report.WriteText(out, res); err != nil {
		return err
	}

	if a.mermaid {
		for _, chart := range []string{
			visuals.GenerateWeeklyChart(res.Total),
			visuals.GenerateDailyChart(res.Total),
			visuals.GenerateIssueShare(res),
		} {
			if chart == "" {
				continue
			}
			if _, err := fmt.Fprintf(out, "\n%s\n", visuals.Fenced(chart)); err != nil {
				return err
			}
		}
	}

	if a.htmlFile == "" {
		return nil
	}
	if err := writeHTMLFile(a.htmlFile, res); err != nil {
		return err
	}
	log.Info().Str("file", a.htmlFile).Msg("HTML report written")

	if a.openHTML {
		a.openHTML = false // once per process, not on every watch refresh
		if err := browser.OpenFile(a.htmlFile); err != nil {
			log.Warn().Err(err).Str("file", a.htmlFile).Msg("Failed to open browser")
		}
	}
	return nil
}

func writeHTMLFile(path string, res *report.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML report: %w", err)
	}
	if err := visuals.WriteHTML(f, res, time.Now()); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write HTML report: %w", err)
	}
	return f.Close()
}
