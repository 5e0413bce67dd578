package commands

import (
	"context"
	"fmt"

	"ditztime/internal/config"
	"ditztime/internal/logging"
	"ditztime/internal/progress"
	"ditztime/internal/report"
	"ditztime/internal/timeparse"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// app carries the flag values and configuration of one command tree.
type app struct {
	verbosity int
	after     timeparse.Timestamp
	before    timeparse.Timestamp
	splitHour int
	timeZone  string
	keepGoing bool

	mermaid  bool
	htmlFile string
	openHTML bool

	cfg *config.AppConfig
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "ditztime [PATH...]",
		Short: "Report the time Ditz issues spent in progress",
		Long: `ditztime reads the event logs of Ditz issues, reconstructs the periods each
issue was in progress and distributes them over working days and ISO weeks.

A working day starts at the split hour (04:00 by default), so work done shortly
after midnight counts toward the previous day. PATH may be an issue file or a
Ditz issue directory.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.Init(a.verbosity)
			if err := a.loadConfig(cmd); err != nil {
				return err
			}

			log.Info().
				Str("version", Version).
				Str("commit", Commit).
				Str("buildDate", BuildDate).
				Int("splitHour", a.cfg.SplitHour).
				Str("timezone", a.cfg.TimeZone).
				Msg("ditztime starting")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.runReport(cmd, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", "increase log verbosity (repeat for more)")
	flags.VarP(&a.after, "after", "a", "only count intervals starting at or after this time (2008-05-06, 2008-05-06 18, 2008-05-06_18:45)")
	flags.VarP(&a.before, "before", "b", "only count intervals starting at or before this time")
	flags.IntVar(&a.splitHour, "split-hour", 0, "hour at which a working day starts (default from DITZTIME_SPLIT_HOUR, else 4)")
	flags.StringVar(&a.timeZone, "timezone", "", "IANA time zone for day boundaries and --after/--before (default from DITZTIME_TIMEZONE, else UTC)")
	flags.BoolVar(&a.keepGoing, "keep-going", false, "skip issues whose log cannot be interpreted instead of failing")

	a.addOutputFlags(rootCmd)

	rootCmd.AddCommand(newReportCmd(a), newServeCmd(a), newWatchCmd(a))
	return rootCmd
}

// loadConfig reads the environment configuration and applies flag overrides.
func (a *app) loadConfig(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	overridden := false
	if cmd.Flags().Changed("split-hour") {
		cfg.SplitHour = a.splitHour
		overridden = true
	}
	if cmd.Flags().Changed("timezone") {
		cfg.TimeZone = a.timeZone
		overridden = true
	}
	if overridden {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	a.cfg = cfg
	return nil
}

// reportOptions builds the run options from configuration and flags.
func (a *app) reportOptions() report.Options {
	loc := a.cfg.Location()
	return report.Options{
		Window: progress.Window{
			Earliest: a.after.Resolve(loc),
			Latest:   a.before.Resolve(loc),
		},
		SplitHour: a.cfg.SplitHour,
		Location:  loc,
		Workers:   a.cfg.Workers,
		KeepGoing: a.keepGoing,
	}
}

// Execute runs the command line with ctx as the root context.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
