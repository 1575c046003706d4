package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/schedule"
)

var agendaCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Show overdue tasks and what is due in the coming days",
	Long: `Lists unresolved tasks that are overdue and those due within the
configured lookahead, grouped by day.

With --daily the command keeps running and prints a one-line digest every
day at the given time (default agenda.time from config.yml) in the board's
timezone. Press Ctrl+C to stop.`,
	RunE: runAgenda,
}

func init() {
	agendaCmd.Flags().Bool("daily", false, "print a digest every day instead of once")
	agendaCmd.Flags().String("at", "", "time of the daily digest (HH:MM, default agenda.time)")
	agendaCmd.Flags().Int("days", 0, "lookahead in days (default agenda.lookahead)")
	rootCmd.AddCommand(agendaCmd)
}

func runAgenda(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("days") {
		cfg.Agenda.Lookahead, _ = cmd.Flags().GetInt("days")
	}

	if daily, _ := cmd.Flags().GetBool("daily"); daily {
		clock, _ := cmd.Flags().GetString("at")
		if clock == "" {
			clock = cfg.Agenda.Time
		}
		return runDailyAgenda(cfg, clock)
	}

	a, warnings, err := board.LoadAgenda(cfg, time.Now())
	if err != nil {
		return err
	}
	printWarnings(warnings)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, a)
	case output.FormatCompact:
		output.AgendaCompact(os.Stdout, a)
	default:
		output.AgendaTable(os.Stdout, a)
	}
	return nil
}

// runDailyAgenda prints the agenda digest every day at clock until
// interrupted.
func runDailyAgenda(cfg *config.Config, clock string) error {
	s := schedule.New(cfg.Location())
	_, err := s.ScheduleDaily(clock, func() {
		a, warnings, loadErr := board.LoadAgenda(cfg, time.Now())
		if loadErr != nil {
			logger.Error().Err(loadErr).Msg("building agenda")
			return
		}
		printWarnings(warnings)
		if outputFormat() == output.FormatJSON {
			if jsonErr := output.JSON(os.Stdout, a); jsonErr != nil {
				logger.Error().Err(jsonErr).Msg("writing agenda")
			}
			return
		}
		fmt.Fprintln(os.Stdout, output.AgendaSummary(a))
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	next, err := schedule.NextRun(clock, cfg.Location(), time.Now())
	if err != nil {
		return err
	}
	logger.Info().Str("time", clock).Time("next", next).Msg("daily agenda scheduled")
	fmt.Fprintf(os.Stderr, "Daily agenda at %s (%s), next run %s. Ctrl+C to stop.\n",
		clock, cfg.Location(), next.Format("2006-01-02 15:04"))

	s.Run(ctx)
	return nil
}
