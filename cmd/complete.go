package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
)

var completeCmd = &cobra.Command{
	Use:     "complete ID[,ID,...]",
	Aliases: []string{"done"},
	Short:   "Complete a task",
	Long: `Marks a task completed. A recurring task gets its next occurrence
created with a new id, unless its rule has reached its end date or
occurrence limit.`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().String("at", "", "completion time (YYYY-MM-DD or YYYY-MM-DDTHH:MM, default now)")
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	ids, err := parseIDs(args[0])
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	at := time.Now()
	if v, _ := cmd.Flags().GetString("at"); v != "" {
		when, err := parseWhen("at", v, cfg.Location())
		if err != nil {
			return err
		}
		at = *when
	}

	if len(ids) == 1 {
		return completeSingleTask(cfg, ids[0], at)
	}
	return runBatch(ids, func(id int) error {
		_, err := executeComplete(cfg, id, at)
		return err
	})
}

func completeSingleTask(cfg *config.Config, id int, at time.Time) error {
	res, err := executeComplete(cfg, id, at)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, res)
	}
	output.Messagef(os.Stdout, "Completed task #%d: %s", id, res.Task.Title)
	if res.Next != nil {
		due := "no due date"
		if res.Next.DueDate != nil {
			due = "due " + date.Format(*res.Next.DueDate)
		}
		output.Messagef(os.Stdout, "  Next occurrence: #%d, %s", res.Next.ID, due)
	} else if res.Task.Recurring() {
		output.Messagef(os.Stdout, "  Recurrence ended")
	}
	return nil
}

func executeComplete(cfg *config.Config, id int, at time.Time) (*board.CompleteResult, error) {
	res, err := board.Complete(cfg, actor(), id, at)
	if err != nil {
		return nil, err
	}
	if res.Next != nil {
		logger.Info().Int("id", id).Int("next", res.Next.ID).Msg("recurring task regenerated")
	}
	return res, nil
}
