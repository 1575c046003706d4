package cmd

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/clierr"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists tasks with optional filtering, sorting, and output format control.
Cancelled tasks are hidden unless --status or --all is given.`,
	RunE: runList,
}

func init() {
	f := listCmd.Flags()
	f.StringSlice("status", nil, "filter by status (comma-separated)")
	f.StringSlice("priority", nil, "filter by priority (comma-separated)")
	f.String("project", "", "filter by project id")
	f.String("label", "", "filter by label")
	f.String("assignee", "", "filter by assignee")
	f.String("owner", "", "filter by owner")
	f.StringP("search", "s", "", "search title, description, and labels (case-insensitive)")
	f.Bool("recurring", false, "show only recurring tasks")
	f.Bool("one-off", false, "show only tasks without an active recurrence")
	f.Bool("overdue", false, "show only unresolved tasks past their due date")
	f.Bool("waiting", false, "show only tasks with at least one unresolved blocker")
	f.Bool("unblocked", false, "show only tasks whose blockers are all resolved (missing blockers count as resolved)")
	f.Int("chain", 0, "show occurrences regenerated from this task")
	f.Bool("all", false, "include cancelled tasks")
	f.String("sort", "id", "sort field ("+strings.Join(board.ValidSortFields(), ", ")+")")
	f.BoolP("reverse", "r", false, "reverse sort order")
	f.IntP("limit", "n", 0, "limit number of results")
	f.String("group-by", "", "group results by field ("+strings.Join(board.ValidGroupByFields(), ", ")+")")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts, groupBy, err := listOptions(cmd)
	if err != nil {
		return err
	}

	tasks, warnings, err := board.List(cfg, opts)
	if err != nil {
		return err
	}
	printWarnings(warnings)

	if groupBy != "" {
		return outputGroupedList(tasks, groupBy, cfg)
	}
	return outputTaskList(tasks)
}

func listOptions(cmd *cobra.Command) (board.ListOptions, string, error) {
	flags := cmd.Flags()
	var filter board.FilterOptions

	statusNames, _ := flags.GetStringSlice("status")
	for _, s := range statusNames {
		st, err := task.ValidateStatus(s)
		if err != nil {
			return board.ListOptions{}, "", err
		}
		filter.Statuses = append(filter.Statuses, st)
	}
	if all, _ := flags.GetBool("all"); !all && len(filter.Statuses) == 0 {
		filter.ExcludeStatuses = []task.Status{task.StatusCancelled}
	}

	filter.Priorities, _ = flags.GetStringSlice("priority")
	filter.Project, _ = flags.GetString("project")
	filter.Label, _ = flags.GetString("label")
	filter.Assignee, _ = flags.GetString("assignee")
	filter.Owner, _ = flags.GetString("owner")
	filter.Search, _ = flags.GetString("search")

	recurring, _ := flags.GetBool("recurring")
	oneOff, _ := flags.GetBool("one-off")
	switch {
	case recurring && oneOff:
		return board.ListOptions{}, "", clierr.New(clierr.InvalidInput, "--recurring and --one-off are mutually exclusive")
	case recurring || oneOff:
		filter.Recurring = &recurring
	}
	if overdue, _ := flags.GetBool("overdue"); overdue {
		filter.OverdueAt = time.Now()
	}
	if flags.Changed("chain") {
		root, _ := flags.GetInt("chain")
		filter.ParentID = &root
	}

	waiting, _ := flags.GetBool("waiting")
	unblocked, _ := flags.GetBool("unblocked")
	if waiting && unblocked {
		return board.ListOptions{}, "", clierr.New(clierr.InvalidInput, "--waiting and --unblocked are mutually exclusive")
	}

	sortBy, _ := flags.GetString("sort")
	if !slices.Contains(board.ValidSortFields(), sortBy) {
		return board.ListOptions{}, "", clierr.Newf(clierr.InvalidInput, "invalid --sort field %q; valid: %s",
			sortBy, strings.Join(board.ValidSortFields(), ", "))
	}
	groupBy, _ := flags.GetString("group-by")
	if groupBy != "" && !slices.Contains(board.ValidGroupByFields(), groupBy) {
		return board.ListOptions{}, "", clierr.Newf(clierr.InvalidGroupBy, "invalid --group-by field %q; valid: %s",
			groupBy, strings.Join(board.ValidGroupByFields(), ", "))
	}

	reverse, _ := flags.GetBool("reverse")
	limit, _ := flags.GetInt("limit")
	return board.ListOptions{
		Filter:    filter,
		SortBy:    sortBy,
		Reverse:   reverse,
		Limit:     limit,
		Waiting:   waiting,
		Unblocked: unblocked,
	}, groupBy, nil
}

func outputGroupedList(tasks []*task.Task, groupBy string, cfg *config.Config) error {
	grouped := board.GroupBy(tasks, groupBy, cfg)
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, grouped)
	}
	output.GroupedTable(os.Stdout, grouped)
	return nil
}

func outputTaskList(tasks []*task.Task) error {
	switch outputFormat() {
	case output.FormatJSON:
		if tasks == nil {
			tasks = []*task.Task{}
		}
		return output.JSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks)
	default:
		output.TaskTable(os.Stdout, tasks)
	}
	return nil
}
