package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"task-calendar/internal/domain"
	"task-calendar/internal/errors"
	"task-calendar/internal/services"
)

func newTaskCommand(r *RootCommand) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add, edit and list tasks",
	}
	cmd.AddCommand(
		newTaskAddCommand(r),
		newTaskEditCommand(r),
		newTaskListCommand(r),
	)
	return cmd
}

// taskFlags are the record fields shared by add and edit. Values are passed
// to validation as typed so that every bad field is reported at once.
type taskFlags struct {
	name      string
	endDate   string
	status    string
	priority  string
	progress  string
	assignees string
}

// bind registers the field flags. add defaults the status to Not Started;
// edit replaces the whole record and requires it.
func (f *taskFlags) bind(cmd *cobra.Command, defaultStatus domain.Status) {
	flags := cmd.Flags()
	flags.StringVar(&f.name, "name", "", "Task name")
	flags.StringVar(&f.endDate, "end-date", "", "End date, YYYY-MM-DD")
	flags.StringVar(&f.status, "status", defaultStatus.String(), `"Not Started", "In Progress" or "Completed"`)
	flags.StringVar(&f.priority, "priority", "", "Priority, lower sorts first")
	flags.StringVar(&f.progress, "progress", "0", "Progress percentage, 0-100")
	flags.StringVar(&f.assignees, "assignees", "", "Comma-separated assignees, at most 5")
}

func (f *taskFlags) raw() domain.RawTask {
	return domain.RawTask{
		Name:      f.name,
		EndDate:   f.endDate,
		Status:    f.status,
		Priority:  f.priority,
		Progress:  f.progress,
		Assignees: domain.SplitAssignees(f.assignees),
	}
}

func newTaskAddCommand(r *RootCommand) *cobra.Command {
	var fields taskFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			session, err := r.login(ctx)
			if err != nil {
				return r.errors.Handle("add task", err)
			}
			task, err := r.api.CreateTask(ctx, session, fields.raw())
			if err != nil {
				return r.errors.Handle("add task", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %q (%s)\n", task.Name, task.ID)
			return nil
		},
	}
	fields.bind(cmd, domain.StatusNotStarted)
	return cmd
}

// taskRef identifies a task by ID or, with a leading '#', by its zero-based
// position in creation order
type taskRef struct {
	id      string
	index   int
	byIndex bool
}

func parseTaskRef(s string) (taskRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return taskRef{}, errors.NewInvalidInputError("task", s, "a task ID or #index is required")
	}
	if !strings.HasPrefix(s, "#") {
		return taskRef{id: s}, nil
	}
	index, err := strconv.Atoi(s[1:])
	if err != nil {
		return taskRef{}, errors.NewInvalidInputError("task", s, "index must be a number such as #0")
	}
	return taskRef{index: index, byIndex: true}, nil
}

func newTaskEditCommand(r *RootCommand) *cobra.Command {
	var fields taskFlags
	cmd := &cobra.Command{
		Use:   "edit <id|#index>",
		Short: "Replace a task",
		Long: `Replace every field of a task. The task keeps its ID.

Tasks are addressed by ID, or by '#' and their position as shown by
"tcal task list" (starting at #0). Omitted fields are treated as empty,
except --progress which defaults to 0.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			ref, err := parseTaskRef(args[0])
			if err != nil {
				return r.errors.Handle("edit task", err)
			}
			session, err := r.login(ctx)
			if err != nil {
				return r.errors.Handle("edit task", err)
			}

			var task *domain.Task
			if ref.byIndex {
				task, err = r.api.EditTaskAt(ctx, session, ref.index, fields.raw())
			} else {
				task, err = r.api.EditTask(ctx, session, ref.id, fields.raw())
			}
			if err != nil {
				return r.errors.Handle("edit task", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated task %q (%s)\n", task.Name, task.ID)
			return nil
		},
	}
	fields.bind(cmd, "")
	return cmd
}

func newTaskListCommand(r *RootCommand) *cobra.Command {
	var (
		criteria  domain.Criteria
		assignees string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks ordered by priority",
		Long: `List the account's tasks, lowest priority value first.

Every filter given must match. A filter value that cannot be parsed matches
no task.

Examples:
  tcal task list
  tcal task list --before 2025-06-30 --status "In Progress"
  tcal task list --max-priority 3 --min-progress 10
  tcal task list --assignee "ana, bo"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.commandContext(cmd)
			defer cancel()

			session, err := r.login(ctx)
			if err != nil {
				return r.errors.Handle("list tasks", err)
			}
			criteria.AssigneeContainsAny = domain.ParseAssigneeTokens(assignees)
			result, err := r.api.Query(ctx, session, criteria)
			if err != nil {
				return r.errors.Handle("list tasks", err)
			}

			out := cmd.OutOrStdout()
			if result.NoResults {
				fmt.Fprintln(out, services.NoResultsMessage)
				return nil
			}

			all, err := r.api.ListTasks(ctx, session)
			if err != nil {
				return r.errors.Handle("list tasks", err)
			}
			positions := make(map[string]int, len(all))
			for i, task := range all {
				positions[task.ID] = i
			}
			return renderTasks(out, result.Tasks, positions, r.config.Display, timeNow())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&criteria.EndDateOnOrBefore, "before", "", "Only tasks ending on or before this date (YYYY-MM-DD)")
	flags.StringVar(&criteria.StatusEquals, "status", "", "Only tasks with this status")
	flags.StringVar(&criteria.MaxPriority, "max-priority", "", "Only tasks with priority at most this value")
	flags.StringVar(&criteria.MinProgress, "min-progress", "", "Only tasks with progress at least this value")
	flags.StringVar(&assignees, "assignee", "", "Comma-separated names; tasks with an assignee containing any of them")
	return cmd
}
