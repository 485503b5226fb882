package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"task-calendar/internal/config"
	"task-calendar/internal/domain"
)

// renderTasks prints tasks as an aligned table. positions maps task IDs to
// the index accepted by "task edit #n".
func renderTasks(w io.Writer, tasks []domain.Task, positions map[string]int, display config.DisplayConfig, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tDUE\tSTATUS\tPRIORITY\tPROGRESS\tASSIGNEES\tID")
	for _, task := range tasks {
		position := "-"
		if i, ok := positions[task.ID]; ok {
			position = fmt.Sprintf("#%d", i)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d%%\t%s\t%s\n",
			position,
			task.Name,
			formatDue(task, display, now),
			task.Status,
			task.Priority,
			task.Progress,
			strings.Join(task.Assignees, ", "),
			task.ID,
		)
	}
	return tw.Flush()
}

// formatDue renders the end date in the display format, followed by a
// relative hint when enabled. Unparseable dates are shown as stored.
func formatDue(task domain.Task, display config.DisplayConfig, now time.Time) string {
	due, err := task.Due()
	if err != nil {
		return task.EndDate
	}
	formatted := due.Format(display.DateFormat)
	if !display.HumanizeDates {
		return formatted
	}
	return fmt.Sprintf("%s (%s)", formatted, humanize.RelTime(due, now, "ago", "from now"))
}
