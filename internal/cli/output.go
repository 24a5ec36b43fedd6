package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/akyairhashvil/taskwatch/internal/config"
	"github.com/akyairhashvil/taskwatch/internal/models"
	"github.com/akyairhashvil/taskwatch/internal/tasks"
	"github.com/akyairhashvil/taskwatch/internal/util"
)

const nameColumnWidth = 60

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
}

func printTasks(w io.Writer, ts []models.Task) {
	if len(ts) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	t := newTable("ID", "STATE", "PROGRESS", "NAME", "ERROR")
	for _, task := range ts {
		t.Row(
			strconv.FormatInt(task.ID, 10),
			string(task.State),
			fmt.Sprintf("%.0f%%", task.Progress),
			util.Truncate(util.SingleLine(task.Name), nameColumnWidth, config.TruncationSuffix),
			util.Truncate(util.SingleLine(task.Error), nameColumnWidth/2, config.TruncationSuffix),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func printBulk(w io.Writer, res tasks.BulkResult) {
	fmt.Fprintf(w, "%s %s: %d ok, %d failed (run %s)\n",
		res.Action, res.TaskType, res.Succeeded(), len(res.Failed()), res.ID)
	for _, o := range res.Failed() {
		fmt.Fprintf(w, "  task %d: %v\n", o.TaskID, o.Err)
	}
}

func printRuns(w io.Writer, runs []models.BulkRun) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No bulk actions recorded.")
		return
	}
	t := newTable("RUN", "ACTION", "TYPE", "STARTED", "ITEMS", "FAILED")
	for _, r := range runs {
		t.Row(
			r.ID,
			r.Action,
			r.TaskType,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Failed),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func printOutcomes(w io.Writer, items []models.BulkItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No outcomes recorded for this run.")
		return
	}
	t := newTable("TASK", "NAME", "RESULT")
	for _, it := range items {
		result := "ok"
		if it.Error != nil {
			result = *it.Error
		}
		t.Row(
			strconv.FormatInt(it.TaskID, 10),
			util.Truncate(util.SingleLine(it.TaskName), nameColumnWidth, config.TruncationSuffix),
			util.SingleLine(result),
		)
	}
	fmt.Fprintln(w, t.Render())
}
