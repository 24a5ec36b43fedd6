package tasks

import (
	"github.com/akyairhashvil/taskwatch/internal/models"
	"github.com/akyairhashvil/taskwatch/internal/util"
)

// Filter keeps the tasks matching a parsed search query.
func Filter(ts []models.Task, q util.SearchQuery) []models.Task {
	if q.Empty() {
		return ts
	}
	var out []models.Task
	for _, t := range ts {
		if q.Matches(string(t.State), t.Name) {
			out = append(out, t)
		}
	}
	return out
}

// Counts tallies tasks per state.
func Counts(ts []models.Task) map[models.TaskState]int {
	counts := make(map[models.TaskState]int)
	for _, t := range ts {
		counts[t.State]++
	}
	return counts
}
