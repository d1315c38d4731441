package progress

import (
	"fmt"
	"time"

	"github.com/at-ishikawa/pmacademy/internal/clock"
)

// TaskFilter selects study tasks by due date.
type TaskFilter string

const (
	TaskFilterToday TaskFilter = "today"
	TaskFilterWeek  TaskFilter = "week"
	TaskFilterAll   TaskFilter = "all"
)

// ParseTaskFilter converts a user supplied name into a TaskFilter.
func ParseTaskFilter(s string) (TaskFilter, error) {
	switch f := TaskFilter(s); f {
	case TaskFilterToday, TaskFilterWeek, TaskFilterAll:
		return f, nil
	default:
		return "", fmt.Errorf("unknown task filter %q: must be one of today, week, all", s)
	}
}

// Match reports whether task belongs to the filter at now. The week covers
// today and the following seven days.
func (f TaskFilter) Match(task StudyTask, now time.Time) bool {
	days := clock.DaysBetween(now, task.DueDate)
	switch f {
	case TaskFilterToday:
		return days == 0
	case TaskFilterWeek:
		return days >= 0 && days <= 7
	default:
		return true
	}
}

// FilterTasks returns the tasks matching f, keeping their order.
func FilterTasks(tasks []StudyTask, f TaskFilter, now time.Time) []StudyTask {
	result := make([]StudyTask, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t, now) {
			result = append(result, t)
		}
	}
	return result
}

// IsOverdue reports whether an incomplete task was due before today.
func (t StudyTask) IsOverdue(now time.Time) bool {
	return !t.Completed && clock.DaysBetween(t.DueDate, now) > 0
}
