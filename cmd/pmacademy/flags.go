package main

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/at-ishikawa/pmacademy/internal/progress"
)

// TaskFilterFlag selects which tasks are listed.
type TaskFilterFlag progress.TaskFilter

// Set implements pflag.Value.
func (f *TaskFilterFlag) Set(v string) error {
	filter, err := progress.ParseTaskFilter(v)
	if err != nil {
		return err
	}
	*f = TaskFilterFlag(filter)
	return nil
}

// String implements pflag.Value.
func (f *TaskFilterFlag) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// Type implements pflag.Value.
func (f *TaskFilterFlag) Type() string {
	return "TaskFilter"
}

// TaskTypeFlag is the category of a task given on the command line.
type TaskTypeFlag progress.TaskType

// Set implements pflag.Value.
func (t *TaskTypeFlag) Set(v string) error {
	taskType := progress.TaskType(v)
	if !taskType.Valid() {
		return fmt.Errorf("invalid value %q, valid values are %v", v, progress.TaskTypes())
	}
	*t = TaskTypeFlag(taskType)
	return nil
}

// String implements pflag.Value.
func (t *TaskTypeFlag) String() string {
	if t == nil {
		return ""
	}
	return string(*t)
}

// Type implements pflag.Value.
func (t *TaskTypeFlag) Type() string {
	return "TaskType"
}

const (
	DueToday    = "today"
	DueTomorrow = "tomorrow"
	DueNextWeek = "week"
)

// DueDateFlag is a due date given as today, tomorrow, week or YYYY-MM-DD.
// Relative values are resolved against the time the task is saved.
type DueDateFlag struct {
	value string
	date  time.Time
}

// Set implements pflag.Value.
func (d *DueDateFlag) Set(v string) error {
	switch v {
	case DueToday, DueTomorrow, DueNextWeek:
		d.value = v
		d.date = time.Time{}
		return nil
	}
	date, err := time.ParseInLocation(time.DateOnly, v, time.Local)
	if err != nil {
		return fmt.Errorf("invalid value %q, valid values are %s, %s, %s or a date like 2025-01-31", v, DueToday, DueTomorrow, DueNextWeek)
	}
	d.value = v
	d.date = date
	return nil
}

// String implements pflag.Value.
func (d *DueDateFlag) String() string {
	if d == nil {
		return ""
	}
	return d.value
}

// Type implements pflag.Value.
func (d *DueDateFlag) Type() string {
	return "DueDate"
}

// Time returns the due date relative to now.
func (d *DueDateFlag) Time(now time.Time) time.Time {
	switch d.value {
	case DueTomorrow:
		return now.AddDate(0, 0, 1)
	case DueNextWeek:
		return now.AddDate(0, 0, 7)
	case DueToday, "":
		return now
	default:
		return d.date
	}
}

var (
	_ pflag.Value = (*TaskFilterFlag)(nil)
	_ pflag.Value = (*TaskTypeFlag)(nil)
	_ pflag.Value = (*DueDateFlag)(nil)
)
