package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/pmacademy/internal/progress"
)

func newTasksCommand() *cobra.Command {
	tasksCmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage the study plan",
	}
	tasksCmd.AddCommand(
		newTasksListCommand(),
		newTasksAddCommand(),
		newTasksToggleCommand(),
		newTasksEditCommand(),
		newTasksDeleteCommand(),
	)
	return tasksCmd
}

func newTasksListCommand() *cobra.Command {
	filter := TaskFilterFlag(progress.TaskFilterAll)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List study tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, env *environment) error {
				now := env.store.Now()
				env.cli.WriteTasks(progress.FilterTasks(env.store.Tasks(), progress.TaskFilter(filter), now), now)
				return nil
			})
		},
	}
	cmd.Flags().Var(&filter, "filter", "Tasks to list. Options: today, week, all")
	return cmd
}

// validateLinkedLesson rejects lesson IDs that are not in the catalog.
func validateLinkedLesson(env *environment, lessonID string) error {
	if lessonID == "" {
		return nil
	}
	if _, ok := env.catalog.Lesson(lessonID); !ok {
		return fmt.Errorf("lesson %s not found", lessonID)
	}
	return nil
}

func newTasksAddCommand() *cobra.Command {
	var (
		title    string
		notes    string
		lessonID string
		taskType = TaskTypeFlag(progress.TaskTypeLesson)
		due      = DueDateFlag{value: DueToday}
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a study task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, env *environment) error {
				trimmedTitle := strings.TrimSpace(title)
				if trimmedTitle == "" {
					return errors.New("title must not be blank")
				}
				if err := validateLinkedLesson(env, lessonID); err != nil {
					return err
				}
				task, err := env.store.AddTask(ctx, progress.NewTask{
					Title:          trimmedTitle,
					Type:           progress.TaskType(taskType),
					DueDate:        due.Time(env.store.Now()),
					Notes:          strings.TrimSpace(notes),
					LinkedLessonID: lessonID,
				})
				if err != nil {
					return fmt.Errorf("store.AddTask() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s\n", task.ID, task.Title)
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&title, "title", "", "Task title")
	flags.Var(&taskType, "type", fmt.Sprintf("Task type. Options: %v", progress.TaskTypes()))
	flags.Var(&due, "due", "Due date: today, tomorrow, week or YYYY-MM-DD")
	flags.StringVar(&notes, "notes", "", "Notes")
	flags.StringVar(&lessonID, "lesson", "", "Linked lesson ID")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTasksToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task id>",
		Short: "Mark a task as done or not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, env *environment) error {
				task, ok := env.store.ToggleTask(ctx, args[0])
				if !ok {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No task %s\n", args[0])
					return nil
				}
				state := "not done"
				if task.Completed {
					state = "done"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", task.Title, state)
				return nil
			})
		},
	}
}

func newTasksEditCommand() *cobra.Command {
	var (
		title     string
		notes     string
		lessonID  string
		completed bool
		taskType  TaskTypeFlag
		due       DueDateFlag
	)
	cmd := &cobra.Command{
		Use:   "edit <task id>",
		Short: "Change the fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			return runWithStore(cmd, func(ctx context.Context, env *environment) error {
				var update progress.TaskUpdate
				if flags.Changed("title") {
					t := strings.TrimSpace(title)
					if t == "" {
						return errors.New("title must not be blank")
					}
					update.Title = &t
				}
				if flags.Changed("type") {
					t := progress.TaskType(taskType)
					update.Type = &t
				}
				if flags.Changed("due") {
					d := due.Time(env.store.Now())
					update.DueDate = &d
				}
				if flags.Changed("notes") {
					n := strings.TrimSpace(notes)
					update.Notes = &n
				}
				if flags.Changed("lesson") {
					if err := validateLinkedLesson(env, lessonID); err != nil {
						return err
					}
					update.LinkedLessonID = &lessonID
				}
				if flags.Changed("completed") {
					update.Completed = &completed
				}

				found, err := env.store.UpdateTask(ctx, args[0], update)
				if err != nil {
					return fmt.Errorf("store.UpdateTask() > %w", err)
				}
				if !found {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No task %s\n", args[0])
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", args[0])
				return nil
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&title, "title", "", "Task title")
	flags.Var(&taskType, "type", fmt.Sprintf("Task type. Options: %v", progress.TaskTypes()))
	flags.Var(&due, "due", "Due date: today, tomorrow, week or YYYY-MM-DD")
	flags.StringVar(&notes, "notes", "", "Notes")
	flags.StringVar(&lessonID, "lesson", "", "Linked lesson ID")
	flags.BoolVar(&completed, "completed", false, "Completion state")
	return cmd
}

func newTasksDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, env *environment) error {
				if !env.store.DeleteTask(ctx, args[0]) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No task %s\n", args[0])
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}
