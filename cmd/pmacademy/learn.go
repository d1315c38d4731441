package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/pmacademy/internal/cli"
	"github.com/at-ishikawa/pmacademy/internal/learning"
	"github.com/at-ishikawa/pmacademy/internal/progress"
	"github.com/at-ishikawa/pmacademy/internal/statistics"
	"github.com/at-ishikawa/pmacademy/internal/suggestion"
)

// homeSuggestionCount is how many suggestions the dashboard shows.
const homeSuggestionCount = 3

func calculateStatistics(env *environment) statistics.Statistics {
	return statistics.Calculate(env.store.Progress(), env.store.Tasks(), env.catalog, env.store.Settings(), env.store.Now())
}

func generateSuggestions(env *environment) []suggestion.Suggestion {
	return suggestion.Generate(env.store.Progress(), env.catalog.Modules(), env.store.Tasks(), env.store.Now())
}

func newHomeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, env *environment) error {
				today := progress.FilterTasks(env.store.Tasks(), progress.TaskFilterToday, env.store.Now())
				env.cli.WriteHome(calculateStatistics(env), today, suggestion.Top(generateSuggestions(env), homeSuggestionCount))
				return nil
			})
		},
	}
}

func newSuggestionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "suggestions",
		Short: "Show every suggestion, most important first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, env *environment) error {
				env.cli.WriteSuggestions(generateSuggestions(env))
				return nil
			})
		},
	}
}

func newModulesCommand() *cobra.Command {
	modulesCmd := &cobra.Command{
		Use:   "modules",
		Short: "Show the learning path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, env *environment) error {
				env.cli.WriteModules(calculateStatistics(env).Modules)
				return nil
			})
		},
	}

	modulesCmd.AddCommand(&cobra.Command{
		Use:   "show <module id>",
		Short: "Show the lessons of a module",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, env *environment) error {
				module, ok := env.catalog.Module(args[0])
				if !ok {
					return fmt.Errorf("module %s not found", args[0])
				}
				env.cli.WriteModule(module, env.store.Progress())
				return nil
			})
		},
	})
	return modulesCmd
}

func newLessonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lesson <lesson id>",
		Short: "Take a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, env *environment) error {
				service := learning.NewService(env.store, env.catalog, slog.Default())
				if _, err := cli.PlayLesson(ctx, env.cli, service, args[0]); err != nil {
					if errors.Is(err, cli.ErrQuit) {
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), "\nLesson left before the end. Nothing was recorded.")
						return nil
					}
					return err
				}
				return nil
			})
		},
	}
}
