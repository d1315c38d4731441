package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/pmacademy/internal/assets"
	"github.com/at-ishikawa/pmacademy/internal/learning"
	"github.com/at-ishikawa/pmacademy/internal/pdf"
	"github.com/at-ishikawa/pmacademy/internal/progress"
	"github.com/at-ishikawa/pmacademy/internal/statistics"
)

func newProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show statistics and achievements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, env *environment) error {
				env.cli.WriteProfile(calculateStatistics(env))
				return nil
			})
		},
	}
}

// reportFileName is the name of the Markdown report written on date.
func reportFileName(date time.Time) string {
	return fmt.Sprintf("progress-report-%s.md", date.Format(time.DateOnly))
}

func newReportCommand() *cobra.Command {
	var (
		generatePDF bool
		outputDir   string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a Markdown progress report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, env *environment) error {
				directory := outputDir
				if directory == "" {
					directory = env.cfg.Outputs.ReportDirectory
				}
				if err := os.MkdirAll(directory, 0755); err != nil {
					return fmt.Errorf("os.MkdirAll(%s) > %w", directory, err)
				}

				stats := calculateStatistics(env)
				path := filepath.Join(directory, reportFileName(stats.GeneratedAt))
				if err := writeReport(path, env.cfg.Templates.ProgressReportTemplate, stats); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)

				if !generatePDF {
					return nil
				}
				pdfPath, err := pdf.ConvertMarkdownToPDF(path)
				if err != nil {
					return fmt.Errorf("pdf.ConvertMarkdownToPDF() > %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", pdfPath)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&generatePDF, "pdf", false, "Generate PDF output in addition to markdown")
	cmd.Flags().StringVar(&outputDir, "output", "", "Output directory. Defaults to outputs.report_directory")
	return cmd
}

func writeReport(path string, templatePath string, stats statistics.Statistics) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("os.Create(%s) > %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("file.Close() > %w", closeErr)
		}
	}()
	return assets.WriteProgressReport(file, templatePath, stats)
}

func newAchievementsCommand() *cobra.Command {
	achievementsCmd := &cobra.Command{
		Use:   "achievements",
		Short: "Manage achievements",
	}
	achievementsCmd.AddCommand(&cobra.Command{
		Use:   "unlock <achievement id>",
		Short: "Unlock an achievement that is not detected automatically",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, env *environment) error {
				service := learning.NewService(env.store, env.catalog, slog.Default())
				a, unlocked, err := service.UnlockAchievement(ctx, args[0])
				if err != nil {
					return fmt.Errorf("service.UnlockAchievement() > %w", err)
				}
				if !unlocked {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s was already unlocked\n", a.Title)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s Achievement unlocked: %s\n", a.Icon, a.Title)
				return nil
			})
		},
	})
	return achievementsCmd
}

func newSettingsCommand() *cobra.Command {
	var dailyGoal int
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithStore(cmd, func(ctx context.Context, env *environment) error {
				if cmd.Flags().Changed("daily-goal") {
					if err := env.store.UpdateSettings(ctx, progress.Settings{DailyLessonGoal: dailyGoal}); err != nil {
						return fmt.Errorf("store.UpdateSettings() > %w", err)
					}
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Daily lesson goal: %d\n", env.store.Settings().DailyLessonGoal)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&dailyGoal, "daily-goal", progress.DefaultDailyLessonGoal, "Number of lessons to complete per day")
	return cmd
}
