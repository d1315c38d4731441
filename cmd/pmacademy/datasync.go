package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/pmacademy/internal/blobstore"
	"github.com/at-ishikawa/pmacademy/internal/bootstrap"
	"github.com/at-ishikawa/pmacademy/internal/config"
	"github.com/at-ishikawa/pmacademy/internal/datasync"
)

func newDataCommand() *cobra.Command {
	dataCmd := &cobra.Command{
		Use:   "data",
		Short: "Export, import or clear stored progress",
	}
	dataCmd.AddCommand(
		newDataExportCommand(),
		newDataImportCommand(),
		newDataClearCommand(),
	)
	return dataCmd
}

func newDataExportCommand() *cobra.Command {
	var (
		backup    bool
		outputDir string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export progress and tasks as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithRepository(cmd, func(ctx context.Context, env *environment) error {
				exporter := datasync.NewExporter(env.repo)
				if !backup && outputDir == "" {
					body, err := exporter.ExportJSON(ctx)
					if err != nil {
						return fmt.Errorf("export data: %w", err)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(body))
					return nil
				}

				directory := outputDir
				if directory == "" {
					directory = env.cfg.Outputs.BackupDirectory
				}
				path, err := exporter.WriteBackup(ctx, directory, env.clock.Now())
				if err != nil {
					return fmt.Errorf("export data: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&backup, "backup", false, "Write a backup file into outputs.backup_directory instead of printing")
	cmd.Flags().StringVar(&outputDir, "output", "", "Write a backup file into this directory instead of printing")
	return cmd
}

func newDataImportCommand() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace progress and tasks with the contents of a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("os.ReadFile(%s) > %w", args[0], err)
			}
			return runWithRepository(cmd, func(ctx context.Context, env *environment) error {
				importer := datasync.NewImporter(env.repo, cmd.OutOrStdout())
				opts := datasync.ImportOptions{
					DryRun:         dryRun,
					UpdateExisting: true,
				}
				result, err := importer.Import(ctx, data, opts)
				if err != nil {
					return fmt.Errorf("import data: %w", err)
				}
				writeImportSummary(cmd.OutOrStdout(), result, opts)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the storage")
	return cmd
}

func newDataClearCommand() *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored progress, tasks and settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to delete all data without --yes")
			}
			return runWithRepository(cmd, func(ctx context.Context, env *environment) error {
				if err := env.repo.ClearAll(ctx); err != nil {
					return fmt.Errorf("clear data: %w", err)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "All data was deleted.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm deleting all data")
	return cmd
}

func newMigrateImportDBCommand() *cobra.Command {
	var (
		dryRun          bool
		updateExisting  bool
		sourceDirectory string
	)

	cmd := &cobra.Command{
		Use:   "import-db",
		Short: "Copy file storage into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if sourceDirectory == "" {
				sourceDirectory = cfg.Storage.Directory
			}
			if sourceDirectory == "" {
				return fmt.Errorf("no source directory: set storage.directory or --source")
			}

			app := bootstrap.New(slog.Default())
			return app.Run(cmd.Context(), func(ctx context.Context) error {
				dst, err := openBlobStore(ctx, app, config.StorageBackendMySQL, cfg)
				if err != nil {
					return fmt.Errorf("open database: %w", err)
				}
				opts := datasync.ImportOptions{
					DryRun:         dryRun,
					UpdateExisting: updateExisting,
				}
				result, err := datasync.Copy(ctx, blobstore.NewFileStore(sourceDirectory), dst, opts, cmd.OutOrStdout())
				if err != nil {
					return fmt.Errorf("copy data: %w", err)
				}
				writeImportSummary(cmd.OutOrStdout(), result, opts)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview changes without modifying the database")
	cmd.Flags().BoolVar(&updateExisting, "update-existing", false, "Overwrite values already in the database")
	cmd.Flags().StringVar(&sourceDirectory, "source", "", "Storage directory to copy from. Defaults to storage.directory")
	return cmd
}

func writeImportSummary(w io.Writer, result *datasync.ImportResult, opts datasync.ImportOptions) {
	_, _ = fmt.Fprintln(w, "\nImport Summary:")
	if opts.DryRun {
		_, _ = fmt.Fprintln(w, "  (dry run, no changes made)")
	}
	_, _ = fmt.Fprintf(w, "  Keys: %d new, %d updated, %d skipped\n", result.New, result.Updated, result.Skipped)
}
