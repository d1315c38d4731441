// Package datasync exports, imports and copies the persisted application data.
package datasync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/at-ishikawa/pmacademy/internal/blobstore"
	"github.com/at-ishikawa/pmacademy/internal/persistence"
)

// ErrInvalidImport is returned when import data is not a JSON object.
var ErrInvalidImport = errors.New("invalid import data")

// ExportData is the backup document. Values are kept as the stored JSON,
// and a missing value is exported as null.
type ExportData struct {
	Progress json.RawMessage `json:"progress"`
	Tasks    json.RawMessage `json:"tasks"`
}

// ImportResult tracks counts for each import operation.
type ImportResult struct {
	New     int
	Updated int
	Skipped int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
	// UpdateExisting lets Copy overwrite keys that already exist in the destination.
	UpdateExisting bool
}

// Exporter reads the exportable data from a repository.
type Exporter struct {
	repo *persistence.Repository
}

// NewExporter creates a new Exporter.
func NewExporter(repo *persistence.Repository) *Exporter {
	return &Exporter{
		repo: repo,
	}
}

// Export reads progress and tasks from the store.
func (e *Exporter) Export(ctx context.Context) (*ExportData, error) {
	progress, err := e.readValue(ctx, persistence.ProgressKey)
	if err != nil {
		return nil, err
	}
	tasks, err := e.readValue(ctx, persistence.TasksKey)
	if err != nil {
		return nil, err
	}
	return &ExportData{
		Progress: progress,
		Tasks:    tasks,
	}, nil
}

// readValue returns the stored JSON of key, or null when it is missing or
// cannot be parsed.
func (e *Exporter) readValue(ctx context.Context, key string) (json.RawMessage, error) {
	value, found, err := e.repo.GetRaw(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("repo.GetRaw() > %w", err)
	}
	if !found || !json.Valid([]byte(value)) {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(value), nil
}

// ExportJSON returns the backup document indented by two spaces.
func (e *Exporter) ExportJSON(ctx context.Context) ([]byte, error) {
	data, err := e.Export(ctx)
	if err != nil {
		return nil, fmt.Errorf("Export() > %w", err)
	}
	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json.MarshalIndent() > %w", err)
	}
	return body, nil
}

// BackupFileName is the name of the backup file written on date.
func BackupFileName(date time.Time) string {
	return fmt.Sprintf("pm-academy-backup-%s.json", date.Format("2006-01-02"))
}

// WriteBackup writes the backup document into directory and returns the file path.
func (e *Exporter) WriteBackup(ctx context.Context, directory string, now time.Time) (string, error) {
	body, err := e.ExportJSON(ctx)
	if err != nil {
		return "", fmt.Errorf("ExportJSON() > %w", err)
	}
	if err := os.MkdirAll(directory, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", directory, err)
	}
	path := filepath.Join(directory, BackupFileName(now))
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return path, nil
}

// Importer writes backup documents into a repository.
type Importer struct {
	repo   *persistence.Repository
	writer io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(repo *persistence.Repository, writer io.Writer) *Importer {
	return &Importer{
		repo:   repo,
		writer: writer,
	}
}

// Import replaces the stored progress and tasks with the values in data.
// A value that is missing, null or otherwise falsy leaves the stored one
// untouched. Values are stored as given without checking their shape.
func (imp *Importer) Import(ctx context.Context, data []byte, opts ImportOptions) (*ImportResult, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidImport)
	}
	var doc ExportData
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}

	var result ImportResult
	values := []struct {
		key   string
		value json.RawMessage
	}{
		{key: persistence.ProgressKey, value: doc.Progress},
		{key: persistence.TasksKey, value: doc.Tasks},
	}
	for _, v := range values {
		if !truthy(v.value) {
			fmt.Fprintf(imp.writer, "  [SKIP]  %s\n", v.key)
			result.Skipped++
			continue
		}
		if err := imp.importValue(ctx, v.key, v.value, opts, &result); err != nil {
			return nil, err
		}
	}
	return &result, nil
}

func (imp *Importer) importValue(ctx context.Context, key string, value json.RawMessage, opts ImportOptions, result *ImportResult) error {
	var compacted bytes.Buffer
	if err := json.Compact(&compacted, value); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImport, err)
	}

	_, exists, err := imp.repo.GetRaw(ctx, key)
	if err != nil {
		return fmt.Errorf("repo.GetRaw() > %w", err)
	}
	if exists {
		fmt.Fprintf(imp.writer, "  [UPDATE]  %s\n", key)
		result.Updated++
	} else {
		fmt.Fprintf(imp.writer, "  [NEW]  %s\n", key)
		result.New++
	}
	if opts.DryRun {
		return nil
	}
	if err := imp.repo.SetRaw(ctx, key, compacted.String()); err != nil {
		return fmt.Errorf("repo.SetRaw() > %w", err)
	}
	return nil
}

// truthy reports whether an imported value counts as present.
func truthy(value json.RawMessage) bool {
	switch string(bytes.TrimSpace(value)) {
	case "", "null", "false", "0", `""`:
		return false
	default:
		return true
	}
}

// Copy copies every application key from src to dst. Keys missing in src
// are skipped, and so are keys already present in dst unless
// opts.UpdateExisting is set.
func Copy(ctx context.Context, src, dst blobstore.Store, opts ImportOptions, writer io.Writer) (*ImportResult, error) {
	var result ImportResult
	for _, key := range persistence.Keys() {
		value, found, err := src.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("src.Get(%s) > %w", key, err)
		}
		if !found {
			fmt.Fprintf(writer, "  [SKIP]  %s (missing in source)\n", key)
			result.Skipped++
			continue
		}

		_, exists, err := dst.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("dst.Get(%s) > %w", key, err)
		}
		switch {
		case exists && !opts.UpdateExisting:
			fmt.Fprintf(writer, "  [SKIP]  %s\n", key)
			result.Skipped++
			continue
		case exists:
			fmt.Fprintf(writer, "  [UPDATE]  %s\n", key)
			result.Updated++
		default:
			fmt.Fprintf(writer, "  [NEW]  %s\n", key)
			result.New++
		}

		if opts.DryRun {
			continue
		}
		if err := dst.Set(ctx, key, value); err != nil {
			return nil, fmt.Errorf("dst.Set(%s) > %w", key, err)
		}
	}
	return &result, nil
}
