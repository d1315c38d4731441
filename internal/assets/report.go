package assets

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/at-ishikawa/pmacademy/internal/statistics"
)

const reportTemplateName = "progress-report.md.go.tmpl"

//go:embed templates/progress-report.md.go.tmpl
var fallbackProgressReportTemplate string

// WriteProgressReport renders the Markdown progress report.
// templatePath overrides the embedded template when the file exists.
func WriteProgressReport(output io.Writer, templatePath string, stats statistics.Statistics) error {
	tmpl, err := parseTemplateWithFallback(templatePath, reportTemplateName, fallbackProgressReportTemplate)
	if err != nil {
		return fmt.Errorf("parseTemplateWithFallback() > %w", err)
	}
	if err := tmpl.Execute(output, stats); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
