// Package pdf renders Markdown reports to PDF.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/mandolyte/mdtopdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// ConvertMarkdownToPDF converts a markdown file to PDF using mdtopdf package
// The PDF file will be created in the same directory as the markdown file
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	return WriteMarkdownPDF(content, strings.TrimSuffix(markdownPath, ".md")+".pdf")
}

// WriteMarkdownPDF renders markdown into a PDF file at pdfPath and returns
// its absolute path. Characters the built-in PDF fonts cannot draw, such as
// emoji, are dropped.
func WriteMarkdownPDF(markdown []byte, pdfPath string) (string, error) {
	content, err := latin1Only(markdown)
	if err != nil {
		return "", err
	}

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}

func latin1Only(content []byte) ([]byte, error) {
	outside := runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxLatin1
	}))
	result, _, err := transform.Bytes(outside, content)
	if err != nil {
		return nil, fmt.Errorf("transform.Bytes() > %w", err)
	}
	return result, nil
}
