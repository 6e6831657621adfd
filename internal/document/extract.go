package document

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText indicates a backend produced no usable text for a document.
var ErrNoText = errors.New("no text extracted")

// Text extraction backend names, in the fixed fallback order the pipeline
// tries them. The two PDF backends take different paths through the parser
// and fail on different malformed files; rawscan is the last resort and
// works on any readable file.
const (
	BackendPlainText = "plaintext"
	BackendRows      = "rows"
	BackendRawScan   = "rawscan"
)

// Backends returns the text extraction backend names in fallback order.
func (a *Accessor) Backends() []string {
	return []string{BackendPlainText, BackendRows, BackendRawScan}
}

// FullText extracts the document's plain text with the named backend.
func (a *Accessor) FullText(path, backend string) (string, error) {
	switch backend {
	case BackendPlainText:
		return extractPlainText(path)
	case BackendRows:
		return extractByRows(path)
	case BackendRawScan:
		return extractRawScan(path)
	default:
		return "", fmt.Errorf("unknown text backend %q", backend)
	}
}

// extractPlainText concatenates the per-page plain text of the document.
func extractPlainText(path string) (string, error) {
	var builder strings.Builder
	err := withReader(path, func(r *pdf.Reader) error {
		for i := 1; i <= r.NumPage(); i++ {
			page := r.Page(i)
			if page.V.IsNull() {
				continue
			}
			text, err := page.GetPlainText(nil)
			if err != nil {
				continue
			}
			builder.WriteString(text)
			builder.WriteString("\n")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(builder.String()) == "" {
		return "", ErrNoText
	}
	return builder.String(), nil
}

// extractByRows walks the row/word structure page by page. Some documents
// that defeat GetPlainText still yield text this way.
func extractByRows(path string) (string, error) {
	var builder strings.Builder
	err := withReader(path, func(r *pdf.Reader) error {
		for i := 1; i <= r.NumPage(); i++ {
			page := r.Page(i)
			if page.V.IsNull() {
				continue
			}
			rows, err := page.GetTextByRow()
			if err != nil {
				continue
			}
			for _, row := range rows {
				for _, word := range row.Content {
					builder.WriteString(word.S)
					builder.WriteString(" ")
				}
				builder.WriteString("\n")
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(builder.String()) == "" {
		return "", ErrNoText
	}
	return builder.String(), nil
}

// extractRawScan pulls printable ASCII runs straight out of the file bytes.
// Identifiers in uncompressed streams or metadata survive this even when
// the document structure is too broken to parse.
func extractRawScan(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}

	const minRun = 6
	var builder strings.Builder
	runStart := -1
	flush := func(end int) {
		if runStart >= 0 && end-runStart >= minRun {
			builder.Write(data[runStart:end])
			builder.WriteString("\n")
		}
		runStart = -1
	}
	for i, b := range data {
		if b >= 0x20 && b < 0x7f {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flush(i)
	}
	flush(len(data))

	if builder.Len() == 0 {
		return "", ErrNoText
	}
	return builder.String(), nil
}
