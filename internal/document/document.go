// Package document reads PDF documents: metadata fields, file-name
// variants, plain text via interchangeable backends, and candidate titles.
package document

import (
	"fmt"
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Accessor provides read access to PDF documents for the resolution
// pipeline. The zero value is ready to use.
type Accessor struct{}

// NewAccessor creates a document accessor.
func NewAccessor() *Accessor {
	return &Accessor{}
}

// MetadataFields returns the document information dictionary as a
// label → string mapping. Non-string entries are skipped.
func (a *Accessor) MetadataFields(path string) (map[string]string, error) {
	fields := make(map[string]string)
	err := withReader(path, func(r *pdf.Reader) error {
		info := r.Trailer().Key("Info")
		if info.Kind() != pdf.Dict {
			return nil
		}
		for _, key := range info.Keys() {
			v := info.Key(key)
			if v.Kind() == pdf.String || v.Kind() == pdf.Name {
				fields[key] = v.RawString()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// FileNameVariants returns the percent-decoded base name of the document
// followed by progressively extension-stripped forms, longest first. File
// names may encode a DOI's slashes as %2F, and a name like
// "10.1227/12345678.pdf" is both a valid path and almost a valid DOI, so
// each stripped variant gets its own chance at matching.
func (a *Accessor) FileNameVariants(path string) []string {
	name := filepath.Base(path)
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	parts := strings.Split(name, ".")
	variants := make([]string, 0, len(parts))
	for i := len(parts); i >= 1; i-- {
		variants = append(variants, strings.Join(parts[:i], "."))
	}
	return variants
}

// CandidateTitles returns possible titles of the publication, longest
// first: the metadata title field, a first-page heuristic, and the file
// stem when it is long enough to be a title rather than a short code.
func (a *Accessor) CandidateTitles(path string) ([]string, error) {
	var titles []string

	fields, err := a.MetadataFields(path)
	if err != nil {
		return nil, err
	}
	labels := make([]string, 0, len(fields))
	for label := range fields {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		if !strings.Contains(strings.ToLower(label), "title") {
			continue
		}
		value := strings.TrimSpace(fields[label])
		if len(value) > 12 && len(strings.Fields(value)) > 3 {
			titles = append(titles, value)
		}
	}

	if t := firstPageTitle(path); t != "" {
		titles = append(titles, t)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if len(strings.TrimSpace(stem)) > 30 {
		titles = append(titles, strings.TrimSpace(stem))
	}

	titles = dedupe(titles)
	sort.SliceStable(titles, func(i, j int) bool {
		return len(titles[i]) > len(titles[j])
	})
	return titles, nil
}

// firstPageTitle takes the first substantial line of page one as the title.
func firstPageTitle(path string) string {
	var title string
	err := withReader(path, func(r *pdf.Reader) error {
		if r.NumPage() < 1 {
			return nil
		}
		page := r.Page(1)
		if page.V.IsNull() {
			return nil
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil
		}
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if len(line) > 20 && !isHeaderLine(line) {
				title = line
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return ""
	}
	return title
}

// isHeaderLine checks if a line is likely a running header/footer.
func isHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "journal") {
		return true
	}
	if strings.Contains(lower, "volume") && strings.Contains(lower, "issue") {
		return true
	}
	if strings.Contains(lower, "copyright") {
		return true
	}
	if strings.Contains(lower, "article") && strings.Contains(lower, "published") {
		return true
	}
	return false
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// withReader opens a PDF and runs fn with its reader. The parser panics on
// some malformed files, so panics are converted to errors here.
func withReader(path string, fn func(r *pdf.Reader) error) (err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return fmt.Errorf("opening pdf: %w", err)
	}
	defer f.Close()
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("parsing pdf %s: %v", path, p)
		}
	}()
	return fn(r)
}
