// Package resolve implements the identifier resolution pipeline: an ordered
// chain of extraction strategies over a document, each scanned for DOI and
// arXiv candidates that are validated against the registries, with the first
// validated identifier short-circuiting the rest and being written back to
// the cache.
package resolve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/refsolve/refsolve/internal/config"
	"github.com/refsolve/refsolve/internal/identifier"
	"github.com/refsolve/refsolve/internal/registry"
	"github.com/refsolve/refsolve/internal/store"
)

// Strategy labels, in resolution order.
const (
	MethodCached        = "cached metadata"
	MethodMetadata      = "document metadata"
	MethodFileName      = "file name"
	MethodText          = "document text"
	MethodTitleSearch   = "document title search"
	MethodExcerptSearch = "text excerpt search"
	MethodManual        = "manual"
)

// Accessor provides the document-reading capabilities the pipeline consumes.
type Accessor interface {
	MetadataFields(path string) (map[string]string, error)
	FileNameVariants(path string) []string
	Backends() []string
	FullText(path, backend string) (string, error)
	CandidateTitles(path string) ([]string, error)
}

// Searcher runs web queries and fetches result pages as plain text.
type Searcher interface {
	Search(ctx context.Context, query string, max int) ([]string, error)
	FetchPlainText(ctx context.Context, url string) (string, error)
}

// Validator checks a raw candidate against the identifier registries.
type Validator interface {
	Validate(ctx context.Context, raw string, kind identifier.Kind, opt registry.ValidateOptions) (*registry.Validated, error)
}

// Store caches resolved identifiers per document.
type Store interface {
	Read(path string) (*store.Record, error)
	Write(path string, rec store.Record) error
	ManualOverride(path, id string) error
}

// Result is the outcome of resolving one document. Identifier, Kind and
// Method are set together or not at all.
type Result struct {
	Path       string               `json:"path"`
	Identifier string               `json:"identifier,omitempty"`
	Kind       string               `json:"identifier_kind,omitempty"`
	Method     string               `json:"method,omitempty"`
	Info       *registry.Validation `json:"validation_info,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// Found reports whether the document resolved to an identifier.
func (r Result) Found() bool {
	return r.Identifier != ""
}

// Resolver walks the strategy order for each document. Settings is read-only
// during resolution, so one Resolver may serve many documents.
type Resolver struct {
	Settings config.Settings
	Docs     Accessor
	Search   Searcher
	Registry Validator
	Cache    Store

	// Logf receives progress diagnostics. Nil disables them.
	Logf func(format string, args ...any)
}

type strategy struct {
	label string
	run   func(r *Resolver, ctx context.Context, path string) *registry.Validated
}

// strategies is the fixed resolution order. Cheap and reliable sources come
// first; each successful validation short-circuits the rest.
var strategies = []strategy{
	{MethodMetadata, (*Resolver).fromMetadata},
	{MethodFileName, (*Resolver).fromFileName},
	{MethodText, (*Resolver).fromText},
	{MethodTitleSearch, (*Resolver).fromTitleSearch},
	{MethodExcerptSearch, (*Resolver).fromExcerptSearch},
}

// Resolve handles a file or folder target. For a folder every contained PDF
// is resolved independently, one result per file.
func (r *Resolver) Resolve(ctx context.Context, target string) ([]Result, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("inspecting target: %w", err)
	}
	if info.IsDir() {
		return r.ResolveFolder(ctx, target)
	}
	return []Result{r.ResolveFile(ctx, target)}, nil
}

// ResolveFolder resolves every PDF in dir, in directory enumeration order.
// A failure on one file is recorded in its result and does not stop the rest.
func (r *Resolver) ResolveFolder(ctx context.Context, dir string) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading folder: %w", err)
	}

	var results []Result
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}
		results = append(results, r.ResolveFile(ctx, filepath.Join(dir, entry.Name())))
	}
	return results, nil
}

// ResolveFile resolves a single document. Failures are reported in the
// result, never as an error; an absent identifier means nothing was found.
func (r *Resolver) ResolveFile(ctx context.Context, path string) Result {
	res := Result{Path: path}

	if _, err := os.Stat(path); err != nil {
		res.Error = fmt.Sprintf("cannot open document: %v", err)
		return res
	}

	// Cache fast-path: a cached identifier is trusted as already validated.
	if r.Cache != nil {
		rec, err := r.Cache.Read(path)
		if err != nil {
			r.logf("cache read failed for %s: %v", path, err)
		} else if rec != nil && rec.Identifier != "" {
			r.logf("%s: identifier found in cache", path)
			res.Identifier = rec.Identifier
			res.Kind = rec.Kind
			res.Method = MethodCached
			if rec.Citation != "" {
				res.Info = &registry.Validation{Web: true, Citation: rec.Citation}
			}
			return res
		}
	}

	for _, s := range strategies {
		r.logf("%s: trying %s", path, s.label)
		v := s.run(r, ctx, path)
		if v == nil {
			continue
		}

		res.Identifier = v.Identifier
		res.Kind = string(v.Kind)
		res.Method = s.label
		res.Info = v.Info
		r.writeBack(path, res)
		return res
	}

	res.Error = "no identifier found"
	return res
}

// ManualOverride stores a user-supplied identifier for the document without
// validating it. Subsequent resolutions return it via the cache fast-path.
func (r *Resolver) ManualOverride(path, id string) (Result, error) {
	if r.Cache == nil {
		return Result{}, fmt.Errorf("no cache configured")
	}
	if err := r.Cache.ManualOverride(path, id); err != nil {
		return Result{}, err
	}
	return Result{Path: path, Identifier: id, Method: MethodManual}, nil
}

func (r *Resolver) writeBack(path string, res Result) {
	if r.Cache == nil || !r.Settings.WriteBack {
		return
	}
	rec := store.Record{
		Identifier: res.Identifier,
		Kind:       res.Kind,
		Method:     res.Method,
	}
	if res.Info != nil {
		rec.Citation = res.Info.Citation
	}
	if err := r.Cache.Write(path, rec); err != nil {
		r.logf("write-back failed for %s: %v", path, err)
	}
}

func (r *Resolver) logf(format string, args ...any) {
	if r.Logf != nil {
		r.Logf(format, args...)
	}
}

func (r *Resolver) validateOptions() registry.ValidateOptions {
	return registry.ValidateOptions{
		WebValidation: r.Settings.WebValidation,
		PreferDOI:     r.Settings.PreferDOIOverArXiv,
		DOIFormat:     doiFormat(r.Settings.DOIRequestFormat),
	}
}

// doiFormat maps the configured citation format name onto the registry
// Accept header.
func doiFormat(name string) string {
	switch name {
	case "bibtex":
		return registry.FormatBibTeX
	case "bibliography":
		return registry.FormatBibliography
	default:
		return registry.FormatCiteprocJSON
	}
}

// tryText scans a text block and validates each candidate in order of
// appearance. Rejections and network failures both advance to the next
// candidate; the first validated identifier wins.
func (r *Resolver) tryText(ctx context.Context, text string) *registry.Validated {
	for _, cand := range identifier.FindAll(text) {
		v, err := r.Registry.Validate(ctx, cand.Raw, cand.Kind, r.validateOptions())
		if err != nil {
			if registry.IsNetwork(err) {
				r.logf("validation of %q failed with a network error: %v", cand.Raw, err)
			}
			continue
		}
		return v
	}
	return nil
}

func (r *Resolver) fromMetadata(ctx context.Context, path string) *registry.Validated {
	fields, err := r.Docs.MetadataFields(path)
	if err != nil {
		r.logf("metadata extraction failed for %s: %v", path, err)
		return nil
	}

	// Fields labelled "doi" are scanned before the rest, regardless of map
	// order. Journal-level DOI fields are known to mislead and are skipped.
	var doiLabels, otherLabels []string
	for label := range fields {
		lower := strings.ToLower(label)
		if strings.Contains(lower, "wps-journaldoi") {
			continue
		}
		if strings.Contains(lower, "doi") {
			doiLabels = append(doiLabels, label)
		} else {
			otherLabels = append(otherLabels, label)
		}
	}
	sort.Strings(doiLabels)
	sort.Strings(otherLabels)

	for _, label := range append(doiLabels, otherLabels...) {
		if v := r.tryText(ctx, fields[label]); v != nil {
			return v
		}
	}
	return nil
}

func (r *Resolver) fromFileName(ctx context.Context, path string) *registry.Validated {
	for _, variant := range r.Docs.FileNameVariants(path) {
		if v := r.tryText(ctx, variant); v != nil {
			return v
		}
	}
	return nil
}

func (r *Resolver) fromText(ctx context.Context, path string) *registry.Validated {
	for _, backend := range r.Docs.Backends() {
		text, err := r.Docs.FullText(path, backend)
		if err != nil {
			r.logf("%s backend failed for %s: %v", backend, path, err)
			continue
		}
		if v := r.tryText(ctx, text); v != nil {
			return v
		}
	}
	return nil
}

func (r *Resolver) fromTitleSearch(ctx context.Context, path string) *registry.Validated {
	if !r.Settings.WebSearch || r.Search == nil {
		return nil
	}

	titles, err := r.Docs.CandidateTitles(path)
	if err != nil {
		r.logf("title extraction failed for %s: %v", path, err)
		return nil
	}
	for _, title := range titles {
		if v := r.searchAndScan(ctx, title); v != nil {
			return v
		}
	}
	return nil
}

func (r *Resolver) fromExcerptSearch(ctx context.Context, path string) *registry.Validated {
	if !r.Settings.WebSearch || r.Search == nil {
		return nil
	}

	for _, backend := range r.Docs.Backends() {
		text, err := r.Docs.FullText(path, backend)
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}
		query := excerptQuery(text, r.Settings.ExcerptChars)
		if query == "" {
			return nil
		}
		return r.searchAndScan(ctx, query)
	}
	return nil
}

// searchAndScan runs one web query and scans the ranked results. Result URLs
// themselves often embed the identifier, so each URL string is scanned
// before its page is fetched.
func (r *Resolver) searchAndScan(ctx context.Context, query string) *registry.Validated {
	urls, err := r.Search.Search(ctx, query, r.Settings.SearchResults)
	if err != nil {
		r.logf("search for %q failed: %v", query, err)
		return nil
	}

	for _, u := range urls {
		if v := r.tryText(ctx, u); v != nil {
			return v
		}
		page, err := r.Search.FetchPlainText(ctx, u)
		if err != nil {
			r.logf("fetching %s failed: %v", u, err)
			continue
		}
		if v := r.tryText(ctx, page); v != nil {
			return v
		}
	}
	return nil
}

// excerptQuery reduces document text to a search query: non-ASCII bytes
// become spaces, whitespace runs collapse, and the result is capped at n
// characters.
func excerptQuery(text string, n int) string {
	var b strings.Builder
	for _, r := range text {
		if r >= 0x20 && r < 0x7f {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	collapsed := strings.Join(strings.Fields(b.String()), " ")
	if n > 0 && len(collapsed) > n {
		collapsed = collapsed[:n]
	}
	return collapsed
}
