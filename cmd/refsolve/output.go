package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/refsolve/refsolve/internal/resolve"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that report an action.
type StatusResponse struct {
	Status     string `json:"status"`
	Path       string `json:"path,omitempty"`
	Identifier string `json:"identifier,omitempty"`
}

// formatResultHuman renders one resolution result as a single line.
func formatResultHuman(res resolve.Result) string {
	if !res.Found() {
		reason := res.Error
		if reason == "" {
			reason = "no identifier found"
		}
		return fmt.Sprintf("%s: %s", res.Path, reason)
	}
	return fmt.Sprintf("%s: %s [%s, via %s]", res.Path, res.Identifier, res.Kind, res.Method)
}

// formatResultsSave renders results for --save output: one identifier and
// path per line, tab separated, resolved files only.
func formatResultsSave(results []resolve.Result) string {
	var b strings.Builder
	for _, res := range results {
		if !res.Found() {
			continue
		}
		fmt.Fprintf(&b, "%s\t%s\n", res.Identifier, res.Path)
	}
	return b.String()
}

// identifierList joins the resolved identifiers, one per line, for the
// clipboard.
func identifierList(results []resolve.Result) string {
	var ids []string
	for _, res := range results {
		if res.Found() {
			ids = append(ids, res.Identifier)
		}
	}
	return strings.Join(ids, "\n")
}
