// Package identifier recognizes DOI and arXiv identifiers in text.
package identifier

// Kind classifies an identifier candidate.
type Kind string

const (
	// KindDOI is a Digital Object Identifier (10.<registrant>/<suffix>).
	KindDOI Kind = "doi"
	// KindArXiv is a post-2007 arXiv identifier (YYMM.NNNNN[vN]).
	KindArXiv Kind = "arxiv"
)

// Candidate is an unvalidated identifier-shaped substring found in text.
// Candidates are ephemeral; only validated identifiers are persisted.
type Candidate struct {
	Raw  string
	Kind Kind
}

// FindAll scans text for identifier candidates, DOIs first, then arXiv IDs.
// Within each kind the pattern ladder runs strictest to loosest, and matches
// are returned in order of appearance with duplicates removed. Malformed or
// empty input yields an empty slice.
func FindAll(text string) []Candidate {
	var out []Candidate
	seen := make(map[string]bool)

	add := func(raw string, kind Kind) {
		key := string(kind) + "\x00" + raw
		if raw == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, Candidate{Raw: raw, Kind: kind})
	}

	for v := range doiPatterns {
		for _, raw := range FindDOIs(text, v) {
			add(raw, KindDOI)
		}
	}
	for v := range arxivPatterns {
		for _, raw := range FindArXivIDs(text, v) {
			add(raw, KindArXiv)
		}
	}
	return out
}
