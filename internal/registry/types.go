package registry

import (
	"regexp"
	"strings"
)

// arxivFeed is the Atom envelope returned by the arXiv API.
type arxivFeed struct {
	Entries []ArXivEntry `xml:"entry"`
}

// ArXivEntry is one Atom entry from the arXiv metadata API. The arXiv
// extension fields (DOI, journal reference) live in their own namespace.
type ArXivEntry struct {
	ID         string        `xml:"id" json:"id"`
	Title      string        `xml:"title" json:"title"`
	Summary    string        `xml:"summary" json:"summary,omitempty"`
	Published  string        `xml:"published" json:"published,omitempty"`
	Authors    []ArXivAuthor `xml:"author" json:"authors,omitempty"`
	DOI        string        `xml:"http://arxiv.org/schemas/atom doi" json:"doi,omitempty"`
	JournalRef string        `xml:"http://arxiv.org/schemas/atom journal_ref" json:"journal_ref,omitempty"`
}

// ArXivAuthor is an author element of an Atom entry.
type ArXivAuthor struct {
	Name string `xml:"name" json:"name"`
}

var versionSuffix = regexp.MustCompile(`v\d+$`)

// CanonicalID extracts the bare identifier (no version, no URL prefix)
// from the entry's Atom ID, e.g. "http://arxiv.org/abs/2407.03393v2"
// becomes "2407.03393".
func (e *ArXivEntry) CanonicalID() string {
	id := e.ID
	if i := strings.LastIndex(id, "/abs/"); i >= 0 {
		id = id[i+len("/abs/"):]
	}
	return stripVersion(id)
}

// DefaultDOI returns the arXiv-issued DOI for this entry, used when the
// record carries no publisher DOI.
func (e *ArXivEntry) DefaultDOI() string {
	return "10.48550/arXiv." + e.CanonicalID()
}

func stripVersion(id string) string {
	return versionSuffix.ReplaceAllString(id, "")
}
