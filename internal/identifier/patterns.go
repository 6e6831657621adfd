package identifier

import (
	"regexp"
	"strings"
)

// doiPatterns is an ordered ladder of DOI regexps, strictest to loosest:
//
//	0: "doi:"-marked, e.g. "DOI: 10.1234/abc"
//	1: bare DOI followed by a boundary character
//	2: DOI glued to following letters, relying on a numeric tail
//	3: DOI inside a doi.org-style URL
//	4: string that is exactly a DOI (metadata fields, file stems)
//
// The suffix character class is permissive on purpose: real-world DOIs carry
// parentheses, semicolons and colons, and extracted text often glues citation
// artifacts onto them. Trailing garbage is handled by TrimTrailingGarbage.
var doiPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)doi[\s.:]{0,2}(10\.\d{4}[\d:.\-/a-z]+)(?:[\s"<]|$)`),
	regexp.MustCompile(`(?i)(10\.\d{4}[\d:.\-/a-z]+)(?:[\s"<]|$)`),
	regexp.MustCompile(`(?i)(10\.\d{4}[:.\-/a-z]+[:.\-\d]+)(?:[\sa-z"<]|$)`),
	regexp.MustCompile(`(?i)https?://[ -~]*doi[ -~]*/(10\.\d{4,9}/[-._;()/:a-z0-9]+)(?:[\s"<]|$)`),
	regexp.MustCompile(`(?i)^(10\.\d{4,9}/[-._;()/:a-z0-9]+)$`),
}

// arxivPatterns is the ordered ladder for post-2007 arXiv identifiers:
//
//	0: explicit "arXiv:" marker
//	1: bare ID immediately followed by ".pdf" (file names)
//	2: string that is exactly an arXiv ID
//
// Bare numeric forms without a marker are only accepted in the exact-match
// case; pre-2007 category-prefixed identifiers are not supported.
var arxivPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)arxiv\s*:\s*(\d{4}\.\d+)(?:v\d+)?(?:[\s"<]|$)`),
	regexp.MustCompile(`(?i)(\d{4}\.\d+)(?:v\d+)?\.pdf`),
	regexp.MustCompile(`(?i)^(\d{4}\.\d+)(?:v\d+)?$`),
}

// arxiv2007 matches a complete post-2007 arXiv identifier.
var arxiv2007 = regexp.MustCompile(`(?i)^(\d{4}\.\d+)(?:v\d+)?$`)

// doiCanonical decomposes a DOI-shaped string into registrant and suffix,
// tolerating a "doi" marker and non-standard separators.
var doiCanonical = regexp.MustCompile(`(?:doi[:/\s]{0,3})?10[.](\d{2,9})[:\-/\s\]]([-._;()/:a-z0-9]+[a-z0-9])(?:[\s"<.]|$)`)

// NumDOIVersions reports the length of the DOI pattern ladder.
func NumDOIVersions() int { return len(doiPatterns) }

// NumArXivVersions reports the length of the arXiv pattern ladder.
func NumArXivVersions() int { return len(arxivPatterns) }

// FindDOIs returns all DOI-shaped substrings matched by ladder version v,
// in order of appearance. Out-of-range versions yield nil.
func FindDOIs(text string, v int) []string {
	if v < 0 || v >= len(doiPatterns) || text == "" {
		return nil
	}
	return captures(doiPatterns[v], text)
}

// FindArXivIDs returns all arXiv-shaped substrings matched by ladder
// version v, in order of appearance. Out-of-range versions yield nil.
func FindArXivIDs(text string, v int) []string {
	if v < 0 || v >= len(arxivPatterns) || text == "" {
		return nil
	}
	return captures(arxivPatterns[v], text)
}

func captures(re *regexp.Regexp, text string) []string {
	ms := re.FindAllStringSubmatch(text, -1)
	if len(ms) == 0 {
		return nil
	}
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m[1])
	}
	return out
}

// Standardise normalizes a DOI-shaped string to the canonical lower-case
// "10.<registrant>/<suffix>" form used by the resolution registry. It
// tolerates markers ("doi:"), mixed case, and non-standard separators.
// Returns "" if the input does not decompose as a DOI.
func Standardise(raw string) string {
	m := doiCanonical.FindStringSubmatch(strings.ToLower(raw))
	if m == nil {
		return ""
	}
	return "10." + m[1] + "/" + m[2]
}

// IsArXivID reports whether s is exactly a post-2007 arXiv identifier,
// with an optional version suffix.
func IsArXivID(s string) bool {
	return arxiv2007.MatchString(s)
}

// sectionTail matches an upper-case run (a section header or similar
// citation artifact) glued directly after the final digit of a suffix,
// e.g. the "I.INTRODUCTION" in "10.1063/1.2409490I.INTRODUCTION".
var sectionTail = regexp.MustCompile(`([0-9])((?:[A-Z][A-Za-z]*\.?)+)$`)

// TrimTrailingGarbage strips trailing punctuation and glued-on section
// headers from a candidate. It is only consulted after the untrimmed form
// has failed validation, so an over-eager trim can never lose a good match.
func TrimTrailingGarbage(raw string) string {
	s := strings.TrimRight(raw, `.,;:'")]`)
	if m := sectionTail.FindStringSubmatchIndex(s); m != nil {
		s = s[:m[3]]
	}
	return s
}
