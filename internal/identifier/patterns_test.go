package identifier

import (
	"strings"
	"testing"
)

func TestFindDOIs(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		version int
		want    []string
	}{
		{
			name:    "marked doi",
			text:    "DOI: 10.1103/PhysRev.47.777 some trailing text",
			version: 0,
			want:    []string{"10.1103/PhysRev.47.777"},
		},
		{
			name:    "marked doi with dot colon",
			text:    "doi.:10.1000/182\n",
			version: 0,
			want:    []string{"10.1000/182"},
		},
		{
			name:    "bare doi",
			text:    "as published in 10.1103/PhysRev.47.777 (1935)",
			version: 1,
			want:    []string{"10.1103/PhysRev.47.777"},
		},
		{
			name:    "doi glued to following letters",
			text:    "see 10.1063/1.2409490I.INTRODUCTION for details",
			version: 2,
			want:    []string{"10.1063/1.2409490"},
		},
		{
			name:    "doi.org url",
			text:    `<a href="https://doi.org/10.1103/PhysRev.47.777">`,
			version: 3,
			want:    []string{"10.1103/PhysRev.47.777"},
		},
		{
			name:    "exact match only",
			text:    "10.1103/PhysRev.47.777",
			version: 4,
			want:    []string{"10.1103/PhysRev.47.777"},
		},
		{
			name:    "exact match rejects surrounding text",
			text:    "the doi is 10.1103/PhysRev.47.777",
			version: 4,
			want:    nil,
		},
		{
			name:    "no match in plain prose",
			text:    "there is no identifier here",
			version: 1,
			want:    nil,
		},
		{
			name:    "empty input",
			text:    "",
			version: 0,
			want:    nil,
		},
		{
			name:    "version out of range",
			text:    "10.1103/PhysRev.47.777",
			version: 99,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindDOIs(tt.text, tt.version)
			if len(got) != len(tt.want) {
				t.Fatalf("FindDOIs() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("FindDOIs()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFindDOIsDoesNotCrossWhitespace(t *testing.T) {
	text := "10.1103/PhysRev.47.777 and more words after a space"
	for v := 0; v < NumDOIVersions(); v++ {
		for _, m := range FindDOIs(text, v) {
			if strings.ContainsAny(m, " \t\n") {
				t.Errorf("version %d: match %q crosses whitespace", v, m)
			}
		}
	}
}

func TestFindArXivIDs(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		version int
		want    []string
	}{
		{
			name:    "explicit marker",
			text:    "preprint arXiv:2407.03393v2 (2024)",
			version: 0,
			want:    []string{"2407.03393"},
		},
		{
			name:    "marker with spaces",
			text:    "arxiv : 1602.03837",
			version: 0,
			want:    []string{"1602.03837"},
		},
		{
			name:    "filename form",
			text:    "2106.15928v1.pdf",
			version: 1,
			want:    []string{"2106.15928"},
		},
		{
			name:    "exact form",
			text:    "2407.03393",
			version: 2,
			want:    []string{"2407.03393"},
		},
		{
			name:    "bare id without marker is not matched in prose",
			text:    "published in 2024 as 2407.03393 in proceedings",
			version: 0,
			want:    nil,
		},
		{
			name:    "legacy category form unsupported",
			text:    "arXiv:hep-th/9901001",
			version: 0,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindArXivIDs(tt.text, tt.version)
			if len(got) != len(tt.want) {
				t.Fatalf("FindArXivIDs() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("FindArXivIDs()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStandardise(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"already canonical", "10.1103/physrev.47.777", "10.1103/physrev.47.777"},
		{"mixed case folded", "10.1103/PhysRevLett.116.061102", "10.1103/physrevlett.116.061102"},
		{"marker stripped", "doi:10.1000/182", "10.1000/182"},
		{"colon separator", "10.1177:0146167297234003", "10.1177/0146167297234003"},
		{"not a doi", "totally not a doi", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Standardise(tt.raw); got != tt.want {
				t.Errorf("Standardise(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTrimTrailingGarbage(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"section header", "10.1063/1.2409490I.INTRODUCTION", "10.1063/1.2409490"},
		{"trailing punctuation", "10.1000/182.,", "10.1000/182"},
		{"closing paren", "10.1000/182)", "10.1000/182"},
		{"clean doi untouched", "10.1103/PhysRev.47.777", "10.1103/PhysRev.47.777"},
		{"parenthesised suffix kept", "10.1016/S0167-2789(00)00094-4", "10.1016/S0167-2789(00)00094-4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimTrailingGarbage(tt.raw); got != tt.want {
				t.Errorf("TrimTrailingGarbage(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFindAll(t *testing.T) {
	text := "DOI: 10.1103/PhysRev.47.777 see also arXiv:2407.03393"
	got := FindAll(text)
	if len(got) == 0 {
		t.Fatal("FindAll() returned no candidates")
	}

	// DOIs come before arXiv IDs regardless of text position.
	if got[0].Kind != KindDOI {
		t.Errorf("first candidate kind = %q, want %q", got[0].Kind, KindDOI)
	}
	if got[0].Raw != "10.1103/PhysRev.47.777" {
		t.Errorf("first candidate = %q", got[0].Raw)
	}

	var sawArXiv bool
	for _, c := range got {
		if c.Kind == KindArXiv {
			sawArXiv = true
			if c.Raw != "2407.03393" {
				t.Errorf("arXiv candidate = %q, want 2407.03393", c.Raw)
			}
		}
	}
	if !sawArXiv {
		t.Error("FindAll() missed the arXiv ID")
	}
}

func TestFindAllDeduplicates(t *testing.T) {
	text := "10.1000/182 10.1000/182 doi:10.1000/182"
	count := 0
	for _, c := range FindAll(text) {
		if c.Kind == KindDOI && c.Raw == "10.1000/182" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("duplicate DOI appeared %d times, want 1", count)
	}
}

func TestFindAllNeverPanics(t *testing.T) {
	inputs := []string{"", "\x00\xff\xfe", strings.Repeat("10.", 1000), "doi:", "arxiv:"}
	for _, in := range inputs {
		_ = FindAll(in) // must not panic
	}
}

func TestIsArXivID(t *testing.T) {
	valid := []string{"2407.03393", "1602.03837v3", "2106.15928"}
	for _, id := range valid {
		if !IsArXivID(id) {
			t.Errorf("IsArXivID(%q) = false, want true", id)
		}
	}
	invalid := []string{"hep-th/9901001", "10.1000/182", "2407", "2407.03393 extra"}
	for _, id := range invalid {
		if IsArXivID(id) {
			t.Errorf("IsArXivID(%q) = true, want false", id)
		}
	}
}
