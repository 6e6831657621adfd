package registry

import (
	"context"

	"github.com/refsolve/refsolve/internal/identifier"
)

// Validation records how an identifier was confirmed. When web validation is
// disabled only the syntactic check ran and Web is false; otherwise Citation
// holds the raw registry record and, for candidates that arrived as arXiv
// IDs, ArXiv retains the registry entry as provenance.
type Validation struct {
	Web      bool        `json:"web_validated"`
	Citation string      `json:"citation,omitempty"`
	ArXiv    *ArXivEntry `json:"arxiv,omitempty"`
}

// ValidateOptions controls a single validation attempt.
type ValidateOptions struct {
	// WebValidation enables registry lookups. When false any syntactically
	// plausible candidate is accepted immediately.
	WebValidation bool

	// PreferDOI replaces a validated arXiv ID by a DOI: the publisher DOI
	// from the arXiv record when present, else the arXiv-issued one.
	PreferDOI bool

	// DOIFormat is the Accept header for doi.org lookups.
	DOIFormat string
}

// Validated is a confirmed identifier in its normalized form.
type Validated struct {
	Identifier string
	Kind       identifier.Kind
	Info       *Validation
}

// Validate checks a raw candidate of the claimed kind against the proper
// registry. On success the normalized identifier supersedes the candidate.
// Rejections return ErrNotFound; transport problems return ErrNetwork and
// should be treated as a rejection of this candidate only.
//
// For DOIs a failed lookup is retried exactly once with a trimmed variant
// of the candidate, to recover from citation artifacts glued onto the
// suffix by text extraction.
func (c *Client) Validate(ctx context.Context, raw string, kind identifier.Kind, opt ValidateOptions) (*Validated, error) {
	switch kind {
	case identifier.KindDOI:
		return c.validateDOI(ctx, raw, opt)
	case identifier.KindArXiv:
		return c.validateArXiv(ctx, raw, opt)
	default:
		return nil, ErrNotFound
	}
}

func (c *Client) validateDOI(ctx context.Context, raw string, opt ValidateOptions) (*Validated, error) {
	std := identifier.Standardise(raw)
	if std == "" {
		return nil, ErrNotFound
	}

	if !opt.WebValidation {
		return &Validated{Identifier: std, Kind: identifier.KindDOI, Info: &Validation{Web: false}}, nil
	}

	citation, err := c.LookupDOI(ctx, std, opt.DOIFormat)
	if err == nil {
		return &Validated{
			Identifier: std,
			Kind:       identifier.KindDOI,
			Info:       &Validation{Web: true, Citation: citation},
		}, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	// Single trim-and-retry before giving up on this candidate.
	trimmed := identifier.Standardise(identifier.TrimTrailingGarbage(raw))
	if trimmed == "" || trimmed == std {
		return nil, err
	}
	citation, retryErr := c.LookupDOI(ctx, trimmed, opt.DOIFormat)
	if retryErr != nil {
		return nil, retryErr
	}
	return &Validated{
		Identifier: trimmed,
		Kind:       identifier.KindDOI,
		Info:       &Validation{Web: true, Citation: citation},
	}, nil
}

func (c *Client) validateArXiv(ctx context.Context, raw string, opt ValidateOptions) (*Validated, error) {
	if !identifier.IsArXivID(raw) {
		return nil, ErrNotFound
	}
	id := stripVersion(raw)

	if !opt.WebValidation {
		return &Validated{Identifier: id, Kind: identifier.KindArXiv, Info: &Validation{Web: false}}, nil
	}

	entry, err := c.LookupArXiv(ctx, id)
	if err != nil {
		return nil, err
	}

	arxivResult := &Validated{
		Identifier: id,
		Kind:       identifier.KindArXiv,
		Info:       &Validation{Web: true, ArXiv: entry},
	}
	if !opt.PreferDOI {
		return arxivResult, nil
	}

	if entry.DOI != "" {
		doi := identifier.Standardise(entry.DOI)
		if doi != "" {
			citation, cerr := c.LookupDOI(ctx, doi, opt.DOIFormat)
			if cerr == nil {
				return &Validated{
					Identifier: doi,
					Kind:       identifier.KindDOI,
					Info:       &Validation{Web: true, Citation: citation, ArXiv: entry},
				}, nil
			}
		}
		// The publisher DOI did not validate; keep the arXiv result.
		return arxivResult, nil
	}

	return &Validated{
		Identifier: entry.DefaultDOI(),
		Kind:       identifier.KindDOI,
		Info:       &Validation{Web: true, ArXiv: entry},
	}, nil
}
