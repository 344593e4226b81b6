package seo

import (
	"errors"
	"fmt"
)

// ErrInvalidFilter reports a malformed success-set query.
var ErrInvalidFilter = errors.New("invalid success filter")

// SuccessFilter selects a subset of the scored corpus.
type SuccessFilter struct {
	MinRank     Rank        `json:"minRank"`
	Category    string      `json:"category,omitempty"`
	ContentType ContentType `json:"contentType,omitempty"`
	Limit       int         `json:"limit,omitempty"` // 0 means unlimited
}

// Validate rejects unknown ranks, content types and negative limits.
func (f SuccessFilter) Validate() error {
	if !f.MinRank.Valid() {
		return fmt.Errorf("%w: unknown minimum rank %q", ErrInvalidFilter, f.MinRank)
	}
	if f.ContentType != ContentTypeNone && !contentTypes[f.ContentType] {
		return fmt.Errorf("%w: unknown content type %q", ErrInvalidFilter, f.ContentType)
	}
	if f.Limit < 0 {
		return fmt.Errorf("%w: negative limit %d", ErrInvalidFilter, f.Limit)
	}
	return nil
}

// WithDefaults fills an empty MinRank with A.
func (f SuccessFilter) WithDefaults() SuccessFilter {
	if f.MinRank == "" {
		f.MinRank = RankA
	}
	return f
}

// Matches reports whether a scored item passes the rank and facet filters.
func (f SuccessFilter) Matches(s ContentScore) bool {
	if !s.Rank.AtLeast(f.MinRank) {
		return false
	}
	if f.Category != "" && s.Facets.Category != f.Category {
		return false
	}
	if f.ContentType != ContentTypeNone && s.Facets.ContentType != f.ContentType {
		return false
	}
	return true
}

// Signature is the cache key of the filter.
func (f SuccessFilter) Signature() string {
	category := f.Category
	if category == "" {
		category = "all"
	}
	contentType := string(f.ContentType)
	if contentType == "" {
		contentType = "all"
	}
	return fmt.Sprintf("%s|%s|%s|%d", category, contentType, f.MinRank, f.Limit)
}
