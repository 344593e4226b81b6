package seo

import "strings"

// ContentType is the closed set of editorial content types.
type ContentType string

const (
	ContentTypeNone      ContentType = ""
	ContentTypeKnowledge ContentType = "knowledge"
	ContentTypeResearch  ContentType = "research"
	ContentTypeHowTo     ContentType = "howto"
	ContentTypeCaseStudy ContentType = "casestudy"
	ContentTypeInterview ContentType = "interview"
	ContentTypeNews      ContentType = "news"
)

var contentTypes = map[ContentType]bool{
	ContentTypeKnowledge: true,
	ContentTypeResearch:  true,
	ContentTypeHowTo:     true,
	ContentTypeCaseStudy: true,
	ContentTypeInterview: true,
	ContentTypeNews:      true,
}

// ParseContentType normalizes s; ok is false for unknown non-empty values.
func ParseContentType(s string) (ContentType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	if s == "" {
		return ContentTypeNone, true
	}
	ct := ContentType(s)
	if contentTypes[ct] {
		return ct, true
	}
	return ContentTypeNone, false
}

// Facets are the optional typed attributes of a content item.
type Facets struct {
	Category    string      `json:"category,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	ContentType ContentType `json:"contentType,omitempty"`
}

// NewFacets builds facets from raw store values. The first category is used;
// blank tags are dropped and an unknown content type is cleared. valid is
// false when the content type had to be cleared.
func NewFacets(categories []string, tags []string, contentType string) (f Facets, valid bool) {
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			f.Category = c
			break
		}
	}
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			f.Tags = append(f.Tags, t)
		}
	}
	f.ContentType, valid = ParseContentType(contentType)
	return f, valid
}
