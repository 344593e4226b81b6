package seo

import (
	"net/url"
	"path"
	"strings"
)

// excludedSegments mark listing pages rather than articles.
var excludedSegments = []string{"/category/", "/tag/", "/content_type/"}

// KeyFromURL normalizes a provider page URL into a ContentKey. It returns
// false when the URL does not point to a leaf article under prefix.
func KeyFromURL(rawURL, prefix string) (ContentKey, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	return KeyFromPath(u.Path, prefix)
}

// KeyFromPath validates and normalizes a page path. Query strings and
// fragments must already be removed.
func KeyFromPath(p, prefix string) (ContentKey, bool) {
	if p == "" {
		return "", false
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	prefix = normalizePrefix(prefix)
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}
	if p == prefix || p == strings.TrimSuffix(prefix, "/") {
		return "", false
	}
	for _, seg := range excludedSegments {
		if strings.Contains(p, seg) {
			return "", false
		}
	}
	return ContentKey(p), true
}

// KeyForSlug builds the key of an article slug under prefix.
func KeyForSlug(prefix, slug string) ContentKey {
	return ContentKey(normalizePrefix(prefix) + strings.Trim(slug, "/"))
}

// Slug returns the last path element of the key.
func (k ContentKey) Slug(prefix string) string {
	s := strings.TrimPrefix(string(k), normalizePrefix(prefix))
	if s == string(k) {
		return path.Base(strings.TrimSuffix(s, "/"))
	}
	return strings.Trim(s, "/")
}

func normalizePrefix(prefix string) string {
	if prefix == "" {
		return "/"
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix
}
