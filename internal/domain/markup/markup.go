// Package markup holds the goquery helpers shared by the pattern and style
// miners. Article bodies are HTML fragments stored by the CMS.
package markup

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is an article body handed to the miners, in score order.
type Document struct {
	Slug     string
	Title    string
	SEOScore int
	Markup   string
}

// Parse builds a document from an HTML fragment. Malformed markup is
// tolerated; an unreadable input yields an empty document.
func Parse(html string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}
	return doc
}

// Text returns the trimmed text of a selection with nested markup removed.
func Text(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}

// PlainText is the tag-stripped text of the whole fragment.
func PlainText(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find("body").Text())
}

// SpacedText joins every text node with single spaces, skipping script and
// style elements, so adjacent blocks do not run together.
func SpacedText(doc *goquery.Document) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			parts = append(parts, n.Data)
		case n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style"):
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// Len counts characters, not bytes.
func Len(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate cuts s to at most n characters.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}

// Paragraphs returns the text of every <p> longer than minLen characters.
func Paragraphs(doc *goquery.Document, minLen int) []string {
	var out []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := Text(s); Len(text) > minLen {
			out = append(out, text)
		}
	})
	return out
}

// Count returns the number of elements matching selector.
func Count(doc *goquery.Document, selector string) int {
	return doc.Find(selector).Length()
}
