// Package htmltext turns scraped HTML into text the classifier can read.
// Parsing is tolerant and best-effort: badly nested or truncated markup may
// leak fragments into the output, which is an accepted limitation of
// scraping arbitrary pages.
package htmltext

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const defaultMinContentChars = 100

// Non-content regions dropped before text extraction. Plain mode also drops
// asides; link mode keeps them because sidebars often hold article lists.
var (
	skipPlain = "script, style, noscript, nav, footer, header, aside"
	skipLinks = "script, style, noscript, nav, footer, header"

	spaceRun = regexp.MustCompile(`\s+`)
)

// Plain strips non-content tags and returns whitespace-collapsed text.
func Plain(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find(skipPlain).Remove()
	return collapse(doc.Text()), nil
}

// WithLinks behaves like Plain but rewrites every anchor into an inline
// [text](absoluteURL) token, resolving relative hrefs against baseURL first.
// This lets the model recover exact article URLs from page text instead of
// guessing them.
func WithLinks(rawHTML, baseURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find(skipLinks).Remove()

	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		abs := resolveHref(base, href)
		text := collapse(a.Text())
		if abs == "" || text == "" {
			return
		}
		a.SetText(fmt.Sprintf("[%s](%s)", text, abs))
	})

	return collapse(doc.Text()), nil
}

// LongEnough rejects extracted text shorter than min characters before any
// LLM call, so empty or placeholder pages never burn quota. A min of zero
// falls back to the default threshold.
func LongEnough(text string, min int) bool {
	if min <= 0 {
		min = defaultMinContentChars
	}
	return len(strings.TrimSpace(text)) >= min
}

func resolveHref(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	if base == nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func collapse(s string) string {
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
