package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ShowAllLinks returns the absolute URLs of the "Show all N dividends on
// <day>" links, in page order without repeats
func ShowAllLinks(doc *goquery.Document, origin string) []string {
	var links []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(i int, a *goquery.Selection) {
		text := JoinedText(a)
		if !strings.Contains(text, "Show all") || !strings.Contains(text, "dividends on") {
			return
		}
		href, _ := a.Attr("href")
		link := ResolveURL(origin, href)
		if link == "" || seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})
	return links
}

// ResolveURL makes href absolute against origin. Absolute hrefs are kept.
func ResolveURL(origin, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	base, err := url.Parse(origin)
	if err != nil || base.Host == "" {
		return href
	}
	return base.ResolveReference(ref).String()
}

// PageReady reports whether a rendered calendar page holds data worth
// extracting: table rows, a day heading or "Show all" links
func PageReady(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	if doc.Find(tableRowSelector).Length() > 0 {
		return true
	}
	if len(ShowAllLinks(doc, "")) > 0 {
		return true
	}
	return len(DayHeadings(doc)) > 0
}
