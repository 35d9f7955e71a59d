// Package goquery implements page parsing for the crawler using goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/RadchaneepornC/officebuddy"
)

// Sidebar defaults.
const (
	DefaultMinItems  = 10
	DefaultExtension = ".html"
)

// Ensure SidebarSelector implements officebuddy.LinkSelector at compile time.
var _ officebuddy.LinkSelector = (*SidebarSelector)(nil)

// SidebarSelector finds page links in a site's sidebar navigation. The
// sidebar is the first ul element holding at least MinItems li elements,
// which tells navigation menus apart from lists inside page content.
type SidebarSelector struct {
	MinItems int

	// Extension is the path suffix a link must have to count as a page.
	Extension string
}

// NewSidebarSelector creates a SidebarSelector with the default thresholds.
func NewSidebarSelector() *SidebarSelector {
	return &SidebarSelector{
		MinItems:  DefaultMinItems,
		Extension: DefaultExtension,
	}
}

// SelectLinks returns the sidebar's page links resolved against baseURL,
// without fragments, deduplicated in first-seen order.
func (s *SidebarSelector) SelectLinks(html string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, officebuddy.Errorf(officebuddy.EINVALID, "failed to parse HTML: %v", err)
	}

	minItems := s.MinItems
	if minItems <= 0 {
		minItems = DefaultMinItems
	}
	ext := s.Extension
	if ext == "" {
		ext = DefaultExtension
	}

	sidebar := doc.Find("ul").FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return sel.Find("li").Length() >= minItems
	}).First()
	if sidebar.Length() == 0 {
		return nil, officebuddy.Errorf(officebuddy.ELAYOUT, "sidebar menu not found, page layout may have changed")
	}

	seen := make(map[string]bool)
	var links []string
	sidebar.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}
		u, err := url.Parse(resolved)
		if err != nil || !strings.HasSuffix(u.Path, ext) {
			return
		}

		if seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links, nil
}
