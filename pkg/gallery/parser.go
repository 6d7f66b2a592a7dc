package gallery

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseListing reads a listing page and returns its image references in
// document order. Relative links are resolved against pageURL.
func ParseListing(r io.Reader, pageURL string, sel Selectors) (*Page, error) {
	if sel.Link == "" {
		return nil, &Error{Type: ErrorTypeParsing, Message: "link selector is required"}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("invalid page URL %q", pageURL),
			Err:     err,
		}
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &Error{
			Type:    ErrorTypeParsing,
			Message: fmt.Sprintf("failed to parse listing HTML: %v", err),
			Err:     err,
		}
	}

	page := &Page{}

	collect := func(link *goquery.Selection) {
		href, ok := link.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}
		abs, err := base.Parse(href)
		if err != nil {
			return
		}
		page.Refs = append(page.Refs, NewImageReference(abs))
	}

	if sel.Item == "" {
		doc.Find(sel.Link).Each(func(_ int, s *goquery.Selection) {
			collect(s)
		})
	} else {
		doc.Find(sel.Item).Each(func(_ int, s *goquery.Selection) {
			collect(s.Find(sel.Link).First())
		})
	}

	if sel.NextPage != "" {
		page.HasMore = len(page.Refs) > 0 && doc.Find(sel.NextPage).Length() > 0
	} else {
		page.HasMore = len(page.Refs) > 0
	}

	return page, nil
}
