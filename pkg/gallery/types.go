package gallery

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"wallget/pkg/config"
)

// Page is one parsed listing page
type Page struct {
	Number  int
	Refs    []ImageReference
	HasMore bool
}

// ImageReference identifies one wallpaper on a listing page. Template is
// the image URL with its resolution token replaced by {resolution}.
type ImageReference struct {
	ID       string
	Template string
}

// DownloadLink is a fully resolved image URL and the file name it saves to
type DownloadLink struct {
	URL      string
	FileName string
}

// Selectors are the CSS selectors used to read a listing page
type Selectors struct {
	// Item matches one listing entry. Empty means the whole document.
	Item string
	// Link matches the download anchor inside an item.
	Link string
	// NextPage, when set, must match for the listing to continue.
	NextPage string
}

// SelectorsFromConfig returns the selectors configured for the gallery
func SelectorsFromConfig(cfg *config.GalleryConfig) Selectors {
	return Selectors{
		Item:     cfg.ItemSelector,
		Link:     cfg.LinkSelector,
		NextPage: cfg.NextPageSelector,
	}
}

// resolutionToken matches a trailing "_<W>x<H>.<ext>" in a URL path
var resolutionToken = regexp.MustCompile(`_\d+x\d+(\.[A-Za-z0-9]+)$`)

// NewImageReference derives a reference from an absolute image link
func NewImageReference(link *url.URL) ImageReference {
	raw := link.String()
	suffix := ""
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw, suffix = raw[:i], raw[i:]
	}

	template := resolutionToken.ReplaceAllString(raw, "_"+ResolutionPlaceholder+"$1") + suffix

	return ImageReference{
		ID:       referenceID(link.Path),
		Template: template,
	}
}

// referenceID is the file base up to the first underscore, or the base
// without extension when it has none
func referenceID(p string) string {
	base := path.Base(p)
	if i := strings.Index(base, "_"); i > 0 {
		return base[:i]
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// Resolve substitutes the resolution tag into the template
func (r ImageReference) Resolve(resolution string) DownloadLink {
	resolved := strings.ReplaceAll(r.Template, ResolutionPlaceholder, resolution)
	return DownloadLink{
		URL:      resolved,
		FileName: FileNameFromURL(resolved),
	}
}

// FileNameFromURL returns the final unescaped path segment of rawURL, or
// an empty string when the URL has none
func FileNameFromURL(rawURL string) string {
	var p string
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	} else {
		p = rawURL
		if i := strings.IndexAny(p, "?#"); i >= 0 {
			p = p[:i]
		}
		if unescaped, err := url.PathUnescape(p); err == nil {
			p = unescaped
		}
	}

	if p == "" || strings.HasSuffix(p, "/") {
		return ""
	}
	name := path.Base(p)
	if name == "." || name == "/" {
		return ""
	}
	return name
}
