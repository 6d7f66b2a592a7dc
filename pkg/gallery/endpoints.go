package gallery

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"wallget/pkg/config"
)

// Placeholders understood by listing path patterns and reference templates
const (
	SortPlaceholder       = "{sort}"
	ResolutionPlaceholder = "{resolution}"
	PagePlaceholder       = "{page}"
)

// ListingURL builds the absolute URL of a listing page. The pattern is a
// path relative to base with {sort}, {resolution} and {page} placeholders;
// page numbers start at 1.
func ListingURL(base, pattern string, sort config.SortMode, fragment string, page int) (string, error) {
	if page < 1 {
		return "", fmt.Errorf("page numbers start at 1, got %d", page)
	}
	if !strings.Contains(pattern, PagePlaceholder) {
		return "", errors.New("listing path must contain a {page} placeholder")
	}

	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid gallery base URL %q", base)
	}

	path := strings.NewReplacer(
		SortPlaceholder, sort.String(),
		ResolutionPlaceholder, fragment,
		PagePlaceholder, strconv.Itoa(page),
	).Replace(pattern)

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return strings.TrimRight(u.String(), "/") + path, nil
}
