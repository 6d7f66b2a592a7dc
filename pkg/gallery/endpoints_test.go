package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallget/pkg/config"
)

func TestListingURL(t *testing.T) {
	const pattern = "/wallpaper/downloads/{sort}/{resolution}/index{page}.html"

	tests := []struct {
		name     string
		base     string
		sort     config.SortMode
		fragment string
		page     int
		want     string
	}{
		{
			name:     "first page by date",
			base:     "https://interfacelift.com",
			sort:     config.SortDate,
			fragment: "widescreen_16:9/1920x1080",
			page:     1,
			want:     "https://interfacelift.com/wallpaper/downloads/date/widescreen_16:9/1920x1080/index1.html",
		},
		{
			name:     "ratings with trailing slash base",
			base:     "http://127.0.0.1:8080/",
			sort:     config.SortRatings,
			fragment: "2560x1440",
			page:     12,
			want:     "http://127.0.0.1:8080/wallpaper/downloads/ratings/2560x1440/index12.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ListingURL(tt.base, pattern, tt.sort, tt.fragment, tt.page)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListingURLErrors(t *testing.T) {
	_, err := ListingURL("https://g.test", "/list/{page}", config.SortDate, "x", 0)
	assert.Error(t, err)

	_, err = ListingURL("https://g.test", "/list/all", config.SortDate, "x", 1)
	assert.ErrorContains(t, err, "{page}")

	_, err = ListingURL("not a url", "/list/{page}", config.SortDate, "x", 1)
	assert.ErrorContains(t, err, "invalid gallery base URL")
}

func TestSortChangesEndpointOnly(t *testing.T) {
	const pattern = "/{sort}/{resolution}/{page}"

	byDate, err := ListingURL("https://g.test", pattern, config.SortDate, "1920x1080", 3)
	require.NoError(t, err)
	byRatings, err := ListingURL("https://g.test", pattern, config.SortRatings, "1920x1080", 3)
	require.NoError(t, err)

	assert.NotEqual(t, byDate, byRatings)
	assert.Equal(t, "https://g.test/date/1920x1080/3", byDate)
	assert.Equal(t, "https://g.test/ratings/1920x1080/3", byRatings)
}
