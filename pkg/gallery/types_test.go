package gallery

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallget/pkg/config"
)

func TestNewImageReference(t *testing.T) {
	tests := []struct {
		name         string
		link         string
		wantID       string
		wantTemplate string
	}{
		{
			name:         "resolution token",
			link:         "http://g.test/w/04242_nightfall_1920x1080.jpg",
			wantID:       "04242",
			wantTemplate: "http://g.test/w/04242_nightfall_{resolution}.jpg",
		},
		{
			name:         "no resolution token",
			link:         "http://g.test/w/04242_nightfall.jpg",
			wantID:       "04242",
			wantTemplate: "http://g.test/w/04242_nightfall.jpg",
		},
		{
			name:         "no underscore",
			link:         "http://g.test/w/sunrise.png",
			wantID:       "sunrise",
			wantTemplate: "http://g.test/w/sunrise.png",
		},
		{
			name:         "query kept",
			link:         "http://g.test/w/7_x_2560x1440.jpeg?token=1",
			wantID:       "7",
			wantTemplate: "http://g.test/w/7_x_{resolution}.jpeg?token=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.link)
			require.NoError(t, err)

			ref := NewImageReference(u)
			assert.Equal(t, tt.wantID, ref.ID)
			assert.Equal(t, tt.wantTemplate, ref.Template)
		})
	}
}

func TestResolve(t *testing.T) {
	ref := ImageReference{ID: "04242", Template: "http://g.test/w/04242_nightfall_{resolution}.jpg"}

	link := ref.Resolve("2560x1440")
	assert.Equal(t, "http://g.test/w/04242_nightfall_2560x1440.jpg", link.URL)
	assert.Equal(t, "04242_nightfall_2560x1440.jpg", link.FileName)

	// The same reference resolves identically every time
	assert.Equal(t, link, ref.Resolve("2560x1440"))
}

func TestFileNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"http://g.test/w/a.jpg", "a.jpg"},
		{"http://g.test/w/a.jpg?x=1#frag", "a.jpg"},
		{"http://g.test/w/blue%20sky.jpg", "blue sky.jpg"},
		{"http://g.test/w/", ""},
		{"http://g.test", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, FileNameFromURL(tt.url))
		})
	}
}

func TestSelectorsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Gallery.NextPageSelector = "a.next"

	sel := SelectorsFromConfig(&cfg.Gallery)
	assert.Equal(t, cfg.Gallery.ItemSelector, sel.Item)
	assert.Equal(t, cfg.Gallery.LinkSelector, sel.Link)
	assert.Equal(t, "a.next", sel.NextPage)
}
