package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallget/pkg/catalog"
)

// galleryServer serves a single listing page with three images. Images named
// in broken answer 500.
func galleryServer(t *testing.T, broken ...string) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/img/"):
			name := strings.TrimPrefix(r.URL.Path, "/img/")
			for _, b := range broken {
				if b == name {
					http.Error(w, "boom", http.StatusInternalServerError)
					return
				}
			}
			fmt.Fprint(w, "pixels")
		case strings.HasSuffix(r.URL.Path, "/index1.html"):
			fmt.Fprint(w, "<html><body>")
			for i := 1; i <= 3; i++ {
				fmt.Fprintf(w, `<div class="item"><div class="download"><a href="/img/%05d_wall_1920x1080.jpg">Download</a></div></div>`, i)
			}
			fmt.Fprint(w, "</body></html>")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// isolate keeps config files and .env from the host out of the run
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{"WALLGET_RESOLUTION", "WALLGET_LIMIT", "WALLGET_SORT", "WALLGET_BASE_URL", "WALLGET_OUTPUT_DIR"} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if e, ok := err.(*exitError); ok {
		return e.code
	}
	return -1
}

func TestListResolutions(t *testing.T) {
	out, _, err := execute(t, "--list-resolutions")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, catalog.Labels(), lines)
}

func TestRunDownloadsIntoPath(t *testing.T) {
	isolate(t)
	srv := galleryServer(t)
	dir := t.TempDir()

	out, _, err := execute(t, "--base-url", srv.URL, "--verbose", "--log-level", "error", dir)
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		_, statErr := os.Stat(filepath.Join(dir, fmt.Sprintf("%05d_wall_1920x1080.jpg", i)))
		assert.NoError(t, statErr)
	}
	assert.Contains(t, out, "Scanning Page 1...")
	assert.Contains(t, out, "Found 3 images.")
	assert.Contains(t, out, "Already had 0 images.")
}

func TestRunWithLimit(t *testing.T) {
	isolate(t)
	srv := galleryServer(t)
	dir := t.TempDir()

	_, _, err := execute(t, "--base-url", srv.URL, "--limit", "2", "--quiet", dir)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestConfigErrorsExitOne(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown resolution", []string{"--resolution", "123x45", dir}, `"123x45" is not a known resolution`},
		{"missing path", []string{filepath.Join(dir, "nope")}, "does not exist"},
		{"negative limit", []string{"--limit=-3", dir}, "is not a valid download limit"},
		{"bad sort", []string{"--sort", "size", dir}, `"size" is not a valid sort parameter`},
		{"zero concurrency", []string{"--concurrent=0", dir}, "concurrent downloads must be positive"},
		{"zero rate limit", []string{"--rate-limit=0", dir}, "requests per minute must be positive"},
		{"quiet and verbose", []string{"-q", "-v", dir}, "cannot be used together"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, exitConfig, exitCode(err))
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestFailOnError(t *testing.T) {
	isolate(t)
	srv := galleryServer(t, "00002_wall_1920x1080.jpg")

	_, errOut, err := execute(t, "--base-url", srv.URL, "--quiet", t.TempDir())
	require.NoError(t, err, "failures alone do not change the exit status")
	assert.Contains(t, errOut, "Failed: 00002_wall_1920x1080.jpg")

	_, _, err = execute(t, "--base-url", srv.URL, "--quiet", "--fail-on-error", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, exitFailures, exitCode(err))
	assert.Contains(t, err.Error(), "1 of 3 images failed")
}

func TestTooManyArgs(t *testing.T) {
	_, _, err := execute(t, "a", "b")
	require.Error(t, err)
	assert.Equal(t, -1, exitCode(err))
}
