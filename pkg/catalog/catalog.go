package catalog

import "sort"

// DefaultResolution is the resolution used when none is requested
const DefaultResolution = "1920x1080"

// resolutionPaths maps a resolution label to the path fragment the gallery
// uses for its per-resolution listings
var resolutionPaths = map[string]string{
	// 16:10
	"1280x800":  "widescreen_16:10/1280x800",
	"1440x900":  "widescreen_16:10/1440x900",
	"1680x1050": "widescreen_16:10/1680x1050",
	"1920x1200": "widescreen_16:10/1920x1200",
	"2560x1600": "widescreen_16:10/2560x1600",
	"2880x1800": "widescreen_16:10/2880x1800",
	"3840x2400": "widescreen_16:10/3840x2400",

	// 16:9
	"1280x720":  "widescreen_16:9/1280x720",
	"1366x768":  "widescreen_16:9/1366x768",
	"1600x900":  "widescreen_16:9/1600x900",
	"1920x1080": "widescreen_16:9/1920x1080",
	"2560x1440": "widescreen_16:9/2560x1440",
	"3200x1800": "widescreen_16:9/3200x1800",
	"3840x2160": "widescreen_16:9/3840x2160",
	"5120x2880": "widescreen_16:9/5120x2880",

	// 21:9
	"2560x1080": "widescreen_21:9/2560x1080",
	"3440x1440": "widescreen_21:9/3440x1440",

	// 4:3 and 5:4
	"1024x768":  "fullscreen_4:3/1024x768",
	"1280x960":  "fullscreen_4:3/1280x960",
	"1600x1200": "fullscreen_4:3/1600x1200",
	"1280x1024": "fullscreen_5:4/1280x1024",

	// Multi-monitor
	"3200x1200": "2_screens/3200x1200",
	"3840x1080": "2_screens/3840x1080",
	"3840x1200": "2_screens/3840x1200",
	"5120x1440": "2_screens/5120x1440",
	"5760x1080": "3_screens/5760x1080",
	"5760x1200": "3_screens/5760x1200",
}

// Lookup returns the listing path fragment for a resolution label
func Lookup(label string) (string, bool) {
	fragment, ok := resolutionPaths[label]
	return fragment, ok
}

// Has reports whether the label is a known resolution
func Has(label string) bool {
	_, ok := resolutionPaths[label]
	return ok
}

// Labels returns every known resolution label in sorted order
func Labels() []string {
	labels := make([]string, 0, len(resolutionPaths))
	for label := range resolutionPaths {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
