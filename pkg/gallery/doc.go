// Package gallery talks to a paginated wallpaper gallery.
//
// It builds listing page URLs from a path pattern, fetches and parses those
// pages with goquery, and turns each listed image into an ImageReference
// whose template can be resolved to a DownloadLink for any resolution.
//
//	client := gallery.NewClient(time.Minute, log)
//	pageURL, _ := gallery.ListingURL(base, pattern, config.SortDate, "widescreen_16:9/1920x1080", 1)
//	page, err := client.FetchPage(ctx, pageURL)
//	if gallery.IsNotFound(err) {
//	    // past the last page
//	}
//	for _, ref := range page.Refs {
//	    link := ref.Resolve("1920x1080")
//	    fmt.Println(link.FileName)
//	}
package gallery
