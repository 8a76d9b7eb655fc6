package templates

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/storemap/internal/core"
	"github.com/a-h/templ"
)

// DashboardData is everything the dashboard page shows.
type DashboardData struct {
	Snapshot     *core.Snapshot
	Notification *core.Notification
	Lookup       *core.LookupResult
	Search       *core.StoreSearch
	PostalCode   string
	StoreQuery   string
	History      []core.UploadRecord
}

// Dashboard renders the full page.
func Dashboard(data DashboardData) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>Store Locator</title></head><body><main class="container">`)
		h.raw(`<h1>Store Locator</h1>`)

		if data.Notification != nil {
			h.component(NotificationAlert(*data.Notification))
		}

		h.raw(`<section id="upload"><h2>Upload CSV</h2>`)
		h.raw(`<form method="post" action="/upload" enctype="multipart/form-data">`)
		h.raw(`<input type="file" name="file" accept=".csv,text/csv">`)
		h.raw(`<button type="submit">Upload</button></form>`)
		h.raw(`<p class="hint">Rows: store name, postal code, latitude, longitude. No header row.</p>`)
		h.raw(`</section>`)

		h.raw(`<section id="lookup"><h2>Plot pincode</h2><form method="get" action="/">`)
		h.raw(`<input type="text" name="pincode" placeholder="Pincode" value="`)
		h.text(data.PostalCode)
		h.raw(`"><button type="submit">Plot</button></form>`)
		if data.Lookup != nil {
			h.component(EntryCard(data.Lookup.Entry, data.Lookup.Viewport))
		}
		h.raw(`</section>`)

		h.raw(`<section id="search"><h2>Search stores</h2><form method="get" action="/">`)
		h.raw(`<input type="text" name="store" placeholder="Store name" value="`)
		h.text(data.StoreQuery)
		h.raw(`"><button type="submit">Search</button></form>`)
		if data.Search != nil {
			h.component(SearchResults(*data.Search))
		}
		h.raw(`</section>`)

		if data.Snapshot != nil {
			h.component(IndexSummary(data.Snapshot))
		}
		if len(data.History) > 0 {
			h.component(UploadHistory(data.History))
		}

		h.raw(`</main></body></html>`)
	})
}

// EntryCard renders one plotted postal code.
func EntryCard(entry core.EntryView, viewport core.Viewport) templ.Component {
	return component(func(h *htmlWriter) {
		h.rawf(`<div class="entry" data-lat="%g" data-lng="%g" data-geohash="%s">`,
			entry.Lat, entry.Lng, templ.EscapeString(entry.Geohash))
		h.raw(`<h3>`)
		h.text(entry.PostalCode)
		h.raw(`</h3><ul class="stores">`)
		for _, store := range entry.Stores {
			h.raw(`<li>`)
			h.text(store)
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
		h.component(mapLink(viewport))
		h.raw(`</div>`)
	})
}

// SearchResults renders the postal codes matching a store search.
func SearchResults(search core.StoreSearch) templ.Component {
	return component(func(h *htmlWriter) {
		h.rawf(`<div class="search-results" data-total="%d">`, search.Total)
		if len(search.Matches) == 0 {
			h.raw(`<p class="empty">No stores found.</p></div>`)
			return
		}
		h.raw(`<table><thead><tr><th>Pincode</th><th>Stores</th><th>Lat</th><th>Lng</th></tr></thead><tbody>`)
		for _, m := range search.Matches {
			h.raw(`<tr><td><a href="`)
			h.text(lookupHref(m.PostalCode))
			h.raw(`">`)
			h.text(m.PostalCode)
			h.raw(`</a></td><td>`)
			h.text(strings.Join(m.Stores, ", "))
			h.rawf(`</td><td>%g</td><td>%g</td></tr>`, m.Lat, m.Lng)
		}
		h.raw(`</tbody></table>`)
		h.component(mapLink(search.Viewport))
		h.raw(`</div>`)
	})
}

// IndexSummary renders the outcome of the upload behind the current index.
func IndexSummary(snap *core.Snapshot) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section id="index"><h2>Current data</h2>`)
		if snap.UploadID == "" {
			h.raw(`<p class="empty">No data uploaded.</p></section>`)
			return
		}
		h.raw(`<dl><dt>File</dt><dd>`)
		h.text(snap.FileName)
		h.raw(`</dd><dt>Uploaded</dt><dd>`)
		h.text(snap.UploadedAt.Format(time.RFC3339))
		h.rawf(`</dd><dt>Processed rows</dt><dd>%d</dd>`, snap.Summary.ProcessedRows)
		h.rawf(`<dt>Skipped rows</dt><dd>%d</dd>`, snap.Summary.SkippedRows)
		h.rawf(`<dt>Pincodes</dt><dd>%d</dd>`, snap.Index.Len())
		h.rawf(`<dt>Stores</dt><dd>%d</dd></dl>`, snap.Index.StoreCount())

		if len(snap.Summary.Skipped) > 0 {
			h.raw(`<details><summary>Skipped rows</summary><table><thead><tr><th>Line</th><th>Reason</th><th>Text</th></tr></thead><tbody>`)
			for _, skip := range snap.Summary.Skipped {
				h.rawf(`<tr><td>%d</td><td>`, skip.Line)
				h.text(string(skip.Reason))
				h.raw(`</td><td><code>`)
				h.text(skip.Text)
				h.raw(`</code></td></tr>`)
			}
			h.raw(`</tbody></table></details>`)
		}
		h.raw(`</section>`)
	})
}

// UploadHistory renders recent upload attempts.
func UploadHistory(records []core.UploadRecord) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section id="history"><h2>Recent uploads</h2><table><thead><tr>`)
		h.raw(`<th>File</th><th>Uploaded</th><th>Processed</th><th>Skipped</th><th>Pincodes</th><th>Error</th>`)
		h.raw(`</tr></thead><tbody>`)
		for _, rec := range records {
			h.raw(`<tr><td>`)
			h.text(rec.FileName)
			h.raw(`</td><td>`)
			h.text(rec.UploadedAt.Format(time.RFC3339))
			h.rawf(`</td><td>%d</td><td>%d</td><td>%d</td><td>`, rec.ProcessedRows, rec.SkippedRows, rec.PostalCodes)
			h.text(rec.Error)
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></section>`)
	})
}

// lookupHref links to the dashboard lookup for code.
func lookupHref(code string) string {
	return "/?" + url.Values{"pincode": {code}}.Encode()
}

func mapLink(v core.Viewport) templ.Component {
	return component(func(h *htmlWriter) {
		href := MapURL(v)
		if href == "" {
			return
		}
		h.raw(`<a class="map-link" target="_blank" rel="noopener" href="`)
		h.text(href)
		h.raw(`">View on map</a>`)
	})
}

// MapURL returns an OpenStreetMap link showing v, or "" for an empty viewport.
func MapURL(v core.Viewport) string {
	switch {
	case v.Bounds != nil:
		b := v.Bounds
		return fmt.Sprintf("https://www.openstreetmap.org/?minlon=%f&minlat=%f&maxlon=%f&maxlat=%f",
			b.West, b.South, b.East, b.North)
	case v.Zoom > 0:
		return fmt.Sprintf("https://www.openstreetmap.org/?mlat=%f&mlon=%f#map=%d/%f/%f",
			v.Center.Lat, v.Center.Lng, v.Zoom, v.Center.Lat, v.Center.Lng)
	default:
		return ""
	}
}
