package core

// geo.go derives map hints from query results. Nothing here renders a map;
// it only tells a client where to center and how far to zoom.

import (
	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/golang/geo/s2"
)

// FocusZoom is the zoom level used when a single location is shown.
const FocusZoom = 12

// GeohashPrecision gives cells of roughly 1.2km x 0.6km.
const GeohashPrecision = 6

// LatLng is a point in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is a latitude/longitude rectangle in degrees.
type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// Viewport tells a map client what to display. Zoom is zero when the
// client should fit Bounds instead.
type Viewport struct {
	Center LatLng  `json:"center"`
	Zoom   int     `json:"zoom,omitempty"`
	Bounds *Bounds `json:"bounds,omitempty"`
}

// EntryView is a PostalCodeEntry annotated for presentation.
type EntryView struct {
	PostalCode string   `json:"postalCode"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Geohash    string   `json:"geohash"`
	Stores     []string `json:"stores"`
}

// NewEntryView annotates entry with its geohash cell.
func NewEntryView(code string, entry PostalCodeEntry) EntryView {
	return EntryView{
		PostalCode: code,
		Lat:        entry.Lat,
		Lng:        entry.Lng,
		Geohash:    geohash.EncodeWithPrecision(entry.Lat, entry.Lng, GeohashPrecision),
		Stores:     entry.Stores,
	}
}

// FocusViewport centers on a single point.
func FocusViewport(lat, lng float64) Viewport {
	return Viewport{Center: LatLng{Lat: lat, Lng: lng}, Zoom: FocusZoom}
}

// SearchViewport covers every matched location. A single location gets a
// focused view; no matches give the zero Viewport.
func SearchViewport(result SearchResult) Viewport {
	switch len(result.Matches) {
	case 0:
		return Viewport{}
	case 1:
		m := result.Matches[0]
		return FocusViewport(m.Lat, m.Lng)
	}

	// Coordinates are not range-checked on upload; clamp them so every
	// match lands in the rectangle.
	rect := s2.EmptyRect()
	for _, m := range result.Matches {
		rect = rect.AddPoint(s2.LatLngFromDegrees(m.Lat, m.Lng).Normalized())
	}
	if rect.IsEmpty() {
		return Viewport{}
	}

	center := rect.Center()
	lo, hi := rect.Lo(), rect.Hi()
	return Viewport{
		Center: LatLng{Lat: center.Lat.Degrees(), Lng: center.Lng.Degrees()},
		Bounds: &Bounds{
			South: lo.Lat.Degrees(),
			West:  lo.Lng.Degrees(),
			North: hi.Lat.Degrees(),
			East:  hi.Lng.Degrees(),
		},
	}
}
