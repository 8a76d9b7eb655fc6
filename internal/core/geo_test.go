package core

import (
	"math"
	"testing"
)

func TestNewEntryView(t *testing.T) {
	entry := PostalCodeEntry{Lat: 57.64911, Lng: 10.40744, Stores: []string{"A"}}

	view := NewEntryView("9800", entry)

	if view.PostalCode != "9800" || view.Lat != entry.Lat || view.Lng != entry.Lng {
		t.Errorf("NewEntryView() = %+v", view)
	}
	if len(view.Geohash) != GeohashPrecision {
		t.Errorf("Geohash length = %d, want %d", len(view.Geohash), GeohashPrecision)
	}
	if view.Geohash != "u4pruy" {
		t.Errorf("Geohash = %q, want %q", view.Geohash, "u4pruy")
	}
}

func TestFocusViewport(t *testing.T) {
	v := FocusViewport(28.6, 77.2)

	if v.Center.Lat != 28.6 || v.Center.Lng != 77.2 {
		t.Errorf("Center = %+v", v.Center)
	}
	if v.Zoom != FocusZoom {
		t.Errorf("Zoom = %d, want %d", v.Zoom, FocusZoom)
	}
	if v.Bounds != nil {
		t.Errorf("Bounds = %+v, want nil", v.Bounds)
	}
}

func TestSearchViewport(t *testing.T) {
	t.Run("no matches", func(t *testing.T) {
		v := SearchViewport(SearchResult{})
		if v != (Viewport{}) {
			t.Errorf("SearchViewport() = %+v, want zero", v)
		}
	})

	t.Run("one match focuses", func(t *testing.T) {
		v := SearchViewport(SearchResult{Matches: []PostalMatch{{Lat: 10, Lng: 20}}})
		if v.Zoom != FocusZoom || v.Center != (LatLng{Lat: 10, Lng: 20}) || v.Bounds != nil {
			t.Errorf("SearchViewport() = %+v", v)
		}
	})

	t.Run("several matches fit bounds", func(t *testing.T) {
		v := SearchViewport(SearchResult{Matches: []PostalMatch{
			{Lat: 10, Lng: 20},
			{Lat: 30, Lng: 25},
			{Lat: 20, Lng: 40},
		}})
		if v.Bounds == nil {
			t.Fatal("Bounds = nil")
		}
		want := Bounds{South: 10, West: 20, North: 30, East: 40}
		if !approx(v.Bounds.South, want.South) || !approx(v.Bounds.West, want.West) ||
			!approx(v.Bounds.North, want.North) || !approx(v.Bounds.East, want.East) {
			t.Errorf("Bounds = %+v, want %+v", *v.Bounds, want)
		}
		if !approx(v.Center.Lat, 20) || !approx(v.Center.Lng, 30) {
			t.Errorf("Center = %+v, want {20 30}", v.Center)
		}
		if v.Zoom != 0 {
			t.Errorf("Zoom = %d, want 0", v.Zoom)
		}
	})

	t.Run("out of range coordinates are clamped", func(t *testing.T) {
		v := SearchViewport(SearchResult{Matches: []PostalMatch{
			{Lat: 95, Lng: 200},
			{Lat: 120, Lng: 190},
		}})
		if v.Bounds == nil {
			t.Fatal("Bounds = nil")
		}
		b := *v.Bounds
		if b.South > b.North || b.West > b.East {
			t.Errorf("Bounds inverted: %+v", b)
		}
		if !approx(b.North, 90) || !approx(b.South, 90) {
			t.Errorf("latitudes not clamped: %+v", b)
		}
		if !approx(b.West, -170) || !approx(b.East, -160) {
			t.Errorf("longitudes not wrapped: %+v", b)
		}
	})
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
