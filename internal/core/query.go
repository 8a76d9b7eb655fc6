package core

import "strings"

// PostalMatch is one postal code whose store list matched a search.
// Stores holds only the matching names, not the full list.
type PostalMatch struct {
	PostalCode string   `json:"postalCode"`
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	Stores     []string `json:"stores"`
}

// SearchResult is the outcome of a store-name search.
type SearchResult struct {
	Query   string        `json:"query"`
	Matches []PostalMatch `json:"matches"`
	Total   int           `json:"total"` // matching store names across all postal codes
}

// Lookup returns the entry for code. The match is exact: no trimming or
// case folding is applied.
func (idx PostalIndex) Lookup(code string) (PostalCodeEntry, bool) {
	entry, ok := idx[code]
	if !ok {
		return PostalCodeEntry{}, false
	}
	return entry.clone(), true
}

// Search finds store names containing query, ignoring case. Matches are
// ordered by postal code.
func (idx PostalIndex) Search(query string) SearchResult {
	result := SearchResult{Query: query, Matches: []PostalMatch{}}
	needle := strings.ToLower(query)

	for _, code := range idx.PostalCodes() {
		entry := idx[code]
		var stores []string
		for _, store := range entry.Stores {
			if strings.Contains(strings.ToLower(store), needle) {
				stores = append(stores, store)
			}
		}
		if len(stores) == 0 {
			continue
		}
		result.Matches = append(result.Matches, PostalMatch{
			PostalCode: code,
			Lat:        entry.Lat,
			Lng:        entry.Lng,
			Stores:     stores,
		})
		result.Total += len(stores)
	}

	return result
}

func (e *PostalCodeEntry) clone() PostalCodeEntry {
	stores := make([]string, len(e.Stores))
	copy(stores, e.Stores)
	return PostalCodeEntry{Lat: e.Lat, Lng: e.Lng, Stores: stores}
}
