// Package core builds and queries the store location index.
//
// This package holds all domain logic independent of any UI or transport
// layer. The web server and the pincode-index command both use it.
//
// # Data Flow
//
//	CSV text -> ParseRow (per line) -> BuildIndex -> PostalIndex -> Lookup / Search
//
// Each non-blank line is one record: store name, postal code, latitude,
// longitude. Lines that fail validation are counted and reported in the
// ParseSummary, never fatal. Every row sharing a postal code appends its
// store name; the coordinates of the last such row win.
//
// # Service
//
// [Service] owns the current index. An upload reads the whole file, builds a
// fresh index and publishes it as a new [Snapshot] in one atomic swap, so
// readers always see either the previous index or the complete new one.
// Uploads are serialized by an [UploadLimiter]. A read failure or empty
// input resets the index to empty.
//
// # Errors
//
// Sentinel errors (see errors.go) are mapped to user-facing messages with
// codes by [MapError]. Handlers decide HTTP status codes; this package
// never imports net/http.
//
// # History
//
// Every upload attempt is summarized in a [HistoryStore]: [MemoryHistory]
// by default, or [PostgresHistory] when a database is configured.
package core
