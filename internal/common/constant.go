// Package common contains shared constants and sentinel errors used across
// the entrystore server components.
package common

// Plain-text bodies returned in place of an entry when nothing matches.
// Clients parse these literally, so they must not change.
const (
	// NoEntrySentinel is returned by the single-entry fetch route.
	NoEntrySentinel = "Error"

	// NoEntriesSentinel is returned by the range listing and edit routes.
	NoEntriesSentinel = "Error!"
)

// RangeLimit caps the number of rows returned by a single range query.
const RangeLimit = 50
