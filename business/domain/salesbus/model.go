package salesbus

import "time"

// Untagged is the source name reported for entries without a source.
const Untagged = "untagged"

// SourceCount is one bar of the per-source histogram.
type SourceCount struct {
	Source string
	Count  int
}

// SyncInfo summarizes the sales entries synced for a client. LastEntryAt is
// zero when the client has no entries.
type SyncInfo struct {
	TotalEntries  int
	UntaggedCount int
	LastEntryAt   time.Time
	Sources       []SourceCount
}
