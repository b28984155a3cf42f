package salesapp

import (
	"encoding/json"
	"time"

	"github.com/victor-shvetsov/getd-cmd-sub002/business/domain/salesbus"
)

// SourceCount is one entry of the per-source histogram.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// SyncInfo summarizes the synced sales entries of a client. LastEntryAt is
// null when there are no entries.
type SyncInfo struct {
	TotalEntries  int           `json:"total_entries"`
	UntaggedCount int           `json:"untagged_count"`
	LastEntryAt   *string       `json:"last_entry_at"`
	Sources       []SourceCount `json:"sources"`
}

// Encode implements the web.Encoder interface.
func (app SyncInfo) Encode() ([]byte, string, error) {
	data, err := json.Marshal(app)
	return data, "application/json", err
}

func toAppSyncInfo(bus salesbus.SyncInfo) SyncInfo {
	sources := make([]SourceCount, len(bus.Sources))
	for i, s := range bus.Sources {
		sources[i] = SourceCount{
			Source: s.Source,
			Count:  s.Count,
		}
	}

	app := SyncInfo{
		TotalEntries:  bus.TotalEntries,
		UntaggedCount: bus.UntaggedCount,
		Sources:       sources,
	}

	if !bus.LastEntryAt.IsZero() {
		last := bus.LastEntryAt.UTC().Format(time.RFC3339)
		app.LastEntryAt = &last
	}

	return app
}
