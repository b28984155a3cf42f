// Package salesbus provides business access to the synced sales entries.
package salesbus

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/logger"
	"github.com/victor-shvetsov/getd-cmd-sub002/foundation/otel"
	"golang.org/x/sync/errgroup"
)

// Storer interface declares the behavior this package needs to retrieve
// data.
type Storer interface {
	Count(ctx context.Context, clientID uuid.UUID) (int, error)
	CountUntagged(ctx context.Context, clientID uuid.UUID) (int, error)
	QueryLastSoldAt(ctx context.Context, clientID uuid.UUID) (time.Time, error)
	QuerySources(ctx context.Context, clientID uuid.UUID) ([]string, error)
}

// Core manages the set of APIs for sales access.
type Core struct {
	log    *logger.Logger
	storer Storer
}

// NewCore constructs a sales core API for use.
func NewCore(log *logger.Logger, storer Storer) *Core {
	return &Core{
		log:    log,
		storer: storer,
	}
}

// QuerySyncInfo runs the four aggregate reads for a client and assembles
// the summary.
func (c *Core) QuerySyncInfo(ctx context.Context, clientID uuid.UUID) (SyncInfo, error) {
	ctx, span := otel.AddSpan(ctx, "business.salesbus.querysyncinfo")
	defer span.End()

	var (
		info    SyncInfo
		sources []string
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := c.storer.Count(gctx, clientID)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		info.TotalEntries = n
		return nil
	})

	g.Go(func() error {
		n, err := c.storer.CountUntagged(gctx, clientID)
		if err != nil {
			return fmt.Errorf("count untagged: %w", err)
		}
		info.UntaggedCount = n
		return nil
	})

	g.Go(func() error {
		last, err := c.storer.QueryLastSoldAt(gctx, clientID)
		if err != nil {
			return fmt.Errorf("last sold at: %w", err)
		}
		info.LastEntryAt = last
		return nil
	})

	g.Go(func() error {
		s, err := c.storer.QuerySources(gctx, clientID)
		if err != nil {
			return fmt.Errorf("sources: %w", err)
		}
		sources = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return SyncInfo{}, fmt.Errorf("query: clientID[%s]: %w", clientID, err)
	}

	info.Sources = Histogram(sources)

	return info, nil
}

// Blank is the set of characters trimmed before a source is judged empty.
// The untagged count in the store applies the same rule.
const Blank = " \t\r\n"

// Histogram counts entries per source in descending order of count. Blank
// sources are counted as Untagged and equal counts keep first-seen order.
func Histogram(sources []string) []SourceCount {
	index := make(map[string]int)
	hist := make([]SourceCount, 0)

	for _, s := range sources {
		if strings.Trim(s, Blank) == "" {
			s = Untagged
		}

		if i, exists := index[s]; exists {
			hist[i].Count++
			continue
		}

		index[s] = len(hist)
		hist = append(hist, SourceCount{Source: s, Count: 1})
	}

	slices.SortStableFunc(hist, func(a, b SourceCount) int {
		return cmp.Compare(b.Count, a.Count)
	})

	return hist
}
