// Package options loads the label/value collections that populate dependent
// select controls (branches, categories, brands). Collections are filtered to
// active records, cached per tenant and deduplicated so opening a form does
// not stampede the database.
package options

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/salonora/salonora/internal/tenant"
)

// OptionRef is one selectable entry.
type OptionRef struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Row is what sources return before the active filter is applied.
type Row struct {
	Label  string
	Value  string
	Active bool
}

// SelectAll is the synthetic option multi-selects may offer. It expands to
// every concrete option and never appears in a submitted payload.
const SelectAll = "*"

// Source lists raw reference rows for one resource within a tenant.
type Source interface {
	ListOptions(ctx context.Context, salon tenant.ID, resource string) ([]Row, error)
}

// Loader fetches, filters and caches option sets.
type Loader struct {
	source Source
	cache  *redis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// NewLoader constructs a Loader. cache may be nil in tests.
func NewLoader(source Source, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Loader {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Loader{source: source, cache: cache, ttl: ttl, logger: logger}
}

// Load returns the active options for resource, most recently fetched. The
// result is always non-nil.
func (l *Loader) Load(ctx context.Context, salon tenant.ID, resource string) ([]OptionRef, error) {
	key := fmt.Sprintf("options:%s:%s", salon, resource)

	if l.cache != nil {
		raw, err := l.cache.Get(ctx, key).Bytes()
		if err == nil {
			var opts []OptionRef
			if err := json.Unmarshal(raw, &opts); err == nil {
				return opts, nil
			}
		} else if !errors.Is(err, redis.Nil) && l.logger != nil {
			l.logger.Warn("option cache read failed", "key", key, "error", err)
		}
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		rows, err := l.source.ListOptions(ctx, salon, resource)
		if err != nil {
			return nil, fmt.Errorf("options: load %s: %w", resource, err)
		}
		opts := make([]OptionRef, 0, len(rows))
		for _, row := range rows {
			if !row.Active {
				continue
			}
			opts = append(opts, OptionRef{Label: row.Label, Value: row.Value})
		}
		if l.cache != nil {
			if data, err := json.Marshal(opts); err == nil {
				if err := l.cache.Set(ctx, key, data, l.ttl).Err(); err != nil && l.logger != nil {
					l.logger.Warn("option cache write failed", "key", key, "error", err)
				}
			}
		}
		return opts, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]OptionRef), nil
}

// Invalidate drops the cached set after a mutation to the backing resource.
func (l *Loader) Invalidate(ctx context.Context, salon tenant.ID, resource string) {
	if l.cache == nil {
		return
	}
	key := fmt.Sprintf("options:%s:%s", salon, resource)
	if err := l.cache.Del(ctx, key).Err(); err != nil && l.logger != nil {
		l.logger.Warn("option cache invalidate failed", "key", key, "error", err)
	}
}

// Prefill intersects a record's stored ids with the freshly loaded options,
// preserving stored order. Ids no longer present among active options are
// dropped silently and logged as a data-consistency warning.
func (l *Loader) Prefill(stored []string, opts []OptionRef, resource string) []string {
	known := make(map[string]struct{}, len(opts))
	for _, o := range opts {
		known[o.Value] = struct{}{}
	}
	selection := make([]string, 0, len(stored))
	for _, id := range stored {
		if _, ok := known[id]; ok {
			selection = append(selection, id)
			continue
		}
		if l.logger != nil {
			l.logger.Warn("stored reference missing from active options", "resource", resource, "id", id)
		}
	}
	return selection
}

// ExpandSelectAll resolves the synthetic option into the full concrete set.
// The synthetic value itself never survives into the result.
func ExpandSelectAll(selection []string, opts []OptionRef) []string {
	expand := false
	for _, v := range selection {
		if v == SelectAll {
			expand = true
			break
		}
	}
	if !expand {
		return selection
	}
	all := make([]string, 0, len(opts))
	for _, o := range opts {
		all = append(all, o.Value)
	}
	return all
}
