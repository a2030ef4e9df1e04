package options

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/salonora/salonora/internal/tenant"
)

type fakeSource struct {
	rows  []Row
	calls int
}

func (f *fakeSource) ListOptions(_ context.Context, _ tenant.ID, _ string) ([]Row, error) {
	f.calls++
	return f.rows, nil
}

func TestLoadFiltersInactive(t *testing.T) {
	src := &fakeSource{rows: []Row{
		{Label: "Downtown", Value: "b1", Active: true},
		{Label: "Closed Branch", Value: "b2", Active: false},
		{Label: "Uptown", Value: "b3", Active: true},
	}}
	loader := NewLoader(src, nil, time.Minute, nil)

	opts, err := loader.Load(context.Background(), "salon-1", "branches")
	require.NoError(t, err)
	require.Equal(t, []OptionRef{
		{Label: "Downtown", Value: "b1"},
		{Label: "Uptown", Value: "b3"},
	}, opts)
}

func TestLoadUsesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	src := &fakeSource{rows: []Row{{Label: "Downtown", Value: "b1", Active: true}}}
	loader := NewLoader(src, client, time.Minute, nil)

	ctx := context.Background()
	_, err := loader.Load(ctx, "salon-1", "branches")
	require.NoError(t, err)
	_, err = loader.Load(ctx, "salon-1", "branches")
	require.NoError(t, err)
	require.Equal(t, 1, src.calls)

	loader.Invalidate(ctx, "salon-1", "branches")
	_, err = loader.Load(ctx, "salon-1", "branches")
	require.NoError(t, err)
	require.Equal(t, 2, src.calls)
}

func TestPrefillDropsStaleIDs(t *testing.T) {
	loader := NewLoader(&fakeSource{}, nil, time.Minute, nil)
	opts := []OptionRef{{Label: "A", Value: "a"}}

	got := loader.Prefill([]string{"a", "b"}, opts, "branches")
	require.Equal(t, []string{"a"}, got)
}

func TestExpandSelectAll(t *testing.T) {
	opts := []OptionRef{
		{Value: "s1"}, {Value: "s2"}, {Value: "s3"}, {Value: "s4"}, {Value: "s5"},
	}

	got := ExpandSelectAll([]string{SelectAll}, opts)
	require.Equal(t, []string{"s1", "s2", "s3", "s4", "s5"}, got)
	require.NotContains(t, got, SelectAll)

	// without the synthetic option the selection passes through untouched
	require.Equal(t, []string{"s2"}, ExpandSelectAll([]string{"s2"}, opts))
}
