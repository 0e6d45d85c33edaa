package journal

import (
	"context"
	"testing"

	"github.com/rustyeddy/sltp/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEntry(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	expected := ledger.Entry{
		Pair:      "ETH/USD",
		Direction: ledger.Short,
		PnL:       d("60"),
		Fee:       d("-1.50"),
		Date:      "2025-12-18",
		Notes:     "negative fee from an old import",
	}

	saved, err := j.AddEntry(ctx, expected)
	require.NoError(t, err)

	actual, err := j.GetEntry(ctx, saved.ID)
	require.NoError(t, err)

	assert.Equal(t, saved.ID, actual.ID)
	assert.Equal(t, expected.Pair, actual.Pair)
	assert.Equal(t, expected.Direction, actual.Direction)
	assert.True(t, expected.PnL.Equal(actual.PnL))
	assert.True(t, expected.Fee.Equal(actual.Fee), "fee sign is stored as given")
	assert.Equal(t, expected.Date, actual.Date)
	assert.Equal(t, expected.Notes, actual.Notes)
}

func TestGetEntryNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()

	_, err := j.GetEntry(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestListEntriesOrder(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	empty, err := j.ListEntries(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	// inserted out of date order; same-day entries keep insertion order
	for _, e := range []ledger.Entry{
		entry("C", "30", "0", "2025-12-05"),
		entry("A", "10", "0", "2025-12-02"),
		entry("B", "-5", "0", "2025-12-05"),
		ledger.NewWithdrawal(d("500"), "2025-12-03", "rent"),
	} {
		_, err := j.AddEntry(ctx, e)
		require.NoError(t, err)
	}

	all, err := j.ListEntries(ctx)
	require.NoError(t, err)
	var pairs []string
	for _, e := range all {
		pairs = append(pairs, e.Pair)
	}
	assert.Equal(t, []string{"A", ledger.Withdrawal, "C", "B"}, pairs)
	assert.True(t, all[1].PnL.Equal(d("-500")))
}

func TestListEntriesBetween(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	defer j.Close()
	ctx := context.Background()

	for _, date := range []string{"2025-11-30", "2025-12-01", "2025-12-15", "2025-12-31", "2026-01-01"} {
		_, err := j.AddEntry(ctx, entry("BTC/USD", "1", "0", date))
		require.NoError(t, err)
	}

	got, err := j.ListEntriesBetween(ctx, "2025-12-01", "2026-01-01")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "2025-12-01", got[0].Date)
	assert.Equal(t, "2025-12-31", got[2].Date)

	none, err := j.ListEntriesBetween(ctx, "2024-01-01", "2024-02-01")
	require.NoError(t, err)
	assert.Empty(t, none)
}
