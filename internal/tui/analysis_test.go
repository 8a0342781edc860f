package tui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/daytally/internal/ledger"
)

func TestPowerResult(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in     string
		pow2   float64
		square float64
		ok     bool
	}{
		{"3", 8, 9, true},
		{" 10 ", 1024, 100, true},
		{"-1", 0.5, 1, true},
		{"0.5", 1.4142135623730951, 0.25, true},
		{"0", 1, 0, true},
		{"", 0, 0, false},
		{"   ", 0, 0, false},
		{"abc", 0, 0, false},
		{"NaN", 0, 0, false},
		{"1e400", 0, 0, false},
	}
	for _, tc := range cases {
		pow2, square, ok := PowerResult(tc.in)
		require.Equal(t, tc.ok, ok, "%q", tc.in)
		if tc.ok {
			require.InDelta(t, tc.pow2, pow2, 1e-12, tc.in)
			require.InDelta(t, tc.square, square, 1e-12, tc.in)
		}
	}
}

func TestTrendSeries(t *testing.T) {
	t.Parallel()

	totals := map[string]float64{"2025-01-15": 30, "2024-12-17": 5, "2024-12-16": 99}
	dates, values := TrendSeries(totals, testNow, time.UTC, 30)
	require.Len(t, dates, 30)
	require.Len(t, values, 30)
	require.Equal(t, "2024-12-17", dates[0].Format(ledger.DayKeyLayout))
	require.Equal(t, "2025-01-15", dates[29].Format(ledger.DayKeyLayout))
	require.Equal(t, 5.0, values[0])
	require.Equal(t, 30.0, values[29])
	require.Zero(t, values[1])
}

func TestNotePersistsOnEveryKeystroke(t *testing.T) {
	t.Parallel()

	keys := NewKeyRegistry()
	store, blobs := newTestStore(t)
	store.SetNote(context.Background(), "hi")

	a := NewAnalysis(context.Background(), store)
	require.Equal(t, "hi", a.Note())
	require.False(t, a.Capturing())

	a, _ = a.Update(keyMsg("e"), keys)
	require.True(t, a.Capturing())
	a, _ = a.Update(keyMsg("!"), keys)
	require.Equal(t, "hi!", store.Note())
	require.Equal(t, "hi!", string(blobs.data[ledger.NoteBlob]))

	a, _ = a.Update(keyMsg("q"), keys)
	require.Equal(t, "hi!q", store.Note(), "letters are text while the note has focus")

	a, _ = a.Update(keyMsg("esc"), keys)
	require.False(t, a.Capturing())
}

func TestPowerInputFocus(t *testing.T) {
	t.Parallel()

	keys := NewKeyRegistry()
	store, _ := newTestStore(t)
	a := NewAnalysis(context.Background(), store)

	a, _ = a.Update(keyMsg("p"), keys)
	require.Equal(t, scopeTextFocus, a.Scope())
	for _, r := range "12" {
		a, _ = a.Update(keyMsg(string(r)), keys)
	}
	out := a.View(nil, nil, testNow, time.UTC, 80)
	require.Contains(t, out, "4,096")
	require.Contains(t, out, "144")

	a, _ = a.Update(keyMsg("x"), keys)
	out = a.View(nil, nil, testNow, time.UTC, 80)
	require.NotContains(t, out, "2^x =")
}

func TestSummarySequence(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	a := NewAnalysis(context.Background(), store)
	require.False(t, a.Loading())

	a.BeginSummary(1)
	a.BeginSummary(2)
	require.True(t, a.Loading())
	require.False(t, a.ApplySummary(1, "old"))
	require.Empty(t, a.Summary())
	require.True(t, a.ApplySummary(2, "new"))
	require.Equal(t, "new", a.Summary())
	require.False(t, a.Loading())
}

func TestAnalysisViewPeriods(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	a := NewAnalysis(context.Background(), store)
	out := a.View(store.All(), store.Totals(), testNow, time.UTC, 80)
	require.Contains(t, out, "Not enough data yet")
	require.Contains(t, out, "Nothing logged in this range")

	ctx := context.Background()
	for i := 0; i < 16; i++ {
		key := testNow.AddDate(0, 0, -i).Format(ledger.DayKeyLayout)
		store.SetItems(ctx, key, []ledger.ConsumptionItem{{ID: key, Name: "x", Amount: 100, Category: ledger.DefaultCategory}})
	}
	out = a.View(store.All(), store.Totals(), testNow, time.UTC, 80)
	require.Contains(t, out, "2025-01-15 → 2025-01-15")
	require.Contains(t, out, "2024-12-31 → 2025-01-14")
	require.Contains(t, out, "1,500")
	require.NotContains(t, out, "Nothing logged in this range")
}
