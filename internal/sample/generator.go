// Package sample builds deterministic sample ledgers for tests and demos.
package sample

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/daytally/internal/ledger"
)

var sampleItems = []struct {
	Name string
	Min  int
	Max  int
}{
	{"coffee", 3, 7},
	{"lunch", 12, 35},
	{"groceries", 20, 120},
	{"metro", 2, 6},
	{"snacks", 2, 15},
	{"dinner", 15, 80},
}

// Days returns n consecutive records ending on end (inclusive), oldest
// first. The same seed always yields the same records.
func Days(end time.Time, loc *time.Location, n int, seed int64) []ledger.DailyData {
	rng := rand.New(rand.NewSource(seed))
	end = end.In(loc)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)

	out := make([]ledger.DailyData, 0, n)
	for i := n - 1; i >= 0; i-- {
		key := ledger.DayKey(last.AddDate(0, 0, -i), loc)
		count := 1 + rng.Intn(4)
		items := make([]ledger.ConsumptionItem, 0, count)
		for j := 0; j < count; j++ {
			s := sampleItems[rng.Intn(len(sampleItems))]
			cents := int64(s.Min*100 + rng.Intn((s.Max-s.Min)*100+1))
			amount, _ := decimal.New(cents, -2).Float64()
			items = append(items, ledger.ConsumptionItem{
				ID:         ledger.NewItemID(),
				Name:       s.Name,
				Amount:     amount,
				Category:   ledger.DefaultCategory,
				Expression: ledger.FormatAmount(amount),
			})
		}
		out = append(out, ledger.DailyData{Date: key, Items: items})
	}
	return out
}

// Seed writes days into store, replacing any records with the same keys.
func Seed(ctx context.Context, store *ledger.Store, days []ledger.DailyData) {
	for _, d := range days {
		store.SetItems(ctx, d.Date, d.Items)
	}
}
