package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// PeriodSize is the number of daily records per period summary.
const PeriodSize = 15

// DayTotal sums item amounts without float drift (0.1+0.2 == 0.3).
func DayTotal(items []ConsumptionItem) float64 {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.Amount))
	}
	f, _ := sum.Round(2).Float64()
	return f
}

// GrandTotal sums every item of every record.
func GrandTotal(days []DailyData) float64 {
	sum := decimal.Zero
	for _, d := range days {
		for _, it := range d.Items {
			sum = sum.Add(decimal.NewFromFloat(it.Amount))
		}
	}
	f, _ := sum.Round(2).Float64()
	return f
}

// Stats are the headline numbers shown under the calendar.
type Stats struct {
	Total        float64
	DaysTracked  int
	DailyAverage float64
}

// ComputeStats derives Stats from every stored record. A record counts as
// tracked once it exists, even if its items were all deleted later.
func ComputeStats(days []DailyData) Stats {
	s := Stats{Total: GrandTotal(days), DaysTracked: len(days)}
	if s.DaysTracked == 0 {
		return s
	}
	avg := decimal.NewFromFloat(s.Total).DivRound(decimal.NewFromInt(int64(s.DaysTracked)), 2)
	s.DailyAverage, _ = avg.Float64()
	return s
}

// SortByDate returns a copy of days ordered by ascending date.
func SortByDate(days []DailyData) []DailyData {
	out := make([]DailyData, len(days))
	copy(out, days)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// PeriodSummaries chunks the chronologically sorted records into runs of
// PeriodSize and returns them most recent first.
func PeriodSummaries(days []DailyData) []PeriodSummary {
	sorted := SortByDate(days)
	if len(sorted) == 0 {
		return nil
	}
	periods := make([]PeriodSummary, 0, (len(sorted)+PeriodSize-1)/PeriodSize)
	for i := 0; i < len(sorted); i += PeriodSize {
		end := min(i+PeriodSize, len(sorted))
		chunk := sorted[i:end]
		periods = append(periods, PeriodSummary{
			Start: chunk[0].Date,
			End:   chunk[len(chunk)-1].Date,
			Total: GrandTotal(chunk),
			Count: len(chunk),
		})
	}
	for l, r := 0, len(periods)-1; l < r; l, r = l+1, r-1 {
		periods[l], periods[r] = periods[r], periods[l]
	}
	return periods
}

// RecentDays returns the last n records in ascending date order.
func RecentDays(days []DailyData, n int) []DailyData {
	sorted := SortByDate(days)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}
