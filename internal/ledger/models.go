package ledger

import (
	"strconv"
)

const (
	// DefaultItemName is stored when an item is added without a name.
	DefaultItemName = "未命名"
	// DefaultCategory is the only category the tracker assigns today.
	DefaultCategory = "日常"
)

// Blob names shared with the browser version, so its exports load unchanged.
const (
	StoreBlob = "daily_consumption_data_v2"
	NoteBlob  = "user_note_v2"
)

// ConsumptionItem is one recorded entry. Items are never edited in place.
type ConsumptionItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Category   string  `json:"category"`
	Expression string  `json:"expression,omitempty"`
}

// ShowExpression reports whether the stored expression adds anything over
// the plain amount.
func (i ConsumptionItem) ShowExpression() bool {
	return i.Expression != "" && i.Expression != FormatAmount(i.Amount)
}

// DailyData holds one calendar day's items in insertion order.
type DailyData struct {
	Date  string            `json:"date"`
	Items []ConsumptionItem `json:"items"`
}

// Total is the sum of the day's item amounts.
func (d DailyData) Total() float64 { return DayTotal(d.Items) }

func (d DailyData) clone() DailyData {
	items := make([]ConsumptionItem, len(d.Items))
	copy(items, d.Items)
	return DailyData{Date: d.Date, Items: items}
}

// PeriodSummary aggregates a run of up to PeriodSize consecutive records.
type PeriodSummary struct {
	Start string
	End   string
	Total float64
	Count int
}

// FormatAmount renders an amount the way it is stored in an item's
// expression when the user typed nothing: shortest decimal form, no
// trailing zeros ("12.5", "55").
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
