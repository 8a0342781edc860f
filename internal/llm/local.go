package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jask/daytally/internal/ledger"
)

// LocalProvider is an offline heuristic summary so the panel works without
// an API key. It reads only the request, never the network.
type LocalProvider struct{}

func (LocalProvider) Summarize(ctx context.Context, req SummaryRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(req.Days) == 0 {
		return "", ErrEmptyResponse
	}

	var total float64
	peak := req.Days[0]
	counts := map[string]int{}
	for _, d := range req.Days {
		total += d.Total
		if d.Total > peak.Total {
			peak = d
		}
		for _, name := range detailNames(d.Details) {
			counts[name]++
		}
	}
	avg := total / float64(len(req.Days))
	top, topCount := mostFrequent(counts)

	var b strings.Builder
	fmt.Fprintf(&b, "%d days logged, %s in total, about %s per day.", len(req.Days), trimNumber(total), trimNumber(avg))
	if peak.Total > 0 {
		fmt.Fprintf(&b, " Heaviest day: %s (%s%s).", peak.Date, weekdayPrefix(peak.Date), trimNumber(peak.Total))
	}
	if top != "" {
		fmt.Fprintf(&b, " Most frequent: %s (%dx).", top, topCount)
	}

	var tips []string
	if avg > 0 && peak.Total > 2*avg {
		tips = append(tips, fmt.Sprintf("Days like %s run over twice your average; plan them ahead.", peak.Date))
	}
	if topCount >= 3 {
		tips = append(tips, fmt.Sprintf("%s shows up often; try setting a weekly cap for it.", top))
	}
	tips = append(tips, "Log every day, even quiet ones, so trends stay honest.")
	tips = append(tips, "Review the 15-day period totals before starting the next one.")
	fmt.Fprintf(&b, "\n1. %s\n2. %s", tips[0], tips[1])
	return b.String(), nil
}

// detailNames extracts names from "name(amount), name(amount)".
func detailNames(details string) []string {
	var out []string
	for _, part := range strings.Split(details, ", ") {
		part = strings.TrimSpace(part)
		if i := strings.LastIndex(part, "("); i > 0 {
			part = part[:i]
		}
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func mostFrequent(counts map[string]int) (string, int) {
	names := make([]string, 0, len(counts))
	for n := range counts {
		names = append(names, n)
	}
	sort.Strings(names)
	best, bestCount := "", 0
	for _, n := range names {
		if counts[n] > bestCount {
			best, bestCount = n, counts[n]
		}
	}
	return best, bestCount
}

// weekdayPrefix returns "Friday, " for a valid day key and "" otherwise.
func weekdayPrefix(key string) string {
	t, err := ledger.ParseDayKey(key, time.UTC)
	if err != nil {
		return ""
	}
	return t.Weekday().String() + ", "
}

func trimNumber(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
