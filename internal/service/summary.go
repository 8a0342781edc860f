package service

import (
	"context"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jask/daytally/internal/ledger"
	"github.com/jask/daytally/internal/llm"
)

// RecentWindow is how many of the latest records feed a summary.
const RecentWindow = 15

// Canned replies. The summary panel never shows a raw error.
const (
	MsgGetStarted  = "Log your first entry and a habit summary will show up here."
	MsgUnavailable = "The assistant is taking a break. Please try again later."
	MsgGenerated   = "Summary generated. Keep up the steady logging."
)

// SummaryService wraps a provider with the canned fallbacks. Identical
// requests already in flight share one provider call.
type SummaryService struct {
	Provider llm.Summarizer
	Log      zerolog.Logger

	group singleflight.Group
}

// Summarize returns a short text for the most recent records. It never fails.
func (s *SummaryService) Summarize(ctx context.Context, days []ledger.DailyData) string {
	recent := ledger.RecentDays(days, RecentWindow)
	if len(recent) == 0 {
		return MsgGetStarted
	}
	if s.Provider == nil {
		s.Log.Warn().Msg("summary requested without a provider")
		return MsgUnavailable
	}

	req := BuildRequest(recent)
	key, err := sonic.ConfigStd.MarshalToString(req)
	if err != nil {
		key = ""
	}
	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.Provider.Summarize(ctx, req)
	})
	if err != nil {
		s.Log.Error().Err(err).Int("days", len(req.Days)).Msg("summary failed")
		return MsgUnavailable
	}
	text := strings.TrimSpace(v.(string))
	s.Log.Debug().Bool("shared", shared).Int("chars", len(text)).Msg("summary ready")
	if text == "" {
		return MsgGenerated
	}
	return text
}

// BuildRequest condenses each day to its total and "name(amount)" list.
func BuildRequest(days []ledger.DailyData) llm.SummaryRequest {
	req := llm.SummaryRequest{Days: make([]llm.DaySummary, 0, len(days))}
	for _, d := range days {
		parts := make([]string, 0, len(d.Items))
		for _, it := range d.Items {
			parts = append(parts, it.Name+"("+ledger.FormatAmount(it.Amount)+")")
		}
		req.Days = append(req.Days, llm.DaySummary{
			Date:    d.Date,
			Total:   d.Total(),
			Details: strings.Join(parts, ", "),
		})
	}
	return req
}
