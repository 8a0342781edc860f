package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

// requestTimeout bounds every provider call.
const requestTimeout = 8 * time.Second

var (
	ErrNoAPIKey      = errors.New("llm: api key not configured")
	ErrEmptyResponse = errors.New("llm: empty response")
)

// Summarizer turns recent daily records into a short habit summary.
type Summarizer interface {
	Summarize(ctx context.Context, req SummaryRequest) (string, error)
}

// SummaryRequest is the payload handed to a provider.
type SummaryRequest struct {
	Days []DaySummary `json:"days"`
}

// DaySummary condenses one day: its total and "name(amount)" details.
type DaySummary struct {
	Date    string  `json:"date"`
	Total   float64 `json:"total"`
	Details string  `json:"details"`
}

const systemPrompt = "You are a concise personal finance and health habits assistant. " +
	"Reply in the language the item names are written in."

// Prompt renders the user message sent to remote providers.
func Prompt(req SummaryRequest) string {
	payload, err := sonic.ConfigStd.MarshalToString(req.Days)
	if err != nil {
		payload = "[]"
	}
	var b strings.Builder
	b.WriteString("Based on the user's daily consumption records for the past ")
	b.WriteString("15 days (below), write a very short habit summary (under 50 words) ")
	b.WriteString("and give 2 concrete suggestions for improvement.\n")
	b.WriteString("Records: ")
	b.WriteString(payload)
	return b.String()
}

// New picks a provider by name; unknown names fall back to the offline one.
func New(name, apiKey, model string) Summarizer {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gemini":
		return NewGeminiProvider(apiKey, model)
	case "openai":
		return NewOpenAIProvider(apiKey, model)
	default:
		return LocalProvider{}
	}
}
