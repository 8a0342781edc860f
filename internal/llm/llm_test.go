package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleRequest() SummaryRequest {
	return SummaryRequest{Days: []DaySummary{
		{Date: "2025-01-01", Total: 20, Details: "coffee(5), bus(15)"},
		{Date: "2025-01-02", Total: 9, Details: "coffee(5), tea(4)"},
		{Date: "2025-01-03", Total: 120, Details: "coffee(5), shoes(115)"},
	}}
}

func TestPromptCarriesRecords(t *testing.T) {
	t.Parallel()

	p := Prompt(sampleRequest())
	require.Contains(t, p, "2 concrete suggestions")
	require.Contains(t, p, `"date":"2025-01-03"`)
	require.Contains(t, p, `"details":"coffee(5), shoes(115)"`)
}

func TestNewSelectsProvider(t *testing.T) {
	t.Parallel()

	require.IsType(t, &GeminiProvider{}, New("Gemini", "k", ""))
	require.IsType(t, &OpenAIProvider{}, New("openai", "k", ""))
	require.IsType(t, LocalProvider{}, New("local", "", ""))
	require.IsType(t, LocalProvider{}, New("", "", ""))
}

func TestRemoteProvidersNeedKey(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	_, err := NewGeminiProvider(" ", "").Summarize(ctx, sampleRequest())
	require.ErrorIs(t, err, ErrNoAPIKey)
	_, err = NewOpenAIProvider("", "").Summarize(ctx, sampleRequest())
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestLocalProvider(t *testing.T) {
	t.Parallel()

	out, err := LocalProvider{}.Summarize(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.Contains(t, out, "3 days logged, 149 in total")
	require.Contains(t, out, "Heaviest day: 2025-01-03 (Friday, 120)")
	require.Contains(t, out, "Most frequent: coffee (3x)")
	require.Contains(t, out, "1. Days like 2025-01-03")
	require.Contains(t, out, "2. coffee shows up often")

	out, err = LocalProvider{}.Summarize(context.Background(), SummaryRequest{Days: []DaySummary{
		{Date: "someday", Total: 8, Details: "tea(8)"},
	}})
	require.NoError(t, err)
	require.Contains(t, out, "Heaviest day: someday (8)")

	_, err = LocalProvider{}.Summarize(context.Background(), SummaryRequest{})
	require.ErrorIs(t, err, ErrEmptyResponse)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = LocalProvider{}.Summarize(ctx, sampleRequest())
	require.ErrorIs(t, err, context.Canceled)
}

func TestOpenAIProviderAgainstFakeServer(t *testing.T) {
	t.Parallel()

	var gotModel, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		gotAuth = r.Header.Get("Authorization")
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotModel = body.Model
		require.Len(t, body.Messages, 2)
		require.Contains(t, body.Messages[1].Content, "2025-01-02")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"  Spend less on shoes.  "},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", "").WithBaseURL(srv.URL + "/v1")
	out, err := p.Summarize(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.Equal(t, "Spend less on shoes.", out)
	require.Equal(t, defaultOpenAIModel, gotModel)
	require.Equal(t, "Bearer sk-test", gotAuth)
}

func TestOpenAIProviderServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIProvider("sk-test", "gpt-4o").WithBaseURL(srv.URL).Summarize(context.Background(), sampleRequest())
	require.Error(t, err)
}
