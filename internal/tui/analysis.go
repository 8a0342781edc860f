package tui

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tslc "github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/daytally/internal/ledger"
	"github.com/jask/daytally/internal/service"
)

type analysisFocus int

const (
	focusNone analysisFocus = iota
	focusNote
	focusPower
)

const (
	trendDays   = 30
	trendHeight = 10
)

// Analysis shows period summaries, the trend chart, the note, the power
// calculator and the AI summary panel.
type Analysis struct {
	ctx   context.Context
	store Store

	focus analysisFocus
	note  textarea.Model
	power textinput.Model

	summary string
	pending int
}

// NewAnalysis loads the note from the store. The note is not re-read while
// the view stays open.
func NewAnalysis(ctx context.Context, store Store) Analysis {
	note := textarea.New()
	note.Placeholder = "Notes, budgets, reminders…"
	note.ShowLineNumbers = false
	note.SetHeight(5)
	note.SetWidth(48)
	note.CharLimit = 0
	note.SetValue(store.Note())
	note.Blur()

	power := textinput.New()
	power.Placeholder = "x"
	power.Prompt = "x = "
	power.CharLimit = 32

	return Analysis{ctx: ctx, store: store, note: note, power: power}
}

func (a Analysis) Capturing() bool { return a.focus != focusNone }

func (a Analysis) Scope() string {
	if a.Capturing() {
		return scopeTextFocus
	}
	return scopeAnalysis
}

func (a Analysis) Note() string    { return a.note.Value() }
func (a Analysis) Summary() string { return a.summary }
func (a Analysis) Loading() bool   { return a.pending != 0 }

// BeginSummary marks seq as the only summary result still wanted.
func (a *Analysis) BeginSummary(seq int) { a.pending = seq }

// ApplySummary shows text if seq is the latest request. Stale results are
// dropped and reported as false.
func (a *Analysis) ApplySummary(seq int, text string) bool {
	if seq != a.pending {
		return false
	}
	a.summary = text
	a.pending = 0
	return true
}

func (a *Analysis) setFocus(f analysisFocus) tea.Cmd {
	a.focus = f
	a.note.Blur()
	a.power.Blur()
	switch f {
	case focusNote:
		return a.note.Focus()
	case focusPower:
		return a.power.Focus()
	}
	return nil
}

func (a *Analysis) SetWidth(width int) {
	if width > 8 {
		a.note.SetWidth(min(width-4, 72))
	}
}

func (a Analysis) Update(msg tea.Msg, keys *KeyRegistry) (Analysis, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return a.updateInputs(msg)
	}
	if !a.Capturing() {
		if b := keys.LookupLocal(km.String(), scopeAnalysis); b != nil {
			switch b.Action {
			case actionFocusNote:
				return a, a.setFocus(focusNote)
			case actionFocusPower:
				return a, a.setFocus(focusPower)
			}
		}
		return a, nil
	}
	if b := keys.LookupLocal(km.String(), scopeTextFocus); b != nil {
		switch b.Action {
		case actionBlur:
			return a, a.setFocus(focusNone)
		case actionNextField:
			if a.focus == focusNote {
				return a, a.setFocus(focusPower)
			}
			return a, a.setFocus(focusNote)
		}
	}
	return a.updateInputs(km)
}

func (a Analysis) updateInputs(msg tea.Msg) (Analysis, tea.Cmd) {
	var cmd tea.Cmd
	switch a.focus {
	case focusNote:
		before := a.note.Value()
		a.note, cmd = a.note.Update(msg)
		if v := a.note.Value(); v != before {
			a.store.SetNote(a.ctx, v)
		}
	case focusPower:
		a.power, cmd = a.power.Update(msg)
	}
	return a, cmd
}

// PowerResult parses input as a number and returns 2^x and x². ok is false
// for blank or non-numeric input, in which case nothing is shown.
func PowerResult(input string) (pow2, square float64, ok bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, 0, false
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, 0, false
	}
	return math.Pow(2, x), x * x, true
}

// TrendSeries returns the n consecutive days ending at end and each day's
// total, oldest first.
func TrendSeries(totals map[string]float64, end time.Time, loc *time.Location, n int) ([]time.Time, []float64) {
	end = end.In(loc)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)
	dates := make([]time.Time, 0, n)
	values := make([]float64, 0, n)
	for i := n - 1; i >= 0; i-- {
		d := last.AddDate(0, 0, -i)
		dates = append(dates, d)
		values = append(values, totals[ledger.DayKey(d, loc)])
	}
	return dates, values
}

func (a Analysis) View(days []ledger.DailyData, totals map[string]float64, today time.Time, loc *time.Location, width int) string {
	chartWidth := 60
	if width > 0 {
		chartWidth = max(min(width-6, 90), 20)
	}
	dates, values := TrendSeries(totals, today, loc, trendDays)

	sections := []string{
		titleStyle.Render("Analysis"),
		section("Periods", renderPeriods(ledger.PeriodSummaries(days))),
		section(fmt.Sprintf("Last %d days", trendDays), renderTrend(dates, values, chartWidth)),
		a.renderSummary(),
		a.renderNote(),
		a.renderPower(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func section(title, body string) string {
	return lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render(title), body)
}

func renderPeriods(periods []ledger.PeriodSummary) string {
	if len(periods) == 0 {
		return mutedStyle.Render("Not enough data yet. Log a few days on the calendar.")
	}
	lines := make([]string, 0, len(periods))
	for _, p := range periods {
		lines = append(lines, fmt.Sprintf("%s → %s  %s  %s",
			p.Start, p.End,
			mutedStyle.Render(fmt.Sprintf("%2d days", p.Count)),
			numberStyle.Render(formatNumber(p.Total))))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderTrend(dates []time.Time, values []float64, width int) string {
	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if len(dates) == 0 || maxVal == 0 {
		return mutedStyle.Render("Nothing logged in this range.")
	}

	chart := tslc.New(width, trendHeight)
	chart.SetXStep(1)
	chart.SetYStep(2)
	chart.SetStyle(lipgloss.NewStyle().Foreground(colorPeach))
	chart.AxisStyle = lipgloss.NewStyle().Foreground(colorSurface1)
	chart.LabelStyle = lipgloss.NewStyle().Foreground(colorOverlay1)
	chart.SetTimeRange(dates[0], dates[len(dates)-1])
	chart.SetViewTimeRange(dates[0], dates[len(dates)-1])
	chart.SetYRange(0, maxVal)
	chart.SetViewYRange(0, maxVal)
	for i, d := range dates {
		chart.Push(tslc.TimePoint{Time: d, Value: values[i]})
	}
	chart.DrawBraille()
	return chart.View()
}

func (a Analysis) renderSummary() string {
	var body string
	switch {
	case a.Loading():
		body = warningStyle.Render("Thinking…")
	case a.summary == "":
		body = mutedStyle.Render("Press s for an AI summary of the last 15 days.")
	case a.summary == service.MsgUnavailable:
		body = errorStyle.Render(a.summary)
	default:
		body = a.summary
	}
	return section("AI summary", boxStyle.Width(a.note.Width()+2).Render(body))
}

func (a Analysis) renderNote() string {
	style := boxStyle
	if a.focus == focusNote {
		style = focusBoxStyle
	}
	return section("Note", style.Render(a.note.View()))
}

func (a Analysis) renderPower() string {
	style := boxStyle
	if a.focus == focusPower {
		style = focusBoxStyle
	}
	body := a.power.View()
	if pow2, square, ok := PowerResult(a.power.Value()); ok {
		body += "\n" + fmt.Sprintf("2^x = %s\nx²  = %s",
			numberStyle.Render(formatNumber(pow2)), numberStyle.Render(formatNumber(square)))
	}
	return section("Power", style.Render(body))
}
