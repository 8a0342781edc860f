// Package tui is the terminal front end: a calendar of daily totals, a
// per-day item editor and an analysis view, wired to a ledger.Store.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/jask/daytally/internal/ledger"
	"github.com/jask/daytally/internal/service"
)

// Store is the slice of ledger.Store the views read and mutate.
type Store interface {
	Get(key string) ledger.DailyData
	SetItems(ctx context.Context, key string, items []ledger.ConsumptionItem) ledger.DailyData
	All() []ledger.DailyData
	Totals() map[string]float64
	Names() []string
	Note() string
	SetNote(ctx context.Context, text string)
}

// Summarizer turns recent records into a short habit summary. It must not
// fail; errors are expressed in the returned text.
type Summarizer interface {
	Summarize(ctx context.Context, days []ledger.DailyData) string
}

// view is the active screen. Exactly one of the concrete types below.
type view interface{ title() string }

type calendarView struct{}

type dayDetailView struct{ date time.Time }

type analysisView struct{}

func (calendarView) title() string  { return "Calendar" }
func (dayDetailView) title() string { return "Day" }
func (analysisView) title() string  { return "Analysis" }

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

type openDayMsg struct{ date time.Time }

type summaryMsg struct {
	seq  int
	text string
}

type Options struct {
	Summarizer Summarizer
	Location   *time.Location
	WeekStart  time.Weekday
	// Now defaults to time.Now.
	Now func() time.Time
	Log zerolog.Logger
}

type App struct {
	ctx        context.Context
	store      Store
	summarizer Summarizer
	loc        *time.Location
	now        func() time.Time
	log        zerolog.Logger
	keys       *KeyRegistry
	help       help.Model

	view     view
	selected time.Time
	stats    ledger.Stats

	calendar Calendar
	detail   DayDetail
	analysis Analysis
	seq      int

	width  int
	height int
}

func New(ctx context.Context, store Store, opts Options) App {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(colorAccent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(colorOverlay1)
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc

	today := opts.Now().In(opts.Location)
	a := App{
		ctx:        ctx,
		store:      store,
		summarizer: opts.Summarizer,
		loc:        opts.Location,
		now:        opts.Now,
		log:        opts.Log,
		keys:       NewKeyRegistry(),
		help:       h,
		view:       calendarView{},
		selected:   today,
		calendar:   NewCalendar(today, opts.WeekStart, opts.Location),
	}
	a.refreshStats()
	return a
}

func (a App) Init() tea.Cmd { return nil }

// ActiveKey is the day key of the selected date.
func (a App) ActiveKey() string { return ledger.DayKey(a.selected, a.loc) }

func (a App) Stats() ledger.Stats { return a.stats }

func (a App) today() time.Time { return a.now().In(a.loc) }

func (a *App) refreshStats() {
	a.stats = ledger.ComputeStats(a.store.All())
}

func (a App) capturing() bool {
	switch a.view.(type) {
	case dayDetailView:
		return a.detail.Capturing()
	case analysisView:
		return a.analysis.Capturing()
	}
	return false
}

func (a App) scope() string {
	switch a.view.(type) {
	case dayDetailView:
		return a.detail.Scope()
	case analysisView:
		return a.analysis.Scope()
	}
	return scopeCalendar
}

func (a *App) showCalendar() {
	a.calendar.Focus(a.selected)
	a.view = calendarView{}
	a.log.Debug().Str("view", "calendar").Msg("navigate")
}

func (a *App) openDay(date time.Time) {
	a.selected = date.In(a.loc)
	a.detail = NewDayDetail(a.ctx, a.store, a.selected, a.loc)
	a.view = dayDetailView{date: a.selected}
	a.calendar.Focus(a.selected)
	a.log.Debug().Str("view", "day").Str("date", a.ActiveKey()).Msg("navigate")
}

func (a *App) showAnalysis() {
	a.analysis = NewAnalysis(a.ctx, a.store)
	a.analysis.SetWidth(a.width)
	a.view = analysisView{}
	a.log.Debug().Str("view", "analysis").Msg("navigate")
}

// requestSummary starts an asynchronous summary of the most recent records.
func (a *App) requestSummary() tea.Cmd {
	if a.summarizer == nil {
		a.analysis.ApplySummary(0, service.MsgUnavailable)
		return nil
	}
	a.seq++
	seq := a.seq
	a.analysis.BeginSummary(seq)
	days := ledger.RecentDays(a.store.All(), service.RecentWindow)
	ctx, summarizer, log := a.ctx, a.summarizer, a.log
	log.Debug().Int("seq", seq).Int("days", len(days)).Msg("summary requested")
	return func() tea.Msg {
		return summaryMsg{seq: seq, text: summarizer.Summarize(ctx, days)}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.help.Width = msg.Width
		if _, ok := a.view.(analysisView); ok {
			a.analysis.SetWidth(msg.Width)
		}
		return a, nil

	case openDayMsg:
		a.openDay(msg.date)
		return a, nil

	case summaryMsg:
		if _, ok := a.view.(analysisView); !ok || !a.analysis.ApplySummary(msg.seq, msg.text) {
			a.log.Debug().Int("seq", msg.seq).Msg("stale summary dropped")
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.capturing() {
			if model, cmd, handled := a.handleNavigation(msg); handled {
				return model, cmd
			}
		}
	}
	return a.delegate(msg)
}

// handleNavigation resolves keys that switch views or leave the program.
func (a App) handleNavigation(msg tea.KeyMsg) (App, tea.Cmd, bool) {
	b := a.keys.Lookup(msg.String(), a.scope())
	if b == nil {
		return a, nil, false
	}
	switch b.Action {
	case actionQuit:
		return a, tea.Quit, true
	case actionHelp:
		a.help.ShowAll = !a.help.ShowAll
		return a, nil, true
	case actionGoCalendar:
		a.showCalendar()
		return a, nil, true
	case actionBack:
		if _, ok := a.view.(calendarView); ok {
			return a, nil, true
		}
		a.showCalendar()
		return a, nil, true
	case actionGoAnalysis:
		if _, ok := a.view.(analysisView); !ok {
			a.showAnalysis()
		}
		return a, nil, true
	case actionGoDay:
		a.openDay(a.selected)
		return a, nil, true
	case actionSummarize:
		return a, a.requestSummary(), true
	}
	return a, nil, false
}

func (a App) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view.(type) {
	case calendarView:
		a.calendar, cmd = a.calendar.Update(msg, a.keys, a.today())
	case dayDetailView:
		a.detail, cmd = a.detail.Update(msg, a.keys)
		a.refreshStats()
	case analysisView:
		a.analysis, cmd = a.analysis.Update(msg, a.keys)
	}
	return a, cmd
}

func (a App) View() string {
	var body string
	switch v := a.view.(type) {
	case calendarView:
		today := ledger.DayKey(a.today(), a.loc)
		body = a.calendar.View(today, a.ActiveKey(), a.store.Totals(), a.stats)
	case dayDetailView:
		body = a.detail.View(a.width)
	case analysisView:
		body = a.analysis.View(a.store.All(), a.store.Totals(), a.today(), a.loc, a.width)
	default:
		panic(fmt.Sprintf("tui: unknown view %T", v))
	}

	parts := []string{a.renderHeader(), body, a.renderStatus(), a.renderFooter()}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a App) renderHeader() string {
	tabs := []view{calendarView{}, dayDetailView{}, analysisView{}}
	rendered := make([]string, 0, len(tabs)+1)
	rendered = append(rendered, titleStyle.Background(colorMantle).Render("daytally "))
	for _, t := range tabs {
		style := inactiveTabStyle
		if t.title() == a.view.title() {
			style = activeTabStyle
		}
		rendered = append(rendered, style.Render(t.title()))
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	if a.width > 0 {
		return headerBarStyle.Width(a.width).Render(bar)
	}
	return headerBarStyle.Render(bar)
}

func (a App) renderStatus() string {
	parts := []string{a.ActiveKey()}
	if _, ok := a.view.(calendarView); ok {
		y, m := a.calendar.Displayed()
		parts = append(parts, "showing "+time.Date(y, m, 1, 0, 0, 0, 0, a.loc).Format("Jan 2006"))
	}
	return statusStyle.Render(strings.Join(parts, " · "))
}

func (a App) renderFooter() string {
	local := a.keys.HelpBindings(a.scope())
	if a.help.ShowAll {
		groups := [][]key.Binding{local}
		if !a.capturing() {
			groups = append(groups, a.keys.HelpBindings(scopeGlobal))
		}
		return a.help.FullHelpView(groups)
	}
	return a.help.ShortHelpView(local)
}
