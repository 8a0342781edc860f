package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/daytally/internal/ledger"
)

const calendarCellWidth = 8

// Cell is one slot of a month grid. Blank cells pad the first week so day 1
// lands under its weekday.
type Cell struct {
	Blank    bool
	Day      int
	Key      string
	Total    float64
	Today    bool
	Selected bool
}

// Month is the grid for one displayed month.
type Month struct {
	Year  int
	Month time.Month
	Cells []Cell
}

// LeadingBlanks is the number of empty cells before day 1 when weeks start
// on weekStart.
func LeadingBlanks(year int, month time.Month, weekStart time.Weekday) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	return (int(first) - int(weekStart) + 7) % 7
}

// BuildMonth lays out a month. today and selected are day keys; totals maps
// day keys to the day's total and may be nil.
func BuildMonth(year int, month time.Month, weekStart time.Weekday, today, selected string, totals map[string]float64) Month {
	blanks := LeadingBlanks(year, month, weekStart)
	days := ledger.DaysInMonth(year, month)
	cells := make([]Cell, 0, blanks+days)
	for i := 0; i < blanks; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for d := 1; d <= days; d++ {
		key := time.Date(year, month, d, 0, 0, 0, 0, time.UTC).Format(ledger.DayKeyLayout)
		cells = append(cells, Cell{
			Day:      d,
			Key:      key,
			Total:    totals[key],
			Today:    key == today,
			Selected: key == selected,
		})
	}
	return Month{Year: year, Month: month, Cells: cells}
}

// FormatCellTotal renders a day total for a calendar cell: thousands get one
// decimal and a "k" suffix, smaller totals are shown as stored.
func FormatCellTotal(total float64) string {
	if total >= 1000 {
		return strconv.FormatFloat(total/1000, 'f', 1, 64) + "k"
	}
	return ledger.FormatAmount(total)
}

// Calendar is the month view. The displayed month moves independently of
// the app's selected date; the cursor is a day within the displayed month.
type Calendar struct {
	year      int
	month     time.Month
	cursor    int
	weekStart time.Weekday
	loc       *time.Location
}

func NewCalendar(date time.Time, weekStart time.Weekday, loc *time.Location) Calendar {
	c := Calendar{weekStart: weekStart, loc: loc}
	c.Focus(date)
	return c
}

// Focus shows date's month with the cursor on date.
func (c *Calendar) Focus(date time.Time) {
	date = date.In(c.loc)
	c.year, c.month, c.cursor = date.Year(), date.Month(), date.Day()
}

func (c Calendar) Displayed() (int, time.Month) { return c.year, c.month }

func (c Calendar) CursorDate() time.Time {
	return time.Date(c.year, c.month, c.cursor, 0, 0, 0, 0, c.loc)
}

func (c Calendar) CursorKey() string { return ledger.DayKey(c.CursorDate(), c.loc) }

// Move shifts the cursor by days, following it into neighbouring months.
func (c *Calendar) Move(days int) {
	c.Focus(c.CursorDate().AddDate(0, 0, days))
}

// ShiftMonth moves the displayed month by delta, clamping the cursor to the
// new month's length.
func (c *Calendar) ShiftMonth(delta int) {
	c.year, c.month = ledger.ShiftMonth(c.year, c.month, delta)
	if n := ledger.DaysInMonth(c.year, c.month); c.cursor > n {
		c.cursor = n
	}
}

func (c Calendar) Update(msg tea.Msg, keys *KeyRegistry, today time.Time) (Calendar, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}
	if dx, dy, ok := direction(km.String()); ok {
		c.Move(dx + dy*7)
		return c, nil
	}
	b := keys.LookupLocal(km.String(), scopeCalendar)
	if b == nil {
		return c, nil
	}
	switch b.Action {
	case actionPrevMonth:
		c.ShiftMonth(-1)
	case actionNextMonth:
		c.ShiftMonth(1)
	case actionToday:
		c.Focus(today)
	case actionSelect:
		date := c.CursorDate()
		return c, func() tea.Msg { return openDayMsg{date: date} }
	}
	return c, nil
}

func (c Calendar) View(today, selected string, totals map[string]float64, stats ledger.Stats) string {
	grid := BuildMonth(c.year, c.month, c.weekStart, today, selected, totals)
	width := calendarCellWidth * 7

	title := lipgloss.PlaceHorizontal(width, lipgloss.Center,
		titleStyle.Render(fmt.Sprintf("%s %d", c.month, c.year)))

	heads := make([]string, 7)
	for i := range heads {
		name := time.Weekday((int(c.weekStart) + i) % 7).String()[:2]
		heads[i] = labelStyle.Width(calendarCellWidth).Align(lipgloss.Center).Render(name)
	}

	rows := []string{title, "", lipgloss.JoinHorizontal(lipgloss.Top, heads...)}
	for start := 0; start < len(grid.Cells); start += 7 {
		end := min(start+7, len(grid.Cells))
		week := make([]string, 0, 7)
		for _, cell := range grid.Cells[start:end] {
			week = append(week, c.renderCell(cell))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, week...))
	}

	body := strings.Join(rows, "\n")
	return lipgloss.JoinVertical(lipgloss.Left, boxStyle.Render(body), renderStats(stats))
}

func (c Calendar) renderCell(cell Cell) string {
	base := lipgloss.NewStyle().Width(calendarCellWidth).Align(lipgloss.Center)
	if cell.Blank {
		return base.Render("\n")
	}
	total := ""
	if cell.Total > 0 {
		total = ansi.Truncate(FormatCellTotal(cell.Total), calendarCellWidth-1, "…")
	}

	day := cellDayStyle(cell).Render(fmt.Sprintf("%2d", cell.Day))
	if cell.Day == c.cursor {
		day = cursorStyle.Render("›") + day + cursorStyle.Render("‹")
		base = base.Inherit(cursorCellStyle)
	}
	return base.Render(day + "\n" + cellTotalStyle.Render(total))
}

// cellDayStyle picks the day-number style; today wins over selected.
func cellDayStyle(cell Cell) lipgloss.Style {
	switch {
	case cell.Today:
		return todayCellStyle
	case cell.Selected:
		return selectedCellStyle
	}
	return dayCellStyle
}

func renderStats(s ledger.Stats) string {
	item := func(label, value string) string {
		return lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render(label), numberStyle.Render(value))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Render(item("Total", formatNumber(s.Total))),
		boxStyle.Render(item("Days tracked", strconv.Itoa(s.DaysTracked))),
		boxStyle.Render(item("Daily average", formatNumber(math.Round(s.DailyAverage)))),
	)
}
