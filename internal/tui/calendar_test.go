package tui

import (
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
)

func TestTodayStyleWinsOverSelected(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		cell Cell
		want lipgloss.Style
	}{
		{"both", Cell{Day: 15, Today: true, Selected: true}, todayCellStyle},
		{"today", Cell{Day: 15, Today: true}, todayCellStyle},
		{"selected", Cell{Day: 15, Selected: true}, selectedCellStyle},
		{"plain", Cell{Day: 15}, dayCellStyle},
	}
	for _, tc := range cases {
		got := cellDayStyle(tc.cell)
		require.Equal(t, tc.want.GetForeground(), got.GetForeground(), tc.name)
		require.Equal(t, tc.want.GetBackground(), got.GetBackground(), tc.name)
		require.Equal(t, tc.want.GetUnderline(), got.GetUnderline(), tc.name)
	}
	require.NotEqual(t, selectedCellStyle.GetBackground(), cellDayStyle(Cell{Today: true, Selected: true}).GetBackground())
}

func TestBuildMonthLeadingBlanks(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		year      int
		month     time.Month
		weekStart time.Weekday
		blanks    int
		days      int
	}{
		{"jan 2025 sunday start", 2025, time.January, time.Sunday, 3, 31},
		{"jan 2025 monday start", 2025, time.January, time.Monday, 2, 31},
		{"feb 2024 leap", 2024, time.February, time.Sunday, 4, 29},
		{"feb 2025", 2025, time.February, time.Sunday, 6, 28},
		{"sep 2024 starts on sunday", 2024, time.September, time.Sunday, 0, 30},
		{"sep 2024 monday start", 2024, time.September, time.Monday, 6, 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := BuildMonth(tc.year, tc.month, tc.weekStart, "", "", nil)
			require.Len(t, m.Cells, tc.blanks+tc.days)
			for i := 0; i < tc.blanks; i++ {
				require.True(t, m.Cells[i].Blank)
			}
			first := m.Cells[tc.blanks]
			require.False(t, first.Blank)
			require.Equal(t, 1, first.Day)
			require.Equal(t, tc.days, m.Cells[len(m.Cells)-1].Day)
		})
	}
}

func TestBuildMonthFlagsAndTotals(t *testing.T) {
	t.Parallel()

	totals := map[string]float64{"2025-01-05": 1500, "2025-02-01": 10}
	m := BuildMonth(2025, time.January, time.Sunday, "2025-01-15", "2025-01-05", totals)

	byKey := map[string]Cell{}
	for _, c := range m.Cells {
		if !c.Blank {
			byKey[c.Key] = c
		}
	}
	require.Equal(t, 1500.0, byKey["2025-01-05"].Total)
	require.True(t, byKey["2025-01-05"].Selected)
	require.True(t, byKey["2025-01-15"].Today)
	require.Zero(t, byKey["2025-01-06"].Total)
	_, leaked := byKey["2025-02-01"]
	require.False(t, leaked)

	both := BuildMonth(2025, time.January, time.Sunday, "2025-01-15", "2025-01-15", nil)
	for _, c := range both.Cells {
		if c.Key == "2025-01-15" {
			require.True(t, c.Today)
			require.True(t, c.Selected)
		}
	}
}

func TestFormatCellTotal(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		1500:   "1.5k",
		999:    "999",
		1000:   "1.0k",
		12.5:   "12.5",
		23456:  "23.5k",
		999.99: "999.99",
	}
	for in, want := range cases {
		require.Equal(t, want, FormatCellTotal(in), "%v", in)
	}
}

func TestCalendarMovesAcrossMonths(t *testing.T) {
	t.Parallel()

	c := NewCalendar(time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), time.Sunday, time.UTC)
	c.Move(1)
	y, m := c.Displayed()
	require.Equal(t, 2025, y)
	require.Equal(t, time.February, m)
	require.Equal(t, "2025-02-01", c.CursorKey())

	c.Move(-7)
	require.Equal(t, "2025-01-25", c.CursorKey())

	c.Focus(time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC))
	c.ShiftMonth(1)
	require.Equal(t, "2025-02-28", c.CursorKey())

	c.Focus(time.Date(2024, time.December, 10, 0, 0, 0, 0, time.UTC))
	c.ShiftMonth(1)
	require.Equal(t, "2025-01-10", c.CursorKey())
	c.ShiftMonth(-13)
	require.Equal(t, "2023-12-10", c.CursorKey())
}

func TestCalendarKeys(t *testing.T) {
	t.Parallel()

	keys := NewKeyRegistry()
	c := NewCalendar(testNow, time.Sunday, time.UTC)

	c, _ = c.Update(keyMsg("right"), keys, testNow)
	require.Equal(t, "2025-01-16", c.CursorKey())
	c, _ = c.Update(keyMsg("j"), keys, testNow)
	require.Equal(t, "2025-01-23", c.CursorKey())
	c, _ = c.Update(keyMsg("]"), keys, testNow)
	require.Equal(t, "2025-02-23", c.CursorKey())
	c, _ = c.Update(keyMsg("t"), keys, testNow)
	require.Equal(t, "2025-01-15", c.CursorKey())

	_, cmd := c.Update(keyMsg("enter"), keys, testNow)
	require.NotNil(t, cmd)
	msg, ok := cmd().(openDayMsg)
	require.True(t, ok)
	require.Equal(t, "2025-01-15", msg.date.Format("2006-01-02"))
}

func TestCalendarViewShowsTotals(t *testing.T) {
	t.Parallel()

	c := NewCalendar(testNow, time.Sunday, time.UTC)
	out := c.View("2025-01-15", "2025-01-15", map[string]float64{"2025-01-03": 1500, "2025-01-04": 999}, ledgerStats(2499, 2))
	require.Contains(t, out, "January 2025")
	require.Contains(t, out, "1.5k")
	require.Contains(t, out, "999")
	require.Contains(t, out, "Days tracked")
}
