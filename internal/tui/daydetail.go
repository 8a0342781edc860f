package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jask/daytally/internal/expr"
	"github.com/jask/daytally/internal/ledger"
)

type formFocus int

const (
	focusName formFocus = iota
	focusExpression
	focusKeypad
	formFocusCount
)

// keypadLayout is the on-screen calculator, row by row. "C" clears the
// expression; every other key appends its label.
var keypadLayout = [4][4]string{
	{"7", "8", "9", "+"},
	{"4", "5", "6", "-"},
	{"1", "2", "3", "*"},
	{"0", ".", "C", "/"},
}

const (
	itemNameWidth   = 24
	expressionLimit = 64
)

// DayDetail shows one day's items and the add-item form. The form state is
// never persisted; committed items go through the store.
type DayDetail struct {
	ctx   context.Context
	store Store
	date  time.Time
	key   string

	adding     bool
	focus      formFocus
	name       textinput.Model
	expression textinput.Model
	live       expr.Live
	hint       string
	padRow     int
	padCol     int

	cursor int
	status string
}

func NewDayDetail(ctx context.Context, store Store, date time.Time, loc *time.Location) DayDetail {
	name := textinput.New()
	name.Placeholder = "What was it?"
	name.CharLimit = 64
	name.Prompt = ""

	expression := textinput.New()
	expression.Placeholder = "20+35"
	expression.CharLimit = expressionLimit
	expression.Prompt = ""

	return DayDetail{
		ctx:        ctx,
		store:      store,
		date:       date,
		key:        ledger.DayKey(date, loc),
		name:       name,
		expression: expression,
	}
}

func (d DayDetail) Key() string           { return d.key }
func (d DayDetail) Date() time.Time       { return d.date }
func (d DayDetail) Day() ledger.DailyData { return d.store.Get(d.key) }
func (d DayDetail) Adding() bool          { return d.adding }
func (d DayDetail) LiveValue() float64    { return d.live.Value() }

// Capturing reports whether keys belong to the form rather than the app.
func (d DayDetail) Capturing() bool { return d.adding }

func (d DayDetail) Scope() string {
	switch {
	case !d.adding:
		return scopeDay
	case d.focus == focusKeypad:
		return scopeKeypad
	default:
		return scopeDayForm
	}
}

func (d *DayDetail) OpenForm() tea.Cmd {
	d.adding = true
	d.status = ""
	return d.setFocus(focusName)
}

// CloseForm hides the form. Typed text stays so reopening resumes it.
func (d *DayDetail) CloseForm() {
	d.adding = false
	d.name.Blur()
	d.expression.Blur()
}

func (d *DayDetail) resetForm() {
	d.name.SetValue("")
	d.expression.SetValue("")
	d.live.Reset()
	d.hint = ""
	d.padRow, d.padCol = 0, 0
	d.CloseForm()
}

func (d *DayDetail) setFocus(f formFocus) tea.Cmd {
	d.focus = f
	d.name.Blur()
	d.expression.Blur()
	switch f {
	case focusName:
		return d.name.Focus()
	case focusExpression:
		return d.expression.Focus()
	}
	return nil
}

func (d *DayDetail) cycleFocus(delta int) tea.Cmd {
	next := (int(d.focus) + delta + int(formFocusCount)) % int(formFocusCount)
	return d.setFocus(formFocus(next))
}

// SetName and SetExpression fill the form fields as if typed.
func (d *DayDetail) SetName(s string) {
	d.name.SetValue(s)
	d.refreshHint()
}

// The live value is computed from the field after the char limit applies, so
// a saved expression always evaluates to the saved amount.
func (d *DayDetail) SetExpression(s string) {
	d.expression.SetValue(s)
	d.expression.CursorEnd()
	d.live.Update(d.expression.Value())
}

// PressKey applies one keypad key to the expression field. Keys other than C
// are ignored once the field is full.
func (d *DayDetail) PressKey(label string) {
	if label == "C" {
		d.SetExpression("")
		return
	}
	current := d.expression.Value()
	if len([]rune(current+label)) > expressionLimit {
		return
	}
	d.SetExpression(current + label)
}

func (d *DayDetail) refreshHint() {
	d.hint = ledger.SuggestName(strings.TrimSpace(d.name.Value()), d.store.Names())
}

// AddItem commits the form as a new item. Zero and negative values are
// rejected and leave the form untouched.
func (d *DayDetail) AddItem() bool {
	amount := d.live.Value()
	if amount <= 0 {
		return false
	}
	name := strings.TrimSpace(d.name.Value())
	if name == "" {
		name = ledger.DefaultItemName
	}
	expression := strings.TrimSpace(d.expression.Value())
	if expression == "" {
		expression = ledger.FormatAmount(amount)
	}

	current := d.store.Get(d.key).Items
	items := make([]ledger.ConsumptionItem, 0, len(current)+1)
	items = append(items, current...)
	items = append(items, ledger.ConsumptionItem{
		ID:         ledger.NewItemID(),
		Name:       name,
		Amount:     amount,
		Category:   ledger.DefaultCategory,
		Expression: expression,
	})
	d.store.SetItems(d.ctx, d.key, items)
	d.resetForm()
	d.cursor = len(items) - 1
	d.status = fmt.Sprintf("Added %s.", name)
	return true
}

// DeleteItem removes the item with id and commits immediately.
func (d *DayDetail) DeleteItem(id string) {
	current := d.store.Get(d.key).Items
	items := make([]ledger.ConsumptionItem, 0, len(current))
	for _, it := range current {
		if it.ID != id {
			items = append(items, it)
		}
	}
	if len(items) == len(current) {
		return
	}
	d.store.SetItems(d.ctx, d.key, items)
	if d.cursor >= len(items) {
		d.cursor = max(len(items)-1, 0)
	}
	d.status = "Item deleted."
}

func (d DayDetail) Update(msg tea.Msg, keys *KeyRegistry) (DayDetail, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return d.updateInputs(msg)
	}
	switch {
	case !d.adding:
		return d.updateList(km, keys)
	case d.focus == focusKeypad:
		return d.updateKeypad(km, keys)
	default:
		return d.updateForm(km, keys)
	}
}

func (d DayDetail) updateList(km tea.KeyMsg, keys *KeyRegistry) (DayDetail, tea.Cmd) {
	b := keys.LookupLocal(km.String(), scopeDay)
	if b == nil {
		return d, nil
	}
	items := d.store.Get(d.key).Items
	switch b.Action {
	case actionAdd:
		return d, d.OpenForm()
	case actionNavigateList:
		if _, dy, ok := direction(km.String()); ok && len(items) > 0 {
			d.cursor = min(max(d.cursor+dy, 0), len(items)-1)
		}
	case actionDelete:
		if d.cursor < len(items) {
			d.DeleteItem(items[d.cursor].ID)
		}
	case actionPrevDay, actionNextDay:
		delta := -1
		if b.Action == actionNextDay {
			delta = 1
		}
		date := d.date.AddDate(0, 0, delta)
		return d, func() tea.Msg { return openDayMsg{date: date} }
	}
	return d, nil
}

func (d DayDetail) updateForm(km tea.KeyMsg, keys *KeyRegistry) (DayDetail, tea.Cmd) {
	if b := keys.LookupLocal(km.String(), scopeDayForm); b != nil {
		switch b.Action {
		case actionAcceptHint:
			if d.focus == focusName && d.hint != "" {
				d.name.SetValue(d.hint)
				d.name.CursorEnd()
				d.hint = ""
				return d, nil
			}
			return d, d.cycleFocus(1)
		case actionPrevField:
			return d, d.cycleFocus(-1)
		case actionConfirm:
			d.AddItem()
			return d, nil
		case actionCancel:
			d.CloseForm()
			return d, nil
		}
	}
	return d.updateInputs(km)
}

func (d DayDetail) updateKeypad(km tea.KeyMsg, keys *KeyRegistry) (DayDetail, tea.Cmd) {
	if label, ok := keypadSymbol(km.String()); ok {
		d.PressKey(label)
		return d, nil
	}
	b := keys.LookupLocal(km.String(), scopeKeypad)
	if b == nil {
		return d, nil
	}
	switch b.Action {
	case actionNavigateList:
		dx, dy, _ := direction(km.String())
		d.padRow = (d.padRow + dy + 4) % 4
		d.padCol = (d.padCol + dx + 4) % 4
	case actionPress:
		d.PressKey(keypadLayout[d.padRow][d.padCol])
	case actionConfirm:
		d.AddItem()
	case actionNextField:
		return d, d.cycleFocus(1)
	case actionPrevField:
		return d, d.cycleFocus(-1)
	case actionCancel:
		d.CloseForm()
	}
	return d, nil
}

func (d DayDetail) updateInputs(msg tea.Msg) (DayDetail, tea.Cmd) {
	var cmd tea.Cmd
	switch d.focus {
	case focusName:
		before := d.name.Value()
		d.name, cmd = d.name.Update(msg)
		if d.name.Value() != before {
			d.refreshHint()
		}
	case focusExpression:
		before := d.expression.Value()
		d.expression, cmd = d.expression.Update(msg)
		if d.expression.Value() != before {
			d.live.Update(d.expression.Value())
		}
	}
	return d, cmd
}

// keypadSymbol maps a typed character to its keypad key.
func keypadSymbol(s string) (string, bool) {
	for _, row := range keypadLayout {
		for _, label := range row {
			if s == label {
				return label, true
			}
		}
	}
	return "", false
}

func (d DayDetail) View(width int) string {
	day := d.store.Get(d.key)

	header := titleStyle.Render(d.date.Format("Monday, January 2, 2006"))
	total := heroStyle.Render("TOTAL  " + formatNumber(day.Total()))
	sections := []string{header, total}

	if d.adding {
		sections = append(sections, d.renderForm())
	}
	if d.status != "" {
		sections = append(sections, successStyle.Render(d.status))
	}
	sections = append(sections, d.renderItems(day.Items, width))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (d DayDetail) renderForm() string {
	field := func(label string, f formFocus, body string) string {
		style := labelStyle
		if d.focus == f {
			style = style.Foreground(colorFocus)
		}
		return style.Width(12).Render(label) + body
	}

	nameLine := field("Name", focusName, d.name.View())
	if d.hint != "" {
		nameLine += "  " + mutedStyle.Render("tab → "+d.hint)
	}
	exprLine := field("Amount", focusExpression, d.expression.View()) +
		"  " + numberStyle.Render("= "+formatNumber(d.live.Value()))

	rows := make([]string, 0, len(keypadLayout))
	for r, row := range keypadLayout {
		keysRow := make([]string, 0, len(row))
		for c, label := range row {
			style := keypadKeyStyle
			if d.focus == focusKeypad && r == d.padRow && c == d.padCol {
				style = keypadActiveStyle
			}
			keysRow = append(keysRow, style.Render(label))
		}
		rows = append(rows, strings.Join(keysRow, " "))
	}
	pad := field("Keypad", focusKeypad, "") + "\n" + strings.Join(rows, "\n")

	return focusBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, nameLine, exprLine, "", pad))
}

func (d DayDetail) renderItems(items []ledger.ConsumptionItem, width int) string {
	if len(items) == 0 {
		return mutedStyle.Render("Nothing logged for this day yet.")
	}
	nameWidth := itemNameWidth
	if width > 0 {
		nameWidth = min(nameWidth, max(width-24, 8))
	}
	lines := make([]string, 0, len(items))
	for i, it := range items {
		marker := "  "
		if i == d.cursor && !d.adding {
			marker = cursorStyle.Render("› ")
		}
		name := runewidth.FillRight(runewidth.Truncate(it.Name, nameWidth, "…"), nameWidth)
		line := marker + name + "  " + numberStyle.Render(fmt.Sprintf("%10s", formatNumber(it.Amount)))
		if it.ShowExpression() {
			line += "  " + mutedStyle.Render(it.Expression)
		}
		lines = append(lines, line)
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
