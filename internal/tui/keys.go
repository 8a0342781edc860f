package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type Action string

// Binding maps a set of key names to an action inside one scope. The first
// key is the one shown in the footer.
type Binding struct {
	Action Action
	Keys   []string
	Help   string
}

type KeyRegistry struct {
	bindingsByScope map[string][]*Binding
	indexByScope    map[string]map[string]*Binding
}

const (
	scopeGlobal    = "global"
	scopeCalendar  = "calendar"
	scopeDay       = "day"
	scopeDayForm   = "day_form"
	scopeKeypad    = "keypad"
	scopeAnalysis  = "analysis"
	scopeTextFocus = "text_focus"
)

const (
	actionQuit         Action = "quit"
	actionGoCalendar   Action = "go_calendar"
	actionGoAnalysis   Action = "go_analysis"
	actionGoDay        Action = "go_day"
	actionBack         Action = "back"
	actionHelp         Action = "help"
	actionPrevDay      Action = "prev_day"
	actionNextDay      Action = "next_day"
	actionPrevMonth    Action = "prev_month"
	actionNextMonth    Action = "next_month"
	actionToday        Action = "today"
	actionSelect       Action = "select"
	actionAdd          Action = "add"
	actionDelete       Action = "delete"
	actionNextField    Action = "next_field"
	actionPrevField    Action = "prev_field"
	actionConfirm      Action = "confirm"
	actionCancel       Action = "cancel"
	actionPress        Action = "press"
	actionSummarize    Action = "summarize"
	actionFocusNote    Action = "focus_note"
	actionFocusPower   Action = "focus_power"
	actionBlur         Action = "blur"
	actionForceQuit    Action = "force_quit"
	actionAcceptHint   Action = "accept_hint"
	actionNavigateList Action = "navigate"
)

func NewKeyRegistry() *KeyRegistry {
	r := &KeyRegistry{
		bindingsByScope: make(map[string][]*Binding),
		indexByScope:    make(map[string]map[string]*Binding),
	}

	reg := func(scope string, action Action, keys []string, help string) {
		r.Register(scope, Binding{Action: action, Keys: keys, Help: help})
	}

	// Global fallback lookup. Not consulted while a text field has focus.
	reg(scopeGlobal, actionQuit, []string{"q", "ctrl+c"}, "quit")
	reg(scopeGlobal, actionGoCalendar, []string{"c"}, "calendar")
	reg(scopeGlobal, actionGoAnalysis, []string{"a"}, "analysis")
	reg(scopeGlobal, actionBack, []string{"esc"}, "back")
	reg(scopeGlobal, actionHelp, []string{"?"}, "help")

	reg(scopeCalendar, actionNavigateList, []string{"←↓↑→", "left", "h", "down", "j", "up", "k", "right", "l"}, "move")
	reg(scopeCalendar, actionPrevMonth, []string{"[", "pgup"}, "prev month")
	reg(scopeCalendar, actionNextMonth, []string{"]", "pgdown"}, "next month")
	reg(scopeCalendar, actionToday, []string{"t"}, "today")
	reg(scopeCalendar, actionSelect, []string{"enter", "space"}, "open day")
	reg(scopeCalendar, actionGoAnalysis, []string{"a"}, "analysis")
	reg(scopeCalendar, actionQuit, []string{"q", "ctrl+c"}, "quit")

	reg(scopeDay, actionAdd, []string{"n", "+"}, "add item")
	reg(scopeDay, actionNavigateList, []string{"j/k", "j", "k", "up", "down"}, "navigate")
	reg(scopeDay, actionDelete, []string{"d", "x", "delete"}, "delete")
	reg(scopeDay, actionPrevDay, []string{"h", "left"}, "prev day")
	reg(scopeDay, actionNextDay, []string{"l", "right"}, "next day")
	reg(scopeDay, actionBack, []string{"esc"}, "calendar")
	reg(scopeDay, actionGoAnalysis, []string{"a"}, "analysis")
	reg(scopeDay, actionQuit, []string{"q", "ctrl+c"}, "quit")

	reg(scopeDayForm, actionAcceptHint, []string{"tab"}, "next / accept hint")
	reg(scopeDayForm, actionPrevField, []string{"shift+tab"}, "prev field")
	reg(scopeDayForm, actionConfirm, []string{"enter"}, "add")
	reg(scopeDayForm, actionCancel, []string{"esc"}, "cancel")
	reg(scopeDayForm, actionForceQuit, []string{"ctrl+c"}, "quit")

	reg(scopeKeypad, actionNavigateList, []string{"←↓↑→", "left", "h", "down", "j", "up", "k", "right", "l"}, "move")
	reg(scopeKeypad, actionPress, []string{"space", "enter"}, "press")
	reg(scopeKeypad, actionConfirm, []string{"ctrl+s"}, "add")
	reg(scopeKeypad, actionNextField, []string{"tab"}, "next field")
	reg(scopeKeypad, actionPrevField, []string{"shift+tab"}, "prev field")
	reg(scopeKeypad, actionCancel, []string{"esc"}, "cancel")
	reg(scopeKeypad, actionForceQuit, []string{"ctrl+c"}, "quit")

	reg(scopeAnalysis, actionSummarize, []string{"s"}, "ai summary")
	reg(scopeAnalysis, actionFocusNote, []string{"e", "tab"}, "edit note")
	reg(scopeAnalysis, actionFocusPower, []string{"p"}, "calculator")
	reg(scopeAnalysis, actionGoDay, []string{"d"}, "selected day")
	reg(scopeAnalysis, actionBack, []string{"esc"}, "calendar")
	reg(scopeAnalysis, actionQuit, []string{"q", "ctrl+c"}, "quit")

	reg(scopeTextFocus, actionNextField, []string{"tab"}, "next field")
	reg(scopeTextFocus, actionBlur, []string{"esc"}, "done")
	reg(scopeTextFocus, actionForceQuit, []string{"ctrl+c"}, "quit")

	return r
}

// Register adds b to scope. Keys already bound in the scope are ignored so
// the first registration wins.
func (r *KeyRegistry) Register(scope string, b Binding) {
	if r == nil {
		return
	}
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return
	}
	keys := normalizeKeyList(b.Keys)
	if len(keys) == 0 {
		return
	}
	if _, ok := r.indexByScope[scope]; !ok {
		r.indexByScope[scope] = make(map[string]*Binding)
	}
	copyBinding := b
	copyBinding.Keys = keys
	r.bindingsByScope[scope] = append(r.bindingsByScope[scope], &copyBinding)
	for _, k := range keys {
		if _, taken := r.indexByScope[scope][k]; taken {
			continue
		}
		r.indexByScope[scope][k] = &copyBinding
	}
}

// Lookup resolves keyName in scope, falling back to the global scope.
func (r *KeyRegistry) Lookup(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	keyName = normalizeKeyName(keyName)
	if b := r.indexByScope[scope][keyName]; b != nil {
		return b
	}
	if scope != scopeGlobal {
		return r.indexByScope[scopeGlobal][keyName]
	}
	return nil
}

// LookupLocal resolves keyName in scope only.
func (r *KeyRegistry) LookupLocal(keyName, scope string) *Binding {
	if r == nil || keyName == "" {
		return nil
	}
	return r.indexByScope[scope][normalizeKeyName(keyName)]
}

func (r *KeyRegistry) HelpBindings(scope string) []key.Binding {
	if r == nil {
		return nil
	}
	items := r.bindingsByScope[scope]
	out := make([]key.Binding, 0, len(items))
	for _, b := range items {
		out = append(out, key.NewBinding(key.WithKeys(b.Keys...), key.WithHelp(b.Keys[0], b.Help)))
	}
	return out
}

func normalizeKeyList(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool)
	for _, k := range keys {
		n := normalizeKeyName(k)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func normalizeKeyName(k string) string {
	if k == " " {
		return "space"
	}
	trimmed := strings.TrimSpace(k)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 1 {
		return trimmed
	}
	s := strings.ToLower(trimmed)
	s = strings.ReplaceAll(s, "control+", "ctrl+")
	s = strings.ReplaceAll(s, "return", "enter")
	return s
}

// direction converts a movement key into a (dx, dy) step.
func direction(keyName string) (int, int, bool) {
	switch normalizeKeyName(keyName) {
	case "left", "h":
		return -1, 0, true
	case "right", "l":
		return 1, 0, true
	case "up", "k":
		return 0, -1, true
	case "down", "j":
		return 0, 1, true
	}
	return 0, 0, false
}
