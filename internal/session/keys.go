package session

import (
	"fmt"
	"sort"
	"strings"
)

// Action names an editing operation reachable from a key or the toolbar.
type Action string

const (
	ActionClear  Action = "clear"
	ActionUndo   Action = "undo"
	ActionRedo   Action = "redo"
	ActionExport Action = "export"
	ActionCopy   Action = "copy"
	ActionPaste  Action = "paste"
)

// Actions lists the built-in actions in display order.
func Actions() []Action {
	return []Action{ActionClear, ActionUndo, ActionRedo, ActionExport, ActionCopy, ActionPaste}
}

// DefaultKeys maps key codes to the built-in actions. Tool shortcuts are
// resolved from the tools themselves.
func DefaultKeys() map[string]Action {
	return map[string]Action{
		"KeyC": ActionClear,
		"KeyZ": ActionUndo,
		"KeyY": ActionRedo,
		"KeyE": ActionExport,
		"KeyX": ActionCopy,
		"KeyV": ActionPaste,
	}
}

// NormalizeKeyCode accepts "c", "KeyC", "1", "Digit1" and returns the
// canonical code.
func NormalizeKeyCode(s string) (string, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return "", fmt.Errorf("empty key code")
	case len(s) == 1 && s[0] >= 'a' && s[0] <= 'z':
		return "Key" + strings.ToUpper(s), nil
	case len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z':
		return "Key" + s, nil
	case len(s) == 1 && s[0] >= '0' && s[0] <= '9':
		return "Digit" + s, nil
	case strings.HasPrefix(s, "Key") && len(s) == 4:
		return "Key" + strings.ToUpper(s[3:]), nil
	case strings.HasPrefix(s, "Digit") && len(s) == 6 && s[5] >= '0' && s[5] <= '9':
		return s, nil
	}
	return "", fmt.Errorf("unsupported key code %q", s)
}

// BindKey routes code to action, replacing any earlier binding of either.
func (s *Session) BindKey(code string, a Action) error {
	code, err := NormalizeKeyCode(code)
	if err != nil {
		return err
	}
	for k, existing := range s.keys {
		if existing == a {
			delete(s.keys, k)
		}
	}
	s.keys[code] = a
	return nil
}

// KeyBinding pairs a key code with its action.
type KeyBinding struct {
	Code   string
	Action Action
}

// Keys returns the action bindings sorted by code.
func (s *Session) Keys() []KeyBinding {
	out := make([]KeyBinding, 0, len(s.keys))
	for k, a := range s.keys {
		out = append(out, KeyBinding{Code: k, Action: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Key dispatches a key press. Action bindings win over tool shortcuts. It
// reports whether the key was bound.
func (s *Session) Key(code string) (bool, error) {
	if a, ok := s.keys[code]; ok {
		return true, s.Do(a)
	}
	if t, ok := s.tools.ByShortcut(code); ok {
		return true, s.SelectTool(t.Name)
	}
	return false, nil
}
