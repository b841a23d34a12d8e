package appstate

import (
	"golang.org/x/mobile/event/key"

	"github.com/example/sketchpad/internal/session"
)

// keyCode converts a key event into the session's key code names, "KeyA"
// through "KeyZ" and "Digit0" through "Digit9". Other keys yield "".
func keyCode(e key.Event) string {
	switch {
	case e.Code >= key.CodeA && e.Code <= key.CodeZ:
		return "Key" + string(rune('A'+int(e.Code-key.CodeA)))
	case e.Code >= key.Code1 && e.Code <= key.Code9:
		return "Digit" + string(rune('1'+int(e.Code-key.Code1)))
	case e.Code == key.Code0:
		return "Digit0"
	}
	if e.Rune > 0 && e.Rune < 128 {
		if code, err := session.NormalizeKeyCode(string(e.Rune)); err == nil {
			return code
		}
	}
	return ""
}

// windowKey names the keys the window handles itself when the session
// leaves them unbound.
type windowKey int

const (
	winNone windowKey = iota
	winQuit
	winGrab
)

func windowAction(e key.Event, code string) windowKey {
	switch {
	case e.Code == key.CodeEscape, code == "KeyQ":
		return winQuit
	case code == "KeyG":
		return winGrab
	}
	return winNone
}
