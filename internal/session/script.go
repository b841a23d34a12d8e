package session

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/example/sketchpad/internal/sticker"
	"github.com/example/sketchpad/internal/tool"
)

// RunScript drives the session from a line-oriented script. Blank lines and
// lines starting with # are skipped. Coordinates are screen positions and go
// through the viewport like real pointer events.
//
//	tool NAME            select a tool
//	color SPEC           set the current tool colour
//	scale N              set the current tool scale
//	down X Y | move X Y | up [X Y]
//	enter X Y [held] | leave
//	undo | redo | clear
//	key CODE             press a key
//	sticker PATH [LABEL] load an image sticker
//	text LABEL...        add a text sticker in the current colour
//	export PATH          save PNG or PDF
func (s *Session) RunScript(r io.Reader) error {
	sc := bufio.NewScanner(r)
	line := 0
	var lastX, lastY float64
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		cmd, args := strings.ToLower(fields[0]), fields[1:]
		rest := strings.TrimSpace(strings.TrimPrefix(text, fields[0]))
		if err := s.runLine(cmd, args, rest, &lastX, &lastY); err != nil {
			return fmt.Errorf("line %d: %s: %w", line, cmd, err)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	return nil
}

func (s *Session) runLine(cmd string, args []string, rest string, lastX, lastY *float64) error {
	point := func() (float64, float64, error) {
		if len(args) < 2 {
			return 0, 0, fmt.Errorf("want X Y")
		}
		x, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("x: %w", err)
		}
		y, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("y: %w", err)
		}
		*lastX, *lastY = x, y
		return x, y, nil
	}
	one := func() (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("want one argument")
		}
		return args[0], nil
	}

	switch cmd {
	case "tool":
		name, err := one()
		if err != nil {
			return err
		}
		return s.SelectTool(name)
	case "color", "colour":
		if rest == "" {
			return fmt.Errorf("want a colour")
		}
		c, err := tool.ParseColor(rest)
		if err != nil {
			return err
		}
		s.SetColor(c)
	case "scale":
		v, err := one()
		if err != nil {
			return err
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid scale %q", v)
		}
		s.SetScale(f)
	case "down":
		x, y, err := point()
		if err != nil {
			return err
		}
		s.PointerDown(x, y)
	case "move":
		x, y, err := point()
		if err != nil {
			return err
		}
		s.PointerMove(x, y)
	case "up":
		if len(args) >= 2 {
			if _, _, err := point(); err != nil {
				return err
			}
		}
		s.PointerUp(*lastX, *lastY)
	case "enter":
		x, y, err := point()
		if err != nil {
			return err
		}
		held := len(args) > 2 && strings.EqualFold(args[2], "held")
		s.PointerEnter(x, y, held)
	case "leave":
		s.PointerLeave()
	case "undo", "redo", "clear":
		return s.Do(Action(cmd))
	case "key":
		v, err := one()
		if err != nil {
			return err
		}
		code, err := NormalizeKeyCode(v)
		if err != nil {
			return err
		}
		ok, err := s.Key(code)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("unbound key %s", code)
		}
	case "sticker":
		if len(args) < 1 {
			return fmt.Errorf("want PATH [LABEL]")
		}
		label := strings.Join(args[1:], " ")
		st, err := sticker.Load(args[0], label)
		if err != nil {
			return err
		}
		_, err = s.AddSticker(st)
		return err
	case "text":
		if rest == "" {
			return fmt.Errorf("want a label")
		}
		col := color.RGBA{A: 255}
		if t := s.tools.Current(); t != nil {
			col = t.Style().Color
		}
		st, err := sticker.FromText(rest, sticker.DefaultTextSize, col)
		if err != nil {
			return err
		}
		_, err = s.AddSticker(st)
		return err
	case "export":
		if rest == "" {
			return fmt.Errorf("want a path")
		}
		return s.Save(rest)
	default:
		return fmt.Errorf("unknown command")
	}
	return nil
}
