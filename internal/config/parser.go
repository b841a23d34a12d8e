package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"github.com/example/sketchpad/internal/theme"
	"github.com/example/sketchpad/internal/tool"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	// Context for parsing
	var currentSection string
	var currentTheme *theme.Theme
	var currentTool *ToolStyle
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			currentTheme = nil
			currentTool = nil

			switch {
			case strings.HasPrefix(currentSection, "theme."):
				themeName := strings.TrimPrefix(currentSection, "theme.")
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			case strings.HasPrefix(currentSection, "tool."):
				toolName := strings.TrimPrefix(currentSection, "tool.")
				currentTool = &ToolStyle{}
				cfg.Tools[toolName] = currentTool
			}
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		// Remove quotes if present
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case currentTool != nil:
			err = setToolField(currentTool, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "keys":
			cfg.Keys[strings.ToLower(key)] = value
		case currentSection == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, section, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	case "canvas_width":
		cfg.CanvasWidth, err = positiveInt(key, value)
	case "canvas_height":
		cfg.CanvasHeight, err = positiveInt(key, value)
	case "export_width":
		cfg.ExportWidth, err = positiveInt(key, value)
	case "export_height":
		cfg.ExportHeight, err = positiveInt(key, value)
	case "dpr":
		cfg.DPR, err = strconv.ParseFloat(value, 64)
		if err == nil && cfg.DPR <= 0 {
			err = fmt.Errorf("dpr must be positive")
		}
	case "background":
		cfg.Background, err = ParseBackground(value)
	case "shadow":
		cfg.Shadow, err = strconv.ParseBool(value)
	}
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	return nil
}

// ParseBackground accepts "transparent" or any colour tool.ParseColor does.
func ParseBackground(value string) (color.RGBA, error) {
	if strings.EqualFold(value, "transparent") || value == "" {
		return color.RGBA{}, nil
	}
	return tool.ParseColor(value)
}

func positiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return n, nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "export":
		n.Export = b
	case "copy":
		n.Copy = b
	case "sticker":
		n.Sticker = b
	}
	return nil
}

func setToolField(ts *ToolStyle, key, value string) error {
	switch strings.ToLower(key) {
	case "color", "colour":
		c, err := tool.ParseColor(value)
		if err != nil {
			return err
		}
		ts.Color, ts.HasColor = c, true
	case "scale", "width":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid scale %q", value)
		}
		ts.Scale = f
	}
	return nil
}
