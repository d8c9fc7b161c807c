// Package preferences stores the display settings a user picks while filling
// in the wizard: a light or dark theme and a base font size. Settings survive
// restarts through a Store and resolve into a go-theme renderer config.
package preferences

import (
	"fmt"
	"strings"
)

// Theme is the colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Toggle flips between light and dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme accepts a theme name in any case.
func ParseTheme(raw string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(raw)))
	if !t.Valid() {
		return "", fmt.Errorf("preferences: unknown theme %q", raw)
	}
	return t, nil
}

// FontSize is the base text size.
type FontSize string

const (
	FontSizeSmall  FontSize = "small"
	FontSizeMedium FontSize = "medium"
	FontSizeLarge  FontSize = "large"
)

// DefaultFontSize is used when nothing valid is stored.
const DefaultFontSize = FontSizeMedium

// FontSizes lists every size in ascending order.
var FontSizes = []FontSize{FontSizeSmall, FontSizeMedium, FontSizeLarge}

var fontSizePixels = map[FontSize]string{
	FontSizeSmall:  "14px",
	FontSizeMedium: "16px",
	FontSizeLarge:  "18px",
}

// Valid reports whether s is a known size.
func (s FontSize) Valid() bool {
	_, ok := fontSizePixels[s]
	return ok
}

// CSSValue returns the pixel value applied to --base-font-size.
func (s FontSize) CSSValue() string {
	if px, ok := fontSizePixels[s]; ok {
		return px
	}
	return fontSizePixels[DefaultFontSize]
}

// ParseFontSize accepts a size name in any case.
func ParseFontSize(raw string) (FontSize, error) {
	s := FontSize(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("preferences: unknown font size %q", raw)
	}
	return s, nil
}

// Snapshot is the resolved state, suitable for templates and JSON.
type Snapshot struct {
	Theme         Theme    `json:"theme"`
	FontSize      FontSize `json:"fontSize"`
	FontSizeValue string   `json:"fontSizeValue"`
}
