package encode

import (
	"strings"

	"github.com/fatih/color"
)

// ColorAttr names a colorizable piece of printed output.
type ColorAttr int

const (
	TagColor ColorAttr = iota
	NameColor
	PropColor
	StringColor
	NumberColor
	KeywordColor
)

// Colors maps output pieces to sprintf-style colorizers.
type Colors struct {
	Default func(string, ...any) string
	Map     map[ColorAttr]func(string, ...any) string
}

func (c *Colors) Color(attr ColorAttr, s string) string {
	f := c.Map[attr]
	if f == nil {
		f = c.Default
	}
	if f == nil {
		return s
	}
	return f(strings.Replace(s, "%", "%%", -1))
}

func colorDefault(s string, _ ...any) string { return s }

// NewColors returns the default terminal palette.
func NewColors() *Colors {
	return &Colors{
		Default: colorDefault,
		Map: map[ColorAttr]func(string, ...any) string{
			TagColor:     color.RGB(74, 92, 138).SprintfFunc(),
			NameColor:    color.RGB(196, 96, 16).SprintfFunc(),
			PropColor:    color.RGB(128, 168, 196).SprintfFunc(),
			StringColor:  color.RGB(8, 196, 16).SprintfFunc(),
			NumberColor:  color.RGB(128, 216, 236).SprintfFunc(),
			KeywordColor: color.CyanString,
		},
	}
}
