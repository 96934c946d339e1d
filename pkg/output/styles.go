package output

import (
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Styles decorates the pieces of human output
type Styles interface {
	Banner(s string) string
	Header(s string) string
	Error(s string) string
	Empty(s string) string
}

// NewStyles returns colored styles, or plain ones when enabled is false
func NewStyles(enabled bool) Styles {
	if !enabled {
		return PlainStyles{}
	}

	colors := &ColorStyles{
		banner: color.New(color.FgHiGreen),
		header: color.New(color.FgHiMagenta),
		err:    color.New(color.FgHiRed),
	}
	// The color package disables itself when stdout is not a terminal;
	// the caller has already decided
	for _, c := range []*color.Color{colors.banner, colors.header, colors.err} {
		c.EnableColor()
	}
	return colors
}

// ColorEnabled reports whether output to w should be colored
func ColorEnabled(w io.Writer, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(w)
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// ColorStyles uses ANSI colors
type ColorStyles struct {
	banner *color.Color
	header *color.Color
	err    *color.Color
}

func (s *ColorStyles) Banner(str string) string { return s.banner.Sprint(str) }
func (s *ColorStyles) Header(str string) string { return s.header.Sprint(str) }
func (s *ColorStyles) Error(str string) string { return s.err.Sprint("ERROR: " + str) }
func (s *ColorStyles) Empty(str string) string { return s.header.Sprint(str) }

// PlainStyles leaves text undecorated apart from the error prefix
type PlainStyles struct{}

func (PlainStyles) Banner(str string) string { return str }
func (PlainStyles) Header(str string) string { return str }
func (PlainStyles) Error(str string) string { return "ERROR: " + str }
func (PlainStyles) Empty(str string) string { return str }
