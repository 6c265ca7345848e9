package console

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Label names the semantic role of a line of output.
type Label string

const (
	Info    Label = "info"
	Success Label = "success"
	Warning Label = "warning"
	Error   Label = "error"
	Bold    Label = "bold"
	Title   Label = "title"
)

// Styles maps labels to display styles. It is built once and only read
// afterwards.
type Styles map[Label]*color.Color

// DefaultStyles returns the standard palette. When enabled is false every
// style prints plain text.
func DefaultStyles(enabled bool) Styles {
	styles := Styles{
		Info:    color.New(color.FgHiBlue),
		Success: color.New(color.FgHiGreen),
		Warning: color.New(color.FgHiYellow),
		Error:   color.New(color.FgHiRed),
		Bold:    color.New(color.Bold),
		Title:   color.New(color.FgHiBlue, color.Bold),
	}
	for _, c := range styles {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return styles
}

type Printer struct {
	w      io.Writer
	styles Styles
}

func NewPrinter(w io.Writer, styles Styles) *Printer {
	return &Printer{w: w, styles: styles}
}

// Println writes text in the style of label followed by a newline. Unknown
// labels print plain.
func (p *Printer) Println(label Label, text string) {
	fmt.Fprintln(p.w, p.Sprint(label, text))
}

func (p *Printer) Printf(label Label, format string, args ...any) {
	p.Println(label, fmt.Sprintf(format, args...))
}

// Sprint renders text in the style of label without writing it.
func (p *Printer) Sprint(label Label, text string) string {
	c, ok := p.styles[label]
	if !ok {
		return text
	}
	return c.Sprint(text)
}

// Plain writes text without styling.
func (p *Printer) Plain(text string) {
	fmt.Fprintln(p.w, text)
}

func (p *Printer) Plainf(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}
