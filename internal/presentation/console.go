package presentation

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"filecopier/internal/domain"
)

// ConsoleSink renders run events as plain terminal lines. Failures and
// warnings go to ErrWriter when it is set.
type ConsoleSink struct {
	Writer    io.Writer
	ErrWriter io.Writer
	NoColor   bool
}

func (s ConsoleSink) OnEvent(event domain.Event) {
	switch event.Kind {
	case domain.EventStart:
		fmt.Fprintf(s.Writer, "Processing %d files\n", event.Total)
	case domain.EventTransferred:
		fmt.Fprintf(s.Writer, "%s %s\n", s.paint(color.FgGreen, "✓"), event.Message)
		s.progress(event)
	case domain.EventFailed:
		fmt.Fprintf(s.errWriter(), "%s %s\n", s.paint(color.FgRed, "✗"), s.paint(color.FgRed, event.Message))
		s.progress(event)
	case domain.EventWarning:
		fmt.Fprintf(s.errWriter(), "%s %s\n", s.paint(color.FgYellow, "⚠"), event.Message)
	case domain.EventNoMatch:
		fmt.Fprintln(s.Writer, event.Message)
	}
}

func (s ConsoleSink) progress(event domain.Event) {
	fmt.Fprintf(s.Writer, "  Progress: %d/%d (%.0f%%)\n", event.Current, event.Total, event.Percent()*100)
}

func (s ConsoleSink) paint(attr color.Attribute, text string) string {
	c := color.New(attr)
	if s.NoColor {
		c.DisableColor()
	}
	return c.Sprint(text)
}

func (s ConsoleSink) errWriter() io.Writer {
	if s.ErrWriter != nil {
		return s.ErrWriter
	}
	return s.Writer
}
