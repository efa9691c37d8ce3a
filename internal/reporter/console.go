package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const separatorWidth = 70

// Console prints operation progress lines and summaries for the CLI
type Console struct {
	out   io.Writer
	level LogLevel

	green  *color.Color
	yellow *color.Color
	cyan   *color.Color
	blue   *color.Color
	red    *color.Color
	bold   *color.Color
}

// NewConsole creates a console writing to out. Colour is only emitted when
// useColor is set and fatih/color has not disabled it for a non-terminal.
func NewConsole(out io.Writer, level LogLevel, useColor bool) *Console {
	c := &Console{
		out:    out,
		level:  level,
		green:  color.New(color.FgGreen),
		yellow: color.New(color.FgYellow),
		cyan:   color.New(color.FgCyan),
		blue:   color.New(color.FgBlue),
		red:    color.New(color.FgRed),
		bold:   color.New(color.Bold),
	}

	if !useColor {
		for _, col := range []*color.Color{c.green, c.yellow, c.cyan, c.blue, c.red, c.bold} {
			col.DisableColor()
		}
	}

	return c
}

// Discard returns a console that prints nothing
func Discard() *Console {
	return NewConsole(io.Discard, LogLevelQuiet, false)
}

// Level returns the console log level
func (c *Console) Level() LogLevel {
	return c.level
}

// Writer returns the underlying writer
func (c *Console) Writer() io.Writer {
	return c.out
}

// Header prints a title followed by a separator line
func (c *Console) Header(title string) {
	if c.level == LogLevelQuiet {
		return
	}
	fmt.Fprintf(c.out, "\n%s\n", c.bold.Sprint(title))
	c.Separator()
}

// Separator prints a horizontal rule
func (c *Console) Separator() {
	if c.level == LogLevelQuiet {
		return
	}
	fmt.Fprintln(c.out, strings.Repeat("─", separatorWidth))
}

// Item prints a single tagged per-file line such as "[MOVED] a.jpg → Images/".
// Suppressed in quiet mode.
func (c *Console) Item(tag, text string) {
	if c.level == LogLevelQuiet {
		return
	}
	fmt.Fprintf(c.out, "%s %s\n", c.colorFor(tag).Sprintf("[%s]", tag), text)
}

// Detail prints an indented continuation line under an Item
func (c *Console) Detail(format string, args ...interface{}) {
	if c.level == LogLevelQuiet {
		return
	}
	fmt.Fprintf(c.out, "    "+format+"\n", args...)
}

// Info prints a normal-level message
func (c *Console) Info(format string, args ...interface{}) {
	if c.level == LogLevelQuiet {
		return
	}
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Debug prints only in verbose mode
func (c *Console) Debug(format string, args ...interface{}) {
	if c.level < LogLevelVerbose {
		return
	}
	fmt.Fprintf(c.out, c.blue.Sprint("debug: ")+format+"\n", args...)
}

// Summary prints a final tally line. Always printed, even when quiet.
func (c *Console) Summary(format string, args ...interface{}) {
	fmt.Fprintf(c.out, c.green.Sprint("✓ ")+format+"\n", args...)
}

// Warn prints a warning. Always printed.
func (c *Console) Warn(format string, args ...interface{}) {
	fmt.Fprintf(c.out, c.yellow.Sprint("⚠ ")+format+"\n", args...)
}

// Error prints an error line. Always printed.
func (c *Console) Error(format string, args ...interface{}) {
	fmt.Fprintf(c.out, c.red.Sprint("✗ ")+format+"\n", args...)
}

func (c *Console) colorFor(tag string) *color.Color {
	switch {
	case strings.HasPrefix(tag, "WOULD"), tag == "DRY RUN":
		return c.cyan
	case tag == "DUPLICATE", tag == "SKIPPED":
		return c.yellow
	case tag == "ORIGINAL":
		return c.blue
	case tag == "ERROR", tag == "MISSING":
		return c.red
	default:
		return c.green
	}
}
