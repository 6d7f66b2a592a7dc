package ui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Banner is printed at the start of every run
const Banner = "wallget: wallpaper auto-downloader"

// Console writes styled lines to an output and an error stream
type Console struct {
	out       io.Writer
	errOut    io.Writer
	styles    Styles
	errStyles Styles
}

// NewConsole creates a Console. Nil writers default to stdout and stderr.
func NewConsole(out, errOut io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}

	return &Console{
		out:       out,
		errOut:    errOut,
		styles:    NewStyles(out),
		errStyles: NewStyles(errOut),
	}
}

// Out returns the standard output writer
func (c *Console) Out() io.Writer {
	return c.out
}

// IsTerminal reports whether the output is an interactive terminal
func (c *Console) IsTerminal() bool {
	f, ok := c.out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// PrintLogo prints the banner
func (c *Console) PrintLogo() {
	fmt.Fprintln(c.out, c.styles.Logo.Render(Banner))
	fmt.Fprintln(c.out)
}

// Println prints an unstyled line
func (c *Console) Println(msg string) {
	fmt.Fprintln(c.out, msg)
}

// PrintError prints an error message to the error stream
func (c *Console) PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(c.errOut, c.errStyles.Error.Render(msg))
}

// PrintSuccess prints a success message
func (c *Console) PrintSuccess(msg string) {
	fmt.Fprintln(c.out, c.styles.Success.Render(msg))
}

// PrintInfo prints a label and value pair
func (c *Console) PrintInfo(label string, value string) {
	fmt.Fprintf(c.out, "%s: %s\n", c.styles.Label.Render(label), c.styles.Value.Render(value))
}

// PrintWarning prints a warning message
func (c *Console) PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(c.out, c.styles.Warning.Render(msg))
}

// PrintHighlight prints a highlighted message
func (c *Console) PrintHighlight(msg string) {
	fmt.Fprintln(c.out, c.styles.Highlight.Render(msg))
}

// PrintDim prints a de-emphasized message
func (c *Console) PrintDim(msg string) {
	fmt.Fprintln(c.out, c.styles.Dim.Render(msg))
}
