// Package console provides the plain terminal front end for interactive
// sessions.
package console

import (
	"bufio"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	replyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Console reads user lines from in and writes styled output to out.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  string
}

// New creates a console with the given prompt label.
func New(in io.Reader, out io.Writer, prompt string) *Console {
	if prompt == "" {
		prompt = "you"
	}
	return &Console{
		scanner: bufio.NewScanner(in),
		out:     out,
		prompt:  prompt,
	}
}

// ReadLine prompts and blocks for the next line. ok is false when input
// is exhausted.
func (c *Console) ReadLine() (string, bool) {
	fmt.Fprint(c.out, promptStyle.Render(c.prompt+"> ")+" ")
	if !c.scanner.Scan() {
		fmt.Fprintln(c.out)
		return "", false
	}
	return c.scanner.Text(), true
}

// PrintReply shows a model answer.
func (c *Console) PrintReply(text string) {
	fmt.Fprintln(c.out, replyStyle.Render(text))
}

// PrintNotice shows an out-of-band status line.
func (c *Console) PrintNotice(text string) {
	fmt.Fprintln(c.out, noticeStyle.Render(text))
}

// PrintError shows a fatal error before exit.
func (c *Console) PrintError(text string) {
	fmt.Fprintln(c.out, errorStyle.Render("error: "+text))
}
