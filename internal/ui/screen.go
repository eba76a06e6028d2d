// Package ui renders the line-oriented menu screens and the full-screen
// quick picker.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerWidth = 60

// Screen reads menu input line by line and renders to a writer. Both ends
// are injected so tests can script entire sessions.
type Screen struct {
	in       *bufio.Reader
	out      io.Writer
	username func() string
}

// NewScreen wires a screen to its input, output, and the source of the
// username shown in every menu header.
func NewScreen(in io.Reader, out io.Writer, username func() string) *Screen {
	return &Screen{in: bufio.NewReader(in), out: out, username: username}
}

// Printf writes formatted text to the screen.
func (s *Screen) Printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// Header clears the screen and draws the banner for one menu page.
func (s *Screen) Header(title string) {
	fmt.Fprint(s.out, "\033[2J\033[H")
	rule := strings.Repeat("=", bannerWidth)
	centered := lipgloss.NewStyle().Bold(true).Width(bannerWidth).Align(lipgloss.Center).Render(title)
	fmt.Fprintf(s.out, "%s\n%s\n%s\n", rule, centered, rule)
}

// ReadLine prints a prompt and returns the next input line without its
// trailing newline. The error is the reader's own, io.EOF included, so
// callers can shut down cleanly when input runs out.
func (s *Screen) ReadLine(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Pause prints a message and waits for Enter.
func (s *Screen) Pause(msg string) error {
	_, err := s.ReadLine(msg)
	return err
}

// Confirm asks a yes/no question; only "y" (any case) counts as yes.
func (s *Screen) Confirm(prompt string) (bool, error) {
	line, err := s.ReadLine(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(line, "y"), nil
}

// Option pairs a menu label with the typed command it stands for.
type Option[T any] struct {
	Label string
	Value T
}

// Choose renders a numbered menu and blocks until the user picks a valid
// entry, which it returns as the option's value. Out-of-range or
// non-numeric input is acknowledged and the menu is redrawn; only a valid
// selection or a reader error leaves the loop.
func Choose[T any](s *Screen, title string, opts []Option[T]) (T, error) {
	var zero T
	for {
		s.Header(title)
		s.Printf("Current username: %s\n\n", s.username())
		for i, o := range opts {
			s.Printf("%d. %s\n", i+1, o.Label)
		}
		line, err := s.ReadLine(fmt.Sprintf("\nEnter your choice [1-%d]: ", len(opts)))
		if err != nil {
			return zero, err
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil {
			if err := s.Pause("\nPlease enter a number. Press Enter to continue..."); err != nil {
				return zero, err
			}
			continue
		}
		if n < 1 || n > len(opts) {
			if err := s.Pause("\nInvalid choice. Press Enter to continue..."); err != nil {
				return zero, err
			}
			continue
		}
		return opts[n-1].Value, nil
	}
}
