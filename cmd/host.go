package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nibzard/tasklist/internal/app"
)

// consoleHost asks for confirmation on the terminal and prints alerts.
type consoleHost struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
	frame     app.Frame
}

func (h *consoleHost) Render(f app.Frame) { h.frame = f }

func (h *consoleHost) Alert(msg string) {
	fmt.Fprintln(h.out, msg)
}

// Confirm reads a y/N answer. Anything but y or yes, including EOF, declines.
func (h *consoleHost) Confirm(msg string) bool {
	if h.assumeYes {
		return true
	}
	fmt.Fprintf(h.out, "%s [y/N]: ", msg)
	line, err := h.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(h.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
