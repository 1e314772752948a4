package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"marketplace/internal/client/screen"
)

// promptConfirmer asks on the terminal. Anything but the confirm label, or
// "y", cancels.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newPromptConfirmer(in io.Reader, out io.Writer) *promptConfirmer {
	return &promptConfirmer{in: bufio.NewReader(in), out: out}
}

func (p *promptConfirmer) Confirm(ctx context.Context, prompt screen.Prompt) bool {
	fmt.Fprintf(p.out, "%s\n%s\n[%s/%s]: ", prompt.Title, prompt.Message, prompt.ConfirmLabel, prompt.CancelLabel)

	answer := make(chan string, 1)
	go func() {
		line, _ := p.in.ReadString('\n')
		answer <- strings.TrimSpace(line)
	}()

	select {
	case <-ctx.Done():
		return false
	case a := <-answer:
		return strings.EqualFold(a, prompt.ConfirmLabel) || strings.EqualFold(a, "y")
	}
}
