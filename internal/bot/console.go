package bot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const prompt = "> "

// Console reads one command per line and writes the reply.
type Console struct {
	in      io.Reader
	out     io.Writer
	handler *Handler
}

func NewConsole(in io.Reader, out io.Writer, handler *Handler) *Console {
	return &Console{in: in, out: out, handler: handler}
}

// Start blocks until quit, end of input, or ctx is done.
func (c *Console) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	fmt.Fprintln(c.out, "BOLÃO DA GALERA - type help to begin")
	fmt.Fprint(c.out, prompt)
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return <-scanErr
			}
			command, args, _ := strings.Cut(strings.TrimSpace(line), " ")
			switch {
			case command == "":
			case strings.EqualFold(command, "quit"), strings.EqualFold(command, "exit"):
				return nil
			default:
				fmt.Fprintln(c.out, c.handler.HandleCommand(ctx, command, args))
			}
			fmt.Fprint(c.out, prompt)
		case <-ctx.Done():
			return nil
		}
	}
}
