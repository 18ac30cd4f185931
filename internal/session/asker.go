package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
)

// Asker shows prompt and blocks until the player answers. io.EOF means no more input.
type Asker func(ctx context.Context, prompt string) (string, error)

type scannedLine struct {
	text string
	err  error
}

// NewLineAsker reads one line per prompt from in, writing prompts to out.
// One reader goroutine feeds every prompt. Cancelling ctx abandons a pending read.
func NewLineAsker(in io.Reader, out io.Writer) Asker {
	lines := make(chan scannedLine)
	var startReader sync.Once
	readLines := func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scannedLine{text: scanner.Text()}
		}
		if err := scanner.Err(); err != nil {
			lines <- scannedLine{err: err}
		}
	}
	return func(ctx context.Context, prompt string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if _, err := fmt.Fprint(out, prompt); err != nil {
			return "", err
		}
		startReader.Do(func() { go readLines() })
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case line, open := <-lines:
			if !open {
				return "", io.EOF
			}
			return line.text, line.err
		}
	}
}

// ScriptedAsker answers prompts from a fixed list, then reports io.EOF.
func ScriptedAsker(answers ...string) Asker {
	next := 0
	return func(ctx context.Context, _ string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if next >= len(answers) {
			return "", io.EOF
		}
		answer := answers[next]
		next++
		return answer, nil
	}
}
