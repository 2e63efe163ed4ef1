package cli

import (
	"bufio"
	"context"
	"io"
)

// lineReader reads input lines in the background so that a blocked read
// never outlives a cancelled context.
type lineReader struct {
	lines chan string
	err   chan error
}

func newLineReader(r io.Reader) *lineReader {
	lr := &lineReader{
		lines: make(chan string),
		err:   make(chan error, 1),
	}
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lr.lines <- scanner.Text()
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		lr.err <- err
	}()
	return lr
}

// Next returns the next line, io.EOF at end of input, or ctx.Err().
func (lr *lineReader) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line := <-lr.lines:
		return line, nil
	case err := <-lr.err:
		lr.err <- err
		return "", err
	}
}
