// Package prompt collects input one line at a time from a reader.
//
// Reads happen on a single background goroutine so a blocked read can be
// abandoned when the context is canceled. The goroutine reads only when a
// line is requested, so nothing else sharing the reader (a full-screen
// form, for instance) loses input to it.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/agentstation/mnemosyne/pkg/records"
)

const (
	// EndOfText ends multi-line input.
	EndOfText = "."
	// Clear empties an optional field.
	Clear = "-"
	// Escape before Clear or EndOfText enters it literally.
	Escape = `\`
)

type line struct {
	text string
	err  error
}

// Prompter reads lines from in and writes prompts to out.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer

	start   sync.Once
	reqs    chan struct{}
	lines   chan line
	pending bool
	err     error
}

// New returns a Prompter reading from in.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:    bufio.NewReader(in),
		out:   out,
		reqs:  make(chan struct{}, 1),
		lines: make(chan line, 1),
	}
}

func (p *Prompter) pump() {
	for range p.reqs {
		text, err := p.in.ReadString('\n')
		if err == io.EOF && text != "" {
			err = nil
		}
		p.lines <- line{text: strings.TrimRight(text, "\r\n"), err: err}
		if err != nil {
			return
		}
	}
}

// ReadLine prints prompt and returns the next line without its line ending.
// It returns io.EOF at end of input and ctx.Err() on cancellation. A read
// abandoned by cancellation is delivered to the next call.
func (p *Prompter) ReadLine(ctx context.Context, prompt string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.start.Do(func() { go p.pump() })

	if prompt != "" {
		_, _ = fmt.Fprint(p.out, prompt)
	}
	if !p.pending {
		p.reqs <- struct{}{}
		p.pending = true
	}

	select {
	case l := <-p.lines:
		p.pending = false
		if l.err != nil {
			p.err = l.err
			return "", l.err
		}
		return l.text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// CollectLine reads one line of free text.
func (p *Prompter) CollectLine(ctx context.Context, prompt string) (string, error) {
	return p.ReadLine(ctx, prompt)
}

// CollectField asks for one field value. A blank answer keeps current and
// Clear empties the field; `\-` stores a literal "-". Edition Notes and
// Comments read several lines up to a line holding only EndOfText, and a
// line holding `\.` is kept as ".".
func (p *Prompter) CollectField(ctx context.Context, field records.Field, current string) (string, error) {
	if field.Multiline() {
		return p.collectText(ctx, field, current)
	}

	prompt := fmt.Sprintf("%s: ", field)
	if current != "" {
		prompt = fmt.Sprintf("%s [%s]: ", field, current)
	}
	text, err := p.ReadLine(ctx, prompt)
	if err != nil {
		return "", err
	}
	return resolve(text, current), nil
}

func (p *Prompter) collectText(ctx context.Context, field records.Field, current string) (string, error) {
	if current != "" {
		_, _ = fmt.Fprintf(p.out, "Current %s:\n%s\n", field, current)
	}
	_, _ = fmt.Fprintf(p.out, "%s (end with %q on its own line, %q clears):\n", field, EndOfText, Clear)

	var lines []string
	for {
		text, err := p.ReadLine(ctx, "")
		if err != nil {
			return "", err
		}
		switch strings.TrimSpace(text) {
		case EndOfText:
			return resolve(strings.Join(lines, "\n"), current), nil
		case Escape + EndOfText:
			text = EndOfText
		}
		lines = append(lines, text)
	}
}

func resolve(answer, current string) string {
	switch strings.TrimSpace(answer) {
	case "":
		return current
	case Clear:
		return ""
	case Escape + Clear:
		return Clear
	}
	return answer
}

// CollectRecord asks for every field in order, pre-filled with current.
func (p *Prompter) CollectRecord(ctx context.Context, title string, current records.Values) (records.Values, error) {
	if title != "" {
		_, _ = fmt.Fprintln(p.out, title)
	}
	values := make(records.Values, len(records.Fields))
	for _, field := range records.Fields {
		v, err := p.CollectField(ctx, field, current[field])
		if err != nil {
			return nil, err
		}
		values[field] = v
	}
	return values, nil
}
