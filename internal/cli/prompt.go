package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/loanwise/internal/form"
)

// FieldPrompter asks for missing form fields on a line-oriented terminal.
type FieldPrompter struct {
	reader *NonBlockingReader
	writer io.Writer
}

// NewFieldPrompter creates a prompter reading answers from r and writing prompts to w.
func NewFieldPrompter(r io.Reader, w io.Writer) *FieldPrompter {
	return &FieldPrompter{
		reader: NewNonBlockingReader(r),
		writer: w,
	}
}

// Fill prompts for every field that is blank in values and returns the completed set.
// Answers are not validated here; the form parser reports bad ones.
// Input ending early leaves the remaining fields blank.
func (p *FieldPrompter) Fill(ctx context.Context, values form.Values) (form.Values, error) {
	out := form.Snapshot(values)

	for _, f := range form.Fields {
		if strings.TrimSpace(out[f.ID]) != "" {
			continue
		}

		if _, err := fmt.Fprint(p.writer, FormatPrompt(fmt.Sprintf("%s (%s)", f.Label, f.Placeholder))); err != nil {
			return nil, fmt.Errorf("failed to write prompt: %w", err)
		}

		line, err := p.reader.ReadLine(ctx)
		switch {
		case errors.Is(err, io.EOF):
			_, _ = fmt.Fprintln(p.writer)
			return out, nil
		case err != nil:
			return nil, fmt.Errorf("failed to read %s: %w", f.ID, err)
		}
		out[f.ID] = line
	}

	return out, nil
}
