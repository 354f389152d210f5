// Package dataset writes preference samples in the record formats consumed by
// preference-optimization training tooling.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/papercomputeco/pptree/pkg/conversation"
	"github.com/papercomputeco/pptree/pkg/preference"
)

// Format is an output encoding for samples.
type Format string

const (
	// FormatJSON writes a single JSON array.
	FormatJSON Format = "json"

	// FormatJSONL writes one JSON object per line.
	FormatJSONL Format = "jsonl"
)

// ParseFormat converts a user-facing name into a Format.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case FormatJSON:
		return FormatJSON, nil
	case "", FormatJSONL:
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("unknown format: %q (available: %s, %s)", name, FormatJSON, FormatJSONL)
	}
}

// Record is the emitted shape of a sample.
type Record struct {
	ID       string                 `json:"id,omitempty"`
	Prompt   []conversation.Message `json:"prompt"`
	Chosen   []conversation.Message `json:"chosen"`
	Rejected []conversation.Message `json:"rejected"`
}

// NewRecords converts samples into records, deriving an id for each when
// withIDs is set.
func NewRecords(samples []preference.Sample, withIDs bool) []Record {
	records := make([]Record, 0, len(samples))
	for _, s := range samples {
		r := Record{
			Prompt:   s.Prompt,
			Chosen:   s.Chosen,
			Rejected: s.Rejected,
		}
		if withIDs {
			r.ID = preference.ID(s).String()
		}
		records = append(records, r)
	}
	return records
}

// Options configures a Writer.
type Options struct {
	Format Format

	// Indent pretty-prints FormatJSON output. Ignored for FormatJSONL.
	Indent bool

	// IDs adds a content-derived id to every record.
	IDs bool
}

// Writer encodes samples to an underlying io.Writer.
type Writer struct {
	w    io.Writer
	opts Options
}

// NewWriter returns a Writer for w. An empty format selects FormatJSONL.
func NewWriter(w io.Writer, opts Options) *Writer {
	if opts.Format == "" {
		opts.Format = FormatJSONL
	}
	return &Writer{w: w, opts: opts}
}

// Write encodes samples. FormatJSON always writes a complete array, even when
// samples is empty; FormatJSONL writes nothing for no samples.
func (w *Writer) Write(samples []preference.Sample) error {
	records := NewRecords(samples, w.opts.IDs)

	switch w.opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(w.w)
		if w.opts.Indent {
			enc.SetIndent("", "  ")
		}
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding samples: %w", err)
		}
	case FormatJSONL:
		enc := json.NewEncoder(w.w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("encoding sample: %w", err)
			}
		}
	default:
		return fmt.Errorf("unknown format: %q", w.opts.Format)
	}

	return nil
}
