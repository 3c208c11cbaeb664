// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bulk converts a parsed CSV upload line by line, recording each
// successful conversion in the session.
package bulk

import (
	"context"
	"fmt"
	"io"

	"github.com/pdiddy/utmconv/internal/export"
	"github.com/pdiddy/utmconv/internal/reader"
	"github.com/pdiddy/utmconv/internal/session"
	"github.com/pdiddy/utmconv/internal/utm"
	"github.com/pdiddy/utmconv/pkg/types"
)

// Options controls how bulk lines are converted.
type Options struct {
	Zone      int
	Northern  bool
	Precision int
}

// Result holds the outcome of a bulk run. Outputs[i] corresponds to the
// i-th input line.
type Result struct {
	Converted int      `json:"converted"`
	Invalid   int      `json:"invalid"`
	Malformed int      `json:"malformed"`
	Outputs   []string `json:"lines"`
}

// Total returns the number of lines processed.
func (r Result) Total() int {
	return r.Converted + r.Invalid + r.Malformed
}

// HasFailures reports whether any line could not be converted.
func (r Result) HasFailures() bool {
	return r.Invalid > 0 || r.Malformed > 0
}

// Run converts every OK line with conv, appends a record to store for each
// and writes one output line per input line to w. Lines that failed to parse
// produce their status message. Run stops early only on a store error or
// context cancellation.
func Run(ctx context.Context, conv *utm.Converter, lines []reader.Line, opts Options, store session.Store, w io.Writer) (Result, error) {
	result := Result{Outputs: make([]string, 0, len(lines))}

	for _, line := range lines {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		switch line.Status {
		case reader.StatusOK:
		case reader.StatusInvalidFormat:
			result.Malformed++
			result.Outputs = append(result.Outputs, string(line.Status))
			fmt.Fprintf(w, "%s\n", line.Status)
			continue
		default:
			result.Invalid++
			result.Outputs = append(result.Outputs, string(reader.StatusInvalidData))
			fmt.Fprintf(w, "%s\n", reader.StatusInvalidData)
			continue
		}

		input := types.UTMCoordinate{
			Easting:  line.Easting,
			Northing: line.Northing,
			Zone:     opts.Zone,
			Northern: opts.Northern,
		}
		geo := conv.ConvertCoordinate(input)

		if err := store.Append(ctx, types.ConversionRecord{Input: input, Output: geo}); err != nil {
			return result, fmt.Errorf("line %d: %w", line.Number, err)
		}

		out := export.FormatPair(geo, opts.Precision)
		result.Converted++
		result.Outputs = append(result.Outputs, out)
		fmt.Fprintln(w, out)
	}

	return result, nil
}
