// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reader parses user-entered and CSV-sourced easting/northing pairs.
// It is the only place input is validated; the converter trusts what it is
// given.
package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrFieldCount is returned when an input does not hold exactly two values.
	ErrFieldCount = errors.New("enter both easting and northing separated by a space")

	// ErrInvalidNumber is returned when either value is not a number.
	ErrInvalidNumber = errors.New("invalid values for easting or northing")
)

// LineStatus classifies one line of a bulk upload.
type LineStatus string

const (
	StatusOK            LineStatus = "ok"
	StatusInvalidData   LineStatus = "Invalid UTM data"
	StatusInvalidFormat LineStatus = "Invalid line format"
)

// Line is one non-blank line of a bulk upload.
type Line struct {
	// Number is the 1-based line number in the source.
	Number int `json:"number" yaml:"number"`

	// Raw is the line as read, without the trailing newline.
	Raw string `json:"raw" yaml:"raw"`

	Easting  float64    `json:"easting" yaml:"easting"`
	Northing float64    `json:"northing" yaml:"northing"`
	Status   LineStatus `json:"status" yaml:"status"`
}

// OK reports whether the line parsed into a usable pair.
func (l Line) OK() bool { return l.Status == StatusOK }

// ParsePoint parses a single "easting northing" entry. Values may be
// separated by any run of whitespace.
func ParsePoint(s string) (easting, northing float64, err error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w (got %d values)", ErrFieldCount, len(fields))
	}
	easting, errE := parseNumber(fields[0])
	northing, errN := parseNumber(fields[1])
	if errE != nil || errN != nil {
		return 0, 0, fmt.Errorf("%w (%q)", ErrInvalidNumber, strings.TrimSpace(s))
	}
	return easting, northing, nil
}

// ParseArgs accepts either one argument holding "E N" or two separate
// arguments, the forms a command line naturally produces.
func ParseArgs(args []string) (easting, northing float64, err error) {
	return ParsePoint(strings.Join(args, " "))
}

// ReadCSV reads "easting,northing" lines. Every non-blank line yields one
// Line in input order; malformed lines are reported through Status rather
// than aborting the read. Only I/O failures return an error.
func ReadCSV(r io.Reader) ([]Line, error) {
	var lines []Line
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	for sc.Scan() {
		n++
		raw := strings.TrimRight(sc.Text(), "\r")
		if n == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}
		lines = append(lines, parseCSVLine(n, raw))
	}
	if err := sc.Err(); err != nil {
		return lines, fmt.Errorf("reading CSV: %w", err)
	}
	return lines, nil
}

func parseCSVLine(n int, raw string) Line {
	line := Line{Number: n, Raw: raw}

	values := strings.Split(raw, ",")
	if len(values) != 2 {
		line.Status = StatusInvalidFormat
		return line
	}

	e, errE := parseNumber(values[0])
	nv, errN := parseNumber(values[1])
	if errE != nil || errN != nil {
		line.Status = StatusInvalidData
		return line
	}

	line.Easting = e
	line.Northing = nv
	line.Status = StatusOK
	return line
}

// parseNumber parses a trimmed decimal value, rejecting NaN and infinities
// so the converter only ever sees finite input.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}
