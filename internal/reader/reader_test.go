// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reader

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantE   float64
		wantN   float64
		wantErr error
	}{
		{name: "space separated", input: "330000 2790000", wantE: 330000, wantN: 2790000},
		{name: "surrounding whitespace", input: "  330000.5   2790000.25 \n", wantE: 330000.5, wantN: 2790000.25},
		{name: "tab separated", input: "1\t2", wantE: 1, wantN: 2},
		{name: "single value", input: "330000", wantErr: ErrFieldCount},
		{name: "three values", input: "1 2 3", wantErr: ErrFieldCount},
		{name: "empty", input: "   ", wantErr: ErrFieldCount},
		{name: "non-numeric", input: "abc 2790000", wantErr: ErrInvalidNumber},
		{name: "NaN rejected", input: "NaN 2790000", wantErr: ErrInvalidNumber},
		{name: "infinity rejected", input: "330000 Inf", wantErr: ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, n, err := ParsePoint(tt.input)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantE, e)
			assert.Equal(t, tt.wantN, n)
		})
	}
}

func TestParseArgs(t *testing.T) {
	e, n, err := ParseArgs([]string{"330000 2790000"})
	require.NoError(t, err)
	assert.Equal(t, 330000.0, e)
	assert.Equal(t, 2790000.0, n)

	e, n, err = ParseArgs([]string{"330000", "2790000"})
	require.NoError(t, err)
	assert.Equal(t, 330000.0, e)
	assert.Equal(t, 2790000.0, n)

	_, _, err = ParseArgs(nil)
	assert.True(t, errors.Is(err, ErrFieldCount))
}

func TestReadCSV(t *testing.T) {
	input := "\ufeff330000,2790000\r\n" +
		" 235000 , 2700000 \n" +
		"\n" +
		"Easting,Northing\n" +
		"1,2,3\n" +
		"400000\n" +
		"NaN,5\n" +
		"500000,2800000"

	lines, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, lines, 7)

	assert.Equal(t, Line{Number: 1, Raw: "330000,2790000", Easting: 330000, Northing: 2790000, Status: StatusOK}, lines[0])
	assert.Equal(t, 235000.0, lines[1].Easting)
	assert.Equal(t, 2700000.0, lines[1].Northing)
	assert.True(t, lines[1].OK())

	// Blank line 3 is skipped but numbering follows the source.
	assert.Equal(t, 4, lines[2].Number)
	assert.Equal(t, StatusInvalidData, lines[2].Status)
	assert.Equal(t, StatusInvalidFormat, lines[3].Status)
	assert.Equal(t, StatusInvalidFormat, lines[4].Status)
	assert.Equal(t, StatusInvalidData, lines[5].Status)
	assert.False(t, lines[5].OK())

	assert.Equal(t, 8, lines[6].Number)
	assert.True(t, lines[6].OK())
}

func TestReadCSVEmpty(t *testing.T) {
	lines, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestReadCSVReadError(t *testing.T) {
	_, err := ReadCSV(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
}
