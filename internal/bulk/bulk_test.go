// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bulk

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/utmconv/internal/reader"
	"github.com/pdiddy/utmconv/internal/session"
	"github.com/pdiddy/utmconv/internal/utm"
	"github.com/pdiddy/utmconv/pkg/types"
)

var defaultOpts = Options{Zone: 40, Northern: true, Precision: 6}

func readLines(t *testing.T, csv string) []reader.Line {
	t.Helper()
	lines, err := reader.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return lines
}

func TestRun(t *testing.T) {
	lines := readLines(t, "330000,2790000\nabc,1\n1,2,3\n500000,2800000\n")
	store := session.NewMemory()
	var out strings.Builder

	result, err := Run(context.Background(), utm.Default(), lines, defaultOpts, store, &out)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, 1, result.Invalid)
	assert.Equal(t, 1, result.Malformed)
	assert.Equal(t, 4, result.Total())
	assert.True(t, result.HasFailures())

	want := []string{
		"25.216612, 55.312511",
		"Invalid UTM data",
		"Invalid line format",
		"25.316553, 57.000000",
	}
	assert.Equal(t, want, result.Outputs)
	assert.Equal(t, strings.Join(want, "\n")+"\n", out.String())

	records, err := store.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, types.UTMCoordinate{Easting: 330000, Northing: 2790000, Zone: 40, Northern: true}, records[0].Input)
	assert.InDelta(t, 25.2166118984, records[0].Output.Latitude, 1e-7)
	assert.Equal(t, 500000.0, records[1].Input.Easting)
}

func TestRunAppendsToExistingSession(t *testing.T) {
	ctx := context.Background()
	store := session.NewMemory()
	require.NoError(t, store.Append(ctx, types.ConversionRecord{}))

	_, err := Run(ctx, utm.Default(), readLines(t, "330000,2790000\n"), defaultOpts, store, &strings.Builder{})
	require.NoError(t, err)

	records, err := store.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestRunSouthernZone(t *testing.T) {
	opts := Options{Zone: 56, Northern: false, Precision: 4}
	result, err := Run(context.Background(), utm.Default(), readLines(t, "333000,6250000"), opts, session.NewMemory(), &strings.Builder{})
	require.NoError(t, err)
	assert.Equal(t, []string{"-33.8771, 151.1943"}, result.Outputs)
	assert.False(t, result.HasFailures())
}

type failingStore struct{ session.Store }

func (failingStore) Append(context.Context, types.ConversionRecord) error {
	return errors.New("database is locked")
}

func TestRunStoreError(t *testing.T) {
	lines := readLines(t, "abc,1\n330000,2790000\n")
	result, err := Run(context.Background(), utm.Default(), lines, defaultOpts, failingStore{}, &strings.Builder{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "database is locked")
	assert.Equal(t, 1, result.Invalid)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, utm.Default(), readLines(t, "330000,2790000\n"), defaultOpts, session.NewMemory(), &strings.Builder{})
	assert.ErrorIs(t, err, context.Canceled)
}
