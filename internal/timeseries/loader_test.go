package timeseries

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeriesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "buoy.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCSV(t *testing.T) {
	t.Run("loads parameters and prior flag columns", func(t *testing.T) {
		path := writeSeriesFile(t,
			"Date-Time,hm0,mdir,hm0_qc\n"+
				"2024-01-01 00:00,1.5,210.0,0\n"+
				"2024-01-01 01:00,,215.5,4\n"+
				"2024-01-01 02:00,1.7,NaN,0\n")

		table, err := LoadCSV(path, "Date-Time")
		require.NoError(t, err)

		assert.Equal(t, 3, table.Len())
		assert.Equal(t, "Date-Time", table.IndexName())
		assert.Equal(t, []string{"hm0", "mdir", "hm0_qc"}, table.Columns())
		assert.Equal(t, "2024-01-01 01:00", table.Labels()[1])

		hm0, err := table.Column("hm0")
		require.NoError(t, err)
		assert.Equal(t, 1.5, hm0[0])
		assert.True(t, math.IsNaN(hm0[1]), "empty cell stores NaN")

		mdir, err := table.Column("mdir")
		require.NoError(t, err)
		assert.True(t, math.IsNaN(mdir[2]), "NaN marker stores NaN")

		qc, err := table.Column("hm0_qc")
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 4, 0}, qc)
	})

	t.Run("index column matched case-insensitively", func(t *testing.T) {
		path := writeSeriesFile(t, "TIME,hm0\n2024-01-01 00:00,1\n2024-01-01 01:00,2\n")

		table, err := LoadCSV(path, "time")
		require.NoError(t, err)
		assert.Equal(t, "TIME", table.IndexName())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"), "Time")
		assert.Error(t, err)
	})

	t.Run("missing index column", func(t *testing.T) {
		path := writeSeriesFile(t, "Time,hm0\n2024-01-01 00:00,1\n2024-01-01 01:00,2\n")
		_, err := LoadCSV(path, "Date")
		assert.ErrorContains(t, err, "index column")
	})

	t.Run("no data rows", func(t *testing.T) {
		path := writeSeriesFile(t, "Time,hm0\n")
		_, err := LoadCSV(path, "Time")
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("unparseable timestamp", func(t *testing.T) {
		path := writeSeriesFile(t, "Time,hm0\nyesterday,1\n")
		_, err := LoadCSV(path, "Time")
		assert.ErrorContains(t, err, "unparseable timestamp")
	})

	t.Run("duplicate timestamps rejected", func(t *testing.T) {
		path := writeSeriesFile(t, "Time,hm0\n2024-01-01 00:00,1\n2024-01-01 00:00,2\n")
		_, err := LoadCSV(path, "Time")
		assert.Error(t, err)
	})
}

func TestParseTimestampLayouts(t *testing.T) {
	inputs := []string{
		"2024-01-02T15:04:05Z",
		"2024-01-02 15:04:05",
		"2024-01-02T15:04:05",
		"2024-01-02 15:04",
		"2024-01-02",
		"02/01/2024 15:04",
	}
	for _, input := range inputs {
		_, err := parseTimestamp(input)
		assert.NoError(t, err, "layout for %q", input)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		raw    string
		parsed bool
		value  float64
	}{
		{"1.5", true, 1.5},
		{" 2 ", true, 2},
		{"-0.3", true, -0.3},
		{"", false, 0},
		{"NaN", false, 0},
		{"na", false, 0},
		{"null", false, 0},
		{"bogus", false, 0},
	}
	for _, tt := range tests {
		v, ok := parseValue(tt.raw)
		assert.Equal(t, tt.parsed, ok, "raw %q", tt.raw)
		if tt.parsed {
			assert.Equal(t, tt.value, v, "raw %q", tt.raw)
		} else {
			assert.True(t, math.IsNaN(v), "raw %q stores NaN", tt.raw)
		}
	}
}
