package shortterm

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buoyqc/internal/exporter"
	"buoyqc/internal/timeseries"
)

func displacementTable(t *testing.T, columns map[string][]float64) *timeseries.Table {
	t.Helper()

	rows := 0
	for _, values := range columns {
		rows = len(values)
		break
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	labels := make([]string, rows)
	times := make([]time.Time, rows)
	for i := 0; i < rows; i++ {
		times[i] = start.Add(time.Duration(i) * time.Second)
		labels[i] = times[i].Format("2006-01-02 15:04:05")
	}

	table, err := timeseries.NewTable(labels, times)
	require.NoError(t, err)
	for name, values := range columns {
		require.NoError(t, table.AddColumn(name, values))
	}
	return table
}

func TestRunnerRun(t *testing.T) {
	nan := math.NaN()
	const rows = 20

	heave := make([]float64, rows)
	north := make([]float64, rows)
	west := make([]float64, rows)
	for i := 0; i < rows; i++ {
		heave[i] = 10
		north[i] = 5
	}
	// A 4-sample gap in Heave and a single extreme excursion in West.
	heave[1], heave[2], heave[3], heave[4] = nan, nan, nan, nan
	west[3] = 800

	table := displacementTable(t, map[string][]float64{
		"Heave": heave,
		"North": north,
		"West":  west,
	})

	dir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := NewRunner(DefaultOptions(), exporter.NewCSVWriter(dir), logger)

	results, err := runner.Run(context.Background(), table, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	byParam := make(map[string]Result, len(results))
	for _, r := range results {
		byParam[r.Param] = r
	}

	t.Run("missing run flags", func(t *testing.T) {
		// Heave has a 4-long gap, the other channels are complete.
		assert.Equal(t, 4, byParam["Heave"].MissingRunFlag)
		assert.Equal(t, 1, byParam["North"].MissingRunFlag)
		assert.Equal(t, 1, byParam["West"].MissingRunFlag)
	})

	t.Run("one output file per parameter", func(t *testing.T) {
		assert.Equal(t, "qc_heave.csv", byParam["Heave"].OutputPath)

		for _, name := range []string{"qc_heave.csv", "qc_north.csv", "qc_west.csv"} {
			_, err := os.Stat(filepath.Join(dir, name))
			assert.NoError(t, err, name)
		}
	})

	t.Run("output columns", func(t *testing.T) {
		rows := readQCFile(t, filepath.Join(dir, "qc_west.csv"))
		require.Len(t, rows, 21)
		assert.Equal(t, []string{"Time", "West", "test10", "test11"}, rows[0])

		// Row 3 holds the 800 cm excursion: beyond the instrument range and
		// far outside four standard deviations.
		assert.Equal(t, "800", rows[4][1])
		assert.Equal(t, "true", rows[4][2])
		assert.Equal(t, "4", rows[4][3])

		assert.Equal(t, "false", rows[1][2])
		assert.Equal(t, "1", rows[1][3])
	})

	t.Run("missing values render empty", func(t *testing.T) {
		rows := readQCFile(t, filepath.Join(dir, "qc_heave.csv"))
		assert.Equal(t, "", rows[2][1])
	})
}

func TestRunnerRunUnknownParameter(t *testing.T) {
	table := displacementTable(t, map[string][]float64{"Heave": {1, 2}})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	runner := NewRunner(DefaultOptions(), exporter.NewCSVWriter(t.TempDir()), logger)

	_, err := runner.Run(context.Background(), table, []string{"Heave", "North"})
	assert.Error(t, err)
}

func readQCFile(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(data), "\uFEFF"))).ReadAll()
	require.NoError(t, err)
	return rows
}
