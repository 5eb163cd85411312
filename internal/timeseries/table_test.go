package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourlyIndex(n int) ([]string, []time.Time) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	labels := make([]string, n)
	times := make([]time.Time, n)
	for i := 0; i < n; i++ {
		times[i] = start.Add(time.Duration(i) * time.Hour)
		labels[i] = times[i].Format("2006-01-02 15:04")
	}
	return labels, times
}

func TestNewTable(t *testing.T) {
	t.Run("valid index", func(t *testing.T) {
		labels, times := hourlyIndex(3)
		table, err := NewTable(labels, times)
		require.NoError(t, err)

		assert.Equal(t, 3, table.Len())
		assert.Equal(t, "Time", table.IndexName())
		assert.Equal(t, labels, table.Labels())
	})

	t.Run("length mismatch", func(t *testing.T) {
		labels, times := hourlyIndex(3)
		_, err := NewTable(labels[:2], times)
		assert.Error(t, err)
	})

	t.Run("duplicate timestamp rejected", func(t *testing.T) {
		labels, times := hourlyIndex(3)
		times[2] = times[1]
		_, err := NewTable(labels, times)
		assert.ErrorContains(t, err, "strictly increasing")
	})

	t.Run("out of order timestamp rejected", func(t *testing.T) {
		labels, times := hourlyIndex(3)
		times[1], times[2] = times[2], times[1]
		_, err := NewTable(labels, times)
		assert.Error(t, err)
	})
}

func TestTableColumns(t *testing.T) {
	labels, times := hourlyIndex(3)
	table, err := NewTable(labels, times)
	require.NoError(t, err)

	require.NoError(t, table.AddColumn("hm0", []float64{1, 2, 3}))
	require.NoError(t, table.AddColumn("tm02", []float64{4, math.NaN(), 6}))

	t.Run("insertion order preserved", func(t *testing.T) {
		assert.Equal(t, []string{"hm0", "tm02"}, table.Columns())
	})

	t.Run("lookup", func(t *testing.T) {
		assert.True(t, table.HasColumn("hm0"))
		assert.False(t, table.HasColumn("mdir"))

		values, err := table.Column("hm0")
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2, 3}, values)

		_, err = table.Column("mdir")
		assert.ErrorIs(t, err, ErrColumnNotFound)
	})

	t.Run("length mismatch rejected", func(t *testing.T) {
		assert.Error(t, table.AddColumn("short", []float64{1}))
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		assert.Error(t, table.AddColumn("hm0", []float64{7, 8, 9}))
	})

	t.Run("missing markers", func(t *testing.T) {
		assert.False(t, table.IsMissing("tm02", 0))
		assert.True(t, table.IsMissing("tm02", 1))
		assert.True(t, table.IsMissing("unknown", 0))
		assert.True(t, table.IsMissing("tm02", 99))
	})

	t.Run("index name override", func(t *testing.T) {
		table.SetIndexName("Date-Time")
		assert.Equal(t, "Date-Time", table.IndexName())
		table.SetIndexName("")
		assert.Equal(t, "Date-Time", table.IndexName())
	})
}
