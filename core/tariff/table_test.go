package tariff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "toll-tracker/internal/errors"
)

func gothenburg() *Table {
	return MustTable([]Interval{
		{Start: Clock(6, 0, 0), End: Clock(6, 29, 0), Price: 8},
		{Start: Clock(6, 30, 0), End: Clock(6, 59, 0), Price: 13},
		{Start: Clock(7, 0, 0), End: Clock(7, 59, 0), Price: 18},
		{Start: Clock(8, 0, 0), End: Clock(8, 29, 0), Price: 13},
		{Start: Clock(8, 30, 0), End: Clock(14, 59, 0), Price: 8},
		{Start: Clock(15, 0, 0), End: Clock(15, 29, 0), Price: 13},
		{Start: Clock(15, 30, 0), End: Clock(16, 59, 0), Price: 18},
		{Start: Clock(17, 0, 0), End: Clock(17, 59, 0), Price: 13},
		{Start: Clock(18, 0, 0), End: Clock(18, 29, 0), Price: 8},
	})
}

func TestFeeFor(t *testing.T) {
	table := gothenburg()

	tests := []struct {
		name string
		at   TimeOfDay
		want int
	}{
		{"before first interval", Clock(5, 59, 59), 0},
		{"inclusive start", Clock(6, 0, 0), 8},
		{"inclusive end", Clock(6, 29, 0), 8},
		{"seconds past end fall in the gap", Clock(6, 29, 30), 0},
		{"morning peak", Clock(7, 30, 0), 18},
		{"08:29", Clock(8, 29, 0), 13},
		{"midday", Clock(12, 0, 0), 8},
		{"afternoon peak", Clock(16, 59, 0), 18},
		{"evening", Clock(18, 29, 0), 8},
		{"night", Clock(18, 30, 0), 0},
		{"midnight", Clock(0, 0, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.FeeFor(tt.at))
		})
	}
}

func TestFeeForFirstMatchWins(t *testing.T) {
	table := MustTable([]Interval{
		{Start: Clock(8, 0, 0), End: Clock(9, 0, 0), Price: 5},
		{Start: Clock(7, 0, 0), End: Clock(10, 0, 0), Price: 20},
	})

	assert.Equal(t, 5, table.FeeFor(Clock(8, 30, 0)))
	assert.Equal(t, 20, table.FeeFor(Clock(7, 30, 0)))
	assert.Equal(t, 20, table.FeeFor(Clock(9, 30, 0)))
}

func TestFeeAtUsesWallClock(t *testing.T) {
	table := gothenburg()
	stockholm := time.FixedZone("CEST", 2*60*60)

	assert.Equal(t, 13, table.FeeAt(time.Date(2024, 6, 16, 8, 29, 0, 0, stockholm)))
	assert.Equal(t, 13, table.FeeAt(time.Date(2024, 6, 16, 8, 29, 0, 0, time.UTC)))
}

func TestNewTableValidation(t *testing.T) {
	_, err := NewTable(nil)
	assert.True(t, apperrors.IsType(err, apperrors.TypeConfig))

	_, err = NewTable([]Interval{{Start: Clock(6, 0, 0), End: Clock(7, 0, 0), Price: -1}})
	assert.True(t, apperrors.IsType(err, apperrors.TypeConfig))

	_, err = NewTable([]Interval{{Start: Clock(9, 0, 0), End: Clock(7, 0, 0), Price: 1}})
	assert.True(t, apperrors.IsType(err, apperrors.TypeConfig))
}

func TestNewTableCopiesInput(t *testing.T) {
	intervals := []Interval{{Start: Clock(6, 0, 0), End: Clock(7, 0, 0), Price: 8}}
	table, err := NewTable(intervals)
	require.NoError(t, err)

	intervals[0].Price = 100
	assert.Equal(t, 8, table.FeeFor(Clock(6, 30, 0)))
	assert.Equal(t, 1, table.Len())
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("06:29")
	require.NoError(t, err)
	assert.Equal(t, Clock(6, 29, 0), tod)
	assert.Equal(t, "06:29", tod.String())

	tod, err = ParseTimeOfDay(" 17:59:30 ")
	require.NoError(t, err)
	assert.Equal(t, Clock(17, 59, 30), tod)
	assert.Equal(t, "17:59:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.True(t, apperrors.IsType(err, apperrors.TypeParsing))
}
