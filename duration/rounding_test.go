package duration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzlist/civiltime/failure"
)

func TestRoundInt(t *testing.T) {
	values := []int64{-25, -20, -15, -14, 14, 15, 20, 25}
	tests := []struct {
		mode RoundingMode
		want []int64
	}{
		{Ceil, []int64{-20, -20, -10, -10, 20, 20, 20, 30}},
		{Floor, []int64{-30, -20, -20, -20, 10, 10, 20, 20}},
		{Expand, []int64{-30, -20, -20, -20, 20, 20, 20, 30}},
		{Trunc, []int64{-20, -20, -10, -10, 10, 10, 20, 20}},
		{HalfCeil, []int64{-20, -20, -10, -10, 10, 20, 20, 30}},
		{HalfFloor, []int64{-30, -20, -20, -10, 10, 10, 20, 20}},
		{HalfExpand, []int64{-30, -20, -20, -10, 10, 20, 20, 30}},
		{HalfTrunc, []int64{-20, -20, -10, -10, 10, 10, 20, 20}},
		{HalfEven, []int64{-20, -20, -20, -10, 10, 20, 20, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			for i, v := range values {
				assert.Equal(t, tt.want[i], RoundInt(v, 10, tt.mode), "value %d", v)
			}
		})
	}
}

func TestRoundingModeNames(t *testing.T) {
	for m := Ceil; m <= HalfEven; m++ {
		got, err := ParseRoundingMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := ParseRoundingMode("HalfExpand")
	assert.True(t, failure.IsRange(err))

	assert.Equal(t, Floor, Ceil.Negate())
	assert.Equal(t, HalfCeil, HalfFloor.Negate())
	assert.Equal(t, HalfEven, HalfEven.Negate())
	assert.Equal(t, Trunc, ModeUnset.Or(Trunc))
	assert.Equal(t, Ceil, Ceil.Or(Trunc))
}

func TestTimeSpanRoundTo(t *testing.T) {
	ts := MustTimeSpan(0, 1_500_000_000)
	got, err := ts.RoundTo(1e9, HalfEven)
	require.NoError(t, err)
	assert.Equal(t, MustTimeSpan(2, 0), got)

	got, err = ts.Neg().RoundTo(1e9, HalfCeil)
	require.NoError(t, err)
	assert.Equal(t, MustTimeSpan(-1, 0), got)

	got, err = MustTimeSpan(3599, 0).RoundTo(Hour.Nanoseconds(), Trunc)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}
