package entities

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectWinnerIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		seed  uint64
		count uint64
		want  uint64
	}{
		{name: "reference draw", seed: 7, count: 3, want: 1},
		{name: "single ticket", seed: 123456789, count: 1, want: 0},
		{name: "seed smaller than count", seed: 2, count: 10, want: 2},
		{name: "power of two has no rejected range", seed: math.MaxUint64, count: 4, want: 3},
		{name: "max seed with max count", seed: math.MaxUint64 - 1, count: math.MaxUint64, want: math.MaxUint64 - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := SelectWinnerIndex(tt.seed, tt.count)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectWinnerIndex_RejectedSeedStaysInRange(t *testing.T) {
	t.Parallel()

	// 2^64 mod 3 == 1, so MaxUint64 lies in the biased tail
	got, err := SelectWinnerIndex(math.MaxUint64, 3)
	require.NoError(t, err)
	assert.Less(t, got, uint64(3))

	again, err := SelectWinnerIndex(math.MaxUint64, 3)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestSelectWinnerIndex_NoTickets(t *testing.T) {
	t.Parallel()

	_, err := SelectWinnerIndex(7, 0)
	assert.ErrorIs(t, err, ErrNoTickets)
}
