package entities

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Allocate(t *testing.T) {
	t.Parallel()

	registry := &Registry{}
	for want := uint64(0); want < 5; want++ {
		id, err := registry.Allocate()
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
	assert.Equal(t, uint64(5), registry.NextLotteryID)
}

func TestRegistry_AllocateOverflow(t *testing.T) {
	t.Parallel()

	registry := &Registry{NextLotteryID: math.MaxUint64 - 1}

	id, err := registry.Allocate()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64-1), id)

	_, err = registry.Allocate()
	assert.ErrorIs(t, err, ErrOverflow)
	assert.Equal(t, uint64(math.MaxUint64), registry.NextLotteryID)
}
