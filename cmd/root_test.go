package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"lottoledger/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUint64(t *testing.T) {
	v, err := parseUint64("amount", "18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), v)

	_, err = parseUint64("amount", "-1")
	assert.ErrorIs(t, err, entities.ErrInvalidAmount)

	_, err = parseUint64("amount", "18446744073709551616")
	assert.ErrorIs(t, err, entities.ErrInvalidAmount)
}

func TestParseIdentity(t *testing.T) {
	id, err := parseIdentity("alice")
	require.NoError(t, err)
	assert.Equal(t, entities.Identity("alice"), id)

	_, err = parseIdentity("two words")
	assert.ErrorIs(t, err, entities.ErrInvalidIdentity)
}

func TestRandomnessKeygen_PrintsKeyPair(t *testing.T) {
	var out bytes.Buffer
	randomnessKeygenCmd.SetOut(&out)
	t.Cleanup(func() { randomnessKeygenCmd.SetOut(nil) })

	require.NoError(t, randomnessKeygenCmd.RunE(randomnessKeygenCmd, nil))

	var keys map[string]string
	require.NoError(t, json.Unmarshal(out.Bytes(), &keys))
	assert.NotEmpty(t, keys["private_key"])
	assert.NotEmpty(t, keys["public_key"])
}

func TestAfterCursor(t *testing.T) {
	assert.Nil(t, afterCursor(lotteryListCmd))

	require.NoError(t, lotteryListCmd.Flags().Set("after", "5"))
	t.Cleanup(func() {
		lotteryAfter = 0
		lotteryListCmd.Flags().Lookup("after").Changed = false
	})

	after := afterCursor(lotteryListCmd)
	require.NotNil(t, after)
	assert.Equal(t, uint64(5), *after)
}
