package repository

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMetadata(t *testing.T) {
	t.Parallel()

	metadata, err := decodeMetadata([]byte(`{"lottery_id":"18446744073709551614","legacy_index":9007199254740993,"test":true}`))
	require.NoError(t, err)

	assert.Equal(t, "18446744073709551614", metadata["lottery_id"])
	assert.Equal(t, json.Number("9007199254740993"), metadata["legacy_index"])
	assert.Equal(t, true, metadata["test"])

	_, err = decodeMetadata([]byte(`{"lottery_id":`))
	assert.Error(t, err)
}
