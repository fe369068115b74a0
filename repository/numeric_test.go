package repository

import (
	"math"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUint64FromNumeric(t *testing.T) {
	t.Parallel()

	maxInt, ok := new(big.Int).SetString("18446744073709551615", 10)
	require.True(t, ok)
	tooBig, ok := new(big.Int).SetString("18446744073709551616", 10)
	require.True(t, ok)

	tests := []struct {
		name    string
		input   pgtype.Numeric
		want    uint64
		wantErr bool
	}{
		{name: "zero", input: pgtype.Numeric{Int: big.NewInt(0), Valid: true}, want: 0},
		{name: "nil int", input: pgtype.Numeric{Valid: true}, want: 0},
		{name: "plain", input: pgtype.Numeric{Int: big.NewInt(300), Valid: true}, want: 300},
		{name: "positive exponent", input: pgtype.Numeric{Int: big.NewInt(3), Exp: 2, Valid: true}, want: 300},
		{name: "negative exponent whole", input: pgtype.Numeric{Int: big.NewInt(3000), Exp: -1, Valid: true}, want: 300},
		{name: "max uint64", input: pgtype.Numeric{Int: maxInt, Valid: true}, want: math.MaxUint64},
		{name: "above max", input: pgtype.Numeric{Int: tooBig, Valid: true}, wantErr: true},
		{name: "negative", input: pgtype.Numeric{Int: big.NewInt(-1), Valid: true}, wantErr: true},
		{name: "fractional", input: pgtype.Numeric{Int: big.NewInt(15), Exp: -1, Valid: true}, wantErr: true},
		{name: "null", input: pgtype.Numeric{}, wantErr: true},
		{name: "nan", input: pgtype.Numeric{NaN: true, Valid: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := uint64FromNumeric(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNumericRoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []uint64{0, 1, 100, math.MaxInt64, math.MaxInt64 + 1, math.MaxUint64} {
		got, err := uint64FromNumeric(numericFromUint64(v))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}

	ptr, err := uint64PtrFromNumeric(numericFromUint64Ptr(nil))
	require.NoError(t, err)
	assert.Nil(t, ptr)
}
