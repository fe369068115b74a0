package repository

import (
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5/pgtype"
)

// u64 values are stored as NUMERIC(20,0) so the full unsigned range fits

func numericFromUint64(v uint64) pgtype.Numeric {
	return pgtype.Numeric{Int: new(big.Int).SetUint64(v), Valid: true}
}

func numericFromUint64Ptr(v *uint64) pgtype.Numeric {
	if v == nil {
		return pgtype.Numeric{}
	}
	return numericFromUint64(*v)
}

func uint64FromNumeric(n pgtype.Numeric) (uint64, error) {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite {
		return 0, fmt.Errorf("numeric value is not a finite number")
	}
	if n.Int == nil {
		return 0, nil
	}

	v := new(big.Int).Set(n.Int)
	switch {
	case n.Exp > 0:
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n.Exp)), nil)
		v.Mul(v, scale)
	case n.Exp < 0:
		scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-n.Exp)), nil)
		var remainder big.Int
		v.QuoRem(v, scale, &remainder)
		if remainder.Sign() != 0 {
			return 0, fmt.Errorf("numeric value %s has a fractional part", n.Int.String())
		}
	}

	if v.Sign() < 0 || !v.IsUint64() {
		return 0, fmt.Errorf("numeric value %s is outside the uint64 range", v.String())
	}
	return v.Uint64(), nil
}

func uint64PtrFromNumeric(n pgtype.Numeric) (*uint64, error) {
	if !n.Valid {
		return nil, nil
	}
	v, err := uint64FromNumeric(n)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// decodeUint64s converts scanned numerics into their destinations, stopping at the first error
func decodeUint64s(pairs ...numericTarget) error {
	for _, p := range pairs {
		v, err := uint64FromNumeric(p.src)
		if err != nil {
			return fmt.Errorf("failed to decode %s: %w", p.column, err)
		}
		*p.dst = v
	}
	return nil
}

type numericTarget struct {
	column string
	src    pgtype.Numeric
	dst    *uint64
}
