package entities

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// SelectWinnerIndex maps seed onto [0, count) without modulo bias.
// Seeds below the largest multiple of count are reduced directly; others are
// re-hashed until they land in range.
func SelectWinnerIndex(seed, count uint64) (uint64, error) {
	if count == 0 {
		return 0, ErrNoTickets
	}

	// 2^64 mod count values at the top of the range would favor low indices
	remainder := (math.MaxUint64%count + 1) % count
	limit := math.MaxUint64 - remainder

	value := seed
	var buf [16]byte
	for round := uint64(0); value > limit; round++ {
		binary.BigEndian.PutUint64(buf[:8], value)
		binary.BigEndian.PutUint64(buf[8:], round)
		sum := sha256.Sum256(buf[:])
		value = binary.BigEndian.Uint64(sum[:8])
	}
	return value % count, nil
}
