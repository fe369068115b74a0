// Package randomness provides the seed sources a lottery draw can use.
package randomness

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"lottoledger/config"
	"lottoledger/domain/interfaces"
)

// New builds the randomness source named in cfg
func New(cfg *config.Config) (interfaces.RandomnessSource, error) {
	switch cfg.RandomnessSource {
	case config.RandomnessSourceClock:
		return NewClockSource(cfg.ClockSlotDurationSec), nil
	case config.RandomnessSourceCrypto:
		return NewCryptoSource(), nil
	case config.RandomnessSourceBLS:
		return NewBLSSourceFromHex(cfg.BLSPrivateKeyHex)
	default:
		return nil, fmt.Errorf("unknown randomness source %q", cfg.RandomnessSource)
	}
}

// seedFromDigest folds the first 8 bytes of sha256(parts...) into a seed value
func seedFromDigest(parts ...[]byte) uint64 {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return binary.BigEndian.Uint64(h.Sum(nil)[:8])
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
