package randomness

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"lottoledger/domain/entities"
)

// CryptoSourceName identifies seeds produced by CryptoSource
const CryptoSourceName = "crypto"

// CryptoSource reads seeds from the operating system CSPRNG.
// Seeds are unpredictable but carry no proof.
type CryptoSource struct {
	reader io.Reader
}

// NewCryptoSource creates a source backed by crypto/rand
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{reader: rand.Reader}
}

// Name returns the source identifier
func (s *CryptoSource) Name() string {
	return CryptoSourceName
}

// SeedFor reads 8 random bytes
func (s *CryptoSource) SeedFor(ctx context.Context, lotteryID uint64) (entities.Seed, error) {
	if err := ctx.Err(); err != nil {
		return entities.Seed{}, err
	}

	var buf [8]byte
	if _, err := io.ReadFull(s.reader, buf[:]); err != nil {
		return entities.Seed{}, fmt.Errorf("failed to read random bytes: %w", err)
	}

	return entities.Seed{
		Value:  binary.BigEndian.Uint64(buf[:]),
		Source: CryptoSourceName,
	}, nil
}
