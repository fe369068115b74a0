package randomness

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"time"

	"lottoledger/domain/entities"

	log "github.com/sirupsen/logrus"
)

// ClockSourceName identifies seeds produced by ClockSource
const ClockSourceName = "clock"

// ClockSource derives the seed from the current time and slot number.
// Anyone who can time the draw can predict the winner; never use it for real value.
type ClockSource struct {
	slotDuration int64
	now          func() time.Time
}

// NewClockSource creates a clock source with slots of slotDurationSec seconds
func NewClockSource(slotDurationSec int64) *ClockSource {
	if slotDurationSec <= 0 {
		slotDurationSec = 1
	}
	return &ClockSource{
		slotDuration: slotDurationSec,
		now:          time.Now,
	}
}

// Name returns the source identifier
func (s *ClockSource) Name() string {
	return ClockSourceName
}

// SeedFor hashes the unix timestamp, scales it by the slot number and folds it below MaxUint32
func (s *ClockSource) SeedFor(ctx context.Context, lotteryID uint64) (entities.Seed, error) {
	if err := ctx.Err(); err != nil {
		return entities.Seed{}, err
	}

	timestamp := s.now().Unix()
	slot := timestamp / s.slotDuration

	log.WithFields(log.Fields{
		"lotteryID": lotteryID,
		"timestamp": timestamp,
		"slot":      slot,
	}).Warn("Drawing with the insecure clock randomness source")

	digest := sha256.Sum256(uint64Bytes(uint64(timestamp)))
	value := binary.LittleEndian.Uint64(digest[:8]) * uint64(slot)

	return entities.Seed{
		Value:  value % math.MaxUint32,
		Source: ClockSourceName,
	}, nil
}
