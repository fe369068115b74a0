package randomness

import (
	"context"

	"lottoledger/domain/entities"
)

// FixedSourceName identifies seeds produced by FixedSource
const FixedSourceName = "fixed"

// FixedSource always returns the same seed. Tests and replays only.
type FixedSource struct {
	value uint64
	err   error
}

// NewFixedSource creates a source returning value for every lottery
func NewFixedSource(value uint64) *FixedSource {
	return &FixedSource{value: value}
}

// NewFailingSource creates a source that always fails with err
func NewFailingSource(err error) *FixedSource {
	return &FixedSource{err: err}
}

// Name returns the source identifier
func (s *FixedSource) Name() string {
	return FixedSourceName
}

// SeedFor returns the configured seed or error
func (s *FixedSource) SeedFor(ctx context.Context, lotteryID uint64) (entities.Seed, error) {
	if s.err != nil {
		return entities.Seed{}, s.err
	}
	return entities.Seed{Value: s.value, Source: FixedSourceName}, nil
}
