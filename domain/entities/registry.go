package entities

import (
	"math"
	"time"
)

// Registry is the deployment-wide singleton holding the lottery id counter
type Registry struct {
	NextLotteryID uint64    `db:"next_lottery_id"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Allocate returns the next lottery id and advances the counter.
// The counter never wraps; exhausting it retires the deployment.
func (r *Registry) Allocate() (uint64, error) {
	if r.NextLotteryID == math.MaxUint64 {
		return 0, ErrOverflow
	}
	id := r.NextLotteryID
	r.NextLotteryID++
	return id, nil
}
