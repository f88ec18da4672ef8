// Package counter stores the shared demo counter.
package counter

import (
	"context"
	"errors"
)

// MaxStep bounds a single increment.
const MaxStep = 100

// ErrStepOutOfRange reports an increment outside [-MaxStep, MaxStep].
var ErrStepOutOfRange = errors.New("counter step out of range")

// Service defines counter operations. Implementations are safe for
// concurrent use.
type Service interface {
	Get(ctx context.Context) (int64, error)
	Add(ctx context.Context, step int64) (int64, error)
	Reset(ctx context.Context) error
}

func validStep(step int64) error {
	if step < -MaxStep || step > MaxStep {
		return ErrStepOutOfRange
	}
	return nil
}
