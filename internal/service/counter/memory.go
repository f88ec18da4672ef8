package counter

import (
	"context"
	"sync/atomic"
)

// Memory is an in-process Service. The zero value is ready to use.
type Memory struct {
	value atomic.Int64
}

// NewMemory returns a counter starting at zero.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get(context.Context) (int64, error) {
	return m.value.Load(), nil
}

func (m *Memory) Add(_ context.Context, step int64) (int64, error) {
	if err := validStep(step); err != nil {
		return 0, err
	}
	return m.value.Add(step), nil
}

func (m *Memory) Reset(context.Context) error {
	m.value.Store(0)
	return nil
}
