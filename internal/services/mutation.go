package services

import (
	"context"
	"fmt"
	"sync"
)

type MutationFunc[A, R any] func(ctx context.Context, args A) (R, error)

// Mutation runs a state-changing call in the background and reports the
// outcome through exactly one of its callbacks per Trigger.
type Mutation[A, R any] struct {
	fn        MutationFunc[A, R]
	onSuccess func(ctx context.Context, args A, result R)
	onError   func(ctx context.Context, args A, err error)
	wg        sync.WaitGroup
}

func NewMutation[A, R any](
	fn MutationFunc[A, R],
	onSuccess func(ctx context.Context, args A, result R),
	onError func(ctx context.Context, args A, err error),
) *Mutation[A, R] {
	return &Mutation[A, R]{fn: fn, onSuccess: onSuccess, onError: onError}
}

// Trigger returns immediately. args is captured by value, so later changes
// to the caller's state do not affect the submitted call.
func (m *Mutation[A, R]) Trigger(ctx context.Context, args A) {
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		result, err := m.call(ctx, args)
		if err != nil {
			if m.onError != nil {
				m.onError(ctx, args, err)
			}
			return
		}
		if m.onSuccess != nil {
			m.onSuccess(ctx, args, result)
		}
	}()
}

// Wait blocks until every triggered call and its callback have returned.
func (m *Mutation[A, R]) Wait() {
	m.wg.Wait()
}

func (m *Mutation[A, R]) call(ctx context.Context, args A) (result R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mutation panicked: %v", r)
		}
	}()
	return m.fn(ctx, args)
}
