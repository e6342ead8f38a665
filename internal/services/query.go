package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

// Snapshot is what a view reads from a Query.
type Snapshot[T any] struct {
	Data      T
	IsLoading bool
	IsError   bool
	Err       error
	UpdatedAt time.Time
}

// Query caches the last successful result of a fetch under a fixed key.
// Concurrent fetches share one in-flight call. A failed fetch keeps the
// previous data; a fetch in flight never clears it.
type Query[T any] struct {
	key   string
	fetch FetchFunc[T]
	group singleflight.Group
	wg    sync.WaitGroup

	mu        sync.RWMutex
	data      T
	hasData   bool
	started   bool
	err       error
	updatedAt time.Time
	now       func() time.Time

	// issued numbers each fetch; applied is the newest one whose result
	// was stored. An older fetch settling late is dropped.
	issued  uint64
	applied uint64
}

func NewQuery[T any](key string, initial T, fetch FetchFunc[T]) *Query[T] {
	return &Query[T]{key: key, data: initial, fetch: fetch, now: time.Now}
}

func (q *Query[T]) Key() string { return q.key }

// Snapshot reports IsLoading until the first fetch settles successfully or
// the query enters the error state.
func (q *Query[T]) Snapshot() Snapshot[T] {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return Snapshot[T]{
		Data:      q.data,
		IsLoading: !q.hasData && q.err == nil,
		IsError:   q.err != nil,
		Err:       q.err,
		UpdatedAt: q.updatedAt,
	}
}

// Refetch runs the fetch (or joins the one in flight) and updates the cache.
func (q *Query[T]) Refetch(ctx context.Context) (T, error) {
	q.mu.Lock()
	q.started = true
	q.mu.Unlock()

	v, err, _ := q.group.Do(q.key, func() (any, error) {
		return q.run(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate always issues a new fetch, even when one is already in flight.
// Use it after a write: a fetch started before the write may return stale
// data. Concurrent Invalidate and Refetch calls join the new fetch.
func (q *Query[T]) Invalidate(ctx context.Context) (T, error) {
	q.group.Forget(q.key)
	return q.Refetch(ctx)
}

func (q *Query[T]) run(ctx context.Context) (T, error) {
	q.mu.Lock()
	q.issued++
	seq := q.issued
	q.mu.Unlock()

	data, err := q.fetch(ctx)
	q.store(seq, data, err)
	return data, err
}

// RefetchAsync starts a refetch in the background.
func (q *Query[T]) RefetchAsync(ctx context.Context) {
	q.mu.Lock()
	q.started = true
	q.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		_, _ = q.Refetch(ctx)
	}()
}

// InvalidateAsync is Invalidate in the background.
func (q *Query[T]) InvalidateAsync(ctx context.Context) {
	q.mu.Lock()
	q.started = true
	q.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		_, _ = q.Invalidate(ctx)
	}()
}

// Prime starts a background fetch if none was ever issued.
func (q *Query[T]) Prime(ctx context.Context) bool {
	q.mu.Lock()
	if q.started {
		q.mu.Unlock()
		return false
	}
	q.started = true
	q.mu.Unlock()

	q.RefetchAsync(ctx)
	return true
}

// Wait blocks until background refetches have finished.
func (q *Query[T]) Wait() {
	q.wg.Wait()
}

func (q *Query[T]) store(seq uint64, data T, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if seq < q.applied {
		return
	}
	q.applied = seq
	if err != nil {
		q.err = err
		return
	}
	q.data = data
	q.hasData = true
	q.err = nil
	q.updatedAt = q.now()
}
