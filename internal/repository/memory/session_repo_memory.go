package memory

import (
	"context"
	"sync"
	"time"

	"order-admin/internal/domain"
	"order-admin/internal/repository"
)

type entry struct {
	view      *domain.ViewState
	toast     *domain.Toast
	expiresAt time.Time
}

type sessionRepo struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	data      map[string]*entry
	lastSweep time.Time
}

func NewSessionRepository(ttl time.Duration) repository.SessionRepository {
	return newSessionRepo(ttl, time.Now)
}

func newSessionRepo(ttl time.Duration, now func() time.Time) *sessionRepo {
	return &sessionRepo{ttl: ttl, now: now, data: make(map[string]*entry), lastSweep: now()}
}

func (r *sessionRepo) FindView(_ context.Context, sessionID string) (*domain.ViewState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.live(sessionID)
	if e == nil || e.view == nil {
		return nil, nil
	}
	v := cloneView(*e.view)
	return &v, nil
}

func (r *sessionRepo) SaveView(_ context.Context, sessionID string, v domain.ViewState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.touch(sessionID)
	cp := cloneView(v)
	e.view = &cp
	return nil
}

func (r *sessionRepo) PutToast(_ context.Context, sessionID string, t domain.Toast) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.touch(sessionID)
	e.toast = &t
	return nil
}

func (r *sessionRepo) TakeToast(_ context.Context, sessionID string) (*domain.Toast, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.live(sessionID)
	if e == nil || e.toast == nil {
		return nil, nil
	}
	t := e.toast
	e.toast = nil
	return t, nil
}

func (r *sessionRepo) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.data, sessionID)
	return nil
}

// live returns the entry if present and not expired; expired entries are
// dropped on the way.
func (r *sessionRepo) live(sessionID string) *entry {
	e, ok := r.data[sessionID]
	if !ok {
		return nil
	}
	if !r.now().Before(e.expiresAt) {
		delete(r.data, sessionID)
		return nil
	}
	return e
}

func (r *sessionRepo) touch(sessionID string) *entry {
	e := r.live(sessionID)
	if e == nil {
		r.sweep()
		e = &entry{}
		r.data[sessionID] = e
	}
	e.expiresAt = r.now().Add(r.ttl)
	return e
}

// sweep drops every expired entry, at most once per ttl. Sessions that are
// never looked up again would otherwise stay in the map forever.
func (r *sessionRepo) sweep() {
	now := r.now()
	if now.Sub(r.lastSweep) < r.ttl {
		return
	}
	r.lastSweep = now
	for id, e := range r.data {
		if !now.Before(e.expiresAt) {
			delete(r.data, id)
		}
	}
}

func cloneView(v domain.ViewState) domain.ViewState {
	if v.PendingByOrder != nil {
		m := make(map[string]domain.DeliveryStatus, len(v.PendingByOrder))
		for k, s := range v.PendingByOrder {
			m[k] = s
		}
		v.PendingByOrder = m
	}
	return v
}
