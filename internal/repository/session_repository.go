package repository

import (
	"context"

	"order-admin/internal/domain"
)

// SessionRepository stores the ephemeral state of each orders-view session.
// View state and the pending toast are kept apart so a late mutation
// callback writing a toast never races an intent rewriting the view.
type SessionRepository interface {
	// FindView returns nil, nil when the session is unknown or expired.
	FindView(ctx context.Context, sessionID string) (*domain.ViewState, error)
	SaveView(ctx context.Context, sessionID string, v domain.ViewState) error
	PutToast(ctx context.Context, sessionID string, t domain.Toast) error
	// TakeToast returns and clears the pending toast, nil when there is none.
	TakeToast(ctx context.Context, sessionID string) (*domain.Toast, error)
	Delete(ctx context.Context, sessionID string) error
}
