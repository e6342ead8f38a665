package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"order-admin/internal/domain"
	"order-admin/internal/repository"
)

const (
	MsgStatusUpdated   = "Status updated successfully"
	msgUpdateErrPrefix = "Update Error: "
)

// Notifier surfaces the outcome of an operator action.
type Notifier interface {
	Success(ctx context.Context, msg string)
	Error(ctx context.Context, msg string)
}

// SessionNotifier leaves a toast on the view session; the next render shows
// it once. A newer toast replaces an unread one.
type SessionNotifier struct {
	repo      repository.SessionRepository
	sessionID string
	log       zerolog.Logger
	now       func() time.Time
}

func NewSessionNotifier(repo repository.SessionRepository, sessionID string, log zerolog.Logger) *SessionNotifier {
	return &SessionNotifier{repo: repo, sessionID: sessionID, log: log, now: time.Now}
}

func (n *SessionNotifier) Success(ctx context.Context, msg string) {
	n.put(ctx, domain.ToastSuccess, msg)
}

func (n *SessionNotifier) Error(ctx context.Context, msg string) {
	n.put(ctx, domain.ToastError, msg)
}

func (n *SessionNotifier) put(ctx context.Context, kind domain.ToastKind, msg string) {
	err := n.repo.PutToast(ctx, n.sessionID, domain.Toast{Kind: kind, Message: msg, At: n.now()})
	if err != nil {
		n.log.Error().Err(err).Str("session_id", n.sessionID).Msg("could not store toast")
	}
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) LogNotifier {
	return LogNotifier{log: log}
}

func (n LogNotifier) Success(_ context.Context, msg string) {
	n.log.Info().Str("toast", "success").Msg(msg)
}

func (n LogNotifier) Error(_ context.Context, msg string) {
	n.log.Warn().Str("toast", "error").Msg(msg)
}

// Notifiers fans a notification out to each member in order.
type Notifiers []Notifier

func (ns Notifiers) Success(ctx context.Context, msg string) {
	for _, n := range ns {
		n.Success(ctx, msg)
	}
}

func (ns Notifiers) Error(ctx context.Context, msg string) {
	for _, n := range ns {
		n.Error(ctx, msg)
	}
}

func updateErrorMessage(err error) string {
	return msgUpdateErrPrefix + err.Error()
}
