package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"order-admin/internal/domain"
	"order-admin/internal/infra"
	rabbit "order-admin/internal/infra/rabbitmq"
	"order-admin/internal/repository"
	"order-admin/internal/view"
)

const (
	OrdersQueryKey = "orders"

	EventDeliveryStatusUpdated = "order.delivery_status.updated"

	MsgFetchError = "Error fetching orders"
)

type Options struct {
	// Reverse lists the most recently created order first.
	Reverse bool
	Scope   domain.SelectionScope
}

// Session identifies one mounted orders view and the operator behind it.
type Session struct {
	ID       string
	Operator domain.Operator
}

// StatusUpdate is the value submitted by an "Update Status" click.
type StatusUpdate struct {
	SessionID string
	OrderID   string
	Status    domain.DeliveryStatus
}

// Page is everything the orders page needs for one render.
type Page struct {
	Session   Session
	View      domain.ViewState
	Table     view.Table
	IsLoading bool
	IsError   bool
	Error     string
	Toast     *domain.Toast
	UpdatedAt time.Time
}

// OrderDashboard drives the orders view: one shared list query, one status
// mutation, and a view state per session.
type OrderDashboard struct {
	client    infra.OrdersClientInterface
	sessions  repository.SessionRepository
	publisher rabbit.PublisherInterface
	log       zerolog.Logger
	opts      Options
	now       func() time.Time

	orders *Query[[]domain.Order]
	update *Mutation[StatusUpdate, infra.Acknowledgement]
	locks  *sessionLocks
}

func NewOrderDashboard(c infra.OrdersClientInterface, sessions repository.SessionRepository, pub rabbit.PublisherInterface, log zerolog.Logger, opts Options) *OrderDashboard {
	if pub == nil {
		pub = rabbit.NopPublisher{}
	}
	if opts.Scope == "" {
		opts.Scope = domain.ScopeShared
	}
	d := &OrderDashboard{
		client:    c,
		sessions:  sessions,
		publisher: pub,
		log:       log,
		opts:      opts,
		now:       time.Now,
		locks:     newSessionLocks(),
	}
	d.orders = NewQuery(OrdersQueryKey, []domain.Order{}, d.fetchOrders)
	d.update = NewMutation(d.submitStatus, d.onUpdateSuccess, d.onUpdateError)
	return d
}

func (d *OrderDashboard) Orders() Snapshot[[]domain.Order] {
	return d.orders.Snapshot()
}

// Mount starts a view session. A new session gets default view state and a
// fresh list fetch; an existing one is left alone.
func (d *OrderDashboard) Mount(ctx context.Context, sessionID string) (bool, error) {
	v, err := d.sessions.FindView(ctx, sessionID)
	if err != nil {
		return false, err
	}
	if v != nil {
		d.orders.Prime(context.WithoutCancel(ctx))
		return false, nil
	}
	if err := d.sessions.SaveView(ctx, sessionID, domain.NewViewState()); err != nil {
		return false, err
	}
	d.log.Debug().Str("session_id", sessionID).Msg("orders view mounted")
	d.orders.RefetchAsync(context.WithoutCancel(ctx))
	return true, nil
}

// Unmount discards the session's view state.
func (d *OrderDashboard) Unmount(ctx context.Context, sessionID string) error {
	return d.sessions.Delete(ctx, sessionID)
}

func (d *OrderDashboard) View(ctx context.Context, sess Session) (Page, error) {
	v, err := d.loadView(ctx, sess.ID)
	if err != nil {
		return Page{}, err
	}
	toast, err := d.sessions.TakeToast(ctx, sess.ID)
	if err != nil {
		d.log.Warn().Err(err).Str("session_id", sess.ID).Msg("could not read toast")
	}

	snap := d.orders.Snapshot()
	page := Page{
		Session:   sess,
		View:      v,
		Table:     view.Render(snap.Data, v, view.Options{Reverse: d.opts.Reverse, Scope: d.opts.Scope}),
		IsLoading: snap.IsLoading,
		IsError:   snap.IsError,
		Toast:     toast,
		UpdatedAt: snap.UpdatedAt,
	}
	if snap.IsError {
		page.Error = MsgFetchError
	}
	return page, nil
}

func (d *OrderDashboard) SetPage(ctx context.Context, sessionID string, n int) error {
	return d.modifyView(ctx, sessionID, func(v *domain.ViewState) error {
		v.SetPage(n)
		return nil
	})
}

func (d *OrderDashboard) SetPageSize(ctx context.Context, sessionID string, n int) error {
	return d.modifyView(ctx, sessionID, func(v *domain.ViewState) error {
		return v.SetPageSize(n)
	})
}

func (d *OrderDashboard) ToggleExpand(ctx context.Context, sessionID, orderID string) error {
	return d.modifyView(ctx, sessionID, func(v *domain.ViewState) error {
		v.ToggleExpand(orderID)
		return nil
	})
}

// SelectStatus records a selector change. With the shared scope orderID is
// ignored and the one slot used by every row is overwritten.
func (d *OrderDashboard) SelectStatus(ctx context.Context, sessionID, orderID string, status domain.DeliveryStatus) error {
	return d.modifyView(ctx, sessionID, func(v *domain.ViewState) error {
		v.SelectPending(d.opts.Scope, orderID, status)
		return nil
	})
}

// UpdateStatus submits the pending selection for orderID and returns without
// waiting for the API. The outcome arrives as a toast on the session.
func (d *OrderDashboard) UpdateStatus(ctx context.Context, sessionID, orderID string) (StatusUpdate, error) {
	v, err := d.loadView(ctx, sessionID)
	if err != nil {
		return StatusUpdate{}, err
	}
	args := StatusUpdate{
		SessionID: sessionID,
		OrderID:   orderID,
		Status:    v.PendingFor(d.opts.Scope, orderID),
	}
	d.log.Info().
		Str("session_id", sessionID).
		Str("order_id", orderID).
		Str("delivery_status", string(args.Status)).
		Msg("submitting delivery status update")
	d.update.Trigger(context.WithoutCancel(ctx), args)
	return args, nil
}

// Refetch re-issues the list request in the background. It never joins a
// fetch that was already in flight.
func (d *OrderDashboard) Refetch(ctx context.Context) {
	d.orders.InvalidateAsync(context.WithoutCancel(ctx))
}

// Wait blocks until in-flight updates and list fetches have settled.
func (d *OrderDashboard) Wait() {
	d.update.Wait()
	d.orders.Wait()
}

func (d *OrderDashboard) fetchOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := d.client.ListOrders(ctx)
	if err != nil {
		d.log.Error().Err(err).Msg("error fetching orders")
		return nil, err
	}
	d.log.Debug().Int("count", len(orders)).Msg("orders fetched")
	return orders, nil
}

func (d *OrderDashboard) submitStatus(ctx context.Context, args StatusUpdate) (infra.Acknowledgement, error) {
	return d.client.UpdateOrderStatus(ctx, args.OrderID, args.Status)
}

func (d *OrderDashboard) onUpdateSuccess(ctx context.Context, args StatusUpdate, _ infra.Acknowledgement) {
	d.notifier(args.SessionID).Success(ctx, MsgStatusUpdated)

	evt := domain.DeliveryStatusUpdatedEvent{
		OrderID:        args.OrderID,
		DeliveryStatus: args.Status,
		UpdatedAt:      d.now(),
	}
	if err := d.publisher.Publish(ctx, EventDeliveryStatusUpdated, evt); err != nil {
		d.log.Error().Err(err).Str("order_id", args.OrderID).Msg("failed to publish status event")
	}

	if _, err := d.orders.Invalidate(ctx); err != nil {
		d.log.Warn().Err(err).Msg("refetch after status update failed")
	}
}

func (d *OrderDashboard) onUpdateError(ctx context.Context, args StatusUpdate, err error) {
	d.log.Error().Err(err).
		Str("session_id", args.SessionID).
		Str("order_id", args.OrderID).
		Msg("delivery status update failed")
	d.notifier(args.SessionID).Error(ctx, updateErrorMessage(err))
}

func (d *OrderDashboard) notifier(sessionID string) Notifier {
	return Notifiers{
		NewSessionNotifier(d.sessions, sessionID, d.log),
		NewLogNotifier(d.log.With().Str("session_id", sessionID).Logger()),
	}
}

// loadView returns the session's view state, mounting the session first if
// it is unknown or expired.
func (d *OrderDashboard) loadView(ctx context.Context, sessionID string) (domain.ViewState, error) {
	v, err := d.sessions.FindView(ctx, sessionID)
	if err != nil {
		return domain.ViewState{}, err
	}
	if v != nil {
		return *v, nil
	}
	if _, err := d.Mount(ctx, sessionID); err != nil {
		return domain.ViewState{}, err
	}
	return domain.NewViewState(), nil
}

// modifyView applies fn to the stored view state. Intents from one session
// are applied one at a time so none of them is lost.
func (d *OrderDashboard) modifyView(ctx context.Context, sessionID string, fn func(*domain.ViewState) error) error {
	unlock := d.locks.Lock(sessionID)
	defer unlock()

	v, err := d.loadView(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := fn(&v); err != nil {
		return err
	}
	return d.sessions.SaveView(ctx, sessionID, v)
}
