package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"order-admin/internal/domain"
	"order-admin/internal/infra"
	"order-admin/internal/mocks"
	"order-admin/internal/repository/memory"
)

func newTestDashboard(t *testing.T, opts Options) (*OrderDashboard, *mocks.MockOrdersClient, *mocks.MockPublisher) {
	t.Helper()
	client := new(mocks.MockOrdersClient)
	pub := new(mocks.MockPublisher)
	repo := memory.NewSessionRepository(30 * time.Minute)
	return NewOrderDashboard(client, repo, pub, zerolog.Nop(), opts), client, pub
}

func twoOrders() []domain.Order {
	return []domain.Order{
		CreateMockOrder("1", "TRK-A", 2, domain.StatusExpected),
		CreateMockOrder("2", "TRK-B", 1, domain.StatusShipped),
	}
}

func TestOrderDashboard_EndToEndScenario(t *testing.T) {
	ctx := context.Background()
	d, client, _ := newTestDashboard(t, Options{})
	client.On("ListOrders", mock.Anything).Return(twoOrders(), nil).Once()

	created, err := d.Mount(ctx, TestSessionID)
	require.NoError(t, err)
	assert.True(t, created)
	d.Wait()

	state := domain.NewViewState()
	state.PageSize = 1
	require.NoError(t, d.sessions.SaveView(ctx, TestSessionID, state))

	page, err := d.View(ctx, Session{ID: TestSessionID})
	require.NoError(t, err)
	require.Len(t, page.Table.Rows, 1)
	assert.Equal(t, "TRK-A", page.Table.Rows[0].TrackingID)
	assert.Empty(t, page.Table.Rows[0].Details)

	require.NoError(t, d.ToggleExpand(ctx, TestSessionID, "1"))
	page, err = d.View(ctx, Session{ID: TestSessionID})
	require.NoError(t, err)
	assert.Len(t, page.Table.Rows[0].Details, 2)

	require.NoError(t, d.SetPage(ctx, TestSessionID, 1))
	page, err = d.View(ctx, Session{ID: TestSessionID})
	require.NoError(t, err)
	require.Len(t, page.Table.Rows, 1)
	assert.Equal(t, "TRK-B", page.Table.Rows[0].TrackingID)
	assert.False(t, page.Table.Rows[0].Expanded)
	assert.Equal(t, "1", page.View.ExpandedOrderID, "expansion persists across page changes")

	client.AssertExpectations(t)
}

func TestOrderDashboard_LoadingAndErrorStates(t *testing.T) {
	ctx := context.Background()
	d, client, _ := newTestDashboard(t, Options{})

	release := make(chan struct{})
	client.On("ListOrders", mock.Anything).Return(nil, errors.New("dial tcp: connection refused")).
		Run(func(mock.Arguments) { <-release }).Once()

	_, err := d.Mount(ctx, TestSessionID)
	require.NoError(t, err)

	page, err := d.View(ctx, Session{ID: TestSessionID})
	require.NoError(t, err)
	assert.True(t, page.IsLoading)
	assert.False(t, page.IsError)
	assert.Empty(t, page.Table.Rows)

	close(release)
	d.Wait()

	page, err = d.View(ctx, Session{ID: TestSessionID})
	require.NoError(t, err)
	assert.False(t, page.IsLoading)
	assert.True(t, page.IsError)
	assert.Equal(t, MsgFetchError, page.Error)
	assert.Empty(t, page.Table.Rows)
}

func TestOrderDashboard_UpdateStatusSuccess(t *testing.T) {
	ctx := context.Background()
	d, client, pub := newTestDashboard(t, Options{})
	client.On("ListOrders", mock.Anything).Return(twoOrders(), nil).Twice()
	client.On("UpdateOrderStatus", mock.Anything, "1", domain.StatusShipped).
		Return(infra.Acknowledgement(`{"ok":true}`), nil).Once()
	pub.On("Publish", mock.Anything, EventDeliveryStatusUpdated, mock.MatchedBy(func(evt domain.DeliveryStatusUpdatedEvent) bool {
		return evt.OrderID == "1" && evt.DeliveryStatus == domain.StatusShipped
	})).Return(nil).Once()

	_, err := d.Mount(ctx, TestSessionID)
	require.NoError(t, err)
	d.Wait()

	require.NoError(t, d.SelectStatus(ctx, TestSessionID, "1", domain.StatusShipped))
	args, err := d.UpdateStatus(ctx, TestSessionID, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, args.Status)
	d.Wait()

	page, err := d.View(ctx, Session{ID: TestSessionID})
	require.NoError(t, err)
	require.NotNil(t, page.Toast)
	assert.Equal(t, domain.ToastSuccess, page.Toast.Kind)
	assert.Equal(t, MsgStatusUpdated, page.Toast.Message)

	page, err = d.View(ctx, Session{ID: TestSessionID})
	require.NoError(t, err)
	assert.Nil(t, page.Toast, "toast is shown once")

	client.AssertNumberOfCalls(t, "ListOrders", 2)
	client.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestOrderDashboard_UpdateRefreshesEvenWithFetchInFlight(t *testing.T) {
	ctx := context.Background()
	d, client, pub := newTestDashboard(t, Options{})

	entered := make(chan struct{})
	release := make(chan struct{})
	client.On("ListOrders", mock.Anything).Return(twoOrders(), nil).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).Once()
	shipped := twoOrders()
	shipped[0].DeliveryStatus = domain.StatusShipped
	client.On("ListOrders", mock.Anything).Return(shipped, nil).Once()
	client.On("UpdateOrderStatus", mock.Anything, "1", domain.StatusShipped).
		Return(infra.Acknowledgement(`{"ok":true}`), nil).Once()
	pub.On("Publish", mock.Anything, EventDeliveryStatusUpdated, mock.Anything).Return(nil).Once()

	_, err := d.Mount(ctx, TestSessionID)
	require.NoError(t, err)
	<-entered

	require.NoError(t, d.SelectStatus(ctx, TestSessionID, "1", domain.StatusShipped))
	_, err = d.UpdateStatus(ctx, TestSessionID, "1")
	require.NoError(t, err)
	d.update.Wait()

	// The fetch issued at mount settles last, with data read before the update.
	close(release)
	d.Wait()

	client.AssertNumberOfCalls(t, "ListOrders", 2)
	snap := d.Orders()
	require.Len(t, snap.Data, 2)
	assert.Equal(t, domain.StatusShipped, snap.Data[0].DeliveryStatus)
	client.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestOrderDashboard_ConcurrentIntentsAreNotLost(t *testing.T) {
	ctx := context.Background()
	d, client, _ := newTestDashboard(t, Options{Scope: domain.ScopeRow})
	client.On("ListOrders", mock.Anything).Return(twoOrders(), nil).Once()

	_, err := d.Mount(ctx, TestSessionID)
	require.NoError(t, err)
	d.Wait()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, d.SelectStatus(ctx, TestSessionID, fmt.Sprintf("order-%d", i), domain.StatusDelivered))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, d.ToggleExpand(ctx, TestSessionID, "1"))
		}()
	}
	wg.Wait()

	v, err := d.sessions.FindView(ctx, TestSessionID)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Len(t, v.PendingByOrder, 20)
	assert.Empty(t, v.ExpandedOrderID, "an even number of toggles leaves the row collapsed")
	assert.Empty(t, d.locks.locks)
}

func TestOrderDashboard_UpdateStatusError(t *testing.T) {
	ctx := context.Background()
	d, client, pub := newTestDashboard(t, Options{})
	client.On("ListOrders", mock.Anything).Return(twoOrders(), nil).Once()
	client.On("UpdateOrderStatus", mock.Anything, "2", domain.StatusRejected).
		Return(nil, &infra.RemoteError{Op: "update_status", StatusCode: 500, Body: "db down"}).Once()

	_, err := d.Mount(ctx, TestSessionID)
	require.NoError(t, err)
	d.Wait()

	require.NoError(t, d.SelectStatus(ctx, TestSessionID, "2", domain.StatusRejected))
	_, err = d.UpdateStatus(ctx, TestSessionID, "2")
	require.NoError(t, err)
	d.Wait()

	page, err := d.View(ctx, Session{ID: TestSessionID})
	require.NoError(t, err)
	require.NotNil(t, page.Toast)
	assert.Equal(t, domain.ToastError, page.Toast.Kind)
	assert.Contains(t, page.Toast.Message, "Update Error: ")
	assert.Contains(t, page.Toast.Message, "db down")
	assert.False(t, page.IsError, "a failed update leaves the list usable")
	assert.Len(t, page.Table.Rows, 2)

	client.AssertNumberOfCalls(t, "ListOrders", 1)
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderDashboard_SharedSelectionSlot(t *testing.T) {
	ctx := context.Background()
	d, client, pub := newTestDashboard(t, Options{Scope: domain.ScopeShared})
	client.On("ListOrders", mock.Anything).Return(twoOrders(), nil)
	client.On("UpdateOrderStatus", mock.Anything, "2", domain.StatusCancelled).
		Return(infra.Acknowledgement(`{}`), nil).Once()
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := d.Mount(ctx, TestSessionID)
	require.NoError(t, err)

	// Selecting in order 1's dropdown changes what order 2's button submits.
	require.NoError(t, d.SelectStatus(ctx, TestSessionID, "1", domain.StatusCancelled))
	args, err := d.UpdateStatus(ctx, TestSessionID, "2")
	require.NoError(t, err)
	d.Wait()

	assert.Equal(t, domain.StatusCancelled, args.Status)
	client.AssertExpectations(t)
}

func TestOrderDashboard_RowSelectionScope(t *testing.T) {
	ctx := context.Background()
	d, client, _ := newTestDashboard(t, Options{Scope: domain.ScopeRow})
	client.On("ListOrders", mock.Anything).Return(twoOrders(), nil)
	client.On("UpdateOrderStatus", mock.Anything, "2", domain.DeliveryStatus("")).
		Return(nil, errors.New("deliveryStatus required")).Once()

	_, err := d.Mount(ctx, TestSessionID)
	require.NoError(t, err)

	require.NoError(t, d.SelectStatus(ctx, TestSessionID, "1", domain.StatusCancelled))
	args, err := d.UpdateStatus(ctx, TestSessionID, "2")
	require.NoError(t, err)
	d.Wait()

	assert.Empty(t, args.Status)
	client.AssertExpectations(t)
}

func TestOrderDashboard_UpdateCapturesSelectionAtClick(t *testing.T) {
	ctx := context.Background()
	d, client, pub := newTestDashboard(t, Options{})
	release := make(chan struct{})
	client.On("ListOrders", mock.Anything).Return(twoOrders(), nil)
	client.On("UpdateOrderStatus", mock.Anything, "1", domain.StatusShipped).
		Return(infra.Acknowledgement(`{}`), nil).
		Run(func(mock.Arguments) { <-release }).Once()
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := d.Mount(ctx, TestSessionID)
	require.NoError(t, err)
	require.NoError(t, d.SelectStatus(ctx, TestSessionID, "1", domain.StatusShipped))

	_, err = d.UpdateStatus(ctx, TestSessionID, "1")
	require.NoError(t, err)
	require.NoError(t, d.SelectStatus(ctx, TestSessionID, "1", domain.StatusDelivered))
	close(release)
	d.Wait()

	client.AssertExpectations(t)
	client.AssertNotCalled(t, "UpdateOrderStatus", mock.Anything, "1", domain.StatusDelivered)
}

func TestOrderDashboard_SetPageSizeResetsPage(t *testing.T) {
	ctx := context.Background()
	d, client, _ := newTestDashboard(t, Options{})
	client.On("ListOrders", mock.Anything).Return([]domain.Order{}, nil)

	require.NoError(t, d.SetPage(ctx, TestSessionID, 4))
	require.NoError(t, d.SetPageSize(ctx, TestSessionID, 25))
	d.Wait()

	page, err := d.View(ctx, Session{ID: TestSessionID})
	require.NoError(t, err)
	assert.Equal(t, 0, page.View.Page)
	assert.Equal(t, 25, page.View.PageSize)

	err = d.SetPageSize(ctx, TestSessionID, 3)
	assert.ErrorIs(t, err, domain.ErrInvalidPageSize)
}

func TestOrderDashboard_MountExistingSessionKeepsState(t *testing.T) {
	ctx := context.Background()
	d, client, _ := newTestDashboard(t, Options{})
	client.On("ListOrders", mock.Anything).Return(twoOrders(), nil).Once()

	created, err := d.Mount(ctx, TestSessionID)
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, d.ToggleExpand(ctx, TestSessionID, "2"))

	created, err = d.Mount(ctx, TestSessionID)
	require.NoError(t, err)
	assert.False(t, created)
	d.Wait()

	page, err := d.View(ctx, Session{ID: TestSessionID})
	require.NoError(t, err)
	assert.Equal(t, "2", page.View.ExpandedOrderID)
	client.AssertExpectations(t)
}

func TestOrderDashboard_ReverseDisplay(t *testing.T) {
	ctx := context.Background()
	d, client, _ := newTestDashboard(t, Options{Reverse: true})
	client.On("ListOrders", mock.Anything).Return(twoOrders(), nil)

	_, err := d.Mount(ctx, TestSessionID)
	require.NoError(t, err)
	d.Wait()

	page, err := d.View(ctx, Session{ID: TestSessionID})
	require.NoError(t, err)
	require.Len(t, page.Table.Rows, 2)
	assert.Equal(t, "TRK-B", page.Table.Rows[0].TrackingID)
	assert.Equal(t, "1", d.Orders().Data[0].ID, "cached list keeps API order")
}

func TestNotifiers_FanOut(t *testing.T) {
	a, b := new(mocks.MockNotifier), new(mocks.MockNotifier)
	a.On("Success", mock.Anything, "ok").Once()
	b.On("Success", mock.Anything, "ok").Once()
	a.On("Error", mock.Anything, "Update Error: boom").Once()
	b.On("Error", mock.Anything, "Update Error: boom").Once()

	ns := Notifiers{a, b}
	ns.Success(context.Background(), "ok")
	ns.Error(context.Background(), updateErrorMessage(errors.New("boom")))

	a.AssertExpectations(t)
	b.AssertExpectations(t)
}
