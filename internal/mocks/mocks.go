package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"order-admin/internal/domain"
	"order-admin/internal/infra"
)

type MockOrdersClient struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockOrdersClient) ListOrders(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrdersClient) UpdateOrderStatus(ctx context.Context, orderID string, status domain.DeliveryStatus) (infra.Acknowledgement, error) {
	args := m.Called(ctx, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(infra.Acknowledgement), args.Error(1)
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, data any) error {
	args := m.Called(ctx, routingKey, data)
	return args.Error(0)
}

func (m *MockNotifier) Success(ctx context.Context, msg string) {
	m.Called(ctx, msg)
}

func (m *MockNotifier) Error(ctx context.Context, msg string) {
	m.Called(ctx, msg)
}
