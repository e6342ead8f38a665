package infra

import (
	"context"

	"order-admin/internal/domain"
)

type OrdersClientInterface interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.DeliveryStatus) (Acknowledgement, error)
}

var _ OrdersClientInterface = (*OrdersClient)(nil)
