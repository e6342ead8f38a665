package domain

import "time"

type DeliveryStatusUpdatedEvent struct {
	OrderID        string         `json:"orderId"`
	DeliveryStatus DeliveryStatus `json:"deliveryStatus"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}
