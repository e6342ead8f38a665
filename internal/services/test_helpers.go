package services

import (
	"fmt"

	"order-admin/internal/domain"
)

func CreateMockOrder(id string, trackingID string, items int, status domain.DeliveryStatus) domain.Order {
	name := "Customer " + id
	email := "customer" + id + "@example.com"
	o := domain.Order{
		ID:             id,
		TrackingID:     trackingID,
		DeliveryStatus: status,
		Shipping: &domain.Shipping{
			PaymentStatus: "paid",
			CustomerDetails: &domain.CustomerDetails{
				Name:  &name,
				Email: &email,
			},
		},
	}
	for i := 0; i < items; i++ {
		o.LineItems = append(o.LineItems, CreateMockLineItem(fmt.Sprintf("Product %d", i+1), TestUnitAmount, 1))
	}
	return o
}

func CreateMockLineItem(name string, unitAmount int64, qty int) domain.LineItem {
	return domain.LineItem{
		Quantity: qty,
		PriceData: domain.PriceData{
			UnitAmount:  unitAmount,
			ProductData: domain.ProductData{Name: name, Images: []string{"https://cdn.example.com/" + name + ".png"}},
		},
	}
}

const (
	TestSessionID  = "session-1"
	TestOrderID    = "1"
	TestUnitAmount = int64(1099)
)
