package domain

import (
	"errors"
	"fmt"
)

type DeliveryStatus string

const (
	StatusExpected     DeliveryStatus = "Expected"
	StatusShipped      DeliveryStatus = "Shipped"
	StatusInproduction DeliveryStatus = "Inproduction"
	StatusCancelled    DeliveryStatus = "Cancelled"
	StatusRejected     DeliveryStatus = "Rejected"
	StatusDelivered    DeliveryStatus = "Delivered"
)

var ErrUnknownStatus = errors.New("unknown delivery status")

// DeliveryStatuses lists the selectable statuses in menu order.
var DeliveryStatuses = []DeliveryStatus{
	StatusExpected,
	StatusShipped,
	StatusInproduction,
	StatusCancelled,
	StatusRejected,
	StatusDelivered,
}

func (s DeliveryStatus) Valid() bool {
	for _, v := range DeliveryStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	st := DeliveryStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// Order mirrors the orders API payload. Everything below Shipping is
// optional and may be missing from the response.
type Order struct {
	ID             string         `json:"_id"`
	TrackingID     string         `json:"trackingId"`
	DeliveryStatus DeliveryStatus `json:"delivery_status"`
	Shipping       *Shipping      `json:"shipping,omitempty"`
	LineItems      []LineItem     `json:"lineItems"`
}

type Shipping struct {
	CustomerDetails *CustomerDetails `json:"customer_details,omitempty"`
	PaymentStatus   string           `json:"payment_status"`
}

type CustomerDetails struct {
	Name    *string  `json:"name,omitempty"`
	Email   *string  `json:"email,omitempty"`
	Address *Address `json:"address,omitempty"`
}

type Address struct {
	Line1      *string `json:"line1,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Country    *string `json:"country,omitempty"`
}

type LineItem struct {
	PriceData PriceData `json:"price_data"`
	Quantity  int       `json:"quantity"`
}

type PriceData struct {
	// UnitAmount is in minor currency units (cents).
	UnitAmount  int64       `json:"unit_amount"`
	ProductData ProductData `json:"product_data"`
}

type ProductData struct {
	Name   string   `json:"name"`
	Images []string `json:"images"`
}

func (o Order) Customer() *CustomerDetails {
	if o.Shipping == nil {
		return nil
	}
	return o.Shipping.CustomerDetails
}

func (o Order) CustomerName() string {
	if c := o.Customer(); c != nil {
		return deref(c.Name)
	}
	return ""
}

func (o Order) CustomerEmail() string {
	if c := o.Customer(); c != nil {
		return deref(c.Email)
	}
	return ""
}

func (o Order) PaymentStatus() string {
	if o.Shipping == nil {
		return ""
	}
	return o.Shipping.PaymentStatus
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
