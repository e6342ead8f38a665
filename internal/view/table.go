// Package view turns orders and the per-session view state into the rows the
// orders page displays. Everything here is a pure function of its inputs.
package view

import (
	"fmt"
	"math"
	"slices"

	"order-admin/internal/domain"
)

type Options struct {
	// Reverse shows the newest order (last in the API response) first.
	Reverse bool
	Scope   domain.SelectionScope
}

type Table struct {
	Pagination Pagination `json:"pagination"`
	Rows       []OrderRow `json:"rows"`
}

type Pagination struct {
	Count     int    `json:"count"`
	Page      int    `json:"page"`
	PageSize  int    `json:"pageSize"`
	PageSizes []int  `json:"pageSizes"`
	Label     string `json:"label"`
	HasPrev   bool   `json:"hasPrev"`
	HasNext   bool   `json:"hasNext"`
}

type OrderRow struct {
	OrderID       string      `json:"orderId"`
	TrackingID    string      `json:"trackingId"`
	CustomerName  string      `json:"customerName"`
	CustomerEmail string      `json:"customerEmail"`
	Expanded      bool        `json:"expanded"`
	ToggleLabel   string      `json:"toggleLabel"`
	Details       []DetailRow `json:"details,omitempty"`
}

type DetailRow struct {
	OrderID        string         `json:"orderId"`
	CurrentStatus  string         `json:"currentStatus"`
	StatusOptions  []StatusOption `json:"statusOptions"`
	ProductName    string         `json:"productName"`
	UnitAmount     string         `json:"unitAmount"`
	Quantity       int            `json:"quantity"`
	PaymentStatus  string         `json:"paymentStatus"`
	Images         []Image        `json:"images"`
	Customer       *CustomerBlock `json:"customer,omitempty"`
	SelectedStatus string         `json:"selectedStatus"`
}

type StatusOption struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

type Image struct {
	URL          string `json:"url"`
	Alt          string `json:"alt"`
	DownloadName string `json:"downloadName"`
}

// CustomerBlock is the shipping address cell. Missing fields stay blank.
type CustomerBlock struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Line1      string `json:"line1"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Paginate returns orders[page*size : page*size+size], clipped to the slice.
// Out-of-range pages yield an empty result.
func Paginate(orders []domain.Order, page, size int) []domain.Order {
	if page < 0 || size <= 0 || page > lastPage(len(orders), size) {
		return []domain.Order{}
	}
	start := page * size
	end := min(start+size, len(orders))
	return orders[start:end]
}

// DisplayOrder applies the configured ordering without touching the input.
func DisplayOrder(orders []domain.Order, reverse bool) []domain.Order {
	if !reverse {
		return orders
	}
	out := slices.Clone(orders)
	slices.Reverse(out)
	return out
}

func Render(orders []domain.Order, state domain.ViewState, opts Options) Table {
	ordered := DisplayOrder(orders, opts.Reverse)
	visible := Paginate(ordered, state.Page, state.PageSize)

	rows := make([]OrderRow, 0, len(visible))
	for _, o := range visible {
		row := OrderRow{
			OrderID:       o.ID,
			TrackingID:    o.TrackingID,
			CustomerName:  o.CustomerName(),
			CustomerEmail: o.CustomerEmail(),
			Expanded:      state.IsExpanded(o.ID),
			ToggleLabel:   "Expand",
		}
		if row.Expanded {
			row.ToggleLabel = "Collapse"
			row.Details = renderDetails(o, state.PendingFor(opts.Scope, o.ID))
		}
		rows = append(rows, row)
	}

	return Table{
		Pagination: renderPagination(len(orders), state),
		Rows:       rows,
	}
}

func renderDetails(o domain.Order, selected domain.DeliveryStatus) []DetailRow {
	customer := renderCustomer(o.Customer())
	options := StatusOptions(selected)

	details := make([]DetailRow, 0, len(o.LineItems))
	for _, item := range o.LineItems {
		details = append(details, DetailRow{
			OrderID:        o.ID,
			CurrentStatus:  string(o.DeliveryStatus),
			StatusOptions:  options,
			SelectedStatus: string(selected),
			ProductName:    item.PriceData.ProductData.Name,
			UnitAmount:     FormatCurrency(item.PriceData.UnitAmount),
			Quantity:       item.Quantity,
			PaymentStatus:  o.PaymentStatus(),
			Images:         renderImages(item.PriceData.ProductData.Images),
			Customer:       customer,
		})
	}
	return details
}

func StatusOptions(selected domain.DeliveryStatus) []StatusOption {
	out := make([]StatusOption, 0, len(domain.DeliveryStatuses))
	for _, s := range domain.DeliveryStatuses {
		out = append(out, StatusOption{Value: string(s), Selected: s == selected})
	}
	return out
}

func renderImages(urls []string) []Image {
	out := make([]Image, 0, len(urls))
	for i, u := range urls {
		out = append(out, Image{
			URL:          u,
			Alt:          fmt.Sprintf("Product %d", i),
			DownloadName: fmt.Sprintf("Product_%d", i),
		})
	}
	return out
}

func renderCustomer(c *domain.CustomerDetails) *CustomerBlock {
	if c == nil {
		return nil
	}
	b := &CustomerBlock{
		Name:  str(c.Name),
		Email: str(c.Email),
	}
	if a := c.Address; a != nil {
		b.Line1 = str(a.Line1)
		b.City = str(a.City)
		b.State = str(a.State)
		b.PostalCode = str(a.PostalCode)
		b.Country = str(a.Country)
	}
	return b
}

func renderPagination(count int, state domain.ViewState) Pagination {
	p := Pagination{
		Count:     count,
		Page:      state.Page,
		PageSize:  state.PageSize,
		PageSizes: domain.PageSizes,
		HasPrev:   state.Page > 0,
	}
	if state.PageSize <= 0 || count == 0 || state.Page < 0 {
		p.Label = fmt.Sprintf("0–0 of %d", count)
		return p
	}
	last := lastPage(count, state.PageSize)
	from, to := count, count
	switch {
	case state.Page <= last:
		from = state.Page*state.PageSize + 1
		to = min(count, from-1+state.PageSize)
	case state.Page < math.MaxInt/state.PageSize:
		from = state.Page*state.PageSize + 1
	default:
		from = math.MaxInt
	}
	p.Label = fmt.Sprintf("%d–%d of %d", from, to, count)
	p.HasNext = state.Page < last
	return p
}

// lastPage is the index of the last non-empty page, -1 when there are no
// rows. Callers compare against it instead of multiplying page by size,
// which overflows for huge page numbers.
func lastPage(count, size int) int {
	if count <= 0 {
		return -1
	}
	return (count - 1) / size
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
