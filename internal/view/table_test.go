package view

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-admin/internal/domain"
)

func strPtr(s string) *string { return &s }

func makeOrders(n int) []domain.Order {
	out := make([]domain.Order, n)
	for i := range out {
		out[i] = domain.Order{
			ID:         fmt.Sprintf("%d", i+1),
			TrackingID: fmt.Sprintf("TRK-%d", i+1),
			LineItems:  []domain.LineItem{{Quantity: 1}},
		}
	}
	return out
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1099, "$10.99"},
		{0, "$0.00"},
		{5, "$0.05"},
		{100, "$1.00"},
		{123456, "$1234.56"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.cents), "cents=%d", tt.cents)
	}
}

func TestPaginate(t *testing.T) {
	for _, length := range []int{0, 1, 4, 5, 12, 101} {
		orders := makeOrders(length)
		for _, size := range domain.PageSizes {
			for page := 0; page <= length/size+2; page++ {
				got := Paginate(orders, page, size)

				start := page * size
				if start >= length {
					assert.Empty(t, got, "len=%d page=%d size=%d", length, page, size)
					continue
				}
				end := min(length, start+size)
				assert.Equal(t, orders[start:end], got, "len=%d page=%d size=%d", length, page, size)
			}
		}
	}
}

func TestPaginate_Degenerate(t *testing.T) {
	orders := makeOrders(3)
	assert.Empty(t, Paginate(orders, -1, 5))
	assert.Empty(t, Paginate(orders, 0, 0))
	assert.NotNil(t, Paginate(nil, 0, 10))
}

func TestDisplayOrder_ReverseDoesNotMutateInput(t *testing.T) {
	orders := makeOrders(3)

	rev := DisplayOrder(orders, true)

	assert.Equal(t, []string{"3", "2", "1"}, ids(rev))
	assert.Equal(t, []string{"1", "2", "3"}, ids(orders))
	assert.Equal(t, []string{"1", "2", "3"}, ids(DisplayOrder(orders, false)))
}

func TestRender_SummaryRowsAndPagination(t *testing.T) {
	orders := makeOrders(12)
	orders[0].Shipping = &domain.Shipping{CustomerDetails: &domain.CustomerDetails{
		Name:  strPtr("Ada"),
		Email: strPtr("ada@example.com"),
	}}
	state := domain.NewViewState()
	require.NoError(t, state.SetPageSize(5))

	table := Render(orders, state, Options{})

	require.Len(t, table.Rows, 5)
	assert.Equal(t, "TRK-1", table.Rows[0].TrackingID)
	assert.Equal(t, "Ada", table.Rows[0].CustomerName)
	assert.Equal(t, "ada@example.com", table.Rows[0].CustomerEmail)
	assert.Equal(t, "Expand", table.Rows[0].ToggleLabel)
	assert.Nil(t, table.Rows[0].Details)
	assert.Empty(t, table.Rows[1].CustomerName)

	assert.Equal(t, 12, table.Pagination.Count)
	assert.Equal(t, "1–5 of 12", table.Pagination.Label)
	assert.False(t, table.Pagination.HasPrev)
	assert.True(t, table.Pagination.HasNext)

	state.SetPage(2)
	table = Render(orders, state, Options{})
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "11–12 of 12", table.Pagination.Label)
	assert.False(t, table.Pagination.HasNext)
}

func TestRender_OutOfRangePageIsEmpty(t *testing.T) {
	state := domain.NewViewState()
	state.SetPage(40)

	table := Render(makeOrders(3), state, Options{})

	assert.Empty(t, table.Rows)
	assert.True(t, table.Pagination.HasPrev)
	assert.False(t, table.Pagination.HasNext)
}

func TestRender_HugePageNumber(t *testing.T) {
	orders := makeOrders(3)

	for _, size := range domain.PageSizes {
		for _, page := range []int{math.MaxInt/size - 1, math.MaxInt / size, math.MaxInt/size + 1, math.MaxInt} {
			assert.Empty(t, Paginate(orders, page, size), "page=%d size=%d", page, size)

			state := domain.NewViewState()
			require.NoError(t, state.SetPageSize(size))
			state.SetPage(page)

			var table Table
			require.NotPanics(t, func() { table = Render(orders, state, Options{}) }, "page=%d size=%d", page, size)
			assert.Empty(t, table.Rows)
			assert.True(t, table.Pagination.HasPrev)
			assert.False(t, table.Pagination.HasNext)
			assert.Contains(t, table.Pagination.Label, "of 3")
		}
	}
}

func TestRender_ExpandedDetails(t *testing.T) {
	order := domain.Order{
		ID:             "42",
		TrackingID:     "TRK-42",
		DeliveryStatus: domain.StatusInproduction,
		Shipping: &domain.Shipping{
			PaymentStatus: "paid",
			CustomerDetails: &domain.CustomerDetails{
				Name:  strPtr("Ada"),
				Email: strPtr("ada@example.com"),
				Address: &domain.Address{
					Line1:   strPtr("1 Main St"),
					City:    strPtr("Springfield"),
					Country: strPtr("US"),
				},
			},
		},
		LineItems: []domain.LineItem{
			{Quantity: 2, PriceData: domain.PriceData{UnitAmount: 1099, ProductData: domain.ProductData{
				Name:   "Mug",
				Images: []string{"https://img/a.png", "https://img/b.png"},
			}}},
			{Quantity: 1, PriceData: domain.PriceData{UnitAmount: 5, ProductData: domain.ProductData{Name: "Sticker"}}},
		},
	}
	state := domain.NewViewState()
	state.ToggleExpand("42")
	state.SetPendingStatus(domain.StatusShipped)

	table := Render([]domain.Order{order}, state, Options{Scope: domain.ScopeShared})

	require.Len(t, table.Rows, 1)
	row := table.Rows[0]
	assert.True(t, row.Expanded)
	assert.Equal(t, "Collapse", row.ToggleLabel)
	require.Len(t, row.Details, 2)

	first := row.Details[0]
	assert.Equal(t, "42", first.OrderID)
	assert.Equal(t, "Inproduction", first.CurrentStatus)
	assert.Equal(t, "Shipped", first.SelectedStatus)
	assert.Equal(t, "Mug", first.ProductName)
	assert.Equal(t, "$10.99", first.UnitAmount)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, "paid", first.PaymentStatus)
	assert.Equal(t, []Image{
		{URL: "https://img/a.png", Alt: "Product 0", DownloadName: "Product_0"},
		{URL: "https://img/b.png", Alt: "Product 1", DownloadName: "Product_1"},
	}, first.Images)
	assert.Equal(t, &CustomerBlock{
		Name:    "Ada",
		Email:   "ada@example.com",
		Line1:   "1 Main St",
		City:    "Springfield",
		Country: "US",
	}, first.Customer)

	second := row.Details[1]
	assert.Equal(t, "$0.05", second.UnitAmount)
	assert.Empty(t, second.Images)

	selected := 0
	for _, opt := range first.StatusOptions {
		if opt.Selected {
			selected++
			assert.Equal(t, "Shipped", opt.Value)
		}
	}
	assert.Equal(t, 1, selected)
	assert.Len(t, first.StatusOptions, len(domain.DeliveryStatuses))
}

func TestRender_NoCustomerDetailsOmitsBlock(t *testing.T) {
	order := domain.Order{ID: "1", LineItems: []domain.LineItem{{Quantity: 1}}}
	state := domain.NewViewState()
	state.ToggleExpand("1")

	table := Render([]domain.Order{order}, state, Options{})

	require.Len(t, table.Rows[0].Details, 1)
	assert.Nil(t, table.Rows[0].Details[0].Customer)
	assert.Empty(t, table.Rows[0].Details[0].SelectedStatus)
}

func TestRender_RowScopedSelection(t *testing.T) {
	orders := makeOrders(2)
	state := domain.NewViewState()
	state.ToggleExpand("2")
	state.SelectPending(domain.ScopeRow, "1", domain.StatusCancelled)

	table := Render(orders, state, Options{Scope: domain.ScopeRow})

	assert.Empty(t, table.Rows[1].Details[0].SelectedStatus)
}

func TestRender_Reverse(t *testing.T) {
	state := domain.NewViewState()
	require.NoError(t, state.SetPageSize(5))

	table := Render(makeOrders(7), state, Options{Reverse: true})

	require.Len(t, table.Rows, 5)
	assert.Equal(t, "7", table.Rows[0].OrderID)
	assert.Equal(t, "3", table.Rows[4].OrderID)
}

func ids(orders []domain.Order) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}
