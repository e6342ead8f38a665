package domain

import (
	"errors"
	"fmt"
)

const DefaultPageSize = 10

// PageSizes are the rows-per-page choices offered by the pager.
var PageSizes = []int{5, 10, 25, 100}

var ErrInvalidPageSize = errors.New("invalid page size")

type SelectionScope string

const (
	// ScopeShared keeps one pending status for every row's selector.
	ScopeShared SelectionScope = "shared"
	// ScopeRow keeps a pending status per order.
	ScopeRow SelectionScope = "row"
)

// ViewState is the per-session state of the orders view. It lives only as
// long as the view session does.
type ViewState struct {
	Page            int            `json:"page"`
	PageSize        int            `json:"pageSize"`
	ExpandedOrderID string         `json:"expandedOrderId,omitempty"`
	PendingStatus   DeliveryStatus `json:"pendingStatus,omitempty"`

	PendingByOrder map[string]DeliveryStatus `json:"pendingByOrder,omitempty"`
}

func NewViewState() ViewState {
	return ViewState{PageSize: DefaultPageSize}
}

// SetPage does not clamp: an out-of-range page renders as an empty slice.
func (v *ViewState) SetPage(n int) {
	v.Page = n
}

func (v *ViewState) SetPageSize(n int) error {
	if !validPageSize(n) {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, n)
	}
	v.PageSize = n
	v.Page = 0
	return nil
}

func (v *ViewState) ToggleExpand(orderID string) {
	if v.ExpandedOrderID == orderID {
		v.ExpandedOrderID = ""
		return
	}
	v.ExpandedOrderID = orderID
}

func (v ViewState) IsExpanded(orderID string) bool {
	return orderID != "" && v.ExpandedOrderID == orderID
}

// SetPendingStatus overwrites the shared selection slot.
func (v *ViewState) SetPendingStatus(status DeliveryStatus) {
	v.PendingStatus = status
}

func (v *ViewState) SetPendingStatusFor(orderID string, status DeliveryStatus) {
	if v.PendingByOrder == nil {
		v.PendingByOrder = make(map[string]DeliveryStatus)
	}
	v.PendingByOrder[orderID] = status
}

// SelectPending records a selector change under the given scope.
func (v *ViewState) SelectPending(scope SelectionScope, orderID string, status DeliveryStatus) {
	if scope == ScopeRow {
		v.SetPendingStatusFor(orderID, status)
		return
	}
	v.SetPendingStatus(status)
}

// PendingFor returns the selection a row's update button would submit.
func (v ViewState) PendingFor(scope SelectionScope, orderID string) DeliveryStatus {
	if scope == ScopeRow {
		return v.PendingByOrder[orderID]
	}
	return v.PendingStatus
}

func validPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}
