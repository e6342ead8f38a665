package http

import (
	"order-admin/internal/domain"
	"order-admin/internal/view"
)

type SetPageRequest struct {
	Page int `form:"page"`
}

type SetPageSizeRequest struct {
	Size int `form:"size" binding:"required"`
}

type SelectStatusRequest struct {
	Status  string `form:"status" binding:"required"`
	OrderID string `form:"orderId"`
}

type ViewResponse struct {
	View      domain.ViewState `json:"view"`
	Table     view.Table       `json:"table"`
	IsLoading bool             `json:"isLoading"`
	IsError   bool             `json:"isError"`
	Error     string           `json:"error,omitempty"`
	Toast     *domain.Toast    `json:"toast,omitempty"`
}
