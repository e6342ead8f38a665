package domain

import "time"

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a transient notification shown once on the next render.
type Toast struct {
	Kind    ToastKind `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Operator is the signed-in admin. Authentication is handled elsewhere;
// the console only carries the value through to the views.
type Operator struct {
	Username   string
	IsLoggedIn bool
}
