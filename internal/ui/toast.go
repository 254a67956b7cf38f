package ui

import "time"

type ToastKind string

const (
	ToastInfo    ToastKind = "info"
	ToastSuccess ToastKind = "success"
	ToastWarning ToastKind = "warning"
	ToastDanger  ToastKind = "danger"
)

// DefaultToastTimeout is how long a toast stays visible.
const DefaultToastTimeout = 2500 * time.Millisecond

// Toast is a transient, auto-dismissing notification.
type Toast struct {
	Message string
	Kind    ToastKind
	Timeout time.Duration
}

// Notifier shows toasts. Showing a new toast replaces the previous one.
type Notifier interface {
	Notify(t Toast)
}

type NotifierFunc func(t Toast)

func (f NotifierFunc) Notify(t Toast) { f(t) }
