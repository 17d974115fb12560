package queue

import (
	"encoding/json"

	"github.com/mazraa-market/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderTimeoutCancel cancels an order still unpaid at expiry.
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
	// TaskOrderStatusNotify records a status change on the tracking timeline.
	TaskOrderStatusNotify = constants.TaskOrderStatusNotify
	// TaskCartReconcile sweeps persisted carts against the catalog.
	TaskCartReconcile = constants.TaskCartReconcile
)

// OrderTimeoutCancelPayload identifies the order to expire.
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// OrderStatusNotifyPayload describes a status transition.
type OrderStatusNotifyPayload struct {
	OrderID   uint   `json:"order_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// CartReconcilePayload targets one cart, or all carts when Owner is empty.
type CartReconcilePayload struct {
	Owner string `json:"owner,omitempty"`
}

// NewOrderTimeoutCancelTask builds the timeout-cancel task.
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, body), nil
}

// NewOrderStatusNotifyTask builds the status-notify task.
func NewOrderStatusNotifyTask(payload OrderStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderStatusNotify, body), nil
}

// NewCartReconcileTask builds the cart-reconcile task.
func NewCartReconcileTask(payload CartReconcilePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCartReconcile, body), nil
}
