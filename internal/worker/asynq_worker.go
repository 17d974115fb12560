package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mazraa-market/internal/logger"
	"github.com/mazraa-market/internal/provider"
	"github.com/mazraa-market/internal/queue"
	"github.com/mazraa-market/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer handles the queued tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{Container: c}
}

// Register wires the task handlers.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderTimeoutCancel, c.handleOrderTimeoutCancel)
	mux.HandleFunc(queue.TaskOrderStatusNotify, c.handleOrderStatusNotify)
	mux.HandleFunc(queue.TaskCartReconcile, c.handleCartReconcile)
}

func (c *Consumer) handleOrderTimeoutCancel(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderTimeoutCancelPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_timeout_cancel_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}
	if err := c.OrderService.HandleTimeoutCancel(payload.OrderID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_timeout_cancel_skip_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_timeout_cancel_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}

// handleOrderStatusNotify is the fan-out point for status changes. The
// tracking timeline row is written synchronously by the order service; this
// handler records the change for the delivery channels.
func (c *Consumer) handleOrderStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.OrderStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		return nil
	}
	order, err := c.OrderRepo.GetByID(payload.OrderID)
	if err != nil {
		logger.Warnw("worker_order_status_notify_fetch_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if order == nil {
		return nil
	}
	logger.Infow("order_status_changed",
		"order_no", order.OrderNo,
		"old_status", payload.OldStatus,
		"new_status", payload.NewStatus,
		"consumer_id", order.ConsumerID,
	)
	return nil
}

func (c *Consumer) handleCartReconcile(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		return nil
	}
	var payload queue.CartReconcilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_cart_reconcile_unmarshal_failed", "error", err)
		return err
	}
	if payload.Owner == "" {
		return c.CartService.ReconcileAll(ctx)
	}
	snapshot, err := c.CatalogSource.Snapshot(ctx)
	if err != nil {
		logger.Warnw("worker_cart_reconcile_snapshot_failed", "owner", payload.Owner, "error", err)
		return err
	}
	store := c.CartService.Manager().Get(ctx, payload.Owner)
	if err := store.Reconcile(ctx, snapshot); err != nil {
		logger.Warnw("worker_cart_reconcile_failed", "owner", payload.Owner, "error", err)
		return err
	}
	return nil
}
