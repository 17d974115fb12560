package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mazraa-market/internal/cart"
	"github.com/mazraa-market/internal/config"
	"github.com/mazraa-market/internal/constants"
	"github.com/mazraa-market/internal/logger"
	"github.com/mazraa-market/internal/models"
	"github.com/mazraa-market/internal/queue"
	"github.com/mazraa-market/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutInput carries the delivery details for a checkout.
type CheckoutInput struct {
	DeliveryName    string
	DeliveryPhone   string
	DeliveryAddress string
	DeliveryCity    string
	DeliveryRegion  string
	DeliveryNotes   string
}

// OrderService handles checkout and the order lifecycle.
type OrderService struct {
	cfg         *config.Config
	orderRepo   repository.OrderRepository
	historyRepo repository.OrderStatusHistoryRepository
	productRepo repository.ProductRepository
	farmRepo    repository.FarmRepository
	cartService *CartService
	queueClient *queue.Client
}

// NewOrderService creates the order service.
func NewOrderService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	historyRepo repository.OrderStatusHistoryRepository,
	productRepo repository.ProductRepository,
	farmRepo repository.FarmRepository,
	cartService *CartService,
	queueClient *queue.Client,
) *OrderService {
	return &OrderService{
		cfg:         cfg,
		orderRepo:   orderRepo,
		historyRepo: historyRepo,
		productRepo: productRepo,
		farmRepo:    farmRepo,
		cartService: cartService,
		queueClient: queueClient,
	}
}

type resolvedLine struct {
	product *models.Product
	line    cart.Line
}

// Checkout turns the user's cart into orders. An empty cart and an
// over-quantity cart are rejected before any product lookup. A multi-farm
// cart produces one parent order plus one child order per farm; the flat
// delivery fee is charged once, on the root order.
func (s *OrderService) Checkout(ctx context.Context, userID uint, in CheckoutInput) (*models.Order, error) {
	store := s.cartService.Store(ctx, userID)
	lines := store.Lines()
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}
	if store.CheckoutBlocked() {
		return nil, ErrCartQuantityCap
	}
	if strings.TrimSpace(in.DeliveryName) == "" ||
		strings.TrimSpace(in.DeliveryPhone) == "" ||
		strings.TrimSpace(in.DeliveryAddress) == "" {
		return nil, ErrDeliveryInfoMissing
	}

	resolved, err := s.resolveLines(lines)
	if err != nil {
		return nil, err
	}

	byFarm := map[uint][]resolvedLine{}
	for _, rl := range resolved {
		byFarm[rl.product.FarmID] = append(byFarm[rl.product.FarmID], rl)
	}
	farmIDs := make([]uint, 0, len(byFarm))
	for farmID := range byFarm {
		farmIDs = append(farmIDs, farmID)
	}
	sort.Slice(farmIDs, func(i, j int) bool { return farmIDs[i] < farmIDs[j] })

	now := time.Now()
	shippingFee := models.NewMoneyFromDecimal(decimal.NewFromInt(int64(s.shippingFee())))
	var expiresAt *time.Time
	if minutes := s.cfg.Order.PaymentExpireMinutes; minutes > 0 {
		t := now.Add(time.Duration(minutes) * time.Minute)
		expiresAt = &t
	}

	var root *models.Order
	err = s.orderRepo.Transaction(func(tx *gorm.DB) error {
		orderTx := s.orderRepo.WithTx(tx)
		historyTx := s.historyRepo.WithTx(tx)

		if len(farmIDs) == 1 {
			farmID := farmIDs[0]
			order, items := buildFarmOrder(userID, farmID, byFarm[farmID], in)
			order.ShippingFee = shippingFee
			order.TotalAmount = models.NewMoneyFromDecimal(order.SubtotalAmount.Add(shippingFee.Decimal))
			order.ExpiresAt = expiresAt
			if err := orderTx.Create(order, items); err != nil {
				return err
			}
			root = order
			return historyTx.Create(&models.OrderStatusHistory{
				OrderID:     order.ID,
				NewStatus:   constants.OrderStatusPending,
				ChangedByID: &userID,
			})
		}

		subtotal := decimal.Zero
		for _, rls := range byFarm {
			for _, rl := range rls {
				subtotal = subtotal.Add(rl.line.Price.Mul(decimal.NewFromInt(int64(rl.line.Quantity))))
			}
		}
		parent := &models.Order{
			OrderNo:         newOrderNo(),
			ConsumerID:      userID,
			Status:          constants.OrderStatusPending,
			Currency:        constants.SiteCurrencyDefault,
			SubtotalAmount:  models.NewMoneyFromDecimal(subtotal),
			ShippingFee:     shippingFee,
			TotalAmount:     models.NewMoneyFromDecimal(subtotal.Add(shippingFee.Decimal)),
			DeliveryName:    strings.TrimSpace(in.DeliveryName),
			DeliveryPhone:   strings.TrimSpace(in.DeliveryPhone),
			DeliveryAddress: strings.TrimSpace(in.DeliveryAddress),
			DeliveryCity:    strings.TrimSpace(in.DeliveryCity),
			DeliveryRegion:  strings.TrimSpace(in.DeliveryRegion),
			DeliveryNotes:   strings.TrimSpace(in.DeliveryNotes),
			ExpiresAt:       expiresAt,
		}
		if err := orderTx.Create(parent, nil); err != nil {
			return err
		}
		if err := historyTx.Create(&models.OrderStatusHistory{
			OrderID:     parent.ID,
			NewStatus:   constants.OrderStatusPending,
			ChangedByID: &userID,
		}); err != nil {
			return err
		}

		for _, farmID := range farmIDs {
			child, items := buildFarmOrder(userID, farmID, byFarm[farmID], in)
			child.ParentID = &parent.ID
			child.TotalAmount = child.SubtotalAmount
			child.ExpiresAt = expiresAt
			if err := orderTx.Create(child, items); err != nil {
				return err
			}
		}
		root = parent
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cartService.Clear(ctx, userID); err != nil {
		logger.SW("order_no", root.OrderNo).Warnw("cart_clear_after_checkout_failed", "error", err)
	}
	if expiresAt != nil {
		delay := time.Until(*expiresAt)
		if err := s.queueClient.EnqueueOrderTimeoutCancel(queue.OrderTimeoutCancelPayload{OrderID: root.ID}, delay); err != nil {
			logger.SW("order_no", root.OrderNo).Warnw("timeout_cancel_enqueue_failed", "error", err)
		}
	}

	return s.orderRepo.GetByID(root.ID)
}

func (s *OrderService) resolveLines(lines []cart.Line) ([]resolvedLine, error) {
	resolved := make([]resolvedLine, 0, len(lines))
	for _, line := range lines {
		var product *models.Product
		var err error
		if line.ProductID != nil && *line.ProductID > 0 {
			product, err = s.productRepo.GetByID(*line.ProductID)
		} else {
			product, err = s.productRepo.GetByName(line.ProductName)
		}
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductName)
		}
		if !product.IsAvailable {
			return nil, fmt.Errorf("%w: %s", ErrProductNotAvailable, product.Name)
		}
		resolved = append(resolved, resolvedLine{product: product, line: line})
	}
	return resolved, nil
}

func buildFarmOrder(userID, farmID uint, rls []resolvedLine, in CheckoutInput) (*models.Order, []models.OrderItem) {
	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(rls))
	for _, rl := range rls {
		lineTotal := rl.line.Price.Mul(decimal.NewFromInt(int64(rl.line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		item := models.OrderItem{
			ProductID:   rl.product.ID,
			ProductName: rl.product.Name,
			FarmName:    rl.line.FarmName,
			Unit:        rl.product.Unit,
			UnitPrice:   models.NewMoneyFromDecimal(rl.line.Price),
			Quantity:    rl.line.Quantity,
			TotalPrice:  models.NewMoneyFromDecimal(lineTotal),
		}
		if rl.product.Farm != nil {
			item.FarmName = rl.product.Farm.Name
		}
		items = append(items, item)
	}

	fid := farmID
	order := &models.Order{
		OrderNo:         newOrderNo(),
		ConsumerID:      userID,
		FarmID:          &fid,
		Status:          constants.OrderStatusPending,
		Currency:        constants.SiteCurrencyDefault,
		SubtotalAmount:  models.NewMoneyFromDecimal(subtotal),
		TotalAmount:     models.NewMoneyFromDecimal(subtotal),
		DeliveryName:    strings.TrimSpace(in.DeliveryName),
		DeliveryPhone:   strings.TrimSpace(in.DeliveryPhone),
		DeliveryAddress: strings.TrimSpace(in.DeliveryAddress),
		DeliveryCity:    strings.TrimSpace(in.DeliveryCity),
		DeliveryRegion:  strings.TrimSpace(in.DeliveryRegion),
		DeliveryNotes:   strings.TrimSpace(in.DeliveryNotes),
	}
	return order, items
}

// ListForConsumer returns the consumer's root orders, newest first.
func (s *OrderService) ListForConsumer(userID uint, page, pageSize int) ([]models.Order, int64, error) {
	return s.orderRepo.List(repository.OrderListFilter{
		Page:       page,
		PageSize:   pageSize,
		ConsumerID: userID,
		RootOnly:   true,
	})
}

// ListForFarmer returns the child orders addressed to the farmer's farms.
func (s *OrderService) ListForFarmer(ownerID uint, status string, page, pageSize int) ([]models.Order, int64, error) {
	farms, err := s.farmRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, 0, err
	}
	if len(farms) == 0 {
		return []models.Order{}, 0, nil
	}
	farmIDs := make([]uint, 0, len(farms))
	for _, farm := range farms {
		farmIDs = append(farmIDs, farm.ID)
	}
	return s.orderRepo.List(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		FarmIDs:  farmIDs,
		Status:   status,
	})
}

// GetForConsumer returns one of the consumer's orders.
func (s *OrderService) GetForConsumer(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndConsumer(orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// GetForFarmer returns one child order addressed to the farmer's farm.
func (s *OrderService) GetForFarmer(ownerID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.FarmID == nil {
		return nil, ErrOrderNotFound
	}
	farm, err := s.farmRepo.GetByID(*order.FarmID)
	if err != nil {
		return nil, err
	}
	if farm == nil || farm.OwnerID != ownerID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Timeline returns the status history of an order, newest first.
func (s *OrderService) Timeline(orderID uint) ([]models.OrderStatusHistory, error) {
	return s.historyRepo.ListByOrder(orderID)
}

// UpdateStatusForFarmer advances a child order along the fulfillment path.
func (s *OrderService) UpdateStatusForFarmer(ownerID, orderID uint, newStatus, notes string) (*models.Order, error) {
	order, err := s.GetForFarmer(ownerID, orderID)
	if err != nil {
		return nil, err
	}
	return s.transition(order, newStatus, &ownerID, notes)
}

// UpdateStatusForAdmin advances any order.
func (s *OrderService) UpdateStatusForAdmin(adminID, orderID uint, newStatus, notes string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return s.transition(order, newStatus, &adminID, notes)
}

// Cancel lets the consumer withdraw an order that has not started fulfillment.
// Cancelling a parent cancels every still-pending child.
func (s *OrderService) Cancel(userID, orderID uint) (*models.Order, error) {
	order, err := s.GetForConsumer(userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != constants.OrderStatusPending && order.Status != constants.OrderStatusConfirmed {
		return nil, ErrOrderCancelNotAllowed
	}
	if err := s.cancelTree(order, &userID, "cancelled by consumer"); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(order.ID)
}

// HandleTimeoutCancel expires an order that is still unpaid. Invoked by the
// queue worker; an already advanced order is left alone.
func (s *OrderService) HandleTimeoutCancel(orderID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil || order.Status != constants.OrderStatusPending {
		return nil
	}
	if order.PaidAt != nil {
		return nil
	}
	return s.cancelTree(order, nil, "payment window expired")
}

// MarkPaid flips the order tree to confirmed after a successful payment.
func (s *OrderService) MarkPaid(orderID uint, paidAt time.Time) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPending {
		return ErrOrderStatusInvalid
	}

	apply := func(o *models.Order) error {
		if err := s.orderRepo.UpdateStatus(o.ID, constants.OrderStatusConfirmed, map[string]interface{}{
			"paid_at": paidAt,
		}); err != nil {
			return err
		}
		return s.recordTransition(o.ID, o.Status, constants.OrderStatusConfirmed, nil, "payment received")
	}
	if err := apply(order); err != nil {
		return err
	}
	children, err := s.orderRepo.ListChildren(order.ID)
	if err != nil {
		return err
	}
	for i := range children {
		if children[i].Status != constants.OrderStatusPending {
			continue
		}
		if err := apply(&children[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) transition(order *models.Order, newStatus string, changedBy *uint, notes string) (*models.Order, error) {
	if !canTransitionOrderStatus(order.Status, newStatus) {
		return nil, ErrOrderStatusInvalid
	}
	updates := map[string]interface{}{}
	if newStatus == constants.OrderStatusCancelled {
		updates["canceled_at"] = time.Now()
	}
	if err := s.orderRepo.UpdateStatus(order.ID, newStatus, updates); err != nil {
		return nil, err
	}
	if err := s.recordTransition(order.ID, order.Status, newStatus, changedBy, notes); err != nil {
		return nil, err
	}
	if order.ParentID != nil {
		if err := s.syncParentStatus(*order.ParentID, changedBy); err != nil {
			logger.SW("order_id", order.ID).Warnw("parent_status_sync_failed", "error", err)
		}
	}
	return s.orderRepo.GetByID(order.ID)
}

func (s *OrderService) recordTransition(orderID uint, oldStatus, newStatus string, changedBy *uint, notes string) error {
	if err := s.historyRepo.Create(&models.OrderStatusHistory{
		OrderID:     orderID,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		ChangedByID: changedBy,
		Notes:       notes,
	}); err != nil {
		return err
	}
	if err := s.queueClient.EnqueueOrderStatusNotify(queue.OrderStatusNotifyPayload{
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}); err != nil {
		logger.SW("order_id", orderID).Warnw("status_notify_enqueue_failed", "error", err)
	}
	return nil
}

// syncParentStatus recomputes a parent's status from its children.
func (s *OrderService) syncParentStatus(parentID uint, changedBy *uint) error {
	parent, err := s.orderRepo.GetByID(parentID)
	if err != nil || parent == nil {
		return err
	}
	children, err := s.orderRepo.ListChildren(parentID)
	if err != nil {
		return err
	}
	statuses := make([]string, 0, len(children))
	for _, child := range children {
		statuses = append(statuses, child.Status)
	}
	derived := calcParentStatus(statuses)
	if derived == parent.Status {
		return nil
	}
	updates := map[string]interface{}{}
	if derived == constants.OrderStatusCancelled {
		updates["canceled_at"] = time.Now()
	}
	if err := s.orderRepo.UpdateStatus(parent.ID, derived, updates); err != nil {
		return err
	}
	return s.recordTransition(parent.ID, parent.Status, derived, changedBy, "")
}

func (s *OrderService) cancelTree(order *models.Order, changedBy *uint, notes string) error {
	now := time.Now()
	cancel := func(o *models.Order) error {
		if o.Status == constants.OrderStatusCancelled {
			return nil
		}
		if err := s.orderRepo.UpdateStatus(o.ID, constants.OrderStatusCancelled, map[string]interface{}{
			"canceled_at": now,
		}); err != nil {
			return err
		}
		return s.recordTransition(o.ID, o.Status, constants.OrderStatusCancelled, changedBy, notes)
	}
	if err := cancel(order); err != nil {
		return err
	}
	children, err := s.orderRepo.ListChildren(order.ID)
	if err != nil {
		return err
	}
	for i := range children {
		if err := cancel(&children[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) shippingFee() int {
	if s.cfg != nil && s.cfg.Cart.ShippingFee > 0 {
		return s.cfg.Cart.ShippingFee
	}
	return constants.CartShippingFeeSAR
}

func newOrderNo() string {
	stamp := time.Now().Format("20060102150405")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("MZ%s%s", stamp, strings.ToUpper(suffix))
}
