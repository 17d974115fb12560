package service

import "github.com/mazraa-market/internal/constants"

// orderStatusTransitions lists the allowed next statuses per status.
// completed and cancelled are terminal.
var orderStatusTransitions = map[string][]string{
	constants.OrderStatusPending:   {constants.OrderStatusConfirmed, constants.OrderStatusCancelled},
	constants.OrderStatusConfirmed: {constants.OrderStatusPreparing, constants.OrderStatusCancelled},
	constants.OrderStatusPreparing: {constants.OrderStatusReady, constants.OrderStatusCancelled},
	constants.OrderStatusReady:     {constants.OrderStatusShipped, constants.OrderStatusCompleted},
	constants.OrderStatusShipped:   {constants.OrderStatusDelivered},
	constants.OrderStatusDelivered: {constants.OrderStatusCompleted},
}

func canTransitionOrderStatus(from, to string) bool {
	for _, next := range orderStatusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// statusProgress orders the statuses along the fulfillment path. Used to pick
// the least advanced child when deriving a parent status.
var statusProgress = map[string]int{
	constants.OrderStatusPending:   0,
	constants.OrderStatusConfirmed: 1,
	constants.OrderStatusPreparing: 2,
	constants.OrderStatusReady:     3,
	constants.OrderStatusShipped:   4,
	constants.OrderStatusDelivered: 5,
	constants.OrderStatusCompleted: 6,
}

// calcParentStatus derives a parent order's status from its children: all
// cancelled means cancelled, otherwise the least advanced non-cancelled child
// sets the pace.
func calcParentStatus(childStatuses []string) string {
	if len(childStatuses) == 0 {
		return constants.OrderStatusPending
	}
	slowest := ""
	allCancelled := true
	for _, status := range childStatuses {
		if status == constants.OrderStatusCancelled {
			continue
		}
		allCancelled = false
		if slowest == "" || statusProgress[status] < statusProgress[slowest] {
			slowest = status
		}
	}
	if allCancelled {
		return constants.OrderStatusCancelled
	}
	return slowest
}
