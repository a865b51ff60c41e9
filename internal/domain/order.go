package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// orderTransitions is the forward-only order lifecycle. COMPLETED and
// CANCELLED are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

type Order struct {
	ID                  uuid.UUID
	CustomerID          uuid.UUID
	ShopID              uuid.UUID
	Items               []OrderItem
	Status              OrderStatus
	SubtotalCents       int64
	TaxCents            int64
	TotalCents          int64
	SpecialInstructions *string
	CreatedAt           time.Time
	UpdatedAt           *time.Time
	EstimatedReadyTime  *time.Time
	CompletedAt         *time.Time
	CancellationReason  *string
}

type OrderItem struct {
	ID                  uuid.UUID
	OrderID             uuid.UUID
	MenuItemID          uuid.UUID
	Quantity            int
	UnitPriceCents      int64
	TotalPriceCents     int64
	SpecialInstructions *string
}
