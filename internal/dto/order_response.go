package dto

import "time"

type OrderResponse struct {
	ID                  string                 `json:"id"`
	CustomerID          string                 `json:"customerId"`
	CustomerName        string                 `json:"customerName,omitempty"`
	ShopID              string                 `json:"shopId"`
	ShopName            string                 `json:"shopName,omitempty"`
	Status              string                 `json:"status"`
	SubtotalCents       int64                  `json:"subtotalCents"`
	TaxCents            int64                  `json:"taxCents"`
	TotalCents          int64                  `json:"totalCents"`
	SpecialInstructions *string                `json:"specialInstructions,omitempty"`
	Items               []OrderItemResponse    `json:"items"`
	CreatedAt           time.Time              `json:"createdAt"`
	UpdatedAt           *time.Time             `json:"updatedAt,omitempty"`
	EstimatedReadyTime  *time.Time             `json:"estimatedReadyTime,omitempty"`
	CompletedAt         *time.Time             `json:"completedAt,omitempty"`
	CancellationReason  *string                `json:"cancellationReason,omitempty"`
	QueuePosition       *QueuePositionResponse `json:"queuePosition,omitempty"`
}

type OrderItemResponse struct {
	ID                  string  `json:"id"`
	MenuItemID          string  `json:"menuItemId"`
	MenuItemName        string  `json:"menuItemName,omitempty"`
	Quantity            int     `json:"quantity"`
	UnitPriceCents      int64   `json:"unitPriceCents"`
	TotalPriceCents     int64   `json:"totalPriceCents"`
	SpecialInstructions *string `json:"specialInstructions,omitempty"`
}
