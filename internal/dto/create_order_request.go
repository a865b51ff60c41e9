package dto

type CreateOrderRequest struct {
	ShopID              string             `json:"shopId"`
	Items               []OrderItemRequest `json:"items"`
	SpecialInstructions *string            `json:"specialInstructions,omitempty"`
}

type OrderItemRequest struct {
	MenuItemID          string  `json:"menuItemId"`
	Quantity            int     `json:"quantity"`
	SpecialInstructions *string `json:"specialInstructions,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
