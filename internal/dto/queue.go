package dto

import "time"

type JoinQueueRequest struct {
	OrderID string `json:"orderId"`
}

type QueuePositionResponse struct {
	QueueEntryID             string  `json:"queueEntryId"`
	Position                 int     `json:"position"`
	TotalWaiting             int     `json:"totalWaiting"`
	EstimatedWaitTimeMinutes int     `json:"estimatedWaitTimeMinutes"`
	Status                   string  `json:"status"`
	Notes                    *string `json:"notes,omitempty"`
}

type QueueEntryResponse struct {
	ID         string     `json:"id"`
	ShopID     string     `json:"shopId"`
	CustomerID string     `json:"customerId"`
	OrderID    string     `json:"orderId"`
	Position   int        `json:"position"`
	Status     string     `json:"status"`
	JoinedAt   time.Time  `json:"joinedAt"`
	ServedAt   *time.Time `json:"servedAt,omitempty"`
	LeftAt     *time.Time `json:"leftAt,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
}
