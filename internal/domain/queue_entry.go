package domain

import (
	"time"

	"github.com/google/uuid"
)

type QueueStatus string

const (
	QueueStatusWaiting     QueueStatus = "WAITING"
	QueueStatusBeingServed QueueStatus = "BEING_SERVED"
	QueueStatusServed      QueueStatus = "SERVED"
	QueueStatusLeft        QueueStatus = "LEFT"
)

// queueTransitions is the queue entry lifecycle. SERVED and LEFT are
// terminal.
var queueTransitions = map[QueueStatus][]QueueStatus{
	QueueStatusWaiting:     {QueueStatusBeingServed, QueueStatusLeft},
	QueueStatusBeingServed: {QueueStatusServed, QueueStatusLeft},
	QueueStatusServed:      {},
	QueueStatusLeft:        {},
}

func (s QueueStatus) CanTransitionTo(target QueueStatus) bool {
	for _, next := range queueTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsActive reports whether the entry still occupies a slot in the
// shop's line. A customer may hold at most one active entry per shop.
func (s QueueStatus) IsActive() bool {
	return s == QueueStatusWaiting || s == QueueStatusBeingServed
}

type QueueEntry struct {
	ID         uuid.UUID
	ShopID     uuid.UUID
	CustomerID uuid.UUID
	OrderID    uuid.UUID
	Position   int
	Status     QueueStatus
	JoinedAt   time.Time
	ServedAt   *time.Time
	LeftAt     *time.Time
	Notes      *string
}
