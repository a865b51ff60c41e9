package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Shop struct {
	ID                 uuid.UUID
	Name               string
	Description        string
	OwnerID            uuid.UUID
	Latitude           float64
	Longitude          float64
	Address            string
	ContactDetails     ContactDetails
	QueueConfiguration QueueConfiguration
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ContactDetails is stored as a JSON column.
type ContactDetails struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Website string `json:"website"`
}

func (c ContactDetails) Value() (driver.Value, error) {
	return json.Marshal(c)
}

func (c *ContactDetails) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("scanning contact details: unexpected type %T", src)
	}
	return json.Unmarshal(data, c)
}

// QueueConfiguration is stored as a JSON column.
type QueueConfiguration struct {
	MaxQueueSize              int  `json:"maxQueueSize"`
	AverageServiceTimeMinutes int  `json:"averageServiceTimeMinutes"`
	AllowOnlineOrders         bool `json:"allowOnlineOrders"`
	AllowWalkInOrders         bool `json:"allowWalkInOrders"`
}

func (q QueueConfiguration) Value() (driver.Value, error) {
	return json.Marshal(q)
}

func (q *QueueConfiguration) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("scanning queue configuration: unexpected type %T", src)
	}
	return json.Unmarshal(data, q)
}
