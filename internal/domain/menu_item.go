package domain

import (
	"time"

	"github.com/google/uuid"
)

type MenuItem struct {
	ID                     uuid.UUID
	ShopID                 uuid.UUID
	Name                   string
	Description            string
	PriceCents             int64
	Category               string
	ImageURL               *string
	IsAvailable            bool
	PreparationTimeMinutes int
	Calories               int
	Allergens              *string
	SortOrder              int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
