package shop

import "brewline/internal/domain"

type ShopDTO struct {
	ID                 string                    `json:"id"`
	Name               string                    `json:"name"`
	Description        string                    `json:"description"`
	Latitude           float64                   `json:"latitude"`
	Longitude          float64                   `json:"longitude"`
	Address            string                    `json:"address"`
	ContactDetails     domain.ContactDetails     `json:"contactDetails"`
	QueueConfiguration domain.QueueConfiguration `json:"queueConfiguration"`
	IsActive           bool                      `json:"isActive"`
}

type MenuItemDTO struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name"`
	Description            string  `json:"description"`
	PriceCents             int64   `json:"priceCents"`
	Category               string  `json:"category"`
	ImageURL               *string `json:"imageUrl,omitempty"`
	IsAvailable            bool    `json:"isAvailable"`
	PreparationTimeMinutes int     `json:"preparationTimeMinutes"`
	Calories               int     `json:"calories"`
	Allergens              *string `json:"allergens,omitempty"`
	SortOrder              int     `json:"sortOrder"`
}

func toShopDTO(s domain.Shop) ShopDTO {
	return ShopDTO{
		ID:                 s.ID.String(),
		Name:               s.Name,
		Description:        s.Description,
		Latitude:           s.Latitude,
		Longitude:          s.Longitude,
		Address:            s.Address,
		ContactDetails:     s.ContactDetails,
		QueueConfiguration: s.QueueConfiguration,
		IsActive:           s.IsActive,
	}
}

func toMenuItemDTO(m domain.MenuItem) MenuItemDTO {
	return MenuItemDTO{
		ID:                     m.ID.String(),
		Name:                   m.Name,
		Description:            m.Description,
		PriceCents:             m.PriceCents,
		Category:               m.Category,
		ImageURL:               m.ImageURL,
		IsAvailable:            m.IsAvailable,
		PreparationTimeMinutes: m.PreparationTimeMinutes,
		Calories:               m.Calories,
		Allergens:              m.Allergens,
		SortOrder:              m.SortOrder,
	}
}
