package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleCustomer  UserRole = "CUSTOMER"
	RoleShopOwner UserRole = "SHOP_OWNER"
	RoleAdmin     UserRole = "ADMIN"
)

type User struct {
	ID           uuid.UUID
	MobileNumber string
	PasswordHash string
	Name         string
	Email        *string
	Role         UserRole
	Addresses    AddressList
	LoyaltyScore int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Address struct {
	Street    string  `json:"street"`
	City      string  `json:"city"`
	State     string  `json:"state"`
	ZipCode   string  `json:"zipCode"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsDefault bool    `json:"isDefault"`
}

// AddressList is stored as a JSON column.
type AddressList []Address

func (a AddressList) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *AddressList) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	data, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("scanning addresses: unexpected type %T", src)
	}
	return json.Unmarshal(data, a)
}
