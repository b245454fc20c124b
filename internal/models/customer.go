package models

import "time"

// Customer is a registered individual who may place orders.
type Customer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:200;not null" json:"name"`
	Email        string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	PhoneNumber  *string   `gorm:"size:15" json:"phone_number"`
	RegisteredAt time.Time `gorm:"autoCreateTime;<-:create;not null" json:"registered_at"`
	Orders       []Order   `gorm:"constraint:OnDelete:CASCADE" json:"orders,omitempty"`
}

func (c Customer) String() string {
	return c.Name
}
