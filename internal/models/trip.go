package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TripStatus represents the lifecycle state of a trip
type TripStatus string

const (
	TripStatusPlanned   TripStatus = "planned"
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
	TripStatusCancelled TripStatus = "cancelled"
)

// IsValid reports whether s is one of the known statuses.
func (s TripStatus) IsValid() bool {
	switch s {
	case TripStatusPlanned, TripStatusActive, TripStatusCompleted, TripStatusCancelled:
		return true
	}
	return false
}

// IsClosed reports whether the trip was finished or called off by the user.
func (s TripStatus) IsClosed() bool {
	return s == TripStatusCompleted || s == TripStatusCancelled
}

// Trip represents a budgeted trip owned by a user
type Trip struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	StartDate   time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate     time.Time       `gorm:"type:date;not null" json:"end_date"`
	Budget      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"budget"`
	CurrencyID  string          `gorm:"type:uuid;not null" json:"currency_id"`
	Status      TripStatus      `gorm:"size:20;not null;default:planned;index" json:"status"`

	// Relationships
	Currency     Currency      `gorm:"foreignKey:CurrencyID" json:"currency"`
	Transactions []Transaction `gorm:"foreignKey:TripID" json:"transactions,omitempty"`
}
