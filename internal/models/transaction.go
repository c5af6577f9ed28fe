package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single expense recorded against a trip.
// Amount is always in the trip's currency; OriginalAmount and
// OriginalCurrency keep what was actually paid when it differed.
type Transaction struct {
	Base
	TripID           string              `gorm:"type:uuid;not null;index" json:"trip_id"`
	CategoryID       string              `gorm:"type:uuid;not null;index" json:"category_id"`
	Amount           decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"amount"`
	OriginalAmount   decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"original_amount"`
	OriginalCurrency *string             `gorm:"size:3" json:"original_currency,omitempty"`
	TransactionDate  time.Time           `gorm:"not null;index" json:"transaction_date"`
	Description      *string             `gorm:"size:255" json:"description,omitempty"`
	Location         *string             `gorm:"size:255" json:"location,omitempty"`

	// Relationships
	Trip     *Trip     `gorm:"foreignKey:TripID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
