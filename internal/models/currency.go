package models

// Currency is an ISO 4217 currency a trip budget can be kept in
type Currency struct {
	Base
	Code   string `gorm:"size:3;not null;uniqueIndex" json:"code"`
	Name   string `gorm:"size:100;not null" json:"name"`
	Symbol string `gorm:"size:10" json:"symbol"`
}
