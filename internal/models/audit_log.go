package models

// AuditLog records user operations on trips, transactions and the classifier.
type AuditLog struct {
	Base
	UserID       string `gorm:"size:64;index" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}
