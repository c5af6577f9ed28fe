package models

// Category represents an expense category shared by all users
type Category struct {
	Base
	Name     string  `gorm:"size:100;not null;uniqueIndex" json:"name"`
	ParentID *string `gorm:"type:uuid" json:"parent_id,omitempty"`

	// Relationships
	Parent   *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}
