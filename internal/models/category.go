package models

import "time"

// Category is a labeled grouping posts can be published under.
// Unpublished categories hide every post filed under them from the public.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:256;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Slug        string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Category) TableName() string {
	return "categories"
}
