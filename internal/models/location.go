package models

import "time"

// Location is a place a post can be tagged with. Like categories, an
// unpublished location hides its posts from the public listings.
type Location struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:256;not null" json:"name"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Location) TableName() string {
	return "locations"
}
