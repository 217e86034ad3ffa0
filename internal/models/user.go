// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered author account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Email     string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// FullName returns the display name used on profile pages.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Username
	case u.LastName == "":
		return u.FirstName
	case u.FirstName == "":
		return u.LastName
	default:
		return u.FirstName + " " + u.LastName
	}
}
