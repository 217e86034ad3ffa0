package models

import "time"

// Comment is a reader's reply attached to a post.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	PostID      uint      `gorm:"not null;index" json:"post_id"`
	AuthorID    uint      `gorm:"not null;index" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Comment) TableName() string {
	return "comments"
}

// Visible reports whether the comment is shown under its post's detail
// view. Unlike posts there is no author bypass on read listings; authors
// reach their hidden comments only through the edit routes.
func (c *Comment) Visible() bool {
	return c.IsPublished
}
