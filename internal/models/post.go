package models

import "time"

// Post represents a dated blog entry.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:256;not null" json:"title"`
	Text        string     `gorm:"type:text;not null" json:"text"`
	PubDate     time.Time  `gorm:"not null;index" json:"pub_date"`
	ImageURL    string     `json:"image_url,omitempty"`
	IsPublished bool       `gorm:"not null;default:true" json:"is_published"`
	AuthorID    uint       `gorm:"not null;index" json:"author_id"`
	Author      User       `gorm:"foreignKey:AuthorID" json:"author"`
	CategoryID  *uint      `gorm:"index" json:"category_id,omitempty"`
	Category    *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	LocationID  *uint      `gorm:"index" json:"location_id,omitempty"`
	Location    *Location  `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	// CommentCount is not persisted; computed at query time and counts
	// published comments only.
	CommentCount int       `gorm:"->" json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}

// PubliclyVisible reports whether the post passes the public visibility
// rule at the given instant: it is published, its publication time has
// passed, and any category or location it is filed under is published.
// Associations must be preloaded; a nil association counts as absent.
func (p *Post) PubliclyVisible(now time.Time) bool {
	if !p.IsPublished {
		return false
	}
	if p.PubDate.After(now) {
		return false
	}
	if p.Category != nil && !p.Category.IsPublished {
		return false
	}
	if p.Location != nil && !p.Location.IsPublished {
		return false
	}
	return true
}

// VisibleTo reports whether the post may be shown to the given viewer.
// Authors always see their own posts regardless of publication state.
func (p *Post) VisibleTo(viewerID uint, now time.Time) bool {
	if viewerID != 0 && viewerID == p.AuthorID {
		return true
	}
	return p.PubliclyVisible(now)
}
