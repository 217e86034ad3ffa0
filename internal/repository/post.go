// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"chronicle/internal/models"

	"gorm.io/gorm"
)

// commentCountSelect annotates each post row with the number of its
// published comments. Hidden comments never contribute to the count.
const commentCountSelect = "posts.*, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.is_published = ?) AS comment_count"

// PostQuery is the listing specification the handlers compose: an
// optional author/category restriction, the requested page, and whether
// the public visibility rule is bypassed (viewer browsing their own
// posts). Now anchors the pub_date cutoff for the whole query.
type PostQuery struct {
	Page               int
	AuthorID           uint
	CategoryID         uint
	IncludeUnpublished bool
	Now                time.Time
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetPublicByID(ctx context.Context, id uint, now time.Time) (*models.Post, error)
	List(ctx context.Context, q PostQuery) (*models.Page[*models.Post], error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// PublicScope narrows a posts query to rows visible to the general
// public: published, publication time reached, and not filed under an
// unpublished category or location.
func PublicScope(now time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Where("posts.is_published = ?", true).
			Where("posts.pub_date <= ?", now).
			Where("posts.category_id IS NULL OR EXISTS (SELECT 1 FROM categories WHERE categories.id = posts.category_id AND categories.is_published = ?)", true).
			Where("posts.location_id IS NULL OR EXISTS (SELECT 1 FROM locations WHERE locations.id = posts.location_id AND locations.is_published = ?)", true)
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Select(commentCountSelect, true).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetPublicByID(ctx context.Context, id uint, now time.Time) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Select(commentCountSelect, true).
		Scopes(PublicScope(now)).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return &post, nil
}

// List runs the listing specification and returns one clamped page
// ordered by pub_date descending with id descending as the tie-break.
func (r *postRepository) List(ctx context.Context, q PostQuery) (*models.Page[*models.Post], error) {
	base := r.db.WithContext(ctx).Model(&models.Post{})
	if q.AuthorID != 0 {
		base = base.Where("posts.author_id = ?", q.AuthorID)
	}
	if q.CategoryID != 0 {
		base = base.Where("posts.category_id = ?", q.CategoryID)
	}
	if !q.IncludeUnpublished {
		base = base.Scopes(PublicScope(q.Now))
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	page, totalPages := models.ClampPage(q.Page, total, models.PageSize)

	var posts []*models.Post
	err := base.Session(&gorm.Session{}).
		Select(commentCountSelect, true).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Order("posts.pub_date DESC, posts.id DESC").
		Limit(models.PageSize).
		Offset((page - 1) * models.PageSize).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return &models.Page[*models.Post]{
		Items:      posts,
		Number:     page,
		TotalPages: totalPages,
		TotalItems: total,
	}, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// Delete removes the post and its comments in one transaction. The post
// exclusively owns its comments, so the cascade is explicit here rather
// than delegated to foreign-key configuration.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
}
