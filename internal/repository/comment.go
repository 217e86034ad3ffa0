package repository

import (
	"context"
	"errors"

	"chronicle/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	// GetOwned fetches a comment only when it belongs to the given post
	// and author; any other combination reports not-found so the comment's
	// existence stays hidden from non-owners.
	GetOwned(ctx context.Context, postID, commentID, authorID uint) (*models.Comment, error)
	ListVisibleByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetOwned(ctx context.Context, postID, commentID, authorID uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ? AND author_id = ?", postID, authorID).
		First(&comment, commentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", commentID)
		}
		return nil, err
	}
	return &comment, nil
}

// ListVisibleByPost returns the published comments of a post ordered
// oldest first, with id as the tie-break for identical timestamps.
func (r *commentRepository) ListVisibleByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ? AND is_published = ?", postID, true).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}
