package service

import (
	"context"

	"chronicle/internal/forms"
	"chronicle/internal/models"
	"chronicle/internal/observability"
	"chronicle/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// ListForPost returns the published comments of a post, oldest first.
func (s *CommentService) ListForPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.commentRepo.ListVisibleByPost(ctx, postID)
}

// Add commits validated form values as a new comment by viewerID on the
// given post. The post must exist; its visibility was already checked by
// the detail view the form was rendered on.
func (s *CommentService) Add(ctx context.Context, viewerID, postID uint, values *forms.CommentValues) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		AuthorID:    viewerID,
		PostID:      postID,
		IsPublished: true,
	}
	values.Apply(comment)

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentsCreated.Inc()
	return comment, nil
}

// ForEdit fetches the viewer's comment on the given post for its edit or
// delete-confirmation form. Anybody else's comment, or a comment on a
// different post, is reported as not-found.
func (s *CommentService) ForEdit(ctx context.Context, viewerID, postID, commentID uint) (*models.Comment, error) {
	return s.commentRepo.GetOwned(ctx, postID, commentID, viewerID)
}

// Edit commits validated form values onto the viewer's comment.
func (s *CommentService) Edit(ctx context.Context, viewerID, postID, commentID uint, values *forms.CommentValues) (*models.Comment, error) {
	comment, err := s.commentRepo.GetOwned(ctx, postID, commentID, viewerID)
	if err != nil {
		return nil, err
	}
	values.Apply(comment)
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes the viewer's comment. A second confirmation for an
// already-deleted comment reports not-found.
func (s *CommentService) Delete(ctx context.Context, viewerID, postID, commentID uint) error {
	comment, err := s.commentRepo.GetOwned(ctx, postID, commentID, viewerID)
	if err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, comment.ID)
}
