// Package service implements the application's use cases on top of the
// repository layer: listing feeds, ownership checks, and the commit half
// of the two-phase form flow.
package service

import (
	"context"
	"time"

	"chronicle/internal/forms"
	"chronicle/internal/models"
	"chronicle/internal/observability"
	"chronicle/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo     repository.PostRepository
	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	locationRepo repository.LocationRepository
	now          func() time.Time
}

// NewPostService wires a PostService. The clock defaults to UTC wall
// time and is injectable for tests.
func NewPostService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	locationRepo repository.LocationRepository,
	now func() time.Time,
) *PostService {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &PostService{
		postRepo:     postRepo,
		userRepo:     userRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		now:          now,
	}
}

// Feed returns one page of the global feed: every publicly visible post,
// newest publication first.
func (s *PostService) Feed(ctx context.Context, page int) (*models.Page[*models.Post], error) {
	return s.postRepo.List(ctx, repository.PostQuery{
		Page: page,
		Now:  s.now(),
	})
}

// CategoryFeed returns the category and one page of its publicly visible
// posts. An unknown or unpublished category is reported as not-found,
// never as an empty page.
func (s *PostService) CategoryFeed(ctx context.Context, slug string, page int) (*models.Category, *models.Page[*models.Post], error) {
	category, err := s.categoryRepo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	listing, err := s.postRepo.List(ctx, repository.PostQuery{
		Page:       page,
		CategoryID: category.ID,
		Now:        s.now(),
	})
	if err != nil {
		return nil, nil, err
	}
	return category, listing, nil
}

// ProfileFeed returns the profile owner and one page of their posts.
// The owner browsing their own profile sees every post regardless of
// publication state; everyone else gets the public listing.
func (s *PostService) ProfileFeed(ctx context.Context, username string, viewerID uint, page int) (*models.User, *models.Page[*models.Post], error) {
	profile, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	listing, err := s.postRepo.List(ctx, repository.PostQuery{
		Page:               page,
		AuthorID:           profile.ID,
		IncludeUnpublished: viewerID != 0 && viewerID == profile.ID,
		Now:                s.now(),
	})
	if err != nil {
		return nil, nil, err
	}
	return profile, listing, nil
}

// Detail fetches a single post for the given viewer. Non-authors only
// reach posts passing the public visibility rule; the re-fetch under the
// public scope turns everything else into not-found.
func (s *PostService) Detail(ctx context.Context, id, viewerID uint) (*models.Post, error) {
	span, ctx := observability.NewSpan(ctx, "PostService.Detail")
	defer span.End()
	span.AddAttributes(attribute.Int("post.id", int(id)))

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	if viewerID != 0 && viewerID == post.AuthorID {
		return post, nil
	}
	return s.postRepo.GetPublicByID(ctx, id, s.now())
}

// ForEdit fetches a post for its edit form. Posts belonging to somebody
// else yield a not-owner error, which the handler turns into a redirect
// to the read-only detail view.
func (s *PostService) ForEdit(ctx context.Context, viewerID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != viewerID {
		return nil, models.NewNotOwnerError("You can only edit your own posts")
	}
	return post, nil
}

// Create commits validated form values as a new post owned by authorID.
func (s *PostService) Create(ctx context.Context, authorID uint, values *forms.PostValues) (*models.Post, error) {
	if err := s.checkRefs(ctx, values); err != nil {
		return nil, err
	}

	post := &models.Post{AuthorID: authorID}
	values.Apply(post)

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()

	return s.postRepo.GetByID(ctx, post.ID)
}

// Edit commits validated form values onto an existing post of the viewer.
func (s *PostService) Edit(ctx context.Context, viewerID, postID uint, values *forms.PostValues) (*models.Post, error) {
	post, err := s.ForEdit(ctx, viewerID, postID)
	if err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, values); err != nil {
		return nil, err
	}

	values.Apply(post)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// ForDelete fetches a post for its delete confirmation page. Unlike the
// edit flow, somebody else's post is reported as not-found so its
// existence stays hidden.
func (s *PostService) ForDelete(ctx context.Context, viewerID, postID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != viewerID {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

// Delete removes the viewer's post together with its comments. Deleting
// an already-deleted post reports not-found, so a repeated confirmation
// is harmless.
func (s *PostService) Delete(ctx context.Context, viewerID, postID uint) error {
	span, ctx := observability.NewSpan(ctx, "PostService.Delete")
	defer span.End()
	span.AddAttributes(attribute.Int("post.id", int(postID)))

	if _, err := s.ForDelete(ctx, viewerID, postID); err != nil {
		span.SetError(err)
		return err
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

// checkRefs verifies the model-level constraints of the post form: a
// referenced category or location must exist. Failures surface as field
// errors on the re-rendered form.
func (s *PostService) checkRefs(ctx context.Context, values *forms.PostValues) error {
	fields := forms.Errors{}
	if values.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *values.CategoryID); err != nil {
			if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeNotFound {
				fields.Add("category_id", "Select a valid category.")
			} else {
				return err
			}
		}
	}
	if values.LocationID != nil {
		if _, err := s.locationRepo.GetByID(ctx, *values.LocationID); err != nil {
			if appErr, ok := err.(*models.AppError); ok && appErr.Code == models.CodeNotFound {
				fields.Add("location_id", "Select a valid location.")
			} else {
				return err
			}
		}
	}
	if fields.Any() {
		return models.NewFieldErrors(fields)
	}
	return nil
}
