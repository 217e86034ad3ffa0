package server

import (
	"errors"

	"chronicle/internal/forms"
	"chronicle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// PostDetail handles GET /posts/:id. Non-authors only reach posts that
// pass the public visibility rule; the author always sees their own
// post. The comment form is rendered alongside the published comments.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	post, err := s.postService.Detail(c.UserContext(), id, viewerID(c))
	if err != nil {
		return s.respondError(c, err)
	}

	comments, err := s.commentService.ListForPost(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":     post,
		"comments": comments,
		"form":     &forms.CommentForm{},
	})
}

// CreatePostForm handles GET /posts/create and renders the empty form
// plus the selectable categories and locations.
func (s *Server) CreatePostForm(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.List(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	locations, err := s.locationRepo.List(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"form":       &forms.PostForm{},
		"categories": categories,
		"locations":  locations,
	})
}

// CreatePost handles POST /posts/create. A valid submission creates the
// post and redirects to the author's profile; an invalid one re-renders
// the form with its field errors.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var form forms.PostForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	values, errs := form.Validate()
	if errs.Any() {
		return renderInvalidForm(c, &form, errs)
	}

	post, err := s.postService.Create(c.UserContext(), viewerID(c), values)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
			return renderInvalidForm(c, &form, formErrors(appErr))
		}
		return s.respondError(c, err)
	}

	return seeOther(c, profileURL(post.Author.Username))
}

// EditPostForm handles GET /posts/:id/edit. Somebody else's post sends
// the viewer to the read-only detail page instead of the edit form.
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	post, err := s.postService.ForEdit(c.UserContext(), viewerID(c), id)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotOwner {
			return c.Redirect(postURL(id), fiber.StatusFound)
		}
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"form": forms.PostFormFromModel(post),
		"post": post,
	})
}

// EditPost handles POST /posts/:id/edit. Ownership is settled before the
// submitted form is looked at, so a non-author never sees a form
// re-render for a post they cannot edit.
func (s *Server) EditPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	if _, err := s.postService.ForEdit(c.UserContext(), viewerID(c), id); err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeNotOwner {
			return c.Redirect(postURL(id), fiber.StatusFound)
		}
		return s.respondError(c, err)
	}

	var form forms.PostForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	values, errs := form.Validate()
	if errs.Any() {
		return renderInvalidForm(c, &form, errs)
	}

	post, err := s.postService.Edit(c.UserContext(), viewerID(c), id, values)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case models.CodeNotOwner:
				return c.Redirect(postURL(id), fiber.StatusFound)
			case models.CodeValidation:
				return renderInvalidForm(c, &form, formErrors(appErr))
			}
		}
		return s.respondError(c, err)
	}

	return seeOther(c, postURL(post.ID))
}

// DeletePostForm handles GET /posts/:id/delete and renders the delete
// confirmation page. A non-author gets a 404 so the post's existence
// stays hidden from them.
func (s *Server) DeletePostForm(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	post, err := s.postService.ForDelete(c.UserContext(), viewerID(c), id)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"form": forms.PostFormFromModel(post),
		"post": post,
	})
}

// DeletePost handles POST /posts/:id/delete. The post and its comments
// are removed together; a repeated confirmation lands on 404.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.UserContext(), viewerID(c), id); err != nil {
		return s.respondError(c, err)
	}

	viewer, err := s.userService.ForEdit(c.UserContext(), viewerID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return seeOther(c, profileURL(viewer.Username))
}
