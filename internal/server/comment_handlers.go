package server

import (
	"chronicle/internal/forms"
	"chronicle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AddCommentForm handles GET /posts/:id/comment.
func (s *Server) AddCommentForm(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	post, err := s.postService.Detail(c.UserContext(), id, viewerID(c))
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"post": post,
		"form": &forms.CommentForm{},
	})
}

// AddComment handles POST /posts/:id/comment. The target post is
// resolved under the viewer's visibility before the submitted form is
// looked at; the new comment is published immediately and the viewer
// lands back on the post detail.
func (s *Server) AddComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}

	if _, err := s.postService.Detail(c.UserContext(), id, viewerID(c)); err != nil {
		return s.respondError(c, err)
	}

	var form forms.CommentForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	values, errs := form.Validate()
	if errs.Any() {
		return renderInvalidForm(c, &form, errs)
	}

	if _, err := s.commentService.Add(c.UserContext(), viewerID(c), id, values); err != nil {
		return s.respondError(c, err)
	}

	return seeOther(c, postURL(id))
}

// EditCommentForm handles GET /posts/:id/comment/:cid/edit. Anybody
// else's comment reports not-found.
func (s *Server) EditCommentForm(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "cid", "Comment")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.ForEdit(c.UserContext(), viewerID(c), postID, commentID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"form":    forms.CommentFormFromModel(comment),
		"comment": comment,
	})
}

// EditComment handles POST /posts/:id/comment/:cid/edit. Ownership is
// settled before the submitted form is looked at, so the masking 404
// wins over a form re-render.
func (s *Server) EditComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "cid", "Comment")
	if err != nil {
		return nil
	}

	if _, err := s.commentService.ForEdit(c.UserContext(), viewerID(c), postID, commentID); err != nil {
		return s.respondError(c, err)
	}

	var form forms.CommentForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	values, errs := form.Validate()
	if errs.Any() {
		return renderInvalidForm(c, &form, errs)
	}

	if _, err := s.commentService.Edit(c.UserContext(), viewerID(c), postID, commentID, values); err != nil {
		return s.respondError(c, err)
	}

	return seeOther(c, postURL(postID))
}

// DeleteCommentForm handles GET /posts/:id/comment/:cid/delete and
// renders the confirmation page without an editable form.
func (s *Server) DeleteCommentForm(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "cid", "Comment")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.ForEdit(c.UserContext(), viewerID(c), postID, commentID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"comment": comment,
	})
}

// DeleteComment handles POST /posts/:id/comment/:cid/delete. A repeated
// confirmation for an already-deleted comment lands on 404.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id", "Post")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "cid", "Comment")
	if err != nil {
		return nil
	}

	if err := s.commentService.Delete(c.UserContext(), viewerID(c), postID, commentID); err != nil {
		return s.respondError(c, err)
	}

	return seeOther(c, postURL(postID))
}
