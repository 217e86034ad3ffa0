package server

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"chronicle/internal/forms"
	"chronicle/internal/middleware"
	"chronicle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// viewerID returns the authenticated viewer's user ID, or 0 for an
// anonymous request.
func viewerID(c *fiber.Ctx) uint {
	if vid, ok := c.Locals("viewerID").(uint); ok {
		return vid
	}
	return 0
}

// parseID extracts a route parameter by name as a positive uint. Page URLs
// only exist for numeric identifiers, so a malformed value is a 404, not a
// 400. On failure it writes the response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param, resource string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(resource, c.Params(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parsePage extracts the ?page= query parameter. Anything that is not a
// positive integer falls back to the first page; overshooting the last
// page is clamped later by the listing query.
func parsePage(c *fiber.Ctx) int {
	page := c.QueryInt("page", 1)
	if page < 1 {
		return 1
	}
	return page
}

// respondError maps a service error onto the HTTP surface. Not-found and
// ownership-masking errors become 404; everything unexpected is logged
// and reported as 500 without leaking internals.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeNotFound:
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case models.CodeValidation:
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case models.CodeUnauthenticated:
			return models.RespondWithError(c, fiber.StatusUnauthorized, appErr)
		}
	}

	middleware.Logger.ErrorContext(c.UserContext(), "handler error",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return models.RespondWithError(c, fiber.StatusInternalServerError,
		models.NewInternalError(err))
}

// renderInvalidForm re-renders a submitted form together with its field
// errors. An invalid submission is a normal page, so the status is 200.
func renderInvalidForm(c *fiber.Ctx, form interface{}, errs forms.Errors) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"form":   form,
		"errors": errs,
	})
}

// formErrors extracts per-field messages from a validation AppError
// raised during the commit phase (model-level checks).
func formErrors(appErr *models.AppError) forms.Errors {
	if len(appErr.Fields) > 0 {
		return forms.Errors(appErr.Fields)
	}
	errs := forms.Errors{}
	errs.Add("__all__", appErr.Message)
	return errs
}

// seeOther issues the post-redirect-get hop after a successful mutation.
func seeOther(c *fiber.Ctx, location string) error {
	return c.Redirect(location, fiber.StatusSeeOther)
}

// safeNext returns a login redirect target, falling back to the index
// page for absolute or missing values so the parameter cannot send the
// browser off-site. Backslashes are rejected outright: browsers
// normalize them to slashes, turning "/\host" protocol-relative.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") ||
		strings.HasPrefix(next, "//") || strings.ContainsRune(next, '\\') {
		return "/"
	}
	return next
}

func postURL(id uint) string {
	return fmt.Sprintf("/posts/%d", id)
}

func profileURL(username string) string {
	return "/profile/" + username
}
