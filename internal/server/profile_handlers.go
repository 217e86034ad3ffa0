package server

import (
	"errors"

	"chronicle/internal/forms"
	"chronicle/internal/models"

	"github.com/gofiber/fiber/v2"
)

// EditProfileForm handles GET /profile/edit and pre-populates the form
// from the viewer's own account.
func (s *Server) EditProfileForm(c *fiber.Ctx) error {
	user, err := s.userService.ForEdit(c.UserContext(), viewerID(c))
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"form": forms.ProfileFormFromModel(user),
	})
}

// EditProfile handles POST /profile/edit. A username collision comes
// back as a field error on the re-rendered form; success redirects to
// the (possibly renamed) profile page.
func (s *Server) EditProfile(c *fiber.Ctx) error {
	var form forms.ProfileForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	values, errs := form.Validate()
	if errs.Any() {
		return renderInvalidForm(c, &form, errs)
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), viewerID(c), values)
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
			return renderInvalidForm(c, &form, formErrors(appErr))
		}
		return s.respondError(c, err)
	}

	return seeOther(c, profileURL(user.Username))
}
