package forms

import (
	"chronicle/internal/models"
	"chronicle/internal/validation"
)

// ProfileForm is the bound payload of the profile edit form. Password
// changes are handled elsewhere and deliberately excluded here.
type ProfileForm struct {
	Username  string `json:"username" validate:"required,max=150"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Email     string `json:"email" validate:"required,email,max=254"`
}

// ProfileValues is the normalized result of a successful validation.
type ProfileValues struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
}

// Validate checks field-level constraints; username uniqueness is a
// model-level check done by the service.
func (f *ProfileForm) Validate() (*ProfileValues, Errors) {
	errs := Errors{}
	checkStruct(f, errs)

	if f.Username != "" {
		if err := validation.ValidateUsername(f.Username); err != nil {
			errs.Add("username", err.Error())
		}
	}

	if errs.Any() {
		return nil, errs
	}

	return &ProfileValues{
		Username:  f.Username,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
	}, nil
}

// Apply copies the validated values onto the user.
func (v *ProfileValues) Apply(user *models.User) {
	user.Username = v.Username
	user.FirstName = v.FirstName
	user.LastName = v.LastName
	user.Email = v.Email
}

// ProfileFormFromModel pre-populates the edit form from the viewer's account.
func ProfileFormFromModel(u *models.User) *ProfileForm {
	return &ProfileForm{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}
