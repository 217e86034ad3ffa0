package service

import (
	"context"

	"chronicle/internal/forms"
	"chronicle/internal/models"
	"chronicle/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Profile returns the account behind a profile page.
func (s *UserService) Profile(ctx context.Context, username string) (*models.User, error) {
	return s.userRepo.GetByUsername(ctx, username)
}

// ForEdit returns the viewer's own account for the profile edit form.
func (s *UserService) ForEdit(ctx context.Context, viewerID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, viewerID)
}

// UpdateProfile commits validated profile form values onto the viewer's
// account. Taking another account's username is a field error.
func (s *UserService) UpdateProfile(ctx context.Context, viewerID uint, values *forms.ProfileValues) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	if values.Username != user.Username {
		taken, err := s.userRepo.UsernameTaken(ctx, values.Username, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			fields := forms.Errors{}
			fields.Add("username", "A user with that username already exists.")
			return nil, models.NewFieldErrors(fields)
		}
	}

	values.Apply(user)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
