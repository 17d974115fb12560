package service

import (
	"context"

	"github.com/mazraa-market/internal/cache"
	"github.com/mazraa-market/internal/constants"
	"github.com/mazraa-market/internal/models"
	"github.com/mazraa-market/internal/repository"
)

// UserAdminService is the platform-staff view over user accounts.
type UserAdminService struct {
	userRepo repository.UserRepository
}

// NewUserAdminService creates the admin user service.
func NewUserAdminService(userRepo repository.UserRepository) *UserAdminService {
	return &UserAdminService{userRepo: userRepo}
}

// List returns a page of user accounts.
func (s *UserAdminService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// Get returns one account.
func (s *UserAdminService) Get(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// SetStatus enables or disables an account. Disabling drops the cached auth
// state so outstanding tokens stop working on the next request.
func (s *UserAdminService) SetStatus(id uint, status string) (*models.User, error) {
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return nil, ErrStatusInvalid
	}
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	user.Status = status
	_ = cache.DelUserAuthState(context.Background(), id)
	return user, nil
}
