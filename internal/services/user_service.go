package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/repo"
)

// UserService implements admin account management.
type UserService struct {
	DB *gorm.DB
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// Get returns one user.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// ListPage returns a page of users, newest first.
func (s *UserService) ListPage(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	total, err := repo.CountUsers(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.User{}, 0, nil
	}

	items, err := repo.ListUsersPage(ctx, s.DB, (page-1)*pageSize, pageSize)
	return items, total, err
}

// UpdateRole promotes or demotes a user. Demoting the last administrator is
// refused so the admin area cannot be locked out.
func (s *UserService) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return validationError("unknown role")
	}

	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == domain.RoleAdmin && role == domain.RoleUser {
		admins, err := repo.ListAdmins(ctx, s.DB)
		if err != nil {
			return err
		}
		if len(admins) <= 1 {
			return ErrLastAdmin
		}
	}

	if err := repo.UpdateUserRole(ctx, s.DB, id, role); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// Rename updates a user's display name.
func (s *UserService) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return validationError("name is empty")
	}
	if err := repo.UpdateUserName(ctx, s.DB, id, name); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// Delete soft-deletes an account. The last administrator cannot be removed.
func (s *UserService) Delete(ctx context.Context, id string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if u.Role == domain.RoleAdmin {
		admins, err := repo.ListAdmins(ctx, s.DB)
		if err != nil {
			return err
		}
		if len(admins) <= 1 {
			return ErrLastAdmin
		}
	}
	if err := repo.DeleteUser(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
