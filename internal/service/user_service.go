package service

import (
	"context"

	"github.com/ssarthaks/gym-webapp/internal/domain"
	"github.com/ssarthaks/gym-webapp/internal/dto"
)

// UserService is the admin/self account management surface.
type UserService interface {
	List(ctx context.Context, q dto.ListUsersQuery) (*dto.ListUsersResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.PublicUser, error)
	Update(ctx context.Context, ident domain.Identity, id uint, r dto.AdminUpdateUserRequest) (*dto.PublicUser, error)
	Delete(ctx context.Context, ident domain.Identity, id uint) error
	Stats(ctx context.Context) (*dto.UserStatsResponse, error)
}
