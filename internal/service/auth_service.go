package service

import (
	"context"

	"github.com/ssarthaks/gym-webapp/internal/domain"
	"github.com/ssarthaks/gym-webapp/internal/dto"
)

type AuthService interface {
	Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error)

	ChangePassword(ctx context.Context, ident domain.Identity, r dto.ChangePasswordRequest) error
	UpdateProfile(ctx context.Context, ident domain.Identity, r dto.UpdateProfileRequest) (*dto.PublicUser, error)
	DeleteAccount(ctx context.Context, ident domain.Identity) error
	GetProfile(ctx context.Context, ident domain.Identity) (*dto.PublicUser, error)

	SendEmailVerification(ctx context.Context, ident domain.Identity) error
	VerifyEmailCode(ctx context.Context, r dto.VerifyEmailRequest) error
	VerifyAccount(ctx context.Context, token string) error

	// SendPasswordReset emails a reset link; SendPasswordResetCode emails a
	// 6-digit reset code. Each replaces the other's outstanding secret for
	// the address. Both are silent when the account does not exist.
	SendPasswordReset(ctx context.Context, email string) error
	SendPasswordResetCode(ctx context.Context, email string) error
	VerifyResetToken(ctx context.Context, token string) (email string, err error)
	ResetPassword(ctx context.Context, r dto.ResetPasswordRequest) error
}
