package impl

import (
	"context"
	"time"

	"github.com/ssarthaks/gym-webapp/internal/domain"
	"github.com/ssarthaks/gym-webapp/internal/dto"
)

// Narrow store contracts so service tests can substitute in-memory doubles.
// The gorm stores in internal/store satisfy these directly.

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id uint) (*domain.User, error)
	GetActiveByID(ctx context.Context, id uint) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, usr *domain.User) error
	SetEmailVerifiedByEmail(ctx context.Context, email string) error
	SetPassword(ctx context.Context, userID uint, digest string) error
	SoftDelete(ctx context.Context, userID uint) (bool, error)
	List(ctx context.Context, q dto.ListUsersQuery) ([]domain.User, int64, error)
	Stats(ctx context.Context, now time.Time) (dto.UserStats, error)
	AddPasswordHistory(ctx context.Context, userID uint, digest string, keep int) error
	PasswordHistory(ctx context.Context, userID uint, limit int) ([]string, error)
}

type sessionStore interface {
	Create(ctx context.Context, sess *domain.Session) error
	GetByToken(ctx context.Context, token string) (*domain.Session, error)
	Touch(ctx context.Context, token string, expiresAt, now time.Time) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type verificationStore interface {
	Replace(ctx context.Context, code *domain.VerificationCode) error
	FindUnusedByEmailCode(ctx context.Context, email, code string, purpose domain.Purpose) (*domain.VerificationCode, error)
	FindUnusedByToken(ctx context.Context, tok string, purpose domain.Purpose) (*domain.VerificationCode, error)
	Consume(ctx context.Context, id uint) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
