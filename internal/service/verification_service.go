package service

import (
	"context"

	"github.com/ssarthaks/gym-webapp/internal/domain"
)

// VerificationService drives the issue/verify lifecycle for email-bound OTP
// codes and link tokens. Issuing replaces any outstanding unused secret for
// the same (email, purpose); verification consumes exactly once.
type VerificationService interface {
	IssueCode(ctx context.Context, email, name string, purpose domain.Purpose) error
	IssueAccountVerification(ctx context.Context, email, name string) error
	IssuePasswordResetLink(ctx context.Context, email, name string) error

	VerifyCode(ctx context.Context, email, code string, purpose domain.Purpose) error
	VerifyAccountToken(ctx context.Context, token string) (email string, err error)

	// Password-reset links are a two-step protocol: CheckResetToken proves the
	// link is live and resolves the bound email without consuming it;
	// ConsumeResetToken burns it after the new password has been applied.
	CheckResetToken(ctx context.Context, token string) (email string, err error)
	ConsumeResetToken(ctx context.Context, token string) error

	CleanupExpired(ctx context.Context) error
}
