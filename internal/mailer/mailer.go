// Package mailer is the outbound email capability used by verification flows.
package mailer

import "context"

type Mailer interface {
	SendVerificationCode(ctx context.Context, to, name, code string) error
	SendPasswordResetCode(ctx context.Context, to, name, code string) error
	SendAccountVerification(ctx context.Context, to, name, token string) error
	SendPasswordResetLink(ctx context.Context, to, name, token string) error
}
