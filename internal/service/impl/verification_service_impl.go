package impl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ssarthaks/gym-webapp/internal/domain"
	"github.com/ssarthaks/gym-webapp/internal/mailer"
	"github.com/ssarthaks/gym-webapp/internal/observability/metrics"
	"github.com/ssarthaks/gym-webapp/internal/store"
	"github.com/ssarthaks/gym-webapp/internal/token"
)

type VerificationConfig struct {
	OTPTTL    time.Duration // 6-digit codes
	VerifyTTL time.Duration // account verification links
	ResetTTL  time.Duration // password reset links
}

type VerificationServiceImpl struct {
	users  userStore
	codes  verificationStore
	source token.Source
	mail   mailer.Mailer
	cfg    VerificationConfig
	now    func() time.Time
}

func NewVerificationServiceImpl(st *store.Store, src token.Source, mail mailer.Mailer, cfg VerificationConfig) *VerificationServiceImpl {
	return &VerificationServiceImpl{
		users:  st.Users(),
		codes:  st.Verifications(),
		source: src,
		mail:   mail,
		cfg:    cfg,
		now:    time.Now,
	}
}

// issue atomically replaces any outstanding unused secret for the same
// (email, purpose) with a fresh one, then sends it. A send failure is
// surfaced to the caller but the row stays persisted; reissuing replaces it.
func (v *VerificationServiceImpl) issue(ctx context.Context, email string, purpose domain.Purpose, method domain.Method, secret string, ttl time.Duration, send func() error) error {
	result := "success"
	defer func() {
		metrics.VerificationsIssuedTotal.WithLabelValues(string(purpose), result).Inc()
	}()

	row := &domain.VerificationCode{
		Email:     email,
		Code:      secret,
		Method:    method,
		Type:      purpose,
		ExpiresAt: v.now().UTC().Add(ttl),
	}
	if err := v.codes.Replace(ctx, row); err != nil {
		result = "failure"
		return err
	}
	if err := send(); err != nil {
		result = "send_failure"
		slog.Error("verification email send failed", "email", email, "purpose", purpose, "error", err)
		return fmt.Errorf("%w: %v", domain.ErrEmailSendFailed, err)
	}
	return nil
}

func (v *VerificationServiceImpl) IssueCode(ctx context.Context, email, name string, purpose domain.Purpose) error {
	otp, err := v.source.OTP()
	if err != nil {
		return err
	}
	send := func() error {
		if purpose == domain.PurposePasswordReset {
			return v.mail.SendPasswordResetCode(ctx, email, name, otp)
		}
		return v.mail.SendVerificationCode(ctx, email, name, otp)
	}
	return v.issue(ctx, email, purpose, domain.MethodOTP, otp, v.cfg.OTPTTL, send)
}

func (v *VerificationServiceImpl) IssueAccountVerification(ctx context.Context, email, name string) error {
	tok, err := v.source.Opaque()
	if err != nil {
		return err
	}
	send := func() error { return v.mail.SendAccountVerification(ctx, email, name, tok) }
	return v.issue(ctx, email, domain.PurposeEmailVerification, domain.MethodToken, tok, v.cfg.VerifyTTL, send)
}

func (v *VerificationServiceImpl) IssuePasswordResetLink(ctx context.Context, email, name string) error {
	tok, err := v.source.Opaque()
	if err != nil {
		return err
	}
	send := func() error { return v.mail.SendPasswordResetLink(ctx, email, name, tok) }
	return v.issue(ctx, email, domain.PurposePasswordReset, domain.MethodToken, tok, v.cfg.ResetTTL, send)
}

func (v *VerificationServiceImpl) VerifyCode(ctx context.Context, email, code string, purpose domain.Purpose) error {
	result := "success"
	defer func() {
		metrics.VerificationsConsumedTotal.WithLabelValues(string(purpose), result).Inc()
	}()

	row, err := v.codes.FindUnusedByEmailCode(ctx, email, code, purpose)
	if err != nil {
		result = "invalid"
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrCodeInvalid
		}
		return err
	}
	if row.Expired(v.now()) {
		result = "expired"
		// Burn the expired row so it cannot be retried.
		if _, err := v.codes.Consume(ctx, row.ID); err != nil {
			return err
		}
		return domain.ErrCodeExpired
	}
	ok, err := v.codes.Consume(ctx, row.ID)
	if err != nil {
		result = "failure"
		return err
	}
	if !ok {
		// A concurrent request consumed it first.
		result = "invalid"
		return domain.ErrCodeInvalid
	}
	if purpose == domain.PurposeEmailVerification {
		if err := v.users.SetEmailVerifiedByEmail(ctx, email); err != nil {
			result = "failure"
			return err
		}
	}
	return nil
}

func (v *VerificationServiceImpl) VerifyAccountToken(ctx context.Context, tok string) (string, error) {
	result := "success"
	defer func() {
		metrics.VerificationsConsumedTotal.WithLabelValues(string(domain.PurposeEmailVerification), result).Inc()
	}()

	row, err := v.codes.FindUnusedByToken(ctx, tok, domain.PurposeEmailVerification)
	if err != nil {
		result = "invalid"
		if errors.Is(err, store.ErrRecordNotFound) {
			return "", domain.ErrTokenInvalid
		}
		return "", err
	}
	if row.Expired(v.now()) {
		result = "expired"
		if _, err := v.codes.Consume(ctx, row.ID); err != nil {
			return "", err
		}
		return "", domain.ErrTokenExpired
	}
	ok, err := v.codes.Consume(ctx, row.ID)
	if err != nil {
		result = "failure"
		return "", err
	}
	if !ok {
		result = "invalid"
		return "", domain.ErrTokenInvalid
	}
	if err := v.users.SetEmailVerifiedByEmail(ctx, row.Email); err != nil {
		result = "failure"
		return "", err
	}
	return row.Email, nil
}

// CheckResetToken validates a reset link and resolves its email without
// consuming it, so the UI can confirm the link before asking for a password.
func (v *VerificationServiceImpl) CheckResetToken(ctx context.Context, tok string) (string, error) {
	row, err := v.codes.FindUnusedByToken(ctx, tok, domain.PurposePasswordReset)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return "", domain.ErrTokenInvalid
		}
		return "", err
	}
	if row.Expired(v.now()) {
		if _, err := v.codes.Consume(ctx, row.ID); err != nil {
			return "", err
		}
		return "", domain.ErrTokenExpired
	}
	return row.Email, nil
}

// ConsumeResetToken burns a reset link once the password change is applied.
func (v *VerificationServiceImpl) ConsumeResetToken(ctx context.Context, tok string) error {
	result := "success"
	defer func() {
		metrics.VerificationsConsumedTotal.WithLabelValues(string(domain.PurposePasswordReset), result).Inc()
	}()

	row, err := v.codes.FindUnusedByToken(ctx, tok, domain.PurposePasswordReset)
	if err != nil {
		result = "invalid"
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrTokenInvalid
		}
		return err
	}
	ok, err := v.codes.Consume(ctx, row.ID)
	if err != nil {
		result = "failure"
		return err
	}
	if !ok {
		result = "invalid"
		return domain.ErrTokenInvalid
	}
	return nil
}

func (v *VerificationServiceImpl) CleanupExpired(ctx context.Context) error {
	n, err := v.codes.DeleteExpired(ctx, v.now())
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Info("expired verification codes cleaned up", "deleted", n)
	}
	return nil
}
