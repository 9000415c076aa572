package impl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ssarthaks/gym-webapp/internal/domain"
	"github.com/ssarthaks/gym-webapp/internal/dto"
	"github.com/ssarthaks/gym-webapp/internal/observability/metrics"
	"github.com/ssarthaks/gym-webapp/internal/service"
	"github.com/ssarthaks/gym-webapp/internal/store"
	"github.com/ssarthaks/gym-webapp/internal/validate"
)

// passwordHistoryKeep bounds how many prior digests are retained and checked
// against reuse.
const passwordHistoryKeep = 5

type AuthServiceImpl struct {
	users        userStore
	sessions     sessionStore
	passwords    service.PasswordService
	tokens       service.TokenService
	verification service.VerificationService
	sessionTTL   time.Duration
	now          func() time.Time
}

func NewAuthServiceImpl(st *store.Store, pw service.PasswordService, ts service.TokenService, vs service.VerificationService, sessionTTL time.Duration) *AuthServiceImpl {
	return &AuthServiceImpl{
		users:        st.Users(),
		sessions:     st.Sessions(),
		passwords:    pw,
		tokens:       ts,
		verification: vs,
		sessionTTL:   sessionTTL,
		now:          time.Now,
	}
}

func (a *AuthServiceImpl) Register(ctx context.Context, r dto.RegisterRequest) (*dto.RegisterResponse, error) {
	result := "success"
	defer func() {
		metrics.RegistrationsTotal.WithLabelValues(result).Inc()
	}()

	r, verrs := validate.Registration(r)
	if verrs != nil {
		result = "validation_failure"
		return nil, verrs
	}

	existing, err := a.users.GetByEmail(ctx, r.Email)
	switch {
	case err == nil && !existing.IsDeleted:
		result = "duplicate"
		return nil, domain.ErrUserExists
	case err == nil && existing.IsDeleted:
		// Registration never resurrects a soft-deleted account.
		result = "deleted_account"
		return nil, domain.ErrAccountDeleted
	case !errors.Is(err, store.ErrRecordNotFound):
		result = "failure"
		return nil, err
	}

	digest, err := a.passwords.Hash(r.Password)
	if err != nil {
		result = "failure"
		return nil, err
	}

	now := a.now().UTC()
	user := &domain.User{
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		Address:     r.Address,
		AccountType: domain.AccountType(r.AccountType),
		Password:    digest,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.users.Create(ctx, user); err != nil {
		result = "failure"
		return nil, err
	}
	if err := a.users.AddPasswordHistory(ctx, user.ID, digest, passwordHistoryKeep); err != nil {
		result = "failure"
		return nil, err
	}

	// The account exists regardless of email delivery; the authed resend
	// endpoint is the recovery path.
	if err := a.verification.IssueAccountVerification(ctx, user.Email, user.Name); err != nil {
		slog.Error("failed to send account verification email", "email", user.Email, "error", err)
	}

	tok, err := a.tokens.Sign(user.ID)
	if err != nil {
		result = "failure"
		return nil, err
	}

	return &dto.RegisterResponse{
		Token:   tok,
		Message: "Account created successfully. Please check your email to verify your account.",
		User:    dto.NewPublicUser(user),
	}, nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error) {
	result := "success"
	defer func() {
		metrics.LoginsTotal.WithLabelValues(result).Inc()
	}()

	r, verrs := validate.Login(r)
	if verrs != nil {
		result = "validation_failure"
		return nil, verrs
	}

	user, err := a.users.GetByEmail(ctx, r.Email)
	if err != nil || user.IsDeleted {
		// Coalesced so callers cannot probe which addresses exist.
		result = "failure"
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}
		return nil, domain.ErrLoginFailed
	}
	if !a.passwords.Verify(r.Password, user.Password) {
		result = "failure"
		return nil, domain.ErrInvalidCredentials
	}

	tok, err := a.tokens.Sign(user.ID)
	if err != nil {
		result = "failure"
		return nil, err
	}

	// The signed token doubles as the stateful session bearer, so the same
	// credential works under either auth strategy.
	expiresAt := a.now().UTC().Add(a.sessionTTL)
	sess := &domain.Session{UserID: user.ID, Token: tok, ExpiresAt: expiresAt}
	if err := a.sessions.Create(ctx, sess); err != nil {
		result = "failure"
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     tok,
		ExpiresAt: expiresAt,
		User:      dto.NewPublicUser(user),
	}, nil
}

func (a *AuthServiceImpl) ChangePassword(ctx context.Context, ident domain.Identity, r dto.ChangePasswordRequest) error {
	if verrs := validate.PasswordChange(r); verrs != nil {
		return verrs
	}

	user, err := a.users.GetByID(ctx, ident.ID)
	if err != nil || user.IsDeleted {
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}
		return domain.ErrUserNotFound
	}

	if !a.passwords.Verify(r.OldPassword, user.Password) {
		return domain.ErrOldPasswordMismatch
	}
	if err := a.rejectReusedPassword(ctx, user.ID, r.NewPassword); err != nil {
		return err
	}

	digest, err := a.passwords.Hash(r.NewPassword)
	if err != nil {
		return err
	}
	if err := a.users.SetPassword(ctx, user.ID, digest); err != nil {
		return err
	}
	return a.users.AddPasswordHistory(ctx, user.ID, digest, passwordHistoryKeep)
}

func (a *AuthServiceImpl) rejectReusedPassword(ctx context.Context, userID uint, newPassword string) error {
	digests, err := a.users.PasswordHistory(ctx, userID, passwordHistoryKeep)
	if err != nil {
		return err
	}
	for _, d := range digests {
		if a.passwords.Verify(newPassword, d) {
			return domain.ErrPasswordReused
		}
	}
	return nil
}

func (a *AuthServiceImpl) UpdateProfile(ctx context.Context, ident domain.Identity, r dto.UpdateProfileRequest) (*dto.PublicUser, error) {
	r, verrs := validate.ProfileUpdate(r)
	if verrs != nil {
		return nil, verrs
	}

	user, err := a.users.GetByID(ctx, ident.ID)
	if err != nil || user.IsDeleted {
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}
		return nil, domain.ErrUserNotFound
	}

	if r.Name != nil {
		user.Name = *r.Name
	}
	if r.Phone != nil {
		user.Phone = *r.Phone
	}
	if r.Address != nil {
		user.Address = *r.Address
	}
	if r.NewEmail != nil && *r.NewEmail != user.Email {
		existing, err := a.users.GetByEmail(ctx, *r.NewEmail)
		if err == nil && existing.ID != user.ID {
			return nil, domain.ErrEmailTaken
		}
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *r.NewEmail
		// A changed address must be re-verified.
		user.EmailVerified = false
	}

	if err := a.users.Update(ctx, user); err != nil {
		return nil, err
	}
	pub := dto.NewPublicUser(user)
	return &pub, nil
}

func (a *AuthServiceImpl) DeleteAccount(ctx context.Context, ident domain.Identity) error {
	user, err := a.users.GetByID(ctx, ident.ID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	if user.IsDeleted {
		return domain.ErrAlreadyDeleted
	}
	ok, err := a.users.SoftDelete(ctx, user.ID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrAlreadyDeleted
	}
	return nil
}

func (a *AuthServiceImpl) GetProfile(ctx context.Context, ident domain.Identity) (*dto.PublicUser, error) {
	user, err := a.users.GetActiveByID(ctx, ident.ID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	pub := dto.NewPublicUser(user)
	return &pub, nil
}

func (a *AuthServiceImpl) SendEmailVerification(ctx context.Context, ident domain.Identity) error {
	user, err := a.users.GetActiveByID(ctx, ident.ID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	if user.EmailVerified {
		return domain.ErrAlreadyVerified
	}
	return a.verification.IssueCode(ctx, user.Email, user.Name, domain.PurposeEmailVerification)
}

func (a *AuthServiceImpl) VerifyEmailCode(ctx context.Context, r dto.VerifyEmailRequest) error {
	email, verrs := validate.EmailOnly(r.Email)
	if verrs != nil {
		return verrs
	}
	if r.Code == "" {
		return validate.Errors{{Field: "code", Message: "Verification code is required"}}
	}
	return a.verification.VerifyCode(ctx, email, r.Code, domain.PurposeEmailVerification)
}

func (a *AuthServiceImpl) VerifyAccount(ctx context.Context, token string) error {
	if token == "" {
		return validate.Errors{{Field: "token", Message: "Verification token is required"}}
	}
	_, err := a.verification.VerifyAccountToken(ctx, token)
	return err
}

// lookupForReset resolves an active user for the reset flows without
// confirming account existence to the caller: nil, nil means "stay silent".
func (a *AuthServiceImpl) lookupForReset(ctx context.Context, email string) (*domain.User, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if user.IsDeleted {
		return nil, nil
	}
	return user, nil
}

func (a *AuthServiceImpl) SendPasswordReset(ctx context.Context, email string) error {
	email, verrs := validate.EmailOnly(email)
	if verrs != nil {
		return verrs
	}
	user, err := a.lookupForReset(ctx, email)
	if err != nil || user == nil {
		return err
	}
	return a.swallowSendFailure(a.verification.IssuePasswordResetLink(ctx, user.Email, user.Name))
}

// swallowSendFailure keeps the reset-send responses identical for existing
// and unknown addresses even during an outbound email outage. The secret is
// already persisted, so a reissue once delivery recovers still works.
func (a *AuthServiceImpl) swallowSendFailure(err error) error {
	if errors.Is(err, domain.ErrEmailSendFailed) {
		slog.Error("password reset email not delivered", "error", err)
		return nil
	}
	return err
}

func (a *AuthServiceImpl) SendPasswordResetCode(ctx context.Context, email string) error {
	email, verrs := validate.EmailOnly(email)
	if verrs != nil {
		return verrs
	}
	user, err := a.lookupForReset(ctx, email)
	if err != nil || user == nil {
		return err
	}
	return a.swallowSendFailure(a.verification.IssueCode(ctx, user.Email, user.Name, domain.PurposePasswordReset))
}

func (a *AuthServiceImpl) VerifyResetToken(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", validate.Errors{{Field: "token", Message: "Reset token is required"}}
	}
	return a.verification.CheckResetToken(ctx, token)
}

func (a *AuthServiceImpl) ResetPassword(ctx context.Context, r dto.ResetPasswordRequest) error {
	if fe := validate.Password("newPassword", r.NewPassword); fe != nil {
		return validate.Errors{*fe}
	}

	if r.Token != "" {
		email, err := a.verification.CheckResetToken(ctx, r.Token)
		if err != nil {
			return err
		}
		if err := a.applyNewPassword(ctx, email, r.NewPassword); err != nil {
			return err
		}
		// Consume only after the password change took effect.
		return a.verification.ConsumeResetToken(ctx, r.Token)
	}

	email, verrs := validate.EmailOnly(r.Email)
	if verrs != nil {
		return verrs
	}
	if r.Code == "" {
		return validate.Errors{{Field: "code", Message: "Reset code is required"}}
	}
	if err := a.verification.VerifyCode(ctx, email, r.Code, domain.PurposePasswordReset); err != nil {
		return err
	}
	return a.applyNewPassword(ctx, email, r.NewPassword)
}

func (a *AuthServiceImpl) applyNewPassword(ctx context.Context, email, newPassword string) error {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil || user.IsDeleted {
		if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
			return err
		}
		return domain.ErrUserNotFound
	}
	if err := a.rejectReusedPassword(ctx, user.ID, newPassword); err != nil {
		return err
	}
	digest, err := a.passwords.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := a.users.SetPassword(ctx, user.ID, digest); err != nil {
		return err
	}
	return a.users.AddPasswordHistory(ctx, user.ID, digest, passwordHistoryKeep)
}
