package domain

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrLoginFailed         = errors.New("invalid credentials or account deleted")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already in use")
	ErrUserExists          = errors.New("user already exists")
	ErrAccountDeleted      = errors.New("account previously deleted")
	ErrAlreadyDeleted      = errors.New("account already deleted")
	ErrAlreadyVerified     = errors.New("email is already verified")
	ErrOldPasswordMismatch = errors.New("old password is incorrect")
	ErrPasswordReused      = errors.New("new password must not match any previously used password")
	ErrForbidden           = errors.New("forbidden")
	ErrEmailSendFailed     = errors.New("failed to send verification email")

	ErrCodeInvalid  = errors.New("invalid or expired verification code")
	ErrCodeExpired  = errors.New("verification code has expired, please request a new one")
	ErrTokenInvalid = errors.New("invalid or expired verification link")
	ErrTokenExpired = errors.New("verification link has expired, please request a new one")
)
