package dto

import (
	"time"

	"github.com/ssarthaks/gym-webapp/internal/domain"
)

type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Password    string `json:"password"`
	Address     string `json:"address,omitempty"`
	AccountType string `json:"accountType,omitempty"`
}

type RegisterResponse struct {
	Token   string     `json:"token"`
	Message string     `json:"message"`
	User    PublicUser `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	User      PublicUser `json:"user"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// UpdateProfileRequest fields are pointers so "absent" and "empty" stay distinct.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	NewEmail *string `json:"newEmail,omitempty"`
}

type VerifyEmailRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifyAccountRequest struct {
	Token string `json:"token"`
}

type SendPasswordResetRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest covers both reset flows: email+code (OTP) or token (link).
type ResetPasswordRequest struct {
	Email       string `json:"email,omitempty"`
	Code        string `json:"code,omitempty"`
	Token       string `json:"token,omitempty"`
	NewPassword string `json:"newPassword"`
}

type VerifyResetTokenRequest struct {
	Token string `json:"token"`
}

type VerifyResetTokenResponse struct {
	Message string `json:"message"`
	Email   string `json:"email"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type PublicUser struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address,omitempty"`
	AccountType   string    `json:"accountType"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewPublicUser(u *domain.User) PublicUser {
	return PublicUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Phone:         u.Phone,
		Address:       u.Address,
		AccountType:   string(u.AccountType),
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}
