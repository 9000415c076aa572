package domain

import "time"

// Purpose discriminates the two verification flows sharing one table.
type Purpose string

const (
	PurposeEmailVerification Purpose = "email_verification"
	PurposePasswordReset     Purpose = "password_reset"
)

func (p Purpose) Valid() bool {
	return p == PurposeEmailVerification || p == PurposePasswordReset
}

// Method distinguishes a 6-digit OTP from an opaque link token so the two
// secret formats never verify against each other.
type Method string

const (
	MethodOTP   Method = "otp"
	MethodToken Method = "token"
)

type VerificationCode struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"type:varchar(128);index:ix_codes_email_type,priority:1;not null"`
	Code      string    `gorm:"type:varchar(100);index:ix_codes_code;not null"`
	Method    Method    `gorm:"type:varchar(8);not null"`
	Type      Purpose   `gorm:"type:varchar(32);index:ix_codes_email_type,priority:2;not null"`
	ExpiresAt time.Time `gorm:"index:ix_codes_expires;not null"`
	IsUsed    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
}

func (VerificationCode) TableName() string { return "verification_codes" }

func (v *VerificationCode) Expired(now time.Time) bool { return now.After(v.ExpiresAt) }
