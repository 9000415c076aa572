package store

import (
	"context"
	"time"

	"github.com/ssarthaks/gym-webapp/internal/domain"

	"gorm.io/gorm"
)

type VerificationStore struct{ db *gorm.DB }

func (s *Store) Verifications() *VerificationStore { return &VerificationStore{db: s.DB} }

func (vs *VerificationStore) Create(ctx context.Context, code *domain.VerificationCode) error {
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now().UTC()
	}
	return vs.db.WithContext(ctx).Create(code).Error
}

// DeleteUnused removes any outstanding unused rows for (email, purpose) so at
// most one live code exists per pair.
func (vs *VerificationStore) DeleteUnused(ctx context.Context, email string, purpose domain.Purpose) error {
	return vs.db.WithContext(ctx).
		Where("email = ? AND type = ? AND is_used = ?", email, purpose, false).
		Delete(&domain.VerificationCode{}).Error
}

// Replace swaps the live secret for the row's (email, type) slot in one
// transaction, so a crash between the delete and the insert cannot leave the
// slot empty.
func (vs *VerificationStore) Replace(ctx context.Context, row *domain.VerificationCode) error {
	return (&Store{DB: vs.db}).WithTx(ctx, func(tx *Store) error {
		codes := tx.Verifications()
		if err := codes.DeleteUnused(ctx, row.Email, row.Type); err != nil {
			return err
		}
		return codes.Create(ctx, row)
	})
}

// FindUnusedByEmailCode returns the most recent unused row matching the OTP.
func (vs *VerificationStore) FindUnusedByEmailCode(ctx context.Context, email, code string, purpose domain.Purpose) (*domain.VerificationCode, error) {
	var row domain.VerificationCode
	err := vs.db.WithContext(ctx).
		Where("email = ? AND code = ? AND method = ? AND type = ? AND is_used = ?",
			email, code, domain.MethodOTP, purpose, false).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindUnusedByToken matches link tokens purely by value and purpose; the
// bound email is resolved from the row.
func (vs *VerificationStore) FindUnusedByToken(ctx context.Context, tok string, purpose domain.Purpose) (*domain.VerificationCode, error) {
	var row domain.VerificationCode
	err := vs.db.WithContext(ctx).
		Where("code = ? AND method = ? AND type = ? AND is_used = ?",
			tok, domain.MethodToken, purpose, false).
		Order("created_at DESC").
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Consume marks a row used. The conditional write makes consumption
// exactly-once: the losing side of a concurrent double-submit gets false.
func (vs *VerificationStore) Consume(ctx context.Context, id uint) (bool, error) {
	tx := vs.db.WithContext(ctx).Model(&domain.VerificationCode{}).
		Where("id = ? AND is_used = ?", id, false).
		Update("is_used", true)
	return tx.RowsAffected > 0, tx.Error
}

func (vs *VerificationStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := vs.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&domain.VerificationCode{})
	return tx.RowsAffected, tx.Error
}
