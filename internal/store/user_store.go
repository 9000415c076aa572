package store

import (
	"context"
	"time"

	"github.com/ssarthaks/gym-webapp/internal/domain"
	"github.com/ssarthaks/gym-webapp/internal/dto"

	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	return u.db.WithContext(ctx).Create(usr).Error
}

// GetByID returns the row regardless of the deleted flag; callers that must
// exclude soft-deleted accounts check IsDeleted or use GetActiveByID.
func (u *UserStore) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) GetActiveByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ? AND is_deleted = ?", id, false).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByEmail also returns soft-deleted rows so registration can distinguish
// "already exists" from "previously deleted".
func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) Update(ctx context.Context, usr *domain.User) error {
	usr.UpdatedAt = time.Now().UTC()
	return u.db.WithContext(ctx).Save(usr).Error
}

// SetEmailVerifiedByEmail skips soft-deleted rows so a stale link cannot
// flip a deleted account's flag.
func (u *UserStore) SetEmailVerifiedByEmail(ctx context.Context, email string) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ? AND is_deleted = ?", email, false).
		Update("email_verified", true).Error
}

func (u *UserStore) SetPassword(ctx context.Context, userID uint, digest string) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{"password": digest, "updated_at": time.Now().UTC()}).Error
}

// SoftDelete flips is_deleted only when it is still false, keeping the flag
// monotonic under concurrent requests. The bool reports whether this call won.
func (u *UserStore) SoftDelete(ctx context.Context, userID uint) (bool, error) {
	tx := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND is_deleted = ?", userID, false).
		Updates(map[string]any{"is_deleted": true, "updated_at": time.Now().UTC()})
	return tx.RowsAffected > 0, tx.Error
}

func (u *UserStore) List(ctx context.Context, q dto.ListUsersQuery) ([]domain.User, int64, error) {
	db := u.db.WithContext(ctx).Model(&domain.User{}).Where("is_deleted = ?", false)

	if q.Search != "" {
		like := "%" + q.Search + "%"
		db = db.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}
	if domain.AccountType(q.AccountType).Valid() {
		db = db.Where("account_type = ?", q.AccountType)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []domain.User
	err := db.Order("created_at DESC").
		Limit(q.Limit).
		Offset((q.Page - 1) * q.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (u *UserStore) Stats(ctx context.Context, now time.Time) (dto.UserStats, error) {
	var out dto.UserStats

	base := func() *gorm.DB {
		return u.db.WithContext(ctx).Model(&domain.User{}).Where("is_deleted = ?", false)
	}

	if err := base().Count(&out.TotalUsers).Error; err != nil {
		return out, err
	}
	if err := base().Where("account_type = ?", domain.AccountIndividual).Count(&out.IndividualUsers).Error; err != nil {
		return out, err
	}
	if err := base().Where("account_type = ?", domain.AccountBusiness).Count(&out.BusinessUsers).Error; err != nil {
		return out, err
	}
	if err := base().Where("email_verified = ?", true).Count(&out.VerifiedUsers).Error; err != nil {
		return out, err
	}
	if err := base().Where("created_at >= ?", now.AddDate(0, 0, -30)).Count(&out.NewUsersLast30Days).Error; err != nil {
		return out, err
	}
	return out, nil
}

// AddPasswordHistory records a digest and prunes rows beyond keep.
func (u *UserStore) AddPasswordHistory(ctx context.Context, userID uint, digest string, keep int) error {
	row := &domain.PasswordHistory{UserID: userID, Digest: digest, CreatedAt: time.Now().UTC()}
	if err := u.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}

	var stale []uint
	err := u.db.WithContext(ctx).Model(&domain.PasswordHistory{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(keep).
		Pluck("id", &stale).Error
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}
	return u.db.WithContext(ctx).Delete(&domain.PasswordHistory{}, stale).Error
}

func (u *UserStore) PasswordHistory(ctx context.Context, userID uint, limit int) ([]string, error) {
	var digests []string
	err := u.db.WithContext(ctx).Model(&domain.PasswordHistory{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Pluck("digest", &digests).Error
	return digests, err
}
