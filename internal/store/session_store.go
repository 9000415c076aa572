package store

import (
	"context"
	"time"

	"github.com/ssarthaks/gym-webapp/internal/domain"

	"gorm.io/gorm"
)

type SessionStore struct{ db *gorm.DB }

func (s *Store) Sessions() *SessionStore { return &SessionStore{db: s.DB} }

func (ss *SessionStore) Create(ctx context.Context, sess *domain.Session) error {
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = time.Now().UTC()
	}
	return ss.db.WithContext(ctx).Create(sess).Error
}

func (ss *SessionStore) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	var sess domain.Session
	if err := ss.db.WithContext(ctx).First(&sess, "token = ?", token).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &sess, nil
}

// Touch slides the expiry forward, guarded so an already-expired session can
// never be resurrected by a concurrent request. The bool reports whether the
// session was still live.
func (ss *SessionStore) Touch(ctx context.Context, token string, expiresAt, now time.Time) (bool, error) {
	tx := ss.db.WithContext(ctx).Model(&domain.Session{}).
		Where("token = ? AND expires_at > ?", token, now).
		Update("expires_at", expiresAt)
	return tx.RowsAffected > 0, tx.Error
}

func (ss *SessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := ss.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&domain.Session{})
	return tx.RowsAffected, tx.Error
}
