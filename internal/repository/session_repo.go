package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/qs-lzh/concert-storefront/internal/model"
)

type SessionRepo interface {
	Upsert(ctx context.Context, record *model.SessionRecord) error
	GetBySID(ctx context.Context, sid string) (*model.SessionRecord, error)
	DeleteBySID(ctx context.Context, sid string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

type sessionRepoGorm struct {
	db *gorm.DB
}

var _ SessionRepo = (*sessionRepoGorm)(nil)

func NewSessionRepoGorm(db *gorm.DB) *sessionRepoGorm {
	return &sessionRepoGorm{
		db: db,
	}
}

func (r *sessionRepoGorm) Upsert(ctx context.Context, record *model.SessionRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "sid"}},
			DoUpdates: clause.AssignmentColumns([]string{"token", "user_info", "expires_at", "updated_at"}),
		}).
		Create(record).Error
}

func (r *sessionRepoGorm) GetBySID(ctx context.Context, sid string) (*model.SessionRecord, error) {
	record, err := gorm.G[model.SessionRecord](r.db).Where("sid = ?", sid).First(ctx)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *sessionRepoGorm) DeleteBySID(ctx context.Context, sid string) error {
	_, err := gorm.G[model.SessionRecord](r.db).Where("sid = ?", sid).Delete(ctx)
	return err
}

func (r *sessionRepoGorm) DeleteExpired(ctx context.Context, now time.Time) (int, error) {
	return gorm.G[model.SessionRecord](r.db).Where("expires_at < ?", now).Delete(ctx)
}

// SessionStorage adapts SessionRepo to the browser session storage contract:
// one row per session holds both the credential and the identity.
type SessionStorage struct {
	repo SessionRepo
	ttl  time.Duration
	now  func() time.Time
}

func NewSessionStorage(repo SessionRepo, ttl time.Duration) *SessionStorage {
	return &SessionStorage{repo: repo, ttl: ttl, now: time.Now}
}

func (s *SessionStorage) SaveSession(ctx context.Context, sid, token, userInfo string) error {
	now := s.now()
	return s.repo.Upsert(ctx, &model.SessionRecord{
		SID:       sid,
		Token:     token,
		UserInfo:  userInfo,
		ExpiresAt: now.Add(s.ttl),
		UpdatedAt: now,
	})
}

func (s *SessionStorage) LoadSession(ctx context.Context, sid string) (string, string, error) {
	record, err := s.live(ctx, sid)
	if err != nil || record == nil {
		return "", "", err
	}
	return record.Token, record.UserInfo, nil
}

func (s *SessionStorage) ClearSession(ctx context.Context, sid string) error {
	return s.repo.DeleteBySID(ctx, sid)
}

func (s *SessionStorage) SessionToken(ctx context.Context, sid string) (string, error) {
	record, err := s.live(ctx, sid)
	if err != nil || record == nil {
		return "", err
	}
	return record.Token, nil
}

// live returns nil for missing or expired sessions; expired rows are removed.
func (s *SessionStorage) live(ctx context.Context, sid string) (*model.SessionRecord, error) {
	record, err := s.repo.GetBySID(ctx, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if s.ttl > 0 && !record.ExpiresAt.After(s.now()) {
		if err := s.repo.DeleteBySID(ctx, sid); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return record, nil
}
