package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs-lzh/concert-storefront/internal/model"
)

// fakeSessionRepo stands in for Postgres.
type fakeSessionRepo struct {
	rows    map[string]model.SessionRecord
	deletes int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{rows: make(map[string]model.SessionRecord)}
}


func (f *fakeSessionRepo) Upsert(_ context.Context, r *model.SessionRecord) error {
	f.rows[r.SID] = *r
	return nil
}

func (f *fakeSessionRepo) GetBySID(_ context.Context, sid string) (*model.SessionRecord, error) {
	r, ok := f.rows[sid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &r, nil
}

func (f *fakeSessionRepo) DeleteBySID(_ context.Context, sid string) error {
	f.deletes++
	delete(f.rows, sid)
	return nil
}

func (f *fakeSessionRepo) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	n := 0
	for sid, r := range f.rows {
		if r.ExpiresAt.Before(now) {
			delete(f.rows, sid)
			n++
		}
	}
	return n, nil
}

func TestSessionStorageRoundTrip(t *testing.T) {
	repo := newFakeSessionRepo()
	s := NewSessionStorage(repo, time.Hour)
	ctx := context.Background()

	token, info, err := s.LoadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, info)

	require.NoError(t, s.SaveSession(ctx, "s1", "tok", `{"id":3}`))
	token, info, err = s.LoadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, `{"id":3}`, info)

	got, err := s.SessionToken(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	require.NoError(t, s.ClearSession(ctx, "s1"))
	token, info, err = s.LoadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, info)
}

func TestSessionStorageDropsExpiredRows(t *testing.T) {
	repo := newFakeSessionRepo()
	s := NewSessionStorage(repo, time.Hour)
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	ctx := context.Background()

	require.NoError(t, s.SaveSession(ctx, "s1", "tok", "info"))

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	token, info, err := s.LoadSession(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, info)
	assert.Equal(t, 1, repo.deletes)
	assert.Empty(t, repo.rows)
}

type brokenRepo struct{ *fakeSessionRepo }

func (brokenRepo) GetBySID(context.Context, string) (*model.SessionRecord, error) {
	return nil, errors.New("connection refused")
}

func TestSessionStoragePropagatesDatabaseErrors(t *testing.T) {
	s := NewSessionStorage(brokenRepo{newFakeSessionRepo()}, time.Hour)
	_, _, err := s.LoadSession(context.Background(), "s1")
	assert.Error(t, err)
}
