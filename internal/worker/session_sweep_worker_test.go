package worker

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mercadolink/mercado_api/internal/cache"
	"github.com/mercadolink/mercado_api/internal/models"
)

type fakeSessionLister struct {
	sessions map[string]*cache.SessionEntry
	deleted  []string
}

func (f *fakeSessionLister) List(ctx context.Context) (map[string]*cache.SessionEntry, error) {
	return f.sessions, nil
}

func (f *fakeSessionLister) Delete(ctx context.Context, jtis ...string) error {
	f.deleted = append(f.deleted, jtis...)
	return nil
}

type fakeProfileStore struct {
	profiles map[uuid.UUID]*models.AdminProfile
}

func (f *fakeProfileStore) GetByAuthUserID(authUserID uuid.UUID) (*models.AdminProfile, error) {
	p, ok := f.profiles[authUserID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

func TestSessionSweepRevokesIneligible(t *testing.T) {
	activeID := uuid.New()
	inactiveID := uuid.New()
	blockedID := uuid.New()
	orphanID := uuid.New()
	until := time.Now().Add(time.Hour)

	sessions := &fakeSessionLister{sessions: map[string]*cache.SessionEntry{
		"jti-active":   {AuthUserID: activeID},
		"jti-inactive": {AuthUserID: inactiveID},
		"jti-blocked":  {AuthUserID: blockedID},
		"jti-orphan":   {AuthUserID: orphanID},
	}}
	profiles := &fakeProfileStore{profiles: map[uuid.UUID]*models.AdminProfile{
		activeID:   {AuthUserID: activeID, Active: true},
		inactiveID: {AuthUserID: inactiveID, Active: false},
		blockedID:  {AuthUserID: blockedID, Active: true, Blocked: true, BlockedUntil: &until},
	}}

	w := NewSessionSweepWorker(sessions, profiles, time.Minute)
	w.run(context.Background())

	assert.ElementsMatch(t, []string{"jti-inactive", "jti-blocked", "jti-orphan"}, sessions.deleted)
}

func TestSessionSweepKeepsExpiredBlocks(t *testing.T) {
	id := uuid.New()
	past := time.Now().Add(-time.Hour)

	sessions := &fakeSessionLister{sessions: map[string]*cache.SessionEntry{
		"jti-1": {AuthUserID: id},
	}}
	profiles := &fakeProfileStore{profiles: map[uuid.UUID]*models.AdminProfile{
		id: {AuthUserID: id, Active: true, Blocked: true, BlockedUntil: &past},
	}}

	w := NewSessionSweepWorker(sessions, profiles, time.Minute)
	w.run(context.Background())

	assert.Empty(t, sessions.deleted, "an expired block must not cost the admin their session")
}
