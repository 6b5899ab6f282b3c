package worker

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mercadolink/mercado_api/internal/cache"
	"github.com/mercadolink/mercado_api/internal/models"
)

// SessionLister lists and revokes live sessions.
type SessionLister interface {
	List(ctx context.Context) (map[string]*cache.SessionEntry, error)
	Delete(ctx context.Context, jtis ...string) error
}

// ProfileReader fetches admin profiles by identity.
type ProfileReader interface {
	GetByAuthUserID(authUserID uuid.UUID) (*models.AdminProfile, error)
}

// SessionSweepWorker drops live sessions whose admin profile has become
// inactive or blocked. A session must never stay usable against a profile
// currently known to be ineligible.
type SessionSweepWorker struct {
	sessions SessionLister
	profiles ProfileReader
	interval time.Duration
}

// NewSessionSweepWorker constructs a SessionSweepWorker.
func NewSessionSweepWorker(sessions SessionLister, profiles ProfileReader, interval time.Duration) *SessionSweepWorker {
	return &SessionSweepWorker{sessions: sessions, profiles: profiles, interval: interval}
}

// Start begins the periodic sweep loop until context is canceled.
func (w *SessionSweepWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting session sweep worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Session sweep worker stopped")
			return
		}
	}
}

func (w *SessionSweepWorker) run(ctx context.Context) {
	sessions, err := w.sessions.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list sessions")
		return
	}

	now := time.Now()
	var revoked []string
	for jti, entry := range sessions {
		profile, err := w.profiles.GetByAuthUserID(entry.AuthUserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				// Orphaned session, profile is gone.
				revoked = append(revoked, jti)
			}
			continue
		}
		if !profile.Active || profile.BlockedNow(now) {
			revoked = append(revoked, jti)
		}
	}

	if len(revoked) == 0 {
		return
	}
	if err := w.sessions.Delete(ctx, revoked...); err != nil {
		log.Error().Err(err).Msg("Failed to revoke swept sessions")
		return
	}
	log.Info().Int("count", len(revoked)).Msg("Revoked sessions of ineligible admins")
}
