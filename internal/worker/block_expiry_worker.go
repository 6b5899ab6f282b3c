package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// BlockLifter clears expired admin blocks.
type BlockLifter interface {
	ClearExpiredBlocks() (int64, error)
}

// BlockExpiryWorker periodically lifts blocks whose bloqueado_hasta has
// passed, so expired blocks do not linger in the profile table.
type BlockExpiryWorker struct {
	profiles BlockLifter
	interval time.Duration
}

// NewBlockExpiryWorker constructs a BlockExpiryWorker.
func NewBlockExpiryWorker(profiles BlockLifter, interval time.Duration) *BlockExpiryWorker {
	return &BlockExpiryWorker{profiles: profiles, interval: interval}
}

// Start begins the periodic loop until context is canceled.
func (w *BlockExpiryWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting block expiry worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run()
		case <-ctx.Done():
			log.Info().Msg("Block expiry worker stopped")
			return
		}
	}
}

func (w *BlockExpiryWorker) run() {
	n, err := w.profiles.ClearExpiredBlocks()
	if err != nil {
		log.Error().Err(err).Msg("Failed to clear expired blocks")
		return
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("Expired admin blocks lifted")
	}
}
