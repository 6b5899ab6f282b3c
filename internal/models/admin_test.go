package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlockedNow(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name         string
		blocked      bool
		blockedUntil *time.Time
		want         bool
	}{
		{"not blocked", false, nil, false},
		{"blocked indefinitely", true, nil, true},
		{"blocked until future", true, &future, true},
		{"block already expired", true, &past, false},
		{"not blocked with stale until", false, &future, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &AdminProfile{Blocked: tt.blocked, BlockedUntil: tt.blockedUntil}
			assert.Equal(t, tt.want, p.BlockedNow(now))
		})
	}
}
