package job

import (
	"Cipherchat/internal/pkg/consts"
	"Cipherchat/internal/realtime"
	"context"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedStats realtime.Stats

func (f fixedStats) Stats() realtime.Stats { return realtime.Stats(f) }

func TestPresenceStatsJobWritesSnapshot(t *testing.T) {
	var gotKey string
	var gotValue string
	var gotTTL time.Duration
	write := func(_ context.Context, key string, value interface{}, ttl time.Duration) error {
		gotKey = key
		gotValue = value.(string)
		gotTTL = ttl
		return nil
	}

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	j := NewPresenceStatsJob(fixedStats{Connections: 3, Present: 2, CachedContacts: 3}, write, 2*time.Minute)
	j.now = func() time.Time { return at }
	j.Run()

	assert.Equal(t, consts.PresenceStatsKey, gotKey)
	assert.Equal(t, 2*time.Minute, gotTTL)

	var snap PresenceSnapshot
	require.NoError(t, json.Unmarshal([]byte(gotValue), &snap))
	assert.Equal(t, PresenceSnapshot{Connections: 3, Present: 2, CachedContacts: 3, At: at}, snap)
}

func TestPresenceStatsJobWithoutWriter(t *testing.T) {
	j := NewPresenceStatsJob(fixedStats{}, nil, time.Minute)
	assert.NotPanics(t, j.Run)
}
