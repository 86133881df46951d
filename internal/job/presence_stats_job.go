package job

import (
	"Cipherchat/internal/pkg/consts"
	"Cipherchat/internal/pkg/logger"
	"Cipherchat/internal/realtime"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// StatsSource 由 realtime.Hub 实现
type StatsSource interface {
	Stats() realtime.Stats
}

// SnapshotWriter 快照写入，线上为 redis.SetWithExpiration
type SnapshotWriter func(ctx context.Context, key string, value interface{}, expiration time.Duration) error

type PresenceSnapshot struct {
	Connections    int       `json:"connections"`
	Present        int       `json:"present"`
	CachedContacts int       `json:"cachedContacts"`
	At             time.Time `json:"at"`
}

type PresenceStatsJob struct {
	source StatsSource
	write  SnapshotWriter
	ttl    time.Duration
	now    func() time.Time
}

func NewPresenceStatsJob(source StatsSource, write SnapshotWriter, ttl time.Duration) *PresenceStatsJob {
	return &PresenceStatsJob{
		source: source,
		write:  write,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *PresenceStatsJob) Run() {
	ctx := logger.WithTraceID(context.Background(), "job-presence-"+uuid.NewString())

	stats := s.source.Stats()
	snapshot := PresenceSnapshot{
		Connections:    stats.Connections,
		Present:        stats.Present,
		CachedContacts: stats.CachedContacts,
		At:             s.now(),
	}
	log.InfoContext(ctx, "PresenceStatsJob",
		"connections", snapshot.Connections,
		"present", snapshot.Present,
		"cached_contacts", snapshot.CachedContacts,
	)

	if s.write == nil {
		return
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		log.ErrorContext(ctx, "marshal presence snapshot error", "err", err)
		return
	}
	if err = s.write(ctx, consts.PresenceStatsKey, string(payload), s.ttl); err != nil {
		log.ErrorContext(ctx, "write presence snapshot error", "err", err)
	}
}
