package service

import (
	"Cipherchat/internal/realtime"
	"context"
)

// Notifier 业务层对实时推送的依赖，由 realtime.Hub 实现
type Notifier interface {
	Deliver(userID uint64, ev realtime.Event)
	RefreshContactsPresence(ctx context.Context, userID uint64)
	PresencePreferenceChanged(ctx context.Context, userID uint64)
}

var _ Notifier = (*realtime.Hub)(nil)
