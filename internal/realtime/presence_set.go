package realtime

import (
	"context"
	log "log/slog"
)

// SyncPresence 读取在线可见设置，读取失败视为不可见
// 同一用户有更新的读取开始后，本次结果被丢弃
func (h *Hub) SyncPresence(ctx context.Context, userID uint64) {
	h.mu.Lock()
	seq, ok := h.beginSyncLocked(h.presenceSeq, userID)
	h.mu.Unlock()
	if !ok {
		return
	}

	sctx, cancel := h.storeContext(ctx)
	optIn, err := h.store.ReadPresenceOptIn(sctx, userID)
	cancel()
	if err != nil {
		log.WarnContext(ctx, "读取在线可见设置失败，按不可见处理", "userID", userID, "err", err)
		optIn = false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.presenceSeq[userID] != seq {
		log.DebugContext(ctx, "在线设置读取已过期，丢弃", "userID", userID)
		return
	}
	if optIn {
		h.present[userID] = struct{}{}
		return
	}
	delete(h.present, userID)
}

func (h *Hub) IsPresent(userID uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.present[userID]
	return ok
}
