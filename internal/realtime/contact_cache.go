package realtime

import (
	"context"
	log "log/slog"
)

// LoadContacts 从存储加载联系人并替换缓存
// 读取失败时缓存空集合，用户已离线或已有更新的读取时丢弃结果
func (h *Hub) LoadContacts(ctx context.Context, userID uint64) {
	h.mu.Lock()
	seq, ok := h.beginSyncLocked(h.contactSeq, userID)
	h.mu.Unlock()
	if !ok {
		return
	}

	sctx, cancel := h.storeContext(ctx)
	ids, err := h.store.FindUserContacts(sctx, userID)
	cancel()
	if err != nil {
		log.WarnContext(ctx, "加载联系人失败，按空集合处理", "userID", userID, "err", err)
		ids = nil
	}

	set := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.contactSeq[userID] != seq {
		return
	}
	h.contacts[userID] = set
}

// Contacts 返回缓存的联系人，未加载时为空
func (h *Hub) Contacts(userID uint64) []uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return sortedKeys(h.contacts[userID])
}

func (h *Hub) InvalidateContacts(userID uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.contacts, userID)
}
