package realtime

import (
	"slices"
)

// ComputeVisible 联系人 ∩ 在线集合 ∩ 连接表，升序返回
func (h *Hub) ComputeVisible(userID uint64) []uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.visibleLocked(userID)
}

// PushTo 向单个用户推送其可见在线列表，未连接则忽略
func (h *Hub) PushTo(userID uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pushLocked(userID)
}

// BroadcastAll 为每个在线用户重新计算并推送
func (h *Hub) BroadcastAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked()
}

func (h *Hub) broadcastLocked() {
	for userID := range h.conns {
		h.pushLocked(userID)
	}
}

func (h *Hub) pushLocked(userID uint64) {
	conn, ok := h.conns[userID]
	if !ok {
		return
	}
	conn.Send(OnlineUsers{UserIDs: h.visibleLocked(userID)})
}

func (h *Hub) visibleLocked(userID uint64) []uint64 {
	visible := make([]uint64, 0)
	for id := range h.contacts[userID] {
		if _, ok := h.present[id]; !ok {
			continue
		}
		if !h.registeredLocked(id) {
			continue
		}
		visible = append(visible, id)
	}
	slices.Sort(visible)
	return visible
}

func sortedKeys(set map[uint64]struct{}) []uint64 {
	keys := make([]uint64, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
