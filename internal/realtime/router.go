package realtime

import (
	log "log/slog"
)

// Deliver 投递给在线用户，离线直接丢弃，不排队也不重试
func (h *Hub) Deliver(userID uint64, ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn, ok := h.conns[userID]
	if !ok {
		log.Debug("目标用户离线，丢弃事件", "userID", userID, "event", EventName(ev))
		return
	}
	conn.Send(ev)
}
