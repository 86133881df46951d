package realtime

// Register 绑定用户与连接，已有连接直接被替换且不会被关闭
func (h *Hub) Register(userID uint64, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[userID] = conn
}

func (h *Hub) Lookup(userID uint64) (Conn, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn, ok := h.conns[userID]
	return conn, ok
}

// Remove 注销用户并清理其缓存，可重复调用
func (h *Hub) Remove(userID uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(userID)
}

func (h *Hub) removeLocked(userID uint64) {
	delete(h.conns, userID)
	delete(h.contacts, userID)
	delete(h.present, userID)
	delete(h.contactSeq, userID)
	delete(h.presenceSeq, userID)
}

func (h *Hub) registeredLocked(userID uint64) bool {
	_, ok := h.conns[userID]
	return ok
}
