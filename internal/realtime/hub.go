package realtime

import (
	"context"
	log "log/slog"
	"sync"
	"time"
)

const defaultStoreTimeout = 3 * time.Second

// Hub 维护连接表、联系人缓存与在线集合
// 三者由同一把锁保护，存储读取在锁外进行，结果只在用户仍在线且没有更新的读取开始时写回
type Hub struct {
	store        CapabilityStore
	storeTimeout time.Duration

	mu       sync.Mutex
	conns    map[uint64]Conn
	contacts map[uint64]map[uint64]struct{}
	present  map[uint64]struct{}

	// 每个在线用户最近一次联系人/在线设置读取的序号
	syncSeq     uint64
	contactSeq  map[uint64]uint64
	presenceSeq map[uint64]uint64
}

// Stats 在线统计快照
type Stats struct {
	Connections    int
	Present        int
	CachedContacts int
}

func NewHub(store CapabilityStore, storeTimeout time.Duration) *Hub {
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &Hub{
		store:        store,
		storeTimeout: storeTimeout,
		conns:        make(map[uint64]Conn),
		contacts:     make(map[uint64]map[uint64]struct{}),
		present:      make(map[uint64]struct{}),
		contactSeq:   make(map[uint64]uint64),
		presenceSeq:  make(map[uint64]uint64),
	}
}

// Connect 注册连接，加载联系人并同步在线状态，然后全量广播
func (h *Hub) Connect(ctx context.Context, userID uint64, conn Conn) {
	h.Register(userID, conn)
	log.InfoContext(ctx, "用户 WS 连接已建立", "userID", userID, "conn", conn.ID())

	h.LoadContacts(ctx, userID)
	h.SyncPresence(ctx, userID)
	h.BroadcastAll()
}

// Disconnect 连接关闭时调用，连接已被替换则不做任何事
func (h *Hub) Disconnect(ctx context.Context, userID uint64, conn Conn) {
	h.mu.Lock()
	current, ok := h.conns[userID]
	if !ok || current != conn {
		h.mu.Unlock()
		log.DebugContext(ctx, "过期连接关闭，忽略", "userID", userID, "conn", conn.ID())
		return
	}
	h.removeLocked(userID)
	h.broadcastLocked()
	h.mu.Unlock()

	log.InfoContext(ctx, "用户 WS 连接已断开", "userID", userID, "conn", conn.ID())
}

// PresencePreferenceChanged 用户修改在线可见设置后重新同步并广播
func (h *Hub) PresencePreferenceChanged(ctx context.Context, userID uint64) {
	h.SyncPresence(ctx, userID)
	h.BroadcastAll()
}

// RefreshContactsPresence 联系人变化后重新加载并只推送给该用户
func (h *Hub) RefreshContactsPresence(ctx context.Context, userID uint64) {
	h.LoadContacts(ctx, userID)
	h.PushTo(userID)
}

// CloseAll 关闭所有连接，各自的读协程随后完成注销
func (h *Hub) CloseAll() {
	h.mu.Lock()
	conns := make([]Conn, 0, len(h.conns))
	for _, conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

func (h *Hub) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		Connections:    len(h.conns),
		Present:        len(h.present),
		CachedContacts: len(h.contacts),
	}
}

// beginSyncLocked 为一次存储读取分配序号，用户未注册时不读取
func (h *Hub) beginSyncLocked(seqs map[uint64]uint64, userID uint64) (uint64, bool) {
	if !h.registeredLocked(userID) {
		return 0, false
	}
	h.syncSeq++
	seqs[userID] = h.syncSeq
	return h.syncSeq, true
}

func (h *Hub) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, h.storeTimeout)
}
