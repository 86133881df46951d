package realtime

import "context"

// CapabilityStore 联系人与在线偏好的持久化来源
type CapabilityStore interface {
	FindUserContacts(ctx context.Context, userID uint64) ([]uint64, error)
	ReadPresenceOptIn(ctx context.Context, userID uint64) (bool, error)
}

// Conn 一个已建立的长连接
type Conn interface {
	// ID 连接标识，仅用于日志
	ID() string
	// Send 非阻塞入队，连接已关闭或被判定为慢消费者时返回 false
	Send(ev Event) bool
	Close()
}
