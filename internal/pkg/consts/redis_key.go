package consts

const (
	// AuthRevokedTokenKey 登出后被吊销的 token 签名，TTL 与 token 剩余有效期一致
	AuthRevokedTokenKey = "auth:revoked:"
)

const (
	// PresenceStatsKey 最近一次在线统计快照
	PresenceStatsKey = "presence:stats"
)
