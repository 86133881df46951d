package consts

const (
	MimePrefixImage = "image"
)

const (
	// UserIDKey gin.Context / context.Context 中的当前用户 ID
	UserIDKey = "user_id"
	// AuthTokenKey gin.Context 中的原始 token，注销时使用
	AuthTokenKey = "auth_token"
	// AuthCookieName 登录态 Cookie
	AuthCookieName = "jwt"
)

const (
	// EncryptionVersion 当前消息加密格式版本（NaCl box）
	EncryptionVersion = 1
)
