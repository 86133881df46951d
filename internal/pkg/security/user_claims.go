package security

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultJWTSecret         = "Cipherchat"
	defaultJWTExpirationTime = time.Hour * 24 * 7
	jwtIssuer                = "Cipherchat"
)

// UserClaims Token 中携带的业务信息
type UserClaims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}
