package redis

import (
	"Cipherchat/internal/pkg/consts"
	"context"
	"time"
)

// TokenStore 已注销 token 的签名黑名单
type TokenStore interface {
	Revoke(ctx context.Context, signature string, ttl time.Duration) error
	IsRevoked(ctx context.Context, signature string) (bool, error)
}

type tokenStoreImpl struct{}

func NewTokenStore() TokenStore {
	return &tokenStoreImpl{}
}

func (s *tokenStoreImpl) Revoke(ctx context.Context, signature string, ttl time.Duration) error {
	return SetWithExpiration(ctx, consts.AuthRevokedTokenKey+signature, 1, ttl)
}

func (s *tokenStoreImpl) IsRevoked(ctx context.Context, signature string) (bool, error) {
	return Exists(ctx, consts.AuthRevokedTokenKey+signature)
}
