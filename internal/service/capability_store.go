package service

import (
	"Cipherchat/internal/realtime"
	"Cipherchat/internal/repository"
	"context"
)

type capabilityStoreImpl struct {
	userRepo    repository.UserRepo
	contactRepo repository.ContactRepo
}

// NewCapabilityStore 为 Hub 提供联系人与在线偏好
func NewCapabilityStore(userRepo repository.UserRepo, contactRepo repository.ContactRepo) realtime.CapabilityStore {
	return &capabilityStoreImpl{
		userRepo:    userRepo,
		contactRepo: contactRepo,
	}
}

func (s *capabilityStoreImpl) FindUserContacts(ctx context.Context, userID uint64) ([]uint64, error) {
	return s.contactRepo.ListContactIDs(ctx, userID)
}

// ReadPresenceOptIn 用户不存在时返回错误，Hub 会按不可见处理
func (s *capabilityStoreImpl) ReadPresenceOptIn(ctx context.Context, userID uint64) (bool, error) {
	return s.userRepo.GetSharePresence(ctx, userID)
}
