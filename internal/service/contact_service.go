package service

import (
	"Cipherchat/internal/api/dto"
	"Cipherchat/internal/pkg/mongo"
	"Cipherchat/internal/realtime"
	"Cipherchat/internal/repository"
	"context"
	log "log/slog"
)

type ContactService interface {
	AddContact(ctx context.Context, userID uint64, dto *dto.AddContactDTO) (*dto.ContactDTO, error)
	RemoveContact(ctx context.Context, userID, contactID uint64) error
}

type ContactServiceImpl struct {
	userRepo    repository.UserRepo
	contactRepo repository.ContactRepo
	messageRepo mongo.MessageRepo
	notifier    Notifier
}

func NewContactService(
	userRepo repository.UserRepo,
	contactRepo repository.ContactRepo,
	messageRepo mongo.MessageRepo,
	notifier Notifier,
) ContactService {
	return &ContactServiceImpl{
		userRepo:    userRepo,
		contactRepo: contactRepo,
		messageRepo: messageRepo,
		notifier:    notifier,
	}
}

// AddContact 通过邮箱添加联系人，返回联系人信息与其发来的未读数
func (s *ContactServiceImpl) AddContact(ctx context.Context, userID uint64, addDTO *dto.AddContactDTO) (*dto.ContactDTO, error) {
	target, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(addDTO.Email))
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}
	if target.ID == userID {
		return nil, ErrAddSelf
	}

	if _, err = s.contactRepo.AddContact(ctx, userID, target.ID); err != nil {
		return nil, err
	}
	unread, err := s.messageRepo.CountUnread(ctx, target.ID, userID)
	if err != nil {
		return nil, err
	}

	s.notifier.RefreshContactsPresence(ctx, userID)

	userDTO, err := toUserDTO(target)
	if err != nil {
		return nil, err
	}
	return &dto.ContactDTO{UserDTO: *userDTO, UnreadCount: unread}, nil
}

// RemoveContact 移除联系人并清空自己发给对方的消息，双方都会收到 conversationPurged
func (s *ContactServiceImpl) RemoveContact(ctx context.Context, userID, contactID uint64) error {
	contact, err := s.userRepo.GetUserById(ctx, contactID)
	if err != nil {
		return err
	}
	if contact == nil {
		return ErrContactNotFound
	}

	if _, err = s.contactRepo.RemoveContact(ctx, userID, contactID); err != nil {
		return err
	}
	purged, err := s.messageRepo.DeleteFromTo(ctx, userID, contactID)
	if err != nil {
		return err
	}
	log.InfoContext(ctx, "联系人已移除", "userID", userID, "contactID", contactID, "purged", purged)

	s.notifier.RefreshContactsPresence(ctx, userID)

	ev := realtime.ConversationPurged{FromUserID: userID, TargetUserID: contactID}
	s.notifier.Deliver(contactID, ev)
	s.notifier.Deliver(userID, ev)
	return nil
}
