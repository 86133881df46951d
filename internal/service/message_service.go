package service

import (
	"Cipherchat/internal/api/dto"
	"Cipherchat/internal/pkg/consts"
	"Cipherchat/internal/pkg/e2ee"
	"Cipherchat/internal/pkg/minio"
	"Cipherchat/internal/pkg/mongo"
	"Cipherchat/internal/pkg/util"
	"Cipherchat/internal/realtime"
	"Cipherchat/internal/repository"
	"bytes"
	"context"
	"fmt"
	log "log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MessageService interface {
	GetSidebarContacts(ctx context.Context, userID uint64) ([]*dto.ContactDTO, error)
	GetMessages(ctx context.Context, userID, peerID uint64) ([]*dto.MessageDTO, error)
	SendMessage(ctx context.Context, senderID, receiverID uint64, dto *dto.SendMessageDTO) (*dto.MessageDTO, error)
	DeleteMessage(ctx context.Context, userID uint64, messageID string) error
}

type MessageServiceImpl struct {
	userRepo    repository.UserRepo
	contactRepo repository.ContactRepo
	messageRepo mongo.MessageRepo
	storage     minio.Storage
	notifier    Notifier
	now         func() time.Time
}

func NewMessageService(
	userRepo repository.UserRepo,
	contactRepo repository.ContactRepo,
	messageRepo mongo.MessageRepo,
	storage minio.Storage,
	notifier Notifier,
) MessageService {
	return &MessageServiceImpl{
		userRepo:    userRepo,
		contactRepo: contactRepo,
		messageRepo: messageRepo,
		storage:     storage,
		notifier:    notifier,
		now:         time.Now,
	}
}

// GetSidebarContacts 联系人列表，附带对方发来的未读数
func (s *MessageServiceImpl) GetSidebarContacts(ctx context.Context, userID uint64) ([]*dto.ContactDTO, error) {
	ids, err := s.contactRepo.ListContactIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.GetUserByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	contacts := make([]*dto.ContactDTO, 0, len(users))
	for _, user := range users {
		unread, err := s.messageRepo.CountUnread(ctx, user.ID, userID)
		if err != nil {
			return nil, err
		}
		userDTO, err := toUserDTO(user)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, &dto.ContactDTO{UserDTO: *userDTO, UnreadCount: unread})
	}
	return contacts, nil
}

// GetMessages 按时间升序返回会话，并把对方发来的消息标记为已读
func (s *MessageServiceImpl) GetMessages(ctx context.Context, userID, peerID uint64) ([]*dto.MessageDTO, error) {
	if err := s.requireContact(ctx, userID, peerID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.GetConversation(ctx, userID, peerID)
	if err != nil {
		return nil, err
	}
	if _, err = s.messageRepo.MarkAsRead(ctx, peerID, userID, s.now()); err != nil {
		return nil, err
	}

	result := make([]*dto.MessageDTO, 0, len(messages))
	for _, msg := range messages {
		msgDTO, err := toMessageDTO(msg)
		if err != nil {
			return nil, err
		}
		result = append(result, msgDTO)
	}
	return result, nil
}

// SendMessage 保存消息，接收方自动获得发送方为联系人，在线时推送 newMessage
func (s *MessageServiceImpl) SendMessage(ctx context.Context, senderID, receiverID uint64, sendDTO *dto.SendMessageDTO) (*dto.MessageDTO, error) {
	if err := s.requireContact(ctx, senderID, receiverID); err != nil {
		return nil, err
	}
	if err := validateContent(sendDTO); err != nil {
		return nil, err
	}

	msg := &mongo.Message{
		SenderID:          senderID,
		ReceiverID:        receiverID,
		Ciphertext:        sendDTO.Ciphertext,
		Nonce:             sendDTO.Nonce,
		ImageCiphertext:   sendDTO.ImageCiphertext,
		ImageNonce:        sendDTO.ImageNonce,
		EncryptionVersion: consts.EncryptionVersion,
	}
	if sendDTO.Image != "" {
		url, err := s.uploadImage(ctx, senderID, sendDTO.Image)
		if err != nil {
			return nil, err
		}
		msg.Image = url
	}
	now := s.now()
	msg.CreatedAt = now
	msg.UpdatedAt = now

	if err := s.messageRepo.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}

	// 消息已落库，接收方联系人写入失败时仍按失败返回，不推送
	added, err := s.contactRepo.AddContact(ctx, receiverID, senderID)
	if err != nil {
		log.ErrorContext(ctx, "为接收方添加联系人失败", "receiverID", receiverID, "senderID", senderID, "err", err)
		return nil, fmt.Errorf("add implicit contact: %w", err)
	}
	if added {
		s.notifier.RefreshContactsPresence(ctx, receiverID)
	}

	msgDTO, err := toMessageDTO(msg)
	if err != nil {
		return nil, err
	}
	s.notifier.Deliver(receiverID, realtime.NewMessage{Message: msgDTO})
	return msgDTO, nil
}

// DeleteMessage 只有发送方能删除，双方都会收到 messageDeleted
func (s *MessageServiceImpl) DeleteMessage(ctx context.Context, userID uint64, messageID string) error {
	msg, err := s.messageRepo.GetMessageByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if msg.SenderID != userID {
		return ErrDeleteOthersMessage
	}
	if err = s.messageRepo.DeleteMessage(ctx, messageID); err != nil {
		return err
	}

	ev := realtime.MessageDeleted{MessageID: messageID}
	s.notifier.Deliver(msg.ReceiverID, ev)
	s.notifier.Deliver(userID, ev)
	return nil
}

func (s *MessageServiceImpl) requireContact(ctx context.Context, userID, peerID uint64) error {
	ok, err := s.contactRepo.IsContact(ctx, userID, peerID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotContact
	}
	return nil
}

func (s *MessageServiceImpl) uploadImage(ctx context.Context, senderID uint64, dataURL string) (string, error) {
	data, mime, err := util.DecodeDataURL(dataURL)
	if err != nil {
		return "", ErrInvalidImage
	}
	objectName := fmt.Sprintf("images/%d/%s%s", senderID, uuid.NewString(), util.ExtensionForMime(mime))
	return s.storage.Upload(ctx, objectName, bytes.NewReader(data), int64(len(data)), mime)
}

func validateContent(sendDTO *dto.SendMessageDTO) error {
	if sendDTO.Ciphertext == "" && sendDTO.Image == "" && sendDTO.ImageCiphertext == "" {
		return ErrEmptyMessage
	}
	if sendDTO.Ciphertext != "" {
		if sendDTO.Nonce == "" {
			return ErrNonceRequired
		}
		if e2ee.ValidateNonce(sendDTO.Nonce) != nil {
			return ErrInvalidNonce
		}
	}
	if sendDTO.ImageCiphertext != "" {
		if sendDTO.ImageNonce == "" {
			return ErrNonceRequired
		}
		if e2ee.ValidateNonce(sendDTO.ImageNonce) != nil {
			return ErrInvalidNonce
		}
	}
	return nil
}

var objectIDConverter = copier.TypeConverter{
	SrcType: primitive.ObjectID{},
	DstType: copier.String,
	Fn: func(src any) (any, error) {
		return src.(primitive.ObjectID).Hex(), nil
	},
}

func toMessageDTO(msg *mongo.Message) (*dto.MessageDTO, error) {
	msgDTO := &dto.MessageDTO{}
	err := copier.CopyWithOption(msgDTO, msg, copier.Option{
		Converters: []copier.TypeConverter{objectIDConverter},
	})
	if err != nil {
		return nil, err
	}
	return msgDTO, nil
}
