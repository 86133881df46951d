package service

import (
	"Cipherchat/internal/api/dto"
	"Cipherchat/internal/model"
	"Cipherchat/internal/pkg/e2ee"
	"Cipherchat/internal/pkg/minio"
	"Cipherchat/internal/pkg/mongo"
	"Cipherchat/internal/pkg/redis"
	"Cipherchat/internal/pkg/security"
	"Cipherchat/internal/pkg/util"
	"Cipherchat/internal/repository"
	"bytes"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type UserService interface {
	Signup(ctx context.Context, dto *dto.SignupDTO) (*dto.AuthResultDTO, error)
	Login(ctx context.Context, dto *dto.LoginDTO) (*dto.AuthResultDTO, error)
	Logout(ctx context.Context, token string) error
	ResolveIdentity(ctx context.Context, token string) (uint64, error)
	GetUser(ctx context.Context, id uint64) (*dto.UserDTO, error)
	UpdateProfile(ctx context.Context, id uint64, dto *dto.UpdateProfileDTO) (*dto.UserDTO, error)
	UpdatePublicKey(ctx context.Context, id uint64, dto *dto.PublicKeyDTO) (*dto.UserDTO, error)
	UpdatePreferences(ctx context.Context, id uint64, dto *dto.PreferencesDTO) (*dto.UserDTO, error)
	DeleteAccount(ctx context.Context, id uint64, token string) error
}

type UserServiceImpl struct {
	userRepo    repository.UserRepo
	messageRepo mongo.MessageRepo
	tokens      redis.TokenStore
	storage     minio.Storage
	notifier    Notifier
}

func NewUserService(
	userRepo repository.UserRepo,
	messageRepo mongo.MessageRepo,
	tokens redis.TokenStore,
	storage minio.Storage,
	notifier Notifier,
) UserService {
	return &UserServiceImpl{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		tokens:      tokens,
		storage:     storage,
		notifier:    notifier,
	}
}

func (s *UserServiceImpl) Signup(ctx context.Context, signupDTO *dto.SignupDTO) (*dto.AuthResultDTO, error) {
	email := normalizeEmail(signupDTO.Email)
	exist, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExist
	}
	if signupDTO.PublicKey != "" {
		if err = e2ee.ValidatePublicKey(signupDTO.PublicKey); err != nil {
			return nil, ErrInvalidPublicKey
		}
	}

	passwordHash, err := security.HashPassword(signupDTO.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		FullName:            strings.TrimSpace(signupDTO.FullName),
		Email:               email,
		Password:            passwordHash,
		EncryptionPublicKey: signupDTO.PublicKey,
		SharePresence:       true,
	}
	if err = s.userRepo.CreateUser(ctx, user); err != nil {
		// 并发注册同一邮箱时由唯一索引兜底
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return nil, ErrEmailExist
		}
		return nil, err
	}

	return s.issueToken(user)
}

func (s *UserServiceImpl) Login(ctx context.Context, loginDTO *dto.LoginDTO) (*dto.AuthResultDTO, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(loginDTO.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err = security.CheckPasswordHash(loginDTO.Password, user.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueToken(user)
}

func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return UnauthorizedError
	}
	return s.tokens.Revoke(ctx, signature, security.TokenTTL())
}

// ResolveIdentity 校验 token 并检查是否已注销
func (s *UserServiceImpl) ResolveIdentity(ctx context.Context, token string) (uint64, error) {
	if token == "" {
		return 0, UnauthorizedError
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		return 0, UnauthorizedError
	}
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return 0, UnauthorizedError
	}
	revoked, err := s.tokens.IsRevoked(ctx, signature)
	if err != nil {
		return 0, err
	}
	if revoked {
		return 0, UnauthorizedError
	}
	return claims.UserID, nil
}

func (s *UserServiceImpl) GetUser(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(user)
}

// UpdateProfile 头像统一裁剪后上传，旧头像尽量清理
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, id uint64, profileDTO *dto.UpdateProfileDTO) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	raw, _, err := util.DecodeDataURL(profileDTO.ProfilePic)
	if err != nil {
		return nil, ErrInvalidImage
	}
	avatar, err := util.NormalizeAvatar(raw)
	if err != nil {
		return nil, ErrInvalidImage
	}

	objectName := fmt.Sprintf("avatars/%d/%s.jpg", id, uuid.NewString())
	url, err := s.storage.Upload(ctx, objectName, bytes.NewReader(avatar), int64(len(avatar)), "image/jpeg")
	if err != nil {
		return nil, err
	}

	updated, err := s.userRepo.UpdateFields(ctx, id, map[string]any{"profile_pic": url})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	s.removeObject(ctx, user.ProfilePic)
	return toUserDTO(updated)
}

func (s *UserServiceImpl) UpdatePublicKey(ctx context.Context, id uint64, keyDTO *dto.PublicKeyDTO) (*dto.UserDTO, error) {
	if err := e2ee.ValidatePublicKey(keyDTO.PublicKey); err != nil {
		return nil, ErrInvalidPublicKey
	}
	updated, err := s.userRepo.UpdateFields(ctx, id, map[string]any{"encryption_public_key": keyDTO.PublicKey})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return toUserDTO(updated)
}

// UpdatePreferences 持久化后立即让在线联系人看到变化
func (s *UserServiceImpl) UpdatePreferences(ctx context.Context, id uint64, prefDTO *dto.PreferencesDTO) (*dto.UserDTO, error) {
	if prefDTO.SharePresence == nil {
		return nil, ErrParamInvalid
	}
	updated, err := s.userRepo.UpdateFields(ctx, id, map[string]any{"share_presence": *prefDTO.SharePresence})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	s.notifier.PresencePreferenceChanged(ctx, id)
	return toUserDTO(updated)
}

// DeleteAccount 删除往来消息、联系人关系与用户本身，并注销当前 token
func (s *UserServiceImpl) DeleteAccount(ctx context.Context, id uint64, token string) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if _, err = s.messageRepo.DeleteAllForUser(ctx, id); err != nil {
		return err
	}
	if err = s.userRepo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.removeObject(ctx, user.ProfilePic)

	if token != "" {
		if err = s.Logout(ctx, token); err != nil {
			log.WarnContext(ctx, "注销 token 失败", "userID", id, "err", err)
		}
	}
	// 用户已不存在，重新同步即从在线集合中移除
	s.notifier.PresencePreferenceChanged(ctx, id)
	return nil
}

func (s *UserServiceImpl) issueToken(user *model.User) (*dto.AuthResultDTO, error) {
	token, err := security.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	userDTO, err := toUserDTO(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResultDTO{User: userDTO, Token: token}, nil
}

func (s *UserServiceImpl) removeObject(ctx context.Context, url string) {
	objectName, ok := minio.ObjectNameFromURL(url)
	if !ok {
		return
	}
	if err := s.storage.Remove(ctx, objectName); err != nil {
		log.WarnContext(ctx, "删除旧对象失败", "object", objectName, "err", err)
	}
}

func toUserDTO(user *model.User) (*dto.UserDTO, error) {
	userDTO := &dto.UserDTO{}
	if err := copier.Copy(userDTO, user); err != nil {
		return nil, err
	}
	return userDTO, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
