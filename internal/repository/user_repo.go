package repository

import (
	"Cipherchat/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type UserRepo interface {
	GetUserById(ctx context.Context, id uint64) (*model.User, error)
	GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetSharePresence(ctx context.Context, id uint64) (bool, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateFields(ctx context.Context, id uint64, fields map[string]any) (*model.User, error)
	DeleteUser(ctx context.Context, id uint64) error
}

type UserRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &UserRepoImpl{db: db}
}

// ErrUserMissing 读取在线偏好时用户不存在
var ErrUserMissing = errors.New("user missing")

func (s *UserRepoImpl) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).First(user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

func (s *UserRepoImpl) GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	users := make([]*model.User, 0, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	result := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("full_name asc").
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

func (s *UserRepoImpl) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).
		Where("email = ?", email).
		First(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return user, nil
}

// GetSharePresence 只读取 share_presence 一列，用户不存在返回 ErrUserMissing
func (s *UserRepoImpl) GetSharePresence(ctx context.Context, id uint64) (bool, error) {
	var flags []bool
	result := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Limit(1).
		Pluck("share_presence", &flags)
	if result.Error != nil {
		return false, result.Error
	}
	if len(flags) == 0 {
		return false, ErrUserMissing
	}
	return flags[0], nil
}

func (s *UserRepoImpl) CreateUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// UpdateFields 按列更新并返回最新记录，用户不存在返回 nil, nil
func (s *UserRepoImpl) UpdateFields(ctx context.Context, id uint64, fields map[string]any) (*model.User, error) {
	result := s.db.WithContext(ctx).
		Model(&model.User{ID: id}).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	return s.GetUserById(ctx, id)
}

// DeleteUser 删除用户及其双向的联系人关系
func (s *UserRepoImpl) DeleteUser(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ? OR contact_id = ?", id, id).
			Delete(&model.UserContact{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, id).Error
	})
}
