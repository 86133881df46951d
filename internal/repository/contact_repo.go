package repository

import (
	"Cipherchat/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContactRepo interface {
	ListContactIDs(ctx context.Context, ownerID uint64) ([]uint64, error)
	IsContact(ctx context.Context, ownerID, contactID uint64) (bool, error)
	AddContact(ctx context.Context, ownerID, contactID uint64) (bool, error)
	RemoveContact(ctx context.Context, ownerID, contactID uint64) (bool, error)
}

type ContactRepoImpl struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) ContactRepo {
	return &ContactRepoImpl{db: db}
}

// ListContactIDs 按加入顺序返回联系人 ID
func (s *ContactRepoImpl) ListContactIDs(ctx context.Context, ownerID uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := s.db.WithContext(ctx).
		Model(&model.UserContact{}).
		Where("owner_id = ?", ownerID).
		Order("created_at asc, contact_id asc").
		Pluck("contact_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *ContactRepoImpl) IsContact(ctx context.Context, ownerID, contactID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.UserContact{}).
		Where("owner_id = ? AND contact_id = ?", ownerID, contactID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AddContact 幂等添加，返回是否新增
func (s *ContactRepoImpl) AddContact(ctx context.Context, ownerID, contactID uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.UserContact{OwnerID: ownerID, ContactID: contactID})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RemoveContact 返回是否实际删除
func (s *ContactRepoImpl) RemoveContact(ctx context.Context, ownerID, contactID uint64) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("owner_id = ? AND contact_id = ?", ownerID, contactID).
		Delete(&model.UserContact{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
