package model

import "time"

// UserContact 单向联系人关系：OwnerID 的联系人列表中包含 ContactID
type UserContact struct {
	OwnerID   uint64    `gorm:"primaryKey" json:"ownerId"`
	ContactID uint64    `gorm:"primaryKey;index:idx_contact_id" json:"contactId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (UserContact) TableName() string {
	return "user_contacts"
}
