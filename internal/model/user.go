package model

import (
	"time"
)

type User struct {
	ID                  uint64 `gorm:"primaryKey"`
	FullName            string `gorm:"type:varchar(100);not null"`
	Email               string `gorm:"type:varchar(255);uniqueIndex:idx_email;not null"`
	Password            string `gorm:"type:varchar(255);not null"`
	ProfilePic          string `gorm:"type:varchar(512);default:''"`
	EncryptionPublicKey string `gorm:"type:varchar(64);default:''"`
	SharePresence       bool   `gorm:"type:tinyint(1);default:1;not null"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (User) TableName() string {
	return "users"
}
