package dto

import "time"

type UserDTO struct {
	ID                  uint64    `json:"id"`
	FullName            string    `json:"fullName"`
	Email               string    `json:"email"`
	ProfilePic          string    `json:"profilePic"`
	EncryptionPublicKey string    `json:"encryptionPublicKey"`
	SharePresence       bool      `json:"sharePresence"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// AuthResultDTO 登录与注册的返回体，token 同时写入 cookie
type AuthResultDTO struct {
	User  *UserDTO `json:"user"`
	Token string   `json:"token"`
}
