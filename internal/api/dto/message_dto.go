package dto

import "time"

// SendMessageDTO 发送消息请求体，至少包含一种内容
type SendMessageDTO struct {
	Ciphertext      string `json:"ciphertext,omitempty" validate:"omitempty,base64"`
	Nonce           string `json:"nonce,omitempty" validate:"omitempty,base64"`
	Image           string `json:"image,omitempty"`
	ImageCiphertext string `json:"imageCiphertext,omitempty" validate:"omitempty,base64"`
	ImageNonce      string `json:"imageNonce,omitempty" validate:"omitempty,base64"`
}

// MessageDTO 消息明细，也是 newMessage 推送的负载
type MessageDTO struct {
	ID                string     `json:"id"`
	SenderID          uint64     `json:"senderId"`
	ReceiverID        uint64     `json:"receiverId"`
	Text              string     `json:"text,omitempty"`
	Ciphertext        string     `json:"ciphertext,omitempty"`
	Nonce             string     `json:"nonce,omitempty"`
	EncryptionVersion int        `json:"encryptionVersion"`
	ImageCiphertext   string     `json:"imageCiphertext,omitempty"`
	ImageNonce        string     `json:"imageNonce,omitempty"`
	Image             string     `json:"image,omitempty"`
	ReadAt            *time.Time `json:"readAt"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}
