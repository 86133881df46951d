package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message 私聊消息文档，正文只保存客户端加密后的密文
type Message struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	SenderID          uint64             `bson:"sender_id"`
	ReceiverID        uint64             `bson:"receiver_id"`
	Text              string             `bson:"text,omitempty"` // 历史明文消息，仅兼容读取
	Ciphertext        string             `bson:"ciphertext,omitempty"`
	Nonce             string             `bson:"nonce,omitempty"`
	EncryptionVersion int                `bson:"encryption_version"`
	ImageCiphertext   string             `bson:"image_ciphertext,omitempty"`
	ImageNonce        string             `bson:"image_nonce,omitempty"`
	Image             string             `bson:"image,omitempty"` // 未加密图片的对象存储地址
	ReadAt            *time.Time         `bson:"read_at"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}
