package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo interface {
	SaveMessage(ctx context.Context, msg *Message) error
	GetMessageByID(ctx context.Context, id string) (*Message, error)
	DeleteMessage(ctx context.Context, id string) error
	GetConversation(ctx context.Context, userID, peerID uint64) ([]*Message, error)
	MarkAsRead(ctx context.Context, senderID, receiverID uint64, at time.Time) (int64, error)
	CountUnread(ctx context.Context, senderID, receiverID uint64) (int64, error)
	DeleteFromTo(ctx context.Context, senderID, receiverID uint64) (int64, error)
	DeleteAllForUser(ctx context.Context, userID uint64) (int64, error)
}

type messageRepoImpl struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepoImpl{
		col: db.Collection("messages"),
	}
}

// EnsureIndexes 会话查询与未读计数都按 (sender_id, receiver_id) 过滤
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("messages").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender_id", Value: 1}, {Key: "receiver_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "read_at", Value: 1}}},
	})
	return errors.Wrap(err, "create message indexes")
}

// SaveMessage 写入消息，回填 ObjectID
func (s *messageRepoImpl) SaveMessage(ctx context.Context, msg *Message) error {
	res, err := s.col.InsertOne(ctx, msg)
	if err != nil {
		return errors.Wrap(err, "insert message")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

// GetMessageByID 不存在或 id 非法时返回 nil, nil
func (s *messageRepoImpl) GetMessageByID(ctx context.Context, id string) (*Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	var msg Message
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&msg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "find message %s", id)
	}
	return &msg, nil
}

func (s *messageRepoImpl) DeleteMessage(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrapf(err, "invalid message id %q", id)
	}
	_, err = s.col.DeleteOne(ctx, bson.M{"_id": oid})
	return errors.Wrapf(err, "delete message %s", id)
}

// GetConversation 双向消息，按发送时间升序
func (s *messageRepoImpl) GetConversation(ctx context.Context, userID, peerID uint64) ([]*Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userID, "receiver_id": peerID},
		bson.M{"sender_id": peerID, "receiver_id": userID},
	}}
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "find conversation")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	messages := make([]*Message, 0)
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, errors.Wrap(err, "decode conversation")
	}
	return messages, nil
}

// MarkAsRead 将 sender -> receiver 的未读消息全部置为已读
func (s *messageRepoImpl) MarkAsRead(ctx context.Context, senderID, receiverID uint64, at time.Time) (int64, error) {
	res, err := s.col.UpdateMany(ctx,
		bson.M{"sender_id": senderID, "receiver_id": receiverID, "read_at": nil},
		bson.M{"$set": bson.M{"read_at": at, "updated_at": at}},
	)
	if err != nil {
		return 0, errors.Wrap(err, "mark read")
	}
	return res.ModifiedCount, nil
}

func (s *messageRepoImpl) CountUnread(ctx context.Context, senderID, receiverID uint64) (int64, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{"sender_id": senderID, "receiver_id": receiverID, "read_at": nil})
	return n, errors.Wrap(err, "count unread")
}

// DeleteFromTo 只删除 sender 发给 receiver 的单向消息
func (s *messageRepoImpl) DeleteFromTo(ctx context.Context, senderID, receiverID uint64) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"sender_id": senderID, "receiver_id": receiverID})
	if err != nil {
		return 0, errors.Wrap(err, "delete conversation")
	}
	return res.DeletedCount, nil
}

func (s *messageRepoImpl) DeleteAllForUser(ctx context.Context, userID uint64) (int64, error) {
	res, err := s.col.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"sender_id": userID},
		bson.M{"receiver_id": userID},
	}})
	if err != nil {
		return 0, errors.Wrap(err, "delete user messages")
	}
	return res.DeletedCount, nil
}
