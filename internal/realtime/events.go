package realtime

import (
	"Cipherchat/internal/api/dto"
	"fmt"

	"github.com/goccy/go-json"
)

const (
	EventOnlineUsers        = "getOnlineUsers"
	EventNewMessage         = "newMessage"
	EventMessageDeleted     = "messageDeleted"
	EventConversationPurged = "conversationPurged"

	// EventPresencePreferenceUpdated 客户端上行事件，无负载
	EventPresencePreferenceUpdated = "presencePreferenceUpdated"
)

// Event 下行事件，只能是本包定义的几种类型
type Event interface {
	eventName() string
}

// OnlineUsers 当前可见的在线联系人
type OnlineUsers struct {
	UserIDs []uint64
}

type NewMessage struct {
	Message *dto.MessageDTO
}

type MessageDeleted struct {
	MessageID string `json:"messageId"`
}

// ConversationPurged FromUserID 移除了联系人 TargetUserID
type ConversationPurged struct {
	FromUserID   uint64 `json:"fromUserId"`
	TargetUserID uint64 `json:"targetUserId"`
}

func (OnlineUsers) eventName() string        { return EventOnlineUsers }
func (NewMessage) eventName() string         { return EventNewMessage }
func (MessageDeleted) eventName() string     { return EventMessageDeleted }
func (ConversationPurged) eventName() string { return EventConversationPurged }

// EventName 事件在线路上的名称
func EventName(ev Event) string {
	return ev.eventName()
}

type frame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Encode 编码为 {"event": ..., "data": ...} 文本帧
func Encode(ev Event) ([]byte, error) {
	var f frame
	switch e := ev.(type) {
	case OnlineUsers:
		ids := e.UserIDs
		if ids == nil {
			ids = []uint64{}
		}
		f = frame{Event: EventOnlineUsers, Data: ids}
	case NewMessage:
		if e.Message == nil {
			return nil, fmt.Errorf("realtime: %s without message", EventNewMessage)
		}
		f = frame{Event: EventNewMessage, Data: e.Message}
	case MessageDeleted:
		f = frame{Event: EventMessageDeleted, Data: e}
	case ConversationPurged:
		f = frame{Event: EventConversationPurged, Data: e}
	default:
		return nil, fmt.Errorf("realtime: unknown event %T", ev)
	}
	return json.Marshal(f)
}

// Inbound 客户端上行帧
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// DecodeInbound 解析上行帧，缺少事件名视为非法
func DecodeInbound(raw []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return Inbound{}, err
	}
	if in.Event == "" {
		return Inbound{}, fmt.Errorf("realtime: frame without event")
	}
	return in, nil
}
