package service

import (
	"Cipherchat/internal/model"
	"Cipherchat/internal/pkg/mongo"
	"Cipherchat/internal/realtime"
	"Cipherchat/internal/repository"
	"context"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type delivered struct {
	UserID uint64
	Event  realtime.Event
}

// recordingNotifier 记录推送，同时可选地转发给真实 Hub
type recordingNotifier struct {
	mu         sync.Mutex
	deliveries []delivered
	refreshed  []uint64
	prefs      []uint64
	hub        *realtime.Hub
}

func (n *recordingNotifier) Deliver(userID uint64, ev realtime.Event) {
	n.mu.Lock()
	n.deliveries = append(n.deliveries, delivered{UserID: userID, Event: ev})
	n.mu.Unlock()
	if n.hub != nil {
		n.hub.Deliver(userID, ev)
	}
}

func (n *recordingNotifier) RefreshContactsPresence(ctx context.Context, userID uint64) {
	n.mu.Lock()
	n.refreshed = append(n.refreshed, userID)
	n.mu.Unlock()
	if n.hub != nil {
		n.hub.RefreshContactsPresence(ctx, userID)
	}
}

func (n *recordingNotifier) PresencePreferenceChanged(ctx context.Context, userID uint64) {
	n.mu.Lock()
	n.prefs = append(n.prefs, userID)
	n.mu.Unlock()
	if n.hub != nil {
		n.hub.PresencePreferenceChanged(ctx, userID)
	}
}

type memoryMessageRepo struct {
	mu   sync.Mutex
	msgs map[string]*mongo.Message
}

func newMemoryMessageRepo() *memoryMessageRepo {
	return &memoryMessageRepo{msgs: make(map[string]*mongo.Message)}
}

func (r *memoryMessageRepo) SaveMessage(_ context.Context, msg *mongo.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = primitive.NewObjectID()
	cp := *msg
	r.msgs[msg.ID.Hex()] = &cp
	return nil
}

func (r *memoryMessageRepo) GetMessageByID(_ context.Context, id string) (*mongo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.msgs[id]
	if !ok {
		return nil, nil
	}
	cp := *msg
	return &cp, nil
}

func (r *memoryMessageRepo) DeleteMessage(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.msgs, id)
	return nil
}

func (r *memoryMessageRepo) GetConversation(_ context.Context, userID, peerID uint64) ([]*mongo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*mongo.Message
	for _, m := range r.msgs {
		if (m.SenderID == userID && m.ReceiverID == peerID) || (m.SenderID == peerID && m.ReceiverID == userID) {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() < out[j].ID.Hex()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryMessageRepo) MarkAsRead(_ context.Context, senderID, receiverID uint64, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.SenderID == senderID && m.ReceiverID == receiverID && m.ReadAt == nil {
			t := at
			m.ReadAt = &t
			n++
		}
	}
	return n, nil
}

func (r *memoryMessageRepo) CountUnread(_ context.Context, senderID, receiverID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, m := range r.msgs {
		if m.SenderID == senderID && m.ReceiverID == receiverID && m.ReadAt == nil {
			n++
		}
	}
	return n, nil
}

func (r *memoryMessageRepo) DeleteFromTo(_ context.Context, senderID, receiverID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.msgs {
		if m.SenderID == senderID && m.ReceiverID == receiverID {
			delete(r.msgs, id)
			n++
		}
	}
	return n, nil
}

func (r *memoryMessageRepo) DeleteAllForUser(_ context.Context, userID uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.msgs {
		if m.SenderID == userID || m.ReceiverID == userID {
			delete(r.msgs, id)
			n++
		}
	}
	return n, nil
}

func (r *memoryMessageRepo) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (s *memoryStorage) Upload(_ context.Context, objectName string, reader io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[objectName] = data
	return "http://storage.local/chat/" + objectName, nil
}

func (s *memoryStorage) Remove(_ context.Context, objectName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectName)
	return nil
}

type memoryTokens struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func (m *memoryTokens) Revoke(_ context.Context, signature string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.revoked == nil {
		m.revoked = make(map[string]time.Duration)
	}
	m.revoked[signature] = ttl
	return nil
}

func (m *memoryTokens) IsRevoked(_ context.Context, signature string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.revoked[signature]
	return ok, nil
}

type fixture struct {
	users    repository.UserRepo
	contacts repository.ContactRepo
	messages *memoryMessageRepo
	storage  *memoryStorage
	tokens   *memoryTokens
	notifier *recordingNotifier

	userSvc    UserService
	contactSvc ContactService
	messageSvc MessageService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.UserContact{}))

	f := &fixture{
		users:    repository.NewUserRepo(db),
		contacts: repository.NewContactRepo(db),
		messages: newMemoryMessageRepo(),
		storage:  &memoryStorage{},
		tokens:   &memoryTokens{},
		notifier: &recordingNotifier{},
	}
	f.userSvc = NewUserService(f.users, f.messages, f.tokens, f.storage, f.notifier)
	f.contactSvc = NewContactService(f.users, f.contacts, f.messages, f.notifier)
	f.messageSvc = NewMessageService(f.users, f.contacts, f.messages, f.storage, f.notifier)
	return f
}

// withHub 让通知经过真实 Hub，返回 Hub 以便挂接假连接
func (f *fixture) withHub() *realtime.Hub {
	hub := realtime.NewHub(NewCapabilityStore(f.users, f.contacts), time.Second)
	f.notifier.hub = hub
	return hub
}

func (f *fixture) createUser(t *testing.T, name, email string) uint64 {
	t.Helper()
	u := &model.User{FullName: name, Email: email, Password: "x", SharePresence: true}
	require.NoError(t, f.users.CreateUser(context.Background(), u))
	return u.ID
}

func (f *fixture) link(t *testing.T, owner, contact uint64) {
	t.Helper()
	_, err := f.contacts.AddContact(context.Background(), owner, contact)
	require.NoError(t, err)
}

type testConn struct {
	id     string
	mu     sync.Mutex
	events []realtime.Event
}

func (c *testConn) ID() string { return c.id }

func (c *testConn) Send(ev realtime.Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return true
}

func (c *testConn) Close() {}

func (c *testConn) Events() []realtime.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]realtime.Event(nil), c.events...)
}

func (c *testConn) LastOnline() []uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.events) - 1; i >= 0; i-- {
		if ev, ok := c.events[i].(realtime.OnlineUsers); ok {
			return ev.UserIDs
		}
	}
	return nil
}
