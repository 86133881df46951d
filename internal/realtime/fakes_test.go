package realtime

import (
	"context"
	"fmt"
	"sync"
)

type fakeConn struct {
	id string

	mu     sync.Mutex
	events []Event
	closed bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (f *fakeConn) ID() string { return f.id }

func (f *fakeConn) Send(ev Event) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.events = append(f.events, ev)
	return true
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConn) Events() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Event(nil), f.events...)
}

func (f *fakeConn) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = nil
}

// LastOnline 最近一次 getOnlineUsers，没有收到过则 ok 为 false
func (f *fakeConn) LastOnline() ([]uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.events) - 1; i >= 0; i-- {
		if ev, ok := f.events[i].(OnlineUsers); ok {
			return ev.UserIDs, true
		}
	}
	return nil, false
}

func (f *fakeConn) IsClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeStore struct {
	mu          sync.Mutex
	contacts    map[uint64][]uint64
	optIn       map[uint64]bool
	contactErr  map[uint64]error
	presenceErr map[uint64]error

	// gate 非空时，对 gateUser 的第一次读取会先通知 entered 再等待 gate
	// gateStale 为 true 时该次读取返回等待之前的值
	gateUser  uint64
	gateOn    string
	gateUsed  bool
	gateStale bool
	entered   chan struct{}
	gate      chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		contacts:    make(map[uint64][]uint64),
		optIn:       make(map[uint64]bool),
		contactErr:  make(map[uint64]error),
		presenceErr: make(map[uint64]error),
	}
}

func (s *fakeStore) SetContacts(userID uint64, ids ...uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[userID] = ids
}

func (s *fakeStore) SetOptIn(userID uint64, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.optIn[userID] = v
}

func (s *fakeStore) FailPresence(userID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presenceErr[userID] = fmt.Errorf("presence store down")
}

func (s *fakeStore) FailContacts(userID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contactErr[userID] = fmt.Errorf("contact store down")
}

func (s *fakeStore) Gate(userID uint64, on string) {
	s.gateWith(userID, on, false)
}

// GateStale 同 Gate，但读取结果是阻塞之前的存储状态
func (s *fakeStore) GateStale(userID uint64, on string) {
	s.gateWith(userID, on, true)
}

func (s *fakeStore) gateWith(userID uint64, on string, stale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gateUser = userID
	s.gateOn = on
	s.gateUsed = false
	s.gateStale = stale
	s.entered = make(chan struct{})
	s.gate = make(chan struct{})
}

// wait 命中 gate 时阻塞，返回该次读取是否应使用阻塞前的快照
func (s *fakeStore) wait(ctx context.Context, userID uint64, on string) (bool, error) {
	s.mu.Lock()
	gate, entered, stale := s.gate, s.entered, s.gateStale
	hit := gate != nil && !s.gateUsed && s.gateUser == userID && s.gateOn == on
	if hit {
		s.gateUsed = true
	}
	s.mu.Unlock()
	if !hit {
		return false, nil
	}
	close(entered)
	select {
	case <-gate:
		return stale, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (s *fakeStore) readContacts(userID uint64) ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.contactErr[userID]; err != nil {
		return nil, err
	}
	return append([]uint64(nil), s.contacts[userID]...), nil
}

func (s *fakeStore) readOptIn(userID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.presenceErr[userID]; err != nil {
		return false, err
	}
	v, ok := s.optIn[userID]
	if !ok {
		return true, nil
	}
	return v, nil
}

func (s *fakeStore) FindUserContacts(ctx context.Context, userID uint64) ([]uint64, error) {
	snapshot, snapErr := s.readContacts(userID)
	stale, err := s.wait(ctx, userID, "contacts")
	if err != nil {
		return nil, err
	}
	if stale {
		return snapshot, snapErr
	}
	return s.readContacts(userID)
}

func (s *fakeStore) ReadPresenceOptIn(ctx context.Context, userID uint64) (bool, error) {
	snapshot, snapErr := s.readOptIn(userID)
	stale, err := s.wait(ctx, userID, "presence")
	if err != nil {
		return false, err
	}
	if stale {
		return snapshot, snapErr
	}
	return s.readOptIn(userID)
}

// blockingStore 一直阻塞到 ctx 结束
type blockingStore struct{}

func (blockingStore) FindUserContacts(ctx context.Context, _ uint64) ([]uint64, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingStore) ReadPresenceOptIn(ctx context.Context, _ uint64) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}
