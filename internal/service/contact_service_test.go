package service

import (
	"Cipherchat/internal/api/dto"
	"Cipherchat/internal/realtime"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveContactPurgesAndNotifiesBoth(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	hub := f.withHub()
	a := f.createUser(t, "Alice", "a@example.com")
	b := f.createUser(t, "Bob", "b@example.com")
	f.link(t, a, b)
	f.link(t, b, a)

	ct, nonce := sealedFor(t, "bye")
	_, err := f.messageSvc.SendMessage(ctx, a, b, &dto.SendMessageDTO{Ciphertext: ct, Nonce: nonce})
	require.NoError(t, err)
	_, err = f.messageSvc.SendMessage(ctx, b, a, &dto.SendMessageDTO{Ciphertext: ct, Nonce: nonce})
	require.NoError(t, err)

	aConn := &testConn{id: "a"}
	bConn := &testConn{id: "b"}
	hub.Connect(ctx, a, aConn)
	hub.Connect(ctx, b, bConn)
	require.Equal(t, []uint64{b}, aConn.LastOnline())

	require.NoError(t, f.contactSvc.RemoveContact(ctx, a, b))

	want := realtime.ConversationPurged{FromUserID: a, TargetUserID: b}
	assert.Contains(t, aConn.Events(), realtime.Event(want))
	assert.Contains(t, bConn.Events(), realtime.Event(want))
	assert.Empty(t, aConn.LastOnline())
	assert.Equal(t, []uint64{a}, bConn.LastOnline(), "edges are one-directional")

	// 只删除自己发给对方的消息
	assert.Equal(t, 1, f.messages.Len())
	ok, err := f.contacts.IsContact(ctx, a, b)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRemoveUnknownContact(t *testing.T) {
	f := newFixture(t)
	a := f.createUser(t, "Alice", "a@example.com")
	assert.ErrorIs(t, f.contactSvc.RemoveContact(context.Background(), a, 4242), ErrContactNotFound)
	assert.Empty(t, f.notifier.deliveries)
}

func TestAddContact(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.createUser(t, "Alice", "a@example.com")
	b := f.createUser(t, "Bob", "b@example.com")
	f.link(t, b, a)

	ct, nonce := sealedFor(t, "hello")
	_, err := f.messageSvc.SendMessage(ctx, b, a, &dto.SendMessageDTO{Ciphertext: ct, Nonce: nonce})
	require.NoError(t, err)
	// 接收方获得隐式联系人时已经刷新过一次
	assert.Equal(t, []uint64{a}, f.notifier.refreshed)
	f.notifier.refreshed = nil

	contact, err := f.contactSvc.AddContact(ctx, a, &dto.AddContactDTO{Email: " B@example.com "})
	require.NoError(t, err)
	assert.Equal(t, b, contact.ID)
	assert.Equal(t, int64(1), contact.UnreadCount)
	assert.Equal(t, []uint64{a}, f.notifier.refreshed)

	_, err = f.contactSvc.AddContact(ctx, a, &dto.AddContactDTO{Email: "a@example.com"})
	assert.ErrorIs(t, err, ErrAddSelf)

	_, err = f.contactSvc.AddContact(ctx, a, &dto.AddContactDTO{Email: "nobody@example.com"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
