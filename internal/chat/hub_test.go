package chat

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	members map[uuid.UUID]map[uuid.UUID]bool
}

func (f *fakeRegistry) IsMember(groupID, userID uuid.UUID) (bool, error) {
	group, ok := f.members[groupID]
	if !ok {
		return false, ErrNotFound
	}
	return group[userID], nil
}

func newTestHub(groupID uuid.UUID, memberIDs ...uuid.UUID) *Hub {
	members := map[uuid.UUID]map[uuid.UUID]bool{
		groupID: make(map[uuid.UUID]bool),
	}
	for _, id := range memberIDs {
		members[groupID][id] = true
	}
	return NewHub(&fakeRegistry{members: members})
}

func TestJoinGroupIdempotent(t *testing.T) {
	groupID := uuid.New()
	userID := uuid.New()
	hub := newTestHub(groupID, userID)

	client := NewClient(hub, nil, userID)
	hub.registerClient(client)

	require.NoError(t, hub.JoinGroup(client, groupID))
	require.NoError(t, hub.JoinGroup(client, groupID))

	assert.Len(t, client.Groups(), 1)
	assert.Len(t, hub.groups[groupID], 1)
}

func TestJoinGroupUnauthorized(t *testing.T) {
	groupID := uuid.New()
	member := uuid.New()
	stranger := uuid.New()
	hub := newTestHub(groupID, member)

	client := NewClient(hub, nil, stranger)
	hub.registerClient(client)

	err := hub.JoinGroup(client, groupID)
	assert.ErrorIs(t, err, ErrAuthorization)
	assert.Empty(t, client.Groups())
	assert.Empty(t, hub.groups[groupID])
}

func TestJoinGroupUnknownGroup(t *testing.T) {
	groupID := uuid.New()
	userID := uuid.New()
	hub := newTestHub(groupID, userID)

	client := NewClient(hub, nil, userID)
	hub.registerClient(client)

	err := hub.JoinGroup(client, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, client.Groups())
}

func TestPublishFanOut(t *testing.T) {
	groupID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	hub := newTestHub(groupID, alice, bob)

	c1 := NewClient(hub, nil, alice)
	c2 := NewClient(hub, nil, bob)
	outsider := NewClient(hub, nil, alice)
	hub.registerClient(c1)
	hub.registerClient(c2)
	hub.registerClient(outsider)

	require.NoError(t, hub.JoinGroup(c1, groupID))
	require.NoError(t, hub.JoinGroup(c2, groupID))

	payload := []byte(`{"type":"new_message"}`)
	delivered := hub.Publish(groupID, payload)
	assert.Equal(t, 2, delivered)

	// Ровно одна копия каждому присоединённому
	assert.Equal(t, payload, <-c1.Send)
	assert.Equal(t, payload, <-c2.Send)
	assert.Empty(t, c1.Send)
	assert.Empty(t, c2.Send)

	// Не присоединённое соединение ничего не получает
	assert.Empty(t, outsider.Send)
}

func TestPublishDropsSlowClient(t *testing.T) {
	groupID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()
	hub := newTestHub(groupID, alice, bob)

	fast := NewClient(hub, nil, alice)
	slow := NewClient(hub, nil, bob)
	hub.registerClient(fast)
	hub.registerClient(slow)

	require.NoError(t, hub.JoinGroup(fast, groupID))
	require.NoError(t, hub.JoinGroup(slow, groupID))

	// Забиваем очередь медленного клиента до отказа
	for i := 0; i < cap(slow.Send); i++ {
		slow.Send <- []byte("backlog")
	}

	delivered := hub.Publish(groupID, []byte("fresh"))
	assert.Equal(t, 1, delivered)
}

func TestDisconnectCleanup(t *testing.T) {
	groupID := uuid.New()
	userID := uuid.New()
	hub := newTestHub(groupID, userID)

	client := NewClient(hub, nil, userID)
	other := NewClient(hub, nil, userID)
	hub.registerClient(client)
	hub.registerClient(other)

	require.NoError(t, hub.JoinGroup(client, groupID))
	require.NoError(t, hub.JoinGroup(other, groupID))

	hub.unregisterClient(client)

	delivered := hub.Publish(groupID, []byte("after disconnect"))
	assert.Equal(t, 1, delivered)

	// Канал отключённого клиента закрыт и пуст
	_, ok := <-client.Send
	assert.False(t, ok)

	assert.Equal(t, []byte("after disconnect"), <-other.Send)
}

func TestLeaveGroup(t *testing.T) {
	groupID := uuid.New()
	userID := uuid.New()
	hub := newTestHub(groupID, userID)

	client := NewClient(hub, nil, userID)
	hub.registerClient(client)
	require.NoError(t, hub.JoinGroup(client, groupID))

	hub.LeaveGroup(client, groupID)

	assert.Empty(t, client.Groups())
	assert.Equal(t, 0, hub.Publish(groupID, []byte("x")))

	// Повторный leave безопасен
	hub.LeaveGroup(client, groupID)
}

func TestActiveMembers(t *testing.T) {
	groupID := uuid.New()
	userID := uuid.New()
	hub := newTestHub(groupID, userID)

	// Два соединения одного пользователя считаются одним участником
	c1 := NewClient(hub, nil, userID)
	c2 := NewClient(hub, nil, userID)
	hub.registerClient(c1)
	hub.registerClient(c2)
	require.NoError(t, hub.JoinGroup(c1, groupID))
	require.NoError(t, hub.JoinGroup(c2, groupID))

	active := hub.ActiveMembers(groupID)
	assert.Equal(t, []uuid.UUID{userID}, active)
}

func TestRegisterUnregisterViaRun(t *testing.T) {
	groupID := uuid.New()
	userID := uuid.New()
	hub := newTestHub(groupID, userID)

	go hub.Run()
	defer hub.Stop()

	client := NewClient(hub, nil, userID)
	hub.Register(client)

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, ok := hub.clients[client.ID]
		return ok
	}, time.Second, 5*time.Millisecond)

	hub.Unregister(client)

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		_, ok := hub.clients[client.ID]
		return !ok
	}, time.Second, 5*time.Millisecond)
}
