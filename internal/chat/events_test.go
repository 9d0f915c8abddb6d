package chat

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInboundJoin(t *testing.T) {
	groupID := uuid.New()
	raw := []byte(`{"type":"join_group","group_id":"` + groupID.String() + `"}`)

	ev, err := DecodeInbound(raw)
	require.NoError(t, err)
	assert.Equal(t, EventJoinGroup, ev.Type)
	assert.Equal(t, groupID, ev.GroupID)
}

func TestDecodeInboundLeave(t *testing.T) {
	groupID := uuid.New()
	raw := []byte(`{"type":"leave_group","group_id":"` + groupID.String() + `"}`)

	ev, err := DecodeInbound(raw)
	require.NoError(t, err)
	assert.Equal(t, EventLeaveGroup, ev.Type)
}

func TestDecodeInboundUnknownType(t *testing.T) {
	raw := []byte(`{"type":"typing_indicator","group_id":"` + uuid.NewString() + `"}`)

	_, err := DecodeInbound(raw)
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestDecodeInboundMissingGroup(t *testing.T) {
	_, err := DecodeInbound([]byte(`{"type":"join_group"}`))
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestDecodeInboundGarbage(t *testing.T) {
	_, err := DecodeInbound([]byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestNewMessageEvent(t *testing.T) {
	groupID := uuid.New()
	payload := map[string]string{"content": "Hello"}

	data, err := NewMessageEvent(groupID, payload)
	require.NoError(t, err)

	var ev OutboundEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, EventNewMessage, ev.Type)
	require.NotNil(t, ev.GroupID)
	assert.Equal(t, groupID, *ev.GroupID)
	assert.WithinDuration(t, time.Now(), ev.Timestamp, time.Minute)

	var got map[string]string
	require.NoError(t, json.Unmarshal(ev.Data, &got))
	assert.Equal(t, "Hello", got["content"])
}

func TestErrorEvent(t *testing.T) {
	data, err := ErrorEvent("not a member of this group")
	require.NoError(t, err)

	var ev OutboundEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, EventError, ev.Type)
	assert.Nil(t, ev.GroupID)
}
