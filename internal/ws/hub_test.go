package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	payload := ErrorPayload{Message: "config error: mva is 0"}

	msg, err := NewEnvelope(TypeError, payload)
	require.NoError(t, err)

	var env Envelope
	err = json.Unmarshal(msg, &env)
	require.NoError(t, err)

	assert.Equal(t, TypeError, env.Type)

	var parsed ErrorPayload
	err = json.Unmarshal(env.Payload, &parsed)
	require.NoError(t, err)

	assert.Equal(t, "config error: mva is 0", parsed.Message)
}

func TestNewEnvelope_NoPayload(t *testing.T) {
	msg, err := NewEnvelope(TypeScenarioGet, nil)
	require.NoError(t, err)

	var env Envelope
	err = json.Unmarshal(msg, &env)
	require.NoError(t, err)

	assert.Equal(t, TypeScenarioGet, env.Type)
	assert.Nil(t, env.Payload)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()

	c := &Client{
		hub:  hub,
		send: make(chan []byte, 16),
	}

	hub.Register(c)
	assert.Equal(t, 1, hub.ClientCount())

	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())

	_, open := <-c.send
	assert.False(t, open)

	// second unregister is a no-op
	hub.Unregister(c)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()

	c1 := &Client{hub: hub, send: make(chan []byte, 16)}
	c2 := &Client{hub: hub, send: make(chan []byte, 16)}

	hub.Register(c1)
	hub.Register(c2)

	msg := []byte(`{"type":"test"}`)
	hub.Broadcast(msg)

	assert.Equal(t, msg, <-c1.send)
	assert.Equal(t, msg, <-c2.send)
}

func TestHub_BroadcastFullBuffer(t *testing.T) {
	hub := NewHub()
	c := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.Register(c)

	hub.Broadcast([]byte("a"))
	hub.Broadcast([]byte("b"))

	assert.Equal(t, []byte("a"), <-c.send)
	assert.Len(t, c.send, 0)
}

func TestHub_RegisterReceivesLatest(t *testing.T) {
	hub := NewHub()
	assert.Nil(t, hub.Latest())

	early := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(early)
	assert.Len(t, early.send, 0)

	set := []byte(`{"type":"scenario:set"}`)
	hub.Publish(set)
	assert.Equal(t, set, <-early.send)
	assert.Equal(t, set, hub.Latest())

	late := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(late)
	assert.Equal(t, set, <-late.send)
}

func TestHub_BroadcastNotRetained(t *testing.T) {
	hub := NewHub()
	set := []byte(`{"type":"scenario:set"}`)
	hub.Publish(set)
	hub.Broadcast([]byte(`{"type":"scenario:profiles"}`))

	c := &Client{hub: hub, send: make(chan []byte, 16)}
	hub.Register(c)
	assert.Equal(t, set, <-c.send)
	assert.Len(t, c.send, 0)
}

func TestMessageTypes(t *testing.T) {
	assert.Equal(t, "scenario:regenerate", TypeScenarioRegenerate)
	assert.Equal(t, "scenario:get", TypeScenarioGet)
	assert.Equal(t, "scenario:set", TypeScenarioSet)
	assert.Equal(t, "scenario:profiles", TypeScenarioProfiles)
	assert.Equal(t, "error", TypeError)
}
