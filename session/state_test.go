package session

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseState(t *testing.T) {
	for s := State(0); s < StateUnknown; s++ {
		parsed, ok := ParseState(s.String())
		require.True(t, ok, s.String())
		assert.Equal(t, s, parsed)
	}

	parsed, ok := ParseState("  Speaking\n")
	assert.True(t, ok)
	assert.Equal(t, StateSpeaking, parsed)

	for _, bad := range []string{"", "idle", "speak", "pre-connect-buffering"} {
		parsed, ok := ParseState(bad)
		assert.False(t, ok, bad)
		assert.Equal(t, StateUnknown, parsed, bad)
	}
}

func TestStateStringOutOfRange(t *testing.T) {
	assert.Equal(t, "unknown", State(-3).String())
	assert.Equal(t, "unknown", State(99).String())
	assert.False(t, State(99).Valid())
	assert.False(t, StateUnknown.Valid())
	assert.True(t, StateInitializing.Valid())
}

func TestMessageJSON(t *testing.T) {
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(`{"state":"thinking"}`), &msg))
	assert.Equal(t, StateThinking, msg.State)

	require.NoError(t, json.Unmarshal([]byte(`{"state":"dancing"}`), &msg))
	assert.Equal(t, StateUnknown, msg.State)

	out, err := json.Marshal(Message{State: StateListening})
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"listening"}`, string(out))
}

func TestSignal(t *testing.T) {
	s := NewSignal(StateDisconnected)
	assert.Equal(t, StateDisconnected, s.Load())
	assert.Zero(t, s.Changes())

	s.Set(StateDisconnected)
	assert.Zero(t, s.Changes())

	s.Set(StateSpeaking)
	assert.Equal(t, StateSpeaking, s.Load())
	assert.EqualValues(t, 1, s.Changes())

	assert.ErrorIs(t, s.SetString("bogus"), ErrUnknownState)
	assert.Equal(t, StateUnknown, s.Load())

	assert.NoError(t, s.SetString("Thinking"))
	assert.Equal(t, StateThinking, s.Load())
	assert.EqualValues(t, 3, s.Changes())
}
