package subscribe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitializedToConnected(t *testing.T) {
	m := &stateMachine{mutex: &sync.RWMutex{}, state: Initialized}
	result := m.ToConnected(true)
	assert.True(t, result.Accepted)
	assert.Equal(t, CategoryConnected, result.Category)
	assert.Equal(t, Connected, m.Current())
}

func TestConnectedRequiresInitialTimeToken(t *testing.T) {
	m := &stateMachine{mutex: &sync.RWMutex{}, state: Initialized}
	result := m.ToConnected(false)
	assert.False(t, result.Accepted)
	assert.Equal(t, Initialized, m.Current())
}

func TestDisconnectedUnexpectedlyToConnectedEmitsReconnected(t *testing.T) {
	m := &stateMachine{mutex: &sync.RWMutex{}, state: DisconnectedUnexpectedly}
	result := m.ToConnected(true)
	assert.True(t, result.Accepted)
	assert.Equal(t, CategoryReconnected, result.Category)
}

func TestInitializedToDisconnectedStaysInitialized(t *testing.T) {
	m := &stateMachine{mutex: &sync.RWMutex{}, state: Initialized}
	result := m.ToDisconnected()
	assert.True(t, result.Accepted)
	assert.Equal(t, CategoryDisconnected, result.Category)
	assert.Equal(t, Initialized, m.Current())
}

func TestConnectedToDisconnected(t *testing.T) {
	m := &stateMachine{mutex: &sync.RWMutex{}, state: Connected}
	result := m.ToDisconnected()
	assert.True(t, result.Accepted)
	assert.Equal(t, Disconnected, m.Current())
}

func TestConnectedToDisconnectedUnexpectedly(t *testing.T) {
	m := &stateMachine{mutex: &sync.RWMutex{}, state: Connected}
	result := m.ToDisconnectedUnexpectedly()
	assert.True(t, result.Accepted)
	assert.Equal(t, CategoryUnexpectedDisconnect, result.Category)
	assert.Equal(t, DisconnectedUnexpectedly, m.Current())
}

func TestAnyToAccessRightsError(t *testing.T) {
	for _, start := range []State{Initialized, Connected, Disconnected, DisconnectedUnexpectedly, AccessRightsError} {
		m := &stateMachine{mutex: &sync.RWMutex{}, state: start}
		result := m.ToAccessRightsError()
		assert.True(t, result.Accepted)
		assert.Equal(t, AccessRightsError, m.Current())
	}
}

func TestDisconnectedToDisconnectedUnexpectedlyIsNoop(t *testing.T) {
	m := &stateMachine{mutex: &sync.RWMutex{}, state: Disconnected}
	result := m.ToDisconnectedUnexpectedly()
	assert.False(t, result.Accepted)
	assert.Equal(t, Disconnected, m.Current())
}
