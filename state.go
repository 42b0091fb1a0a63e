package subscribe

import (
	"sync"

	"github.com/pascaldekloe/subscribe/internal/subscribelog"
)

var stateLog = subscribelog.Component("state")

// State is one of the five subscriber lifecycle values.
type State int

const (
	Initialized State = iota
	Connected
	Disconnected
	DisconnectedUnexpectedly
	AccessRightsError
)

// String names the state for logging.
func (s State) String() string {
	switch s {
	case Initialized:
		return "Initialized"
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	case DisconnectedUnexpectedly:
		return "DisconnectedUnexpectedly"
	case AccessRightsError:
		return "AccessRightsError"
	default:
		return "Unknown"
	}
}

// stateMachine guards the stored lifecycle state and computes the
// status category for each accepted transition. Disallowed
// transitions are no-ops: no stored-state change, no emitted category.
// mutex is shared with the Subscriber's subscriptionSet, cursor and
// retryTimer, forming one read-write mutual-exclusion domain.
type stateMachine struct {
	mutex *sync.RWMutex
	state State
}

// Current returns the stored state.
func (m *stateMachine) Current() State {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.state
}

// transitionResult reports whether a transition was accepted and, if
// so, the status category to emit.
type transitionResult struct {
	Accepted bool
	Category StatusCategory
}

// ToConnected drives a transition into Connected. requestTimeTokenZero
// must be true only when the originating request had tt=0, since
// Connected/Reconnected are only ever emitted for such completions.
func (m *stateMachine) ToConnected(requestTimeTokenZero bool) transitionResult {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	switch m.state {
	case Initialized, Disconnected, AccessRightsError:
		if !requestTimeTokenZero {
			return transitionResult{}
		}
		from := m.state
		m.state = Connected
		stateLog.Info().Str("from", from.String()).Msg("connected")
		return transitionResult{Accepted: true, Category: CategoryConnected}
	case DisconnectedUnexpectedly:
		if !requestTimeTokenZero {
			return transitionResult{}
		}
		m.state = Connected
		stateLog.Info().Msg("reconnected")
		return transitionResult{Accepted: true, Category: CategoryReconnected}
	default:
		return transitionResult{}
	}
}

// ToDisconnected drives a transition for a fully user-unsubscribed
// membership. When the stored state is Initialized it stays
// Initialized (never connected, nothing to disconnect from), but the
// emitted category is still computed as if the transition occurred.
func (m *stateMachine) ToDisconnected() transitionResult {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	switch m.state {
	case Initialized:
		return transitionResult{Accepted: true, Category: CategoryDisconnected}
	case Connected:
		m.state = Disconnected
		return transitionResult{Accepted: true, Category: CategoryDisconnected}
	default:
		return transitionResult{}
	}
}

// ToDisconnectedUnexpectedly drives a transition on network loss, TLS
// failure, timeout or malformed response.
func (m *stateMachine) ToDisconnectedUnexpectedly() transitionResult {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	switch m.state {
	case Initialized, Connected:
		m.state = DisconnectedUnexpectedly
		stateLog.Warn().Msg("unexpected disconnect")
		return transitionResult{Accepted: true, Category: CategoryUnexpectedDisconnect}
	default:
		return transitionResult{}
	}
}

// ToAccessRightsError drives a transition on an access-denied
// completion. This transition is allowed from any state.
func (m *stateMachine) ToAccessRightsError() transitionResult {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.state = AccessRightsError
	stateLog.Warn().Msg("access denied")
	return transitionResult{Accepted: true, Category: CategoryAccessDenied}
}
