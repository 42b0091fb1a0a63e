package subscribe

import (
	"context"
	"sync"

	"github.com/pascaldekloe/subscribe/internal/subscribelog"
)

var subscriberLog = subscribelog.Component("subscriber")

// Subscriber is the subscribe-loop core: it owns the Subscription
// Set, Cursor, State Machine and Retry Timer, and drives long-poll
// requests against a Transport, dispatching results to a
// ListenerRegistry. The zero value is not usable; use NewSubscriber.
type Subscriber struct {
	config Config

	// mutex is the single read-write mutual-exclusion domain shared
	// by subs, cursor, state and retry: any writer to one of the
	// four excludes all others, so a Status/Snapshot spanning more
	// than one of them is always built from one consistent instant.
	mutex sync.RWMutex

	transport  Transport
	registry   ListenerRegistry
	heartbeat  HeartbeatManager
	store      StateStore
	dispatcher *eventDispatcher

	subs   *subscriptionSet
	cursor *cursor
	state  *stateMachine
	retry  *retryTimer

	// inFlight guards the cancel function of the current long-poll,
	// so a conflicting API call can cancel it.
	inFlightMutex  sync.Mutex
	inFlightCancel context.CancelFunc

	closeOnce sync.Once
	closed    chan struct{}
}

// NewSubscriber wires a Subscriber against its external collaborators.
func NewSubscriber(config Config, transport Transport, registry ListenerRegistry, heartbeat HeartbeatManager, store StateStore) *Subscriber {
	s := &Subscriber{
		config:    config,
		transport: transport,
		registry:  registry,
		heartbeat: heartbeat,
		store:     store,
		closed:    make(chan struct{}),
	}
	s.subs = newSubscriptionSet(&s.mutex)
	s.cursor = &cursor{mutex: &s.mutex}
	s.state = &stateMachine{mutex: &s.mutex}
	s.retry = &retryTimer{mutex: &s.mutex}
	s.dispatcher = &eventDispatcher{registry: registry, store: store, uuid: config.UUID}
	return s
}

// Channels exposes the Subscription Set's regular-channel snapshot.
func (s *Subscriber) Channels() []string { return s.subs.Channels() }

// ChannelGroups exposes the Subscription Set's channel-group snapshot.
func (s *Subscriber) ChannelGroups() []string { return s.subs.ChannelGroups() }

// PresenceChannels exposes the Subscription Set's presence-channel snapshot.
func (s *Subscriber) PresenceChannels() []string { return s.subs.PresenceChannels() }

// State returns the current lifecycle state.
func (s *Subscriber) State() State { return s.state.Current() }

// AddChannels adds to the Subscription Set without submitting a
// request; callers drive Subscribe separately.
func (s *Subscriber) AddChannels(names []string) { s.subs.AddChannels(names) }

// AddChannelGroups adds to the Subscription Set's channel groups.
func (s *Subscriber) AddChannelGroups(names []string) { s.subs.AddChannelGroups(names) }

// AddPresenceChannels adds to the Subscription Set's presence channels.
func (s *Subscriber) AddPresenceChannels(names []string) { s.subs.AddPresenceChannels(names) }

// isClosed reports whether Close has already run.
func (s *Subscriber) isClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

// snapshot builds a Snapshot of the current cursor and membership as
// one atomic read: it takes the shared domain lock once and reads the
// underlying fields directly, rather than calling the components' own
// locking accessors, so the result never mixes cursor state from one
// instant with membership from another.
func (s *Subscriber) snapshot() Snapshot {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return Snapshot{
		CurrentTimeToken: s.cursor.current,
		LastTimeToken:    s.cursor.last,
		Channels:         keys(s.subs.channels),
		ChannelGroups:    keys(s.subs.channelGroups),
		PresenceChannels: keys(s.subs.presenceChannels),
	}
}

// restoreEligible reports, as one atomic read, whether the state is
// DisconnectedUnexpectedly, both cursor tokens are non-zero, and
// membership is non-empty — the precondition for RestoreIfRequired.
func (s *Subscriber) restoreEligible() bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.state.state != DisconnectedUnexpectedly {
		return false
	}
	if s.cursor.current == 0 || s.cursor.last == 0 {
		return false
	}
	return len(s.subs.channels) > 0 || len(s.subs.channelGroups) > 0 || len(s.subs.presenceChannels) > 0
}

// continueSubscriptionCycle re-enters the Request Builder with the
// current (non-initial) cursor and submits it, cancelling any
// in-flight request first. It is the re-entry point used by a
// successful completion's continuation step and by an armed retry
// timer.
func (s *Subscriber) continueSubscriptionCycle() {
	s.submit(nil)
}

// submit builds request parameters from the current Subscription Set
// and cursor, cancels any in-flight request, and issues the new one.
// callerState flows only from an explicit Subscribe call. Membership
// and the time token are read once, under the shared domain lock, so
// the request is built from one consistent instant.
func (s *Subscriber) submit(callerState map[string]map[string]any) {
	select {
	case <-s.closed:
		return
	default:
	}

	s.mutex.RLock()
	channels := keys(s.subs.channels)
	presence := keys(s.subs.presenceChannels)
	groups := keys(s.subs.channelGroups)
	timeToken := s.cursor.current
	s.mutex.RUnlock()

	params := buildRequest(channels, presence, groups, timeToken, callerState, s.config.PresenceHeartbeatValue, s.store)

	ctx, cancel := context.WithCancel(context.Background())

	s.inFlightMutex.Lock()
	if s.inFlightCancel != nil {
		s.inFlightCancel()
	}
	s.inFlightCancel = cancel
	s.inFlightMutex.Unlock()

	requestTT := params.TimeToken
	s.transport.Submit(ctx, params, func(c Completion) {
		if c.RequestTimeToken == 0 {
			c.RequestTimeToken = requestTT
		}
		s.handle(c)
	})
}

// Close tears the Subscriber down: cancels any in-flight long-poll
// and stops the retry timer. Afterwards Subscribe, Unsubscribe and
// RestoreIfRequired return ErrClosed and submit nothing; the Add*
// methods still change the Subscription Set.
func (s *Subscriber) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		s.retry.Stop()
		s.transport.CancelAll()
	})
}
