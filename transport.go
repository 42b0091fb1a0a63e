package subscribe

import "context"

// Operation names the request kind submitted to the Transport.
type Operation int

const (
	OperationSubscribe Operation = iota
	OperationUnsubscribe
)

// RequestParams is the abstract parameter bundle produced by the
// request builder: path substitutions plus optional query parameters.
// Serialization to an actual URL is the transport's job, out of scope
// for this package.
type RequestParams struct {
	Operation Operation

	// Channels is the comma-joined {channels} path placeholder:
	// channels ∪ presenceChannels, or "," when empty.
	Channels string
	// TimeToken is the decimal {tt} path placeholder.
	TimeToken uint64

	// ChannelGroup is the optional channel-group query value
	// (comma-joined), empty when there are none.
	ChannelGroup string
	// Heartbeat is the optional heartbeat query value; 0 means
	// "omit the parameter".
	Heartbeat int
	// State is the optional percent-encoded JSON state query
	// value; empty means "omit the parameter".
	State string
}

// Completion is the shape the Transport hands back on every subscribe
// or unsubscribe completion. RequestTimeToken is threaded through
// directly rather than recovered by parsing a request URL.
type Completion struct {
	Category StatusCategory
	IsError  bool

	// RequestTimeToken is the {tt} the originating request carried.
	RequestTimeToken uint64

	// TimeToken is the tt returned by a successful response body.
	TimeToken uint64
	// Events is the decoded event array of a successful response body.
	Events []Event

	DecryptError bool
}

// Transport is the external request executor: it issues long-poll
// requests and can cancel in-flight ones. The subscriber never blocks
// on Submit; completions arrive asynchronously through the supplied
// callback.
type Transport interface {
	// Submit issues params and invokes complete exactly once, either
	// when the request finishes or when ctx is cancelled (which
	// surfaces as a Completion with Category == CategoryCancelled).
	Submit(ctx context.Context, params RequestParams, complete func(Completion))

	// CancelAll cancels every in-flight request submitted by this
	// transport. Used by Subscribe when membership becomes empty.
	CancelAll()
}

// HeartbeatManager is the external presence-announce subsystem. The
// subscriber starts and stops it at connection lifecycle transitions;
// it owns its own idempotence.
type HeartbeatManager interface {
	StartIfRequired()
	StopIfPossible()
}

// ListenerRegistry delivers events and status changes to user
// callbacks. The registry owns its own delivery and blocking
// semantics; the subscriber never assumes synchronous delivery.
type ListenerRegistry interface {
	NotifyStatusChange(Status)
	NotifyMessage(Result)
	NotifyPresenceEvent(Result)
}
