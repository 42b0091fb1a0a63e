// Package subscribe drives the long-poll subscribe loop against a
// real-time messaging service: it tracks the set of channels, channel
// groups and presence channels a client listens on, advances a
// time-token cursor across requests, and turns completions into
// status and message events for a listener registry.
//
// The package treats the HTTP transport, JSON decoding, encryption
// and the listener registry as external collaborators, consumed only
// through the interfaces in transport.go and statestore.go.
package subscribe

import (
	"errors"
	"time"
)

// RetryInterval is the fixed delay before a retriable failure is
// re-issued. See retry.go. It is a var rather than a const solely so
// tests can shrink it; production code must never reassign it.
var RetryInterval = time.Second

// setRetryInterval overrides RetryInterval; used by tests only.
func setRetryInterval(d time.Duration) { RetryInterval = d }

// ErrClosed signals that the Subscriber was closed and no longer
// accepts new operations.
var ErrClosed = errors.New("subscribe: subscriber closed")

// presenceSuffix is the naming convention that derives a presence
// channel name from a regular channel name.
const presenceSuffix = "-pnpres"

// isPresenceName reports whether name carries the presence suffix.
func isPresenceName(name string) bool {
	return len(name) > len(presenceSuffix) && name[len(name)-len(presenceSuffix):] == presenceSuffix
}

// basePresenceName strips the presence suffix from name. It is a
// no-op when name does not carry the suffix.
func basePresenceName(name string) string {
	if isPresenceName(name) {
		return name[:len(name)-len(presenceSuffix)]
	}
	return name
}

// presenceName appends the presence suffix to a base channel name.
func presenceName(name string) string {
	return name + presenceSuffix
}
