package subscribe

import "context"

// Subscribe issues a new long-poll for the current Subscription Set.
// When initial is true and the cursor already carries a current
// token, that token is stashed to last and current is reset to 0
// before the request is built — the standard "subscribe after a
// membership change" path. It returns ErrClosed once the Subscriber
// has been closed.
func (s *Subscriber) Subscribe(initial bool, state map[string]map[string]any) error {
	if s.isClosed() {
		return ErrClosed
	}
	s.retry.Stop()

	if s.subs.Empty() {
		result := s.state.ToDisconnected()
		snap := s.snapshot()
		status := newStatus(CategoryDisconnected, false, snap.CurrentTimeToken, snap)
		if result.Accepted {
			status.Category = result.Category
		}
		s.transport.CancelAll()
		s.registry.NotifyStatusChange(status)
		return nil
	}

	if initial {
		s.cursor.PromoteToLast()
	}

	s.submit(state)
	return nil
}

// Unsubscribe removes stored state for objects and, unless every
// object was presence-only, issues a network unsubscribe before
// re-subscribing. Removal of objects from the Subscription Set is the
// caller's responsibility and must happen before calling Unsubscribe,
// so the re-subscribe below is issued against the already-reduced
// membership.
func (s *Subscriber) Unsubscribe(isChannels bool, objects []string) error {
	if s.isClosed() {
		return ErrClosed
	}
	s.store.Clear(objects)

	leaveObjects := excludePresence(objects)

	if len(leaveObjects) == 0 {
		s.finishUnsubscribe()
		return nil
	}

	params := RequestParams{Operation: OperationUnsubscribe, Channels: joinOrComma(leaveObjects)}
	if !isChannels {
		params.ChannelGroup = joinOrComma(leaveObjects)
		params.Channels = ","
	}

	s.transport.Submit(context.Background(), params, func(Completion) {
		s.finishUnsubscribe()
	})
	return nil
}

// finishUnsubscribe performs the state transition and acknowledgment
// shared by both the network and presence-only Unsubscribe paths, and
// re-subscribes on the remaining membership.
func (s *Subscriber) finishUnsubscribe() {
	if result := s.state.ToDisconnected(); result.Accepted {
		snap := s.snapshot()
		s.registry.NotifyStatusChange(newStatus(result.Category, false, snap.CurrentTimeToken, snap))
	}
	snap := s.snapshot()
	s.registry.NotifyStatusChange(newStatus(CategoryAcknowledgment, false, snap.CurrentTimeToken, snap))
	s.Subscribe(true, nil)
}

// RestoreIfRequired re-subscribes only when the state is
// DisconnectedUnexpectedly, both cursor tokens are non-zero, and
// membership is non-empty. The three conditions are read as one
// atomic snapshot, so a concurrent transition or membership change
// can't be observed half-applied.
func (s *Subscriber) RestoreIfRequired() error {
	if s.isClosed() {
		return ErrClosed
	}
	if !s.restoreEligible() {
		return nil
	}
	return s.Subscribe(true, nil)
}

func excludePresence(objects []string) []string {
	out := make([]string, 0, len(objects))
	for _, o := range objects {
		if !isPresenceName(o) {
			out = append(out, o)
		}
	}
	return out
}

func joinOrComma(names []string) string {
	if len(names) == 0 {
		return ","
	}
	out := names[0]
	for _, n := range names[1:] {
		out += "," + n
	}
	return out
}
