package subscribe

import "github.com/pascaldekloe/subscribe/internal/subscribelog"

var dispatchLog = subscribelog.Component("dispatch")

// eventDispatcher splits a batch response into message and presence
// events, normalizes presence channel naming, and forwards results to
// the listener registry.
type eventDispatcher struct {
	registry ListenerRegistry
	store    StateStore
	uuid     string
}

// dispatch processes every event in events against the enclosing
// status, which it clones per event. It returns the status stripped
// down to only its time token, so the batch isn't delivered twice
// through both the events and the status.
func (d *eventDispatcher) dispatch(status Status, events []Event, subs *subscriptionSet) Status {
	for _, event := range events {
		if event.SubscribedChannel == "" {
			all := subs.All()
			if len(all) == 0 {
				// Drop rather than index an empty slice.
				dispatchLog.Debug().Msg("dropping event with no subscribed_channel: empty membership")
				continue
			}
			event.SubscribedChannel = all[0]
		}

		isPresence := isPresenceName(event.SubscribedChannel) || isPresenceName(event.ActualChannel)
		if isPresence {
			event.SubscribedChannel = basePresenceName(event.SubscribedChannel)
			event.ActualChannel = basePresenceName(event.ActualChannel)
		}

		result := Result{Status: status, Event: event}

		if isPresence {
			if event.Presence != nil && event.Presence.EventType == PresenceStateChange && event.Presence.UUID == d.uuid {
				d.store.Set(event.SubscribedChannel, event.Presence.State)
			}
			d.registry.NotifyPresenceEvent(result)
			continue
		}

		if event.DecryptError {
			decryptStatus := newStatus(CategoryDecryptionError, false, status.RequestTimeToken, status.Snapshot)
			d.registry.NotifyStatusChange(decryptStatus)
		}
		d.registry.NotifyMessage(result)
	}

	status.Data = map[string]uint64{"tt": status.ResponseTimeToken}
	return status
}
