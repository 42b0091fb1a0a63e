package subscribe

import "github.com/pascaldekloe/subscribe/internal/subscribelog"

var handlerLog = subscribelog.Component("handler")

// handle classifies one subscribe completion and drives the cursor,
// the state machine and the retry timer. It always runs with the
// retry timer stopped first, since a completion means the in-flight
// request returned and any queued retry is moot.
func (s *Subscriber) handle(c Completion) {
	s.retry.Stop()

	snap := s.snapshot()

	switch {
	case c.IsError && c.Category == CategoryCancelled:
		s.handleCancelled(c, snap)
	case c.IsError && c.Category.isRetriable():
		s.handleRetriable(c, snap)
	case c.IsError:
		s.handleOtherFailure(c, snap)
	default:
		s.handleSuccess(c, snap)
	}
}

func (s *Subscriber) handleSuccess(c Completion, snap Snapshot) {
	initial := c.RequestTimeToken == 0
	s.cursor.applyOnSubscribeSuccess(initial && s.config.ShouldKeepTimeTokenOnListChange, c.TimeToken)

	status := newStatus(CategoryAcknowledgment, false, c.RequestTimeToken, s.snapshot())
	status.ResponseTimeToken = c.TimeToken
	status = s.dispatcher.dispatch(status, c.Events, s.subs)

	s.continueSubscriptionCycle()

	s.heartbeat.StartIfRequired()

	if initial {
		result := s.state.ToConnected(true)
		if result.Accepted {
			connStatus := newStatus(result.Category, false, c.RequestTimeToken, s.snapshot())
			s.registry.NotifyStatusChange(connStatus)
		}
	}

	handlerLog.Debug().Uint64("tt", c.TimeToken).Bool("initial", initial).Msg("subscribe success")
}

func (s *Subscriber) handleCancelled(c Completion, snap Snapshot) {
	s.heartbeat.StopIfPossible()
	status := newStatus(CategoryCancelled, true, c.RequestTimeToken, snap)
	s.registry.NotifyStatusChange(status)
}

func (s *Subscriber) handleRetriable(c Completion, snap Snapshot) {
	status := newStatus(c.Category, true, c.RequestTimeToken, snap)
	status.AutomaticRetry = true

	if c.Category == CategoryAccessDenied {
		status.CancelRetry = s.retry.Stop
		s.retry.Start(s.continueSubscriptionCycle)
		result := s.state.ToAccessRightsError()
		if result.Accepted {
			status.Category = result.Category
		}
		s.registry.NotifyStatusChange(status)
		return
	}

	status.Category = CategoryUnexpectedDisconnect
	s.retry.Start(s.continueSubscriptionCycle)
	result := s.state.ToDisconnectedUnexpectedly()
	if result.Accepted {
		status.Snapshot = s.snapshot()
	}
	s.registry.NotifyStatusChange(status)
}

func (s *Subscriber) handleOtherFailure(c Completion, snap Snapshot) {
	if s.config.ShouldRestoreSubscription {
		if s.config.ShouldTryCatchUpOnSubscriptionRestore {
			s.cursor.PromoteToLast()
		} else {
			s.cursor.Reset()
		}
		s.retry.Start(s.continueSubscriptionCycle)
	} else {
		objects := s.subs.All()
		s.store.Clear(objects)
		s.subs.Clear()
	}

	status := newStatus(CategoryUnexpectedDisconnect, true, c.RequestTimeToken, s.snapshot())
	status.AutomaticRetry = s.config.ShouldRestoreSubscription

	s.heartbeat.StopIfPossible()
	s.state.ToDisconnectedUnexpectedly()

	s.registry.NotifyStatusChange(status)
}
