package subscribe

import (
	"sync"
	"time"

	"github.com/pascaldekloe/subscribe/internal/subscribelog"
)

var retryLog = subscribelog.Component("retry")

// retryTimer is a single-slot, one-shot delayed re-issue of the
// subscribe request. At most one timer is armed at any instant: Start
// implicitly Stops any prior arm. Stop is idempotent whether armed or
// not. mutex is shared with the Subscriber's subscriptionSet, cursor
// and stateMachine, forming one read-write mutual-exclusion domain.
type retryTimer struct {
	mutex *sync.RWMutex
	timer *time.Timer
}

// Start schedules fn to run once, after RetryInterval, cancelling any
// previously armed timer first.
func (r *retryTimer) Start(fn func()) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	retryLog.Debug().Dur("interval", RetryInterval).Msg("retry timer armed")
	r.timer = time.AfterFunc(RetryInterval, fn)
}

// Stop cancels any armed timer. Safe to call whether armed or not.
func (r *retryTimer) Stop() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
