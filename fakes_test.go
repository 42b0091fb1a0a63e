package subscribe

import (
	"context"
	"sync"
)

// fakeTransport records every submitted RequestParams and lets the
// test script reply to the most recent Submit call synchronously.
type fakeTransport struct {
	mutex        sync.Mutex
	submits      []RequestParams
	cancels      int
	lastComplete func(Completion)
}

func (t *fakeTransport) Submit(ctx context.Context, params RequestParams, complete func(Completion)) {
	t.mutex.Lock()
	t.submits = append(t.submits, params)
	t.lastComplete = complete
	t.mutex.Unlock()
}

// complete invokes the most recently submitted request's callback.
func (t *fakeTransport) complete(c Completion) {
	t.mutex.Lock()
	fn := t.lastComplete
	t.mutex.Unlock()
	fn(c)
}

func (t *fakeTransport) CancelAll() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.cancels++
}

func (t *fakeTransport) last() RequestParams {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.submits[len(t.submits)-1]
}

func (t *fakeTransport) count() int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.submits)
}

// fakeRegistry records every notification handed to it.
type fakeRegistry struct {
	mutex     sync.Mutex
	statuses  []Status
	messages  []Result
	presences []Result
}

func (r *fakeRegistry) NotifyStatusChange(s Status) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.statuses = append(r.statuses, s)
}

func (r *fakeRegistry) NotifyMessage(res Result) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.messages = append(r.messages, res)
}

func (r *fakeRegistry) NotifyPresenceEvent(res Result) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.presences = append(r.presences, res)
}

func (r *fakeRegistry) lastStatus() Status {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.statuses[len(r.statuses)-1]
}

func (r *fakeRegistry) statusCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.statuses)
}

// fakeHeartbeat records calls rather than doing any real work.
type fakeHeartbeat struct {
	mutex   sync.Mutex
	started int
	stopped int
}

func (h *fakeHeartbeat) StartIfRequired() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.started++
}

func (h *fakeHeartbeat) StopIfPossible() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.stopped++
}
