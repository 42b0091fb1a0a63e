package subscribe

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPresenceName(t *testing.T) {
	assert.True(t, isPresenceName("room-pnpres"))
	assert.False(t, isPresenceName("room"))
	assert.Equal(t, "room", basePresenceName("room-pnpres"))
	assert.Equal(t, "room", basePresenceName("room"))
	assert.Equal(t, "room-pnpres", presenceName("room"))
}

func TestCloseStopsSubmission(t *testing.T) {
	sub, transport, _, _ := newTestSubscriber(Config{})
	sub.AddChannels([]string{"a"})
	sub.Subscribe(true, nil)
	before := transport.count()

	sub.Close()
	sub.Subscribe(true, nil)

	assert.Equal(t, before, transport.count())
	assert.Equal(t, 1, transport.cancels)
}

func TestCloseIdempotent(t *testing.T) {
	sub, _, _, _ := newTestSubscriber(Config{})
	sub.Close()
	sub.Close()
}

func TestOperationsAfterCloseReturnErrClosed(t *testing.T) {
	sub, _, _, _ := newTestSubscriber(Config{})
	sub.AddChannels([]string{"a"})
	sub.Close()

	require.ErrorIs(t, sub.Subscribe(true, nil), ErrClosed)
	require.ErrorIs(t, sub.Unsubscribe(true, []string{"a"}), ErrClosed)
	require.ErrorIs(t, sub.RestoreIfRequired(), ErrClosed)
}

// Concurrent readers/writers on the Subscription Set must not race.
func TestSubscriptionSetConcurrentAccess(t *testing.T) {
	s := newSubscriptionSet(&sync.RWMutex{})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			s.AddChannels([]string{"c"})
		}(i)
		go func() {
			defer wg.Done()
			_ = s.All()
		}()
	}
	wg.Wait()
}
