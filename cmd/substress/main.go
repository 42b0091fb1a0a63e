// Command substress exercises the subscribe package's public API
// against a fake in-memory transport, for manual smoke-testing the
// state machine and retry timer without a real backend.
package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pascaldekloe/subscribe"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "substress",
	Short: "Drive a subscribe loop against a fake transport",
	RunE:  runSubstress,
}

func init() {
	rootCmd.Flags().StringSlice("channels", nil, "channel names to subscribe")
	rootCmd.Flags().StringSlice("groups", nil, "channel group names to subscribe")
	rootCmd.Flags().Int("heartbeat", 0, "presence heartbeat seconds")
	rootCmd.Flags().Duration("duration", 2*time.Second, "how long to run before shutting down")
}

func runSubstress(cmd *cobra.Command, args []string) error {
	channels, _ := cmd.Flags().GetStringSlice("channels")
	groups, _ := cmd.Flags().GetStringSlice("groups")
	heartbeat, _ := cmd.Flags().GetInt("heartbeat")
	duration, _ := cmd.Flags().GetDuration("duration")

	config := subscribe.NewConfig("")
	config.PresenceHeartbeatValue = heartbeat
	config.ShouldRestoreSubscription = true
	config.ShouldTryCatchUpOnSubscriptionRestore = true

	transport := &fakeTransport{}
	registry := &loggingRegistry{}
	heartbeatMgr := &noopHeartbeat{}
	store := subscribe.NewMemoryStateStore()

	sub := subscribe.NewSubscriber(config, transport, registry, heartbeatMgr, store)
	sub.AddChannels(channels)
	sub.AddChannelGroups(groups)
	sub.Subscribe(true, nil)

	time.Sleep(duration)
	sub.Close()

	fmt.Printf("final state: %s, %d notifications\n", sub.State(), registry.count())
	return nil
}

// fakeTransport answers every Subscribe with an empty, ever-advancing
// time token, simulating a live long-poll server for local testing.
type fakeTransport struct {
	tt int64
}

func (t *fakeTransport) Submit(ctx context.Context, params subscribe.RequestParams, complete func(subscribe.Completion)) {
	go func() {
		select {
		case <-ctx.Done():
			complete(subscribe.Completion{Category: subscribe.CategoryCancelled, IsError: true, RequestTimeToken: params.TimeToken})
			return
		case <-time.After(50 * time.Millisecond):
		}
		next := atomic.AddInt64(&t.tt, 1)
		complete(subscribe.Completion{RequestTimeToken: params.TimeToken, TimeToken: uint64(next)})
	}()
}

func (t *fakeTransport) CancelAll() {}

type noopHeartbeat struct{}

func (noopHeartbeat) StartIfRequired() {}
func (noopHeartbeat) StopIfPossible()  {}

type loggingRegistry struct {
	n int64
}

func (r *loggingRegistry) NotifyStatusChange(status subscribe.Status) {
	atomic.AddInt64(&r.n, 1)
	fmt.Println("status:", status.Category)
}

func (r *loggingRegistry) NotifyMessage(result subscribe.Result) {
	atomic.AddInt64(&r.n, 1)
}

func (r *loggingRegistry) NotifyPresenceEvent(result subscribe.Result) {
	atomic.AddInt64(&r.n, 1)
}

func (r *loggingRegistry) count() int64 {
	return atomic.LoadInt64(&r.n)
}
