package subscribe

import "github.com/google/uuid"

// Config carries the flags read once per subscribe cycle. The
// subscriber never mutates a Config after construction.
type Config struct {
	// ShouldRestoreSubscription selects reconnect-with-catch-up
	// versus forget-membership on a non-retriable network loss.
	ShouldRestoreSubscription bool
	// ShouldTryCatchUpOnSubscriptionRestore preserves the last token
	// for catch-up when ShouldRestoreSubscription is set.
	ShouldTryCatchUpOnSubscriptionRestore bool
	// ShouldKeepTimeTokenOnListChange reuses the last token as the
	// cursor on an initial subscribe after a membership change.
	ShouldKeepTimeTokenOnListChange bool

	// PresenceHeartbeatValue is the heartbeat seconds sent with
	// every subscribe request; 0 omits the query parameter.
	PresenceHeartbeatValue int

	// UUID identifies this client for self-state-change detection
	// during event dispatch. A zero value is replaced with a fresh
	// google/uuid v4 string by NewConfig.
	UUID string
}

// NewConfig returns a Config with UUID defaulted when left empty.
func NewConfig(uuidValue string) Config {
	if uuidValue == "" {
		uuidValue = uuid.NewString()
	}
	return Config{UUID: uuidValue}
}
