package subscribe

import (
	"encoding/json"
	"net/url"
	"sort"
	"strings"

	"github.com/pascaldekloe/subscribe/internal/subscribelog"
)

var requestLog = subscribelog.Component("request")

// buildRequest produces the parameter bundle of the next long-poll.
// channels, presence and groups must already be a consistent snapshot
// of the Subscription Set (read once by the caller, under the shared
// domain lock), since this function takes no lock of its own.
// callerState is the caller-supplied per-object state map (may be
// nil); it is merged with the store's current contents over
// channels ∪ presence ∪ groups, and the merge result is both used in
// the query and written back to store.
func buildRequest(channels, presence, groups []string, timeToken uint64, callerState map[string]map[string]any, heartbeat int, store StateStore) RequestParams {
	union := make([]string, 0, len(channels)+len(presence)+len(groups))
	union = append(union, channels...)
	union = append(union, presence...)
	union = append(union, groups...)

	merged := store.Merge(union, callerState)

	params := RequestParams{
		Operation: OperationSubscribe,
		TimeToken: timeToken,
	}

	pathObjects := make([]string, 0, len(channels)+len(presence))
	pathObjects = append(pathObjects, channels...)
	pathObjects = append(pathObjects, presence...)
	sort.Strings(pathObjects)
	if len(pathObjects) == 0 {
		params.Channels = ","
	} else {
		params.Channels = strings.Join(pathObjects, ",")
	}

	if len(groups) > 0 {
		sorted := append([]string(nil), groups...)
		sort.Strings(sorted)
		params.ChannelGroup = strings.Join(sorted, ",")
	}

	if heartbeat > 0 {
		params.Heartbeat = heartbeat
	}

	if len(merged) > 0 {
		if encoded, ok := encodeState(merged); ok {
			params.State = encoded
		}
	}

	return params
}

// encodeState JSON-encodes the merged state map and percent-escapes
// it for use as a query value.
func encodeState(merged map[string]map[string]any) (string, bool) {
	raw, err := json.Marshal(merged)
	if err != nil {
		requestLog.Error().Err(err).Msg("state encode failed")
		return "", false
	}
	return url.QueryEscape(string(raw)), true
}
