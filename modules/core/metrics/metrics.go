package metrics

import (
	gometrics "github.com/armon/go-metrics"
)

// Prometheus metric labels.
const (
	// 02-client labels

	LabelClientType = "client_type"
	LabelClientID   = "client_id"
	LabelUpdateType = "update_type"
	LabelMsgType    = "msg_type"

	// 03-connection labels

	LabelConnectionID = "connection_id"

	// Packet handler labels

	LabelSourcePort         = "source_port"
	LabelSourceChannel      = "source_channel"
	LabelDestinationPort    = "destination_port"
	LabelDestinationChannel = "destination_channel"
	LabelTimeoutType        = "timeout_type"
	LabelChannelOrdering    = "channel_ordering"
)

// Metric key prefixes. Every key is rooted at "ibc".
var (
	KeyClient     = []string{"ibc", "client"}
	KeyConnection = []string{"ibc", "connection"}
	KeyChannel    = []string{"ibc", "channel"}
	KeyPacket     = []string{"ibc", "packet"}
	KeyDispatch   = []string{"ibc", "dispatch"}
)

// NewLabel returns a metric label.
func NewLabel(name, value string) gometrics.Label {
	return gometrics.Label{Name: name, Value: value}
}

// IncrCounter increments the counter under the given key prefix and name.
// Counters are reported to the global go-metrics sink installed by the host.
func IncrCounter(prefix []string, name string, labels ...gometrics.Label) {
	key := make([]string, 0, len(prefix)+1)
	key = append(key, prefix...)
	key = append(key, name)
	gometrics.IncrCounterWithLabels(key, 1, labels)
}
