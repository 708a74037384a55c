package host

import "fmt"

const (
	KeyChannelEndPrefix    = "channelEnds"
	KeyChannelPrefix       = "channels"
	KeyNextChannelSequence = "nextChannelSequence"
)

// ICS04
// The following paths are the keys to the store as defined in https://github.com/cosmos/ibc/tree/master/spec/core/ics-004-channel-and-packet-semantics#store-paths

// ChannelPath defines the path under which channels are stored
func ChannelPath(portID, channelID string) string {
	return fmt.Sprintf("%s/%s", KeyChannelEndPrefix, channelPath(portID, channelID))
}

// ChannelKey returns the store key for a particular channel
func ChannelKey(portID, channelID string) []byte {
	return []byte(ChannelPath(portID, channelID))
}

// ChannelPrefixKey returns the prefix of every channel end key.
func ChannelPrefixKey() []byte {
	return []byte(KeyChannelEndPrefix + "/")
}

// ConnectionChannelsKey returns the store key of the reverse mapping from a
// connection to the (port, channel) pairs bound to it.
func ConnectionChannelsKey(connectionID string) []byte {
	return []byte(fmt.Sprintf("%s/%s/%s", KeyConnectionPrefix, connectionID, KeyChannelPrefix))
}

// NextChannelSequenceKey returns the store key of the channel identifier counter.
func NextChannelSequenceKey() []byte {
	return []byte(KeyNextChannelSequence)
}

func channelPath(portID, channelID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", KeyPortPrefix, portID, KeyChannelPrefix, channelID)
}
