package ibctesting

import (
	"bytes"
	"slices"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	commitmenttypes "github.com/cosmos/ibc-core/modules/core/23-commitment/types"
	host "github.com/cosmos/ibc-core/modules/core/24-host"
	"github.com/cosmos/ibc-core/modules/core/exported"
	ibcmock "github.com/cosmos/ibc-core/modules/light-clients/00-mock"
)

// GetProof implements coretypes.ProvableContext. It returns the mock proof of
// the value currently stored under the path, or of its absence. Heights above
// the latest host height or in another revision cannot be proven.
func (ctx *MockContext) GetProof(height exported.Height, path string) []byte {
	latest := ctx.LatestHeight()
	if height.GetRevisionNumber() != latest.RevisionNumber || height.GT(latest) {
		return nil
	}

	prefixedPath, err := commitmenttypes.ApplyPrefix(ctx.prefix, commitmenttypes.NewMerklePath(path))
	if err != nil {
		return nil
	}

	value, err := ctx.store.Get([]byte(path))
	if err != nil {
		return nil
	}
	if value == nil {
		return ibcmock.AbsenceProof(prefixedPath.Bytes())
	}
	return ibcmock.CommitmentProof(prefixedPath.Bytes(), value)
}

// ClientStates implements coretypes.QueryContext. Client states are sorted by
// client id.
func (ctx *MockContext) ClientStates() (clienttypes.IdentifiedClientStates, error) {
	suffix := []byte("/" + host.KeyClientState)

	prefix := []byte(string(host.KeyClientStorePrefix) + "/")

	var clientStates clienttypes.IdentifiedClientStates
	err := ctx.store.IteratePrefix(prefix, func(key, value []byte) (bool, error) {
		if !bytes.HasSuffix(key, suffix) {
			return false, nil
		}

		anyClientState, err := unmarshalAny(value)
		if err != nil {
			return true, err
		}

		clientState, err := ctx.cdc.UnpackClientState(anyClientState)
		if err != nil {
			return true, err
		}

		clientID := string(key[len(prefix) : len(key)-len(suffix)])
		clientStates = append(clientStates, clienttypes.NewIdentifiedClientState(clientID, clientState))
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return clientStates.Sort(), nil
}

// ConsensusStates implements coretypes.QueryContext. Consensus states are
// sorted by ascending height.
func (ctx *MockContext) ConsensusStates(clientID string) ([]clienttypes.ConsensusStateWithHeight, error) {
	heights, err := ctx.ConsensusStateHeights(clientID)
	if err != nil {
		return nil, err
	}

	consensusStates := make([]clienttypes.ConsensusStateWithHeight, 0, len(heights))
	for _, height := range heights {
		consensusState, err := ctx.ConsensusState(clientID, height)
		if err != nil {
			return nil, err
		}
		consensusStates = append(consensusStates, clienttypes.NewConsensusStateWithHeight(height, consensusState))
	}

	return consensusStates, nil
}

// ConsensusStateHeights implements coretypes.QueryContext. Heights are sorted
// in ascending order.
func (ctx *MockContext) ConsensusStateHeights(clientID string) ([]clienttypes.Height, error) {
	if _, err := ctx.ClientState(clientID); err != nil {
		return nil, err
	}

	prefix := host.FullConsensusStatePrefixKey(clientID)

	var heights []clienttypes.Height
	err := ctx.store.IteratePrefix(prefix, func(key, _ []byte) (bool, error) {
		rest := string(key[len(prefix):])
		// processed time and height are stored below the consensus state key
		if strings.Contains(rest, "/") {
			return false, nil
		}

		height, err := clienttypes.ParseHeight(rest)
		if err != nil {
			return true, err
		}
		heights = append(heights, height)
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(heights, func(a, b clienttypes.Height) int {
		return int(a.Compare(b))
	})
	return heights, nil
}

// ClientStatus implements coretypes.QueryContext.
func (ctx *MockContext) ClientStatus(clientID string) (exported.Status, error) {
	clientState, err := ctx.ClientState(clientID)
	if err != nil {
		return exported.Unknown, err
	}
	return clientState.Status(ctx, clientID), nil
}

// AllowedClients implements coretypes.QueryContext.
func (ctx *MockContext) AllowedClients() []string {
	return ctx.clientParams.AllowedClients
}

// ConnectionEnds implements coretypes.QueryContext.
func (ctx *MockContext) ConnectionEnds() ([]connectiontypes.IdentifiedConnection, error) {
	prefix := host.ConnectionPrefixKey()

	var connections []connectiontypes.IdentifiedConnection
	err := ctx.store.IteratePrefix(prefix, func(key, value []byte) (bool, error) {
		connectionID := string(key[len(prefix):])
		// skip the connection to channels index
		if strings.Contains(connectionID, "/") {
			return false, nil
		}

		connection, err := connectiontypes.UnmarshalConnection(value)
		if err != nil {
			return true, err
		}
		connections = append(connections, connectiontypes.NewIdentifiedConnection(connectionID, connection))
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return connections, nil
}

// ClientConnections implements coretypes.QueryContext.
func (ctx *MockContext) ClientConnections(clientID string) ([]string, error) {
	var connectionIDs []string
	if err := ctx.getMsgpack(host.ClientConnectionsKey(clientID), &connectionIDs); err != nil {
		return nil, err
	}
	if connectionIDs == nil {
		return nil, errorsmod.Wrap(connectiontypes.ErrClientConnectionPathsNotFound, clientID)
	}
	return connectionIDs, nil
}

// ChannelEnds implements coretypes.QueryContext.
func (ctx *MockContext) ChannelEnds() ([]channeltypes.IdentifiedChannel, error) {
	prefix := host.ChannelPrefixKey()

	var channels []channeltypes.IdentifiedChannel
	err := ctx.store.IteratePrefix(prefix, func(key, value []byte) (bool, error) {
		portID, channelID, err := host.ParsePortChannel(string(key[len(prefix):]))
		if err != nil {
			return false, nil
		}

		channel, err := channeltypes.UnmarshalChannel(value)
		if err != nil {
			return true, err
		}
		channels = append(channels, channeltypes.NewIdentifiedChannel(portID, channelID, channel))
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	return channels, nil
}

// ConnectionChannels implements coretypes.QueryContext.
func (ctx *MockContext) ConnectionChannels(connectionID string) ([]channeltypes.IdentifiedChannel, error) {
	var refs []channelRef
	if err := ctx.getMsgpack(host.ConnectionChannelsKey(connectionID), &refs); err != nil {
		return nil, err
	}

	channels := make([]channeltypes.IdentifiedChannel, 0, len(refs))
	for _, ref := range refs {
		channel, err := ctx.ChannelEnd(ref.PortID, ref.ChannelID)
		if err != nil {
			return nil, err
		}
		channels = append(channels, channeltypes.NewIdentifiedChannel(ref.PortID, ref.ChannelID, channel))
	}

	return channels, nil
}

// PacketCommitments implements coretypes.QueryContext.
func (ctx *MockContext) PacketCommitments(portID, channelID string) ([]channeltypes.PacketState, error) {
	return ctx.packetStates(host.PacketCommitmentPrefixPath(portID, channelID), portID, channelID)
}

// PacketAcknowledgements implements coretypes.QueryContext.
func (ctx *MockContext) PacketAcknowledgements(portID, channelID string, sequences []uint64) ([]channeltypes.PacketState, error) {
	if len(sequences) == 0 {
		return ctx.packetStates(host.PacketAcknowledgementPrefixPath(portID, channelID), portID, channelID)
	}

	var acks []channeltypes.PacketState
	for _, sequence := range sequences {
		bz, err := ctx.store.Get(host.PacketAcknowledgementKey(portID, channelID, sequence))
		if err != nil {
			return nil, err
		}
		if bz == nil {
			continue
		}
		acks = append(acks, channeltypes.NewPacketState(portID, channelID, sequence, bz))
	}

	return acks, nil
}

// UnreceivedPackets implements coretypes.QueryContext. On ordered channels a
// sequence is unreceived if it is not below the next receive sequence, on
// unordered channels if no receipt is stored for it.
func (ctx *MockContext) UnreceivedPackets(portID, channelID string, sequences []uint64) ([]uint64, error) {
	channel, err := ctx.ChannelEnd(portID, channelID)
	if err != nil {
		return nil, err
	}

	var unreceived []uint64
	switch channel.Ordering {
	case channeltypes.ORDERED:
		nextSequenceRecv, err := ctx.GetNextSequenceRecv(portID, channelID)
		if err != nil {
			return nil, err
		}

		for _, sequence := range sequences {
			if sequence >= nextSequenceRecv {
				unreceived = append(unreceived, sequence)
			}
		}
	case channeltypes.UNORDERED:
		for _, sequence := range sequences {
			found, err := ctx.store.Has(host.PacketReceiptKey(portID, channelID, sequence))
			if err != nil {
				return nil, err
			}
			if !found {
				unreceived = append(unreceived, sequence)
			}
		}
	default:
		return nil, errorsmod.Wrapf(channeltypes.ErrInvalidChannelOrdering, "%s", channel.Ordering)
	}

	return unreceived, nil
}

// UnreceivedAcks implements coretypes.QueryContext.
func (ctx *MockContext) UnreceivedAcks(portID, channelID string, sequences []uint64) ([]uint64, error) {
	if _, err := ctx.ChannelEnd(portID, channelID); err != nil {
		return nil, err
	}

	var unreceived []uint64
	for _, sequence := range sequences {
		found, err := ctx.store.Has(host.PacketCommitmentKey(portID, channelID, sequence))
		if err != nil {
			return nil, err
		}
		if found {
			unreceived = append(unreceived, sequence)
		}
	}

	return unreceived, nil
}

// packetStates lists the records stored below the given packet prefix path,
// sorted by sequence.
func (ctx *MockContext) packetStates(prefixPath, portID, channelID string) ([]channeltypes.PacketState, error) {
	prefix := []byte(prefixPath + "/")

	var states []channeltypes.PacketState
	err := ctx.store.IteratePrefix(prefix, func(key, value []byte) (bool, error) {
		sequence, err := strconv.ParseUint(string(key[len(prefix):]), 10, 64)
		if err != nil {
			return true, errorsmod.Wrapf(channeltypes.ErrInvalidPacket, "invalid sequence in key %s", key)
		}
		states = append(states, channeltypes.NewPacketState(portID, channelID, sequence, value))
		return false, nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(states, func(a, b channeltypes.PacketState) int {
		switch {
		case a.Sequence < b.Sequence:
			return -1
		case a.Sequence > b.Sequence:
			return 1
		default:
			return 0
		}
	})
	return states, nil
}
