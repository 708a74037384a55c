package types

import (
	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

// ProvableContext yields proofs for values committed by the host.
type ProvableContext interface {
	// GetProof returns the proof of the value (or its absence) stored under
	// path at the given height. It returns nil if no proof can be produced.
	GetProof(height exported.Height, path string) []byte
}

// QueryContext is the read-only listing interface of the protocol store. All
// listings reflect the last executed message.
type QueryContext interface {
	ProvableContext
	ValidationContext

	ClientStates() (clienttypes.IdentifiedClientStates, error)
	ConsensusStates(clientID string) ([]clienttypes.ConsensusStateWithHeight, error)
	ConsensusStateHeights(clientID string) ([]clienttypes.Height, error)
	ClientStatus(clientID string) (exported.Status, error)
	AllowedClients() []string

	ConnectionEnds() ([]connectiontypes.IdentifiedConnection, error)
	ClientConnections(clientID string) ([]string, error)

	ChannelEnds() ([]channeltypes.IdentifiedChannel, error)
	ConnectionChannels(connectionID string) ([]channeltypes.IdentifiedChannel, error)

	PacketCommitments(portID, channelID string) ([]channeltypes.PacketState, error)
	// PacketAcknowledgements returns the acknowledgement commitments of the channel.
	// If sequences is non-empty only those sequences are returned.
	PacketAcknowledgements(portID, channelID string, sequences []uint64) ([]channeltypes.PacketState, error)
	// UnreceivedPackets returns the sequences, out of those sent by the
	// counterparty, that have not been received on this channel end.
	UnreceivedPackets(portID, channelID string, sequences []uint64) ([]uint64, error)
	// UnreceivedAcks returns the sequences, out of those acknowledged by the
	// counterparty, whose commitments are still stored on this channel end.
	UnreceivedAcks(portID, channelID string, sequences []uint64) ([]uint64, error)
}
