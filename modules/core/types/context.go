package types

import (
	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	commitmenttypes "github.com/cosmos/ibc-core/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

// ValidationContext is the read-only view of the host chain that handlers use
// during the validate phase of a message. Implementations must not mutate state
// through any of these methods. Lookups of absent entities return an error
// wrapping the matching NotFound sentinel of the owning layer.
type ValidationContext interface {
	exported.ClientValidationContext

	// Codec resolves the Any envelopes of client and consensus states.
	Codec() *clienttypes.Codec
	// ClientParams returns the client parameters of the host.
	ClientParams() clienttypes.Params
	// ClientCounter returns the number of clients created so far.
	ClientCounter() (uint64, error)

	ConnectionEnd(connectionID string) (connectiontypes.ConnectionEnd, error)
	ConnectionCounter() (uint64, error)
	ConnectionParams() connectiontypes.Params
	// GetCompatibleVersions returns the connection versions supported by the host.
	GetCompatibleVersions() []*connectiontypes.Version
	// CommitmentPrefix returns the prefix under which the host commits its IBC store.
	CommitmentPrefix() commitmenttypes.MerklePrefix

	ChannelEnd(portID, channelID string) (channeltypes.Channel, error)
	ChannelCounter() (uint64, error)
	GetNextSequenceSend(portID, channelID string) (uint64, error)
	GetNextSequenceRecv(portID, channelID string) (uint64, error)
	GetNextSequenceAck(portID, channelID string) (uint64, error)

	GetPacketCommitment(portID, channelID string, sequence uint64) ([]byte, error)
	GetPacketReceipt(portID, channelID string, sequence uint64) ([]byte, error)
	GetPacketAcknowledgement(portID, channelID string, sequence uint64) ([]byte, error)
}

// ExecutionContext extends ValidationContext with the writes performed during
// the execute phase of a message.
type ExecutionContext interface {
	ValidationContext
	exported.ClientExecutionContext

	// StoreUpdateTime records the host timestamp at which the consensus state
	// for the given height was stored.
	StoreUpdateTime(clientID string, height exported.Height, timestamp uint64) error
	// StoreUpdateHeight records the host height at which the consensus state
	// for the given height was stored.
	StoreUpdateHeight(clientID string, height, hostHeight exported.Height) error
	IncreaseClientCounter() error

	StoreConnection(connectionID string, connection connectiontypes.ConnectionEnd) error
	// StoreConnectionToClient appends the connection to the client's connection paths.
	StoreConnectionToClient(clientID, connectionID string) error
	IncreaseConnectionCounter() error

	StoreChannel(portID, channelID string, channel channeltypes.Channel) error
	IncreaseChannelCounter() error
	StoreNextSequenceSend(portID, channelID string, sequence uint64) error
	StoreNextSequenceRecv(portID, channelID string, sequence uint64) error
	StoreNextSequenceAck(portID, channelID string, sequence uint64) error

	StorePacketCommitment(portID, channelID string, sequence uint64, commitment []byte) error
	DeletePacketCommitment(portID, channelID string, sequence uint64) error
	StorePacketReceipt(portID, channelID string, sequence uint64) error
	StorePacketAcknowledgement(portID, channelID string, sequence uint64, ackCommitment []byte) error
	DeletePacketAcknowledgement(portID, channelID string, sequence uint64) error

	// EmitIBCEvent appends an event to the events of the message being executed.
	EmitIBCEvent(event Event) error
	// LogMessage records a log line for the message being executed.
	LogMessage(msg string) error
}
