package exported

// Status represents the status of a client
type Status string

const (
	// ModuleName is the name of the IBC core module and the codespace of its
	// generic errors.
	ModuleName = "ibc"

	// TypeClientMisbehaviour is the shared evidence misbehaviour type
	TypeClientMisbehaviour string = "client_misbehaviour"

	// Mock is the client type of the test-only stand-in light client.
	Mock string = "00-mock"

	// Solomachine is used to indicate that the light client is a solo machine.
	Solomachine string = "06-solomachine"

	// Tendermint is used to indicate that the client uses the Tendermint Consensus Algorithm.
	Tendermint string = "07-tendermint"

	// AllowAllClients is the value that if set in AllowedClients param
	// would allow any wired up light client modules to be allowed
	AllowAllClients = "*"

	// Active is a status type of a client. An active client is allowed to be used.
	Active Status = "Active"

	// Frozen is a status type of a client. A frozen client is not allowed to be used.
	Frozen Status = "Frozen"

	// Expired is a status type of a client. An expired client is not allowed to be used.
	Expired Status = "Expired"

	// Unknown indicates there was an error in determining the status of a client.
	Unknown Status = "Unknown"
)

// ClientValidationContext is the read-only view of the host that light clients
// need in order to verify messages and proofs.
type ClientValidationContext interface {
	// ClientState returns the latest client state of the given client.
	ClientState(clientID string) (ClientState, error)

	// ConsensusState returns the consensus state stored for the client at the given height.
	ConsensusState(clientID string, height Height) (ConsensusState, error)

	// ClientUpdateTime returns the host timestamp (in nanoseconds) at which the
	// consensus state for the given height was stored.
	ClientUpdateTime(clientID string, height Height) (uint64, error)

	// ClientUpdateHeight returns the host height at which the consensus state
	// for the given height was stored.
	ClientUpdateHeight(clientID string, height Height) (Height, error)

	// HostHeight returns the current height of the host chain.
	HostHeight() (Height, error)

	// HostTimestamp returns the current block time of the host chain in nanoseconds.
	HostTimestamp() (uint64, error)
}

// ClientExecutionContext extends ClientValidationContext with the writes light
// clients perform when they are initialized or updated.
type ClientExecutionContext interface {
	ClientValidationContext

	// StoreClientState replaces the client state of the given client.
	StoreClientState(clientID string, clientState ClientState) error

	// StoreConsensusState stores the consensus state at the given height.
	StoreConsensusState(clientID string, height Height, consensusState ConsensusState) error
}

// ClientState defines the required common functions for light clients.
//
// Methods that only take a ClientValidationContext must not mutate host state.
type ClientState interface {
	ClientType() string
	GetLatestHeight() Height
	Validate() error

	// Status must return the status of the client. Only Active clients are allowed to process packets.
	Status(ctx ClientValidationContext, clientID string) Status

	// GetTimestampAtHeight must return the timestamp for the consensus state associated with the provided height.
	GetTimestampAtHeight(ctx ClientValidationContext, clientID string, height Height) (uint64, error)

	// VerifyInitialState validates that the initial consensus state is consistent with the client state.
	VerifyInitialState(consensusState ConsensusState) error

	// Initialize stores the client state and the initial consensus state at the latest height.
	Initialize(ctx ClientExecutionContext, clientID string, consensusState ConsensusState) error

	// VerifyMembership is a generic proof verification method which verifies a proof of the existence of a value
	// at a given path at the specified height. The path is expected to already carry the counterparty prefix.
	VerifyMembership(
		ctx ClientValidationContext,
		clientID string,
		height Height,
		delayTimePeriod uint64,
		delayBlockPeriod uint64,
		proof []byte,
		path []byte,
		value []byte,
	) error

	// VerifyNonMembership is a generic proof verification method which verifies the absence of a given path
	// at a specified height.
	VerifyNonMembership(
		ctx ClientValidationContext,
		clientID string,
		height Height,
		delayTimePeriod uint64,
		delayBlockPeriod uint64,
		proof []byte,
		path []byte,
	) error

	// VerifyClientMessage must verify a ClientMessage. A ClientMessage could be a Header or Misbehaviour.
	// An error should be returned if the ClientMessage fails to verify.
	VerifyClientMessage(ctx ClientValidationContext, clientID string, clientMsg ClientMessage) error

	// CheckForMisbehaviour checks for evidence of misbehaviour in a Header or Misbehaviour. It assumes the
	// ClientMessage has already been verified.
	CheckForMisbehaviour(ctx ClientValidationContext, clientID string, clientMsg ClientMessage) bool

	// UpdateStateOnMisbehaviour freezes the client.
	UpdateStateOnMisbehaviour(ctx ClientExecutionContext, clientID string, clientMsg ClientMessage) error

	// UpdateState stores the new client state and consensus state for a verified header and returns
	// the consensus heights that were added.
	UpdateState(ctx ClientExecutionContext, clientID string, clientMsg ClientMessage) ([]Height, error)
}

// ConsensusState is the state of the consensus process
type ConsensusState interface {
	ClientType() string // Consensus kind

	// GetRoot returns the commitment root of the consensus state,
	// which is used for key-value pair verification.
	GetRoot() Root

	// GetTimestamp returns the timestamp (in nanoseconds) of the consensus state
	GetTimestamp() uint64

	ValidateBasic() error
}

// ClientMessage is an interface used to update an IBC client.
// The update may be done by a single header, a batch of headers, misbehaviour, or any type which when verified produces
// a change to state of the IBC client
type ClientMessage interface {
	ClientType() string
	ValidateBasic() error
}

// Root is the commitment root of a consensus state.
// A root is constructed from a set of key-value pairs,
// and the inclusion or non-inclusion of an arbitrary key-value pair
// can be proven with the proof.
type Root interface {
	GetHash() []byte
	Empty() bool
}

// Height is a wrapper interface over clienttypes.Height
// all clients must use the concrete implementation in types
type Height interface {
	IsZero() bool
	LT(Height) bool
	LTE(Height) bool
	EQ(Height) bool
	GT(Height) bool
	GTE(Height) bool
	GetRevisionNumber() uint64
	GetRevisionHeight() uint64
	Increment() Height
	Decrement() (Height, bool)
	String() string
}

// String returns the string representation of a client status.
func (s Status) String() string {
	return string(s)
}
