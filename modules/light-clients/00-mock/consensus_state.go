package mock

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-core/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

var _ exported.ConsensusState = (*ConsensusState)(nil)

// ConsensusState is the mock view of the counterparty at one height.
type ConsensusState struct {
	Timestamp uint64                     `msgpack:"timestamp"`
	Root      commitmenttypes.MerkleRoot `msgpack:"root"`
}

// NewConsensusState returns a consensus state with the given timestamp in nanoseconds.
func NewConsensusState(timestamp uint64) *ConsensusState {
	return &ConsensusState{
		Timestamp: timestamp,
		Root:      commitmenttypes.NewMerkleRoot([]byte("mock")),
	}
}

// ClientType returns the mock client type.
func (*ConsensusState) ClientType() string {
	return ModuleName
}

// GetRoot returns the commitment root of the consensus state.
func (cs *ConsensusState) GetRoot() exported.Root {
	return cs.Root
}

// GetTimestamp returns the timestamp of the consensus state in nanoseconds.
func (cs *ConsensusState) GetTimestamp() uint64 {
	return cs.Timestamp
}

// ValidateBasic checks that the timestamp is set.
func (cs *ConsensusState) ValidateBasic() error {
	if cs.Timestamp == 0 {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "timestamp cannot be zero")
	}
	return nil
}
