package solomachine

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

var _ exported.ClientState = (*ClientState)(nil)

// ClientState defines a solo machine client that tracks the current consensus
// state and if the client is frozen.
type ClientState struct {
	// latest sequence of the client state
	Sequence uint64 `msgpack:"sequence"`
	// frozen sequence of the solo machine
	IsFrozen       bool            `msgpack:"is_frozen"`
	ConsensusState *ConsensusState `msgpack:"consensus_state"`
}

// NewClientState creates a new ClientState instance.
func NewClientState(latestSequence uint64, consensusState *ConsensusState) *ClientState {
	return &ClientState{
		Sequence:       latestSequence,
		IsFrozen:       false,
		ConsensusState: consensusState,
	}
}

// ClientType is Solo Machine.
func (*ClientState) ClientType() string {
	return exported.Solomachine
}

// GetLatestHeight returns the latest sequence number.
// Return exported.Height to satisfy ClientState interface
// Revision number is always 0 for a solo-machine.
func (cs *ClientState) GetLatestHeight() exported.Height {
	return clienttypes.NewHeight(0, cs.Sequence)
}

// Validate performs basic validation of the client state fields.
func (cs *ClientState) Validate() error {
	if cs.Sequence == 0 {
		return errorsmod.Wrap(clienttypes.ErrInvalidClient, "sequence cannot be 0")
	}
	if cs.ConsensusState == nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "consensus state cannot be nil")
	}
	return cs.ConsensusState.ValidateBasic()
}

// Status returns the status of the solo machine client.
// The client may be:
// - Active: if frozen sequence is 0
// - Frozen: otherwise solo machine is frozen
func (cs *ClientState) Status(_ exported.ClientValidationContext, _ string) exported.Status {
	if cs.IsFrozen {
		return exported.Frozen
	}

	return exported.Active
}

// GetTimestampAtHeight returns the timestamp of the consensus state stored at
// the given sequence.
func (cs *ClientState) GetTimestampAtHeight(ctx exported.ClientValidationContext, clientID string, height exported.Height) (uint64, error) {
	if height.EQ(cs.GetLatestHeight()) {
		return cs.ConsensusState.GetTimestamp(), nil
	}

	consensusState, err := ctx.ConsensusState(clientID, height)
	if err != nil {
		return 0, errorsmod.Wrapf(clienttypes.ErrConsensusStateNotFound, "sequence (%s)", height)
	}
	return consensusState.GetTimestamp(), nil
}

// VerifyInitialState checks that the initial consensus state is the one
// embedded in the client state.
func (cs *ClientState) VerifyInitialState(consensusState exported.ConsensusState) error {
	smConsensusState, ok := consensusState.(*ConsensusState)
	if !ok {
		return errorsmod.Wrapf(clienttypes.ErrInvalidConsensus, "invalid initial consensus state. expected type: %T, got: %T",
			&ConsensusState{}, consensusState)
	}

	if cs.ConsensusState == nil ||
		cs.ConsensusState.Timestamp != smConsensusState.Timestamp ||
		cs.ConsensusState.Diversifier != smConsensusState.Diversifier ||
		string(cs.ConsensusState.PublicKey) != string(smConsensusState.PublicKey) {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "initial consensus state does not match the client state")
	}

	return nil
}

// Initialize stores the client state and records the consensus state at the
// initial sequence.
func (cs *ClientState) Initialize(ctx exported.ClientExecutionContext, clientID string, consensusState exported.ConsensusState) error {
	if err := cs.VerifyInitialState(consensusState); err != nil {
		return err
	}

	if err := ctx.StoreClientState(clientID, cs); err != nil {
		return err
	}

	return ctx.StoreConsensusState(clientID, cs.GetLatestHeight(), consensusState)
}

// VerifyMembership verifies a signature of the solo machine over the value
// stored at the path. The proof must be made at the latest sequence. The
// path is expected to already carry the counterparty prefix.
func (cs *ClientState) VerifyMembership(
	_ exported.ClientValidationContext,
	_ string,
	height exported.Height,
	_ uint64,
	_ uint64,
	proof []byte,
	path []byte,
	value []byte,
) error {
	if err := cs.verifySignedPath(height, proof, path, value); err != nil {
		return errorsmod.Wrap(clienttypes.ErrFailedMembershipVerification, err.Error())
	}
	return nil
}

// VerifyNonMembership verifies a signature of the solo machine over the path
// with empty data, attesting that nothing is stored at the path.
func (cs *ClientState) VerifyNonMembership(
	_ exported.ClientValidationContext,
	_ string,
	height exported.Height,
	_ uint64,
	_ uint64,
	proof []byte,
	path []byte,
) error {
	if err := cs.verifySignedPath(height, proof, path, nil); err != nil {
		return errorsmod.Wrap(clienttypes.ErrFailedNonMembershipVerification, err.Error())
	}
	return nil
}

func (cs *ClientState) verifySignedPath(height exported.Height, proof, path, value []byte) error {
	if !height.EQ(cs.GetLatestHeight()) {
		return errorsmod.Wrapf(
			ErrInvalidSequence,
			"proof height must equal the latest sequence of the client (%s != %s)", height, cs.GetLatestHeight(),
		)
	}

	publicKey, signature, timestamp, err := produceVerificationArgs(cs, proof)
	if err != nil {
		return err
	}

	signBz, err := MarshalSignBytes(&SignBytes{
		Sequence:    cs.Sequence,
		Timestamp:   timestamp,
		Diversifier: cs.ConsensusState.Diversifier,
		Path:        path,
		Data:        value,
	})
	if err != nil {
		return err
	}

	return VerifySignature(publicKey, signBz, signature)
}
