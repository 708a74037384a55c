package mock

import (
	"bytes"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

var _ exported.ClientState = (*ClientState)(nil)

// ClientState tracks the latest height of the counterparty. A non-zero frozen
// height means misbehaviour was detected. A zero trusting period disables
// expiry.
type ClientState struct {
	LatestHeight   clienttypes.Height `msgpack:"latest_height"`
	FrozenHeight   clienttypes.Height `msgpack:"frozen_height"`
	TrustingPeriod uint64             `msgpack:"trusting_period"`
}

// NewClientState returns a mock client state at the given height.
func NewClientState(latestHeight clienttypes.Height, trustingPeriod uint64) *ClientState {
	return &ClientState{
		LatestHeight:   latestHeight,
		TrustingPeriod: trustingPeriod,
	}
}

// ClientType is the mock client type.
func (*ClientState) ClientType() string {
	return ModuleName
}

// GetLatestHeight returns the latest height of the counterparty known to the client.
func (cs *ClientState) GetLatestHeight() exported.Height {
	return cs.LatestHeight
}

// Validate checks that the latest height is set.
func (cs *ClientState) Validate() error {
	if cs.LatestHeight.IsZero() {
		return errorsmod.Wrap(clienttypes.ErrInvalidClient, "latest height cannot be zero")
	}
	return nil
}

// Status returns Frozen once misbehaviour was detected, Expired once the
// trusting period elapsed since the latest consensus state and Active
// otherwise.
func (cs *ClientState) Status(ctx exported.ClientValidationContext, clientID string) exported.Status {
	if !cs.FrozenHeight.IsZero() {
		return exported.Frozen
	}

	if cs.TrustingPeriod == 0 {
		return exported.Active
	}

	consensusState, err := ctx.ConsensusState(clientID, cs.LatestHeight)
	if err != nil {
		return exported.Unknown
	}

	now, err := ctx.HostTimestamp()
	if err != nil {
		return exported.Unknown
	}

	// compared by subtraction so large trusting periods cannot overflow
	if timestamp := consensusState.GetTimestamp(); now > timestamp && now-timestamp > cs.TrustingPeriod {
		return exported.Expired
	}

	return exported.Active
}

// GetTimestampAtHeight returns the timestamp of the consensus state stored at the given height.
func (*ClientState) GetTimestampAtHeight(ctx exported.ClientValidationContext, clientID string, height exported.Height) (uint64, error) {
	consensusState, err := ctx.ConsensusState(clientID, height)
	if err != nil {
		return 0, errorsmod.Wrapf(clienttypes.ErrConsensusStateNotFound, "height (%s)", height)
	}
	return consensusState.GetTimestamp(), nil
}

// VerifyInitialState checks that the consensus state is a mock consensus state.
func (*ClientState) VerifyInitialState(consensusState exported.ConsensusState) error {
	if _, ok := consensusState.(*ConsensusState); !ok {
		return errorsmod.Wrapf(clienttypes.ErrInvalidConsensus, "invalid initial consensus state. expected type: %T, got: %T",
			&ConsensusState{}, consensusState)
	}
	return nil
}

// Initialize stores the client state and the initial consensus state at the latest height.
func (cs *ClientState) Initialize(ctx exported.ClientExecutionContext, clientID string, consensusState exported.ConsensusState) error {
	if err := cs.VerifyInitialState(consensusState); err != nil {
		return err
	}

	if err := ctx.StoreClientState(clientID, cs); err != nil {
		return err
	}

	return ctx.StoreConsensusState(clientID, cs.LatestHeight, consensusState)
}

// VerifyMembership checks that the proof is the mock commitment proof of the
// value at the path, once the delay period has passed.
func (cs *ClientState) VerifyMembership(
	ctx exported.ClientValidationContext,
	clientID string,
	height exported.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
	proof []byte,
	path []byte,
	value []byte,
) error {
	if err := cs.verifyProofHeight(ctx, clientID, height, delayTimePeriod, delayBlockPeriod); err != nil {
		return errorsmod.Wrap(clienttypes.ErrFailedMembershipVerification, err.Error())
	}

	if !bytes.Equal(proof, CommitmentProof(path, value)) {
		return errorsmod.Wrapf(clienttypes.ErrFailedMembershipVerification, "%s: path %s", ErrInvalidProof, path)
	}

	return nil
}

// VerifyNonMembership checks that the proof is the mock absence proof of the
// path, once the delay period has passed.
func (cs *ClientState) VerifyNonMembership(
	ctx exported.ClientValidationContext,
	clientID string,
	height exported.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
	proof []byte,
	path []byte,
) error {
	if err := cs.verifyProofHeight(ctx, clientID, height, delayTimePeriod, delayBlockPeriod); err != nil {
		return errorsmod.Wrap(clienttypes.ErrFailedNonMembershipVerification, err.Error())
	}

	if !bytes.Equal(proof, AbsenceProof(path)) {
		return errorsmod.Wrapf(clienttypes.ErrFailedNonMembershipVerification, "%s: path %s", ErrInvalidProof, path)
	}

	return nil
}

// verifyProofHeight checks that a consensus state is stored at the proof height
// and that the delay period since it was stored has passed.
func (cs *ClientState) verifyProofHeight(
	ctx exported.ClientValidationContext,
	clientID string,
	height exported.Height,
	delayTimePeriod uint64,
	delayBlockPeriod uint64,
) error {
	if cs.LatestHeight.LT(height) {
		return errorsmod.Wrapf(
			clienttypes.ErrInvalidHeight,
			"client state height < proof height (%s < %s)", cs.LatestHeight, height,
		)
	}

	if _, err := ctx.ConsensusState(clientID, height); err != nil {
		return errorsmod.Wrapf(clienttypes.ErrConsensusStateNotFound, "please ensure the proof was constructed against a height that exists on the client: %s", height)
	}

	return clienttypes.VerifyDelayPeriodPassed(ctx, clientID, height, delayTimePeriod, delayBlockPeriod)
}
