package solomachine

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

// VerifyClientMessage introspects the provided ClientMessage and checks its validity
// A Solomachine Header is considered valid if the currently registered public key has signed over the new public key with the correct sequence
// A Solomachine Misbehaviour is considered valid if duplicate signatures of the current public key are found on two different messages at a given sequence
func (cs *ClientState) VerifyClientMessage(_ exported.ClientValidationContext, _ string, clientMsg exported.ClientMessage) error {
	switch msg := clientMsg.(type) {
	case *Header:
		return cs.verifyHeader(msg)
	case *Misbehaviour:
		return cs.verifyMisbehaviour(msg)
	default:
		return errorsmod.Wrapf(clienttypes.ErrInvalidClientType, "expected type of %T or %T, got type %T", Header{}, Misbehaviour{}, msg)
	}
}

func (cs *ClientState) verifyHeader(header *Header) error {
	if err := header.ValidateBasic(); err != nil {
		return err
	}

	// assert update timestamp is not less than current consensus state timestamp
	if header.Timestamp < cs.ConsensusState.Timestamp {
		return errorsmod.Wrapf(
			clienttypes.ErrInvalidHeader,
			"header timestamp is less than to the consensus state timestamp (%d < %d)", header.Timestamp, cs.ConsensusState.Timestamp,
		)
	}

	// assert currently registered public key signed over the new public key with correct sequence
	signBz, err := HeaderSignBytes(cs.Sequence, cs.ConsensusState.Diversifier, header.Timestamp, header.NewPublicKey, header.NewDiversifier)
	if err != nil {
		return err
	}

	publicKey, err := cs.ConsensusState.GetPubKey()
	if err != nil {
		return err
	}

	if err := VerifySignature(publicKey, signBz, header.Signature); err != nil {
		return errorsmod.Wrap(ErrInvalidHeader, err.Error())
	}

	return nil
}

// HeaderSignBytes returns the bytes the current key signs over to rotate to a
// new key at the given sequence.
func HeaderSignBytes(sequence uint64, diversifier string, timestamp uint64, newPublicKey []byte, newDiversifier string) ([]byte, error) {
	dataBz, err := MarshalHeaderData(&HeaderData{
		NewPubKey:      newPublicKey,
		NewDiversifier: newDiversifier,
	})
	if err != nil {
		return nil, err
	}

	return MarshalSignBytes(&SignBytes{
		Sequence:    sequence,
		Timestamp:   timestamp,
		Diversifier: diversifier,
		Path:        []byte(SentinelHeaderPath),
		Data:        dataBz,
	})
}

// UpdateState updates the consensus state to the new public key and an incremented sequence.
// A list containing the updated consensus height is returned.
func (cs *ClientState) UpdateState(ctx exported.ClientExecutionContext, clientID string, clientMsg exported.ClientMessage) ([]exported.Height, error) {
	smHeader, ok := clientMsg.(*Header)
	if !ok {
		return nil, errorsmod.Wrapf(clienttypes.ErrInvalidClientType, "unsupported ClientMessage: %T", clientMsg)
	}

	// create new solomachine ConsensusState
	consensusState := &ConsensusState{
		PublicKey:   smHeader.NewPublicKey,
		Diversifier: smHeader.NewDiversifier,
		Timestamp:   smHeader.Timestamp,
	}

	cs.Sequence++
	cs.ConsensusState = consensusState

	if err := ctx.StoreClientState(clientID, cs); err != nil {
		return nil, err
	}

	height := cs.GetLatestHeight()
	if err := ctx.StoreConsensusState(clientID, height, consensusState); err != nil {
		return nil, err
	}

	return []exported.Height{height}, nil
}

// CheckForMisbehaviour returns true for type Misbehaviour (passed VerifyClientMessage check), otherwise returns false
func (*ClientState) CheckForMisbehaviour(_ exported.ClientValidationContext, _ string, clientMsg exported.ClientMessage) bool {
	if _, ok := clientMsg.(*Misbehaviour); ok {
		return true
	}

	return false
}

// UpdateStateOnMisbehaviour updates state upon misbehaviour. This method should only be called on misbehaviour
// as it does not perform any misbehaviour checks.
func (cs *ClientState) UpdateStateOnMisbehaviour(ctx exported.ClientExecutionContext, clientID string, _ exported.ClientMessage) error {
	cs.IsFrozen = true

	return ctx.StoreClientState(clientID, cs)
}
