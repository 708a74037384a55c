package solomachine

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
)

// verifyMisbehaviour determines whether signatures within the provided misbehaviour are valid.
// The misbehaviour must have signatures from the current public key over two distinct
// messages at the same sequence.
func (cs *ClientState) verifyMisbehaviour(misbehaviour *Misbehaviour) error {
	if err := misbehaviour.ValidateBasic(); err != nil {
		return err
	}

	// verify first signature
	if err := cs.verifySignatureAndData(misbehaviour, misbehaviour.SignatureOne); err != nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidMisbehaviour, errorsmod.Wrap(err, "failed to verify signature one").Error())
	}

	// verify second signature
	if err := cs.verifySignatureAndData(misbehaviour, misbehaviour.SignatureTwo); err != nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidMisbehaviour, errorsmod.Wrap(err, "failed to verify signature two").Error())
	}

	return nil
}

// verifySignatureAndData verifies that the currently registered public key has signed
// over the provided data at the misbehaviour sequence.
func (cs *ClientState) verifySignatureAndData(misbehaviour *Misbehaviour, sigAndData *SignatureAndData) error {
	// do not check misbehaviour timestamp since we want to allow processing of past misbehaviour
	data, err := MarshalSignBytes(&SignBytes{
		Sequence:    misbehaviour.Sequence,
		Timestamp:   sigAndData.Timestamp,
		Diversifier: cs.ConsensusState.Diversifier,
		Path:        sigAndData.Path,
		Data:        sigAndData.Data,
	})
	if err != nil {
		return err
	}

	publicKey, err := cs.ConsensusState.GetPubKey()
	if err != nil {
		return err
	}

	return VerifySignature(publicKey, data, sigAndData.Signature)
}
