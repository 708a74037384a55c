package solomachine

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/tendermint/tendermint/crypto/ed25519"
)

// VerifySignature verifies if the provided public key generated the signature
// over the given data.
func VerifySignature(pubKey ed25519.PubKey, signBytes []byte, signature []byte) error {
	if len(signature) == 0 {
		return errorsmod.Wrap(ErrSignatureVerificationFailed, "signature cannot be empty")
	}

	if !pubKey.VerifySignature(signBytes, signature) {
		return ErrSignatureVerificationFailed
	}

	return nil
}

// produceVerificationArgs performs the basic checks on the arguments that are
// shared between the verification functions and returns the public key of the
// consensus state, the signature and the timestamp of the proof.
func produceVerificationArgs(cs *ClientState, proof []byte) (ed25519.PubKey, []byte, uint64, error) {
	if len(proof) == 0 {
		return nil, nil, 0, errorsmod.Wrap(ErrInvalidProof, "proof cannot be empty")
	}

	timestampedSigData, err := UnmarshalProof(proof)
	if err != nil {
		return nil, nil, 0, err
	}

	if len(timestampedSigData.SignatureData) == 0 {
		return nil, nil, 0, errorsmod.Wrap(ErrInvalidProof, "signature data cannot be empty")
	}

	timestamp := timestampedSigData.Timestamp
	if cs.ConsensusState.GetTimestamp() > timestamp {
		return nil, nil, 0, errorsmod.Wrapf(ErrInvalidProof, "the consensus state timestamp is greater than the signature timestamp (%d >= %d)", cs.ConsensusState.GetTimestamp(), timestamp)
	}

	publicKey, err := cs.ConsensusState.GetPubKey()
	if err != nil {
		return nil, nil, 0, err
	}

	return publicKey, timestampedSigData.SignatureData, timestamp, nil
}
