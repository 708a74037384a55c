package solomachine

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/tendermint/tendermint/crypto/ed25519"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-core/modules/core/23-commitment/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

var _ exported.ConsensusState = (*ConsensusState)(nil)

// ConsensusState defines a solo machine consensus state. The sequence of a
// consensus state is contained in the "height" key used in storing the
// consensus state.
type ConsensusState struct {
	// ed25519 public key of the solo machine
	PublicKey []byte `msgpack:"public_key"`
	// diversifier allows the same public key to be re-used across different solo
	// machine clients (potentially on different chains) without being considered
	// misbehaviour.
	Diversifier string `msgpack:"diversifier"`
	Timestamp   uint64 `msgpack:"timestamp"`
}

// ClientType returns Solo Machine type.
func (ConsensusState) ClientType() string {
	return exported.Solomachine
}

// GetTimestamp returns the timestamp of the last header or proof.
func (cs ConsensusState) GetTimestamp() uint64 {
	return cs.Timestamp
}

// GetRoot returns the address of the public key as the commitment root.
func (cs ConsensusState) GetRoot() exported.Root {
	publicKey, err := cs.GetPubKey()
	if err != nil {
		return commitmenttypes.MerkleRoot{}
	}
	return commitmenttypes.NewMerkleRoot(publicKey.Address())
}

// GetPubKey returns the public key of the consensus state.
func (cs ConsensusState) GetPubKey() (ed25519.PubKey, error) {
	if len(cs.PublicKey) != ed25519.PubKeySize {
		return nil, errorsmod.Wrapf(clienttypes.ErrInvalidConsensus, "public key must be %d bytes, got %d", ed25519.PubKeySize, len(cs.PublicKey))
	}
	return ed25519.PubKey(cs.PublicKey), nil
}

// ValidateBasic defines basic validation for the solo machine consensus state.
func (cs ConsensusState) ValidateBasic() error {
	if cs.Timestamp == 0 {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "timestamp cannot be 0")
	}
	if cs.Diversifier != "" && len(cs.Diversifier) > 128 {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "diversifier cannot exceed 128 characters")
	}
	if _, err := cs.GetPubKey(); err != nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidConsensus, "public key cannot be empty")
	}
	return nil
}
