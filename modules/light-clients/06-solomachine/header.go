package solomachine

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/tendermint/tendermint/crypto/ed25519"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

var _ exported.ClientMessage = (*Header)(nil)

// Header defines a solo machine consensus header. The sequence of the header
// is the current sequence of the client.
type Header struct {
	Timestamp      uint64 `msgpack:"timestamp"`
	Signature      []byte `msgpack:"signature"`
	NewPublicKey   []byte `msgpack:"new_public_key"`
	NewDiversifier string `msgpack:"new_diversifier"`
}

// ClientType defines that the Header is a Solo Machine.
func (*Header) ClientType() string {
	return exported.Solomachine
}

// ValidateBasic ensures that the timestamp and signature are non-zero and that
// the new public key is a valid ed25519 key.
func (h *Header) ValidateBasic() error {
	if h.Timestamp == 0 {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "timestamp cannot be zero")
	}

	if len(h.NewDiversifier) > 128 {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "diversifier cannot exceed 128 characters")
	}

	if len(h.Signature) == 0 {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "signature cannot be empty")
	}

	if len(h.NewPublicKey) != ed25519.PubKeySize {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "new public key in header cannot be empty")
	}

	return nil
}
