package types

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/vmihailenco/msgpack/v5"

	ibcerrors "github.com/cosmos/ibc-core/modules/core/errors"
)

// MustMarshalConnection returns the canonical encoding of a connection end. It is
// the value committed under the connection path and proven to counterparties.
func MustMarshalConnection(connection ConnectionEnd) []byte {
	bz, err := msgpack.Marshal(&connection)
	if err != nil {
		panic(err)
	}
	return bz
}

// UnmarshalConnection decodes a connection end encoded with MustMarshalConnection.
func UnmarshalConnection(bz []byte) (ConnectionEnd, error) {
	var connection ConnectionEnd
	if err := msgpack.Unmarshal(bz, &connection); err != nil {
		return ConnectionEnd{}, errorsmod.Wrapf(ibcerrors.ErrInvalidType, "cannot decode connection end: %s", err)
	}
	return connection, nil
}
