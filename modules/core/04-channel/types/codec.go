package types

import (
	"encoding/binary"

	errorsmod "cosmossdk.io/errors"
	"github.com/vmihailenco/msgpack/v5"

	ibcerrors "github.com/cosmos/ibc-core/modules/core/errors"
)

// ReceiptValue is the value stored and proven for a received packet on an
// unordered channel.
var ReceiptValue = []byte{byte(1)}

// MustMarshalChannel returns the canonical encoding of a channel end. It is the
// value committed under the channel path and proven to counterparties.
func MustMarshalChannel(channel Channel) []byte {
	bz, err := msgpack.Marshal(&channel)
	if err != nil {
		panic(err)
	}
	return bz
}

// UnmarshalChannel decodes a channel end encoded with MustMarshalChannel.
func UnmarshalChannel(bz []byte) (Channel, error) {
	var channel Channel
	if err := msgpack.Unmarshal(bz, &channel); err != nil {
		return Channel{}, errorsmod.Wrapf(ibcerrors.ErrInvalidType, "cannot decode channel end: %s", err)
	}
	return channel, nil
}

// SequenceBytes returns the big endian encoding of a sequence as committed
// under the next sequence paths.
func SequenceBytes(sequence uint64) []byte {
	return binary.BigEndian.AppendUint64(nil, sequence)
}

// ParseSequenceBytes decodes a sequence encoded with SequenceBytes.
func ParseSequenceBytes(bz []byte) (uint64, error) {
	if len(bz) != 8 {
		return 0, errorsmod.Wrapf(ibcerrors.ErrInvalidSequence, "sequence must be 8 bytes, got %d", len(bz))
	}
	return binary.BigEndian.Uint64(bz), nil
}
