package solomachine

import (
	errorsmod "cosmossdk.io/errors"
	"github.com/vmihailenco/msgpack/v5"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
)

// Type urls of the solo machine types.
const (
	ClientStateTypeURL    = "/ibc.lightclients.solomachine.v3.ClientState"
	ConsensusStateTypeURL = "/ibc.lightclients.solomachine.v3.ConsensusState"
	HeaderTypeURL         = "/ibc.lightclients.solomachine.v3.Header"
	MisbehaviourTypeURL   = "/ibc.lightclients.solomachine.v3.Misbehaviour"
)

// RegisterInterfaces registers the solo machine types with the codec.
func RegisterInterfaces(cdc *clienttypes.Codec) {
	cdc.RegisterImplementation(ClientStateTypeURL, &ClientState{})
	cdc.RegisterImplementation(ConsensusStateTypeURL, &ConsensusState{})
	cdc.RegisterImplementation(HeaderTypeURL, &Header{})
	cdc.RegisterImplementation(MisbehaviourTypeURL, &Misbehaviour{})
}

// MarshalSignBytes encodes the sign bytes that the solo machine signs.
func MarshalSignBytes(signBytes *SignBytes) ([]byte, error) {
	return msgpack.Marshal(signBytes)
}

// MarshalHeaderData encodes the data signed over by a header.
func MarshalHeaderData(data *HeaderData) ([]byte, error) {
	return msgpack.Marshal(data)
}

// MarshalProof encodes a timestamped signature as a proof.
func MarshalProof(proof *TimestampedSignatureData) ([]byte, error) {
	return msgpack.Marshal(proof)
}

// UnmarshalProof decodes a proof into a timestamped signature.
func UnmarshalProof(bz []byte) (*TimestampedSignatureData, error) {
	var proof TimestampedSignatureData
	if err := msgpack.Unmarshal(bz, &proof); err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidProof, "failed to unmarshal proof into type %T: %s", proof, err)
	}
	return &proof, nil
}
