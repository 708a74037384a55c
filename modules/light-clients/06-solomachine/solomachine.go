package solomachine

import (
	"github.com/cosmos/ibc-core/modules/core/exported"
)

// ModuleName is the client type of the solo machine light client.
const ModuleName = exported.Solomachine

// SentinelHeaderPath defines a placeholder path value used for headers in solomachine client updates
const SentinelHeaderPath = "solomachine:header"

// SignBytes defines the signed bytes used for signature verification.
type SignBytes struct {
	// the sequence number
	Sequence uint64 `msgpack:"sequence"`
	// the proof timestamp
	Timestamp uint64 `msgpack:"timestamp"`
	// the public key diversifier
	Diversifier string `msgpack:"diversifier"`
	// the standardised path bytes
	Path []byte `msgpack:"path"`
	// the marshaled data bytes
	Data []byte `msgpack:"data"`
}

// HeaderData returns the SignBytes data for update verification.
type HeaderData struct {
	// header public key
	NewPubKey []byte `msgpack:"new_pub_key"`
	// header diversifier
	NewDiversifier string `msgpack:"new_diversifier"`
}

// TimestampedSignatureData contains the signature data and the timestamp of the
// signature.
type TimestampedSignatureData struct {
	SignatureData []byte `msgpack:"signature_data"`
	Timestamp     uint64 `msgpack:"timestamp"`
}
