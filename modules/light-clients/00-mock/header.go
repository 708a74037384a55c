package mock

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

var (
	_ exported.ClientMessage = (*Header)(nil)
	_ exported.ClientMessage = (*Misbehaviour)(nil)
)

// Header announces the counterparty consensus state at a height.
type Header struct {
	Height    clienttypes.Height `msgpack:"height"`
	Timestamp uint64             `msgpack:"timestamp"`
}

// NewHeader returns a header for the given height and timestamp.
func NewHeader(height clienttypes.Height, timestamp uint64) *Header {
	return &Header{Height: height, Timestamp: timestamp}
}

func (*Header) ClientType() string {
	return ModuleName
}

// ValidateBasic checks that both the height and the timestamp are set.
func (h *Header) ValidateBasic() error {
	if h.Height.IsZero() {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "header height cannot be zero")
	}
	if h.Timestamp == 0 {
		return errorsmod.Wrap(clienttypes.ErrInvalidHeader, "header timestamp cannot be zero")
	}
	return nil
}

// ConsensusState returns the consensus state the header commits to.
func (h *Header) ConsensusState() *ConsensusState {
	return NewConsensusState(h.Timestamp)
}

// Misbehaviour is evidence of two conflicting headers for the same height.
type Misbehaviour struct {
	Header1 *Header `msgpack:"header_1"`
	Header2 *Header `msgpack:"header_2"`
}

// NewMisbehaviour returns misbehaviour evidence made of two headers.
func NewMisbehaviour(header1, header2 *Header) *Misbehaviour {
	return &Misbehaviour{Header1: header1, Header2: header2}
}

func (*Misbehaviour) ClientType() string {
	return ModuleName
}

// ValidateBasic checks that both headers are valid and conflict with each other.
func (m *Misbehaviour) ValidateBasic() error {
	if m.Header1 == nil || m.Header2 == nil {
		return errorsmod.Wrap(clienttypes.ErrInvalidMisbehaviour, "misbehaviour headers cannot be nil")
	}

	if err := m.Header1.ValidateBasic(); err != nil {
		return errorsmod.Wrap(err, "header 1 failed validation")
	}

	if err := m.Header2.ValidateBasic(); err != nil {
		return errorsmod.Wrap(err, "header 2 failed validation")
	}

	if !m.Header1.Height.EQ(m.Header2.Height) {
		return errorsmod.Wrapf(clienttypes.ErrInvalidMisbehaviour, "headers must be at the same height (%s ≠ %s)", m.Header1.Height, m.Header2.Height)
	}

	if m.Header1.Timestamp == m.Header2.Timestamp {
		return errorsmod.Wrap(clienttypes.ErrInvalidMisbehaviour, "headers must commit to different timestamps")
	}

	return nil
}
