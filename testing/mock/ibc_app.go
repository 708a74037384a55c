package mock

import (
	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

// IBCApp lets a test override how the mock module answers each channel and
// packet callback. A nil field keeps the default answer. The same hook serves
// the validate and the execute phase, so it must be free of side effects; the
// packet slices below are appended by execute callbacks only.
type IBCApp struct {
	PortID string

	OnChanOpenInit func(
		order channeltypes.Order,
		connectionHops []string,
		portID string,
		channelID string,
		counterparty channeltypes.Counterparty,
		version string,
	) (string, error)

	OnChanOpenTry func(
		order channeltypes.Order,
		connectionHops []string,
		portID,
		channelID string,
		counterparty channeltypes.Counterparty,
		counterpartyVersion string,
	) (version string, err error)

	OnChanOpenAck func(
		portID,
		channelID string,
		counterpartyVersion string,
	) error

	OnChanOpenConfirm func(
		portID,
		channelID string,
	) error

	OnChanCloseInit func(
		portID,
		channelID string,
	) error

	OnChanCloseConfirm func(
		portID,
		channelID string,
	) error

	// OnRecvPacketValidate may reject a packet before it is received.
	OnRecvPacketValidate func(
		channelVersion string,
		packet channeltypes.Packet,
	) error

	// OnRecvPacket returns the acknowledgement to write, or nil to acknowledge
	// later through ibc.WriteAcknowledgement.
	OnRecvPacket func(
		channelVersion string,
		packet channeltypes.Packet,
	) exported.Acknowledgement

	OnAcknowledgementPacket func(
		channelVersion string,
		packet channeltypes.Packet,
		acknowledgement []byte,
	) error

	OnTimeoutPacket func(
		channelVersion string,
		packet channeltypes.Packet,
	) error

	// Packets handed to the application by successful execute callbacks.
	ReceivedPackets     []channeltypes.Packet
	AcknowledgedPackets []channeltypes.Packet
	TimedOutPackets     []channeltypes.Packet
}

// NewIBCApp returns an IBCApp answering for portID.
func NewIBCApp(portID string) *IBCApp {
	return &IBCApp{
		PortID: portID,
	}
}
