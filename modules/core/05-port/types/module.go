package types

import (
	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

// ModuleExtras carries the events and log lines an application produced during
// an execute callback. Core IBC emits and logs them after its own events.
type ModuleExtras struct {
	Events []coretypes.Event
	Log    []string
}

// NewModuleExtras returns empty module extras.
func NewModuleExtras() ModuleExtras {
	return ModuleExtras{}
}

// IBCModule defines an interface that implements all the callbacks
// that modules must define as specified in ICS-26.
//
// Every callback comes as a pair. The Validate half runs during the validate
// phase of the message and must not mutate application state. The Execute
// half runs only after both core and application validation succeeded.
type IBCModule interface {
	// OnChanOpenInitValidate will verify that the relayer-chosen parameters
	// are valid. It may return an error if the chosen parameters are invalid
	// in which case the handshake is aborted.
	OnChanOpenInitValidate(
		order channeltypes.Order,
		connectionHops []string,
		portID string,
		channelID string,
		counterparty channeltypes.Counterparty,
		version string,
	) error

	// OnChanOpenInitExecute performs any custom INIT logic. If the provided
	// version string is non-empty it must return it, otherwise it returns the
	// default version supported by the application.
	OnChanOpenInitExecute(
		order channeltypes.Order,
		connectionHops []string,
		portID string,
		channelID string,
		counterparty channeltypes.Counterparty,
		version string,
	) (ModuleExtras, string, error)

	// OnChanOpenTryValidate will verify the relayer-chosen parameters along with the
	// counterparty-chosen version string. If the versions are not compatible the
	// callback must return an error to abort the handshake.
	OnChanOpenTryValidate(
		order channeltypes.Order,
		connectionHops []string,
		portID string,
		channelID string,
		counterparty channeltypes.Counterparty,
		counterpartyVersion string,
	) error

	// OnChanOpenTryExecute must select the final version string and return it to core IBC.
	OnChanOpenTryExecute(
		order channeltypes.Order,
		connectionHops []string,
		portID string,
		channelID string,
		counterparty channeltypes.Counterparty,
		counterpartyVersion string,
	) (ModuleExtras, string, error)

	// OnChanOpenAckValidate will error if the counterparty selected version string
	// is invalid to abort the handshake.
	OnChanOpenAckValidate(portID, channelID, counterpartyVersion string) error
	OnChanOpenAckExecute(portID, channelID, counterpartyVersion string) (ModuleExtras, error)

	OnChanOpenConfirmValidate(portID, channelID string) error
	OnChanOpenConfirmExecute(portID, channelID string) (ModuleExtras, error)

	// OnChanCloseInitValidate may veto a user initiated channel closure.
	OnChanCloseInitValidate(portID, channelID string) error
	OnChanCloseInitExecute(portID, channelID string) (ModuleExtras, error)

	OnChanCloseConfirmValidate(portID, channelID string) error
	OnChanCloseConfirmExecute(portID, channelID string) (ModuleExtras, error)

	// OnRecvPacketValidate may reject a packet before it is received. A rejection
	// aborts the receive and no receipt or acknowledgement is written.
	OnRecvPacketValidate(channelVersion string, packet channeltypes.Packet) error

	// OnRecvPacketExecute must return an acknowledgement that implements the Acknowledgement interface.
	// In the case of an asynchronous acknowledgement, nil should be returned. Application
	// failures are expected to be reported through an error acknowledgement.
	OnRecvPacketExecute(channelVersion string, packet channeltypes.Packet) (ModuleExtras, exported.Acknowledgement)

	OnAcknowledgementPacketValidate(channelVersion string, packet channeltypes.Packet, acknowledgement []byte) error
	OnAcknowledgementPacketExecute(channelVersion string, packet channeltypes.Packet, acknowledgement []byte) (ModuleExtras, error)

	OnTimeoutPacketValidate(channelVersion string, packet channeltypes.Packet) error
	OnTimeoutPacketExecute(channelVersion string, packet channeltypes.Packet) (ModuleExtras, error)
}
