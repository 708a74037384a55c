package mock

import (
	"bytes"
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"

	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-core/modules/core/05-port/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

// IBCModule implements the ICS26 callbacks for testing/mock.
type IBCModule struct {
	IBCApp *IBCApp
}

// NewIBCModule creates a new IBCModule given the underlying mock IBC application.
func NewIBCModule(app *IBCApp) IBCModule {
	return IBCModule{
		IBCApp: app,
	}
}

func (im IBCModule) chanOpenInit(
	order channeltypes.Order, connectionHops []string, portID string,
	channelID string, counterparty channeltypes.Counterparty, version string,
) (string, error) {
	if strings.TrimSpace(version) == "" {
		version = Version
	}

	if im.IBCApp.OnChanOpenInit != nil {
		return im.IBCApp.OnChanOpenInit(order, connectionHops, portID, channelID, counterparty, version)
	}

	return version, nil
}

// OnChanOpenInitValidate implements the IBCModule interface.
func (im IBCModule) OnChanOpenInitValidate(
	order channeltypes.Order, connectionHops []string, portID string,
	channelID string, counterparty channeltypes.Counterparty, version string,
) error {
	_, err := im.chanOpenInit(order, connectionHops, portID, channelID, counterparty, version)
	return err
}

// OnChanOpenInitExecute implements the IBCModule interface.
func (im IBCModule) OnChanOpenInitExecute(
	order channeltypes.Order, connectionHops []string, portID string,
	channelID string, counterparty channeltypes.Counterparty, version string,
) (porttypes.ModuleExtras, string, error) {
	version, err := im.chanOpenInit(order, connectionHops, portID, channelID, counterparty, version)
	return porttypes.NewModuleExtras(), version, err
}

func (im IBCModule) chanOpenTry(
	order channeltypes.Order, connectionHops []string, portID string,
	channelID string, counterparty channeltypes.Counterparty, counterpartyVersion string,
) (string, error) {
	if im.IBCApp.OnChanOpenTry != nil {
		return im.IBCApp.OnChanOpenTry(order, connectionHops, portID, channelID, counterparty, counterpartyVersion)
	}

	return Version, nil
}

// OnChanOpenTryValidate implements the IBCModule interface.
func (im IBCModule) OnChanOpenTryValidate(
	order channeltypes.Order, connectionHops []string, portID string,
	channelID string, counterparty channeltypes.Counterparty, counterpartyVersion string,
) error {
	_, err := im.chanOpenTry(order, connectionHops, portID, channelID, counterparty, counterpartyVersion)
	return err
}

// OnChanOpenTryExecute implements the IBCModule interface.
func (im IBCModule) OnChanOpenTryExecute(
	order channeltypes.Order, connectionHops []string, portID string,
	channelID string, counterparty channeltypes.Counterparty, counterpartyVersion string,
) (porttypes.ModuleExtras, string, error) {
	version, err := im.chanOpenTry(order, connectionHops, portID, channelID, counterparty, counterpartyVersion)
	return porttypes.NewModuleExtras(), version, err
}

// OnChanOpenAckValidate implements the IBCModule interface.
func (im IBCModule) OnChanOpenAckValidate(portID, channelID, counterpartyVersion string) error {
	if im.IBCApp.OnChanOpenAck != nil {
		return im.IBCApp.OnChanOpenAck(portID, channelID, counterpartyVersion)
	}

	return nil
}

// OnChanOpenAckExecute implements the IBCModule interface.
func (im IBCModule) OnChanOpenAckExecute(portID, channelID, counterpartyVersion string) (porttypes.ModuleExtras, error) {
	return porttypes.NewModuleExtras(), im.OnChanOpenAckValidate(portID, channelID, counterpartyVersion)
}

// OnChanOpenConfirmValidate implements the IBCModule interface.
func (im IBCModule) OnChanOpenConfirmValidate(portID, channelID string) error {
	if im.IBCApp.OnChanOpenConfirm != nil {
		return im.IBCApp.OnChanOpenConfirm(portID, channelID)
	}

	return nil
}

// OnChanOpenConfirmExecute implements the IBCModule interface.
func (im IBCModule) OnChanOpenConfirmExecute(portID, channelID string) (porttypes.ModuleExtras, error) {
	return porttypes.NewModuleExtras(), im.OnChanOpenConfirmValidate(portID, channelID)
}

// OnChanCloseInitValidate implements the IBCModule interface.
func (im IBCModule) OnChanCloseInitValidate(portID, channelID string) error {
	if im.IBCApp.OnChanCloseInit != nil {
		return im.IBCApp.OnChanCloseInit(portID, channelID)
	}

	return nil
}

// OnChanCloseInitExecute implements the IBCModule interface.
func (im IBCModule) OnChanCloseInitExecute(portID, channelID string) (porttypes.ModuleExtras, error) {
	return porttypes.NewModuleExtras(), im.OnChanCloseInitValidate(portID, channelID)
}

// OnChanCloseConfirmValidate implements the IBCModule interface.
func (im IBCModule) OnChanCloseConfirmValidate(portID, channelID string) error {
	if im.IBCApp.OnChanCloseConfirm != nil {
		return im.IBCApp.OnChanCloseConfirm(portID, channelID)
	}

	return nil
}

// OnChanCloseConfirmExecute implements the IBCModule interface.
func (im IBCModule) OnChanCloseConfirmExecute(portID, channelID string) (porttypes.ModuleExtras, error) {
	return porttypes.NewModuleExtras(), im.OnChanCloseConfirmValidate(portID, channelID)
}

// OnRecvPacketValidate implements the IBCModule interface.
func (im IBCModule) OnRecvPacketValidate(channelVersion string, packet channeltypes.Packet) error {
	if im.IBCApp.OnRecvPacketValidate != nil {
		return im.IBCApp.OnRecvPacketValidate(channelVersion, packet)
	}

	return nil
}

// OnRecvPacketExecute implements the IBCModule interface.
func (im IBCModule) OnRecvPacketExecute(channelVersion string, packet channeltypes.Packet) (porttypes.ModuleExtras, exported.Acknowledgement) {
	im.IBCApp.ReceivedPackets = append(im.IBCApp.ReceivedPackets, packet)

	if im.IBCApp.OnRecvPacket != nil {
		return porttypes.NewModuleExtras(), im.IBCApp.OnRecvPacket(channelVersion, packet)
	}

	if bytes.Equal(MockPacketData, packet.GetData()) {
		return porttypes.NewModuleExtras(), MockAcknowledgement
	} else if bytes.Equal(MockAsyncPacketData, packet.GetData()) {
		return porttypes.NewModuleExtras(), nil
	}

	return porttypes.ModuleExtras{
		Events: []coretypes.Event{NewMockRecvPacketEvent()},
	}, MockFailAcknowledgement
}

// OnAcknowledgementPacketValidate implements the IBCModule interface.
func (im IBCModule) OnAcknowledgementPacketValidate(channelVersion string, packet channeltypes.Packet, acknowledgement []byte) error {
	if im.IBCApp.OnAcknowledgementPacket != nil {
		return im.IBCApp.OnAcknowledgementPacket(channelVersion, packet, acknowledgement)
	}

	if _, err := channeltypes.UnmarshalAcknowledgement(acknowledgement); err != nil {
		return errorsmod.Wrap(MockApplicationCallbackError, err.Error())
	}
	return nil
}

// OnAcknowledgementPacketExecute implements the IBCModule interface.
func (im IBCModule) OnAcknowledgementPacketExecute(channelVersion string, packet channeltypes.Packet, acknowledgement []byte) (porttypes.ModuleExtras, error) {
	if err := im.OnAcknowledgementPacketValidate(channelVersion, packet, acknowledgement); err != nil {
		return porttypes.NewModuleExtras(), err
	}

	im.IBCApp.AcknowledgedPackets = append(im.IBCApp.AcknowledgedPackets, packet)

	return porttypes.ModuleExtras{
		Events: []coretypes.Event{NewMockAckPacketEvent()},
		Log:    []string{fmt.Sprintf("mock: packet %d acknowledged", packet.GetSequence())},
	}, nil
}

// OnTimeoutPacketValidate implements the IBCModule interface.
func (im IBCModule) OnTimeoutPacketValidate(channelVersion string, packet channeltypes.Packet) error {
	if im.IBCApp.OnTimeoutPacket != nil {
		return im.IBCApp.OnTimeoutPacket(channelVersion, packet)
	}

	return nil
}

// OnTimeoutPacketExecute implements the IBCModule interface.
func (im IBCModule) OnTimeoutPacketExecute(channelVersion string, packet channeltypes.Packet) (porttypes.ModuleExtras, error) {
	if err := im.OnTimeoutPacketValidate(channelVersion, packet); err != nil {
		return porttypes.NewModuleExtras(), err
	}

	im.IBCApp.TimedOutPackets = append(im.IBCApp.TimedOutPackets, packet)

	return porttypes.ModuleExtras{
		Events: []coretypes.Event{NewMockTimeoutPacketEvent()},
		Log:    []string{fmt.Sprintf("mock: packet %d timed out", packet.GetSequence())},
	}, nil
}
