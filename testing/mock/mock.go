package mock

import (
	"errors"
	"fmt"

	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-core/modules/core/05-port/types"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

const (
	ModuleName = "mock"

	PortID = ModuleName

	Version = "mock-version"

	MockEventType = "mock-event-type"

	MockEventTypeRecvPacket            = "mock-recv-packet"
	MockEventTypeAcknowledgementPacket = "mock-ack-packet"
	MockEventTypeTimeoutPacket         = "mock-timeout"
)

var (
	MockAcknowledgement     = channeltypes.NewResultAcknowledgement([]byte("mock acknowledgement"))
	MockFailAcknowledgement = channeltypes.NewErrorAcknowledgement(errors.New("mock failed acknowledgement"))
	MockPacketData          = []byte("mock packet data")
	MockFailPacketData      = []byte("mock failed packet data")
	MockAsyncPacketData     = []byte("mock async packet data")
	UpgradeVersion          = fmt.Sprintf("%s-v2", Version)
	// MockApplicationCallbackError should be returned when an application callback should fail. It is possible to
	// test that this error was returned using ErrorIs.
	MockApplicationCallbackError error = &applicationCallbackError{}
)

var _ porttypes.IBCModule = (*IBCModule)(nil)

// applicationCallbackError is a custom error type that will be unique for testing purposes.
type applicationCallbackError struct{}

func (applicationCallbackError) Error() string {
	return "mock application callback failed"
}

// NewMockRecvPacketEvent returns a mock receive packet event
func NewMockRecvPacketEvent() coretypes.Event {
	return newMockEvent(MockEventTypeRecvPacket)
}

// NewMockAckPacketEvent returns a mock acknowledgement packet event
func NewMockAckPacketEvent() coretypes.Event {
	return newMockEvent(MockEventTypeAcknowledgementPacket)
}

// NewMockTimeoutPacketEvent emits a mock timeout packet event
func NewMockTimeoutPacketEvent() coretypes.Event {
	return newMockEvent(MockEventTypeTimeoutPacket)
}

func newMockEvent(eventType string) coretypes.Event {
	return coretypes.NewEvent(MockEventType, coretypes.NewAttribute("callback", eventType))
}
