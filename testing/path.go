package ibctesting

import (
	"errors"

	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

// Path contains two endpoints representing two chains connected over IBC
type Path struct {
	EndpointA *Endpoint
	EndpointB *Endpoint
}

// NewPath constructs an endpoint for each chain using the default values
// for the endpoints. Each endpoint is updated to have a pointer to the
// counterparty endpoint.
func NewPath(chainA, chainB *TestChain) *Path {
	endpointA := NewDefaultEndpoint(chainA)
	endpointB := NewDefaultEndpoint(chainB)

	endpointA.Counterparty = endpointB
	endpointB.Counterparty = endpointA

	return &Path{
		EndpointA: endpointA,
		EndpointB: endpointB,
	}
}

// Setup constructs a client, connection, and channel on both chains of the path.
func (path *Path) Setup() {
	path.coordinator().Setup(path)
}

// SetupClients creates a client on both chains of the path.
func (path *Path) SetupClients() {
	path.coordinator().SetupClients(path)
}

// SetupConnections creates clients and an OPEN connection on both chains of the path.
func (path *Path) SetupConnections() {
	path.coordinator().SetupConnections(path)
}

func (path *Path) coordinator() *Coordinator {
	return path.EndpointA.Chain.Coordinator
}

// SetChannelOrdered sets the channel order for both endpoints to ORDERED.
func (path *Path) SetChannelOrdered() {
	path.EndpointA.ChannelConfig.Order = channeltypes.ORDERED
	path.EndpointB.ChannelConfig.Order = channeltypes.ORDERED
}

// RelayPacket attempts to relay the packet first on EndpointA and then on EndpointB
// if EndpointA does not contain a packet commitment for that packet. An error is returned
// if a relay step fails or the packet commitment does not exist on either endpoint.
func (path *Path) RelayPacket(packet channeltypes.Packet) error {
	_, _, err := path.RelayPacketWithResults(packet)
	return err
}

// RelayPacketWithResults attempts to relay the packet first on EndpointA and then on EndpointB
// if EndpointA does not contain a packet commitment for that packet. The events of the receive
// and the acknowledgement written by the receiving application are returned.
func (path *Path) RelayPacketWithResults(packet channeltypes.Packet) ([]coretypes.Event, []byte, error) {
	for _, src := range []*Endpoint{path.EndpointA, path.EndpointB} {
		dst := src.Counterparty

		if _, err := src.Chain.Ctx.GetPacketCommitment(packet.SourcePort, packet.SourceChannel, packet.Sequence); err != nil {
			continue
		}
		if src.ChannelConfig.PortID != packet.SourcePort || src.ChannelID != packet.SourceChannel {
			continue
		}

		events, err := dst.RecvPacketWithResult(packet)
		if err != nil {
			return nil, nil, err
		}

		ack, err := ParseAckFromEvents(events)
		if err != nil {
			return nil, nil, err
		}

		if err := src.AcknowledgePacket(packet, ack); err != nil {
			return nil, nil, err
		}

		return events, ack, nil
	}

	return nil, nil, errors.New("packet commitment does not exist on either endpoint for provided packet")
}
