package ibctesting

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"github.com/stretchr/testify/require"

	ibc "github.com/cosmos/ibc-core/modules/core"
	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	host "github.com/cosmos/ibc-core/modules/core/24-host"
	"github.com/cosmos/ibc-core/modules/core/exported"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
	ibcmock "github.com/cosmos/ibc-core/modules/light-clients/00-mock"
)

// Endpoint is a which represents a channel endpoint and its associated
// client and connections. It contains client, connection, and channel
// configuration parameters. Endpoint functions will utilize the parameters
// set in the configuration structs when executing IBC messages.
type Endpoint struct {
	Chain        *TestChain
	Counterparty *Endpoint
	ClientID     string
	ConnectionID string
	ChannelID    string

	ClientConfig     ClientConfig
	ConnectionConfig *ConnectionConfig
	ChannelConfig    *ChannelConfig
}

// NewEndpoint constructs a new endpoint without the counterparty.
// CONTRACT: the counterparty endpoint must be set by the caller.
func NewEndpoint(
	chain *TestChain, clientConfig ClientConfig,
	connectionConfig *ConnectionConfig, channelConfig *ChannelConfig,
) *Endpoint {
	return &Endpoint{
		Chain:            chain,
		ClientConfig:     clientConfig,
		ConnectionConfig: connectionConfig,
		ChannelConfig:    channelConfig,
	}
}

// NewDefaultEndpoint constructs a new endpoint using default values.
// CONTRACT: the counterparty endpoint must be set by the caller.
func NewDefaultEndpoint(chain *TestChain) *Endpoint {
	return &Endpoint{
		Chain:            chain,
		ClientConfig:     NewMockClientConfig(),
		ConnectionConfig: NewConnectionConfig(),
		ChannelConfig:    NewChannelConfig(),
	}
}

// QueryProof queries the proof of the value stored under the path on the
// counterparty chain at its latest height. The client of the endpoint must be
// updated to that height before the proof can be verified.
func (endpoint *Endpoint) QueryProof(path string) ([]byte, clienttypes.Height) {
	return endpoint.Counterparty.Chain.QueryProof(path)
}

// CreateClient creates an IBC client on the endpoint tracking the counterparty
// chain at its latest height. It will update the clientID for the endpoint if
// the message is successfully executed.
func (endpoint *Endpoint) CreateClient() error {
	var (
		clientState    exported.ClientState
		consensusState exported.ConsensusState
		err            error
	)

	counterparty := endpoint.Counterparty.Chain
	height := counterparty.LatestHeight()

	switch endpoint.ClientConfig.GetClientType() {
	case exported.Mock:
		mockConfig, ok := endpoint.ClientConfig.(*MockClientConfig)
		require.True(endpoint.Chain.TB, ok)

		clientState = ibcmock.NewClientState(height, uint64(mockConfig.TrustingPeriod))
		consensusState, err = counterparty.Ctx.HostConsensusState(height)
	default:
		err = fmt.Errorf("client type %s is not supported", endpoint.ClientConfig.GetClientType())
	}
	if err != nil {
		return err
	}

	cdc := endpoint.Chain.Ctx.Codec()
	msg := clienttypes.NewMsgCreateClient(cdc.MustPackClientState(clientState), cdc.MustPackConsensusState(consensusState))

	events, err := endpoint.Chain.SendMsg(msg)
	if err != nil {
		return err
	}

	endpoint.ClientID, err = ParseClientIDFromEvents(events)
	require.NoError(endpoint.Chain.TB, err)

	return nil
}

// UpdateClient updates the IBC client of the endpoint to the latest height of
// the counterparty chain. It is a no-op if the client is already at that height.
func (endpoint *Endpoint) UpdateClient() error {
	err := endpoint.updateClient()
	if errorsmod.IsOf(err, ErrClientAlreadyUpToDate) {
		return nil
	}
	return err
}

// updateClient returns ErrClientAlreadyUpToDate if there is nothing to relay.
func (endpoint *Endpoint) updateClient() error {
	clientState, err := endpoint.Chain.Ctx.ClientState(endpoint.ClientID)
	if err != nil {
		return errorsmod.Wrap(ErrClientStateNotFound, err.Error())
	}

	target := endpoint.Counterparty.Chain.LatestHeight()
	switch latest := clientState.GetLatestHeight(); {
	case latest.EQ(target):
		return errorsmod.Wrapf(ErrClientAlreadyUpToDate, "client %s is at %s", endpoint.ClientID, target)
	case latest.GT(target):
		return errorsmod.Wrapf(ErrClientAtHigherHeight, "client %s is at %s > %s", endpoint.ClientID, latest, target)
	}

	header, err := endpoint.Counterparty.Chain.Ctx.HostHeader(target)
	if err != nil {
		return err
	}

	return endpoint.UpdateClientWithMessage(header)
}

// UpdateClientWithMessage submits the client message to the client of the endpoint.
func (endpoint *Endpoint) UpdateClientWithMessage(clientMsg exported.ClientMessage) error {
	anyMsg, err := endpoint.Chain.Ctx.Codec().PackClientMessage(clientMsg)
	if err != nil {
		return err
	}

	_, err = endpoint.Chain.SendMsg(clienttypes.NewMsgUpdateClient(endpoint.ClientID, anyMsg))
	return err
}

// ConnOpenInit will construct and execute a MsgConnectionOpenInit on the associated endpoint.
func (endpoint *Endpoint) ConnOpenInit() error {
	msg := connectiontypes.NewMsgConnectionOpenInit(
		endpoint.ClientID,
		endpoint.Counterparty.ClientID,
		endpoint.Counterparty.Chain.Ctx.CommitmentPrefix(), endpoint.ConnectionConfig.Version, endpoint.ConnectionConfig.DelayPeriod,
	)

	events, err := endpoint.Chain.SendMsg(msg)
	if err != nil {
		return err
	}

	endpoint.ConnectionID, err = ParseConnectionIDFromEvents(events)
	require.NoError(endpoint.Chain.TB, err)

	return nil
}

// ConnOpenTry will construct and execute a MsgConnectionOpenTry on the associated endpoint.
func (endpoint *Endpoint) ConnOpenTry() error {
	if err := endpoint.UpdateClient(); err != nil {
		return err
	}

	proofInit, proofHeight := endpoint.QueryProof(host.ConnectionPath(endpoint.Counterparty.ConnectionID))

	msg := connectiontypes.NewMsgConnectionOpenTry(
		endpoint.ClientID, endpoint.Counterparty.ConnectionID, endpoint.Counterparty.ClientID,
		endpoint.Counterparty.Chain.Ctx.CommitmentPrefix(), []*connectiontypes.Version{endpoint.ConnectionConfig.Version},
		endpoint.ConnectionConfig.DelayPeriod, proofInit, proofHeight,
	)

	events, err := endpoint.Chain.SendMsg(msg)
	if err != nil {
		return err
	}

	if endpoint.ConnectionID == "" {
		endpoint.ConnectionID, err = ParseConnectionIDFromEvents(events)
		require.NoError(endpoint.Chain.TB, err)
	}

	return nil
}

// ConnOpenAck will construct and execute a MsgConnectionOpenAck on the associated endpoint.
func (endpoint *Endpoint) ConnOpenAck() error {
	if err := endpoint.UpdateClient(); err != nil {
		return err
	}

	proofTry, proofHeight := endpoint.QueryProof(host.ConnectionPath(endpoint.Counterparty.ConnectionID))

	msg := connectiontypes.NewMsgConnectionOpenAck(
		endpoint.ConnectionID, endpoint.Counterparty.ConnectionID,
		proofTry, proofHeight, endpoint.ConnectionConfig.Version,
	)

	_, err := endpoint.Chain.SendMsg(msg)
	return err
}

// ConnOpenConfirm will construct and execute a MsgConnectionOpenConfirm on the associated endpoint.
func (endpoint *Endpoint) ConnOpenConfirm() error {
	if err := endpoint.UpdateClient(); err != nil {
		return err
	}

	proofAck, proofHeight := endpoint.QueryProof(host.ConnectionPath(endpoint.Counterparty.ConnectionID))

	msg := connectiontypes.NewMsgConnectionOpenConfirm(endpoint.ConnectionID, proofAck, proofHeight)

	_, err := endpoint.Chain.SendMsg(msg)
	return err
}

// ChanOpenInit will construct and execute a MsgChannelOpenInit on the associated endpoint.
func (endpoint *Endpoint) ChanOpenInit() error {
	msg := channeltypes.NewMsgChannelOpenInit(
		endpoint.ChannelConfig.PortID,
		endpoint.ChannelConfig.Version, endpoint.ChannelConfig.Order, []string{endpoint.ConnectionID},
		endpoint.Counterparty.ChannelConfig.PortID,
	)

	events, err := endpoint.Chain.SendMsg(msg)
	if err != nil {
		return err
	}

	endpoint.ChannelID, err = ParseChannelIDFromEvents(events)
	require.NoError(endpoint.Chain.TB, err)

	// update version to selected app version
	// NOTE: this update must be performed after SendMsg()
	endpoint.ChannelConfig.Version = endpoint.GetChannel().Version

	return nil
}

// ChanOpenTry will construct and execute a MsgChannelOpenTry on the associated endpoint.
func (endpoint *Endpoint) ChanOpenTry() error {
	if err := endpoint.UpdateClient(); err != nil {
		return err
	}

	proofInit, proofHeight := endpoint.QueryProof(host.ChannelPath(endpoint.Counterparty.ChannelConfig.PortID, endpoint.Counterparty.ChannelID))

	msg := channeltypes.NewMsgChannelOpenTry(
		endpoint.ChannelConfig.PortID,
		endpoint.ChannelConfig.Version, endpoint.ChannelConfig.Order, []string{endpoint.ConnectionID},
		endpoint.Counterparty.ChannelConfig.PortID, endpoint.Counterparty.ChannelID, endpoint.Counterparty.ChannelConfig.Version,
		proofInit, proofHeight,
	)

	events, err := endpoint.Chain.SendMsg(msg)
	if err != nil {
		return err
	}

	if endpoint.ChannelID == "" {
		endpoint.ChannelID, err = ParseChannelIDFromEvents(events)
		require.NoError(endpoint.Chain.TB, err)
	}

	// update version to selected app version
	// NOTE: this update must be performed after the endpoint channelID is set
	endpoint.ChannelConfig.Version = endpoint.GetChannel().Version

	return nil
}

// ChanOpenAck will construct and execute a MsgChannelOpenAck on the associated endpoint.
func (endpoint *Endpoint) ChanOpenAck() error {
	if err := endpoint.UpdateClient(); err != nil {
		return err
	}

	proofTry, proofHeight := endpoint.QueryProof(host.ChannelPath(endpoint.Counterparty.ChannelConfig.PortID, endpoint.Counterparty.ChannelID))

	msg := channeltypes.NewMsgChannelOpenAck(
		endpoint.ChannelConfig.PortID, endpoint.ChannelID,
		endpoint.Counterparty.ChannelID, endpoint.Counterparty.ChannelConfig.Version, // testing doesn't use flexible selection
		proofTry, proofHeight,
	)

	if _, err := endpoint.Chain.SendMsg(msg); err != nil {
		return err
	}

	endpoint.ChannelConfig.Version = endpoint.GetChannel().Version
	return nil
}

// ChanOpenConfirm will construct and execute a MsgChannelOpenConfirm on the associated endpoint.
func (endpoint *Endpoint) ChanOpenConfirm() error {
	if err := endpoint.UpdateClient(); err != nil {
		return err
	}

	proofAck, proofHeight := endpoint.QueryProof(host.ChannelPath(endpoint.Counterparty.ChannelConfig.PortID, endpoint.Counterparty.ChannelID))

	msg := channeltypes.NewMsgChannelOpenConfirm(
		endpoint.ChannelConfig.PortID, endpoint.ChannelID,
		proofAck, proofHeight,
	)

	_, err := endpoint.Chain.SendMsg(msg)
	return err
}

// ChanCloseInit will construct and execute a MsgChannelCloseInit on the associated endpoint.
func (endpoint *Endpoint) ChanCloseInit() error {
	msg := channeltypes.NewMsgChannelCloseInit(endpoint.ChannelConfig.PortID, endpoint.ChannelID)

	_, err := endpoint.Chain.SendMsg(msg)
	return err
}

// ChanCloseConfirm will construct and execute a MsgChannelCloseConfirm on the associated endpoint.
func (endpoint *Endpoint) ChanCloseConfirm() error {
	if err := endpoint.UpdateClient(); err != nil {
		return err
	}

	proofInit, proofHeight := endpoint.QueryProof(host.ChannelPath(endpoint.Counterparty.ChannelConfig.PortID, endpoint.Counterparty.ChannelID))

	msg := channeltypes.NewMsgChannelCloseConfirm(
		endpoint.ChannelConfig.PortID, endpoint.ChannelID,
		proofInit, proofHeight,
	)

	_, err := endpoint.Chain.SendMsg(msg)
	return err
}

// SendPacket sends a packet through the channel keeper using the associated endpoint
// The counterparty client is updated so proofs can be sent to the counterparty chain.
// The packet sequence generated for the packet to be sent is returned. An error
// is returned if one occurs.
func (endpoint *Endpoint) SendPacket(
	timeoutHeight clienttypes.Height,
	timeoutTimestamp uint64,
	data []byte,
) (channeltypes.Packet, error) {
	ctx := endpoint.Chain.Ctx

	sequence, err := ctx.GetNextSequenceSend(endpoint.ChannelConfig.PortID, endpoint.ChannelID)
	if err != nil {
		return channeltypes.Packet{}, err
	}

	packet := channeltypes.NewPacket(
		data, sequence,
		endpoint.ChannelConfig.PortID, endpoint.ChannelID,
		endpoint.Counterparty.ChannelConfig.PortID, endpoint.Counterparty.ChannelID,
		timeoutHeight, timeoutTimestamp,
	)

	if err := ibc.SendPacket(ctx, packet); err != nil {
		return channeltypes.Packet{}, err
	}

	endpoint.Chain.NextBlock()

	if err := endpoint.Counterparty.UpdateClient(); err != nil {
		return channeltypes.Packet{}, err
	}

	return packet, nil
}

// RecvPacket receives a packet on the associated endpoint.
// The counterparty client is updated.
func (endpoint *Endpoint) RecvPacket(packet channeltypes.Packet) error {
	_, err := endpoint.RecvPacketWithResult(packet)
	return err
}

// RecvPacketWithResult receives a packet on the associated endpoint and
// returns the events emitted by the receive.
func (endpoint *Endpoint) RecvPacketWithResult(packet channeltypes.Packet) ([]coretypes.Event, error) {
	if err := endpoint.UpdateClient(); err != nil {
		return nil, err
	}

	// get proof of packet commitment on source
	proof, proofHeight := endpoint.QueryProof(host.PacketCommitmentPath(packet.SourcePort, packet.SourceChannel, packet.Sequence))

	recvMsg := channeltypes.NewMsgRecvPacket(packet, proof, proofHeight)

	events, err := endpoint.Chain.SendMsg(recvMsg)
	if err != nil {
		return nil, err
	}

	if err := endpoint.Counterparty.UpdateClient(); err != nil {
		return nil, err
	}

	return events, nil
}

// WriteAcknowledgement writes an acknowledgement on the channel associated with the endpoint.
// The counterparty client is updated.
func (endpoint *Endpoint) WriteAcknowledgement(ack exported.Acknowledgement, packet channeltypes.Packet) error {
	if err := ibc.WriteAcknowledgement(endpoint.Chain.Ctx, packet, ack); err != nil {
		return err
	}

	endpoint.Chain.NextBlock()

	return endpoint.Counterparty.UpdateClient()
}

// AcknowledgePacket sends a MsgAcknowledgement to the channel associated with the endpoint.
func (endpoint *Endpoint) AcknowledgePacket(packet channeltypes.Packet, ack []byte) error {
	if err := endpoint.UpdateClient(); err != nil {
		return err
	}

	// get proof of acknowledgement on counterparty
	proof, proofHeight := endpoint.QueryProof(host.PacketAcknowledgementPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence))

	ackMsg := channeltypes.NewMsgAcknowledgement(packet, ack, proof, proofHeight)

	_, err := endpoint.Chain.SendMsg(ackMsg)
	return err
}

// TimeoutPacket sends a MsgTimeout to the channel associated with the endpoint.
func (endpoint *Endpoint) TimeoutPacket(packet channeltypes.Packet) error {
	if err := endpoint.UpdateClient(); err != nil {
		return err
	}

	proof, nextSeqRecv, proofHeight, err := endpoint.unreceivedProof(packet)
	if err != nil {
		return err
	}

	timeoutMsg := channeltypes.NewMsgTimeout(packet, nextSeqRecv, proof, proofHeight)

	_, err = endpoint.Chain.SendMsg(timeoutMsg)
	return err
}

// TimeoutOnClose sends a MsgTimeoutOnClose to the channel associated with the endpoint.
func (endpoint *Endpoint) TimeoutOnClose(packet channeltypes.Packet) error {
	if err := endpoint.UpdateClient(); err != nil {
		return err
	}

	proof, nextSeqRecv, proofHeight, err := endpoint.unreceivedProof(packet)
	if err != nil {
		return err
	}

	proofClosed, _ := endpoint.QueryProof(host.ChannelPath(packet.DestinationPort, packet.DestinationChannel))

	timeoutOnCloseMsg := channeltypes.NewMsgTimeoutOnClose(packet, nextSeqRecv, proof, proofClosed, proofHeight)

	_, err = endpoint.Chain.SendMsg(timeoutOnCloseMsg)
	return err
}

// unreceivedProof returns the proof that the counterparty has not received the
// packet: the next receive sequence on ordered channels, the absence of a
// receipt on unordered ones.
func (endpoint *Endpoint) unreceivedProof(packet channeltypes.Packet) ([]byte, uint64, clienttypes.Height, error) {
	counterpartyCtx := endpoint.Counterparty.Chain.Ctx

	switch endpoint.ChannelConfig.Order {
	case channeltypes.ORDERED:
		nextSeqRecv, err := counterpartyCtx.GetNextSequenceRecv(packet.DestinationPort, packet.DestinationChannel)
		if err != nil {
			return nil, 0, clienttypes.Height{}, err
		}

		proof, proofHeight := endpoint.QueryProof(host.NextSequenceRecvPath(packet.DestinationPort, packet.DestinationChannel))
		return proof, nextSeqRecv, proofHeight, nil
	case channeltypes.UNORDERED:
		proof, proofHeight := endpoint.QueryProof(host.PacketReceiptPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence))
		return proof, packet.Sequence, proofHeight, nil
	default:
		return nil, 0, clienttypes.Height{}, fmt.Errorf("unsupported order type %s", endpoint.ChannelConfig.Order)
	}
}

// SetClientState stores the client state of the endpoint directly.
func (endpoint *Endpoint) SetClientState(clientState exported.ClientState) {
	require.NoError(endpoint.Chain.TB, endpoint.Chain.Ctx.StoreClientState(endpoint.ClientID, clientState))
}

// GetClientState retrieves the client state for this endpoint.
func (endpoint *Endpoint) GetClientState() exported.ClientState {
	return endpoint.Chain.GetClientState(endpoint.ClientID)
}

// GetConnection retrieves an IBC Connection for the endpoint. The
// connection is expected to exist otherwise testing will fail.
func (endpoint *Endpoint) GetConnection() connectiontypes.ConnectionEnd {
	return endpoint.Chain.GetConnection(endpoint.ConnectionID)
}

// SetConnection sets the connection for this endpoint.
func (endpoint *Endpoint) SetConnection(connection connectiontypes.ConnectionEnd) {
	require.NoError(endpoint.Chain.TB, endpoint.Chain.Ctx.StoreConnection(endpoint.ConnectionID, connection))
}

// GetChannel retrieves an IBC Channel for the endpoint. The channel
// is expected to exist otherwise testing will fail.
func (endpoint *Endpoint) GetChannel() channeltypes.Channel {
	return endpoint.Chain.GetChannel(endpoint.ChannelConfig.PortID, endpoint.ChannelID)
}

// SetChannel sets the channel for this endpoint.
func (endpoint *Endpoint) SetChannel(channel channeltypes.Channel) {
	require.NoError(endpoint.Chain.TB, endpoint.Chain.Ctx.StoreChannel(endpoint.ChannelConfig.PortID, endpoint.ChannelID, channel))
}

// SetChannelState sets a channel state
func (endpoint *Endpoint) SetChannelState(state channeltypes.State) {
	channel := endpoint.GetChannel()
	channel.State = state
	endpoint.SetChannel(channel)
}

// QueryClientStateProof performs and update and returns the latest client state
// of the endpoint along with the proof height of the counterparty.
func (endpoint *Endpoint) QueryClientStateProof() (exported.ClientState, []byte, clienttypes.Height) {
	clientState := endpoint.GetClientState()
	proof, height := endpoint.Chain.QueryProof(host.FullClientStatePath(endpoint.ClientID))
	return clientState, proof, height
}
