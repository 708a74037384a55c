package cmd

import (
	"errors"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	ibc "github.com/cosmos/ibc-core/modules/core"
	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-core/modules/core/05-port/types"
	host "github.com/cosmos/ibc-core/modules/core/24-host"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
	ibcmock "github.com/cosmos/ibc-core/modules/light-clients/00-mock"
	ibctesting "github.com/cosmos/ibc-core/testing"
	"github.com/cosmos/ibc-core/testing/mock"
)

// Summary reports the outcome of a simulation run.
type Summary struct {
	Acknowledged int
	TimedOut     int
	HeightA      clienttypes.Height
	HeightB      clienttypes.Height
}

// chain is a simulated host together with the mock application bound on it.
type chain struct {
	ctx    *ibctesting.MockContext
	router *porttypes.ModuleRouter
	app    *mock.IBCApp

	clientID     string
	connectionID string
	channelID    string
}

func newChain(chainID string, cfg Config, logger log.Logger) (*chain, error) {
	app := mock.NewIBCApp(mock.PortID)
	router := porttypes.NewRouter().AddRoute(mock.ModuleName, mock.NewIBCModule(app))
	if err := router.BindPort(mock.PortID, mock.ModuleName); err != nil {
		return nil, err
	}
	router.Seal()

	ctx := ibctesting.NewMockContext(
		chainID, cfg.MaxHistorySize, 1,
		ibctesting.BlockTimeOption(cfg.BlockTime),
		ibctesting.LoggerOption(logger),
	)

	return &chain{ctx: ctx, router: router, app: app}, nil
}

// send delivers the message and returns the events it emitted.
func (c *chain) send(msg coretypes.MsgEnvelope) ([]coretypes.Event, error) {
	before := len(c.ctx.Events)
	if err := c.ctx.Deliver(c.router, msg); err != nil {
		return nil, err
	}
	return c.ctx.Events[before:], nil
}

// proof returns the proof of the path at the latest height of the chain.
func (c *chain) proof(path string) ([]byte, clienttypes.Height, error) {
	height := c.ctx.LatestHeight()
	proof := c.ctx.GetProof(height, path)
	if proof == nil {
		return nil, clienttypes.Height{}, fmt.Errorf("no proof for %s at %s", path, height)
	}
	return proof, height, nil
}

// link relays between a source chain a and a destination chain b.
type link struct {
	a, b   *chain
	order  channeltypes.Order
	logger log.Logger
}

// Run connects two chains, relays cfg.Packets packets from chain a to chain b
// and times out one more packet that chain b never receives.
func Run(cfg Config, logger log.Logger) (Summary, error) {
	order, err := cfg.Order()
	if err != nil {
		return Summary{}, err
	}

	a, err := newChain(cfg.ChainA, cfg, logger)
	if err != nil {
		return Summary{}, err
	}
	b, err := newChain(cfg.ChainB, cfg, logger)
	if err != nil {
		return Summary{}, err
	}

	l := &link{a: a, b: b, order: order, logger: logger}
	if err := l.handshake(); err != nil {
		return Summary{}, errorsmod.Wrap(err, "handshake failed")
	}

	var summary Summary
	for i := uint64(0); i < cfg.Packets; i++ {
		packet, err := l.sendPacket(heightAfter(l.b.ctx.LatestHeight(), 100), mock.MockPacketData)
		if err != nil {
			return Summary{}, err
		}
		if err := l.relay(packet); err != nil {
			return Summary{}, errorsmod.Wrapf(err, "failed to relay packet %d", packet.Sequence)
		}
		summary.Acknowledged++
	}

	if err := l.expire(); err != nil {
		return Summary{}, errorsmod.Wrap(err, "failed to time out packet")
	}
	summary.TimedOut++

	pending, err := a.ctx.PacketCommitments(mock.PortID, a.channelID)
	if err != nil {
		return Summary{}, err
	}
	if len(pending) != 0 {
		return Summary{}, fmt.Errorf("%d packet commitments left on %s", len(pending), a.ctx.ChainID())
	}

	summary.HeightA = a.ctx.LatestHeight()
	summary.HeightB = b.ctx.LatestHeight()
	return summary, nil
}

func heightAfter(height clienttypes.Height, blocks uint64) clienttypes.Height {
	return clienttypes.NewHeight(height.RevisionNumber, height.RevisionHeight+blocks)
}

// updateClient updates the client on dst tracking src to the latest height of src.
func updateClient(dst, src *chain) error {
	clientState, err := dst.ctx.ClientState(dst.clientID)
	if err != nil {
		return errorsmod.Wrap(ibctesting.ErrClientStateNotFound, err.Error())
	}

	target := src.ctx.LatestHeight()
	if clientState.GetLatestHeight().GTE(target) {
		return nil
	}

	header, err := src.ctx.HostHeader(target)
	if err != nil {
		return err
	}

	_, err = dst.send(clienttypes.NewMsgUpdateClient(dst.clientID, dst.ctx.Codec().MustPackClientMessage(header)))
	return err
}

func createClient(dst, src *chain) error {
	height := src.ctx.LatestHeight()
	consensusState, err := src.ctx.HostConsensusState(height)
	if err != nil {
		return err
	}

	cdc := dst.ctx.Codec()
	events, err := dst.send(clienttypes.NewMsgCreateClient(
		cdc.MustPackClientState(ibcmock.NewClientState(height, uint64(ibctesting.DefaultTrustingPeriod))),
		cdc.MustPackConsensusState(consensusState),
	))
	if err != nil {
		return err
	}

	dst.clientID, err = ibctesting.ParseClientIDFromEvents(events)
	return err
}

func (l *link) handshake() error {
	a, b := l.a, l.b

	if err := createClient(a, b); err != nil {
		return err
	}
	if err := createClient(b, a); err != nil {
		return err
	}

	version := connectiontypes.GetCompatibleVersions()[0]

	events, err := a.send(connectiontypes.NewMsgConnectionOpenInit(a.clientID, b.clientID, b.ctx.CommitmentPrefix(), version, 0))
	if err != nil {
		return err
	}
	if a.connectionID, err = ibctesting.ParseConnectionIDFromEvents(events); err != nil {
		return err
	}

	if err := updateClient(b, a); err != nil {
		return err
	}
	proof, height, err := a.proof(host.ConnectionPath(a.connectionID))
	if err != nil {
		return err
	}
	events, err = b.send(connectiontypes.NewMsgConnectionOpenTry(
		b.clientID, a.connectionID, a.clientID, a.ctx.CommitmentPrefix(),
		[]*connectiontypes.Version{version}, 0, proof, height,
	))
	if err != nil {
		return err
	}
	if b.connectionID, err = ibctesting.ParseConnectionIDFromEvents(events); err != nil {
		return err
	}

	if err := updateClient(a, b); err != nil {
		return err
	}
	if proof, height, err = b.proof(host.ConnectionPath(b.connectionID)); err != nil {
		return err
	}
	if _, err := a.send(connectiontypes.NewMsgConnectionOpenAck(a.connectionID, b.connectionID, proof, height, version)); err != nil {
		return err
	}

	if err := updateClient(b, a); err != nil {
		return err
	}
	if proof, height, err = a.proof(host.ConnectionPath(a.connectionID)); err != nil {
		return err
	}
	if _, err := b.send(connectiontypes.NewMsgConnectionOpenConfirm(b.connectionID, proof, height)); err != nil {
		return err
	}
	l.logger.Info("connection open", "connection-a", a.connectionID, "connection-b", b.connectionID)

	events, err = a.send(channeltypes.NewMsgChannelOpenInit(mock.PortID, mock.Version, l.order, []string{a.connectionID}, mock.PortID))
	if err != nil {
		return err
	}
	if a.channelID, err = ibctesting.ParseChannelIDFromEvents(events); err != nil {
		return err
	}

	if err := updateClient(b, a); err != nil {
		return err
	}
	if proof, height, err = a.proof(host.ChannelPath(mock.PortID, a.channelID)); err != nil {
		return err
	}
	events, err = b.send(channeltypes.NewMsgChannelOpenTry(
		mock.PortID, mock.Version, l.order, []string{b.connectionID},
		mock.PortID, a.channelID, mock.Version, proof, height,
	))
	if err != nil {
		return err
	}
	if b.channelID, err = ibctesting.ParseChannelIDFromEvents(events); err != nil {
		return err
	}

	if err := updateClient(a, b); err != nil {
		return err
	}
	if proof, height, err = b.proof(host.ChannelPath(mock.PortID, b.channelID)); err != nil {
		return err
	}
	if _, err := a.send(channeltypes.NewMsgChannelOpenAck(mock.PortID, a.channelID, b.channelID, mock.Version, proof, height)); err != nil {
		return err
	}

	if err := updateClient(b, a); err != nil {
		return err
	}
	if proof, height, err = a.proof(host.ChannelPath(mock.PortID, a.channelID)); err != nil {
		return err
	}
	if _, err := b.send(channeltypes.NewMsgChannelOpenConfirm(mock.PortID, b.channelID, proof, height)); err != nil {
		return err
	}
	l.logger.Info("channel open", "channel-a", a.channelID, "channel-b", b.channelID, "order", l.order.String())

	return nil
}

// sendPacket sends a packet from chain a to chain b.
func (l *link) sendPacket(timeoutHeight clienttypes.Height, data []byte) (channeltypes.Packet, error) {
	a, b := l.a, l.b

	sequence, err := a.ctx.GetNextSequenceSend(mock.PortID, a.channelID)
	if err != nil {
		return channeltypes.Packet{}, err
	}

	packet := channeltypes.NewPacket(data, sequence, mock.PortID, a.channelID, mock.PortID, b.channelID, timeoutHeight, 0)
	if err := ibc.SendPacket(a.ctx, packet); err != nil {
		return channeltypes.Packet{}, err
	}
	a.ctx.AdvanceHostChainHeight()

	return packet, nil
}

// relay receives the packet on chain b and acknowledges it on chain a.
func (l *link) relay(packet channeltypes.Packet) error {
	a, b := l.a, l.b

	if err := updateClient(b, a); err != nil {
		return err
	}
	proof, height, err := a.proof(host.PacketCommitmentPath(packet.SourcePort, packet.SourceChannel, packet.Sequence))
	if err != nil {
		return err
	}
	events, err := b.send(channeltypes.NewMsgRecvPacket(packet, proof, height))
	if err != nil {
		return err
	}

	ack, err := ibctesting.ParseAckFromEvents(events)
	if err != nil {
		return err
	}

	if err := updateClient(a, b); err != nil {
		return err
	}
	if proof, height, err = b.proof(host.PacketAcknowledgementPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence)); err != nil {
		return err
	}
	if _, err := a.send(channeltypes.NewMsgAcknowledgement(packet, ack, proof, height)); err != nil {
		return err
	}

	l.logger.Info("packet relayed", "sequence", packet.Sequence)
	return nil
}

// expire sends a packet which times out at the next height of chain b, lets
// chain b pass that height and times the packet out on chain a.
func (l *link) expire() error {
	a, b := l.a, l.b

	packet, err := l.sendPacket(heightAfter(b.ctx.LatestHeight(), 1), mock.MockPacketData)
	if err != nil {
		return err
	}

	b.ctx.AdvanceHostChainHeight()
	b.ctx.AdvanceHostChainHeight()

	if err := updateClient(a, b); err != nil {
		return err
	}

	var (
		proof       []byte
		height      clienttypes.Height
		nextSeqRecv = packet.Sequence
	)
	switch l.order {
	case channeltypes.ORDERED:
		if nextSeqRecv, err = b.ctx.GetNextSequenceRecv(packet.DestinationPort, packet.DestinationChannel); err != nil {
			return err
		}
		proof, height, err = b.proof(host.NextSequenceRecvPath(packet.DestinationPort, packet.DestinationChannel))
	default:
		proof, height, err = b.proof(host.PacketReceiptPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence))
	}
	if err != nil {
		return err
	}

	if _, err := a.send(channeltypes.NewMsgTimeout(packet, nextSeqRecv, proof, height)); err != nil {
		return err
	}

	if len(a.app.TimedOutPackets) == 0 {
		return errors.New("application was not notified of the timeout")
	}

	l.logger.Info("packet timed out", "sequence", packet.Sequence)
	return nil
}
