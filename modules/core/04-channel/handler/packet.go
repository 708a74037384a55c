package handler

import (
	"bytes"
	"fmt"
	"strconv"

	errorsmod "cosmossdk.io/errors"
	gometrics "github.com/armon/go-metrics"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectionhandler "github.com/cosmos/ibc-core/modules/core/03-connection/handler"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	"github.com/cosmos/ibc-core/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-core/modules/core/05-port/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
	"github.com/cosmos/ibc-core/modules/core/metrics"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

// ValidateSendPacket checks that a packet can be sent on its source channel.
// The channel must be OPEN, the packet must carry the next send sequence and
// its timeout must not have passed on the counterparty as tracked by the
// latest consensus state of the channel's client.
func ValidateSendPacket(ctx coretypes.ValidationContext, packet types.Packet) error {
	if err := packet.ValidateBasic(); err != nil {
		return errorsmod.Wrap(err, "packet failed basic validation")
	}

	channel, err := getChannel(ctx, packet.SourcePort, packet.SourceChannel)
	if err != nil {
		return err
	}

	if channel.State != types.OPEN {
		return errorsmod.Wrapf(types.ErrInvalidChannelState, "channel is not OPEN (got %s)", channel.State)
	}

	if err := checkCounterpartyDestination(channel, packet); err != nil {
		return err
	}

	connection, err := getConnection(ctx, channel)
	if err != nil {
		return err
	}

	clientID := connection.ClientId
	clientState, err := ctx.ClientState(clientID)
	if err != nil {
		return errorsmod.Wrap(clienttypes.ErrClientNotFound, clientID)
	}

	if status := clientState.Status(ctx, clientID); status != exported.Active {
		return errorsmod.Wrapf(clienttypes.ErrClientNotActive, "cannot send packet using client (%s) with status %s", clientID, status)
	}

	latestHeight := clientState.GetLatestHeight()
	latestTimestamp, err := clientState.GetTimestampAtHeight(ctx, clientID, latestHeight)
	if err != nil {
		return err
	}

	timeout := packet.GetTimeout()
	if timeout.Elapsed(latestHeight, latestTimestamp) {
		return errorsmod.Wrap(timeout.ErrTimeoutElapsed(latestHeight, latestTimestamp), "invalid packet timeout")
	}

	nextSequenceSend, err := ctx.GetNextSequenceSend(packet.SourcePort, packet.SourceChannel)
	if err != nil {
		return errorsmod.Wrapf(
			types.ErrSequenceSendNotFound,
			"source port: %s, source channel: %s", packet.SourcePort, packet.SourceChannel,
		)
	}

	if packet.Sequence != nextSequenceSend {
		return errorsmod.Wrapf(
			types.ErrPacketSequenceOutOfOrder,
			"packet sequence ≠ next send sequence (%d ≠ %d)", packet.Sequence, nextSequenceSend,
		)
	}

	return nil
}

// ExecuteSendPacket stores the packet commitment and increments the next send
// sequence of the source channel.
func ExecuteSendPacket(ctx coretypes.ExecutionContext, packet types.Packet) error {
	channel, err := getChannel(ctx, packet.SourcePort, packet.SourceChannel)
	if err != nil {
		return err
	}

	if err := ctx.StoreNextSequenceSend(packet.SourcePort, packet.SourceChannel, packet.Sequence+1); err != nil {
		return err
	}

	if err := ctx.StorePacketCommitment(packet.SourcePort, packet.SourceChannel, packet.Sequence, types.CommitPacket(packet)); err != nil {
		return err
	}

	if err := logPacket(ctx, "packet sent", packet); err != nil {
		return err
	}

	defer metrics.IncrCounter(metrics.KeyPacket, "send", packetLabels(packet, channel)...)

	return emitSendPacketEvent(ctx, packet, channel)
}

// ValidateRecvPacket checks that the packet was committed on the counterparty,
// that it has not timed out on this chain and that it has not been received
// before. The application bound to the destination port may reject the packet.
func ValidateRecvPacket(ctx coretypes.ValidationContext, router porttypes.Router, msg *types.MsgRecvPacket) error {
	packet := msg.Packet

	channel, err := getChannel(ctx, packet.DestinationPort, packet.DestinationChannel)
	if err != nil {
		return err
	}

	if channel.State != types.OPEN {
		return errorsmod.Wrapf(types.ErrInvalidChannelState, "channel state is not OPEN (got %s)", channel.State)
	}

	// packet must come from the channel's counterparty
	if packet.SourcePort != channel.Counterparty.PortId {
		return errorsmod.Wrapf(
			types.ErrInvalidPacket,
			"packet source port doesn't match the counterparty's port (%s ≠ %s)", packet.SourcePort, channel.Counterparty.PortId,
		)
	}

	if packet.SourceChannel != channel.Counterparty.ChannelId {
		return errorsmod.Wrapf(
			types.ErrInvalidPacket,
			"packet source channel doesn't match the counterparty's channel (%s ≠ %s)", packet.SourceChannel, channel.Counterparty.ChannelId,
		)
	}

	connection, err := getConnection(ctx, channel)
	if err != nil {
		return err
	}

	if connection.State != connectiontypes.OPEN {
		return errorsmod.Wrapf(
			connectiontypes.ErrInvalidConnectionState,
			"connection state is not OPEN (got %s)", connection.State,
		)
	}

	hostHeight, err := ctx.HostHeight()
	if err != nil {
		return err
	}

	hostTimestamp, err := ctx.HostTimestamp()
	if err != nil {
		return err
	}

	// check if packet timed out by comparing it with the latest height of the chain
	timeout := packet.GetTimeout()
	if timeout.Elapsed(hostHeight, hostTimestamp) {
		return timeout.ErrTimeoutElapsed(hostHeight, hostTimestamp)
	}

	if err := connectionhandler.VerifyPacketCommitment(
		ctx, connection, msg.ProofHeight, msg.ProofCommitment,
		packet.SourcePort, packet.SourceChannel, packet.Sequence, types.CommitPacket(packet),
	); err != nil {
		return errorsmod.Wrap(err, "couldn't verify counterparty packet commitment")
	}

	if err := checkNotReceived(ctx, channel, packet); err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, packet.DestinationPort)
	if err != nil {
		return err
	}

	return porttypes.NewModuleCallbackError("OnRecvPacketValidate", cbs.OnRecvPacketValidate(channel.Version, packet))
}

// checkNotReceived fails if the packet was already received. On ordered
// channels the packet sequence must equal the next receive sequence exactly.
func checkNotReceived(ctx coretypes.ValidationContext, channel types.Channel, packet types.Packet) error {
	switch channel.Ordering {
	case types.ORDERED:
		nextSequenceRecv, err := ctx.GetNextSequenceRecv(packet.DestinationPort, packet.DestinationChannel)
		if err != nil {
			return errorsmod.Wrapf(
				types.ErrSequenceReceiveNotFound,
				"destination port: %s, destination channel: %s", packet.DestinationPort, packet.DestinationChannel,
			)
		}

		if packet.Sequence < nextSequenceRecv {
			return errorsmod.Wrapf(
				types.ErrPacketReceived,
				"packet sequence %d, next sequence receive %d", packet.Sequence, nextSequenceRecv,
			)
		}

		if packet.Sequence > nextSequenceRecv {
			return errorsmod.Wrapf(
				types.ErrPacketSequenceOutOfOrder,
				"packet sequence ≠ next receive sequence (%d ≠ %d)", packet.Sequence, nextSequenceRecv,
			)
		}

	case types.UNORDERED:
		if _, err := ctx.GetPacketReceipt(packet.DestinationPort, packet.DestinationChannel, packet.Sequence); err == nil {
			return errorsmod.Wrapf(
				types.ErrPacketReceived,
				"port ID (%s) channel ID (%s) sequence (%d)", packet.DestinationPort, packet.DestinationChannel, packet.Sequence,
			)
		}

	default:
		return errorsmod.Wrapf(types.ErrInvalidChannelOrdering, "%s", channel.Ordering)
	}

	return nil
}

// ExecuteRecvPacket hands the packet to the application, records its receipt
// and writes the acknowledgement the application returned. An empty
// acknowledgement means the application acknowledges asynchronously through
// WriteAcknowledgement. An acknowledgement without bytes is rejected before
// any state is written.
func ExecuteRecvPacket(ctx coretypes.ExecutionContext, router porttypes.Router, msg *types.MsgRecvPacket) error {
	packet := msg.Packet

	channel, err := getChannel(ctx, packet.DestinationPort, packet.DestinationChannel)
	if err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, packet.DestinationPort)
	if err != nil {
		return err
	}

	extras, ack := cbs.OnRecvPacketExecute(channel.Version, packet)

	async := types.IsEmptyAcknowledgement(ack)
	if !async && len(ack.Acknowledgement()) == 0 {
		return errorsmod.Wrapf(
			types.ErrInvalidAcknowledgement,
			"acknowledgement cannot be empty: port ID (%s) channel ID (%s) sequence (%d)",
			packet.DestinationPort, packet.DestinationChannel, packet.Sequence,
		)
	}

	switch channel.Ordering {
	case types.ORDERED:
		if err := ctx.StoreNextSequenceRecv(packet.DestinationPort, packet.DestinationChannel, packet.Sequence+1); err != nil {
			return err
		}
	default:
		if err := ctx.StorePacketReceipt(packet.DestinationPort, packet.DestinationChannel, packet.Sequence); err != nil {
			return err
		}
	}

	if err := logPacket(ctx, "packet received", packet); err != nil {
		return err
	}

	if err := emitRecvPacketEvent(ctx, packet, channel); err != nil {
		return err
	}

	if !async {
		if err := writeAcknowledgement(ctx, packet, channel, ack); err != nil {
			return err
		}

		if !ack.Success() {
			extras.Events = coretypes.ConvertToErrorEvents(extras.Events)
		}
	}

	defer metrics.IncrCounter(metrics.KeyPacket, "receive", packetLabels(packet, channel)...)

	return emitModuleExtras(ctx, extras)
}

// ValidateWriteAcknowledgement checks that an asynchronous acknowledgement can
// be written for a received packet.
func ValidateWriteAcknowledgement(ctx coretypes.ValidationContext, packet types.Packet, ack exported.Acknowledgement) error {
	channel, err := getChannel(ctx, packet.DestinationPort, packet.DestinationChannel)
	if err != nil {
		return err
	}

	if channel.State != types.OPEN {
		return errorsmod.Wrapf(types.ErrInvalidChannelState, "channel state is not OPEN (got %s)", channel.State)
	}

	if types.IsEmptyAcknowledgement(ack) || len(ack.Acknowledgement()) == 0 {
		return errorsmod.Wrap(types.ErrInvalidAcknowledgement, "acknowledgement cannot be empty")
	}

	// NOTE: IBC app modules might have written the acknowledgement synchronously on
	// the OnRecvPacket callback so we need to check if the acknowledgement is already
	// set on the store and return an error if so.
	if _, err := ctx.GetPacketAcknowledgement(packet.DestinationPort, packet.DestinationChannel, packet.Sequence); err == nil {
		return errorsmod.Wrapf(types.ErrAcknowledgementExists, "port ID (%s) channel ID (%s) sequence (%d)", packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
	}

	if channel.Ordering == types.UNORDERED {
		if _, err := ctx.GetPacketReceipt(packet.DestinationPort, packet.DestinationChannel, packet.Sequence); err != nil {
			return errorsmod.Wrapf(types.ErrPacketReceiptNotFound, "port ID (%s) channel ID (%s) sequence (%d)", packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
		}
	}

	return nil
}

// ExecuteWriteAcknowledgement writes an asynchronous acknowledgement.
func ExecuteWriteAcknowledgement(ctx coretypes.ExecutionContext, packet types.Packet, ack exported.Acknowledgement) error {
	channel, err := getChannel(ctx, packet.DestinationPort, packet.DestinationChannel)
	if err != nil {
		return err
	}

	return writeAcknowledgement(ctx, packet, channel, ack)
}

func writeAcknowledgement(ctx coretypes.ExecutionContext, packet types.Packet, channel types.Channel, ack exported.Acknowledgement) error {
	if types.IsEmptyAcknowledgement(ack) {
		return errorsmod.Wrap(types.ErrInvalidAcknowledgement, "acknowledgement cannot be empty")
	}

	bz := ack.Acknowledgement()
	if len(bz) == 0 {
		return errorsmod.Wrap(types.ErrInvalidAcknowledgement, "acknowledgement cannot be empty")
	}

	// set the acknowledgement so that it can be verified on the other side
	if err := ctx.StorePacketAcknowledgement(
		packet.DestinationPort, packet.DestinationChannel, packet.Sequence,
		types.CommitAcknowledgement(bz),
	); err != nil {
		return err
	}

	if err := logPacket(ctx, "acknowledgement written", packet); err != nil {
		return err
	}

	return emitWriteAcknowledgementEvent(ctx, packet, channel, bz)
}

// ValidateAcknowledgePacket checks that the packet is still committed on this
// chain and that the counterparty stored the given acknowledgement for it.
func ValidateAcknowledgePacket(ctx coretypes.ValidationContext, router porttypes.Router, msg *types.MsgAcknowledgement) error {
	packet := msg.Packet

	channel, err := getChannel(ctx, packet.SourcePort, packet.SourceChannel)
	if err != nil {
		return err
	}

	if channel.State != types.OPEN {
		return errorsmod.Wrapf(types.ErrInvalidChannelState, "channel state is not OPEN (got %s)", channel.State)
	}

	if err := checkCounterpartyDestination(channel, packet); err != nil {
		return err
	}

	if err := checkPacketCommitment(ctx, packet); err != nil {
		return err
	}

	connection, err := getConnection(ctx, channel)
	if err != nil {
		return err
	}

	if connection.State != connectiontypes.OPEN {
		return errorsmod.Wrapf(
			connectiontypes.ErrInvalidConnectionState,
			"connection state is not OPEN (got %s)", connection.State,
		)
	}

	if err := connectionhandler.VerifyPacketAcknowledgement(
		ctx, connection, msg.ProofHeight, msg.ProofAcked,
		packet.DestinationPort, packet.DestinationChannel, packet.Sequence, msg.Acknowledgement,
	); err != nil {
		return err
	}

	// assert packets acknowledged in order
	if channel.Ordering == types.ORDERED {
		nextSequenceAck, err := ctx.GetNextSequenceAck(packet.SourcePort, packet.SourceChannel)
		if err != nil {
			return errorsmod.Wrapf(
				types.ErrSequenceAckNotFound,
				"source port: %s, source channel: %s", packet.SourcePort, packet.SourceChannel,
			)
		}

		if packet.Sequence != nextSequenceAck {
			return errorsmod.Wrapf(
				types.ErrPacketSequenceOutOfOrder,
				"packet sequence ≠ next ack sequence (%d ≠ %d)", packet.Sequence, nextSequenceAck,
			)
		}
	}

	cbs, err := porttypes.LookupModule(router, packet.SourcePort)
	if err != nil {
		return err
	}

	return porttypes.NewModuleCallbackError(
		"OnAcknowledgementPacketValidate",
		cbs.OnAcknowledgementPacketValidate(channel.Version, packet, msg.Acknowledgement),
	)
}

// ExecuteAcknowledgePacket hands the acknowledgement to the application and
// deletes the packet commitment.
func ExecuteAcknowledgePacket(ctx coretypes.ExecutionContext, router porttypes.Router, msg *types.MsgAcknowledgement) error {
	packet := msg.Packet

	channel, err := getChannel(ctx, packet.SourcePort, packet.SourceChannel)
	if err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, packet.SourcePort)
	if err != nil {
		return err
	}

	extras, err := cbs.OnAcknowledgementPacketExecute(channel.Version, packet, msg.Acknowledgement)
	if err != nil {
		return porttypes.NewModuleCallbackError("OnAcknowledgementPacketExecute", err)
	}

	// Delete packet commitment, since the packet has been acknowledged, the commitement is no longer necessary
	if err := ctx.DeletePacketCommitment(packet.SourcePort, packet.SourceChannel, packet.Sequence); err != nil {
		return err
	}

	if channel.Ordering == types.ORDERED {
		if err := ctx.StoreNextSequenceAck(packet.SourcePort, packet.SourceChannel, packet.Sequence+1); err != nil {
			return err
		}
	}

	if err := logPacket(ctx, "packet acknowledged", packet); err != nil {
		return err
	}

	defer metrics.IncrCounter(metrics.KeyPacket, "acknowledgement", packetLabels(packet, channel)...)

	if err := emitAcknowledgePacketEvent(ctx, packet, channel); err != nil {
		return err
	}

	return emitModuleExtras(ctx, extras)
}

// checkCounterpartyDestination checks that the packet was sent to the
// channel's counterparty.
func checkCounterpartyDestination(channel types.Channel, packet types.Packet) error {
	if packet.DestinationPort != channel.Counterparty.PortId {
		return errorsmod.Wrapf(
			types.ErrInvalidPacket,
			"packet destination port doesn't match the counterparty's port (%s ≠ %s)", packet.DestinationPort, channel.Counterparty.PortId,
		)
	}

	if packet.DestinationChannel != channel.Counterparty.ChannelId {
		return errorsmod.Wrapf(
			types.ErrInvalidPacket,
			"packet destination channel doesn't match the counterparty's channel (%s ≠ %s)", packet.DestinationChannel, channel.Counterparty.ChannelId,
		)
	}

	return nil
}

// checkPacketCommitment checks that the packet commitment is still stored and
// that it commits to the given packet. A missing commitment means the packet
// was already acknowledged or timed out.
func checkPacketCommitment(ctx coretypes.ValidationContext, packet types.Packet) error {
	commitment, err := ctx.GetPacketCommitment(packet.SourcePort, packet.SourceChannel, packet.Sequence)
	if err != nil || len(commitment) == 0 {
		return errorsmod.Wrapf(
			types.ErrPacketCommitmentNotFound,
			"port ID (%s) channel ID (%s) sequence (%d)", packet.SourcePort, packet.SourceChannel, packet.Sequence,
		)
	}

	packetCommitment := types.CommitPacket(packet)

	// verify we sent the packet and haven't cleared it out yet
	if !bytes.Equal(commitment, packetCommitment) {
		return errorsmod.Wrapf(types.ErrInvalidPacketCommitment, "commitment bytes are not equal: got (%v), expected (%v)", packetCommitment, commitment)
	}

	return nil
}

// getConnection returns the connection the channel is bound to.
func getConnection(ctx coretypes.ValidationContext, channel types.Channel) (connectiontypes.ConnectionEnd, error) {
	hop := connectionID(channel)
	connection, err := ctx.ConnectionEnd(hop)
	if err != nil {
		return connectiontypes.ConnectionEnd{}, errorsmod.Wrap(connectiontypes.ErrConnectionNotFound, hop)
	}
	return connection, nil
}

func packetLabels(packet types.Packet, channel types.Channel) []gometrics.Label {
	return []gometrics.Label{
		metrics.NewLabel(metrics.LabelSourcePort, packet.SourcePort),
		metrics.NewLabel(metrics.LabelSourceChannel, packet.SourceChannel),
		metrics.NewLabel(metrics.LabelDestinationPort, packet.DestinationPort),
		metrics.NewLabel(metrics.LabelDestinationChannel, packet.DestinationChannel),
		metrics.NewLabel(metrics.LabelChannelOrdering, channel.Ordering.String()),
	}
}

func logPacket(ctx coretypes.ExecutionContext, message string, packet types.Packet) error {
	return ctx.LogMessage(fmt.Sprintf(
		"%s: sequence=%s src_port=%s src_channel=%s dst_port=%s dst_channel=%s",
		message, strconv.FormatUint(packet.Sequence, 10),
		packet.SourcePort, packet.SourceChannel, packet.DestinationPort, packet.DestinationChannel,
	))
}
