package handler

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectionhandler "github.com/cosmos/ibc-core/modules/core/03-connection/handler"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	"github.com/cosmos/ibc-core/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-core/modules/core/05-port/types"
	"github.com/cosmos/ibc-core/modules/core/metrics"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

// ValidateTimeoutPacket checks that a packet sent on this chain was never
// received on the counterparty before its timeout elapsed. The timeout is
// compared against the proof height and the counterparty timestamp of the
// consensus state at that height. On ordered channels the proof is of the
// counterparty's next receive sequence, on unordered channels it is the
// absence of a packet receipt.
func ValidateTimeoutPacket(ctx coretypes.ValidationContext, router porttypes.Router, msg *types.MsgTimeout) error {
	packet := msg.Packet

	channel, connection, err := getTimeoutChannel(ctx, packet)
	if err != nil {
		return err
	}

	clientState, err := ctx.ClientState(connection.ClientId)
	if err != nil {
		return errorsmod.Wrap(clienttypes.ErrClientNotFound, connection.ClientId)
	}

	// check that timeout height or timeout timestamp has passed on the other end
	proofTimestamp, err := clientState.GetTimestampAtHeight(ctx, connection.ClientId, msg.ProofHeight)
	if err != nil {
		return err
	}

	timeout := packet.GetTimeout()
	if !timeout.Elapsed(msg.ProofHeight, proofTimestamp) {
		return timeout.ErrTimeoutNotReached(msg.ProofHeight, proofTimestamp)
	}

	if err := verifyUnreceived(ctx, connection, channel, packet, msg.ProofHeight, msg.ProofUnreceived, msg.NextSequenceRecv); err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, packet.SourcePort)
	if err != nil {
		return err
	}

	return porttypes.NewModuleCallbackError("OnTimeoutPacketValidate", cbs.OnTimeoutPacketValidate(channel.Version, packet))
}

// ExecuteTimeoutPacket hands the timed out packet to the application and
// deletes its commitment. Ordered channels are closed.
func ExecuteTimeoutPacket(ctx coretypes.ExecutionContext, router porttypes.Router, msg *types.MsgTimeout) error {
	return timeoutExecuted(ctx, router, msg.Packet, types.EventTypeTimeoutPacket, "timeout")
}

// ValidateTimeoutOnClose checks that the counterparty channel end was closed
// before the packet was received. Unlike ValidateTimeoutPacket the timeout of
// the packet does not need to have elapsed.
func ValidateTimeoutOnClose(ctx coretypes.ValidationContext, router porttypes.Router, msg *types.MsgTimeoutOnClose) error {
	packet := msg.Packet

	channel, connection, err := getTimeoutChannel(ctx, packet)
	if err != nil {
		return err
	}

	counterpartyHops := []string{connection.Counterparty.ConnectionId}

	counterparty := types.NewCounterparty(packet.SourcePort, packet.SourceChannel)
	expectedChannel := types.NewChannel(
		types.CLOSED, channel.Ordering, counterparty, counterpartyHops, channel.Version,
	)

	// check that the opposing channel end has closed
	if err := connectionhandler.VerifyChannelState(
		ctx, connection, msg.ProofHeight, msg.ProofClose,
		channel.Counterparty.PortId, channel.Counterparty.ChannelId, expectedChannel,
	); err != nil {
		return err
	}

	if err := verifyUnreceived(ctx, connection, channel, packet, msg.ProofHeight, msg.ProofUnreceived, msg.NextSequenceRecv); err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, packet.SourcePort)
	if err != nil {
		return err
	}

	return porttypes.NewModuleCallbackError("OnTimeoutPacketValidate", cbs.OnTimeoutPacketValidate(channel.Version, packet))
}

// ExecuteTimeoutOnClose hands the packet to the application as timed out and
// deletes its commitment. Ordered channels are closed.
func ExecuteTimeoutOnClose(ctx coretypes.ExecutionContext, router porttypes.Router, msg *types.MsgTimeoutOnClose) error {
	return timeoutExecuted(ctx, router, msg.Packet, types.EventTypeTimeoutPacketOnClose, "timeout-on-close")
}

// getTimeoutChannel returns the source channel and connection of a packet
// which is still committed on this chain.
func getTimeoutChannel(ctx coretypes.ValidationContext, packet types.Packet) (types.Channel, connectiontypes.ConnectionEnd, error) {
	channel, err := getChannel(ctx, packet.SourcePort, packet.SourceChannel)
	if err != nil {
		return types.Channel{}, connectiontypes.ConnectionEnd{}, err
	}

	if err := checkCounterpartyDestination(channel, packet); err != nil {
		return types.Channel{}, connectiontypes.ConnectionEnd{}, err
	}

	if err := checkPacketCommitment(ctx, packet); err != nil {
		return types.Channel{}, connectiontypes.ConnectionEnd{}, err
	}

	connection, err := getConnection(ctx, channel)
	if err != nil {
		return types.Channel{}, connectiontypes.ConnectionEnd{}, err
	}

	return channel, connection, nil
}

// verifyUnreceived verifies that the counterparty has not received the packet
// at the proof height.
func verifyUnreceived(
	ctx coretypes.ValidationContext,
	connection connectiontypes.ConnectionEnd,
	channel types.Channel,
	packet types.Packet,
	proofHeight clienttypes.Height,
	proof []byte,
	nextSequenceRecv uint64,
) error {
	switch channel.Ordering {
	case types.ORDERED:
		// check that packet has not been received
		if nextSequenceRecv > packet.Sequence {
			return errorsmod.Wrapf(
				types.ErrPacketReceived,
				"packet already received, next sequence receive > packet sequence (%d > %d)", nextSequenceRecv, packet.Sequence,
			)
		}

		// check that the recv sequence is as claimed
		return connectionhandler.VerifyNextSequenceRecv(
			ctx, connection, proofHeight, proof,
			packet.DestinationPort, packet.DestinationChannel, nextSequenceRecv,
		)
	case types.UNORDERED:
		return connectionhandler.VerifyPacketReceiptAbsence(
			ctx, connection, proofHeight, proof,
			packet.DestinationPort, packet.DestinationChannel, packet.Sequence,
		)
	default:
		return errorsmod.Wrapf(types.ErrInvalidChannelOrdering, "%s", channel.Ordering)
	}
}

// timeoutExecuted deletes the packet commitment of a timed out packet and
// closes ordered channels, since the ordering guarantee can no longer be kept.
func timeoutExecuted(ctx coretypes.ExecutionContext, router porttypes.Router, packet types.Packet, eventType, metricName string) error {
	channel, err := getChannel(ctx, packet.SourcePort, packet.SourceChannel)
	if err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, packet.SourcePort)
	if err != nil {
		return err
	}

	extras, err := cbs.OnTimeoutPacketExecute(channel.Version, packet)
	if err != nil {
		return porttypes.NewModuleCallbackError("OnTimeoutPacketExecute", err)
	}

	if err := ctx.DeletePacketCommitment(packet.SourcePort, packet.SourceChannel, packet.Sequence); err != nil {
		return err
	}

	if err := logPacket(ctx, "packet timed out", packet); err != nil {
		return err
	}

	defer metrics.IncrCounter(
		metrics.KeyPacket, metricName,
		append(packetLabels(packet, channel), metrics.NewLabel(metrics.LabelTimeoutType, eventType))...,
	)

	if err := emitTimeoutPacketEvent(ctx, eventType, packet, channel); err != nil {
		return err
	}

	if channel.Ordering == types.ORDERED && channel.State != types.CLOSED {
		previousState := channel.State
		channel.State = types.CLOSED
		if err := ctx.StoreChannel(packet.SourcePort, packet.SourceChannel, channel); err != nil {
			return err
		}

		if err := logStateTransition(ctx, packet.SourcePort, packet.SourceChannel, previousState, types.CLOSED); err != nil {
			return err
		}

		if err := emitChannelClosedEvent(ctx, packet, channel); err != nil {
			return err
		}
	}

	return emitModuleExtras(ctx, extras)
}
