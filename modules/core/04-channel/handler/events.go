package handler

import (
	"encoding/hex"
	"fmt"

	"github.com/cosmos/ibc-core/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-core/modules/core/05-port/types"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

// emitChannelOpenInitEvent emits a channel open init event
func emitChannelOpenInitEvent(ctx coretypes.ExecutionContext, portID, channelID string, channel types.Channel) error {
	return emitChannelEvent(ctx, types.EventTypeChannelOpenInit, portID, channelID, channel,
		coretypes.NewAttribute(types.AttributeKeyVersion, channel.Version),
	)
}

// emitChannelOpenTryEvent emits a channel open try event
func emitChannelOpenTryEvent(ctx coretypes.ExecutionContext, portID, channelID string, channel types.Channel) error {
	return emitChannelEvent(ctx, types.EventTypeChannelOpenTry, portID, channelID, channel,
		coretypes.NewAttribute(types.AttributeKeyVersion, channel.Version),
	)
}

// emitChannelOpenAckEvent emits a channel open acknowledge event
func emitChannelOpenAckEvent(ctx coretypes.ExecutionContext, portID, channelID string, channel types.Channel) error {
	return emitChannelEvent(ctx, types.EventTypeChannelOpenAck, portID, channelID, channel)
}

// emitChannelOpenConfirmEvent emits a channel open confirm event
func emitChannelOpenConfirmEvent(ctx coretypes.ExecutionContext, portID, channelID string, channel types.Channel) error {
	return emitChannelEvent(ctx, types.EventTypeChannelOpenConfirm, portID, channelID, channel)
}

// emitChannelCloseInitEvent emits a channel close init event
func emitChannelCloseInitEvent(ctx coretypes.ExecutionContext, portID, channelID string, channel types.Channel) error {
	return emitChannelEvent(ctx, types.EventTypeChannelCloseInit, portID, channelID, channel)
}

// emitChannelCloseConfirmEvent emits a channel close confirm event
func emitChannelCloseConfirmEvent(ctx coretypes.ExecutionContext, portID, channelID string, channel types.Channel) error {
	return emitChannelEvent(ctx, types.EventTypeChannelCloseConfirm, portID, channelID, channel)
}

// emitChannelClosedEvent emits a channel closed event on an ordered channel
// that was closed by a packet timeout.
func emitChannelClosedEvent(ctx coretypes.ExecutionContext, packet types.Packet, channel types.Channel) error {
	return emitChannelEvent(ctx, types.EventTypeChannelClosed, packet.SourcePort, packet.SourceChannel, channel,
		coretypes.NewAttribute(types.AttributeKeyChannelOrdering, channel.Ordering.String()),
	)
}

func emitChannelEvent(ctx coretypes.ExecutionContext, eventType, portID, channelID string, channel types.Channel, extra ...coretypes.EventAttribute) error {
	attributes := []coretypes.EventAttribute{
		coretypes.NewAttribute(types.AttributeKeyPortID, portID),
		coretypes.NewAttribute(types.AttributeKeyChannelID, channelID),
		coretypes.NewAttribute(types.AttributeCounterpartyPortID, channel.Counterparty.PortId),
		coretypes.NewAttribute(types.AttributeCounterpartyChannelID, channel.Counterparty.ChannelId),
		coretypes.NewAttribute(types.AttributeKeyConnectionID, connectionID(channel)),
	}

	return emitEvents(ctx, coretypes.NewEvent(eventType, append(attributes, extra...)...))
}

// emitSendPacketEvent emits an event with packet data along with other packet information for relayer
// to pick up and relay to other chain
func emitSendPacketEvent(ctx coretypes.ExecutionContext, packet types.Packet, channel types.Channel) error {
	return emitPacketEvent(ctx, types.EventTypeSendPacket, packet, channel,
		coretypes.NewAttribute(types.AttributeKeyDataHex, hex.EncodeToString(packet.Data)),
	)
}

// emitRecvPacketEvent emits a receive packet event. It will be emitted both the first time a packet
// is received for a certain sequence and for all duplicate receives.
func emitRecvPacketEvent(ctx coretypes.ExecutionContext, packet types.Packet, channel types.Channel) error {
	return emitPacketEvent(ctx, types.EventTypeRecvPacket, packet, channel,
		coretypes.NewAttribute(types.AttributeKeyDataHex, hex.EncodeToString(packet.Data)),
	)
}

// emitWriteAcknowledgementEvent emits an event that the relayer can query for
func emitWriteAcknowledgementEvent(ctx coretypes.ExecutionContext, packet types.Packet, channel types.Channel, acknowledgement []byte) error {
	return emitPacketEvent(ctx, types.EventTypeWriteAck, packet, channel,
		coretypes.NewAttribute(types.AttributeKeyDataHex, hex.EncodeToString(packet.Data)),
		coretypes.NewAttribute(types.AttributeKeyAckHex, hex.EncodeToString(acknowledgement)),
	)
}

// emitAcknowledgePacketEvent emits an acknowledge packet event. It will be emitted both the first time
// a packet is acknowledged for a certain sequence and for all duplicate acknowledgements.
func emitAcknowledgePacketEvent(ctx coretypes.ExecutionContext, packet types.Packet, channel types.Channel) error {
	return emitPacketEvent(ctx, types.EventTypeAcknowledgePacket, packet, channel)
}

// emitTimeoutPacketEvent emits a timeout packet event. It will be emitted both the first time a packet
// is timed out for a certain sequence and for all duplicate timeouts.
func emitTimeoutPacketEvent(ctx coretypes.ExecutionContext, eventType string, packet types.Packet, channel types.Channel) error {
	return emitPacketEvent(ctx, eventType, packet, channel)
}

func emitPacketEvent(ctx coretypes.ExecutionContext, eventType string, packet types.Packet, channel types.Channel, extra ...coretypes.EventAttribute) error {
	attributes := []coretypes.EventAttribute{
		coretypes.NewAttribute(types.AttributeKeyTimeoutHeight, packet.TimeoutHeight.String()),
		coretypes.NewAttribute(types.AttributeKeyTimeoutTimestamp, fmt.Sprintf("%d", packet.TimeoutTimestamp)),
		coretypes.NewAttribute(types.AttributeKeySequence, fmt.Sprintf("%d", packet.Sequence)),
		coretypes.NewAttribute(types.AttributeKeySrcPort, packet.SourcePort),
		coretypes.NewAttribute(types.AttributeKeySrcChannel, packet.SourceChannel),
		coretypes.NewAttribute(types.AttributeKeyDstPort, packet.DestinationPort),
		coretypes.NewAttribute(types.AttributeKeyDstChannel, packet.DestinationChannel),
		coretypes.NewAttribute(types.AttributeKeyChannelOrdering, channel.Ordering.String()),
		coretypes.NewAttribute(types.AttributeKeyConnection, connectionID(channel)),
	}

	return emitEvents(ctx, coretypes.NewEvent(eventType, append(extra, attributes...)...))
}

// emitEvents brackets the event with a message event for the channel category.
func emitEvents(ctx coretypes.ExecutionContext, event coretypes.Event) error {
	if err := ctx.EmitIBCEvent(coretypes.NewMessageEvent(types.AttributeValueCategory)); err != nil {
		return err
	}

	return ctx.EmitIBCEvent(event)
}

// emitModuleExtras emits the events and log lines returned by an application
// callback, after the core events of the message.
func emitModuleExtras(ctx coretypes.ExecutionContext, extras porttypes.ModuleExtras) error {
	for _, event := range extras.Events {
		if err := ctx.EmitIBCEvent(event); err != nil {
			return err
		}
	}

	for _, line := range extras.Log {
		if err := ctx.LogMessage(line); err != nil {
			return err
		}
	}

	return nil
}

func connectionID(channel types.Channel) string {
	if len(channel.ConnectionHops) == 0 {
		return ""
	}
	return channel.ConnectionHops[0]
}
