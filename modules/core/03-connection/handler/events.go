package handler

import (
	"github.com/cosmos/ibc-core/modules/core/03-connection/types"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

// emitConnectionOpenInitEvent emits a connection open init event
func emitConnectionOpenInitEvent(ctx coretypes.ExecutionContext, connectionID string, clientID string, counterparty types.Counterparty) error {
	return emitConnectionEvent(ctx, types.EventTypeConnectionOpenInit, connectionID, clientID, counterparty)
}

// emitConnectionOpenTryEvent emits a connection open try event
func emitConnectionOpenTryEvent(ctx coretypes.ExecutionContext, connectionID string, clientID string, counterparty types.Counterparty) error {
	return emitConnectionEvent(ctx, types.EventTypeConnectionOpenTry, connectionID, clientID, counterparty)
}

// emitConnectionOpenAckEvent emits a connection open acknowledge event
func emitConnectionOpenAckEvent(ctx coretypes.ExecutionContext, connectionID string, connectionEnd types.ConnectionEnd) error {
	return emitConnectionEvent(ctx, types.EventTypeConnectionOpenAck, connectionID, connectionEnd.ClientId, connectionEnd.Counterparty)
}

// emitConnectionOpenConfirmEvent emits a connection open confirm event
func emitConnectionOpenConfirmEvent(ctx coretypes.ExecutionContext, connectionID string, connectionEnd types.ConnectionEnd) error {
	return emitConnectionEvent(ctx, types.EventTypeConnectionOpenConfirm, connectionID, connectionEnd.ClientId, connectionEnd.Counterparty)
}

func emitConnectionEvent(ctx coretypes.ExecutionContext, eventType, connectionID, clientID string, counterparty types.Counterparty) error {
	if err := ctx.EmitIBCEvent(coretypes.NewMessageEvent(types.AttributeValueCategory)); err != nil {
		return err
	}

	return ctx.EmitIBCEvent(
		coretypes.NewEvent(
			eventType,
			coretypes.NewAttribute(types.AttributeKeyConnectionID, connectionID),
			coretypes.NewAttribute(types.AttributeKeyClientID, clientID),
			coretypes.NewAttribute(types.AttributeKeyCounterpartyClientID, counterparty.ClientId),
			coretypes.NewAttribute(types.AttributeKeyCounterpartyConnectionID, counterparty.ConnectionId),
		),
	)
}
