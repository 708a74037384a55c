package handler

import (
	"strings"

	"github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

// emitCreateClientEvent emits a create client event
func emitCreateClientEvent(ctx coretypes.ExecutionContext, clientID, clientType string, consensusHeight exported.Height) error {
	return emitEvents(ctx,
		coretypes.NewEvent(
			types.EventTypeCreateClient,
			coretypes.NewAttribute(types.AttributeKeyClientID, clientID),
			coretypes.NewAttribute(types.AttributeKeyClientType, clientType),
			coretypes.NewAttribute(types.AttributeKeyConsensusHeight, consensusHeight.String()),
		),
	)
}

// emitUpdateClientEvent emits an update client event
func emitUpdateClientEvent(ctx coretypes.ExecutionContext, clientID, clientType string, consensusHeights []exported.Height) error {
	var consensusHeightAttr string
	if len(consensusHeights) != 0 {
		consensusHeightAttr = consensusHeights[0].String()
	}

	consensusHeightsAttr := make([]string, len(consensusHeights))
	for i, height := range consensusHeights {
		consensusHeightsAttr[i] = height.String()
	}

	return emitEvents(ctx,
		coretypes.NewEvent(
			types.EventTypeUpdateClient,
			coretypes.NewAttribute(types.AttributeKeyClientID, clientID),
			coretypes.NewAttribute(types.AttributeKeyClientType, clientType),
			// Deprecated: AttributeKeyConsensusHeight is deprecated and will be removed in a future release.
			// Please use AttributeKeyConsensusHeights instead.
			coretypes.NewAttribute(types.AttributeKeyConsensusHeight, consensusHeightAttr),
			coretypes.NewAttribute(types.AttributeKeyConsensusHeights, strings.Join(consensusHeightsAttr, ",")),
		),
	)
}

// emitSubmitMisbehaviourEvent emits a client misbehaviour event
func emitSubmitMisbehaviourEvent(ctx coretypes.ExecutionContext, clientID, clientType string) error {
	return emitEvents(ctx,
		coretypes.NewEvent(
			types.EventTypeSubmitMisbehaviour,
			coretypes.NewAttribute(types.AttributeKeyClientID, clientID),
			coretypes.NewAttribute(types.AttributeKeyClientType, clientType),
		),
	)
}

// emitEvents emits the message event of the client layer followed by the given event.
func emitEvents(ctx coretypes.ExecutionContext, event coretypes.Event) error {
	if err := ctx.EmitIBCEvent(coretypes.NewMessageEvent(types.AttributeValueCategory)); err != nil {
		return err
	}
	return ctx.EmitIBCEvent(event)
}
