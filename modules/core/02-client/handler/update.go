package handler

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
	"github.com/cosmos/ibc-core/modules/core/metrics"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

// ValidateUpdateClient verifies the client message against the latest state of
// an active client. Both headers and misbehaviour are accepted.
func ValidateUpdateClient(ctx coretypes.ValidationContext, msg *types.MsgUpdateClient) error {
	clientState, clientMsg, err := unpackUpdateClient(ctx, msg.ClientId, msg)
	if err != nil {
		return err
	}

	if err := types.StatusError(msg.ClientId, clientState.Status(ctx, msg.ClientId)); err != nil {
		return errorsmod.Wrapf(err, "cannot update client (%s)", msg.ClientId)
	}

	if clientMsg.ClientType() != clientState.ClientType() {
		return errorsmod.Wrapf(types.ErrInvalidClientType, "client message type %s does not match client type %s", clientMsg.ClientType(), clientState.ClientType())
	}

	if err := clientMsg.ValidateBasic(); err != nil {
		return err
	}

	return clientState.VerifyClientMessage(ctx, msg.ClientId, clientMsg)
}

// ExecuteUpdateClient freezes the client if the verified client message is evidence
// of misbehaviour, otherwise it stores the new consensus states.
func ExecuteUpdateClient(ctx coretypes.ExecutionContext, msg *types.MsgUpdateClient) error {
	clientID := msg.ClientId
	clientState, clientMsg, err := unpackUpdateClient(ctx, clientID, msg)
	if err != nil {
		return err
	}

	clientType := clientState.ClientType()

	if clientState.CheckForMisbehaviour(ctx, clientID, clientMsg) {
		if err := clientState.UpdateStateOnMisbehaviour(ctx, clientID, clientMsg); err != nil {
			return err
		}

		if err := ctx.LogMessage(fmt.Sprintf("client frozen due to misbehaviour: client-id=%s", clientID)); err != nil {
			return err
		}

		defer metrics.IncrCounter(
			metrics.KeyClient, "misbehaviour",
			metrics.NewLabel(metrics.LabelClientType, clientType),
			metrics.NewLabel(metrics.LabelClientID, clientID),
			metrics.NewLabel(metrics.LabelMsgType, "update"),
		)

		return emitSubmitMisbehaviourEvent(ctx, clientID, clientType)
	}

	consensusHeights, err := clientState.UpdateState(ctx, clientID, clientMsg)
	if err != nil {
		return err
	}

	// a header the client already stored changes nothing
	if len(consensusHeights) == 0 {
		return nil
	}

	for _, height := range consensusHeights {
		if err := storeProcessedTimeAndHeight(ctx, clientID, height); err != nil {
			return err
		}
	}

	if err := ctx.LogMessage(fmt.Sprintf("client state updated: client-id=%s heights=%v", clientID, consensusHeights)); err != nil {
		return err
	}

	defer metrics.IncrCounter(
		metrics.KeyClient, "update",
		metrics.NewLabel(metrics.LabelClientType, clientType),
		metrics.NewLabel(metrics.LabelClientID, clientID),
		metrics.NewLabel(metrics.LabelUpdateType, "msg"),
	)

	return emitUpdateClientEvent(ctx, clientID, clientType, consensusHeights)
}

// ValidateSubmitMisbehaviour verifies the misbehaviour like any client message and
// additionally requires it to be evidence of misbehaviour.
func ValidateSubmitMisbehaviour(ctx coretypes.ValidationContext, msg *types.MsgSubmitMisbehaviour) error {
	update := msg.AsUpdate()
	if err := ValidateUpdateClient(ctx, update); err != nil {
		return err
	}

	clientState, clientMsg, err := unpackUpdateClient(ctx, update.ClientId, update)
	if err != nil {
		return err
	}

	if !clientState.CheckForMisbehaviour(ctx, update.ClientId, clientMsg) {
		return errorsmod.Wrapf(types.ErrInvalidMisbehaviour, "no misbehaviour found for client %s", update.ClientId)
	}

	return nil
}

// ExecuteSubmitMisbehaviour freezes the client.
func ExecuteSubmitMisbehaviour(ctx coretypes.ExecutionContext, msg *types.MsgSubmitMisbehaviour) error {
	return ExecuteUpdateClient(ctx, msg.AsUpdate())
}

func unpackUpdateClient(ctx coretypes.ValidationContext, clientID string, msg *types.MsgUpdateClient) (exported.ClientState, exported.ClientMessage, error) {
	clientState, err := ctx.ClientState(clientID)
	if err != nil {
		return nil, nil, errorsmod.Wrap(types.ErrClientNotFound, clientID)
	}

	clientMsg, err := ctx.Codec().UnpackClientMessage(msg.ClientMessage)
	if err != nil {
		return nil, nil, err
	}

	return clientState, clientMsg, nil
}
