package handler

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/ibc-core/modules/core/02-client/types"
	host "github.com/cosmos/ibc-core/modules/core/24-host"
	"github.com/cosmos/ibc-core/modules/core/exported"
	"github.com/cosmos/ibc-core/modules/core/metrics"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

// ValidateCreateClient checks that the client and consensus states carried by the
// message decode to a consistent pair of an allowed client type.
func ValidateCreateClient(ctx coretypes.ValidationContext, msg *types.MsgCreateClient) error {
	clientState, consensusState, err := unpackCreateClient(ctx, msg)
	if err != nil {
		return err
	}

	clientType := clientState.ClientType()
	if err := types.ValidateClientType(clientType); err != nil {
		return err
	}

	if !ctx.ClientParams().IsAllowedClient(clientType) {
		return errorsmod.Wrapf(
			types.ErrInvalidClientType,
			"client state type %s is not registered in the allowlist", clientType,
		)
	}

	if err := clientState.Validate(); err != nil {
		return err
	}

	if err := consensusState.ValidateBasic(); err != nil {
		return err
	}

	if consensusState.ClientType() != clientType {
		return errorsmod.Wrapf(types.ErrInvalidConsensus, "consensus state type %s does not match client type %s", consensusState.ClientType(), clientType)
	}

	if err := clientState.VerifyInitialState(consensusState); err != nil {
		return err
	}

	clientID, err := nextClientIdentifier(ctx, clientType)
	if err != nil {
		return err
	}

	if _, err := ctx.ClientState(clientID); err == nil {
		return errorsmod.Wrapf(types.ErrClientExists, "client with identifier %s already exists", clientID)
	}

	return nil
}

// ExecuteCreateClient generates a new client identifier and stores the client state,
// the initial consensus state and its processed time and height.
func ExecuteCreateClient(ctx coretypes.ExecutionContext, msg *types.MsgCreateClient) error {
	clientState, consensusState, err := unpackCreateClient(ctx, msg)
	if err != nil {
		return err
	}

	clientType := clientState.ClientType()
	clientID, err := nextClientIdentifier(ctx, clientType)
	if err != nil {
		return err
	}

	if err := clientState.Initialize(ctx, clientID, consensusState); err != nil {
		return err
	}

	latestHeight := clientState.GetLatestHeight()
	if err := storeProcessedTimeAndHeight(ctx, clientID, latestHeight); err != nil {
		return err
	}

	if err := ctx.IncreaseClientCounter(); err != nil {
		return err
	}

	if err := ctx.LogMessage(fmt.Sprintf("client created at height: client-id=%s height=%s", clientID, latestHeight)); err != nil {
		return err
	}

	defer metrics.IncrCounter(metrics.KeyClient, "create", metrics.NewLabel(metrics.LabelClientType, clientType))

	return emitCreateClientEvent(ctx, clientID, clientType, latestHeight)
}

func unpackCreateClient(ctx coretypes.ValidationContext, msg *types.MsgCreateClient) (exported.ClientState, exported.ConsensusState, error) {
	clientState, err := ctx.Codec().UnpackClientState(msg.ClientState)
	if err != nil {
		return nil, nil, err
	}

	consensusState, err := ctx.Codec().UnpackConsensusState(msg.ConsensusState)
	if err != nil {
		return nil, nil, err
	}

	return clientState, consensusState, nil
}

func nextClientIdentifier(ctx coretypes.ValidationContext, clientType string) (string, error) {
	sequence, err := ctx.ClientCounter()
	if err != nil {
		return "", err
	}

	clientID := types.FormatClientIdentifier(clientType, sequence)
	if err := host.ClientIdentifierValidator(clientID); err != nil {
		return "", err
	}
	return clientID, nil
}

// storeProcessedTimeAndHeight records the current host time and height as the
// moment the consensus state at the given height was added.
func storeProcessedTimeAndHeight(ctx coretypes.ExecutionContext, clientID string, height exported.Height) error {
	hostTimestamp, err := ctx.HostTimestamp()
	if err != nil {
		return err
	}

	hostHeight, err := ctx.HostHeight()
	if err != nil {
		return err
	}

	if err := ctx.StoreUpdateTime(clientID, height, hostTimestamp); err != nil {
		return err
	}

	return ctx.StoreUpdateHeight(clientID, height, hostHeight)
}
