package handler

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/ibc-core/modules/core/03-connection/types"
	"github.com/cosmos/ibc-core/modules/core/metrics"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

// ValidateConnOpenInit checks that the proposed version, if any, is supported and
// that the client backing the connection is active.
//
// NOTE: Msg validation verifies the supplied identifiers and ensures that the counterparty
// connection identifier is empty.
func ValidateConnOpenInit(ctx coretypes.ValidationContext, msg *types.MsgConnectionOpenInit) error {
	if msg.Version != nil && !types.IsSupportedVersion(ctx.GetCompatibleVersions(), msg.Version) {
		return errorsmod.Wrap(types.ErrInvalidVersion, "version is not supported")
	}

	if _, err := getActiveClientState(ctx, msg.ClientId); err != nil {
		return err
	}

	_, err := nextConnectionIdentifier(ctx)
	return err
}

// ExecuteConnOpenInit initialises a connection attempt on chain A.
func ExecuteConnOpenInit(ctx coretypes.ExecutionContext, msg *types.MsgConnectionOpenInit) error {
	versions := ctx.GetCompatibleVersions()
	if msg.Version != nil {
		versions = []*types.Version{msg.Version}
	}

	connectionID, err := nextConnectionIdentifier(ctx)
	if err != nil {
		return err
	}

	// connection defines chain A's ConnectionEnd
	connection := types.NewConnectionEnd(types.INIT, msg.ClientId, msg.Counterparty, versions, msg.DelayPeriod)
	if err := storeNewConnection(ctx, connectionID, connection); err != nil {
		return err
	}

	if err := logStateTransition(ctx, connectionID, types.UNINITIALIZED, types.INIT); err != nil {
		return err
	}

	defer metrics.IncrCounter(metrics.KeyConnection, "open-init")

	return emitConnectionOpenInitEvent(ctx, connectionID, msg.ClientId, msg.Counterparty)
}

// ValidateConnOpenTry verifies that chain A stored the expected connection end in
// INIT and that a version compatible with both chains exists.
//
// NOTE:
//   - Here chain A acts as the counterparty
//   - Identifiers are checked on msg validation
func ValidateConnOpenTry(ctx coretypes.ValidationContext, msg *types.MsgConnectionOpenTry) error {
	connectionID, connection, err := connOpenTryResult(ctx, msg)
	if err != nil {
		return err
	}

	// expectedConnection defines Chain A's ConnectionEnd
	// NOTE: chain A's counterparty is chain B (i.e where this code is executed)
	// NOTE: chainA and chainB must have the same delay period
	expectedCounterparty := types.NewCounterparty(msg.ClientId, "", ctx.CommitmentPrefix())
	expectedConnection := types.NewConnectionEnd(types.INIT, msg.Counterparty.ClientId, expectedCounterparty, msg.CounterpartyVersions, msg.DelayPeriod)

	// Check that ChainA committed expectedConnectionEnd to its state
	if err := VerifyConnectionState(
		ctx, connection, msg.ProofHeight, msg.ProofInit, msg.Counterparty.ConnectionId,
		expectedConnection,
	); err != nil {
		return err
	}

	if msg.PreviousConnectionId == "" {
		if _, err := ctx.ConnectionEnd(connectionID); err == nil {
			return errorsmod.Wrapf(types.ErrConnectionExists, "connection with identifier %s already exists", connectionID)
		}
	}

	return nil
}

// ExecuteConnOpenTry stores chain B's connection end in TRYOPEN. In the case of
// crossing hellos the previous connection end in INIT is opened instead.
func ExecuteConnOpenTry(ctx coretypes.ExecutionContext, msg *types.MsgConnectionOpenTry) error {
	connectionID, connection, err := connOpenTryResult(ctx, msg)
	if err != nil {
		return err
	}

	previousState := types.UNINITIALIZED
	if msg.PreviousConnectionId != "" {
		previousState = types.INIT
		if err := ctx.StoreConnection(connectionID, connection); err != nil {
			return err
		}
	} else if err := storeNewConnection(ctx, connectionID, connection); err != nil {
		return errorsmod.Wrapf(err, "failed to add connection with ID %s to client with ID %s", connectionID, msg.ClientId)
	}

	if err := logStateTransition(ctx, connectionID, previousState, connection.State); err != nil {
		return err
	}

	defer metrics.IncrCounter(metrics.KeyConnection, "open-try")

	return emitConnectionOpenTryEvent(ctx, connectionID, msg.ClientId, msg.Counterparty)
}

// connOpenTryResult returns the identifier and the connection end chain B stores
// on a successful ConnOpenTry.
func connOpenTryResult(ctx coretypes.ValidationContext, msg *types.MsgConnectionOpenTry) (string, types.ConnectionEnd, error) {
	supportedVersions := ctx.GetCompatibleVersions()

	var previous *types.ConnectionEnd
	if msg.PreviousConnectionId != "" {
		connection, err := getCrossingHelloConnection(ctx, msg)
		if err != nil {
			return "", types.ConnectionEnd{}, err
		}

		previous = &connection
		supportedVersions = connection.Versions
	}

	// chain B picks a version from Chain A's available versions that is compatible
	// with Chain B's supported IBC versions. PickVersion will select the intersection
	// of the supported versions and the counterparty versions.
	version, err := types.PickVersion(supportedVersions, msg.CounterpartyVersions)
	if err != nil {
		return "", types.ConnectionEnd{}, err
	}

	if previous != nil {
		connection := *previous
		connection.State = types.OPEN
		connection.Versions = []*types.Version{version}
		connection.Counterparty.ConnectionId = msg.Counterparty.ConnectionId
		return msg.PreviousConnectionId, connection, nil
	}

	connectionID, err := nextConnectionIdentifier(ctx)
	if err != nil {
		return "", types.ConnectionEnd{}, err
	}

	// connection defines chain B's ConnectionEnd
	connection := types.NewConnectionEnd(types.TRYOPEN, msg.ClientId, msg.Counterparty, []*types.Version{version}, msg.DelayPeriod)
	return connectionID, connection, nil
}

// getCrossingHelloConnection returns the previous connection end named by the
// message. It must be in INIT with the same parameters as the message.
func getCrossingHelloConnection(ctx coretypes.ValidationContext, msg *types.MsgConnectionOpenTry) (types.ConnectionEnd, error) {
	connection, err := ctx.ConnectionEnd(msg.PreviousConnectionId)
	if err != nil {
		return types.ConnectionEnd{}, errorsmod.Wrapf(types.ErrConnectionNotFound, "previous connection %s: %s", msg.PreviousConnectionId, err)
	}

	if connection.State != types.INIT {
		return types.ConnectionEnd{}, errorsmod.Wrapf(
			types.ErrInvalidConnectionState,
			"previous connection state is not INIT (got %s)", connection.State,
		)
	}

	if connection.ClientId != msg.ClientId ||
		connection.Counterparty.ClientId != msg.Counterparty.ClientId ||
		connection.Counterparty.ConnectionId != "" ||
		!connection.Counterparty.Prefix.Equal(msg.Counterparty.Prefix) ||
		connection.DelayPeriod != msg.DelayPeriod {
		return types.ConnectionEnd{}, errorsmod.Wrapf(
			types.ErrInvalidConnection,
			"message does not match previous connection %s", msg.PreviousConnectionId,
		)
	}

	return connection, nil
}

// ValidateConnOpenAck verifies that chain B stored the expected connection end in
// TRYOPEN and that it selected a version proposed on INIT.
//
// NOTE: Identifiers are checked on msg validation.
func ValidateConnOpenAck(ctx coretypes.ValidationContext, msg *types.MsgConnectionOpenAck) error {
	// Retrieve connection
	connection, err := ctx.ConnectionEnd(msg.ConnectionId)
	if err != nil {
		return errorsmod.Wrap(types.ErrConnectionNotFound, msg.ConnectionId)
	}

	// verify the previously set connection state
	if connection.State != types.INIT {
		return errorsmod.Wrapf(
			types.ErrInvalidConnectionState,
			"connection state is not INIT (got %s)", connection.State,
		)
	}

	// ensure selected version is supported
	if !types.IsSupportedVersion(connection.Versions, msg.Version) {
		return errorsmod.Wrapf(
			types.ErrInvalidConnectionState,
			"the counterparty selected version %s is not supported by versions selected on INIT", msg.Version,
		)
	}

	expectedCounterparty := types.NewCounterparty(connection.ClientId, msg.ConnectionId, ctx.CommitmentPrefix())
	expectedConnection := types.NewConnectionEnd(types.TRYOPEN, connection.Counterparty.ClientId, expectedCounterparty, []*types.Version{msg.Version}, connection.DelayPeriod)

	// Ensure that ChainB stored expected connectionEnd in its state during ConnOpenTry
	return VerifyConnectionState(
		ctx, connection, msg.ProofHeight, msg.ProofTry, msg.CounterpartyConnectionId,
		expectedConnection,
	)
}

// ExecuteConnOpenAck opens the connection on chain A.
func ExecuteConnOpenAck(ctx coretypes.ExecutionContext, msg *types.MsgConnectionOpenAck) error {
	connection, err := ctx.ConnectionEnd(msg.ConnectionId)
	if err != nil {
		return errorsmod.Wrap(types.ErrConnectionNotFound, msg.ConnectionId)
	}

	// Update connection state to Open
	connection.State = types.OPEN
	connection.Versions = []*types.Version{msg.Version}
	connection.Counterparty.ConnectionId = msg.CounterpartyConnectionId
	if err := ctx.StoreConnection(msg.ConnectionId, connection); err != nil {
		return err
	}

	if err := logStateTransition(ctx, msg.ConnectionId, types.INIT, types.OPEN); err != nil {
		return err
	}

	defer metrics.IncrCounter(metrics.KeyConnection, "open-ack")

	return emitConnectionOpenAckEvent(ctx, msg.ConnectionId, connection)
}

// ValidateConnOpenConfirm verifies that chain A opened its connection end.
//
// NOTE: Identifiers are checked on msg validation.
func ValidateConnOpenConfirm(ctx coretypes.ValidationContext, msg *types.MsgConnectionOpenConfirm) error {
	// Retrieve connection
	connection, err := ctx.ConnectionEnd(msg.ConnectionId)
	if err != nil {
		return errorsmod.Wrap(types.ErrConnectionNotFound, msg.ConnectionId)
	}

	// Check that connection state on ChainB is on state: TRYOPEN
	if connection.State != types.TRYOPEN {
		return errorsmod.Wrapf(
			types.ErrInvalidConnectionState,
			"connection state is not TRYOPEN (got %s)", connection.State,
		)
	}

	expectedCounterparty := types.NewCounterparty(connection.ClientId, msg.ConnectionId, ctx.CommitmentPrefix())
	expectedConnection := types.NewConnectionEnd(types.OPEN, connection.Counterparty.ClientId, expectedCounterparty, connection.Versions, connection.DelayPeriod)

	// Check that connection on ChainA is open
	return VerifyConnectionState(
		ctx, connection, msg.ProofHeight, msg.ProofAck, connection.Counterparty.ConnectionId,
		expectedConnection,
	)
}

// ExecuteConnOpenConfirm opens the connection on chain B, after which the
// connection is open on both chains.
func ExecuteConnOpenConfirm(ctx coretypes.ExecutionContext, msg *types.MsgConnectionOpenConfirm) error {
	connection, err := ctx.ConnectionEnd(msg.ConnectionId)
	if err != nil {
		return errorsmod.Wrap(types.ErrConnectionNotFound, msg.ConnectionId)
	}

	// Update ChainB's connection to Open
	connection.State = types.OPEN
	if err := ctx.StoreConnection(msg.ConnectionId, connection); err != nil {
		return err
	}

	if err := logStateTransition(ctx, msg.ConnectionId, types.TRYOPEN, types.OPEN); err != nil {
		return err
	}

	defer metrics.IncrCounter(metrics.KeyConnection, "open-confirm")

	return emitConnectionOpenConfirmEvent(ctx, msg.ConnectionId, connection)
}

func nextConnectionIdentifier(ctx coretypes.ValidationContext) (string, error) {
	sequence, err := ctx.ConnectionCounter()
	if err != nil {
		return "", err
	}
	return types.FormatConnectionIdentifier(sequence), nil
}

// storeNewConnection stores a newly created connection end, adds it to the
// connection paths of its client and increments the connection counter.
func storeNewConnection(ctx coretypes.ExecutionContext, connectionID string, connection types.ConnectionEnd) error {
	if err := ctx.StoreConnection(connectionID, connection); err != nil {
		return err
	}

	if err := ctx.StoreConnectionToClient(connection.ClientId, connectionID); err != nil {
		return err
	}

	return ctx.IncreaseConnectionCounter()
}

func logStateTransition(ctx coretypes.ExecutionContext, connectionID string, previous, next types.State) error {
	return ctx.LogMessage(fmt.Sprintf("connection state updated: connection-id=%s previous-state=%s new-state=%s", connectionID, previous, next))
}
