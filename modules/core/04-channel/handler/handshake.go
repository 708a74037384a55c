package handler

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	connectionhandler "github.com/cosmos/ibc-core/modules/core/03-connection/handler"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	"github.com/cosmos/ibc-core/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-core/modules/core/05-port/types"
	"github.com/cosmos/ibc-core/modules/core/metrics"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

// ValidateChanOpenInit checks that the channel is bound to an open connection
// whose version supports the requested ordering, and lets the application
// bound to the port validate the proposed parameters.
func ValidateChanOpenInit(ctx coretypes.ValidationContext, router porttypes.Router, msg *types.MsgChannelOpenInit) error {
	if _, err := getHandshakeConnection(ctx, msg.Channel.ConnectionHops, msg.Channel.Ordering); err != nil {
		return err
	}

	channelID, err := nextChannelIdentifier(ctx)
	if err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, msg.PortId)
	if err != nil {
		return err
	}

	return porttypes.NewModuleCallbackError("OnChanOpenInitValidate", cbs.OnChanOpenInitValidate(
		msg.Channel.Ordering, msg.Channel.ConnectionHops, msg.PortId, channelID, msg.Channel.Counterparty, msg.Channel.Version,
	))
}

// ExecuteChanOpenInit stores a new channel end in INIT with the version
// selected by the application.
func ExecuteChanOpenInit(ctx coretypes.ExecutionContext, router porttypes.Router, msg *types.MsgChannelOpenInit) error {
	channelID, err := nextChannelIdentifier(ctx)
	if err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, msg.PortId)
	if err != nil {
		return err
	}

	extras, version, err := cbs.OnChanOpenInitExecute(
		msg.Channel.Ordering, msg.Channel.ConnectionHops, msg.PortId, channelID, msg.Channel.Counterparty, msg.Channel.Version,
	)
	if err != nil {
		return porttypes.NewModuleCallbackError("OnChanOpenInitExecute", err)
	}

	channel := msg.Channel
	channel.Version = version
	if err := storeNewChannel(ctx, msg.PortId, channelID, channel); err != nil {
		return err
	}

	if err := logStateTransition(ctx, msg.PortId, channelID, types.UNINITIALIZED, types.INIT); err != nil {
		return err
	}

	defer metrics.IncrCounter(metrics.KeyChannel, "open-init", metrics.NewLabel(metrics.LabelSourcePort, msg.PortId))

	if err := emitChannelOpenInitEvent(ctx, msg.PortId, channelID, channel); err != nil {
		return err
	}

	return emitModuleExtras(ctx, extras)
}

// ValidateChanOpenTry verifies that the counterparty stored the expected
// channel end in INIT and lets the application validate the counterparty
// version.
func ValidateChanOpenTry(ctx coretypes.ValidationContext, router porttypes.Router, msg *types.MsgChannelOpenTry) error {
	connection, err := getHandshakeConnection(ctx, msg.Channel.ConnectionHops, msg.Channel.Ordering)
	if err != nil {
		return err
	}

	counterpartyHops := []string{connection.Counterparty.ConnectionId}

	// expectedCounterparty is the counterparty of the counterparty's channel end
	// (i.e self)
	expectedCounterparty := types.NewCounterparty(msg.PortId, "")
	expectedChannel := types.NewChannel(
		types.INIT, msg.Channel.Ordering, expectedCounterparty,
		counterpartyHops, msg.CounterpartyVersion,
	)

	if err := connectionhandler.VerifyChannelState(
		ctx, connection, msg.ProofHeight, msg.ProofInit,
		msg.Channel.Counterparty.PortId, msg.Channel.Counterparty.ChannelId, expectedChannel,
	); err != nil {
		return err
	}

	channelID, err := nextChannelIdentifier(ctx)
	if err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, msg.PortId)
	if err != nil {
		return err
	}

	return porttypes.NewModuleCallbackError("OnChanOpenTryValidate", cbs.OnChanOpenTryValidate(
		msg.Channel.Ordering, msg.Channel.ConnectionHops, msg.PortId, channelID, msg.Channel.Counterparty, msg.CounterpartyVersion,
	))
}

// ExecuteChanOpenTry stores a new channel end in TRYOPEN with the version
// selected by the application.
func ExecuteChanOpenTry(ctx coretypes.ExecutionContext, router porttypes.Router, msg *types.MsgChannelOpenTry) error {
	channelID, err := nextChannelIdentifier(ctx)
	if err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, msg.PortId)
	if err != nil {
		return err
	}

	extras, version, err := cbs.OnChanOpenTryExecute(
		msg.Channel.Ordering, msg.Channel.ConnectionHops, msg.PortId, channelID, msg.Channel.Counterparty, msg.CounterpartyVersion,
	)
	if err != nil {
		return porttypes.NewModuleCallbackError("OnChanOpenTryExecute", err)
	}

	channel := types.NewChannel(types.TRYOPEN, msg.Channel.Ordering, msg.Channel.Counterparty, msg.Channel.ConnectionHops, version)
	if err := storeNewChannel(ctx, msg.PortId, channelID, channel); err != nil {
		return err
	}

	if err := logStateTransition(ctx, msg.PortId, channelID, types.UNINITIALIZED, types.TRYOPEN); err != nil {
		return err
	}

	defer metrics.IncrCounter(metrics.KeyChannel, "open-try", metrics.NewLabel(metrics.LabelSourcePort, msg.PortId))

	if err := emitChannelOpenTryEvent(ctx, msg.PortId, channelID, channel); err != nil {
		return err
	}

	return emitModuleExtras(ctx, extras)
}

// ValidateChanOpenAck verifies that the counterparty stored the expected
// channel end in TRYOPEN and lets the application validate the version the
// counterparty selected.
func ValidateChanOpenAck(ctx coretypes.ValidationContext, router porttypes.Router, msg *types.MsgChannelOpenAck) error {
	channel, err := getChannel(ctx, msg.PortId, msg.ChannelId)
	if err != nil {
		return err
	}

	if channel.State != types.INIT {
		return errorsmod.Wrapf(types.ErrInvalidChannelState, "channel state should be INIT (got %s)", channel.State)
	}

	connection, err := getOpenConnection(ctx, channel.ConnectionHops)
	if err != nil {
		return err
	}

	counterpartyHops := []string{connection.Counterparty.ConnectionId}

	// counterparty of the counterparty channel end (i.e self)
	expectedCounterparty := types.NewCounterparty(msg.PortId, msg.ChannelId)
	expectedChannel := types.NewChannel(
		types.TRYOPEN, channel.Ordering, expectedCounterparty,
		counterpartyHops, msg.CounterpartyVersion,
	)

	if err := connectionhandler.VerifyChannelState(
		ctx, connection, msg.ProofHeight, msg.ProofTry,
		channel.Counterparty.PortId, msg.CounterpartyChannelId, expectedChannel,
	); err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, msg.PortId)
	if err != nil {
		return err
	}

	return porttypes.NewModuleCallbackError("OnChanOpenAckValidate", cbs.OnChanOpenAckValidate(msg.PortId, msg.ChannelId, msg.CounterpartyVersion))
}

// ExecuteChanOpenAck opens the channel end on the chain that initialised the
// handshake.
func ExecuteChanOpenAck(ctx coretypes.ExecutionContext, router porttypes.Router, msg *types.MsgChannelOpenAck) error {
	channel, err := getChannel(ctx, msg.PortId, msg.ChannelId)
	if err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, msg.PortId)
	if err != nil {
		return err
	}

	extras, err := cbs.OnChanOpenAckExecute(msg.PortId, msg.ChannelId, msg.CounterpartyVersion)
	if err != nil {
		return porttypes.NewModuleCallbackError("OnChanOpenAckExecute", err)
	}

	channel.State = types.OPEN
	channel.Version = msg.CounterpartyVersion
	channel.Counterparty.ChannelId = msg.CounterpartyChannelId
	if err := ctx.StoreChannel(msg.PortId, msg.ChannelId, channel); err != nil {
		return err
	}

	if err := logStateTransition(ctx, msg.PortId, msg.ChannelId, types.INIT, types.OPEN); err != nil {
		return err
	}

	defer metrics.IncrCounter(metrics.KeyChannel, "open-ack", metrics.NewLabel(metrics.LabelSourcePort, msg.PortId))

	if err := emitChannelOpenAckEvent(ctx, msg.PortId, msg.ChannelId, channel); err != nil {
		return err
	}

	return emitModuleExtras(ctx, extras)
}

// ValidateChanOpenConfirm verifies that the counterparty opened its channel end.
func ValidateChanOpenConfirm(ctx coretypes.ValidationContext, router porttypes.Router, msg *types.MsgChannelOpenConfirm) error {
	channel, err := getChannel(ctx, msg.PortId, msg.ChannelId)
	if err != nil {
		return err
	}

	if channel.State != types.TRYOPEN {
		return errorsmod.Wrapf(types.ErrInvalidChannelState, "channel state is not TRYOPEN (got %s)", channel.State)
	}

	connection, err := getOpenConnection(ctx, channel.ConnectionHops)
	if err != nil {
		return err
	}

	counterpartyHops := []string{connection.Counterparty.ConnectionId}

	counterparty := types.NewCounterparty(msg.PortId, msg.ChannelId)
	expectedChannel := types.NewChannel(
		types.OPEN, channel.Ordering, counterparty,
		counterpartyHops, channel.Version,
	)

	if err := connectionhandler.VerifyChannelState(
		ctx, connection, msg.ProofHeight, msg.ProofAck,
		channel.Counterparty.PortId, channel.Counterparty.ChannelId, expectedChannel,
	); err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, msg.PortId)
	if err != nil {
		return err
	}

	return porttypes.NewModuleCallbackError("OnChanOpenConfirmValidate", cbs.OnChanOpenConfirmValidate(msg.PortId, msg.ChannelId))
}

// ExecuteChanOpenConfirm opens the channel end on the chain that executed
// ChanOpenTry, after which the channel is open on both chains.
func ExecuteChanOpenConfirm(ctx coretypes.ExecutionContext, router porttypes.Router, msg *types.MsgChannelOpenConfirm) error {
	channel, err := getChannel(ctx, msg.PortId, msg.ChannelId)
	if err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, msg.PortId)
	if err != nil {
		return err
	}

	extras, err := cbs.OnChanOpenConfirmExecute(msg.PortId, msg.ChannelId)
	if err != nil {
		return porttypes.NewModuleCallbackError("OnChanOpenConfirmExecute", err)
	}

	channel.State = types.OPEN
	if err := ctx.StoreChannel(msg.PortId, msg.ChannelId, channel); err != nil {
		return err
	}

	if err := logStateTransition(ctx, msg.PortId, msg.ChannelId, types.TRYOPEN, types.OPEN); err != nil {
		return err
	}

	defer metrics.IncrCounter(metrics.KeyChannel, "open-confirm", metrics.NewLabel(metrics.LabelSourcePort, msg.PortId))

	if err := emitChannelOpenConfirmEvent(ctx, msg.PortId, msg.ChannelId, channel); err != nil {
		return err
	}

	return emitModuleExtras(ctx, extras)
}

// ValidateChanCloseInit checks that the channel is not already closed and lets
// the application veto the closure.
func ValidateChanCloseInit(ctx coretypes.ValidationContext, router porttypes.Router, msg *types.MsgChannelCloseInit) error {
	channel, err := getChannel(ctx, msg.PortId, msg.ChannelId)
	if err != nil {
		return err
	}

	if channel.State == types.CLOSED {
		return errorsmod.Wrap(types.ErrInvalidChannelState, "channel is already CLOSED")
	}

	if _, err := getOpenConnection(ctx, channel.ConnectionHops); err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, msg.PortId)
	if err != nil {
		return err
	}

	return porttypes.NewModuleCallbackError("OnChanCloseInitValidate", cbs.OnChanCloseInitValidate(msg.PortId, msg.ChannelId))
}

// ExecuteChanCloseInit closes the channel end.
func ExecuteChanCloseInit(ctx coretypes.ExecutionContext, router porttypes.Router, msg *types.MsgChannelCloseInit) error {
	return closeChannel(ctx, router, msg.PortId, msg.ChannelId, "OnChanCloseInitExecute", func(cbs porttypes.IBCModule) (porttypes.ModuleExtras, error) {
		return cbs.OnChanCloseInitExecute(msg.PortId, msg.ChannelId)
	}, emitChannelCloseInitEvent, "close-init")
}

// ValidateChanCloseConfirm verifies that the counterparty closed its channel end.
func ValidateChanCloseConfirm(ctx coretypes.ValidationContext, router porttypes.Router, msg *types.MsgChannelCloseConfirm) error {
	channel, err := getChannel(ctx, msg.PortId, msg.ChannelId)
	if err != nil {
		return err
	}

	if channel.State == types.CLOSED {
		return errorsmod.Wrap(types.ErrInvalidChannelState, "channel is already CLOSED")
	}

	connection, err := getOpenConnection(ctx, channel.ConnectionHops)
	if err != nil {
		return err
	}

	counterpartyHops := []string{connection.Counterparty.ConnectionId}

	counterparty := types.NewCounterparty(msg.PortId, msg.ChannelId)
	expectedChannel := types.NewChannel(
		types.CLOSED, channel.Ordering, counterparty,
		counterpartyHops, channel.Version,
	)

	if err := connectionhandler.VerifyChannelState(
		ctx, connection, msg.ProofHeight, msg.ProofInit,
		channel.Counterparty.PortId, channel.Counterparty.ChannelId, expectedChannel,
	); err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, msg.PortId)
	if err != nil {
		return err
	}

	return porttypes.NewModuleCallbackError("OnChanCloseConfirmValidate", cbs.OnChanCloseConfirmValidate(msg.PortId, msg.ChannelId))
}

// ExecuteChanCloseConfirm closes the channel end after the counterparty closed.
func ExecuteChanCloseConfirm(ctx coretypes.ExecutionContext, router porttypes.Router, msg *types.MsgChannelCloseConfirm) error {
	return closeChannel(ctx, router, msg.PortId, msg.ChannelId, "OnChanCloseConfirmExecute", func(cbs porttypes.IBCModule) (porttypes.ModuleExtras, error) {
		return cbs.OnChanCloseConfirmExecute(msg.PortId, msg.ChannelId)
	}, emitChannelCloseConfirmEvent, "close-confirm")
}

func closeChannel(
	ctx coretypes.ExecutionContext,
	router porttypes.Router,
	portID, channelID, callback string,
	onClose func(porttypes.IBCModule) (porttypes.ModuleExtras, error),
	emit func(coretypes.ExecutionContext, string, string, types.Channel) error,
	metricName string,
) error {
	channel, err := getChannel(ctx, portID, channelID)
	if err != nil {
		return err
	}

	cbs, err := porttypes.LookupModule(router, portID)
	if err != nil {
		return err
	}

	extras, err := onClose(cbs)
	if err != nil {
		return porttypes.NewModuleCallbackError(callback, err)
	}

	previousState := channel.State
	channel.State = types.CLOSED
	if err := ctx.StoreChannel(portID, channelID, channel); err != nil {
		return err
	}

	if err := logStateTransition(ctx, portID, channelID, previousState, types.CLOSED); err != nil {
		return err
	}

	defer metrics.IncrCounter(metrics.KeyChannel, metricName, metrics.NewLabel(metrics.LabelSourcePort, portID))

	if err := emit(ctx, portID, channelID, channel); err != nil {
		return err
	}

	return emitModuleExtras(ctx, extras)
}

func nextChannelIdentifier(ctx coretypes.ValidationContext) (string, error) {
	sequence, err := ctx.ChannelCounter()
	if err != nil {
		return "", err
	}
	return types.FormatChannelIdentifier(sequence), nil
}

// storeNewChannel stores a newly created channel end, increments the channel
// counter and initialises the packet sequences of the channel to 1.
func storeNewChannel(ctx coretypes.ExecutionContext, portID, channelID string, channel types.Channel) error {
	if err := ctx.StoreChannel(portID, channelID, channel); err != nil {
		return err
	}

	if err := ctx.IncreaseChannelCounter(); err != nil {
		return err
	}

	if err := ctx.StoreNextSequenceSend(portID, channelID, 1); err != nil {
		return err
	}

	if err := ctx.StoreNextSequenceRecv(portID, channelID, 1); err != nil {
		return err
	}

	return ctx.StoreNextSequenceAck(portID, channelID, 1)
}

func getChannel(ctx coretypes.ValidationContext, portID, channelID string) (types.Channel, error) {
	channel, err := ctx.ChannelEnd(portID, channelID)
	if err != nil {
		return types.Channel{}, errorsmod.Wrapf(types.ErrChannelNotFound, "port ID (%s) channel ID (%s)", portID, channelID)
	}
	return channel, nil
}

// getOpenConnection returns the single connection a channel is bound to. The
// connection must be OPEN.
func getOpenConnection(ctx coretypes.ValidationContext, connectionHops []string) (connectiontypes.ConnectionEnd, error) {
	if len(connectionHops) != 1 {
		return connectiontypes.ConnectionEnd{}, errorsmod.Wrapf(
			types.ErrTooManyConnectionHops,
			"expected 1, got %d", len(connectionHops),
		)
	}

	connection, err := ctx.ConnectionEnd(connectionHops[0])
	if err != nil {
		return connectiontypes.ConnectionEnd{}, errorsmod.Wrap(connectiontypes.ErrConnectionNotFound, connectionHops[0])
	}

	if connection.State != connectiontypes.OPEN {
		return connectiontypes.ConnectionEnd{}, errorsmod.Wrapf(
			connectiontypes.ErrInvalidConnectionState,
			"connection state is not OPEN (got %s)", connection.State,
		)
	}

	return connection, nil
}

// getHandshakeConnection returns the open connection of a new channel end. The
// connection must have negotiated a single version which supports the channel
// ordering.
func getHandshakeConnection(ctx coretypes.ValidationContext, connectionHops []string, order types.Order) (connectiontypes.ConnectionEnd, error) {
	connection, err := getOpenConnection(ctx, connectionHops)
	if err != nil {
		return connectiontypes.ConnectionEnd{}, err
	}

	versions := connection.Versions
	if len(versions) != 1 {
		return connectiontypes.ConnectionEnd{}, errorsmod.Wrapf(
			connectiontypes.ErrInvalidVersion,
			"single version must be negotiated on connection before opening channel, got: %v",
			versions,
		)
	}

	if !connectiontypes.VerifySupportedFeature(versions[0], order.String()) {
		return connectiontypes.ConnectionEnd{}, errorsmod.Wrapf(
			connectiontypes.ErrInvalidVersion,
			"connection version %v does not support channel ordering: %s",
			versions[0], order.String(),
		)
	}

	return connection, nil
}

func logStateTransition(ctx coretypes.ExecutionContext, portID, channelID string, previous, next types.State) error {
	return ctx.LogMessage(fmt.Sprintf("channel state updated: port-id=%s channel-id=%s previous-state=%s new-state=%s", portID, channelID, previous, next))
}
