package ibc

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	clienthandler "github.com/cosmos/ibc-core/modules/core/02-client/handler"
	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectionhandler "github.com/cosmos/ibc-core/modules/core/03-connection/handler"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	channelhandler "github.com/cosmos/ibc-core/modules/core/04-channel/handler"
	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-core/modules/core/05-port/types"
	ibcerrors "github.com/cosmos/ibc-core/modules/core/errors"
	"github.com/cosmos/ibc-core/modules/core/exported"
	"github.com/cosmos/ibc-core/modules/core/metrics"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
)

// Dispatch validates the message and, if validation succeeds, executes it.
// A validation failure leaves the context untouched. An execution failure is
// wrapped with ErrExecutionFailed and must be treated as fatal for the message
// by the host, since the engine performs no rollback.
func Dispatch(ctx coretypes.ExecutionContext, router porttypes.Router, msg coretypes.MsgEnvelope) error {
	if err := Validate(ctx, router, msg); err != nil {
		metrics.IncrCounter(metrics.KeyDispatch, "rejected", metrics.NewLabel(metrics.LabelMsgType, msgType(msg)))
		return err
	}

	if err := Execute(ctx, router, msg); err != nil {
		metrics.IncrCounter(metrics.KeyDispatch, "failed", metrics.NewLabel(metrics.LabelMsgType, msgType(msg)))
		return fmt.Errorf("%w: %w", ibcerrors.ErrExecutionFailed, err)
	}

	metrics.IncrCounter(metrics.KeyDispatch, "executed", metrics.NewLabel(metrics.LabelMsgType, msgType(msg)))
	return nil
}

// Validate runs the stateless checks of the message followed by the validate
// half of its handler. It never mutates the context.
func Validate(ctx coretypes.ValidationContext, router porttypes.Router, msg coretypes.MsgEnvelope) error {
	if msg == nil {
		return errorsmod.Wrap(ibcerrors.ErrUnknownRequest, "message cannot be nil")
	}

	if err := msg.ValidateBasic(); err != nil {
		return err
	}

	switch msg := msg.(type) {
	// 02-client
	case *clienttypes.MsgCreateClient:
		return clienthandler.ValidateCreateClient(ctx, msg)
	case *clienttypes.MsgUpdateClient:
		return clienthandler.ValidateUpdateClient(ctx, msg)
	case *clienttypes.MsgSubmitMisbehaviour:
		return clienthandler.ValidateSubmitMisbehaviour(ctx, msg)

	// 03-connection
	case *connectiontypes.MsgConnectionOpenInit:
		return connectionhandler.ValidateConnOpenInit(ctx, msg)
	case *connectiontypes.MsgConnectionOpenTry:
		return connectionhandler.ValidateConnOpenTry(ctx, msg)
	case *connectiontypes.MsgConnectionOpenAck:
		return connectionhandler.ValidateConnOpenAck(ctx, msg)
	case *connectiontypes.MsgConnectionOpenConfirm:
		return connectionhandler.ValidateConnOpenConfirm(ctx, msg)

	// 04-channel
	case *channeltypes.MsgChannelOpenInit:
		return channelhandler.ValidateChanOpenInit(ctx, router, msg)
	case *channeltypes.MsgChannelOpenTry:
		return channelhandler.ValidateChanOpenTry(ctx, router, msg)
	case *channeltypes.MsgChannelOpenAck:
		return channelhandler.ValidateChanOpenAck(ctx, router, msg)
	case *channeltypes.MsgChannelOpenConfirm:
		return channelhandler.ValidateChanOpenConfirm(ctx, router, msg)
	case *channeltypes.MsgChannelCloseInit:
		return channelhandler.ValidateChanCloseInit(ctx, router, msg)
	case *channeltypes.MsgChannelCloseConfirm:
		return channelhandler.ValidateChanCloseConfirm(ctx, router, msg)

	// packets
	case *channeltypes.MsgRecvPacket:
		return channelhandler.ValidateRecvPacket(ctx, router, msg)
	case *channeltypes.MsgAcknowledgement:
		return channelhandler.ValidateAcknowledgePacket(ctx, router, msg)
	case *channeltypes.MsgTimeout:
		return channelhandler.ValidateTimeoutPacket(ctx, router, msg)
	case *channeltypes.MsgTimeoutOnClose:
		return channelhandler.ValidateTimeoutOnClose(ctx, router, msg)

	default:
		return errorsmod.Wrapf(ibcerrors.ErrUnknownRequest, "unrecognized IBC message type: %T", msg)
	}
}

// Execute runs the execute half of the handler of a message that already
// passed Validate.
func Execute(ctx coretypes.ExecutionContext, router porttypes.Router, msg coretypes.MsgEnvelope) error {
	switch msg := msg.(type) {
	case *clienttypes.MsgCreateClient:
		return clienthandler.ExecuteCreateClient(ctx, msg)
	case *clienttypes.MsgUpdateClient:
		return clienthandler.ExecuteUpdateClient(ctx, msg)
	case *clienttypes.MsgSubmitMisbehaviour:
		return clienthandler.ExecuteSubmitMisbehaviour(ctx, msg)

	case *connectiontypes.MsgConnectionOpenInit:
		return connectionhandler.ExecuteConnOpenInit(ctx, msg)
	case *connectiontypes.MsgConnectionOpenTry:
		return connectionhandler.ExecuteConnOpenTry(ctx, msg)
	case *connectiontypes.MsgConnectionOpenAck:
		return connectionhandler.ExecuteConnOpenAck(ctx, msg)
	case *connectiontypes.MsgConnectionOpenConfirm:
		return connectionhandler.ExecuteConnOpenConfirm(ctx, msg)

	case *channeltypes.MsgChannelOpenInit:
		return channelhandler.ExecuteChanOpenInit(ctx, router, msg)
	case *channeltypes.MsgChannelOpenTry:
		return channelhandler.ExecuteChanOpenTry(ctx, router, msg)
	case *channeltypes.MsgChannelOpenAck:
		return channelhandler.ExecuteChanOpenAck(ctx, router, msg)
	case *channeltypes.MsgChannelOpenConfirm:
		return channelhandler.ExecuteChanOpenConfirm(ctx, router, msg)
	case *channeltypes.MsgChannelCloseInit:
		return channelhandler.ExecuteChanCloseInit(ctx, router, msg)
	case *channeltypes.MsgChannelCloseConfirm:
		return channelhandler.ExecuteChanCloseConfirm(ctx, router, msg)

	case *channeltypes.MsgRecvPacket:
		return channelhandler.ExecuteRecvPacket(ctx, router, msg)
	case *channeltypes.MsgAcknowledgement:
		return channelhandler.ExecuteAcknowledgePacket(ctx, router, msg)
	case *channeltypes.MsgTimeout:
		return channelhandler.ExecuteTimeoutPacket(ctx, router, msg)
	case *channeltypes.MsgTimeoutOnClose:
		return channelhandler.ExecuteTimeoutOnClose(ctx, router, msg)

	default:
		return errorsmod.Wrapf(ibcerrors.ErrUnknownRequest, "unrecognized IBC message type: %T", msg)
	}
}

// SendPacket commits an outgoing packet on behalf of an application. The
// packet sequence must be the next send sequence of the channel.
func SendPacket(ctx coretypes.ExecutionContext, packet channeltypes.Packet) error {
	if err := channelhandler.ValidateSendPacket(ctx, packet); err != nil {
		return err
	}

	if err := channelhandler.ExecuteSendPacket(ctx, packet); err != nil {
		return fmt.Errorf("%w: %w", ibcerrors.ErrExecutionFailed, err)
	}

	return nil
}

// WriteAcknowledgement writes the acknowledgement of a packet that was
// received asynchronously.
func WriteAcknowledgement(ctx coretypes.ExecutionContext, packet channeltypes.Packet, ack exported.Acknowledgement) error {
	if err := channelhandler.ValidateWriteAcknowledgement(ctx, packet, ack); err != nil {
		return err
	}

	if err := channelhandler.ExecuteWriteAcknowledgement(ctx, packet, ack); err != nil {
		return fmt.Errorf("%w: %w", ibcerrors.ErrExecutionFailed, err)
	}

	return nil
}

func msgType(msg coretypes.MsgEnvelope) string {
	return fmt.Sprintf("%T", msg)
}
