package ibctesting

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	ibc "github.com/cosmos/ibc-core/modules/core"
	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-core/modules/core/05-port/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
	ibcmock "github.com/cosmos/ibc-core/modules/light-clients/00-mock"
)

// The With* builders write protocol records directly into the store, bypassing
// the handlers. They panic on failure and return the context for chaining.

// WithClient stores the client and consensus state under the client id. The
// consensus state is stored at the latest height of the client and recorded as
// processed at the latest host block.
func (ctx *MockContext) WithClient(clientID string, clientState exported.ClientState, consensusState exported.ConsensusState) *MockContext {
	height := clientState.GetLatestHeight()

	mustStore(ctx.StoreClientState(clientID, clientState))
	mustStore(ctx.StoreConsensusState(clientID, height, consensusState))
	mustStore(ctx.StoreUpdateTime(clientID, height, ctx.LatestTimestamp()))
	mustStore(ctx.StoreUpdateHeight(clientID, height, ctx.LatestHeight()))
	return ctx
}

// WithMockClient stores an active mock client whose latest height is the given
// counterparty height. The consensus state carries the latest host timestamp.
func (ctx *MockContext) WithMockClient(clientID string, height clienttypes.Height) *MockContext {
	return ctx.WithClient(
		clientID,
		ibcmock.NewClientState(height, 0),
		ibcmock.NewConsensusState(ctx.LatestTimestamp()),
	)
}

// WithConnection stores the connection end and indexes it under its client.
func (ctx *MockContext) WithConnection(connectionID string, connection connectiontypes.ConnectionEnd) *MockContext {
	mustStore(ctx.StoreConnection(connectionID, connection))
	mustStore(ctx.StoreConnectionToClient(connection.ClientId, connectionID))
	return ctx
}

// WithChannel stores the channel end.
func (ctx *MockContext) WithChannel(portID, channelID string, channel channeltypes.Channel) *MockContext {
	mustStore(ctx.StoreChannel(portID, channelID, channel))
	return ctx
}

// WithSendSequence sets the next send sequence of the channel.
func (ctx *MockContext) WithSendSequence(portID, channelID string, sequence uint64) *MockContext {
	mustStore(ctx.StoreNextSequenceSend(portID, channelID, sequence))
	return ctx
}

// WithRecvSequence sets the next receive sequence of the channel.
func (ctx *MockContext) WithRecvSequence(portID, channelID string, sequence uint64) *MockContext {
	mustStore(ctx.StoreNextSequenceRecv(portID, channelID, sequence))
	return ctx
}

// WithAckSequence sets the next acknowledgement sequence of the channel.
func (ctx *MockContext) WithAckSequence(portID, channelID string, sequence uint64) *MockContext {
	mustStore(ctx.StoreNextSequenceAck(portID, channelID, sequence))
	return ctx
}

// WithPacketCommitment stores a packet commitment.
func (ctx *MockContext) WithPacketCommitment(portID, channelID string, sequence uint64, commitment []byte) *MockContext {
	mustStore(ctx.StorePacketCommitment(portID, channelID, sequence, commitment))
	return ctx
}

// WithHeight advances the host until its latest height is the target. It
// panics if the target is in another revision or below the latest height.
func (ctx *MockContext) WithHeight(target clienttypes.Height) *MockContext {
	latest := ctx.LatestHeight()
	if target.RevisionNumber != latest.RevisionNumber {
		panic(fmt.Sprintf("cannot move host from revision %d to revision %d", latest.RevisionNumber, target.RevisionNumber))
	}
	if target.LT(latest) {
		panic(fmt.Sprintf("cannot rewind host from %s to %s", latest, target))
	}

	for ctx.LatestHeight().LT(target) {
		ctx.AdvanceHostChainHeight()
	}
	return ctx
}

// Deliver dispatches the message against the host and, if it succeeds,
// produces a new host block. Failures are returned as transaction failures
// wrapping the dispatch error.
func (ctx *MockContext) Deliver(router porttypes.Router, msg coretypes.MsgEnvelope) error {
	if err := ibc.Dispatch(ctx, router, msg); err != nil {
		ctx.logger.Error("message delivery failed", "msg", fmt.Sprintf("%T", msg), "error", err)
		return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
	}

	ctx.AdvanceHostChainHeight()
	return nil
}

func mustStore(err error) {
	if err != nil {
		panic(errorsmod.Wrap(err, "mock context builder"))
	}
}
