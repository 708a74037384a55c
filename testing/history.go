package ibctesting

import (
	"errors"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
	ibcmock "github.com/cosmos/ibc-core/modules/light-clients/00-mock"
)

// LatestHeight returns the height of the latest host block.
func (ctx *MockContext) LatestHeight() clienttypes.Height {
	return ctx.history[len(ctx.history)-1].Height
}

// LatestTimestamp returns the timestamp of the latest host block in nanoseconds.
func (ctx *MockContext) LatestTimestamp() uint64 {
	return ctx.history[len(ctx.history)-1].Timestamp
}

// History returns a copy of the host blocks kept by the context, oldest first.
func (ctx *MockContext) History() []HostBlock {
	return append([]HostBlock(nil), ctx.history...)
}

// AdvanceHostChainHeight produces one host block. Its timestamp is the block
// time after the previous one. Once the history is full the oldest block is
// evicted.
func (ctx *MockContext) AdvanceHostChainHeight() {
	next := ctx.newBlock(ctx.LatestHeight().Increment().(clienttypes.Height))

	if uint64(len(ctx.history)) >= ctx.maxHistorySize {
		copy(ctx.history, ctx.history[1:])
		ctx.history = ctx.history[:len(ctx.history)-1]
	}
	ctx.history = append(ctx.history, next)
}

// ValidateHistory checks the invariants of the host history: it is bounded by
// the maximum size, it belongs to the revision of the chain id, and heights and
// timestamps strictly increase one block at a time.
func (ctx *MockContext) ValidateHistory() error {
	if uint64(len(ctx.history)) > ctx.maxHistorySize {
		return fmt.Errorf("too many entries: %d > %d", len(ctx.history), ctx.maxHistorySize)
	}

	if len(ctx.history) == 0 {
		return errors.New("history is empty")
	}

	if revision := clienttypes.ParseChainID(ctx.chainID); ctx.LatestHeight().RevisionNumber != revision {
		return fmt.Errorf("latest height %s is not in revision %d of chain %s", ctx.LatestHeight(), revision, ctx.chainID)
	}

	for i := 1; i < len(ctx.history); i++ {
		prev, cur := ctx.history[i-1], ctx.history[i]
		if !prev.Height.Increment().EQ(cur.Height) {
			return fmt.Errorf("headers in history not sequential: %s, %s", prev.Height, cur.Height)
		}
		if cur.Timestamp <= prev.Timestamp {
			return fmt.Errorf("timestamps in history not increasing at %s", cur.Height)
		}
	}

	return nil
}

// HostBlock returns the block at the given height if it is still in the history.
func (ctx *MockContext) HostBlock(height exported.Height) (HostBlock, bool) {
	for _, block := range ctx.history {
		if block.Height.EQ(height) {
			return block, true
		}
	}
	return HostBlock{}, false
}

// HostConsensusState returns the consensus state a mock client tracking this
// host stores for the given height.
func (ctx *MockContext) HostConsensusState(height exported.Height) (exported.ConsensusState, error) {
	block, found := ctx.HostBlock(height)
	if !found {
		return nil, errorsmod.Wrapf(clienttypes.ErrSelfConsensusStateNotFound, "height %s is not in the host history", height)
	}
	return ibcmock.NewConsensusState(block.Timestamp), nil
}

// HostHeader returns the mock header describing the host block at the given height.
func (ctx *MockContext) HostHeader(height exported.Height) (*ibcmock.Header, error) {
	block, found := ctx.HostBlock(height)
	if !found {
		return nil, errorsmod.Wrapf(clienttypes.ErrSelfConsensusStateNotFound, "height %s is not in the host history", height)
	}
	return ibcmock.NewHeader(block.Height, block.Timestamp), nil
}
