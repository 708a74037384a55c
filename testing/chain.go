package ibctesting

import (
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	channeltypes "github.com/cosmos/ibc-core/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-core/modules/core/05-port/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
	"github.com/cosmos/ibc-core/testing/mock"
)

// TestChain is a simulated host chain. It wraps a MockContext together with
// the router of its IBC applications. The mock application is bound to
// MockPort on every test chain.
type TestChain struct {
	TB testing.TB

	Coordinator *Coordinator
	ChainID     string
	Ctx         *MockContext

	Router *porttypes.ModuleRouter
	App    *mock.IBCApp
}

// NewTestChain initializes a new test chain at height 1 with the default
// history size. Messages are logged to the mock logger of the chain.
func NewTestChain(tb testing.TB, coord *Coordinator, chainID string) *TestChain {
	tb.Helper()
	return NewTestChainWithLogger(tb, coord, chainID, mock.NewMockLogger())
}

// NewTestChainWithLogger initializes a new test chain logging to the given logger.
func NewTestChainWithLogger(tb testing.TB, coord *Coordinator, chainID string, logger log.Logger) *TestChain {
	tb.Helper()

	app := mock.NewIBCApp(MockPort)
	router := porttypes.NewRouter().AddRoute(mock.ModuleName, mock.NewIBCModule(app))
	require.NoError(tb, router.BindPort(MockPort, mock.ModuleName))
	router.Seal()

	return &TestChain{
		TB:          tb,
		Coordinator: coord,
		ChainID:     chainID,
		Ctx:         NewMockContext(chainID, DefaultMaxHistorySize, 1, LoggerOption(logger)),
		Router:      router,
		App:         app,
	}
}

// LatestHeight returns the height of the latest block of the chain.
func (chain *TestChain) LatestHeight() clienttypes.Height {
	return chain.Ctx.LatestHeight()
}

// NextBlock produces a new block without executing any message.
func (chain *TestChain) NextBlock() {
	chain.Ctx.AdvanceHostChainHeight()
}

// SendMsg delivers the message to the chain and returns the events it emitted.
func (chain *TestChain) SendMsg(msg coretypes.MsgEnvelope) ([]coretypes.Event, error) {
	before := len(chain.Ctx.Events)
	if err := chain.Ctx.Deliver(chain.Router, msg); err != nil {
		return nil, err
	}
	return append([]coretypes.Event(nil), chain.Ctx.Events[before:]...), nil
}

// QueryProof returns the proof of the value stored under path at the latest
// height of the chain, together with that height.
func (chain *TestChain) QueryProof(path string) ([]byte, clienttypes.Height) {
	height := chain.LatestHeight()
	proof := chain.Ctx.GetProof(height, path)
	require.NotNil(chain.TB, proof, "no proof for %s at %s", path, height)
	return proof, height
}

// GetClientState returns the client state of the given client. The test fails
// if the client does not exist.
func (chain *TestChain) GetClientState(clientID string) exported.ClientState {
	clientState, err := chain.Ctx.ClientState(clientID)
	require.NoError(chain.TB, err)
	return clientState
}

// GetConsensusState returns the consensus state of the client at the height.
func (chain *TestChain) GetConsensusState(clientID string, height exported.Height) (exported.ConsensusState, bool) {
	consensusState, err := chain.Ctx.ConsensusState(clientID, height)
	return consensusState, err == nil
}

// GetConnection returns the connection end. The test fails if it does not exist.
func (chain *TestChain) GetConnection(connectionID string) connectiontypes.ConnectionEnd {
	connection, err := chain.Ctx.ConnectionEnd(connectionID)
	require.NoError(chain.TB, err)
	return connection
}

// GetChannel returns the channel end. The test fails if it does not exist.
func (chain *TestChain) GetChannel(portID, channelID string) channeltypes.Channel {
	channel, err := chain.Ctx.ChannelEnd(portID, channelID)
	require.NoError(chain.TB, err)
	return channel
}

// GetTimeoutHeight returns a timeout height a hundred blocks above the latest
// height of the chain.
func (chain *TestChain) GetTimeoutHeight() clienttypes.Height {
	latest := chain.LatestHeight()
	return clienttypes.NewHeight(latest.RevisionNumber, latest.RevisionHeight+100)
}
