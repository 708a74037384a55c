package handler_test

import (
	gogotypes "github.com/gogo/protobuf/types"

	"github.com/cosmos/ibc-core/modules/core/02-client/types"
	ibcerrors "github.com/cosmos/ibc-core/modules/core/errors"
	"github.com/cosmos/ibc-core/modules/core/exported"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
	ibcmock "github.com/cosmos/ibc-core/modules/light-clients/00-mock"
	ibctesting "github.com/cosmos/ibc-core/testing"
)

func (suite *HandlerTestSuite) TestCreateClient() {
	var (
		clientState    *gogotypes.Any
		consensusState *gogotypes.Any
	)

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"client state latest height is zero", func() {
			clientState = suite.chainA.Ctx.Codec().MustPackClientState(ibcmock.NewClientState(types.ZeroHeight(), 0))
		}, types.ErrInvalidClient},
		{"consensus state of another client type", func() {
			solomachine := ibctesting.NewSolomachine(suite.T(), "06-solomachine-0", "diversifier")
			consensusState = suite.chainA.Ctx.Codec().MustPackConsensusState(solomachine.ConsensusState())
		}, types.ErrInvalidConsensus},
		{"consensus state is missing", func() {
			consensusState = nil
		}, ibcerrors.ErrInvalidRequest},
		{"consensus state timestamp is zero", func() {
			consensusState = suite.chainA.Ctx.Codec().MustPackConsensusState(ibcmock.NewConsensusState(0))
		}, types.ErrInvalidConsensus},
		{"unregistered client state type", func() {
			clientState = &gogotypes.Any{TypeUrl: "/unknown.ClientState", Value: []byte{1}}
		}, ibcerrors.ErrUnpackAny},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset

			height := suite.chainB.LatestHeight()
			cs, err := suite.chainB.Ctx.HostConsensusState(height)
			suite.Require().NoError(err)

			cdc := suite.chainA.Ctx.Codec()
			clientState = cdc.MustPackClientState(ibcmock.NewClientState(height, 0))
			consensusState = cdc.MustPackConsensusState(cs)

			tc.malleate()

			events, err := suite.chainA.SendMsg(types.NewMsgCreateClient(clientState, consensusState))

			if tc.expErr == nil {
				suite.Require().NoError(err)

				clientID := types.FormatClientIdentifier(exported.Mock, 0)
				ibctesting.AssertEvents(&suite.Suite, []coretypes.Event{
					coretypes.NewEvent(
						types.EventTypeCreateClient,
						coretypes.NewAttribute(types.AttributeKeyClientID, clientID),
						coretypes.NewAttribute(types.AttributeKeyClientType, exported.Mock),
						coretypes.NewAttribute(types.AttributeKeyConsensusHeight, height.String()),
					),
				}, events)

				stored := suite.chainA.GetClientState(clientID)
				suite.Require().Equal(height, stored.GetLatestHeight())

				_, found := suite.chainA.GetConsensusState(clientID, height)
				suite.Require().True(found)

				// the consensus state was processed in the block that created the client
				processedHeight, err := suite.chainA.Ctx.ClientUpdateHeight(clientID, height)
				suite.Require().NoError(err)
				suite.Require().True(processedHeight.LT(suite.chainA.LatestHeight()))

				_, err = suite.chainA.Ctx.ClientUpdateTime(clientID, height)
				suite.Require().NoError(err)

				counter, err := suite.chainA.Ctx.ClientCounter()
				suite.Require().NoError(err)
				suite.Require().Equal(uint64(1), counter)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)

				counter, err := suite.chainA.Ctx.ClientCounter()
				suite.Require().NoError(err)
				suite.Require().Zero(counter)
			}
		})
	}
}

func (suite *HandlerTestSuite) TestCreateClientSequentialIdentifiers() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	suite.Require().NoError(path.EndpointA.CreateClient())
	suite.Require().Equal(types.FormatClientIdentifier(exported.Mock, 0), path.EndpointA.ClientID)

	second := ibctesting.NewPath(suite.chainA, suite.chainB)
	suite.Require().NoError(second.EndpointA.CreateClient())
	suite.Require().Equal(types.FormatClientIdentifier(exported.Mock, 1), second.EndpointA.ClientID)

	clients, err := suite.chainA.Ctx.ClientStates()
	suite.Require().NoError(err)
	suite.Require().Len(clients, 2)
}

func (suite *HandlerTestSuite) TestCreateClientNotAllowed() {
	ctx := ibctesting.NewMockContext(
		ibctesting.GetChainID(1), ibctesting.DefaultMaxHistorySize, 1,
		ibctesting.ClientParamsOption(types.NewParams(exported.Solomachine)),
	)

	height := suite.chainB.LatestHeight()
	cs, err := suite.chainB.Ctx.HostConsensusState(height)
	suite.Require().NoError(err)

	msg := types.NewMsgCreateClient(
		ctx.Codec().MustPackClientState(ibcmock.NewClientState(height, 0)),
		ctx.Codec().MustPackConsensusState(cs),
	)

	err = ctx.Deliver(suite.chainA.Router, msg)
	suite.Require().ErrorIs(err, types.ErrInvalidClientType)
	suite.Require().ErrorIs(err, ibctesting.ErrTransactionFailed)

	// a rejected message produces no block
	suite.Require().Equal(uint64(1), ctx.LatestHeight().RevisionHeight)
}
