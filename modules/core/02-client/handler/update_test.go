package handler_test

import (
	"time"

	"github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
	ibcmock "github.com/cosmos/ibc-core/modules/light-clients/00-mock"
	ibctesting "github.com/cosmos/ibc-core/testing"
)

func (suite *HandlerTestSuite) TestUpdateClient() {
	var (
		path      *ibctesting.Path
		clientMsg exported.ClientMessage
	)

	latestConsensusState := func() *ibcmock.ConsensusState {
		clientState := path.EndpointA.GetClientState()
		consensusState, found := suite.chainA.GetConsensusState(path.EndpointA.ClientID, clientState.GetLatestHeight())
		suite.Require().True(found)
		return consensusState.(*ibcmock.ConsensusState)
	}

	testCases := []struct {
		msg       string
		malleate  func()
		expStatus exported.Status
		expErr    error
	}{
		{"success", func() {}, exported.Active, nil},
		{"success: duplicate header is a no-op", func() {
			clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
			clientMsg = ibcmock.NewHeader(clientState.LatestHeight, latestConsensusState().Timestamp)
		}, exported.Active, nil},
		{"success: conflicting header freezes the client", func() {
			clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
			clientMsg = ibcmock.NewHeader(clientState.LatestHeight, latestConsensusState().Timestamp+1)
		}, exported.Frozen, nil},
		{"success: header not advancing time freezes the client", func() {
			clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
			clientMsg = ibcmock.NewHeader(clientState.LatestHeight.Increment().(types.Height), latestConsensusState().Timestamp)
		}, exported.Frozen, nil},
		{"header below the latest height for a missing consensus state", func() {
			suite.chainB.NextBlock()
			suite.chainB.NextBlock()
			suite.Require().NoError(path.EndpointA.UpdateClient())

			height, ok := suite.chainB.LatestHeight().Decrement()
			suite.Require().True(ok)
			header, err := suite.chainB.Ctx.HostHeader(height)
			suite.Require().NoError(err)
			clientMsg = header
		}, exported.Active, types.ErrInvalidHeader},
		{"client not found", func() {
			path.EndpointA.ClientID = types.FormatClientIdentifier(exported.Mock, 10)
		}, exported.Active, types.ErrClientNotFound},
		{"client is frozen", func() {
			clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
			clientState.FrozenHeight = types.NewHeight(0, 1)
			path.EndpointA.SetClientState(clientState)
		}, exported.Frozen, types.ErrClientFrozen},
		{"client is expired", func() {
			clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
			clientState.TrustingPeriod = uint64(time.Nanosecond)
			path.EndpointA.SetClientState(clientState)
			suite.chainA.NextBlock()
		}, exported.Expired, types.ErrClientExpired},
		{"client message of another client type", func() {
			solomachine := ibctesting.NewSolomachine(suite.T(), "06-solomachine-0", "diversifier")
			clientMsg = solomachine.CreateHeader("diversifier")
		}, exported.Active, types.ErrInvalidClientType},
		{"header timestamp is zero", func() {
			clientMsg = ibcmock.NewHeader(suite.chainB.LatestHeight(), 0)
		}, exported.Active, types.ErrInvalidHeader},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.SetupClients()

			suite.chainB.NextBlock()
			header, err := suite.chainB.Ctx.HostHeader(suite.chainB.LatestHeight())
			suite.Require().NoError(err)
			clientMsg = header

			tc.malleate()

			var before exported.Height = types.ZeroHeight()
			if clientState, err := suite.chainA.Ctx.ClientState(path.EndpointA.ClientID); err == nil {
				before = clientState.GetLatestHeight()
			}

			events, err := path.EndpointA.Chain.SendMsg(types.NewMsgUpdateClient(
				path.EndpointA.ClientID, suite.chainA.Ctx.Codec().MustPackClientMessage(clientMsg),
			))

			if tc.expErr == nil {
				suite.Require().NoError(err)

				status, err := suite.chainA.Ctx.ClientStatus(path.EndpointA.ClientID)
				suite.Require().NoError(err)
				suite.Require().Equal(tc.expStatus, status)

				if status == exported.Frozen {
					ibctesting.AssertEvents(&suite.Suite, []coretypes.Event{
						coretypes.NewEvent(
							types.EventTypeSubmitMisbehaviour,
							coretypes.NewAttribute(types.AttributeKeyClientID, path.EndpointA.ClientID),
							coretypes.NewAttribute(types.AttributeKeyClientType, exported.Mock),
						),
					}, events)
					return
				}

				header := clientMsg.(*ibcmock.Header)
				latest := path.EndpointA.GetClientState().GetLatestHeight()
				suite.Require().True(latest.GTE(before))
				suite.Require().True(latest.GTE(header.Height))

				consensusState, found := suite.chainA.GetConsensusState(path.EndpointA.ClientID, header.Height)
				suite.Require().True(found)
				suite.Require().Equal(header.Timestamp, consensusState.GetTimestamp())

				_, err = suite.chainA.Ctx.ClientUpdateTime(path.EndpointA.ClientID, header.Height)
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

// TestUpdateClientDuplicateHeader checks that resubmitting the latest header
// neither writes state nor emits events.
func (suite *HandlerTestSuite) TestUpdateClientDuplicateHeader() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	path.SetupClients()

	clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
	consensusState, found := suite.chainA.GetConsensusState(path.EndpointA.ClientID, clientState.LatestHeight)
	suite.Require().True(found)

	processedTime, err := suite.chainA.Ctx.ClientUpdateTime(path.EndpointA.ClientID, clientState.LatestHeight)
	suite.Require().NoError(err)

	header := ibcmock.NewHeader(clientState.LatestHeight, consensusState.GetTimestamp())
	events, err := suite.chainA.SendMsg(types.NewMsgUpdateClient(
		path.EndpointA.ClientID, suite.chainA.Ctx.Codec().MustPackClientMessage(header),
	))
	suite.Require().NoError(err)
	suite.Require().Empty(events)

	// the processed time of the stored consensus state is kept
	updated, err := suite.chainA.Ctx.ClientUpdateTime(path.EndpointA.ClientID, clientState.LatestHeight)
	suite.Require().NoError(err)
	suite.Require().Equal(processedTime, updated)
}

func (suite *HandlerTestSuite) TestSubmitMisbehaviour() {
	var (
		path      *ibctesting.Path
		clientMsg exported.ClientMessage
	)

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"success: conflicting header", func() {
			clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
			clientMsg = ibcmock.NewHeader(clientState.LatestHeight, 42)
		}, nil},
		{"header is not misbehaviour", func() {
			suite.chainB.NextBlock()
			header, err := suite.chainB.Ctx.HostHeader(suite.chainB.LatestHeight())
			suite.Require().NoError(err)
			clientMsg = header
		}, types.ErrInvalidMisbehaviour},
		{"headers commit to the same timestamp", func() {
			clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
			clientMsg = ibcmock.NewMisbehaviour(
				ibcmock.NewHeader(clientState.LatestHeight, 1),
				ibcmock.NewHeader(clientState.LatestHeight, 1),
			)
		}, types.ErrInvalidMisbehaviour},
		{"headers at different heights", func() {
			clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
			clientMsg = ibcmock.NewMisbehaviour(
				ibcmock.NewHeader(clientState.LatestHeight, 1),
				ibcmock.NewHeader(clientState.LatestHeight.Increment().(types.Height), 2),
			)
		}, types.ErrInvalidMisbehaviour},
		{"client is already frozen", func() {
			clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
			clientState.FrozenHeight = types.NewHeight(0, 1)
			path.EndpointA.SetClientState(clientState)
		}, types.ErrClientFrozen},
		{"client not found", func() {
			path.EndpointA.ClientID = types.FormatClientIdentifier(exported.Mock, 10)
		}, types.ErrClientNotFound},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.SetupClients()

			clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
			clientMsg = ibcmock.NewMisbehaviour(
				ibcmock.NewHeader(clientState.LatestHeight, 1),
				ibcmock.NewHeader(clientState.LatestHeight, 2),
			)

			tc.malleate()

			msg := types.NewMsgSubmitMisbehaviour(path.EndpointA.ClientID, suite.chainA.Ctx.Codec().MustPackClientMessage(clientMsg))
			events, err := suite.chainA.SendMsg(msg)

			if tc.expErr == nil {
				suite.Require().NoError(err)

				status, err := suite.chainA.Ctx.ClientStatus(path.EndpointA.ClientID)
				suite.Require().NoError(err)
				suite.Require().Equal(exported.Frozen, status)

				ibctesting.AssertEvents(&suite.Suite, []coretypes.Event{
					coretypes.NewEvent(
						types.EventTypeSubmitMisbehaviour,
						coretypes.NewAttribute(types.AttributeKeyClientID, path.EndpointA.ClientID),
						coretypes.NewAttribute(types.AttributeKeyClientType, exported.Mock),
					),
				}, events)

				// a frozen client accepts no further updates
				suite.chainB.NextBlock()
				err = path.EndpointA.UpdateClient()
				suite.Require().ErrorIs(err, types.ErrClientFrozen)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

// TestConsensusStateHistory checks that the consensus heights of a client
// only grow and that every one of them records when it was processed.
func (suite *HandlerTestSuite) TestConsensusStateHistory() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	path.SetupClients()

	for i := 0; i < 4; i++ {
		suite.coordinator.CommitBlock(suite.chainB)
		suite.Require().NoError(path.EndpointA.UpdateClient())
	}

	heights, err := suite.chainA.Ctx.ConsensusStateHeights(path.EndpointA.ClientID)
	suite.Require().NoError(err)
	suite.Require().Len(heights, 5)

	var lastProcessed uint64
	for i, height := range heights {
		if i > 0 {
			suite.Require().True(height.GT(heights[i-1]))
		}

		processed, err := suite.chainA.Ctx.ClientUpdateTime(path.EndpointA.ClientID, height)
		suite.Require().NoError(err)
		suite.Require().GreaterOrEqual(processed, lastProcessed)
		lastProcessed = processed
	}

	suite.Require().Equal(heights[len(heights)-1], path.EndpointA.GetClientState().GetLatestHeight())
}
