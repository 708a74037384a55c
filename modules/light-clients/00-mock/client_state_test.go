package mock_test

import (
	"math"
	"testing"
	"time"

	testifysuite "github.com/stretchr/testify/suite"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	commitmenttypes "github.com/cosmos/ibc-core/modules/core/23-commitment/types"
	host "github.com/cosmos/ibc-core/modules/core/24-host"
	"github.com/cosmos/ibc-core/modules/core/exported"
	ibcmock "github.com/cosmos/ibc-core/modules/light-clients/00-mock"
	ibctesting "github.com/cosmos/ibc-core/testing"
)

const clientID = "00-mock-0"

type MockClientTestSuite struct {
	testifysuite.Suite

	ctx    *ibctesting.MockContext
	height clienttypes.Height
}

func TestMockClientTestSuite(t *testing.T) {
	testifysuite.Run(t, new(MockClientTestSuite))
}

func (suite *MockClientTestSuite) SetupTest() {
	suite.ctx = ibctesting.NewMockContext("testchain1-1", 5, 10)
	suite.height = clienttypes.NewHeight(1, 20)
	suite.ctx.WithMockClient(clientID, suite.height)
}

func (suite *MockClientTestSuite) clientState() *ibcmock.ClientState {
	clientState, err := suite.ctx.ClientState(clientID)
	suite.Require().NoError(err)

	mockClientState, ok := clientState.(*ibcmock.ClientState)
	suite.Require().True(ok)
	return mockClientState
}

func (suite *MockClientTestSuite) TestStatus() {
	var clientState *ibcmock.ClientState

	testCases := []struct {
		name      string
		malleate  func()
		expStatus exported.Status
	}{
		{"active without trusting period", func() {}, exported.Active},
		{"frozen", func() { clientState.FrozenHeight = clienttypes.NewHeight(0, 1) }, exported.Frozen},
		{"active within trusting period", func() { clientState.TrustingPeriod = uint64(time.Hour) }, exported.Active},
		{
			"expired", func() {
				clientState.TrustingPeriod = uint64(time.Second)
				suite.ctx.AdvanceHostChainHeight()
			}, exported.Expired,
		},
		{
			"active with the largest trusting period", func() {
				clientState.TrustingPeriod = math.MaxUint64
				suite.ctx.AdvanceHostChainHeight()
			}, exported.Active,
		},
		{
			"unknown without consensus state", func() {
				clientState.TrustingPeriod = uint64(time.Second)
				clientState.LatestHeight = clienttypes.NewHeight(1, 100)
			}, exported.Unknown,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			clientState = ibcmock.NewClientState(suite.height, 0)

			tc.malleate()

			suite.Require().Equal(tc.expStatus, clientState.Status(suite.ctx, clientID))
		})
	}
}

func (suite *MockClientTestSuite) TestVerifyClientMessage() {
	var clientMsg exported.ClientMessage

	testCases := []struct {
		name     string
		malleate func()
		expPass  bool
	}{
		{"header above latest height", func() {
			clientMsg = ibcmock.NewHeader(clienttypes.NewHeight(1, 21), 1)
		}, true},
		{"header at stored height", func() {
			clientMsg = ibcmock.NewHeader(suite.height, 1)
		}, true},
		{"header below latest height without consensus state", func() {
			clientMsg = ibcmock.NewHeader(clienttypes.NewHeight(1, 19), 1)
		}, false},
		{"header with zero timestamp", func() {
			clientMsg = ibcmock.NewHeader(clienttypes.NewHeight(1, 21), 0)
		}, false},
		{"valid misbehaviour", func() {
			clientMsg = ibcmock.NewMisbehaviour(ibcmock.NewHeader(suite.height, 1), ibcmock.NewHeader(suite.height, 2))
		}, true},
		{"misbehaviour with equal timestamps", func() {
			clientMsg = ibcmock.NewMisbehaviour(ibcmock.NewHeader(suite.height, 1), ibcmock.NewHeader(suite.height, 1))
		}, false},
		{"misbehaviour at different heights", func() {
			clientMsg = ibcmock.NewMisbehaviour(ibcmock.NewHeader(suite.height, 1), ibcmock.NewHeader(suite.height.Increment().(clienttypes.Height), 2))
		}, false},
		{"misbehaviour with nil header", func() {
			clientMsg = ibcmock.NewMisbehaviour(nil, ibcmock.NewHeader(suite.height, 2))
		}, false},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()

			tc.malleate()

			err := suite.clientState().VerifyClientMessage(suite.ctx, clientID, clientMsg)
			if tc.expPass {
				suite.Require().NoError(err)
			} else {
				suite.Require().Error(err)
			}
		})
	}
}

func (suite *MockClientTestSuite) TestCheckForMisbehaviour() {
	latestTimestamp := suite.ctx.LatestTimestamp()

	testCases := []struct {
		name            string
		clientMsg       exported.ClientMessage
		expMisbehaviour bool
	}{
		{"misbehaviour evidence", ibcmock.NewMisbehaviour(ibcmock.NewHeader(suite.height, 1), ibcmock.NewHeader(suite.height, 2)), true},
		{"duplicate header", ibcmock.NewHeader(suite.height, latestTimestamp), false},
		{"conflicting header at stored height", ibcmock.NewHeader(suite.height, latestTimestamp+1), true},
		{"newer header advancing time", ibcmock.NewHeader(clienttypes.NewHeight(1, 21), latestTimestamp+1), false},
		{"newer header not advancing time", ibcmock.NewHeader(clienttypes.NewHeight(1, 21), latestTimestamp), true},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			misbehaviour := suite.clientState().CheckForMisbehaviour(suite.ctx, clientID, tc.clientMsg)
			suite.Require().Equal(tc.expMisbehaviour, misbehaviour)
		})
	}
}

func (suite *MockClientTestSuite) TestUpdateState() {
	newHeight := clienttypes.NewHeight(1, 25)
	header := ibcmock.NewHeader(newHeight, suite.ctx.LatestTimestamp()+1)

	heights, err := suite.clientState().UpdateState(suite.ctx, clientID, header)
	suite.Require().NoError(err)
	suite.Require().Equal([]exported.Height{newHeight}, heights)
	suite.Require().Equal(newHeight, suite.clientState().GetLatestHeight())

	consensusState, err := suite.ctx.ConsensusState(clientID, newHeight)
	suite.Require().NoError(err)
	suite.Require().Equal(header.Timestamp, consensusState.GetTimestamp())

	// a header for a stored height is a no-op
	heights, err = suite.clientState().UpdateState(suite.ctx, clientID, header)
	suite.Require().NoError(err)
	suite.Require().Empty(heights)

	// an older header fills the gap without lowering the latest height
	older := clienttypes.NewHeight(1, 22)
	heights, err = suite.clientState().UpdateState(suite.ctx, clientID, ibcmock.NewHeader(older, header.Timestamp-1))
	suite.Require().NoError(err)
	suite.Require().Equal([]exported.Height{older}, heights)
	suite.Require().Equal(newHeight, suite.clientState().GetLatestHeight())

	_, err = suite.clientState().UpdateState(suite.ctx, clientID, ibcmock.NewMisbehaviour(header, header))
	suite.Require().ErrorIs(err, ibcmock.ErrInvalidClientMsg)
}

func (suite *MockClientTestSuite) TestUpdateStateOnMisbehaviour() {
	err := suite.clientState().UpdateStateOnMisbehaviour(suite.ctx, clientID, nil)
	suite.Require().NoError(err)

	status, err := suite.ctx.ClientStatus(clientID)
	suite.Require().NoError(err)
	suite.Require().Equal(exported.Frozen, status)
}

func (suite *MockClientTestSuite) TestVerifyMembership() {
	var (
		proofHeight exported.Height
		proof       []byte
		delayTime   uint64
	)

	prefix := commitmenttypes.NewMerklePrefix(commitmenttypes.DefaultPrefix)
	merklePath, err := commitmenttypes.ApplyPrefix(prefix, commitmenttypes.NewMerklePath(host.ConnectionPath("connection-0")))
	suite.Require().NoError(err)
	path := merklePath.Bytes()
	value := []byte("value")

	testCases := []struct {
		name     string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"proof height above latest height", func() {
			proofHeight = suite.height.Increment()
		}, clienttypes.ErrFailedMembershipVerification},
		{"no consensus state at proof height", func() {
			proofHeight = clienttypes.NewHeight(1, 19)
		}, clienttypes.ErrFailedMembershipVerification},
		{"invalid proof", func() {
			proof = ibcmock.CommitmentProof(path, []byte("other value"))
		}, clienttypes.ErrFailedMembershipVerification},
		{"delay period not passed", func() {
			delayTime = uint64(time.Hour)
		}, clienttypes.ErrFailedMembershipVerification},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			proofHeight = suite.height
			proof = ibcmock.CommitmentProof(path, value)
			delayTime = 0

			tc.malleate()

			err := suite.clientState().VerifyMembership(suite.ctx, clientID, proofHeight, delayTime, 0, proof, path, value)
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *MockClientTestSuite) TestVerifyNonMembership() {
	path := []byte("/ibc/receipts/ports/mock/channels/channel-0/sequences/1")

	err := suite.clientState().VerifyNonMembership(suite.ctx, clientID, suite.height, 0, 0, ibcmock.AbsenceProof(path), path)
	suite.Require().NoError(err)

	// a membership proof does not prove absence
	err = suite.clientState().VerifyNonMembership(suite.ctx, clientID, suite.height, 0, 0, ibcmock.CommitmentProof(path, []byte{1}), path)
	suite.Require().ErrorIs(err, clienttypes.ErrFailedNonMembershipVerification)

	// the delay block period counts host blocks since the consensus state was processed
	err = suite.clientState().VerifyNonMembership(suite.ctx, clientID, suite.height, 0, 2, ibcmock.AbsenceProof(path), path)
	suite.Require().ErrorIs(err, clienttypes.ErrFailedNonMembershipVerification)

	suite.ctx.AdvanceHostChainHeight()
	suite.ctx.AdvanceHostChainHeight()

	err = suite.clientState().VerifyNonMembership(suite.ctx, clientID, suite.height, 0, 2, ibcmock.AbsenceProof(path), path)
	suite.Require().NoError(err)
}

func (suite *MockClientTestSuite) TestInitialize() {
	clientState := ibcmock.NewClientState(clienttypes.NewHeight(1, 3), 0)

	err := clientState.Initialize(suite.ctx, "00-mock-1", ibcmock.NewConsensusState(1))
	suite.Require().NoError(err)

	_, err = suite.ctx.ConsensusState("00-mock-1", clientState.LatestHeight)
	suite.Require().NoError(err)

	suite.Require().Error(clientState.VerifyInitialState(nil))
	suite.Require().Error(ibcmock.NewClientState(clienttypes.ZeroHeight(), 0).Validate())
}
