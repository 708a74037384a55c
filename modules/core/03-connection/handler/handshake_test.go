package handler_test

import (
	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/03-connection/types"
	host "github.com/cosmos/ibc-core/modules/core/24-host"
	ibcmock "github.com/cosmos/ibc-core/modules/light-clients/00-mock"
	ibctesting "github.com/cosmos/ibc-core/testing"
)

// TestConnOpenInit tests the OpenInit handshake call for connections.
func (suite *HandlerTestSuite) TestConnOpenInit() {
	var path *ibctesting.Path

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"success: no version proposed", func() {
			path.EndpointA.ConnectionConfig.Version = nil
		}, nil},
		{"version is not supported", func() {
			path.EndpointA.ConnectionConfig.Version = types.NewVersion("2", []string{"ORDER_ORDERED"})
		}, types.ErrInvalidVersion},
		{"feature is not supported", func() {
			path.EndpointA.ConnectionConfig.Version = types.NewVersion(types.DefaultIBCVersionIdentifier, []string{"ORDER_DAG"})
		}, types.ErrInvalidVersion},
		{"client does not exist", func() {
			path.EndpointA.ClientID = ibctesting.InvalidID
		}, clienttypes.ErrClientNotFound},
		{"client is frozen", func() {
			clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
			clientState.FrozenHeight = clienttypes.NewHeight(0, 1)
			path.EndpointA.SetClientState(clientState)
		}, clienttypes.ErrClientFrozen},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.SetupClients()

			tc.malleate()

			err := path.EndpointA.ConnOpenInit()

			if tc.expErr == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(types.FormatConnectionIdentifier(0), path.EndpointA.ConnectionID)

				connection := path.EndpointA.GetConnection()
				suite.Require().Equal(types.INIT, connection.State)
				suite.Require().Equal(path.EndpointA.ClientID, connection.ClientId)
				suite.Require().Equal(path.EndpointB.ClientID, connection.Counterparty.ClientId)
				suite.Require().Empty(connection.Counterparty.ConnectionId)

				expVersions := types.GetCompatibleVersions()
				if version := path.EndpointA.ConnectionConfig.Version; version != nil {
					expVersions = []*types.Version{version}
				}
				suite.Require().Equal(expVersions, connection.Versions)

				connections, err := suite.chainA.Ctx.ClientConnections(path.EndpointA.ClientID)
				suite.Require().NoError(err)
				suite.Require().Equal([]string{path.EndpointA.ConnectionID}, connections)

				counter, err := suite.chainA.Ctx.ConnectionCounter()
				suite.Require().NoError(err)
				suite.Require().Equal(uint64(1), counter)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)

				counter, err := suite.chainA.Ctx.ConnectionCounter()
				suite.Require().NoError(err)
				suite.Require().Zero(counter)
			}
		})
	}
}

// TestConnOpenTry tests the OpenTry handshake call for connections.
func (suite *HandlerTestSuite) TestConnOpenTry() {
	var path *ibctesting.Path

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"counterparty connection is not in INIT", func() {
			connection := path.EndpointA.GetConnection()
			connection.State = types.OPEN
			path.EndpointA.SetConnection(connection)
		}, clienttypes.ErrFailedMembershipVerification},
		{"delay period differs from the counterparty connection", func() {
			path.EndpointB.ConnectionConfig.DelayPeriod = 100
		}, clienttypes.ErrFailedMembershipVerification},
		{"no compatible version", func() {
			path.EndpointB.ConnectionConfig.Version = types.NewVersion("2", []string{"ORDER_ORDERED"})
		}, types.ErrVersionNegotiationFailed},
		{"connection identifier already in use", func() {
			connection := types.NewConnectionEnd(
				types.INIT, path.EndpointB.ClientID, types.NewCounterparty(path.EndpointA.ClientID, "", suite.chainA.Ctx.CommitmentPrefix()),
				types.GetCompatibleVersions(), 0,
			)
			path.EndpointB.ConnectionID = types.FormatConnectionIdentifier(0)
			path.EndpointB.SetConnection(connection)
		}, types.ErrConnectionExists},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.SetupClients()
			suite.Require().NoError(path.EndpointA.ConnOpenInit())

			tc.malleate()

			err := path.EndpointB.ConnOpenTry()

			if tc.expErr == nil {
				suite.Require().NoError(err)

				connection := path.EndpointB.GetConnection()
				suite.Require().Equal(types.TRYOPEN, connection.State)
				suite.Require().Equal(path.EndpointA.ConnectionID, connection.Counterparty.ConnectionId)
				suite.Require().Len(connection.Versions, 1)

				connections, err := suite.chainB.Ctx.ClientConnections(path.EndpointB.ClientID)
				suite.Require().NoError(err)
				suite.Require().Contains(connections, path.EndpointB.ConnectionID)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

// TestConnOpenAck tests the OpenAck handshake call for connections.
func (suite *HandlerTestSuite) TestConnOpenAck() {
	var path *ibctesting.Path

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"connection not found", func() {
			path.EndpointA.ConnectionID = types.FormatConnectionIdentifier(10)
		}, types.ErrConnectionNotFound},
		{"connection is not in INIT", func() {
			connection := path.EndpointA.GetConnection()
			connection.State = types.TRYOPEN
			path.EndpointA.SetConnection(connection)
		}, types.ErrInvalidConnectionState},
		{"version was not proposed on INIT", func() {
			path.EndpointA.ConnectionConfig.Version = types.NewVersion(types.DefaultIBCVersionIdentifier, []string{"ORDER_DAG"})
		}, types.ErrInvalidConnectionState},
		{"counterparty connection is not in TRYOPEN", func() {
			connection := path.EndpointB.GetConnection()
			connection.State = types.INIT
			path.EndpointB.SetConnection(connection)
		}, clienttypes.ErrFailedMembershipVerification},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.SetupClients()
			suite.Require().NoError(path.EndpointA.ConnOpenInit())
			suite.Require().NoError(path.EndpointB.ConnOpenTry())

			tc.malleate()

			err := path.EndpointA.ConnOpenAck()

			if tc.expErr == nil {
				suite.Require().NoError(err)

				connection := path.EndpointA.GetConnection()
				suite.Require().Equal(types.OPEN, connection.State)
				suite.Require().Equal(path.EndpointB.ConnectionID, connection.Counterparty.ConnectionId)
				suite.Require().Equal([]*types.Version{path.EndpointA.ConnectionConfig.Version}, connection.Versions)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

// TestConnOpenConfirm tests the OpenConfirm handshake call for connections.
func (suite *HandlerTestSuite) TestConnOpenConfirm() {
	var path *ibctesting.Path

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"connection not found", func() {
			path.EndpointB.ConnectionID = types.FormatConnectionIdentifier(10)
		}, types.ErrConnectionNotFound},
		{"connection is not in TRYOPEN", func() {
			connection := path.EndpointB.GetConnection()
			connection.State = types.OPEN
			path.EndpointB.SetConnection(connection)
		}, types.ErrInvalidConnectionState},
		{"counterparty connection is not OPEN", func() {
			connection := path.EndpointA.GetConnection()
			connection.State = types.INIT
			path.EndpointA.SetConnection(connection)
		}, clienttypes.ErrFailedMembershipVerification},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.SetupClients()
			suite.Require().NoError(path.EndpointA.ConnOpenInit())
			suite.Require().NoError(path.EndpointB.ConnOpenTry())
			suite.Require().NoError(path.EndpointA.ConnOpenAck())

			tc.malleate()

			err := path.EndpointB.ConnOpenConfirm()

			if tc.expErr == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(types.OPEN, path.EndpointB.GetConnection().State)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

// TestCrossingHellos opens a connection whose two ends were both initialised
// before either chain processed an OpenTry.
func (suite *HandlerTestSuite) TestCrossingHellos() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	path.SetupClients()

	suite.Require().NoError(path.EndpointA.ConnOpenInit())
	suite.Require().NoError(path.EndpointB.ConnOpenInit())
	suite.Require().NoError(path.EndpointB.UpdateClient())

	proofInit, proofHeight := path.EndpointB.QueryProof(host.ConnectionPath(path.EndpointA.ConnectionID))
	msg := types.NewMsgConnectionOpenTry(
		path.EndpointB.ClientID, path.EndpointA.ConnectionID, path.EndpointA.ClientID,
		suite.chainA.Ctx.CommitmentPrefix(), []*types.Version{ibctesting.ConnectionVersion},
		0, proofInit, proofHeight,
	)
	msg.PreviousConnectionId = path.EndpointB.ConnectionID

	_, err := suite.chainB.SendMsg(msg)
	suite.Require().NoError(err)

	connection := path.EndpointB.GetConnection()
	suite.Require().Equal(types.OPEN, connection.State)
	suite.Require().Equal(path.EndpointA.ConnectionID, connection.Counterparty.ConnectionId)

	// the previous connection is reused, no new identifier is allocated
	counter, err := suite.chainB.Ctx.ConnectionCounter()
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(1), counter)

	// a previous connection that is not in INIT cannot be reused
	_, err = suite.chainB.SendMsg(msg)
	suite.Require().ErrorIs(err, types.ErrInvalidConnectionState)
}
