package handler_test

import (
	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	"github.com/cosmos/ibc-core/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-core/modules/core/05-port/types"
	ibctesting "github.com/cosmos/ibc-core/testing"
	"github.com/cosmos/ibc-core/testing/mock"
)

// TestChanOpenInit tests the OpenInit handshake call for channels.
func (suite *HandlerTestSuite) TestChanOpenInit() {
	var path *ibctesting.Path

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {
			path.SetupConnections()
		}, nil},
		{"success: ORDERED channel", func() {
			path.SetupConnections()
			path.SetChannelOrdered()
		}, nil},
		{"connection does not exist", func() {
			path.SetupConnections()
			path.EndpointA.ConnectionID = ibctesting.InvalidID
		}, connectiontypes.ErrConnectionNotFound},
		{"connection is not OPEN", func() {
			path.SetupClients()
			suite.Require().NoError(path.EndpointA.ConnOpenInit())
		}, connectiontypes.ErrInvalidConnectionState},
		{"connection version does not support the ordering", func() {
			path.SetupConnections()
			path.SetChannelOrdered()

			connection := path.EndpointA.GetConnection()
			connection.Versions = []*connectiontypes.Version{
				connectiontypes.NewVersion(connectiontypes.DefaultIBCVersionIdentifier, []string{types.UNORDERED.String()}),
			}
			path.EndpointA.SetConnection(connection)
		}, connectiontypes.ErrInvalidVersion},
		{"port is not bound", func() {
			path.SetupConnections()
			path.EndpointA.ChannelConfig.PortID = "unbound"
		}, porttypes.ErrPortNotFound},
		{"application rejects the channel", func() {
			path.SetupConnections()
			suite.chainA.App.OnChanOpenInit = func(types.Order, []string, string, string, types.Counterparty, string) (string, error) {
				return "", mock.MockApplicationCallbackError
			}
		}, porttypes.ErrModuleCallback},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)

			tc.malleate()

			err := path.EndpointA.ChanOpenInit()

			if tc.expErr == nil {
				suite.Require().NoError(err)

				channel := path.EndpointA.GetChannel()
				suite.Require().Equal(types.INIT, channel.State)
				suite.Require().Equal(path.EndpointA.ChannelConfig.Order, channel.Ordering)
				suite.Require().Empty(channel.Counterparty.ChannelId)

				for _, sequence := range []func(string, string) (uint64, error){
					suite.chainA.Ctx.GetNextSequenceSend,
					suite.chainA.Ctx.GetNextSequenceRecv,
					suite.chainA.Ctx.GetNextSequenceAck,
				} {
					next, err := sequence(path.EndpointA.ChannelConfig.PortID, path.EndpointA.ChannelID)
					suite.Require().NoError(err)
					suite.Require().Equal(uint64(1), next)
				}
			} else {
				suite.Require().ErrorIs(err, tc.expErr)

				channels, err := suite.chainA.Ctx.ChannelEnds()
				suite.Require().NoError(err)
				suite.Require().Empty(channels)
			}
		})
	}
}

// TestChanOpenTry tests the OpenTry handshake call for channels.
func (suite *HandlerTestSuite) TestChanOpenTry() {
	var path *ibctesting.Path

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"counterparty channel is not in INIT", func() {
			path.EndpointA.SetChannelState(types.OPEN)
		}, clienttypes.ErrFailedMembershipVerification},
		{"ordering differs from the counterparty channel", func() {
			path.EndpointB.ChannelConfig.Order = types.ORDERED
		}, clienttypes.ErrFailedMembershipVerification},
		{"connection is not OPEN", func() {
			connection := path.EndpointB.GetConnection()
			connection.State = connectiontypes.TRYOPEN
			path.EndpointB.SetConnection(connection)
		}, connectiontypes.ErrInvalidConnectionState},
		{"application rejects the counterparty version", func() {
			suite.chainB.App.OnChanOpenTry = func(types.Order, []string, string, string, types.Counterparty, string) (string, error) {
				return "", mock.MockApplicationCallbackError
			}
		}, mock.MockApplicationCallbackError},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.SetupConnections()
			suite.Require().NoError(path.EndpointA.ChanOpenInit())

			tc.malleate()

			err := path.EndpointB.ChanOpenTry()

			if tc.expErr == nil {
				suite.Require().NoError(err)

				channel := path.EndpointB.GetChannel()
				suite.Require().Equal(types.TRYOPEN, channel.State)
				suite.Require().Equal(path.EndpointA.ChannelID, channel.Counterparty.ChannelId)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

// TestChanOpenAck tests the OpenAck handshake call for channels.
func (suite *HandlerTestSuite) TestChanOpenAck() {
	var path *ibctesting.Path

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"channel is not in INIT", func() {
			path.EndpointA.SetChannelState(types.TRYOPEN)
		}, types.ErrInvalidChannelState},
		{"channel does not exist", func() {
			path.EndpointA.ChannelID = types.FormatChannelIdentifier(100)
		}, types.ErrChannelNotFound},
		{"application rejects the counterparty version", func() {
			suite.chainA.App.OnChanOpenAck = func(string, string, string) error {
				return mock.MockApplicationCallbackError
			}
		}, mock.MockApplicationCallbackError},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.SetupConnections()
			suite.Require().NoError(path.EndpointA.ChanOpenInit())
			suite.Require().NoError(path.EndpointB.ChanOpenTry())

			tc.malleate()

			err := path.EndpointA.ChanOpenAck()

			if tc.expErr == nil {
				suite.Require().NoError(err)

				channel := path.EndpointA.GetChannel()
				suite.Require().Equal(types.OPEN, channel.State)
				suite.Require().Equal(path.EndpointB.ChannelID, channel.Counterparty.ChannelId)
				suite.Require().Equal(path.EndpointB.ChannelConfig.Version, channel.Version)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

// TestChanOpenConfirm tests the OpenConfirm handshake call for channels.
func (suite *HandlerTestSuite) TestChanOpenConfirm() {
	var path *ibctesting.Path

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"channel is not in TRYOPEN", func() {
			path.EndpointB.SetChannelState(types.INIT)
		}, types.ErrInvalidChannelState},
		{"counterparty channel is not OPEN", func() {
			path.EndpointA.SetChannelState(types.INIT)
		}, clienttypes.ErrFailedMembershipVerification},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.SetupConnections()
			suite.Require().NoError(path.EndpointA.ChanOpenInit())
			suite.Require().NoError(path.EndpointB.ChanOpenTry())
			suite.Require().NoError(path.EndpointA.ChanOpenAck())

			tc.malleate()

			err := path.EndpointB.ChanOpenConfirm()

			if tc.expErr == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(types.OPEN, path.EndpointB.GetChannel().State)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

// TestChanCloseInit tests the closing of a channel end by its own chain.
func (suite *HandlerTestSuite) TestChanCloseInit() {
	var path *ibctesting.Path

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"channel is already closed", func() {
			path.EndpointA.SetChannelState(types.CLOSED)
		}, types.ErrInvalidChannelState},
		{"channel does not exist", func() {
			path.EndpointA.ChannelID = types.FormatChannelIdentifier(100)
		}, types.ErrChannelNotFound},
		{"application vetoes the closure", func() {
			suite.chainA.App.OnChanCloseInit = func(string, string) error {
				return mock.MockApplicationCallbackError
			}
		}, porttypes.ErrModuleCallback},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.Setup()

			tc.malleate()

			err := path.EndpointA.ChanCloseInit()

			if tc.expErr == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(types.CLOSED, path.EndpointA.GetChannel().State)

				// a closed channel end rejects new packets
				_, err = path.EndpointA.SendPacket(suite.chainB.GetTimeoutHeight(), disabledTimeoutTimestamp, ibctesting.MockPacketData)
				suite.Require().ErrorIs(err, types.ErrInvalidChannelState)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

// TestChanCloseConfirm tests the closing of a channel end after the
// counterparty closed its end.
func (suite *HandlerTestSuite) TestChanCloseConfirm() {
	var path *ibctesting.Path

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {
			suite.Require().NoError(path.EndpointA.ChanCloseInit())
		}, nil},
		{"counterparty channel is still OPEN", func() {}, clienttypes.ErrFailedMembershipVerification},
		{"channel is already closed", func() {
			suite.Require().NoError(path.EndpointA.ChanCloseInit())
			path.EndpointB.SetChannelState(types.CLOSED)
		}, types.ErrInvalidChannelState},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.Setup()

			tc.malleate()

			err := path.EndpointB.ChanCloseConfirm()

			if tc.expErr == nil {
				suite.Require().NoError(err)
				suite.Require().Equal(types.CLOSED, path.EndpointB.GetChannel().State)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

// TestConnectionChannels checks the index of channels by connection kept by
// the host.
func (suite *HandlerTestSuite) TestConnectionChannels() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	path.Setup()

	second := ibctesting.NewPath(suite.chainA, suite.chainB)
	second.EndpointA.ClientID = path.EndpointA.ClientID
	second.EndpointB.ClientID = path.EndpointB.ClientID
	second.EndpointA.ConnectionID = path.EndpointA.ConnectionID
	second.EndpointB.ConnectionID = path.EndpointB.ConnectionID
	suite.coordinator.CreateChannels(second)

	channels, err := suite.chainA.Ctx.ConnectionChannels(path.EndpointA.ConnectionID)
	suite.Require().NoError(err)
	suite.Require().Len(channels, 2)

	channelIDs := []string{channels[0].ChannelId, channels[1].ChannelId}
	suite.Require().ElementsMatch([]string{path.EndpointA.ChannelID, second.EndpointA.ChannelID}, channelIDs)

	channels, err = suite.chainA.Ctx.ConnectionChannels(ibctesting.InvalidID)
	suite.Require().NoError(err)
	suite.Require().Empty(channels)
}
