package handler_test

import (
	errorsmod "cosmossdk.io/errors"

	ibc "github.com/cosmos/ibc-core/modules/core"
	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	"github.com/cosmos/ibc-core/modules/core/04-channel/types"
	porttypes "github.com/cosmos/ibc-core/modules/core/05-port/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
	coretypes "github.com/cosmos/ibc-core/modules/core/types"
	ibcmock "github.com/cosmos/ibc-core/modules/light-clients/00-mock"
	ibctesting "github.com/cosmos/ibc-core/testing"
	"github.com/cosmos/ibc-core/testing/mock"
)

var disabledTimeoutTimestamp = uint64(0)

// bytelessAcknowledgement is a successful acknowledgement with no encoding.
type bytelessAcknowledgement struct{}

func (bytelessAcknowledgement) Success() bool { return true }

func (bytelessAcknowledgement) Acknowledgement() []byte { return nil }

// TestSendPacket tests SendPacket from chainA to chainB
func (suite *HandlerTestSuite) TestSendPacket() {
	var (
		path   *ibctesting.Path
		packet types.Packet
	)

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success: UNORDERED channel", func() {
			path.Setup()
		}, nil},
		{"success: ORDERED channel", func() {
			path.SetChannelOrdered()
			path.Setup()
		}, nil},
		{"success: timeout timestamp only", func() {
			path.Setup()
			packet.TimeoutHeight = clienttypes.ZeroHeight()
			packet.TimeoutTimestamp = suite.chainB.Ctx.LatestTimestamp() + uint64(ibctesting.DefaultBlockTime)*100
		}, nil},
		{"packet basic validation failed, empty packet data", func() {
			path.Setup()
			packet.Data = nil
		}, types.ErrInvalidPacket},
		{"channel not found", func() {
			path.Setup()
			packet.SourceChannel = ibctesting.InvalidID
		}, types.ErrChannelNotFound},
		{"channel is closed", func() {
			path.Setup()
			path.EndpointA.SetChannelState(types.CLOSED)
		}, types.ErrInvalidChannelState},
		{"packet destination port does not match counterparty port", func() {
			path.Setup()
			packet.DestinationPort = ibctesting.InvalidID
		}, types.ErrInvalidPacket},
		{"packet destination channel does not match counterparty channel", func() {
			path.Setup()
			packet.DestinationChannel = ibctesting.InvalidID
		}, types.ErrInvalidPacket},
		{"connection not found", func() {
			path.Setup()
			channel := path.EndpointA.GetChannel()
			channel.ConnectionHops[0] = ibctesting.InvalidID
			path.EndpointA.SetChannel(channel)
		}, connectiontypes.ErrConnectionNotFound},
		{"client is frozen", func() {
			path.Setup()
			clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
			clientState.FrozenHeight = clienttypes.NewHeight(0, 1)
			path.EndpointA.SetClientState(clientState)
		}, clienttypes.ErrClientNotActive},
		{"timeout height passed on the counterparty", func() {
			path.Setup()
			clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
			packet.TimeoutHeight = clientState.LatestHeight
		}, types.ErrTimeoutElapsed},
		{"timeout timestamp passed on the counterparty", func() {
			path.Setup()
			clientState := path.EndpointA.GetClientState().(*ibcmock.ClientState)
			consensusState, found := suite.chainA.GetConsensusState(path.EndpointA.ClientID, clientState.LatestHeight)
			suite.Require().True(found)

			packet.TimeoutHeight = clienttypes.ZeroHeight()
			packet.TimeoutTimestamp = consensusState.GetTimestamp()
		}, types.ErrTimeoutElapsed},
		{"sequence is not the next send sequence", func() {
			path.Setup()
			packet.Sequence = 5
		}, types.ErrPacketSequenceOutOfOrder},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)

			// setup allocates the first channel identifier on both chains
			path.EndpointA.ChannelID = "channel-0"
			path.EndpointB.ChannelID = "channel-0"
			packet = newPacket(path, 1, suite.chainB.GetTimeoutHeight(), disabledTimeoutTimestamp)

			tc.malleate()

			err := ibc.SendPacket(suite.chainA.Ctx, packet)

			if tc.expErr == nil {
				suite.Require().NoError(err)

				commitment, err := suite.chainA.Ctx.GetPacketCommitment(packet.SourcePort, packet.SourceChannel, packet.Sequence)
				suite.Require().NoError(err)
				suite.Require().Equal(types.CommitPacket(packet), commitment)

				nextSequenceSend, err := suite.chainA.Ctx.GetNextSequenceSend(packet.SourcePort, packet.SourceChannel)
				suite.Require().NoError(err)
				suite.Require().Equal(packet.Sequence+1, nextSequenceSend)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)

				_, err := suite.chainA.Ctx.GetPacketCommitment(packet.SourcePort, packet.SourceChannel, packet.Sequence)
				suite.Require().Error(err)
			}
		})
	}
}

// TestRecvPacket tests RecvPacket on chainB. Setup is done by sending the
// packet from chainA, which updates the client of chainA on chainB.
func (suite *HandlerTestSuite) TestRecvPacket() {
	var (
		path   *ibctesting.Path
		packet types.Packet
	)

	send := func() types.Packet {
		sent, err := path.EndpointA.SendPacket(suite.chainB.GetTimeoutHeight(), disabledTimeoutTimestamp, ibctesting.MockPacketData)
		suite.Require().NoError(err)
		return sent
	}

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success: ORDERED channel", func() {
			path.SetChannelOrdered()
			path.Setup()
			packet = send()
		}, nil},
		{"success: UNORDERED channel", func() {
			path.Setup()
			packet = send()
		}, nil},
		{"success: UNORDERED out of order packet", func() {
			// setup uses an UNORDERED channel
			path.Setup()
			send()
			packet = send()
		}, nil},
		{"success: timeout timestamp in the future", func() {
			path.Setup()
			sent, err := path.EndpointA.SendPacket(clienttypes.ZeroHeight(), suite.chainB.Ctx.LatestTimestamp()+uint64(ibctesting.DefaultBlockTime)*100, ibctesting.MockPacketData)
			suite.Require().NoError(err)
			packet = sent
		}, nil},
		{"packet already received: UNORDERED channel", func() {
			path.Setup()
			packet = send()
			suite.Require().NoError(path.EndpointB.RecvPacket(packet))
		}, types.ErrPacketReceived},
		{"packet already received: ORDERED channel", func() {
			path.SetChannelOrdered()
			path.Setup()
			packet = send()
			suite.Require().NoError(path.EndpointB.RecvPacket(packet))
		}, types.ErrPacketReceived},
		{"out of order packet failure with ORDERED channel", func() {
			path.SetChannelOrdered()
			path.Setup()
			send()
			packet = send()
		}, types.ErrPacketSequenceOutOfOrder},
		{"channel not found", func() {
			path.Setup()
			packet = send()
			packet.DestinationChannel = ibctesting.InvalidID
		}, types.ErrChannelNotFound},
		{"channel not open", func() {
			path.Setup()
			packet = send()
			path.EndpointB.SetChannelState(types.CLOSED)
		}, types.ErrInvalidChannelState},
		{"packet source port does not match counterparty port", func() {
			path.Setup()
			packet = send()
			packet.SourcePort = ibctesting.InvalidID
		}, types.ErrInvalidPacket},
		{"packet source channel does not match counterparty channel", func() {
			path.Setup()
			packet = send()
			packet.SourceChannel = ibctesting.InvalidID
		}, types.ErrInvalidPacket},
		{"connection not found", func() {
			path.Setup()
			packet = send()
			channel := path.EndpointB.GetChannel()
			channel.ConnectionHops[0] = ibctesting.InvalidID
			path.EndpointB.SetChannel(channel)
		}, connectiontypes.ErrConnectionNotFound},
		{"connection not OPEN", func() {
			path.Setup()
			packet = send()
			connection := path.EndpointB.GetConnection()
			connection.State = connectiontypes.INIT
			path.EndpointB.SetConnection(connection)
		}, connectiontypes.ErrInvalidConnectionState},
		{"timeout height passed", func() {
			path.Setup()
			timeoutHeight := suite.chainB.LatestHeight()
			timeoutHeight.RevisionHeight++

			sent, err := path.EndpointA.SendPacket(timeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
			suite.Require().NoError(err)
			packet = sent
		}, types.ErrTimeoutElapsed},
		{"timeout timestamp passed", func() {
			path.Setup()
			sent, err := path.EndpointA.SendPacket(clienttypes.ZeroHeight(), suite.chainB.Ctx.LatestTimestamp()+1, ibctesting.MockPacketData)
			suite.Require().NoError(err)
			packet = sent
		}, types.ErrTimeoutElapsed},
		{"packet was never sent", func() {
			path.Setup()
			packet = newPacket(path, 1, suite.chainB.GetTimeoutHeight(), disabledTimeoutTimestamp)
		}, clienttypes.ErrFailedMembershipVerification},
		{"packet data differs from the committed packet", func() {
			path.Setup()
			packet = send()
			packet.Data = []byte("tampered")
		}, clienttypes.ErrFailedMembershipVerification},
		{"client frozen by misbehaviour", func() {
			path.Setup()
			packet = send()

			clientState := path.EndpointB.GetClientState().(*ibcmock.ClientState)
			misbehaviour := ibcmock.NewMisbehaviour(
				ibcmock.NewHeader(clientState.LatestHeight, 1),
				ibcmock.NewHeader(clientState.LatestHeight, 2),
			)
			suite.Require().NoError(path.EndpointB.UpdateClientWithMessage(misbehaviour))
		}, clienttypes.ErrClientFrozen},
		{"application rejects the packet", func() {
			path.Setup()
			packet = send()
			suite.chainB.App.OnRecvPacketValidate = func(string, types.Packet) error {
				return mock.MockApplicationCallbackError
			}
		}, mock.MockApplicationCallbackError},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)

			tc.malleate()

			err := path.EndpointB.RecvPacket(packet)

			if tc.expErr == nil {
				suite.Require().NoError(err)

				channel := path.EndpointB.GetChannel()
				if channel.Ordering == types.ORDERED {
					nextSequenceRecv, err := suite.chainB.Ctx.GetNextSequenceRecv(packet.DestinationPort, packet.DestinationChannel)
					suite.Require().NoError(err)
					suite.Require().Equal(packet.Sequence+1, nextSequenceRecv)
				} else {
					_, err := suite.chainB.Ctx.GetPacketReceipt(packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
					suite.Require().NoError(err)
				}

				ackCommitment, err := suite.chainB.Ctx.GetPacketAcknowledgement(packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
				suite.Require().NoError(err)
				suite.Require().Equal(types.CommitAcknowledgement(mock.MockAcknowledgement.Acknowledgement()), ackCommitment)

				suite.Require().Contains(suite.chainB.App.ReceivedPackets, packet)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

// TestRecvPacketApplicationAcknowledgement tests the acknowledgements an
// application may return from its receive callback.
func (suite *HandlerTestSuite) TestRecvPacketApplicationAcknowledgement() {
	var path *ibctesting.Path

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success: nil pointer acknowledgement is asynchronous", func() {
			path.Setup()
			suite.chainB.App.OnRecvPacket = func(string, types.Packet) exported.Acknowledgement {
				var ack *types.Acknowledgement
				return ack
			}
		}, nil},
		{"acknowledgement without bytes: UNORDERED channel", func() {
			path.Setup()
			suite.chainB.App.OnRecvPacket = func(string, types.Packet) exported.Acknowledgement {
				return bytelessAcknowledgement{}
			}
		}, types.ErrInvalidAcknowledgement},
		{"acknowledgement without bytes: ORDERED channel", func() {
			path.SetChannelOrdered()
			path.Setup()
			suite.chainB.App.OnRecvPacket = func(string, types.Packet) exported.Acknowledgement {
				return bytelessAcknowledgement{}
			}
		}, types.ErrInvalidAcknowledgement},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)

			tc.malleate()

			packet, err := path.EndpointA.SendPacket(suite.chainB.GetTimeoutHeight(), disabledTimeoutTimestamp, ibctesting.MockPacketData)
			suite.Require().NoError(err)

			ordered := path.EndpointB.GetChannel().Ordering == types.ORDERED

			err = path.EndpointB.RecvPacket(packet)

			_, ackErr := suite.chainB.Ctx.GetPacketAcknowledgement(packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
			suite.Require().Error(ackErr, "no acknowledgement may be written")

			if tc.expErr == nil {
				suite.Require().NoError(err)

				_, err = suite.chainB.Ctx.GetPacketReceipt(packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
				suite.Require().NoError(err)

				suite.Require().NoError(path.EndpointB.WriteAcknowledgement(mock.MockAcknowledgement, packet))
				return
			}

			suite.Require().ErrorIs(err, tc.expErr)

			// the rejected acknowledgement leaves the packet unreceived
			if ordered {
				nextSequenceRecv, err := suite.chainB.Ctx.GetNextSequenceRecv(packet.DestinationPort, packet.DestinationChannel)
				suite.Require().NoError(err)
				suite.Require().Equal(packet.Sequence, nextSequenceRecv)
			} else {
				_, err = suite.chainB.Ctx.GetPacketReceipt(packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
				suite.Require().ErrorIs(err, types.ErrPacketReceiptNotFound)
			}

			// the packet can still be received once the application acknowledges it
			suite.chainB.App.OnRecvPacket = nil
			suite.Require().NoError(path.EndpointB.RecvPacket(packet))

			_, err = suite.chainB.Ctx.GetPacketAcknowledgement(packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
			suite.Require().NoError(err)
		})
	}
}

// TestRecvPacketEvents checks the events of a receive which is acknowledged
// synchronously.
func (suite *HandlerTestSuite) TestRecvPacketEvents() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	path.Setup()

	packet, err := path.EndpointA.SendPacket(suite.chainB.GetTimeoutHeight(), disabledTimeoutTimestamp, ibctesting.MockPacketData)
	suite.Require().NoError(err)

	events, err := path.EndpointB.RecvPacketWithResult(packet)
	suite.Require().NoError(err)

	suite.Require().Len(events, 4)
	expTypes := []string{coretypes.EventTypeMessage, types.EventTypeRecvPacket, coretypes.EventTypeMessage, types.EventTypeWriteAck}
	for i, event := range events {
		suite.Require().Equal(expTypes[i], event.Type)
	}

	for _, i := range []int{0, 2} {
		module, found := events[i].GetAttribute(coretypes.AttributeKeyModule)
		suite.Require().True(found)
		suite.Require().Equal(types.AttributeValueCategory, module)
	}

	recvPacket, err := ibctesting.ParseRecvPacketFromEvents(events)
	suite.Require().NoError(err)
	suite.Require().Equal(packet, recvPacket)

	ack, err := ibctesting.ParseAckFromEvents(events)
	suite.Require().NoError(err)
	suite.Require().Equal(mock.MockAcknowledgement.Acknowledgement(), ack)
}

// TestRecvPacketErrorAcknowledgement checks that an application error is
// committed as an error acknowledgement and that the application events are
// marked as errors.
func (suite *HandlerTestSuite) TestRecvPacketErrorAcknowledgement() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	path.Setup()

	packet, err := path.EndpointA.SendPacket(suite.chainB.GetTimeoutHeight(), disabledTimeoutTimestamp, ibctesting.MockFailPacketData)
	suite.Require().NoError(err)

	events, bz, err := path.RelayPacketWithResults(packet)
	suite.Require().NoError(err)

	ack, err := types.UnmarshalAcknowledgement(bz)
	suite.Require().NoError(err)
	suite.Require().False(ack.Success())

	mockEvent := events[len(events)-1]
	suite.Require().Equal(mock.MockEventType, mockEvent.Type)
	_, found := mockEvent.GetAttribute("callback" + coretypes.ErrorAttributeKeySuffix)
	suite.Require().True(found)

	// the error acknowledgement is relayed back like any other
	_, err = suite.chainA.Ctx.GetPacketCommitment(packet.SourcePort, packet.SourceChannel, packet.Sequence)
	suite.Require().Error(err)
	suite.Require().Contains(suite.chainA.App.AcknowledgedPackets, packet)
}

// TestWriteAcknowledgement tests the asynchronous acknowledgement of a received packet.
func (suite *HandlerTestSuite) TestWriteAcknowledgement() {
	var (
		path   *ibctesting.Path
		packet types.Packet
		ack    exported.Acknowledgement
	)

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success", func() {}, nil},
		{"channel not found", func() {
			packet.DestinationChannel = ibctesting.InvalidID
		}, types.ErrChannelNotFound},
		{"channel not open", func() {
			path.EndpointB.SetChannelState(types.CLOSED)
		}, types.ErrInvalidChannelState},
		{"nil acknowledgement", func() {
			ack = nil
		}, types.ErrInvalidAcknowledgement},
		{"acknowledgement already written", func() {
			suite.Require().NoError(path.EndpointB.WriteAcknowledgement(ack, packet))
		}, types.ErrAcknowledgementExists},
		{"packet was never received", func() {
			packet.Sequence = 5
		}, types.ErrPacketReceiptNotFound},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			path.Setup()
			ack = mock.MockAcknowledgement

			sent, err := path.EndpointA.SendPacket(suite.chainB.GetTimeoutHeight(), disabledTimeoutTimestamp, mock.MockAsyncPacketData)
			suite.Require().NoError(err)
			packet = sent

			events, err := path.EndpointB.RecvPacketWithResult(packet)
			suite.Require().NoError(err)

			_, err = ibctesting.ParseAckFromEvents(events)
			suite.Require().Error(err, "asynchronous receive must not write an acknowledgement")

			tc.malleate()

			err = path.EndpointB.WriteAcknowledgement(ack, packet)

			if tc.expErr == nil {
				suite.Require().NoError(err)

				ackCommitment, err := suite.chainB.Ctx.GetPacketAcknowledgement(packet.DestinationPort, packet.DestinationChannel, packet.Sequence)
				suite.Require().NoError(err)
				suite.Require().Equal(types.CommitAcknowledgement(ack.Acknowledgement()), ackCommitment)

				// the asynchronous acknowledgement completes the packet lifecycle
				suite.Require().NoError(path.EndpointA.AcknowledgePacket(packet, ack.Acknowledgement()))
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

// TestAcknowledgePacket tests AcknowledgePacket on chainA after the packet was
// received on chainB.
func (suite *HandlerTestSuite) TestAcknowledgePacket() {
	var (
		path   *ibctesting.Path
		packet types.Packet
		ack    []byte
	)

	relay := func() types.Packet {
		sent, err := path.EndpointA.SendPacket(suite.chainB.GetTimeoutHeight(), disabledTimeoutTimestamp, ibctesting.MockPacketData)
		suite.Require().NoError(err)
		suite.Require().NoError(path.EndpointB.RecvPacket(sent))
		return sent
	}

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success: ORDERED channel", func() {
			path.SetChannelOrdered()
			path.Setup()
			packet = relay()
		}, nil},
		{"success: UNORDERED channel", func() {
			path.Setup()
			packet = relay()
		}, nil},
		{"success: UNORDERED acknowledged out of order", func() {
			path.Setup()
			relay()
			packet = relay()
		}, nil},
		{"packet already acknowledged", func() {
			path.Setup()
			packet = relay()
			suite.Require().NoError(path.EndpointA.AcknowledgePacket(packet, ack))
		}, types.ErrPacketCommitmentNotFound},
		{"ORDERED channel acknowledged out of order", func() {
			path.SetChannelOrdered()
			path.Setup()
			relay()
			packet = relay()
		}, types.ErrPacketSequenceOutOfOrder},
		{"channel not found", func() {
			path.Setup()
			packet = relay()
			packet.SourceChannel = ibctesting.InvalidID
		}, types.ErrChannelNotFound},
		{"channel not open", func() {
			path.Setup()
			packet = relay()
			path.EndpointA.SetChannelState(types.CLOSED)
		}, types.ErrInvalidChannelState},
		{"packet destination channel does not match counterparty channel", func() {
			path.Setup()
			packet = relay()
			packet.DestinationChannel = ibctesting.InvalidID
		}, types.ErrInvalidPacket},
		{"packet data differs from the commitment", func() {
			path.Setup()
			packet = relay()
			packet.Data = []byte("tampered")
		}, types.ErrInvalidPacketCommitment},
		{"packet was never received", func() {
			path.Setup()
			sent, err := path.EndpointA.SendPacket(suite.chainB.GetTimeoutHeight(), disabledTimeoutTimestamp, ibctesting.MockPacketData)
			suite.Require().NoError(err)
			packet = sent
		}, clienttypes.ErrFailedMembershipVerification},
		{"acknowledgement differs from the written acknowledgement", func() {
			path.Setup()
			packet = relay()
			ack = mock.MockFailAcknowledgement.Acknowledgement()
		}, clienttypes.ErrFailedMembershipVerification},
		{"connection not OPEN", func() {
			path.Setup()
			packet = relay()
			connection := path.EndpointA.GetConnection()
			connection.State = connectiontypes.TRYOPEN
			path.EndpointA.SetConnection(connection)
		}, connectiontypes.ErrInvalidConnectionState},
		{"application rejects the acknowledgement", func() {
			path.Setup()
			packet = relay()
			suite.chainA.App.OnAcknowledgementPacket = func(string, types.Packet, []byte) error {
				return mock.MockApplicationCallbackError
			}
		}, porttypes.ErrModuleCallback},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)
			ack = mock.MockAcknowledgement.Acknowledgement()

			tc.malleate()

			err := path.EndpointA.AcknowledgePacket(packet, ack)

			if tc.expErr == nil {
				suite.Require().NoError(err)

				_, err := suite.chainA.Ctx.GetPacketCommitment(packet.SourcePort, packet.SourceChannel, packet.Sequence)
				suite.Require().Error(err)
				suite.Require().Contains(suite.chainA.App.AcknowledgedPackets, packet)

				if path.EndpointA.GetChannel().Ordering == types.ORDERED {
					nextSequenceAck, err := suite.chainA.Ctx.GetNextSequenceAck(packet.SourcePort, packet.SourceChannel)
					suite.Require().NoError(err)
					suite.Require().Equal(packet.Sequence+1, nextSequenceAck)
				}
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
				suite.Require().True(errorsmod.IsOf(err, ibctesting.ErrTransactionFailed))
			}
		})
	}
}
