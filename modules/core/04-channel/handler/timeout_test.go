package handler_test

import (
	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	connectiontypes "github.com/cosmos/ibc-core/modules/core/03-connection/types"
	"github.com/cosmos/ibc-core/modules/core/04-channel/types"
	host "github.com/cosmos/ibc-core/modules/core/24-host"
	ibctesting "github.com/cosmos/ibc-core/testing"
	"github.com/cosmos/ibc-core/testing/mock"
)

// TestTimeoutPacket test the TimeoutPacket call on chainA by ensuring the timeout has passed
// on chainB, but that no ack has been written yet.
func (suite *HandlerTestSuite) TestTimeoutPacket() {
	var (
		path   *ibctesting.Path
		packet types.Packet
	)

	// sendExpiring sends a packet whose timeout height is reached by the next
	// block of chainB, which the client update of the send produces.
	sendExpiring := func() types.Packet {
		timeoutHeight := suite.chainB.LatestHeight()
		timeoutHeight.RevisionHeight++

		sent, err := path.EndpointA.SendPacket(timeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
		suite.Require().NoError(err)
		return sent
	}

	testCases := []struct {
		msg      string
		malleate func()
		expErr   error
	}{
		{"success: ORDERED", func() {
			path.SetChannelOrdered()
			path.Setup()
			packet = sendExpiring()
		}, nil},
		{"success: UNORDERED", func() {
			path.Setup()
			packet = sendExpiring()
		}, nil},
		{"success: timeout timestamp", func() {
			path.Setup()
			sent, err := path.EndpointA.SendPacket(clienttypes.ZeroHeight(), suite.chainB.Ctx.LatestTimestamp()+1, ibctesting.MockPacketData)
			suite.Require().NoError(err)
			packet = sent
		}, nil},
		{"success: timed out on a closed channel", func() {
			path.Setup()
			packet = sendExpiring()
			path.EndpointA.SetChannelState(types.CLOSED)
		}, nil},
		{"timeout not reached", func() {
			path.Setup()
			sent, err := path.EndpointA.SendPacket(suite.chainB.GetTimeoutHeight(), disabledTimeoutTimestamp, ibctesting.MockPacketData)
			suite.Require().NoError(err)
			packet = sent
		}, types.ErrTimeoutNotReached},
		{"packet already received: ORDERED", func() {
			path.SetChannelOrdered()
			path.Setup()

			timeoutHeight := suite.chainB.LatestHeight()
			timeoutHeight.RevisionHeight += 5

			sent, err := path.EndpointA.SendPacket(timeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
			suite.Require().NoError(err)
			packet = sent

			suite.Require().NoError(path.EndpointB.RecvPacket(packet))
			suite.coordinator.CommitNBlocks(suite.chainB, 5)
		}, types.ErrPacketReceived},
		{"packet already received: UNORDERED", func() {
			path.Setup()

			timeoutHeight := suite.chainB.LatestHeight()
			timeoutHeight.RevisionHeight += 5

			sent, err := path.EndpointA.SendPacket(timeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
			suite.Require().NoError(err)
			packet = sent

			suite.Require().NoError(path.EndpointB.RecvPacket(packet))
			suite.coordinator.CommitNBlocks(suite.chainB, 5)
		}, clienttypes.ErrFailedNonMembershipVerification},
		{"packet already timed out", func() {
			path.Setup()
			packet = sendExpiring()
			suite.Require().NoError(path.EndpointA.TimeoutPacket(packet))
		}, types.ErrPacketCommitmentNotFound},
		{"packet was never sent", func() {
			path.Setup()
			timeoutHeight := suite.chainB.LatestHeight()
			packet = newPacket(path, 1, timeoutHeight, disabledTimeoutTimestamp)
		}, types.ErrPacketCommitmentNotFound},
		{"channel not found", func() {
			path.Setup()
			packet = sendExpiring()
			packet.SourceChannel = ibctesting.InvalidID
		}, types.ErrChannelNotFound},
		{"packet destination port does not match counterparty port", func() {
			path.Setup()
			packet = sendExpiring()
			packet.DestinationPort = ibctesting.InvalidID
		}, types.ErrInvalidPacket},
		{"packet data differs from the commitment", func() {
			path.Setup()
			packet = sendExpiring()
			packet.Data = []byte("tampered")
		}, types.ErrInvalidPacketCommitment},
		{"connection not found", func() {
			path.Setup()
			packet = sendExpiring()
			channel := path.EndpointA.GetChannel()
			channel.ConnectionHops[0] = ibctesting.InvalidID
			path.EndpointA.SetChannel(channel)
		}, connectiontypes.ErrConnectionNotFound},
		{"application rejects the timeout", func() {
			path.Setup()
			packet = sendExpiring()
			suite.chainA.App.OnTimeoutPacket = func(string, types.Packet) error {
				return mock.MockApplicationCallbackError
			}
		}, mock.MockApplicationCallbackError},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)

			tc.malleate()

			orderedBefore := path.EndpointA.ChannelConfig.Order == types.ORDERED
			err := path.EndpointA.TimeoutPacket(packet)

			if tc.expErr == nil {
				suite.Require().NoError(err)

				_, err := suite.chainA.Ctx.GetPacketCommitment(packet.SourcePort, packet.SourceChannel, packet.Sequence)
				suite.Require().Error(err)
				suite.Require().Contains(suite.chainA.App.TimedOutPackets, packet)

				if orderedBefore {
					suite.Require().Equal(types.CLOSED, path.EndpointA.GetChannel().State)
				}
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

// TestTimeoutUnorderedChannelStaysOpen checks that a timeout on an unordered
// channel leaves the channel usable.
func (suite *HandlerTestSuite) TestTimeoutUnorderedChannelStaysOpen() {
	path := ibctesting.NewPath(suite.chainA, suite.chainB)
	path.Setup()

	timeoutHeight := suite.chainB.LatestHeight()
	timeoutHeight.RevisionHeight++

	packet, err := path.EndpointA.SendPacket(timeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
	suite.Require().NoError(err)
	suite.Require().NoError(path.EndpointA.TimeoutPacket(packet))
	suite.Require().Equal(types.OPEN, path.EndpointA.GetChannel().State)

	// a timed out packet cannot be received afterwards
	err = path.EndpointB.RecvPacket(packet)
	suite.Require().ErrorIs(err, types.ErrTimeoutElapsed)

	next, err := path.EndpointA.SendPacket(suite.chainB.GetTimeoutHeight(), disabledTimeoutTimestamp, ibctesting.MockPacketData)
	suite.Require().NoError(err)
	suite.Require().Equal(packet.Sequence+1, next.Sequence)
	suite.Require().NoError(path.RelayPacket(next))
}

// TestAcknowledgeTimeoutExclusion checks that at most one of acknowledgement
// and timeout completes a packet. The loser finds no packet commitment.
func (suite *HandlerTestSuite) TestAcknowledgeTimeoutExclusion() {
	testCases := []struct {
		msg     string
		ordered bool
		// a timeout closes an ORDERED channel, which rejects the acknowledgement first
		expAckErr error
	}{
		{"UNORDERED", false, types.ErrPacketCommitmentNotFound},
		{"ORDERED", true, types.ErrInvalidChannelState},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg+": acknowledgement first", func() {
			suite.SetupTest()
			path := ibctesting.NewPath(suite.chainA, suite.chainB)
			if tc.ordered {
				path.SetChannelOrdered()
			}
			path.Setup()

			timeoutHeight := suite.chainB.LatestHeight()
			timeoutHeight.RevisionHeight += 5

			packet, err := path.EndpointA.SendPacket(timeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
			suite.Require().NoError(err)
			suite.Require().NoError(path.RelayPacket(packet))

			suite.coordinator.CommitNBlocks(suite.chainB, 5)

			err = path.EndpointA.TimeoutPacket(packet)
			suite.Require().ErrorIs(err, types.ErrPacketCommitmentNotFound)
			suite.Require().Empty(suite.chainA.App.TimedOutPackets)
			suite.Require().Len(suite.chainA.App.AcknowledgedPackets, 1)
		})

		suite.Run(tc.msg+": timeout first", func() {
			suite.SetupTest()
			path := ibctesting.NewPath(suite.chainA, suite.chainB)
			if tc.ordered {
				path.SetChannelOrdered()
			}
			path.Setup()

			timeoutHeight := suite.chainB.LatestHeight()
			timeoutHeight.RevisionHeight++

			packet, err := path.EndpointA.SendPacket(timeoutHeight, disabledTimeoutTimestamp, ibctesting.MockPacketData)
			suite.Require().NoError(err)
			suite.Require().NoError(path.EndpointA.TimeoutPacket(packet))

			// the counterparty never wrote an acknowledgement, so the proof is of its absence
			proof, proofHeight := path.EndpointA.QueryProof(host.PacketAcknowledgementPath(packet.DestinationPort, packet.DestinationChannel, packet.Sequence))
			msg := types.NewMsgAcknowledgement(packet, mock.MockAcknowledgement.Acknowledgement(), proof, proofHeight)

			_, err = suite.chainA.SendMsg(msg)
			suite.Require().ErrorIs(err, tc.expAckErr)
			suite.Require().Empty(suite.chainA.App.AcknowledgedPackets)
			suite.Require().Len(suite.chainA.App.TimedOutPackets, 1)
		})
	}
}

// TestTimeoutOnClose tests the TimeoutOnClose call on chainA after the channel
// end on chainB was closed.
func (suite *HandlerTestSuite) TestTimeoutOnClose() {
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
		{"success: ORDERED", func() {
			path.SetChannelOrdered()
			path.Setup()
			packet = send()
			suite.Require().NoError(path.EndpointB.ChanCloseInit())
		}, nil},
		{"success: UNORDERED", func() {
			path.Setup()
			packet = send()
			suite.Require().NoError(path.EndpointB.ChanCloseInit())
		}, nil},
		{"counterparty channel is still open", func() {
			path.Setup()
			packet = send()
		}, clienttypes.ErrFailedMembershipVerification},
		{"packet received before the channel closed: UNORDERED", func() {
			path.Setup()
			packet = send()
			suite.Require().NoError(path.EndpointB.RecvPacket(packet))
			suite.Require().NoError(path.EndpointB.ChanCloseInit())
		}, clienttypes.ErrFailedNonMembershipVerification},
		{"packet received before the channel closed: ORDERED", func() {
			path.SetChannelOrdered()
			path.Setup()
			packet = send()
			suite.Require().NoError(path.EndpointB.RecvPacket(packet))
			suite.Require().NoError(path.EndpointB.ChanCloseInit())
		}, types.ErrPacketReceived},
		{"packet already acknowledged", func() {
			path.Setup()
			packet = send()
			suite.Require().NoError(path.RelayPacket(packet))
			suite.Require().NoError(path.EndpointB.ChanCloseInit())
		}, types.ErrPacketCommitmentNotFound},
		{"channel not found", func() {
			path.Setup()
			packet = send()
			suite.Require().NoError(path.EndpointB.ChanCloseInit())
			packet.SourceChannel = ibctesting.InvalidID
		}, types.ErrChannelNotFound},
	}

	for _, tc := range testCases {
		suite.Run(tc.msg, func() {
			suite.SetupTest() // reset
			path = ibctesting.NewPath(suite.chainA, suite.chainB)

			tc.malleate()

			err := path.EndpointA.TimeoutOnClose(packet)

			if tc.expErr == nil {
				suite.Require().NoError(err)

				_, err := suite.chainA.Ctx.GetPacketCommitment(packet.SourcePort, packet.SourceChannel, packet.Sequence)
				suite.Require().Error(err)
				suite.Require().Contains(suite.chainA.App.TimedOutPackets, packet)

				if path.EndpointA.ChannelConfig.Order == types.ORDERED {
					suite.Require().Equal(types.CLOSED, path.EndpointA.GetChannel().State)
				}
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}
