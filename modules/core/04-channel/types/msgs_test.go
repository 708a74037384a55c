package types_test

import (
	"errors"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/04-channel/types"
	commitmenttypes "github.com/cosmos/ibc-core/modules/core/23-commitment/types"
	host "github.com/cosmos/ibc-core/modules/core/24-host"
	ibcerrors "github.com/cosmos/ibc-core/modules/core/errors"
)

func (suite *TypesTestSuite) TestMsgChannelOpenInitValidateBasic() {
	counterparty := types.NewCounterparty(cpportid, cpchanid)
	tryOpenChannel := types.NewChannel(types.TRYOPEN, types.ORDERED, counterparty, connHops, version)

	testCases := []struct {
		name   string
		msg    *types.MsgChannelOpenInit
		expErr error
	}{
		{"success", types.NewMsgChannelOpenInit(portid, version, types.ORDERED, connHops, cpportid), nil},
		{"too short port id", types.NewMsgChannelOpenInit(invalidShortPort, version, types.ORDERED, connHops, cpportid), host.ErrInvalidID},
		{"too long port id", types.NewMsgChannelOpenInit(invalidLongPort, version, types.ORDERED, connHops, cpportid), host.ErrInvalidID},
		{"port id contains non-alpha", types.NewMsgChannelOpenInit(invalidPort, version, types.ORDERED, connHops, cpportid), host.ErrInvalidID},
		{"invalid channel order", types.NewMsgChannelOpenInit(portid, version, types.Order(3), connHops, cpportid), types.ErrInvalidChannelOrdering},
		{"connection hops more than 1 ", types.NewMsgChannelOpenInit(portid, version, types.ORDERED, append(connHops, "connection-1"), cpportid), types.ErrTooManyConnectionHops},
		{"too short connection id", types.NewMsgChannelOpenInit(portid, version, types.UNORDERED, invalidShortConnHops, cpportid), host.ErrInvalidID},
		{"connection id contains non-alpha", types.NewMsgChannelOpenInit(portid, version, types.UNORDERED, []string{invalidConnection}, cpportid), host.ErrInvalidID},
		{"empty version", types.NewMsgChannelOpenInit(portid, "", types.UNORDERED, connHops, cpportid), nil},
		{"invalid counterparty port id", types.NewMsgChannelOpenInit(portid, version, types.UNORDERED, connHops, invalidPort), host.ErrInvalidID},
		{"channel not in INIT state", &types.MsgChannelOpenInit{PortId: portid, Channel: tryOpenChannel}, types.ErrInvalidChannelState},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := tc.msg.ValidateBasic()
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *TypesTestSuite) TestMsgChannelOpenTryValidateBasic() {
	counterparty := types.NewCounterparty(cpportid, cpchanid)
	initChannel := types.NewChannel(types.INIT, types.ORDERED, counterparty, connHops, version)

	testCases := []struct {
		name   string
		msg    *types.MsgChannelOpenTry
		expErr error
	}{
		{"success", types.NewMsgChannelOpenTry(portid, version, types.ORDERED, connHops, cpportid, cpchanid, version, proof, height), nil},
		{"too short port id", types.NewMsgChannelOpenTry(invalidShortPort, version, types.ORDERED, connHops, cpportid, cpchanid, version, proof, height), host.ErrInvalidID},
		{"empty counterparty version", types.NewMsgChannelOpenTry(portid, version, types.ORDERED, connHops, cpportid, cpchanid, "", proof, height), nil},
		{"proof height is zero", types.NewMsgChannelOpenTry(portid, version, types.ORDERED, connHops, cpportid, cpchanid, version, proof, clienttypes.ZeroHeight()), ibcerrors.ErrInvalidHeight},
		{"empty proof", types.NewMsgChannelOpenTry(portid, version, types.ORDERED, connHops, cpportid, cpchanid, version, emptyProof, height), commitmenttypes.ErrInvalidProof},
		{"invalid channel order", types.NewMsgChannelOpenTry(portid, version, types.Order(4), connHops, cpportid, cpchanid, version, proof, height), types.ErrInvalidChannelOrdering},
		{"invalid counterparty channel id", types.NewMsgChannelOpenTry(portid, version, types.UNORDERED, connHops, cpportid, invalidChannel, version, proof, height), host.ErrInvalidID},
		{"empty counterparty channel id", types.NewMsgChannelOpenTry(portid, version, types.UNORDERED, connHops, cpportid, "", version, proof, height), host.ErrInvalidID},
		{"channel not in TRYOPEN state", &types.MsgChannelOpenTry{PortId: portid, Channel: initChannel, CounterpartyVersion: version, ProofInit: proof, ProofHeight: height}, types.ErrInvalidChannelState},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := tc.msg.ValidateBasic()
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *TypesTestSuite) TestMsgChannelOpenAckValidateBasic() {
	testCases := []struct {
		name   string
		msg    *types.MsgChannelOpenAck
		expErr error
	}{
		{"success", types.NewMsgChannelOpenAck(portid, chanid, cpchanid, version, proof, height), nil},
		{"too short port id", types.NewMsgChannelOpenAck(invalidShortPort, chanid, cpchanid, version, proof, height), host.ErrInvalidID},
		{"invalid channel id", types.NewMsgChannelOpenAck(portid, invalidChannel, cpchanid, version, proof, height), types.ErrInvalidChannelIdentifier},
		{"empty proof", types.NewMsgChannelOpenAck(portid, chanid, cpchanid, version, emptyProof, height), commitmenttypes.ErrInvalidProof},
		{"invalid counterparty channel id", types.NewMsgChannelOpenAck(portid, chanid, invalidShortChannel, version, proof, height), host.ErrInvalidID},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := tc.msg.ValidateBasic()
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().ErrorIs(err, tc.expErr)
			}
		})
	}
}

func (suite *TypesTestSuite) TestMsgChannelCloseValidateBasic() {
	suite.Require().NoError(types.NewMsgChannelOpenConfirm(portid, chanid, proof, height).ValidateBasic())
	suite.Require().ErrorIs(types.NewMsgChannelOpenConfirm(portid, chanid, emptyProof, height).ValidateBasic(), commitmenttypes.ErrInvalidProof)
	suite.Require().NoError(types.NewMsgChannelCloseInit(portid, chanid).ValidateBasic())
	suite.Require().ErrorIs(types.NewMsgChannelCloseInit(portid, invalidChannel).ValidateBasic(), types.ErrInvalidChannelIdentifier)
	suite.Require().NoError(types.NewMsgChannelCloseConfirm(portid, chanid, proof, height).ValidateBasic())
	suite.Require().ErrorIs(types.NewMsgChannelCloseConfirm(portid, chanid, proof, clienttypes.ZeroHeight()).ValidateBasic(), ibcerrors.ErrInvalidHeight)
}

func (suite *TypesTestSuite) TestMsgPacketValidateBasic() {
	testCases := []struct {
		name   string
		msg    interface{ ValidateBasic() error }
		expErr error
	}{
		{"recv: success", types.NewMsgRecvPacket(packet, proof, height), nil},
		{"recv: proof height is zero", types.NewMsgRecvPacket(packet, proof, clienttypes.ZeroHeight()), ibcerrors.ErrInvalidHeight},
		{"recv: missing proof", types.NewMsgRecvPacket(packet, emptyProof, height), commitmenttypes.ErrInvalidProof},
		{"recv: invalid packet", types.NewMsgRecvPacket(invalidPacket, proof, height), types.ErrInvalidPacket},
		{"ack: success", types.NewMsgAcknowledgement(packet, []byte("ack"), proof, height), nil},
		{"ack: empty ack", types.NewMsgAcknowledgement(packet, nil, proof, height), types.ErrInvalidAcknowledgement},
		{"timeout: success", types.NewMsgTimeout(packet, 1, proof, height), nil},
		{"timeout: seq 0", types.NewMsgTimeout(packet, 0, proof, height), ibcerrors.ErrInvalidSequence},
		{"timeout on close: success", types.NewMsgTimeoutOnClose(packet, 1, proof, proof, height), nil},
		{"timeout on close: empty proof close", types.NewMsgTimeoutOnClose(packet, 1, proof, emptyProof, height), commitmenttypes.ErrInvalidProof},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := tc.msg.ValidateBasic()
			if tc.expErr == nil {
				suite.Require().NoError(err)
			} else {
				suite.Require().True(errors.Is(err, tc.expErr), "expected %s, got %v", tc.expErr, err)
			}
		})
	}
}
