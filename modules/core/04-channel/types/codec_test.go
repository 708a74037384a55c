package types_test

import (
	"github.com/cosmos/ibc-core/modules/core/04-channel/types"
	ibcerrors "github.com/cosmos/ibc-core/modules/core/errors"
)

func (suite *TypesTestSuite) TestChannelEncoding() {
	channel := types.NewChannel(types.OPEN, types.ORDERED, types.NewCounterparty(portid, chanid), connHops, version)

	bz := types.MustMarshalChannel(channel)
	decoded, err := types.UnmarshalChannel(bz)
	suite.Require().NoError(err)
	suite.Require().Equal(channel, decoded)

	// identical channels commit to identical bytes
	suite.Require().Equal(bz, types.MustMarshalChannel(decoded))

	_, err = types.UnmarshalChannel([]byte("not a channel"))
	suite.Require().ErrorIs(err, ibcerrors.ErrInvalidType)
}

func (suite *TypesTestSuite) TestSequenceBytes() {
	bz := types.SequenceBytes(258)
	suite.Require().Equal([]byte{0, 0, 0, 0, 0, 0, 1, 2}, bz)

	seq, err := types.ParseSequenceBytes(bz)
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(258), seq)

	_, err = types.ParseSequenceBytes([]byte{1})
	suite.Require().ErrorIs(err, ibcerrors.ErrInvalidSequence)
}
