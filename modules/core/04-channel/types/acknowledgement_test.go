package types_test

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/ibc-core/modules/core/04-channel/types"
	ibcerrors "github.com/cosmos/ibc-core/modules/core/errors"
)

// tests acknowledgement.ValidateBasic and acknowledgement.Acknowledgement
func (suite *TypesTestSuite) TestAcknowledgement() {
	testCases := []struct {
		name         string
		ack          types.Acknowledgement
		expValidates bool
		expBytes     []byte
		expSuccess   bool // indicate if this is a success or failed ack
	}{
		{
			"valid successful ack",
			types.NewResultAcknowledgement([]byte("success")),
			true,
			[]byte(`{"result":"c3VjY2Vzcw=="}`),
			true,
		},
		{
			"valid failed ack",
			types.NewErrorAcknowledgement(fmt.Errorf("error")),
			true,
			[]byte(`{"error":"ABCI code: 1: error handling packet: see events for details"}`),
			false,
		},
		{
			"empty successful ack",
			types.NewResultAcknowledgement([]byte{}),
			false,
			nil,
			true,
		},
		{
			"empty failed ack",
			types.NewErrorAcknowledgement(fmt.Errorf("  ")),
			true,
			[]byte(`{"error":"ABCI code: 1: error handling packet: see events for details"}`),
			false,
		},
		{
			"result and error both set",
			types.Acknowledgement{Result: []byte("success"), Error: "error"},
			false,
			nil,
			false,
		},
		{
			"nil response",
			types.Acknowledgement{},
			false,
			nil,
			false,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := tc.ack.ValidateBasic()

			if tc.expValidates {
				suite.Require().NoError(err)

				// expect all valid acks to be able to be marshaled
				suite.NotPanics(func() {
					bz := tc.ack.Acknowledgement()
					suite.Require().NotNil(bz)
					suite.Require().Equal(tc.expBytes, bz)

					decoded, err := types.UnmarshalAcknowledgement(bz)
					suite.Require().NoError(err)
					suite.Require().Equal(tc.expSuccess, decoded.Success())
				})
			} else {
				suite.Require().Error(err)
			}

			suite.Require().Equal(tc.expSuccess, tc.ack.Success())
		})
	}
}

// The error acknowledgement only carries the ABCI code, so that the
// acknowledgement written into state is deterministic.
func (suite *TypesTestSuite) TestABCICodeDeterminism() {
	// same ABCI error code used
	err := errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "error string 1")
	errSameABCICode := errorsmod.Wrap(ibcerrors.ErrInvalidRequest, "error string 2")

	// different ABCI error code used
	errDifferentABCICode := ibcerrors.ErrNotFound

	ack := types.NewErrorAcknowledgement(err)
	ackSameABCICode := types.NewErrorAcknowledgement(errSameABCICode)
	ackDifferentABCICode := types.NewErrorAcknowledgement(errDifferentABCICode)

	suite.Require().Equal(ack.Acknowledgement(), ackSameABCICode.Acknowledgement())
	suite.Require().NotEqual(ack.Acknowledgement(), ackDifferentABCICode.Acknowledgement())
}

func (suite *TypesTestSuite) TestIsEmptyAcknowledgement() {
	var nilAck *types.Acknowledgement

	suite.Require().True(types.IsEmptyAcknowledgement(nil))
	suite.Require().True(types.IsEmptyAcknowledgement(nilAck))
	suite.Require().False(types.IsEmptyAcknowledgement(types.NewResultAcknowledgement([]byte("ok"))))
}
