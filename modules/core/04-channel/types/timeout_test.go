package types_test

import (
	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/04-channel/types"
)

func (suite *TypesTestSuite) TestIsValid() {
	var timeout types.Timeout

	testCases := []struct {
		name     string
		malleate func()
		isValid  bool
	}{
		{
			"success: valid timeout with height and timestamp",
			func() {},
			true,
		},
		{
			"success: valid timeout with height and zero timestamp",
			func() {
				timeout.Timestamp = 0
			},
			true,
		},
		{
			"success: valid timeout with timestamp and zero height",
			func() {
				timeout.Height = clienttypes.ZeroHeight()
			},
			true,
		},
		{
			"invalid timeout with zero height and zero timestamp",
			func() {
				timeout.Height = clienttypes.ZeroHeight()
				timeout.Timestamp = 0
			},
			false,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			timeout = types.NewTimeout(clienttypes.NewHeight(1, 100), 100)

			tc.malleate()

			suite.Require().Equal(tc.isValid, timeout.IsValid())
		})
	}
}

func (suite *TypesTestSuite) TestElapsed() {
	// elapsed is expected to be true when either timeout height or timestamp
	// is greater than or equal to 2
	var (
		height    = clienttypes.NewHeight(0, 2)
		timestamp = uint64(2)
	)

	testCases := []struct {
		name       string
		timeout    types.Timeout
		expElapsed bool
	}{
		{
			"elapsed: both timeout with height and timestamp",
			types.NewTimeout(height, timestamp),
			true,
		},
		{
			"elapsed: timeout with height and zero timestamp",
			types.NewTimeout(height, 0),
			true,
		},
		{
			"elapsed: timeout with timestamp and zero height",
			types.NewTimeout(clienttypes.ZeroHeight(), timestamp),
			true,
		},
		{
			"elapsed: height elapsed, timestamp did not",
			types.NewTimeout(height, 4),
			true,
		},
		{
			"elapsed: timestamp elapsed, height did not",
			types.NewTimeout(clienttypes.NewHeight(0, 4), timestamp),
			true,
		},
		{
			"elapsed: timestamp elapsed when less than current timestamp",
			types.NewTimeout(clienttypes.NewHeight(0, 4), 1),
			true,
		},
		{
			"elapsed: height elapsed when less than current height",
			types.NewTimeout(clienttypes.NewHeight(0, 1), 4),
			true,
		},
		{
			"not elapsed: timeout not reached",
			types.NewTimeout(clienttypes.NewHeight(0, 4), 4),
			false,
		},
		{
			"not elapsed: timeout disabled",
			types.NewTimeout(clienttypes.ZeroHeight(), 0),
			false,
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			elapsed := tc.timeout.Elapsed(height, timestamp)
			suite.Require().Equal(tc.expElapsed, elapsed)
		})
	}
}

func (suite *TypesTestSuite) TestErrTimeoutElapsed() {
	var (
		height    = clienttypes.NewHeight(0, 2)
		timestamp = uint64(2)
	)

	timeout := types.NewTimeout(height, timestamp)
	suite.Require().ErrorIs(timeout.ErrTimeoutElapsed(height, timestamp), types.ErrTimeoutElapsed)
	suite.Require().ErrorIs(timeout.ErrTimeoutNotReached(height, timestamp), types.ErrTimeoutNotReached)
}
