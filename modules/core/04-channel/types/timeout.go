package types

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

// Timeout defines an execution deadline structure for 04-channel handlers.
// This includes packet lifecycle handlers. A valid Timeout contains either
// one or both of a timestamp and block height (sequence).
type Timeout struct {
	// block height after which the packet or upgrade times out
	Height clienttypes.Height
	// block timestamp (in nanoseconds) after which the packet or upgrade times out
	Timestamp uint64
}

// NewTimeout returns a new Timeout instance.
func NewTimeout(height clienttypes.Height, timestamp uint64) Timeout {
	return Timeout{
		Height:    height,
		Timestamp: timestamp,
	}
}

// IsValid returns true if either the height or timestamp is non-zero
func (t Timeout) IsValid() bool {
	return !t.Height.IsZero() || t.Timestamp != 0
}

// Elapsed returns true if either the provided height or timestamp is past the
// respective absolute timeout values.
func (t Timeout) Elapsed(height exported.Height, timestamp uint64) bool {
	return t.heightElapsed(height) || t.timestampElapsed(timestamp)
}

// ErrTimeoutElapsed returns a new ErrTimeoutElapsed error indicating that the timeout has elapsed
// relative to the provided height and timestamp.
func (t Timeout) ErrTimeoutElapsed(height exported.Height, timestamp uint64) error {
	if t.heightElapsed(height) {
		return errorsmod.Wrapf(ErrTimeoutElapsed, "current height: %s, timeout height %s", height, t.Height)
	}

	return errorsmod.Wrapf(ErrTimeoutElapsed, "current timestamp: %d, timeout timestamp %d", timestamp, t.Timestamp)
}

// ErrTimeoutNotReached returns a new ErrTimeoutNotReached error indicating that the timeout has not been reached
// relative to the provided height and timestamp.
func (t Timeout) ErrTimeoutNotReached(height exported.Height, timestamp uint64) error {
	return errorsmod.Wrapf(ErrTimeoutNotReached, "current height: %s, timeout height %s; current timestamp: %d, timeout timestamp %d", height, t.Height, timestamp, t.Timestamp)
}

// heightElapsed returns true if the timeout height is non empty
// and the timeout height is greater than or equal to the relative height.
func (t Timeout) heightElapsed(height exported.Height) bool {
	return !t.Height.IsZero() && height.GTE(t.Height)
}

// timestampElapsed returns true if the timeout timestamp is non empty
// and the timeout timestamp is greater than or equal to the relative timestamp.
func (t Timeout) timestampElapsed(timestamp uint64) bool {
	return t.Timestamp != 0 && timestamp >= t.Timestamp
}
