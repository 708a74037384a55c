package types

import (
	"errors"
	"time"
)

// DefaultTimePerBlock is the default value for maximum expected time per block (in nanoseconds).
const DefaultTimePerBlock = 30 * time.Second

// Params defines the set of Connection parameters.
type Params struct {
	// maximum expected time per block (in nanoseconds), used to enforce block delay. This parameter should reflect the
	// largest amount of time that the chain might reasonably take to produce the next block under normal operating
	// conditions. A safe choice is 3-5x the expected time per block.
	MaxExpectedTimePerBlock uint64 `mapstructure:"max_expected_time_per_block"`
}

// NewParams creates a new parameter configuration for the ibc connection module
func NewParams(timePerBlock uint64) Params {
	return Params{
		MaxExpectedTimePerBlock: timePerBlock,
	}
}

// DefaultParams is the default parameter configuration for the ibc connection module
func DefaultParams() Params {
	return NewParams(uint64(DefaultTimePerBlock))
}

// Validate ensures MaxExpectedTimePerBlock is non-zero
func (p Params) Validate() error {
	if p.MaxExpectedTimePerBlock == 0 {
		return errors.New("MaxExpectedTimePerBlock cannot be zero")
	}
	return nil
}

// BlockDelay calculates the block delay period from the time delay of the connection
// and the maximum expected time per block.
func (p Params) BlockDelay(timeDelay uint64) uint64 {
	// expectedTimePerBlock should never be zero, however if it is then return a 0 block delay for safety
	// as the expectedTimePerBlock parameter was not set.
	if p.MaxExpectedTimePerBlock == 0 {
		return 0
	}
	// calculate minimum block delay by dividing time delay period
	// by the expected time per block. Round up the block delay.
	blockDelay := timeDelay / p.MaxExpectedTimePerBlock
	if timeDelay%p.MaxExpectedTimePerBlock != 0 {
		blockDelay++
	}
	return blockDelay
}
