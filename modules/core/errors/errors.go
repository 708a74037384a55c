package errors

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/ibc-core/modules/core/exported"
)

const codespace = exported.ModuleName

var (
	// ErrInvalidSequence is used when a sequence number is out of order or zero.
	ErrInvalidSequence = errorsmod.Register(codespace, 1, "invalid sequence")

	// ErrUnauthorized is used whenever a request without sufficient
	// authorization is handled.
	ErrUnauthorized = errorsmod.Register(codespace, 2, "unauthorized")

	// ErrUnknownRequest is used when the message type is not handled by the dispatcher.
	ErrUnknownRequest = errorsmod.Register(codespace, 3, "unknown request")

	// ErrInvalidRequest defines an error where the request contains
	// invalid data.
	ErrInvalidRequest = errorsmod.Register(codespace, 4, "invalid request")

	// ErrInvalidHeight defines an error for an invalid height
	ErrInvalidHeight = errorsmod.Register(codespace, 5, "invalid height")

	// ErrInvalidVersion defines a general error for an invalid version
	ErrInvalidVersion = errorsmod.Register(codespace, 6, "invalid version")

	// ErrInvalidType defines an error an invalid type.
	ErrInvalidType = errorsmod.Register(codespace, 7, "invalid type")

	// ErrPackAny defines an error when packing a value into an Any fails.
	ErrPackAny = errorsmod.Register(codespace, 8, "failed packing value to Any")

	// ErrUnpackAny defines an error when unpacking a value from an Any fails.
	ErrUnpackAny = errorsmod.Register(codespace, 9, "failed unpacking value from Any")

	// ErrLogic defines an internal logic error, e.g. an invariant or assertion
	// that is violated. It is a programmer error, not a user-facing error.
	ErrLogic = errorsmod.Register(codespace, 10, "internal logic error")

	// ErrNotFound defines an error when requested entity doesn't exist in the state.
	ErrNotFound = errorsmod.Register(codespace, 11, "not found")

	// ErrExecutionFailed is returned when execute fails after validate succeeded.
	// Hosts must treat it as fatal for the message.
	ErrExecutionFailed = errorsmod.Register(codespace, 12, "message execution failed after successful validation")
)
