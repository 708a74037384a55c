package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
)

// SubModuleName defines the IBC port name
const SubModuleName = "port"

// IBC port sentinel errors
var (
	ErrPortExists     = errorsmod.Register(SubModuleName, 2, "port is already binded")
	ErrPortNotFound   = errorsmod.Register(SubModuleName, 3, "port not found")
	ErrInvalidPort    = errorsmod.Register(SubModuleName, 4, "invalid port")
	ErrInvalidRoute   = errorsmod.Register(SubModuleName, 5, "route not found")
	ErrModuleCallback = errorsmod.Register(SubModuleName, 6, "application callback failed")
)

// NewModuleCallbackError wraps an error returned by an application callback. The
// result matches both ErrModuleCallback and the application error. A nil error
// is returned unchanged.
func NewModuleCallbackError(callback string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrModuleCallback, callback, err)
}
