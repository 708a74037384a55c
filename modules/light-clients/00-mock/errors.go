package mock

import (
	errorsmod "cosmossdk.io/errors"
)

var (
	ErrInvalidClientMsg = errorsmod.Register(ModuleName, 2, "invalid mock client message")
	ErrInvalidProof     = errorsmod.Register(ModuleName, 3, "invalid mock proof")
)
