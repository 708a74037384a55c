package ibctesting

import (
	errorsmod "cosmossdk.io/errors"
)

// RelayerCodespace is the codespace of the errors returned by the relaying
// helpers of the harness.
const RelayerCodespace = "relayer"

var (
	ErrClientStateNotFound   = errorsmod.Register(RelayerCodespace, 2, "client state not found")
	ErrClientAlreadyUpToDate = errorsmod.Register(RelayerCodespace, 3, "client is already up to date")
	ErrClientAtHigherHeight  = errorsmod.Register(RelayerCodespace, 4, "client is at a higher height than the source chain")
	ErrTransactionFailed     = errorsmod.Register(RelayerCodespace, 5, "transaction failed")
)
