package types

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/ibc-core/modules/core/exported"
)

// StatusError returns nil for an Active client and otherwise the sentinel error
// matching the client status.
func StatusError(clientID string, status exported.Status) error {
	switch status {
	case exported.Active:
		return nil
	case exported.Frozen:
		return errorsmod.Wrapf(ErrClientFrozen, "client (%s) status is %s", clientID, status)
	case exported.Expired:
		return errorsmod.Wrapf(ErrClientExpired, "client (%s) status is %s", clientID, status)
	default:
		return errorsmod.Wrapf(ErrClientNotActive, "client (%s) status is %s", clientID, status)
	}
}
