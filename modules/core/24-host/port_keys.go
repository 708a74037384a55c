package host

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
)

const KeyPortPrefix = "ports"

// ParsePortChannel splits a "ports/{port-id}/channels/{channel-id}" path into
// its port and channel identifiers.
func ParsePortChannel(path string) (string, string, error) {
	parts := strings.Split(path, "/")
	if len(parts) != 4 || parts[0] != KeyPortPrefix || parts[2] != KeyChannelPrefix {
		return "", "", errorsmod.Wrapf(ErrInvalidPath, "%s is not a port/channel path", path)
	}
	if parts[1] == "" || parts[3] == "" {
		return "", "", errorsmod.Wrapf(ErrInvalidPath, "%s has an empty identifier", path)
	}
	return parts[1], parts[3], nil
}
