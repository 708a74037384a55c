package types

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cosmos/ibc-core/modules/core/exported"
)

// DefaultAllowedClients are the default clients for the AllowedClients parameter.
// By default it allows all client types.
var DefaultAllowedClients = []string{exported.AllowAllClients}

// Params defines the set of IBC light client parameters.
type Params struct {
	// AllowedClients defines the list of allowed client state types which can be created
	// and interacted with. If a client type is removed from the allowed clients list, usage
	// of this client will be disabled until it is added again to the list.
	AllowedClients []string `mapstructure:"allowed_clients" msgpack:"allowed_clients"`
}

// NewParams creates a new parameter configuration for the ibc client module
func NewParams(allowedClients ...string) Params {
	return Params{
		AllowedClients: allowedClients,
	}
}

// DefaultParams is the default parameter configuration for the ibc-client module.
func DefaultParams() Params {
	return NewParams(DefaultAllowedClients...)
}

// Validate all ibc-client module parameters
func (p Params) Validate() error {
	return validateClients(p.AllowedClients)
}

// IsAllowedClient checks if the given client type is registered on the allowlist.
func (p Params) IsAllowedClient(clientType string) bool {
	// if the client type is AllowAllClients then return true
	if len(p.AllowedClients) == 1 && p.AllowedClients[0] == exported.AllowAllClients {
		return true
	}

	return slices.Contains(p.AllowedClients, clientType)
}

// validateClients checks that the given clients are not blank and there are no duplicates.
// If AllowAllClients wildcard (*) is used, then there should no other client types in the allow list
func validateClients(clients []string) error {
	if slices.Contains(clients, exported.AllowAllClients) && len(clients) > 1 {
		return fmt.Errorf("allow list must have only one element because the allow all clients wildcard (%s) is present", exported.AllowAllClients)
	}

	foundClients := make(map[string]bool, len(clients))

	for i, clientType := range clients {
		if strings.TrimSpace(clientType) == "" {
			return fmt.Errorf("client type %d cannot be blank", i)
		}

		if foundClients[clientType] {
			return fmt.Errorf("duplicate client type: %s", clientType)
		}

		foundClients[clientType] = true
	}

	return nil
}
