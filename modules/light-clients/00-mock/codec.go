package mock

import (
	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

// ModuleName is the client type of the mock light client.
const ModuleName = exported.Mock

// Type urls of the mock light client types.
const (
	ClientStateTypeURL    = "/ibc.lightclients.mock.v1.ClientState"
	ConsensusStateTypeURL = "/ibc.lightclients.mock.v1.ConsensusState"
	HeaderTypeURL         = "/ibc.lightclients.mock.v1.Header"
	MisbehaviourTypeURL   = "/ibc.lightclients.mock.v1.Misbehaviour"
)

// RegisterInterfaces registers the mock light client types with the codec.
func RegisterInterfaces(cdc *clienttypes.Codec) {
	cdc.RegisterImplementation(ClientStateTypeURL, &ClientState{})
	cdc.RegisterImplementation(ConsensusStateTypeURL, &ConsensusState{})
	cdc.RegisterImplementation(HeaderTypeURL, &Header{})
	cdc.RegisterImplementation(MisbehaviourTypeURL, &Misbehaviour{})
}
