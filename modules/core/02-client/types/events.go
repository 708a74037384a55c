package types

import (
	"fmt"

	"github.com/cosmos/ibc-core/modules/core/exported"
)

// IBC client events
const (
	AttributeKeyClientID         = "client_id"
	AttributeKeySubjectClientID  = "subject_client_id"
	AttributeKeyClientType       = "client_type"
	AttributeKeyConsensusHeight  = "consensus_height"
	AttributeKeyConsensusHeights = "consensus_heights"
	AttributeKeyHeader           = "header"
)

// IBC client events vars
var (
	EventTypeCreateClient       = "create_client"
	EventTypeUpdateClient       = "update_client"
	EventTypeSubmitMisbehaviour = "client_misbehaviour"

	AttributeValueCategory = fmt.Sprintf("%s_%s", exported.ModuleName, SubModuleName)
)
