package types

import (
	errorsmod "cosmossdk.io/errors"
	gogotypes "github.com/gogo/protobuf/types"

	host "github.com/cosmos/ibc-core/modules/core/24-host"
	ibcerrors "github.com/cosmos/ibc-core/modules/core/errors"
)

// MsgCreateClient defines a message to create an IBC client
type MsgCreateClient struct {
	// light client state
	ClientState *gogotypes.Any
	// consensus state associated with the client that corresponds to a given
	// height.
	ConsensusState *gogotypes.Any
}

// NewMsgCreateClient creates a new MsgCreateClient instance
func NewMsgCreateClient(clientState, consensusState *gogotypes.Any) *MsgCreateClient {
	return &MsgCreateClient{
		ClientState:    clientState,
		ConsensusState: consensusState,
	}
}

// ValidateBasic implements basic validation of the message. The contents of
// the Any values are validated by the handler once they have been decoded.
func (msg MsgCreateClient) ValidateBasic() error {
	if err := validateAny(msg.ClientState, "client state"); err != nil {
		return err
	}
	return validateAny(msg.ConsensusState, "consensus state")
}

// MsgUpdateClient defines an sdk.Msg to update a IBC client state using
// the given client message.
type MsgUpdateClient struct {
	// client unique identifier
	ClientId string
	// client message to update the light client
	ClientMessage *gogotypes.Any
}

// NewMsgUpdateClient creates a new MsgUpdateClient instance
func NewMsgUpdateClient(id string, clientMsg *gogotypes.Any) *MsgUpdateClient {
	return &MsgUpdateClient{
		ClientId:      id,
		ClientMessage: clientMsg,
	}
}

// ValidateBasic implements basic validation of the message.
func (msg MsgUpdateClient) ValidateBasic() error {
	if err := validateAny(msg.ClientMessage, "client message"); err != nil {
		return err
	}
	return host.ClientIdentifierValidator(msg.ClientId)
}

// MsgSubmitMisbehaviour defines an sdk.Msg type that submits Evidence for
// light client misbehaviour.
//
// Deprecated: This message is deprecated in favor of MsgUpdateClient. It is
// routed to the same handler.
type MsgSubmitMisbehaviour struct {
	// client unique identifier
	ClientId string
	// misbehaviour used for freezing the light client
	Misbehaviour *gogotypes.Any
}

// NewMsgSubmitMisbehaviour creates a new MsgSubmitMisbehaviour instance.
func NewMsgSubmitMisbehaviour(clientID string, misbehaviour *gogotypes.Any) *MsgSubmitMisbehaviour {
	return &MsgSubmitMisbehaviour{
		ClientId:     clientID,
		Misbehaviour: misbehaviour,
	}
}

// ValidateBasic performs basic (non-state-dependant) validation on a MsgSubmitMisbehaviour.
func (msg MsgSubmitMisbehaviour) ValidateBasic() error {
	if err := validateAny(msg.Misbehaviour, "misbehaviour"); err != nil {
		return err
	}
	return host.ClientIdentifierValidator(msg.ClientId)
}

// AsUpdate returns the MsgUpdateClient equivalent of the misbehaviour submission.
func (msg MsgSubmitMisbehaviour) AsUpdate() *MsgUpdateClient {
	return NewMsgUpdateClient(msg.ClientId, msg.Misbehaviour)
}

func validateAny(anyValue *gogotypes.Any, name string) error {
	if anyValue == nil {
		return errorsmod.Wrapf(ibcerrors.ErrInvalidRequest, "%s cannot be nil", name)
	}
	if anyValue.TypeUrl == "" {
		return errorsmod.Wrapf(ibcerrors.ErrUnpackAny, "%s type url cannot be empty", name)
	}
	return nil
}
