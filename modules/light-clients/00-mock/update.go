package mock

import (
	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/cosmos/ibc-core/modules/core/02-client/types"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

// VerifyClientMessage checks that the message is a valid mock header or
// misbehaviour. A header below the latest height is only accepted when it
// targets a height the client already stores, so it can be checked for
// misbehaviour.
func (cs *ClientState) VerifyClientMessage(ctx exported.ClientValidationContext, clientID string, clientMsg exported.ClientMessage) error {
	switch msg := clientMsg.(type) {
	case *Header:
		if err := msg.ValidateBasic(); err != nil {
			return err
		}

		if msg.Height.GT(cs.LatestHeight) {
			return nil
		}

		if _, err := ctx.ConsensusState(clientID, msg.Height); err != nil {
			return errorsmod.Wrapf(
				clienttypes.ErrInvalidHeader,
				"header height %s is not greater than the latest height %s", msg.Height, cs.LatestHeight,
			)
		}

		return nil
	case *Misbehaviour:
		return msg.ValidateBasic()
	default:
		return errorsmod.Wrapf(ErrInvalidClientMsg, "expected type of %T or %T, got type %T", &Header{}, &Misbehaviour{}, clientMsg)
	}
}

// CheckForMisbehaviour detects misbehaviour in a verified client message.
// Misbehaviour evidence always counts. A header counts as misbehaviour when a
// consensus state with a different timestamp already exists at its height or
// when it does not advance time past the latest consensus state.
func (cs *ClientState) CheckForMisbehaviour(ctx exported.ClientValidationContext, clientID string, clientMsg exported.ClientMessage) bool {
	switch msg := clientMsg.(type) {
	case *Misbehaviour:
		return true
	case *Header:
		if existing, err := ctx.ConsensusState(clientID, msg.Height); err == nil {
			// a duplicate header is not misbehaviour
			return existing.GetTimestamp() != msg.Timestamp
		}

		latest, err := ctx.ConsensusState(clientID, cs.LatestHeight)
		if err != nil {
			return false
		}

		return msg.Height.GT(cs.LatestHeight) && msg.Timestamp <= latest.GetTimestamp()
	default:
		return false
	}
}

// UpdateStateOnMisbehaviour freezes the client.
func (cs *ClientState) UpdateStateOnMisbehaviour(ctx exported.ClientExecutionContext, clientID string, _ exported.ClientMessage) error {
	cs.FrozenHeight = clienttypes.NewHeight(0, 1)
	return ctx.StoreClientState(clientID, cs)
}

// UpdateState stores the consensus state of the header and advances the latest
// height. A header for a height that is already stored is a no-op and no
// consensus height is returned for it.
func (cs *ClientState) UpdateState(ctx exported.ClientExecutionContext, clientID string, clientMsg exported.ClientMessage) ([]exported.Height, error) {
	header, ok := clientMsg.(*Header)
	if !ok {
		return nil, errorsmod.Wrapf(ErrInvalidClientMsg, "unsupported client message %T", clientMsg)
	}

	if _, err := ctx.ConsensusState(clientID, header.Height); err == nil {
		return nil, nil
	}

	if header.Height.GT(cs.LatestHeight) {
		cs.LatestHeight = header.Height
	}

	if err := ctx.StoreClientState(clientID, cs); err != nil {
		return nil, err
	}

	if err := ctx.StoreConsensusState(clientID, header.Height, header.ConsensusState()); err != nil {
		return nil, err
	}

	return []exported.Height{header.Height}, nil
}
