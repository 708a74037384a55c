package types

import (
	errorsmod "cosmossdk.io/errors"
)

// IBC channel sentinel errors
var (
	ErrChannelExists             = errorsmod.Register(SubModuleName, 2, "channel already exists")
	ErrChannelNotFound           = errorsmod.Register(SubModuleName, 3, "channel not found")
	ErrInvalidChannel            = errorsmod.Register(SubModuleName, 4, "invalid channel")
	ErrInvalidChannelState       = errorsmod.Register(SubModuleName, 5, "invalid channel state")
	ErrInvalidChannelOrdering    = errorsmod.Register(SubModuleName, 6, "invalid channel ordering")
	ErrInvalidCounterparty       = errorsmod.Register(SubModuleName, 7, "invalid counterparty channel")
	ErrSequenceSendNotFound      = errorsmod.Register(SubModuleName, 8, "sequence send not found")
	ErrSequenceReceiveNotFound   = errorsmod.Register(SubModuleName, 9, "sequence receive not found")
	ErrSequenceAckNotFound       = errorsmod.Register(SubModuleName, 10, "sequence acknowledgement not found")
	ErrInvalidPacket             = errorsmod.Register(SubModuleName, 11, "invalid packet")
	ErrPacketTimeout             = errorsmod.Register(SubModuleName, 12, "packet timeout")
	ErrTooManyConnectionHops     = errorsmod.Register(SubModuleName, 13, "too many connection hops")
	ErrInvalidAcknowledgement    = errorsmod.Register(SubModuleName, 14, "invalid acknowledgement")
	ErrAcknowledgementExists     = errorsmod.Register(SubModuleName, 15, "acknowledgement for packet already exists")
	ErrInvalidChannelIdentifier  = errorsmod.Register(SubModuleName, 16, "invalid channel identifier")
	ErrPacketReceived            = errorsmod.Register(SubModuleName, 17, "packet already received")
	ErrPacketCommitmentNotFound  = errorsmod.Register(SubModuleName, 18, "packet commitment not found")
	ErrPacketSequenceOutOfOrder  = errorsmod.Register(SubModuleName, 19, "packet sequence is out of order")
	ErrInvalidChannelVersion     = errorsmod.Register(SubModuleName, 20, "invalid channel version")
	ErrPacketNotSent             = errorsmod.Register(SubModuleName, 21, "packet has not been sent")
	ErrInvalidTimeout            = errorsmod.Register(SubModuleName, 22, "invalid packet timeout")
	ErrTimeoutElapsed            = errorsmod.Register(SubModuleName, 23, "timeout elapsed")
	ErrTimeoutNotReached         = errorsmod.Register(SubModuleName, 24, "timeout not reached")
	ErrPacketReceiptNotFound     = errorsmod.Register(SubModuleName, 25, "packet receipt not found")
	ErrAcknowledgementNotFound   = errorsmod.Register(SubModuleName, 26, "packet acknowledgement not found")
	ErrInvalidPacketCommitment   = errorsmod.Register(SubModuleName, 27, "packet commitment does not match packet")
	ErrInvalidChannelConnection  = errorsmod.Register(SubModuleName, 28, "channel connection is not open")
	ErrChannelAlreadyClosed      = errorsmod.Register(SubModuleName, 29, "channel is already closed")
	ErrInvalidAcknowledgementLen = errorsmod.Register(SubModuleName, 30, "acknowledgement cannot be empty")
)
