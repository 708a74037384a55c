package types

// MsgEnvelope is implemented by every message the dispatcher accepts.
type MsgEnvelope interface {
	ValidateBasic() error
}
