package exported

// Acknowledgement defines the interface used to return
// acknowledgements in the OnRecvPacketExecute callback.
type Acknowledgement interface {
	// Success tells core IBC if the given Acknowledgement signals success for the application.
	// This is independent of whether the acknowledgement is written to state: every
	// acknowledgement returned synchronously is committed.
	Success() bool
	Acknowledgement() []byte
}
