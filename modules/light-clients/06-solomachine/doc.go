/*
Package solomachine implements the ClientState, ConsensusState, Header and
Misbehaviour types for the Solo Machine light client.
This implementation is based off the ICS 06 specification
(https://github.com/cosmos/ibc/tree/master/spec/client/ics-006-solo-machine-client)

A solo machine is a single ed25519 key. Headers are signed by the current key
and rotate it, every header advances the sequence (the revision height of the
client) by one. Proofs are signatures over the proven path and value at the
latest sequence.

Note that client identifiers are expected to be in the form: 06-solomachine-{N}.
Client identifiers are generated and validated by core IBC, unexpected client identifiers will result in errors.
*/
package solomachine
