/*
Package client covers ICS 02 client semantics for a host that keeps no
storage of its own. The types subpackage holds heights, client identifiers,
the Any codec and the create/update messages; the handler subpackage splits
every message into a read-only Validate step and a state-writing Execute step
against the host's ValidationContext and ExecutionContext.

A client is stored as its client state plus one consensus state per trusted
height, each recorded together with the host time and height it was processed
at so that connection delay periods can be enforced.
*/
package client
