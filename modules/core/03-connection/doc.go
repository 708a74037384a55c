/*
Package connection runs the ICS 03 four-step handshake (Init, Try, Ack,
Confirm) that pairs a light client on this host with one on the counterparty.

Every step past Init proves the counterparty's connection end through the
local light client, and the resulting ConnectionEnd is the only path through
which channel and packet proofs are verified (see handler.Verify*). Versions
are negotiated by feature set, and a Try may complete a crossing hello by
naming a connection that is already in INIT.
*/
package connection
