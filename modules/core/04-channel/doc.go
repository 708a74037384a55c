/*
Package channel implements ICS 04 channels and packets on top of an open
connection.

The handler subpackage drives the channel open and close handshakes and the
packet lifecycle: SendPacket stores a commitment, RecvPacket records a receipt
or advances the receive sequence depending on ordering, and an acknowledgement
or a timeout deletes the commitment. Each of these calls into the module bound
to the port through the port router, and the module may veto in its Validate
callback before any state is written.
*/
package channel
