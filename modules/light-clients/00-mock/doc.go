/*
Package mock implements a test-only light client.

Proofs of the mock client are plain digests of the proven path and value, so a
host can produce them from its own store without a commitment tree. Headers
carry a height and a timestamp only and are accepted without signatures. Two
headers for the same height with different timestamps are misbehaviour and
freeze the client.
*/
package mock
