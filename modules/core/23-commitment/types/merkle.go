package types

import (
	"bytes"
	"strings"

	errorsmod "cosmossdk.io/errors"

	"github.com/cosmos/ibc-core/modules/core/exported"
)

// DefaultPrefix is the commitment prefix under which the IBC store of a host is
// committed.
var DefaultPrefix = []byte("ibc")

var _ exported.Root = (*MerkleRoot)(nil)

// MerkleRoot defines a merkle root hash.
type MerkleRoot struct {
	Hash []byte `msgpack:"hash"`
}

// NewMerkleRoot constructs a new MerkleRoot
func NewMerkleRoot(hash []byte) MerkleRoot {
	return MerkleRoot{
		Hash: hash,
	}
}

// GetHash implements RootI interface
func (mr MerkleRoot) GetHash() []byte {
	return mr.Hash
}

// Empty returns true if the root is empty
func (mr MerkleRoot) Empty() bool {
	return len(mr.GetHash()) == 0
}

// MerklePrefix is merkle path prefixed to the key.
// The constructed key from the Path and the key will be append(Path.KeyPath, append(Path.KeyPrefix, key...))
type MerklePrefix struct {
	KeyPrefix []byte `msgpack:"key_prefix"`
}

// NewMerklePrefix constructs new MerklePrefix instance
func NewMerklePrefix(keyPrefix []byte) MerklePrefix {
	return MerklePrefix{
		KeyPrefix: keyPrefix,
	}
}

// Bytes returns the key prefix bytes
func (mp MerklePrefix) Bytes() []byte {
	return mp.KeyPrefix
}

// Empty returns true if the prefix is empty
func (mp MerklePrefix) Empty() bool {
	return len(mp.Bytes()) == 0
}

// Equal returns true if both prefixes hold the same bytes.
func (mp MerklePrefix) Equal(other MerklePrefix) bool {
	return bytes.Equal(mp.KeyPrefix, other.KeyPrefix)
}

// MerklePath is the path used to verify commitment proofs, which can be an
// arbitrary structured object (defined by a commitment type).
// MerklePath is represented from root-to-leaf
type MerklePath struct {
	KeyPath []string `msgpack:"key_path"`
}

// NewMerklePath creates a new MerklePath instance
// The keys must be passed in from root-to-leaf order
func NewMerklePath(keyPath ...string) MerklePath {
	return MerklePath{
		KeyPath: keyPath,
	}
}

// String implements fmt.Stringer.
// This represents the path in the same way the tendermint KeyPath will
// represent a key path. The backslashes partition the key path into
// the respective stores they belong to.
func (mp MerklePath) String() string {
	return "/" + strings.Join(mp.KeyPath, "/")
}

// Bytes returns the path as the byte key handed to light clients.
func (mp MerklePath) Bytes() []byte {
	return []byte(mp.String())
}

// Empty returns true if the path is empty
func (mp MerklePath) Empty() bool {
	return len(mp.KeyPath) == 0
}

// ApplyPrefix constructs a new commitment path from the arguments. It prepends the prefix key
// with the given path.
func ApplyPrefix(prefix MerklePrefix, path MerklePath) (MerklePath, error) {
	if prefix.Empty() {
		return MerklePath{}, errorsmod.Wrap(ErrInvalidPrefix, "prefix can't be empty")
	}
	if path.Empty() {
		return MerklePath{}, errorsmod.Wrap(ErrInvalidPrefix, "path can't be empty")
	}

	return NewMerklePath(append([]string{string(prefix.KeyPrefix)}, path.KeyPath...)...), nil
}
