package ibctesting

import (
	"sync"

	errorsmod "cosmossdk.io/errors"
	lru "github.com/hashicorp/golang-lru"
	dbm "github.com/tendermint/tm-db"

	ibcerrors "github.com/cosmos/ibc-core/modules/core/errors"
	"github.com/cosmos/ibc-core/modules/core/exported"
)

// clientStateCacheSize bounds the number of decoded client states kept per store.
const clientStateCacheSize = 128

// Store is the key/value store of a MockContext. Every protocol record is kept
// under its ICS-24 key in the encoding that is proven to counterparties.
// Decoded client states are cached since they are read on every message.
type Store struct {
	mtx sync.RWMutex
	db  *dbm.MemDB

	clientStates *lru.Cache
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		db:           dbm.NewMemDB(),
		clientStates: newClientStateCache(),
	}
}

func newClientStateCache() *lru.Cache {
	cache, err := lru.New(clientStateCacheSize)
	if err != nil {
		panic(err)
	}
	return cache
}

// Get returns the value stored under key, or nil if the key is absent.
func (s *Store) Get(key []byte) ([]byte, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	bz, err := s.db.Get(key)
	if err != nil {
		return nil, errorsmod.Wrapf(ibcerrors.ErrLogic, "store get %s: %s", key, err)
	}
	return bz, nil
}

// Has reports whether a value is stored under key.
func (s *Store) Has(key []byte) (bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	ok, err := s.db.Has(key)
	if err != nil {
		return false, errorsmod.Wrapf(ibcerrors.ErrLogic, "store has %s: %s", key, err)
	}
	return ok, nil
}

// Set stores value under key.
func (s *Store) Set(key, value []byte) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if err := s.db.Set(key, value); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrLogic, "store set %s: %s", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *Store) Delete(key []byte) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if err := s.db.Delete(key); err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrLogic, "store delete %s: %s", key, err)
	}
	return nil
}

// IteratePrefix calls cb in ascending key order for every key starting with
// prefix. Iteration stops early when cb returns true.
func (s *Store) IteratePrefix(prefix []byte, cb func(key, value []byte) (stop bool, err error)) error {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	iterator, err := dbm.IteratePrefix(s.db, prefix)
	if err != nil {
		return errorsmod.Wrapf(ibcerrors.ErrLogic, "store iterate %s: %s", prefix, err)
	}
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		stop, err := cb(iterator.Key(), iterator.Value())
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}

	return iterator.Error()
}

// Clone returns a deep copy of the store. The copy starts with an empty cache.
func (s *Store) Clone() *Store {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	clone := NewStore()

	iterator, err := s.db.Iterator(nil, nil)
	if err != nil {
		panic(err)
	}
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		// MemDB hands out its own slices; copy before handing them to the clone
		key := append([]byte(nil), iterator.Key()...)
		value := append([]byte(nil), iterator.Value()...)
		if err := clone.db.Set(key, value); err != nil {
			panic(err)
		}
	}

	return clone
}

func (s *Store) cachedClientState(clientID string) (exported.ClientState, bool) {
	value, ok := s.clientStates.Get(clientID)
	if !ok {
		return nil, false
	}
	return value.(exported.ClientState), true
}

func (s *Store) cacheClientState(clientID string, clientState exported.ClientState) {
	s.clientStates.Add(clientID, clientState)
}
