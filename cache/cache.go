// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cache persists parsed NNUE weight blobs across process
// restarts. Reparsing and re-quantizing a multi-megabyte weight file on
// every engine startup is wasted work once it has already been done once
// for a given seed; this package memoizes that result in a
// small on-disk key-value store.
//
// Grounded on hailam/chessplay's internal/storage package, which uses
// the same library (badger) for the same shape of problem -- small,
// infrequently-written, frequently-read local state -- just for a GUI's
// user preferences instead of an engine's parsed weight blobs.
package cache

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Store wraps a badger database directory holding cached NNUE weight
// blobs, keyed by the seed that produced them.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a Store rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // engine has its own diagnostic logger (op/go-logging)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func networkKey(seed int64) []byte {
	key := make([]byte, 8+len("nnue:weights:"))
	n := copy(key, "nnue:weights:")
	binary.BigEndian.PutUint64(key[n:], uint64(seed))
	return key
}

// PutNetwork stores the serialized weight blob for seed.
func (s *Store) PutNetwork(seed int64, blob []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(networkKey(seed), blob)
	})
}

// GetNetwork returns the cached weight blob for seed, or (nil, false) if
// nothing has been cached yet.
func (s *Store) GetNetwork(seed int64) ([]byte, bool, error) {
	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(networkKey(seed))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			blob = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("cache: get network %d: %w", seed, err)
	}
	return blob, blob != nil, nil
}

func bitbaseKey(name string) []byte {
	return append([]byte("bitbase:ready:"), name...)
}

// MarkBitbaseReady records that the bitbase named name has already been
// generated and verified in a prior process, so future startups can
// trust it without re-running the retrograde fixed-point analysis --
// useful once bitbase generation is expensive enough to want to skip,
// which KPK alone is not, but KPKP/KRKP-sized tables would be.
func (s *Store) MarkBitbaseReady(name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(bitbaseKey(name), []byte{1})
	})
}

// BitbaseReady reports whether MarkBitbaseReady was previously called
// for name.
func (s *Store) BitbaseReady(name string) (bool, error) {
	ready := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(bitbaseKey(name))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		ready = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("cache: bitbase ready %s: %w", name, err)
	}
	return ready, nil
}
