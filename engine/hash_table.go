// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// hash_table.go implements the transposition table.

package engine

import (
	"unsafe" // for sizeof

	"github.com/corvidchess/corvid/board"
)

// DefaultHashTableSizeMB is the default size in MB for a new HashTable.
var DefaultHashTableSizeMB = 64

type boundKind uint8

const (
	noBound     boundKind = iota
	exactBound            // exact score is known
	lowerBound            // search failed high: score is a lower bound
	upperBound            // search failed low: score is an upper bound
)

// isInBounds returns true if score, under kind, already settles the
// [α, β) window without needing to search again.
func isInBounds(kind boundKind, α, β, score int32) bool {
	switch kind {
	case exactBound:
		return true
	case upperBound:
		return score <= α
	case lowerBound:
		return score >= β
	}
	return false
}

// boundFor returns the bound kind a score has relative to α and β.
func boundFor(α, β, score int32) boundKind {
	if score <= α {
		return upperBound
	}
	if score >= β {
		return lowerBound
	}
	return exactBound
}

// hashEntry is a value in the transposition table. Scores are stored
// relative to the position they were computed at, never relative to the
// search root — HashTable.Probe/Store do the ply rescaling, so callers
// never have to think about mate-distance adjustment themselves.
type hashEntry struct {
	lock  uint32    // disambiguates hash collisions
	move  board.Move
	score int16
	depth int8
	kind  boundKind
}

// HashTable is a two-way-associative transposition table shared across a
// search. Unlike the teacher's GlobalHashTable, this is never a package
// level singleton: Searcher holds one by reference so concurrent searches
// (e.g. analysis vs. a background ponder) can use independent tables.
type HashTable struct {
	table []hashEntry
	mask  uint32
}

// NewHashTable builds a transposition table of approximately hashSizeMB
// megabytes, rounded down to a power of two number of entries.
func NewHashTable(hashSizeMB int) *HashTable {
	entrySize := uint64(unsafe.Sizeof(hashEntry{}))
	size := uint64(hashSizeMB) << 20 / entrySize
	for size&(size-1) != 0 {
		size &= size - 1
	}
	if size == 0 {
		size = 1
	}
	return &HashTable{
		table: make([]hashEntry, size),
		mask:  uint32(size - 1),
	}
}

// Size returns the number of entries in the table.
func (ht *HashTable) Size() int {
	return int(ht.mask + 1)
}

// Clear removes all entries from the table.
func (ht *HashTable) Clear() {
	for i := range ht.table {
		ht.table[i] = hashEntry{}
	}
}

// split breaks a Zobrist key into a 32-bit collision lock and the two
// candidate slots an entry for it may occupy.
func split(key uint64, mask uint32) (lock, h0, h1 uint32) {
	hi := uint32(key >> 32)
	lo := uint32(key)
	h0 = lo & mask
	h1 = h0 ^ (lo >> 29)
	return hi, h0, h1
}

func (ht *HashTable) probeRaw(pos *board.Position) hashEntry {
	lock, h0, h1 := split(pos.Zobrist(), ht.mask)
	if ht.table[h0].lock == lock {
		return ht.table[h0]
	}
	if ht.table[h1].lock == lock {
		return ht.table[h1]
	}
	return hashEntry{}
}

func (ht *HashTable) storeRaw(pos *board.Position, entry hashEntry) {
	lock, h0, h1 := split(pos.Zobrist(), ht.mask)
	entry.lock = lock
	if e := &ht.table[h0]; e.lock == lock || e.kind == noBound || e.depth+1 >= entry.depth {
		ht.table[h0] = entry
	} else {
		ht.table[h1] = entry
	}
}

// probeResult is what a search node gets back from a lookup: whether there
// was a hit at all, and if so whether it was already deep enough to use
// as-is plus the move to try first regardless.
type probeResult struct {
	hit   bool
	move  board.Move
	score int32
	depth int32
	kind  boundKind
}

// Probe looks up pos at ply (distance from the search root) and rescales
// any mate score found back to be relative to the root — the teacher does
// this rescaling inline at each of its two call sites (retrieveHash,
// updateHash); centralizing it here means every caller automatically gets
// correct mate scores without having to remember to adjust.
func (ht *HashTable) Probe(pos *board.Position, ply int32) probeResult {
	entry := ht.probeRaw(pos)
	if entry.kind == noBound {
		return probeResult{}
	}
	score := int32(entry.score)
	if score < KnownLossScore {
		score += ply
	} else if score > KnownWinScore {
		score -= ply
	}
	return probeResult{
		hit:   true,
		move:  entry.move,
		score: score,
		depth: int32(entry.depth),
		kind:  entry.kind,
	}
}

// Store records a search result for pos at ply, rescaling any mate score
// to be relative to pos itself (the inverse of what Probe does) so it
// reads back correctly however far from the root it is next probed.
func (ht *HashTable) Store(pos *board.Position, ply, depth, α, β, score int32, move board.Move) {
	kind := boundFor(α, β, score)

	if score < KnownLossScore {
		switch kind {
		case exactBound:
			score -= ply
		case upperBound:
			score = KnownLossScore
		default:
			return
		}
	} else if score > KnownWinScore {
		switch kind {
		case exactBound:
			score += ply
		case lowerBound:
			score = KnownWinScore
		default:
			return
		}
	}

	ht.storeRaw(pos, hashEntry{
		move:  move,
		score: int16(score),
		depth: int8(depth),
		kind:  kind,
	})
}
