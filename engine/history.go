// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// history.go generalizes the teacher's single historyTable into three
// separate tensors — quiet, capture and continuation — so a quiet move's
// statistics don't collide with a capture's and so a move's score can
// depend on the move that immediately preceded it (continuation history),
// which plain move-indexed history cannot express.

package engine

import "github.com/corvidchess/corvid/board"

const historySize = 1 << 14

// historyEntry keeps a running count of how well a move performed in
// previous searches. Old moves are evicted automatically when a new move
// hashes to the same slot, so the table is approximately LRU.
type historyEntry struct {
	stat int32
	move board.Move
}

// historyHash is a murmur-inspired mix: the multiplier was picked so the
// upper bits (which index the table) are well mixed even though the
// lower bits of a Move aren't.
func historyHash(m board.Move) uint32 {
	h := uint32(m.From)<<10 ^ uint32(m.To) ^ uint32(m.MoveType)<<16 ^ uint32(m.Piece())<<20
	h *= 438650727
	return (h + (h << 17)) >> (32 - 14)
}

type historyTable [historySize]historyEntry

func (ht *historyTable) get(m board.Move) int32 {
	h := historyHash(m)
	if ht[h].move != m {
		return 0
	}
	return ht[h].stat
}

func (ht *historyTable) add(m board.Move, delta int32) {
	h := historyHash(m)
	if ht[h].move != m {
		ht[h] = historyEntry{stat: delta, move: m}
	} else {
		ht[h].stat += delta
	}
}

// continuationSize indexes continuation history by (previous move's
// piece, previous move's to-square) x (this move's piece, this move's
// to-square) — the classic "what follows well after X" table.
const continuationSize = board.PieceArraySize * board.SquareArraySize

type continuationTable [continuationSize][continuationSize]int32

func continuationIndex(m board.Move) int {
	return int(m.Piece())*board.SquareArraySize + int(m.To)
}

func (ct *continuationTable) get(prev, m board.Move) int32 {
	if prev == board.NullMove {
		return 0
	}
	return ct[continuationIndex(prev)][continuationIndex(m)]
}

func (ct *continuationTable) add(prev, m board.Move, delta int32) {
	if prev == board.NullMove {
		return
	}
	ct[continuationIndex(prev)][continuationIndex(m)] += delta
}

// History bundles the three move-ordering statistics tables a Searcher
// consults. It is passed into Searcher by reference at construction,
// never a package-level global, so independent searches never share
// learned move ordering.
type History struct {
	Quiet        historyTable
	Capture      historyTable
	Continuation continuationTable
	Counter      [1 << 12]board.Move // last reply that refuted a given move
}

// NewHistory returns a freshly zeroed History.
func NewHistory() *History {
	return &History{}
}

// murmurMix is the avalanche step from MurmurHash3's finalizer, used to
// spread the counter-move table's index over the last move played.
func murmurMix(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

func counterIndex(last board.Move) int {
	h := murmurMix(uint64(last.From)<<24 | uint64(last.To)<<16 | uint64(last.Piece())<<8 | uint64(last.MoveType))
	return int(h % (1 << 12))
}

// RecordQuietCutoff updates all three history tensors after a quiet move
// caused a beta cutoff, and penalizes the quiet moves that were tried and
// failed before it — the standard "history bonus/malus" scheme.
func (h *History) RecordQuietCutoff(prev board.Move, cutoff board.Move, tried []board.Move, bonus int32) {
	h.Quiet.add(cutoff, bonus)
	h.Continuation.add(prev, cutoff, bonus)
	for _, m := range tried {
		if m == cutoff {
			continue
		}
		h.Quiet.add(m, -bonus/4)
		h.Continuation.add(prev, m, -bonus/4)
	}
}
