// Copyright 2014-2017 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"testing"

	"github.com/corvidchess/corvid/board"
)

func startPos(t *testing.T) *board.Position {
	t.Helper()
	pos, err := board.PositionFromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatalf("bad fen: %v", err)
	}
	return pos
}

func TestHashTableProbeMiss(t *testing.T) {
	ht := NewHashTable(1)
	pos := startPos(t)
	if r := ht.Probe(pos, 0); r.hit {
		t.Fatal("expected a miss on an empty table")
	}
}

func TestHashTableStoreThenProbe(t *testing.T) {
	ht := NewHashTable(1)
	pos := startPos(t)
	move := board.Move{}

	ht.Store(pos, 0, 8, -InfinityScore, InfinityScore, 123, move)
	r := ht.Probe(pos, 0)
	if !r.hit {
		t.Fatal("expected a hit after Store")
	}
	if r.score != 123 || r.depth != 8 || r.kind != exactBound {
		t.Errorf("got score=%d depth=%d kind=%v, want 123/8/exact", r.score, r.depth, r.kind)
	}
}

func TestHashTableMateDistanceRescaling(t *testing.T) {
	ht := NewHashTable(1)
	pos := startPos(t)

	// A mate-in-2-from-this-node score, stored at ply 5 from the root.
	mateScore := MateScore - 2
	ht.Store(pos, 5, 10, -InfinityScore, InfinityScore, mateScore, board.Move{})

	// Probing at the same ply must return the same mate distance.
	if r := ht.Probe(pos, 5); r.score != mateScore {
		t.Errorf("probe at matching ply: got %d, want %d", r.score, mateScore)
	}

	// Probing at a shallower ply (closer to the root) must report a
	// shorter mate distance, since the same absolute hash entry now sits
	// fewer plies from whoever is asking.
	if r := ht.Probe(pos, 2); r.score <= mateScore {
		t.Errorf("probe at ply 2: got %d, want something bigger than %d (closer to root mate)", r.score, mateScore)
	}
}

func TestHashTableStoresClampedLossBound(t *testing.T) {
	ht := NewHashTable(1)
	pos := startPos(t)

	// score <= α for a score below KnownLossScore: an upper bound, which
	// Store clamps to KnownLossScore rather than trying to preserve the
	// exact mate distance (the bound alone doesn't pin a distance down).
	ht.Store(pos, 3, 6, -100, 100, MatedScore+3, board.Move{})
	r := ht.Probe(pos, 3)
	if !r.hit {
		t.Fatal("expected a clamped loss bound to still be stored")
	}
	if r.score != KnownLossScore {
		t.Errorf("got score %d, want clamped KnownLossScore %d", r.score, KnownLossScore)
	}
}

func TestHashTableSkipsUnresolvableMateBound(t *testing.T) {
	ht := NewHashTable(1)
	pos := startPos(t)

	// score >= β for a score below KnownLossScore: a lower bound, which
	// carries no usable information about how lost the position is, so
	// Store must skip writing it entirely.
	ht.Store(pos, 3, 6, MatedScore-100, MatedScore+1, MatedScore+3, board.Move{})
	if r := ht.Probe(pos, 3); r.hit {
		t.Fatal("expected an unresolvable loss lower-bound to not be stored")
	}
}

func TestIsInBounds(t *testing.T) {
	cases := []struct {
		kind    boundKind
		a, b, s int32
		want    bool
	}{
		{exactBound, -10, 10, 0, true},
		{upperBound, -10, 10, -20, true},
		{upperBound, -10, 10, 20, false},
		{lowerBound, -10, 10, 20, true},
		{lowerBound, -10, 10, -20, false},
		{noBound, -10, 10, 0, false},
	}
	for _, c := range cases {
		if got := isInBounds(c.kind, c.a, c.b, c.s); got != c.want {
			t.Errorf("isInBounds(%v, %d, %d, %d) = %v, want %v", c.kind, c.a, c.b, c.s, got, c.want)
		}
	}
}

func TestBoundForRoundTrip(t *testing.T) {
	if k := boundFor(-10, 10, 0); k != exactBound {
		t.Errorf("boundFor in-window = %v, want exactBound", k)
	}
	if k := boundFor(-10, 10, -20); k != upperBound {
		t.Errorf("boundFor below α = %v, want upperBound", k)
	}
	if k := boundFor(-10, 10, 20); k != lowerBound {
		t.Errorf("boundFor above β = %v, want lowerBound", k)
	}
}

func TestHashTableSizeIsPowerOfTwo(t *testing.T) {
	ht := NewHashTable(1)
	size := ht.Size()
	if size&(size-1) != 0 {
		t.Errorf("table size %d is not a power of two", size)
	}
}

func TestHashTableClear(t *testing.T) {
	ht := NewHashTable(1)
	pos := startPos(t)
	ht.Store(pos, 0, 4, -InfinityScore, InfinityScore, 50, board.Move{})
	ht.Clear()
	if r := ht.Probe(pos, 0); r.hit {
		t.Fatal("expected no entries after Clear")
	}
}
