// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"testing"

	"github.com/corvidchess/corvid/board"
	"github.com/corvidchess/corvid/eval"
)

func newTestSearcher(t *testing.T, fen string) *Searcher {
	t.Helper()
	pos, err := board.PositionFromFEN(fen)
	if err != nil {
		t.Fatalf("bad fen %q: %v", fen, err)
	}
	return NewSearcher(pos, NewHashTable(1), NewHistory(), eval.Classical{}, nil, Options{})
}

func TestSearchFindsMateInOne(t *testing.T) {
	// White to move, Qh5-h7 would be mate-ish; use a clean back-rank mate:
	// rook on a1, black king boxed in on g8 by its own pawns.
	s := newTestSearcher(t, "6k1/5ppp/8/8/8/8/8/R6K w - - 0 1")
	tc := NewFixedDepthTimeControl(s.Position, 6)
	tc.Start(false)
	pv := s.Play(tc)

	if len(pv) == 0 {
		t.Fatal("expected a non-empty principal variation")
	}
	best := pv[0]
	if best.From != board.SquareA1 || best.To != board.SquareA8 {
		t.Errorf("got %v, want Ra1-a8#", best)
	}
}

func TestSearchPrefersNotHangingAQueen(t *testing.T) {
	// Black's d5 pawn covers c4 and e4: moving the queen to either square
	// for no compensation hangs it for free. Search at any reasonable
	// depth must not choose either.
	s := newTestSearcher(t, "4k3/8/8/3p4/8/8/8/3QK3 w - - 0 1")
	tc := NewFixedDepthTimeControl(s.Position, 4)
	tc.Start(false)
	pv := s.Play(tc)

	if len(pv) == 0 {
		t.Fatal("expected a non-empty principal variation")
	}
	if pv[0].To == board.SquareE4 || pv[0].To == board.SquareC4 {
		t.Errorf("engine hung the queen by playing %v", pv[0])
	}
}

func TestSearchStopsAtRequestedDepth(t *testing.T) {
	s := newTestSearcher(t, board.FENStartPos)
	tc := NewFixedDepthTimeControl(s.Position, 2)
	tc.Start(false)
	s.Play(tc)

	if s.Stats.Depth != 2 {
		t.Errorf("got final depth %d, want 2", s.Stats.Depth)
	}
}

func TestSetPVBuildsTriangularTable(t *testing.T) {
	s := newTestSearcher(t, board.FENStartPos)
	s.rootPly = s.Position.Ply
	s.ss = SearchStack{}

	m1 := board.Move{From: board.SquareE2, To: board.SquareE4, Target: board.WhitePawn}
	m2 := board.Move{From: board.SquareE7, To: board.SquareE5, Target: board.BlackPawn}

	s.Position.DoMove(m1)
	s.setPV(m2)
	s.Position.UndoMove()
	s.setPV(m1)

	pv := s.PV()
	if len(pv) != 2 || pv[0] != m1 || pv[1] != m2 {
		t.Errorf("got PV %v, want [%v %v]", pv, m1, m2)
	}
}

func TestSearchStackSentinelOffsets(t *testing.T) {
	var ss SearchStack
	ss.at(-1).move = board.Move{From: board.SquareA2, To: board.SquareA4}
	if ss.at(-1).move.From != board.SquareA2 {
		t.Error("expected negative-ply sentinel write to be readable back")
	}
	if ss.at(0).move != board.NullMove {
		t.Error("expected ply 0 to be untouched by a write at ply -1")
	}
}
