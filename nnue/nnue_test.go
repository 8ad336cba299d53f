// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nnue

import (
	"testing"

	"github.com/corvidchess/corvid/board"
)

func mustPos(t *testing.T, fen string) *board.Position {
	t.Helper()
	pos, err := board.PositionFromFEN(fen)
	if err != nil {
		t.Fatalf("bad fen %q: %v", fen, err)
	}
	return pos
}

func TestNewNetworkIsDeterministic(t *testing.T) {
	a := NewNetwork(7)
	b := NewNetwork(7)
	if a.featureBias != b.featureBias {
		t.Fatal("two networks built from the same seed must agree")
	}
	if a.featureWeights[1234] != b.featureWeights[1234] {
		t.Fatal("feature weight rows must agree across same-seed networks")
	}
}

func TestEvaluatorRefreshMatchesFromScratch(t *testing.T) {
	net := NewNetwork(1)
	pos := mustPos(t, board.FENStartPos)

	e := NewEvaluator(net)
	got := e.Evaluate(pos)

	var pair Pair
	pair.reset(net, pos)
	want := net.propagate(&pair, pos.SideToMove)

	if got != want {
		t.Errorf("got %d, want %d", got, want)
	}
}

func TestEvaluatorIncrementalMatchesRefresh(t *testing.T) {
	net := NewNetwork(3)
	pos := mustPos(t, board.FENStartPos)
	e := NewEvaluator(net)

	e.Evaluate(pos)

	m := board.Move{From: board.SquareE2, To: board.SquareE4, Target: board.WhitePawn}
	pos.DoMove(m)
	incremental := e.Evaluate(pos)

	var fresh Evaluator
	fresh.net = net
	fresh.pos = pos
	fresh.pair.reset(net, pos)
	want := net.propagate(&fresh.pair, pos.SideToMove)
	if pos.SideToMove == board.Black {
		want = -want
	}

	if incremental != want {
		t.Errorf("incremental eval %d diverged from a full refresh %d", incremental, want)
	}
}

func TestEvaluatorHandlesUndo(t *testing.T) {
	net := NewNetwork(5)
	pos := mustPos(t, board.FENStartPos)
	e := NewEvaluator(net)

	before := e.Evaluate(pos)

	m := board.Move{From: board.SquareG1, To: board.SquareF3, Target: board.WhiteKnight}
	pos.DoMove(m)
	e.Evaluate(pos)
	pos.UndoMove()

	after := e.Evaluate(pos)
	if before != after {
		t.Errorf("evaluating the same position after a do/undo pair should be stable, got %d then %d", before, after)
	}
}

func TestKingMoveForcesRefresh(t *testing.T) {
	net := NewNetwork(11)
	pos := mustPos(t, "4k3/8/8/8/8/8/4K3/8 w - - 0 1")
	e := NewEvaluator(net)
	e.Evaluate(pos)

	m := board.Move{From: board.SquareE2, To: board.SquareE3, Target: board.WhiteKing}
	pos.DoMove(m)
	if !pos.Accum.NeedsRefresh[board.White] {
		t.Fatal("expected a king move to flag NeedsRefresh")
	}
	e.Evaluate(pos)
	if pos.Accum.NeedsRefresh[board.White] {
		t.Error("expected Evaluate to clear NeedsRefresh after consuming it")
	}
}
