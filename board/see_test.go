// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import "testing"

func TestSeeUndefendedCapture(t *testing.T) {
	pos := NewPosition()
	pos.SetSideToMove(White)
	pos.Put(SquareA1, WhiteKing)
	pos.Put(SquareA8, BlackKing)
	pos.Put(SquareE1, WhiteRook)
	pos.Put(SquareE5, BlackPawn)

	m := MakeMove(Normal, SquareE1, SquareE5, BlackPawn, WhiteRook)
	if got := See(pos, m); got != seeBonus[Pawn] {
		t.Errorf("undefended Rxe5: expected %d, got %d", seeBonus[Pawn], got)
	}
	if SeeSign(pos, m) {
		t.Errorf("undefended Rxe5 should not be a losing capture")
	}
}

func TestSeeLosingCapture(t *testing.T) {
	pos := NewPosition()
	pos.SetSideToMove(White)
	pos.Put(SquareA1, WhiteKing)
	pos.Put(SquareA8, BlackKing)
	pos.Put(SquareE1, WhiteRook)
	pos.Put(SquareE5, BlackPawn)
	pos.Put(SquareD6, BlackPawn) // defends e5

	m := MakeMove(Normal, SquareE1, SquareE5, BlackPawn, WhiteRook)
	want := seeBonus[Pawn] - seeBonus[Rook]
	if got := See(pos, m); got != want {
		t.Errorf("defended Rxe5: expected %d, got %d", want, got)
	}
	if !SeeSign(pos, m) {
		t.Errorf("defended Rxe5 should be a losing capture")
	}
}

func TestSeeEqualTrade(t *testing.T) {
	pos := NewPosition()
	pos.SetSideToMove(White)
	pos.Put(SquareA1, WhiteKing)
	pos.Put(SquareA8, BlackKing)
	pos.Put(SquareE1, WhiteRook)
	pos.Put(SquareE5, BlackRook)
	pos.Put(SquareE8, BlackRook) // recaptures on e5

	m := MakeMove(Normal, SquareE1, SquareE5, BlackRook, WhiteRook)
	if got := See(pos, m); got != 0 {
		t.Errorf("equal rook trade: expected 0, got %d", got)
	}
}
