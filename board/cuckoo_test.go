// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import "testing"

func TestHasUpcomingRepetitionDetectsOneMoveAway(t *testing.T) {
	pos, err := PositionFromFEN(FENStartPos)
	if err != nil {
		t.Fatal(err)
	}
	te := &testEngine{T: t, Pos: pos}

	te.Move("b1c3")
	te.Move("b8c6")
	te.Move("c3b1")
	// One more knight shuffle reaches the position three plies back; a
	// single reversible move (by either side) should already flag it.
	if !pos.HasUpcomingRepetition() {
		t.Errorf("expected an upcoming repetition to be detected")
	}
}

func TestHasUpcomingRepetitionFalseOnFreshPosition(t *testing.T) {
	pos, err := PositionFromFEN(FENStartPos)
	if err != nil {
		t.Fatal(err)
	}
	if pos.HasUpcomingRepetition() {
		t.Errorf("fresh position should have no upcoming repetition")
	}
}

func TestHasUpcomingRepetitionFalseAfterIrreversibleMove(t *testing.T) {
	pos, err := PositionFromFEN(testBoard1)
	if err != nil {
		t.Fatal(err)
	}
	te := &testEngine{T: t, Pos: pos}

	te.Move("b1c3")
	te.Move("b8c6")
	te.Move("d2d4") // irreversible: resets the cycle-detection window
	if pos.HasUpcomingRepetition() {
		t.Errorf("an irreversible move should clear the upcoming-repetition window")
	}
}
