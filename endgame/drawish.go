// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package endgame

import "github.com/corvidchess/corvid/board"

// evalDrawish backs the book endings spec.md §4.7 lists as "drawish"
// (KBBKN, KNNK, KNNKP): none of these force mate against accurate
// defense, so the specialist just returns a small material-free score
// pulled toward zero instead of letting the classical evaluator's raw
// piece-value sum claim a large, illusory advantage.
func evalDrawish(pos *board.Position, strongSide board.Color) int32 {
	score := materialScore(pos, strongSide) / 8
	if strongSide == board.Black {
		score = -score
	}
	return score
}

func init() {
	registerSpecialist("KBBKN", evalDrawish)
	registerSpecialist("KNNK", evalDrawish)
	registerSpecialist("KNNKP", evalDrawish)
}
