// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package endgame

import "github.com/corvidchess/corvid/board"

// bishopSquareIsLight reports whether sq is a light square (a1 is dark),
// which picks the mating corner pair of a bishop standing on sq.
func bishopSquareIsLight(sq board.Square) bool {
	return (int(sq.Rank())+int(sq.File()))%2 == 1
}

// wrongCornerDistance scores how far weakKing is from the corner pair
// the strong side's bishop actually controls (a1/h8 for a dark-squared
// bishop, a8/h1 for a light-squared one) -- the classical KBNK mate
// only works if the king is driven into the *matching* corner; the
// other two corners are safe, so the search needs this distinction
// rather than the color-blind cornering probeKXK uses.
func wrongCornerDistance(bishopLight bool, weakKing board.Square) int {
	a1 := board.SquareA1
	h8 := board.SquareH8
	a8 := board.SquareA8
	h1 := board.SquareH1

	var c1, c2 board.Square
	if bishopLight {
		c1, c2 = a8, h1
	} else {
		c1, c2 = a1, h8
	}

	d1 := int(board.KingDistance(weakKing, c1))
	d2 := int(board.KingDistance(weakKing, c2))
	if d1 < d2 {
		return d1
	}
	return d2
}

// evalKBNK implements the "KBNK" specialist: drive the bare king into
// the corner the bishop controls, per spec.md §4.7 ("KBNK mates toward
// the corner of the bishop's color"). Elsewhere on the board the
// generic KXK score (material plus center-distance cornering) already
// applies, so this only adds the extra push toward the correct pair of
// corners on top of it.
func evalKBNK(pos *board.Position, strongSide board.Color) int32 {
	weakSide := strongSide.Opposite()
	weakKing := pos.ByPiece(weakSide, board.King).AsSquare()
	strongKing := pos.ByPiece(strongSide, board.King).AsSquare()
	bishop := pos.ByPiece(strongSide, board.Bishop).AsSquare()

	score := mateScore + materialScore(pos, strongSide)
	score += int32(14-board.KingDistance(strongKing, weakKing)) * 4
	score -= int32(wrongCornerDistance(bishopSquareIsLight(bishop), weakKing)) * 20

	if strongSide == board.Black {
		score = -score
	}
	return score
}

func init() {
	registerSpecialist("KBNK", evalKBNK)
}
