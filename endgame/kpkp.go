// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package endgame

import "github.com/corvidchess/corvid/board"

// evalKPKP is registered for the color-symmetric "KPKP" signature, so
// strongSide is always board.White per registerSpecialist's rule and
// the score it returns is already White's point of view. Like KRKP,
// a true KPKP bitbase is impractical to generate safely in this
// environment (see DESIGN.md); this applies the classical race
// heuristic instead: compare each side's distance to promotion,
// adjusted by whose king is closer to its own pawn (the side that
// has to spend tempi defending loses the race) and by the
// move-to-move tempo of whoever is to move.
func evalKPKP(pos *board.Position, strongSide board.Color) int32 {
	whitePawn := pos.ByPiece(board.White, board.Pawn).AsSquare()
	blackPawn := pos.ByPiece(board.Black, board.Pawn).AsSquare()
	whiteKing := pos.ByPiece(board.White, board.King).AsSquare()
	blackKing := pos.ByPiece(board.Black, board.King).AsSquare()

	whiteRun := 7 - whitePawn.Rank()
	blackRun := blackPawn.Rank()

	if int(board.KingDistance(blackKing, whitePawn)) <= whiteRun {
		whiteRun += 3 // defended in time, effectively stopped
	}
	if int(board.KingDistance(whiteKing, blackPawn)) <= blackRun {
		blackRun += 3
	}
	if pos.SideToMove == board.Black {
		blackRun--
	} else {
		whiteRun--
	}

	switch {
	case whiteRun < blackRun:
		return 600 - int32(whiteRun)*50
	case blackRun < whiteRun:
		return -600 + int32(blackRun)*50
	default:
		return 0
	}
}

func init() {
	registerSpecialist("KPKP", evalKPKP)
}
