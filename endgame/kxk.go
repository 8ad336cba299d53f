// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package endgame

import "github.com/corvidchess/corvid/board"

// mateScore is a comfortably-winning score, well inside the mate-
// distance window engine.HashTable reserves for actual mate scores
// (see engine/scores.go's KnownWinScore), so the search treats a KXK
// verdict as a clear win without it ever being confused for a forced
// mate-in-N at a specific ply.
const mateScore = 20000

// probeKXK handles the generic "strong side has overwhelming material,
// weak side has a bare king" case: push the weak king to the nearest
// edge/corner and keep the kings close, the textbook K+Q/K+R/K+2R/
// K+2N(against a king, theoretically drawn, excluded below) approach.
// It defers to a registered specialist (KBNK's wrong-corner mate, for
// instance) whenever one exists for the exact signature, per spec.md
// §4.7's "first tries a KXK override... otherwise consults the
// material-key table": here that precedence is realized by KXK
// stepping aside as soon as a finer-grained entry is available.
func probeKXK(pos *board.Position) (int32, bool) {
	if lookup(pos) != nil {
		return 0, false
	}

	white, black := hasOnlyKing(pos, board.White), hasOnlyKing(pos, board.Black)
	if white == black {
		return 0, false // either both bare (handled by InsufficientMaterial) or both armed
	}

	strong, weak := board.White, board.Black
	if white {
		strong, weak = board.Black, board.White
	}

	if !sufficientMatingMaterial(pos, strong) {
		return 0, false
	}

	score := mateWeakKingTowardEdge(pos, strong, weak)
	if strong == board.Black {
		score = -score
	}
	return score, true
}

func hasOnlyKing(pos *board.Position, col board.Color) bool {
	return pos.ByColor[col]&^pos.ByFigure[board.King] == 0
}

// sufficientMatingMaterial excludes the two drawn-by-itself bare
// patterns board.Position.InsufficientMaterial already knows about
// (lone minor, same-color bishop pair) from the generic KXK path --
// those never checkmate regardless of king position.
func sufficientMatingMaterial(pos *board.Position, strong board.Color) bool {
	return !pos.InsufficientMaterial()
}

// mateWeakKingTowardEdge scores a won KXK position from strong's point
// of view: heavy material lead, plus a bonus for driving the weak king
// toward the board edge and the strong king toward the weak one --
// the standard "push to the rim" mating technique, which (unlike
// KBNK's wrong-corner requirement) works from any edge or corner.
func mateWeakKingTowardEdge(pos *board.Position, strong, weak board.Color) int32 {
	strongKing := pos.ByPiece(strong, board.King).AsSquare()
	weakKing := pos.ByPiece(weak, board.King).AsSquare()

	material := materialScore(pos, strong)
	cornering := int32(centerDistance(weakKing)) * 10
	closing := int32(14 - board.KingDistance(strongKing, weakKing)) * 4

	return mateScore + material + cornering + closing
}

// centerDistance is the Chebyshev distance from sq to the nearest of
// the four center squares, 0..3 -- the generic (non-color-specific)
// "push toward the edge" metric the wrong-corner-sensitive KBNK mate
// doesn't use.
func centerDistance(sq board.Square) int {
	r, f := sq.Rank(), sq.File()
	dr := r - 4
	if dr < 0 {
		dr = 3 - r
	}
	df := f - 4
	if df < 0 {
		df = 3 - f
	}
	if dr > df {
		return dr
	}
	return df
}

// materialScore sums a coarse figure value for strong's non-king
// pieces, ignoring weak's (a bare king contributes nothing).
func materialScore(pos *board.Position, strong board.Color) int32 {
	var figureValue = map[board.Figure]int32{
		board.Pawn: 100, board.Knight: 320, board.Bishop: 330,
		board.Rook: 500, board.Queen: 900,
	}
	var total int32
	for fig, v := range figureValue {
		total += int32(pos.ByPiece(strong, fig).Popcnt()) * v
	}
	return total
}
