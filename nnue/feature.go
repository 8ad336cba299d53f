// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nnue implements an incrementally-updated neural network
// evaluator that plugs into engine.Evaluator, reading the feature
// deltas board.Position already queues on every DoMove (board/accum.go)
// instead of recomputing from scratch each call; UndoMove queues none
// and flags both perspectives for a full refresh instead.
package nnue

import "github.com/corvidchess/corvid/board"

// pieceKinds is the number of non-king figures tracked per perspective
// (pawn, knight, bishop, rook, queen).
const pieceKinds = 5

// relativeColors is "is this piece mine or the opponent's", from the
// perspective the feature is being computed for.
const relativeColors = 2

// featuresPerKingBucket is the number of piece-type/square features
// associated with a single king bucket: relativeColors * pieceKinds
// figure planes, 64 squares each.
const featuresPerKingBucket = relativeColors * pieceKinds * 64

// HalfDimensions is the input width of one perspective's accumulator,
// following the HalfKP convention hailam-chessplay/sfnnue's
// Accumulator.Accumulation[2][]int16 contract is built on: one king
// bucket (64, one per own-king square) times featuresPerKingBucket.
// Unlike Stockfish's HalfKP this drops the "king on its own square
// can't also be a piece" trimming (641 -> 640 per bucket is the usual
// saving); keeping the full 640 is a deliberate simplification so the
// index math below stays branch-free.
const HalfDimensions = 64 * featuresPerKingBucket

// mirrorRank flips a rank for Black's perspective, since features are
// always expressed relative to the side whose accumulator they update.
func mirrorRank(sq board.Square) board.Square {
	return board.RankFile(7-sq.Rank(), sq.File())
}

// relativeSquare returns sq as seen by perspective: unchanged for
// White, rank-mirrored for Black.
func relativeSquare(perspective board.Color, sq board.Square) board.Square {
	if perspective == board.White {
		return sq
	}
	return mirrorRank(sq)
}

// pieceKindIndex maps a figure to 0..pieceKinds-1. Undefined for King
// and NoFigure; neither is ever fed as a feature (the king is the
// bucket, not a feature; NoFigure never occupies a square).
func pieceKindIndex(fig board.Figure) int {
	return int(fig) - int(board.Pawn)
}

// featureIndex returns the input index, in 0..HalfDimensions-1, of
// piece pi standing on sq, from perspective's point of view, with its
// own king on kingSq. A king move invalidates every index computed
// against the old kingSq, which is exactly why DoMove flags
// NeedsRefresh on a king move instead of trying to patch the
// accumulator incrementally.
func featureIndex(perspective board.Color, kingSq board.Square, pi board.Piece, sq board.Square) int {
	relKing := int(relativeSquare(perspective, kingSq))
	relColor := 0
	if pi.Color() != perspective {
		relColor = 1
	}
	kind := pieceKindIndex(pi.Figure())
	relSq := int(relativeSquare(perspective, sq))
	return relKing*featuresPerKingBucket + relColor*pieceKinds*64 + kind*64 + relSq
}
