// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

// FeatureDelta records one piece appearing or disappearing on a square,
// queued by DoMove for the NNUE feature transformer to consume.
// board has no notion of network weights; it only tracks what changed.
type FeatureDelta struct {
	Piece Piece
	Sq    Square
	Add   bool // true: piece appeared, false: piece disappeared
}

// Accum is the NNUE bookkeeping carried on Position. It holds no network
// weights — those live in the nnue package — only the lazy-refresh flags
// and the pending incremental feature deltas for the current move, which
// is the explicit "derived struct" the redesign calls for instead of an
// implicit side table keyed by position hash.
type Accum struct {
	NeedsRefresh [ColorArraySize]bool
	Pending      []FeatureDelta
}

func (a *Accum) queue(pi Piece, sq Square, add bool) {
	if pi == NoPiece {
		return
	}
	a.Pending = append(a.Pending, FeatureDelta{Piece: pi, Sq: sq, Add: add})
}

// updateAccumulator queues the feature deltas implied by move and marks
// NeedsRefresh for any side whose king is moving, per perspective
// (a king move changes that side's king-relative feature indices, so its
// accumulator must be fully recomputed rather than patched incrementally).
// Deltas are queued before the base board mutation below it in DoMove, so
// the queue always reflects "what is about to change" rather than racing
// the bitboards it reads from.
func (pos *Position) updateAccumulator(move Move, pi Piece) {
	pos.Accum.Pending = pos.Accum.Pending[:0]

	if pi.Figure() == King {
		pos.Accum.NeedsRefresh[pi.Color()] = true
	}

	pos.Accum.queue(pi, move.From, false)
	if move.Capture != NoPiece {
		pos.Accum.queue(move.Capture, move.CaptureSquare(), false)
	}
	pos.Accum.queue(move.Target, move.To, true)

	if move.MoveType == Castling {
		rook, start, end := CastlingRook(move.To)
		pos.Accum.queue(rook, start, false)
		pos.Accum.queue(rook, end, true)
	}
}
