// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nnue

import "github.com/corvidchess/corvid/board"

// Evaluator implements engine.Evaluator on top of Network, consuming
// board.Position.Accum incrementally instead of re-deriving every
// feature from scratch on every call -- the consumer board/accum.go's
// FeatureDelta queue was built for but never had until now.
//
// It is stateful: it caches the last position it was handed so
// Evaluate can tell an incremental step from a jump (a different
// position pointer, or a ply that didn't advance by exactly one) and
// fall back to a full refresh accordingly.
type Evaluator struct {
	net  *Network
	pos  *board.Position
	pair Pair
}

// NewEvaluator wraps net for use as an engine.Evaluator.
func NewEvaluator(net *Network) *Evaluator {
	return &Evaluator{net: net}
}

// Evaluate returns net's score for pos, from White's point of view
// (engine.Evaluator's contract), applying only the moves since the
// last call when possible.
func (e *Evaluator) Evaluate(pos *board.Position) int32 {
	if e.pos != pos {
		e.pair = Pair{}
		e.pos = pos
	}
	e.pair.sync(e.net, pos)

	score := e.net.propagate(&e.pair, pos.SideToMove)
	if pos.SideToMove == board.Black {
		score = -score
	}
	return score
}
