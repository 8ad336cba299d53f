// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"github.com/corvidchess/corvid/board"
	"github.com/corvidchess/corvid/endgame"
)

// Evaluator scores pos from White's point of view. Classical and the
// nnue package's Evaluator both satisfy this independently (neither
// imports the other), matching engine.Evaluator's contract without
// eval needing to import the engine package.
type Evaluator interface {
	Evaluate(pos *board.Position) int32
}

// Composite probes the endgame specialist table before falling back to
// a general evaluator, exactly the precedence spec.md §4.7 describes
// for endgame_probe: a registered specialist or the generic KXK
// override always overrides the classical/NNUE score when one applies.
type Composite struct {
	Fallback Evaluator
}

func (c Composite) Evaluate(pos *board.Position) int32 {
	if score, ok := endgame.Probe(pos); ok {
		return score
	}
	return c.Fallback.Evaluate(pos)
}
