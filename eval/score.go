// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eval implements the classical, hand-weighted tapered evaluator.
// It follows the teacher's mid-game/end-game Score pair and phase-blended
// Eval accumulator (score.go), but replaces the teacher's 187-entry
// Texel-tuned weight vector with explicit, named piece-square and
// structural terms — this repo has no tuning pipeline to regenerate
// tuned weights against, so the terms are classical engine values
// instead (see DESIGN.md).
package eval

import "github.com/corvidchess/corvid/board"

// Score is a pair of mid-game and end-game scores, blended by phase at
// the end of evaluation.
type Score struct {
	M, E int32
}

func (s Score) Add(o Score) Score { return Score{s.M + o.M, s.E + o.E} }
func (s Score) Sub(o Score) Score { return Score{s.M - o.M, s.E - o.E} }
func (s Score) Neg() Score        { return Score{-s.M, -s.E} }
func (s Score) Mul(n int32) Score { return Score{s.M * n, s.E * n} }

// Eval accumulates Scores for both sides and the game phase, the way the
// teacher's Eval type does, then Feed blends mid/end game by phase.
type Eval struct {
	M, E  int32
	Phase int32 // 0 = full midgame, 256 = full endgame
}

func (e *Eval) Add(s Score) {
	e.M += s.M
	e.E += s.E
}

func (e *Eval) AddN(s Score, n int32) {
	e.M += s.M * n
	e.E += s.E * n
}

// Feed blends the accumulated mid/end game scores by phase.
func (e *Eval) Feed() int32 {
	return (e.M*(256-e.Phase) + e.E*e.Phase) / 256
}

// phaseWeight is how much each figure counts towards "still midgame".
var phaseWeight = [board.FigureArraySize]int32{0, 0, 1, 1, 2, 4, 0}

const totalPhase = 4*1 + 4*1 + 4*2 + 2*4 // 4 knights+bishops, 4 rooks, 2 queens at full strength

// computePhase returns the game phase, 0 (all major/minor pieces present,
// full midgame) to 256 (no major/minor pieces, full endgame).
func computePhase(pos *board.Position) int32 {
	total := int32(0)
	for fig := board.Knight; fig <= board.Queen; fig++ {
		total += phaseWeight[fig] * int32(pos.ByFigure[fig].Popcnt())
	}
	phase := totalPhase - total
	if phase < 0 {
		phase = 0
	}
	return phase * 256 / totalPhase
}
