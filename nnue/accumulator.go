// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package nnue

import "github.com/corvidchess/corvid/board"

// TransformedFeatureDimensions is the width of the feature transformer's
// output, i.e. how many int16 accumulators each perspective carries.
// Kept small (hailam's sfnnue uses hundreds; this repo has no trained
// weight file to justify a wide net, see DESIGN.md) but wide enough to
// exercise a real clipped-ReLU hidden layer on top.
const TransformedFeatureDimensions = 16

// Accumulator holds one perspective's transformed feature vector: the
// running sum of FeatureWeights rows for every active feature plus
// FeatureBias, maintained incrementally by Network.applyDelta or
// rebuilt from scratch by Network.refresh.
type Accumulator struct {
	values [TransformedFeatureDimensions]int16
}

// Pair carries both perspectives' accumulators plus the ply they were
// last synced against, which is exactly the per-position bookkeeping
// board.Accum itself can't hold (it has no notion of network weights).
type Pair struct {
	acc    [board.ColorArraySize]Accumulator
	ply    int
	synced bool
}

// reset rebuilds both perspectives of p from scratch against pos.
func (p *Pair) reset(net *Network, pos *board.Position) {
	for _, c := range []board.Color{board.White, board.Black} {
		net.refresh(&p.acc[c], pos, c)
	}
	p.ply = pos.Ply
	p.synced = true
	pos.Accum.NeedsRefresh[board.White] = false
	pos.Accum.NeedsRefresh[board.Black] = false
}

// sync brings p up to date with pos, taking the cheapest path available:
// a full rebuild if p has never been synced or pos is not exactly one
// ply past the last synced position (e.g. after UndoMove, which board.Position
// always flags both NeedsRefresh bits for, since deltas aren't stacked
// for takebacks), otherwise an incremental update per perspective,
// refreshing only the side whose king moved.
func (p *Pair) sync(net *Network, pos *board.Position) {
	if !p.synced {
		p.reset(net, pos)
		return
	}
	if pos.Ply != p.ply+1 {
		p.reset(net, pos)
		return
	}

	for _, c := range []board.Color{board.White, board.Black} {
		if pos.Accum.NeedsRefresh[c] {
			net.refresh(&p.acc[c], pos, c)
			pos.Accum.NeedsRefresh[c] = false
			continue
		}
		kingSq := pos.ByPiece(c, board.King).AsSquare()
		for _, delta := range pos.Accum.Pending {
			if delta.Piece.Figure() == board.King {
				continue
			}
			net.applyDelta(&p.acc[c], c, kingSq, delta)
		}
	}
	p.ply = pos.Ply
}
