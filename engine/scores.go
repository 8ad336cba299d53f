// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "github.com/corvidchess/corvid/board"

const (
	// KnownWinScore is strictly greater than any evaluation score, mate
	// scores excluded.
	KnownWinScore int32 = 25000
	// KnownLossScore is strictly smaller than any evaluation score, mated
	// scores excluded.
	KnownLossScore int32 = -KnownWinScore
	// MateScore - N is mate in N plies.
	MateScore int32 = 30000
	// MatedScore + N is mated in N plies.
	MatedScore int32 = -MateScore
	// InfinityScore bounds the search window; -InfinityScore is the
	// minimum possible score.
	InfinityScore int32 = 32000
)

// futilityFigureBonus estimates the most a capture of fig can swing the
// static evaluation by, for isFutile's frontier pruning.
var futilityFigureBonus = [board.FigureArraySize]int32{0, 100, 360, 380, 715, 1265, 0}

func max(a, b int32) int32 {
	if a >= b {
		return a
	}
	return b
}

func min(a, b int32) int32 {
	if a <= b {
		return a
	}
	return b
}
