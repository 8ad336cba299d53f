// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

// kingDistance[i][j] is the number of king steps needed to go from
// square i to square j on an empty board.
var kingDistance [SquareArraySize][SquareArraySize]int32

func maxI32(a, b int32) int32 {
	if a >= b {
		return a
	}
	return b
}

func minI32(a, b int32) int32 {
	if a <= b {
		return a
	}
	return b
}

func init() {
	for i := SquareMinValue; i <= SquareMaxValue; i++ {
		for j := SquareMinValue; j <= SquareMaxValue; j++ {
			f, r := int32(i.File()-j.File()), int32(i.Rank()-j.Rank())
			f, r = maxI32(f, -f), maxI32(r, -r)
			kingDistance[i][j] = maxI32(f, r)
		}
	}
}

// KingDistance returns the number of king steps from a to b on an empty board.
func KingDistance(a, b Square) int32 {
	return kingDistance[a][b]
}
