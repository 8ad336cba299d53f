// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import "math/rand"

// endgameZobrist[pi] contributes to EndgameKey independently of square,
// so EndgameKey depends only on which pieces exist, not where they sit —
// the material signature the endgame specialist registry indexes on.
var endgameZobrist [PieceArraySize]uint64

func init() {
	r := rand.New(rand.NewSource(2))
	for _, pi := range allPieces {
		endgameZobrist[pi] = rand64(r)
	}
}

// MaterialSignature summarizes the piece counts on the board, used as a
// lookup key into the direct-mapped endgame specialist table alongside
// EndgameKey (which disambiguates a rare same-signature hash collision).
type MaterialSignature struct {
	Count [PieceArraySize]uint8
}

// Signature computes the current material signature.
func (pos *Position) Signature() MaterialSignature {
	var sig MaterialSignature
	for _, pi := range allPieces {
		sig.Count[pi] = uint8(pos.ByPiece(pi.Color(), pi.Figure()).Popcnt())
	}
	return sig
}

// TotalPieces returns the number of pieces on the board, including kings.
func (pos *Position) TotalPieces() int {
	return (pos.ByColor[White] | pos.ByColor[Black]).Popcnt()
}

// MaterialKeyFor computes the same hash Position.EndgameKey maintains
// incrementally, but for an arbitrary piece list instead of a live
// position -- what the endgame package's specialist registry needs to
// compute a lookup key for "KBNK" et al. without building a position.
func MaterialKeyFor(pieces ...Piece) uint64 {
	var key uint64
	for _, pi := range pieces {
		key ^= endgameZobrist[pi]
	}
	return key
}
