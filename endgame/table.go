// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package endgame implements material-signature-keyed endgame
// specializations: a direct-mapped registry of hand-written evaluators
// for specific piece combinations (KBNK, KRKP, KPK, KPKP, ...)
// plus a generic KXK mating-of-a-lone-king override (which also covers
// KQK; no KQK-specific evaluator is registered), consulted by the
// search before it falls back to the classical or NNUE evaluator.
package endgame

import "github.com/corvidchess/corvid/board"

// EvalFunc scores pos from White's point of view, the same contract
// engine.Evaluator requires of the classical and NNUE evaluators.
// strongSide tells the specialist which side owns the extra material,
// since the same signature (e.g. "KBNK" vs its mirror) is registered
// for both colors against one shared function.
type EvalFunc func(pos *board.Position, strongSide board.Color) int32

type entry struct {
	key        uint64
	eval       EvalFunc
	strongSide board.Color
}

// tableSize is the direct-mapped registry's slot count, per spec.md
// §4.7. Two registered signatures sharing a slot make register panic;
// lookup compares the stored 64-bit key to reject any other material
// signature that maps to an occupied slot.
const tableSize = 256

var table [tableSize]*entry

func register(key uint64, strongSide board.Color, fn EvalFunc) {
	e := &entry{key: key, eval: fn, strongSide: strongSide}
	slot := key % tableSize
	if table[slot] != nil {
		panic("endgame: table slot collision during registration")
	}
	table[slot] = e
}

// pieceLetters maps a signature letter, including each side's 'K', to a
// Figure.
var pieceLetters = map[byte]board.Figure{
	'P': board.Pawn,
	'N': board.Knight,
	'B': board.Bishop,
	'R': board.Rook,
	'Q': board.Queen,
	'K': board.King,
}

func piecesFor(letters string, col board.Color) []board.Piece {
	pieces := make([]board.Piece, 0, len(letters))
	for i := 0; i < len(letters); i++ {
		fig, ok := pieceLetters[letters[i]]
		if !ok {
			panic("endgame: unknown piece letter " + string(letters[i]))
		}
		pieces = append(pieces, board.ColorFigure(col, fig))
	}
	return pieces
}

// splitSignature splits a signature like "KBNK" into its White and
// Black halves ("KBN", "K"): the second 'K' in the string marks where
// Black's pieces begin.
func splitSignature(sig string) (white, black string) {
	idx := 1
	for sig[idx] != 'K' {
		idx++
	}
	return sig[:idx], sig[idx:]
}

// registerSpecialist registers fn for sig, where sig's White half is
// the side with the extra material (e.g. "KBNK", "KQKR"). If the two
// halves describe the same material (e.g. "KPKP"), only one entry is
// registered with strongSide fixed to White, per spec.md §4.7 ("both
// perspectives generate entries unless the signature is color-
// symmetric, in which case strong side = White"). Otherwise a mirrored
// entry is also registered with the material swapped and strongSide
// set to Black, so the same fn handles either side owning the
// material regardless of which color the search's Position has it on.
func registerSpecialist(sig string, fn EvalFunc) {
	white, black := splitSignature(sig)

	whitePieces := piecesFor(white, board.White)
	blackPieces := piecesFor(black, board.Black)
	key := board.MaterialKeyFor(append(append([]board.Piece{}, whitePieces...), blackPieces...)...)
	register(key, board.White, fn)

	if white == black {
		return
	}

	mirroredWhite := piecesFor(black, board.White)
	mirroredBlack := piecesFor(white, board.Black)
	mirroredKey := board.MaterialKeyFor(append(append([]board.Piece{}, mirroredWhite...), mirroredBlack...)...)
	register(mirroredKey, board.Black, fn)
}

// lookup returns the registered entry for pos's exact material
// signature, or nil if none is registered.
func lookup(pos *board.Position) *entry {
	key := pos.EndgameKey()
	e := table[key%tableSize]
	if e == nil || e.key != key {
		return nil
	}
	return e
}

// Probe returns the specialist evaluation for pos and true if one
// applies: either a generic KXK mate-the-lone-king override, or a
// registered material-signature specialist. Callers (search.go) fall
// back to the classical/NNUE evaluator when Probe returns false.
func Probe(pos *board.Position) (int32, bool) {
	if score, ok := probeKXK(pos); ok {
		return score, ok
	}
	if e := lookup(pos); e != nil {
		return e.eval(pos, e.strongSide), true
	}
	return 0, false
}
