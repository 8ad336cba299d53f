// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// cuckoo.go detects upcoming repetitions in O(1). For any reversible
// knight/bishop/rook/queen/king move, the Zobrist delta of playing it
// forward equals the delta of playing it backward, so XORing the
// current key with an ancestor's key recovers the delta of a single
// move — if that delta lands in this table, a repetition is one ply
// away. Adapted from the well known cuckoo-hashing technique described at
// https://web.archive.org/web/20201107002606/https://marcelk.net/2013-04-06/paper/upcoming-rep-v2.pdf
package board

const cuckooSize = 8192

var (
	cuckooKey  [cuckooSize]uint64
	cuckooMove [cuckooSize]cuckooEntry
)

type cuckooEntry struct {
	From, To Square
	Piece    Piece
}

func cuckooH1(key uint64) uint32 {
	return uint32(key) & (cuckooSize - 1)
}

func cuckooH2(key uint64) uint32 {
	return uint32(key>>16) & (cuckooSize - 1)
}

// pseudoAttack reports whether fig placed on s1 attacks s2 on an
// otherwise empty board.
func pseudoAttack(fig Figure, s1, s2 Square) bool {
	switch fig {
	case Knight:
		return bbKnightAttack[s1].Has(s2)
	case Bishop:
		return bishopMagic[s1].Attack(0).Has(s2)
	case Rook:
		return rookMagic[s1].Attack(0).Has(s2)
	case Queen:
		return bishopMagic[s1].Attack(0).Has(s2) || rookMagic[s1].Attack(0).Has(s2)
	case King:
		return bbKingAttack[s1].Has(s2)
	}
	return false
}

func init() {
	for _, pi := range allPieces {
		if pi.Figure() == Pawn {
			continue
		}
		for s1 := SquareMinValue; s1 <= SquareMaxValue; s1++ {
			for s2 := s1 + 1; s2 <= SquareMaxValue; s2++ {
				if !pseudoAttack(pi.Figure(), s1, s2) {
					continue
				}

				key := zobristPiece[pi][s1] ^ zobristPiece[pi][s2] ^ zobristColor[White] ^ zobristColor[Black]
				move := cuckooEntry{From: s1, To: s2, Piece: pi}

				i := cuckooH1(key)
				for {
					cuckooKey[i], key = key, cuckooKey[i]
					cuckooMove[i], move = move, cuckooMove[i]
					if move == (cuckooEntry{}) {
						break
					}
					if i == cuckooH1(key) {
						i = cuckooH2(key)
					} else {
						i = cuckooH1(key)
					}
				}
			}
		}
	}
}

// HasUpcomingRepetition reports whether playing one more move from pos
// can reach a position already on the states stack since the last
// irreversible move. Search uses this to treat such positions as draws
// early, before the position actually repeats three times.
//
// An ancestor state reachable by a single move has the side to move
// that pos would have after one more ply, so only odd ply-distances are
// candidates; distance 1 (the immediately preceding position) is always
// a spurious match — it just reflects the move that was last played —
// so the search starts at distance 3.
func (pos *Position) HasUpcomingRepetition() bool {
	end := pos.curr.IrreversiblePly
	if pos.Ply-end < 3 {
		return false
	}

	all := pos.ByColor[White] | pos.ByColor[Black]
	originalKey := pos.Zobrist()

	for ply := pos.Ply - 3; ply >= end; ply -= 2 {
		moveKey := originalKey ^ pos.states[ply].Zobrist

		i := cuckooH1(moveKey)
		if cuckooKey[i] != moveKey {
			i = cuckooH2(moveKey)
			if cuckooKey[i] != moveKey {
				continue
			}
		}

		entry := cuckooMove[i]
		switch entry.Piece.Figure() {
		case Bishop:
			if !bishopMagic[entry.From].Attack(all).Has(entry.To) {
				continue
			}
		case Rook:
			if !rookMagic[entry.From].Attack(all).Has(entry.To) {
				continue
			}
		case Queen:
			if !bishopMagic[entry.From].Attack(all).Has(entry.To) && !rookMagic[entry.From].Attack(all).Has(entry.To) {
				continue
			}
		}

		if pi := pos.Get(entry.From); pi != NoPiece {
			if pi != entry.Piece || !pos.IsEmpty(entry.To) {
				continue
			}
		} else if pi := pos.Get(entry.To); pi != entry.Piece || !pos.IsEmpty(entry.From) {
			continue
		}

		return true
	}
	return false
}
