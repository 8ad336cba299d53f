// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package endgame

import "github.com/corvidchess/corvid/board"

// KPK bitbase result values, 2 bits per position per spec.md §4.7 ("a
// 2-bit-per-position array indexed by normalized piece squares").
const (
	bbUnknown uint8 = iota
	bbDraw
	bbWin
)

const (
	kpkPawnFiles  = 4  // a..d; e..h mirrors onto this by file symmetry
	kpkPawnRanks  = 6  // ranks 2..7; rank 1/8 are unreachable for a pawn
	kpkPawnCoords = kpkPawnFiles * kpkPawnRanks
	kpkSize       = kpkPawnCoords * 64 * 64 * 2
)

// kpkTable is packed 2 bits per entry into []uint32, the storage shape
// spec.md calls for; generateKPK fills it once at init via retrograde
// analysis instead of loading an offline-generated blob (no build
// pipeline can run in this environment -- see DESIGN.md).
var kpkTable []uint32

func kpkGet(idx int) uint8 {
	word := kpkTable[idx/16]
	shift := uint((idx % 16) * 2)
	return uint8(word>>shift) & 3
}

func kpkSet(idx int, v uint8) {
	word := idx / 16
	shift := uint((idx % 16) * 2)
	kpkTable[word] &^= 3 << shift
	kpkTable[word] |= uint32(v) << shift
}

// kpkCoord encodes a pawn square already mirrored to file a..d into
// spec.md's "file + 4*(rank-1)" scheme (24 values, ranks 2..7).
func kpkCoord(pawn board.Square) int {
	return pawn.File() + kpkPawnFiles*(pawn.Rank()-1)
}

func kpkIndex(stm board.Color, strongKing, weakKing, pawn board.Square) int {
	idx := kpkCoord(pawn)
	idx = idx*64 + int(strongKing)
	idx = idx*64 + int(weakKing)
	idx = idx*2
	if stm == board.Black {
		idx++
	}
	return idx
}

func kpkValidSquares(strongKing, weakKing, pawn board.Square) bool {
	if strongKing == weakKing || strongKing == pawn || weakKing == pawn {
		return false
	}
	return board.KingDistance(strongKing, weakKing) > 1
}

// kpkPosition builds the synthetic White-king/White-pawn/Black-king
// position a KPK table index describes. The strong side is always
// mapped onto White internally (canonicalized by Probe before this
// table is consulted), so the generator only ever needs to reason
// about one color assignment.
func kpkPosition(strongKing, weakKing, pawn board.Square, stm board.Color) *board.Position {
	pos := board.NewPosition()
	pos.Put(strongKing, board.WhiteKing)
	pos.Put(pawn, board.WhitePawn)
	pos.Put(weakKing, board.BlackKing)
	pos.SideToMove = stm
	return pos
}

// queenVsKingIsWin decides, for the position immediately after White's
// pawn promotes to a queen (Black to move), whether the resulting
// K+Q vs K is winning. It always is, with one exception: the queen
// sits en prise to the bare king and White's king doesn't defend it,
// letting Black capture for an immediate draw. Every other K+Q vs K
// position (any legal position, not just ones reachable from this
// exception) is a textbook win, so this single check is sufficient.
func queenVsKingIsWin(strongKing, weakKing, queen board.Square) bool {
	queenHangs := board.KingDistance(weakKing, queen) <= 1
	queenDefended := board.KingDistance(strongKing, queen) <= 1
	return !queenHangs || queenDefended
}

// generateKPK fills kpkTable by retrograde fixed-point analysis: a
// White-to-move position is a win if some move reaches a win; a
// Black-to-move position is a win (for White) if Black has no escape
// (checkmate, or every legal move reaches a White-to-move win).
// Positions settle monotonically from bbUnknown to bbWin across
// repeated sweeps; whatever never becomes bbWin is bbDraw.
func generateKPK() []uint32 {
	words := (kpkSize + 15) / 16
	packed := make([]uint32, words)
	scratch := make([]uint8, kpkSize)

	for {
		changed := false
		for coord := 0; coord < kpkPawnCoords; coord++ {
			pawn := board.RankFile(coord/kpkPawnFiles+1, coord%kpkPawnFiles)
			for wk := board.SquareMinValue; wk <= board.SquareMaxValue; wk++ {
				for bk := board.SquareMinValue; bk <= board.SquareMaxValue; bk++ {
					if !kpkValidSquares(wk, bk, pawn) {
						continue
					}
					for _, stm := range [2]board.Color{board.White, board.Black} {
						idx := kpkIndex(stm, wk, bk, pawn)
						if scratch[idx] == bbWin {
							continue
						}
						if classifyKPK(scratch, wk, bk, pawn, stm) {
							scratch[idx] = bbWin
							changed = true
						}
					}
				}
			}
		}
		if !changed {
			break
		}
	}

	for idx, v := range scratch {
		if v == bbWin {
			word, shift := idx/16, uint((idx%16)*2)
			packed[word] |= uint32(bbWin) << shift
		}
	}
	return packed
}

// classifyKPK reports whether the position (wk, bk, pawn, stm) is
// already provably a White win given the current scratch table.
func classifyKPK(scratch []uint8, wk, bk, pawn board.Square, stm board.Color) bool {
	pos := kpkPosition(wk, bk, pawn, stm)

	var moves []board.Move
	pos.GenerateLegalMoves(board.All, &moves)

	if len(moves) == 0 {
		// White can never be checkmated here (Black has no piece that
		// gives check); Black is mated iff it is in check.
		return stm == board.Black && pos.IsChecked(board.Black)
	}

	if stm == board.White {
		for _, m := range moves {
			if m.MoveType == board.Promotion {
				if m.Promotion().Figure() != board.Queen {
					continue // never the best try if queening wins
				}
				pos.DoMove(m)
				win := queenVsKingIsWin(pos.ByPiece(board.White, board.King).AsSquare(), pos.ByPiece(board.Black, board.King).AsSquare(), m.To)
				pos.UndoMove()
				if win {
					return true
				}
				continue
			}
			pos.DoMove(m)
			childIdx := kpkIndex(board.Black, pos.ByPiece(board.White, board.King).AsSquare(), pos.ByPiece(board.Black, board.King).AsSquare(), pos.ByPiece(board.White, board.Pawn).AsSquare())
			childWin := scratch[childIdx] == bbWin
			pos.UndoMove()
			if childWin {
				return true
			}
		}
		return false
	}

	// Black to move: White wins only if every Black reply is already a
	// proven White win (capturing the pawn always escapes to a bare
	// K vs K draw, so as soon as that capture is legal this position
	// can never be proven a win).
	for _, m := range moves {
		if m.Capture != board.NoPiece {
			return false
		}
		pos.DoMove(m)
		childIdx := kpkIndex(board.White, pos.ByPiece(board.White, board.King).AsSquare(), pos.ByPiece(board.Black, board.King).AsSquare(), pos.ByPiece(board.White, board.Pawn).AsSquare())
		childWin := scratch[childIdx] == bbWin
		pos.UndoMove()
		if !childWin {
			return false
		}
	}
	return true
}

func init() {
	kpkTable = generateKPK()
}

// mirrorFile mirrors a square across the d/e file so a pawn on e..h
// normalizes onto the a..d half the table is built over.
func mirrorFile(sq board.Square) board.Square {
	return board.RankFile(sq.Rank(), 7-sq.File())
}

// probeKPKRaw looks up the canonicalized KPK table, mirroring by file
// when the pawn sits on e..h so only a..d need ever be generated.
func probeKPKRaw(strongKing, weakKing, pawn board.Square, stm board.Color) uint8 {
	if pawn.File() > 3 {
		strongKing, weakKing, pawn = mirrorFile(strongKing), mirrorFile(weakKing), mirrorFile(pawn)
	}
	return kpkGet(kpkIndex(stm, strongKing, weakKing, pawn))
}

// evalKPK implements EvalFunc for the "KPK" signature: White king and
// pawn versus a bare Black king (or the mirror, Black to move with the
// pawn). strongSide tells us which color actually owns the pawn;
// squares are translated onto the White-owns-the-pawn table the
// generator built, then the verdict translated back and the result
// made relative to White's point of view as EvalFunc requires.
func evalKPK(pos *board.Position, strongSide board.Color) int32 {
	weakSide := strongSide.Opposite()
	strongKing := pos.ByPiece(strongSide, board.King).AsSquare()
	weakKing := pos.ByPiece(weakSide, board.King).AsSquare()
	pawn := pos.ByPiece(strongSide, board.Pawn).AsSquare()
	stm := pos.SideToMove

	if strongSide == board.Black {
		strongKing, weakKing, pawn = mirrorRankSquare(strongKing), mirrorRankSquare(weakKing), mirrorRankSquare(pawn)
		stm = stm.Opposite()
	}

	verdict := probeKPKRaw(strongKing, weakKing, pawn, stm)

	var score int32
	if verdict == bbWin {
		score = mateScore + int32(pos.ByPiece(strongSide, board.Pawn).Popcnt())*100
	} else {
		score = 0
	}
	if strongSide == board.Black {
		score = -score
	}
	return score
}

// mirrorRankSquare flips a square top-to-bottom, translating a
// Black-strong-side KPK position onto the White-strong-side table the
// generator was built for.
func mirrorRankSquare(sq board.Square) board.Square {
	return board.RankFile(7-sq.Rank(), sq.File())
}

func init() {
	registerSpecialist("KPK", evalKPK)
}
