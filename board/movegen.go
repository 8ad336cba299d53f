// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

func (pos *Position) genPawnPromotions(kind int, moves *[]Move) {
	if kind&(Violent|Tactical) == 0 {
		return
	}

	// Tactical -> Knight..Rook underpromotions. Violent -> Queen only.
	pMin, pMax := Queen, Rook
	if kind&Violent != 0 {
		pMax = Queen
	}
	if kind&Tactical != 0 {
		pMin = Knight
	}

	us := pos.SideToMove
	them := us.Opposite()

	all := pos.ByColor[White] | pos.ByColor[Black]
	ours := pos.ByPiece(us, Pawn)
	theirs := pos.ByColor[them]

	forward := Square(0)
	if us == White {
		ours &= BbRank7
		forward = RankFile(+1, 0)
	} else {
		ours &= BbRank2
		forward = RankFile(-1, 0)
	}

	for ours != 0 {
		from := ours.Pop()
		to := from + forward

		if !all.Has(to) {
			for p := pMin; p <= pMax; p++ {
				*moves = append(*moves, MakeMove(Promotion, from, to, NoPiece, ColorFigure(us, p)))
			}
		}
		if to.File() != 0 && theirs.Has(to-1) {
			capt := pos.Get(to - 1)
			for p := pMin; p <= pMax; p++ {
				*moves = append(*moves, MakeMove(Promotion, from, to-1, capt, ColorFigure(us, p)))
			}
		}
		if to.File() != 7 && theirs.Has(to+1) {
			capt := pos.Get(to + 1)
			for p := pMin; p <= pMax; p++ {
				*moves = append(*moves, MakeMove(Promotion, from, to+1, capt, ColorFigure(us, p)))
			}
		}
	}
}

func (pos *Position) genPawnAdvanceMoves(kind int, moves *[]Move) {
	if kind&Quiet == 0 {
		return
	}

	ours := pos.ByPiece(pos.SideToMove, Pawn)
	occu := pos.ByColor[White] | pos.ByColor[Black]
	pawn := ColorFigure(pos.SideToMove, Pawn)

	var forward Square
	if pos.SideToMove == White {
		ours = ours &^ South(occu) &^ BbRank7
		forward = RankFile(+1, 0)
	} else {
		ours = ours &^ North(occu) &^ BbRank2
		forward = RankFile(-1, 0)
	}

	for ours != 0 {
		from := ours.Pop()
		to := from + forward
		*moves = append(*moves, MakeMove(Normal, from, to, NoPiece, pawn))
	}
}

func (pos *Position) genPawnDoubleAdvanceMoves(kind int, moves *[]Move) {
	if kind&Quiet == 0 {
		return
	}

	ours := pos.ByPiece(pos.SideToMove, Pawn)
	occu := pos.ByColor[White] | pos.ByColor[Black]
	pawn := ColorFigure(pos.SideToMove, Pawn)

	var forward Square
	if pos.SideToMove == White {
		ours &= RankBb(1) &^ South(occu) &^ South(South(occu))
		forward = RankFile(+2, 0)
	} else {
		ours &= RankBb(6) &^ North(occu) &^ North(North(occu))
		forward = RankFile(-2, 0)
	}

	for ours != 0 {
		from := ours.Pop()
		to := from + forward
		*moves = append(*moves, MakeMove(Normal, from, to, NoPiece, pawn))
	}
}

func (pos *Position) pawnCapture(to Square) (MoveType, Piece) {
	if pos.IsEnpassantSquare(to) {
		return Enpassant, ColorFigure(pos.SideToMove.Opposite(), Pawn)
	}
	return Normal, pos.Get(to)
}

func (pos *Position) genPawnAttackMoves(kind int, moves *[]Move) {
	if kind&Violent == 0 {
		return
	}

	theirs := pos.ByColor[pos.SideToMove.Opposite()]
	if pos.curr.EnpassantSquare[0] != SquareA1 {
		theirs |= pos.curr.EnpassantSquare[0].Bitboard()
	}

	forward := 0
	pawn := ColorFigure(pos.SideToMove, Pawn)
	ours := pos.ByPiece(pos.SideToMove, Pawn)
	if pos.SideToMove == White {
		ours = ours &^ BbRank7
		theirs = South(theirs)
		forward = +1
	} else {
		ours = ours &^ BbRank2
		theirs = North(theirs)
		forward = -1
	}

	att := RankFile(forward, -1)
	for bbl := ours & East(theirs); bbl > 0; {
		from := bbl.Pop()
		to := from + att
		mt, capt := pos.pawnCapture(to)
		*moves = append(*moves, MakeMove(mt, from, to, capt, pawn))
	}

	att = RankFile(forward, +1)
	for bbr := ours & West(theirs); bbr > 0; {
		from := bbr.Pop()
		to := from + att
		mt, capt := pos.pawnCapture(to)
		*moves = append(*moves, MakeMove(mt, from, to, capt, pawn))
	}
}

func (pos *Position) genBitboardMoves(pi Piece, from Square, att Bitboard, moves *[]Move) {
	for att != 0 {
		to := att.Pop()
		*moves = append(*moves, MakeMove(Normal, from, to, pos.Get(to), pi))
	}
}

func (pos *Position) getMask(kind int) Bitboard {
	mask := Bitboard(0)
	if kind&Violent != 0 {
		mask |= pos.ByColor[pos.SideToMove.Opposite()]
	}
	if kind&Quiet != 0 {
		mask |= ^(pos.ByColor[White] | pos.ByColor[Black])
	}
	return mask
}

func (pos *Position) genKnightMoves(kind int, moves *[]Move) {
	mask := pos.getMask(kind)
	pi := ColorFigure(pos.SideToMove, Knight)
	for bb := pos.ByPiece(pos.SideToMove, Knight); bb != 0; {
		from := bb.Pop()
		att := bbKnightAttack[from] & mask
		pos.genBitboardMoves(pi, from, att, moves)
	}
}

func (pos *Position) genBishopMoves(fig Figure, kind int, moves *[]Move) {
	mask := pos.getMask(kind)
	pi := ColorFigure(pos.SideToMove, fig)
	ref := pos.ByColor[White] | pos.ByColor[Black]
	for bb := pos.ByPiece(pos.SideToMove, fig); bb != 0; {
		from := bb.Pop()
		att := bishopMagic[from].Attack(ref) & mask
		pos.genBitboardMoves(pi, from, att, moves)
	}
}

func (pos *Position) genRookMoves(fig Figure, kind int, moves *[]Move) {
	mask := pos.getMask(kind)
	pi := ColorFigure(pos.SideToMove, fig)
	ref := pos.ByColor[White] | pos.ByColor[Black]
	for bb := pos.ByPiece(pos.SideToMove, fig); bb != 0; {
		from := bb.Pop()
		att := rookMagic[from].Attack(ref) & mask
		pos.genBitboardMoves(pi, from, att, moves)
	}
}

func (pos *Position) genKingMovesNear(kind int, moves *[]Move) {
	mask := pos.getMask(kind)
	pi := ColorFigure(pos.SideToMove, King)
	from := pos.ByPiece(pos.SideToMove, King).AsSquare()
	att := bbKingAttack[from] & mask
	pos.genBitboardMoves(pi, from, att, moves)
}

func (pos *Position) genKingCastles(kind int, moves *[]Move) {
	if kind&Tactical == 0 {
		return
	}

	rank := pos.SideToMove.KingHomeRank()
	oo, ooo := WhiteOO, WhiteOOO
	if pos.SideToMove == Black {
		oo, ooo = BlackOO, BlackOOO
	}
	other := pos.SideToMove.Opposite()

	if pos.curr.CastlingAbility&oo != 0 {
		r5, r6 := RankFile(rank, 5), RankFile(rank, 6)
		if pos.IsEmpty(r5) && pos.IsEmpty(r6) {
			r4 := RankFile(rank, 4)
			if pos.GetAttacker(r4, other) == NoFigure &&
				pos.GetAttacker(r5, other) == NoFigure &&
				pos.GetAttacker(r6, other) == NoFigure {
				*moves = append(*moves, MakeMove(Castling, r4, r6, NoPiece, ColorFigure(pos.SideToMove, King)))
			}
		}
	}

	if pos.curr.CastlingAbility&ooo != 0 {
		r3, r2, r1 := RankFile(rank, 3), RankFile(rank, 2), RankFile(rank, 1)
		if pos.IsEmpty(r3) && pos.IsEmpty(r2) && pos.IsEmpty(r1) {
			r4 := RankFile(rank, 4)
			if pos.GetAttacker(r4, other) == NoFigure &&
				pos.GetAttacker(r3, other) == NoFigure &&
				pos.GetAttacker(r2, other) == NoFigure {
				*moves = append(*moves, MakeMove(Castling, r4, r2, NoPiece, ColorFigure(pos.SideToMove, King)))
			}
		}
	}
}

// GenerateMoves appends to moves all pseudo-legal moves of the given kind
// (a combination of Quiet, Tactical, Violent). Pseudo-legal means a move
// may leave the moving side's own king in check; callers filter with
// GenerateLegalMoves or IsChecked after DoMove.
func (pos *Position) GenerateMoves(kind int, moves *[]Move) {
	// Order matters: later quiet moves get reduced more during search, and
	// this order was chosen by benchmarking a number of permutations.
	pos.genKingMovesNear(kind, moves)
	pos.genPawnDoubleAdvanceMoves(kind, moves)
	pos.genRookMoves(Rook, kind, moves)
	pos.genBishopMoves(Queen, kind, moves)
	pos.genPawnAttackMoves(kind, moves)
	pos.genPawnAdvanceMoves(kind, moves)
	pos.genPawnPromotions(kind, moves)
	pos.genKnightMoves(kind, moves)
	pos.genBishopMoves(Bishop, kind, moves)
	pos.genKingCastles(kind, moves)
	pos.genRookMoves(Queen, kind, moves)
}

// GenerateFigureMoves appends to moves all pseudo-legal moves of fig.
func (pos *Position) GenerateFigureMoves(fig Figure, kind int, moves *[]Move) {
	switch fig {
	case Pawn:
		pos.genPawnAdvanceMoves(kind, moves)
		pos.genPawnAttackMoves(kind, moves)
		pos.genPawnDoubleAdvanceMoves(kind, moves)
		pos.genPawnPromotions(kind, moves)
	case Knight:
		pos.genKnightMoves(kind, moves)
	case Bishop:
		pos.genBishopMoves(Bishop, kind, moves)
	case Rook:
		pos.genRookMoves(Rook, kind, moves)
	case Queen:
		pos.genBishopMoves(Queen, kind, moves)
		pos.genRookMoves(Queen, kind, moves)
	case King:
		pos.genKingMovesNear(kind, moves)
		pos.genKingCastles(kind, moves)
	}
}

// IsPseudoLegal reports whether m could be played right now: the moving
// piece sits on From, the target square holds what m claims, and m
// appears among the pseudo-legal moves for that figure. Search uses this
// to validate a hash or killer move cheaply before trying it, without
// generating and scanning the full move list for every ply.
func (pos *Position) IsPseudoLegal(m Move) bool {
	if m == NullMove {
		return false
	}
	pi := pos.Get(m.From)
	if pi == NoPiece || pi.Color() != pos.SideToMove || pi != m.Piece() {
		return false
	}
	if m.MoveType != Enpassant {
		target := pos.Get(m.To)
		if (target != NoPiece) != (m.Capture != NoPiece) || target != m.Capture {
			return false
		}
	}

	var kind int
	switch {
	case m.MoveType == Castling:
		kind = Tactical
	case m.IsViolent():
		kind = Violent | Tactical
	default:
		kind = Quiet
	}

	var moves []Move
	pos.GenerateFigureMoves(pi.Figure(), kind, &moves)
	for _, mm := range moves {
		if mm == m {
			return true
		}
	}
	return false
}

// GenerateLegalMoves appends to moves all fully legal moves of the given
// kind, filtering out those that leave the moving side's king in check
// (including, implicitly, moves that would walk through check while
// castling — already rejected by genKingCastles).
func (pos *Position) GenerateLegalMoves(kind int, moves *[]Move) {
	us := pos.SideToMove
	var pseudo []Move
	pos.GenerateMoves(kind, &pseudo)
	for _, m := range pseudo {
		pos.DoMove(m)
		if !pos.IsChecked(us) {
			*moves = append(*moves, m)
		}
		pos.UndoMove()
	}
}

// HasLegalMove returns true if side to move has at least one legal move,
// without materializing the full move list — used for stalemate/checkmate
// detection where only the existence of an escape matters.
func (pos *Position) HasLegalMove() bool {
	us := pos.SideToMove
	var pseudo []Move
	pos.GenerateMoves(All, &pseudo)
	for _, m := range pseudo {
		pos.DoMove(m)
		legal := !pos.IsChecked(us)
		pos.UndoMove()
		if legal {
			return true
		}
	}
	return false
}
