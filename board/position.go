// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// Move generation kinds, combined with bitwise or.
const (
	Quiet    int = 1 << iota // no capture, no castling, no promotion
	Tactical                 // castling and underpromotions (including captures)
	Violent                  // captures and queen promotions
	All      = Quiet | Tactical | Violent
)

// FENStartPos is the starting position in Forsyth-Edwards notation.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// lostCastleRights[sq] is the set of castling rights lost when a piece
// leaves or a rook is captured on sq.
var lostCastleRights [SquareArraySize]Castle

func init() {
	lostCastleRights[SquareA1] = WhiteOOO
	lostCastleRights[SquareE1] = WhiteOOO | WhiteOO
	lostCastleRights[SquareH1] = WhiteOO
	lostCastleRights[SquareA8] = BlackOOO
	lostCastleRights[SquareE8] = BlackOOO | BlackOO
	lostCastleRights[SquareH8] = BlackOO
}

// state is the per-ply undo record pushed by DoMove and popped by
// UndoMove. Position.states is the explicit undo stack the redesign
// calls for, indexed by ply rather than folded into the Move itself.
type state struct {
	CastlingAbility Castle
	EnpassantSquare [2]Square // [0] = polyglot-adjusted, [1] = raw FEN value
	IrreversiblePly int
	Zobrist         uint64
	EndgameKey      uint64
	Move            Move // move that produced this state, for UndoMove
}

// Position encodes a chess board and its irreversible state history.
type Position struct {
	ByFigure   [FigureArraySize]Bitboard
	ByColor    [ColorArraySize]Bitboard
	SideToMove Color

	HalfMoveClock  int
	FullMoveNumber int
	Ply            int

	states []state
	curr   *state

	// Accum holds the NNUE refresh flags and the feature deltas of the
	// last move for this position. It is a field on Position (not a side
	// table) so do/undo can update it; the accumulator values themselves
	// live in the nnue package.
	Accum Accum
}

// NewPosition returns an empty, otherwise zero-valued position.
func NewPosition() *Position {
	pos := &Position{
		FullMoveNumber: 1,
		states:         make([]state, 1),
	}
	pos.curr = &pos.states[pos.Ply]
	pos.Accum.NeedsRefresh = [ColorArraySize]bool{White: true, Black: true}
	return pos
}

// PositionFromFEN parses fen (Forsyth-Edwards Notation) into a Position.
func PositionFromFEN(fen string) (*Position, error) {
	f, p := [6]string{}, 0
	for i := 0; i < len(fen); {
		for ; i < len(fen) && fen[i] == ' '; i++ {
		}
		start := i
		for ; i < len(fen) && fen[i] != ' '; i++ {
		}
		limit := i
		if start == limit {
			continue
		}
		if p >= len(f) {
			return nil, fmt.Errorf("fen has too many fields")
		}
		f[p] = fen[start:limit]
		p++
	}
	if p < len(f) {
		return nil, fmt.Errorf("fen has too few fields")
	}

	pos := NewPosition()
	if err := ParsePiecePlacement(f[0], pos); err != nil {
		return nil, err
	}
	if err := ParseSideToMove(f[1], pos); err != nil {
		return nil, err
	}
	if err := ParseCastlingAbility(f[2], pos); err != nil {
		return nil, err
	}
	if err := ParseEnpassantSquare(f[3], pos); err != nil {
		return nil, err
	}
	var err error
	if pos.HalfMoveClock, err = strconv.Atoi(f[4]); err != nil {
		return nil, err
	}
	if pos.FullMoveNumber, err = strconv.Atoi(f[5]); err != nil {
		return nil, err
	}
	return pos, nil
}

// String returns the position in FEN format.
func (pos *Position) String() string {
	var b strings.Builder
	b.WriteString(FormatPiecePlacement(pos))
	b.WriteByte(' ')
	b.WriteString(FormatSideToMove(pos))
	b.WriteByte(' ')
	b.WriteString(FormatCastlingAbility(pos))
	b.WriteByte(' ')
	b.WriteString(FormatEnpassantSquare(pos))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(pos.HalfMoveClock))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(pos.FullMoveNumber))
	return b.String()
}

func (pos *Position) prev() *state {
	return &pos.states[pos.Ply-1]
}

func (pos *Position) popState() {
	pos.states = pos.states[:pos.Ply]
	pos.Ply--
	pos.curr = &pos.states[pos.Ply]
}

func (pos *Position) pushState() {
	pos.states = append(pos.states, pos.states[pos.Ply])
	pos.Ply++
	pos.curr = &pos.states[pos.Ply]
}

// IsEnpassantSquare returns true if sq is the current enpassant square.
func (pos *Position) IsEnpassantSquare(sq Square) bool {
	return sq != SquareA1 && sq == pos.EnpassantSquare()
}

// EnpassantSquare returns the current enpassant square, or SquareA1 if none.
func (pos *Position) EnpassantSquare() Square {
	return pos.curr.EnpassantSquare[1]
}

// CastlingAbility returns the remaining castling rights.
func (pos *Position) CastlingAbility() Castle {
	return pos.curr.CastlingAbility
}

// Zobrist returns the position's Zobrist hash. The random keys come from
// a fixed math/rand seed (see zobrist.go), not from the polyglot book tables.
func (pos *Position) Zobrist() uint64 {
	return pos.curr.Zobrist
}

// EndgameKey returns a hash over piece counts only (not squares), used
// to index the material-signature-keyed endgame specialist registry.
func (pos *Position) EndgameKey() uint64 {
	return pos.curr.EndgameKey
}

// LastMove returns the move that produced the current position, or the
// zero Move at the root.
func (pos *Position) LastMove() Move {
	return pos.curr.Move
}

// Sides returns the side to move and its opponent.
func (pos *Position) Sides() (Color, Color) {
	return pos.SideToMove, pos.SideToMove.Opposite()
}

// NumNonPawns returns the number of minor and major pieces of col.
func (pos *Position) NumNonPawns(col Color) int {
	return (pos.ByColor[col] &^ pos.ByFigure[Pawn] &^ pos.ByFigure[King]).Popcnt()
}

// HasNonPawns returns whether col has any minor or major piece.
func (pos *Position) HasNonPawns(col Color) bool {
	return pos.ByColor[col]&^pos.ByFigure[Pawn]&^pos.ByFigure[King] != 0
}

// Verify checks the position's internal consistency invariants.
func (pos *Position) Verify() error {
	if bb := pos.ByColor[White] & pos.ByColor[Black]; bb != 0 {
		sq := bb.Pop()
		return fmt.Errorf("square %v is both White and Black", sq)
	}
	for col := ColorMinValue; col <= ColorMaxValue; col++ {
		bb := pos.ByPiece(col, King)
		sq := bb.Pop()
		if bb != 0 {
			sq2 := bb.Pop()
			return fmt.Errorf("more than one king for %v at %v and %v", col, sq, sq2)
		}
	}
	for col := ColorMinValue; col <= ColorMaxValue; col++ {
		for bb := pos.ByColor[col]; bb != 0; {
			sq := bb.Pop()
			pi := pos.Get(sq)
			if pi.Color() != col {
				return fmt.Errorf("expected color %v, got %v", col, pi)
			}
		}
	}
	for i, pi1 := range allPieces {
		for _, pi2 := range allPieces[i+1:] {
			if pos.ByPiece(pi1.Color(), pi1.Figure())&pos.ByPiece(pi2.Color(), pi2.Figure()) != 0 {
				return fmt.Errorf("%v and %v overlap", pi1, pi2)
			}
		}
	}
	return nil
}

// allPieces lists every real Piece value; PieceMinValue..PieceMaxValue is
// not contiguous (Piece packs fig<<2+col), so iteration must use this
// slice rather than a ranged for loop.
var allPieces = []Piece{
	WhitePawn, BlackPawn, WhiteKnight, BlackKnight,
	WhiteBishop, BlackBishop, WhiteRook, BlackRook,
	WhiteQueen, BlackQueen, WhiteKing, BlackKing,
}

// SetCastlingAbility sets castling rights, updating the Zobrist key.
func (pos *Position) SetCastlingAbility(castle Castle) {
	if pos.curr.CastlingAbility == castle {
		return
	}
	pos.curr.Zobrist ^= zobristCastle[pos.curr.CastlingAbility]
	pos.curr.CastlingAbility = castle
	pos.curr.Zobrist ^= zobristCastle[pos.curr.CastlingAbility]
}

// SetSideToMove sets the side to move, updating the Zobrist key.
func (pos *Position) SetSideToMove(col Color) {
	pos.curr.Zobrist ^= zobristColor[pos.SideToMove]
	pos.SideToMove = col
	pos.curr.Zobrist ^= zobristColor[pos.SideToMove]
}

// SetEnpassantSquare sets the enpassant square, updating the Zobrist key.
func (pos *Position) SetEnpassantSquare(sq Square) {
	if sq == pos.curr.EnpassantSquare[1] {
		return
	}

	pos.curr.Zobrist ^= zobristEnpassant[pos.curr.EnpassantSquare[0]]
	pos.curr.EnpassantSquare[0] = sq
	pos.curr.EnpassantSquare[1] = sq

	if sq != SquareA1 {
		// Polyglot only folds the enpassant square into the hash when a
		// capture is actually possible next move.
		var theirs Bitboard
		if sq.Rank() == 2 {
			theirs, sq = pos.ByPiece(Black, Pawn), RankFile(3, sq.File())
		} else if sq.Rank() == 5 {
			theirs, sq = pos.ByPiece(White, Pawn), RankFile(4, sq.File())
		} else {
			panic("bad en passant square")
		}

		if (sq.File() == 0 || !theirs.Has(sq-1)) && (sq.File() == 7 || !theirs.Has(sq+1)) {
			pos.curr.EnpassantSquare[0] = SquareA1
		}
	}

	pos.curr.Zobrist ^= zobristEnpassant[pos.curr.EnpassantSquare[0]]
}

// ByPiece is a shortcut for ByColor[col]&ByFigure[fig].
func (pos *Position) ByPiece(col Color, fig Figure) Bitboard {
	return pos.ByColor[col] & pos.ByFigure[fig]
}

// Put places pi on sq. A no-op for NoPiece. Does not validate input.
func (pos *Position) Put(sq Square, pi Piece) {
	if pi != NoPiece {
		pos.curr.Zobrist ^= zobristPiece[pi][sq]
		pos.curr.EndgameKey ^= endgameZobrist[pi]
		col, fig := pi.Color(), pi.Figure()
		bb := sq.Bitboard()
		pos.ByColor[col] |= bb
		pos.ByFigure[fig] |= bb
	}
}

// Remove removes pi from sq. A no-op for NoPiece. Does not validate input.
func (pos *Position) Remove(sq Square, pi Piece) {
	if pi != NoPiece {
		pos.curr.Zobrist ^= zobristPiece[pi][sq]
		pos.curr.EndgameKey ^= endgameZobrist[pi]
		col, fig := pi.Color(), pi.Figure()
		bb := ^sq.Bitboard()
		pos.ByColor[col] &= bb
		pos.ByFigure[fig] &= bb
	}
}

// IsEmpty returns true if no piece sits on sq.
func (pos *Position) IsEmpty(sq Square) bool {
	return (pos.ByColor[White]|pos.ByColor[Black])>>sq&1 == 0
}

// Get returns the piece at sq, or NoPiece.
func (pos *Position) Get(sq Square) Piece {
	var col Color
	if pos.ByColor[White].Has(sq) {
		col = White
	} else if pos.ByColor[Black].Has(sq) {
		col = Black
	} else {
		return NoPiece
	}
	for fig := FigureMinValue; fig <= FigureMaxValue; fig++ {
		if pos.ByFigure[fig].Has(sq) {
			return ColorFigure(col, fig)
		}
	}
	panic("unreachable")
}

// KnightMobility returns all squares a knight on sq attacks.
func (pos *Position) KnightMobility(sq Square) Bitboard {
	return bbKnightAttack[sq]
}

// BishopMobility returns the squares a bishop on sq attacks given occupancy.
func (pos *Position) BishopMobility(sq Square, all Bitboard) Bitboard {
	return bishopMagic[sq].Attack(all)
}

// RookMobility returns the squares a rook on sq attacks given occupancy.
func (pos *Position) RookMobility(sq Square, all Bitboard) Bitboard {
	return rookMagic[sq].Attack(all)
}

// QueenMobility returns the squares a queen on sq attacks given occupancy.
func (pos *Position) QueenMobility(sq Square, all Bitboard) Bitboard {
	return rookMagic[sq].Attack(all) | bishopMagic[sq].Attack(all)
}

// KingMobility returns all squares a king on sq attacks, excluding castling.
func (pos *Position) KingMobility(sq Square) Bitboard {
	return bbKingAttack[sq]
}

// IsThreeFoldRepetition returns whether the current position has
// occurred three times since the last irreversible move.
func (pos *Position) IsThreeFoldRepetition() bool {
	if pos.Ply-pos.curr.IrreversiblePly < 4 {
		return false
	}
	c, z := 0, pos.Zobrist()
	for i := pos.Ply; i >= pos.curr.IrreversiblePly; i -= 2 {
		if pos.states[i].Zobrist == z {
			if c++; c == 3 {
				return true
			}
		}
	}
	return false
}

// ThreeFoldRepetition returns how many times the current position has
// occurred since the last irreversible move, capped at the point search
// needs to know: 1, 2 or 3-or-more.
func (pos *Position) ThreeFoldRepetition() int {
	if pos.Ply-pos.curr.IrreversiblePly < 2 {
		return 1
	}
	c, z := 0, pos.Zobrist()
	for i := pos.Ply; i >= pos.curr.IrreversiblePly; i -= 2 {
		if pos.states[i].Zobrist == z {
			if c++; c >= 3 {
				return 3
			}
		}
	}
	return c
}

// FiftyMoveRule returns true if the last 50 full moves were made without a
// capture or a pawn move.
func (pos *Position) FiftyMoveRule() bool {
	return pos.HalfMoveClock >= 100
}

// InsufficientMaterial returns true if neither side has enough material to
// deliver checkmate: K vs K, K+N vs K or K+B vs K with bishops of a single
// color are draws regardless of the rest of the game.
func (pos *Position) InsufficientMaterial() bool {
	all := pos.ByColor[White] | pos.ByColor[Black]
	if pos.ByFigure[Pawn] != 0 || pos.ByFigure[Rook] != 0 || pos.ByFigure[Queen] != 0 {
		return false
	}
	minors := (pos.ByFigure[Knight] | pos.ByFigure[Bishop]).Popcnt()
	if minors == 0 {
		return true
	}
	if minors == 1 {
		return true
	}
	if pos.ByFigure[Knight] == 0 && minors == int(pos.ByFigure[Bishop].Popcnt()) {
		bishops := pos.ByFigure[Bishop]
		lightSquares := bishops & bbLightSquares
		return lightSquares == bishops || lightSquares == 0
	}
	_ = all
	return false
}

// MinorsAndMajors returns the bitboard of col's knights, bishops, rooks and
// queens — the pieces relevant to null-move and reduction eligibility.
func (pos *Position) MinorsAndMajors(col Color) Bitboard {
	return pos.ByColor[col] & (pos.ByFigure[Knight] | pos.ByFigure[Bishop] | pos.ByFigure[Rook] | pos.ByFigure[Queen])
}

// IsChecked returns true if side's king is attacked.
func (pos *Position) IsChecked(side Color) bool {
	kingSq := pos.ByPiece(side, King).AsSquare()
	return pos.GetAttacker(kingSq, side.Opposite()) != NoFigure
}

// Checkers returns the set of enemy pieces giving check to side's king.
func (pos *Position) Checkers(side Color) Bitboard {
	kingSq := pos.ByPiece(side, King).AsSquare()
	return pos.attackersTo(kingSq, side.Opposite())
}

func (pos *Position) attackersTo(sq Square, by Color) Bitboard {
	enemy := pos.ByColor[by]
	all := pos.ByColor[White] | pos.ByColor[Black]
	var att Bitboard
	att |= enemy & pos.ByFigure[Pawn] & bbPawnAttackFrom(by.Opposite(), sq)
	att |= enemy & pos.ByFigure[Knight] & bbKnightAttack[sq]
	att |= enemy & pos.ByFigure[King] & bbKingAttack[sq]
	att |= enemy & (pos.ByFigure[Bishop] | pos.ByFigure[Queen]) & pos.BishopMobility(sq, all)
	att |= enemy & (pos.ByFigure[Rook] | pos.ByFigure[Queen]) & pos.RookMobility(sq, all)
	return att
}

// bbPawnAttackFrom returns the squares a side's pawn sitting on sq attacks.
func bbPawnAttackFrom(side Color, sq Square) Bitboard {
	if side == White {
		return North(West(sq.Bitboard())) | North(East(sq.Bitboard()))
	}
	return South(West(sq.Bitboard())) | South(East(sq.Bitboard()))
}

// PrettyPrint logs the board in an 8x8 table, for debugging.
func (pos *Position) PrettyPrint() {
	log.Println("zobrist =", pos.Zobrist())
	log.Println("fen =", pos.String())
	for r := 7; r >= 0; r-- {
		line := ""
		for f := 0; f < 8; f++ {
			sq := RankFile(r, f)
			if pos.IsEnpassantSquare(sq) {
				line += ","
			} else {
				line += string(pieceToSymbol[pos.Get(sq)])
			}
		}
		if r == 7 && pos.SideToMove == Black {
			line += " *"
		}
		if r == 0 && pos.SideToMove == White {
			line += " *"
		}
		log.Println(line)
	}
}

// DoMove executes a pseudo-legal move. Accumulator and Zobrist deltas are
// applied before the base piece relocation so a king move's refresh flag
// is visible to the very same DoMove call that moved the king.
func (pos *Position) DoMove(move Move) {
	pos.pushState()
	pos.curr.Move = move

	pi := move.Piece()
	if pi != NoPiece {
		pos.SetCastlingAbility(pos.curr.CastlingAbility &^ lostCastleRights[move.From] &^ lostCastleRights[move.To])
	}
	if move.Capture != NoPiece || pi.Figure() == Pawn {
		pos.curr.IrreversiblePly = pos.Ply
	}
	if move.MoveType == Castling {
		rook, start, end := CastlingRook(move.To)
		pos.Remove(start, rook)
		pos.Put(end, rook)
	}
	if pi.Figure() == Pawn &&
		move.From.Bitboard()&BbPawnStartRank != 0 &&
		move.To.Bitboard()&BbPawnDoubleRank != 0 {
		pos.SetEnpassantSquare((move.From + move.To) / 2)
	} else {
		pos.SetEnpassantSquare(SquareA1)
	}

	pos.updateAccumulator(move, pi)

	pos.Remove(move.From, pi)
	pos.Remove(move.CaptureSquare(), move.Capture)
	pos.Put(move.To, move.Target)
	pos.SetSideToMove(pos.SideToMove.Opposite())
}

// UndoMove takes back the last move played with DoMove.
func (pos *Position) UndoMove() {
	move := pos.curr.Move
	pos.SetCastlingAbility(pos.prev().CastlingAbility)
	pos.SetEnpassantSquare(pos.prev().EnpassantSquare[1])
	pos.SetSideToMove(pos.SideToMove.Opposite())

	pi := move.Piece()
	pos.Put(move.From, pi)
	pos.Remove(move.To, move.Target)
	pos.Put(move.CaptureSquare(), move.Capture)

	if move.MoveType == Castling {
		rook, start, end := CastlingRook(move.To)
		pos.Put(start, rook)
		pos.Remove(end, rook)
	}

	pos.popState()
	pos.Accum.NeedsRefresh = [ColorArraySize]bool{White: true, Black: true}
}

// PawnThreats returns the squares attacked by side's pawns.
func (pos *Position) PawnThreats(side Color) Bitboard {
	pawns := Forward(side, pos.ByPiece(side, Pawn))
	return West(pawns) | East(pawns)
}

// GetAttacker returns the smallest figure of color them attacking sq.
func (pos *Position) GetAttacker(sq Square, them Color) Figure {
	enemy := pos.ByColor[them]
	if enemy&bbPawnAttack[sq]&pos.ByFigure[Pawn] != 0 {
		if att := sq.Bitboard() & pos.PawnThreats(them); att != 0 {
			return Pawn
		}
	}
	if enemy&bbKnightAttack[sq]&pos.ByFigure[Knight] != 0 {
		return Knight
	}
	if enemy&bbSuperAttack[sq]&^pos.ByFigure[Pawn] == 0 {
		return NoFigure
	}
	all := pos.ByColor[White] | pos.ByColor[Black]
	bishop := pos.BishopMobility(sq, all)
	if enemy&pos.ByFigure[Bishop]&bishop != 0 {
		return Bishop
	}
	rook := pos.RookMobility(sq, all)
	if enemy&pos.ByFigure[Rook]&rook != 0 {
		return Rook
	}
	if enemy&pos.ByFigure[Queen]&(bishop|rook) != 0 {
		return Queen
	}
	if enemy&bbKingAttack[sq]&pos.ByFigure[King] != 0 {
		return King
	}
	return NoFigure
}
