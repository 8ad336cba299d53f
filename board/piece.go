// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

//go:generate stringer -type Figure
//go:generate stringer -type Color
//go:generate stringer -type Piece
//go:generate stringer -type MoveType

var figureToSymbol = map[Figure]string{
	Knight: "N",
	Bishop: "B",
	Rook:   "R",
	Queen:  "Q",
	King:   "K",
}

// Figure represents a piece kind without a color.
type Figure uint

const (
	NoFigure Figure = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King

	FigureArraySize = int(iota)
	FigureMinValue  = Pawn
	FigureMaxValue  = King
)

// Color represents a side.
type Color uint

const (
	NoColor Color = iota
	White
	Black

	ColorArraySize = int(iota)
	ColorMinValue  = White
	ColorMaxValue  = Black
)

var kingHomeRank = [ColorArraySize]int{0, 0, 7}

// Opposite returns the reversed color. Undefined unless c is White or Black.
func (c Color) Opposite() Color {
	return White + Black - c
}

// KingHomeRank returns the king's starting rank for c.
func (c Color) KingHomeRank() int {
	return kingHomeRank[c]
}

// Multiplier returns 1 for White and -1 for Black, converting a
// White-POV score into one relative to the side to move.
func (c Color) Multiplier() int32 {
	if c == White {
		return 1
	}
	return -1
}

// Piece is a figure owned by a side. Its numeric value is always
// fig<<2 + col so Color and Figure below are plain bit ops, matching
// ColorFigure; the constants are therefore declared explicitly rather
// than via iota, leaving harmless gaps (multiples of 4 and 4+3) unused.
type Piece uint8

const (
	NoPiece Piece = 0

	WhitePawn Piece = Piece(Pawn)<<2 + Piece(White)
	BlackPawn Piece = Piece(Pawn)<<2 + Piece(Black)

	WhiteKnight Piece = Piece(Knight)<<2 + Piece(White)
	BlackKnight Piece = Piece(Knight)<<2 + Piece(Black)

	WhiteBishop Piece = Piece(Bishop)<<2 + Piece(White)
	BlackBishop Piece = Piece(Bishop)<<2 + Piece(Black)

	WhiteRook Piece = Piece(Rook)<<2 + Piece(White)
	BlackRook Piece = Piece(Rook)<<2 + Piece(Black)

	WhiteQueen Piece = Piece(Queen)<<2 + Piece(White)
	BlackQueen Piece = Piece(Queen)<<2 + Piece(Black)

	WhiteKing Piece = Piece(King)<<2 + Piece(White)
	BlackKing Piece = Piece(King)<<2 + Piece(Black)

	PieceArraySize = int(BlackKing) + 1
	PieceMinValue  = WhitePawn
	PieceMaxValue  = BlackKing
)

// ColorFigure returns the piece with color col and figure fig.
func ColorFigure(col Color, fig Figure) Piece {
	return Piece(fig<<2) + Piece(col)
}

// Color returns the piece's color.
func (pi Piece) Color() Color {
	return Color(pi & 3)
}

// Figure returns the piece's figure.
func (pi Piece) Figure() Figure {
	return Figure(pi >> 2)
}

// Castle is a bitmask of remaining castling rights.
type Castle uint8

const (
	WhiteOO Castle = 1 << iota
	WhiteOOO
	BlackOO
	BlackOOO

	NoCastle  Castle = 0
	AnyCastle Castle = WhiteOO | WhiteOOO | BlackOO | BlackOOO

	CastleArraySize = int(AnyCastle + 1)
	CastleMinValue  = NoCastle
	CastleMaxValue  = AnyCastle
)

var castleToSymbol = map[Castle]byte{
	WhiteOO:  'K',
	WhiteOOO: 'Q',
	BlackOO:  'k',
	BlackOOO: 'q',
}

func (c Castle) String() string {
	if c == 0 {
		return "-"
	}
	var r []byte
	for c > 0 {
		k := c & (-c)
		r = append(r, castleToSymbol[k])
		c -= k
	}
	return string(r)
}

// CastlingRook returns the rook piece and its start/end squares for a
// castling move whose king lands on kingEnd.
func CastlingRook(kingEnd Square) (Piece, Square, Square) {
	piece := Piece(Rook<<2) + 1 + Piece(kingEnd>>5)
	rookStart := kingEnd&^3 | (kingEnd & 4 >> 1) | (kingEnd & 4 >> 2)
	rookEnd := kingEnd ^ (kingEnd&4>>1) | 1
	return piece, rookStart, rookEnd
}

// MoveType distinguishes how a move updates position state beyond the
// plain from/to/capture relocation.
type MoveType uint8

const (
	NoMove MoveType = iota
	Normal
	Promotion
	Castling
	Enpassant
)

// Move is an explicit, position-dependent move. It is a plain struct
// rather than a packed integer so every field is self-documenting and a
// caller never needs a shift/mask to inspect it.
type Move struct {
	From, To Square
	Capture  Piece // piece captured, NoPiece if none
	Target   Piece // piece occupying To after the move (promoted piece for Promotion)
	MoveType MoveType
}

// MakeMove builds a move. target is the piece placed on 'to' — for a
// Promotion move that is the promoted piece, not the pawn.
func MakeMove(mt MoveType, from, to Square, capture, target Piece) Move {
	return Move{From: from, To: to, Capture: capture, Target: target, MoveType: mt}
}

// NullMove is the zero Move. DoMove/UndoMove treat it as a pass: no piece
// relocates, only the side to move and the en passant square change, which
// is exactly what null-move pruning in the search needs.
var NullMove = Move{}

// CaptureSquare returns the square of the captured piece.
// Undefined if the move is not a capture.
func (m Move) CaptureSquare() Square {
	if m.MoveType == Enpassant {
		return m.From&0x38 + m.To&0x7
	}
	return m.To
}

// Piece returns the piece being moved (the pawn, for a Promotion move).
func (m Move) Piece() Piece {
	if m.MoveType != Promotion {
		return m.Target
	}
	return Piece(Pawn<<2) + m.Target&3
}

// Promotion returns the promoted piece, or NoPiece if this isn't a promotion.
func (m Move) Promotion() Piece {
	if m.MoveType != Promotion {
		return NoPiece
	}
	return m.Target
}

// IsViolent returns true if the move is a capture or a promotion — the
// kind of move that can change the position's score significantly.
func (m Move) IsViolent() bool {
	return m.Capture != NoPiece || m.MoveType == Promotion
}

// IsQuiet is the complement of IsViolent.
func (m Move) IsQuiet() bool {
	return !m.IsViolent()
}

// UCI converts the move to UCI long algebraic notation.
func (m Move) UCI() string {
	return m.From.String() + m.To.String() + figureToSymbol[m.Promotion().Figure()]
}

func (m Move) String() string {
	return m.UCI()
}

var symbolToPiece = map[rune]Piece{
	'p': BlackPawn, 'n': BlackKnight, 'b': BlackBishop,
	'r': BlackRook, 'q': BlackQueen, 'k': BlackKing,
	'P': WhitePawn, 'N': WhiteKnight, 'B': WhiteBishop,
	'R': WhiteRook, 'Q': WhiteQueen, 'K': WhiteKing,
}

// pieceToSymbol is indexed directly by Piece value (fig<<2+col, sparse up
// to BlackKing), not by a dense 0..11 piece count, so it's sized and
// filled off symbolToPiece rather than written out as a literal.
var pieceToSymbol [PieceArraySize]string

func init() {
	for r, pi := range symbolToPiece {
		pieceToSymbol[pi] = string(r)
	}
}
