// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// notation.go converts between Position/Move and their textual forms:
// FEN fields, UCI long algebraic notation and a permissive SAN reader.

package board

import (
	"fmt"
	"strings"
)

type castleInfo struct {
	Castle Castle
	Piece  [2]Piece
	Square [2]Square
}

var (
	itoa               = []string{"0", "1", "2", "3", "4", "5", "6", "7", "8"}
	colorToSymbol      = []string{"", "w", "b"}
	symbolToCastleInfo = map[rune]castleInfo{
		'K': {Castle: WhiteOO, Piece: [2]Piece{WhiteKing, WhiteRook}, Square: [2]Square{SquareE1, SquareH1}},
		'k': {Castle: BlackOO, Piece: [2]Piece{BlackKing, BlackRook}, Square: [2]Square{SquareE8, SquareH8}},
		'Q': {Castle: WhiteOOO, Piece: [2]Piece{WhiteKing, WhiteRook}, Square: [2]Square{SquareE1, SquareA1}},
		'q': {Castle: BlackOOO, Piece: [2]Piece{BlackKing, BlackRook}, Square: [2]Square{SquareE8, SquareA8}},
	}
	symbolToColor = map[string]Color{"w": White, "b": Black}
)

// ParsePiecePlacement parses the first FEN field into pos.
func ParsePiecePlacement(str string, pos *Position) error {
	ranks := strings.Split(str, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("expected 8 ranks, got %d", len(ranks))
	}
	for r := range ranks {
		f := 0
		for _, p := range ranks[r] {
			pi := symbolToPiece[p]
			if pi == NoPiece {
				if '1' <= p && p <= '8' {
					f += int(p) - int('0') - 1
				} else {
					return fmt.Errorf("expected rank or number, got %s", string(p))
				}
			}
			if f >= 8 {
				return fmt.Errorf("rank %d too long (%d cells)", 8-r, f)
			}
			pos.Put(RankFile(7-r, f), pi)
			f++
		}
		if f < 8 {
			return fmt.Errorf("rank %d too short (%d cells)", 8-r, f)
		}
	}
	return nil
}

// FormatPiecePlacement converts pos to the first FEN field.
func FormatPiecePlacement(pos *Position) string {
	var s strings.Builder
	for r := 7; r >= 0; r-- {
		space := 0
		for f := 0; f < 8; f++ {
			sq := RankFile(r, f)
			pi := pos.Get(sq)
			if pi == NoPiece {
				space++
			} else {
				if space != 0 {
					s.WriteString(itoa[space])
					space = 0
				}
				s.WriteString(pieceToSymbol[pi])
			}
		}
		if space != 0 {
			s.WriteString(itoa[space])
		}
		if r != 0 {
			s.WriteByte('/')
		}
	}
	return s.String()
}

func ParseEnpassantSquare(str string, pos *Position) error {
	if str[:1] == "-" {
		pos.SetEnpassantSquare(SquareA1)
		return nil
	}
	sq, err := SquareFromString(str)
	if err != nil {
		return err
	}
	pos.SetEnpassantSquare(sq)
	return nil
}

func FormatEnpassantSquare(pos *Position) string {
	if pos.EnpassantSquare() != SquareA1 {
		return pos.EnpassantSquare().String()
	}
	return "-"
}

func ParseSideToMove(str string, pos *Position) error {
	if col, ok := symbolToColor[str]; ok {
		pos.SetSideToMove(col)
		return nil
	}
	return fmt.Errorf("invalid color %s", str)
}

func FormatSideToMove(pos *Position) string {
	return colorToSymbol[pos.SideToMove]
}

func ParseCastlingAbility(str string, pos *Position) error {
	if str == "-" {
		pos.SetCastlingAbility(NoCastle)
		return nil
	}

	ability := NoCastle
	for _, p := range str {
		info, ok := symbolToCastleInfo[p]
		if !ok {
			return fmt.Errorf("invalid castling ability %s", str)
		}
		ability |= info.Castle
		for i := 0; i < 2; i++ {
			if info.Piece[i] != pos.Get(info.Square[i]) {
				return fmt.Errorf("expected %v at %v, got %v", info.Piece[i], info.Square[i], pos.Get(info.Square[i]))
			}
		}
	}
	pos.SetCastlingAbility(ability)
	return nil
}

func FormatCastlingAbility(pos *Position) string {
	return pos.CastlingAbility().String()
}

// MoveToUCI converts move to UCI long algebraic notation.
func MoveToUCI(move Move) string {
	return move.UCI()
}

// UCIToMove parses a move in UCI format ("a2a4", "h7h8q") against pos.
func UCIToMove(pos *Position, s string) (Move, error) {
	if len(s) < 4 {
		return Move{}, fmt.Errorf("uci move %q too short", s)
	}
	from, err := SquareFromString(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := SquareFromString(s[2:4])
	if err != nil {
		return Move{}, err
	}

	pi := pos.Get(from)
	moveType := Normal
	capture := pos.Get(to)
	target := pi

	if pi.Figure() == Pawn && pos.IsEnpassantSquare(to) {
		moveType = Enpassant
		capture = ColorFigure(pos.SideToMove.Opposite(), Pawn)
	}
	if pi == WhiteKing && from == SquareE1 && (to == SquareC1 || to == SquareG1) {
		moveType = Castling
	}
	if pi == BlackKing && from == SquareE8 && (to == SquareC8 || to == SquareG8) {
		moveType = Castling
	}
	if pi.Figure() == Pawn && (to.Rank() == 0 || to.Rank() == 7) {
		if len(s) < 5 {
			return Move{}, fmt.Errorf("uci move %q missing promotion figure", s)
		}
		fig, ok := symbolToFigure[rune(s[4])]
		if !ok {
			return Move{}, fmt.Errorf("uci move %q has unknown promotion figure", s)
		}
		moveType = Promotion
		target = ColorFigure(pos.SideToMove, fig)
	}

	return MakeMove(moveType, from, to, capture, target), nil
}

var symbolToFigure = map[rune]Figure{
	'n': Knight, 'N': Knight,
	'b': Bishop, 'B': Bishop,
	'r': Rook, 'R': Rook,
	'q': Queen, 'Q': Queen,
	'k': King, 'K': King,
}

// SANToMove resolves a (slightly relaxed) standard algebraic notation
// string against pos's legal moves. +, # and e.p. suffixes are ignored,
// and x/- markers are not checked for correctness, only consumed.
func (pos *Position) SANToMove(s string) (Move, error) {
	b, e := 0, len(s)
	if b == e {
		return Move{}, fmt.Errorf("SAN string is too short")
	}
	for e > b && (s[e-1] == '#' || s[e-1] == '+') {
		e--
	}

	us := pos.SideToMove
	lower := strings.ToLower(s[b:e])
	if lower == "o-o" {
		rank := us.KingHomeRank()
		return pos.resolveCastle(RankFile(rank, 4), RankFile(rank, 6))
	}
	if lower == "o-o-o" {
		rank := us.KingHomeRank()
		return pos.resolveCastle(RankFile(rank, 4), RankFile(rank, 2))
	}

	fig := Pawn
	if ('a' <= s[b] && s[b] <= 'h') || s[b] == 'x' {
		// pawn move, no leading figure letter
	} else {
		f, ok := symbolToFigure[rune(s[b])]
		if !ok {
			return Move{}, fmt.Errorf("unknown figure symbol %q", string(s[b]))
		}
		fig = f
		b++
	}

	if e-4 > b && s[e-4:e] == "e.p." {
		e -= 4
	}

	promo := NoFigure
	if e-1 < b {
		return Move{}, fmt.Errorf("SAN string is too short")
	}
	if !('1' <= s[e-1] && s[e-1] <= '8') {
		if fig != Pawn {
			return Move{}, fmt.Errorf("only pawns on the last rank can be promoted")
		}
		p, ok := symbolToFigure[rune(s[e-1])]
		if !ok {
			return Move{}, fmt.Errorf("unknown promotion figure %q", string(s[e-1]))
		}
		promo = p
		e--
		if e-1 >= b && s[e-1] == '=' {
			e--
		}
	}

	if e-2 < b {
		return Move{}, fmt.Errorf("SAN string is too short")
	}
	to, err := SquareFromString(s[e-2 : e])
	if err != nil {
		return Move{}, err
	}
	e -= 2

	if e-1 >= b && (s[e-1] == 'x' || s[e-1] == '-') {
		e--
	}

	r, f := -1, -1
	if e-b > 2 {
		return Move{}, fmt.Errorf("bad disambiguation")
	}
	for ; b < e; b++ {
		switch {
		case 'a' <= s[b] && s[b] <= 'h':
			f = int(s[b] - 'a')
		case '1' <= s[b] && s[b] <= '8':
			r = int(s[b] - '1')
		default:
			return Move{}, fmt.Errorf("bad disambiguation")
		}
	}

	var candidates []Move
	pos.GenerateFigureMoves(fig, All, &candidates)
	for _, pm := range candidates {
		if pm.To != to {
			continue
		}
		if promo != NoFigure && pm.Promotion().Figure() != promo {
			continue
		}
		if promo == NoFigure && pm.MoveType == Promotion {
			continue
		}
		if r != -1 && pm.From.Rank() != r {
			continue
		}
		if f != -1 && pm.From.File() != f {
			continue
		}
		return pm, nil
	}
	return Move{}, fmt.Errorf("no such move %q", s)
}

func (pos *Position) resolveCastle(from, to Square) (Move, error) {
	var candidates []Move
	pos.GenerateFigureMoves(King, Tactical, &candidates)
	for _, pm := range candidates {
		if pm.MoveType == Castling && pm.From == from && pm.To == to {
			return pm, nil
		}
	}
	return Move{}, fmt.Errorf("no such castling move")
}
