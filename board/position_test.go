// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package board

import "testing"

var (
	testBoard1 = "r3k2r/3ppp2/1BB3B1/pp2P1pp/PP4PP/5b2/3PPP2/R3K2R w KQkq - 0 1"
	testBoard2 = "3k4/8/8/p1P2p2/PpP1pP2/pPPpP3/2P2pp1/3K3R w - - 0 1"
)

// testEngine wraps a Position with do/undo bookkeeping for move tests.
type testEngine struct {
	T     *testing.T
	Pos   *Position
	moves int
}

// Move plays a UCI move. An empty string is not supported: UCIToMove
// rejects it, so a null move has to be played as DoMove(NullMove).
func (te *testEngine) Move(m string) {
	move, err := UCIToMove(te.Pos, m)
	if err != nil {
		te.T.Fatalf("bad uci move %q: %v", m, err)
	}
	if te.Pos.SideToMove == move.Capture.Color() {
		te.T.Fatalf("%v cannot capture its own color (move %v)", te.Pos.SideToMove, move)
	}
	te.Pos.DoMove(move)
	te.moves++
}

func (te *testEngine) Undo() {
	te.Pos.UndoMove()
	te.moves--
}

func (te *testEngine) Attacked(sq Square, co Color, is bool) {
	attacked := te.Pos.GetAttacker(sq, co) != NoFigure
	if is && !attacked {
		te.T.Errorf("expected %v to be attacked by %v", sq, co)
	}
	if !is && attacked {
		te.T.Errorf("expected %v not to be attacked by %v", sq, co)
	}
}

func (te *testEngine) Piece(sq Square, expected Piece) {
	if te.Pos.Get(sq) != expected {
		te.T.Errorf("expected %v at %v, got %v", expected, sq, te.Pos.Get(sq))
	}
}

func (te *testEngine) Knight(expected []string) {
	var actual []Move
	te.Pos.genKnightMoves(All, &actual)
	testMoves(te.T, actual, expected)
}

func (te *testEngine) Bishop(expected []string) {
	var actual []Move
	te.Pos.genBishopMoves(Bishop, All, &actual)
	testMoves(te.T, actual, expected)
}

func (te *testEngine) Rook(expected []string) {
	var actual []Move
	te.Pos.genRookMoves(Rook, All, &actual)
	testMoves(te.T, actual, expected)
}

func (te *testEngine) Queen(expected []string) {
	var actual []Move
	te.Pos.genBishopMoves(Queen, All, &actual)
	te.Pos.genRookMoves(Queen, All, &actual)
	testMoves(te.T, actual, expected)
}

func (te *testEngine) King(expected []string) {
	var actual []Move
	te.Pos.genKingMovesNear(All, &actual)
	te.Pos.genKingCastles(All, &actual)
	testMoves(te.T, actual, expected)
}

func (te *testEngine) Pawn(sq Square, expected []string) {
	var all []Move
	te.Pos.GenerateFigureMoves(Pawn, All, &all)
	var filtered []Move
	for _, m := range all {
		if m.From == sq {
			filtered = append(filtered, m)
		}
	}
	testMoves(te.T, filtered, expected)
}

func testMoves(t *testing.T, moves []Move, expected []string) {
	seen := make(map[string]bool)
	for _, e := range expected {
		seen[e] = false
	}
	for _, mo := range moves {
		str := mo.UCI()
		if dup, has := seen[str]; !has {
			t.Error("move", str, "was not expected")
		} else if dup {
			t.Error("move", str, "already seen")
		}
		seen[str] = true
	}
	for mo, has := range seen {
		if !has {
			t.Error("missing move", mo)
		}
	}
}

func TestPutGetRemove(t *testing.T) {
	pos := NewPosition()
	te := &testEngine{T: t, Pos: pos}

	te.Piece(SquareA3, NoPiece)

	pos.Put(SquareA3, WhitePawn)
	te.Piece(SquareA3, WhitePawn)
	pos.Remove(SquareA3, WhitePawn)
	te.Piece(SquareA3, NoPiece)

	pos.Put(SquareH7, BlackKing)
	te.Piece(SquareH7, BlackKing)
	pos.Remove(SquareH7, BlackKing)
	te.Piece(SquareH7, NoPiece)
}

func TestKnightMoves(t *testing.T) {
	pos := NewPosition()
	pos.SetSideToMove(White)
	pos.Put(SquareB2, WhiteKnight)
	pos.Put(SquareF4, WhiteKnight)
	pos.Put(SquareC4, WhitePawn)

	te := &testEngine{T: t, Pos: pos}
	te.Knight([]string{"b2d1", "b2d3", "b2a4", "f4d3", "f4d5", "f4e6", "f4g6", "f4h5", "f4h3", "f4g2", "f4e2"})
}

func TestRookMoves(t *testing.T) {
	pos := NewPosition()
	pos.SetSideToMove(White)
	pos.Put(SquareB2, WhiteRook)
	pos.Put(SquareF2, WhiteKing)
	pos.Put(SquareB6, BlackKing)

	te := &testEngine{T: t, Pos: pos}
	te.Rook([]string{"b2b1", "b2b3", "b2b4", "b2b5", "b2b6", "b2a2", "b2c2", "b2d2", "b2e2"})
}

func TestKingMoves1(t *testing.T) {
	pos := NewPosition()
	pos.SetSideToMove(White)
	te := &testEngine{T: t, Pos: pos}

	pos.Put(SquareA2, WhiteKing)
	te.King([]string{"a2a3", "a2b3", "a2b2", "a2b1", "a2a1"})

	pos.Put(SquareA3, WhitePawn)
	pos.Put(SquareB3, BlackPawn)
	pos.Put(SquareB2, WhiteQueen)
	te.King([]string{"a2b3", "a2b1", "a2a1"})
}

func TestCastleMovesPieces(t *testing.T) {
	pos, err := PositionFromFEN(testBoard1)
	if err != nil {
		t.Fatal(err)
	}
	te := &testEngine{T: t, Pos: pos}

	pos.SideToMove = White
	te.Move("e1c1")
	te.Piece(SquareA1, NoPiece)
	te.Piece(SquareC1, WhiteKing)
	te.Piece(SquareD1, WhiteRook)
	te.Piece(SquareE1, NoPiece)

	te.Undo()
	te.Piece(SquareA1, WhiteRook)
	te.Piece(SquareC1, NoPiece)
	te.Piece(SquareD1, NoPiece)
	te.Piece(SquareE1, WhiteKing)
}

func TestCastleRightsAreUpdated(t *testing.T) {
	pos, _ := PositionFromFEN(testBoard1)
	pos.SetCastlingAbility(WhiteOOO)
	te := &testEngine{T: t, Pos: pos}

	te.King([]string{"e1d1", "e1f1", "e1c1"})

	te.Move("a1a2")
	te.Move("a8a7")
	te.King([]string{"e1d1", "e1f1"})

	te.Undo()
	te.Undo()
	te.King([]string{"e1d1", "e1f1", "e1c1"})
}

func TestGenPawnAttackMoves(t *testing.T) {
	pos, _ := PositionFromFEN(testBoard1)

	var moves []Move
	pos.SideToMove = White
	pos.genPawnAttackMoves(All, &moves)
	testMoves(t, moves, []string{"e2f3", "a4b5", "b4a5", "g4h5", "h4g5"})

	moves = moves[:0]
	pos.SideToMove = Black
	pos.genPawnAttackMoves(All, &moves)
	testMoves(t, moves, []string{"d7c6", "f7g6", "a5b4", "b5a4", "h5g4", "g5h4"})
}

func TestGenPawnEnpassant(t *testing.T) {
	pos := NewPosition()
	pos.SetSideToMove(White)
	pos.Put(SquareH1, WhiteKing)
	pos.Put(SquareH8, BlackKing)

	pos.Put(SquareA3, WhitePawn)
	pos.Put(SquareA4, BlackPawn)
	pos.Put(SquareB2, WhitePawn)
	pos.Put(SquareC3, WhitePawn)
	pos.Put(SquareC4, BlackPawn)

	te := &testEngine{T: t, Pos: pos}
	te.Move("b2b4")
	if SquareB3 != pos.EnpassantSquare() {
		t.Fatalf("expected enpassant square %v, got %v", SquareB3, pos.EnpassantSquare())
	}

	var moves []Move
	pos.GenerateFigureMoves(Pawn, All, &moves)
	if len(moves) != 2 {
		t.Fatalf("expected 2 moves, got %d", len(moves))
	}
	for _, m := range moves {
		if m.MoveType != Enpassant {
			t.Fatalf("expected enpassant move, got %v", m.MoveType)
		}
		if m.To != SquareB3 {
			t.Fatalf("expected to at %v, got at %v", SquareB3, m.To)
		}
		if m.CaptureSquare() != SquareB4 {
			t.Fatalf("expected capture at %v, got at %v", SquareB4, m.CaptureSquare())
		}
	}

	te.Undo()
	if SquareA1 != pos.EnpassantSquare() {
		t.Fatalf("expected enpassant square %v, got %v", SquareA1, pos.EnpassantSquare())
	}
}

func TestPawnAttacks(t *testing.T) {
	pos, _ := PositionFromFEN(testBoard2)
	te := &testEngine{T: t, Pos: pos}

	te.Attacked(SquareA4, White, true)
	te.Attacked(SquareE4, White, false)
	te.Attacked(SquareD4, White, true)
	te.Attacked(SquareE1, Black, true)
	te.Attacked(SquareA1, Black, false)
}

func TestPawnPromotions(t *testing.T) {
	pos, _ := PositionFromFEN(testBoard2)
	pos.SideToMove = Black
	te := &testEngine{T: t, Pos: pos}

	te.Pawn(SquareF2, []string{"f2f1N", "f2f1B", "f2f1R", "f2f1Q"})
	te.Pawn(SquareG2, []string{
		"g2g1N", "g2g1B", "g2g1R", "g2g1Q",
		"g2h1N", "g2h1B", "g2h1R", "g2h1Q"})

	te.Move("g2h1N")
	te.Piece(SquareG1, NoPiece)
	te.Piece(SquareH1, BlackKnight)
	te.Undo()
}

func TestSquareIsAttackedByKnight(t *testing.T) {
	pos, _ := PositionFromFEN("4K3/8/3n4/8/4N3/3n4/8/4k3 w - - 0 1")
	te := &testEngine{T: t, Pos: pos}

	te.Attacked(SquareE8, Black, true)
	te.Attacked(SquareC4, Black, true)
	te.Attacked(SquareE1, Black, true)
	te.Attacked(SquareH8, Black, false)
}

func TestIsAttackedByBishop(t *testing.T) {
	pos, _ := PositionFromFEN(FENStartPos)
	te := &testEngine{T: t, Pos: pos}

	te.Move("e2e4")
	te.Move("d7d5")
	te.Move("f1b5")
	te.Attacked(SquareE8, White, true)
}

func TestPanicPosition(t *testing.T) {
	var moves []Move
	fen := "8/7P/4R3/p4pk1/P2p1r2/3P4/1R6/b1bK4 b - - 1 111"
	pos, _ := PositionFromFEN(fen)
	pos.GenerateMoves(All, &moves)
	for _, m := range moves {
		pos.DoMove(m)
		pos.UndoMove()
	}
}

func TestIsThreeFoldRepetition(t *testing.T) {
	pos, _ := PositionFromFEN(FENStartPos)
	te := &testEngine{T: t, Pos: pos}

	te.Move("b1c3")
	te.Move("b8c6")
	te.Move("c3b1")
	te.Move("c6b8")
	if pos.IsThreeFoldRepetition() {
		t.Errorf("three fold repetition not expected")
	}

	te.Move("b1c3")
	te.Move("b8c6")
	te.Move("c3b1")
	te.Move("c6b8")
	if !pos.IsThreeFoldRepetition() {
		t.Errorf("three fold repetition expected")
	}
}

func TestGenerateMovesKind(t *testing.T) {
	for _, fen := range testFENs {
		pos, err := PositionFromFEN(fen)
		if err != nil {
			t.Fatalf("bad fen %q: %v", fen, err)
		}

		v := make(map[Move]int)
		for _, k := range []int{Violent, Tactical, Quiet} {
			var moves []Move
			pos.GenerateMoves(k, &moves)
			for _, m := range moves {
				v[m] |= k
			}
		}

		var all []Move
		pos.GenerateMoves(All, &all)
		if len(all) != len(v) {
			t.Errorf("fen %q: expected %d moves, got %d", fen, len(all), len(v))
		}
	}
}

func TestGenerateMovesColor(t *testing.T) {
	for _, fen := range testFENs {
		var all []Move
		pos, _ := PositionFromFEN(fen)
		pos.GenerateMoves(All, &all)
		for _, m := range all {
			if m.Piece().Color() != pos.SideToMove {
				t.Errorf("fen %q, move %v: expected piece color %v, got %v", fen, m, pos.SideToMove, m.Piece().Color())
			}
			if m.Target.Color() != pos.SideToMove {
				t.Errorf("fen %q, move %v: expected target color %v, got %v", fen, m, pos.SideToMove, m.Target.Color())
			}
		}
	}
}

func TestDoUndoRoundTrip(t *testing.T) {
	for _, fen := range testFENs {
		pos, err := PositionFromFEN(fen)
		if err != nil {
			t.Fatalf("bad fen %q: %v", fen, err)
		}
		before := pos.String()

		var moves []Move
		pos.GenerateMoves(All, &moves)
		for _, m := range moves {
			zobrist := pos.Zobrist()
			key := pos.EndgameKey()
			pos.DoMove(m)
			pos.UndoMove()
			if after := pos.String(); after != before {
				t.Fatalf("fen %q, move %v: do/undo changed position: got %q", fen, m, after)
			}
			if pos.Zobrist() != zobrist {
				t.Fatalf("fen %q, move %v: do/undo changed zobrist key", fen, m)
			}
			if pos.EndgameKey() != key {
				t.Fatalf("fen %q, move %v: do/undo changed endgame key", fen, m)
			}
		}
	}
}

func TestVerify(t *testing.T) {
	for _, fen := range testFENs {
		pos, err := PositionFromFEN(fen)
		if err != nil {
			t.Fatalf("bad fen %q: %v", fen, err)
		}
		if err := pos.Verify(); err != nil {
			t.Errorf("fen %q failed verification: %v", fen, err)
		}
	}
}

func TestGenerateLegalMoves(t *testing.T) {
	for _, fen := range testFENs {
		pos, err := PositionFromFEN(fen)
		if err != nil {
			t.Fatalf("bad fen %q: %v", fen, err)
		}

		var legal []Move
		pos.GenerateLegalMoves(All, &legal)
		for _, m := range legal {
			pos.DoMove(m)
			if pos.IsChecked(pos.SideToMove.Opposite()) {
				t.Errorf("fen %q: legal move %v leaves own king in check", fen, m)
			}
			pos.UndoMove()
		}

		if (len(legal) > 0) != pos.HasLegalMove() {
			t.Errorf("fen %q: HasLegalMove disagrees with GenerateLegalMoves (%d legal moves)", fen, len(legal))
		}
	}
}
