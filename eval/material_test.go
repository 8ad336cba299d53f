// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"testing"

	"github.com/corvidchess/corvid/board"
)

// KnownWinScore/KnownLossScore mirror engine's bounds of the same name —
// duplicated here rather than imported to keep eval free of any
// dependency on the search package.
const (
	KnownWinScore  = 25000
	KnownLossScore = -KnownWinScore
)

var testFENs = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	"8/8/8/4k3/8/8/4K3/8 w - - 0 1",
	"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
}

func TestEvaluateWithinKnownBounds(t *testing.T) {
	for _, fen := range testFENs {
		pos, err := board.PositionFromFEN(fen)
		if err != nil {
			t.Fatalf("bad fen %q: %v", fen, err)
		}
		score := Classical{}.Evaluate(pos)
		if score < KnownLossScore || score > KnownWinScore {
			t.Errorf("fen %q: score %d out of (%d, %d)", fen, score, KnownLossScore, KnownWinScore)
		}
	}
}

func TestEvaluateStartPositionIsBalanced(t *testing.T) {
	pos, err := board.PositionFromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if score := (Classical{}).Evaluate(pos); score != 0 {
		t.Errorf("expected a perfectly symmetric start position to evaluate to 0, got %d", score)
	}
}

func TestEvaluateExtraQueenWins(t *testing.T) {
	base, err := board.PositionFromFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	withQueen, err := board.PositionFromFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	if (Classical{}).Evaluate(withQueen) <= (Classical{}).Evaluate(base) {
		t.Error("expected the side with an extra queen to be evaluated higher")
	}
}

func BenchmarkEvaluate(b *testing.B) {
	pos, _ := board.PositionFromFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Classical{}.Evaluate(pos)
	}
}
