// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine implements position searching on top of the board
// package's move generation and position representation.
//
// Search (search.go) features:
//
//   - Aspiration windows
//   - Check extensions, singular extensions
//   - Fail-soft negamax with principal variation search
//   - Futility pruning and history leaf pruning
//   - Killer move and counter move heuristics
//   - Late move reductions (LMR)
//   - Mate distance pruning
//   - Null move pruning
//   - Quiescence search
//   - Static exchange evaluation (board.See) for pruning and reductions
//   - Transposition table (hash_table.go) with centralized mate-score rescaling
//
// Move ordering (move_ordering.go) consists of a hash move, captures
// ordered by MVV-LVA blended with capture history, killer and counter
// moves, then remaining quiet moves ordered by quiet and continuation
// history.
package engine

import "github.com/corvidchess/corvid/board"

const (
	checkExtensionPly    int32 = 1 // how much to extend a search in case of check
	singularExtensionPly int32 = 1
	nullMoveDepthLimit    int32 = 1 // disable null-move at or below this depth
	lmrDepthLimit         int32 = 3 // do not reduce at or below this depth
	futilityDepthLimit    int32 = 3 // maximum depth to apply futility pruning

	initialAspirationWindow int32 = 21  // about a quarter of a pawn
	futilityMargin          int32 = 150 // about one and a half pawns
	checkpointStep          uint64 = 10000
)

// Options carries the knobs that change search behavior without being
// part of its statistics or its result.
type Options struct {
	AnalyseMode bool // set by UCI_AnalyseMode; the search does not read it
	Threads     int  // reserved: Searcher itself is single-threaded
}

// Stats reports what a search did.
type Stats struct {
	CacheHit  uint64
	CacheMiss uint64
	Nodes     uint64
	Depth     int32
	SelDepth  int32
}

// CacheHitRatio returns the hit ratio of transposition table lookups.
func (s *Stats) CacheHitRatio() float32 {
	if s.CacheHit+s.CacheMiss == 0 {
		return 0
	}
	return float32(s.CacheHit) / float32(s.CacheHit+s.CacheMiss)
}

// Logger reports search progress to whatever is driving the engine (the
// UCI handler in cmd/corvid, or nothing during tests).
type Logger interface {
	BeginSearch()
	EndSearch()
	PrintPV(stats Stats, score int32, pv []board.Move)
}

// NulLogger discards all search progress.
type NulLogger struct{}

func (NulLogger) BeginSearch()                                    {}
func (NulLogger) EndSearch()                                      {}
func (NulLogger) PrintPV(stats Stats, score int32, pv []board.Move) {}
