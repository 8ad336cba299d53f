// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"math"
	"sync"
	"time"

	"github.com/corvidchess/corvid/board"
)

const (
	defaultMovesToGo    = 30 // default number of more moves expected to play
	defaultBranchFactor = 2  // default branching factor
)

// atomicFlag is an atomic bool that can only be set, never cleared except
// by Start resetting it at the start of a new search.
type atomicFlag struct {
	lock sync.Mutex
	flag bool
}

func (af *atomicFlag) set() {
	af.lock.Lock()
	af.flag = true
	af.lock.Unlock()
}

func (af *atomicFlag) get() bool {
	af.lock.Lock()
	tmp := af.flag
	af.lock.Unlock()
	return tmp
}

// TimeControl splits the remaining clock time over the expected number of
// moves left in the game, the way zurichess' own TimeControl does, with
// one deadline for our own search and a separate one for pondering.
type TimeControl struct {
	WTime, WInc time.Duration // time and increment for white
	BTime, BInc time.Duration // time and increment for black
	Depth       int           // maximum search depth (including)
	Nodes       uint64        // not read; searches have no node limit
	MovesToGo   int           // number of remaining moves

	numPieces  int
	sideToMove board.Color
	stopped    atomicFlag // true to stop the search
	ponderhit  atomicFlag // true if ponder was successful

	searchTime     time.Duration
	searchDeadline time.Time
	ponderTime     time.Duration
	ponderDeadline time.Time
}

// NewTimeControl returns a time control with no time limit, no depth
// limit and a default moves-to-go, for pos.
func NewTimeControl(pos *board.Position) *TimeControl {
	inf := time.Duration(math.MaxInt64)
	all := pos.ByColor[board.White] | pos.ByColor[board.Black]
	return &TimeControl{
		WTime:      inf,
		WInc:       0,
		BTime:      inf,
		BInc:       0,
		Depth:      64,
		MovesToGo:  defaultMovesToGo,
		numPieces:  all.Popcnt(),
		sideToMove: pos.SideToMove,
	}
}

// NewFixedDepthTimeControl returns a time control that searches exactly depth.
func NewFixedDepthTimeControl(pos *board.Position, depth int) *TimeControl {
	tc := NewTimeControl(pos)
	tc.Depth = depth
	tc.MovesToGo = 1
	return tc
}

// NewDeadlineTimeControl returns a time control that searches until deadline.
func NewDeadlineTimeControl(pos *board.Position, deadline time.Duration) *TimeControl {
	tc := NewTimeControl(pos)
	tc.WTime = deadline
	tc.BTime = deadline
	tc.MovesToGo = 1
	return tc
}

// thinkingTime calculates how much time to think this round, t being the
// remaining clock time and i the increment.
func (tc *TimeControl) thinkingTime(t, i time.Duration) time.Duration {
	tmp := time.Duration(tc.MovesToGo)
	if tt := (t + (tmp-1)*i) / tmp; tt < t {
		return tt
	}
	return t
}

// Start starts the clock. Should be called as soon as possible after the
// position to search is known, to minimize drift.
func (tc *TimeControl) Start(ponder bool) {
	// Branch more when there are more pieces on the board: fewer pieces
	// means less mobility and the hash table kicks in more often.
	branchFactor := time.Duration(defaultBranchFactor)
	for np := tc.numPieces - 2; np > 0; np /= 6 {
		branchFactor++
	}
	// Be more conservative when few moves remain before the next time
	// control.
	for i := 4; i > 0; i /= 2 {
		if tc.MovesToGo <= i {
			branchFactor++
		}
	}

	var otime, oinc time.Duration // our time, inc
	var ttime, tinc time.Duration // their time, inc
	if tc.sideToMove == board.White {
		otime, oinc = tc.WTime, tc.WInc
		ttime, tinc = tc.BTime, tc.BInc
	} else {
		otime, oinc = tc.BTime, tc.BInc
		ttime, tinc = tc.WTime, tc.WInc
	}

	tc.stopped = atomicFlag{}
	tc.ponderhit = atomicFlag{flag: !ponder}

	tc.searchTime = tc.thinkingTime(otime, oinc) / branchFactor
	tc.ponderTime = (tc.thinkingTime(ttime, tinc) + tc.searchTime/2) / branchFactor

	now := time.Now()
	tc.ponderDeadline = now.Add(tc.ponderTime)
	tc.searchDeadline = now.Add(tc.searchTime)
}

// NextDepth returns true if the iterative deepening loop should start depth.
func (tc *TimeControl) NextDepth(depth int) bool {
	return depth <= tc.Depth && (depth <= 2 || !tc.Stopped())
}

// PonderHit switches the clock from pondering time to our own time control.
func (tc *TimeControl) PonderHit() {
	tc.searchDeadline = time.Now().Add(tc.searchTime)
	tc.ponderhit.set()
}

// Aborted returns true if pondering was aborted before the ponder move was
// confirmed by the opponent.
func (tc *TimeControl) Aborted() bool {
	return !tc.ponderhit.get() && tc.stopped.get()
}

// Stop marks the search as stopped; the current best move will be used.
func (tc *TimeControl) Stop() {
	tc.stopped.set()
}

// Stopped reports whether the search has run out of its time budget.
func (tc *TimeControl) Stopped() bool {
	if tc.stopped.get() {
		return true
	}
	if tc.ponderhit.get() && time.Now().After(tc.searchDeadline) {
		tc.stopped.set()
		return true
	}
	if !tc.ponderhit.get() && time.Now().After(tc.ponderDeadline) {
		tc.stopped.set()
		return true
	}
	return false
}
