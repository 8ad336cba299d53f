// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "github.com/corvidchess/corvid/board"

// Evaluator scores a position from White's point of view. Both the
// classical evaluator (eval.Classical) and the NNUE evaluator (nnue
// package) implement this, so Searcher never needs to know which one it
// was given — the pluggable-evaluator shape the NNUE redesign note calls
// for.
type Evaluator interface {
	Evaluate(pos *board.Position) int32
}

const maxPly = 128

// sentinelPlies pads SearchStack so ss[ply-1], ss[ply-2] and ss[ply-4] are
// always valid slice accesses, expressed as a fixed offset from a Go slice
// index rather than negative indices.
const sentinelPlies = 4

type searchStackEntry struct {
	move       board.Move // move played to reach this node, board.NullMove at the root
	staticEval int32
	inCheck    bool
}

// SearchStack is a fixed-size, sentinel-padded array of per-ply state.
// Entries before the root (ply < 0) are the zero value, which is exactly
// what the previous-move lookups (ss.at(ply-1)) want there.
type SearchStack struct {
	entries [maxPly + sentinelPlies]searchStackEntry
}

func (ss *SearchStack) at(ply int32) *searchStackEntry {
	return &ss.entries[ply+sentinelPlies]
}

// Searcher searches a position for the best move. Unlike the teacher's
// Engine, which reached into a package-level GlobalHashTable, a Searcher
// holds its HashTable and History by reference so two Searchers (e.g. a
// foreground search and a background ponder) never share learned state
// unless the caller explicitly wants them to.
type Searcher struct {
	Options  Options
	Log      Logger
	Stats    Stats
	Position *board.Position

	eval    Evaluator
	hash    *HashTable
	history *History
	picker  *Picker
	ss      SearchStack

	pv    [maxPly][maxPly]board.Move
	pvLen [maxPly]int32

	rootPly     int
	timeControl *TimeControl
	stopped     bool
	checkpoint  uint64
}

// NewSearcher builds a Searcher for pos using hash and history as its
// transposition table and move-ordering statistics. If log is nil,
// progress is discarded.
func NewSearcher(pos *board.Position, hash *HashTable, history *History, eval Evaluator, log Logger, options Options) *Searcher {
	if log == nil {
		log = NulLogger{}
	}
	s := &Searcher{
		Options: options,
		Log:     log,
		eval:    eval,
		hash:    hash,
		history: history,
	}
	s.SetPosition(pos)
	return s
}

// SetPosition sets the current position, or the starting position if pos
// is nil.
func (s *Searcher) SetPosition(pos *board.Position) {
	if pos != nil {
		s.Position = pos
	} else {
		s.Position, _ = board.PositionFromFEN(board.FENStartPos)
	}
	s.picker = NewPicker(s.Position, s.history)
}

func (s *Searcher) doMove(m board.Move) {
	s.ss.at(s.ply()).move = m
	s.Position.DoMove(m)
}

func (s *Searcher) undoMove() {
	s.Position.UndoMove()
}

// ply returns the current distance from the search root.
func (s *Searcher) ply() int32 {
	return int32(s.Position.Ply - s.rootPly)
}

// Score evaluates the current position relative to the side to move.
func (s *Searcher) Score() int32 {
	return s.eval.Evaluate(s.Position) * s.Position.SideToMove.Multiplier()
}

// endPosition reports whether the game has already ended at this node,
// and if so its score from the side-to-move's point of view.
func (s *Searcher) endPosition() (int32, bool) {
	pos := s.Position
	if pos.InsufficientMaterial() {
		return 0, true
	}
	if pos.FiftyMoveRule() {
		return 0, true
	}
	// At the root we keep searching even on a repeated position, since
	// some GUIs mishandle theoretical draws (e.g. same-colored bishops);
	// deeper in the tree two repetitions are already enough to prune.
	if r := pos.ThreeFoldRepetition(); (s.ply() > 0 && r >= 2) || r >= 3 {
		return 0, true
	}
	if s.ply() > 0 && pos.HasUpcomingRepetition() {
		return 0, true
	}
	return 0, false
}

// tryMove descends the search tree after a move has already been played
// with doMove, implementing late move reduction with a null-window
// re-search on failing high.
func (s *Searcher) tryMove(α, β, depth, lmr int32, nullWindow bool, move board.Move) int32 {
	depth--

	score := α + 1
	if lmr > 0 {
		score = -s.searchTree(-α-1, -α, depth-lmr)
	}
	if score > α {
		if nullWindow {
			score = -s.searchTree(-α-1, -α, depth)
			if α < score && score < β {
				score = -s.searchTree(-β, -α, depth)
			}
		} else {
			score = -s.searchTree(-β, -α, depth)
		}
	}

	s.undoMove()
	return score
}

// passed reports whether m creates or removes a passed pawn, the one
// exception to futility pruning (passed pawn pushes can swing the static
// evaluation by far more than a typical capture).
func passed(pos *board.Position, m board.Move) bool {
	if m.Piece().Figure() == board.Pawn {
		bb := m.To.Bitboard()
		bb = board.West(bb) | bb | board.East(bb)
		pawns := pos.ByFigure[board.Pawn] &^ m.To.Bitboard() &^ m.From.Bitboard()
		if board.ForwardSpan(m.Piece().Color(), bb)&pawns == 0 {
			return true
		}
	}
	if m.Capture.Figure() == board.Pawn {
		bb := m.To.Bitboard()
		bb = board.West(bb) | bb | board.East(bb)
		pawns := pos.ByFigure[board.Pawn] &^ m.To.Bitboard() &^ m.From.Bitboard()
		if board.BackwardSpan(m.Capture.Color(), bb)&pawns == 0 {
			return true
		}
	}
	return false
}

// isFutile reports whether m cannot possibly raise the static evaluation
// above α by more than margin — a heuristic, not a proof.
func isFutile(pos *board.Position, static, α, margin int32, m board.Move) bool {
	if m.MoveType == board.Promotion {
		return false
	}
	δ := futilityFigureBonus[m.Capture.Figure()]
	return static+δ+margin < α && !passed(pos, m)
}

// searchQuiescence resolves captures until the position is quiet, then
// returns its static evaluation. Checks are not considered: move ordering
// is assumed to always try a king capture first if one is pseudo-legal.
func (s *Searcher) searchQuiescence(α, β int32) int32 {
	s.Stats.Nodes++
	if score, done := s.endPosition(); done {
		return score
	}

	static := s.Score()
	if static >= β {
		return static
	}

	pos := s.Position
	us := pos.SideToMove
	inCheck := pos.IsChecked(us)
	localα := max(α, static)

	var bestMove board.Move
	s.picker.GenerateMoves(true, board.NullMove)
	prev := s.ss.at(s.ply() - 1).move
	for move := s.picker.Next(prev); move != board.NullMove; move = s.picker.Next(prev) {
		if !inCheck && isFutile(pos, static, localα, futilityMargin, move) {
			continue
		}

		losing := !inCheck && move.MoveType != board.Promotion && board.SeeSign(pos, move)
		s.doMove(move)
		if pos.IsChecked(us) || losing {
			s.undoMove()
			continue
		}
		score := -s.searchQuiescence(-β, -localα)
		s.undoMove()

		if score >= β {
			return score
		}
		if score > localα {
			localα = score
			bestMove = move
		}
	}

	if α < localα && localα < β {
		s.setPV(bestMove)
	}
	return localα
}

// setPV records move as the best move at the current ply and appends the
// child ply's principal variation behind it — the conventional triangular
// pv[ply][ply] table, built incrementally as the recursion unwinds instead
// of the teacher's separate hash-indexed pvTable plus a replay pass.
func (s *Searcher) setPV(move board.Move) {
	ply := s.ply()
	if ply >= maxPly {
		return
	}
	s.pv[ply][0] = move
	childLen := int32(0)
	if ply+1 < maxPly {
		childLen = s.pvLen[ply+1]
		copy(s.pv[ply][1:], s.pv[ply+1][:childLen])
	}
	s.pvLen[ply] = childLen + 1
}

// PV returns the principal variation found by the most recent search.
func (s *Searcher) PV() []board.Move {
	n := s.pvLen[0]
	pv := make([]board.Move, n)
	copy(pv, s.pv[0][:n])
	return pv
}

// searchTree is the fail-soft negamax core. α, β bound the window and
// depth is the remaining search depth (can go negative under aggressive
// reductions). The returned score is relative to the side to move.
func (s *Searcher) searchTree(α, β, depth int32) int32 {
	ply := s.ply()
	pvNode := α+1 < β
	pos := s.Position
	us, them := pos.Sides()

	s.Stats.Nodes++
	if !s.stopped && s.Stats.Nodes >= s.checkpoint {
		s.checkpoint = s.Stats.Nodes + checkpointStep
		if s.timeControl.Stopped() {
			s.stopped = true
		}
	}
	if s.stopped {
		return α
	}
	if pvNode && ply > s.Stats.SelDepth {
		s.Stats.SelDepth = ply
	}

	if score, done := s.endPosition(); done {
		if ply != 0 || score != 0 {
			return score
		}
	}

	// Mate distance pruning: an ancestor already has a shorter mate, so
	// this branch cannot possibly improve on it.
	if MateScore-ply <= α {
		return KnownWinScore
	}
	if -MateScore+ply >= β {
		return KnownLossScore
	}

	probe := s.hash.Probe(pos, ply)
	var hash board.Move
	if probe.hit {
		s.Stats.CacheHit++
		hash = probe.move
		if hash != board.NullMove && !pos.IsPseudoLegal(hash) {
			hash = board.NullMove
		} else if depth <= probe.depth && isInBounds(probe.kind, α, β, probe.score) {
			if probe.kind == exactBound && α < probe.score && probe.score < β {
				s.setPV(hash)
			}
			return probe.score
		}
	} else {
		s.Stats.CacheMiss++
	}

	if depth <= 0 {
		if α >= KnownWinScore || β <= KnownLossScore {
			return s.Score()
		}
		score := s.searchQuiescence(α, β)
		s.hash.Store(pos, ply, depth, α, β, score, board.NullMove)
		return score
	}

	sideIsChecked := pos.IsChecked(us)
	s.ss.at(ply).inCheck = sideIsChecked

	// Null move pruning: if passing still fails high, the position is too
	// good for the opponent to have allowed, so this branch is pruned.
	if depth > nullMoveDepthLimit &&
		!sideIsChecked &&
		pos.MinorsAndMajors(us) != 0 &&
		KnownLossScore < α && β < KnownWinScore {
		s.doMove(board.NullMove)
		reduction := pos.MinorsAndMajors(us).CountMax2()
		score := s.tryMove(β-1, β, depth-reduction, 0, false, board.NullMove)
		if score >= β {
			return score
		}
	}

	bestMove, bestScore := board.NullMove, int32(-InfinityScore)

	static := int32(0)
	allowLeafPruning := false
	if depth <= futilityDepthLimit &&
		!sideIsChecked &&
		!pvNode &&
		KnownLossScore < α && β < KnownWinScore {
		allowLeafPruning = true
		static = s.Score()
	}

	// Singular extension: if every other move, searched at depth/2 with a
	// null window, fails low against the hash entry's score minus 2*depth,
	// the hash move is singular and deserves an extra ply of search.
	singularMove := board.NullMove
	if depth >= 8 && probe.hit && probe.depth >= depth-3 && probe.kind != upperBound &&
		hash != board.NullMove && KnownLossScore < α && β < KnownWinScore {
		margin := depth * 2
		singularBeta := probe.score - margin
		s.picker.GenerateMoves(false, hash)
		prevForSingular := s.ss.at(ply - 1).move
		isSingular := true
		for m := s.picker.Next(prevForSingular); m != board.NullMove; m = s.picker.Next(prevForSingular) {
			if m == hash {
				continue
			}
			s.doMove(m)
			if pos.IsChecked(us) {
				s.undoMove()
				continue
			}
			score := -s.searchTree(-singularBeta-1, -singularBeta, depth/2)
			s.undoMove()
			if score >= singularBeta {
				isSingular = false
				break
			}
		}
		if isSingular {
			singularMove = hash
		}
	}

	nullWindow := false
	allowLateMove := !sideIsChecked && depth > lmrDepthLimit

	dropped := false
	numMoves := int32(0)
	localα := α
	prev := s.ss.at(ply - 1).move
	var tried []board.Move

	s.picker.GenerateMoves(false, hash)
	for move := s.picker.Next(prev); move != board.NullMove; move = s.picker.Next(prev) {
		critical := move == hash || s.picker.IsKiller(move)
		numMoves++

		newDepth := depth
		seeLoss := !move.IsQuiet() && board.SeeSign(pos, move)
		s.doMove(move)

		if pos.IsChecked(us) {
			s.undoMove()
			continue
		}

		givesCheck := pos.IsChecked(them)
		if givesCheck {
			if pos.GetAttacker(move.To, them) == board.NoFigure ||
				pos.GetAttacker(move.To, us) != board.NoFigure {
				newDepth += checkExtensionPly
			}
		} else if move == singularMove {
			newDepth += singularExtensionPly
		}

		lmr := int32(0)
		if allowLateMove && !givesCheck && !critical {
			if move.IsQuiet() || seeLoss {
				lmr = 1 + min(depth, numMoves)/5
			}
		}

		if allowLeafPruning && !givesCheck && !critical {
			if stat := s.history.Quiet.get(move); stat < -15 && (move.IsQuiet() || seeLoss) {
				dropped = true
				s.undoMove()
				continue
			}
			if isFutile(pos, static, localα, depth*futilityMargin, move) {
				bestScore = max(bestScore, static)
				dropped = true
				s.undoMove()
				continue
			}
		}

		score := s.tryMove(localα, β, newDepth, lmr, nullWindow, move)
		if allowLeafPruning && !givesCheck {
			if score > α {
				s.history.Quiet.add(move, 16)
			} else {
				s.history.Quiet.add(move, -1)
			}
		}
		if move.IsQuiet() {
			tried = append(tried, move)
		}

		if score >= β {
			s.picker.SaveKiller(prev, move)
			if move.IsQuiet() {
				s.history.RecordQuietCutoff(prev, move, tried, depth*depth)
			} else {
				s.history.Capture.add(move, depth*depth)
			}
			s.hash.Store(pos, ply, depth, α, β, score, move)
			return score
		}
		if score > bestScore {
			nullWindow = true
			bestMove, bestScore = move, score
			localα = max(localα, score)
		}
	}

	if !dropped {
		if bestMove == board.NullMove {
			if sideIsChecked {
				bestScore = MatedScore + ply
			} else {
				bestScore = 0
			}
		}
		s.hash.Store(pos, ply, depth, α, β, bestScore, bestMove)
		if α < bestScore && bestScore < β {
			s.setPV(bestMove)
		}
	}

	return bestScore
}

// search runs one iterative-deepening round at depth with a gradually
// widening aspiration window seeded around estimated, the previous
// iteration's score.
func (s *Searcher) search(depth, estimated int32) int32 {
	γ, δ := estimated, initialAspirationWindow
	α, β := max(γ-δ, -InfinityScore), min(γ+δ, InfinityScore)
	score := estimated

	if depth < 4 {
		α, β = -InfinityScore, InfinityScore
	}

	for !s.stopped {
		score = s.searchTree(α, β, depth)
		if score <= α {
			α = max(α-δ, -InfinityScore)
			δ += δ / 2
		} else if score >= β {
			β = min(β+δ, InfinityScore)
			δ += δ / 2
		} else {
			return score
		}
	}
	return score
}

// Play iteratively deepens the search until tc says to stop, and returns
// the principal variation: moves[0] is the move to play, the rest is the
// expected continuation (moves[1] can be used as a ponder move).
func (s *Searcher) Play(tc *TimeControl) (moves []board.Move) {
	s.Log.BeginSearch()
	s.Stats = Stats{Depth: -1}

	s.rootPly = s.Position.Ply
	s.timeControl = tc
	s.stopped = false
	s.checkpoint = checkpointStep
	s.ss = SearchStack{}
	s.ss.at(-1).move = s.Position.LastMove()

	score := int32(0)
	for depth := int32(0); depth < 64; depth++ {
		if !tc.NextDepth(int(depth)) {
			break
		}
		s.Stats.Depth = depth
		score = s.search(depth, score)

		if !s.stopped {
			moves = s.PV()
			s.Log.PrintPV(s.Stats, score, moves)
		}
	}

	s.Log.EndSearch()
	return moves
}
