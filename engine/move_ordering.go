// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// move_ordering.go generates and orders moves for a search node. Moves are
// produced in stages and later stages are skipped entirely whenever an
// earlier one already produced a cutoff, the same staged shape as the
// teacher's moveStack/PopMove, generalized into an explicit pickerStage
// enum per the redesign notes in DESIGN.md.

package engine

import "github.com/corvidchess/corvid/board"

type pickerStage int

const (
	stageHash pickerStage = iota
	stageGenCaptures
	stageReturnCaptures
	stageGenKillers
	stageReturnKillers
	stageGenQuiets
	stageReturnQuiets
	stageDone
)

// mvvlvaBonus values one pawn = 10, used to seed capture ordering before
// history is blended in.
var mvvlvaBonus = [...]int16{0, 10, 40, 45, 68, 145, 256}

func mvvlva(m board.Move) int16 {
	v := m.Capture.Figure()
	a := m.Piece().Figure()
	return mvvlvaBonus[v]*64 - mvvlvaBonus[a]
}

// moveStack holds the moves and order keys generated for a single ply.
type moveStack struct {
	moves []board.Move
	order []int16

	violentOnly bool
	stage       pickerStage
	hash        board.Move
	killer      [3]board.Move // two killers plus one counter move
}

// Picker walks a stack of per-ply moveStacks, reusing their backing arrays
// across a search the way the teacher's stack does, but keyed against the
// three-tensor History instead of a single global table.
type Picker struct {
	pos     *board.Position
	history *History
	plies   []moveStack
}

// NewPicker returns a picker bound to pos and history.
func NewPicker(pos *board.Position, history *History) *Picker {
	return &Picker{pos: pos, history: history}
}

func (p *Picker) get() *moveStack {
	for len(p.plies) <= p.pos.Ply {
		p.plies = append(p.plies, moveStack{
			moves: make([]board.Move, 0, 16),
			order: make([]int16, 0, 16),
		})
	}
	return &p.plies[p.pos.Ply]
}

// GenerateMoves (re)starts move generation for the position's current ply.
// violentOnly restricts generation to captures and promotions, for
// quiescence search. hash is the transposition table's suggested move, if
// any, tried first without generating the rest of the list.
func (p *Picker) GenerateMoves(violentOnly bool, hash board.Move) {
	ms := p.get()
	ms.moves = ms.moves[:0]
	ms.order = ms.order[:0]
	ms.violentOnly = violentOnly
	ms.stage = stageHash
	ms.hash = hash
	ms.killer[2] = board.NullMove
}

func (p *Picker) ply() *moveStack {
	return &p.plies[p.pos.Ply]
}

func (p *Picker) sort() {
	ms := p.ply()
	for _, gap := range shellSortGaps {
		for i := gap; i < len(ms.order); i++ {
			j := i
			to, tm := ms.order[j], ms.moves[j]
			for ; j >= gap && ms.order[j-gap] > to; j -= gap {
				ms.order[j] = ms.order[j-gap]
				ms.moves[j] = ms.moves[j-gap]
			}
			ms.order[j], ms.moves[j] = to, tm
		}
	}
}

// shellSortGaps are the gaps from Marcin Ciura's "Best Increments for the
// Average Case of Shellsort" — move lists are short enough that shellsort
// beats a general-purpose sort.
var shellSortGaps = [...]int{132, 57, 23, 10, 4, 1}

func (p *Picker) generateCaptures() {
	ms := p.ply()
	var pseudo []board.Move
	p.pos.GenerateMoves(board.Violent, &pseudo)
	// Tactical (castling, underpromotions) is generated with the quiet
	// batch below — it is its own bit precisely because neither a pure
	// Violent nor a pure Quiet generation includes it.
	for _, m := range pseudo {
		ms.moves = append(ms.moves, m)
		ms.order = append(ms.order, mvvlva(m)+int16(p.history.Capture.get(m))/64)
	}
	p.sort()
}

func (p *Picker) generateQuiets(prev board.Move) {
	ms := p.ply()
	var pseudo []board.Move
	p.pos.GenerateMoves(board.Quiet|board.Tactical, &pseudo)
	for _, m := range pseudo {
		score := int16(-20000) + int16(p.history.Quiet.get(m)/4) + int16(p.history.Continuation.get(prev, m)/4)
		ms.moves = append(ms.moves, m)
		ms.order = append(ms.order, score)
	}
	p.sort()
}

func (p *Picker) popFront() board.Move {
	ms := p.ply()
	if len(ms.moves) == 0 {
		return board.NullMove
	}
	last := len(ms.moves) - 1
	m := ms.moves[last]
	ms.moves = ms.moves[:last]
	ms.order = ms.order[:last]
	return m
}

// Next returns the next move to try, or board.NullMove once the list is
// exhausted. prev is the move that led to this ply, used to index
// continuation history and the counter-move table.
func (p *Picker) Next(prev board.Move) board.Move {
	ms := p.ply()
	for {
		switch ms.stage {
		case stageHash:
			ms.stage = stageGenCaptures
			if ms.hash != board.NullMove && p.pos.IsPseudoLegal(ms.hash) {
				return ms.hash
			}

		case stageGenCaptures:
			ms.stage = stageReturnCaptures
			p.generateCaptures()

		case stageReturnCaptures:
			if m := p.popFront(); m == board.NullMove {
				if ms.violentOnly {
					ms.stage = stageDone
				} else {
					ms.stage = stageGenKillers
				}
			} else if m != ms.hash {
				return m
			}

		case stageGenKillers:
			ms.stage = stageReturnKillers
			if cm := p.history.Counter[counterIndex(prev)]; cm != ms.killer[0] && cm != ms.killer[1] && cm != board.NullMove {
				ms.killer[2] = cm
				ms.moves = append(ms.moves, cm)
				ms.order = append(ms.order, -2)
			}
			if m := ms.killer[1]; m != board.NullMove {
				ms.moves = append(ms.moves, m)
				ms.order = append(ms.order, -1)
			}
			if m := ms.killer[0]; m != board.NullMove {
				ms.moves = append(ms.moves, m)
				ms.order = append(ms.order, 0)
			}

		case stageReturnKillers:
			if m := p.popFront(); m == board.NullMove {
				ms.stage = stageGenQuiets
			} else if m != ms.hash && p.pos.IsPseudoLegal(m) {
				return m
			}

		case stageGenQuiets:
			ms.stage = stageReturnQuiets
			p.generateQuiets(prev)

		case stageReturnQuiets:
			if m := p.popFront(); m == board.NullMove {
				ms.stage = stageDone
			} else if m == ms.hash || p.IsKiller(m) {
				continue
			} else {
				return m
			}

		case stageDone:
			return board.NullMove
		}
	}
}

// IsKiller reports whether m is a remembered killer or counter move for
// the current ply.
func (p *Picker) IsKiller(m board.Move) bool {
	ms := p.ply()
	return m == ms.killer[0] || m == ms.killer[1] || m == ms.killer[2]
}

// SaveKiller records m as a killer for the current ply and as the counter
// move to whatever move led to this ply.
func (p *Picker) SaveKiller(prev, m board.Move) {
	ms := p.ply()
	if !m.IsViolent() {
		p.history.Counter[counterIndex(prev)] = m
		if m != ms.killer[0] {
			ms.killer[1] = ms.killer[0]
			ms.killer[0] = m
		}
	}
}
