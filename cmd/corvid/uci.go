// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// uci implements the UCI protocol, described at
// http://wbec-ridderkerk.nl/html/UCIProtocol.html.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/corvidchess/corvid/board"
	"github.com/corvidchess/corvid/cache"
	"github.com/corvidchess/corvid/engine"
	"github.com/corvidchess/corvid/eval"
	"github.com/corvidchess/corvid/nnue"
)

// ErrQuit signals Execute received the "quit" command.
var ErrQuit = errors.New("quit")

// uciLogger writes search progress as UCI "info" lines. This is wire
// protocol, not a diagnostic log, so it stays on fmt/os.Stdout rather
// than going through the op/go-logging-based diagnostic logger in
// main.go.
type uciLogger struct {
	start time.Time
	buf   *bytes.Buffer
}

func newUCILogger() *uciLogger {
	return &uciLogger{buf: &bytes.Buffer{}}
}

func (ul *uciLogger) BeginSearch() {
	ul.start = time.Now()
	ul.buf.Reset()
}

func (ul *uciLogger) EndSearch() {
	ul.flush()
}

func (ul *uciLogger) PrintPV(stats engine.Stats, score int32, pv []board.Move) {
	now := time.Now()
	fmt.Fprintf(ul.buf, "info depth %d seldepth %d ", stats.Depth, stats.SelDepth)

	if score > engine.KnownWinScore {
		fmt.Fprintf(ul.buf, "score mate %d ", (engine.MateScore-score+1)/2)
	} else if score < engine.KnownLossScore {
		fmt.Fprintf(ul.buf, "score mate %d ", (engine.MatedScore-score)/2)
	} else {
		fmt.Fprintf(ul.buf, "score cp %d ", score)
	}

	elapsed := maxDuration(now.Sub(ul.start), time.Microsecond)
	nps := stats.Nodes * uint64(time.Second) / uint64(elapsed)
	millis := uint64(elapsed) / uint64(time.Millisecond)
	fmt.Fprintf(ul.buf, "nodes %d time %d nps %d ", stats.Nodes, millis, nps)

	fmt.Fprintf(ul.buf, "pv")
	for _, m := range pv {
		fmt.Fprintf(ul.buf, " %v", m.UCI())
	}
	fmt.Fprintf(ul.buf, "\n")

	ul.flush()
}

func (ul *uciLogger) flush() {
	os.Stdout.Write(ul.buf.Bytes())
	ul.buf.Reset()
}

func maxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

// UCI drives a Searcher through the UCI protocol's command set.
type UCI struct {
	hash    *engine.HashTable
	history *engine.History
	search  *engine.Searcher
	store   *cache.Store

	useNNUE   bool
	classical eval.Classical
	nnueEval  *nnue.Evaluator

	idle      chan struct{}
	rootMoves []board.Move
}

// NewUCI builds a UCI handler. If useNNUE is set, positions are scored
// by a deterministic built-in NNUE network (seeded by seed) composed
// with the endgame specialist table; otherwise the classical tapered
// evaluator is used. If cacheDir is non-empty, the cache package records
// the KPK bitbase as ready and, with useNNUE, a presence marker for the
// network's seed; the network itself is regenerated from seed each time.
func NewUCI(useNNUE bool, seed int64, cacheDir string) *UCI {
	uci := &UCI{
		hash:    engine.NewHashTable(engine.DefaultHashTableSizeMB),
		history: engine.NewHistory(),
		useNNUE: useNNUE,
		idle:    make(chan struct{}, 1),
	}

	if cacheDir != "" {
		if store, err := cache.Open(cacheDir); err != nil {
			log.Errorf("cache: %v", err)
		} else {
			uci.store = store
			if ready, err := store.BitbaseReady("kpk"); err != nil {
				log.Errorf("cache: bitbase status: %v", err)
			} else if !ready {
				if err := store.MarkBitbaseReady("kpk"); err != nil {
					log.Errorf("cache: mark bitbase ready: %v", err)
				}
			}
		}
	}

	if useNNUE {
		net := nnue.NewNetwork(seed)
		uci.nnueEval = nnue.NewEvaluator(net)
		if uci.store != nil {
			if _, ok, err := uci.store.GetNetwork(seed); err != nil {
				log.Errorf("cache: get network: %v", err)
			} else if !ok {
				// Nothing to persist yet: weights are deterministically
				// regenerated from seed, not trained, so there is no
				// serialized blob to cache beyond a presence marker.
				if err := uci.store.PutNetwork(seed, []byte{1}); err != nil {
					log.Errorf("cache: put network: %v", err)
				}
			}
		}
	}

	pos, _ := board.PositionFromFEN(board.FENStartPos)
	uci.search = engine.NewSearcher(pos, uci.hash, uci.history, uci.evaluator(), newUCILogger(), engine.Options{})
	return uci
}

func (uci *UCI) evaluator() engine.Evaluator {
	if uci.useNNUE {
		return eval.Composite{Fallback: uci.nnueEval}
	}
	return eval.Composite{Fallback: uci.classical}
}

// Close releases resources NewUCI opened (currently just the cache).
func (uci *UCI) Close() {
	if uci.store != nil {
		uci.store.Close()
	}
}

var reCmd = regexp.MustCompile(`^[[:word:]]+\b`)

func (uci *UCI) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	cmd := reCmd.FindString(line)
	if cmd == "" {
		return fmt.Errorf("invalid command line")
	}

	switch cmd {
	case "isready":
		return uci.isready(line)
	case "quit":
		return ErrQuit
	case "uci":
		return uci.uci(line)
	case "ucinewgame":
		return uci.ucinewgame(line)
	case "position":
		return uci.position(line)
	case "go":
		return uci.go_(line)
	case "setoption":
		return uci.setoption(line)
	default:
		return fmt.Errorf("unhandled command %s", cmd)
	}
}

func (uci *UCI) uci(line string) error {
	fmt.Printf("id name corvid %v\n", buildVersion)
	fmt.Printf("id author the corvid contributors\n")
	fmt.Printf("\n")
	fmt.Printf("option name Hash type spin default %v min 1 max 65536\n", engine.DefaultHashTableSizeMB)
	fmt.Printf("option name UCI_AnalyseMode type check default false\n")
	fmt.Println("uciok")
	return nil
}

func (uci *UCI) isready(line string) error {
	fmt.Println("readyok")
	return nil
}

func (uci *UCI) ucinewgame(line string) error {
	uci.hash = engine.NewHashTable(engine.DefaultHashTableSizeMB)
	uci.history = engine.NewHistory()
	uci.search = engine.NewSearcher(uci.search.Position, uci.hash, uci.history, uci.evaluator(), newUCILogger(), uci.search.Options)
	return nil
}

func (uci *UCI) position(line string) error {
	args := strings.Fields(line)[1:]
	if len(args) == 0 {
		return fmt.Errorf("expected argument for 'position'")
	}

	var pos *board.Position
	var err error

	i := 0
	switch args[i] {
	case "startpos":
		pos, err = board.PositionFromFEN(board.FENStartPos)
		i++
	case "fen":
		for i < len(args) && args[i] != "moves" {
			i++
		}
		pos, err = board.PositionFromFEN(strings.Join(args[1:i], " "))
	default:
		err = fmt.Errorf("unknown position command: %s", args[0])
	}
	if err != nil {
		return err
	}

	uci.search.SetPosition(pos)

	if i < len(args) {
		if args[i] != "moves" {
			return fmt.Errorf("expected 'moves', got '%s'", args[i])
		}
		for _, m := range args[i+1:] {
			move, err := board.UCIToMove(uci.search.Position, m)
			if err != nil {
				return err
			}
			uci.search.Position.DoMove(move)
		}
	}

	return nil
}

var validGoCommands = map[string]bool{
	"searchmoves": true, "ponder": true, "wtime": true, "btime": true,
	"winc": true, "binc": true, "movestogo": true, "depth": true, "nodes": true,
	"mate": true, "movetime": true, "infinite": true,
}

func (uci *UCI) go_(line string) error {
	tc := engine.NewTimeControl(uci.search.Position)
	uci.rootMoves = uci.rootMoves[:0]

	args := strings.Fields(line)[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "searchmoves":
			for j := i + 1; j < len(args) && !validGoCommands[args[j]]; j++ {
				m, err := board.UCIToMove(uci.search.Position, args[j])
				if err != nil {
					return err
				}
				i++
				uci.rootMoves = append(uci.rootMoves, m)
			}
		case "ponder":
			// Pondering beyond this flag being accepted is out of scope
			// (spec.md Non-goals).
		case "infinite":
			tc.Depth = 64
		case "wtime":
			i++
			t, _ := strconv.Atoi(args[i])
			tc.WTime = time.Duration(t) * time.Millisecond
		case "winc":
			i++
			t, _ := strconv.Atoi(args[i])
			tc.WInc = time.Duration(t) * time.Millisecond
		case "btime":
			i++
			t, _ := strconv.Atoi(args[i])
			tc.BTime = time.Duration(t) * time.Millisecond
		case "binc":
			i++
			t, _ := strconv.Atoi(args[i])
			tc.BInc = time.Duration(t) * time.Millisecond
		case "movestogo":
			i++
			t, _ := strconv.Atoi(args[i])
			tc.MovesToGo = t
		case "movetime":
			i++
			t, _ := strconv.Atoi(args[i])
			tc.WTime = time.Duration(t) * time.Millisecond
			tc.WInc = 0
			tc.BTime = time.Duration(t) * time.Millisecond
			tc.BInc = 0
			tc.MovesToGo = 1
		case "depth":
			i++
			d, _ := strconv.Atoi(args[i])
			tc.Depth = d
		case "nodes", "mate":
			log.Noticef("%s not implemented, ignoring", args[i])
			i++
		default:
			return fmt.Errorf("invalid go command %s", args[i])
		}
	}

	tc.Start(false)
	moves := uci.search.Play(tc)

	if len(moves) == 0 {
		fmt.Printf("bestmove (none)\n")
	} else if len(moves) == 1 {
		fmt.Printf("bestmove %v\n", moves[0].UCI())
	} else {
		fmt.Printf("bestmove %v ponder %v\n", moves[0].UCI(), moves[1].UCI())
	}
	return nil
}

func (uci *UCI) setoption(line string) error {
	option := reOption.FindStringSubmatch(line)
	if option == nil {
		return fmt.Errorf("invalid setoption arguments")
	}
	if len(option) < 2 {
		return fmt.Errorf("missing setoption name")
	}

	switch option[1] {
	case "Clear Hash":
		uci.hash = engine.NewHashTable(engine.DefaultHashTableSizeMB)
		uci.search = engine.NewSearcher(uci.search.Position, uci.hash, uci.history, uci.evaluator(), uci.search.Log, uci.search.Options)
		return nil
	}

	if len(option) < 4 {
		return fmt.Errorf("missing setoption value")
	}
	switch option[1] {
	case "UCI_AnalyseMode":
		mode, err := strconv.ParseBool(option[3])
		if err != nil {
			return err
		}
		uci.search.Options.AnalyseMode = mode
		return nil
	case "Hash":
		hashSizeMB, err := strconv.ParseInt(option[3], 10, 64)
		if err != nil {
			return err
		}
		uci.hash = engine.NewHashTable(int(hashSizeMB))
		uci.search = engine.NewSearcher(uci.search.Position, uci.hash, uci.history, uci.evaluator(), uci.search.Log, uci.search.Options)
		return nil
	case "Ponder":
		return nil
	default:
		return fmt.Errorf("unhandled option %s", option[1])
	}
}

var reOption = regexp.MustCompile(`^setoption\s+name\s+(.+?)(\s+value\s+(.*))?$`)
