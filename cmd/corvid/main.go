// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/op/go-logging"
)

var (
	buildVersion = "(devel)"
	buildTime    = "(just now)"

	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	version    = flag.Bool("version", false, "only print version and exit")
	useNNUE    = flag.Bool("nnue", false, "evaluate with the NNUE network instead of the classical evaluator")
	nnueSeed   = flag.Int64("nnue-seed", 1, "deterministic seed for the built-in NNUE network")
	cacheDir   = flag.String("cache-dir", "", "directory for the on-disk NNUE/bitbase cache (disabled if empty)")
	logLevel   = flag.String("loglevel", "WARNING", "diagnostic log level: DEBUG, INFO, NOTICE, WARNING, ERROR, CRITICAL")
)

// log carries engine-internals diagnostics (resource errors, I/O
// failures at boundaries) -- never UCI protocol lines, which are wire
// format and go straight to os.Stdout via fmt, exactly as the teacher's
// uciLogger does.
var log = logging.MustGetLogger("corvid")

func initLogging() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.MustStringFormatter(
		`%{time:15:04:05.000} %{level:.4s} %{message}`,
	)
	formatted := logging.NewBackendFormatter(backend, formatter)
	level, err := logging.LogLevel(*logLevel)
	if err != nil {
		level = logging.WARNING
	}
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}

func main() {
	flag.Parse()
	initLogging()

	fmt.Printf("corvid %v, build with %v at %v, running on %v\n",
		buildVersion, runtime.Version(), buildTime, runtime.GOARCH)
	if *version {
		return
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Errorf("cpuprofile: %v", err)
		} else {
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}
	}

	uci := NewUCI(*useNNUE, *nnueSeed, *cacheDir)
	defer uci.Close()

	bio := bufio.NewReader(os.Stdin)
	for {
		line, _, err := bio.ReadLine()
		if err != nil {
			log.Infof("stdin closed: %v", err)
			break
		}
		if err := uci.Execute(string(line)); err != nil {
			if err != ErrQuit {
				log.Warningf("line %q: %v", string(line), err)
			} else {
				break
			}
		}
	}
}
