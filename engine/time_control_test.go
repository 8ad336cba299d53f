// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"testing"
	"time"
)

func TestFixedDepthTimeControlStopsAtDepth(t *testing.T) {
	pos := startPos(t)
	tc := NewFixedDepthTimeControl(pos, 3)
	tc.Start(false)

	for d := 0; d <= 3; d++ {
		if !tc.NextDepth(d) {
			t.Fatalf("expected depth %d to be allowed under a depth-3 limit", d)
		}
	}
	if tc.NextDepth(4) {
		t.Error("expected depth 4 to be rejected under a depth-3 limit")
	}
}

func TestDeadlineTimeControlStops(t *testing.T) {
	pos := startPos(t)
	tc := NewDeadlineTimeControl(pos, 10*time.Millisecond)
	tc.Start(false)

	time.Sleep(50 * time.Millisecond)
	if !tc.Stopped() {
		t.Error("expected the time control to have stopped after its deadline passed")
	}
}

func TestTimeControlStopIsSticky(t *testing.T) {
	pos := startPos(t)
	tc := NewTimeControl(pos)
	tc.Start(false)

	tc.Stop()
	if !tc.Stopped() {
		t.Error("expected Stop to be reflected immediately by Stopped")
	}
}

func TestPonderHitSwitchesDeadline(t *testing.T) {
	pos := startPos(t)
	tc := NewTimeControl(pos)
	tc.Start(true)
	if tc.Stopped() {
		t.Fatal("a fresh, unlimited time control should not report stopped")
	}
	tc.PonderHit()
	if tc.Aborted() {
		t.Error("expected a successful ponder hit to not count as aborted")
	}
}
