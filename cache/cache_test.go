// Copyright 2014-2016 The Zurichess Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache

import "testing"

func TestNetworkRoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, ok, err := s.GetNetwork(42); err != nil || ok {
		t.Fatalf("expected no cached network yet, got ok=%v err=%v", ok, err)
	}

	want := []byte{1, 2, 3, 4, 5}
	if err := s.PutNetwork(42, want); err != nil {
		t.Fatalf("PutNetwork: %v", err)
	}

	got, ok, err := s.GetNetwork(42)
	if err != nil || !ok {
		t.Fatalf("GetNetwork after Put: ok=%v err=%v", ok, err)
	}
	if string(got) != string(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, ok, err := s.GetNetwork(7); err != nil || ok {
		t.Fatalf("expected no entry for a different seed, got ok=%v err=%v", ok, err)
	}
}

func TestBitbaseReady(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if ready, err := s.BitbaseReady("kpk"); err != nil || ready {
		t.Fatalf("expected kpk not ready yet, got ready=%v err=%v", ready, err)
	}

	if err := s.MarkBitbaseReady("kpk"); err != nil {
		t.Fatalf("MarkBitbaseReady: %v", err)
	}

	if ready, err := s.BitbaseReady("kpk"); err != nil || !ready {
		t.Fatalf("expected kpk ready, got ready=%v err=%v", ready, err)
	}
	if ready, err := s.BitbaseReady("kpkp"); err != nil || ready {
		t.Fatalf("expected kpkp still not ready, got ready=%v err=%v", ready, err)
	}
}
