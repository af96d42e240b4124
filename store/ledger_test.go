package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLedgerPersistsOnStop(t *testing.T) {
	db := openTestDB(t)
	l := NewLedger(db)
	l.Track(EvtPeerJoin, "a", "red")
	l.Track(EvtPeerJoin, "b", "blue")
	l.Track(EvtHostElected, "a", "red")
	l.Stop()

	counts, err := db.EventCounts(l.RunID())
	if err != nil {
		t.Fatal(err)
	}
	if counts[EvtPeerJoin] != 2 || counts[EvtHostElected] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}
}

func TestLedgerStopTwice(t *testing.T) {
	l := NewLedger(openTestDB(t))
	l.Stop()
	l.Stop()
}

func TestLedgerStatsWithoutDB(t *testing.T) {
	l := NewLedger(nil)
	defer l.Stop()
	if l.RunID() == "" {
		t.Fatal("run ID should be set without a database")
	}
	l.SetPeers(2)
	l.SetPeers(1)
	l.Track(EvtPeerLeave, "x", "blue")
	l.RecordMatch("red", 5)

	s, err := l.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if s.Peers != 1 || s.PeakPeers != 2 {
		t.Errorf("expected 1 peer, peak 2; got %d, %d", s.Peers, s.PeakPeers)
	}
	if s.Events[EvtPeerLeave] != 1 || s.Events[EvtMatchEnd] != 1 {
		t.Errorf("unexpected live counts %v", s.Events)
	}
	if s.Wins != nil {
		t.Error("wins need a database")
	}
}

func TestRecordRoundCounted(t *testing.T) {
	l := NewLedger(nil)
	defer l.Stop()
	l.RecordRound("blue", 1)
	l.RecordRound("red", 2)

	s, err := l.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if s.Events[EvtRoundOver] != 2 {
		t.Errorf("expected 2 rounds counted, got %v", s.Events)
	}
}

func TestRecordMatchWins(t *testing.T) {
	db := openTestDB(t)
	l := NewLedger(db)
	defer l.Stop()
	l.RecordMatch("red", 8)
	l.RecordMatch("blue", 10)
	l.RecordMatch("red", 7)

	s, err := l.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if s.Wins["red"] != 2 || s.Wins["blue"] != 1 {
		t.Errorf("unexpected wins %v", s.Wins)
	}
	if s.Runs != 1 {
		t.Errorf("expected one run, got %d", s.Runs)
	}

	recent, err := db.RecentMatches(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 || recent[0].Winner != "red" || recent[0].Rounds != 7 || recent[1].Winner != "blue" {
		t.Errorf("unexpected recent matches %+v", recent)
	}
	if recent[0].RunID != l.RunID() {
		t.Error("match should carry the run ID")
	}
}

func TestRunsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := OpenDB(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.StartRun(time.Now()); err != nil {
		t.Fatal(err)
	}
	db.Close()

	db, err = OpenDB(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	n, err := db.RunCount()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected 1 run after reopen, got %d", n)
	}
}
