package store

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
)

// Event types recorded in the ledger
const (
	EvtPeerJoin     = "peer_join"
	EvtPeerLeave    = "peer_leave"
	EvtHostElected  = "host_elected"
	EvtArenaFull    = "arena_full"
	EvtRoundOver    = "round_over"
	EvtMatchEnd     = "match_end"
)

const (
	batchSize  = 50
	flushEvery = 5 * time.Second
)

// LedgerEvent is a single tracked event
type LedgerEvent struct {
	Type      string
	PeerID    string
	Color     string
	Timestamp time.Time
}

// Stats is the summary served on /stats
type Stats struct {
	RunID     string         `json:"runId"`
	StartedAt time.Time      `json:"startedAt"`
	Peers     int            `json:"peers"`
	PeakPeers int            `json:"peakPeers"`
	Events    map[string]int `json:"events"`
	Wins      map[string]int `json:"wins,omitempty"`
	Runs      int            `json:"runs,omitempty"`
}

// Ledger tracks events for one run with batched background writes.
// A nil DB keeps the live counters only.
type Ledger struct {
	db        *DB
	runID     string
	startedAt time.Time
	events    chan LedgerEvent
	stop      chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup

	mu        sync.RWMutex
	peers     int
	peakPeers int
	counts    map[string]int
}

// NewLedger starts a run and its background writer
func NewLedger(db *DB) *Ledger {
	l := &Ledger{
		db:        db,
		startedAt: time.Now().UTC(),
		events:    make(chan LedgerEvent, 1024),
		stop:      make(chan struct{}),
		counts:    make(map[string]int),
	}
	if db != nil {
		id, err := db.StartRun(l.startedAt)
		if err != nil {
			log.Printf("ledger: %v", err)
		}
		l.runID = id
	}
	if l.runID == "" {
		l.runID = ksuid.New().String()
	}
	l.wg.Add(1)
	go l.writer()
	return l
}

// RunID identifies this run in the ledger
func (l *Ledger) RunID() string {
	return l.runID
}

// Track enqueues an event for async persistence (non-blocking)
func (l *Ledger) Track(evtType, peerID, color string) {
	l.mu.Lock()
	l.counts[evtType]++
	l.mu.Unlock()

	select {
	case l.events <- LedgerEvent{Type: evtType, PeerID: peerID, Color: color, Timestamp: time.Now().UTC()}:
	default:
		// full: drop rather than stall the hub
	}
}

// SetPeers updates the live peer count
func (l *Ledger) SetPeers(n int) {
	l.mu.Lock()
	l.peers = n
	if n > l.peakPeers {
		l.peakPeers = n
	}
	l.mu.Unlock()
}

// RecordRound tracks a finished round
func (l *Ledger) RecordRound(winner string, round int) {
	l.Track(EvtRoundOver, "", winner)
}

// RecordMatch stores a finished match and tracks it
func (l *Ledger) RecordMatch(winner string, rounds int) {
	l.Track(EvtMatchEnd, "", winner)
	if l.db == nil {
		return
	}
	if _, err := l.db.RecordMatch(l.runID, winner, rounds); err != nil {
		log.Printf("ledger: %v", err)
	}
}

// Stats returns live counters plus all-time results from the database
func (l *Ledger) Stats() (Stats, error) {
	l.mu.RLock()
	s := Stats{
		RunID:     l.runID,
		StartedAt: l.startedAt,
		Peers:     l.peers,
		PeakPeers: l.peakPeers,
		Events:    make(map[string]int, len(l.counts)),
	}
	for k, v := range l.counts {
		s.Events[k] = v
	}
	l.mu.RUnlock()

	if l.db == nil {
		return s, nil
	}
	wins, err := l.db.WinsByColor()
	if err != nil {
		return s, err
	}
	s.Wins = wins
	s.Runs, err = l.db.RunCount()
	return s, err
}

// Stop drains pending events and closes the run. Safe to call twice.
func (l *Ledger) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
		l.wg.Wait()
		if l.db != nil {
			if err := l.db.StopRun(l.runID, time.Now()); err != nil {
				log.Printf("ledger: stop run: %v", err)
			}
		}
	})
}

func (l *Ledger) writer() {
	defer l.wg.Done()

	batch := make([]LedgerEvent, 0, 64)
	ticker := time.NewTicker(flushEvery)
	defer ticker.Stop()

	for {
		select {
		case evt := <-l.events:
			batch = append(batch, evt)
			if len(batch) >= batchSize {
				l.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				l.flush(batch)
				batch = batch[:0]
			}
		case <-l.stop:
			for {
				select {
				case evt := <-l.events:
					batch = append(batch, evt)
				default:
					l.flush(batch)
					return
				}
			}
		}
	}
}

func (l *Ledger) flush(events []LedgerEvent) {
	if l.db == nil || len(events) == 0 {
		return
	}
	tx, err := l.db.conn.Begin()
	if err != nil {
		log.Printf("ledger: begin tx error: %v", err)
		return
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO ledger_events (run_id, event_type, peer_id, color, created_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("ledger: prepare error: %v", err)
		return
	}
	defer stmt.Close()

	for _, evt := range events {
		pid := sql.NullString{String: evt.PeerID, Valid: evt.PeerID != ""}
		color := sql.NullString{String: evt.Color, Valid: evt.Color != ""}
		if _, err := stmt.Exec(l.runID, evt.Type, pid, color, evt.Timestamp.Format(time.RFC3339)); err != nil {
			log.Printf("ledger: insert error: %v", err)
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("ledger: commit error: %v", err)
	}
}
