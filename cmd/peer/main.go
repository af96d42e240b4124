// Command peer joins a relay as a headless player. A bot drives the tank,
// which is handy for play-testing the relay and for soak runs.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nguyenphuquang1234567/diep-new/config"
	"github.com/nguyenphuquang1234567/diep-new/peer"
	"github.com/nguyenphuquang1234567/diep-new/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cfg := config.Load()

	relayURL := flag.String("relay", cfg.RelayURL, "relay websocket URL")
	tuningFile := flag.String("tuning", cfg.TuningFile, "TOML balance overrides")
	ledgerPath := flag.String("ledger", "", "sqlite file recording finished matches (host only)")
	binary := flag.Bool("binary", false, "send msgpack snapshots when hosting")
	seed := flag.Uint64("seed", 0, "world and bot seed, 0 for random")
	advance := flag.Duration("advance", 3*time.Second, "press continue this often after a round ends, 0 to never")
	every := flag.Int("every", 0, "log a frame summary every N ticks")
	quiet := flag.Bool("quiet", false, "do not log audio cues")
	flag.Parse()

	tun, err := config.ReadTuning(*tuningFile)
	if err != nil {
		log.Fatalf("tuning: %v", err)
	}

	opts := peer.Options{
		Tuning:     tun,
		SnapshotHz: cfg.SnapshotHz,
		InputHz:    cfg.InputHz,
		Binary:     *binary,
		Seed:       *seed,
		Renderer:   &peer.LogRenderer{Every: *every},
		Input:      peer.NewBotInput(*seed+uint64(time.Now().UnixNano()), 0),
	}
	if !*quiet {
		opts.Audio = peer.LogAudio{}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	conn, err := peer.Dial(ctx, *relayURL)
	if errors.Is(err, peer.ErrArenaFull) {
		log.Printf("%s: arena is full, try again later", *relayURL)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	log.Printf("Connected to %s", *relayURL)

	if *ledgerPath != "" {
		db, err := store.OpenDB(*ledgerPath)
		if err != nil {
			conn.Close()
			log.Fatalf("ledger: %v", err)
		}
		defer db.Close()
		ledger := store.NewLedger(db)
		defer ledger.Stop()
		opts.Recorder = ledger
	}

	s := peer.NewSession(conn, opts)
	go conn.ReadLoop(ctx, s.Inbox)
	if *advance > 0 {
		go func() {
			t := time.NewTicker(*advance)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					s.Advance()
				}
			}
		}()
	}

	err = s.Run(ctx)
	switch {
	case errors.Is(err, context.Canceled):
		log.Println("Shutting down...")
	case errors.Is(err, peer.ErrDisconnected):
		log.Printf("relay went away: %v", err)
	default:
		log.Printf("session ended: %v", err)
	}
}
