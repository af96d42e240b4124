package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nguyenphuquang1234567/diep-new/config"
	"github.com/nguyenphuquang1234567/diep-new/relay"
	"github.com/nguyenphuquang1234567/diep-new/store"
)

func main() {
	cfg := config.Load()

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	staticDir := flag.String("static", cfg.StaticDir, "Path to client directory served at /")
	publicURL := flag.String("public-url", cfg.PublicURL, "Join URL encoded in /qr.png (default: derived from the request)")
	ledgerPath := flag.String("ledger", cfg.LedgerPath, "sqlite file for the session ledger (empty: in-memory)")
	flag.Parse()

	db, err := store.OpenDB(*ledgerPath)
	if err != nil {
		log.Fatalf("ledger: %v", err)
	}
	ledger := store.NewLedger(db)

	hub := relay.NewHub(ledger)
	go hub.Run()

	mux := relay.NewRouter(hub, relay.Options{
		StaticDir: *staticDir,
		PublicURL: *publicURL,
		Ledger:    ledger,
	})

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("Relay starting on %s (run %s)", *addr, ledger.RunID())
		log.Printf("Serving client files from %s", *staticDir)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	server.Close()
	hub.Stop()
	ledger.Stop()
	db.Close()
}
