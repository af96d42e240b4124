package relay

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/gorilla/websocket"
	"github.com/skip2/go-qrcode"

	"github.com/nguyenphuquang1234567/diep-new/store"
)

const qrSize = 256

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

// Options configures the HTTP surface of the relay
type Options struct {
	StaticDir string // empty disables static files
	PublicURL string // join URL for /qr.png; derived from the request when empty
	Ledger    *store.Ledger
}

// StatsResponse is the body of /stats
type StatsResponse struct {
	Peers  int          `json:"peers"`
	HostID string       `json:"hostId"`
	Ledger *store.Stats `json:"ledger,omitempty"`
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// NewRouter builds the relay's routes
func NewRouter(hub *Hub, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ws", hub.ServeWS)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/stats", statsHandler(hub, opts.Ledger))
	r.Get("/qr.png", qrHandler(opts.PublicURL))

	if opts.StaticDir != "" {
		fs := http.FileServer(http.Dir(opts.StaticDir))
		r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// no-cache so browsers always revalidate the client
			w.Header().Set("Cache-Control", "no-cache")
			fs.ServeHTTP(w, r)
		}))
	}
	return r
}

// ServeWS upgrades a connection and seats it, or answers 503 when the
// arena already has two peers
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	if !h.Reserve() {
		h.refused()
		http.Error(w, "arena full", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Release()
		log.Printf("upgrade error: %v", err)
		return
	}

	client := NewClient(h, conn, extractIP(r))
	select {
	case h.register <- client:
	case <-h.stop:
		h.Release()
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}

func statsHandler(hub *Hub, ledger *store.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatsResponse{Peers: hub.PeerCount(), HostID: hub.HostID()}
		if ledger != nil {
			s, err := ledger.Stats()
			if err != nil {
				log.Printf("stats: %v", err)
			}
			resp.Ledger = &s
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("stats: encode: %v", err)
		}
	}
}

func qrHandler(publicURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := publicURL
		if target == "" {
			target = "http://" + r.Host + "/"
		}
		png, err := qrcode.Encode(target, qrcode.Medium, qrSize)
		if err != nil {
			log.Printf("qr: %v", err)
			http.Error(w, "qr encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write(png)
	}
}
