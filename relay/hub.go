package relay

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/nguyenphuquang1234567/diep-new/game"
	"github.com/nguyenphuquang1234567/diep-new/protocol"
	"github.com/nguyenphuquang1234567/diep-new/store"
)

// frame is one decoded message from a peer, routed by the hub
type frame struct {
	from   *Client
	t      string
	raw    []byte
	binary bool
	input  protocol.InputMsg
}

// Hub owns the two seats of the arena. Seat, color and host changes all
// happen on the Run goroutine; the mutex only guards reads from HTTP handlers.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	inbound    chan frame
	stop       chan struct{}
	stopOnce   sync.Once

	mu      sync.RWMutex
	seats   [protocol.MaxPlayers]*Client // indexed by color
	order   []*Client                    // connection order, oldest first
	host    *Client
	pending int // upgrades admitted but not yet registered

	ledger *store.Ledger
}

// NewHub creates a hub. ledger may be nil.
func NewHub(ledger *store.Ledger) *Hub {
	return &Hub{
		register:   make(chan *Client, 8),
		unregister: make(chan *Client, 8),
		inbound:    make(chan frame, 256),
		stop:       make(chan struct{}),
		ledger:     ledger,
	}
}

// Reserve claims a seat for a connection about to be upgraded. It returns
// false when both seats are taken or promised.
func (h *Hub) Reserve() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.order)+h.pending >= protocol.MaxPlayers {
		return false
	}
	h.pending++
	return true
}

// Release gives back a reservation whose upgrade failed
func (h *Hub) Release() {
	h.mu.Lock()
	if h.pending > 0 {
		h.pending--
	}
	h.mu.Unlock()
}

// PeerCount returns the number of seated peers
func (h *Hub) PeerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.order)
}

// HostID returns the current host's peer ID, or "" when there is none
func (h *Hub) HostID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.host == nil {
		return ""
	}
	return h.host.id
}

// Stop ends Run. Connected clients are closed.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// Run processes register/unregister events and routes peer messages
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.join(c)
		case c := <-h.unregister:
			h.leave(c)
		case f := <-h.inbound:
			h.route(f)
		case <-h.stop:
			h.mu.Lock()
			for _, c := range h.order {
				close(c.send)
			}
			h.order = nil
			h.seats = [protocol.MaxPlayers]*Client{}
			h.host = nil
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) join(c *Client) {
	h.mu.Lock()
	if h.pending > 0 {
		h.pending--
	}
	color, ok := h.freeColor()
	if !ok {
		h.mu.Unlock()
		// Reserve keeps this from happening; refuse rather than over-seat
		log.Printf("relay: no free seat for %s", c.id)
		close(c.send)
		return
	}
	c.color = color
	h.seats[color] = c
	h.order = append(h.order, c)
	hostChanged := false
	if h.host == nil {
		h.host = c
		hostChanged = true
	}
	count := len(h.order)
	h.mu.Unlock()

	log.Printf("relay: %s joined as %s (%d/%d)", c.id, color, count, protocol.MaxPlayers)
	h.track(store.EvtPeerJoin, c)
	if hostChanged {
		h.track(store.EvtHostElected, c)
	}
	h.setPeers(count)

	c.SendMsg(protocol.MsgAssignColor, protocol.AssignColorMsg{Color: color.String(), ID: c.id})
	if hostChanged {
		h.broadcast(protocol.MsgHostID, protocol.HostIDMsg{ID: c.id})
	} else {
		c.SendMsg(protocol.MsgHostID, protocol.HostIDMsg{ID: h.HostID()})
	}
	h.broadcast(protocol.MsgPlayerCount, protocol.PlayerCountMsg{Count: count})
}

func (h *Hub) leave(c *Client) {
	h.mu.Lock()
	idx := -1
	for i, o := range h.order {
		if o == c {
			idx = i
			break
		}
	}
	if idx < 0 {
		h.mu.Unlock()
		return
	}
	h.order = append(h.order[:idx], h.order[idx+1:]...)
	if h.seats[c.color] == c {
		h.seats[c.color] = nil
	}
	close(c.send)

	// re-electing from the current order makes repeated losses idempotent
	hostChanged := false
	if h.host == c {
		h.host = nil
		if len(h.order) > 0 {
			h.host = h.order[0]
		}
		hostChanged = true
	}
	newHost := h.host
	count := len(h.order)
	h.mu.Unlock()

	log.Printf("relay: %s (%s) left, %d remaining", c.id, c.color, count)
	h.track(store.EvtPeerLeave, c)
	h.setPeers(count)

	h.broadcast(protocol.MsgPlayerDisconnected, nil)
	if hostChanged {
		id := ""
		if newHost != nil {
			id = newHost.id
			h.track(store.EvtHostElected, newHost)
			log.Printf("relay: host is now %s", id)
		}
		h.broadcast(protocol.MsgHostID, protocol.HostIDMsg{ID: id})
	}
	h.broadcast(protocol.MsgPlayerCount, protocol.PlayerCountMsg{Count: count})
}

// route forwards snapshots from the host to everyone else and input from
// viewers to the host. Anything else is dropped.
func (h *Hub) route(f frame) {
	h.mu.RLock()
	host := h.host
	seated := false
	for _, c := range h.order {
		if c == f.from {
			seated = true
			break
		}
	}
	h.mu.RUnlock()
	if !seated {
		return
	}

	switch f.t {
	case protocol.MsgGameState:
		if f.from != host {
			return
		}
		h.mu.RLock()
		for _, c := range h.order {
			if c == f.from {
				continue
			}
			if f.binary {
				c.SendBinary(f.raw)
			} else {
				c.SendRaw(f.raw)
			}
		}
		h.mu.RUnlock()

	case protocol.MsgPlayerInput:
		if host == nil || f.from == host {
			return
		}
		msg := f.input
		// the seat decides the color, not the payload
		msg.Color = f.from.color.String()
		host.SendMsg(protocol.MsgViewerInput, msg)

	default:
		log.Printf("relay: dropping %q from %s", f.t, f.from.id)
	}
}

// freeColor returns the first open seat, red first. Caller holds mu.
func (h *Hub) freeColor() (game.Color, bool) {
	for _, c := range game.Colors {
		if h.seats[c] == nil {
			return c, true
		}
	}
	return game.Red, false
}

// broadcast sends a message to every seated peer
func (h *Hub) broadcast(t string, payload any) {
	data, err := protocol.Encode(t, payload)
	if err != nil {
		log.Printf("relay: encode %s: %v", t, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.order {
		c.SendRaw(data)
	}
}

func (h *Hub) track(evt string, c *Client) {
	if h.ledger != nil {
		h.ledger.Track(evt, c.id, c.color.String())
	}
}

func (h *Hub) setPeers(n int) {
	if h.ledger != nil {
		h.ledger.SetPeers(n)
	}
}

func (h *Hub) refused() {
	if h.ledger != nil {
		h.ledger.Track(store.EvtArenaFull, "", "")
	}
}

func newPeerID() string {
	return uuid.New().String()
}
