package peer

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"time"

	"github.com/nguyenphuquang1234567/diep-new/game"
	"github.com/nguyenphuquang1234567/diep-new/protocol"
)

// ErrDisconnected is returned by Run when the relay connection drops
var ErrDisconnected = errors.New("relay connection lost")

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	Tuning     game.Tuning
	Width      float64
	Height     float64
	SnapshotHz int
	InputHz    int
	Binary     bool   // send msgpack snapshots instead of JSON
	Seed       uint64 // 0 seeds the host world from the clock

	Renderer Renderer
	Audio    AudioNotifier
	Input    InputSource
	Recorder MatchRecorder
}

// advanceCmd is the local "press any key" after a round or match
type advanceCmd struct{}

// Session is one peer's view of the arena. A single Run goroutine owns
// every field; other goroutines talk to it through Inbox.
type Session struct {
	Inbox chan any

	conn Transport
	opts Options

	id          string
	color       game.Color
	hasColor    bool
	hostID      string
	playerCount int
	role        Role

	world  *game.World // host only
	viewer *Viewer     // viewer only
	remote [2]game.Input
	local  game.Input
	cues   []game.Event // host events not yet sent
	ticks  int
}

// NewSession creates a session sending over conn
func NewSession(conn Transport, opts Options) *Session {
	if opts.Tuning == (game.Tuning{}) {
		opts.Tuning = game.DefaultTuning()
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = game.DefaultArenaWidth, game.DefaultArenaHeight
	}
	if opts.SnapshotHz <= 0 || opts.SnapshotHz > protocol.SimTickHz {
		opts.SnapshotHz = protocol.SnapshotHz
	}
	if opts.InputHz <= 0 {
		opts.InputHz = protocol.InputHz
	}
	if opts.Renderer == nil {
		opts.Renderer = nopRenderer{}
	}
	if opts.Audio == nil {
		opts.Audio = NopAudio{}
	}
	if opts.Input == nil {
		opts.Input = IdleInput{}
	}
	return &Session{
		Inbox: make(chan any, 256),
		conn:  conn,
		opts:  opts,
	}
}

// Advance asks the host to leave a finished round or match. Ignored on
// viewers and while playing.
func (s *Session) Advance() {
	select {
	case s.Inbox <- advanceCmd{}:
	default:
	}
}

// Role returns the current role. Only safe from the Run goroutine or
// after Run has returned.
func (s *Session) Role() Role {
	return s.role
}

// Run drives the session until ctx ends or the connection is lost
func (s *Session) Run(ctx context.Context) error {
	sim := time.NewTicker(game.TickDuration)
	defer sim.Stop()
	input := time.NewTicker(time.Second / time.Duration(s.opts.InputHz))
	defer input.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case msg := <-s.Inbox:
			if d, ok := msg.(Disconnected); ok {
				s.reset()
				if d.Err != nil {
					return errors.Join(ErrDisconnected, d.Err)
				}
				return ErrDisconnected
			}
			s.handle(msg)

		case <-sim.C:
			s.local = s.opts.Input.Poll()
			switch s.role {
			case RoleHost:
				s.hostTick()
			case RoleViewer:
				s.viewer.Frame(s.local)
			}
			s.render()

		case <-input.C:
			s.sendInput()
		}
	}
}

func (s *Session) handle(msg any) {
	switch m := msg.(type) {
	case Inbound:
		s.handleFrame(m)
	case advanceCmd:
		if s.role == RoleHost && s.world.Advance() {
			log.Printf("peer: advancing to round %d", s.world.RoundNumber)
		}
	}
}

func (s *Session) handleFrame(in Inbound) {
	if in.Binary {
		if s.role != RoleViewer {
			return
		}
		snap, err := protocol.UnmarshalSnapshot(in.Data)
		if err != nil {
			log.Printf("peer: %v", err)
			return
		}
		s.viewer.Apply(snap)
		return
	}

	env, err := protocol.DecodeEnvelope(in.Data)
	if err != nil {
		log.Printf("peer: %v", err)
		return
	}

	switch env.T {
	case protocol.MsgAssignColor:
		msg, err := protocol.DecodePayload[protocol.AssignColorMsg](env)
		if err != nil {
			log.Printf("peer: %v", err)
			return
		}
		c, ok := game.ParseColor(msg.Color)
		if !ok {
			log.Printf("peer: unknown color %q", msg.Color)
			return
		}
		s.id, s.color, s.hasColor = msg.ID, c, true
		log.Printf("peer: assigned %s as %s", c, msg.ID)
		s.updateRole()

	case protocol.MsgHostID:
		// a missing payload means no host
		msg, _ := protocol.DecodePayload[protocol.HostIDMsg](env)
		s.hostID = msg.ID
		s.updateRole()

	case protocol.MsgPlayerCount:
		msg, err := protocol.DecodePayload[protocol.PlayerCountMsg](env)
		if err != nil {
			log.Printf("peer: %v", err)
			return
		}
		s.playerCount = msg.Count
		s.updateRole()

	case protocol.MsgPlayerDisconnected:
		log.Printf("peer: opponent left, waiting for a new one")
		s.reset()

	case protocol.MsgViewerInput:
		if s.role != RoleHost {
			return
		}
		msg, err := protocol.DecodeInput(env)
		if err != nil {
			log.Printf("peer: %v", err)
			return
		}
		if msg.Color == "" {
			msg.Color = s.color.Opponent().String()
		}
		c, ok := game.ParseColor(msg.Color)
		if !ok || c == s.color {
			return
		}
		s.remote[c] = msg.Input

	case protocol.MsgGameState:
		if s.role != RoleViewer {
			return
		}
		snap, err := protocol.DecodePayload[protocol.Snapshot](env)
		if err != nil {
			log.Printf("peer: %v", err)
			return
		}
		s.viewer.Apply(snap)
	}
}

// updateRole starts the match once both seats are filled and the host
// is known
func (s *Session) updateRole() {
	ready := s.hasColor && s.hostID != "" && s.playerCount == protocol.MaxPlayers
	if !ready {
		if s.role != RoleWaiting {
			s.reset()
		}
		return
	}
	if s.hostID == s.id {
		if s.role != RoleHost {
			s.startHost()
		}
		return
	}
	if s.role != RoleViewer {
		s.startViewer()
	}
}

func (s *Session) startHost() {
	var rng *rand.Rand
	if s.opts.Seed != 0 {
		rng = rand.New(rand.NewPCG(s.opts.Seed, s.opts.Seed))
	}
	s.world = game.NewWorld(s.opts.Width, s.opts.Height, s.opts.Tuning, rng)
	s.viewer = nil
	s.remote = [2]game.Input{}
	s.cues = nil
	s.ticks = 0
	s.role = RoleHost
	log.Printf("peer: hosting as %s", s.color)
}

func (s *Session) startViewer() {
	s.world = nil
	s.viewer = NewViewer(s.color, s.opts.Tuning, s.opts.Audio)
	s.role = RoleViewer
	log.Printf("peer: viewing as %s", s.color)
}

// reset drops the match. The player count is unknown until the relay
// sends a fresh one.
func (s *Session) reset() {
	s.role = RoleWaiting
	s.world = nil
	s.viewer = nil
	s.remote = [2]game.Input{}
	s.cues = nil
	s.ticks = 0
	s.playerCount = 0
}

// hostTick steps the simulation and sends a snapshot every few ticks
func (s *Session) hostTick() {
	inputs := s.remote
	inputs[s.color] = s.local
	events := s.world.Step(inputs)
	for _, e := range events {
		if e.IsCue() {
			s.opts.Audio.Play(e)
		}
		if s.opts.Recorder == nil {
			continue
		}
		switch e.Kind {
		case game.EventRoundOver:
			// RoundNumber already points at the next round
			s.opts.Recorder.RecordRound(e.Color.String(), s.world.RoundNumber-1)
		case game.EventGameOver:
			s.opts.Recorder.RecordMatch(e.Color.String(), s.world.RoundNumber)
		}
	}
	s.cues = append(s.cues, events...)

	s.ticks++
	if s.ticks%(protocol.SimTickHz/s.opts.SnapshotHz) == 0 {
		s.sendSnapshot()
	}
}

func (s *Session) sendSnapshot() {
	snap := protocol.EncodeSnapshot(s.world, s.cues)
	s.cues = nil
	if s.opts.Binary {
		b, err := protocol.MarshalSnapshot(snap)
		if err != nil {
			log.Printf("peer: %v", err)
			return
		}
		s.conn.SendBinary(b)
		return
	}
	b, err := protocol.Encode(protocol.MsgGameState, snap)
	if err != nil {
		log.Printf("peer: %v", err)
		return
	}
	s.conn.SendText(b)
}

// sendInput pushes the local controls to the host. The host never sends
// input; it applies its own directly.
func (s *Session) sendInput() {
	if s.role != RoleViewer {
		return
	}
	b, err := protocol.Encode(protocol.MsgPlayerInput, protocol.InputMsg{Color: s.color.String(), Input: s.local})
	if err != nil {
		log.Printf("peer: %v", err)
		return
	}
	s.conn.SendText(b)
}

func (s *Session) render() {
	f := Frame{Role: s.role, Color: s.color, PeerID: s.id, PlayerCount: s.playerCount}
	switch s.role {
	case RoleHost:
		f.World = s.world
	case RoleViewer:
		f.World = s.viewer.World()
	}
	s.opts.Renderer.Render(f)
}
