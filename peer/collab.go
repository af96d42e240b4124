package peer

import (
	"github.com/nguyenphuquang1234567/diep-new/game"
)

// Role is what this peer does in the current match
type Role int

const (
	RoleWaiting Role = iota
	RoleHost
	RoleViewer
)

func (r Role) String() string {
	switch r {
	case RoleHost:
		return "host"
	case RoleViewer:
		return "viewer"
	}
	return "waiting"
}

// Frame is what a Renderer draws. World is nil while waiting for a
// second player and must be treated as read-only.
type Frame struct {
	Role        Role
	Color       game.Color
	PeerID      string
	PlayerCount int
	World       *game.World
}

// Renderer draws frames. It must not mutate the world.
type Renderer interface {
	Render(f Frame)
}

// AudioNotifier plays sound cues. Play is fire-and-forget.
type AudioNotifier interface {
	Play(cue game.Event)
}

// InputSource reports the local player's current controls
type InputSource interface {
	Poll() game.Input
}

// MatchRecorder is told about every finished round and match the host
// simulates
type MatchRecorder interface {
	RecordRound(winner string, round int)
	RecordMatch(winner string, rounds int)
}

// NopAudio is used when no audio device is available
type NopAudio struct{}

func (NopAudio) Play(game.Event) {}

type nopRenderer struct{}

func (nopRenderer) Render(Frame) {}

// IdleInput never presses anything
type IdleInput struct{}

func (IdleInput) Poll() game.Input { return game.Input{} }
