package protocol

import (
	"encoding/json"

	"github.com/nguyenphuquang1234567/diep-new/game"
)

// Relay -> peer message types
const (
	MsgAssignColor        = "assign-color"
	MsgHostID             = "host-id"
	MsgPlayerCount        = "player-count"
	MsgViewerInput        = "viewer-input"        // forwarded input, host only
	MsgPlayerDisconnected = "player-disconnected" // any peer left, everyone resets
)

// Peer -> relay message types
const (
	MsgPlayerInput = "player-input" // viewer input, forwarded to the host
	MsgGameState   = "game-state"   // host snapshot, forwarded to viewers
)

const (
	SimTickHz  = game.TickRate
	SnapshotHz = 30
	InputHz    = 30
	MaxPlayers = 2
)

// Envelope wraps all outgoing messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages; json.RawMessage avoids double-unmarshal
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// AssignColorMsg is sent once to a peer when it connects
type AssignColorMsg struct {
	Color string `json:"color"`
	ID    string `json:"id"`
}

// HostIDMsg names the current host. Empty ID means there is none.
type HostIDMsg struct {
	ID string `json:"id"`
}

// PlayerCountMsg carries the number of connected peers
type PlayerCountMsg struct {
	Count int `json:"count"`
}

// InputMsg is a viewer's control state, sent about InputHz times a second.
// The relay forwards it to the host unchanged as a viewer-input message.
type InputMsg struct {
	Color string     `json:"color"`
	Input game.Input `json:"input"`
}
