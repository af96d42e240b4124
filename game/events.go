package game

// EventKind names something that happened during a tick
type EventKind string

const (
	EventHit        EventKind = "hit"
	EventBoom       EventKind = "boom"
	EventPowerUp    EventKind = "powerup"
	EventRoundOver  EventKind = "round-over"
	EventGameOver   EventKind = "game-over"
	EventCountdown  EventKind = "countdown"
	EventRoundStart EventKind = "round-start"
)

// Event is emitted by Step for the renderer and audio layers to consume.
// Color is the side involved, when there is one.
type Event struct {
	Kind  EventKind `json:"k" msgpack:"k"`
	X     float64   `json:"x" msgpack:"x"`
	Y     float64   `json:"y" msgpack:"y"`
	Color Color     `json:"c" msgpack:"c"`
}

// IsCue reports whether the event maps to an audio cue
func (e Event) IsCue() bool {
	switch e.Kind {
	case EventHit, EventBoom, EventPowerUp:
		return true
	}
	return false
}

func (w *World) emit(kind EventKind, x, y float64, c Color) {
	w.events = append(w.events, Event{Kind: kind, X: x, Y: y, Color: c})
}
