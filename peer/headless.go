package peer

import (
	"fmt"
	"log"
	"math/rand/v2"
	"strings"

	"github.com/nguyenphuquang1234567/diep-new/game"
)

// BotInput wanders: it holds a random direction and aim for a while,
// then picks new ones. Used by the headless peer for play-testing.
type BotInput struct {
	rng   *rand.Rand
	hold  int // polls per decision
	left  int
	state game.Input
}

// NewBotInput creates a bot that changes its mind every hold polls
func NewBotInput(seed uint64, hold int) *BotInput {
	if hold <= 0 {
		hold = game.TickRate
	}
	return &BotInput{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), hold: hold}
}

func (b *BotInput) Poll() game.Input {
	if b.left <= 0 {
		b.left = b.hold
		b.state = game.Input{
			Up:       b.rng.IntN(3) == 0,
			Down:     b.rng.IntN(3) == 0,
			Left:     b.rng.IntN(3) == 0,
			Right:    b.rng.IntN(3) == 0,
			AimLeft:  b.rng.IntN(4) == 0,
			AimRight: b.rng.IntN(4) == 0,
			Shoot:    true,
		}
	}
	b.left--
	return b.state
}

// LogRenderer prints a one-line summary every Every frames
type LogRenderer struct {
	Every  int
	frames int
}

func (r *LogRenderer) Render(f Frame) {
	r.frames++
	every := r.Every
	if every <= 0 {
		every = game.TickRate * 5
	}
	if r.frames%every != 0 {
		return
	}
	if f.World == nil {
		log.Printf("render: %s %s, %d/2 players", f.Role, f.Color, f.PlayerCount)
		return
	}
	w := f.World
	var hp strings.Builder
	for _, t := range w.Tanks {
		fmt.Fprintf(&hp, " %s=%d", t.Color, t.Health)
	}
	log.Printf("render: %s %s tick %d round %d %s lives %d/%d hp%s bullets %d minis %d %q",
		f.Role, f.Color, w.Tick, w.RoundNumber, w.Phase, w.Lives(game.Red), w.Lives(game.Blue),
		hp.String(), len(w.Bullets), len(w.MiniTanks), w.GameOverMessage)
}

// LogAudio logs cues instead of playing them
type LogAudio struct{}

func (LogAudio) Play(cue game.Event) {
	log.Printf("audio: %s (%s) at %.0f,%.0f", cue.Kind, cue.Color, cue.X, cue.Y)
}
