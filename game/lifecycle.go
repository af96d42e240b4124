package game

import "fmt"

// Phase is where the match is in its round cycle
type Phase int

const (
	PhasePlaying   Phase = 0
	PhaseRoundOver Phase = 1
	PhaseCountdown Phase = 2
	PhaseGameOver  Phase = 3
)

var phaseNames = [...]string{"playing", "round-over", "countdown", "game-over"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// ParsePhase maps a wire string to a Phase
func ParsePhase(s string) (Phase, bool) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), true
		}
	}
	return PhasePlaying, false
}

// Match holds the round and lifecycle scalars. It is owned by the host and
// mirrored verbatim on the viewer.
type Match struct {
	Phase           Phase
	Player1Lives    int
	Player2Lives    int
	RoundNumber     int
	GameRunning     bool
	GameOverMessage string
	GameOverTimer   int // display ticks left for the message
	CountdownActive bool
	CountdownValue  int
	CountdownTimer  int
	ResetTimer      int // ticks until an automatic transition out of a frozen phase
}

func newMatch(tun MatchTuning) Match {
	return Match{
		Phase:          PhasePlaying,
		Player1Lives:   tun.Lives,
		Player2Lives:   tun.Lives,
		RoundNumber:    1,
		GameRunning:    true,
		CountdownValue: tun.CountdownFrom,
	}
}

// Lives returns the lives left for a side
func (m *Match) Lives(c Color) int {
	if c == Blue {
		return m.Player2Lives
	}
	return m.Player1Lives
}

func (m *Match) loseLife(c Color) {
	if c == Blue {
		m.Player2Lives--
	} else {
		m.Player1Lives--
	}
}

// Winner returns the side that won the match once a lives counter hits zero
func (m *Match) Winner() Color {
	if m.Player1Lives <= 0 {
		return Blue
	}
	return Red
}

// Frozen reports whether play is suspended
func (m *Match) Frozen() bool {
	return m.Phase != PhasePlaying
}

func (w *World) roundOver(winner Color) {
	w.Phase = PhaseRoundOver
	w.GameRunning = false
	w.GameOverMessage = fmt.Sprintf("%s win", winner.Title())
	w.GameOverTimer = w.tun.Match.RoundOverTicks
	w.RoundNumber++
	w.ResetTimer = w.tun.Match.AutoAdvanceTicks
	w.emit(EventRoundOver, 0, 0, winner)
}

func (w *World) gameOver() {
	winner := w.Winner()
	w.Phase = PhaseGameOver
	w.GameRunning = false
	w.GameOverMessage = fmt.Sprintf("%s win", winner.Title())
	w.GameOverTimer = w.tun.Match.GameOverTicks
	w.ResetTimer = max(1, MsToTicks(w.tun.Match.ResetDelayMs))
	w.emit(EventGameOver, 0, 0, winner)
}

// StartCountdown begins the pre-round countdown and clears the message
func (w *World) StartCountdown() {
	w.Phase = PhaseCountdown
	w.GameRunning = false
	w.CountdownActive = true
	w.CountdownValue = w.tun.Match.CountdownFrom
	w.CountdownTimer = 0
	w.GameOverMessage = ""
	w.GameOverTimer = 0
	w.ResetTimer = 0
	w.emit(EventCountdown, 0, 0, Red)
}

// Advance is the host's "press any key" after a round or match ends.
// It is ignored while playing or mid-countdown and returns whether it
// took effect. Advancing out of a finished match resets it first.
func (w *World) Advance() bool {
	if w.CountdownActive {
		return false
	}
	switch w.Phase {
	case PhaseRoundOver:
		w.StartCountdown()
		return true
	case PhaseGameOver:
		w.ResetMatch()
		w.StartCountdown()
		return true
	}
	return false
}

// ResetRound puts both tanks back at their spawns and clears bullets,
// power-ups and mini-tanks. Lives and round number are kept.
func (w *World) ResetRound() {
	w.Bullets = nil
	w.PowerUps = nil
	w.MiniTanks = nil
	w.GameOverMessage = ""
	w.GameOverTimer = 0
	for _, t := range w.Tanks {
		t.Reset(w.Width, w.Height, w.tun.Tank)
	}
}

// ResetMatch restores full lives and round one
func (w *World) ResetMatch() {
	w.Player1Lives = w.tun.Match.Lives
	w.Player2Lives = w.tun.Match.Lives
	w.RoundNumber = 1
	w.CountdownActive = false
	w.CountdownValue = w.tun.Match.CountdownFrom
	w.CountdownTimer = 0
	w.ResetTimer = 0
	w.ResetRound()
}

func (w *World) stepCountdown() {
	w.CountdownTimer++
	if w.CountdownTimer < w.tun.Match.CountdownStep {
		return
	}
	w.CountdownValue--
	w.CountdownTimer = 0
	if w.CountdownValue > 0 {
		w.emit(EventCountdown, 0, 0, Red)
		return
	}
	w.CountdownActive = false
	w.ResetRound()
	w.Phase = PhasePlaying
	w.GameRunning = true
	w.emit(EventRoundStart, 0, 0, Red)
}

func (w *World) stepRoundOver() {
	if w.GameOverTimer > 0 {
		w.GameOverTimer--
	}
	if w.ResetTimer > 0 {
		w.ResetTimer--
		if w.ResetTimer == 0 {
			w.StartCountdown()
		}
	}
}

func (w *World) stepGameOver() {
	if w.GameOverTimer > 0 {
		w.GameOverTimer--
	}
	if w.ResetTimer > 0 {
		w.ResetTimer--
	}
	if w.ResetTimer == 0 {
		w.ResetMatch()
		w.StartCountdown()
	}
}
