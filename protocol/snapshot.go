package protocol

import (
	"log"
	"math"

	"github.com/nguyenphuquang1234567/diep-new/game"
)

// Snapshot is the full host state sent to viewers. It is flat and carries
// every entity with its stable ID so the viewer can merge by identity.
type Snapshot struct {
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
	Tick   uint64  `json:"tick" msgpack:"tick"`
	NextID int     `json:"nextId" msgpack:"nextId"`

	Tanks     []TankState     `json:"tanks" msgpack:"tanks"`
	Bullets   []BulletState   `json:"bullets" msgpack:"bullets"`
	PowerUps  []PowerUpState  `json:"powerUps" msgpack:"powerUps"`
	Meteors   []MeteorState   `json:"meteors" msgpack:"meteors"`
	MiniTanks []MiniTankState `json:"miniTanks" msgpack:"miniTanks"`
	Effects   []EffectState   `json:"effects" msgpack:"effects"`

	Phase           string `json:"phase" msgpack:"phase"`
	Player1Lives    int    `json:"player1Lives" msgpack:"player1Lives"`
	Player2Lives    int    `json:"player2Lives" msgpack:"player2Lives"`
	RoundNumber     int    `json:"roundNumber" msgpack:"roundNumber"`
	GameRunning     bool   `json:"gameRunning" msgpack:"gameRunning"`
	GameOverMessage string `json:"gameOverMessage" msgpack:"gameOverMessage"`
	GameOverTimer   int    `json:"gameOverTimer" msgpack:"gameOverTimer"`
	CountdownActive bool   `json:"countdownActive" msgpack:"countdownActive"`
	CountdownValue  int    `json:"countdownValue" msgpack:"countdownValue"`
	CountdownTimer  int    `json:"countdownTimer" msgpack:"countdownTimer"`
	ResetTimer      int    `json:"resetTimer" msgpack:"resetTimer"`

	Cues []game.Event `json:"cues,omitempty" msgpack:"cues,omitempty"`
}

// TankState is a tank on the wire, buff timers flattened
type TankState struct {
	ID         int     `json:"id" msgpack:"id"`
	Color      string  `json:"color" msgpack:"color"`
	X          float64 `json:"x" msgpack:"x"`
	Y          float64 `json:"y" msgpack:"y"`
	Angle      float64 `json:"angle" msgpack:"angle"`
	Health     int     `json:"health" msgpack:"health"`
	MaxHealth  int     `json:"maxHealth" msgpack:"maxHealth"`
	SpeedBoost int     `json:"speedBoost" msgpack:"speedBoost"`
	RapidFire  int     `json:"rapidFire" msgpack:"rapidFire"`
	Shield     int     `json:"shield" msgpack:"shield"`
	Multishot  int     `json:"multishot" msgpack:"multishot"`
	CooldownMs int64   `json:"shootCooldown" msgpack:"shootCooldown"`
	LastShot   int64   `json:"lastShot" msgpack:"lastShot"`
	RegenTimer int     `json:"regenTimer" msgpack:"regenTimer"`
	FlashTimer int     `json:"flashTimer" msgpack:"flashTimer"`
}

// BulletState is a bullet on the wire. Color is the owning side.
type BulletState struct {
	ID     int          `json:"id" msgpack:"id"`
	X      float64      `json:"x" msgpack:"x"`
	Y      float64      `json:"y" msgpack:"y"`
	VX     float64      `json:"vx" msgpack:"vx"`
	VY     float64      `json:"vy" msgpack:"vy"`
	Color  string       `json:"color" msgpack:"color"`
	Mini   bool         `json:"mini,omitempty" msgpack:"mini,omitempty"`
	Damage int          `json:"damage" msgpack:"damage"`
	Trail  []game.Point `json:"trail,omitempty" msgpack:"trail,omitempty"`
}

// PowerUpState is an uncollected power-up
type PowerUpState struct {
	ID   int     `json:"id" msgpack:"id"`
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
	Type string  `json:"type" msgpack:"type"`
	Life int     `json:"life" msgpack:"life"`
}

// MeteorState is a falling meteor
type MeteorState struct {
	ID     int     `json:"id" msgpack:"id"`
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Speed  float64 `json:"speed" msgpack:"speed"`
	VX     float64 `json:"vx" msgpack:"vx"`
	Radius float64 `json:"radius" msgpack:"radius"`
	Damage int     `json:"damage" msgpack:"damage"`
	Active bool    `json:"active" msgpack:"active"`
}

// MiniTankState is a mini-tank; owner and target are tank IDs
type MiniTankState struct {
	ID       int     `json:"id" msgpack:"id"`
	Color    string  `json:"color" msgpack:"color"`
	OwnerID  int     `json:"owner" msgpack:"owner"`
	TargetID int     `json:"target" msgpack:"target"`
	X        float64 `json:"x" msgpack:"x"`
	Y        float64 `json:"y" msgpack:"y"`
	Angle    float64 `json:"angle" msgpack:"angle"`
	Health   int     `json:"health" msgpack:"health"`
	Lifetime int     `json:"lifetime" msgpack:"lifetime"`
	LastShot int64   `json:"lastShot" msgpack:"lastShot"`
}

// EffectState is a boom effect, carried for rendering only
type EffectState struct {
	ID        int     `json:"id" msgpack:"id"`
	X         float64 `json:"x" msgpack:"x"`
	Y         float64 `json:"y" msgpack:"y"`
	Radius    float64 `json:"radius" msgpack:"radius"`
	MaxRadius float64 `json:"maxRadius" msgpack:"maxRadius"`
	Alpha     float64 `json:"alpha" msgpack:"alpha"`
	Color     string  `json:"color" msgpack:"color"`
}

// EncodeSnapshot captures the world. cues are the events the viewer
// should replay as sounds; they are carried as-is.
func EncodeSnapshot(w *game.World, cues []game.Event) Snapshot {
	s := Snapshot{
		Width:           w.Width,
		Height:          w.Height,
		Tick:            w.Tick,
		NextID:          w.NextID,
		Tanks:           make([]TankState, 0, len(w.Tanks)),
		Bullets:         make([]BulletState, 0, len(w.Bullets)),
		PowerUps:        make([]PowerUpState, 0, len(w.PowerUps)),
		Meteors:         make([]MeteorState, 0, len(w.Meteors)),
		MiniTanks:       make([]MiniTankState, 0, len(w.MiniTanks)),
		Effects:         make([]EffectState, 0, len(w.Effects)),
		Phase:           w.Phase.String(),
		Player1Lives:    w.Player1Lives,
		Player2Lives:    w.Player2Lives,
		RoundNumber:     w.RoundNumber,
		GameRunning:     w.GameRunning,
		GameOverMessage: w.GameOverMessage,
		GameOverTimer:   w.GameOverTimer,
		CountdownActive: w.CountdownActive,
		CountdownValue:  w.CountdownValue,
		CountdownTimer:  w.CountdownTimer,
		ResetTimer:      w.ResetTimer,
		Cues:            cues,
	}

	for _, t := range w.Tanks {
		s.Tanks = append(s.Tanks, TankState{
			ID:         t.ID,
			Color:      t.Color.String(),
			X:          t.X,
			Y:          t.Y,
			Angle:      t.Angle,
			Health:     t.Health,
			MaxHealth:  t.MaxHealth,
			SpeedBoost: t.SpeedBoost,
			RapidFire:  t.RapidFire,
			Shield:     t.Shield,
			Multishot:  t.Multishot,
			CooldownMs: t.CooldownMs,
			LastShot:   t.LastShot,
			RegenTimer: t.RegenTimer,
			FlashTimer: t.FlashTimer,
		})
	}
	for _, b := range w.Bullets {
		var trail []game.Point
		if len(b.Trail) > 0 {
			trail = append([]game.Point(nil), b.Trail...)
		}
		s.Bullets = append(s.Bullets, BulletState{
			ID: b.ID, X: b.X, Y: b.Y, VX: b.VX, VY: b.VY,
			Color: b.Owner.String(), Mini: b.Mini, Damage: b.Damage, Trail: trail,
		})
	}
	for _, p := range w.PowerUps {
		s.PowerUps = append(s.PowerUps, PowerUpState{ID: p.ID, X: p.X, Y: p.Y, Type: string(p.Kind), Life: p.Life})
	}
	for _, m := range w.Meteors {
		s.Meteors = append(s.Meteors, MeteorState{
			ID: m.ID, X: m.X, Y: m.Y, Speed: m.Speed, VX: m.VX,
			Radius: m.Radius, Damage: m.Damage, Active: m.Active,
		})
	}
	for _, m := range w.MiniTanks {
		s.MiniTanks = append(s.MiniTanks, MiniTankState{
			ID: m.ID, Color: m.Owner.String(), OwnerID: m.OwnerID, TargetID: m.TargetID,
			X: m.X, Y: m.Y, Angle: m.Angle, Health: m.Health, Lifetime: m.Lifetime, LastShot: m.LastShot,
		})
	}
	for _, e := range w.Effects {
		s.Effects = append(s.Effects, EffectState{
			ID: e.ID, X: e.X, Y: e.Y, Radius: e.Radius, MaxRadius: e.MaxRadius, Alpha: e.Alpha, Color: e.Color,
		})
	}
	return s
}

// DecodeSnapshot transcribes a snapshot into a fresh world. It never runs
// simulation logic. Entities with an unknown color or power-up type are
// logged and skipped; a missing arena size falls back to the default.
func DecodeSnapshot(s Snapshot, tun game.Tuning) *game.World {
	width, height := s.Width, s.Height
	if !(width > 0 && height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		width, height = game.DefaultArenaWidth, game.DefaultArenaHeight
	}
	w := game.NewEmptyWorld(width, height, tun)
	w.Tick = s.Tick
	if s.NextID > 0 {
		w.NextID = s.NextID
	}

	for _, ts := range s.Tanks {
		c, ok := game.ParseColor(ts.Color)
		if !ok {
			log.Printf("snapshot: skipping tank %d with unknown color %q", ts.ID, ts.Color)
			continue
		}
		finite("tank", ts.ID, &ts.X, &ts.Y, &ts.Angle)
		t := &game.Tank{
			ID:         ts.ID,
			Color:      c,
			X:          ts.X,
			Y:          ts.Y,
			Angle:      ts.Angle,
			Health:     ts.Health,
			MaxHealth:  ts.MaxHealth,
			CooldownMs: ts.CooldownMs,
			LastShot:   ts.LastShot,
			RegenTimer: ts.RegenTimer,
			FlashTimer: ts.FlashTimer,
		}
		t.SpeedBoost = ts.SpeedBoost
		t.RapidFire = ts.RapidFire
		t.Shield = ts.Shield
		t.Multishot = ts.Multishot
		w.Tanks = append(w.Tanks, t)
	}

	for _, bs := range s.Bullets {
		c, ok := game.ParseColor(bs.Color)
		if !ok {
			log.Printf("snapshot: skipping bullet %d with unknown color %q", bs.ID, bs.Color)
			continue
		}
		finite("bullet", bs.ID, &bs.X, &bs.Y, &bs.VX, &bs.VY)
		var trail []game.Point
		if len(bs.Trail) > 0 {
			trail = append([]game.Point(nil), bs.Trail...)
			for i := range trail {
				finite("bullet trail", bs.ID, &trail[i].X, &trail[i].Y)
			}
		}
		w.Bullets = append(w.Bullets, &game.Bullet{
			ID: bs.ID, X: bs.X, Y: bs.Y, VX: bs.VX, VY: bs.VY,
			Owner: c, Mini: bs.Mini, Damage: bs.Damage, Trail: trail,
		})
	}

	for _, ps := range s.PowerUps {
		kind, ok := game.ParsePowerUpKind(ps.Type)
		if !ok {
			log.Printf("snapshot: skipping power-up %d with unknown type %q", ps.ID, ps.Type)
			continue
		}
		finite("power-up", ps.ID, &ps.X, &ps.Y)
		w.PowerUps = append(w.PowerUps, &game.PowerUp{ID: ps.ID, X: ps.X, Y: ps.Y, Kind: kind, Life: ps.Life})
	}

	for _, ms := range s.Meteors {
		finite("meteor", ms.ID, &ms.X, &ms.Y, &ms.Speed, &ms.VX, &ms.Radius)
		w.Meteors = append(w.Meteors, &game.Meteor{
			ID: ms.ID, X: ms.X, Y: ms.Y, Speed: ms.Speed, VX: ms.VX,
			Radius: ms.Radius, Damage: ms.Damage, Active: ms.Active,
		})
	}

	for _, ms := range s.MiniTanks {
		c, ok := game.ParseColor(ms.Color)
		if !ok {
			log.Printf("snapshot: skipping mini-tank %d with unknown color %q", ms.ID, ms.Color)
			continue
		}
		finite("mini-tank", ms.ID, &ms.X, &ms.Y, &ms.Angle)
		w.MiniTanks = append(w.MiniTanks, &game.MiniTank{
			ID: ms.ID, Owner: c, OwnerID: ms.OwnerID, TargetID: ms.TargetID,
			X: ms.X, Y: ms.Y, Angle: ms.Angle, Health: ms.Health, Lifetime: ms.Lifetime, LastShot: ms.LastShot,
		})
	}

	for _, es := range s.Effects {
		finite("effect", es.ID, &es.X, &es.Y, &es.Radius, &es.MaxRadius, &es.Alpha)
		w.Effects = append(w.Effects, &game.BoomEffect{
			ID: es.ID, X: es.X, Y: es.Y, Radius: es.Radius, MaxRadius: es.MaxRadius, Alpha: es.Alpha, Color: es.Color,
		})
	}

	phase, ok := game.ParsePhase(s.Phase)
	if !ok {
		phase = inferPhase(s)
		if s.Phase != "" {
			log.Printf("snapshot: unknown phase %q, using %s", s.Phase, phase)
		}
	}
	w.Match = game.Match{
		Phase:           phase,
		Player1Lives:    s.Player1Lives,
		Player2Lives:    s.Player2Lives,
		RoundNumber:     s.RoundNumber,
		GameRunning:     s.GameRunning,
		GameOverMessage: s.GameOverMessage,
		GameOverTimer:   s.GameOverTimer,
		CountdownActive: s.CountdownActive,
		CountdownValue:  s.CountdownValue,
		CountdownTimer:  s.CountdownTimer,
		ResetTimer:      s.ResetTimer,
	}
	return w
}

// finite zeroes NaN and infinite fields in place
func finite(what string, id int, fields ...*float64) {
	for _, f := range fields {
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			log.Printf("snapshot: %s %d has non-finite value %v, using 0", what, id, *f)
			*f = 0
		}
	}
}

// inferPhase recovers a phase from the flags older peers send
func inferPhase(s Snapshot) game.Phase {
	switch {
	case s.CountdownActive:
		return game.PhaseCountdown
	case s.GameRunning:
		return game.PhasePlaying
	case s.Player1Lives <= 0 || s.Player2Lives <= 0:
		return game.PhaseGameOver
	default:
		return game.PhaseRoundOver
	}
}
