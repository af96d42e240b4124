package game

import (
	"math"
	"math/rand/v2"
	"time"
)

// World is the whole authoritative state of a match: every entity list,
// the lifecycle scalars and the arena size. Only the host steps it.
type World struct {
	Width, Height float64
	Tick          uint64
	NextID        int

	Tanks     []*Tank
	Bullets   []*Bullet
	PowerUps  []*PowerUp
	Meteors   []*Meteor
	MiniTanks []*MiniTank
	Effects   []*BoomEffect

	Match

	tun    Tuning
	rng    *rand.Rand
	events []Event
}

// NewWorld creates a match in progress with both tanks at their spawns.
// A nil rng is seeded from the clock.
func NewWorld(width, height float64, tun Tuning, rng *rand.Rand) *World {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	w := NewEmptyWorld(width, height, tun)
	w.rng = rng
	w.Tanks = []*Tank{
		NewTank(w.newID(), Red, width, height, tun.Tank),
		NewTank(w.newID(), Blue, width, height, tun.Tank),
	}
	return w
}

// NewSeededWorld creates a reproducible world
func NewSeededWorld(width, height float64, tun Tuning, seed uint64) *World {
	return NewWorld(width, height, tun, rand.New(rand.NewPCG(seed, seed)))
}

// NewEmptyWorld creates a world with no entities and a fresh match.
// It has no random source and is meant to be filled from a snapshot.
func NewEmptyWorld(width, height float64, tun Tuning) *World {
	return &World{
		Width:  width,
		Height: height,
		NextID: 1,
		Match:  newMatch(tun.Match),
		tun:    tun,
	}
}

// Tuning returns the balance constants the world runs with
func (w *World) Tuning() Tuning {
	return w.tun
}

// NowMs is the simulation clock used for millisecond cooldowns
func (w *World) NowMs() int64 {
	return int64(w.Tick) * 1000 / TickRate
}

// Tank returns the tank of a color, or nil
func (w *World) Tank(c Color) *Tank {
	for _, t := range w.Tanks {
		if t.Color == c {
			return t
		}
	}
	return nil
}

// TankByID returns the tank with the given ID, or nil
func (w *World) TankByID(id int) *Tank {
	for _, t := range w.Tanks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (w *World) newID() int {
	id := w.NextID
	w.NextID++
	return id
}

// Step advances the world by one fixed tick and returns what happened since
// the previous Step, including transitions made by Advance. inputs is
// indexed by Color.
func (w *World) Step(inputs [2]Input) []Event {
	w.Tick++

	switch w.Phase {
	case PhasePlaying:
		w.simulate(inputs)
	case PhaseCountdown:
		w.stepCountdown()
	case PhaseRoundOver:
		w.stepRoundOver()
	case PhaseGameOver:
		w.stepGameOver()
	}

	events := w.events
	w.events = nil
	return events
}

// simulate runs one tick of play. The order of the phases is fixed;
// collision handling stops as soon as a destruction ends the round.
func (w *World) simulate(inputs [2]Input) {
	w.spawnPowerUp()
	keptPowerUps := w.PowerUps[:0]
	for _, p := range w.PowerUps {
		if p.Update() {
			keptPowerUps = append(keptPowerUps, p)
		}
	}
	w.PowerUps = keptPowerUps

	now := w.NowMs()
	for _, t := range w.Tanks {
		var in Input
		if t.Color.Valid() {
			in = inputs[t.Color]
		}
		t.Update(in, w.Width, w.Height, w.tun.Tank)
		if t.CanFire(now) {
			w.fireTank(t, now)
		}
	}

	keptBullets := w.Bullets[:0]
	for _, b := range w.Bullets {
		if b.Update(w.Width, w.Height, w.tun.Bullet.TrailLength) {
			keptBullets = append(keptBullets, b)
		}
	}
	w.Bullets = keptBullets

	if w.resolveBulletTanks() {
		return
	}
	w.resolvePickups()

	w.spawnMeteor()
	for _, m := range w.Meteors {
		m.Update(w.Width, w.Height)
	}
	w.pruneMeteors()
	if w.resolveMeteorTanks() {
		return
	}
	w.pruneMeteors()

	keptEffects := w.Effects[:0]
	for _, e := range w.Effects {
		e.Update(w.tun.Boom)
		if !e.Done {
			keptEffects = append(keptEffects, e)
		}
	}
	w.Effects = keptEffects

	for _, m := range w.MiniTanks {
		if m.Update(w.TankByID(m.TargetID), now, w.tun.Mini) {
			w.fireMini(m)
		}
	}
	w.pruneMiniTanks()
	w.resolveBulletMinis()
	w.pruneMiniTanks()
}

func (w *World) pruneMeteors() {
	kept := w.Meteors[:0]
	for _, m := range w.Meteors {
		if m.Active {
			kept = append(kept, m)
		}
	}
	w.Meteors = kept
}

func (w *World) pruneMiniTanks() {
	kept := w.MiniTanks[:0]
	for _, m := range w.MiniTanks {
		if !m.Expired() {
			kept = append(kept, m)
		}
	}
	w.MiniTanks = kept
}

func (w *World) fireTank(t *Tank, now int64) {
	offset := w.tun.Tank.Radius + w.tun.Tank.MuzzleOffset
	for _, a := range t.ShotAngles(w.tun.Tank.Spread) {
		w.Bullets = append(w.Bullets, NewBullet(w.newID(), t.X, t.Y, a, offset,
			w.tun.Bullet.Speed, t.Color, w.tun.Bullet.Damage))
	}
	t.LastShot = now
}

func (w *World) fireMini(m *MiniTank) {
	tun := w.tun.Mini
	b := NewBullet(w.newID(), m.X, m.Y, m.Angle, tun.Radius+tun.MuzzleOffset,
		tun.BulletSpeed, m.Owner, tun.BulletDamage)
	b.Mini = true
	w.Bullets = append(w.Bullets, b)
}

func (w *World) spawnPowerUp() {
	tun := w.tun.PowerUp
	if w.rng == nil || len(w.PowerUps) >= tun.Max || w.rng.Float64() >= tun.Chance {
		return
	}
	kind := PowerUpKinds[w.rng.IntN(len(PowerUpKinds))]
	w.PowerUps = append(w.PowerUps, &PowerUp{
		ID:   w.newID(),
		X:    w.rng.Float64()*(w.Width-2*tun.Margin) + tun.Margin,
		Y:    w.rng.Float64()*(w.Height-2*tun.Margin) + tun.Margin,
		Kind: kind,
		Life: tun.Life,
	})
}

func (w *World) spawnMeteor() {
	tun := w.tun.Meteor
	if w.rng == nil || w.rng.Float64() >= tun.Chance {
		return
	}
	radius := tun.MinRadius + w.rng.Float64()*(tun.MaxRadius-tun.MinRadius)
	w.Meteors = append(w.Meteors, &Meteor{
		ID:     w.newID(),
		X:      w.rng.Float64()*(w.Width-2*tun.Margin) + tun.Margin,
		Y:      tun.SpawnY,
		Speed:  tun.MinSpeed + w.rng.Float64()*(tun.MaxSpeed-tun.MinSpeed),
		VX:     tun.MinDrift + w.rng.Float64()*(tun.MaxDrift-tun.MinDrift),
		Radius: radius,
		Damage: int(math.Floor(radius * tun.DamagePerRadius)),
		Active: true,
	})
}

// SpawnMiniTanks launches a squad for owner, spread sideways, hunting the
// opponent. Nothing spawns if the opponent is missing.
func (w *World) SpawnMiniTanks(owner *Tank) {
	target := w.Tank(owner.Color.Opponent())
	if target == nil {
		return
	}
	tun := w.tun.Mini
	for i := 0; i < tun.Count; i++ {
		dx := (float64(i) - float64(tun.Count-1)/2) * tun.Spacing
		w.MiniTanks = append(w.MiniTanks, NewMiniTank(w.newID(), owner, target, owner.X+dx, owner.Y, tun))
	}
}
