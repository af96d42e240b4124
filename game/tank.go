package game

import "math"

// neverFired is a LastShot value that lets a fresh tank fire on its first tick
const neverFired int64 = math.MinInt32

// Tank is one player's vehicle
type Tank struct {
	ID        int
	Color     Color
	X, Y      float64
	Angle     float64 // radians
	Health    int
	MaxHealth int
	Buffs
	CooldownMs int64 // current shot cooldown, derived from RapidFire
	LastShot   int64 // simulation ms of the last shot
	RegenTimer int
	FlashTimer int // ticks of hit flash left
}

// NewTank creates a tank at the spawn point for its color
func NewTank(id int, c Color, width, height float64, tun TankTuning) *Tank {
	t := &Tank{ID: id, Color: c, MaxHealth: tun.MaxHealth}
	t.Reset(width, height, tun)
	return t
}

// SpawnPoint returns where a color starts each round and which way it faces
func SpawnPoint(c Color, width, height float64) (x, y, angle float64) {
	if c == Blue {
		return width * 0.75, height * 0.5, 0
	}
	return width * 0.25, height * 0.5, math.Pi
}

// Reset puts the tank back at its spawn with full health and no power-ups
func (t *Tank) Reset(width, height float64, tun TankTuning) {
	t.X, t.Y, t.Angle = SpawnPoint(t.Color, width, height)
	t.MaxHealth = tun.MaxHealth
	t.Health = t.MaxHealth
	t.Buffs = Buffs{}
	t.CooldownMs = tun.CooldownMs
	t.LastShot = neverFired
	t.RegenTimer = 0
	t.FlashTimer = 0
}

// Update runs timers, regeneration, movement and aiming for one tick.
// Firing is left to the world.
func (t *Tank) Update(in Input, width, height float64, tun TankTuning) {
	boosted, rapid := t.Buffs.tick()

	speed := tun.Speed
	if boosted {
		speed *= 2
	}
	t.CooldownMs = tun.CooldownMs
	if rapid {
		t.CooldownMs = tun.RapidMs
	}

	t.RegenTimer++
	if t.RegenTimer >= tun.RegenEvery && t.Health < t.MaxHealth {
		t.Health = min(t.MaxHealth, t.Health+tun.RegenAmount)
		t.RegenTimer = 0
	}

	t.Move(in, speed, width, height, tun.Radius)
	t.Aim(in, tun.AimStep)

	if t.FlashTimer > 0 {
		t.FlashTimer--
	}
}

// Move shifts the tank by speed per held direction and keeps it in the arena
func (t *Tank) Move(in Input, speed, width, height, radius float64) {
	if in.Up {
		t.Y -= speed
	}
	if in.Down {
		t.Y += speed
	}
	if in.Left {
		t.X -= speed
	}
	if in.Right {
		t.X += speed
	}
	t.X = Clamp(t.X, radius, width-radius)
	t.Y = Clamp(t.Y, radius, height-radius)
}

// Aim turns the barrel. The angle is left unwrapped.
func (t *Tank) Aim(in Input, step float64) {
	if in.AimLeft {
		t.Angle -= step
	}
	if in.AimRight {
		t.Angle += step
	}
}

// CanFire reports whether the cooldown has elapsed at simulation time now
func (t *Tank) CanFire(now int64) bool {
	return now-t.LastShot > t.CooldownMs
}

// ShotAngles returns the barrel angles of the next shot
func (t *Tank) ShotAngles(spread float64) []float64 {
	if t.Multishot > 0 {
		return []float64{t.Angle - spread, t.Angle, t.Angle + spread}
	}
	return []float64{t.Angle}
}

// TakeDamage reduces health and returns true if the tank was destroyed.
// An active shield absorbs the hit entirely.
func (t *Tank) TakeDamage(dmg int, flashTicks int) bool {
	if t.Shielded() {
		return false
	}
	t.FlashTimer = flashTicks
	t.Health -= dmg
	if t.Health <= 0 {
		t.Health = 0
		return true
	}
	return false
}
