package game

import "math"

// MiniTank is a short-lived drone that chases the opponent of its owner.
// Owner and target are tank IDs, looked up every tick.
type MiniTank struct {
	ID       int
	Owner    Color
	OwnerID  int
	TargetID int
	X, Y     float64
	Angle    float64
	Health   int
	Lifetime int // ticks left
	LastShot int64
}

// NewMiniTank places a drone at (x, y) for owner, hunting target
func NewMiniTank(id int, owner, target *Tank, x, y float64, tun MiniTuning) *MiniTank {
	return &MiniTank{
		ID:       id,
		Owner:    owner.Color,
		OwnerID:  owner.ID,
		TargetID: target.ID,
		X:        x,
		Y:        y,
		Health:   tun.Health,
		Lifetime: tun.Lifetime,
		LastShot: neverFired,
	}
}

// Update steers toward the target, keeping the standoff distance, and
// returns true when the drone wants to fire. A nil target expires the drone.
func (m *MiniTank) Update(target *Tank, now int64, tun MiniTuning) bool {
	if target == nil {
		m.Lifetime = 0
		return false
	}

	dx := target.X - m.X
	dy := target.Y - m.Y
	dist := math.Hypot(dx, dy)
	if dist > tun.Standoff {
		m.X += dx / dist * tun.Speed
		m.Y += dy / dist * tun.Speed
	}
	m.Angle = math.Atan2(dy, dx)

	wantFire := false
	if now-m.LastShot > tun.CooldownMs {
		m.LastShot = now
		wantFire = true
	}
	m.Lifetime--
	return wantFire
}

// TakeDamage reduces health and returns true if the drone was destroyed
func (m *MiniTank) TakeDamage(dmg int) bool {
	if m.Health <= 0 {
		return false
	}
	m.Health -= dmg
	return m.Health <= 0
}

// Expired reports whether the drone should be removed
func (m *MiniTank) Expired() bool {
	return m.Health <= 0 || m.Lifetime <= 0
}
