package game

// Meteor falls from above the arena, drifting right. Bullets pass through it.
type Meteor struct {
	ID     int
	X, Y   float64
	Speed  float64 // downward, px per tick
	VX     float64 // rightward drift
	Radius float64
	Damage int
	Active bool
}

// Update moves the meteor and deactivates it once it has left the arena
func (m *Meteor) Update(width, height float64) {
	m.Y += m.Speed
	m.X += m.VX
	if m.Y-m.Radius > height || m.X-m.Radius > width {
		m.Active = false
	}
}
