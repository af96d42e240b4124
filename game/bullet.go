package game

import "math"

// Point is a past position, kept for trails
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Bullet flies in a straight line until it leaves the arena or hits something.
// Owner is the side that fired it; bullets never hurt their own side.
type Bullet struct {
	ID     int
	X, Y   float64
	VX, VY float64
	Owner  Color
	Mini   bool // fired by a mini-tank
	Damage int
	Trail  []Point
}

// NewBullet spawns a bullet offset from (x, y) along angle
func NewBullet(id int, x, y, angle, offset, speed float64, owner Color, damage int) *Bullet {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return &Bullet{
		ID:     id,
		X:      x + cos*offset,
		Y:      y + sin*offset,
		VX:     cos * speed,
		VY:     sin * speed,
		Owner:  owner,
		Damage: damage,
	}
}

// Update moves the bullet one tick and returns false once it is out of bounds
func (b *Bullet) Update(width, height float64, trailLen int) bool {
	if trailLen > 0 {
		b.Trail = append(b.Trail, Point{b.X, b.Y})
		if len(b.Trail) > trailLen {
			b.Trail = b.Trail[len(b.Trail)-trailLen:]
		}
	}
	b.X += b.VX
	b.Y += b.VY
	return b.InBounds(width, height)
}

// InBounds reports whether the bullet is strictly inside the arena
func (b *Bullet) InBounds(width, height float64) bool {
	return b.X > 0 && b.X < width && b.Y > 0 && b.Y < height
}

// Speed returns the velocity magnitude
func (b *Bullet) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}
