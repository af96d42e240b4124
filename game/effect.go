package game

// BoomEffect is an expanding, fading explosion ring. Purely visual.
type BoomEffect struct {
	ID        int
	X, Y      float64
	Radius    float64
	MaxRadius float64
	Alpha     float64
	Color     string
	Done      bool
}

// NewBoomEffect starts an explosion at (x, y)
func NewBoomEffect(id int, x, y float64, tun BoomTuning) *BoomEffect {
	return &BoomEffect{
		ID:        id,
		X:         x,
		Y:         y,
		MaxRadius: tun.MaxRadius,
		Alpha:     1,
		Color:     tun.Color,
	}
}

// Update grows and fades the effect, marking it done when spent
func (e *BoomEffect) Update(tun BoomTuning) {
	e.Radius += tun.Growth
	e.Alpha -= tun.Fade
	if e.Radius > e.MaxRadius || e.Alpha <= 0 {
		e.Done = true
	}
}
