package game

// PowerUpKind is the effect a pickup grants
type PowerUpKind string

const (
	PowerUpSpeed     PowerUpKind = "speed"
	PowerUpRapid     PowerUpKind = "rapid"
	PowerUpShield    PowerUpKind = "shield"
	PowerUpMultishot PowerUpKind = "multishot"
	PowerUpMiniTank  PowerUpKind = "minitank"
)

// PowerUpKinds lists every kind in spawn-roll order
var PowerUpKinds = []PowerUpKind{PowerUpSpeed, PowerUpRapid, PowerUpShield, PowerUpMultishot, PowerUpMiniTank}

// ParsePowerUpKind validates a wire string
func ParsePowerUpKind(s string) (PowerUpKind, bool) {
	for _, k := range PowerUpKinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// PowerUp is a pickup lying in the arena
type PowerUp struct {
	ID   int
	X, Y float64
	Kind PowerUpKind
	Life int // ticks until it disappears
}

// Update ticks down the lifetime and returns false once expired
func (p *PowerUp) Update() bool {
	p.Life--
	return p.Life > 0
}
