package game

// Color identifies one of the two sides. Red is tank index 0 (player 1).
type Color int

const (
	Red  Color = 0
	Blue Color = 1
)

// Colors lists both sides in tank order
var Colors = [2]Color{Red, Blue}

func (c Color) String() string {
	if c == Blue {
		return "blue"
	}
	return "red"
}

// Title is the display name used in winner messages
func (c Color) Title() string {
	if c == Blue {
		return "Blue"
	}
	return "Red"
}

// Opponent returns the other side
func (c Color) Opponent() Color {
	if c == Blue {
		return Red
	}
	return Blue
}

// Valid reports whether c is one of the two sides
func (c Color) Valid() bool {
	return c == Red || c == Blue
}

// ParseColor maps a wire string to a Color
func ParseColor(s string) (Color, bool) {
	switch s {
	case "red":
		return Red, true
	case "blue":
		return Blue, true
	}
	return Red, false
}

// Input is the control state of one tank for one tick. Missing fields
// decode as false, i.e. control inactive.
type Input struct {
	Up       bool `json:"up" msgpack:"up"`
	Down     bool `json:"down" msgpack:"down"`
	Left     bool `json:"left" msgpack:"left"`
	Right    bool `json:"right" msgpack:"right"`
	AimLeft  bool `json:"aimLeft" msgpack:"aimLeft"`
	AimRight bool `json:"aimRight" msgpack:"aimRight"`
	Shoot    bool `json:"shoot" msgpack:"shoot"`
}
