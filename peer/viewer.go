package peer

import (
	"github.com/nguyenphuquang1234567/diep-new/game"
	"github.com/nguyenphuquang1234567/diep-new/protocol"
)

// Ease is the fraction of the remaining distance covered per frame
const Ease = 0.15

// pose is where the host last placed an entity
type pose struct {
	X, Y, Angle float64
}

// Viewer keeps a smoothed local projection of the host's world. Tanks and
// mini-tanks are merged by ID and eased toward the latest snapshot; the
// rest is replaced by each snapshot and dead-reckoned in between.
type Viewer struct {
	color   game.Color
	tun     game.Tuning
	audio   AudioNotifier
	world   *game.World
	targets map[int]pose
	applied int
}

// NewViewer creates a viewer that predicts the tank of color
func NewViewer(color game.Color, tun game.Tuning, audio AudioNotifier) *Viewer {
	if audio == nil {
		audio = NopAudio{}
	}
	return &Viewer{
		color:   color,
		tun:     tun,
		audio:   audio,
		targets: make(map[int]pose),
	}
}

// World returns the projection, or nil before the first snapshot
func (v *Viewer) World() *game.World {
	return v.world
}

// Applied returns how many snapshots have been merged
func (v *Viewer) Applied() int {
	return v.applied
}

// Target returns the host position last seen for an entity
func (v *Viewer) Target(id int) (x, y, angle float64, ok bool) {
	p, ok := v.targets[id]
	return p.X, p.Y, p.Angle, ok
}

// Apply merges a snapshot into the projection and plays its cues
func (v *Viewer) Apply(s protocol.Snapshot) {
	next := protocol.DecodeSnapshot(s, v.tun)
	v.applied++

	targets := make(map[int]pose, len(next.Tanks)+len(next.MiniTanks))
	if v.world == nil {
		v.world = next
		for _, t := range next.Tanks {
			targets[t.ID] = pose{t.X, t.Y, t.Angle}
		}
		for _, m := range next.MiniTanks {
			targets[m.ID] = pose{m.X, m.Y, m.Angle}
		}
		v.targets = targets
		v.playCues(s.Cues)
		return
	}

	w := v.world
	tanks := make([]*game.Tank, 0, len(next.Tanks))
	for _, nt := range next.Tanks {
		targets[nt.ID] = pose{nt.X, nt.Y, nt.Angle}
		if old := w.TankByID(nt.ID); old != nil {
			x, y, a := old.X, old.Y, old.Angle
			*old = *nt
			old.X, old.Y, old.Angle = x, y, a
			tanks = append(tanks, old)
			continue
		}
		tanks = append(tanks, nt)
	}

	minis := make([]*game.MiniTank, 0, len(next.MiniTanks))
	for _, nm := range next.MiniTanks {
		targets[nm.ID] = pose{nm.X, nm.Y, nm.Angle}
		if old := findMini(w.MiniTanks, nm.ID); old != nil {
			x, y, a := old.X, old.Y, old.Angle
			*old = *nm
			old.X, old.Y, old.Angle = x, y, a
			minis = append(minis, old)
			continue
		}
		minis = append(minis, nm)
	}

	w.Width, w.Height = next.Width, next.Height
	w.Tick = next.Tick
	w.NextID = next.NextID
	w.Tanks = tanks
	w.MiniTanks = minis
	w.Bullets = next.Bullets
	w.PowerUps = next.PowerUps
	w.Meteors = next.Meteors
	w.Effects = next.Effects
	w.Match = next.Match
	v.targets = targets

	v.playCues(s.Cues)
}

// Frame advances the projection by one render frame at the tick rate:
// predict the local tank, ease everything toward the host, and
// dead-reckon projectiles.
func (v *Viewer) Frame(local game.Input) {
	w := v.world
	if w == nil {
		return
	}

	if !w.Frozen() {
		if own := w.Tank(v.color); own != nil {
			speed := v.tun.Tank.Speed
			if own.SpeedBoost > 0 {
				speed *= 2
			}
			own.Move(local, speed, w.Width, w.Height, v.tun.Tank.Radius)
			own.Aim(local, v.tun.Tank.AimStep)
		}
	}

	for _, t := range w.Tanks {
		if p, ok := v.targets[t.ID]; ok {
			t.X = game.Lerp(t.X, p.X, Ease)
			t.Y = game.Lerp(t.Y, p.Y, Ease)
			t.Angle = game.LerpAngle(t.Angle, p.Angle, Ease)
		}
	}
	for _, m := range w.MiniTanks {
		if p, ok := v.targets[m.ID]; ok {
			m.X = game.Lerp(m.X, p.X, Ease)
			m.Y = game.Lerp(m.Y, p.Y, Ease)
			m.Angle = game.LerpAngle(m.Angle, p.Angle, Ease)
		}
	}

	if w.Frozen() {
		return
	}
	for _, b := range w.Bullets {
		b.X += b.VX
		b.Y += b.VY
	}
	for _, m := range w.Meteors {
		m.X += m.VX
		m.Y += m.Speed
	}
}

func (v *Viewer) playCues(cues []game.Event) {
	for _, c := range cues {
		if c.IsCue() {
			v.audio.Play(c)
		}
	}
}

func findMini(minis []*game.MiniTank, id int) *game.MiniTank {
	for _, m := range minis {
		if m.ID == id {
			return m
		}
	}
	return nil
}
