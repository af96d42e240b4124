package game

import (
	"math"
	"math/rand/v2"
	"testing"
)

// newQuietWorld returns a seeded 800x600 world with no random spawns
func newQuietWorld() *World {
	tun := DefaultTuning()
	tun.PowerUp.Chance = 0
	tun.Meteor.Chance = 0
	return NewSeededWorld(800, 600, tun, 1)
}

func hasEvent(events []Event, kind EventKind) bool {
	for _, e := range events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

func bulletsOf(w *World, c Color) []*Bullet {
	var out []*Bullet
	for _, b := range w.Bullets {
		if b.Owner == c {
			out = append(out, b)
		}
	}
	return out
}

func TestNewWorld(t *testing.T) {
	w := newQuietWorld()
	if len(w.Tanks) != 2 {
		t.Fatalf("expected 2 tanks, got %d", len(w.Tanks))
	}
	if w.Tanks[0].Color != Red || w.Tanks[1].Color != Blue {
		t.Error("tank 0 should be red and tank 1 blue")
	}
	if w.Tanks[0].ID == w.Tanks[1].ID {
		t.Error("tank IDs should be unique")
	}
	if w.Phase != PhasePlaying || !w.GameRunning {
		t.Error("a new match should start playing")
	}
	if w.Player1Lives != 7 || w.Player2Lives != 7 || w.RoundNumber != 1 {
		t.Errorf("unexpected match start: %+v", w.Match)
	}
}

func TestWorldAutoFire(t *testing.T) {
	w := newQuietWorld()
	w.Step([2]Input{})
	if len(bulletsOf(w, Red)) != 1 || len(bulletsOf(w, Blue)) != 1 {
		t.Fatalf("each tank should auto-fire once on the first tick, got %d bullets", len(w.Bullets))
	}

	// 200ms cooldown is 12 ticks; the next shot needs more than 200ms
	for i := 0; i < 12; i++ {
		w.Step([2]Input{})
	}
	if len(bulletsOf(w, Red)) != 1 {
		t.Errorf("red should not refire within the cooldown, has %d bullets", len(bulletsOf(w, Red)))
	}
	w.Step([2]Input{})
	if len(bulletsOf(w, Red)) != 2 {
		t.Errorf("red should refire after the cooldown, has %d bullets", len(bulletsOf(w, Red)))
	}
}

func TestWorldMultishot(t *testing.T) {
	w := newQuietWorld()
	red := w.Tank(Red)
	red.Multishot = 100
	red.Angle = 1

	w.Step([2]Input{})

	shots := bulletsOf(w, Red)
	if len(shots) != 3 {
		t.Fatalf("expected 3 bullets, got %d", len(shots))
	}
	want := []float64{1 - 0.15, 1, 1 + 0.15}
	for i, b := range shots {
		got := math.Atan2(b.VY, b.VX)
		if math.Abs(NormalizeAngle(got-want[i])) > 1e-9 {
			t.Errorf("bullet %d: expected angle %f, got %f", i, want[i], got)
		}
		if math.Abs(b.Speed()-12) > 1e-9 {
			t.Errorf("bullet %d: expected speed 12, got %f", i, b.Speed())
		}
	}
}

func TestBulletHitsEnemyTank(t *testing.T) {
	w := newQuietWorld()
	blue := w.Tank(Blue)
	w.Bullets = append(w.Bullets, &Bullet{ID: 99, X: blue.X, Y: blue.Y, Owner: Red, Damage: 25})

	events := w.Step([2]Input{})

	if blue.Health != 2375 {
		t.Errorf("expected blue health 2375, got %d", blue.Health)
	}
	if !hasEvent(events, EventHit) {
		t.Error("expected a hit event")
	}
	for _, b := range w.Bullets {
		if b.ID == 99 {
			t.Error("bullet should be removed after hitting")
		}
	}
}

func TestBulletPassesOwnSide(t *testing.T) {
	w := newQuietWorld()
	blue := w.Tank(Blue)
	w.Bullets = append(w.Bullets, &Bullet{ID: 99, X: blue.X, Y: blue.Y, Owner: Blue, Damage: 25, Mini: true})

	w.Step([2]Input{})

	if blue.Health != blue.MaxHealth {
		t.Errorf("own-side bullet should not hurt, health %d", blue.Health)
	}
	found := false
	for _, b := range w.Bullets {
		if b.ID == 99 {
			found = true
		}
	}
	if !found {
		t.Error("own-side bullet should keep flying")
	}
}

func TestRoundOverOnDestruction(t *testing.T) {
	w := newQuietWorld()
	blue := w.Tank(Blue)
	blue.Health = 10
	w.Bullets = append(w.Bullets, &Bullet{ID: 99, X: blue.X, Y: blue.Y, Owner: Red, Damage: 25})

	events := w.Step([2]Input{})

	if w.Phase != PhaseRoundOver || w.GameRunning {
		t.Fatalf("expected round over, got phase %s running=%v", w.Phase, w.GameRunning)
	}
	if w.Player2Lives != 6 || w.Player1Lives != 7 {
		t.Errorf("expected lives 7/6, got %d/%d", w.Player1Lives, w.Player2Lives)
	}
	if w.RoundNumber != 2 {
		t.Errorf("expected round 2, got %d", w.RoundNumber)
	}
	if w.GameOverMessage != "Red win" {
		t.Errorf("expected Red win, got %q", w.GameOverMessage)
	}
	if w.GameOverTimer != 120 {
		t.Errorf("expected message timer 120, got %d", w.GameOverTimer)
	}
	if len(w.Effects) != 1 {
		t.Errorf("expected a boom effect, got %d", len(w.Effects))
	}
	if !hasEvent(events, EventBoom) || !hasEvent(events, EventRoundOver) {
		t.Error("expected boom and round-over events")
	}

	// Frozen: no further simulation
	x := blue.X
	w.Step([2]Input{{}, {Left: true}})
	if blue.X != x {
		t.Error("tanks should not move while the round is over")
	}
	if w.GameOverTimer != 119 {
		t.Errorf("message timer should count down, got %d", w.GameOverTimer)
	}
}

func TestGameOverOnLastLife(t *testing.T) {
	w := newQuietWorld()
	w.Player1Lives = 1
	red := w.Tank(Red)
	w.Bullets = append(w.Bullets, &Bullet{ID: 99, X: red.X, Y: red.Y, Owner: Blue, Damage: red.Health})

	events := w.Step([2]Input{})

	if w.Player1Lives != 0 {
		t.Errorf("expected red lives 0, got %d", w.Player1Lives)
	}
	if w.GameRunning {
		t.Error("game should be frozen")
	}
	if w.Phase != PhaseGameOver {
		t.Errorf("expected game over, got %s", w.Phase)
	}
	if w.GameOverMessage != "Blue win" {
		t.Errorf("expected Blue win, got %q", w.GameOverMessage)
	}
	if !hasEvent(events, EventGameOver) {
		t.Error("expected a game-over event")
	}
}

func TestOnlyOneDestructionPerTick(t *testing.T) {
	w := newQuietWorld()
	red, blue := w.Tank(Red), w.Tank(Blue)
	red.Health, blue.Health = 1, 1
	w.Bullets = append(w.Bullets,
		&Bullet{ID: 98, X: blue.X, Y: blue.Y, Owner: Red, Damage: 25},
		&Bullet{ID: 99, X: red.X, Y: red.Y, Owner: Blue, Damage: 25},
	)

	w.Step([2]Input{})

	lost := (7 - w.Player1Lives) + (7 - w.Player2Lives)
	if lost != 1 {
		t.Errorf("expected exactly one life lost, got %d", lost)
	}
}

func TestPickupGrantsPowerUp(t *testing.T) {
	w := newQuietWorld()
	red := w.Tank(Red)
	w.PowerUps = append(w.PowerUps, &PowerUp{ID: 50, X: red.X, Y: red.Y, Kind: PowerUpShield, Life: 780})

	events := w.Step([2]Input{})

	if red.Shield != 720 {
		t.Errorf("expected shield 720, got %d", red.Shield)
	}
	if len(w.PowerUps) != 0 {
		t.Error("power-up should be removed on pickup")
	}
	if !hasEvent(events, EventPowerUp) {
		t.Error("expected a powerup event")
	}
}

func TestPowerUpExpires(t *testing.T) {
	w := newQuietWorld()
	w.PowerUps = append(w.PowerUps, &PowerUp{ID: 50, X: 400, Y: 100, Kind: PowerUpSpeed, Life: 2})
	w.Step([2]Input{})
	if len(w.PowerUps) != 1 {
		t.Fatal("power-up should survive one tick")
	}
	w.Step([2]Input{})
	if len(w.PowerUps) != 0 {
		t.Error("power-up should expire")
	}
}

func TestMiniTankPickupSpawnsSquad(t *testing.T) {
	w := newQuietWorld()
	red, blue := w.Tank(Red), w.Tank(Blue)
	w.PowerUps = append(w.PowerUps, &PowerUp{ID: 50, X: red.X, Y: red.Y, Kind: PowerUpMiniTank, Life: 780})

	w.Step([2]Input{})

	if len(w.MiniTanks) != 3 {
		t.Fatalf("expected 3 mini-tanks, got %d", len(w.MiniTanks))
	}
	for _, m := range w.MiniTanks {
		if m.Owner != Red || m.OwnerID != red.ID || m.TargetID != blue.ID {
			t.Errorf("mini-tank should belong to red and hunt blue: %+v", m)
		}
	}
	if w.MiniTanks[0].X >= w.MiniTanks[1].X || w.MiniTanks[1].X >= w.MiniTanks[2].X {
		t.Error("mini-tanks should be spread left to right")
	}
}

func TestMiniTankBulletsSpareOwnerSide(t *testing.T) {
	w := newQuietWorld()
	red, blue := w.Tank(Red), w.Tank(Blue)
	m := NewMiniTank(w.newID(), red, blue, 400, 100, w.tun.Mini)
	w.MiniTanks = append(w.MiniTanks, m)
	w.Bullets = append(w.Bullets, &Bullet{ID: 90, X: 400, Y: 100, Owner: Red, Damage: 25})

	w.Step([2]Input{})
	if m.Health != 200 {
		t.Errorf("own-side bullet should not hurt the mini-tank, health %d", m.Health)
	}

	w.Bullets = append(w.Bullets, &Bullet{ID: 91, X: m.X, Y: m.Y, Owner: Blue, Damage: 25})
	w.Step([2]Input{})
	if m.Health != 175 {
		t.Errorf("enemy bullet should hurt the mini-tank, health %d", m.Health)
	}
}

func TestMeteorHitsTank(t *testing.T) {
	w := newQuietWorld()
	red := w.Tank(Red)
	w.Meteors = append(w.Meteors, &Meteor{ID: 70, X: red.X, Y: red.Y, Radius: 20, Damage: 30, Active: true})

	events := w.Step([2]Input{})

	if red.Health != 2370 {
		t.Errorf("expected red health 2370, got %d", red.Health)
	}
	if len(w.Meteors) != 0 {
		t.Error("meteor should be spent")
	}
	if len(w.Effects) != 1 || !hasEvent(events, EventBoom) {
		t.Error("expected a boom at the meteor")
	}
}

func TestMeteorLeavesArena(t *testing.T) {
	m := &Meteor{X: 100, Y: 610, Speed: 6, VX: 1, Radius: 20, Active: true}
	m.Update(800, 600)
	if !m.Active {
		t.Fatal("meteor overlapping the edge should stay active")
	}
	m.Update(800, 600)
	if m.Active {
		t.Error("meteor fully below the arena should deactivate")
	}
}

func TestSpawnedEntitiesInBounds(t *testing.T) {
	tun := DefaultTuning()
	tun.PowerUp.Chance = 1
	tun.Meteor.Chance = 1
	w := NewSeededWorld(800, 600, tun, 7)
	for i := 0; i < 10; i++ {
		w.Step([2]Input{})
	}
	if len(w.PowerUps) == 0 || len(w.PowerUps) > 5 {
		t.Errorf("expected 1-5 power-ups, got %d", len(w.PowerUps))
	}
	for _, p := range w.PowerUps {
		if p.X < 50 || p.X > 750 || p.Y < 50 || p.Y > 550 {
			t.Errorf("power-up out of spawn area: (%f, %f)", p.X, p.Y)
		}
	}
	for _, m := range w.Meteors {
		if m.Radius < 15 || m.Radius > 30 {
			t.Errorf("meteor radius out of range: %f", m.Radius)
		}
		if m.Damage != int(math.Floor(m.Radius*1.5)) {
			t.Errorf("meteor damage %d does not match radius %f", m.Damage, m.Radius)
		}
	}
}

func TestTankInvariantsOverLongRun(t *testing.T) {
	w := NewSeededWorld(800, 600, DefaultTuning(), 42)
	src := rand.New(rand.NewPCG(42, 43))
	randomInput := func() Input {
		return Input{
			Up: src.IntN(2) == 0, Down: src.IntN(3) == 0,
			Left: src.IntN(2) == 0, Right: src.IntN(3) == 0,
			AimLeft: src.IntN(2) == 0, AimRight: src.IntN(2) == 0,
		}
	}

	for i := 0; i < 5000; i++ {
		w.Step([2]Input{randomInput(), randomInput()})
		if w.Phase == PhaseRoundOver {
			w.Advance()
		}
		for _, tank := range w.Tanks {
			if tank.Health < 0 || tank.Health > tank.MaxHealth {
				t.Fatalf("tick %d: %s health %d out of range", i, tank.Color, tank.Health)
			}
			if tank.X < 20 || tank.X > 780 || tank.Y < 20 || tank.Y > 580 {
				t.Fatalf("tick %d: %s position (%f, %f) out of arena", i, tank.Color, tank.X, tank.Y)
			}
		}
		if w.Player1Lives < 0 || w.Player2Lives < 0 {
			t.Fatalf("tick %d: negative lives %d/%d", i, w.Player1Lives, w.Player2Lives)
		}
	}
}
