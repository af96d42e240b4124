package game

import (
	"math"
	"testing"
)

func newTestTank(c Color) *Tank {
	return NewTank(1, c, 800, 600, DefaultTuning().Tank)
}

func TestNewTankSpawn(t *testing.T) {
	red := newTestTank(Red)
	if red.X != 200 || red.Y != 300 || red.Angle != math.Pi {
		t.Errorf("red spawn: got (%f, %f, %f)", red.X, red.Y, red.Angle)
	}
	blue := newTestTank(Blue)
	if blue.X != 600 || blue.Y != 300 || blue.Angle != 0 {
		t.Errorf("blue spawn: got (%f, %f, %f)", blue.X, blue.Y, blue.Angle)
	}
	if red.Health != 2400 || red.MaxHealth != 2400 {
		t.Errorf("expected 2400/2400 health, got %d/%d", red.Health, red.MaxHealth)
	}
	if !red.CanFire(0) {
		t.Error("fresh tank should be able to fire immediately")
	}
}

func TestTankTakeDamage(t *testing.T) {
	tank := newTestTank(Red)

	destroyed := tank.TakeDamage(25, 10)
	if destroyed {
		t.Error("should not be destroyed by 25 damage")
	}
	if tank.Health != 2375 {
		t.Errorf("expected health 2375, got %d", tank.Health)
	}
	if tank.FlashTimer != 10 {
		t.Errorf("expected flash timer 10, got %d", tank.FlashTimer)
	}

	destroyed = tank.TakeDamage(5000, 10)
	if !destroyed {
		t.Error("should be destroyed by 5000 damage")
	}
	if tank.Health != 0 {
		t.Errorf("health should floor at 0, got %d", tank.Health)
	}
}

func TestTankShieldBlocksDamage(t *testing.T) {
	tank := newTestTank(Blue)
	tank.Shield = 5
	for i := 0; i < 10; i++ {
		if tank.TakeDamage(100000, 10) {
			t.Fatal("shielded tank should never be destroyed")
		}
	}
	if tank.Health != tank.MaxHealth {
		t.Errorf("shielded tank health changed to %d", tank.Health)
	}
	if tank.Shield != 5 {
		t.Errorf("hits should not consume the shield, got %d", tank.Shield)
	}
	if tank.FlashTimer != 0 {
		t.Error("blocked hits should not flash")
	}
}

func TestTankMoveClampedToArena(t *testing.T) {
	tun := DefaultTuning().Tank
	tank := newTestTank(Red)
	tank.X, tank.Y = 21, 21
	tank.Update(Input{Up: true, Left: true}, 800, 600, tun)
	if tank.X != 20 || tank.Y != 20 {
		t.Errorf("expected clamp to (20, 20), got (%f, %f)", tank.X, tank.Y)
	}

	for i := 0; i < 500; i++ {
		tank.Update(Input{Down: true, Right: true}, 800, 600, tun)
	}
	if tank.X != 780 || tank.Y != 580 {
		t.Errorf("expected clamp to (780, 580), got (%f, %f)", tank.X, tank.Y)
	}
}

func TestTankSpeedBoost(t *testing.T) {
	tun := DefaultTuning().Tank
	tank := newTestTank(Red)
	tank.SpeedBoost = 1
	x := tank.X

	tank.Update(Input{Right: true}, 800, 600, tun)
	if tank.X-x != 6 {
		t.Errorf("boosted tank should move 6, moved %f", tank.X-x)
	}
	if tank.SpeedBoost != 0 {
		t.Errorf("expected boost to run out, got %d", tank.SpeedBoost)
	}

	x = tank.X
	tank.Update(Input{Right: true}, 800, 600, tun)
	if tank.X-x != 3 {
		t.Errorf("unboosted tank should move 3, moved %f", tank.X-x)
	}
}

func TestTankRapidFireCooldown(t *testing.T) {
	tun := DefaultTuning().Tank
	tank := newTestTank(Red)
	tank.RapidFire = 10
	tank.Update(Input{}, 800, 600, tun)
	if tank.CooldownMs != 120 {
		t.Errorf("rapid fire cooldown should be 120, got %d", tank.CooldownMs)
	}
	tank.RapidFire = 0
	tank.Update(Input{}, 800, 600, tun)
	if tank.CooldownMs != 200 {
		t.Errorf("base cooldown should be 200, got %d", tank.CooldownMs)
	}

	tank.LastShot = 1000
	if tank.CanFire(1200) {
		t.Error("should not fire exactly at the cooldown")
	}
	if !tank.CanFire(1201) {
		t.Error("should fire once the cooldown has passed")
	}
}

func TestTankRegeneration(t *testing.T) {
	tun := DefaultTuning().Tank
	tank := newTestTank(Red)
	tank.Health = 100
	tank.RegenTimer = 239
	tank.Update(Input{}, 800, 600, tun)
	if tank.Health != 102 {
		t.Errorf("expected regen to 102, got %d", tank.Health)
	}
	if tank.RegenTimer != 0 {
		t.Errorf("regen timer should reset, got %d", tank.RegenTimer)
	}

	tank.Health = tank.MaxHealth - 1
	tank.RegenTimer = 239
	tank.Update(Input{}, 800, 600, tun)
	if tank.Health != tank.MaxHealth {
		t.Errorf("regen should cap at max, got %d", tank.Health)
	}
}

func TestTankAimIsUnclamped(t *testing.T) {
	tun := DefaultTuning().Tank
	tank := newTestTank(Blue)
	for i := 0; i < 100; i++ {
		tank.Update(Input{AimRight: true}, 800, 600, tun)
	}
	if math.Abs(tank.Angle-10) > 1e-9 {
		t.Errorf("expected angle 10 after 100 steps, got %f", tank.Angle)
	}
}

func TestTankShotAngles(t *testing.T) {
	tank := newTestTank(Blue)
	tank.Angle = 1
	if got := tank.ShotAngles(0.15); len(got) != 1 || got[0] != 1 {
		t.Errorf("single shot expected, got %v", got)
	}
	tank.Multishot = 3
	got := tank.ShotAngles(0.15)
	want := []float64{0.85, 1, 1.15}
	if len(got) != 3 {
		t.Fatalf("expected 3 angles, got %d", len(got))
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("angle %d: expected %f, got %f", i, want[i], got[i])
		}
	}
}

func TestGrantIgnoresUntimedKinds(t *testing.T) {
	var b Buffs
	b.Grant(PowerUpMiniTank, 720)
	if b != (Buffs{}) {
		t.Errorf("mini-tank is not a timed effect, got %+v", b)
	}
	b.Grant(PowerUpShield, 720)
	if !b.Shielded() || b.Shield != 720 {
		t.Errorf("shield should be granted, got %+v", b)
	}
}
