package protocol

import (
	"math"
	"reflect"
	"testing"

	"github.com/nguyenphuquang1234567/diep-new/game"
)

// busyWorld returns a world with every kind of entity in flight
func busyWorld(t *testing.T) *game.World {
	t.Helper()
	tun := game.DefaultTuning()
	tun.PowerUp.Chance = 1
	tun.Meteor.Chance = 0.5
	w := game.NewSeededWorld(800, 600, tun, 7)
	w.SpawnMiniTanks(w.Tank(game.Red))
	for i := 0; i < 40; i++ {
		w.Step([2]game.Input{{Up: true, AimLeft: true}, {Down: true, Shoot: true}})
	}
	w.Tank(game.Blue).Shield = 120
	w.Tank(game.Red).FlashTimer = 4
	w.Effects = append(w.Effects, game.NewBoomEffect(999, 10, 20, tun.Boom))
	if len(w.Bullets) == 0 || len(w.PowerUps) == 0 || len(w.MiniTanks) == 0 {
		t.Fatalf("world not busy enough: %d bullets, %d power-ups, %d minis",
			len(w.Bullets), len(w.PowerUps), len(w.MiniTanks))
	}
	return w
}

func TestSnapshotRoundTripJSON(t *testing.T) {
	host := busyWorld(t)
	want := EncodeSnapshot(host, nil)

	frame, err := Encode(MsgGameState, want)
	if err != nil {
		t.Fatal(err)
	}
	env, err := DecodeEnvelope(frame)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodePayload[Snapshot](env)
	if err != nil {
		t.Fatal(err)
	}

	viewer := DecodeSnapshot(got, game.DefaultTuning())
	if again := EncodeSnapshot(viewer, nil); !reflect.DeepEqual(again, want) {
		t.Errorf("state changed across a JSON round trip\nwant %+v\ngot  %+v", want, again)
	}
}

func TestSnapshotRoundTripMsgpack(t *testing.T) {
	host := busyWorld(t)
	want := EncodeSnapshot(host, nil)

	b, err := MarshalSnapshot(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalSnapshot(b)
	if err != nil {
		t.Fatal(err)
	}

	viewer := DecodeSnapshot(got, game.DefaultTuning())
	if again := EncodeSnapshot(viewer, nil); !reflect.DeepEqual(again, want) {
		t.Errorf("state changed across a msgpack round trip\nwant %+v\ngot  %+v", want, again)
	}
}

func TestSnapshotOnEmptyPeer(t *testing.T) {
	host := busyWorld(t)
	host.Player1Lives, host.RoundNumber = 4, 3
	viewer := DecodeSnapshot(EncodeSnapshot(host, nil), game.DefaultTuning())

	if viewer.Width != 800 || viewer.Height != 600 || viewer.Tick != host.Tick {
		t.Errorf("arena or tick not carried: %fx%f tick %d", viewer.Width, viewer.Height, viewer.Tick)
	}
	if len(viewer.Tanks) != 2 || len(viewer.Bullets) != len(host.Bullets) ||
		len(viewer.PowerUps) != len(host.PowerUps) || len(viewer.MiniTanks) != len(host.MiniTanks) {
		t.Fatal("entity counts differ from the host")
	}
	for i, b := range host.Bullets {
		if viewer.Bullets[i].ID != b.ID || viewer.Bullets[i].Owner != b.Owner {
			t.Errorf("bullet %d lost identity or owner", b.ID)
		}
	}
	if viewer.Tank(game.Blue).Shield != 120 {
		t.Error("buff timers should be carried")
	}
	if viewer.Player1Lives != 4 || viewer.RoundNumber != 3 || viewer.Phase != host.Phase {
		t.Errorf("lifecycle not copied: lives %d round %d phase %s", viewer.Player1Lives, viewer.RoundNumber, viewer.Phase)
	}
}

func TestSnapshotCarriesCues(t *testing.T) {
	w := game.NewEmptyWorld(800, 600, game.DefaultTuning())
	cues := []game.Event{{Kind: game.EventHit, X: 5, Y: 6, Color: game.Blue}}
	b, err := MarshalSnapshot(EncodeSnapshot(w, cues))
	if err != nil {
		t.Fatal(err)
	}
	s, err := UnmarshalSnapshot(b)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Cues, cues) {
		t.Errorf("expected cues %v, got %v", cues, s.Cues)
	}
}

func TestDecodeSnapshotToleratesBadFields(t *testing.T) {
	s := Snapshot{
		Tanks: []TankState{
			{ID: 1, Color: "red", Health: 100},
			{ID: 2, Color: "green", Health: 100},
		},
		Bullets:     []BulletState{{ID: 3, Color: "purple"}, {ID: 4, Color: "blue"}},
		PowerUps:    []PowerUpState{{ID: 5, Type: "laser"}, {ID: 6, Type: "shield"}},
		MiniTanks:   []MiniTankState{{ID: 7, Color: ""}},
		Phase:       "lobby",
		GameRunning: true,
	}
	w := DecodeSnapshot(s, game.DefaultTuning())

	if len(w.Tanks) != 1 || w.Tanks[0].ID != 1 {
		t.Errorf("expected only the red tank, got %d tanks", len(w.Tanks))
	}
	if len(w.Bullets) != 1 || w.Bullets[0].Owner != game.Blue {
		t.Error("expected only the blue bullet")
	}
	if len(w.PowerUps) != 1 || w.PowerUps[0].Kind != game.PowerUpShield {
		t.Error("expected only the shield power-up")
	}
	if len(w.MiniTanks) != 0 || len(w.Meteors) != 0 || len(w.Effects) != 0 {
		t.Error("unknown or missing lists should come out empty")
	}
	if w.Width != game.DefaultArenaWidth || w.Height != game.DefaultArenaHeight {
		t.Errorf("expected default arena, got %fx%f", w.Width, w.Height)
	}
	if w.Phase != game.PhasePlaying {
		t.Errorf("phase should be inferred from the running flag, got %s", w.Phase)
	}
}

func TestDecodeSnapshotZeroesNonFinite(t *testing.T) {
	s := Snapshot{
		Width:  math.NaN(),
		Height: 600,
		Tanks: []TankState{
			{ID: 1, Color: "red", X: 100, Y: math.Inf(1), Angle: math.NaN()},
		},
		Bullets:   []BulletState{{ID: 2, Color: "blue", VX: math.Inf(-1), Trail: []game.Point{{X: math.NaN(), Y: 4}}}},
		MiniTanks: []MiniTankState{{ID: 3, Color: "red", Angle: math.Inf(1)}},
		Meteors:   []MeteorState{{ID: 4, Speed: math.NaN(), Radius: 20}},
	}
	w := DecodeSnapshot(s, game.DefaultTuning())

	if w.Width != game.DefaultArenaWidth || w.Height != game.DefaultArenaHeight {
		t.Errorf("NaN arena size should fall back to the default, got %fx%f", w.Width, w.Height)
	}
	tank := w.Tanks[0]
	if tank.X != 100 || tank.Y != 0 || tank.Angle != 0 {
		t.Errorf("expected finite fields kept and the rest zeroed, got (%f, %f, %f)", tank.X, tank.Y, tank.Angle)
	}
	b := w.Bullets[0]
	if b.VX != 0 || b.Trail[0].X != 0 || b.Trail[0].Y != 4 {
		t.Errorf("bullet not sanitized: %+v", b)
	}
	if w.MiniTanks[0].Angle != 0 {
		t.Errorf("mini-tank angle should be zeroed, got %f", w.MiniTanks[0].Angle)
	}
	if w.Meteors[0].Speed != 0 || w.Meteors[0].Radius != 20 {
		t.Errorf("meteor not sanitized: %+v", w.Meteors[0])
	}
}
