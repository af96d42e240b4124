package game

import "time"

const (
	TickRate     = 60 // simulation ticks per second
	TickDuration = time.Second / TickRate

	DefaultArenaWidth  = 1280
	DefaultArenaHeight = 720
)

// Frame counts below are ticks at TickRate. Millisecond values are
// measured against the simulation clock (see World.NowMs), never wall time.

type TankTuning struct {
	Radius       float64 `toml:"radius"`
	Speed        float64 `toml:"speed"`
	MaxHealth    int     `toml:"max_health"`
	AimStep      float64 `toml:"aim_step"`
	CooldownMs   int64   `toml:"cooldown_ms"`
	RapidMs      int64   `toml:"rapid_cooldown_ms"`
	Spread       float64 `toml:"multishot_spread"`
	RegenEvery   int     `toml:"regen_every"`
	RegenAmount  int     `toml:"regen_amount"`
	FlashTicks   int     `toml:"flash_ticks"`
	MuzzleOffset float64 `toml:"muzzle_offset"`
}

type BulletTuning struct {
	Radius      float64 `toml:"radius"`
	Speed       float64 `toml:"speed"`
	Damage      int     `toml:"damage"`
	TrailLength int     `toml:"trail_length"`
}

type PowerUpTuning struct {
	Chance   float64 `toml:"chance"`
	Max      int     `toml:"max"`
	Radius   float64 `toml:"radius"`
	Life     int     `toml:"life"`
	Duration int     `toml:"duration"`
	Margin   float64 `toml:"margin"`
}

type MeteorTuning struct {
	Chance          float64 `toml:"chance"`
	MinSpeed        float64 `toml:"min_speed"`
	MaxSpeed        float64 `toml:"max_speed"`
	MinRadius       float64 `toml:"min_radius"`
	MaxRadius       float64 `toml:"max_radius"`
	MinDrift        float64 `toml:"min_drift"`
	MaxDrift        float64 `toml:"max_drift"`
	DamagePerRadius float64 `toml:"damage_per_radius"`
	Margin          float64 `toml:"margin"`
	SpawnY          float64 `toml:"spawn_y"`
}

type MiniTuning struct {
	Count        int     `toml:"count"`
	Spacing      float64 `toml:"spacing"`
	Radius       float64 `toml:"radius"`
	Speed        float64 `toml:"speed"`
	Health       int     `toml:"health"`
	CooldownMs   int64   `toml:"cooldown_ms"`
	Lifetime     int     `toml:"lifetime"`
	Standoff     float64 `toml:"standoff"`
	BulletSpeed  float64 `toml:"bullet_speed"`
	BulletDamage int     `toml:"bullet_damage"`
	MuzzleOffset float64 `toml:"muzzle_offset"`
}

type BoomTuning struct {
	Growth    float64 `toml:"growth"`
	Fade      float64 `toml:"fade"`
	MaxRadius float64 `toml:"max_radius"`
	Color     string  `toml:"color"`
}

type MatchTuning struct {
	Lives            int   `toml:"lives"`
	CountdownFrom    int   `toml:"countdown_from"`
	CountdownStep    int   `toml:"countdown_step"`
	RoundOverTicks   int   `toml:"round_over_ticks"`
	GameOverTicks    int   `toml:"game_over_ticks"`
	ResetDelayMs     int64 `toml:"reset_delay_ms"`
	AutoAdvanceTicks int   `toml:"auto_advance_ticks"` // 0 waits for the host to advance
}

// Tuning holds every balance constant of a match
type Tuning struct {
	Tank    TankTuning    `toml:"tank"`
	Bullet  BulletTuning  `toml:"bullet"`
	PowerUp PowerUpTuning `toml:"powerup"`
	Meteor  MeteorTuning  `toml:"meteor"`
	Mini    MiniTuning    `toml:"mini"`
	Boom    BoomTuning    `toml:"boom"`
	Match   MatchTuning   `toml:"match"`
}

// DefaultTuning returns the stock balance
func DefaultTuning() Tuning {
	return Tuning{
		Tank: TankTuning{
			Radius:       20,
			Speed:        3,
			MaxHealth:    2400,
			AimStep:      0.1,
			CooldownMs:   200,
			RapidMs:      120,
			Spread:       0.15,
			RegenEvery:   240,
			RegenAmount:  2,
			FlashTicks:   10,
			MuzzleOffset: 10,
		},
		Bullet: BulletTuning{
			Radius:      8,
			Speed:       12,
			Damage:      25,
			TrailLength: 5,
		},
		PowerUp: PowerUpTuning{
			Chance:   0.015,
			Max:      5,
			Radius:   15,
			Life:     780,
			Duration: 720,
			Margin:   50,
		},
		Meteor: MeteorTuning{
			Chance:          0.02,
			MinSpeed:        3,
			MaxSpeed:        6,
			MinRadius:       15,
			MaxRadius:       30,
			MinDrift:        0.6,
			MaxDrift:        1.8,
			DamagePerRadius: 1.5,
			Margin:          20,
			SpawnY:          -20,
		},
		Mini: MiniTuning{
			Count:        3,
			Spacing:      40,
			Radius:       12,
			Speed:        3.5,
			Health:       200,
			CooldownMs:   500,
			Lifetime:     600,
			Standoff:     60,
			BulletSpeed:  10,
			BulletDamage: 7,
			MuzzleOffset: 8,
		},
		Boom: BoomTuning{
			Growth:    6,
			Fade:      0.08,
			MaxRadius: 60,
			Color:     "#ff6600",
		},
		Match: MatchTuning{
			Lives:          7,
			CountdownFrom:  4,
			CountdownStep:  60,
			RoundOverTicks: 120,
			GameOverTicks:  180,
			ResetDelayMs:   500,
		},
	}
}

// MsToTicks converts a simulation duration to whole ticks, rounding up
func MsToTicks(ms int64) int {
	if ms <= 0 {
		return 0
	}
	return int((ms*TickRate + 999) / 1000)
}
