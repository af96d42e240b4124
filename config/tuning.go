package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/nguyenphuquang1234567/diep-new/game"
)

// ReadTuning overlays a TOML file on the default balance constants.
// Keys missing from the file keep their defaults; an empty path returns
// the defaults unchanged.
func ReadTuning(fileName string) (game.Tuning, error) {
	tun := game.DefaultTuning()
	if fileName == "" {
		return tun, nil
	}
	file, err := os.ReadFile(fileName)
	if err != nil {
		return tun, fmt.Errorf("read tuning: %w", err)
	}
	if err := toml.Unmarshal(file, &tun); err != nil {
		return game.DefaultTuning(), fmt.Errorf("parse tuning %s: %w", fileName, err)
	}
	if err := validate(tun); err != nil {
		return game.DefaultTuning(), fmt.Errorf("tuning %s: %w", fileName, err)
	}
	return tun, nil
}

func validate(tun game.Tuning) error {
	switch {
	case tun.Tank.Radius <= 0 || tun.Bullet.Radius <= 0:
		return fmt.Errorf("radii must be positive")
	case tun.Tank.MaxHealth <= 0:
		return fmt.Errorf("tank max_health must be positive")
	case tun.Match.Lives <= 0:
		return fmt.Errorf("match lives must be positive")
	case tun.Match.CountdownFrom <= 0 || tun.Match.CountdownStep <= 0:
		return fmt.Errorf("countdown must be positive")
	case tun.PowerUp.Chance < 0 || tun.PowerUp.Chance > 1 || tun.Meteor.Chance < 0 || tun.Meteor.Chance > 1:
		return fmt.Errorf("spawn chances must be within [0, 1]")
	case tun.Meteor.MinRadius > tun.Meteor.MaxRadius || tun.Meteor.MinSpeed > tun.Meteor.MaxSpeed:
		return fmt.Errorf("meteor ranges are inverted")
	}
	return nil
}
