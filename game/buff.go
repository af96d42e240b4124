package game

// Buffs are the timed power-up effects on a tank, in ticks remaining
type Buffs struct {
	SpeedBoost int
	RapidFire  int
	Shield     int
	Multishot  int
}

// Shielded reports whether incoming damage is negated
func (b *Buffs) Shielded() bool {
	return b.Shield > 0
}

// Grant starts the timed effect for a power-up kind. Kinds that are not
// timed effects are ignored.
func (b *Buffs) Grant(kind PowerUpKind, duration int) {
	switch kind {
	case PowerUpSpeed:
		b.SpeedBoost = duration
	case PowerUpRapid:
		b.RapidFire = duration
	case PowerUpShield:
		b.Shield = duration
	case PowerUpMultishot:
		b.Multishot = duration
	}
}

// tick counts every timer down by one. The returned flags reflect the state
// before the decrement, so the last tick of a boost still counts.
func (b *Buffs) tick() (boosted, rapid bool) {
	if b.SpeedBoost > 0 {
		b.SpeedBoost--
		boosted = true
	}
	if b.RapidFire > 0 {
		b.RapidFire--
		rapid = true
	}
	if b.Shield > 0 {
		b.Shield--
	}
	if b.Multishot > 0 {
		b.Multishot--
	}
	return boosted, rapid
}
