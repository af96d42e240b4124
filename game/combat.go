package game

// damageTank applies a hit to a tank and handles its destruction.
// It returns true if the hit ended the round or the match.
func (w *World) damageTank(t *Tank, dmg int) bool {
	if !t.Shielded() {
		w.emit(EventHit, t.X, t.Y, t.Color)
	}
	if !t.TakeDamage(dmg, w.tun.Tank.FlashTicks) {
		return false
	}
	w.destroyTank(t)
	return true
}

// destroyTank costs the loser a life and moves the lifecycle on
func (w *World) destroyTank(t *Tank) {
	w.loseLife(t.Color)
	w.Effects = append(w.Effects, NewBoomEffect(w.newID(), t.X, t.Y, w.tun.Boom))
	w.emit(EventBoom, t.X, t.Y, t.Color)

	if w.Player1Lives <= 0 || w.Player2Lives <= 0 {
		w.gameOver()
		return
	}
	w.roundOver(t.Color.Opponent())
}

// resolveBulletTanks hits tanks with enemy bullets. Each bullet hits at most one tank.
func (w *World) resolveBulletTanks() bool {
	ended := false
	kept := w.Bullets[:0]
	for _, b := range w.Bullets {
		if ended {
			kept = append(kept, b)
			continue
		}
		hit := false
		for _, t := range w.Tanks {
			if b.Owner == t.Color {
				continue
			}
			if !CheckCollision(b.X, b.Y, w.tun.Bullet.Radius, t.X, t.Y, w.tun.Tank.Radius) {
				continue
			}
			hit = true
			ended = w.damageTank(t, b.Damage)
			break
		}
		if !hit {
			kept = append(kept, b)
		}
	}
	w.Bullets = kept
	return ended
}

// resolvePickups lets tanks collect power-ups they touch
func (w *World) resolvePickups() {
	for _, t := range w.Tanks {
		kept := w.PowerUps[:0]
		for _, p := range w.PowerUps {
			if !CheckCollision(t.X, t.Y, w.tun.Tank.Radius, p.X, p.Y, w.tun.PowerUp.Radius) {
				kept = append(kept, p)
				continue
			}
			w.applyPowerUp(t, p.Kind)
			w.emit(EventPowerUp, p.X, p.Y, t.Color)
		}
		w.PowerUps = kept
	}
}

func (w *World) applyPowerUp(t *Tank, kind PowerUpKind) {
	if kind == PowerUpMiniTank {
		w.SpawnMiniTanks(t)
		return
	}
	t.Grant(kind, w.tun.PowerUp.Duration)
}

// resolveMeteorTanks crashes meteors into tanks. A meteor is spent on the
// first tank it touches.
func (w *World) resolveMeteorTanks() bool {
	for _, m := range w.Meteors {
		if !m.Active {
			continue
		}
		for _, t := range w.Tanks {
			if !CheckCollision(m.X, m.Y, m.Radius, t.X, t.Y, w.tun.Tank.Radius) {
				continue
			}
			m.Active = false
			w.Effects = append(w.Effects, NewBoomEffect(w.newID(), m.X, m.Y, w.tun.Boom))
			w.emit(EventBoom, m.X, m.Y, t.Color)
			if w.damageTank(t, m.Damage) {
				return true
			}
			break
		}
	}
	return false
}

// resolveBulletMinis lets bullets hit the other side's mini-tanks
func (w *World) resolveBulletMinis() {
	for _, m := range w.MiniTanks {
		if m.Expired() {
			continue
		}
		kept := w.Bullets[:0]
		for _, b := range w.Bullets {
			if m.Health <= 0 || b.Owner == m.Owner ||
				!CheckCollision(b.X, b.Y, w.tun.Bullet.Radius, m.X, m.Y, w.tun.Mini.Radius) {
				kept = append(kept, b)
				continue
			}
			w.emit(EventHit, m.X, m.Y, m.Owner)
			if m.TakeDamage(b.Damage) {
				w.emit(EventBoom, m.X, m.Y, m.Owner)
			}
		}
		w.Bullets = kept
	}
}
