// Package ai implements the per-enemy behavior state machine.
//
// State cycle: patrol → aggro → return → patrol. Transition guards run
// every tick against live distances, never cached ones. Death is external
// to the machine.
package ai

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"riftcore/internal/model"
)

// FireFunc is the callback that spawns an enemy projectile.
// Injected by the simulation to avoid an import cycle with the entity
// collections the bullet lands in.
type FireFunc func(e *model.Enemy, dir model.Vec2)

// Behavior tuning constants.
const (
	// backoffRadiusMult: in aggro, retreat instead of approach when closer
	// than this multiple of the enemy's radius to the player.
	backoffRadiusMult = 2.6

	// orbitBiasNear/Far weight the perpendicular strafe component inside
	// and outside the orbit-distance threshold.
	orbitBiasNear = 1.0
	orbitBiasFar  = 0.35

	// orbitDistanceMult sets the orbit threshold relative to attack range.
	orbitDistanceMult = 0.8

	// jitterRate and jitterWeight shape the smoothly-varying perpendicular
	// wobble that turns chases into strafing runs.
	jitterRate   = 2.3
	jitterWeight = 0.30

	// fireJitterMax is the random addition to the reload interval,
	// breaking up synchronized volleys across enemies.
	fireJitterMax = 0.35

	circleAngularRate = 0.9 // rad/s for circle patrol
	lineRate          = 1.1 // rad/s phase rate for line patrol
	staticHoverRadius = 10.0
	wanderReachDist   = 12.0
)

// Speed fractions of an enemy's base speed, tiered by rank. Chasing is the
// fastest tier, patrol the slowest; bosses outpace elites outpace basics in
// every mode.
var (
	patrolSpeedFrac = [3]float64{0.35, 0.45, 0.55}
	returnSpeedFrac = [3]float64{0.80, 0.90, 1.00}
	chaseSpeedFrac  = [3]float64{0.85, 0.95, 1.10}
)

// Machine drives the behavior state of every enemy in a simulation.
// All behavior randomness flows through the injected rand source so tests
// can substitute a deterministic stream.
type Machine struct {
	rng              *rand.Rand
	fireIntervalMult float64
	speedScale       float64 // zone modifier scaling (swift-enemies)
	fire             FireFunc
}

// NewMachine creates a behavior machine.
func NewMachine(rng *rand.Rand, fireIntervalMult float64, fire FireFunc) *Machine {
	if fireIntervalMult <= 0 {
		fireIntervalMult = 1.0
	}
	return &Machine{
		rng:              rng,
		fireIntervalMult: fireIntervalMult,
		speedScale:       1.0,
		fire:             fire,
	}
}

// SetSpeedScale applies a zone-wide enemy speed multiplier (modifiers).
func (m *Machine) SetSpeedScale(scale float64) {
	if scale <= 0 {
		scale = 1.0
	}
	m.speedScale = scale
}

// Update advances one enemy by dt seconds: evaluates transition guards,
// applies per-state motion, and gates attacks.
func (m *Machine) Update(e *model.Enemy, playerPos model.Vec2, dt float64) {
	prev := e.State
	arrived := false

	playerDist := e.Pos.Dist(playerPos)
	homeDist := e.Pos.Dist(e.Home)

	switch e.State {
	case model.StatePatrol:
		if playerDist <= e.AggroRange {
			e.State = model.StateAggro
		}
	case model.StateAggro:
		if playerDist > e.DisengageRange || homeDist > e.LeashRange {
			e.State = model.StateReturn
		}
	case model.StateReturn:
		if playerDist <= e.AggroRange {
			e.State = model.StateAggro
		} else if homeDist <= e.ReturnThreshold {
			e.State = model.StatePatrol
			// Kill momentum so the enemy doesn't overshoot home and
			// jitter across the threshold. Patrol motion resumes next
			// tick; this one ends at rest.
			e.Vel = model.Vec2{}
			arrived = true
		}
	}

	if prev != e.State && IsDebugEnabled() {
		slog.Debug("enemy state changed",
			"enemyID", e.ID,
			"archetype", e.Archetype.String(),
			"from", prev.String(),
			"to", e.State.String(),
			"playerDist", playerDist,
			"homeDist", homeDist)
	}

	if arrived {
		return
	}

	switch e.State {
	case model.StatePatrol:
		m.patrol(e, dt)
	case model.StateAggro:
		m.chase(e, playerPos, playerDist, dt)
	case model.StateReturn:
		m.returnHome(e)
	}

	e.Pos = e.Pos.Add(e.Vel.Scale(dt))
}

// chase steers toward the player with a perpendicular orbit bias and a
// smooth jitter term, producing strafing runs instead of head-on ramming.
func (m *Machine) chase(e *model.Enemy, playerPos model.Vec2, playerDist, dt float64) {
	dir := playerPos.Sub(e.Pos).Normalized()

	approach := 1.0
	if playerDist < backoffRadiusMult*e.Radius {
		approach = -1.0
	}

	orbitW := orbitBiasFar
	if playerDist <= e.AttackRange*orbitDistanceMult {
		orbitW = orbitBiasNear
	}

	e.JitterPhase += jitterRate * dt
	jitter := jitterWeight * math.Sin(e.JitterPhase)

	steer := dir.Scale(approach).Add(dir.Perp().Scale(e.OrbitDir*orbitW + jitter))
	speed := e.BaseSpeed * chaseSpeedFrac[e.Rank] * m.speedScale
	e.Vel = steer.Normalized().Scale(speed)

	m.tryFire(e, dir, playerDist, dt)
}

// returnHome steers straight home at the elevated return speed.
func (m *Machine) returnHome(e *model.Enemy) {
	speed := e.BaseSpeed * returnSpeedFrac[e.Rank] * m.speedScale
	e.Vel = e.Home.Sub(e.Pos).Normalized().Scale(speed)
}

// tryFire gates attacks: only in aggro state and within attack range.
// The reload picks up a random jitter so volleys desynchronize.
func (m *Machine) tryFire(e *model.Enemy, dir model.Vec2, playerDist, dt float64) {
	e.FireTimer -= dt
	if e.FireTimer > 0 {
		return
	}
	if playerDist > e.AttackRange {
		return
	}

	if m.fire != nil {
		m.fire(e, dir)
	}
	e.FireTimer = e.ShootInterval*m.fireIntervalMult + m.rng.Float64()*fireJitterMax
}
