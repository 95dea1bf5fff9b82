package ai

import (
	"math"

	"riftcore/internal/model"
)

// patrol applies the motion pattern selected at spawn. All four shapes are
// position-target steering: compute where the enemy should be heading and
// point the velocity there at patrol speed.
func (m *Machine) patrol(e *model.Enemy, dt float64) {
	speed := e.BaseSpeed * patrolSpeedFrac[e.Rank] * m.speedScale

	var target model.Vec2
	switch e.PatrolShape {
	case model.ShapeCircle:
		// Angular orbit around home; direction persists across ticks.
		e.PatrolPhase += e.PatrolDir * circleAngularRate * dt
		target = e.Home.Add(model.Vec2{
			X: math.Cos(e.PatrolPhase) * e.PatrolRadius,
			Y: math.Sin(e.PatrolPhase) * e.PatrolRadius,
		})

	case model.ShapeLine:
		// Sinusoidal back-and-forth along a fixed axis through home.
		e.PatrolPhase += lineRate * dt
		offset := math.Sin(e.PatrolPhase) * e.PatrolRadius
		target = e.Home.Add(e.PatrolAxis.Scale(offset))

	case model.ShapeWander:
		// Re-roll a random target within the patrol radius, held until
		// reached or the hold timer expires.
		e.WanderTimer -= dt
		if e.WanderTimer <= 0 || e.Pos.Dist(e.WanderTarget) <= wanderReachDist {
			ang := m.rng.Float64() * 2 * math.Pi
			r := m.rng.Float64() * e.PatrolRadius
			e.WanderTarget = e.Home.Add(model.Vec2{
				X: math.Cos(ang) * r,
				Y: math.Sin(ang) * r,
			})
			e.WanderTimer = 2.0 + m.rng.Float64()*3.0
		}
		target = e.WanderTarget

	case model.ShapeStatic:
		// Small bounded hover around home, zero net drift.
		e.PatrolPhase += lineRate * dt
		target = e.Home.Add(model.Vec2{
			X: math.Cos(e.PatrolPhase) * staticHoverRadius,
			Y: math.Sin(e.PatrolPhase*0.7) * staticHoverRadius,
		})
		speed *= 0.5

	default:
		target = e.Home
	}

	to := target.Sub(e.Pos)
	if to.Len() < 1.0 {
		e.Vel = model.Vec2{}
		return
	}
	e.Vel = to.Normalized().Scale(speed)
}
