package ai

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riftcore/internal/model"
)

func testRng() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func testEnemy(rng *rand.Rand) *model.Enemy {
	e := NewEnemy(1, nil, model.ArchStalker, model.RankBasic, model.Vec2{}, 5, 1.0, rng)
	// Pin the ladder from the reference scenario.
	e.AggroRange = 300
	e.AttackRange = 340
	e.DisengageRange = 495
	e.LeashRange = 660
	e.ReturnThreshold = 24
	return e
}

// Reference scenario: aggroRange=300, disengageRange=495, leashRange=660,
// home (0,0). Player at (250,0) aggros, at (700,0) disengages, and reaching
// home lands the enemy back in patrol at exact rest.
func TestMachine_AggroDisengageReturnCycle(t *testing.T) {
	rng := testRng()
	m := NewMachine(rng, 1.0, nil)
	e := testEnemy(rng)

	require.Equal(t, model.StatePatrol, e.State)

	// Player within aggro range.
	m.Update(e, model.Vec2{X: 250, Y: 0}, 1.0/60)
	assert.Equal(t, model.StateAggro, e.State)

	// Player beyond disengage range.
	m.Update(e, model.Vec2{X: 700, Y: 0}, 1.0/60)
	assert.Equal(t, model.StateReturn, e.State)

	// Travel home; return speed is a large fraction of 220 u/s, so a few
	// seconds of simulated ticks is plenty from ~4 units out.
	for i := 0; i < 60*20 && e.State == model.StateReturn; i++ {
		m.Update(e, model.Vec2{X: 700, Y: 0}, 1.0/60)
	}

	assert.Equal(t, model.StatePatrol, e.State)
	assert.Equal(t, model.Vec2{}, e.Vel, "velocity must be exactly zero on arrival")
	assert.LessOrEqual(t, e.Pos.Dist(e.Home), e.ReturnThreshold)
}

func TestMachine_LeashForcesDisengage(t *testing.T) {
	rng := testRng()
	m := NewMachine(rng, 1.0, nil)
	e := testEnemy(rng)

	// Player inside disengage range but enemy dragged past its leash.
	e.State = model.StateAggro
	e.Pos = model.Vec2{X: 661, Y: 0}
	m.Update(e, model.Vec2{X: 680, Y: 0}, 1.0/60)

	assert.Equal(t, model.StateReturn, e.State)
}

func TestMachine_ReturnReaggrosWhenPlayerCloses(t *testing.T) {
	rng := testRng()
	m := NewMachine(rng, 1.0, nil)
	e := testEnemy(rng)

	e.State = model.StateReturn
	e.Pos = model.Vec2{X: 200, Y: 0}
	m.Update(e, model.Vec2{X: 250, Y: 0}, 1.0/60)

	assert.Equal(t, model.StateAggro, e.State, "return → aggro when player re-enters aggro range")
}

func TestMachine_FireOnlyInAggroWithinAttackRange(t *testing.T) {
	rng := testRng()
	fired := 0
	m := NewMachine(rng, 1.0, func(e *model.Enemy, dir model.Vec2) { fired++ })
	e := testEnemy(rng)
	e.FireTimer = 0

	// Patrol state: never fires, even point blank.
	player := model.Vec2{X: 2000, Y: 0}
	for range 120 {
		m.Update(e, player, 1.0/60)
	}
	assert.Zero(t, fired)

	// Aggro but out of attack range: no shots.
	e.State = model.StateAggro
	e.Pos = model.Vec2{X: 0, Y: 0}
	e.FireTimer = 0
	m.Update(e, model.Vec2{X: 400, Y: 0}, 1.0/60)
	assert.Zero(t, fired)

	// Aggro and in range: fires and reloads above the base interval.
	m.Update(e, model.Vec2{X: 300, Y: 0}, 1.0/60)
	assert.Equal(t, 1, fired)
	assert.Greater(t, e.FireTimer, e.ShootInterval-0.001)

	// Immediately after firing the reload gate holds.
	m.Update(e, model.Vec2{X: 300, Y: 0}, 1.0/60)
	assert.Equal(t, 1, fired)
}

func TestMachine_PatrolShapesStayBounded(t *testing.T) {
	for _, shape := range []model.PatrolShape{
		model.ShapeCircle, model.ShapeLine, model.ShapeWander, model.ShapeStatic,
	} {
		t.Run(shape.String(), func(t *testing.T) {
			rng := testRng()
			m := NewMachine(rng, 1.0, nil)
			e := testEnemy(rng)
			e.PatrolShape = shape
			e.PatrolRadius = 120

			// Player parked far away: pure patrol for 30 simulated seconds.
			far := model.Vec2{X: 99999, Y: 99999}
			maxDist := 0.0
			for range 60 * 30 {
				m.Update(e, far, 1.0/60)
				if d := e.Pos.Dist(e.Home); d > maxDist {
					maxDist = d
				}
			}

			assert.Equal(t, model.StatePatrol, e.State)
			// Loose bound: radius plus steering slack.
			assert.Less(t, maxDist, e.PatrolRadius+40, "patrol drifted beyond its radius")
		})
	}
}

func TestMachine_AggroSteeringBacksOffPointBlank(t *testing.T) {
	rng := testRng()
	m := NewMachine(rng, 1.0, nil)
	e := testEnemy(rng)

	e.State = model.StateAggro
	e.Pos = model.Vec2{X: 10, Y: 0} // well inside 2.6 × radius(14)
	player := model.Vec2{}

	m.Update(e, player, 1.0/60)

	// Velocity must have a positive component away from the player.
	away := e.Pos.Sub(player).Normalized()
	dot := e.Vel.X*away.X + e.Vel.Y*away.Y
	assert.Positive(t, dot, "enemy should retreat when closer than the backoff distance")
}

func TestMachine_SwiftModifierScalesSpeed(t *testing.T) {
	rng := testRng()
	m := NewMachine(rng, 1.0, nil)
	e := testEnemy(rng)
	e.State = model.StateReturn
	e.Pos = model.Vec2{X: 500, Y: 0}

	m.Update(e, model.Vec2{X: 9999, Y: 0}, 0)
	base := e.Vel.Len()

	m.SetSpeedScale(1.4)
	m.Update(e, model.Vec2{X: 9999, Y: 0}, 0)
	assert.InDelta(t, base*1.4, e.Vel.Len(), 1e-9)
}
