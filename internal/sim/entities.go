package sim

import (
	"math"
	"math/rand/v2"

	"riftcore/internal/model"
)

// Transient entity lifetimes.
const (
	bulletTTL   = 3.0
	pickupTTL   = 45.0
	particleTTL = 1.2

	deathParticleCount = 12
	particleBurstSpeed = 140.0
)

// Bullet is a straight-line projectile. Damage resolution against the
// player happens outside the core; the simulation only integrates motion
// and expires lifetimes.
type Bullet struct {
	ID     uint32
	Pos    model.Vec2
	Vel    model.Vec2
	Damage float64
	TTL    float64
}

// Pickup is a loot drop left behind by a dead enemy.
type Pickup struct {
	ID  uint32
	Pos model.Vec2
	TTL float64
}

// Particle is a short-lived cosmetic entity. The core tracks them only so
// the population governor can bound their count.
type Particle struct {
	ID  uint32
	Pos model.Vec2
	Vel model.Vec2
	TTL float64
}

// advanceBullets integrates and expires a bullet list in place.
func advanceBullets(list []*Bullet, dt float64) []*Bullet {
	out := list[:0]
	for _, b := range list {
		b.TTL -= dt
		if b.TTL <= 0 {
			continue
		}
		b.Pos = b.Pos.Add(b.Vel.Scale(dt))
		out = append(out, b)
	}
	return out
}

// advanceParticles integrates and expires particles in place.
func advanceParticles(list []*Particle, dt float64) []*Particle {
	out := list[:0]
	for _, p := range list {
		p.TTL -= dt
		if p.TTL <= 0 {
			continue
		}
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		out = append(out, p)
	}
	return out
}

// expirePickups drops timed-out pickups in place.
func expirePickups(list []*Pickup, dt float64) []*Pickup {
	out := list[:0]
	for _, p := range list {
		p.TTL -= dt
		if p.TTL <= 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// randRing picks a uniformly random point on a circle of the given radius.
func randRing(rng *rand.Rand, radius float64) model.Vec2 {
	ang := rng.Float64() * 2 * math.Pi
	return model.Vec2{X: math.Cos(ang) * radius, Y: math.Sin(ang) * radius}
}

// burstParticles emits a radial particle burst at a point.
func burstParticles(ids *IDAllocator, rng *rand.Rand, at model.Vec2, n int) []*Particle {
	out := make([]*Particle, 0, n)
	for range n {
		ang := rng.Float64() * 2 * math.Pi
		speed := particleBurstSpeed * (0.5 + rng.Float64())
		out = append(out, &Particle{
			ID:  ids.NextParticleID(),
			Pos: at,
			Vel: model.Vec2{X: math.Cos(ang) * speed, Y: math.Sin(ang) * speed},
			TTL: particleTTL * (0.6 + rng.Float64()*0.8),
		})
	}
	return out
}
