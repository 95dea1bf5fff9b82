package ai

import (
	"log/slog"
	"math"
	"math/rand/v2"

	"riftcore/internal/data"
	"riftcore/internal/model"
)

// Level/stat scaling constants.
const (
	// statBase is the exponential stat growth base: a stat at level L is
	// base stat × statBase^(L-1).
	statBase = 1.12

	// Regular enemies spawn below the player's level by one plus a random
	// deduction in [0, regularLevelDeduction], floored at 1.
	regularLevelDeduction = 2

	// Bosses spawn above the player's level by a random bonus in
	// [bossLevelBonusMin, bossLevelBonusMax].
	bossLevelBonusMin = 1
	bossLevelBonusMax = 3
)

// Rank multipliers applied to archetype base HP/damage before level scaling.
var (
	rankHPMult     = [3]float64{1.0, 1.6, 1.0} // boss bases already carry boss HP
	rankDamageMult = [3]float64{1.0, 1.3, 1.0}
)

// NewEnemy performs spawn-time initialization, shared by regular, elite,
// boss, and wave spawn paths. sp is nil for wave-mode spawns.
//
// Ranges come from spawn-point overrides or archetype defaults scaled by
// the global aggro-range multiplier, then clamped into ascending order —
// a descending ladder is a configuration error, corrected defensively
// rather than surfaced at runtime.
func NewEnemy(id uint32, sp *model.SpawnPoint, arch model.Archetype, rank model.EnemyRank,
	pos model.Vec2, playerLevel int, aggroMult float64, rng *rand.Rand) *model.Enemy {

	def := data.Get(arch)
	if def == nil {
		// Unknown archetype should have been rejected at data-load time.
		slog.Warn("spawning enemy with unresolved archetype, using stalker stats",
			"archetype", arch.String())
		def = data.Get(model.ArchStalker)
	}
	if aggroMult <= 0 {
		aggroMult = 1.0
	}

	e := &model.Enemy{
		ID:        id,
		Archetype: arch,
		Rank:      rank,
		Pos:       pos,
		Home:      pos,
		Radius:    def.Radius,
		State:     model.StatePatrol,
		BaseSpeed: def.Speed,

		PatrolShape:  def.PatrolShape,
		PatrolRadius: def.PatrolRadius,

		AggroRange:      def.AggroRange * aggroMult,
		AttackRange:     def.AttackRange * aggroMult,
		DisengageRange:  def.DisengageRange * aggroMult,
		LeashRange:      def.LeashRange * aggroMult,
		ReturnThreshold: def.ReturnThreshold,

		ShootInterval: def.ShootInterval,
		BulletSpeed:   def.BulletSpeed,
	}

	if sp != nil {
		e.SpawnPointID = sp.ID
		if sp.PatrolShape != model.ShapeDefault {
			e.PatrolShape = sp.PatrolShape
		}
		if sp.PatrolRadius > 0 {
			e.PatrolRadius = sp.PatrolRadius
		}
		if sp.AggroRange > 0 {
			e.AggroRange = sp.AggroRange * aggroMult
		}
	}

	// Defensive ascending clamp: aggro ≤ attack, aggro ≤ disengage ≤ leash.
	e.AttackRange = math.Max(e.AttackRange, e.AggroRange)
	e.DisengageRange = math.Max(e.DisengageRange, e.AggroRange)
	e.LeashRange = math.Max(e.LeashRange, e.DisengageRange)

	// Randomize patrol phase and directions so simultaneous spawns don't
	// move in lockstep.
	e.PatrolPhase = rng.Float64() * 2 * math.Pi
	e.PatrolDir = pickSign(rng)
	e.OrbitDir = pickSign(rng)
	e.JitterPhase = rng.Float64() * 2 * math.Pi
	ang := rng.Float64() * 2 * math.Pi
	e.PatrolAxis = model.Vec2{X: math.Cos(ang), Y: math.Sin(ang)}
	e.WanderTarget = pos
	// First shot waits a partial interval so a pack doesn't volley at once.
	e.FireTimer = rng.Float64() * e.ShootInterval

	// Level selection by rank, then exponential stat scaling.
	e.Level = rollLevel(rank, playerLevel, rng)
	scale := math.Pow(statBase, float64(e.Level-1))
	e.MaxHP = def.HP * rankHPMult[rank] * scale
	e.HP = e.MaxHP
	e.Damage = def.Damage * rankDamageMult[rank] * scale

	return e
}

// rollLevel picks the spawn level: elites match the player, regulars trail
// by one plus a small random deduction (floored at 1), bosses exceed the
// player by a small random bonus.
func rollLevel(rank model.EnemyRank, playerLevel int, rng *rand.Rand) int {
	switch rank {
	case model.RankElite:
		return max(playerLevel, 1)
	case model.RankBoss:
		return playerLevel + bossLevelBonusMin + rng.IntN(bossLevelBonusMax-bossLevelBonusMin+1)
	default:
		return max(playerLevel-1-rng.IntN(regularLevelDeduction+1), 1)
	}
}

func pickSign(rng *rand.Rand) float64 {
	if rng.IntN(2) == 0 {
		return -1
	}
	return 1
}
