package model

// EnemyRank tiers enemies by threat. Rank drives speed fractions, level
// selection, and spawn/despawn margins (bosses use a wider spawn margin).
type EnemyRank uint8

const (
	RankBasic EnemyRank = iota
	RankElite
	RankBoss
)

// String returns the rank name for logs and snapshots.
func (r EnemyRank) String() string {
	switch r {
	case RankElite:
		return "elite"
	case RankBoss:
		return "boss"
	default:
		return "basic"
	}
}

// Archetype is a closed enemy type tag. Archetypes are resolved once at
// data-load time into a numeric stat block (data.Def), never looked up by
// string on a hot path.
type Archetype uint8

const (
	ArchNone Archetype = iota
	ArchStalker
	ArchSentinel
	ArchSkirmisher
	ArchWarden
	ArchRiftmaw // boss archetype
)

// String returns the archetype name used in act configs and snapshots.
func (a Archetype) String() string {
	switch a {
	case ArchStalker:
		return "stalker"
	case ArchSentinel:
		return "sentinel"
	case ArchSkirmisher:
		return "skirmisher"
	case ArchWarden:
		return "warden"
	case ArchRiftmaw:
		return "riftmaw"
	default:
		return "none"
	}
}

// BehaviorState is the per-enemy behavior machine state.
// Cycle: patrol → aggro → return → patrol. Death is external to the machine.
type BehaviorState uint8

const (
	StatePatrol BehaviorState = iota
	StateAggro
	StateReturn
)

// String returns the state name for logs and snapshots.
func (s BehaviorState) String() string {
	switch s {
	case StateAggro:
		return "aggro"
	case StateReturn:
		return "return"
	default:
		return "patrol"
	}
}

// PatrolShape selects the patrol-state motion pattern, fixed at spawn.
type PatrolShape uint8

const (
	ShapeDefault PatrolShape = iota // resolve from archetype at spawn
	ShapeCircle
	ShapeLine
	ShapeWander
	ShapeStatic
)

// String returns the shape name used in configs and logs.
func (p PatrolShape) String() string {
	switch p {
	case ShapeCircle:
		return "circle"
	case ShapeLine:
		return "line"
	case ShapeWander:
		return "wander"
	case ShapeStatic:
		return "static"
	default:
		return "default"
	}
}

// Enemy is a transient simulation entity. Enemies live in the simulation's
// enemy arena and reference their originating spawn point by opaque ID
// (zero for wave-mode spawns), never by pointer.
//
// Owned by the single simulation goroutine; no field needs synchronization.
type Enemy struct {
	ID           uint32
	SpawnPointID uint32 // 0 — wave spawn, no originating point

	Archetype Archetype
	Rank      EnemyRank
	Level     int

	Pos    Vec2
	Vel    Vec2
	Radius float64

	HP     float64
	MaxHP  float64
	Damage float64

	// Behavior machine state.
	State BehaviorState
	Home  Vec2 // spawn position, leash anchor

	// Distance thresholds, ascending: aggro ≤ attack, aggro ≤ disengage ≤ leash.
	AggroRange      float64
	AttackRange     float64
	DisengageRange  float64
	LeashRange      float64
	ReturnThreshold float64

	// Patrol parameters.
	PatrolShape  PatrolShape
	PatrolRadius float64
	PatrolPhase  float64
	PatrolDir    float64 // +1 or -1, persists for circle orbits
	PatrolAxis   Vec2    // line shape travel axis
	WanderTarget Vec2
	WanderTimer  float64

	// Aggro steering.
	OrbitDir    float64 // strafe direction, +1 or -1
	JitterPhase float64

	// Attack gating.
	ShootInterval float64
	FireTimer     float64
	BulletSpeed   float64

	BaseSpeed float64
}

// Alive reports whether the enemy still has health.
func (e *Enemy) Alive() bool { return e.HP > 0 }
