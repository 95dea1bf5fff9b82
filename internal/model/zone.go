package model

// Portal destination tags. Any other value is treated as an act identifier
// and re-initializes the world from scratch.
const (
	DestNext = "next"
	DestHub  = "hub"
)

// Portal teleports the player on explicit interaction. Portals are created
// by zone generation or synthesized at runtime (boss victory portal).
type Portal struct {
	Pos      Vec2
	Dest     string
	AllowHub bool // portal offers a hub-return branch via modifier action
}

// Modifier is a gameplay-affecting zone flag sampled per depth.
type Modifier uint8

const (
	ModDenseSpawns Modifier = 1 << iota // more spawn points
	ModSwiftEnemies                     // enemy speed scaled up
	ModHeavyFog                         // reduced decoration density
	ModVolatile                         // shorter enemy fire intervals
)

// ModifierSet is a bitset of zone modifiers.
type ModifierSet uint8

// Has reports whether the set contains m.
func (s ModifierSet) Has(m Modifier) bool { return s&ModifierSet(m) != 0 }

// With returns the set with m added.
func (s ModifierSet) With(m Modifier) ModifierSet { return s | ModifierSet(m) }

// Names returns the contained modifier names, for snapshots and logs.
func (s ModifierSet) Names() []string {
	var out []string
	for _, m := range []struct {
		flag Modifier
		name string
	}{
		{ModDenseSpawns, "dense-spawns"},
		{ModSwiftEnemies, "swift-enemies"},
		{ModHeavyFog, "heavy-fog"},
		{ModVolatile, "volatile"},
	} {
		if s.Has(m.flag) {
			out = append(out, m.name)
		}
	}
	return out
}

// Rect is an opaque obstacle footprint. The simulation core never inspects
// obstacle contents; they pass through to external consumers untouched.
type Rect struct {
	Min Vec2
	Max Vec2
}

// ZoneDescriptor is the generated layout of one zone. It is created once
// per zone load, owned exclusively by the zone lifecycle controller, and
// discarded — together with all runtime state derived from it — at the
// next load.
type ZoneDescriptor struct {
	Width  float64
	Height float64
	Depth  int // 1-based ordinal, = zone index + 1
	Seed   uint32

	PlayerSpawn Vec2

	EnemySpawns []*SpawnPoint
	EliteSpawns []*SpawnPoint
	BossSpawn   *SpawnPoint // at most one
	Exit        *Vec2       // at most one; nil in boss zones

	// Portals is mutable at runtime (boss defeat synthesizes one).
	Portals []*Portal

	// Opaque static layout.
	Obstacles   []Rect
	Decorations []Vec2

	Modifiers ModifierSet
}

// Center returns the geometric center of the zone.
func (z *ZoneDescriptor) Center() Vec2 {
	return Vec2{z.Width / 2, z.Height / 2}
}
