// Package gen defines the zone generation contract and the default
// deterministic generator behind it.
//
// The simulation core treats generated descriptors as opaque except for the
// fields it owns (spawn points, exit, portals, dimensions); obstacle and
// decoration layout passes through uninspected.
package gen

import (
	"math/rand/v2"

	"riftcore/internal/config"
	"riftcore/internal/model"
)

// Params carries the per-zone generation inputs beyond the seed.
type Params struct {
	Depth     int
	Modifiers model.ModifierSet
}

// Generator produces zone descriptors. Implementations must be pure
// functions of (act, zoneSeed, params): the same inputs always yield an
// identical descriptor, which is what makes runs reproducible end to end.
type Generator interface {
	Generate(act *config.Act, zoneSeed uint32, p Params) (*model.ZoneDescriptor, error)

	// GenerateBoss is the boss-zone variant. It guarantees exactly one
	// boss spawn point and no static exit (the exit portal is synthesized
	// on boss defeat).
	GenerateBoss(act *config.Act, zoneSeed uint32, p Params) (*model.ZoneDescriptor, error)
}

// SampleModifiers rolls the gameplay modifier set for a depth. Pure in
// (zoneSeed, depth); the lifecycle controller calls this before Generate
// and passes the result through Params.
//
// Modifier pressure grows with depth: shallow zones are mostly clean,
// deep zones almost always carry at least one flag.
func SampleModifiers(zoneSeed uint32, depth int) model.ModifierSet {
	rng := rand.New(rand.NewPCG(uint64(zoneSeed)^0xa5a5a5a5, uint64(depth)))

	chance := 0.10 + float64(depth)*0.02
	if chance > 0.55 {
		chance = 0.55
	}

	var set model.ModifierSet
	for _, m := range []model.Modifier{
		model.ModDenseSpawns,
		model.ModSwiftEnemies,
		model.ModHeavyFog,
		model.ModVolatile,
	} {
		if rng.Float64() < chance {
			set = set.With(m)
		}
	}
	return set
}
