package gen

import (
	"fmt"
	"math"
	"math/rand/v2"

	"riftcore/internal/config"
	"riftcore/internal/model"
)

// ProcGen is the default zone generator. All randomness comes from a PCG
// stream seeded by the zone seed, so descriptors are a pure function of
// (act, zoneSeed, params).
type ProcGen struct {
	mapScale         float64
	enemyDensity     float64
	eliteDensity     float64
	spawnMinDistance float64
	maxEnemySpawns   int
	maxEliteSpawns   int
}

// NewProcGen builds a generator from the exploration config.
func NewProcGen(cfg *config.Exploration) *ProcGen {
	return &ProcGen{
		mapScale:         cfg.MapScale,
		enemyDensity:     cfg.EnemyDensity,
		eliteDensity:     cfg.EliteDensity,
		spawnMinDistance: cfg.SpawnMinDistance,
		maxEnemySpawns:   cfg.MaxEnemySpawns,
		maxEliteSpawns:   cfg.MaxEliteSpawns,
	}
}

// Generate produces a regular zone descriptor.
func (g *ProcGen) Generate(act *config.Act, zoneSeed uint32, p Params) (*model.ZoneDescriptor, error) {
	return g.generate(act, zoneSeed, p, false)
}

// GenerateBoss produces a boss zone: exactly one boss spawn point, a thin
// regular population, and no static exit.
func (g *ProcGen) GenerateBoss(act *config.Act, zoneSeed uint32, p Params) (*model.ZoneDescriptor, error) {
	return g.generate(act, zoneSeed, p, true)
}

func (g *ProcGen) generate(act *config.Act, zoneSeed uint32, p Params, boss bool) (*model.ZoneDescriptor, error) {
	if act == nil {
		return nil, fmt.Errorf("generate: nil act config")
	}
	if len(act.EnemyPool) == 0 {
		return nil, fmt.Errorf("generate: act %s has no enemy archetypes", act.ID)
	}

	rng := rand.New(rand.NewPCG(uint64(zoneSeed), uint64(zoneSeed)*0x9e3779b97f4a7c15+1))

	z := &model.ZoneDescriptor{
		Width:     act.Width * g.mapScale,
		Height:    act.Height * g.mapScale,
		Depth:     p.Depth,
		Seed:      zoneSeed,
		Modifiers: p.Modifiers,
	}

	// Player enters in the left third, vertically centered-ish.
	z.PlayerSpawn = model.Vec2{
		X: z.Width * (0.08 + rng.Float64()*0.10),
		Y: z.Height * (0.35 + rng.Float64()*0.30),
	}

	var nextID uint32 = 1
	takeID := func() uint32 { id := nextID; nextID++; return id }

	// Spawn count grows with depth, scaled by density and modifiers.
	enemyCount := g.spawnCount(6+p.Depth/2, g.enemyDensity, g.maxEnemySpawns, p.Modifiers)
	eliteCount := g.spawnCount(1+p.Depth/4, g.eliteDensity, g.maxEliteSpawns, p.Modifiers)
	if boss {
		enemyCount /= 2
		eliteCount = min(eliteCount, 2)
	}

	placed := []model.Vec2{z.PlayerSpawn}
	place := func() (model.Vec2, bool) {
		// Rejection sampling with a bounded attempt budget; the zone is
		// large relative to the spawn count, so exhaustion only happens
		// on pathological configs and is not an error.
		for range 40 {
			pos := model.Vec2{
				X: 60 + rng.Float64()*(z.Width-120),
				Y: 60 + rng.Float64()*(z.Height-120),
			}
			ok := true
			for _, q := range placed {
				if pos.Dist(q) < g.spawnMinDistance {
					ok = false
					break
				}
			}
			if ok {
				placed = append(placed, pos)
				return pos, true
			}
		}
		return model.Vec2{}, false
	}

	for range enemyCount {
		pos, ok := place()
		if !ok {
			break
		}
		arch := act.EnemyPool[rng.IntN(len(act.EnemyPool))]
		z.EnemySpawns = append(z.EnemySpawns, &model.SpawnPoint{
			ID:        takeID(),
			Pos:       pos,
			Archetype: arch,
			Rank:      model.RankBasic,
		})
	}

	elitePool := act.ElitePool
	if len(elitePool) == 0 {
		elitePool = act.EnemyPool
	}
	for range eliteCount {
		pos, ok := place()
		if !ok {
			break
		}
		arch := elitePool[rng.IntN(len(elitePool))]
		z.EliteSpawns = append(z.EliteSpawns, &model.SpawnPoint{
			ID:        takeID(),
			Pos:       pos,
			Archetype: arch,
			Rank:      model.RankElite,
		})
	}

	if boss {
		// Boss holds the far focus of the zone, opposite the player.
		z.BossSpawn = &model.SpawnPoint{
			ID:        takeID(),
			Pos:       model.Vec2{X: z.Width * 0.85, Y: z.Height * (0.4 + rng.Float64()*0.2)},
			Archetype: act.Boss,
			Rank:      model.RankBoss,
		}
	} else {
		// Exit sits in the far half, away from the player spawn.
		exit := model.Vec2{
			X: z.Width * (0.70 + rng.Float64()*0.22),
			Y: z.Height * (0.15 + rng.Float64()*0.70),
		}
		z.Exit = &exit
	}

	g.layout(rng, z)
	return z, nil
}

// spawnCount applies density multipliers and caps to a depth-scaled base.
func (g *ProcGen) spawnCount(base int, density float64, limit int, mods model.ModifierSet) int {
	n := float64(base) * density
	if mods.Has(model.ModDenseSpawns) {
		n *= 1.5
	}
	count := int(math.Round(n))
	if count > limit {
		count = limit
	}
	if count < 0 {
		count = 0
	}
	return count
}

// layout emits the opaque obstacle and decoration set. The core never
// inspects these; they exist for external consumers of the descriptor.
func (g *ProcGen) layout(rng *rand.Rand, z *model.ZoneDescriptor) {
	obstacles := 8 + rng.IntN(8)
	for range obstacles {
		w := 40 + rng.Float64()*160
		h := 40 + rng.Float64()*160
		x := rng.Float64() * (z.Width - w)
		y := rng.Float64() * (z.Height - h)
		z.Obstacles = append(z.Obstacles, model.Rect{
			Min: model.Vec2{X: x, Y: y},
			Max: model.Vec2{X: x + w, Y: y + h},
		})
	}

	decorations := 30 + rng.IntN(30)
	if z.Modifiers.Has(model.ModHeavyFog) {
		decorations /= 2
	}
	for range decorations {
		z.Decorations = append(z.Decorations, model.Vec2{
			X: rng.Float64() * z.Width,
			Y: rng.Float64() * z.Height,
		})
	}
}
