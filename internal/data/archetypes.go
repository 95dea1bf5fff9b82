// Package data holds static enemy archetype definitions.
//
// Archetype tags coming from act configs are resolved here exactly once,
// at data-load time, into numeric stat blocks. Behavior code never performs
// string lookups per tick.
package data

import (
	"fmt"

	"riftcore/internal/model"
)

// Def is the resolved numeric stat block for one enemy archetype.
// All values are pre-scaling bases; level and rank scaling are applied at
// spawn time by the behavior package.
type Def struct {
	Archetype model.Archetype
	Rank      model.EnemyRank

	HP     float64
	Damage float64
	Speed  float64
	Radius float64

	PatrolShape  model.PatrolShape
	PatrolRadius float64

	AggroRange      float64
	AttackRange     float64
	DisengageRange  float64
	LeashRange      float64
	ReturnThreshold float64

	ShootInterval float64
	BulletSpeed   float64
}

var defs = map[model.Archetype]*Def{
	model.ArchStalker: {
		Archetype: model.ArchStalker, Rank: model.RankBasic,
		HP: 40, Damage: 6, Speed: 220, Radius: 14,
		PatrolShape: model.ShapeCircle, PatrolRadius: 120,
		AggroRange: 300, AttackRange: 340, DisengageRange: 495, LeashRange: 660,
		ReturnThreshold: 24,
		ShootInterval:   1.6, BulletSpeed: 360,
	},
	model.ArchSentinel: {
		Archetype: model.ArchSentinel, Rank: model.RankBasic,
		HP: 60, Damage: 9, Speed: 150, Radius: 18,
		PatrolShape: model.ShapeStatic, PatrolRadius: 30,
		AggroRange: 380, AttackRange: 440, DisengageRange: 560, LeashRange: 700,
		ReturnThreshold: 24,
		ShootInterval:   2.2, BulletSpeed: 300,
	},
	model.ArchSkirmisher: {
		Archetype: model.ArchSkirmisher, Rank: model.RankBasic,
		HP: 32, Damage: 5, Speed: 260, Radius: 12,
		PatrolShape: model.ShapeWander, PatrolRadius: 180,
		AggroRange: 280, AttackRange: 320, DisengageRange: 470, LeashRange: 640,
		ReturnThreshold: 24,
		ShootInterval:   1.2, BulletSpeed: 420,
	},
	model.ArchWarden: {
		Archetype: model.ArchWarden, Rank: model.RankElite,
		HP: 140, Damage: 14, Speed: 200, Radius: 20,
		PatrolShape: model.ShapeLine, PatrolRadius: 160,
		AggroRange: 360, AttackRange: 420, DisengageRange: 580, LeashRange: 760,
		ReturnThreshold: 28,
		ShootInterval:   1.4, BulletSpeed: 380,
	},
	model.ArchRiftmaw: {
		Archetype: model.ArchRiftmaw, Rank: model.RankBoss,
		HP: 900, Damage: 26, Speed: 190, Radius: 42,
		PatrolShape: model.ShapeCircle, PatrolRadius: 90,
		AggroRange: 520, AttackRange: 600, DisengageRange: 840, LeashRange: 1100,
		ReturnThreshold: 40,
		ShootInterval:   0.9, BulletSpeed: 340,
	},
}

var byName = map[string]model.Archetype{
	"stalker":    model.ArchStalker,
	"sentinel":   model.ArchSentinel,
	"skirmisher": model.ArchSkirmisher,
	"warden":     model.ArchWarden,
	"riftmaw":    model.ArchRiftmaw,
}

// Get returns the definition for an archetype, or nil when unknown.
func Get(a model.Archetype) *Def {
	return defs[a]
}

// ByName resolves a config-file archetype name to its tag.
// Called once at data-load time when act configs are parsed.
func ByName(name string) (model.Archetype, error) {
	a, ok := byName[name]
	if !ok {
		return model.ArchNone, fmt.Errorf("unknown enemy archetype %q", name)
	}
	return a, nil
}
