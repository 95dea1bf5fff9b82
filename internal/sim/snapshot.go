package sim

// Snapshot is the read-only state view broadcast to observers. It is a
// value copy taken between ticks; observers never hold references into the
// live arenas.
type Snapshot struct {
	Act       string   `json:"act"`
	Depth     int      `json:"depth"`
	ZoneSeed  uint32   `json:"zoneSeed"`
	Modifiers []string `json:"modifiers"`

	Player  PlayerView  `json:"player"`
	Enemies []EnemyView `json:"enemies"`

	Bullets      int `json:"bullets"`
	EnemyBullets int `json:"enemyBullets"`
	Pickups      int `json:"pickups"`
	Particles    int `json:"particles"`
	EnemyKills   int `json:"enemyKills"`
}

// PlayerView is the player portion of a snapshot.
type PlayerView struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Level int     `json:"level"`
}

// EnemyView is one live enemy in a snapshot.
type EnemyView struct {
	ID        uint32  `json:"id"`
	Archetype string  `json:"archetype"`
	Rank      string  `json:"rank"`
	State     string  `json:"state"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	HP        float64 `json:"hp"`
	MaxHP     float64 `json:"maxHp"`
	Level     int     `json:"level"`
}

// Snapshot captures the current simulation state for broadcast.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Player: PlayerView{
			X:     s.player.Pos.X,
			Y:     s.player.Pos.Y,
			Level: s.player.Level,
		},
		Bullets:      len(s.bullets),
		EnemyBullets: len(s.enemyBullets),
		Pickups:      len(s.pickups),
		Particles:    len(s.particles),
		EnemyKills:   s.enemyKills,
	}
	if s.act != nil {
		snap.Act = s.act.ID
	}
	if s.zone != nil {
		snap.Depth = s.zone.Depth
		snap.ZoneSeed = s.zone.Seed
		snap.Modifiers = s.zone.Modifiers.Names()
	}
	snap.Enemies = make([]EnemyView, 0, len(s.enemies))
	for _, e := range s.enemies {
		snap.Enemies = append(snap.Enemies, EnemyView{
			ID:        e.ID,
			Archetype: e.Archetype.String(),
			Rank:      e.Rank.String(),
			State:     e.State.String(),
			X:         e.Pos.X,
			Y:         e.Pos.Y,
			HP:        e.HP,
			MaxHP:     e.MaxHP,
			Level:     e.Level,
		})
	}
	return snap
}
