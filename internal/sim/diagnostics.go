package sim

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/quasilyte/gdata/v2"
)

// Storage keys for the persistent diagnostics sink.
const (
	diagObject    = "riftcore"
	diagDumpProp  = "last_invariant_dump"
	diagStatsProp = "run_stats"
)

// StateSnapshot is the surrounding-state portion of an invariant dump:
// just enough context to reconstruct what the simulation looked like when
// a critical value went non-finite.
type StateSnapshot struct {
	Depth        int     `json:"depth"`
	ZoneSeed     uint32  `json:"zoneSeed"`
	PlayerX      float64 `json:"playerX"`
	PlayerY      float64 `json:"playerY"`
	PlayerVelX   float64 `json:"playerVelX"`
	PlayerVelY   float64 `json:"playerVelY"`
	Enemies      int     `json:"enemies"`
	Bullets      int     `json:"bullets"`
	EnemyBullets int     `json:"enemyBullets"`
	Pickups      int     `json:"pickups"`
	Particles    int     `json:"particles"`
}

// InvariantDump is the structured record written when a fail-fast check
// trips.
type InvariantDump struct {
	Timestamp time.Time     `json:"timestamp"`
	Field     string        `json:"field"`
	Value     float64       `json:"value"`
	Snapshot  StateSnapshot `json:"snapshot"`
}

// RunStats is the persisted per-installation statistics record.
type RunStats struct {
	BossKills   int `json:"bossKills"`
	DeepestZone int `json:"deepestZone"`
}

// Diagnostics persists invariant dumps and run statistics to a local
// storage key and mirrors them to the log. A nil storage manager degrades
// to log-only operation; the simulation never depends on the sink working.
type Diagnostics struct {
	store *gdata.Manager

	lastDump *InvariantDump // retained for introspection and tests
}

// NewDiagnostics wraps a gdata manager (which may be nil).
func NewDiagnostics(store *gdata.Manager) *Diagnostics {
	return &Diagnostics{store: store}
}

// LastDump returns the most recent invariant dump, or nil.
func (d *Diagnostics) LastDump() *InvariantDump { return d.lastDump }

// DumpInvariant records a fail-fast trip: a human-readable log line plus a
// structured dump under a persistent local key.
func (d *Diagnostics) DumpInvariant(field string, value float64, snap StateSnapshot) {
	dump := &InvariantDump{
		Timestamp: time.Now().UTC(),
		Field:     field,
		Value:     value,
		Snapshot:  snap,
	}
	d.lastDump = dump

	slog.Error(fmt.Sprintf("simulation invariant violated: %s is non-finite, aborting tick", field),
		"field", field,
		"value", value,
		"depth", snap.Depth,
		"enemies", snap.Enemies)

	if d.store == nil {
		return
	}
	data, err := json.Marshal(dump)
	if err != nil {
		slog.Warn("marshaling invariant dump", "error", err)
		return
	}
	if err := d.store.SaveObjectProp(diagObject, diagDumpProp, data); err != nil {
		slog.Warn("persisting invariant dump", "error", err)
	}
}

// RecordBossKill bumps the persisted boss-kill statistic.
func (d *Diagnostics) RecordBossKill(depth int) {
	stats := d.loadStats()
	stats.BossKills++
	if depth > stats.DeepestZone {
		stats.DeepestZone = depth
	}
	d.saveStats(stats)

	slog.Info("boss kill recorded", "depth", depth, "totalBossKills", stats.BossKills)
}

func (d *Diagnostics) loadStats() RunStats {
	var stats RunStats
	if d.store == nil || !d.store.ObjectPropExists(diagObject, diagStatsProp) {
		return stats
	}
	data, err := d.store.LoadObjectProp(diagObject, diagStatsProp)
	if err != nil {
		slog.Warn("loading run stats", "error", err)
		return stats
	}
	if err := json.Unmarshal(data, &stats); err != nil {
		slog.Warn("unmarshaling run stats", "error", err)
	}
	return stats
}

func (d *Diagnostics) saveStats(stats RunStats) {
	if d.store == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		slog.Warn("marshaling run stats", "error", err)
		return
	}
	if err := d.store.SaveObjectProp(diagObject, diagStatsProp, data); err != nil {
		slog.Warn("persisting run stats", "error", err)
	}
}
