package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/quasilyte/gdata/v2"
	"golang.org/x/sync/errgroup"

	"riftcore/internal/ai"
	"riftcore/internal/config"
	"riftcore/internal/gen"
	"riftcore/internal/model"
	"riftcore/internal/observer"
	"riftcore/internal/sim"
)

const (
	ExplorationConfigPath = "config/exploration.yaml"
	ActsConfigPath        = "config/acts.yaml"

	DefaultAct = "rift"

	tickRate      = 60
	broadcastRate = 10

	viewWidth  = 1280.0
	viewHeight = 720.0

	// playerSpeed drives the built-in autopilot that walks the player
	// toward the zone objective when no external controller is attached.
	playerSpeed = 260.0

	// Autopilot combat stand-in. Boss zones need kills to progress, so the
	// autopilot applies steady damage to the nearest enemy in range.
	playerAttackRange = 420.0
	playerDPS         = 120.0
	playerBulletSpeed = 520.0
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load configs FIRST to determine log level
	cfgPath := ExplorationConfigPath
	if p := os.Getenv("RIFTCORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadExploration(cfgPath)
	if err != nil {
		return fmt.Errorf("loading exploration config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Enable AI debug logging if log level is debug
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("riftcore simulation starting", "log_level", cfg.LogLevel)

	actsPath := ActsConfigPath
	if p := os.Getenv("RIFTCORE_ACTS"); p != "" {
		actsPath = p
	}
	acts, err := config.LoadActs(actsPath)
	if err != nil {
		return fmt.Errorf("loading acts config: %w", err)
	}

	actID := DefaultAct
	if a := os.Getenv("RIFTCORE_ACT"); a != "" {
		actID = a
	}

	// Persistent diagnostics sink. A missing storage backend degrades to
	// log-only diagnostics rather than blocking the run.
	store, err := gdata.Open(gdata.Config{AppName: "riftcore"})
	if err != nil {
		slog.Warn("diagnostics storage unavailable, running log-only", "error", err)
		store = nil
	}
	diag := sim.NewDiagnostics(store)

	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	s := sim.New(&cfg, acts, gen.NewProcGen(&cfg), diag, rng)
	s.SetHubReturn(func() {
		slog.Info("hub return requested, restarting act", "act", actID)
		s.Init(actID)
	})

	if !s.Init(actID) {
		return fmt.Errorf("initializing act %q", actID)
	}

	hub := observer.NewHub()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Observer.Enabled {
		g.Go(func() error {
			if err := hub.Serve(gctx, cfg.Observer.Addr); err != nil {
				return fmt.Errorf("observer feed: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		slog.Info("starting simulation loop", "tickRate", tickRate)
		return runLoop(gctx, s, hub, cfg.Observer.Enabled)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation error: %w", err)
	}
	return nil
}

// runLoop drives the fixed-rate tick and the snapshot broadcast.
func runLoop(ctx context.Context, s *sim.Simulation, hub *observer.Hub, broadcast bool) error {
	dt := 1.0 / float64(tickRate)
	ticker := time.NewTicker(time.Second / tickRate)
	defer ticker.Stop()

	broadcastEvery := tickRate / broadcastRate
	tick := 0

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation loop stopped",
				"zoneIndex", s.ZoneIndex(),
				"enemyKills", s.EnemyKills())
			return nil
		case <-ticker.C:
			autopilot(s, dt)
			s.Update(dt, viewWidth, viewHeight)

			tick++
			if broadcast && tick%broadcastEvery == 0 && hub.SubscriberCount() > 0 {
				hub.Broadcast(s.Snapshot())
			}
		}
	}
}

// autopilot walks the player toward the zone objective: the exit when one
// exists, otherwise the boss, otherwise the first portal (taken as soon as
// it is reachable). It stands in for an external input controller.
func autopilot(s *sim.Simulation, dt float64) {
	z := s.Zone()
	if z == nil {
		return
	}

	if p := s.ActivePortal(); p != nil {
		s.InteractPortal(false)
		return
	}

	var target model.Vec2
	switch {
	case z.Exit != nil:
		target = *z.Exit
	case z.BossSpawn != nil && !z.BossSpawn.Killed():
		target = z.BossSpawn.Pos
	case len(z.Portals) > 0:
		target = z.Portals[0].Pos
	default:
		return
	}

	player := s.Player()
	dir := target.Sub(player.Pos).Normalized()
	player.Vel = dir.Scale(playerSpeed)
	player.Pos = player.Pos.Add(player.Vel.Scale(dt))
	s.Camera().SnapTo(player.Pos, viewWidth, viewHeight)

	autoAttack(s, dt)
}

// autoAttack damages the nearest enemy within range and emits a matching
// tracer bullet so the observer feed shows the fight.
func autoAttack(s *sim.Simulation, dt float64) {
	player := s.Player()

	var nearest *model.Enemy
	nearestDist := playerAttackRange
	for _, e := range s.Enemies() {
		if d := e.Pos.Dist(player.Pos); d <= nearestDist {
			nearest = e
			nearestDist = d
		}
	}
	if nearest == nil {
		return
	}

	dir := nearest.Pos.Sub(player.Pos).Normalized()
	s.AddPlayerBullet(player.Pos, dir.Scale(playerBulletSpeed), playerDPS*dt)
	s.ApplyDamage(nearest.ID, playerDPS*dt)
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
