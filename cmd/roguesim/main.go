// Command roguesim plays headless runs with the autopilot, records them as
// replays, and verifies recorded replays.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/l1jgo/roguesim/internal/autopilot"
	"github.com/l1jgo/roguesim/internal/config"
	"github.com/l1jgo/roguesim/internal/core/event"
	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/meta"
	"github.com/l1jgo/roguesim/internal/persist"
	"github.com/l1jgo/roguesim/internal/replay"
	"github.com/l1jgo/roguesim/internal/scripting"
	"github.com/l1jgo/roguesim/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

var out = message.NewPrinter(language.English)

func printSection(title string) {
	lineLen := max(3, 46-utf8.RuneCountInString(title)-1)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, value any) {
	s := out.Sprint(value)
	dotsLen := max(3, 42-utf8.RuneCountInString(label)-len(s))
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), s)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

type options struct {
	chapter  int
	hero     string
	seed     int64
	record   string
	verify   string
	content  string
	profile  string
	realtime bool
}

func parseFlags(cfg *config.Config) options {
	var o options
	flag.IntVar(&o.chapter, "chapter", cfg.Run.Chapter, "chapter to play")
	flag.StringVar(&o.hero, "hero", cfg.Run.Hero, "hero to play")
	flag.Int64Var(&o.seed, "seed", cfg.Run.Seed, "run seed (0 = clock)")
	flag.StringVar(&o.record, "record", "", "write the replay to this file (default: run.replay_path)")
	flag.StringVar(&o.verify, "verify", "", "re-simulate a replay file and check its checksum")
	flag.StringVar(&o.content, "content", "", "load content YAML from this directory instead of the embedded set")
	flag.StringVar(&o.profile, "profile", cfg.Run.Profile, "meta profile id whose upgrades apply and who earns the coins")
	flag.BoolVar(&o.realtime, "realtime", false, "pace the run at wall-clock speed")
	flag.Parse()
	if o.seed == 0 {
		o.seed = time.Now().UnixNano()
	}
	return o
}

func run() error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	opts := parseFlags(cfg)

	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	content := data.Default()
	if opts.content != "" {
		if content, err = data.LoadDir(opts.content); err != nil {
			return fmt.Errorf("load content: %w", err)
		}
	}

	if opts.verify != "" {
		return verify(opts.verify, content, log)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	engine, err := scripting.NewEngine(cfg.Scripting.OverrideDir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer engine.Close()

	store, closeStore, err := openStore(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer closeStore()
	svc := meta.NewService(store, content, engine, log)

	hero, err := data.ParseHeroID(opts.hero)
	if err != nil {
		return fmt.Errorf("hero: %w", err)
	}
	wcfg := world.Config{Chapter: opts.chapter, Hero: hero, Seed: opts.seed}

	var profileID uuid.UUID
	if opts.profile != "" {
		if profileID, err = uuid.Parse(opts.profile); err != nil {
			return fmt.Errorf("profile id: %w", err)
		}
		prof, err := svc.Profile(ctx, profileID)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		wcfg.Bonuses = svc.Bonuses(prof)
	}

	h, err := replay.NewHeader(content, wcfg, cfg.Simulation.FixedStep, cfg.Simulation.ViewWidth, cfg.Simulation.ViewHeight)
	if err != nil {
		return fmt.Errorf("replay header: %w", err)
	}

	w := world.New(content, wcfg)
	subscribe(w, log)
	log.Info("run started",
		zap.Int("chapter", w.ChapterID),
		zap.Stringer("hero", hero),
		zap.Int64("seed", opts.seed),
		zap.Int("rooms", w.TotalRooms))

	rec := replay.NewRecorder(h)
	play(ctx, w, rec, cfg, opts.realtime)

	f, err := rec.Finish(w)
	if err != nil {
		return fmt.Errorf("finish replay: %w", err)
	}
	path := opts.record
	if path == "" {
		path = cfg.Run.ReplayPath
	}
	if path != "" {
		if err := replay.SaveFile(path, f); err != nil {
			return fmt.Errorf("save replay: %w", err)
		}
		log.Info("replay saved", zap.String("path", path), zap.Int("frames", len(f.Frames)))
	}

	summarize(w, f)

	if profileID != uuid.Nil {
		prof, err := svc.RecordRunEnd(ctx, &meta.RunRecord{
			ProfileID: profileID,
			Chapter:   w.ChapterID,
			Hero:      hero,
			Victory:   w.Victory,
			Kills:     w.Kills,
			Coins:     w.Player.Coins,
			Level:     w.Player.Level,
			RunTime:   w.RunTime,
			Seed:      opts.seed,
		})
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		printStat("Profile coins", prof.Coins)
		printStat("Profile runs", prof.TotalRuns)
	}
	return nil
}

// openStore connects to PostgreSQL when enabled; otherwise profiles live in
// memory for the life of the process.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (meta.Store, func(), error) {
	if !cfg.Enabled {
		return meta.NewMemoryStore(), func() {}, nil
	}
	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(dbCtx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	if err := persist.RunMigrations(dbCtx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return persist.NewStore(db), db.Close, nil
}

// play drives w with the autopilot until the run ends, the tick limit is hit,
// or ctx is cancelled. In realtime mode frame deltas feed a fixed-step
// accumulator; otherwise steps run back to back.
func play(ctx context.Context, w *world.World, rec *replay.Recorder, cfg *config.Config, realtime bool) {
	pilot := autopilot.New()
	limit := cfg.Run.MaxTicks
	step := func() bool {
		if w.Over() || (limit > 0 && rec.Len() >= limit) {
			return false
		}
		rec.Step(w, pilot)
		w.Events.Flush()
		return true
	}

	if !realtime {
		for ctx.Err() == nil && step() {
		}
		return
	}

	frame := time.NewTicker(time.Second / 60)
	defer frame.Stop()
	last := time.Now()
	var acc float64
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-frame.C:
			acc += min(now.Sub(last).Seconds(), cfg.Simulation.MaxDelta)
			last = now
			for acc >= cfg.Simulation.FixedStep {
				acc -= cfg.Simulation.FixedStep
				if !step() {
					return
				}
			}
		}
	}
}

func subscribe(w *world.World, log *zap.Logger) {
	event.Subscribe(w.Events, func(e event.RoomEntered) {
		log.Info("room entered", zap.Int("room", e.Room), zap.Stringer("modifier", e.Modifier))
	})
	event.Subscribe(w.Events, func(e event.WaveStarted) {
		log.Debug("wave started", zap.Int("room", e.Room), zap.Int("wave", e.Wave), zap.Int("enemies", e.Enemies))
	})
	event.Subscribe(w.Events, func(e event.RoomCleared) {
		log.Info("room cleared", zap.Int("room", e.Room), zap.Float64("run_time", e.RunTime))
	})
	event.Subscribe(w.Events, func(e event.BossPhaseChanged) {
		log.Info("boss phase", zap.Stringer("boss", e.Type), zap.Int("phase", e.Phase))
	})
	event.Subscribe(w.Events, func(e event.PlayerLeveledUp) {
		log.Debug("level up", zap.Int("level", e.Level))
	})
	event.Subscribe(w.Events, func(e event.SkillAcquired) {
		log.Info("skill acquired", zap.Stringer("skill", e.Skill), zap.Int("level", e.Level))
	})
	event.Subscribe(w.Events, func(e event.PlayerDied) {
		log.Info("player died", zap.Int("room", e.Room), zap.Int("kills", e.Kills))
	})
	event.Subscribe(w.Events, func(e event.RunWon) {
		log.Info("chapter cleared", zap.Int("chapter", e.Chapter), zap.Int("kills", e.Kills), zap.Int("coins", e.Coins))
	})
}

func summarize(w *world.World, f *replay.File) {
	fmt.Println()
	printSection("Run")
	result := "abandoned"
	switch {
	case w.Victory:
		result = "victory"
	case w.GameOver:
		result = "defeat"
	}
	printStat("Result", result)
	printStat("Chapter", w.ChapterID)
	printStat("Room", out.Sprintf("%d/%d", w.Room, w.TotalRooms))
	printStat("Ticks", f.Ticks)
	printStat("Run time", time.Duration(w.RunTime*float64(time.Second)).Round(time.Millisecond))
	printStat("Kills", w.Kills)
	printStat("Coins", w.Player.Coins)
	printStat("Level", w.Player.Level)
	printStat("Skills", len(w.Player.Skills))
	printStat("Checksum", fmt.Sprintf("%x", f.Checksum[:8]))
}

func verify(path string, content *data.Content, log *zap.Logger) error {
	f, err := replay.LoadFile(path)
	if err != nil {
		return err
	}
	start := time.Now()
	err = replay.Verify(f, content)
	switch {
	case errors.Is(err, replay.ErrDesync):
		log.Error("replay desynced", zap.String("path", path), zap.Error(err))
		return err
	case err != nil:
		return fmt.Errorf("verify %s: %w", path, err)
	}
	log.Info("replay verified",
		zap.String("path", path),
		zap.Int("frames", len(f.Frames)),
		zap.Duration("elapsed", time.Since(start)))
	printOK(out.Sprintf("%s: %d frames match", path, len(f.Frames)))
	return nil
}
