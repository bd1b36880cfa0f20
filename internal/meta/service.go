package meta

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/scripting"
	"github.com/l1jgo/roguesim/internal/world"
)

var (
	ErrNotFound          = errors.New("profile not found")
	ErrUnknownUpgrade    = errors.New("unknown upgrade")
	ErrMaxLevel          = errors.New("upgrade at max level")
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrUnknownHero       = errors.New("unknown hero")
	ErrHeroLocked        = errors.New("hero locked")
)

// Formulas computes stat bonuses and upgrade prices. *scripting.Engine
// implements it.
type Formulas interface {
	ComputeBonuses(levels [data.NumUpgrades]int) scripting.Bonuses
	UpgradeCost(level int) int
}

type builtinFormulas struct{}

func (builtinFormulas) ComputeBonuses(levels [data.NumUpgrades]int) scripting.Bonuses {
	return scripting.DefaultBonuses(levels)
}

func (builtinFormulas) UpgradeCost(level int) int { return scripting.DefaultUpgradeCost(level) }

// Service applies meta-progression rules on top of a Store. Mutations are
// serialized so concurrent requests cannot double-spend coins.
type Service struct {
	mu       sync.Mutex
	store    Store
	content  *data.Content
	formulas Formulas
	log      *zap.Logger
	now      func() time.Time
}

// NewService builds a service. A nil formulas uses the built-in curves.
func NewService(store Store, content *data.Content, formulas Formulas, log *zap.Logger) *Service {
	if formulas == nil {
		formulas = builtinFormulas{}
	}
	return &Service{
		store:    store,
		content:  content,
		formulas: formulas,
		log:      log,
		now:      time.Now,
	}
}

// Profile returns the profile for id, creating and saving a fresh one on
// first access.
func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*Profile, error) {
	p, err := s.store.LoadProfile(ctx, id)
	if errors.Is(err, ErrNotFound) {
		p = NewProfile(id, s.content.Heroes)
		p.UpdatedAt = s.now()
		if err := s.store.SaveProfile(ctx, p); err != nil {
			return nil, fmt.Errorf("create profile %s: %w", id, err)
		}
		s.log.Info("profile created", zap.String("profile", id.String()))
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", id, err)
	}
	return p, nil
}

func (s *Service) save(ctx context.Context, p *Profile) error {
	p.UpdatedAt = s.now()
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return fmt.Errorf("save profile %s: %w", p.ID, err)
	}
	return nil
}

// Bonuses folds the profile's upgrade levels into run-start stat bonuses.
func (s *Service) Bonuses(p *Profile) world.PermanentBonuses {
	b := s.formulas.ComputeBonuses(p.Upgrades)
	return world.PermanentBonuses{
		MaxHP:           b.MaxHP,
		DamagePct:       b.DamagePct,
		AttackSpeedPct:  b.AttackSpeedPct,
		CritChance:      b.CritChance,
		DamageReduction: b.DamageReduction,
	}
}

// UpgradeCost is the price of the next level for a track at level.
func (s *Service) UpgradeCost(level int) int { return s.formulas.UpgradeCost(level) }

// PurchaseUpgrade spends coins on the next level of an upgrade track.
func (s *Service) PurchaseUpgrade(ctx context.Context, id uuid.UUID, upgrade data.UpgradeID) (*Profile, error) {
	u := s.content.Upgrades.Get(upgrade)
	if u == nil {
		return nil, ErrUnknownUpgrade
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	lvl := p.Upgrades[upgrade]
	if lvl >= u.MaxLevel {
		return nil, ErrMaxLevel
	}
	cost := s.formulas.UpgradeCost(lvl)
	if p.Coins < cost {
		return nil, ErrInsufficientCoins
	}
	p.Coins -= cost
	p.Upgrades[upgrade] = lvl + 1
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("upgrade purchased",
		zap.String("profile", id.String()),
		zap.Stringer("upgrade", upgrade),
		zap.Int("level", lvl+1),
		zap.Int("cost", cost))
	return p, nil
}

// SelectHero makes an unlocked hero the default for new runs.
func (s *Service) SelectHero(ctx context.Context, id uuid.UUID, hero data.HeroID) (*Profile, error) {
	if hero >= data.NumHeroes {
		return nil, ErrUnknownHero
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsHeroUnlocked(hero) {
		return nil, ErrHeroLocked
	}
	p.SelectedHero = hero
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UnlockHero buys a hero. Unlocking an owned hero is a no-op.
func (s *Service) UnlockHero(ctx context.Context, id uuid.UUID, hero data.HeroID) (*Profile, error) {
	if hero >= data.NumHeroes {
		return nil, ErrUnknownHero
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Unlocked[hero] {
		return p, nil
	}
	cost := s.content.Heroes.Get(hero).UnlockCost
	if p.Coins < cost {
		return nil, ErrInsufficientCoins
	}
	p.Coins -= cost
	p.Unlocked[hero] = true
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("hero unlocked", zap.String("profile", id.String()), zap.Stringer("hero", hero))
	return p, nil
}

// RecordRunEnd banks a finished run: coins and kills are added, the run
// counter grows and the highest chapter only ever rises. The run itself is
// stored alongside.
func (s *Service) RecordRunEnd(ctx context.Context, r *RunRecord) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.load(ctx, r.ProfileID)
	if err != nil {
		return nil, err
	}
	p.Coins += r.Coins
	p.TotalKills += r.Kills
	p.TotalRuns++
	p.HighestChapter = max(p.HighestChapter, r.Chapter)

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.FinishedAt.IsZero() {
		r.FinishedAt = s.now()
	}
	if err := s.store.InsertRun(ctx, r); err != nil {
		return nil, fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	if err := s.save(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("run recorded",
		zap.String("profile", p.ID.String()),
		zap.String("run", r.ID.String()),
		zap.Int("chapter", r.Chapter),
		zap.Bool("victory", r.Victory),
		zap.Int("kills", r.Kills),
		zap.Int("coins", r.Coins))
	return p, nil
}

// RecentRuns lists the newest runs of a profile.
func (s *Service) RecentRuns(ctx context.Context, id uuid.UUID, limit int) ([]RunRecord, error) {
	runs, err := s.store.RecentRuns(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("recent runs %s: %w", id, err)
	}
	return runs, nil
}
