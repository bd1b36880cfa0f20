package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/meta"
)

// ErrNotFound is returned (wrapped) when a profile row does not exist.
var ErrNotFound = errors.New("not found")

// ProfileRepo stores meta profiles with their upgrade levels and unlocked
// heroes. It implements meta.Store together with RunRepo.
type ProfileRepo struct {
	db *DB
}

func NewProfileRepo(db *DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

// LoadProfile reads a profile. Unknown ids return an error matching both
// ErrNotFound and meta.ErrNotFound.
func (r *ProfileRepo) LoadProfile(ctx context.Context, id uuid.UUID) (*meta.Profile, error) {
	p := &meta.Profile{ID: id}
	var hero string
	err := r.db.Pool.QueryRow(ctx,
		`SELECT coins, highest_chapter, total_runs, total_kills, selected_hero, updated_at
		 FROM profiles WHERE id = $1`, id,
	).Scan(&p.Coins, &p.HighestChapter, &p.TotalRuns, &p.TotalKills, &hero, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w: %w", id, ErrNotFound, meta.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if p.SelectedHero, err = data.ParseHeroID(hero); err != nil {
		r.db.log.Warn("profile has unknown selected hero", zap.String("profile", id.String()), zap.String("hero", hero))
		p.SelectedHero = data.Archer
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT upgrade, level FROM profile_upgrades WHERE profile_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("load upgrades: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var level int16
		if err := rows.Scan(&name, &level); err != nil {
			return nil, fmt.Errorf("scan upgrade: %w", err)
		}
		u, err := data.ParseUpgradeID(name)
		if err != nil {
			r.db.log.Warn("skipping unknown upgrade", zap.String("profile", id.String()), zap.String("upgrade", name))
			continue
		}
		p.Upgrades[u] = int(level)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load upgrades: %w", err)
	}

	heroRows, err := r.db.Pool.Query(ctx,
		`SELECT hero FROM profile_heroes WHERE profile_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("load heroes: %w", err)
	}
	defer heroRows.Close()
	for heroRows.Next() {
		var name string
		if err := heroRows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan hero: %w", err)
		}
		h, err := data.ParseHeroID(name)
		if err != nil {
			r.db.log.Warn("skipping unknown hero", zap.String("profile", id.String()), zap.String("hero", name))
			continue
		}
		p.Unlocked[h] = true
	}
	if err := heroRows.Err(); err != nil {
		return nil, fmt.Errorf("load heroes: %w", err)
	}
	p.Unlocked[data.Archer] = true
	return p, nil
}

// SaveProfile upserts the profile row and replaces its upgrades and heroes in
// one transaction.
func (r *ProfileRepo) SaveProfile(ctx context.Context, p *meta.Profile) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("save profile begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO profiles (id, coins, highest_chapter, total_runs, total_kills, selected_hero, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   coins = EXCLUDED.coins,
		   highest_chapter = EXCLUDED.highest_chapter,
		   total_runs = EXCLUDED.total_runs,
		   total_kills = EXCLUDED.total_kills,
		   selected_hero = EXCLUDED.selected_hero,
		   updated_at = EXCLUDED.updated_at`,
		p.ID, p.Coins, p.HighestChapter, p.TotalRuns, p.TotalKills, p.SelectedHero.String(), p.UpdatedAt,
	); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM profile_upgrades WHERE profile_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear upgrades: %w", err)
	}
	for u := data.UpgradeID(0); u < data.NumUpgrades; u++ {
		if p.Upgrades[u] == 0 {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO profile_upgrades (profile_id, upgrade, level) VALUES ($1, $2, $3)`,
			p.ID, u.String(), int16(p.Upgrades[u]),
		); err != nil {
			return fmt.Errorf("insert upgrade %s: %w", u, err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM profile_heroes WHERE profile_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear heroes: %w", err)
	}
	for h := data.HeroID(0); h < data.NumHeroes; h++ {
		if !p.Unlocked[h] {
			continue
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO profile_heroes (profile_id, hero) VALUES ($1, $2)`,
			p.ID, h.String(),
		); err != nil {
			return fmt.Errorf("insert hero %s: %w", h, err)
		}
	}

	return tx.Commit(ctx)
}
