package persist

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/l1jgo/roguesim/internal/data"
	"github.com/l1jgo/roguesim/internal/meta"
)

type RunRepo struct {
	db *DB
}

func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

func (r *RunRepo) InsertRun(ctx context.Context, run *meta.RunRecord) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO runs (id, profile_id, chapter, hero, victory, kills, coins, level, run_time, seed, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		run.ID, run.ProfileID, run.Chapter, run.Hero.String(), run.Victory,
		run.Kills, run.Coins, run.Level, run.RunTime, run.Seed, run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit runs of a profile, newest first.
func (r *RunRepo) RecentRuns(ctx context.Context, profileID uuid.UUID, limit int) ([]meta.RunRecord, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, chapter, hero, victory, kills, coins, level, run_time, seed, finished_at
		 FROM runs WHERE profile_id = $1
		 ORDER BY finished_at DESC LIMIT $2`, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []meta.RunRecord
	for rows.Next() {
		run := meta.RunRecord{ProfileID: profileID}
		var hero string
		if err := rows.Scan(&run.ID, &run.Chapter, &hero, &run.Victory, &run.Kills,
			&run.Coins, &run.Level, &run.RunTime, &run.Seed, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.Hero, _ = data.ParseHeroID(hero)
		out = append(out, run)
	}
	return out, rows.Err()
}

// Store combines the repos into a meta.Store.
type Store struct {
	*ProfileRepo
	*RunRepo
}

func NewStore(db *DB) *Store {
	return &Store{ProfileRepo: NewProfileRepo(db), RunRepo: NewRunRepo(db)}
}

var _ meta.Store = (*Store)(nil)
