package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSleepStorage — Postgres лог сна, одна запись на (profile, day)
type PostgresSleepStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresSleepStorage(pool *pgxpool.Pool) *PostgresSleepStorage {
	return &PostgresSleepStorage{pool: pool}
}

func (s *PostgresSleepStorage) UpsertSleep(ctx context.Context, entry *storage.SleepEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	query := `
		INSERT INTO sleep_entries (id, profile_id, day, bed_at, wake_at,
			duration_min, quality, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (profile_id, day)
		DO UPDATE SET
			bed_at = EXCLUDED.bed_at,
			wake_at = EXCLUDED.wake_at,
			duration_min = EXCLUDED.duration_min,
			quality = EXCLUDED.quality,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	return s.pool.QueryRow(ctx, query,
		entry.ID,
		entry.ProfileID,
		entry.Day,
		entry.BedAt,
		entry.WakeAt,
		entry.DurationMin,
		entry.Quality,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (s *PostgresSleepStorage) GetSleepDay(ctx context.Context, profileID uuid.UUID, day string) (storage.SleepEntry, bool, error) {
	query := `
		SELECT id, profile_id, day, bed_at, wake_at, duration_min, quality, created_at, updated_at
		FROM sleep_entries
		WHERE profile_id = $1 AND day = $2
	`

	var e storage.SleepEntry
	err := s.pool.QueryRow(ctx, query, profileID, day).Scan(
		&e.ID,
		&e.ProfileID,
		&e.Day,
		&e.BedAt,
		&e.WakeAt,
		&e.DurationMin,
		&e.Quality,
		&e.CreatedAt,
		&e.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return storage.SleepEntry{}, false, nil
	}

	if err != nil {
		return storage.SleepEntry{}, false, err
	}

	return e, true, nil
}

func (s *PostgresSleepStorage) ListSleepDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.SleepEntry, error) {
	query := `
		SELECT id, profile_id, day, bed_at, wake_at, duration_min, quality, created_at, updated_at
		FROM sleep_entries
		WHERE profile_id = $1
			AND day >= $2
			AND day <= $3
		ORDER BY day ASC
	`

	rows, err := s.pool.Query(ctx, query, profileID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []storage.SleepEntry{}
	for rows.Next() {
		var e storage.SleepEntry
		if err := rows.Scan(
			&e.ID,
			&e.ProfileID,
			&e.Day,
			&e.BedAt,
			&e.WakeAt,
			&e.DurationMin,
			&e.Quality,
			&e.CreatedAt,
			&e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
