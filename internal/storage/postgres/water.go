package postgres

import (
	"context"
	"errors"

	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresWaterStorage — Postgres лог воды. Одна строка на (profile, day),
// добавления инкрементируют итог атомарным upsert-ом — два конкурентных
// запроса не теряют обновления.
type PostgresWaterStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresWaterStorage(pool *pgxpool.Pool) *PostgresWaterStorage {
	return &PostgresWaterStorage{pool: pool}
}

func (s *PostgresWaterStorage) AddWater(ctx context.Context, profileID uuid.UUID, day string, amountMl int) (storage.WaterDay, error) {
	query := `
		INSERT INTO water_days (profile_id, day, total_ml, count, updated_at)
		VALUES ($1, $2, $3, 1, NOW())
		ON CONFLICT (profile_id, day)
		DO UPDATE SET
			total_ml = water_days.total_ml + EXCLUDED.total_ml,
			count = water_days.count + 1,
			updated_at = NOW()
		RETURNING profile_id, day, total_ml, count, updated_at
	`

	var d storage.WaterDay
	err := s.pool.QueryRow(ctx, query, profileID, day, amountMl).Scan(
		&d.ProfileID,
		&d.Day,
		&d.TotalMl,
		&d.Count,
		&d.UpdatedAt,
	)
	if err != nil {
		return storage.WaterDay{}, err
	}

	return d, nil
}

func (s *PostgresWaterStorage) RemoveWater(ctx context.Context, profileID uuid.UUID, day string, amountMl int) (storage.WaterDay, error) {
	query := `
		UPDATE water_days
		SET total_ml = GREATEST(total_ml - $3, 0),
			count = count - 1,
			updated_at = NOW()
		WHERE profile_id = $1 AND day = $2
		RETURNING profile_id, day, total_ml, count, updated_at
	`

	var d storage.WaterDay
	err := s.pool.QueryRow(ctx, query, profileID, day, amountMl).Scan(
		&d.ProfileID,
		&d.Day,
		&d.TotalMl,
		&d.Count,
		&d.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		// Нечего убирать — возвращаем нулевой итог, не ошибку
		return storage.WaterDay{ProfileID: profileID, Day: day}, nil
	}

	if err != nil {
		return storage.WaterDay{}, err
	}

	if d.Count <= 0 {
		delQuery := `DELETE FROM water_days WHERE profile_id = $1 AND day = $2`
		if _, err := s.pool.Exec(ctx, delQuery, profileID, day); err != nil {
			return storage.WaterDay{}, err
		}
		return storage.WaterDay{ProfileID: profileID, Day: day}, nil
	}

	return d, nil
}

func (s *PostgresWaterStorage) GetWaterDay(ctx context.Context, profileID uuid.UUID, day string) (storage.WaterDay, bool, error) {
	query := `
		SELECT profile_id, day, total_ml, count, updated_at
		FROM water_days
		WHERE profile_id = $1 AND day = $2
	`

	var d storage.WaterDay
	err := s.pool.QueryRow(ctx, query, profileID, day).Scan(
		&d.ProfileID,
		&d.Day,
		&d.TotalMl,
		&d.Count,
		&d.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return storage.WaterDay{}, false, nil
	}

	if err != nil {
		return storage.WaterDay{}, false, err
	}

	return d, true, nil
}

func (s *PostgresWaterStorage) ListWaterDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.WaterDay, error) {
	query := `
		SELECT profile_id, day, total_ml, count, updated_at
		FROM water_days
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

	days := []storage.WaterDay{}
	for rows.Next() {
		var d storage.WaterDay
		if err := rows.Scan(
			&d.ProfileID,
			&d.Day,
			&d.TotalMl,
			&d.Count,
			&d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		days = append(days, d)
	}

	return days, rows.Err()
}
