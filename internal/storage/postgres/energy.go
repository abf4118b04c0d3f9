package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresEnergyStorage — Postgres хранилище истории расчётов
type PostgresEnergyStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresEnergyStorage(pool *pgxpool.Pool) *PostgresEnergyStorage {
	return &PostgresEnergyStorage{pool: pool}
}

func (s *PostgresEnergyStorage) InsertEnergyRecord(ctx context.Context, record *storage.EnergyRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO energy_records (id, profile_id, formula, bmr, activity_multiplier,
			tdee, target_calories, protein_g, carbs_g, fat_g, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.pool.Exec(ctx, query,
		record.ID,
		record.ProfileID,
		record.Formula,
		record.BMR,
		record.ActivityMultiplier,
		record.TDEE,
		record.TargetCalories,
		record.ProteinG,
		record.CarbsG,
		record.FatG,
		record.CreatedAt,
	)

	return err
}

// GetLatestEnergyRecord возвращает активную запись: max(created_at),
// при равенстве — больший id
func (s *PostgresEnergyStorage) GetLatestEnergyRecord(ctx context.Context, profileID uuid.UUID) (storage.EnergyRecord, bool, error) {
	query := `
		SELECT id, profile_id, formula, bmr, activity_multiplier,
			tdee, target_calories, protein_g, carbs_g, fat_g, created_at
		FROM energy_records
		WHERE profile_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var r storage.EnergyRecord
	err := s.pool.QueryRow(ctx, query, profileID).Scan(
		&r.ID,
		&r.ProfileID,
		&r.Formula,
		&r.BMR,
		&r.ActivityMultiplier,
		&r.TDEE,
		&r.TargetCalories,
		&r.ProteinG,
		&r.CarbsG,
		&r.FatG,
		&r.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return storage.EnergyRecord{}, false, nil
	}

	if err != nil {
		return storage.EnergyRecord{}, false, err
	}

	return r, true, nil
}

func (s *PostgresEnergyStorage) ListEnergyRecords(ctx context.Context, profileID uuid.UUID, limit int) ([]storage.EnergyRecord, error) {
	query := `
		SELECT id, profile_id, formula, bmr, activity_multiplier,
			tdee, target_calories, protein_g, carbs_g, fat_g, created_at
		FROM energy_records
		WHERE profile_id = $1
		ORDER BY created_at DESC, id DESC
	`

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.pool.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []storage.EnergyRecord
	for rows.Next() {
		var r storage.EnergyRecord
		if err := rows.Scan(
			&r.ID,
			&r.ProfileID,
			&r.Formula,
			&r.BMR,
			&r.ActivityMultiplier,
			&r.TDEE,
			&r.TargetCalories,
			&r.ProteinG,
			&r.CarbsG,
			&r.FatG,
			&r.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
