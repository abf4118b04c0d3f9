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

// PostgresMealsStorage — Postgres лог еды
type PostgresMealsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresMealsStorage(pool *pgxpool.Pool) *PostgresMealsStorage {
	return &PostgresMealsStorage{pool: pool}
}

func (s *PostgresMealsStorage) InsertMeal(ctx context.Context, entry *storage.MealEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO meal_entries (id, profile_id, day, eaten_at, food_item_id, food_name,
			quantity_g, calories, protein_g, carbs_g, fat_g, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.pool.Exec(ctx, query,
		entry.ID,
		entry.ProfileID,
		entry.Day,
		entry.EatenAt,
		entry.FoodItemID,
		entry.FoodName,
		entry.QuantityG,
		entry.Calories,
		entry.ProteinG,
		entry.CarbsG,
		entry.FatG,
		entry.CreatedAt,
	)

	return err
}

func (s *PostgresMealsStorage) ListMeals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.MealEntry, error) {
	query := `
		SELECT id, profile_id, day, eaten_at, food_item_id, food_name,
			quantity_g, calories, protein_g, carbs_g, fat_g, created_at
		FROM meal_entries
		WHERE profile_id = $1
			AND day >= $2
			AND day <= $3
		ORDER BY day ASC, eaten_at ASC
	`

	rows, err := s.pool.Query(ctx, query, profileID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []storage.MealEntry{}
	for rows.Next() {
		var e storage.MealEntry
		if err := rows.Scan(
			&e.ID,
			&e.ProfileID,
			&e.Day,
			&e.EatenAt,
			&e.FoodItemID,
			&e.FoodName,
			&e.QuantityG,
			&e.Calories,
			&e.ProteinG,
			&e.CarbsG,
			&e.FatG,
			&e.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (s *PostgresMealsStorage) GetMeal(ctx context.Context, id uuid.UUID) (*storage.MealEntry, error) {
	query := `
		SELECT id, profile_id, day, eaten_at, food_item_id, food_name,
			quantity_g, calories, protein_g, carbs_g, fat_g, created_at
		FROM meal_entries
		WHERE id = $1
	`

	var e storage.MealEntry
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.ProfileID,
		&e.Day,
		&e.EatenAt,
		&e.FoodItemID,
		&e.FoodName,
		&e.QuantityG,
		&e.Calories,
		&e.ProteinG,
		&e.CarbsG,
		&e.FatG,
		&e.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &e, nil
}

func (s *PostgresMealsStorage) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM meal_entries WHERE id = $1`

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
