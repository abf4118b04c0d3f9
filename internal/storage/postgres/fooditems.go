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

// PostgresFoodItemsStorage — Postgres каталог еды
type PostgresFoodItemsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresFoodItemsStorage(pool *pgxpool.Pool) *PostgresFoodItemsStorage {
	return &PostgresFoodItemsStorage{pool: pool}
}

func (s *PostgresFoodItemsStorage) CreateFoodItem(ctx context.Context, item *storage.FoodItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
		item.UpdatedAt = item.CreatedAt
	}

	query := `
		INSERT INTO food_items (id, profile_id, name, kcal_per_100g, protein_g_per_100g,
			carbs_g_per_100g, fat_g_per_100g, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		item.ID,
		item.ProfileID,
		item.Name,
		item.KcalPer100g,
		item.ProteinGPer100g,
		item.CarbsGPer100g,
		item.FatGPer100g,
		item.CreatedAt,
		item.UpdatedAt,
	)

	return err
}

func (s *PostgresFoodItemsStorage) GetFoodItem(ctx context.Context, id uuid.UUID) (*storage.FoodItem, error) {
	query := `
		SELECT id, profile_id, name, kcal_per_100g, protein_g_per_100g,
			carbs_g_per_100g, fat_g_per_100g, created_at, updated_at
		FROM food_items
		WHERE id = $1
	`

	var item storage.FoodItem
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.ProfileID,
		&item.Name,
		&item.KcalPer100g,
		&item.ProteinGPer100g,
		&item.CarbsGPer100g,
		&item.FatGPer100g,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (s *PostgresFoodItemsStorage) ListFoodItems(ctx context.Context, profileID uuid.UUID, search string, limit, offset int) ([]storage.FoodItem, error) {
	query := `
		SELECT id, profile_id, name, kcal_per_100g, protein_g_per_100g,
			carbs_g_per_100g, fat_g_per_100g, created_at, updated_at
		FROM food_items
		WHERE profile_id = $1
			AND ($2 = '' OR name ILIKE '%' || $2 || '%')
		ORDER BY name ASC
		LIMIT $3 OFFSET $4
	`

	if limit <= 0 {
		limit = 100
	}

	rows, err := s.pool.Query(ctx, query, profileID, search, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []storage.FoodItem{}
	for rows.Next() {
		var item storage.FoodItem
		if err := rows.Scan(
			&item.ID,
			&item.ProfileID,
			&item.Name,
			&item.KcalPer100g,
			&item.ProteinGPer100g,
			&item.CarbsGPer100g,
			&item.FatGPer100g,
			&item.CreatedAt,
			&item.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (s *PostgresFoodItemsStorage) DeleteFoodItem(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM food_items WHERE id = $1`

	result, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
