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

var (
	ErrNotFound = errors.New("not found")
)

// PostgresStorage — Postgres реализация всех storage интерфейсов
type PostgresStorage struct {
	pool      *pgxpool.Pool
	energy    *PostgresEnergyStorage
	foodItems *PostgresFoodItemsStorage
	meals     *PostgresMealsStorage
	water     *PostgresWaterStorage
	sleep     *PostgresSleepStorage
	reports   *PostgresReportsStorage
}

// New создаёт PostgresStorage и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStorage{
		pool:      pool,
		energy:    NewPostgresEnergyStorage(pool),
		foodItems: NewPostgresFoodItemsStorage(pool),
		meals:     NewPostgresMealsStorage(pool),
		water:     NewPostgresWaterStorage(pool),
		sleep:     NewPostgresSleepStorage(pool),
		reports:   NewPostgresReportsStorage(pool),
	}, nil
}

func (p *PostgresStorage) ListProfiles(ctx context.Context) ([]storage.Profile, error) {
	query := `
		SELECT id, owner_user_id, name, birth_date, sex, height_cm, weight_kg,
			activity_level, goal, time_zone, created_at, updated_at
		FROM profiles
		ORDER BY created_at ASC
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []storage.Profile{}
	for rows.Next() {
		var prof storage.Profile
		err := rows.Scan(
			&prof.ID,
			&prof.OwnerUserID,
			&prof.Name,
			&prof.BirthDate,
			&prof.Sex,
			&prof.HeightCm,
			&prof.WeightKg,
			&prof.ActivityLevel,
			&prof.Goal,
			&prof.TimeZone,
			&prof.CreatedAt,
			&prof.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, prof)
	}

	return profiles, rows.Err()
}

func (p *PostgresStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	query := `
		SELECT id, owner_user_id, name, birth_date, sex, height_cm, weight_kg,
			activity_level, goal, time_zone, created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var prof storage.Profile
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&prof.ID,
		&prof.OwnerUserID,
		&prof.Name,
		&prof.BirthDate,
		&prof.Sex,
		&prof.HeightCm,
		&prof.WeightKg,
		&prof.ActivityLevel,
		&prof.Goal,
		&prof.TimeZone,
		&prof.CreatedAt,
		&prof.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &prof, nil
}

func (p *PostgresStorage) CreateProfile(ctx context.Context, profile *storage.Profile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	now := time.Now()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query := `
		INSERT INTO profiles (id, owner_user_id, name, birth_date, sex, height_cm, weight_kg,
			activity_level, goal, time_zone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := p.pool.Exec(ctx, query,
		profile.ID,
		profile.OwnerUserID,
		profile.Name,
		profile.BirthDate,
		profile.Sex,
		profile.HeightCm,
		profile.WeightKg,
		profile.ActivityLevel,
		profile.Goal,
		profile.TimeZone,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	return err
}

func (p *PostgresStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	profile.UpdatedAt = time.Now()

	query := `
		UPDATE profiles
		SET name = $2, birth_date = $3, sex = $4, height_cm = $5, weight_kg = $6,
			activity_level = $7, goal = $8, time_zone = $9, updated_at = $10
		WHERE id = $1
	`

	result, err := p.pool.Exec(ctx, query,
		profile.ID,
		profile.Name,
		profile.BirthDate,
		profile.Sex,
		profile.HeightCm,
		profile.WeightKg,
		profile.ActivityLevel,
		profile.Goal,
		profile.TimeZone,
		profile.UpdatedAt,
	)

	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteProfile удаляет профиль; зависимые записи снимает БД
// (FK ON DELETE CASCADE во всех дочерних таблицах)
func (p *PostgresStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM profiles WHERE id = $1`

	result, err := p.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// EnergyStorage methods - делегируем к встроенному energy storage

func (p *PostgresStorage) InsertEnergyRecord(ctx context.Context, record *storage.EnergyRecord) error {
	return p.energy.InsertEnergyRecord(ctx, record)
}

func (p *PostgresStorage) GetLatestEnergyRecord(ctx context.Context, profileID uuid.UUID) (storage.EnergyRecord, bool, error) {
	return p.energy.GetLatestEnergyRecord(ctx, profileID)
}

func (p *PostgresStorage) ListEnergyRecords(ctx context.Context, profileID uuid.UUID, limit int) ([]storage.EnergyRecord, error) {
	return p.energy.ListEnergyRecords(ctx, profileID, limit)
}

// FoodItemsStorage methods

func (p *PostgresStorage) CreateFoodItem(ctx context.Context, item *storage.FoodItem) error {
	return p.foodItems.CreateFoodItem(ctx, item)
}

func (p *PostgresStorage) GetFoodItem(ctx context.Context, id uuid.UUID) (*storage.FoodItem, error) {
	return p.foodItems.GetFoodItem(ctx, id)
}

func (p *PostgresStorage) ListFoodItems(ctx context.Context, profileID uuid.UUID, query string, limit, offset int) ([]storage.FoodItem, error) {
	return p.foodItems.ListFoodItems(ctx, profileID, query, limit, offset)
}

func (p *PostgresStorage) DeleteFoodItem(ctx context.Context, id uuid.UUID) error {
	return p.foodItems.DeleteFoodItem(ctx, id)
}

// MealsStorage methods

func (p *PostgresStorage) InsertMeal(ctx context.Context, entry *storage.MealEntry) error {
	return p.meals.InsertMeal(ctx, entry)
}

func (p *PostgresStorage) ListMeals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.MealEntry, error) {
	return p.meals.ListMeals(ctx, profileID, from, to)
}

func (p *PostgresStorage) GetMeal(ctx context.Context, id uuid.UUID) (*storage.MealEntry, error) {
	return p.meals.GetMeal(ctx, id)
}

func (p *PostgresStorage) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	return p.meals.DeleteMeal(ctx, id)
}

// WaterStorage methods

func (p *PostgresStorage) AddWater(ctx context.Context, profileID uuid.UUID, day string, amountMl int) (storage.WaterDay, error) {
	return p.water.AddWater(ctx, profileID, day, amountMl)
}

func (p *PostgresStorage) RemoveWater(ctx context.Context, profileID uuid.UUID, day string, amountMl int) (storage.WaterDay, error) {
	return p.water.RemoveWater(ctx, profileID, day, amountMl)
}

func (p *PostgresStorage) GetWaterDay(ctx context.Context, profileID uuid.UUID, day string) (storage.WaterDay, bool, error) {
	return p.water.GetWaterDay(ctx, profileID, day)
}

func (p *PostgresStorage) ListWaterDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.WaterDay, error) {
	return p.water.ListWaterDays(ctx, profileID, from, to)
}

// SleepStorage methods

func (p *PostgresStorage) UpsertSleep(ctx context.Context, entry *storage.SleepEntry) error {
	return p.sleep.UpsertSleep(ctx, entry)
}

func (p *PostgresStorage) GetSleepDay(ctx context.Context, profileID uuid.UUID, day string) (storage.SleepEntry, bool, error) {
	return p.sleep.GetSleepDay(ctx, profileID, day)
}

func (p *PostgresStorage) ListSleepDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.SleepEntry, error) {
	return p.sleep.ListSleepDays(ctx, profileID, from, to)
}

// ReportsStorage methods

func (p *PostgresStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	return p.reports.CreateReport(ctx, report)
}

func (p *PostgresStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	return p.reports.GetReport(ctx, id)
}

func (p *PostgresStorage) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	return p.reports.ListReports(ctx, profileID, limit, offset)
}

func (p *PostgresStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	return p.reports.DeleteReport(ctx, id)
}
