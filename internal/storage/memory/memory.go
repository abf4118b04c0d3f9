package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("not found")
)

// MemoryStorage — in-memory реализация всех storage интерфейсов
type MemoryStorage struct {
	mu        sync.RWMutex
	profiles  map[uuid.UUID]storage.Profile
	energy    *EnergyMemoryStorage
	foodItems *FoodItemsMemoryStorage
	meals     *MealsMemoryStorage
	water     *WaterMemoryStorage
	sleep     *SleepMemoryStorage
	reports   *ReportsMemoryStorage
}

// New создаёт пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		profiles:  make(map[uuid.UUID]storage.Profile),
		energy:    NewEnergyMemoryStorage(),
		foodItems: NewFoodItemsMemoryStorage(),
		meals:     NewMealsMemoryStorage(),
		water:     NewWaterMemoryStorage(),
		sleep:     NewSleepMemoryStorage(),
		reports:   NewReportsMemoryStorage(),
	}
}

func (m *MemoryStorage) ListProfiles(ctx context.Context) ([]storage.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profiles := make([]storage.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		profiles = append(profiles, p)
	}

	return profiles, nil
}

func (m *MemoryStorage) GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &p, nil
}

func (m *MemoryStorage) CreateProfile(ctx context.Context, profile *storage.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()

	m.profiles[profile.ID] = *profile

	return nil
}

func (m *MemoryStorage) UpdateProfile(ctx context.Context, profile *storage.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[profile.ID]; !ok {
		return ErrNotFound
	}

	profile.UpdatedAt = time.Now()
	m.profiles[profile.ID] = *profile

	return nil
}

// DeleteProfile удаляет профиль и каскадно все зависимые записи,
// чтобы после удаления ни одна запись профиля не была доступна
func (m *MemoryStorage) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	if _, ok := m.profiles[id]; !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.profiles, id)
	m.mu.Unlock()

	m.energy.deleteByProfile(id)
	m.foodItems.deleteByProfile(id)
	m.meals.deleteByProfile(id)
	m.water.deleteByProfile(id)
	m.sleep.deleteByProfile(id)
	m.reports.deleteByProfile(id)

	return nil
}

func (m *MemoryStorage) Close() error {
	// no-op для memory
	return nil
}

// EnergyStorage methods - делегируем к встроенному energy storage

func (m *MemoryStorage) InsertEnergyRecord(ctx context.Context, record *storage.EnergyRecord) error {
	return m.energy.InsertEnergyRecord(ctx, record)
}

func (m *MemoryStorage) GetLatestEnergyRecord(ctx context.Context, profileID uuid.UUID) (storage.EnergyRecord, bool, error) {
	return m.energy.GetLatestEnergyRecord(ctx, profileID)
}

func (m *MemoryStorage) ListEnergyRecords(ctx context.Context, profileID uuid.UUID, limit int) ([]storage.EnergyRecord, error) {
	return m.energy.ListEnergyRecords(ctx, profileID, limit)
}

// FoodItemsStorage methods

func (m *MemoryStorage) CreateFoodItem(ctx context.Context, item *storage.FoodItem) error {
	return m.foodItems.CreateFoodItem(ctx, item)
}

func (m *MemoryStorage) GetFoodItem(ctx context.Context, id uuid.UUID) (*storage.FoodItem, error) {
	return m.foodItems.GetFoodItem(ctx, id)
}

func (m *MemoryStorage) ListFoodItems(ctx context.Context, profileID uuid.UUID, query string, limit, offset int) ([]storage.FoodItem, error) {
	return m.foodItems.ListFoodItems(ctx, profileID, query, limit, offset)
}

func (m *MemoryStorage) DeleteFoodItem(ctx context.Context, id uuid.UUID) error {
	return m.foodItems.DeleteFoodItem(ctx, id)
}

// MealsStorage methods

func (m *MemoryStorage) InsertMeal(ctx context.Context, entry *storage.MealEntry) error {
	return m.meals.InsertMeal(ctx, entry)
}

func (m *MemoryStorage) ListMeals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.MealEntry, error) {
	return m.meals.ListMeals(ctx, profileID, from, to)
}

func (m *MemoryStorage) GetMeal(ctx context.Context, id uuid.UUID) (*storage.MealEntry, error) {
	return m.meals.GetMeal(ctx, id)
}

func (m *MemoryStorage) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	return m.meals.DeleteMeal(ctx, id)
}

// WaterStorage methods

func (m *MemoryStorage) AddWater(ctx context.Context, profileID uuid.UUID, day string, amountMl int) (storage.WaterDay, error) {
	return m.water.AddWater(ctx, profileID, day, amountMl)
}

func (m *MemoryStorage) RemoveWater(ctx context.Context, profileID uuid.UUID, day string, amountMl int) (storage.WaterDay, error) {
	return m.water.RemoveWater(ctx, profileID, day, amountMl)
}

func (m *MemoryStorage) GetWaterDay(ctx context.Context, profileID uuid.UUID, day string) (storage.WaterDay, bool, error) {
	return m.water.GetWaterDay(ctx, profileID, day)
}

func (m *MemoryStorage) ListWaterDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.WaterDay, error) {
	return m.water.ListWaterDays(ctx, profileID, from, to)
}

// SleepStorage methods

func (m *MemoryStorage) UpsertSleep(ctx context.Context, entry *storage.SleepEntry) error {
	return m.sleep.UpsertSleep(ctx, entry)
}

func (m *MemoryStorage) GetSleepDay(ctx context.Context, profileID uuid.UUID, day string) (storage.SleepEntry, bool, error) {
	return m.sleep.GetSleepDay(ctx, profileID, day)
}

func (m *MemoryStorage) ListSleepDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.SleepEntry, error) {
	return m.sleep.ListSleepDays(ctx, profileID, from, to)
}

// ReportsStorage methods

func (m *MemoryStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	return m.reports.CreateReport(ctx, report)
}

func (m *MemoryStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	return m.reports.GetReport(ctx, id)
}

func (m *MemoryStorage) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	return m.reports.ListReports(ctx, profileID, limit, offset)
}

func (m *MemoryStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	return m.reports.DeleteReport(ctx, id)
}
