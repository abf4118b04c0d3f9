package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Profile представляет профиль пользователя (один owner может вести
// несколько профилей — семейный режим)
type Profile struct {
	ID            uuid.UUID
	OwnerUserID   string // "default" для MVP, позже uuid
	Name          string
	BirthDate     time.Time
	Sex           string // "male" или "female"
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string // sedentary|light|moderate|active|very_active
	Goal          string // lose|maintain|gain
	TimeZone      string // IANA zone, "" = UTC
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Storage — интерфейс для работы с профилями
type Storage interface {
	// ListProfiles возвращает все профили
	ListProfiles(ctx context.Context) ([]Profile, error)

	// GetProfile возвращает профиль по ID
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)

	// CreateProfile создаёт новый профиль
	CreateProfile(ctx context.Context, profile *Profile) error

	// UpdateProfile обновляет профиль
	UpdateProfile(ctx context.Context, profile *Profile) error

	// DeleteProfile удаляет профиль и каскадно все его записи
	// (energy records, логи еды/воды/сна, каталог еды, отчёты)
	DeleteProfile(ctx context.Context, id uuid.UUID) error

	// Close закрывает соединение (для Postgres)
	Close() error
}

// EnergyRecord — результат расчёта энергозатрат. Append-only: пересчёт
// всегда создаёт новую запись, активной считается самая свежая.
type EnergyRecord struct {
	ID                 uuid.UUID
	ProfileID          uuid.UUID
	Formula            string // "mifflin_st_jeor" или "harris_benedict"
	BMR                float64
	ActivityMultiplier float64
	TDEE               float64
	TargetCalories     float64
	ProteinG           float64
	CarbsG             float64
	FatG               float64
	CreatedAt          time.Time
}

// EnergyStorage — интерфейс истории расчётов энергозатрат
type EnergyStorage interface {
	// InsertEnergyRecord добавляет новую запись (история не мутируется)
	InsertEnergyRecord(ctx context.Context, record *EnergyRecord) error

	// GetLatestEnergyRecord returns the active record: max created_at,
	// id as tiebreak. ok=false when the profile has no records yet.
	GetLatestEnergyRecord(ctx context.Context, profileID uuid.UUID) (EnergyRecord, bool, error)

	// ListEnergyRecords возвращает историю расчётов, новые первыми
	ListEnergyRecords(ctx context.Context, profileID uuid.UUID, limit int) ([]EnergyRecord, error)
}

// FoodItem — позиция пользовательского каталога еды (макросы на 100 г)
type FoodItem struct {
	ID              uuid.UUID
	ProfileID       uuid.UUID
	Name            string
	KcalPer100g     float64
	ProteinGPer100g float64
	CarbsGPer100g   float64
	FatGPer100g     float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FoodItemsStorage — интерфейс каталога еды
type FoodItemsStorage interface {
	CreateFoodItem(ctx context.Context, item *FoodItem) error
	GetFoodItem(ctx context.Context, id uuid.UUID) (*FoodItem, error)
	ListFoodItems(ctx context.Context, profileID uuid.UUID, query string, limit, offset int) ([]FoodItem, error)
	DeleteFoodItem(ctx context.Context, id uuid.UUID) error
}

// MealEntry — запись о приёме пищи. Day — канонический ключ дня
// (YYYY-MM-DD, см. internal/daykey), EatenAt — точное время события.
type MealEntry struct {
	ID         uuid.UUID
	ProfileID  uuid.UUID
	Day        string
	EatenAt    time.Time
	FoodItemID uuid.UUID
	FoodName   string // denormalized for display
	QuantityG  float64
	Calories   float64
	ProteinG   float64
	CarbsG     float64
	FatG       float64
	CreatedAt  time.Time
}

// MealsStorage — интерфейс лога еды
type MealsStorage interface {
	InsertMeal(ctx context.Context, entry *MealEntry) error

	// ListMeals возвращает записи за диапазон дней [from, to] включительно,
	// отсортированные по (day, eaten_at)
	ListMeals(ctx context.Context, profileID uuid.UUID, from, to string) ([]MealEntry, error)

	GetMeal(ctx context.Context, id uuid.UUID) (*MealEntry, error)
	DeleteMeal(ctx context.Context, id uuid.UUID) error
}

// WaterDay — накопленный итог воды за день: суммарный объём и число
// добавлений. Записи нет — воды за день не логировали.
type WaterDay struct {
	ProfileID uuid.UUID
	Day       string
	TotalMl   int
	Count     int
	UpdatedAt time.Time
}

// WaterStorage — интерфейс лога воды
type WaterStorage interface {
	// AddWater увеличивает итог дня на amountMl и счётчик на 1,
	// создавая запись при первом добавлении. Возвращает новый итог.
	AddWater(ctx context.Context, profileID uuid.UUID, day string, amountMl int) (WaterDay, error)

	// RemoveWater уменьшает итог на amountMl и счётчик на 1 (не ниже
	// нуля). Когда счётчик достигает нуля, запись дня удаляется целиком.
	RemoveWater(ctx context.Context, profileID uuid.UUID, day string, amountMl int) (WaterDay, error)

	// GetWaterDay возвращает итог дня. ok=false — записи нет.
	GetWaterDay(ctx context.Context, profileID uuid.UUID, day string) (WaterDay, bool, error)

	// ListWaterDays возвращает итоги за диапазон дней [from, to]
	ListWaterDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]WaterDay, error)
}

// SleepEntry — сон за день, не более одной записи на (profile, day).
// DurationMin выводится из bed/wake при записи и ограничен [0, 24h].
type SleepEntry struct {
	ID          uuid.UUID
	ProfileID   uuid.UUID
	Day         string
	BedAt       time.Time
	WakeAt      time.Time
	DurationMin int
	Quality     int // ordinal 0..4, independent of duration
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SleepStorage — интерфейс лога сна
type SleepStorage interface {
	// UpsertSleep создаёт или заменяет запись сна для (profile, day)
	UpsertSleep(ctx context.Context, entry *SleepEntry) error

	// GetSleepDay возвращает запись дня. ok=false — записи нет.
	GetSleepDay(ctx context.Context, profileID uuid.UUID, day string) (SleepEntry, bool, error)

	// ListSleepDays возвращает записи за диапазон дней [from, to]
	ListSleepDays(ctx context.Context, profileID uuid.UUID, from, to string) ([]SleepEntry, error)
}

// ReportsStorage — интерфейс для работы с отчётами
type ReportsStorage interface {
	// CreateReport создаёт новый отчёт (metadata + optional data for memory mode)
	CreateReport(ctx context.Context, report *ReportMeta) error

	// GetReport возвращает отчёт по ID
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)

	// ListReports возвращает список отчётов профиля с пагинацией
	ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]ReportMeta, error)

	// DeleteReport удаляет отчёт (metadata и данные)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// ReportMeta — метаданные отчёта
type ReportMeta struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Format    string  // "pdf" or "csv"
	FromDate  string  // YYYY-MM-DD
	ToDate    string  // YYYY-MM-DD
	ObjectKey *string // S3 object key (NULL for memory mode)
	SizeBytes int64
	Status    string // "ready" or "failed"
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      []byte // Only used in memory mode (not stored in DB)
}
