package logbook

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fdg312/energy-hub/internal/aggregate"
	"github.com/fdg312/energy-hub/internal/daykey"
	"github.com/fdg312/energy-hub/internal/notify"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNotFound        = errors.New("entry not found")
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidAmount   = errors.New("amount out of range")
	ErrInvalidQuality  = errors.New("quality must be between 0 and 4")
	ErrInvalidDate     = errors.New("invalid date")
)

// WaterLimits — пределы для одного добавления воды
type WaterLimits struct {
	DefaultMl int // порция при amount_ml = 0
	MaxMl     int // максимум за одно добавление
}

// Storage — то, что сервису нужно от хранилища
type Storage interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error)

	CreateFoodItem(ctx context.Context, item *storage.FoodItem) error
	GetFoodItem(ctx context.Context, id uuid.UUID) (*storage.FoodItem, error)
	ListFoodItems(ctx context.Context, profileID uuid.UUID, query string, limit, offset int) ([]storage.FoodItem, error)
	DeleteFoodItem(ctx context.Context, id uuid.UUID) error

	InsertMeal(ctx context.Context, entry *storage.MealEntry) error
	ListMeals(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.MealEntry, error)
	GetMeal(ctx context.Context, id uuid.UUID) (*storage.MealEntry, error)
	DeleteMeal(ctx context.Context, id uuid.UUID) error

	AddWater(ctx context.Context, profileID uuid.UUID, day string, amountMl int) (storage.WaterDay, error)
	RemoveWater(ctx context.Context, profileID uuid.UUID, day string, amountMl int) (storage.WaterDay, error)
	GetWaterDay(ctx context.Context, profileID uuid.UUID, day string) (storage.WaterDay, bool, error)

	UpsertSleep(ctx context.Context, entry *storage.SleepEntry) error
	GetSleepDay(ctx context.Context, profileID uuid.UUID, day string) (storage.SleepEntry, bool, error)
}

// Service содержит бизнес-логику логов еды, воды и сна
type Service struct {
	storage Storage
	hub     *notify.Hub
	water   WaterLimits
	now     func() time.Time
}

func NewService(st Storage, hub *notify.Hub, water WaterLimits) *Service {
	if water.DefaultMl <= 0 {
		water.DefaultMl = 250
	}
	if water.MaxMl <= 0 {
		water.MaxMl = 5000
	}
	return &Service{
		storage: st,
		hub:     hub,
		water:   water,
		now:     time.Now,
	}
}

// CreateFoodItem добавляет позицию в каталог еды профиля
func (s *Service) CreateFoodItem(ctx context.Context, req CreateFoodItemRequest) (*FoodItemDTO, error) {
	if _, err := s.storage.GetProfile(ctx, req.ProfileID); err != nil {
		return nil, ErrProfileNotFound
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrEmptyName
	}
	if req.KcalPer100g < 0 || req.ProteinGPer100g < 0 || req.CarbsGPer100g < 0 || req.FatGPer100g < 0 {
		return nil, ErrInvalidQuantity
	}

	item := &storage.FoodItem{
		ProfileID:       req.ProfileID,
		Name:            strings.TrimSpace(req.Name),
		KcalPer100g:     req.KcalPer100g,
		ProteinGPer100g: req.ProteinGPer100g,
		CarbsGPer100g:   req.CarbsGPer100g,
		FatGPer100g:     req.FatGPer100g,
	}

	if err := s.storage.CreateFoodItem(ctx, item); err != nil {
		return nil, err
	}

	dto := foodItemToDTO(*item)
	return &dto, nil
}

// ListFoodItems возвращает каталог еды с поиском по подстроке
func (s *Service) ListFoodItems(ctx context.Context, profileID uuid.UUID, query string, limit, offset int) ([]FoodItemDTO, error) {
	items, err := s.storage.ListFoodItems(ctx, profileID, query, limit, offset)
	if err != nil {
		return nil, err
	}

	dtos := make([]FoodItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, foodItemToDTO(item))
	}
	return dtos, nil
}

// DeleteFoodItem удаляет позицию каталога
func (s *Service) DeleteFoodItem(ctx context.Context, id uuid.UUID) error {
	if err := s.storage.DeleteFoodItem(ctx, id); err != nil {
		return ErrNotFound
	}
	return nil
}

// LogMeal records a meal: macros are computed here from the catalog
// item and the logged quantity, then frozen into the entry. Later
// catalog edits never rewrite history.
func (s *Service) LogMeal(ctx context.Context, req LogMealRequest) (*MealEntryDTO, error) {
	profile, err := s.storage.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	if req.QuantityG <= 0 {
		return nil, ErrInvalidQuantity
	}

	item, err := s.storage.GetFoodItem(ctx, req.FoodItemID)
	if err != nil {
		return nil, ErrNotFound
	}

	eatenAt := s.now()
	if req.EatenAt != nil {
		eatenAt = *req.EatenAt
	}

	factor := req.QuantityG / 100
	entry := &storage.MealEntry{
		ProfileID:  profile.ID,
		Day:        s.dayKey(profile, eatenAt),
		EatenAt:    eatenAt,
		FoodItemID: item.ID,
		FoodName:   item.Name,
		QuantityG:  req.QuantityG,
		Calories:   item.KcalPer100g * factor,
		ProteinG:   item.ProteinGPer100g * factor,
		CarbsG:     item.CarbsGPer100g * factor,
		FatG:       item.FatGPer100g * factor,
	}

	if err := s.storage.InsertMeal(ctx, entry); err != nil {
		return nil, err
	}

	s.hub.Publish(notify.Event{ProfileID: profile.ID, Topic: notify.TopicMeals})

	dto := mealToDTO(*entry)
	return &dto, nil
}

// ListMealsForDay возвращает записи еды за день
func (s *Service) ListMealsForDay(ctx context.Context, profileID uuid.UUID, day string) ([]MealEntryDTO, error) {
	if err := daykey.Validate(day); err != nil {
		return nil, ErrInvalidDate
	}

	entries, err := s.storage.ListMeals(ctx, profileID, day, day)
	if err != nil {
		return nil, err
	}

	dtos := make([]MealEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, mealToDTO(e))
	}
	return dtos, nil
}

// DeleteMeal удаляет запись о приёме пищи
func (s *Service) DeleteMeal(ctx context.Context, id uuid.UUID) error {
	entry, err := s.storage.GetMeal(ctx, id)
	if err != nil {
		return ErrNotFound
	}

	if err := s.storage.DeleteMeal(ctx, id); err != nil {
		return ErrNotFound
	}

	s.hub.Publish(notify.Event{ProfileID: entry.ProfileID, Topic: notify.TopicMeals})
	return nil
}

// AddWater добавляет воду к итогу текущего дня профиля
func (s *Service) AddWater(ctx context.Context, req WaterRequest) (*WaterDayDTO, error) {
	profile, err := s.storage.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	amount := req.AmountMl
	if amount == 0 {
		amount = s.water.DefaultMl
	}
	if amount < 0 || amount > s.water.MaxMl {
		return nil, ErrInvalidAmount
	}

	day, err := s.storage.AddWater(ctx, profile.ID, s.dayKey(profile, s.now()), amount)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(notify.Event{ProfileID: profile.ID, Topic: notify.TopicWater})

	dto := waterToDTO(day)
	return &dto, nil
}

// RemoveWater убирает одно добавление воды из текущего дня
func (s *Service) RemoveWater(ctx context.Context, req WaterRequest) (*WaterDayDTO, error) {
	profile, err := s.storage.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	amount := req.AmountMl
	if amount == 0 {
		amount = s.water.DefaultMl
	}
	if amount < 0 || amount > s.water.MaxMl {
		return nil, ErrInvalidAmount
	}

	day, err := s.storage.RemoveWater(ctx, profile.ID, s.dayKey(profile, s.now()), amount)
	if err != nil {
		return nil, err
	}

	s.hub.Publish(notify.Event{ProfileID: profile.ID, Topic: notify.TopicWater})

	dto := waterToDTO(day)
	return &dto, nil
}

// GetWaterDay возвращает итог воды за день; отсутствие записи — это
// нулевой итог, не ошибка
func (s *Service) GetWaterDay(ctx context.Context, profileID uuid.UUID, day string) (*WaterDayDTO, error) {
	if err := daykey.Validate(day); err != nil {
		return nil, ErrInvalidDate
	}

	stored, ok, err := s.storage.GetWaterDay(ctx, profileID, day)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &WaterDayDTO{ProfileID: profileID, Day: day}, nil
	}

	dto := waterToDTO(stored)
	return &dto, nil
}

// UpsertSleep creates or replaces the single sleep record of the day
// the wake time falls on. Duration comes from bed/wake, clamped to
// [0, 24h]; quality is an independent 0-4 score.
func (s *Service) UpsertSleep(ctx context.Context, req SleepRequest) (*SleepDTO, error) {
	profile, err := s.storage.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, ErrProfileNotFound
	}
	if req.Quality < 0 || req.Quality > 4 {
		return nil, ErrInvalidQuality
	}

	entry := &storage.SleepEntry{
		ProfileID:   profile.ID,
		Day:         s.dayKey(profile, req.WakeAt),
		BedAt:       req.BedAt,
		WakeAt:      req.WakeAt,
		DurationMin: aggregate.SleepDuration(req.BedAt, req.WakeAt),
		Quality:     req.Quality,
	}

	if err := s.storage.UpsertSleep(ctx, entry); err != nil {
		return nil, err
	}

	s.hub.Publish(notify.Event{ProfileID: profile.ID, Topic: notify.TopicSleep})

	dto := sleepToDTO(*entry)
	return &dto, nil
}

// GetSleepDay возвращает запись сна за день
func (s *Service) GetSleepDay(ctx context.Context, profileID uuid.UUID, day string) (*SleepDTO, error) {
	if err := daykey.Validate(day); err != nil {
		return nil, ErrInvalidDate
	}

	entry, ok, err := s.storage.GetSleepDay(ctx, profileID, day)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	dto := sleepToDTO(entry)
	return &dto, nil
}

// dayKey derives the canonical day key in the profile's zone. The key
// is computed exactly once here, at write time.
func (s *Service) dayKey(profile *storage.Profile, t time.Time) string {
	loc := time.UTC
	if profile.TimeZone != "" {
		if parsed, err := time.LoadLocation(profile.TimeZone); err == nil {
			loc = parsed
		}
	}
	return daykey.FromTime(t, loc)
}

func foodItemToDTO(item storage.FoodItem) FoodItemDTO {
	return FoodItemDTO{
		ID:              item.ID,
		ProfileID:       item.ProfileID,
		Name:            item.Name,
		KcalPer100g:     item.KcalPer100g,
		ProteinGPer100g: item.ProteinGPer100g,
		CarbsGPer100g:   item.CarbsGPer100g,
		FatGPer100g:     item.FatGPer100g,
		CreatedAt:       item.CreatedAt,
	}
}

func mealToDTO(e storage.MealEntry) MealEntryDTO {
	return MealEntryDTO{
		ID:         e.ID,
		ProfileID:  e.ProfileID,
		Day:        e.Day,
		EatenAt:    e.EatenAt,
		FoodItemID: e.FoodItemID,
		FoodName:   e.FoodName,
		QuantityG:  e.QuantityG,
		Calories:   e.Calories,
		ProteinG:   e.ProteinG,
		CarbsG:     e.CarbsG,
		FatG:       e.FatG,
		CreatedAt:  e.CreatedAt,
	}
}

func waterToDTO(d storage.WaterDay) WaterDayDTO {
	return WaterDayDTO{
		ProfileID: d.ProfileID,
		Day:       d.Day,
		TotalMl:   d.TotalMl,
		Count:     d.Count,
	}
}

func sleepToDTO(e storage.SleepEntry) SleepDTO {
	return SleepDTO{
		ID:          e.ID,
		ProfileID:   e.ProfileID,
		Day:         e.Day,
		BedAt:       e.BedAt,
		WakeAt:      e.WakeAt,
		DurationMin: e.DurationMin,
		Quality:     e.Quality,
	}
}
