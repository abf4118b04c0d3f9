package energy

import (
	"context"
	"errors"
	"time"

	"github.com/fdg312/energy-hub/internal/notify"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoRecords       = errors.New("profile has no energy records")
)

// Storage — то, что сервису нужно от хранилища
type Storage interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error)
	InsertEnergyRecord(ctx context.Context, record *storage.EnergyRecord) error
	GetLatestEnergyRecord(ctx context.Context, profileID uuid.UUID) (storage.EnergyRecord, bool, error)
	ListEnergyRecords(ctx context.Context, profileID uuid.UUID, limit int) ([]storage.EnergyRecord, error)
}

// Service содержит бизнес-логику расчётов энергозатрат
type Service struct {
	storage Storage
	hub     *notify.Hub
}

func NewService(st Storage, hub *notify.Hub) *Service {
	return &Service{storage: st, hub: hub}
}

// Recalculate runs the formula for the profile's current attributes and
// appends a new record. History is never mutated: the fresh record
// becomes active by having the newest created_at.
func (s *Service) Recalculate(ctx context.Context, req RecalculateRequest) (*EnergyRecordDTO, error) {
	profile, err := s.storage.GetProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, ErrProfileNotFound
	}

	formula := req.Formula
	if formula == "" {
		formula = FormulaMifflinStJeor
	}

	result, err := Compute(FormulaInputs{
		AgeYears:      ageYears(profile.BirthDate, time.Now()),
		Sex:           profile.Sex,
		HeightCm:      profile.HeightCm,
		WeightKg:      profile.WeightKg,
		ActivityLevel: profile.ActivityLevel,
		Goal:          profile.Goal,
		Formula:       formula,
	})
	if err != nil {
		return nil, err
	}

	record := &storage.EnergyRecord{
		ProfileID:          profile.ID,
		Formula:            result.Formula,
		BMR:                result.BMR,
		ActivityMultiplier: result.ActivityMultiplier,
		TDEE:               result.TDEE,
		TargetCalories:     result.TargetCalories,
		ProteinG:           result.ProteinG,
		CarbsG:             result.CarbsG,
		FatG:               result.FatG,
	}

	if err := s.storage.InsertEnergyRecord(ctx, record); err != nil {
		return nil, err
	}

	s.hub.Publish(notify.Event{ProfileID: profile.ID, Topic: notify.TopicEnergy})

	dto := toDTO(*record)
	return &dto, nil
}

// Latest возвращает активную запись профиля
func (s *Service) Latest(ctx context.Context, profileID uuid.UUID) (*EnergyRecordDTO, error) {
	if _, err := s.storage.GetProfile(ctx, profileID); err != nil {
		return nil, ErrProfileNotFound
	}

	record, ok, err := s.storage.GetLatestEnergyRecord(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoRecords
	}

	dto := toDTO(record)
	return &dto, nil
}

// History возвращает историю расчётов, новые первыми
func (s *Service) History(ctx context.Context, profileID uuid.UUID, limit int) ([]EnergyRecordDTO, error) {
	if _, err := s.storage.GetProfile(ctx, profileID); err != nil {
		return nil, ErrProfileNotFound
	}

	records, err := s.storage.ListEnergyRecords(ctx, profileID, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]EnergyRecordDTO, 0, len(records))
	for _, r := range records {
		dtos = append(dtos, toDTO(r))
	}

	return dtos, nil
}

// Advice возвращает числовой контекст активной записи для внешнего
// генератора советов
func (s *Service) Advice(ctx context.Context, profileID uuid.UUID) (*AdviceContext, error) {
	record, ok, err := s.storage.GetLatestEnergyRecord(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoRecords
	}

	return &AdviceContext{
		BMR:            record.BMR,
		TDEE:           record.TDEE,
		TargetCalories: record.TargetCalories,
		ProteinG:       record.ProteinG,
		CarbsG:         record.CarbsG,
		FatG:           record.FatG,
	}, nil
}

func toDTO(r storage.EnergyRecord) EnergyRecordDTO {
	return EnergyRecordDTO{
		ID:                 r.ID,
		ProfileID:          r.ProfileID,
		Formula:            r.Formula,
		BMR:                r.BMR,
		ActivityMultiplier: r.ActivityMultiplier,
		TDEE:               r.TDEE,
		TargetCalories:     r.TargetCalories,
		ProteinG:           r.ProteinG,
		CarbsG:             r.CarbsG,
		FatG:               r.FatG,
		CreatedAt:          r.CreatedAt,
	}
}

// ageYears считает полные годы между датой рождения и now
func ageYears(birthDate, now time.Time) int {
	years := now.Year() - birthDate.Year()
	anniversary := birthDate.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	return years
}
