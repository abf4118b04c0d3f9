package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fdg312/energy-hub/internal/daykey"
	"github.com/fdg312/energy-hub/internal/energy"
	"github.com/fdg312/energy-hub/internal/favorites"
	"github.com/fdg312/energy-hub/internal/notify"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/fdg312/energy-hub/internal/userctx"
	"github.com/google/uuid"
)

var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidBirth    = errors.New("invalid birth date")
	ErrInvalidSex      = errors.New("sex must be male or female")
	ErrInvalidBody     = errors.New("height and weight must be positive")
	ErrInvalidActivity = errors.New("unknown activity level")
	ErrInvalidGoal     = errors.New("unknown goal")
	ErrInvalidTimeZone = errors.New("unknown time zone")
	ErrNotFound        = errors.New("profile not found")
)

// Service содержит бизнес-логику профилей
type Service struct {
	storage   storage.Storage
	hub       *notify.Hub
	favorites *favorites.Service
}

func NewService(st storage.Storage, hub *notify.Hub, fav *favorites.Service) *Service {
	return &Service{storage: st, hub: hub, favorites: fav}
}

// ListProfiles возвращает профили текущего owner-а
func (s *Service) ListProfiles(ctx context.Context) ([]ProfileDTO, error) {
	userID := userIDFromContext(ctx)

	profiles, err := s.storage.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]ProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		if p.OwnerUserID != userID {
			continue
		}
		dtos = append(dtos, toDTO(p))
	}

	return dtos, nil
}

// GetProfile возвращает профиль по ID
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*ProfileDTO, error) {
	userID := userIDFromContext(ctx)

	profile, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if profile.OwnerUserID != userID {
		return nil, ErrNotFound
	}

	dto := toDTO(*profile)
	return &dto, nil
}

// CreateProfile создаёт новый профиль
func (s *Service) CreateProfile(ctx context.Context, req CreateProfileRequest) (*ProfileDTO, error) {
	userID := userIDFromContext(ctx)

	birthDate, err := validateCreate(req)
	if err != nil {
		return nil, err
	}

	profile := &storage.Profile{
		OwnerUserID:   userID,
		Name:          strings.TrimSpace(req.Name),
		BirthDate:     birthDate,
		Sex:           req.Sex,
		HeightCm:      req.HeightCm,
		WeightKg:      req.WeightKg,
		ActivityLevel: req.ActivityLevel,
		Goal:          req.Goal,
		TimeZone:      req.TimeZone,
	}

	if err := s.storage.CreateProfile(ctx, profile); err != nil {
		return nil, err
	}

	dto := toDTO(*profile)
	return &dto, nil
}

// UpdateProfile обновляет переданные поля профиля
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error) {
	userID := userIDFromContext(ctx)

	profile, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if profile.OwnerUserID != userID {
		return nil, ErrNotFound
	}

	if err := applyUpdate(profile, req); err != nil {
		return nil, err
	}

	if err := s.storage.UpdateProfile(ctx, profile); err != nil {
		return nil, err
	}

	// Изменение профиля меняет входы расчёта и "сегодня" производных
	// представлений
	s.hub.Publish(notify.Event{ProfileID: profile.ID, Topic: notify.TopicProfile})

	dto := toDTO(*profile)
	return &dto, nil
}

// DeleteProfile удаляет профиль и каскадно все его данные; watcher-ы
// получают терминальное событие
func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	userID := userIDFromContext(ctx)

	profile, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if profile.OwnerUserID != userID {
		return ErrNotFound
	}

	if err := s.storage.DeleteProfile(ctx, id); err != nil {
		return err
	}

	s.favorites.Clear(id)
	s.hub.Publish(notify.Event{ProfileID: id, Topic: notify.TopicProfile, Deleted: true})

	return nil
}

func validateCreate(req CreateProfileRequest) (time.Time, error) {
	if strings.TrimSpace(req.Name) == "" {
		return time.Time{}, ErrEmptyName
	}

	birthDate, err := time.Parse(daykey.Layout, req.BirthDate)
	if err != nil || !birthDate.Before(time.Now()) {
		return time.Time{}, ErrInvalidBirth
	}

	if req.Sex != "male" && req.Sex != "female" {
		return time.Time{}, ErrInvalidSex
	}
	if req.HeightCm <= 0 || req.WeightKg <= 0 {
		return time.Time{}, ErrInvalidBody
	}
	if !energy.ValidActivityLevel(req.ActivityLevel) {
		return time.Time{}, ErrInvalidActivity
	}
	if !energy.ValidGoal(req.Goal) {
		return time.Time{}, ErrInvalidGoal
	}
	if req.TimeZone != "" {
		if _, err := time.LoadLocation(req.TimeZone); err != nil {
			return time.Time{}, ErrInvalidTimeZone
		}
	}

	return birthDate, nil
}

func applyUpdate(profile *storage.Profile, req UpdateProfileRequest) error {
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return ErrEmptyName
		}
		profile.Name = strings.TrimSpace(*req.Name)
	}
	if req.BirthDate != nil {
		birthDate, err := time.Parse(daykey.Layout, *req.BirthDate)
		if err != nil || !birthDate.Before(time.Now()) {
			return ErrInvalidBirth
		}
		profile.BirthDate = birthDate
	}
	if req.Sex != nil {
		if *req.Sex != "male" && *req.Sex != "female" {
			return ErrInvalidSex
		}
		profile.Sex = *req.Sex
	}
	if req.HeightCm != nil {
		if *req.HeightCm <= 0 {
			return ErrInvalidBody
		}
		profile.HeightCm = *req.HeightCm
	}
	if req.WeightKg != nil {
		if *req.WeightKg <= 0 {
			return ErrInvalidBody
		}
		profile.WeightKg = *req.WeightKg
	}
	if req.ActivityLevel != nil {
		if !energy.ValidActivityLevel(*req.ActivityLevel) {
			return ErrInvalidActivity
		}
		profile.ActivityLevel = *req.ActivityLevel
	}
	if req.Goal != nil {
		if !energy.ValidGoal(*req.Goal) {
			return ErrInvalidGoal
		}
		profile.Goal = *req.Goal
	}
	if req.TimeZone != nil {
		if *req.TimeZone != "" {
			if _, err := time.LoadLocation(*req.TimeZone); err != nil {
				return ErrInvalidTimeZone
			}
		}
		profile.TimeZone = *req.TimeZone
	}
	return nil
}

// toDTO конвертирует storage.Profile в ProfileDTO
func toDTO(p storage.Profile) ProfileDTO {
	return ProfileDTO{
		ID:            p.ID,
		OwnerUserID:   p.OwnerUserID,
		Name:          p.Name,
		BirthDate:     p.BirthDate.Format(daykey.Layout),
		Sex:           p.Sex,
		HeightCm:      p.HeightCm,
		WeightKg:      p.WeightKg,
		ActivityLevel: p.ActivityLevel,
		Goal:          p.Goal,
		TimeZone:      p.TimeZone,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func userIDFromContext(ctx context.Context) string {
	if userID, ok := userctx.GetUserID(ctx); ok && strings.TrimSpace(userID) != "" {
		return userID
	}
	return "default"
}
