package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/google/uuid"
)

// ReportsMemoryStorage — in-memory storage отчётов (данные хранятся
// прямо в ReportMeta.Data, blob store не нужен)
type ReportsMemoryStorage struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]*storage.ReportMeta
}

func NewReportsMemoryStorage() *ReportsMemoryStorage {
	return &ReportsMemoryStorage{
		reports: make(map[uuid.UUID]*storage.ReportMeta),
	}
}

func (s *ReportsMemoryStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
		report.UpdatedAt = report.CreatedAt
	}

	clone := *report
	s.reports[clone.ID] = &clone

	return nil
}

func (s *ReportsMemoryStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.reports[id]; ok {
		clone := *r
		return &clone, nil
	}

	return nil, ErrNotFound
}

func (s *ReportsMemoryStorage) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]storage.ReportMeta, 0)
	for _, r := range s.reports {
		if r.ProfileID == profileID {
			result = append(result, *r)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if offset > 0 {
		if offset >= len(result) {
			return []storage.ReportMeta{}, nil
		}
		result = result[offset:]
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (s *ReportsMemoryStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[id]; !ok {
		return ErrNotFound
	}

	delete(s.reports, id)
	return nil
}

func (s *ReportsMemoryStorage) deleteByProfile(profileID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.reports {
		if r.ProfileID == profileID {
			delete(s.reports, id)
		}
	}
}
