package energy

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/energy-hub/internal/notify"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/fdg312/energy-hub/internal/storage/memory"
	"github.com/google/uuid"
)

func setup(t *testing.T) (*memory.MemoryStorage, *Handler, uuid.UUID) {
	t.Helper()

	store := memory.New()
	service := NewService(store, notify.NewHub())
	handler := NewHandler(service)

	profile := &storage.Profile{
		OwnerUserID:   "default",
		Name:          "Test",
		BirthDate:     time.Now().AddDate(-30, 0, -1),
		Sex:           "male",
		HeightCm:      180,
		WeightKg:      80,
		ActivityLevel: "moderate",
		Goal:          "lose",
	}
	if err := store.CreateProfile(context.Background(), profile); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	return store, handler, profile.ID
}

func TestHandleRecalculate(t *testing.T) {
	_, handler, profileID := setup(t)

	body, _ := json.Marshal(RecalculateRequest{ProfileID: profileID})

	req := httptest.NewRequest(http.MethodPost, "/v1/energy/recalculate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleRecalculate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp EnergyRecordDTO
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// 30y male, 180cm, 80kg, moderate, lose
	if resp.BMR != 1780 {
		t.Errorf("BMR = %v, want 1780", resp.BMR)
	}
	if resp.TDEE != 2759 {
		t.Errorf("TDEE = %v, want 2759", resp.TDEE)
	}
	if resp.TargetCalories != 2259 {
		t.Errorf("target = %v, want 2259", resp.TargetCalories)
	}
	if resp.Formula != FormulaMifflinStJeor {
		t.Errorf("formula = %s, want default mifflin_st_jeor", resp.Formula)
	}
}

func TestHandleRecalculateInvalidInput(t *testing.T) {
	store, handler, profileID := setup(t)

	profile, _ := store.GetProfile(context.Background(), profileID)
	profile.WeightKg = 0
	if err := store.UpdateProfile(context.Background(), profile); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	body, _ := json.Marshal(RecalculateRequest{ProfileID: profileID})

	req := httptest.NewRequest(http.MethodPost, "/v1/energy/recalculate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleRecalculate(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Error.Code != "invalid_weight_kg" {
		t.Errorf("expected error code 'invalid_weight_kg', got %s", resp.Error.Code)
	}

	// Ничего не должно быть сохранено
	if _, ok, _ := store.GetLatestEnergyRecord(context.Background(), profileID); ok {
		t.Error("record persisted despite validation failure")
	}
}

func TestHandleLatestPrefersNewest(t *testing.T) {
	_, handler, profileID := setup(t)

	for _, formula := range []string{FormulaHarrisBenedict, FormulaMifflinStJeor} {
		body, _ := json.Marshal(RecalculateRequest{ProfileID: profileID, Formula: formula})
		req := httptest.NewRequest(http.MethodPost, "/v1/energy/recalculate", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.HandleRecalculate(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("recalculate %s: status %d", formula, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/energy/latest?profile_id="+profileID.String(), nil)
	w := httptest.NewRecorder()

	handler.HandleLatest(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp EnergyRecordDTO
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Formula != FormulaMifflinStJeor {
		t.Errorf("latest formula = %s, want the second calculation", resp.Formula)
	}
}

func TestHandleLatestNoRecords(t *testing.T) {
	_, handler, profileID := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/energy/latest?profile_id="+profileID.String(), nil)
	w := httptest.NewRecorder()

	handler.HandleLatest(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestHandleHistory(t *testing.T) {
	_, handler, profileID := setup(t)

	for i := 0; i < 3; i++ {
		body, _ := json.Marshal(RecalculateRequest{ProfileID: profileID})
		req := httptest.NewRequest(http.MethodPost, "/v1/energy/recalculate", bytes.NewReader(body))
		w := httptest.NewRecorder()
		handler.HandleRecalculate(w, req)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/energy/history?profile_id="+profileID.String(), nil)
	w := httptest.NewRecorder()

	handler.HandleHistory(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp HistoryResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Records) != 3 {
		t.Errorf("expected 3 records, got %d", len(resp.Records))
	}
}
