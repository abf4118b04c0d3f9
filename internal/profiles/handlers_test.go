package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/energy-hub/internal/favorites"
	"github.com/fdg312/energy-hub/internal/notify"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/fdg312/energy-hub/internal/storage/memory"
	"github.com/google/uuid"
)

func newHandler(store *memory.MemoryStorage) (*Handler, *Service, *notify.Hub) {
	hub := notify.NewHub()
	fav := favorites.NewService(favorites.NewMemoryStore(), hub)
	service := NewService(store, hub, fav)
	return NewHandler(service), service, hub
}

func validCreateRequest() CreateProfileRequest {
	return CreateProfileRequest{
		Name:          "Alex",
		BirthDate:     "1995-04-20",
		Sex:           "male",
		HeightCm:      180,
		WeightKg:      80,
		ActivityLevel: "moderate",
		Goal:          "lose",
	}
}

func TestHandleCreate(t *testing.T) {
	handler, _, _ := newHandler(memory.New())

	body, _ := json.Marshal(validCreateRequest())

	req := httptest.NewRequest(http.MethodPost, "/v1/profiles", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleCreate(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp ProfileDTO
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Name != "Alex" {
		t.Errorf("expected name 'Alex', got %s", resp.Name)
	}
	if resp.BirthDate != "1995-04-20" {
		t.Errorf("expected birth date 1995-04-20, got %s", resp.BirthDate)
	}
}

func TestHandleCreateValidation(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*CreateProfileRequest)
		wantCode string
	}{
		{"empty name", func(r *CreateProfileRequest) { r.Name = "  " }, "empty_name"},
		{"bad birth date", func(r *CreateProfileRequest) { r.BirthDate = "20-04-1995" }, "invalid_birth_date"},
		{"future birth date", func(r *CreateProfileRequest) { r.BirthDate = "2999-01-01" }, "invalid_birth_date"},
		{"bad sex", func(r *CreateProfileRequest) { r.Sex = "x" }, "invalid_sex"},
		{"zero height", func(r *CreateProfileRequest) { r.HeightCm = 0 }, "invalid_body"},
		{"bad activity", func(r *CreateProfileRequest) { r.ActivityLevel = "couch" }, "invalid_activity_level"},
		{"bad goal", func(r *CreateProfileRequest) { r.Goal = "shred" }, "invalid_goal"},
		{"bad zone", func(r *CreateProfileRequest) { r.TimeZone = "Mars/Olympus" }, "invalid_time_zone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler, _, _ := newHandler(memory.New())

			reqBody := validCreateRequest()
			tc.mutate(&reqBody)
			body, _ := json.Marshal(reqBody)

			req := httptest.NewRequest(http.MethodPost, "/v1/profiles", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.HandleCreate(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", w.Code)
			}

			var resp ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Error.Code != tc.wantCode {
				t.Errorf("expected error code %q, got %q", tc.wantCode, resp.Error.Code)
			}
		})
	}
}

func TestHandleUpdatePartial(t *testing.T) {
	handler, service, _ := newHandler(memory.New())

	created, err := service.CreateProfile(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newWeight := 77.5
	body, _ := json.Marshal(UpdateProfileRequest{WeightKg: &newWeight})

	req := httptest.NewRequest(http.MethodPatch, "/v1/profiles/"+created.ID.String(), bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.HandleUpdate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp ProfileDTO
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.WeightKg != 77.5 {
		t.Errorf("weight = %v, want 77.5", resp.WeightKg)
	}
	// Остальные поля не тронуты
	if resp.Name != "Alex" || resp.HeightCm != 180 {
		t.Errorf("untouched fields changed: %+v", resp)
	}
}

func TestHandleDeleteCascades(t *testing.T) {
	store := memory.New()
	handler, service, hub := newHandler(store)
	ctx := context.Background()

	created, err := service.CreateProfile(ctx, validCreateRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	store.InsertEnergyRecord(ctx, &storage.EnergyRecord{ProfileID: created.ID, TargetCalories: 2259})
	store.InsertMeal(ctx, &storage.MealEntry{ProfileID: created.ID, Day: "2025-06-10", Calories: 500})
	store.AddWater(ctx, created.ID, "2025-06-10", 250)

	// Watcher должен получить терминальное событие
	events, stopSub := hub.Subscribe(created.ID)
	defer stopSub()

	req := httptest.NewRequest(http.MethodDelete, "/v1/profiles/"+created.ID.String(), nil)
	w := httptest.NewRecorder()

	handler.HandleDelete(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", w.Code)
	}

	if _, err := store.GetProfile(ctx, created.ID); err == nil {
		t.Error("profile still queryable after delete")
	}
	if _, ok, _ := store.GetLatestEnergyRecord(ctx, created.ID); ok {
		t.Error("energy record survived cascade")
	}
	if meals, _ := store.ListMeals(ctx, created.ID, "0000-01-01", "9999-12-31"); len(meals) != 0 {
		t.Error("meal entries survived cascade")
	}
	if _, ok, _ := store.GetWaterDay(ctx, created.ID, "2025-06-10"); ok {
		t.Error("water day survived cascade")
	}

	select {
	case e := <-events:
		if !e.Deleted {
			t.Error("expected terminal deletion event")
		}
	default:
		t.Error("no deletion event published")
	}
}

func TestHandleDeleteMissing(t *testing.T) {
	handler, _, _ := newHandler(memory.New())

	req := httptest.NewRequest(http.MethodDelete, "/v1/profiles/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()

	handler.HandleDelete(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestHandleList(t *testing.T) {
	handler, service, _ := newHandler(memory.New())

	if _, err := service.CreateProfile(context.Background(), validCreateRequest()); err != nil {
		t.Fatalf("create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/profiles", nil)
	w := httptest.NewRecorder()

	handler.HandleList(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp ProfilesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Profiles) != 1 {
		t.Errorf("expected 1 profile, got %d", len(resp.Profiles))
	}
}
