package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fdg312/energy-hub/internal/config"
)

func TestHealthz(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", resp["status"])
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

// Сквозной сценарий через роутер: профиль → расчёт → лог → дашборд
func TestProfileToDashboardFlow(t *testing.T) {
	cfg := &config.Config{Port: 8080, WaterDefaultAddMl: 250, WaterMaxMlPerDay: 5000, ReportsMaxRangeDays: 92}
	srv := New(cfg)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		t.Helper()
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		srv.mux.ServeHTTP(w, req)
		return w
	}

	// Создаём профиль
	w := do(http.MethodPost, "/v1/profiles", `{
		"name": "Ivan",
		"birth_date": "1990-05-15",
		"sex": "male",
		"height_cm": 180,
		"weight_kg": 80,
		"activity_level": "moderate",
		"goal": "lose"
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create profile: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var profile struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}

	// Пересчитываем энергозатраты
	w = do(http.MethodPost, "/v1/energy/recalculate", `{"profile_id": "`+profile.ID+`"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("recalculate: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = do(http.MethodGet, "/v1/energy/latest?profile_id="+profile.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("latest: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Добавляем воду и смотрим дашборд
	w = do(http.MethodPost, "/v1/logs/water", `{"profile_id": "`+profile.ID+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("add water: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = do(http.MethodGet, "/v1/dashboard/day?profile_id="+profile.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard day: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var summary struct {
		WaterMl int `json:"water_ml"`
	}
	if err := json.NewDecoder(w.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.WaterMl != 250 {
		t.Errorf("water total = %d, want 250 (default serving)", summary.WaterMl)
	}

	// Удаляем профиль — каскад и 404 после
	w = do(http.MethodDelete, "/v1/profiles/"+profile.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete profile: expected 204, got %d: %s", w.Code, w.Body.String())
	}

	w = do(http.MethodGet, "/v1/profiles/"+profile.ID, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected 404, got %d", w.Code)
	}
}
