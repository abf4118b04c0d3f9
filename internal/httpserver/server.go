package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/fdg312/energy-hub/internal/auth"
	"github.com/fdg312/energy-hub/internal/blob"
	"github.com/fdg312/energy-hub/internal/config"
	"github.com/fdg312/energy-hub/internal/dashboard"
	"github.com/fdg312/energy-hub/internal/energy"
	"github.com/fdg312/energy-hub/internal/favorites"
	"github.com/fdg312/energy-hub/internal/logbook"
	"github.com/fdg312/energy-hub/internal/notify"
	"github.com/fdg312/energy-hub/internal/profiles"
	"github.com/fdg312/energy-hub/internal/reports"
	"github.com/fdg312/energy-hub/internal/storage"
	"github.com/fdg312/energy-hub/internal/storage/memory"
	"github.com/fdg312/energy-hub/internal/storage/postgres"
)

// Store объединяет все storage интерфейсы. Memory и Postgres реализации
// покрывают его целиком, поэтому сервисы получают одно и то же значение.
type Store interface {
	storage.Storage
	storage.EnergyStorage
	storage.FoodItemsStorage
	storage.MealsStorage
	storage.WaterStorage
	storage.SleepStorage
	storage.ReportsStorage
}

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	store          Store
	hub            *notify.Hub
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
		hub:    notify.NewHub(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.store = memory.New()
	} else {
		log.Println("Подключение к PostgreSQL...")
		ctx := context.Background()
		pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
		if err != nil {
			log.Printf("Ошибка подключения к PostgreSQL: %v", err)
			log.Println("Fallback на in-memory storage")
			s.store = memory.New()
		} else {
			log.Println("PostgreSQL подключен успешно")
			s.store = pgStorage
		}
	}
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandler(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Favorites живут поверх лога еды и переживают удаление записей,
	// поэтому у них собственный store.
	favService := favorites.NewService(favorites.NewMemoryStore(), s.hub)
	favHandler := favorites.NewHandler(favService)

	// Profiles API
	profileService := profiles.NewService(s.store, s.hub, favService)
	profileHandler := profiles.NewHandler(profileService)

	// GET /v1/profiles - list all profiles
	s.mux.HandleFunc("GET /v1/profiles", profileHandler.HandleList)

	// POST /v1/profiles - create profile
	s.mux.HandleFunc("POST /v1/profiles", profileHandler.HandleCreate)

	// GET /v1/profiles/{id} - get profile
	s.mux.HandleFunc("GET /v1/profiles/", profileHandler.HandleGet)

	// PATCH /v1/profiles/{id} - update profile
	s.mux.HandleFunc("PATCH /v1/profiles/", profileHandler.HandleUpdate)

	// DELETE /v1/profiles/{id} - delete profile (cascades to all logs)
	s.mux.HandleFunc("DELETE /v1/profiles/", profileHandler.HandleDelete)

	// Energy API
	energyService := energy.NewService(s.store, s.hub)
	energyHandler := energy.NewHandler(energyService)

	// POST /v1/energy/recalculate - compute BMR/TDEE/target and append to history
	s.mux.HandleFunc("POST /v1/energy/recalculate", energyHandler.HandleRecalculate)

	// GET /v1/energy/latest - active (most recent) energy record
	s.mux.HandleFunc("GET /v1/energy/latest", energyHandler.HandleLatest)

	// GET /v1/energy/history - past calculations, newest first
	s.mux.HandleFunc("GET /v1/energy/history", energyHandler.HandleHistory)

	// GET /v1/energy/advice - numeric context for the external advice generator
	s.mux.HandleFunc("GET /v1/energy/advice", energyHandler.HandleAdvice)

	// Logbook API (food catalog, meals, water, sleep)
	logbookService := logbook.NewService(s.store, s.hub, logbook.WaterLimits{
		DefaultMl: s.config.WaterDefaultAddMl,
		MaxMl:     s.config.WaterMaxMlPerDay,
	})
	logbookHandler := logbook.NewHandler(logbookService)

	// POST /v1/food-items - create food catalog item
	s.mux.HandleFunc("POST /v1/food-items", logbookHandler.HandleCreateFoodItem)

	// GET /v1/food-items - search food catalog
	s.mux.HandleFunc("GET /v1/food-items", logbookHandler.HandleListFoodItems)

	// DELETE /v1/food-items/{id} - delete food catalog item
	s.mux.HandleFunc("DELETE /v1/food-items/", logbookHandler.HandleDeleteFoodItem)

	// POST /v1/logs/meals - log a meal
	s.mux.HandleFunc("POST /v1/logs/meals", logbookHandler.HandleLogMeal)

	// GET /v1/logs/meals - list meals for a day
	s.mux.HandleFunc("GET /v1/logs/meals", logbookHandler.HandleListMeals)

	// DELETE /v1/logs/meals/{id} - delete meal entry
	s.mux.HandleFunc("DELETE /v1/logs/meals/", logbookHandler.HandleDeleteMeal)

	// POST /v1/logs/water - add water
	s.mux.HandleFunc("POST /v1/logs/water", logbookHandler.HandleAddWater)

	// POST /v1/logs/water/remove - undo water
	s.mux.HandleFunc("POST /v1/logs/water/remove", logbookHandler.HandleRemoveWater)

	// GET /v1/logs/water - water total for a day
	s.mux.HandleFunc("GET /v1/logs/water", logbookHandler.HandleGetWater)

	// PUT /v1/logs/sleep - upsert sleep for a day
	s.mux.HandleFunc("PUT /v1/logs/sleep", logbookHandler.HandleUpsertSleep)

	// GET /v1/logs/sleep - sleep record for a day
	s.mux.HandleFunc("GET /v1/logs/sleep", logbookHandler.HandleGetSleep)

	// Dashboard API
	dashboardService := dashboard.NewService(s.store, s.hub, favService)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// GET /v1/dashboard/day - day summary
	s.mux.HandleFunc("GET /v1/dashboard/day", dashboardHandler.HandleDay)

	// GET /v1/dashboard/trend - N-day trend window
	s.mux.HandleFunc("GET /v1/dashboard/trend", dashboardHandler.HandleTrend)

	// GET /v1/dashboard/watch - live snapshots over SSE
	s.mux.HandleFunc("GET /v1/dashboard/watch", dashboardHandler.HandleWatch)

	// POST /v1/favorites/toggle - toggle meal favorite
	s.mux.HandleFunc("POST /v1/favorites/toggle", favHandler.HandleToggle)

	// GET /v1/favorites - list favorites
	s.mux.HandleFunc("GET /v1/favorites", favHandler.HandleList)

	// Reports API
	reportsBlobStore := s.initBlobStore()
	reportsService := reports.NewService(
		s.store,
		reportsBlobStore,
		s.config.ReportsMaxRangeDays,
		s.config.Blob.S3.PresignTTLSeconds,
		s.config.Blob.S3.PublicBaseURL,
		s.config.Blob.S3.PreferPublicURL,
	)
	reportsHandler := reports.NewHandler(reportsService)

	// POST /v1/reports - create report
	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)

	// GET /v1/reports - list reports
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleList)

	// GET /v1/reports/{id}/download - download report
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)

	// DELETE /v1/reports/{id} - delete report
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)
}

// initBlobStore инициализирует blob store для отчётов.
// nil store означает local режим: байты отчёта хранятся в metadata.
func (s *Server) initBlobStore() blob.Store {
	log.Printf("INFO blob: initializing reports store (BLOB_MODE=%s)", s.config.Blob.Mode)
	store, mode, err := blob.NewBlobStore(s.config.Blob, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize reports store: %v", err)
	}
	log.Printf("INFO blob: reports blob mode: %s", mode)
	return store
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	// Build middleware chain (outermost first): CORS → Rate Limit → Auth → Router
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Profiles API: http://localhost%s/v1/profiles\n", addr)

	return http.ListenAndServe(addr, handler)
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
