package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sorha/internal/domain/auth"
	"sorha/internal/domain/contracts"
	"sorha/internal/domain/employees"
	"sorha/internal/domain/overtime"
	"sorha/internal/domain/payroll"
	"sorha/internal/domain/productivity"
	"sorha/internal/domain/users"
	"sorha/internal/platform/config"
	"sorha/internal/platform/db"
	"sorha/internal/platform/metrics"
	"sorha/internal/transport/http/api"
	authhandler "sorha/internal/transport/http/handlers/auth"
	contractshandler "sorha/internal/transport/http/handlers/contracts"
	employeeshandler "sorha/internal/transport/http/handlers/employees"
	overtimehandler "sorha/internal/transport/http/handlers/overtime"
	payrollhandler "sorha/internal/transport/http/handlers/payroll"
	productivityhandler "sorha/internal/transport/http/handlers/productivity"
	reportshandler "sorha/internal/transport/http/handlers/reports"
	usershandler "sorha/internal/transport/http/handlers/users"
	"sorha/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	authStore := auth.NewStore(pool)
	payrollService := payroll.NewService(payroll.NewStore(pool))

	var collector *metrics.Collector
	if cfg.MetricsEnabled {
		collector = metrics.New()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.SecureHeaders(cfg.Production()))
	router.Use(middleware.Session(authStore))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, cfg).RegisterRoutes(r)
		usershandler.NewHandler(users.NewStore(pool)).RegisterRoutes(r)
		employeeshandler.NewHandler(employees.NewStore(pool), payrollService).RegisterRoutes(r)
		contractshandler.NewHandler(contracts.NewStore(pool)).RegisterRoutes(r)
		overtimehandler.NewHandler(overtime.NewStore(pool)).RegisterRoutes(r)

		productivityStore := productivity.NewStore(pool)
		productivityhandler.NewHandler(productivityStore).RegisterRoutes(r)
		reportshandler.NewHandler(productivityStore).RegisterRoutes(r)

		payrollhandler.NewHandler(payrollService).RegisterRoutes(r)

		if collector != nil {
			r.With(middleware.RequireCapability(auth.CapUsersManage)).
				Get("/internal/metrics", func(w http.ResponseWriter, r *http.Request) {
					api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
				})
		}
	})

	log.Printf("SORHA server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
