package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	alarmapp "alarmd/internal/alarms/application"
	"alarmd/internal/alarms/domain"
	memoryrepo "alarmd/internal/alarms/infrastructure/memory"
	alarmrepo "alarmd/internal/alarms/infrastructure/postgres"
	alarmhttp "alarmd/internal/alarms/interfaces/http"
	"alarmd/internal/auth"
	"alarmd/internal/eventbus"
	"alarmd/internal/observability/metrics"
	"alarmd/internal/wake"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := log.New(os.Stdout, "", log.LstdFlags)

	metrics.Init()

	var (
		store domain.Store
		prefs domain.PreferenceStore
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatalf("db ping error: %v", err)
		}
		if err := alarmrepo.EnsureSchema(context.Background(), db); err != nil {
			logger.Fatalf("db schema error: %v", err)
		}
		store = alarmrepo.NewAlarmRepository(db)
		prefs = alarmrepo.NewPreferenceRepository(db)
		logger.Printf("using postgres store")
	} else {
		store = memoryrepo.NewAlarmRepository()
		prefs = memoryrepo.NewPreferenceRepository()
		logger.Printf("using in-memory store; alarms do not survive restarts")
	}

	bus := eventbus.NewBroadcaster()
	broker := alarmhttp.NewSSEBroker()
	bus.Subscribe(broker.Forward)

	// The wake callback closes over the service pointer; nothing can fire
	// before the first ScheduleExact, which happens after the service is
	// constructed.
	var service *alarmapp.Service
	scheduler, timers, gate, err := wake.New(wake.Config{
		Mode:                   cfg.WakeMode,
		ExactAllowed:           cfg.ExactAllowed,
		InexactIntervalSeconds: cfg.InexactIntervalSeconds,
	}, func(id int64) {
		if service == nil {
			return
		}
		if _, err := service.FireAlarm(context.Background(), id); err != nil {
			logger.Printf("fire alarm %d: %v", id, err)
		}
	})
	if err != nil {
		logger.Fatalf("wake scheduler error: %v", err)
	}
	defer timers.Close()

	service, err = alarmapp.NewService(store, prefs, scheduler, bus, alarmapp.WithLogger(logger))
	if err != nil {
		logger.Fatalf("alarm service error: %v", err)
	}

	// Process start is the boot sweep: stale rows are purged and every
	// surviving alarm gets its timer back.
	if report, err := service.Sweep(context.Background(), alarmapp.SweepOnBoot); err != nil {
		logger.Printf("boot sweep error: %v", err)
	} else {
		logger.Printf("boot sweep: purged=%d reregistered=%d", len(report.Purged), report.Reregistered)
	}

	if gate != nil {
		gate.OnChange(func(allowed bool) {
			go func() {
				if _, err := service.Sweep(context.Background(), alarmapp.SweepOnPermissionChange); err != nil {
					logger.Printf("permission sweep error: %v", err)
				} else {
					logger.Printf("permission sweep done: exact_allowed=%v", allowed)
				}
			}()
		})
	}

	handler, err := alarmhttp.NewHandler(service, store, prefs, gate)
	if err != nil {
		logger.Fatalf("alarm handler error: %v", err)
	}

	policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
	authMiddleware := auth.NewMiddleware([]byte(cfg.JWTSecret), policy)

	mux := http.NewServeMux()
	mux.Handle("/api/v1/alarms/stream", alarmhttp.NewStreamHandler(broker))
	mux.Handle("/api/v1/alarms", handler)
	mux.Handle("/api/v1/alarms/", handler)
	mux.Handle("/api/v1/preferences", handler)
	mux.Handle("/api/v1/preferences/", handler)
	mux.Handle("/api/v1/wake/permission", handler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", alarmhttp.HealthHandler())

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: loggingMiddleware(authMiddleware.Wrap(mux), logger)}

	go func() {
		logger.Printf("http listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server error: %v", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range sigs {
		if sig == syscall.SIGHUP {
			// SIGHUP asks for a maintenance sweep without restarting.
			if report, err := service.Sweep(context.Background(), alarmapp.SweepOnMaintenance); err != nil {
				logger.Printf("maintenance sweep error: %v", err)
			} else {
				logger.Printf("maintenance sweep: purged=%d reregistered=%d", len(report.Purged), report.Reregistered)
			}
			continue
		}
		break
	}

	logger.Printf("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Printf("http shutdown error: %v", err)
	}
}

func loggingMiddleware(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Printf("http %s %s %d %s", r.Method, r.URL.Path, resp.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Flush lets the SSE stream work through the logging wrapper.
func (w *statusWriter) Flush() {
	if flusher, ok := w.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
