package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"medical-interview-agent/internal/config"
	"medical-interview-agent/internal/interview"
	"medical-interview-agent/internal/oracle"
	"medical-interview-agent/internal/platform/telegram"
	"medical-interview-agent/internal/report"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	// 1. Infrastructure. The server stays usable without a database: the
	// repository falls back to in-memory snapshots.
	var repo interview.Repository
	if cfg.DatabaseURL != "" {
		db, err := connectDB(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Warn("could not connect to database, using in-memory sessions", zap.Error(err))
			repo = interview.NewMemoryRepository()
		} else {
			runMigrations(cfg.DatabaseURL, logger)
			repo = interview.NewRepository(db)
		}
	} else {
		logger.Info("DATABASE_URL not set, using in-memory sessions")
		repo = interview.NewMemoryRepository()
	}

	// 2. Collaborators
	if cfg.OracleAPIKey == "" {
		logger.Warn("ORACLE_API_KEY is not set, oracle calls will fail and turns will degrade")
	}
	oracleClient := oracle.NewClient(oracle.Config{
		APIKey:  cfg.OracleAPIKey,
		BaseURL: cfg.OracleBaseURL,
		Model:   cfg.OracleModel,
		Timeout: cfg.OracleTimeout,
	}, logger.Named("oracle"))

	var reports interview.ReportService
	if cfg.TelegramBotToken != "" && cfg.DoctorChatID != 0 {
		tgClient := telegram.NewClient(cfg.TelegramBotToken)
		reports = report.NewService(tgClient, cfg.DoctorChatID, logger.Named("report"))
	} else {
		logger.Info("telegram reporting disabled (TELEGRAM_BOT_TOKEN or DOCTOR_CHAT_ID unset)")
	}

	// 3. Services
	svc := interview.NewService(repo, oracleClient, reports, interview.Options{
		MaxQuestions:     cfg.MaxQuestions,
		TargetConfidence: cfg.TargetConfidence,
		DefaultLanguage:  cfg.DefaultLanguage,
	}, logger.Named("interview"))
	handler := interview.NewHandler(svc)

	// 4. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api", func(r chi.Router) {
		interview.RegisterRoutes(r, handler)
	})

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func connectDB(url string, logger *zap.Logger) (*sqlx.DB, error) {
	var db *sqlx.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("postgres", url)
		if err == nil {
			return db, nil
		}
		logger.Info("waiting for database", zap.Int("attempt", i+1))
		time.Sleep(2 * time.Second)
	}
	return nil, err
}

func runMigrations(url string, logger *zap.Logger) {
	m, err := migrate.New("file://migrations", url)
	if err != nil {
		logger.Warn("migration init failed", zap.Error(err))
		return
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		logger.Warn("migration up failed", zap.Error(err))
		return
	}
	logger.Info("migrations applied")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
