// Package server wires the feature packages into the HTTP API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"gorm.io/gorm"

	_ "github.com/fizato/federation/docs"
	"github.com/fizato/federation/internal/association"
	"github.com/fizato/federation/internal/bureau"
	"github.com/fizato/federation/internal/card"
	"github.com/fizato/federation/internal/clock"
	"github.com/fizato/federation/internal/config"
	"github.com/fizato/federation/internal/federation"
	"github.com/fizato/federation/internal/mandate"
	"github.com/fizato/federation/internal/member"
	"github.com/fizato/federation/internal/metrics"
	mw "github.com/fizato/federation/pkg/middleware"
	"github.com/fizato/federation/pkg/response"
)

// Services holds one service per feature, sharing a database and clock
type Services struct {
	Associations *association.Service
	Members      *member.Service
	Cards        *card.Service
	Bureau       *bureau.Service
	Mandates     *mandate.Service
	Federation   *federation.Service
}

// NewServices builds every feature service. A nil m records no metrics.
func NewServices(
	db *gorm.DB,
	cfg *config.Config,
	clk clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Services {
	associationRepo := association.NewRepository(db)
	memberRepo := member.NewRepository(db)
	cardRepo := card.NewRepository(db)
	bureauRepo := bureau.NewRepository(db)
	mandateRepo := mandate.NewRepository(db)

	return &Services{
		Associations: association.NewService(associationRepo, clk, logger),
		Members:      member.NewService(db, memberRepo, associationRepo, m, logger),
		Cards:        card.NewService(db, cardRepo, memberRepo, clk, m, logger, cfg.PrintSheetSize),
		Bureau:       bureau.NewService(db, bureauRepo, memberRepo, clk, m, logger),
		Mandates:     mandate.NewService(db, mandateRepo, bureauRepo, clk, m, logger),
		Federation: federation.NewService(federation.NewRepository(db), federation.Sources{
			Associations: associationRepo,
			Members:      memberRepo,
			Cards:        cardRepo,
			Bureau:       bureauRepo,
			Mandates:     mandateRepo,
		}, logger),
	}
}

// Options configure NewRouter
type Options struct {
	DB       *gorm.DB
	Config   *config.Config
	Services *Services
	Logger   *slog.Logger

	// Gatherer serves /metrics when set
	Gatherer prometheus.Gatherer
}

// NewRouter returns the HTTP handler of the federation API
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	r.Get("/health", health(opts.DB))
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	svc := opts.Services
	bureauHandler := bureau.NewHandler(svc.Bureau)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.AuthMiddleware(opts.Config.JWTSecret))

		r.Mount("/associations", association.NewHandler(svc.Associations).Routes())
		r.Mount("/members", member.NewHandler(svc.Members).Routes())
		r.Mount("/cards", card.NewHandler(svc.Cards).Routes())
		r.Mount("/functions", bureauHandler.FunctionRoutes())
		r.Mount("/bureau", bureauHandler.BureauRoutes())
		r.Mount("/committee", bureauHandler.CommitteeRoutes())
		r.Mount("/mandates", mandate.NewHandler(svc.Mandates).Routes())
		r.Mount("/federation", federation.NewHandler(svc.Federation).Routes())
	})

	return r
}

func health(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			response.Error(w, http.StatusServiceUnavailable, "UNAVAILABLE", "database unreachable")
			return
		}
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
