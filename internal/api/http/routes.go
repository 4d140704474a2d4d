package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"

	"github.com/avoronov/linkpulse/internal/config"
	"github.com/avoronov/linkpulse/internal/models"
	"github.com/avoronov/linkpulse/internal/service"
)

type LinkService interface {
	CreateLink(ctx context.Context, userID int64, input service.CreateLinkInput) (*models.Link, error)
	GetLink(ctx context.Context, userID, id int64) (*models.Link, error)
	ListLinks(ctx context.Context, userID int64, opts models.LinkListOptions) (*models.LinkPage, error)
	UpdateLink(ctx context.Context, userID, id int64, input service.UpdateLinkInput) (*models.Link, error)
	DeleteLink(ctx context.Context, userID, id int64) error
	ToggleActive(ctx context.Context, userID, id int64) (*models.Link, error)
}

type RedirectService interface {
	Resolve(ctx context.Context, alias string, client models.ClientContext) (*models.RedirectResult, error)
	VerifyPassword(ctx context.Context, alias, password string) (*models.Link, error)
	PasswordRequired(ctx context.Context, alias string) (bool, error)
}

type StatsService interface {
	StatusCounts(ctx context.Context, userID int64, f models.StatsFilter) ([]models.StatusCount, error)
	Overview(ctx context.Context, userID int64, f models.StatsFilter) (*models.Overview, error)
	Trend(ctx context.Context, userID int64, period models.TrendPeriod, f models.StatsFilter) ([]models.TrendPoint, error)
	TopCountries(ctx context.Context, userID int64, f models.StatsFilter) ([]models.DimensionCount, error)
	Devices(ctx context.Context, userID int64, f models.StatsFilter) ([]models.DimensionCount, error)
	Browsers(ctx context.Context, userID int64, f models.StatsFilter) ([]models.DimensionCount, error)
}

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

type ReferrerService interface {
	CreateReferrer(ctx context.Context, userID int64, name string) (*models.Referrer, error)
	ListReferrers(ctx context.Context, userID int64) ([]*models.Referrer, error)
	UpdateReferrer(ctx context.Context, userID, id int64, name string) (*models.Referrer, error)
	DeleteReferrer(ctx context.Context, userID, id int64) error
}

// Services bundles everything the router serves.
type Services struct {
	Auth      AuthService
	Links     LinkService
	Redirect  RedirectService
	Stats     StatsService
	Referrers ReferrerService
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

func NewRouter(logger *httplog.Logger, svcs Services, rl config.RateLimit) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept", "Authorization"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	publicLimiter := newRateLimiter(rl.PublicRPS, rl.PublicBurst)
	apiLimiter := newRateLimiter(rl.APIRPS, rl.APIBurst)

	r.Group(func(r chi.Router) {
		r.Use(publicLimiter.Middleware)

		r.Get("/r/{alias}", handleRedirect(svcs.Redirect))
		r.Post("/r/{alias}/verify-password", handleVerifyPassword(svcs.Redirect, getValidate()))
		r.Get("/p/{alias}", handlePasswordRequired(svcs.Redirect))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Use(apiLimiter.Middleware)

		validate := getValidate()

		r.Get("/ping", handlePing)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", handleRegister(svcs.Auth, validate))
			r.Post("/login", handleLogin(svcs.Auth, validate))

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware(svcs.Auth))

				r.Post("/logout", handleLogout(svcs.Auth))
				r.Get("/me", handleMe)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware(svcs.Auth))

			r.Route("/links", func(r chi.Router) {
				r.Post("/", handleCreateLink(svcs.Links, validate))
				r.Get("/list", handleListLinks(svcs.Links))

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", handleGetLink(svcs.Links))
					r.Put("/", handleUpdateLink(svcs.Links, validate))
					r.Delete("/", handleDeleteLink(svcs.Links))
					r.Put("/toggle-active", handleToggleActive(svcs.Links))
				})
			})

			r.Route("/stats", func(r chi.Router) {
				r.Get("/status-counts", handleStatusCounts(svcs.Stats))
				r.Get("/overview", handleOverview(svcs.Stats))
				r.Get("/trend", handleTrend(svcs.Stats))
				r.Get("/countries", handleTopCountries(svcs.Stats))
				r.Get("/devices", handleDevices(svcs.Stats))
				r.Get("/browsers", handleBrowsers(svcs.Stats))
			})

			r.Route("/referrers", func(r chi.Router) {
				r.Post("/", handleCreateReferrer(svcs.Referrers, validate))
				r.Get("/", handleListReferrers(svcs.Referrers))
				r.Put("/{id}", handleUpdateReferrer(svcs.Referrers, validate))
				r.Delete("/{id}", handleDeleteReferrer(svcs.Referrers))
			})
		})
	})

	return r
}
