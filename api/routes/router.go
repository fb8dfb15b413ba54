package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/smokehouse-backend/api/controllers"
	authcontrollers "github.com/angelmondragon/smokehouse-backend/api/controllers/auth"
	cartcontrollers "github.com/angelmondragon/smokehouse-backend/api/controllers/cart"
	"github.com/angelmondragon/smokehouse-backend/api/middleware"
	"github.com/angelmondragon/smokehouse-backend/internal/cart"
	"github.com/angelmondragon/smokehouse-backend/internal/checkout"
	"github.com/angelmondragon/smokehouse-backend/internal/delivery"
	"github.com/angelmondragon/smokehouse-backend/internal/identity"
	"github.com/angelmondragon/smokehouse-backend/internal/reviews"
	"github.com/angelmondragon/smokehouse-backend/internal/visitor"
	"github.com/angelmondragon/smokehouse-backend/pkg/auth/session"
	"github.com/angelmondragon/smokehouse-backend/pkg/config"
	"github.com/angelmondragon/smokehouse-backend/pkg/db"
	"github.com/angelmondragon/smokehouse-backend/pkg/logger"
	"github.com/angelmondragon/smokehouse-backend/pkg/metrics"
	"github.com/angelmondragon/smokehouse-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. Redis backs idempotency,
// auth rate limits and session checks.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker

	Catalog  controllers.CatalogSource
	Cart     cart.Service
	Checkout checkout.Service
	Delivery delivery.Service
	Visitor  visitor.Service
	Identity identity.Service
	Reviews  reviews.Service

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Visitor(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var redisPinger redis.Pinger
	if d.Redis != nil {
		redisPinger = d.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, redisPinger))
	})

	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	auth := middleware.Auth(cfg.JWT, d.Sessions, logg)
	optionalAuth := middleware.OptionalAuth(cfg.JWT, d.Sessions, logg)
	idempotent := middleware.Idempotency(d.Redis, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/banners", controllers.Banners(d.Catalog, logg))
		r.Get("/categories/{slug}/products", controllers.CategoryProducts(d.Catalog, logg))
		r.Get("/search", controllers.Search(d.Catalog, logg))

		r.Route("/products/{id}", func(r chi.Router) {
			r.Get("/", controllers.ProductDetail(d.Catalog, logg))
			r.Get("/reviews", controllers.ReviewsList(d.Reviews, logg))
			r.Get("/reviews/stream", controllers.ReviewsStream(d.Reviews, logg))
			r.With(auth, idempotent).Post("/reviews", controllers.ReviewsAppend(d.Reviews, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(d.Cart, logg))
			r.Delete("/", cartcontrollers.CartClear(d.Cart, logg))
			r.Post("/lines", cartcontrollers.CartAddLine(d.Cart, logg))
			r.Post("/lines/{key}/increase", cartcontrollers.CartIncrease(d.Cart, logg))
			r.Post("/lines/{key}/decrease", cartcontrollers.CartDecrease(d.Cart, logg))
			r.Delete("/lines/{key}", cartcontrollers.CartRemoveLine(d.Cart, logg))
		})

		r.With(optionalAuth, idempotent).Post("/checkout", controllers.Checkout(d.Checkout, logg))

		r.Route("/delivery", func(r chi.Router) {
			r.Get("/cities", controllers.DeliveryCities(d.Delivery, logg))
			r.Get("/warehouses", controllers.DeliveryWarehouses(d.Delivery, logg))
		})

		r.Route("/visitor", func(r chi.Router) {
			r.Get("/age-confirmation", controllers.AgeStatus(d.Visitor, logg))
			r.Post("/age-confirmation", controllers.AgeConfirm(d.Visitor, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, d.Redis, logg), idempotent).Post("/register", authcontrollers.Register(d.Identity, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", authcontrollers.Login(d.Identity, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/google", authcontrollers.Google(d.Identity, logg))
			r.Post("/logout", authcontrollers.Logout(d.Identity, cfg.JWT, logg))
			r.Post("/refresh", authcontrollers.Refresh(d.Identity, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Get("/me", controllers.Me(d.Identity, logg))
			r.Get("/me/balance/stream", controllers.BalanceStream(d.Identity, logg))
		})
	})

	return r
}
