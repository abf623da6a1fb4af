package web

import (
	"net/http"
	"time"

	"food-spot-backend/internal/infra/redis"
	"food-spot-backend/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Server struct {
	authUC    usecase.AuthUseCase
	userUC    usecase.UserUseCase
	spotUC    usecase.FoodSpotUseCase
	reviewUC  usecase.ReviewUseCase
	voteUC    usecase.VoteUseCase
	subUC     usecase.SubscriptionUseCase
	paymentUC usecase.PaymentUseCase

	limiter     *redis.RateLimiter
	frontendURL string
	log         *zerolog.Logger
}

func NewServer(
	authUC usecase.AuthUseCase,
	userUC usecase.UserUseCase,
	spotUC usecase.FoodSpotUseCase,
	reviewUC usecase.ReviewUseCase,
	voteUC usecase.VoteUseCase,
	subUC usecase.SubscriptionUseCase,
	paymentUC usecase.PaymentUseCase,
	limiter *redis.RateLimiter,
	frontendURL string,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "WebServer").Logger()
	return &Server{
		authUC:      authUC,
		userUC:      userUC,
		spotUC:      spotUC,
		reviewUC:    reviewUC,
		voteUC:      voteUC,
		subUC:       subUC,
		paymentUC:   paymentUC,
		limiter:     limiter,
		frontendURL: frontendURL,
		log:         &l,
	}
}

// Routes builds the full routing tree.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Gateway callbacks are browser form-posts and server-to-server IPNs; they
	// carry no bearer token and authenticate by transaction id instead.
	r.Route("/payments/callback", func(r chi.Router) {
		r.Use(s.rateLimit(30, time.Minute, callbackRateKey))
		r.Post("/success", s.handleCallbackSuccess)
		r.Post("/fail", s.handleCallbackFail)
		r.Post("/cancel", s.handleCallbackCancel)
		r.Post("/ipn", s.handleIPN)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(s.rateLimit(10, time.Minute, loginRateKey)).Post("/register", s.handleRegister)
			r.With(s.rateLimit(10, time.Minute, loginRateKey)).Post("/login", s.handleLogin)
			r.With(s.requireAuth).Get("/me", s.handleMe)
		})

		r.Route("/plans", func(r chi.Router) {
			r.Get("/", s.handlePlansList)
			r.Get("/{id}", s.handlePlanGet)
		})

		r.Route("/food-spots", func(r chi.Router) {
			r.With(s.optionalAuth).Get("/", s.handleFoodSpotList)
			r.With(s.optionalAuth).Get("/{id}", s.handleFoodSpotGet)
			r.Get("/{id}/reviews", s.handleReviewList)
			r.Get("/{id}/votes", s.handleVoteTally)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/", s.handleFoodSpotSubmit)
				r.Put("/{id}", s.handleFoodSpotUpdate)
				r.Delete("/{id}", s.handleFoodSpotDelete)
				r.Post("/{id}/reviews", s.handleReviewCreate)
				r.Post("/{id}/votes", s.handleVoteCast)
				r.Delete("/{id}/votes", s.handleVoteRetract)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Put("/{id}", s.handleReviewUpdate)
			r.Delete("/{id}", s.handleReviewDelete)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/initiate", s.handleSubscriptionInitiate)
		})

		r.With(s.requireAuth).Get("/payments/me", s.handleMyPayments)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/users", s.handleUserList)
			r.Get("/users/{id}", s.handleUserGet)
			r.Patch("/users/{id}", s.handleUserUpdate)
			r.Post("/users/{id}/premium", s.handleUserSetPremium)
			r.Get("/food-spots/pending", s.handleFoodSpotPending)
			r.Patch("/food-spots/{id}/approval", s.handleFoodSpotApproval)
			r.Get("/payments", s.handlePaymentList)
			r.Get("/payments/{id}", s.handlePaymentGet)
			r.Post("/subscriptions/sweep", s.handleSubscriptionSweep)
		})
	})

	return r
}
