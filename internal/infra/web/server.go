package web

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"streamshop/internal/config"
	"streamshop/internal/infra/redis"
	"streamshop/internal/usecase"
)

type ctxKey string

const ctxCustomerID ctxKey = "customer_id"

// Server is the storefront's single HTTP surface: public sales pages,
// the admin panel, health and metrics.
type Server struct {
	orderUC     *usecase.OrderUseCase
	inventoryUC *usecase.InventoryUseCase
	customerUC  *usecase.CustomerUseCase
	statsUC     *usecase.StatsUseCase
	auth        *AuthManager
	limiter     *redis.RateLimiter
	store       config.StoreConfig
	rnd         *renderer
	log         *zerolog.Logger
}

func NewServer(
	orderUC *usecase.OrderUseCase,
	inventoryUC *usecase.InventoryUseCase,
	customerUC *usecase.CustomerUseCase,
	statsUC *usecase.StatsUseCase,
	auth *AuthManager,
	limiter *redis.RateLimiter,
	store config.StoreConfig,
	logger *zerolog.Logger,
) *Server {
	compLog := logger.With().Str("component", "web").Logger()
	return &Server{
		orderUC:     orderUC,
		inventoryUC: inventoryUC,
		customerUC:  customerUC,
		statsUC:     statsUC,
		auth:        auth,
		limiter:     limiter,
		store:       store,
		rnd:         newRenderer(&compLog),
		log:         &compLog,
	}
}

// Routes builds the chi router for the whole site.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Public storefront
	r.Get("/", s.handleIndex)
	r.Get("/login", s.handleCustomerLoginForm)
	r.Post("/login", s.handleCustomerLogin)
	r.Get("/logout", s.handleCustomerLogout)
	r.Group(func(r chi.Router) {
		r.Use(s.requireCustomer)
		r.Get("/buy/{platform}", s.handleBuyForm)
		r.Post("/buy/{platform}", s.handleBuySubmit)
		r.Get("/orders/pending", s.handleOrderPending)
		r.Get("/my-accounts", s.handleMyAccounts)
	})

	// Admin panel
	r.Route("/admin", func(r chi.Router) {
		r.Get("/login", s.handleAdminLoginForm)
		r.Post("/login", s.handleAdminLogin)
		r.Get("/logout", s.handleAdminLogout)
		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/", s.handleAdminDashboard)
			r.Get("/orders", s.handleAdminOrders)
			r.Get("/orders/{id}", s.handleAdminOrderDetail)
			r.Post("/orders/{id}/assign", s.handleAdminAssign)
			r.Post("/orders/{id}/paid", s.handleAdminMarkPaid)
			r.Post("/orders/{id}/cancel", s.handleAdminCancel)
			r.Get("/stock", s.handleAdminStock)
			r.Post("/stock", s.handleAdminStockAdd)
			r.Get("/stock/{id}/edit", s.handleAdminStockEditForm)
			r.Post("/stock/{id}/edit", s.handleAdminStockEdit)
			r.Post("/stock/{id}/retire", s.handleAdminStockRetire)
			r.Get("/expirations", s.handleAdminExpirations)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// requireAdmin gates the panel behind a valid admin session cookie.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.auth.AdminFromRequest(r); err != nil {
			http.Redirect(w, r, "/admin/login?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireCustomer resolves the customer session and stores the ID in the
// request context.
func (s *Server) requireCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		customerID, err := s.auth.CustomerFromRequest(r)
		if err != nil {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		ctx := context.WithValue(r.Context(), ctxCustomerID, customerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func customerIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxCustomerID).(string)
	return id
}
