package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/dsagrinders/tracker/internal/app/usecase"
	"github.com/dsagrinders/tracker/internal/config"
	"github.com/dsagrinders/tracker/internal/domain"
)

const (
	leaderboardCacheKey = "leaderboard"
	leaderboardCacheTTL = 60 * time.Second
	publicRateLimit     = 30 // requests per minute per client
)

type Server struct {
	cfg    config.Config
	log    *zap.Logger
	router *mux.Router

	automation  *usecase.RunAutomationUsecase
	leaderboard *usecase.GetLeaderboardUsecase
	sync        *usecase.SyncStatsUsecase
	roasts      *usecase.SendRoastsUsecase
	users       domain.UserRepository
	settings    domain.SettingRepository
	email       usecase.EmailSender
	whatsapp    usecase.WhatsAppSender

	cache   *responseCache
	limiter *RateLimiter
}

func NewServer(
	cfg config.Config,
	log *zap.Logger,
	automation *usecase.RunAutomationUsecase,
	leaderboard *usecase.GetLeaderboardUsecase,
	sync *usecase.SyncStatsUsecase,
	roasts *usecase.SendRoastsUsecase,
	users domain.UserRepository,
	settings domain.SettingRepository,
	email usecase.EmailSender,
	whatsapp usecase.WhatsAppSender,
) (*Server, error) {
	cache, err := newResponseCache(8, leaderboardCacheTTL)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:         cfg,
		log:         log,
		router:      mux.NewRouter(),
		automation:  automation,
		leaderboard: leaderboard,
		sync:        sync,
		roasts:      roasts,
		users:       users,
		settings:    settings,
		email:       email,
		whatsapp:    whatsapp,
		cache:       cache,
		limiter:     NewRateLimiter(publicRateLimit, time.Minute),
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/cron", s.handleCron).Methods(http.MethodGet)
	api.Handle("/leaderboard", s.rateLimited(http.HandlerFunc(s.handleLeaderboard))).Methods(http.MethodGet)
	api.Handle("/users/{id:[0-9]+}/refresh", s.rateLimited(http.HandlerFunc(s.handleRefresh))).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.adminAuth)
	admin.HandleFunc("/users", s.handleAdminUsers).Methods(http.MethodGet)
	admin.HandleFunc("/settings", s.handleGetSettings).Methods(http.MethodGet)
	admin.HandleFunc("/settings", s.handleUpdateSettings).Methods(http.MethodPut)
	admin.HandleFunc("/send-roasts", s.handleSendRoasts).Methods(http.MethodPost)
	admin.HandleFunc("/test-email", s.handleTestEmail).Methods(http.MethodPost)
	admin.HandleFunc("/test-whatsapp", s.handleTestWhatsApp).Methods(http.MethodPost)
}

// rateLimited guards public read endpoints against abusive clients.
func (s *Server) rateLimited(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, remaining := s.limiter.Allow(clientIdentifier(r))
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(s.limiter.Limit()))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// adminAuth requires the shared admin token on every admin route.
func (s *Server) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminToken == "" || r.Header.Get("X-Admin-Token") != s.cfg.AdminToken {
			s.log.Warn("unauthorized admin access attempt", zap.String("path", r.URL.Path))
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
