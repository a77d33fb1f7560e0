package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/dsagrinders/tracker/internal/app/usecase"
	"github.com/dsagrinders/tracker/internal/domain"
	"github.com/dsagrinders/tracker/internal/messages"
)

// handleCron is the external trigger entrypoint. Auth happens before any
// work; everything after that is reported in a 200 envelope.
func (s *Server) handleCron(w http.ResponseWriter, r *http.Request) {
	if s.cfg.CronSecret != "" {
		if r.Header.Get("Authorization") != "Bearer "+s.cfg.CronSecret {
			s.log.Warn("unauthorized cron access attempt")
			writeError(w, http.StatusUnauthorized, "Unauthorized - include Authorization: Bearer <CRON_SECRET> header")
			return
		}
	} else if !s.cfg.DevMode {
		s.log.Error("CRON_SECRET is not set outside development")
		writeError(w, http.StatusInternalServerError, "Server configuration error")
		return
	}

	devMode := s.cfg.DevMode || r.Header.Get("X-Development-Mode") == "true"

	report, err := s.automation.Execute(r.Context(), devMode)
	if err != nil {
		s.log.Error("automation sweep failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.cache.Get(leaderboardCacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	entries, err := s.leaderboard.Execute(r.Context())
	if err != nil {
		s.log.Error("leaderboard build failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := map[string]any{"leaderboard": entries}
	s.cache.Set(leaderboardCacheKey, resp)
	writeJSON(w, http.StatusOK, resp)
}

// handleRefresh syncs a single user on demand and purges the leaderboard
// cache so the fresh numbers are visible immediately.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := s.users.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if user.IsPending() {
		writeError(w, http.StatusConflict, "Profile is incomplete, set a LeetCode username first")
		return
	}

	stat, err := s.sync.Execute(r.Context(), user.ID, user.LeetCodeUsername)
	if err != nil {
		var lcErr *domain.LeetCodeError
		if errors.As(err, &lcErr) {
			status := http.StatusBadGateway
			if lcErr.Code == domain.ErrCodeUserNotFound || lcErr.Code == domain.ErrCodeProfilePrivate {
				status = http.StatusUnprocessableEntity
			}
			writeJSON(w, status, map[string]any{
				"error":     lcErr.Message,
				"code":      lcErr.Code,
				"retryable": lcErr.Retryable,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.cache.Purge()
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Stats refreshed",
		"todayPoints": stat.TodayPoints,
		"total":       stat.Total,
	})
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.ListAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	withPhone, admins := 0, 0
	for _, u := range users {
		if u.PhoneNumber != "" {
			withPhone++
		}
		if u.Role == domain.RoleAdmin {
			admins++
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"users": users,
		"stats": map[string]int{
			"total":           len(users),
			"withWhatsApp":    withPhone,
			"withoutWhatsApp": len(users) - withPhone,
			"admins":          admins,
		},
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	setting, err := s.settings.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, setting)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	current, err := s.settings.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var incoming domain.Setting
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Counters and timestamps belong to the automation pipeline; only the
	// admin-editable fields are taken from the request.
	incoming.ID = current.ID
	incoming.EmailsSentToday = current.EmailsSentToday
	incoming.WhatsAppSentToday = current.WhatsAppSentToday
	incoming.LastResetDate = current.LastResetDate
	incoming.LastEmailSent = current.LastEmailSent
	incoming.LastWhatsAppSent = current.LastWhatsAppSent
	if incoming.Timezone == "" {
		incoming.Timezone = current.Timezone
	}
	if incoming.CustomSkipDates == nil {
		incoming.CustomSkipDates = []string{}
	}

	if err := s.settings.Update(r.Context(), &incoming); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, &incoming)
}

func (s *Server) handleSendRoasts(w http.ResponseWriter, r *http.Request) {
	opts := usecase.SendRoastsOptions{SendEmail: true, SendWhatsApp: true}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&opts)
	}

	res, err := s.roasts.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTestEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}
	if req.Name == "" {
		req.Name = "Grinder"
	}

	if err := s.email.SendReminder(req.Email, req.Name); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleTestWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}
	if req.Name == "" {
		req.Name = "Grinder"
	}

	msg := messages.WhatsAppMessage(req.Name, s.cfg.SiteURL)
	if err := s.whatsapp.SendText(r.Context(), req.Phone, msg); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
