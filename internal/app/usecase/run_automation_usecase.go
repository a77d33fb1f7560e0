package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dsagrinders/tracker/internal/domain"
	"github.com/dsagrinders/tracker/internal/messages"
)

// EmailSender delivers nudge emails. SendReminder uses the built-in
// templates; Send takes prepared subject and HTML for admin broadcasts.
type EmailSender interface {
	SendReminder(to, userName string) error
	Send(to, subject, htmlBody string) error
}

// WhatsAppSender delivers a text message to a phone number.
type WhatsAppSender interface {
	SendText(ctx context.Context, phone, message string) error
}

// maxResultSample caps how many per-user result records a trigger response
// carries; the rest only feed the aggregate summary.
const maxResultSample = 5

type SendOutcome struct {
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Error   string `json:"error,omitempty"`
}

type UserResult struct {
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PhoneNumber  string      `json:"phoneNumber,omitempty"`
	StatsUpdate  SendOutcome `json:"statsUpdate"`
	EmailSent    SendOutcome `json:"emailSent"`
	WhatsAppSent SendOutcome `json:"whatsappSent"`
}

type RunSummary struct {
	TotalUsers      int `json:"totalUsers"`
	StatsUpdated    int `json:"statsUpdated"`
	EmailsSent      int `json:"emailsSent"`
	WhatsAppSent    int `json:"whatsappSent"`
	EmailsSkipped   int `json:"emailsSkipped"`
	WhatsAppSkipped int `json:"whatsappSkipped"`
}

// RunReport is the trigger response envelope. Zero-action outcomes (disabled,
// skipped day, outside the window) are reported as successes with a message.
type RunReport struct {
	Message            string       `json:"message"`
	AutomationEnabled  bool         `json:"automationEnabled"`
	Skipped            bool         `json:"skipped,omitempty"`
	ShouldSendEmails   bool         `json:"shouldSendEmails"`
	ShouldSendWhatsApp bool         `json:"shouldSendWhatsapp"`
	Summary            *RunSummary  `json:"summary,omitempty"`
	Results            []UserResult `json:"results,omitempty"`
}

// RunAutomationUsecase performs one sweep over all eligible users: refresh
// stats, then conditionally nudge over email and WhatsApp within per-day
// quotas. Users are processed strictly sequentially; one user's failure never
// aborts the sweep.
type RunAutomationUsecase struct {
	users    domain.UserRepository
	settings domain.SettingRepository
	sync     *SyncStatsUsecase
	email    EmailSender
	whatsapp WhatsAppSender
	siteURL  string
	log      *zap.Logger

	// Now and Delay are swapped out by tests.
	Now   func() time.Time
	Delay time.Duration
}

func NewRunAutomationUsecase(
	users domain.UserRepository,
	settings domain.SettingRepository,
	sync *SyncStatsUsecase,
	email EmailSender,
	whatsapp WhatsAppSender,
	siteURL string,
	log *zap.Logger,
) *RunAutomationUsecase {
	return &RunAutomationUsecase{
		users:    users,
		settings: settings,
		sync:     sync,
		email:    email,
		whatsapp: whatsapp,
		siteURL:  siteURL,
		log:      log,
		Now:      time.Now,
		Delay:    100 * time.Millisecond,
	}
}

// Execute runs one trigger invocation. Only settings read/write failures are
// fatal; everything else is folded into the report. devMode bypasses the
// schedule time windows for manual testing.
func (uc *RunAutomationUsecase) Execute(ctx context.Context, devMode bool) (*RunReport, error) {
	s, err := uc.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	if err := uc.backfillSchedules(ctx, s); err != nil {
		return nil, err
	}

	now := uc.Now()
	if err := uc.resetCountersIfNeeded(ctx, s, now); err != nil {
		return nil, err
	}

	if !s.AutomationEnabled {
		return &RunReport{Message: "Automation disabled"}, nil
	}

	if domain.ShouldSkipDay(s, now) {
		return &RunReport{
			Message:           "Day skipped due to settings",
			AutomationEnabled: true,
			Skipped:           true,
		}, nil
	}

	shouldSendEmails := s.EmailAutomationEnabled &&
		domain.IsTimeToSend(s.EmailSchedule, s.Timezone, now, devMode) &&
		s.EmailsSentToday < s.MaxDailyEmails
	shouldSendWhatsApp := s.WhatsAppAutomationEnabled &&
		domain.IsTimeToSend(s.WhatsAppSchedule, s.Timezone, now, devMode) &&
		s.WhatsAppSentToday < s.MaxDailyWhatsApp

	if !shouldSendEmails && !shouldSendWhatsApp {
		return &RunReport{
			Message:           "Not time to send messages or daily limits reached",
			AutomationEnabled: true,
		}, nil
	}

	users, err := uc.users.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var (
		results      []UserResult
		emailsSent   int
		whatsappSent int
		statsUpdated int
		emailsSkip   int
		whatsappSkip int
	)

	for i, user := range users {
		r := UserResult{
			Username:    user.LeetCodeUsername,
			Email:       user.Email,
			PhoneNumber: user.PhoneNumber,
		}

		stat, err := uc.sync.Execute(ctx, user.ID, user.LeetCodeUsername)
		if err != nil {
			r.StatsUpdate = SendOutcome{Error: err.Error()}
			uc.log.Warn("stats update failed",
				zap.String("username", user.LeetCodeUsername), zap.Error(err))
		} else {
			r.StatsUpdate = SendOutcome{Success: true}
			statsUpdated++
			uc.log.Debug("stats updated",
				zap.String("username", user.LeetCodeUsername),
				zap.Int("todayPoints", stat.TodayPoints))
		}

		if shouldSendEmails && emailsSent+s.EmailsSentToday < s.MaxDailyEmails {
			if err := uc.email.SendReminder(user.Email, user.Name); err != nil {
				r.EmailSent = SendOutcome{Error: err.Error()}
			} else {
				r.EmailSent = SendOutcome{Success: true}
				emailsSent++
			}
		} else {
			r.EmailSent = SendOutcome{Skipped: true, Reason: "Not time or limit reached"}
			emailsSkip++
		}

		switch {
		case !shouldSendWhatsApp || whatsappSent+s.WhatsAppSentToday >= s.MaxDailyWhatsApp:
			r.WhatsAppSent = SendOutcome{Skipped: true, Reason: "Not time or limit reached"}
			whatsappSkip++
		case user.PhoneNumber == "":
			r.WhatsAppSent = SendOutcome{Skipped: true, Reason: "No phone number"}
			whatsappSkip++
		default:
			msg := messages.WhatsAppMessage(user.Name, uc.siteURL)
			if err := uc.whatsapp.SendText(ctx, user.PhoneNumber, msg); err != nil {
				r.WhatsAppSent = SendOutcome{Error: err.Error()}
			} else {
				r.WhatsAppSent = SendOutcome{Success: true}
				whatsappSent++
			}
		}

		results = append(results, r)

		// Throttle between users so the LeetCode and messaging APIs are not
		// hammered by one sweep.
		if i < len(users)-1 && uc.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(uc.Delay):
			}
		}
	}

	if err := uc.settings.AddSentCounts(ctx, s.ID, emailsSent, whatsappSent, uc.Now()); err != nil {
		return nil, err
	}

	summary := &RunSummary{
		TotalUsers:      len(users),
		StatsUpdated:    statsUpdated,
		EmailsSent:      emailsSent,
		WhatsAppSent:    whatsappSent,
		EmailsSkipped:   emailsSkip,
		WhatsAppSkipped: whatsappSkip,
	}
	if len(results) > maxResultSample {
		results = results[:maxResultSample]
	}

	return &RunReport{
		Message:            "Sweep completed successfully",
		AutomationEnabled:  true,
		ShouldSendEmails:   shouldSendEmails,
		ShouldSendWhatsApp: shouldSendWhatsApp,
		Summary:            summary,
		Results:            results,
	}, nil
}

// backfillSchedules replaces empty schedules with the defaults, persisting
// the repair so the admin UI sees real values.
func (uc *RunAutomationUsecase) backfillSchedules(ctx context.Context, s *domain.Setting) error {
	def := domain.NewDefaultSetting()
	changed := false
	if len(s.EmailSchedule) == 0 {
		s.EmailSchedule = def.EmailSchedule
		changed = true
	}
	if len(s.WhatsAppSchedule) == 0 {
		s.WhatsAppSchedule = def.WhatsAppSchedule
		changed = true
	}
	if !changed {
		return nil
	}
	return uc.settings.Update(ctx, s)
}

// resetCountersIfNeeded zeroes the per-day send counters exactly once per
// calendar-day transition in the configured zone. It must run before any
// quota check.
func (uc *RunAutomationUsecase) resetCountersIfNeeded(ctx context.Context, s *domain.Setting, now time.Time) error {
	loc := s.Location()
	lastReset := time.Unix(0, 0)
	if s.LastResetDate != nil {
		lastReset = *s.LastResetDate
	}
	if domain.SameCalendarDay(now, lastReset, loc) {
		return nil
	}
	if err := uc.settings.ResetDailyCounters(ctx, s.ID, now); err != nil {
		return err
	}
	s.EmailsSentToday = 0
	s.WhatsAppSentToday = 0
	reset := now
	s.LastResetDate = &reset
	return nil
}
