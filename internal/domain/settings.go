package domain

import (
	"context"
	"time"
)

// DefaultTimezone is used whenever the settings row carries no zone.
const DefaultTimezone = "Asia/Kolkata"

// Setting is the single global automation-control record. It is read once at
// the start of a sweep and written back once at the end.
type Setting struct {
	ID                        int64      `json:"id"`
	AutomationEnabled         bool       `json:"automationEnabled"`
	EmailAutomationEnabled    bool       `json:"emailAutomationEnabled"`
	WhatsAppAutomationEnabled bool       `json:"whatsappAutomationEnabled"`
	EmailSchedule             []string   `json:"emailSchedule"`    // "HH:MM"
	WhatsAppSchedule          []string   `json:"whatsappSchedule"` // "HH:MM"
	MaxDailyEmails            int        `json:"maxDailyEmails"`
	MaxDailyWhatsApp          int        `json:"maxDailyWhatsapp"`
	EmailsSentToday           int        `json:"emailsSentToday"`
	WhatsAppSentToday         int        `json:"whatsappSentToday"`
	LastResetDate             *time.Time `json:"lastResetDate,omitempty"`
	SkipWeekends              bool       `json:"skipWeekends"`
	CustomSkipDates           []string   `json:"customSkipDates"` // "YYYY-MM-DD"
	Timezone                  string     `json:"timezone"`
	LastEmailSent             *time.Time `json:"lastEmailSent,omitempty"`
	LastWhatsAppSent          *time.Time `json:"lastWhatsappSent,omitempty"`
}

// Location resolves the configured IANA zone, falling back to the default and
// finally to UTC.
func (s *Setting) Location() *time.Location {
	tz := s.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

type SettingRepository interface {
	// Get returns the global settings row, creating it with defaults on
	// first access.
	Get(ctx context.Context) (*Setting, error)
	Update(ctx context.Context, s *Setting) error
	// ResetDailyCounters zeroes both send counters and stamps the reset
	// marker in a single statement.
	ResetDailyCounters(ctx context.Context, id int64, resetAt time.Time) error
	// AddSentCounts adds this sweep's successful sends to the persisted
	// counters and advances the per-channel last-sent timestamps when the
	// corresponding delta is positive.
	AddSentCounts(ctx context.Context, id int64, emails, whatsapp int, sentAt time.Time) error
}

// NewDefaultSetting returns the row inserted on first access: automation off,
// one send per channel per day, morning schedules.
func NewDefaultSetting() *Setting {
	return &Setting{
		EmailSchedule:    []string{"09:00"},
		WhatsAppSchedule: []string{"09:30"},
		MaxDailyEmails:   1,
		MaxDailyWhatsApp: 1,
		CustomSkipDates:  []string{},
		Timezone:         DefaultTimezone,
	}
}
