package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/dsagrinders/tracker/internal/domain"
)

type SettingRepository struct {
	db *sql.DB
}

func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

const settingColumns = `id, automation_enabled, email_automation_enabled,
	whatsapp_automation_enabled, email_schedule, whatsapp_schedule,
	max_daily_emails, max_daily_whatsapp, emails_sent_today, whatsapp_sent_today,
	last_reset_date, skip_weekends, custom_skip_dates, timezone,
	last_email_sent, last_whatsapp_sent`

// Get returns the single settings row, inserting the defaults on first access.
func (r *SettingRepository) Get(ctx context.Context) (*domain.Setting, error) {
	s, err := r.get(ctx)
	if err != nil {
		return nil, err
	}
	if s != nil {
		return s, nil
	}

	def := domain.NewDefaultSetting()
	if err := r.insert(ctx, def); err != nil {
		return nil, err
	}
	return r.get(ctx)
}

func (r *SettingRepository) get(ctx context.Context) (*domain.Setting, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+settingColumns+` FROM settings ORDER BY id LIMIT 1`)

	var s domain.Setting
	var emailSched, waSched, skipDates []byte
	var automation, emailAuto, waAuto, skipWeekends int
	var lastReset, lastEmail, lastWA sql.NullInt64
	err := row.Scan(&s.ID, &automation, &emailAuto, &waAuto,
		&emailSched, &waSched, &s.MaxDailyEmails, &s.MaxDailyWhatsApp,
		&s.EmailsSentToday, &s.WhatsAppSentToday, &lastReset,
		&skipWeekends, &skipDates, &s.Timezone, &lastEmail, &lastWA)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.AutomationEnabled = automation != 0
	s.EmailAutomationEnabled = emailAuto != 0
	s.WhatsAppAutomationEnabled = waAuto != 0
	s.SkipWeekends = skipWeekends != 0
	if err := json.Unmarshal(emailSched, &s.EmailSchedule); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(waSched, &s.WhatsAppSchedule); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(skipDates, &s.CustomSkipDates); err != nil {
		return nil, err
	}
	s.LastResetDate = fromNullUnix(lastReset)
	s.LastEmailSent = fromNullUnix(lastEmail)
	s.LastWhatsAppSent = fromNullUnix(lastWA)
	return &s, nil
}

func (r *SettingRepository) insert(ctx context.Context, s *domain.Setting) error {
	emailSched, waSched, skipDates, err := marshalSettingLists(s)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (
			automation_enabled, email_automation_enabled, whatsapp_automation_enabled,
			email_schedule, whatsapp_schedule, max_daily_emails, max_daily_whatsapp,
			emails_sent_today, whatsapp_sent_today, last_reset_date,
			skip_weekends, custom_skip_dates, timezone, last_email_sent, last_whatsapp_sent
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		boolToInt(s.AutomationEnabled), boolToInt(s.EmailAutomationEnabled),
		boolToInt(s.WhatsAppAutomationEnabled), emailSched, waSched,
		s.MaxDailyEmails, s.MaxDailyWhatsApp, s.EmailsSentToday, s.WhatsAppSentToday,
		toNullUnix(s.LastResetDate), boolToInt(s.SkipWeekends), skipDates,
		s.Timezone, toNullUnix(s.LastEmailSent), toNullUnix(s.LastWhatsAppSent))
	if err != nil {
		return err
	}
	s.ID, err = res.LastInsertId()
	return err
}

func (r *SettingRepository) Update(ctx context.Context, s *domain.Setting) error {
	emailSched, waSched, skipDates, err := marshalSettingLists(s)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE settings SET
			automation_enabled          = ?,
			email_automation_enabled    = ?,
			whatsapp_automation_enabled = ?,
			email_schedule              = ?,
			whatsapp_schedule           = ?,
			max_daily_emails            = ?,
			max_daily_whatsapp          = ?,
			emails_sent_today           = ?,
			whatsapp_sent_today         = ?,
			last_reset_date             = ?,
			skip_weekends               = ?,
			custom_skip_dates           = ?,
			timezone                    = ?,
			last_email_sent             = ?,
			last_whatsapp_sent          = ?
		WHERE id = ?`,
		boolToInt(s.AutomationEnabled), boolToInt(s.EmailAutomationEnabled),
		boolToInt(s.WhatsAppAutomationEnabled), emailSched, waSched,
		s.MaxDailyEmails, s.MaxDailyWhatsApp, s.EmailsSentToday, s.WhatsAppSentToday,
		toNullUnix(s.LastResetDate), boolToInt(s.SkipWeekends), skipDates,
		s.Timezone, toNullUnix(s.LastEmailSent), toNullUnix(s.LastWhatsAppSent), s.ID)
	return err
}

// ResetDailyCounters zeroes both send counters and stamps the reset marker.
// A single UPDATE keeps the transition atomic.
func (r *SettingRepository) ResetDailyCounters(ctx context.Context, id int64, resetAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE settings SET
			emails_sent_today   = 0,
			whatsapp_sent_today = 0,
			last_reset_date     = ?
		WHERE id = ?`,
		resetAt.UTC().Unix(), id)
	return err
}

// AddSentCounts folds one sweep's successful sends into the persisted
// counters and advances last-sent timestamps for channels that sent anything.
func (r *SettingRepository) AddSentCounts(ctx context.Context, id int64, emails, whatsapp int, sentAt time.Time) error {
	ts := sentAt.UTC().Unix()
	_, err := r.db.ExecContext(ctx, `
		UPDATE settings SET
			emails_sent_today   = emails_sent_today + ?,
			whatsapp_sent_today = whatsapp_sent_today + ?,
			last_email_sent     = CASE WHEN ? > 0 THEN ? ELSE last_email_sent END,
			last_whatsapp_sent  = CASE WHEN ? > 0 THEN ? ELSE last_whatsapp_sent END
		WHERE id = ?`,
		emails, whatsapp, emails, ts, whatsapp, ts, id)
	return err
}

func marshalSettingLists(s *domain.Setting) (string, string, string, error) {
	emailSched, err := json.Marshal(s.EmailSchedule)
	if err != nil {
		return "", "", "", err
	}
	waSched, err := json.Marshal(s.WhatsAppSchedule)
	if err != nil {
		return "", "", "", err
	}
	skipDates, err := json.Marshal(s.CustomSkipDates)
	if err != nil {
		return "", "", "", err
	}
	return string(emailSched), string(waSched), string(skipDates), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toNullUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UTC().Unix(), Valid: true}
}

func fromNullUnix(ns sql.NullInt64) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := time.Unix(ns.Int64, 0).UTC()
	return &t
}
