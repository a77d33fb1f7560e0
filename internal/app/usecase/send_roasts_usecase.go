package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dsagrinders/tracker/internal/domain"
	"github.com/dsagrinders/tracker/internal/messages"
)

// SendRoastsOptions selects channels and optional custom copy for a manual
// admin broadcast. Broadcasts ignore schedules and daily quotas; the admin
// asked for them explicitly.
type SendRoastsOptions struct {
	SendEmail             bool   `json:"sendEmail"`
	SendWhatsApp          bool   `json:"sendWhatsApp"`
	CustomEmailMessage    string `json:"customEmailMessage,omitempty"`
	CustomWhatsAppMessage string `json:"customWhatsAppMessage,omitempty"`
}

type SendRoastsResult struct {
	EmailsSent      int      `json:"emailsSent"`
	EmailsFailed    int      `json:"emailsFailed"`
	WhatsAppSent    int      `json:"whatsappSent"`
	WhatsAppFailed  int      `json:"whatsappFailed"`
	WhatsAppSkipped int      `json:"whatsappSkipped"`
	Errors          []string `json:"errors,omitempty"`
}

// SendRoastsUsecase broadcasts a roast to every non-admin user on demand.
type SendRoastsUsecase struct {
	users    domain.UserRepository
	email    EmailSender
	whatsapp WhatsAppSender
	siteURL  string
	log      *zap.Logger

	Delay time.Duration
}

func NewSendRoastsUsecase(users domain.UserRepository, email EmailSender, whatsapp WhatsAppSender, siteURL string, log *zap.Logger) *SendRoastsUsecase {
	return &SendRoastsUsecase{
		users:    users,
		email:    email,
		whatsapp: whatsapp,
		siteURL:  siteURL,
		log:      log,
		Delay:    100 * time.Millisecond,
	}
}

func (uc *SendRoastsUsecase) Execute(ctx context.Context, opts SendRoastsOptions) (*SendRoastsResult, error) {
	users, err := uc.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	res := &SendRoastsResult{}
	for _, user := range users {
		if user.Role == domain.RoleAdmin {
			continue
		}

		if opts.SendEmail {
			html := opts.CustomEmailMessage
			if html == "" {
				html = messages.EmailHTML(user.Name, uc.siteURL)
			}
			if err := uc.email.Send(user.Email, messages.EmailSubject(user.Name), html); err != nil {
				res.EmailsFailed++
				res.Errors = append(res.Errors, fmt.Sprintf("Email to %s: %v", user.Email, err))
			} else {
				res.EmailsSent++
			}
		}

		if opts.SendWhatsApp {
			if user.PhoneNumber == "" {
				res.WhatsAppSkipped++
			} else {
				msg := opts.CustomWhatsAppMessage
				if msg == "" {
					msg = messages.WhatsAppMessage(user.Name, uc.siteURL)
				}
				if err := uc.whatsapp.SendText(ctx, user.PhoneNumber, msg); err != nil {
					res.WhatsAppFailed++
					res.Errors = append(res.Errors, fmt.Sprintf("WhatsApp to %s: %v", user.PhoneNumber, err))
				} else {
					res.WhatsAppSent++
				}
			}
		}

		if uc.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(uc.Delay):
			}
		}
	}

	uc.log.Info("roast broadcast finished",
		zap.Int("emailsSent", res.EmailsSent),
		zap.Int("whatsappSent", res.WhatsAppSent),
		zap.Int("failed", res.EmailsFailed+res.WhatsAppFailed))
	return res, nil
}
