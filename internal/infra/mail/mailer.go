package mail

import (
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/dsagrinders/tracker/assets"
	"github.com/dsagrinders/tracker/internal/messages"
)

const senderName = "DSA Grinders 🔥"

// Mailer sends nudge emails over SMTP with the logo embedded inline.
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	siteURL string
	log     *zap.Logger
}

func NewMailer(host string, port int, email, password, siteURL string, log *zap.Logger) *Mailer {
	return &Mailer{
		dialer:  gomail.NewDialer(host, port, email, password),
		from:    email,
		siteURL: siteURL,
		log:     log,
	}
}

// SendReminder sends the templated daily nudge.
func (m *Mailer) SendReminder(to, userName string) error {
	return m.Send(to, messages.EmailSubject(userName), messages.EmailHTML(userName, m.siteURL))
}

// Send delivers one HTML email. Each call dials a fresh SMTP session;
// connection reuse is an optimization the sweep does not depend on.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	if m.from == "" {
		return fmt.Errorf("mail: SMTP_EMAIL is not configured")
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.from, senderName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	msg.Embed("logo.png", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(assets.Logo)
		return err
	}))

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Warn("email send failed", zap.String("to", to), zap.Error(err))
		return err
	}
	return nil
}
