// Package mail dispatches notification email after a submission is stored.
// Delivery failures are reported back as a partial-send receipt and logged;
// they never fail the submission itself.
package mail

import (
	"bytes"
	"fmt"
	netmail "net/mail"
	"net/smtp"
	"sort"

	"github.com/amestri/formbox/config"
	"github.com/amestri/formbox/log"
	"github.com/pkg/errors"
)

const (
	adminSubject = "New form submission received"
	userSubject  = "Thank you for contacting us!"
	testSubject  = "formbox test email"
)

// Receipt reports which of the two notification mails went out.
type Receipt struct {
	AdminSent bool `json:"admin_sent"`
	UserSent  bool `json:"user_sent"`
}

type Notifier interface {
	// SubmissionCreated sends the admin notification and, when the payload
	// carries a plausible email address, the submitter confirmation.
	SubmissionCreated(formTitle string, payload map[string]string) Receipt
	// TestEmail sends a probe to the admin address to verify delivery.
	TestEmail() error
}

// SMTP delivers through a plain SMTP relay. The send hook exists so tests
// can capture outgoing messages.
type SMTP struct {
	cfg  config.Config
	send func(addr, from string, to []string, msg []byte) error
}

func NewSMTP(cfg config.Config) *SMTP {
	return &SMTP{
		cfg: cfg,
		send: func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		},
	}
}

func (s *SMTP) SubmissionCreated(formTitle string, payload map[string]string) (receipt Receipt) {
	body, err := adminBody(s.cfg.SiteName, formTitle, payload)
	if err == nil {
		err = s.deliver(s.cfg.AdminEmail, adminSubject, body)
	}
	if err != nil {
		log.Errorf("mail.admin_notification: %s", err)
	} else {
		receipt.AdminSent = true
	}

	userEmail, ok := submitterAddress(payload)
	if !ok {
		log.Debug("mail.user_confirmation: no usable submitter address")
		return
	}

	body, err = userBody(s.cfg.SiteName, payload)
	if err == nil {
		err = s.deliver(userEmail, userSubject, body)
	}
	if err != nil {
		log.Errorf("mail.user_confirmation: %s", err)
	} else {
		receipt.UserSent = true
	}
	return
}

func (s *SMTP) TestEmail() error {
	return errors.Wrap(
		s.deliver(s.cfg.AdminEmail, testSubject, []byte("<p>This is a test email from formbox.</p>")),
		"test email",
	)
}

func (s *SMTP) deliver(to, subject string, body []byte) error {
	if to == "" {
		return errors.New("no recipient address configured")
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.cfg.SiteName, s.cfg.SMTPFrom)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Reply-To: %s\r\n", s.cfg.AdminEmail)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.Write(body)

	return s.send(s.cfg.SMTPAddr, s.cfg.SMTPFrom, []string{to}, msg.Bytes())
}

// submitterAddress digs the confirmation recipient out of the payload's
// email key, if it parses as an address.
func submitterAddress(payload map[string]string) (string, bool) {
	raw, ok := payload["email"]
	if !ok || raw == "" {
		return "", false
	}
	addr, err := netmail.ParseAddress(raw)
	if err != nil {
		return "", false
	}
	return addr.Address, true
}

// payloadRows flattens a payload into stable key order for templating.
func payloadRows(payload map[string]string) []row {
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]row, len(keys))
	for i, k := range keys {
		rows[i] = row{Key: k, Value: payload[k]}
	}
	return rows
}
