package mail

import (
	"testing"

	"github.com/amestri/formbox/config"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to  []string
	msg []byte
}

// testSMTP swaps the delivery hook for a capture buffer.
func testSMTP(cfg config.Config, fail func(to []string) error) (*SMTP, *[]sentMail) {
	sent := &[]sentMail{}
	s := NewSMTP(cfg)
	s.send = func(addr, from string, to []string, msg []byte) error {
		if fail != nil {
			if err := fail(to); err != nil {
				return err
			}
		}
		*sent = append(*sent, sentMail{to, msg})
		return nil
	}
	return s, sent
}

var testConfig = config.Config{
	AdminEmail: "admin@example.com",
	SMTPAddr:   "localhost:25",
	SMTPFrom:   "noreply@example.com",
	SiteName:   "Example Site",
}

func TestSubmissionCreated(t *testing.T) {
	t.Run("sends admin notification and user confirmation", func(t *testing.T) {
		s, sent := testSMTP(testConfig, nil)

		receipt := s.SubmissionCreated("Contact", map[string]string{
			"email": "ada@example.com",
			"name":  "Ada",
		})

		assert.True(t, receipt.AdminSent)
		assert.True(t, receipt.UserSent)

		require.Len(t, *sent, 2)
		assert.Equal(t, []string{"admin@example.com"}, (*sent)[0].to)
		assert.Equal(t, []string{"ada@example.com"}, (*sent)[1].to)

		admin := string((*sent)[0].msg)
		assert.Contains(t, admin, "Subject: New form submission received")
		assert.Contains(t, admin, "Form: Contact")
		assert.Contains(t, admin, "ada@example.com")

		user := string((*sent)[1].msg)
		assert.Contains(t, user, "Subject: Thank you for contacting us!")
		assert.Contains(t, user, "Example Site")
	})

	t.Run("skips the confirmation when the payload has no usable address", func(t *testing.T) {
		s, sent := testSMTP(testConfig, nil)

		receipt := s.SubmissionCreated("Contact", map[string]string{"name": "Ada"})

		assert.True(t, receipt.AdminSent)
		assert.False(t, receipt.UserSent)
		assert.Len(t, *sent, 1)
	})

	t.Run("a failed admin send still attempts the confirmation", func(t *testing.T) {
		s, sent := testSMTP(testConfig, func(to []string) error {
			if to[0] == "admin@example.com" {
				return errors.New("relay down")
			}
			return nil
		})

		receipt := s.SubmissionCreated("Contact", map[string]string{"email": "ada@example.com"})

		assert.False(t, receipt.AdminSent)
		assert.True(t, receipt.UserSent)
		assert.Len(t, *sent, 1)
	})

	t.Run("payload values are escaped in the body", func(t *testing.T) {
		s, sent := testSMTP(testConfig, nil)

		s.SubmissionCreated("Contact", map[string]string{"note": `<script>alert(1)</script>`})

		require.Len(t, *sent, 1)
		body := string((*sent)[0].msg)
		assert.NotContains(t, body, "<script>")
	})
}

func TestTestEmail(t *testing.T) {
	t.Run("probes the admin address", func(t *testing.T) {
		s, sent := testSMTP(testConfig, nil)

		require.NoError(t, s.TestEmail())
		require.Len(t, *sent, 1)
		assert.Equal(t, []string{"admin@example.com"}, (*sent)[0].to)
	})

	t.Run("fails without a configured recipient", func(t *testing.T) {
		s, _ := testSMTP(config.Config{SiteName: "x"}, nil)
		assert.Error(t, s.TestEmail())
	})
}
