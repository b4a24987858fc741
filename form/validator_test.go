package form

import (
	"testing"

	"github.com/amestri/formbox/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("accepts a matching captcha and extracts the payload", func(t *testing.T) {
		raw := map[string]string{
			"action":         "submit_contact_form",
			"csrf_token":     "opaque",
			"form_id":        "7",
			"captcha_input":  "Tq2x",
			"captcha_answer": "Tq2x",
			"email":          "a@b.com",
		}

		id, payload, err := Validate("7", raw, "Tq2x", "Tq2x")
		require.NoError(t, err)

		assert.Equal(t, 7, id)
		assert.Equal(t, map[string]string{"email": "a@b.com"}, payload)
	})

	t.Run("rejects a wrong captcha", func(t *testing.T) {
		raw := map[string]string{"email": "a@b.com"}

		_, _, err := Validate("7", raw, "xxxx", "Tq2x")
		assert.ErrorIs(t, err, ErrCaptchaMismatch)
	})

	t.Run("captcha comparison is case-sensitive", func(t *testing.T) {
		_, _, err := Validate("7", nil, "Ab3d", "ab3d")
		assert.ErrorIs(t, err, ErrCaptchaMismatch)
	})

	t.Run("rejects an empty captcha answer even when expected is empty", func(t *testing.T) {
		_, _, err := Validate("7", nil, "", "")
		assert.ErrorIs(t, err, ErrCaptchaMismatch)
	})

	t.Run("form id must be a positive integer", func(t *testing.T) {
		for _, formID := range []string{"", "0", "-3", "abc", "7.5"} {
			_, _, err := Validate(formID, nil, "Tq2x", "Tq2x")
			assert.ErrorIs(t, err, ErrInvalidForm, "form id %q", formID)
		}
	})

	t.Run("captcha check runs after the form id check", func(t *testing.T) {
		_, _, err := Validate("bogus", nil, "xxxx", "Tq2x")
		assert.ErrorIs(t, err, ErrInvalidForm)
	})

	t.Run("payload values are sanitized to plain text", func(t *testing.T) {
		raw := map[string]string{
			"message": "  hello <script>alert(1)</script>\tworld  ",
		}

		_, payload, err := Validate("1", raw, "abcd", "abcd")
		require.NoError(t, err)

		assert.Equal(t, "hello world", payload["message"])
	})

	t.Run("is deterministic", func(t *testing.T) {
		raw := map[string]string{"name": "Ada", "email": "ada@example.com"}

		id1, payload1, err1 := Validate("3", raw, "Zz9a", "Zz9a")
		id2, payload2, err2 := Validate("3", raw, "Zz9a", "Zz9a")

		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, id1, id2)
		assert.Equal(t, payload1, payload2)
	})
}

func TestCheckRequired(t *testing.T) {
	f := model.Form{ID: 7, Title: "Contact", FieldIDs: []int{1, 2, 3}}
	fields := map[int]model.Field{
		1: {ID: 1, Name: "email", Type: model.FieldEmail, Required: true},
		2: {ID: 2, Name: "message", Type: model.FieldTextarea},
		// field 3 no longer exists
	}

	t.Run("passes when required fields are filled", func(t *testing.T) {
		err := CheckRequired(f, fields, map[string]string{"email": "a@b.com"})
		assert.NoError(t, err)
	})

	t.Run("names missing required fields", func(t *testing.T) {
		err := CheckRequired(f, fields, map[string]string{"message": "hi"})
		require.ErrorIs(t, err, ErrMissingRequired)
		assert.Contains(t, err.Error(), "email")
	})

	t.Run("whitespace does not satisfy a required field", func(t *testing.T) {
		err := CheckRequired(f, fields, map[string]string{"email": "   "})
		assert.ErrorIs(t, err, ErrMissingRequired)
	})

	t.Run("dangling references are not required", func(t *testing.T) {
		err := CheckRequired(f, fields, map[string]string{"email": "a@b.com"})
		assert.NoError(t, err)
	})
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain text untouched", "a@b.com", "a@b.com"},
		{"trims surrounding whitespace", "  hello  ", "hello"},
		{"strips markup", "<b>bold</b> move", "bold move"},
		{"drops control characters", "line\x00one\x07", "line one"},
		{"collapses inner whitespace", "a \t\n b", "a b"},
		{"keeps ampersands literal", "this & that", "this & that"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}
