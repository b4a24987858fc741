package form

import (
	"strconv"
	"strings"

	"github.com/amestri/formbox/model"
	"github.com/pkg/errors"
)

var (
	ErrInvalidForm     = errors.New("invalid form id")
	ErrCaptchaMismatch = errors.New("captcha mismatch")
	ErrMissingRequired = errors.New("missing required field")
)

// Control keys ride along with every submission but never belong in the
// payload: the host's action marker and request-forgery token, the form id
// and the two captcha fields. The forgery token is verified by the host
// before the pipeline is ever invoked.
var controlKeys = map[string]bool{
	"action":         true,
	"csrf_token":     true,
	"form_id":        true,
	"captcha_input":  true,
	"captcha_answer": true,
}

// Validate checks a raw submission and produces the payload to persist. It
// is a pure function of its inputs: no store access, no side effects. Rules
// apply in order and the first failure wins.
//
// The captcha comparison is exact and case-sensitive against the answer the
// client round-tripped back; it filters trivial automated submissions only
// and is not a security boundary.
func Validate(formID string, raw map[string]string, userAnswer, expectedAnswer string) (int, map[string]string, error) {
	id, err := strconv.Atoi(strings.TrimSpace(formID))
	if err != nil || id <= 0 {
		return 0, nil, ErrInvalidForm
	}

	answer := Sanitize(userAnswer)
	if answer == "" || answer != Sanitize(expectedAnswer) {
		return 0, nil, ErrCaptchaMismatch
	}

	payload := map[string]string{}
	for key, value := range raw {
		if controlKeys[key] {
			continue
		}
		payload[key] = Sanitize(value)
	}
	return id, payload, nil
}

// CheckRequired re-validates the form's required fields server-side: every
// referenced field that still resolves and is marked required must carry a
// non-empty value. Dangling references are skipped, mirroring the renderer.
func CheckRequired(f model.Form, fields map[int]model.Field, payload map[string]string) error {
	var missing []string
	for _, id := range f.FieldIDs {
		field, ok := fields[id]
		if !ok {
			continue
		}
		if field.Required && strings.TrimSpace(payload[field.Name]) == "" {
			missing = append(missing, field.Name)
		}
	}
	if len(missing) > 0 {
		return errors.Wrap(ErrMissingRequired, strings.Join(missing, ", "))
	}
	return nil
}
