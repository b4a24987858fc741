// Package store holds the durable collections behind the form pipeline:
// reusable field definitions, form compositions and visitor submissions.
// Validation and not-found conditions surface as sentinel errors so handlers
// can map them to user-visible statuses; anything else is a persistence
// failure wrapped with context for the operator log.
package store

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("invalid input")
	ErrInvalidFieldType = errors.New("invalid field type")
)

func joinOptions(options []string) string {
	return strings.Join(options, ",")
}

func splitOptions(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
