package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/amestri/formbox/model"
	"github.com/pkg/errors"
)

// Forms stores named, ordered compositions of field ids. The order of
// field_ids is significant: it is the render order.
type Forms struct {
	db *sql.DB
}

func NewForms(db *sql.DB) *Forms {
	return &Forms{db}
}

func validateForm(f model.Form) error {
	if strings.TrimSpace(f.Title) == "" {
		return errors.Wrap(ErrValidation, "form title must not be empty")
	}
	if len(f.FieldIDs) == 0 {
		return errors.Wrap(ErrValidation, "form must reference at least one field")
	}
	return nil
}

func (s *Forms) Create(ctx context.Context, f model.Form) (int, error) {
	if err := validateForm(f); err != nil {
		return 0, err
	}

	fieldIds, err := json.Marshal(f.FieldIDs)
	if err != nil {
		return 0, errors.Wrap(err, "insert form: encode field ids")
	}

	var id int
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO form (title, field_ids) VALUES (?, ?)
		RETURNING id`,
		f.Title, string(fieldIds),
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert form")
	}
	return id, nil
}

func (s *Forms) Update(ctx context.Context, f model.Form) error {
	if err := validateForm(f); err != nil {
		return err
	}

	fieldIds, err := json.Marshal(f.FieldIDs)
	if err != nil {
		return errors.Wrap(err, "update form: encode field ids")
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE form
		SET title = ?, field_ids = ?
		WHERE id = ?`,
		f.Title, string(fieldIds), f.ID,
	)
	if err != nil {
		return errors.Wrap(err, "update form")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update form: verify")
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a form definition only. Its submissions stay behind as
// historical records.
func (s *Forms) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM form WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete form")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete form: verify")
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

func (s *Forms) Get(ctx context.Context, id int) (model.Form, error) {
	f, err := scanForm(s.db.QueryRowContext(ctx, `
		SELECT id, title, field_ids, created_at
		FROM form
		WHERE id = ?`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Form{}, ErrNotFound
	}
	if err != nil {
		return model.Form{}, errors.Wrap(err, "get form")
	}
	return f, nil
}

// List returns all forms, newest first.
func (s *Forms) List(ctx context.Context) ([]model.Form, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, field_ids, created_at
		FROM form
		ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list forms")
	}
	defer rows.Close()

	forms := []model.Form{}
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, errors.Wrap(err, "list forms: scan")
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

func scanForm(row scanner) (f model.Form, err error) {
	var fieldIds string
	err = row.Scan(&f.ID, &f.Title, &fieldIds, &f.CreatedAt)
	if err != nil {
		return
	}
	err = json.Unmarshal([]byte(fieldIds), &f.FieldIDs)
	if err != nil {
		err = errors.Wrap(err, "decode field ids")
	}
	return
}
