package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/amestri/formbox/model"
	"github.com/pkg/errors"
)

// Fields is the registry of reusable field definitions.
type Fields struct {
	db *sql.DB
}

func NewFields(db *sql.DB) *Fields {
	return &Fields{db}
}

func validateField(f model.Field) error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.Wrap(ErrValidation, "field name must not be empty")
	}
	if !f.Type.Valid() {
		return errors.Wrapf(ErrInvalidFieldType, "%q", f.Type)
	}
	return nil
}

func (s *Fields) Create(ctx context.Context, f model.Field) (int, error) {
	if err := validateField(f); err != nil {
		return 0, err
	}

	// options only make sense for selects; an empty list is tolerated and
	// renders as an empty option list
	options := ""
	if f.Type == model.FieldSelect {
		options = joinOptions(f.Options)
	}

	var id int
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO field (name, type, required, options) VALUES (?, ?, ?, ?)
		RETURNING id`,
		f.Name, string(f.Type), f.Required, options,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert field")
	}
	return id, nil
}

func (s *Fields) Update(ctx context.Context, f model.Field) error {
	if err := validateField(f); err != nil {
		return err
	}

	options := ""
	if f.Type == model.FieldSelect {
		options = joinOptions(f.Options)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE field
		SET name = ?, type = ?, required = ?, options = ?
		WHERE id = ?`,
		f.Name, string(f.Type), f.Required, options, f.ID,
	)
	if err != nil {
		return errors.Wrap(err, "update field")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update field: verify")
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a field definition. Forms referencing it are left alone;
// the renderer drops dangling references at render time.
func (s *Fields) Delete(ctx context.Context, id int) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM field WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete field")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete field: verify")
	}
	if n < 1 {
		return ErrNotFound
	}
	return nil
}

func (s *Fields) Get(ctx context.Context, id int) (model.Field, error) {
	f, err := scanField(s.db.QueryRowContext(ctx, `
		SELECT id, name, type, required, options, created_at
		FROM field
		WHERE id = ?`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Field{}, ErrNotFound
	}
	if err != nil {
		return model.Field{}, errors.Wrap(err, "get field")
	}
	return f, nil
}

// List returns all field definitions, oldest first.
func (s *Fields) List(ctx context.Context) ([]model.Field, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, required, options, created_at
		FROM field
		ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "list fields")
	}
	defer rows.Close()

	fields := []model.Field{}
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, errors.Wrap(err, "list fields: scan")
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

// Resolve looks up the given ids and returns whatever still exists, keyed by
// id. Missing ids are simply absent from the result.
func (s *Fields) Resolve(ctx context.Context, ids []int) (map[int]model.Field, error) {
	resolved := map[int]model.Field{}
	if len(ids) == 0 {
		return resolved, nil
	}

	placeholders := strings.Repeat(",?", len(ids))[1:]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, required, options, created_at
		FROM field
		WHERE id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, errors.Wrap(err, "resolve fields")
	}
	defer rows.Close()

	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, errors.Wrap(err, "resolve fields: scan")
		}
		resolved[f.ID] = f
	}
	return resolved, rows.Err()
}

// SeedDefaults makes sure the registry ships with the stock email field, so
// a fresh install has something to compose a form out of.
func (s *Fields) SeedDefaults(ctx context.Context) error {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM field WHERE name = 'email'`,
	).Scan(&n)
	if err != nil {
		return errors.Wrap(err, "seed fields")
	}
	if n > 0 {
		return nil
	}

	_, err = s.Create(ctx, model.Field{Name: "email", Type: model.FieldEmail})
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanField(row scanner) (f model.Field, err error) {
	var fieldType, options string
	err = row.Scan(&f.ID, &f.Name, &fieldType, &f.Required, &options, &f.CreatedAt)
	if err != nil {
		return
	}
	f.Type = model.FieldType(fieldType)
	f.Options = splitOptions(options)
	return
}
