package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/amestri/formbox/model"
	"github.com/pkg/errors"
)

// Submissions is the append-only record of validated visitor answer sets.
type Submissions struct {
	db *sql.DB
}

func NewSubmissions(db *sql.DB) *Submissions {
	return &Submissions{db}
}

// Insert persists one payload against a form id with a UTC timestamp set
// once at insert. There is no update path.
func (s *Submissions) Insert(ctx context.Context, formID int, payload map[string]string) (int, error) {
	blob, err := json.Marshal(payload)
	if err != nil {
		return 0, errors.Wrap(err, "insert submission: encode payload")
	}

	var id int
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO submission (form_id, payload, created_at) VALUES (?, ?, ?)
		RETURNING id`,
		formID, string(blob), time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "insert submission")
	}
	return id, nil
}

func (s *Submissions) Get(ctx context.Context, id int) (model.Submission, error) {
	var sub model.Submission
	var blob string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, form_id, payload, created_at
		FROM submission
		WHERE id = ?`,
		id,
	).Scan(&sub.ID, &sub.FormID, &blob, &sub.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Submission{}, ErrNotFound
	}
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "get submission")
	}

	err = json.Unmarshal([]byte(blob), &sub.Payload)
	if err != nil {
		return model.Submission{}, errors.Wrap(err, "get submission: decode payload")
	}
	return sub, nil
}

// ListForExport joins submissions with their form titles, newest first. The
// join is outer on purpose: submissions against deleted forms still list,
// with an empty title.
func (s *Submissions) ListForExport(ctx context.Context) ([]model.ExportRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT coalesce(f.title, ''), s.payload, s.created_at
		FROM submission s
		LEFT OUTER JOIN form f ON (s.form_id = f.id)
		ORDER BY s.created_at DESC, s.id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list submissions")
	}
	defer rows.Close()

	export := []model.ExportRow{}
	for rows.Next() {
		var row model.ExportRow
		var blob string
		err = rows.Scan(&row.FormTitle, &blob, &row.CreatedAt)
		if err != nil {
			return nil, errors.Wrap(err, "list submissions: scan")
		}
		err = json.Unmarshal([]byte(blob), &row.Payload)
		if err != nil {
			return nil, errors.Wrap(err, "list submissions: decode payload")
		}
		export = append(export, row)
	}
	return export, rows.Err()
}
