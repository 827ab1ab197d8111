package database

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Tanishq-Raina/AI-Code-Explainer/internal/engine"
)

const submissionsSchema = `
CREATE TABLE IF NOT EXISTS submissions (
	id             UUID PRIMARY KEY,
	user_id        TEXT NOT NULL,
	source         TEXT NOT NULL,
	status         TEXT NOT NULL,
	output         TEXT,
	error_message  TEXT,
	exception_type TEXT,
	line_number    INT,
	submitted_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS submissions_user_id_idx ON submissions (user_id, submitted_at DESC);
`

// EnsureSchema creates the submissions table when it does not exist yet.
func (db *Database) EnsureSchema(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, submissionsSchema)
	return err
}

// Submission is one evaluated code submission as persisted.
type Submission struct {
	ID            uuid.UUID
	UserID        string
	Source        string
	Status        string
	Output        string
	ErrorMessage  string
	ExceptionType string
	LineNumber    *int
	SubmittedAt   time.Time
}

// LogSubmission persists a submission and its classified result, returning
// the generated ID. Callers treat a failure here as log-and-continue.
func (db *Database) LogSubmission(ctx context.Context, userID, source string, res *engine.Result) (uuid.UUID, error) {
	id := uuid.New()
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO submissions
			(id, user_id, source, status, output, error_message, exception_type, line_number)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, userID, source, string(res.Status),
		res.Output, res.ErrorMessage, res.ExceptionType, res.LineNumber,
	)
	if err != nil {
		return uuid.Nil, err
	}

	db.log.Debug().
		Stringer("submission_id", id).
		Str("user_id", userID).
		Str("status", string(res.Status)).
		Msg("submission logged")
	return id, nil
}

// RecentByUser returns a user's latest submissions, newest first.
func (db *Database) RecentByUser(ctx context.Context, userID string, limit int) ([]Submission, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, source, status, output, error_message, exception_type, line_number, submitted_at
		 FROM submissions
		 WHERE user_id = $1
		 ORDER BY submitted_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var s Submission
		if err := rows.Scan(&s.ID, &s.UserID, &s.Source, &s.Status, &s.Output,
			&s.ErrorMessage, &s.ExceptionType, &s.LineNumber, &s.SubmittedAt); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
