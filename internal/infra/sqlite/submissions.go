package sqlite

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
)

// ─── Submission Repository ──────────────────────────────────────────────────

// InsertSubmission stores one submission row.
func (d *DB) InsertSubmission(s domain.Submission) error {
	_, err := d.db.Exec(
		`INSERT INTO submissions (id, user_id, target_date, status, kind, is_revival, reps, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, nullableDay(s.TargetDate), string(s.Status), string(s.Kind),
		s.IsRevival, s.Reps, s.CreatedAt.Unix(),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return domain.ErrSubmissionExists
	}
	return err
}

// ListSubmissions returns a user's full history, oldest first.
func (d *DB) ListSubmissions(userID string) ([]domain.Submission, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, target_date, status, kind, is_revival, reps, created_at
		 FROM submissions WHERE user_id = ?
		 ORDER BY target_date ASC, created_at ASC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Submission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

// GetSubmission retrieves one row by user, day and kind.
func (d *DB) GetSubmission(userID, day string, kind domain.Kind) (*domain.Submission, error) {
	row := d.db.QueryRow(
		`SELECT id, user_id, target_date, status, kind, is_revival, reps, created_at
		 FROM submissions WHERE user_id = ? AND target_date = ? AND kind = ?`,
		userID, day, string(kind),
	)
	s, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSubmission removes one row by user, day and kind.
func (d *DB) DeleteSubmission(userID, day string, kind domain.Kind) error {
	result, err := d.db.Exec(
		`DELETE FROM submissions WHERE user_id = ? AND target_date = ? AND kind = ?`,
		userID, day, string(kind),
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}

// ListUserIDs returns every user with at least one submission or profile.
func (d *DB) ListUserIDs() ([]string, error) {
	rows, err := d.db.Query(
		`SELECT user_id FROM submissions UNION SELECT user_id FROM profiles`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanSubmission(s scanner) (domain.Submission, error) {
	var sub domain.Submission
	var target sql.NullString
	var status, kind string
	var createdAt int64

	err := s.Scan(&sub.ID, &sub.UserID, &target, &status, &kind,
		&sub.IsRevival, &sub.Reps, &createdAt)
	if err != nil {
		return sub, err
	}

	sub.Status = domain.Status(status)
	sub.Kind = domain.Kind(kind)
	sub.CreatedAt = time.Unix(createdAt, 0)
	sub.TargetDate, err = parseNullableDay(target)
	return sub, err
}
