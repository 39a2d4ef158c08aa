package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
)

// ─── Profile Aggregates ─────────────────────────────────────────────────────

// GetProfile retrieves a user's cached aggregates.
func (d *DB) GetProfile(userID string) (*domain.Profile, error) {
	row := d.db.QueryRow(
		`SELECT user_id, current_streak, perfect_weeks, shield_stock, shields_used,
		        revival_count, total_days, total_reps, updated_at
		 FROM profiles WHERE user_id = ?`, userID,
	)
	var p domain.Profile
	var updatedAt int64
	err := row.Scan(&p.UserID, &p.CurrentStreak, &p.PerfectWeeks, &p.ShieldStock,
		&p.ShieldsUsed, &p.RevivalCount, &p.TotalDays, &p.TotalReps, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}

// UpsertProfile replaces a user's cached aggregates.
func (d *DB) UpsertProfile(p domain.Profile) error {
	_, err := d.db.Exec(
		`INSERT INTO profiles (user_id, current_streak, perfect_weeks, shield_stock,
		                       shields_used, revival_count, total_days, total_reps, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			current_streak=excluded.current_streak,
			perfect_weeks=excluded.perfect_weeks,
			shield_stock=excluded.shield_stock,
			shields_used=excluded.shields_used,
			revival_count=excluded.revival_count,
			total_days=excluded.total_days,
			total_reps=excluded.total_reps,
			updated_at=excluded.updated_at`,
		p.UserID, p.CurrentStreak, p.PerfectWeeks, p.ShieldStock,
		p.ShieldsUsed, p.RevivalCount, p.TotalDays, p.TotalReps, p.UpdatedAt.Unix(),
	)
	return err
}

// ─── Shield Transactions ────────────────────────────────────────────────────

// ApplyShield inserts a shield record for day and spends one token from the
// user's stock in a single transaction. Concurrent admins cannot double-
// spend: the stock check, the duplicate check and the insert commit or roll
// back together, and SQLite's single-writer lock serializes them.
func (d *DB) ApplyShield(rec domain.Submission) error {
	if rec.TargetDate == nil {
		return fmt.Errorf("apply shield: target date required")
	}
	day := rec.TargetDate.Format(dayFormat)

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var stock int
	err = tx.QueryRow(`SELECT shield_stock FROM profiles WHERE user_id = ?`, rec.UserID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrProfileNotFound
	}
	if err != nil {
		return err
	}
	if stock < 1 {
		return domain.ErrNoShieldStock
	}

	var shielded, succeeded int
	err = tx.QueryRow(
		`SELECT COUNT(CASE WHEN kind = ? THEN 1 END),
		        COUNT(CASE WHEN kind != ? AND status = ? THEN 1 END)
		 FROM submissions WHERE user_id = ? AND target_date = ?`,
		string(domain.KindShield), string(domain.KindShield), string(domain.StatusSuccess),
		rec.UserID, day,
	).Scan(&shielded, &succeeded)
	if err != nil {
		return err
	}
	if shielded > 0 {
		return domain.ErrShieldExists
	}
	if succeeded > 0 {
		return domain.ErrShieldOnSuccess
	}

	_, err = tx.Exec(
		`INSERT INTO submissions (id, user_id, target_date, status, kind, is_revival, reps, created_at)
		 VALUES (?, ?, ?, ?, ?, 0, 0, ?)`,
		rec.ID, rec.UserID, day, string(rec.Status), string(domain.KindShield), rec.CreatedAt.Unix(),
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(
		`UPDATE profiles SET shield_stock = shield_stock - 1, shields_used = shields_used + 1,
		        updated_at = ? WHERE user_id = ?`,
		rec.CreatedAt.Unix(), rec.UserID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// RemoveShield deletes the shield record for day and refunds the token,
// mirroring ApplyShield's transaction.
func (d *DB) RemoveShield(userID, day string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`DELETE FROM submissions WHERE user_id = ? AND target_date = ? AND kind = ?`,
		userID, day, string(domain.KindShield),
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrShieldNotFound
	}

	_, err = tx.Exec(
		`UPDATE profiles SET shield_stock = shield_stock + 1, shields_used = shields_used - 1,
		        updated_at = ? WHERE user_id = ?`,
		time.Now().Unix(), userID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}
