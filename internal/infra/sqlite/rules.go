package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
)

// ─── Rest-Day Rules ─────────────────────────────────────────────────────────

// UpsertRule inserts or replaces a scoped rest-day rule.
func (d *DB) UpsertRule(r domain.Rule) error {
	_, err := d.db.Exec(
		`INSERT INTO rules (id, scope, date, weekday, day_of_month, rest_day, effective_from, effective_to)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			scope=excluded.scope,
			date=excluded.date,
			weekday=excluded.weekday,
			day_of_month=excluded.day_of_month,
			rest_day=excluded.rest_day,
			effective_from=excluded.effective_from,
			effective_to=excluded.effective_to`,
		r.ID, string(r.Scope), nullableDay(r.Date), nullableInt(r.Weekday),
		nullableInt(r.DayOfMonth), r.RestDay,
		r.EffectiveFrom.Format(dayFormat), nullableDay(r.EffectiveTo),
	)
	return err
}

// ListRules returns every stored rule.
func (d *DB) ListRules() ([]domain.Rule, error) {
	rows, err := d.db.Query(
		`SELECT id, scope, date, weekday, day_of_month, rest_day, effective_from, effective_to
		 FROM rules ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Rule
	for rows.Next() {
		var r domain.Rule
		var scope, from string
		var date, to sql.NullString
		var weekday, dom sql.NullInt64
		if err := rows.Scan(&r.ID, &scope, &date, &weekday, &dom, &r.RestDay, &from, &to); err != nil {
			return nil, err
		}
		r.Scope = domain.RuleScope(scope)
		if r.Date, err = parseNullableDay(date); err != nil {
			return nil, err
		}
		if weekday.Valid {
			w := int(weekday.Int64)
			r.Weekday = &w
		}
		if dom.Valid {
			m := int(dom.Int64)
			r.DayOfMonth = &m
		}
		if r.EffectiveFrom, err = parseDay(from); err != nil {
			return nil, err
		}
		if r.EffectiveTo, err = parseNullableDay(to); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteRule removes a rule by ID.
func (d *DB) DeleteRule(id string) error {
	result, err := d.db.Exec(`DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

// ─── Quota Groups ───────────────────────────────────────────────────────────

// UpsertGroup inserts or replaces a quota group configuration.
func (d *DB) UpsertGroup(g domain.GroupConfig) error {
	_, err := d.db.Exec(
		`INSERT INTO group_configs (id, days_of_week, required_count, effective_from, effective_to)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			days_of_week=excluded.days_of_week,
			required_count=excluded.required_count,
			effective_from=excluded.effective_from,
			effective_to=excluded.effective_to`,
		g.ID, encodeDays(g.DaysOfWeek), g.RequiredCount,
		g.EffectiveFrom.Format(dayFormat), nullableDay(g.EffectiveTo),
	)
	return err
}

// ListGroups returns every stored group configuration.
func (d *DB) ListGroups() ([]domain.GroupConfig, error) {
	rows, err := d.db.Query(
		`SELECT id, days_of_week, required_count, effective_from, effective_to
		 FROM group_configs ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GroupConfig
	for rows.Next() {
		var g domain.GroupConfig
		var days, from string
		var to sql.NullString
		if err := rows.Scan(&g.ID, &days, &g.RequiredCount, &from, &to); err != nil {
			return nil, err
		}
		if g.DaysOfWeek, err = decodeDays(days); err != nil {
			return nil, err
		}
		if g.EffectiveFrom, err = parseDay(from); err != nil {
			return nil, err
		}
		if g.EffectiveTo, err = parseNullableDay(to); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// DeleteGroup removes a group configuration by ID.
func (d *DB) DeleteGroup(id string) error {
	result, err := d.db.Exec(`DELETE FROM group_configs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

// ─── Settings ───────────────────────────────────────────────────────────────

// SaveSettings persists the engine settings to the key-value table.
func (d *DB) SaveSettings(s domain.Settings) error {
	pairs := map[string]string{
		"shield_condition":    string(s.ShieldCondition),
		"required_weeks":      strconv.Itoa(s.RequiredWeeks),
		"allow_revival_weeks": boolStr(s.AllowRevivalWeeks),
		"allow_shield_weeks":  boolStr(s.AllowShieldWeeks),
		"effective_from":      dayOrEmpty(s.EffectiveFrom),
	}
	for k, v := range pairs {
		_, err := d.db.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value=excluded.value`, k, v,
		)
		if err != nil {
			return fmt.Errorf("save %s: %w", k, err)
		}
	}
	return nil
}

// GetSettings loads the engine settings, falling back to defaults for
// missing keys.
func (d *DB) GetSettings() (domain.Settings, error) {
	s := domain.Settings{
		ShieldCondition: domain.ConditionStraightCount,
		RequiredWeeks:   4,
	}

	rows, err := d.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return s, err
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return s, err
		}
		switch k {
		case "shield_condition":
			if v != "" {
				s.ShieldCondition = domain.ShieldCondition(v)
			}
		case "required_weeks":
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				s.RequiredWeeks = n
			}
		case "allow_revival_weeks":
			s.AllowRevivalWeeks = v == "1"
		case "allow_shield_weeks":
			s.AllowShieldWeeks = v == "1"
		case "effective_from":
			if v != "" {
				if t, err := parseDay(v); err == nil {
					s.EffectiveFrom = &t
				}
			}
		}
	}
	return s, rows.Err()
}

// ─── Encoding helpers ───────────────────────────────────────────────────────

func encodeDays(days []time.Weekday) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(int(d))
	}
	return strings.Join(parts, ",")
}

func decodeDays(s string) ([]time.Weekday, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("decode days %q: %w", s, err)
		}
		days = append(days, time.Weekday(n))
	}
	return days, nil
}

func nullableInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func dayOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dayFormat)
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
