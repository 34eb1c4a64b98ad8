package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/money-gurus/guru-server/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS users (
	uid             TEXT PRIMARY KEY,
	username        TEXT NOT NULL,
	currency_symbol TEXT NOT NULL DEFAULT '₹'
);

CREATE TABLE IF NOT EXISTS month_entries (
	id         TEXT PRIMARY KEY,
	uid        TEXT NOT NULL,
	month      TEXT NOT NULL,
	income     REAL NOT NULL DEFAULT 0,
	recurring  REAL NOT NULL DEFAULT 0,
	leisure    REAL NOT NULL DEFAULT 0,
	savings    REAL NOT NULL DEFAULT 0,
	emergency  REAL NOT NULL DEFAULT 0,
	investment REAL NOT NULL DEFAULT 0,
	score      INTEGER NOT NULL DEFAULT 0,
	advice     TEXT NOT NULL DEFAULT '[]',
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS portfolios (
	uid        TEXT PRIMARY KEY,
	income     REAL NOT NULL DEFAULT 0,
	recurring  REAL NOT NULL DEFAULT 0,
	leisure    REAL NOT NULL DEFAULT 0,
	savings    REAL NOT NULL DEFAULT 0,
	emergency  REAL NOT NULL DEFAULT 0,
	investment REAL NOT NULL DEFAULT 0,
	score      INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS budgets (
	uid        TEXT PRIMARY KEY,
	targets    TEXT NOT NULL DEFAULT '[]',
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS budget_actuals (
	uid        TEXT NOT NULL,
	month      TEXT NOT NULL,
	actuals    TEXT NOT NULL DEFAULT '[]',
	updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (uid, month)
);

CREATE TABLE IF NOT EXISTS leaderboard_members (
	group_code TEXT NOT NULL,
	uid        TEXT NOT NULL,
	username   TEXT NOT NULL,
	score      INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (group_code, uid)
);

CREATE INDEX IF NOT EXISTS idx_month_entries_uid ON month_entries(uid);
CREATE INDEX IF NOT EXISTS idx_month_entries_month ON month_entries(uid, month);
CREATE INDEX IF NOT EXISTS idx_leaderboard_group ON leaderboard_members(group_code);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) UpsertUser(ctx context.Context, u model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (uid, username, currency_symbol) VALUES (?, ?, ?)
		 ON CONFLICT(uid) DO UPDATE SET username = excluded.username, currency_symbol = excluded.currency_symbol`,
		u.UID, u.Username, u.CurrencySymbol,
	)
	return eris.Wrapf(err, "sqlite: upsert user %s", u.UID)
}

func (s *SQLiteStore) GetUser(ctx context.Context, uid string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx,
		`SELECT uid, username, currency_symbol FROM users WHERE uid = ?`, uid,
	).Scan(&u.UID, &u.Username, &u.CurrencySymbol)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get user %s", uid)
	}
	return &u, nil
}

func (s *SQLiteStore) SaveMonth(ctx context.Context, entry model.MonthEntry) error {
	adviceJSON, err := json.Marshal(entry.Advice)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal advice")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO month_entries
		 (id, uid, month, income, recurring, leisure, savings, emergency, investment, score, advice, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UID, entry.Month,
		entry.Income, entry.Recurring, entry.Leisure,
		entry.Savings, entry.Emergency, entry.Investment,
		entry.Score, string(adviceJSON), entry.CreatedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert month entry %s", entry.ID)
	}

	// Keep the latest-portfolio snapshot in sync so the portfolio page
	// and leaderboard sync read current figures.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO portfolios (uid, income, recurring, leisure, savings, emergency, investment, score, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(uid) DO UPDATE SET
		   income = excluded.income, recurring = excluded.recurring, leisure = excluded.leisure,
		   savings = excluded.savings, emergency = excluded.emergency, investment = excluded.investment,
		   score = excluded.score, updated_at = excluded.updated_at`,
		entry.UID, entry.Income, entry.Recurring, entry.Leisure,
		entry.Savings, entry.Emergency, entry.Investment,
		entry.Score, time.Now().UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: upsert portfolio %s", entry.UID)
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit month entry")
}

func (s *SQLiteStore) History(ctx context.Context, uid string) ([]model.MonthEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, uid, month, income, recurring, leisure, savings, emergency, investment, score, advice, created_at
		 FROM month_entries WHERE uid = ?
		 ORDER BY month DESC, created_at DESC`, uid,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query history %s", uid)
	}
	defer rows.Close()

	var entries []model.MonthEntry
	for rows.Next() {
		var e model.MonthEntry
		var adviceJSON string
		if err := rows.Scan(
			&e.ID, &e.UID, &e.Month,
			&e.Income, &e.Recurring, &e.Leisure,
			&e.Savings, &e.Emergency, &e.Investment,
			&e.Score, &adviceJSON, &e.CreatedAt,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan month entry")
		}
		if err := json.Unmarshal([]byte(adviceJSON), &e.Advice); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal advice for %s", e.ID)
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: iterate history")
}

func (s *SQLiteStore) DeleteMonth(ctx context.Context, uid, entryID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM month_entries WHERE uid = ? AND id = ?`, uid, entryID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete month entry %s", entryID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) LatestPortfolio(ctx context.Context, uid string) (*model.Portfolio, error) {
	var p model.Portfolio
	err := s.db.QueryRowContext(ctx,
		`SELECT income, recurring, leisure, savings, emergency, investment, score
		 FROM portfolios WHERE uid = ?`, uid,
	).Scan(&p.Income, &p.Recurring, &p.Leisure, &p.Savings, &p.Emergency, &p.Investment, &p.Score)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get portfolio %s", uid)
	}
	return &p, nil
}

func (s *SQLiteStore) SaveBudgets(ctx context.Context, uid string, budgets []model.CategoryBudget) error {
	targets, err := json.Marshal(budgets)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal budgets")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO budgets (uid, targets, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(uid) DO UPDATE SET targets = excluded.targets, updated_at = excluded.updated_at`,
		uid, string(targets), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save budgets %s", uid)
}

func (s *SQLiteStore) GetBudgets(ctx context.Context, uid string) ([]model.CategoryBudget, error) {
	var targets string
	err := s.db.QueryRowContext(ctx,
		`SELECT targets FROM budgets WHERE uid = ?`, uid,
	).Scan(&targets)
	if err == sql.ErrNoRows {
		return []model.CategoryBudget{}, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get budgets %s", uid)
	}
	var budgets []model.CategoryBudget
	if err := json.Unmarshal([]byte(targets), &budgets); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal budgets %s", uid)
	}
	return budgets, nil
}

func (s *SQLiteStore) SaveActuals(ctx context.Context, uid, month string, actuals []model.CategoryActual) error {
	blob, err := json.Marshal(actuals)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal actuals")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO budget_actuals (uid, month, actuals, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(uid, month) DO UPDATE SET actuals = excluded.actuals, updated_at = excluded.updated_at`,
		uid, month, string(blob), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: save actuals %s %s", uid, month)
}

func (s *SQLiteStore) GetActuals(ctx context.Context, uid, month string) ([]model.CategoryActual, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT actuals FROM budget_actuals WHERE uid = ? AND month = ?`, uid, month,
	).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get actuals %s %s", uid, month)
	}
	var actuals []model.CategoryActual
	if err := json.Unmarshal([]byte(blob), &actuals); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal actuals %s", uid)
	}
	return actuals, nil
}

func (s *SQLiteStore) UpsertMember(ctx context.Context, code string, m model.Member) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO leaderboard_members (group_code, uid, username, score, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(group_code, uid) DO UPDATE SET
		   username = excluded.username, score = excluded.score, updated_at = excluded.updated_at`,
		code, m.UID, m.Username, m.Score, time.Now().UTC().Format(time.RFC3339),
	)
	return eris.Wrapf(err, "sqlite: upsert member %s in %s", m.UID, code)
}

func (s *SQLiteStore) GroupMembers(ctx context.Context, code string) ([]model.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uid, username, score, updated_at FROM leaderboard_members
		 WHERE group_code = ? ORDER BY score DESC, username ASC`, code,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query members %s", code)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		var m model.Member
		if err := rows.Scan(&m.UID, &m.Username, &m.Score, &m.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan member")
		}
		members = append(members, m)
	}
	return members, eris.Wrap(rows.Err(), "sqlite: iterate members")
}
