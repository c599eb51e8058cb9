// Package usage records bot users and per-category download attempts.
package usage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/wallbot/core/bootstrap"
	"github.com/m3rciful/wallbot/core/logger"
)

// JoinDateLayout is the stored join date format.
const JoinDateLayout = "2006-01-02"

// User is a registered bot user.
type User struct {
	ID        int64  `db:"user_id"`
	FirstName string `db:"first_name"`
	Username  string `db:"username"`
	JoinDate  string `db:"join_date"`
}

// CategoryStat is the download counter of one category.
type CategoryStat struct {
	Category  string `db:"category" json:"category"`
	Downloads int64  `db:"downloads" json:"downloads"`
}

// Summary aggregates usage for the admin panel and the status server.
type Summary struct {
	Users      int64          `json:"users"`
	Downloads  int64          `json:"downloads"`
	Categories []CategoryStat `json:"categories"`
}

// Tracker persists users and counters. Writes are serialised.
type Tracker struct {
	db  *sqlx.DB
	mu  sync.Mutex
	log *slog.Logger
}

// NewTracker wraps a migrated database.
func NewTracker(db *sqlx.DB) *Tracker {
	return &Tracker{db: db, log: logger.Component("usage")}
}

// RegisterUserIfAbsent inserts u unless a user with the same id exists. It
// reports whether a row was created.
func (t *Tracker) RegisterUserIfAbsent(ctx context.Context, u User) (bool, error) {
	if u.JoinDate == "" {
		u.JoinDate = time.Now().Format(JoinDateLayout)
	}
	q := t.db.Rebind(`INSERT INTO users (user_id, first_name, username, join_date)
		VALUES (?, ?, ?, ?) ON CONFLICT (user_id) DO NOTHING`)

	t.mu.Lock()
	res, err := t.db.ExecContext(ctx, q, u.ID, u.FirstName, u.Username, u.JoinDate)
	t.mu.Unlock()
	if err != nil {
		return false, fmt.Errorf("register user %d: %w", u.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("register user %d: rows affected: %w", u.ID, err)
	}
	if n > 0 {
		logger.LogEvent(ctx, t.log, slog.LevelInfo, "user.registered", slog.String("status", "ok"))
	}
	return n > 0, nil
}

// IncrementCategoryCount adds one download attempt to category, creating its
// counter at zero first.
func (t *Tracker) IncrementCategoryCount(ctx context.Context, category string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("increment %q: begin: %w", category, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind(
		`INSERT INTO stats (category, downloads) VALUES (?, 0) ON CONFLICT (category) DO NOTHING`,
	), category); err != nil {
		return fmt.Errorf("increment %q: seed: %w", category, err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(
		`UPDATE stats SET downloads = downloads + 1 WHERE category = ?`,
	), category); err != nil {
		return fmt.Errorf("increment %q: update: %w", category, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("increment %q: commit: %w", category, err)
	}
	return nil
}

// EnsureCategories creates zero counters for categories that have none.
func (t *Tracker) EnsureCategories(ctx context.Context, categories []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ensure categories: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := tx.Rebind(`INSERT INTO stats (category, downloads) VALUES (?, 0) ON CONFLICT (category) DO NOTHING`)
	for _, c := range categories {
		if _, err := tx.ExecContext(ctx, q, c); err != nil {
			return fmt.Errorf("ensure category %q: %w", c, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ensure categories: commit: %w", err)
	}
	return nil
}

// CategoryCount returns the counter of category, zero when absent.
func (t *Tracker) CategoryCount(ctx context.Context, category string) (int64, error) {
	var n []int64
	if err := t.db.SelectContext(ctx, &n, t.db.Rebind(`SELECT downloads FROM stats WHERE category = ?`), category); err != nil {
		return 0, fmt.Errorf("category count %q: %w", category, err)
	}
	if len(n) == 0 {
		return 0, nil
	}
	return n[0], nil
}

// UserCount returns the number of registered users.
func (t *Tracker) UserCount(ctx context.Context) (int64, error) {
	var n int64
	if err := t.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("user count: %w", err)
	}
	return n, nil
}

// User returns the registered user with id.
func (t *Tracker) User(ctx context.Context, id int64) (User, error) {
	var u User
	if err := t.db.GetContext(ctx, &u, t.db.Rebind(
		`SELECT user_id, first_name, username, join_date FROM users WHERE user_id = ?`,
	), id); err != nil {
		return User{}, fmt.Errorf("user %d: %w", id, err)
	}
	return u, nil
}

// Summary returns the user count and all counters, busiest category first.
func (t *Tracker) Summary(ctx context.Context) (Summary, error) {
	users, err := t.UserCount(ctx)
	if err != nil {
		return Summary{}, err
	}
	var stats []CategoryStat
	if err := t.db.SelectContext(ctx, &stats,
		`SELECT category, downloads FROM stats ORDER BY downloads DESC, category ASC`,
	); err != nil {
		return Summary{}, fmt.Errorf("summary: %w", err)
	}
	s := Summary{Users: users, Categories: stats}
	for _, c := range stats {
		s.Downloads += c.Downloads
	}
	return s, nil
}

// Seeder returns a bootstrap seeder creating zero counters for categories.
func Seeder(categories []string) bootstrap.Seeder {
	return bootstrap.SeederFunc(func(ctx context.Context, storage bootstrap.Storage) error {
		db, ok := storage.(*sqlx.DB)
		if !ok {
			return fmt.Errorf("usage seeder: unsupported storage %T", storage)
		}
		return NewTracker(db).EnsureCategories(ctx, categories)
	})
}
