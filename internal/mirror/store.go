package mirror

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Jrchintu/a2z-old-sheet/internal/config"
)

const articleColumns = `id, link, category, slug, path, status, run_id, error_message, created_at, updated_at`

// Store manages the article ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Paths.LedgerPath
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the ledger database file path.
func (s *Store) Path() string {
	return s.path
}

// Ensure returns the ledger row for the plan's link, inserting a pending row
// when the link has never been seen.
func (s *Store) Ensure(ctx context.Context, plan Plan) (*Article, error) {
	article, err := s.GetByLink(ctx, plan.Link)
	if err != nil {
		return nil, err
	}
	if article != nil {
		return article, nil
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO articles (
            link, category, slug, path, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		plan.Link,
		plan.Category,
		plan.Slug,
		plan.Path,
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert article: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a single article by primary key.
func (s *Store) GetByID(ctx context.Context, id int64) (*Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	article, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return article, err
}

// GetByLink fetches a single article by its post link. Returns nil when the
// link has no ledger row.
func (s *Store) GetByLink(ctx context.Context, link string) (*Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE link = ?`, link)
	article, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return article, err
}

// Update persists the article's status, run ID, and error message.
func (s *Store) Update(ctx context.Context, article *Article) error {
	if article == nil {
		return errors.New("nil article")
	}
	article.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(
		ctx,
		`UPDATE articles SET status = ?, run_id = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		article.Status,
		nullableString(article.RunID),
		nullableString(article.ErrorMessage),
		article.UpdatedAt.Format(time.RFC3339Nano),
		article.ID,
	)
	if err != nil {
		return fmt.Errorf("update article %d: %w", article.ID, err)
	}
	return nil
}

// List returns articles filtered by status set (or all articles when no
// status is provided), ordered by category then slug.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Article, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + articleColumns + ` FROM articles`
	orderClause := ` ORDER BY category, slug`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []*Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// Stats returns a count of articles grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM articles GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("ledger stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// ResetFailed moves failed articles back to pending so the next run fetches
// them again. With no ids every failed article is reset; otherwise only the
// listed ids change, and only when currently failed.
func (s *Store) ResetFailed(ctx context.Context, ids ...int64) (int64, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	if len(ids) == 0 {
		res, err := s.db.ExecContext(
			ctx,
			`UPDATE articles SET status = ?, error_message = NULL, updated_at = ? WHERE status = ?`,
			StatusPending,
			timestamp,
			StatusFailed,
		)
		if err != nil {
			return 0, fmt.Errorf("reset failed articles: %w", err)
		}
		return res.RowsAffected()
	}

	placeholders := makePlaceholders(len(ids))
	args := make([]any, 0, len(ids)+2)
	args = append(args, StatusPending, timestamp)
	for _, id := range ids {
		args = append(args, id)
	}
	query := `UPDATE articles SET status = ?, error_message = NULL, updated_at = ?
        WHERE id IN (` + placeholders + `) AND status = '` + string(StatusFailed) + `'`
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reset selected articles: %w", err)
	}
	return res.RowsAffected()
}

// NewestUpdatedAt returns the most recent ledger update time. ok is false
// when the ledger is empty.
func (s *Store) NewestUpdatedAt(ctx context.Context) (time.Time, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT MAX(updated_at) FROM articles`)
	var raw sql.NullString
	if err := row.Scan(&raw); err != nil {
		return time.Time{}, false, fmt.Errorf("newest update time: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return time.Time{}, false, nil
	}
	parsed, err := parseTimeString(raw.String)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse update time %q: %w", raw.String, err)
	}
	return parsed, true, nil
}

// CheckHealth verifies the ledger can be queried and its file is intact.
func (s *Store) CheckHealth(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping ledger: %w", err)
	}

	var name string
	row := s.db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'articles'`)
	if err := row.Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errors.New("articles table missing")
		}
		return fmt.Errorf("inspect schema: %w", err)
	}

	var result string
	if err := s.db.QueryRowContext(ctx, `PRAGMA integrity_check`).Scan(&result); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check reported %q", result)
	}
	return nil
}

func scanArticle(scanner interface{ Scan(dest ...any) error }) (*Article, error) {
	var (
		id           int64
		link         string
		category     string
		slug         string
		pathValue    string
		statusStr    string
		runID        sql.NullString
		errorMessage sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&link,
		&category,
		&slug,
		&pathValue,
		&statusStr,
		&runID,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	article := &Article{
		ID:           id,
		Link:         link,
		Category:     category,
		Slug:         slug,
		Path:         pathValue,
		Status:       Status(statusStr),
		RunID:        runID.String,
		ErrorMessage: errorMessage.String,
	}

	if createdRaw.Valid {
		if parsed, err := parseTimeString(createdRaw.String); err == nil {
			article.CreatedAt = parsed
		}
	}
	if updatedRaw.Valid {
		if parsed, err := parseTimeString(updatedRaw.String); err == nil {
			article.UpdatedAt = parsed
		}
	}

	return article, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
