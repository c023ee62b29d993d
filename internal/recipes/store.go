package recipes

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"perso/internal/logging"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

var (
	// ErrNotFound is returned when no recipe carries the requested title.
	ErrNotFound = errors.New("recipe not found")
	// ErrUnavailable wraps every failure to reach the database file.
	ErrUnavailable = errors.New("database unavailable")
)

// Recipe is one row of the recipe table as seen by perso.
type Recipe struct {
	Title       string
	Description string
	Source      string
}

// Store is the recipe persistence contract used by the tools. Titles are the
// business key even though the table does not enforce uniqueness.
type Store interface {
	Update(ctx context.Context, title, description string) (Recipe, error)
	Search(ctx context.Context, source string, limit int) ([]Recipe, error)
}

// Finder looks a single recipe up by title.
type Finder interface {
	Get(ctx context.Context, title string) (Recipe, error)
}

// SQLiteStore opens the database for every operation and closes it right
// after, so the file is never held between tool calls.
type SQLiteStore struct {
	path   string
	logger *logging.AppLogger
}

// NewSQLiteStore returns a store backed by the database file at path. The
// file is not touched until the first operation.
func NewSQLiteStore(path string, logger *logging.AppLogger) *SQLiteStore {
	return &SQLiteStore{
		path:   path,
		logger: logger,
	}
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// open connects read-write without creating the file: a missing database is
// a connection failure, not an empty recipe book.
func (s *SQLiteStore) open(ctx context.Context) (*sql.DB, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	conn, err := sql.Open("sqlite3", dsn(s.path, "rw"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return conn, nil
}

// dsn builds a SQLite URI for path, escaping characters such as '?', '#'
// and '%' that would otherwise end the file name. Relative paths are made
// absolute so no part of them reads as a URI authority.
func dsn(path, mode string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{
		Scheme:   "file",
		Path:     path,
		RawQuery: url.Values{"mode": {mode}}.Encode(),
	}
	return u.String()
}

// Get looks a recipe up by title.
func (s *SQLiteStore) Get(ctx context.Context, title string) (Recipe, error) {
	conn, err := s.open(ctx)
	if err != nil {
		return Recipe{}, err
	}
	defer conn.Close()

	return getRecipe(ctx, conn, title)
}

// Update overwrites the description of the recipe with the given title, then
// reads the row back.
func (s *SQLiteStore) Update(ctx context.Context, title, description string) (Recipe, error) {
	conn, err := s.open(ctx)
	if err != nil {
		return Recipe{}, err
	}
	defer conn.Close()

	res, err := conn.ExecContext(ctx, `UPDATE recipe SET description = ? WHERE title = ?`, description, title)
	if err != nil {
		return Recipe{}, fmt.Errorf("updating recipe: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		s.logger.Debug("Recipe update executed", "title", title, "rows", n)
	}

	return getRecipe(ctx, conn, title)
}

// Search returns at most limit recipes from source, ordered by description.
func (s *SQLiteStore) Search(ctx context.Context, source string, limit int) ([]Recipe, error) {
	conn, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx,
		`SELECT title, description, source FROM recipe WHERE source = ? ORDER BY description LIMIT ?`,
		source, limit)
	if err != nil {
		return nil, fmt.Errorf("searching recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recipes: %w", err)
	}
	return recipes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecipe(row rowScanner) (Recipe, error) {
	var (
		r           Recipe
		description sql.NullString
		source      sql.NullString
	)
	if err := row.Scan(&r.Title, &description, &source); err != nil {
		return Recipe{}, err
	}
	r.Description = description.String
	r.Source = source.String
	return r, nil
}

func getRecipe(ctx context.Context, conn *sql.DB, title string) (Recipe, error) {
	row := conn.QueryRowContext(ctx,
		`SELECT title, description, source FROM recipe WHERE title = ? LIMIT 1`, title)
	r, err := scanRecipe(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Recipe{}, ErrNotFound
	}
	if err != nil {
		return Recipe{}, fmt.Errorf("reading recipe: %w", err)
	}
	return r, nil
}

// Create initializes a recipe database at path, creating the file and the
// recipe table if needed. The real database is owned by the recipe manager
// application; this exists for local setups and tests.
func Create(ctx context.Context, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", dsn(path, "rwc"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Insert adds a recipe row. Used to seed local databases.
func Insert(ctx context.Context, path string, r Recipe) error {
	conn, err := sql.Open("sqlite3", dsn(path, "rwc"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx,
		`INSERT INTO recipe (title, description, source) VALUES (?, ?, ?)`,
		r.Title, r.Description, r.Source)
	if err != nil {
		return fmt.Errorf("inserting recipe: %w", err)
	}
	return nil
}
