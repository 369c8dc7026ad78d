package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"

	"github.com/brewkit/grindex/pkg/grindex/store"
)

// sqliteStore implements store.Store using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode and foreign keys enabled, and
// creates the schema if needed.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys so grinder deletion cascades to brew methods
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS grinders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT UNIQUE NOT NULL,
	min_microns REAL,
	max_microns REAL,
	url TEXT
);

CREATE TABLE IF NOT EXISTS brew_methods (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	grinder_id INTEGER NOT NULL,
	method_name TEXT NOT NULL,
	start_microns REAL,
	end_microns REAL,
	start_setting TEXT,
	end_setting TEXT,
	setting_format TEXT NOT NULL DEFAULT 'simple',
	grind_category TEXT,
	UNIQUE(grinder_id, method_name),
	FOREIGN KEY(grinder_id) REFERENCES grinders(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_brew_methods_name
ON brew_methods (method_name);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertGrinder inserts or updates a grinder, keyed by name.
func (s *sqliteStore) UpsertGrinder(ctx context.Context, g store.Grinder) (int64, error) {
	const stmt = `
INSERT INTO grinders (name, min_microns, max_microns, url)
VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
	min_microns=excluded.min_microns,
	max_microns=excluded.max_microns,
	url=excluded.url
RETURNING id;
`

	var id int64
	err := s.db.QueryRowContext(
		ctx,
		stmt,
		g.Name,
		nullFloat(g.MinMicrons),
		nullFloat(g.MaxMicrons),
		g.URL,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetGrinder retrieves a grinder by ID.
func (s *sqliteStore) GetGrinder(ctx context.Context, id int64) (store.Grinder, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name, min_microns, max_microns, url
FROM grinders
WHERE id = ?;
`, id)
	return scanGrinder(row)
}

// FindGrinder retrieves the first grinder whose name contains the given
// substring (case-insensitive), in name order.
func (s *sqliteStore) FindGrinder(ctx context.Context, nameSubstring string) (store.Grinder, bool, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name, min_microns, max_microns, url
FROM grinders
WHERE name LIKE '%' || ? || '%'
ORDER BY name
LIMIT 1;
`, nameSubstring)

	g, err := scanGrinder(row)
	if err == sql.ErrNoRows {
		return store.Grinder{}, false, nil
	}
	if err != nil {
		return store.Grinder{}, false, err
	}
	return g, true, nil
}

// ListGrinders returns all grinders in name order.
func (s *sqliteStore) ListGrinders(ctx context.Context) ([]store.Grinder, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, min_microns, max_microns, url
FROM grinders
ORDER BY name;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grinders []store.Grinder
	for rows.Next() {
		g, err := scanGrinder(rows)
		if err != nil {
			return nil, err
		}
		grinders = append(grinders, g)
	}
	return grinders, rows.Err()
}

// DeleteGrinder removes a grinder; its brew methods cascade.
func (s *sqliteStore) DeleteGrinder(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM grinders WHERE id = ?`, id)
	return err
}

// UpsertBrewMethod inserts or updates a brew method, keyed by
// (grinder, method name).
func (s *sqliteStore) UpsertBrewMethod(ctx context.Context, m store.BrewMethod) (int64, error) {
	const stmt = `
INSERT INTO brew_methods
	(grinder_id, method_name, start_microns, end_microns,
	 start_setting, end_setting, setting_format, grind_category)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(grinder_id, method_name) DO UPDATE SET
	start_microns=excluded.start_microns,
	end_microns=excluded.end_microns,
	start_setting=excluded.start_setting,
	end_setting=excluded.end_setting,
	setting_format=excluded.setting_format,
	grind_category=excluded.grind_category
RETURNING id;
`

	format := m.SettingFormat
	if format == "" {
		format = "simple"
	}

	var id int64
	err := s.db.QueryRowContext(
		ctx,
		stmt,
		m.GrinderID,
		m.MethodName,
		nullFloat(m.StartMicrons),
		nullFloat(m.EndMicrons),
		nullString(m.StartSetting),
		nullString(m.EndSetting),
		format,
		nullEmpty(m.GrindCategory),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// BrewMethodsOf returns a grinder's brew methods in method-name order.
func (s *sqliteStore) BrewMethodsOf(ctx context.Context, grinderID int64) ([]store.BrewMethod, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, grinder_id, method_name, start_microns, end_microns,
       start_setting, end_setting, setting_format, grind_category
FROM brew_methods
WHERE grinder_id = ?
ORDER BY method_name;
`, grinderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []store.BrewMethod
	for rows.Next() {
		var (
			m            store.BrewMethod
			startM, endM sql.NullFloat64
			startS, endS sql.NullString
			category     sql.NullString
		)
		if err := rows.Scan(
			&m.ID, &m.GrinderID, &m.MethodName,
			&startM, &endM, &startS, &endS,
			&m.SettingFormat, &category,
		); err != nil {
			return nil, err
		}
		m.StartMicrons = floatPtr(startM)
		m.EndMicrons = floatPtr(endM)
		m.StartSetting = stringPtr(startS)
		m.EndSetting = stringPtr(endS)
		m.GrindCategory = category.String
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGrinder(row rowScanner) (store.Grinder, error) {
	var (
		g          store.Grinder
		minM, maxM sql.NullFloat64
		url        sql.NullString
	)
	if err := row.Scan(&g.ID, &g.Name, &minM, &maxM, &url); err != nil {
		return store.Grinder{}, err
	}
	g.MinMicrons = floatPtr(minM)
	g.MaxMicrons = floatPtr(maxM)
	g.URL = url.String
	return g, nil
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func stringPtr(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
