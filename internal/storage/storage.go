// Package storage provides a SQLite-backed store for universe data.
// It holds the systems and directed jump connections that make up the
// reachability graph, so that large universes are parsed once and then
// loaded quickly on every run.
//
// The store does not keep simulation results. Reports are produced per run
// and returned to the caller.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/rewired-gh/skyhook-sim/internal/universe"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS systems (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    security TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_systems_security ON systems(security);

CREATE TABLE IF NOT EXISTS connections (
    system_id TEXT NOT NULL,
    neighbor_id TEXT NOT NULL,
    PRIMARY KEY (system_id, neighbor_id)
);
`

// Storage is a universe store backed by a single SQLite database
type Storage struct {
	db     *sql.DB
	dbPath string
}

// Counts summarizes the store contents
type Counts struct {
	Systems     int `json:"systems"`
	Connections int `json:"connections"`
}

// New opens (creating if needed) the database at dbPath and initializes the schema.
// Pass MemoryPath for a throwaway store.
func New(dbPath string) (*Storage, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dsn := dbPath
	if dbPath != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory
	// database exists only on the connection that created it.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Storage{db: db, dbPath: dbPath}, nil
}

// Path returns the database path the store was opened with
func (s *Storage) Path() string {
	return s.dbPath
}

// ImportSystems upserts system records. Records without an ID are skipped.
// It returns the number of rows written.
func (s *Storage) ImportSystems(ctx context.Context, records []universe.SystemRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO systems (id, name, security) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, security = excluded.security`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.Security); err != nil {
			return 0, fmt.Errorf("failed to insert system %s: %w", r.ID, err)
		}
		written++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit systems: %w", err)
	}
	return written, nil
}

// ImportConnections stores one directed edge per jump node, splitting each
// record's jump list on delim. Duplicate edges are ignored.
// It returns the number of edges read from the records.
func (s *Storage) ImportConnections(ctx context.Context, records []universe.ConnectionRecord, delim string) (int, error) {
	if delim == "" {
		delim = ":"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO connections (system_id, neighbor_id) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	edges := 0
	for _, r := range records {
		if r.SystemID == "" {
			continue
		}
		for _, n := range r.Neighbors(delim) {
			if _, err := stmt.ExecContext(ctx, r.SystemID, n); err != nil {
				return 0, fmt.Errorf("failed to insert connection %s->%s: %w", r.SystemID, n, err)
			}
			edges++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit connections: %w", err)
	}
	return edges, nil
}

// LoadGraph builds a reachability graph from the stored universe. Systems whose
// security equals securityStatus become start/target candidates; every stored
// connection is traversable. An empty securityStatus selects every system.
func (s *Storage) LoadGraph(ctx context.Context, securityStatus string) (*universe.Graph, error) {
	query := `SELECT id FROM systems ORDER BY rowid`
	var args []any
	if securityStatus != "" {
		query = `SELECT id FROM systems WHERE security = ? ORDER BY rowid`
		args = append(args, securityStatus)
	}

	g := universe.NewGraph()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query systems: %w", err)
	}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan system: %w", err)
		}
		g.AddSystem(id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate systems: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT system_id, neighbor_id FROM connections ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var from, to string
		if err := rows.Scan(&from, &to); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		g.Connect(from, to)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate connections: %w", err)
	}

	return g, nil
}

// Counts returns the number of stored systems and connections
func (s *Storage) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM systems`).Scan(&c.Systems); err != nil {
		return Counts{}, fmt.Errorf("failed to count systems: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM connections`).Scan(&c.Connections); err != nil {
		return Counts{}, fmt.Errorf("failed to count connections: %w", err)
	}
	return c, nil
}

// Clear removes all stored systems and connections
func (s *Storage) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM connections; DELETE FROM systems;`); err != nil {
		return fmt.Errorf("failed to clear store: %w", err)
	}
	return nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}
