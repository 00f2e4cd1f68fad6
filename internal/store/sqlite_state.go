package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"treeline/internal/model"
	"treeline/internal/outline"
	"treeline/internal/tree"
)

const schemaVersion = 1

// State is everything the workspace persists: the node snapshot plus the
// last-selected node id.
type State struct {
	Snapshot   tree.Snapshot
	SelectedID string
}

// Load reads the workspace state. An empty database is seeded once from the
// workspace's outline.txt if present, mirroring how a fresh workspace
// bootstraps from a plain-text outline.
func (s Store) Load(ctx context.Context) (State, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return State{}, err
	}
	defer db.Close()

	st, hasNodes, err := loadState(ctx, db)
	if err != nil {
		return State{}, err
	}
	if !hasNodes {
		if text, ok := s.seedText(ctx); ok {
			st.Snapshot = outline.Parse(text, IDGenerator())
			if err := saveState(ctx, db, st); err != nil {
				return State{}, err
			}
		}
	}
	return st, nil
}

// Save writes the workspace state, replacing the previous one. The snapshot
// is a consistent immutable value, so replace-all inside one transaction is
// simple and safe at this dataset size.
func (s Store) Save(ctx context.Context, st State) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	return saveState(ctx, db, st)
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids "database
	// is locked" flakiness when a second treeline process pokes the file.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY,
			text TEXT NOT NULL,
			parent_id TEXT NOT NULL,
			ord REAL NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func loadState(ctx context.Context, db *sql.DB) (State, bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, text, parent_id, ord FROM nodes`)
	if err != nil {
		return State{}, false, err
	}
	defer rows.Close()

	var nodes []model.Node
	for rows.Next() {
		var n model.Node
		var parent string
		if err := rows.Scan(&n.ID, &n.Text, &parent, &n.Order); err != nil {
			return State{}, false, err
		}
		parent = strings.TrimSpace(parent)
		if parent == "" {
			parent = tree.RootID
		}
		p := parent
		n.ParentID = &p
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return State{}, false, err
	}

	st := State{Snapshot: tree.FromNodes(nodes)}
	var selected string
	err = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, "selected_node_id").Scan(&selected)
	if err != nil && err != sql.ErrNoRows {
		return State{}, false, err
	}
	st.SelectedID = strings.TrimSpace(selected)
	return st, len(nodes) > 0, nil
}

func saveState(ctx context.Context, db *sql.DB, st State) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	meta := map[string]string{
		"version":          strconv.Itoa(schemaVersion),
		"selected_node_id": strings.TrimSpace(st.SelectedID),
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, k, v); err != nil {
			return err
		}
	}

	// Replace-all strategy: the snapshot is the whole truth.
	if _, err := tx.ExecContext(ctx, `DELETE FROM nodes`); err != nil {
		return err
	}

	nowMs := time.Now().UTC().UnixMilli()
	for _, n := range st.Snapshot.Nodes() {
		if n.ParentID == nil {
			continue // the sentinel is implicit, never stored
		}
		raw, _ := json.Marshal(n)
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO nodes(id, text, parent_id, ord, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			n.ID, n.Text, *n.ParentID, n.Order, string(raw), nowMs); err != nil {
			return err
		}
	}

	return tx.Commit()
}
