package session

import (
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"mindprint/internal/belief"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS session_versions (
	version_id        TEXT PRIMARY KEY,
	session_id        TEXT NOT NULL,
	parent_id         TEXT,
	step              INTEGER NOT NULL,
	mu                BLOB NOT NULL,
	sigma             BLOB NOT NULL,
	answers_json      TEXT NOT NULL,
	dealbreakers_json TEXT NOT NULL,
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL,
	FOREIGN KEY (parent_id) REFERENCES session_versions(version_id)
);

CREATE INDEX IF NOT EXISTS idx_session_versions_session
	ON session_versions(session_id, step);

CREATE TABLE IF NOT EXISTS active_sessions (
	session_id    TEXT PRIMARY KEY,
	version_id    TEXT NOT NULL,
	FOREIGN KEY (version_id) REFERENCES session_versions(version_id)
);
`

// #endregion schema

// #region store
// SQLiteStore persists every session snapshot as a versioned row plus an
// active pointer per session. Put never overwrites a prior version.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying handle for the audit logger, which shares the
// same database file.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// #endregion store

// #region put
// Put inserts a new version row and moves the session's active pointer to it
// atomically.
func (s *SQLiteStore) Put(st State) error {
	answersJSON, err := json.Marshal(st.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}
	dealbreakersJSON, err := json.Marshal(st.Dealbreakers)
	if err != nil {
		return fmt.Errorf("marshal dealbreakers: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var parentPtr interface{}
	if st.ParentID != "" {
		parentPtr = st.ParentID
	}

	_, err = tx.Exec(
		`INSERT INTO session_versions
		 (version_id, session_id, parent_id, step, mu, sigma, answers_json, dealbreakers_json, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		st.VersionID, st.ID, parentPtr, st.Step,
		encodeVector(st.Belief.Mu), encodeVector(st.Belief.Sigma),
		string(answersJSON), string(dealbreakersJSON),
		st.CreatedAt.UTC().Format(time.RFC3339Nano), st.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert version: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO active_sessions (session_id, version_id) VALUES (?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET version_id = excluded.version_id`,
		st.ID, st.VersionID,
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	return tx.Commit()
}

// #endregion put

// #region get
// Get reads the session's active version.
func (s *SQLiteStore) Get(id string) (State, error) {
	var versionID string
	err := s.db.QueryRow(`SELECT version_id FROM active_sessions WHERE session_id = ?`, id).Scan(&versionID)
	if err == sql.ErrNoRows {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("get active: %w", err)
	}
	return s.GetVersion(versionID)
}

// GetVersion retrieves a specific snapshot by version id.
func (s *SQLiteStore) GetVersion(versionID string) (State, error) {
	row := s.db.QueryRow(
		`SELECT version_id, session_id, parent_id, step, mu, sigma, answers_json, dealbreakers_json, created_at, updated_at
		 FROM session_versions WHERE version_id = ?`, versionID,
	)
	st, err := scanState(row)
	if err == sql.ErrNoRows {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("get version %s: %w", versionID, err)
	}
	return st, nil
}

// ListVersions returns a session's snapshots in step order.
func (s *SQLiteStore) ListVersions(sessionID string, limit int) ([]State, error) {
	rows, err := s.db.Query(
		`SELECT version_id, session_id, parent_id, step, mu, sigma, answers_json, dealbreakers_json, created_at, updated_at
		 FROM session_versions WHERE session_id = ? ORDER BY step ASC LIMIT ?`, sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var states []State
	for rows.Next() {
		st, err := scanState(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		states = append(states, st)
	}
	return states, rows.Err()
}

// #endregion get

// #region delete
// Delete removes a session's active pointer and all version rows.
func (s *SQLiteStore) Delete(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM active_sessions WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("delete active: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM session_versions WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("delete versions: %w", err)
	}
	return tx.Commit()
}

// #endregion delete

// #region scan
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanState(r rowScanner) (State, error) {
	var st State
	var parentID sql.NullString
	var muBlob, sigmaBlob []byte
	var answersJSON, dealbreakersJSON string
	var createdStr, updatedStr string

	err := r.Scan(&st.VersionID, &st.ID, &parentID, &st.Step,
		&muBlob, &sigmaBlob, &answersJSON, &dealbreakersJSON, &createdStr, &updatedStr)
	if err != nil {
		return State{}, err
	}

	if parentID.Valid {
		st.ParentID = parentID.String
	}
	st.Belief.Mu = decodeVector(muBlob)
	st.Belief.Sigma = decodeVector(sigmaBlob)
	if err := json.Unmarshal([]byte(answersJSON), &st.Answers); err != nil {
		return State{}, fmt.Errorf("unmarshal answers: %w", err)
	}
	if err := json.Unmarshal([]byte(dealbreakersJSON), &st.Dealbreakers); err != nil {
		return State{}, fmt.Errorf("unmarshal dealbreakers: %w", err)
	}
	st.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	st.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedStr)
	return st, nil
}

// #endregion scan

// #region vector-encoding
func encodeVector(v [belief.Dim]float64) []byte {
	buf := make([]byte, belief.Dim*8)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return buf
}

func decodeVector(b []byte) [belief.Dim]float64 {
	var v [belief.Dim]float64
	for i := range v {
		if i*8+8 <= len(b) {
			v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[i*8:]))
		}
	}
	return v
}

// #endregion vector-encoding
