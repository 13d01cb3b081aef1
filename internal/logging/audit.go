package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region schema
const auditSchema = `
CREATE TABLE IF NOT EXISTS decision_audit (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	version_id  TEXT NOT NULL,
	step        INTEGER NOT NULL,
	question_id TEXT,
	option_id   TEXT,
	phase       TEXT NOT NULL,
	entropy     REAL NOT NULL,
	confidence  REAL NOT NULL,
	reason      TEXT,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decision_audit_session
	ON decision_audit(session_id, step);
`

// #endregion schema

// #region entry
// AuditEntry is one row of the decision audit trail: which question was
// answered, what the selector decided, and where the belief stood afterward.
type AuditEntry struct {
	SessionID  string
	VersionID  string
	Step       int
	QuestionID string
	OptionID   string
	Phase      string
	Entropy    float64
	Confidence float64
	Reason     string
	CreatedAt  time.Time
}

// #endregion entry

// #region auditor
// Auditor writes decision audit rows. It shares the session store's database.
type Auditor struct {
	db *sql.DB
}

// NewAuditor runs the audit migration and returns a writer.
func NewAuditor(db *sql.DB) (*Auditor, error) {
	if _, err := db.Exec(auditSchema); err != nil {
		return nil, fmt.Errorf("migrate audit: %w", err)
	}
	return &Auditor{db: db}, nil
}

// Record appends one audit row.
func (a *Auditor) Record(entry AuditEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := a.db.Exec(
		`INSERT INTO decision_audit
		 (session_id, version_id, step, question_id, option_id, phase, entropy, confidence, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.SessionID,
		entry.VersionID,
		entry.Step,
		nullIfEmpty(entry.QuestionID),
		nullIfEmpty(entry.OptionID),
		entry.Phase,
		entry.Entropy,
		entry.Confidence,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}

// Trail returns a session's audit rows in step order.
func (a *Auditor) Trail(sessionID string) ([]AuditEntry, error) {
	rows, err := a.db.Query(
		`SELECT session_id, version_id, step, question_id, option_id, phase, entropy, confidence, reason, created_at
		 FROM decision_audit WHERE session_id = ? ORDER BY step ASC, id ASC`, sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query audit: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var questionID, optionID, reason sql.NullString
		var createdStr string
		if err := rows.Scan(&e.SessionID, &e.VersionID, &e.Step, &questionID, &optionID,
			&e.Phase, &e.Entropy, &e.Confidence, &reason, &createdStr); err != nil {
			return nil, fmt.Errorf("scan audit row: %w", err)
		}
		e.QuestionID = questionID.String
		e.OptionID = optionID.String
		e.Reason = reason.String
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// #endregion auditor

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
