package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"jiraharvest/worklog"
)

// Outcome of processing one issue in a sync run.
const (
	OutcomeCreated = "created"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Record is one per-issue result row in the local sync history.
type Record struct {
	ID        int64
	IssueKey  string
	Summary   string
	Client    string
	Project   string
	Task      string
	SpentDate string
	Hours     float64
	Outcome   string
	Reason    string
	CreatedAt time.Time
}

// RecordFromDraft builds a history record for a fully resolved draft.
func RecordFromDraft(draft worklog.Draft, outcome, reason string) Record {
	return Record{
		IssueKey:  draft.IssueKey,
		Summary:   draft.Summary,
		Client:    draft.Client,
		Project:   draft.Project,
		Task:      draft.Task,
		SpentDate: draft.SpentDateString(),
		Hours:     draft.Hours,
		Outcome:   outcome,
		Reason:    reason,
	}
}

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS sync_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	issue_key TEXT NOT NULL,
	summary TEXT NOT NULL,
	client TEXT NOT NULL DEFAULT '',
	project TEXT NOT NULL DEFAULT '',
	task TEXT NOT NULL DEFAULT '',
	spent_date TEXT NOT NULL DEFAULT '',
	hours REAL NOT NULL DEFAULT 0 CHECK(hours >= 0),
	outcome TEXT NOT NULL CHECK(outcome IN ('created', 'skipped', 'failed')),
	reason TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_sync_history_issue_key ON sync_history(issue_key);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertRecord appends one history row and returns its ID.
func (s *SQLiteStore) InsertRecord(record Record) (int64, error) {
	const insertStmt = `
INSERT INTO sync_history (
	issue_key,
	summary,
	client,
	project,
	task,
	spent_date,
	hours,
	outcome,
	reason
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`

	res, err := s.db.Exec(
		insertStmt,
		record.IssueKey,
		record.Summary,
		record.Client,
		record.Project,
		record.Task,
		record.SpentDate,
		record.Hours,
		record.Outcome,
		record.Reason,
	)
	if err != nil {
		return 0, fmt.Errorf("insert sync record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted row id: %w", err)
	}
	return id, nil
}

// ListRecords returns the full sync history, newest rows last.
func (s *SQLiteStore) ListRecords() ([]Record, error) {
	const query = `
SELECT
	id,
	issue_key,
	summary,
	client,
	project,
	task,
	spent_date,
	hours,
	outcome,
	reason,
	created_at
FROM sync_history
ORDER BY id;
`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query sync history: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0, 64)
	for rows.Next() {
		var (
			record       Record
			createdAtRaw string
		)
		if err := rows.Scan(
			&record.ID,
			&record.IssueKey,
			&record.Summary,
			&record.Client,
			&record.Project,
			&record.Task,
			&record.SpentDate,
			&record.Hours,
			&record.Outcome,
			&record.Reason,
			&createdAtRaw,
		); err != nil {
			return nil, fmt.Errorf("scan sync record: %w", err)
		}

		if createdAt, err := time.Parse("2006-01-02 15:04:05", createdAtRaw); err == nil {
			record.CreatedAt = createdAt
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync history: %w", err)
	}

	return records, nil
}

// ListRecordsByIssue returns the history rows for one issue key in insert order.
func (s *SQLiteStore) ListRecordsByIssue(issueKey string) ([]Record, error) {
	const query = `
SELECT
	id,
	issue_key,
	summary,
	client,
	project,
	task,
	spent_date,
	hours,
	outcome,
	reason,
	created_at
FROM sync_history
WHERE issue_key = ?
ORDER BY id;
`

	rows, err := s.db.Query(query, issueKey)
	if err != nil {
		return nil, fmt.Errorf("query sync history for %s: %w", issueKey, err)
	}
	defer rows.Close()

	records := make([]Record, 0, 8)
	for rows.Next() {
		var (
			record       Record
			createdAtRaw string
		)
		if err := rows.Scan(
			&record.ID,
			&record.IssueKey,
			&record.Summary,
			&record.Client,
			&record.Project,
			&record.Task,
			&record.SpentDate,
			&record.Hours,
			&record.Outcome,
			&record.Reason,
			&createdAtRaw,
		); err != nil {
			return nil, fmt.Errorf("scan sync record: %w", err)
		}

		if createdAt, err := time.Parse("2006-01-02 15:04:05", createdAtRaw); err == nil {
			record.CreatedAt = createdAt
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync history: %w", err)
	}

	return records, nil
}

// DeleteAllRecords clears the sync history.
func (s *SQLiteStore) DeleteAllRecords() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM sync_history;`)
	if err != nil {
		return 0, fmt.Errorf("delete sync history: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted row count: %w", err)
	}
	return rows, nil
}
