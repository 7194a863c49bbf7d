package store

import (
	"covid-trends/internal/model"
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

// InitDB opens the run-history database and creates its tables if needed.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	runTable := `
	CREATE TABLE IF NOT EXISTS refresh_runs (
		id TEXT PRIMARY KEY,
		status TEXT,
		source_url TEXT,
		rows_fetched INTEGER DEFAULT 0,
		rows_kept INTEGER DEFAULT 0,
		countries INTEGER DEFAULT 0,
		started_at DATETIME,
		finished_at DATETIME
	);
	`
	errorTable := `
	CREATE TABLE IF NOT EXISTS run_errors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		error_message TEXT,
		created_at DATETIME
	);
	`
	logTable := `
	CREATE TABLE IF NOT EXISTS run_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT,
		stage TEXT,
		level TEXT,
		message TEXT,
		context TEXT,
		created_at DATETIME
	);
	`

	for _, stmt := range []string{runTable, errorTable, logTable} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// SaveRun records a new refresh run in running state.
func SaveRun(runID, sourceURL string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO refresh_runs (id, status, source_url, started_at) VALUES (?, ?, ?, ?)`,
		runID, model.RunRunning, sourceURL, now)
	return err
}

// UpdateRunStatus updates a run's status; terminal statuses also stamp
// finished_at.
func UpdateRunStatus(runID, status string) error {
	if status == model.RunCompleted || status == model.RunFailed {
		now := time.Now().UTC()
		_, err := db.Exec(`UPDATE refresh_runs SET status = ?, finished_at = ? WHERE id = ?`, status, now, runID)
		return err
	}
	_, err := db.Exec(`UPDATE refresh_runs SET status = ? WHERE id = ?`, status, runID)
	return err
}

// UpdateRunCounts records how much data a run processed.
func UpdateRunCounts(runID string, fetched, kept, countries int) error {
	_, err := db.Exec(`UPDATE refresh_runs SET rows_fetched = ?, rows_kept = ?, countries = ? WHERE id = ?`,
		fetched, kept, countries, runID)
	return err
}

// SaveRunError records an error for a run.
func SaveRunError(runID string, err error) error {
	if err == nil {
		return nil
	}
	now := time.Now().UTC()
	_, e := db.Exec(`INSERT INTO run_errors (run_id, error_message, created_at) VALUES (?, ?, ?)`,
		runID, err.Error(), now)
	return e
}

// SaveRunLog stores a structured per-stage log row.
func SaveRunLog(runID, stage, level, message string, context map[string]interface{}) error {
	ctxJSON, err := json.Marshal(context)
	if err != nil {
		ctxJSON = []byte("{}")
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO run_logs (run_id, stage, level, message, context, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, stage, level, message, string(ctxJSON), now)
	return err
}

// ListRuns returns the most recent runs, newest first.
func ListRuns(limit int) ([]model.RefreshRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.Query(`SELECT id, status, source_url, rows_fetched, rows_kept, countries, started_at, finished_at
		FROM refresh_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.RefreshRun
	for rows.Next() {
		var r model.RefreshRun
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Status, &r.SourceURL, &r.RowsFetched, &r.RowsKept, &r.Countries, &r.StartedAt, &finished); err != nil {
			return nil, err
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunErrors returns the recorded errors for one run.
func GetRunErrors(runID string) ([]string, error) {
	rows, err := db.Query(`SELECT error_message FROM run_errors WHERE run_id = ? ORDER BY created_at`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
