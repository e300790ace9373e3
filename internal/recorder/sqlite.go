package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite"

	"DistressSentinel/internal/model"
)

// SQLiteRecorder persists analysis history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{
		db:  db,
		log: log.With().Str("component", "recorder").Logger(),
		now: time.Now,
	}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS assessments (
			id            TEXT PRIMARY KEY,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT,
			company_name  TEXT,
			source        TEXT,
			total_assets  REAL,
			market_cap    REAL,
			overall       TEXT,
			high_count    INTEGER,
			medium_count  INTEGER,
			low_count     INTEGER,
			total_models  INTEGER,
			failures      TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_assessments_symbol_ts ON assessments(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS model_results (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			assessment_id TEXT NOT NULL REFERENCES assessments(id),
			position      INTEGER NOT NULL,
			model         TEXT NOT NULL,
			score         REAL,
			status        TEXT,
			risk          TEXT,
			probability   REAL,
			components    BLOB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_model_results_assessment ON model_results(assessment_id)`,

		`CREATE TABLE IF NOT EXISTS analysis_failures (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT,
			source    TEXT,
			kind      TEXT,
			reason    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_failures_ts ON analysis_failures(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordAssessment(evt *AssessmentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := evt.Assessment
	rec := evt.Record

	failures := make([]string, len(a.Failures))
	for i, f := range a.Failures {
		failures[i] = string(f.Model) + ": " + f.Reason
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO assessments
		(id, timestamp, symbol, company_name, source, total_assets, market_cap,
		 overall, high_count, medium_count, low_count, total_models, failures)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		a.ID, a.CreatedAt.Unix(), rec.Symbol, rec.CompanyName, rec.Source,
		rec.TotalAssets, rec.MarketCap, string(a.Overall),
		a.Count(model.RiskHigh), a.Count(model.RiskMedium), a.Count(model.RiskLow),
		a.Total, strings.Join(failures, "; "),
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}

	for i, res := range evt.Results {
		blob, err := msgpack.Marshal(res.Components)
		if err != nil {
			return fmt.Errorf("encode components of %s: %w", res.Model, err)
		}
		var prob sql.NullFloat64
		if res.Probability != nil {
			prob = sql.NullFloat64{Float64: *res.Probability, Valid: true}
		}
		_, err = tx.Exec(`INSERT INTO model_results
			(assessment_id, position, model, score, status, risk, probability, components)
			VALUES (?,?,?,?,?,?,?,?)`,
			a.ID, i, string(res.Model), res.Score, string(res.Status), string(res.Risk), prob, blob,
		)
		if err != nil {
			return fmt.Errorf("insert result %s: %w", res.Model, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordFailure(evt *FailureEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO analysis_failures
		(timestamp, symbol, source, kind, reason)
		VALUES (?,?,?,?,?)`,
		r.now().Unix(), evt.Symbol, evt.Source, evt.Kind, evt.Reason,
	)
	return err
}

// Recent returns the latest assessments of symbol, newest first.
func (r *SQLiteRecorder) Recent(symbol string, limit int) ([]StoredAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(`SELECT id, timestamp, symbol, company_name, source, overall,
		high_count, medium_count, low_count, total_models
		FROM assessments WHERE symbol = ? ORDER BY timestamp DESC, rowid DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}

	var out []StoredAssessment
	for rows.Next() {
		var s StoredAssessment
		var ts int64
		var overall string
		if err := rows.Scan(&s.ID, &ts, &s.Symbol, &s.CompanyName, &s.Source, &overall,
			&s.High, &s.Medium, &s.Low, &s.Total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		s.CreatedAt = time.Unix(ts, 0).UTC()
		s.Overall = model.Overall(overall)
		out = append(out, s)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	for i := range out {
		results, err := r.results(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Results = results
	}
	return out, nil
}

func (r *SQLiteRecorder) results(assessmentID string) ([]StoredResult, error) {
	rows, err := r.db.Query(`SELECT model, score, status, risk, components
		FROM model_results WHERE assessment_id = ? ORDER BY position`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []StoredResult
	for rows.Next() {
		var sr StoredResult
		var id, status, risk string
		var blob []byte
		if err := rows.Scan(&id, &sr.Score, &status, &risk, &blob); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := msgpack.Unmarshal(blob, &sr.Components); err != nil {
			return nil, fmt.Errorf("decode components: %w", err)
		}
		sr.Model = model.ModelID(id)
		sr.Status = model.Status(status)
		sr.Risk = model.RiskTier(risk)
		out = append(out, sr)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
