package recorder

import (
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"NiftySentinel/internal/model"
)

// SQLiteRecorder persists evaluations to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS evaluations (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			ruleset      TEXT NOT NULL,
			label        TEXT NOT NULL,
			severity     TEXT NOT NULL,
			rule         TEXT,
			rationale    TEXT,
			quote        REAL,
			quote_source TEXT,
			prior_close  REAL,
			gap_points   REAL,
			gap_percent  REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_evaluations_ts ON evaluations(timestamp)`,

		`CREATE TABLE IF NOT EXISTS evaluation_signals (
			evaluation_id TEXT NOT NULL REFERENCES evaluations(id),
			symbol        TEXT NOT NULL,
			change_pct    REAL,
			price         REAL,
			PRIMARY KEY (evaluation_id, symbol)
		)`,

		`CREATE TABLE IF NOT EXISTS evaluation_technicals (
			evaluation_id TEXT NOT NULL REFERENCES evaluations(id),
			symbol        TEXT NOT NULL,
			indicator     TEXT NOT NULL,
			value         REAL,
			PRIMARY KEY (evaluation_id, symbol, indicator)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordEvaluation writes the verdict, its inputs and the computed technicals in one transaction.
// Technicals that were not computed are stored as NULL.
func (r *SQLiteRecorder) RecordEvaluation(ev *model.Evaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO evaluations
		(id, timestamp, ruleset, label, severity, rule, rationale,
		 quote, quote_source, prior_close, gap_points, gap_percent)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		ev.ID, ev.EvaluatedAt.Unix(), ev.RuleSet,
		ev.Verdict.Label, string(ev.Verdict.Severity), ev.Verdict.Rule, ev.Verdict.Rationale,
		ev.Gap.Quote, string(ev.QuoteSource), ev.Gap.PriorClose, ev.Gap.Points, ev.Gap.Percent,
	)
	if err != nil {
		return fmt.Errorf("insert evaluation: %w", err)
	}

	symbols := make([]string, 0, len(ev.Changes))
	for sym := range ev.Changes {
		symbols = append(symbols, string(sym))
	}
	sort.Strings(symbols)
	for _, s := range symbols {
		sym := model.Symbol(s)
		if _, err := tx.Exec(`INSERT INTO evaluation_signals (evaluation_id, symbol, change_pct, price) VALUES (?,?,?,?)`,
			ev.ID, s, ev.Changes[sym], ev.Prices[sym]); err != nil {
			return fmt.Errorf("insert signal %s: %w", s, err)
		}
	}

	for key, rd := range ev.Technicals {
		var value any
		if rd.Valid {
			value = rd.Value
		}
		if _, err := tx.Exec(`INSERT INTO evaluation_technicals (evaluation_id, symbol, indicator, value) VALUES (?,?,?,?)`,
			ev.ID, string(key.Symbol), string(key.Indicator), value); err != nil {
			return fmt.Errorf("insert technical %s/%s: %w", key.Symbol, key.Indicator, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
