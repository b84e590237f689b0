package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/yyyfor/stock-master/internal/model"
)

// SQLiteRecorder persists cycle snapshots to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	log zerolog.Logger
	mu  sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while the updater writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cycle_snapshots (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			company          TEXT NOT NULL,
			symbol           TEXT NOT NULL,
			price            REAL,
			change_pct       REAL,
			volume           INTEGER,
			rsi_14           REAL,
			macd             REAL,
			volatility       REAL,
			position_52w     REAL,
			rating           TEXT,
			rating_score     INTEGER,
			quote_source     TEXT,
			quote_confidence REAL,
			is_estimated     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cycle_ts ON cycle_snapshots(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_cycle_company ON cycle_snapshots(company, timestamp)`,

		`CREATE TABLE IF NOT EXISTS quality_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			level     TEXT NOT NULL,
			message   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quality_ts ON quality_events(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordCycle inserts one snapshot row per company record.
func (r *SQLiteRecorder) RecordCycle(records map[string]*model.CompanyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().Unix()
	for company, rec := range records {
		estimated := 0
		if rec.IsEstimated {
			estimated = 1
		}
		_, err := r.db.Exec(`INSERT INTO cycle_snapshots
			(timestamp, company, symbol, price, change_pct, volume,
			 rsi_14, macd, volatility, position_52w,
			 rating, rating_score, quote_source, quote_confidence, is_estimated)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			now, company, rec.Symbol, rec.Price, rec.ChangePct, rec.Volume,
			rec.RSI14, rec.MACD, rec.Volatility, rec.Position52W,
			rec.TechnicalRating.Rating, rec.TechnicalRating.Score,
			rec.Source["quote"], rec.Confidence["quote"], estimated,
		)
		if err != nil {
			return fmt.Errorf("insert snapshot for %s: %w", company, err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordQuality(level, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO quality_events (timestamp, level, message) VALUES (?,?,?)`,
		time.Now().Unix(), level, message)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
