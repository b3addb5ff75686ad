package persist

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// Journal is an additive sqlite-backed event/metrics log: window lifecycle
// events and transaction settlement latency, summarised by Metrics (the
// reactor's GetMetrics IPC reply does not read it and is an empty
// object). It never participates in save/restore — the
// textual Snapshot is the sole source of truth for reactor state — this is
// purely an observability side-channel, grounded on the teacher's one
// concrete sqlite use (apps/texelterm/parser/search_index.go's FTS5
// search index): same WAL-pragma DSN and schema_version bootstrap, scaled
// down to the two tables this journal actually needs.
type Journal struct {
	db  *sql.DB
	log zerolog.Logger
}

const journalSchema = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

CREATE TABLE IF NOT EXISTS window_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ts INTEGER NOT NULL,
    window_pid INTEGER NOT NULL,
    window_index INTEGER NOT NULL,
    kind TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_window_events_ts ON window_events(ts);

CREATE TABLE IF NOT EXISTS txn_latencies (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ts INTEGER NOT NULL,
    txid INTEGER NOT NULL,
    latency_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_txn_latencies_ts ON txn_latencies(ts);
`

const journalSchemaVersion = 1

// OpenJournal opens (creating if necessary) the journal database at path.
func OpenJournal(path string, log zerolog.Logger) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("persist: journal mkdir: %w", err)
	}
	dsn := path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("persist: journal open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("persist: journal ping: %w", err)
	}
	if _, err := db.Exec(journalSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("persist: journal schema: %w", err)
	}
	if _, err := db.Exec("INSERT OR REPLACE INTO schema_version (version) VALUES (?)", journalSchemaVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("persist: journal schema version: %w", err)
	}
	return &Journal{db: db, log: log}, nil
}

func (j *Journal) Close() error { return j.db.Close() }

// RecordWindowEvent appends one window lifecycle event ("added", "removed",
// "focused", "resized", ...).
func (j *Journal) RecordWindowEvent(pid int32, index uint32, kind string) {
	_, err := j.db.Exec(
		"INSERT INTO window_events (ts, window_pid, window_index, kind) VALUES (?, ?, ?, ?)",
		time.Now().UnixNano(), pid, index, kind,
	)
	if err != nil {
		j.log.Warn().Err(err).Str("kind", kind).Msg("persist: failed to record window event")
	}
}

// RecordTxnLatency appends one transaction's settlement latency, sampled
// between BeginRequest and the matching echo arriving back (internal/txn).
func (j *Journal) RecordTxnLatency(txid uint64, latency time.Duration) {
	_, err := j.db.Exec(
		"INSERT INTO txn_latencies (ts, txid, latency_ms) VALUES (?, ?, ?)",
		time.Now().UnixNano(), txid, latency.Milliseconds(),
	)
	if err != nil {
		j.log.Warn().Err(err).Uint64("txid", txid).Msg("persist: failed to record txn latency")
	}
}

// Metrics is the summary Journal.Metrics returns.
type Metrics struct {
	WindowEventCount  int64   `json:"window_event_count"`
	AvgTxnLatencyMs   float64 `json:"avg_txn_latency_ms"`
	P95TxnLatencyMs   float64 `json:"p95_txn_latency_ms"`
	SampledTxnLatency int64   `json:"sampled_txn_latency_count"`
}

// Metrics computes a summary of everything recorded at or after since.
func (j *Journal) Metrics(since time.Time) (Metrics, error) {
	var m Metrics
	row := j.db.QueryRow("SELECT COUNT(*) FROM window_events WHERE ts >= ?", since.UnixNano())
	if err := row.Scan(&m.WindowEventCount); err != nil {
		return m, fmt.Errorf("persist: window event count: %w", err)
	}

	row = j.db.QueryRow("SELECT COUNT(*), AVG(latency_ms) FROM txn_latencies WHERE ts >= ?", since.UnixNano())
	var avg sql.NullFloat64
	if err := row.Scan(&m.SampledTxnLatency, &avg); err != nil {
		return m, fmt.Errorf("persist: txn latency avg: %w", err)
	}
	if avg.Valid {
		m.AvgTxnLatencyMs = avg.Float64
	}

	m.P95TxnLatencyMs, _ = j.percentileTxnLatency(since, 0.95)
	return m, nil
}

// percentileTxnLatency computes an approximate percentile by sorting the
// sampled window in SQL (fine at this volume: a UI-facing metrics query,
// not a hot path).
func (j *Journal) percentileTxnLatency(since time.Time, p float64) (float64, error) {
	var count int64
	if err := j.db.QueryRow("SELECT COUNT(*) FROM txn_latencies WHERE ts >= ?", since.UnixNano()).Scan(&count); err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	offset := int64(float64(count-1) * p)
	var v float64
	err := j.db.QueryRow(
		"SELECT latency_ms FROM txn_latencies WHERE ts >= ? ORDER BY latency_ms ASC LIMIT 1 OFFSET ?",
		since.UnixNano(), offset,
	).Scan(&v)
	return v, err
}
