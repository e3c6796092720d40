// Package sqlite provides a SQLite-backed implementation of
// adjustlog.Repository.
//
// WAL mode is enabled on Open so that a reconciliation query running against
// the file never blocks the handler's writes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Meet-Joshi00971/shopify-bundle-adjuster/internal/adjustlog"

	// Register the pure-Go SQLite driver.
	// We use modernc.org/sqlite instead of mattn/go-sqlite3 to avoid CGO
	// requirements, making it easier to build and run in Docker (Alpine).
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. The table is append-only:
// each row is one adjustment submission, never updated afterwards.
const schema = `
CREATE TABLE IF NOT EXISTS adjustment_logs (
    -- Surrogate primary key, auto-incremented by SQLite.
    id           INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Bare numeric order id the request targeted.
    -- Not UNIQUE: resubmitting an order appends another row (no dedup).
    order_id     TEXT        NOT NULL,

    -- Unique reference for this submission (uuid).
    reference    TEXT        NOT NULL,

    -- Final classification: ADJUSTED, NOOP, REJECTED or FAILED.
    outcome      TEXT        NOT NULL,

    -- Number of inventory deltas in the submitted batch.
    delta_count  INTEGER     NOT NULL DEFAULT 0,

    -- JSON diagnostic detail (userErrors on REJECTED, error on FAILED).
    detail       TEXT,

    -- W3C trace_id (32 hex chars) from the active OTel span.
    trace_id     TEXT        NOT NULL DEFAULT '',

    -- W3C span_id (16 hex chars).
    span_id      TEXT        NOT NULL DEFAULT '',

    -- Wall-clock timestamp (RFC3339 stored as TEXT, SQLite idiom).
    created_at   TEXT        NOT NULL
);

-- Index for the reconciliation query: "all submissions for order X in order".
CREATE INDEX IF NOT EXISTS idx_adjustment_logs_order_id ON adjustment_logs(order_id, created_at);

-- Index for the observability query: "find the submission for trace Y".
CREATE INDEX IF NOT EXISTS idx_adjustment_logs_trace_id ON adjustment_logs(trace_id);
`

// Repository is the SQLite implementation of adjustlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	repo, err := sqlite.Open("./data/adjustments.db")
func Open(path string) (*Repository, error) {
	// The pure-Go driver uses _pragma query parameters to configure connection state.
	// WAL enables concurrent readers. busy_timeout waits for locks instead of
	// failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// Use "sqlite", not "sqlite3" for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new audit entry. Safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *adjustlog.Entry) error {
	const q = `
		INSERT INTO adjustment_logs
			(order_id, reference, outcome, delta_count, detail, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		entry.Reference,
		string(entry.Outcome),
		entry.DeltaCount,
		nullableString(entry.Detail),
		entry.TraceID,
		entry.SpanID,
		entry.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999999Z"),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save adjustment log for order %q: %w", entry.OrderID, err)
	}
	return nil
}

// ListByOrder returns every submission recorded for an order, oldest first.
// This is the reconciliation query; the handler itself never calls it.
func (r *Repository) ListByOrder(ctx context.Context, orderID string) ([]adjustlog.Entry, error) {
	const q = `
		SELECT order_id, reference, outcome, delta_count, COALESCE(detail,''),
		       trace_id, span_id, created_at
		FROM   adjustment_logs
		WHERE  order_id = ?
		ORDER  BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list for order %q: %w", orderID, err)
	}
	defer rows.Close()

	var entries []adjustlog.Entry
	for rows.Next() {
		var entry adjustlog.Entry
		var createdAt string
		if err := rows.Scan(
			&entry.OrderID,
			&entry.Reference,
			&entry.Outcome,
			&entry.DeltaCount,
			&entry.Detail,
			&entry.TraceID,
			&entry.SpanID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan for order %q: %w", orderID, err)
		}
		entry.CreatedAt, err = parseRFC3339(createdAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// nullableString returns nil for empty strings so SQLite stores NULL instead
// of an empty TEXT.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
