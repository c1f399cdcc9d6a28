// ============================================================================
// Royale ActionScript Front End (asfront)
// ============================================================================
//
// Package:     store
// Description: SQLite parse history. Each parse session is stored with its
//              problems and include offset cues so earlier runs can be
//              listed and compared.
// License:     Apache-2.0
// ============================================================================

package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/apache/royale-compiler-sub012/internal/include"
	"github.com/apache/royale-compiler-sub012/internal/parser"
	"github.com/apache/royale-compiler-sub012/internal/problem"
	aserror "github.com/apache/royale-compiler-sub012/pkg/core/error"
	aslog "github.com/apache/royale-compiler-sub012/pkg/core/log"
	"github.com/apache/royale-compiler-sub012/pkg/core/version"
)

// Session is one stored parse run
type Session struct {
	ID           string        `json:"id" yaml:"id"`
	Path         string        `json:"path" yaml:"path"`
	StartedAt    time.Time     `json:"started_at" yaml:"started_at"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
	ProblemCount int           `json:"problem_count" yaml:"problem_count"`
	ErrorCount   int           `json:"error_count" yaml:"error_count"`
	IncludeCount int           `json:"include_count" yaml:"include_count"`
	Aborted      bool          `json:"aborted" yaml:"aborted"`
}

// SessionFilter selects sessions for ListSessions
type SessionFilter struct {
	Path  string
	Since time.Time
	Limit int
}

// Config holds configuration for the history store
type Config struct {
	// Path of the database file; ":memory:" keeps everything in memory
	Path   string
	Logger *aslog.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/asfront.db",
	}
}

// History persists parse sessions in SQLite
type History struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *aslog.Logger
}

// Open opens or creates the history database
func Open(cfg Config) (*History, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = aslog.GetDefault()
	}

	dsn := cfg.Path
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, aserror.Wrap(err, "failed to create directory").
				WithCode(aserror.CodeIO).
				WithPath(cfg.Path)
		}
		dsn = cfg.Path + "?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"
	} else {
		dsn = ":memory:?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, dbError(err, "failed to open database").WithPath(cfg.Path)
	}
	if cfg.Path == ":memory:" {
		// every pooled connection would otherwise see its own database
		db.SetMaxOpenConns(1)
	}

	h := &History{db: db, logger: logger.WithField("component", "store")}
	if err := h.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema").WithPath(cfg.Path)
	}
	return h, nil
}

func dbError(err error, msg string) *aserror.Error {
	return aserror.Wrap(err, msg).WithCode(aserror.CodeDatabaseError)
}

func (h *History) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		started_at DATETIME NOT NULL,
		duration_ns INTEGER NOT NULL,
		problem_count INTEGER NOT NULL,
		error_count INTEGER NOT NULL,
		include_count INTEGER NOT NULL,
		aborted INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS problems (
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		severity INTEGER NOT NULL,
		message TEXT NOT NULL,
		path TEXT,
		start_offset INTEGER NOT NULL,
		end_offset INTEGER NOT NULL,
		line INTEGER NOT NULL,
		col INTEGER NOT NULL,
		PRIMARY KEY (session_id, seq)
	);

	CREATE TABLE IF NOT EXISTS offset_cues (
		session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		filename TEXT NOT NULL,
		absolute INTEGER NOT NULL,
		adjustment INTEGER NOT NULL,
		PRIMARY KEY (session_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sessions_path ON sessions(path);
	`
	if _, err := h.db.Exec(schema); err != nil {
		return err
	}

	var n int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM schema_version`).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		_, err := h.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, version.StoreSchema)
		return err
	}
	return nil
}

// SaveResult records a parse result with its problems and offset cues
func (h *History) SaveResult(ctx context.Context, res *parser.Result, startedAt time.Time) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if startedAt.IsZero() {
		startedAt = time.Now().Add(-res.Duration)
	}
	errorCount := 0
	for _, p := range res.Problems {
		if p.Severity == problem.SeverityError {
			errorCount++
		}
	}
	includeCount := 0
	if res.Lookup != nil {
		includeCount = len(res.Lookup.Files()) - 1
		if includeCount < 0 {
			includeCount = 0
		}
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return dbError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, path, started_at, duration_ns, problem_count, error_count, include_count, aborted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, res.SessionID, res.Path, startedAt.UTC(), int64(res.Duration), len(res.Problems), errorCount, includeCount, res.Aborted)
	if err != nil {
		return dbError(err, "failed to insert session").WithDetail("session_id", res.SessionID)
	}

	problemStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO problems (session_id, seq, kind, severity, message, path, start_offset, end_offset, line, col)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return dbError(err, "failed to prepare statement")
	}
	defer problemStmt.Close()

	for i, p := range res.Problems {
		if _, err := problemStmt.ExecContext(ctx, res.SessionID, i, string(p.Kind), int(p.Severity),
			p.Message, p.Path, p.Start, p.End, p.Line, p.Column); err != nil {
			return dbError(err, "failed to insert problem")
		}
	}

	cueStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO offset_cues (session_id, seq, filename, absolute, adjustment)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return dbError(err, "failed to prepare statement")
	}
	defer cueStmt.Close()

	for i, c := range res.Cues {
		if _, err := cueStmt.ExecContext(ctx, res.SessionID, i, c.Filename, c.Absolute, c.Adjustment); err != nil {
			return dbError(err, "failed to insert offset cue")
		}
	}

	if err := tx.Commit(); err != nil {
		return dbError(err, "failed to commit transaction")
	}

	h.logger.Debug("Session stored", aslog.Fields{
		"session_id": res.SessionID,
		"path":       res.Path,
		"problems":   len(res.Problems),
		"cues":       len(res.Cues),
	})
	return nil
}

// ListSessions returns stored sessions, newest first
func (h *History) ListSessions(ctx context.Context, filter SessionFilter) ([]*Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	query := `SELECT id, path, started_at, duration_ns, problem_count, error_count, include_count, aborted
		FROM sessions WHERE 1=1`
	var args []interface{}

	if filter.Path != "" {
		query += " AND path = ?"
		args = append(args, filter.Path)
	}
	if !filter.Since.IsZero() {
		query += " AND started_at >= ?"
		args = append(args, filter.Since.UTC())
	}
	query += " ORDER BY started_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to query sessions")
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var s Session
		var durationNS int64
		if err := rows.Scan(&s.ID, &s.Path, &s.StartedAt, &durationNS, &s.ProblemCount,
			&s.ErrorCount, &s.IncludeCount, &s.Aborted); err != nil {
			return nil, dbError(err, "failed to scan session")
		}
		s.Duration = time.Duration(durationNS)
		sessions = append(sessions, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read sessions")
	}
	return sessions, nil
}

// GetSession returns one session or a NOT_FOUND error
func (h *History) GetSession(ctx context.Context, id string) (*Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var s Session
	var durationNS int64
	err := h.db.QueryRowContext(ctx, `
		SELECT id, path, started_at, duration_ns, problem_count, error_count, include_count, aborted
		FROM sessions WHERE id = ?
	`, id).Scan(&s.ID, &s.Path, &s.StartedAt, &durationNS, &s.ProblemCount, &s.ErrorCount, &s.IncludeCount, &s.Aborted)
	if err == sql.ErrNoRows {
		return nil, aserror.Newf("session %s not found", id).WithCode(aserror.CodeNotFound)
	}
	if err != nil {
		return nil, dbError(err, "failed to query session")
	}
	s.Duration = time.Duration(durationNS)
	return &s, nil
}

// Problems returns the problems stored for a session in report order
func (h *History) Problems(ctx context.Context, sessionID string) ([]*problem.Problem, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rows, err := h.db.QueryContext(ctx, `
		SELECT kind, severity, message, path, start_offset, end_offset, line, col
		FROM problems WHERE session_id = ? ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, dbError(err, "failed to query problems")
	}
	defer rows.Close()

	var problems []*problem.Problem
	for rows.Next() {
		var p problem.Problem
		var kind string
		var severity int
		var path sql.NullString
		if err := rows.Scan(&kind, &severity, &p.Message, &path, &p.Start, &p.End, &p.Line, &p.Column); err != nil {
			return nil, dbError(err, "failed to scan problem")
		}
		p.Kind = problem.Kind(kind)
		p.Severity = problem.Severity(severity)
		p.Path = path.String
		problems = append(problems, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read problems")
	}
	return problems, nil
}

// Cues returns the offset cues stored for a session
func (h *History) Cues(ctx context.Context, sessionID string) ([]include.OffsetCue, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rows, err := h.db.QueryContext(ctx, `
		SELECT filename, absolute, adjustment FROM offset_cues WHERE session_id = ? ORDER BY seq
	`, sessionID)
	if err != nil {
		return nil, dbError(err, "failed to query offset cues")
	}
	defer rows.Close()

	var cues []include.OffsetCue
	for rows.Next() {
		var c include.OffsetCue
		if err := rows.Scan(&c.Filename, &c.Absolute, &c.Adjustment); err != nil {
			return nil, dbError(err, "failed to scan offset cue")
		}
		cues = append(cues, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "failed to read offset cues")
	}
	return cues, nil
}

// Prune deletes sessions older than the given age and returns how many
// were removed. Problems and cues go with their session.
func (h *History) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC()
	result, err := h.db.ExecContext(ctx, `DELETE FROM sessions WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, dbError(err, "failed to prune sessions")
	}
	deleted, _ := result.RowsAffected()
	if deleted > 0 {
		h.logger.Info("Pruned parse history", aslog.Fields{"sessions": deleted, "cutoff": cutoff})
	}
	return deleted, nil
}

// Ping verifies the database is reachable
func (h *History) Ping(ctx context.Context) error {
	if err := h.db.PingContext(ctx); err != nil {
		return dbError(err, "history database unreachable")
	}
	return nil
}

// Close closes the database connection
func (h *History) Close() error {
	return h.db.Close()
}
