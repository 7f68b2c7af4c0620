package artifact

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteStore is a SQLite-backed Store, grounded on the original's
// SqliteArtifactStore, using database/sql over mattn/go-sqlite3 — the
// teacher's own SQLite driver dependency (pkg/checkpoint/storage.go).
type SqliteStore struct {
	db *sql.DB
}

// NewSqliteStore opens (or creates) the artifacts table at dbPath.
func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("artifact: open sqlite db: %w", err)
	}
	const schema = `CREATE TABLE IF NOT EXISTS artifacts (
		id TEXT PRIMARY KEY,
		content BLOB NOT NULL,
		summary TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		mime_type TEXT NOT NULL,
		source TEXT NOT NULL,
		session_id TEXT,
		created_at REAL NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("artifact: create artifacts table: %w", err)
	}
	return &SqliteStore{db: db}, nil
}

// Close releases the underlying database connection.
func (s *SqliteStore) Close() error { return s.db.Close() }

func (s *SqliteStore) Store(content []byte, source, mimeType string) (Handle, error) {
	id := contentHash(content)

	row := s.db.QueryRow(`SELECT summary, size_bytes, created_at FROM artifacts WHERE id = ?`, id)
	var summary string
	var size int
	var createdAtUnix float64
	if err := row.Scan(&summary, &size, &createdAtUnix); err == nil {
		return Handle{
			ArtifactID: id,
			Summary:    summary,
			SizeBytes:  size,
			MimeType:   mimeType,
			CreatedAt:  time.Unix(0, int64(createdAtUnix*float64(time.Second))),
			Source:     source,
		}, nil
	}

	now := time.Now()
	summary = summarize(content, defaultSummaryMaxLen)
	_, err := s.db.Exec(
		`INSERT INTO artifacts (id, content, summary, size_bytes, mime_type, source, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, content, summary, len(content), mimeType, source, float64(now.UnixNano())/float64(time.Second),
	)
	if err != nil {
		return Handle{}, fmt.Errorf("artifact: insert: %w", err)
	}
	return Handle{
		ArtifactID: id,
		Summary:    summary,
		SizeBytes:  len(content),
		MimeType:   mimeType,
		CreatedAt:  now,
		Source:     source,
	}, nil
}

func (s *SqliteStore) Retrieve(artifactID string) ([]byte, bool, error) {
	var content []byte
	err := s.db.QueryRow(`SELECT content FROM artifacts WHERE id = ?`, artifactID).Scan(&content)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("artifact: retrieve: %w", err)
	}
	return content, true, nil
}

func (s *SqliteStore) Exists(artifactID string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM artifacts WHERE id = ?`, artifactID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("artifact: exists: %w", err)
	}
	return true, nil
}

// ListHandles filters by session_id when sessionID is non-empty. The
// session_id column is never populated by Store (the original's store()
// never takes a session id either — only list_handles does), so a
// non-empty sessionID always returns zero rows; kept for schema parity
// with the original rather than as a working filter.
func (s *SqliteStore) ListHandles(sessionID string) ([]Handle, error) {
	query := `SELECT id, summary, size_bytes, mime_type, created_at, source FROM artifacts`
	args := []interface{}{}
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("artifact: list handles: %w", err)
	}
	defer rows.Close()

	var out []Handle
	for rows.Next() {
		var h Handle
		var createdAtUnix float64
		if err := rows.Scan(&h.ArtifactID, &h.Summary, &h.SizeBytes, &h.MimeType, &createdAtUnix, &h.Source); err != nil {
			return nil, fmt.Errorf("artifact: scan handle: %w", err)
		}
		h.CreatedAt = time.Unix(0, int64(createdAtUnix*float64(time.Second)))
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *SqliteStore) Delete(artifactID string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM artifacts WHERE id = ?`, artifactID)
	if err != nil {
		return false, fmt.Errorf("artifact: delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("artifact: rows affected: %w", err)
	}
	return n > 0, nil
}

var _ Store = (*SqliteStore)(nil)
