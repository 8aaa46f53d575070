package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rumsan/supportdesk/internal/models"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements Store using modernc.org/sqlite (pure Go, no CGO).
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer. A single connection
	// serializes all access through Go's connection pool and avoids
	// "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// newULID generates a new ULID string.
func newULID() string {
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ulid.MustNew(ulid.Timestamp(time.Now()), ulid.Monotonic(entropy, 0)).String()
}

// Migrate runs all embedded SQL migration files in order.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		var count int
		err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}

		if _, err := s.db.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Tickets ---

func (s *SQLiteStore) CreateTicket(ctx context.Context, t *models.Ticket) error {
	if t.ID == "" {
		t.ID = newULID()
	}
	now := time.Now().UTC()
	if t.SubmittedAt.IsZero() {
		t.SubmittedAt = now
	}
	t.UpdatedAt = now
	if t.DisplayID == "" {
		t.DisplayID = models.NewDisplayID(t.SubmittedAt)
	}
	if t.Status == "" {
		t.Status = models.TicketStatusSubmitted
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO tickets
		(id, display_id, title, category, priority, description, status,
		 email, execution_id, file_count, feedback, submitted_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.DisplayID, t.Title, t.Category, t.Priority, t.Description,
		string(t.Status), t.Email, t.ExecutionID, t.FileCount, t.Feedback,
		t.SubmittedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

// GetTicket looks a ticket up by ULID or display id. Display ids are
// matched case-insensitively so "tkt-123456" works. Display ids derive from
// the millisecond clock and recycle over time, so a display-id lookup
// resolves to the most recent match.
func (s *SQLiteStore) GetTicket(ctx context.Context, ref string) (*models.Ticket, error) {
	row := s.db.QueryRowContext(ctx, `SELECT
		id, display_id, title, category, priority, description, status,
		email, execution_id, file_count, feedback, submitted_at, updated_at
		FROM tickets WHERE id = ? OR display_id = ? COLLATE NOCASE
		ORDER BY submitted_at DESC LIMIT 1`,
		ref, ref)

	t, err := scanTicket(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ticket not found: %s", ref)
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (s *SQLiteStore) ListTickets(ctx context.Context, filter TicketListFilter) ([]*models.Ticket, error) {
	query := `SELECT
		id, display_id, title, category, priority, description, status,
		email, execution_id, file_count, feedback, submitted_at, updated_at
		FROM tickets`

	var conds []string
	var args []any
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY submitted_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (s *SQLiteStore) UpdateTicketStatus(ctx context.Context, ref string, status models.TicketStatus, feedback string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE tickets
		SET status = ?, feedback = ?, updated_at = ?
		WHERE id = (SELECT id FROM tickets
			WHERE id = ? OR display_id = ? COLLATE NOCASE
			ORDER BY submitted_at DESC LIMIT 1)`,
		string(status), feedback, time.Now().UTC(), ref, ref)
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("ticket not found: %s", ref)
	}
	return nil
}

func (s *SQLiteStore) DeleteTicket(ctx context.Context, ref string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tickets
		WHERE id = (SELECT id FROM tickets
			WHERE id = ? OR display_id = ? COLLATE NOCASE
			ORDER BY submitted_at DESC LIMIT 1)`, ref, ref)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("ticket not found: %s", ref)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*models.Ticket, error) {
	var t models.Ticket
	var status string
	err := row.Scan(&t.ID, &t.DisplayID, &t.Title, &t.Category, &t.Priority,
		&t.Description, &status, &t.Email, &t.ExecutionID, &t.FileCount,
		&t.Feedback, &t.SubmittedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = models.TicketStatus(status)
	return &t, nil
}
