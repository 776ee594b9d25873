package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/marciozomb13/FBEventSync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.fbeventsync/data/fbeventsync.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".fbeventsync", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "fbeventsync.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// CalendarStore returns a CalendarStore interface backed by this store.
func (s *Store) CalendarStore() driven.CalendarStore {
	return &calendarStore{store: s}
}

// SyncStateStore returns a SyncStateStore interface backed by this store.
func (s *Store) SyncStateStore() driven.SyncStateStore {
	return &syncStateStore{store: s}
}

// CredentialStore returns a CredentialStore interface backed by this store.
func (s *Store) CredentialStore() driven.CredentialStore {
	return &credentialStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "000001_init.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Calendar Store ====================

// calendarStore implements driven.CalendarStore.
type calendarStore struct {
	store *Store
}

var _ driven.CalendarStore = (*calendarStore)(nil)

// EnsureCalendar returns the local identifier of the calendar of the given
// type for the account, creating it when it does not exist yet.
func (s *calendarStore) EnsureCalendar(ctx context.Context, account string, ctype domain.CalendarType) (string, error) {
	var id string
	err := s.store.db.QueryRowContext(ctx, `
		SELECT id FROM calendars WHERE account = ? AND type = ?
	`, account, string(ctype)).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("querying calendar: %w", err)
	}

	id = uuid.New().String()
	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO calendars (id, account, type) VALUES (?, ?, ?)
	`, id, account, string(ctype))
	if err != nil {
		return "", fmt.Errorf("creating calendar: %w", err)
	}
	return id, nil
}

// DeleteCalendar removes a calendar and, via cascade, all of its events.
func (s *calendarStore) DeleteCalendar(ctx context.Context, account string, ctype domain.CalendarType) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM calendars WHERE account = ? AND type = ?
	`, account, string(ctype))
	if err != nil {
		return fmt.Errorf("deleting calendar: %w", err)
	}
	return nil
}

// UpsertEvent stores or updates one event row keyed by external id.
func (s *calendarStore) UpsertEvent(ctx context.Context, calendarID string, rec domain.EventRecord) error {
	if calendarID == "" || !rec.Valid() {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO events
			(calendar_id, external_id, kind, title, description, location, organizer,
			 start_ms, end_ms, timezone, cancelled, rsvp, recurrence, reminder_minutes,
			 fingerprint, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(calendar_id, external_id) DO UPDATE SET
			kind = excluded.kind,
			title = excluded.title,
			description = excluded.description,
			location = excluded.location,
			organizer = excluded.organizer,
			start_ms = excluded.start_ms,
			end_ms = excluded.end_ms,
			timezone = excluded.timezone,
			cancelled = excluded.cancelled,
			rsvp = excluded.rsvp,
			recurrence = excluded.recurrence,
			reminder_minutes = excluded.reminder_minutes,
			fingerprint = excluded.fingerprint,
			updated_at = excluded.updated_at
	`, calendarID, rec.ExternalID, string(rec.Kind), rec.Title, rec.Description,
		rec.Location, rec.Organizer, rec.Start.UnixMilli(), rec.End.UnixMilli(),
		rec.Timezone, rec.Cancelled, string(rec.RSVP), rec.Recurrence,
		rec.ReminderMinutes, rec.Fingerprint(), time.Now().UTC())

	if err != nil {
		return fmt.Errorf("upserting event: %w", err)
	}
	return nil
}

// DeleteEvent removes one event row by external id.
func (s *calendarStore) DeleteEvent(ctx context.Context, calendarID, externalID string) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM events WHERE calendar_id = ? AND external_id = ?
	`, calendarID, externalID)
	if err != nil {
		return fmt.Errorf("deleting event: %w", err)
	}
	return nil
}

// ListStoredEvents returns the external id to fingerprint mapping for a
// calendar's stored events.
func (s *calendarStore) ListStoredEvents(ctx context.Context, calendarID string) (map[string]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT external_id, fingerprint FROM events WHERE calendar_id = ?
	`, calendarID)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	stored := make(map[string]string)
	for rows.Next() {
		var externalID, fingerprint string
		if err := rows.Scan(&externalID, &fingerprint); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		stored[externalID] = fingerprint
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating events: %w", err)
	}

	return stored, nil
}

// ==================== Sync State Store ====================

// syncStateStore implements driven.SyncStateStore.
type syncStateStore struct {
	store *Store
}

var _ driven.SyncStateStore = (*syncStateStore)(nil)

// Get retrieves sync state for an account.
func (s *syncStateStore) Get(ctx context.Context, account string) (*domain.SyncState, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT account, last_sync_ms, syncs_this_hour, last_version
		FROM sync_state WHERE account = ?
	`, account)

	var state domain.SyncState
	var lastSyncMs int64
	if err := row.Scan(&state.Account, &lastSyncMs, &state.SyncsThisHour, &state.LastVersion); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning sync state: %w", err)
	}

	if lastSyncMs > 0 {
		state.LastSync = time.UnixMilli(lastSyncMs)
	}

	return &state, nil
}

// Save stores or updates sync state.
func (s *syncStateStore) Save(ctx context.Context, state domain.SyncState) error {
	if state.Account == "" {
		return domain.ErrInvalidInput
	}

	var lastSyncMs int64
	if !state.LastSync.IsZero() {
		lastSyncMs = state.LastSync.UnixMilli()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_state (account, last_sync_ms, syncs_this_hour, last_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account) DO UPDATE SET
			last_sync_ms = excluded.last_sync_ms,
			syncs_this_hour = excluded.syncs_this_hour,
			last_version = excluded.last_version
	`, state.Account, lastSyncMs, state.SyncsThisHour, state.LastVersion)

	if err != nil {
		return fmt.Errorf("saving sync state: %w", err)
	}
	return nil
}

// ==================== Credential Store ====================

// credentialStore implements driven.CredentialStore.
type credentialStore struct {
	store *Store
}

var _ driven.CredentialStore = (*credentialStore)(nil)

// GetToken retrieves one stored token by account and kind.
func (s *credentialStore) GetToken(ctx context.Context, account string, kind driven.TokenKind) (string, error) {
	var token string
	err := s.store.db.QueryRowContext(ctx, `
		SELECT token FROM tokens WHERE account = ? AND kind = ?
	`, account, string(kind)).Scan(&token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: no %s for account %s", domain.ErrNotFound, kind, account)
		}
		return "", fmt.Errorf("querying token: %w", err)
	}
	return token, nil
}

// SaveToken stores or replaces one token.
func (s *credentialStore) SaveToken(ctx context.Context, account string, kind driven.TokenKind, token string) error {
	if account == "" || token == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO tokens (account, kind, token, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account, kind) DO UPDATE SET
			token = excluded.token,
			updated_at = excluded.updated_at
	`, account, string(kind), token, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// InvalidateToken removes a stored token matching the given value for the
// account, regardless of kind.
func (s *credentialStore) InvalidateToken(ctx context.Context, account, token string) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM tokens WHERE account = ? AND token = ?
	`, account, token)
	if err != nil {
		return fmt.Errorf("invalidating token: %w", err)
	}
	return nil
}
