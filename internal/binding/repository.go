package binding

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/rs/xid"

	"github.com/MikeBiancalana/datefield/internal/storage"
)

// FieldRecord is the stored value of a named date field. Value is an ISO
// 8601 date, empty when the field is cleared.
type FieldRecord struct {
	Name        string
	Value       string
	DisplayText string
	Locale      string
	UpdatedAt   time.Time
}

// Event is one entry in a field's change history
type Event struct {
	ID        string
	FieldName string
	Kind      string
	RawText   string
	Value     string
	Valid     bool
	CreatedAt time.Time
}

// Repository handles all database operations for date fields
type Repository struct {
	db     *storage.Database
	logger *slog.Logger
	now    func() time.Time
}

// NewRepository creates a new repository
func NewRepository(db *storage.Database, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger, now: time.Now}
}

// GetField retrieves a field by name. It returns nil when the field has
// never been stored.
func (r *Repository) GetField(name string) (*FieldRecord, error) {
	r.logger.Debug("GetField", "field", name)

	rec := &FieldRecord{Name: name}
	var value sql.NullString
	var updatedAt int64
	err := r.db.DB().QueryRow(
		"SELECT value, display_text, locale, updated_at FROM fields WHERE name = ?",
		name,
	).Scan(&value, &rec.DisplayText, &rec.Locale, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("GetField", "error", err, "field", name)
		return nil, fmt.Errorf("failed to get field: %w", err)
	}

	rec.Value = value.String
	rec.UpdatedAt = time.Unix(updatedAt, 0)
	return rec, nil
}

// SaveField inserts or replaces the stored value of a field
func (r *Repository) SaveField(rec FieldRecord) error {
	r.logger.Info("SaveField", "field", rec.Name, "value", rec.Value)

	updatedAt := rec.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = r.now()
	}
	_, err := r.db.DB().Exec(
		`INSERT INTO fields (name, value, display_text, locale, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   value = excluded.value,
		   display_text = excluded.display_text,
		   locale = excluded.locale,
		   updated_at = excluded.updated_at`,
		rec.Name, nullable(rec.Value), rec.DisplayText, rec.Locale, updatedAt.Unix(),
	)
	if err != nil {
		r.logger.Error("SaveField", "error", err, "field", rec.Name)
		return fmt.Errorf("failed to save field: %w", err)
	}
	return nil
}

// ClearField removes the value of a field but keeps its history
func (r *Repository) ClearField(name string) error {
	r.logger.Info("ClearField", "field", name)
	return r.SaveField(FieldRecord{Name: name})
}

// DeleteField removes a field and its history
func (r *Repository) DeleteField(name string) error {
	r.logger.Info("DeleteField", "field", name)

	if _, err := r.db.DB().Exec("DELETE FROM fields WHERE name = ?", name); err != nil {
		r.logger.Error("DeleteField", "error", err, "field", name)
		return fmt.Errorf("failed to delete field: %w", err)
	}
	return nil
}

// ListFields returns all stored fields ordered by name
func (r *Repository) ListFields() ([]FieldRecord, error) {
	rows, err := r.db.DB().Query(
		"SELECT name, value, display_text, locale, updated_at FROM fields ORDER BY name",
	)
	if err != nil {
		r.logger.Error("ListFields", "error", err)
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	defer rows.Close()

	fields := make([]FieldRecord, 0)
	for rows.Next() {
		var rec FieldRecord
		var value sql.NullString
		var updatedAt int64
		if err := rows.Scan(&rec.Name, &value, &rec.DisplayText, &rec.Locale, &updatedAt); err != nil {
			r.logger.Error("ListFields", "error", err, "operation", "scan_field")
			return nil, fmt.Errorf("failed to scan field: %w", err)
		}
		rec.Value = value.String
		rec.UpdatedAt = time.Unix(updatedAt, 0)
		fields = append(fields, rec)
	}
	return fields, rows.Err()
}

// AppendEvent records a change in a field's history, creating the field
// row if it does not exist yet.
func (r *Repository) AppendEvent(ev Event) (Event, error) {
	if ev.ID == "" {
		ev.ID = xid.New().String()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = r.now()
	}

	r.logger.Debug("AppendEvent", "field", ev.FieldName, "kind", ev.Kind, "event_id", ev.ID)

	tx, err := r.db.BeginTx()
	if err != nil {
		r.logger.Error("AppendEvent", "error", err, "field", ev.FieldName, "operation", "begin_transaction")
		return Event{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT OR IGNORE INTO fields (name, updated_at) VALUES (?, ?)",
		ev.FieldName, ev.CreatedAt.Unix(),
	)
	if err != nil {
		r.logger.Error("AppendEvent", "error", err, "field", ev.FieldName, "operation", "ensure_field")
		return Event{}, fmt.Errorf("failed to create field: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO field_events (id, field_name, kind, raw_text, value, valid, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.FieldName, ev.Kind, ev.RawText, nullable(ev.Value), ev.Valid, ev.CreatedAt.UnixNano(),
	)
	if err != nil {
		r.logger.Error("AppendEvent", "error", err, "field", ev.FieldName, "event_id", ev.ID)
		return Event{}, fmt.Errorf("failed to insert event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("AppendEvent", "error", err, "field", ev.FieldName, "operation", "commit_transaction")
		return Event{}, err
	}
	return ev, nil
}

// ListEvents returns up to limit events for a field, newest first. A
// limit of zero or less returns all events.
func (r *Repository) ListEvents(name string, limit int) ([]Event, error) {
	query := `SELECT id, field_name, kind, raw_text, value, valid, created_at
	          FROM field_events WHERE field_name = ? ORDER BY created_at DESC, id DESC`
	args := []any{name}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.DB().Query(query, args...)
	if err != nil {
		r.logger.Error("ListEvents", "error", err, "field", name)
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		var ev Event
		var value sql.NullString
		var createdAt int64
		if err := rows.Scan(&ev.ID, &ev.FieldName, &ev.Kind, &ev.RawText, &value, &ev.Valid, &createdAt); err != nil {
			r.logger.Error("ListEvents", "error", err, "field", name, "operation", "scan_event")
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Value = value.String
		ev.CreatedAt = time.Unix(0, createdAt)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
