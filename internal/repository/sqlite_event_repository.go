package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"event-discovery/internal/domain"
)

var _ EventRepository = (*sqliteEventRepo)(nil)

const eventColumns = `id, title, description, category, date, time, location, address,
attendees, capacity, price, image_url, organizer, highlights, agenda, status, created_by, created_at`

// Columns an Update may touch. Values for the JSON columns are encoded on write.
var eventUpdateColumns = map[string]bool{
	"title": true, "description": true, "category": true, "date": true, "time": true,
	"location": true, "address": true, "attendees": true, "capacity": true, "price": true,
	"image_url": true, "organizer": true, "highlights": true, "agenda": true, "status": true,
}

var eventJSONColumns = map[string]bool{"organizer": true, "highlights": true, "agenda": true}

type sqliteEventRepo struct {
	db *sql.DB
}

func (r *sqliteEventRepo) Save(ctx context.Context, event *domain.Event) error {
	return insertEvent(ctx, r.db, event)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertEvent(ctx context.Context, db execer, event *domain.Event) error {
	organizer, highlights, agenda, err := encodeEventJSON(event)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO events (`+eventColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.Title, event.Description, event.Category, event.Date, event.Time,
		event.Location, event.Address, event.Attendees, event.Capacity, event.Price,
		event.ImageURL, organizer, highlights, agenda, event.Status, event.CreatedBy,
		toMillis(event.CreatedAt),
	)
	return mapSQLiteErr(err)
}

func (r *sqliteEventRepo) BatchSave(ctx context.Context, events []*domain.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, event := range events {
		if err := insertEvent(ctx, tx, event); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("write event %s: %w", event.ID, err)
		}
	}
	return tx.Commit()
}

func (r *sqliteEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	event, err := scanEvent(row)
	if err != nil {
		return nil, mapSQLiteErr(err)
	}
	return event, nil
}

func (r *sqliteEventRepo) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	keys := make([]string, 0, len(updates))
	for k := range updates {
		if !eventUpdateColumns[k] {
			return fmt.Errorf("update events: unknown field %q", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+1)
	for _, k := range keys {
		v := updates[k]
		if eventJSONColumns[k] {
			data, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("encode %s: %w", k, err)
			}
			v = string(data)
		}
		sets = append(sets, k+" = ?")
		args = append(args, v)
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	return requireAffected(res, err)
}

func (r *sqliteEventRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	return requireAffected(res, err)
}

func (r *sqliteEventRepo) AdjustAttendees(ctx context.Context, id string, delta int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET attendees = MAX(attendees + ?, 0) WHERE id = ?`, delta, id)
	return requireAffected(res, err)
}

func (r *sqliteEventRepo) List(ctx context.Context, query domain.ListQuery) ([]domain.Event, error) {
	var (
		where []string
		args  []any
	)
	if query.Status != "" {
		where = append(where, "status = ?")
		args = append(args, query.Status)
	}
	if query.CreatedBy != "" {
		where = append(where, "created_by = ?")
		args = append(args, query.CreatedBy)
	}
	if query.Category != "" {
		where = append(where, "category = ?")
		args = append(args, query.Category)
	}

	stmt := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		stmt += ` WHERE ` + strings.Join(where, " AND ")
	}
	stmt += ` ORDER BY created_at DESC, id`
	if query.Limit > 0 {
		stmt += ` LIMIT ?`
		args = append(args, query.Limit)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var (
		e                             domain.Event
		organizer, highlights, agenda string
		createdAt                     int64
	)
	if err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Category, &e.Date, &e.Time, &e.Location,
		&e.Address, &e.Attendees, &e.Capacity, &e.Price, &e.ImageURL, &organizer,
		&highlights, &agenda, &e.Status, &e.CreatedBy, &createdAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(organizer), &e.Organizer); err != nil {
		return nil, fmt.Errorf("decode organizer of %s: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(highlights), &e.Highlights); err != nil {
		return nil, fmt.Errorf("decode highlights of %s: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(agenda), &e.Agenda); err != nil {
		return nil, fmt.Errorf("decode agenda of %s: %w", e.ID, err)
	}
	e.CreatedAt = fromMillis(createdAt)
	return &e, nil
}

func encodeEventJSON(e *domain.Event) (organizer, highlights, agenda string, err error) {
	parts := [3]any{e.Organizer, e.Highlights, e.Agenda}
	var out [3]string
	for i, p := range parts {
		data, err := json.Marshal(p)
		if err != nil {
			return "", "", "", fmt.Errorf("encode event %s: %w", e.ID, err)
		}
		out[i] = string(data)
	}
	return out[0], out[1], out[2], nil
}
