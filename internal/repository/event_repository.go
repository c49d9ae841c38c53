package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/productdigest/content-api/internal/models"
)

// EventPatch carries partial updates; nil pointers leave the column alone.
type EventPatch struct {
	Title         *string
	Description   *string
	DateConfirmed *bool
	EventDate     *string
	EventTime     *string
	Venue         *string
	TicketingURL  *string
	EventURL      *string
	Timezone      *string
}

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Patch(ctx context.Context, id int64, patch EventPatch) (*models.Event, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, publicOnly bool, limit, offset int) ([]*models.Event, error)
}

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) EventRepository {
	return &eventRepository{db: db}
}

const eventColumns = `id, title, description, date_confirmed,
	to_char(event_date, 'YYYY-MM-DD'), to_char(event_time, 'HH24:MI'),
	venue, ticketing_url, event_url, timezone, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	var event models.Event
	err := row.Scan(
		&event.ID, &event.Title, &event.Description, &event.DateConfirmed,
		&event.EventDate, &event.EventTime, &event.Venue, &event.TicketingURL,
		&event.EventURL, &event.Timezone, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	query := `
		INSERT INTO events (title, description, date_confirmed, event_date, event_time, venue, ticketing_url, event_url, timezone, updated_at)
		VALUES ($1, $2, $3, $4::date, $5::time, $6, $7, $8, $9, NOW())
		RETURNING ` + eventColumns

	saved, err := scanEvent(r.db.QueryRowContext(ctx, query,
		event.Title, event.Description, event.DateConfirmed, event.EventDate,
		event.EventTime, event.Venue, event.TicketingURL, event.EventURL, event.Timezone,
	))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return saved, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) Patch(ctx context.Context, id int64, patch EventPatch) (*models.Event, error) {
	set := "updated_at = NOW()"
	args := []any{id}

	add := func(column, cast string, value any) {
		args = append(args, value)
		set += fmt.Sprintf(", %s = $%d%s", column, len(args), cast)
	}

	if patch.Title != nil {
		add("title", "", *patch.Title)
	}
	if patch.Description != nil {
		add("description", "", *patch.Description)
	}
	if patch.DateConfirmed != nil {
		add("date_confirmed", "", *patch.DateConfirmed)
	}
	if patch.EventDate != nil {
		add("event_date", "::date", *patch.EventDate)
	}
	if patch.EventTime != nil {
		add("event_time", "::time", *patch.EventTime)
	}
	if patch.Venue != nil {
		add("venue", "", *patch.Venue)
	}
	if patch.TicketingURL != nil {
		add("ticketing_url", "", *patch.TicketingURL)
	}
	if patch.EventURL != nil {
		add("event_url", "", *patch.EventURL)
	}
	if patch.Timezone != nil {
		add("timezone", "", *patch.Timezone)
	}

	query := `UPDATE events SET ` + set + ` WHERE id = $1 RETURNING ` + eventColumns
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return event, nil
}

func (r *eventRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return false, err
	}
	return n > 0, nil
}

func (r *eventRepository) List(ctx context.Context, publicOnly bool, limit, offset int) ([]*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	if publicOnly {
		// TBD events stay listed forever; dated events drop off three days
		// after the instant in their own timezone.
		query += ` WHERE date_confirmed = FALSE
			OR ((event_date + event_time) AT TIME ZONE timezone) >= NOW() - INTERVAL '3 days'`
	}
	query += ` ORDER BY event_date ASC, event_time ASC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
