package service

import (
	"context"
	"strings"
	"time"

	"github.com/productdigest/content-api/internal/models"
	"github.com/productdigest/content-api/internal/repository"
	"github.com/productdigest/content-api/internal/transfer"
)

type EventService interface {
	Create(ctx context.Context, in *transfer.EventCreate) (*models.Event, error)
	Patch(ctx context.Context, id int64, in *transfer.EventPatch) (*models.Event, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, publicOnly bool, limit, offset int) ([]*models.Event, error)
}

type eventService struct {
	er              repository.EventRepository
	defaultTimezone string
}

func NewEventService(er repository.EventRepository, defaultTimezone string) EventService {
	return &eventService{er: er, defaultTimezone: defaultTimezone}
}

func validDate(value string) bool {
	_, err := time.Parse("2006-01-02", value)
	return err == nil
}

func validTime(value string) bool {
	_, err := time.Parse("15:04", value)
	return err == nil
}

func (s *eventService) Create(ctx context.Context, in *transfer.EventCreate) (*models.Event, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalid("invalid_title")
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, invalid("invalid_description")
	}
	if !validDate(in.Date) {
		return nil, invalid("invalid_date")
	}
	if !validTime(in.Time) {
		return nil, invalid("invalid_time")
	}
	if !validURL(in.TicketingURL) || !validURL(in.EventURL) {
		return nil, invalid("invalid_url")
	}

	dateConfirmed := true
	if in.DateConfirmed != nil {
		dateConfirmed = *in.DateConfirmed
	}
	timezone := in.Timezone
	if timezone == "" {
		timezone = s.defaultTimezone
	}

	return s.er.Create(ctx, &models.Event{
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		DateConfirmed: dateConfirmed,
		EventDate:     in.Date,
		EventTime:     in.Time,
		Venue:         in.Venue,
		TicketingURL:  in.TicketingURL,
		EventURL:      in.EventURL,
		Timezone:      timezone,
	})
}

func (s *eventService) Patch(ctx context.Context, id int64, in *transfer.EventPatch) (*models.Event, error) {
	if id <= 0 {
		return nil, invalid("invalid_id")
	}
	if in.Date != nil && !validDate(*in.Date) {
		return nil, invalid("invalid_date")
	}
	if in.Time != nil && !validTime(*in.Time) {
		return nil, invalid("invalid_time")
	}
	if in.TicketingURL != nil && !validURL(*in.TicketingURL) {
		return nil, invalid("invalid_url")
	}
	if in.EventURL != nil && !validURL(*in.EventURL) {
		return nil, invalid("invalid_url")
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, invalid("invalid_title")
	}

	// An empty patch changes nothing; answer with the stored row.
	if in.Title == nil && in.Description == nil && in.DateConfirmed == nil && in.Date == nil &&
		in.Time == nil && in.Venue == nil && in.TicketingURL == nil && in.EventURL == nil && in.Timezone == nil {
		event, err := s.er.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, ErrNotFound
		}
		return event, nil
	}

	event, err := s.er.Patch(ctx, id, repository.EventPatch{
		Title:         in.Title,
		Description:   in.Description,
		DateConfirmed: in.DateConfirmed,
		EventDate:     in.Date,
		EventTime:     in.Time,
		Venue:         in.Venue,
		TicketingURL:  in.TicketingURL,
		EventURL:      in.EventURL,
		Timezone:      in.Timezone,
	})
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrNotFound
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return invalid("invalid_id")
	}
	deleted, err := s.er.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (s *eventService) List(ctx context.Context, publicOnly bool, limit, offset int) ([]*models.Event, error) {
	return s.er.List(ctx, publicOnly, clampLimit(limit), clampOffset(offset))
}
