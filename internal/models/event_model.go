package models

import "time"

type Event struct {
	ID            int64     `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	DateConfirmed bool      `db:"date_confirmed" json:"date_confirmed"`
	EventDate     string    `db:"event_date" json:"event_date"`
	EventTime     string    `db:"event_time" json:"event_time"`
	Venue         string    `db:"venue" json:"venue"`
	TicketingURL  string    `db:"ticketing_url" json:"ticketing_url"`
	EventURL      string    `db:"event_url" json:"event_url"`
	Timezone      string    `db:"timezone" json:"timezone"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
