package transfer

type EventCreate struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	DateConfirmed *bool  `json:"date_confirmed"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Venue         string `json:"venue"`
	TicketingURL  string `json:"ticketing_url"`
	EventURL      string `json:"event_url"`
	Timezone      string `json:"timezone"`
}

type EventPatch struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	DateConfirmed *bool   `json:"date_confirmed"`
	Date          *string `json:"date"`
	Time          *string `json:"time"`
	Venue         *string `json:"venue"`
	TicketingURL  *string `json:"ticketing_url"`
	EventURL      *string `json:"event_url"`
	Timezone      *string `json:"timezone"`
}
