package domain

import "time"

type Airport struct {
	City    string `json:"city"`
	IATA    string `json:"iata"`
	Airport string `json:"airport"`
	Country string `json:"country"`
}

// SearchParams is the last search a user submitted.
type SearchParams struct {
	From        string    `json:"from"`
	To          string    `json:"to"`
	Date        string    `json:"date,omitempty"`
	Direct      bool      `json:"direct"`
	SubmittedAt time.Time `json:"submittedAt"`
}
