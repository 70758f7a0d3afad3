package events

import "time"

// EventTypeBookingSubmitted is published once per finalized booking.
const EventTypeBookingSubmitted = "booking.submitted.v1"

// BookingLineV1 is one booked service inside a submission event.
type BookingLineV1 struct {
	ServiceID string `json:"service_id"`
	Name      string `json:"name"`
	Duration  string `json:"duration"`
	Price     int    `json:"price"`
}

// BookingSubmittedV1 announces a booking that reached the confirmation screen.
type BookingSubmittedV1 struct {
	EventID       string          `json:"event_id"`
	Reference     string          `json:"reference"`
	SessionID     string          `json:"session_id"`
	CustomerName  string          `json:"customer_name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	Lines         []BookingLineV1 `json:"lines"`
	Date          string          `json:"date"`
	Time          string          `json:"time"`
	Notes         string          `json:"notes,omitempty"`
	TotalMinutes  int             `json:"total_minutes"`
	TotalPrice    int             `json:"total_price"`
	DepositAmount int             `json:"deposit_amount"`
	SubmittedAt   time.Time       `json:"submitted_at"`
}
