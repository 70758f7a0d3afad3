package booking

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// SelectedService is one line of a booking: a menu reference plus a duration.
type SelectedService struct {
	ServiceID string `json:"serviceId"`
	Duration  string `json:"duration"`
}

// Complete reports whether both the service and the duration are chosen.
func (s SelectedService) Complete() bool {
	return s.ServiceID != "" && s.Duration != ""
}

// Contact holds the customer's details collected on step three.
type Contact struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Draft is the in-progress booking. Operations in this package never modify a
// Draft in place; they return an updated copy.
type Draft struct {
	Step      Step              `json:"step"`
	Services  []SelectedService `json:"services"`
	Date      *time.Time        `json:"date,omitempty"`
	Time      string            `json:"time"`
	Contact   Contact           `json:"contact"`
	Notes     string            `json:"notes"`
	Reference string            `json:"reference,omitempty"`
	// SubmittedAt is set once the draft is finalized.
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
}

// ServiceField names an editable field of a SelectedService.
type ServiceField string

const (
	FieldServiceID ServiceField = "serviceId"
	FieldDuration  ServiceField = "duration"
)

// NewDraft starts a flow at step one with a single service slot, pre-seeded
// with serviceID when the customer arrives from a service's booking link.
func NewDraft(serviceID string) Draft {
	return Draft{
		Step:     StepServiceSelection,
		Services: []SelectedService{{ServiceID: strings.TrimSpace(serviceID)}},
	}
}

// Finalized reports whether the draft has been submitted.
func (d Draft) Finalized() bool {
	return d.SubmittedAt != nil
}

func (d Draft) clone() Draft {
	out := d
	out.Services = slices.Clone(d.Services)
	if d.Date != nil {
		date := *d.Date
		out.Date = &date
	}
	if d.SubmittedAt != nil {
		at := *d.SubmittedAt
		out.SubmittedAt = &at
	}
	return out
}

// AddServiceSlot appends an empty service slot. There is no upper bound.
func AddServiceSlot(d Draft) (Draft, error) {
	if d.Finalized() {
		return d, ErrDraftFinalized
	}
	next := d.clone()
	next.Services = append(next.Services, SelectedService{})
	return next, nil
}

// RemoveServiceSlot removes the slot at index. The last remaining slot is
// never removed.
func RemoveServiceSlot(d Draft, index int) (Draft, error) {
	if d.Finalized() {
		return d, ErrDraftFinalized
	}
	if index < 0 || index >= len(d.Services) {
		return d, fmt.Errorf("%w: %d", ErrSlotIndex, index)
	}
	if len(d.Services) <= 1 {
		return d, ErrLastServiceSlot
	}
	next := d.clone()
	next.Services = slices.Delete(next.Services, index, index+1)
	return next, nil
}

// UpdateServiceSlot replaces one field of the slot at index. Changing the
// service keeps the chosen duration.
func UpdateServiceSlot(d Draft, index int, field ServiceField, value string) (Draft, error) {
	if d.Finalized() {
		return d, ErrDraftFinalized
	}
	if index < 0 || index >= len(d.Services) {
		return d, fmt.Errorf("%w: %d", ErrSlotIndex, index)
	}
	value = strings.TrimSpace(value)
	next := d.clone()
	switch field {
	case FieldServiceID:
		next.Services[index].ServiceID = value
	case FieldDuration:
		if value != "" && !slices.Contains(DurationOptions(), value) {
			return d, fmt.Errorf("%w: %q", ErrUnknownDuration, value)
		}
		next.Services[index].Duration = value
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return next, nil
}

// CalendarDate truncates t to midnight UTC of its own calendar day.
func CalendarDate(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// SelectDate sets the appointment date and clears the chosen time, since
// slot availability has to be re-evaluated. Dates before today are refused.
func SelectDate(d Draft, date, today time.Time) (Draft, error) {
	if d.Finalized() {
		return d, ErrDraftFinalized
	}
	day := CalendarDate(date)
	if day.Before(CalendarDate(today)) {
		return d, fmt.Errorf("%w: %s", ErrPastDate, day.Format(time.DateOnly))
	}
	next := d.clone()
	next.Date = &day
	next.Time = ""
	return next, nil
}

// SelectTime sets the time slot. The slot must be one the current services
// still fit into before closing.
func SelectTime(d Draft, slot string) (Draft, error) {
	if d.Finalized() {
		return d, ErrDraftFinalized
	}
	slot = strings.TrimSpace(slot)
	if !slices.Contains(AvailableTimeSlots(d), slot) {
		return d, fmt.Errorf("%w: %q", ErrSlotUnavailable, slot)
	}
	next := d.clone()
	next.Time = slot
	return next, nil
}

// SetContact replaces the contact details.
func SetContact(d Draft, c Contact) (Draft, error) {
	if d.Finalized() {
		return d, ErrDraftFinalized
	}
	next := d.clone()
	next.Contact = Contact{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.TrimSpace(c.Email),
		Phone:     strings.TrimSpace(c.Phone),
	}
	return next, nil
}

// SetNotes replaces the special-request notes.
func SetNotes(d Draft, notes string) (Draft, error) {
	if d.Finalized() {
		return d, ErrDraftFinalized
	}
	next := d.clone()
	next.Notes = notes
	return next, nil
}
