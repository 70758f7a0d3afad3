package booking

import (
	"fmt"
	"regexp"
	"slices"
	"time"

	"github.com/withsutham/SE-KPS-68-2/internal/catalog"
)

// emailPattern is a permissive syntactic check, not RFC validation.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateStep runs the gate guarding forward progress from step. It depends
// only on the draft, so repeated calls on the same draft agree.
func ValidateStep(d Draft, step Step) error {
	switch step {
	case StepServiceSelection:
		if len(d.Services) == 0 {
			return newValidationError(step, CodeNoServices)
		}
		for _, s := range d.Services {
			if !s.Complete() {
				return newValidationError(step, CodeIncompleteServices)
			}
		}
		return nil
	case StepDateTime:
		if d.Date == nil {
			return newValidationError(step, CodeMissingSchedule)
		}
		slots := AvailableTimeSlots(d)
		if len(slots) == 0 {
			return newValidationError(step, CodeNoSlotRoom)
		}
		if d.Time == "" {
			return newValidationError(step, CodeMissingSchedule)
		}
		// Services added after the time was picked can push it past closing.
		if !slices.Contains(slots, d.Time) {
			return newValidationError(step, CodeSlotUnavailable)
		}
		return nil
	case StepPersonalInfo:
		c := d.Contact
		if c.FirstName == "" || c.LastName == "" || c.Email == "" || c.Phone == "" {
			return newValidationError(step, CodeMissingContact)
		}
		if !emailPattern.MatchString(c.Email) {
			return newValidationError(step, CodeInvalidEmail)
		}
		return nil
	case StepSummary, StepDeposit:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidStep, step)
	}
}

// Advance moves forward one step when the current gate passes. From the
// deposit step it reports Submit instead of moving.
func Advance(d Draft) (Draft, Transition, error) {
	stay := Transition{From: d.Step, To: d.Step}
	if d.Finalized() {
		return d, stay, ErrDraftFinalized
	}
	if !d.Step.Valid() {
		return d, stay, fmt.Errorf("%w: %d", ErrInvalidStep, d.Step)
	}
	if err := ValidateStep(d, d.Step); err != nil {
		return d, stay, err
	}
	if d.Step == LastStep {
		stay.Submit = true
		return d, stay, nil
	}
	next := d.clone()
	next.Step++
	return next, Transition{From: d.Step, To: next.Step}, nil
}

// Retreat moves back one step without re-validating. It is a no-op on step one.
func Retreat(d Draft) (Draft, Transition, error) {
	stay := Transition{From: d.Step, To: d.Step}
	if d.Finalized() {
		return d, stay, ErrDraftFinalized
	}
	if !d.Step.Valid() {
		return d, stay, fmt.Errorf("%w: %d", ErrInvalidStep, d.Step)
	}
	if d.Step == FirstStep {
		return d, stay, nil
	}
	next := d.clone()
	next.Step--
	return next, Transition{From: d.Step, To: next.Step}, nil
}

// StatusConfirmed is the status of every submitted booking.
const StatusConfirmed = "confirmed"

// Confirmation is the finalized booking handed to the confirmation screen.
type Confirmation struct {
	Reference     string    `json:"reference"`
	Status        string    `json:"status"`
	Lines         []Line    `json:"lines"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Contact       Contact   `json:"contact"`
	Notes         string    `json:"notes,omitempty"`
	TotalMinutes  int       `json:"totalMinutes"`
	TotalPrice    int       `json:"totalPrice"`
	DepositAmount int       `json:"depositAmount"`
	SubmittedAt   time.Time `json:"submittedAt"`
}

// Submit finalizes a draft sitting on the deposit step. Every gate is run
// again so a draft edited after passing them cannot be submitted incomplete.
func Submit(d Draft, p catalog.Provider, reference string, at time.Time) (Draft, Confirmation, error) {
	if d.Finalized() {
		return d, Confirmation{}, ErrDraftFinalized
	}
	if d.Step != LastStep {
		return d, Confirmation{}, ErrNotReadyToSubmit
	}
	for _, step := range Steps() {
		if err := ValidateStep(d, step); err != nil {
			return d, Confirmation{}, err
		}
	}

	at = at.UTC()
	next := d.clone()
	next.Reference = reference
	next.SubmittedAt = &at

	quote := QuoteFor(next, p)
	conf := Confirmation{
		Reference:     reference,
		Status:        StatusConfirmed,
		Lines:         quote.Lines,
		Date:          *next.Date,
		Time:          next.Time,
		Contact:       next.Contact,
		Notes:         next.Notes,
		TotalMinutes:  quote.TotalMinutes,
		TotalPrice:    quote.TotalPrice,
		DepositAmount: quote.DepositAmount,
		SubmittedAt:   at,
	}
	return next, conf, nil
}
