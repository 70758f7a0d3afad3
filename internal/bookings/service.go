package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/withsutham/SE-KPS-68-2/internal/booking"
	"github.com/withsutham/SE-KPS-68-2/internal/catalog"
	"github.com/withsutham/SE-KPS-68-2/internal/events"
	"github.com/withsutham/SE-KPS-68-2/internal/observability/metrics"
	"github.com/withsutham/SE-KPS-68-2/pkg/logging"
)

var bookingsTracer = otel.Tracer("spa.internal.bookings")

var (
	ErrUnknownService  = errors.New("bookings: service is not on the menu")
	ErrNotSubmitted    = errors.New("bookings: booking has not been submitted")
	ErrDepositNotReady = errors.New("bookings: deposit is only available on the deposit step")
)

// Options carries the optional collaborators of a Service.
type Options struct {
	Publisher events.Publisher
	Metrics   *metrics.BookingMetrics
	Logger    *logging.Logger
	// Location decides which calendar day counts as today.
	Location   *time.Location
	Clock      func() time.Time
	NewID      func() string
	References func() (string, error)
}

// Service drives booking sessions through the wizard.
type Service struct {
	store      Store
	catalog    catalog.Provider
	publisher  events.Publisher
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
	loc        *time.Location
	now        func() time.Time
	newID      func() string
	references func() (string, error)
}

// NewService constructs a bookings service.
func NewService(store Store, provider catalog.Provider, opts Options) *Service {
	if store == nil {
		panic("bookings: store required")
	}
	if provider == nil {
		panic("bookings: catalog provider required")
	}
	s := &Service{
		store:      store,
		catalog:    provider,
		publisher:  opts.Publisher,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		loc:        opts.Location,
		now:        opts.Clock,
		newID:      opts.NewID,
		references: opts.References,
	}
	if s.publisher == nil {
		s.publisher = events.NoopPublisher{}
	}
	if s.logger == nil {
		s.logger = logging.Default()
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}
	if s.references == nil {
		s.references = func() (string, error) { return booking.NewReference(nil) }
	}
	return s
}

// Catalog exposes the menu the service resolves against.
func (s *Service) Catalog() catalog.Provider {
	return s.catalog
}

// Location is the timezone used for calendar days.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Today is the current calendar day in the service's timezone.
func (s *Service) Today() time.Time {
	return booking.CalendarDate(s.now().In(s.loc))
}

func (s *Service) knownService(id string) error {
	if id == "" {
		return nil
	}
	if _, ok := s.catalog.Lookup(id); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownService, id)
	}
	return nil
}

// Start opens a session on step one. A non-empty serviceID pre-fills the
// first slot, as when the customer follows a service's booking link.
func (s *Service) Start(ctx context.Context, serviceID string) (*Session, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.start")
	defer span.End()

	serviceID = strings.TrimSpace(serviceID)
	if err := s.knownService(serviceID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	now := s.now().UTC()
	sess := &Session{
		ID:        s.newID(),
		Draft:     booking.NewDraft(serviceID),
		CreatedAt: now,
		UpdatedAt: now,
	}
	span.SetAttributes(attribute.String("booking.session_id", sess.ID))
	if err := s.store.Create(ctx, sess); err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveSessionStarted(serviceID != "")
	s.logger.Info("booking session started", "session_id", sess.ID, "service_id", serviceID)
	return sess, nil
}

// Get loads a session.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.get", trace.WithAttributes(attribute.String("booking.session_id", id)))
	defer span.End()
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return sess, nil
}

// Discard drops a session so the customer can start over.
func (s *Service) Discard(ctx context.Context, id string) error {
	ctx, span := bookingsTracer.Start(ctx, "bookings.discard", trace.WithAttributes(attribute.String("booking.session_id", id)))
	defer span.End()
	if err := s.store.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return err
	}
	s.logger.Info("booking session discarded", "session_id", id)
	return nil
}

// maxSaveAttempts bounds how often mutate re-reads a session that another
// request saved first.
const maxSaveAttempts = 3

func (s *Service) mutate(ctx context.Context, id, op string, fn func(booking.Draft) (booking.Draft, error)) (*Session, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings."+op, trace.WithAttributes(attribute.String("booking.session_id", id)))
	defer span.End()

	var err error
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		var sess *Session
		sess, err = s.store.Get(ctx, id)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		next, ferr := fn(sess.Draft)
		if ferr != nil {
			span.RecordError(ferr)
			return nil, ferr
		}
		sess.Draft = next
		sess.UpdatedAt = s.now().UTC()
		if err = s.store.Save(ctx, sess); err == nil {
			return sess, nil
		}
		if !errors.Is(err, ErrSessionConflict) {
			break
		}
	}
	span.RecordError(err)
	return nil, err
}

// AddService appends an empty service slot.
func (s *Service) AddService(ctx context.Context, id string) (*Session, error) {
	return s.mutate(ctx, id, "add_service", booking.AddServiceSlot)
}

// RemoveService deletes the slot at index.
func (s *Service) RemoveService(ctx context.Context, id string, index int) (*Session, error) {
	return s.mutate(ctx, id, "remove_service", func(d booking.Draft) (booking.Draft, error) {
		return booking.RemoveServiceSlot(d, index)
	})
}

// UpdateService sets one field of the slot at index. Service IDs must be on
// the menu.
func (s *Service) UpdateService(ctx context.Context, id string, index int, field booking.ServiceField, value string) (*Session, error) {
	if field == booking.FieldServiceID {
		if err := s.knownService(strings.TrimSpace(value)); err != nil {
			return nil, err
		}
	}
	return s.mutate(ctx, id, "update_service", func(d booking.Draft) (booking.Draft, error) {
		return booking.UpdateServiceSlot(d, index, field, value)
	})
}

// SetSchedule applies a date and/or a time slot. A new date clears the time
// unless one is supplied in the same call.
func (s *Service) SetSchedule(ctx context.Context, id string, date *time.Time, slot *string) (*Session, error) {
	today := s.Today()
	return s.mutate(ctx, id, "set_schedule", func(d booking.Draft) (booking.Draft, error) {
		var err error
		if date != nil {
			if d, err = booking.SelectDate(d, *date, today); err != nil {
				return d, err
			}
		}
		if slot != nil {
			if d, err = booking.SelectTime(d, *slot); err != nil {
				return d, err
			}
		}
		return d, nil
	})
}

// SetContact replaces the contact details and notes.
func (s *Service) SetContact(ctx context.Context, id string, contact booking.Contact, notes *string) (*Session, error) {
	return s.mutate(ctx, id, "set_contact", func(d booking.Draft) (booking.Draft, error) {
		d, err := booking.SetContact(d, contact)
		if err != nil || notes == nil {
			return d, err
		}
		return booking.SetNotes(d, *notes)
	})
}

// Next advances the wizard. On the deposit step it submits the booking and
// publishes booking.submitted. It is not retried on ErrSessionConflict, so
// of two racing submissions only the first is confirmed and published.
func (s *Service) Next(ctx context.Context, id string) (*Session, error) {
	ctx, span := bookingsTracer.Start(ctx, "bookings.next", trace.WithAttributes(attribute.String("booking.session_id", id)))
	defer span.End()

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	next, transition, err := booking.Advance(sess.Draft)
	if err != nil {
		if verr, ok := booking.AsValidationError(err); ok {
			s.metrics.ObserveGateFailure(int(verr.Step), verr.Code)
			s.logger.Debug("booking gate blocked", "session_id", id, "step", int(verr.Step), "code", verr.Code)
		}
		span.RecordError(err)
		return nil, err
	}

	if transition.Submit {
		return s.submit(ctx, span, sess)
	}

	sess.Draft = next
	sess.UpdatedAt = s.now().UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.metrics.ObserveTransition(int(transition.From), int(transition.To))
	return sess, nil
}

func (s *Service) submit(ctx context.Context, span trace.Span, sess *Session) (*Session, error) {
	reference, err := s.references()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("bookings: generate reference: %w", err)
	}
	now := s.now()
	finalized, conf, err := booking.Submit(sess.Draft, s.catalog, reference, now)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	sess.Draft = finalized
	sess.Confirmation = &conf
	sess.UpdatedAt = now.UTC()
	if err := s.store.Save(ctx, sess); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("booking.reference", reference))
	s.metrics.ObserveSubmission(conf.DepositAmount)
	s.logger.Info("booking submitted",
		"session_id", sess.ID,
		"reference", reference,
		"total_price", conf.TotalPrice,
		"deposit", conf.DepositAmount,
	)

	if err := s.publisher.Publish(ctx, events.EventTypeBookingSubmitted, submittedEvent(sess.ID, conf)); err != nil {
		s.logger.Error("publish booking submitted failed", "error", err, "reference", reference)
	}
	return sess, nil
}

// Back moves to the previous step.
func (s *Service) Back(ctx context.Context, id string) (*Session, error) {
	var transition booking.Transition
	sess, err := s.mutate(ctx, id, "back", func(d booking.Draft) (booking.Draft, error) {
		next, t, err := booking.Retreat(d)
		transition = t
		return next, err
	})
	if err != nil {
		return nil, err
	}
	if transition.Moved() {
		s.metrics.ObserveTransition(int(transition.From), int(transition.To))
	}
	return sess, nil
}

// Confirmation returns the finalized booking of a submitted session.
func (s *Service) Confirmation(ctx context.Context, id string) (*booking.Confirmation, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Confirmation == nil {
		return nil, ErrNotSubmitted
	}
	return sess.Confirmation, nil
}

// Deposit returns the reference and amount the deposit QR should carry. The
// reference stays empty until the booking is submitted.
func (s *Service) Deposit(ctx context.Context, id string) (string, int, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return "", 0, err
	}
	if sess.Draft.Step < booking.StepDeposit {
		return "", 0, ErrDepositNotReady
	}
	return sess.Draft.Reference, booking.DepositAmount(sess.Draft, s.catalog), nil
}

func submittedEvent(sessionID string, conf booking.Confirmation) events.BookingSubmittedV1 {
	lines := make([]events.BookingLineV1, 0, len(conf.Lines))
	for _, l := range conf.Lines {
		lines = append(lines, events.BookingLineV1{
			ServiceID: l.ServiceID,
			Name:      l.Name,
			Duration:  l.Duration,
			Price:     l.Price,
		})
	}
	return events.BookingSubmittedV1{
		EventID:       uuid.NewString(),
		Reference:     conf.Reference,
		SessionID:     sessionID,
		CustomerName:  strings.TrimSpace(conf.Contact.FirstName + " " + conf.Contact.LastName),
		Email:         conf.Contact.Email,
		Phone:         conf.Contact.Phone,
		Lines:         lines,
		Date:          conf.Date.Format(time.DateOnly),
		Time:          conf.Time,
		Notes:         conf.Notes,
		TotalMinutes:  conf.TotalMinutes,
		TotalPrice:    conf.TotalPrice,
		DepositAmount: conf.DepositAmount,
		SubmittedAt:   conf.SubmittedAt,
	}
}
