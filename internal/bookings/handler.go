package bookings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/withsutham/SE-KPS-68-2/internal/booking"
	"github.com/withsutham/SE-KPS-68-2/internal/http/respond"
	"github.com/withsutham/SE-KPS-68-2/internal/receipt"
	"github.com/withsutham/SE-KPS-68-2/pkg/logging"
)

var errInvalidDate = errors.New("bookings: date must be formatted YYYY-MM-DD")

// Handler exposes booking sessions over HTTP.
type Handler struct {
	service  *Service
	logger   *logging.Logger
	document receipt.PDFOptions
}

// NewHandler creates a bookings handler. document configures the
// confirmation PDF and deposit QR.
func NewHandler(service *Service, logger *logging.Logger, document receipt.PDFOptions) *Handler {
	if service == nil {
		panic("bookings: service required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, logger: logger, document: document}
}

// Routes mounts the booking endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/durations", h.ListDurations)
	r.Get("/time-slots", h.ListTimeSlots)
	r.Get("/services/{serviceID}", h.StartFromService)
	r.Post("/sessions", h.StartSession)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.DiscardSession)
		r.Post("/services", h.AddService)
		r.Patch("/services/{index}", h.UpdateService)
		r.Delete("/services/{index}", h.RemoveService)
		r.Put("/schedule", h.SetSchedule)
		r.Put("/contact", h.SetContact)
		r.Post("/next", h.Next)
		r.Post("/back", h.Back)
		r.Get("/slots", h.AvailableSlots)
		r.Get("/confirmation", h.GetConfirmation)
		r.Get("/confirmation.pdf", h.ConfirmationPDF)
		r.Get("/deposit-qr.png", h.DepositQR)
	})
	return r
}

type validationResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Step    int    `json:"step"`
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if verr, ok := booking.AsValidationError(err); ok {
		respond.JSON(w, http.StatusUnprocessableEntity, validationResponse{
			Error: verr.Message,
			Code:  verr.Code,
			Step:  int(verr.Step),
		})
		return
	}
	switch {
	case errors.Is(err, ErrSessionNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrLastServiceSlot),
		errors.Is(err, booking.ErrDraftFinalized),
		errors.Is(err, ErrSessionConflict),
		errors.Is(err, booking.ErrNotReadyToSubmit),
		errors.Is(err, ErrNotSubmitted),
		errors.Is(err, ErrDepositNotReady):
		respond.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, booking.ErrSlotIndex),
		errors.Is(err, booking.ErrUnknownField),
		errors.Is(err, booking.ErrUnknownDuration),
		errors.Is(err, booking.ErrPastDate),
		errors.Is(err, booking.ErrSlotUnavailable),
		errors.Is(err, booking.ErrInvalidStep),
		errors.Is(err, ErrUnknownService),
		errors.Is(err, errInvalidDate):
		respond.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("booking request failed", "error", err, "path", r.URL.Path)
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) writeView(w http.ResponseWriter, status int, sess *Session) {
	respond.Data(w, status, NewView(sess, h.service.Catalog()))
}

func decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func slotIndex(r *http.Request) (int, error) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", booking.ErrSlotIndex, chi.URLParam(r, "index"))
	}
	return idx, nil
}

// ListDurations handles GET /booking/durations
func (h *Handler) ListDurations(w http.ResponseWriter, r *http.Request) {
	respond.Data(w, http.StatusOK, booking.DurationOptions())
}

// ListTimeSlots handles GET /booking/time-slots
func (h *Handler) ListTimeSlots(w http.ResponseWriter, r *http.Request) {
	respond.Data(w, http.StatusOK, booking.TimeSlots())
}

// StartFromService handles GET /booking/services/{serviceID}
func (h *Handler) StartFromService(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Start(r.Context(), chi.URLParam(r, "serviceID"))
	if errors.Is(err, ErrUnknownService) {
		respond.Error(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeView(w, http.StatusCreated, sess)
}

type startRequest struct {
	ServiceID string `json:"serviceId"`
}

// StartSession handles POST /booking/sessions
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := h.service.Start(r.Context(), req.ServiceID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeView(w, http.StatusCreated, sess)
}

// GetSession handles GET /booking/sessions/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeView(w, http.StatusOK, sess)
}

// DiscardSession handles DELETE /booking/sessions/{sessionID}
func (h *Handler) DiscardSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Discard(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	respond.Message(w, http.StatusOK, "booking session discarded")
}

// AddService handles POST /booking/sessions/{sessionID}/services
func (h *Handler) AddService(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.AddService(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeView(w, http.StatusOK, sess)
}

type updateServiceRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateService handles PATCH /booking/sessions/{sessionID}/services/{index}
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	idx, err := slotIndex(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	var req updateServiceRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := h.service.UpdateService(r.Context(), chi.URLParam(r, "sessionID"), idx, booking.ServiceField(req.Field), req.Value)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeView(w, http.StatusOK, sess)
}

// RemoveService handles DELETE /booking/sessions/{sessionID}/services/{index}
func (h *Handler) RemoveService(w http.ResponseWriter, r *http.Request) {
	idx, err := slotIndex(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sess, err := h.service.RemoveService(r.Context(), chi.URLParam(r, "sessionID"), idx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeView(w, http.StatusOK, sess)
}

type scheduleRequest struct {
	Date *string `json:"date"`
	Time *string `json:"time"`
}

// SetSchedule handles PUT /booking/sessions/{sessionID}/schedule
func (h *Handler) SetSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	var date *time.Time
	if req.Date != nil {
		parsed, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(*req.Date), h.service.Location())
		if err != nil {
			h.writeError(w, r, fmt.Errorf("%w: %q", errInvalidDate, *req.Date))
			return
		}
		date = &parsed
	}
	sess, err := h.service.SetSchedule(r.Context(), chi.URLParam(r, "sessionID"), date, req.Time)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeView(w, http.StatusOK, sess)
}

type contactRequest struct {
	booking.Contact
	Notes *string `json:"notes"`
}

// SetContact handles PUT /booking/sessions/{sessionID}/contact
func (h *Handler) SetContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := h.service.SetContact(r.Context(), chi.URLParam(r, "sessionID"), req.Contact, req.Notes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeView(w, http.StatusOK, sess)
}

// Next handles POST /booking/sessions/{sessionID}/next
func (h *Handler) Next(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Next(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeView(w, http.StatusOK, sess)
}

// Back handles POST /booking/sessions/{sessionID}/back
func (h *Handler) Back(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Back(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeView(w, http.StatusOK, sess)
}

// AvailableSlots handles GET /booking/sessions/{sessionID}/slots
func (h *Handler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	sess, err := h.service.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond.Data(w, http.StatusOK, booking.AvailableTimeSlots(sess.Draft))
}

// GetConfirmation handles GET /booking/sessions/{sessionID}/confirmation
func (h *Handler) GetConfirmation(w http.ResponseWriter, r *http.Request) {
	conf, err := h.service.Confirmation(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond.Data(w, http.StatusOK, conf)
}

// ConfirmationPDF handles GET /booking/sessions/{sessionID}/confirmation.pdf
func (h *Handler) ConfirmationPDF(w http.ResponseWriter, r *http.Request) {
	conf, err := h.service.Confirmation(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	doc, err := receipt.RenderConfirmationPDF(*conf, h.document)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", conf.Reference+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// DepositQR handles GET /booking/sessions/{sessionID}/deposit-qr.png
func (h *Handler) DepositQR(w http.ResponseWriter, r *http.Request) {
	reference, amount, err := h.service.Deposit(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	png, err := receipt.DepositQRCode(receipt.DepositPayload(h.document.PromptPayID, amount, reference), receipt.DefaultQRSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
