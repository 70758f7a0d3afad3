package bookings

import (
	"time"

	"github.com/withsutham/SE-KPS-68-2/internal/booking"
	"github.com/withsutham/SE-KPS-68-2/internal/catalog"
)

// StepView describes one entry of the progress indicator.
type StepView struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Current   bool   `json:"current"`
	Completed bool   `json:"completed"`
}

// View is the wire form of a session: the draft plus everything derived from it.
type View struct {
	SessionID    string                `json:"sessionId"`
	Step         int                   `json:"step"`
	StepTitle    string                `json:"stepTitle"`
	Steps        []StepView            `json:"steps"`
	CanGoBack    bool                  `json:"canGoBack"`
	Submitted    bool                  `json:"submitted"`
	Draft        booking.Draft         `json:"draft"`
	Quote        booking.Quote         `json:"quote"`
	Confirmation *booking.Confirmation `json:"confirmation,omitempty"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// NewView renders a session against the menu.
func NewView(sess *Session, provider catalog.Provider) View {
	d := sess.Draft
	steps := make([]StepView, 0, len(booking.Steps()))
	for _, st := range booking.Steps() {
		steps = append(steps, StepView{
			Number:    int(st),
			Title:     st.Title(),
			Current:   st == d.Step,
			Completed: st < d.Step || d.Finalized(),
		})
	}
	return View{
		SessionID:    sess.ID,
		Step:         int(d.Step),
		StepTitle:    d.Step.Title(),
		Steps:        steps,
		CanGoBack:    d.Step > booking.FirstStep && !d.Finalized(),
		Submitted:    d.Finalized(),
		Draft:        d,
		Quote:        booking.QuoteFor(d, provider),
		Confirmation: sess.Confirmation,
		UpdatedAt:    sess.UpdatedAt,
	}
}
