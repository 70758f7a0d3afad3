package booking

// Step is one state of the five-step booking flow.
type Step int

const (
	StepServiceSelection Step = iota + 1
	StepDateTime
	StepPersonalInfo
	StepSummary
	StepDeposit
)

// FirstStep and LastStep bound every reachable step.
const (
	FirstStep = StepServiceSelection
	LastStep  = StepDeposit
)

var stepTitles = map[Step]string{
	StepServiceSelection: "เลือกบริการ",
	StepDateTime:         "เลือกวันและเวลา",
	StepPersonalInfo:     "ข้อมูลของคุณ",
	StepSummary:          "สรุปการจอง",
	StepDeposit:          "ชำระเงินมัดจำ",
}

// Valid reports whether s is one of the five flow steps.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// Title is the customer-facing step name.
func (s Step) Title() string {
	return stepTitles[s]
}

// Steps lists the flow in order.
func Steps() []Step {
	return []Step{StepServiceSelection, StepDateTime, StepPersonalInfo, StepSummary, StepDeposit}
}

// Transition describes the outcome of a navigation request.
type Transition struct {
	From Step `json:"from"`
	To   Step `json:"to"`
	// Submit is set when advancing from the deposit step; the caller should
	// finalize the draft with Submit instead of moving on.
	Submit bool `json:"submit"`
}

// Moved reports whether the step changed.
func (t Transition) Moved() bool {
	return t.From != t.To
}
