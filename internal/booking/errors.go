package booking

import (
	"errors"
	"fmt"
)

var (
	ErrDraftFinalized   = errors.New("booking: draft already submitted")
	ErrLastServiceSlot  = errors.New("booking: at least one service slot is required")
	ErrSlotIndex        = errors.New("booking: service slot index out of range")
	ErrUnknownField     = errors.New("booking: unknown service slot field")
	ErrUnknownDuration  = errors.New("booking: unknown duration option")
	ErrPastDate         = errors.New("booking: date is in the past")
	ErrSlotUnavailable  = errors.New("booking: time slot not available for selected duration")
	ErrNotReadyToSubmit = errors.New("booking: submission is only possible from the deposit step")
	ErrInvalidStep      = errors.New("booking: invalid step")
)

// Validation failure codes.
const (
	CodeNoServices         = "no_services"
	CodeIncompleteServices = "incomplete_services"
	CodeMissingSchedule    = "missing_schedule"
	CodeNoSlotRoom         = "no_slot_room"
	CodeSlotUnavailable    = "slot_unavailable"
	CodeMissingContact     = "missing_contact"
	CodeInvalidEmail       = "invalid_email"
)

var validationMessages = map[string]string{
	CodeNoServices:         "กรุณาเลือกอย่างน้อยหนึ่งบริการ",
	CodeIncompleteServices: "กรุณาเลือกบริการและระยะเวลาให้ครบทุกรายการ",
	CodeMissingSchedule:    "กรุณาเลือกวันที่และเวลา",
	CodeNoSlotRoom:         "ไม่มีช่วงเวลาที่เพียงพอสำหรับระยะเวลาที่เลือก กรุณาเลือกวันอื่น",
	CodeSlotUnavailable:    "เวลาที่เลือกไม่พอสำหรับบริการทั้งหมดก่อนปิดร้าน กรุณาเลือกเวลาใหม่",
	CodeMissingContact:     "กรุณากรอกข้อมูลส่วนตัวให้ครบถ้วน",
	CodeInvalidEmail:       "กรุณากรอกอีเมลให้ถูกต้อง",
}

// ValidationError is a gate failure. It blocks a forward transition and is
// always recoverable by correcting the draft.
type ValidationError struct {
	Step    Step   `json:"step"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newValidationError(step Step, code string) *ValidationError {
	return &ValidationError{Step: step, Code: code, Message: validationMessages[code]}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking: step %d: %s", e.Step, e.Code)
}

// AsValidationError unwraps err into a gate failure when it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
