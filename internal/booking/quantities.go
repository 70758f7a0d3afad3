package booking

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/withsutham/SE-KPS-68-2/internal/catalog"
)

const (
	openingHour    = 9
	closingHour    = 21
	slotMinutes    = 60
	depositPercent = 20
	// UnresolvedServiceName is shown for lines whose service is not on the menu.
	UnresolvedServiceName = "ยังไม่ได้เลือก"
)

var (
	durationOptions = []string{"60 นาที", "75 นาที", "90 นาที", "120 นาที"}
	timeSlots       = buildTimeSlots()
	leadingInt      = regexp.MustCompile(`^\s*(\d+)`)
)

func buildTimeSlots() []string {
	slots := make([]string, 0, closingHour-openingHour)
	for hour := openingHour; hour < closingHour; hour++ {
		slots = append(slots, fmt.Sprintf("%02d.00 น.", hour))
	}
	return slots
}

// DurationOptions is the single duration enumeration shared by every service.
func DurationOptions() []string {
	out := make([]string, len(durationOptions))
	copy(out, durationOptions)
	return out
}

// TimeSlots is the daily schedule of hourly start times, 09.00 through 20.00.
func TimeSlots() []string {
	out := make([]string, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// DurationMinutes parses the leading integer of a duration label such as
// "90 นาที". Labels without one count as zero.
func DurationMinutes(label string) int {
	m := leadingInt.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// TotalMinutes sums the durations of every selected service.
func TotalMinutes(d Draft) int {
	total := 0
	for _, s := range d.Services {
		total += DurationMinutes(s.Duration)
	}
	return total
}

// TotalPrice sums the flat prices of the selected services. Services missing
// from the menu contribute nothing.
func TotalPrice(d Draft, p catalog.Provider) int {
	total := 0
	for _, s := range d.Services {
		if item, ok := p.Lookup(s.ServiceID); ok {
			total += item.PriceRange
		}
	}
	return total
}

// Deposit is 20% of total, rounded down.
func Deposit(total int) int {
	if total <= 0 {
		return 0
	}
	return total * depositPercent / 100
}

// DepositAmount is the deposit owed for the draft.
func DepositAmount(d Draft, p catalog.Provider) int {
	return Deposit(TotalPrice(d, p))
}

// BlocksNeeded is the number of hourly slots a session of minutes occupies.
func BlocksNeeded(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return (minutes + slotMinutes - 1) / slotMinutes
}

// SlotsForBlocks returns the start times from which blocks consecutive hours
// finish by closing time.
func SlotsForBlocks(blocks int) []string {
	n := len(timeSlots) - blocks + 1
	if n < 0 {
		n = 0
	}
	if n > len(timeSlots) {
		n = len(timeSlots)
	}
	out := make([]string, n)
	copy(out, timeSlots[:n])
	return out
}

// AvailableTimeSlots returns the start times that leave room for the draft's
// total duration before closing.
func AvailableTimeSlots(d Draft) []string {
	return SlotsForBlocks(BlocksNeeded(TotalMinutes(d)))
}

// Line is a selected service resolved against the menu.
type Line struct {
	ServiceID  string `json:"serviceId"`
	Name       string `json:"name"`
	Duration   string `json:"duration"`
	Price      int    `json:"price"`
	PriceLabel string `json:"priceLabel"`
	Resolved   bool   `json:"resolved"`
}

// ResolveLines looks every selected service up in the menu.
func ResolveLines(d Draft, p catalog.Provider) []Line {
	lines := make([]Line, 0, len(d.Services))
	for _, s := range d.Services {
		line := Line{ServiceID: s.ServiceID, Name: UnresolvedServiceName, Duration: s.Duration}
		if item, ok := p.Lookup(s.ServiceID); ok {
			line.Name = item.Name
			line.Price = item.PriceRange
			line.PriceLabel = strings.TrimSpace(strings.Split(item.Price, "-")[0])
			line.Resolved = true
		}
		lines = append(lines, line)
	}
	return lines
}

// Quote bundles the derived quantities shown alongside a draft.
type Quote struct {
	Lines          []Line   `json:"lines"`
	TotalMinutes   int      `json:"totalMinutes"`
	TotalPrice     int      `json:"totalPrice"`
	DepositAmount  int      `json:"depositAmount"`
	AvailableSlots []string `json:"availableSlots"`
}

// QuoteFor computes every derived quantity of d.
func QuoteFor(d Draft, p catalog.Provider) Quote {
	total := TotalPrice(d, p)
	return Quote{
		Lines:          ResolveLines(d, p),
		TotalMinutes:   TotalMinutes(d),
		TotalPrice:     total,
		DepositAmount:  Deposit(total),
		AvailableSlots: AvailableTimeSlots(d),
	}
}
