// ABOUTME: Booking wizard state machine: seat selection, passenger details, payment
// ABOUTME: Enforces step completeness, prices the draft, and guards the single submit

package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/flyair/flyair-cli/internal/client"
)

// Step is a position in the wizard.
type Step int

const (
	StepSeatSelection Step = iota
	StepPassengerDetails
	StepPayment
)

// String returns the step title shown to the user.
func (s Step) String() string {
	switch s {
	case StepSeatSelection:
		return "Select Seat"
	case StepPassengerDetails:
		return "Passenger Details"
	case StepPayment:
		return "Payment"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Steps lists the wizard steps in order.
var Steps = []Step{StepSeatSelection, StepPassengerDetails, StepPayment}

var (
	ErrNoFlight       = errors.New("no flight selected, search for a flight first")
	ErrFirstStep      = errors.New("already at the first step")
	ErrNotReady       = errors.New("booking can only be submitted from the payment step")
	ErrSubmitInFlight = errors.New("booking is already being submitted")
	ErrAbandoned      = errors.New("booking draft is no longer active")
)

// ValidationError names the field that blocks progress.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Creator submits a booking to the backend.
type Creator interface {
	CreateBooking(ctx context.Context, req client.CreateBookingRequest) (*client.Booking, error)
}

// Draft is a snapshot of the wizard's state.
type Draft struct {
	Flight        *client.Flight
	SelectedSeat  *client.Seat
	PassengerName string
	Step          Step
	TotalPrice    float64
}

// Wizard drives one booking attempt. It is safe for concurrent use.
type Wizard struct {
	creator Creator

	mu            sync.Mutex
	flight        *client.Flight
	seat          *client.Seat
	passengerName string
	step          Step
	active        bool
	submitting    bool
}

// Start opens a draft for flight. A nil flight aborts the flow.
func Start(flight *client.Flight, creator Creator) (*Wizard, error) {
	if flight == nil {
		return nil, ErrNoFlight
	}
	f := *flight
	if flight.Price != nil {
		p := *flight.Price
		f.Price = &p
	}
	return &Wizard{
		creator: creator,
		flight:  &f,
		step:    StepSeatSelection,
		active:  true,
	}, nil
}

// SelectSeat replaces the chosen seat. Availability is not rechecked here.
func (w *Wizard) SelectSeat(seat *client.Seat) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.active {
		return
	}
	if seat == nil {
		w.seat = nil
		return
	}
	s := *seat
	w.seat = &s
}

// SetPassengerName stores the name as typed. It is trimmed on validation and submit.
func (w *Wizard) SetPassengerName(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.active {
		w.passengerName = name
	}
}

// Advance moves to the next step if the current one is complete.
func (w *Wizard) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.active {
		return ErrAbandoned
	}

	switch w.step {
	case StepSeatSelection:
		if err := w.checkSeat(); err != nil {
			return err
		}
	case StepPassengerDetails:
		if err := w.checkPassenger(); err != nil {
			return err
		}
	case StepPayment:
		return ErrNotReady
	}
	w.step++
	return nil
}

// GoBack returns to the previous step without rechecking anything.
func (w *Wizard) GoBack() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.active {
		return ErrAbandoned
	}
	if w.step == StepSeatSelection {
		return ErrFirstStep
	}
	w.step--
	return nil
}

func (w *Wizard) checkSeat() error {
	if w.seat == nil {
		return &ValidationError{Field: "seat", Message: "select a seat"}
	}
	return nil
}

func (w *Wizard) checkPassenger() error {
	if strings.TrimSpace(w.passengerName) == "" {
		return &ValidationError{Field: "passengerName", Message: "enter passenger name"}
	}
	return nil
}

// Submit sends the booking. On success the draft is discarded; on failure it
// is left untouched so the user can retry. Only one submit runs at a time.
func (w *Wizard) Submit(ctx context.Context) (*client.Booking, error) {
	w.mu.Lock()
	if !w.active {
		w.mu.Unlock()
		return nil, ErrAbandoned
	}
	if w.step != StepPayment {
		w.mu.Unlock()
		return nil, ErrNotReady
	}
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if err := w.checkSeat(); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if err := w.checkPassenger(); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	req := client.CreateBookingRequest{
		FlightID:      w.flight.ID,
		PassengerName: strings.TrimSpace(w.passengerName),
		SeatID:        w.seat.ID,
		SeatNumber:    w.seat.SeatNumber,
	}
	w.submitting = true
	w.mu.Unlock()

	slog.Debug("Submitting booking", "flight", req.FlightID, "seat", req.SeatNumber)
	b, err := w.creator.CreateBooking(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if !w.active {
		slog.Debug("Booking result arrived after the draft was abandoned")
		return nil, ErrAbandoned
	}
	if err != nil {
		return nil, err
	}
	w.discard()
	return b, nil
}

// Submitting reports whether a submit is in flight.
func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// TotalPrice is the flight fare plus the selected seat's supplement.
func (w *Wizard) TotalPrice() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.total()
}

func (w *Wizard) total() float64 {
	price := w.flight.BasePrice()
	if w.seat != nil {
		price += w.seat.Price
	}
	return price
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a copy of the current state.
func (w *Wizard) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()

	d := Draft{PassengerName: w.passengerName, Step: w.step, TotalPrice: w.total()}
	if w.flight != nil {
		f := *w.flight
		d.Flight = &f
	}
	if w.seat != nil {
		s := *w.seat
		d.SelectedSeat = &s
	}
	return d
}

// Abandon discards the draft. An in-flight submit's result will be ignored.
func (w *Wizard) Abandon() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.discard()
}

// Active reports whether the draft still exists.
func (w *Wizard) Active() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

func (w *Wizard) discard() {
	w.active = false
	w.flight = nil
	w.seat = nil
	w.passengerName = ""
	w.step = StepSeatSelection
}
