// ABOUTME: FlyAir API resource models: users, flights, airports, seats, bookings, tickets
// ABOUTME: Optional backend fields are pointers so callers handle absence explicitly

package client

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Role is a user's authorization role.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole validates a role given on the command line.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleUser, RoleAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q (want USER or ADMIN)", s)
}

// User is the authenticated user's profile.
type User struct {
	ID               ID     `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Phone            string `json:"phone,omitempty"`
	Role             Role   `json:"role"`
	IsActive         bool   `json:"isActive"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
}

// FullName returns "First Last", falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// FlightStatus is the operational status of a flight.
type FlightStatus string

const (
	FlightScheduled FlightStatus = "SCHEDULED"
	FlightDelayed   FlightStatus = "DELAYED"
	FlightCancelled FlightStatus = "CANCELLED"
	FlightCompleted FlightStatus = "COMPLETED"
)

// ParseFlightStatus validates a status given on the command line.
func ParseFlightStatus(s string) (FlightStatus, error) {
	switch st := FlightStatus(strings.ToUpper(s)); st {
	case FlightScheduled, FlightDelayed, FlightCancelled, FlightCompleted:
		return st, nil
	}
	return "", fmt.Errorf("unknown flight status %q (want SCHEDULED, DELAYED, CANCELLED, or COMPLETED)", s)
}

// Airport is an airport served by the airline.
type Airport struct {
	ID          ID         `json:"id,omitempty"`
	AirportCode string     `json:"airportCode"`
	AirportName string     `json:"airportName"`
	City        string     `json:"city"`
	Country     string     `json:"country"`
	CountryCode string     `json:"countryCode,omitempty"`
	TimeZone    string     `json:"timeZone,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   *Timestamp `json:"createdAt,omitempty"`
	UpdatedAt   *Timestamp `json:"updatedAt,omitempty"`
}

// Flight is a scheduled flight. Airports, price, and availability are only
// present on some endpoints.
type Flight struct {
	ID                 ID           `json:"id"`
	FlightNumber       string       `json:"flightNumber"`
	DepartureAirportID ID           `json:"departureAirportId"`
	ArrivalAirportID   ID           `json:"arrivalAirportId"`
	DepartureTime      Timestamp    `json:"departureTime"`
	ArrivalTime        Timestamp    `json:"arrivalTime"`
	DurationMinutes    int          `json:"durationMinutes"`
	Status             FlightStatus `json:"status"`
	GateNumber         string       `json:"gateNumber,omitempty"`
	Terminal           string       `json:"terminal,omitempty"`
	AircraftType       string       `json:"aircraftType,omitempty"`
	DepartureAirport   *Airport     `json:"departureAirport,omitempty"`
	ArrivalAirport     *Airport     `json:"arrivalAirport,omitempty"`
	Aircraft           string       `json:"aircraft,omitempty"`
	AvailableSeats     *int         `json:"availableSeats,omitempty"`
	Price              *float64     `json:"price,omitempty"`
}

// BasePrice returns the fare before seat supplements, zero when unpriced.
func (f *Flight) BasePrice() float64 {
	if f == nil || f.Price == nil {
		return 0
	}
	return *f.Price
}

// Origin returns the departure airport code, or the airport id when the
// airport was not embedded.
func (f *Flight) Origin() string {
	if f.DepartureAirport != nil && f.DepartureAirport.AirportCode != "" {
		return f.DepartureAirport.AirportCode
	}
	return "#" + f.DepartureAirportID.String()
}

// Destination returns the arrival airport code, or the airport id.
func (f *Flight) Destination() string {
	if f.ArrivalAirport != nil && f.ArrivalAirport.AirportCode != "" {
		return f.ArrivalAirport.AirportCode
	}
	return "#" + f.ArrivalAirportID.String()
}

// Route returns "ORIGIN → DESTINATION".
func (f *Flight) Route() string {
	return f.Origin() + " → " + f.Destination()
}

// SeatClass is a cabin class.
type SeatClass string

const (
	SeatEconomy  SeatClass = "ECONOMY"
	SeatBusiness SeatClass = "BUSINESS"
	SeatFirst    SeatClass = "FIRST"
)

// Seat is a seat offered on a flight. Price is the supplement over the fare.
type Seat struct {
	ID          ID        `json:"id"`
	FlightID    ID        `json:"flightId"`
	SeatNumber  string    `json:"seatNumber"`
	SeatClass   SeatClass `json:"seatClass"`
	Price       float64   `json:"price"`
	IsAvailable bool      `json:"isAvailable"`
}

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// Booking is a confirmed reservation of one seat on one flight.
type Booking struct {
	ID            ID            `json:"id"`
	UserID        ID            `json:"userId"`
	FlightID      ID            `json:"flightId"`
	Status        BookingStatus `json:"status"`
	PassengerName string        `json:"passengerName"`
	SeatNumber    string        `json:"seatNumber,omitempty"`
	BookingDate   Timestamp     `json:"bookingDate"`
	TotalPrice    float64       `json:"totalPrice"`
	Flight        *Flight       `json:"flight,omitempty"`
}

// CreateBookingRequest is the body of POST /api/bookings.
type CreateBookingRequest struct {
	FlightID      ID     `json:"flightId"`
	PassengerName string `json:"passengerName"`
	SeatID        ID     `json:"seatId,omitempty"`
	SeatNumber    string `json:"seatNumber"`
}

// TicketStatus is the travel state of a ticket.
type TicketStatus string

const (
	TicketIssued    TicketStatus = "ISSUED"
	TicketConfirmed TicketStatus = "CONFIRMED"
	TicketCheckedIn TicketStatus = "CHECKED_IN"
	TicketBoarded   TicketStatus = "BOARDED"
	TicketCancelled TicketStatus = "CANCELLED"
)

// Ticket is the travel document issued for a booking.
type Ticket struct {
	ID            ID           `json:"id"`
	BookingID     ID           `json:"bookingId"`
	PassengerName string       `json:"passengerName"`
	SeatNumber    string       `json:"seatNumber"`
	Status        TicketStatus `json:"status"`
	CheckInTime   *Timestamp   `json:"checkInTime,omitempty"`
	BoardingTime  *Timestamp   `json:"boardingTime,omitempty"`
	Booking       *Booking     `json:"booking,omitempty"`
}

// CanCheckIn reports whether the ticket may be checked in.
func (t *Ticket) CanCheckIn() bool {
	return t.Status == TicketIssued || t.Status == TicketConfirmed
}

// CanBoard reports whether the ticket may be boarded.
func (t *Ticket) CanBoard() bool {
	return t.Status == TicketCheckedIn
}

// CanCancel reports whether the ticket may still be cancelled.
func (t *Ticket) CanCancel() bool {
	return t.Status == TicketIssued || t.Status == TicketConfirmed
}

// Flight returns the flight the ticket is for, if embedded.
func (t *Ticket) Flight() *Flight {
	if t.Booking == nil {
		return nil
	}
	return t.Booking.Flight
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	TotalFlights   int64     `json:"totalFlights"`
	TotalBookings  int64     `json:"totalBookings"`
	TotalRevenue   float64   `json:"totalRevenue"`
	TotalUsers     int64     `json:"totalUsers"`
	RecentBookings []Booking `json:"recentBookings"`
}

// SearchFilters narrows a flight search.
type SearchFilters struct {
	DepartureAirportCode string `json:"departureAirportCode,omitempty"`
	ArrivalAirportCode   string `json:"arrivalAirportCode,omitempty"`
	DepartureDate        string `json:"departureDate,omitempty"`
	ReturnDate           string `json:"returnDate,omitempty"`
	Passengers           int    `json:"passengers,omitempty"`
	Class                string `json:"class,omitempty"`
}

// GlobalSearchResult groups matches across resources.
type GlobalSearchResult struct {
	Flights  []Flight  `json:"flights"`
	Bookings []Booking `json:"bookings"`
	Users    []User    `json:"users"`
	Airports []Airport `json:"airports,omitempty"`
	Tickets  []Ticket  `json:"tickets,omitempty"`
	Seats    []Seat    `json:"seats,omitempty"`
}

// ListParams pages and filters list endpoints. Zero fields are omitted.
type ListParams struct {
	Page       int
	Size       int
	SortBy     string
	SortDir    string
	SearchTerm string
}

// Query encodes the parameters, or "" when none are set.
func (p ListParams) Query() string {
	v := url.Values{}
	if p.Page > 0 || p.Size > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		v.Set("size", strconv.Itoa(p.Size))
	}
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	if p.SortDir != "" {
		v.Set("sortDir", p.SortDir)
	}
	if p.SearchTerm != "" {
		v.Set("searchTerm", p.SearchTerm)
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// VerifyTwoFactorRequest completes a login that required a second factor.
type VerifyTwoFactorRequest struct {
	TemporaryToken string `json:"temporaryToken"`
	Code           string `json:"code"`
}

// AuthenticationResponse is returned by login and 2FA verification. When
// RequiresTwoFactor is set, AccessToken is empty and TemporaryToken must be
// exchanged through VerifyTwoFactor.
type AuthenticationResponse struct {
	AccessToken       string `json:"accessToken"`
	RefreshToken      string `json:"refreshToken,omitempty"`
	TokenType         string `json:"tokenType,omitempty"`
	ExpiresIn         int64  `json:"expiresIn,omitempty"`
	User              *User  `json:"user,omitempty"`
	RequiresTwoFactor bool   `json:"requiresTwoFactor"`
	TemporaryToken    string `json:"temporaryToken,omitempty"`
	Message           string `json:"message,omitempty"`
}

// RegisterRequest creates a new traveler account.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone,omitempty"`
}

// ProfileUpdate carries the editable profile fields. Empty fields are omitted.
type ProfileUpdate struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsActive  *bool  `json:"isActive,omitempty"`
	Role      Role   `json:"role,omitempty"`
}

// TwoFactorSetup is the secret and QR code returned when enabling 2FA.
type TwoFactorSetup struct {
	QRCode string `json:"qrCode"`
	Secret string `json:"secret"`
}

// MessageResponse is the payload of endpoints that only acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}
