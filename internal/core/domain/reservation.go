package domain

import "time"

// Reservation represents a booking stored in the reservation table.
type Reservation struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Target       string    `json:"target"`
	EmailAddress string    `json:"emailaddress"`
	Session      string    `json:"session"`
	Reason       string    `json:"reason"`
	Time         time.Time `json:"time"`
}

// ReservationFilter narrows a reservation listing. Empty fields are ignored.
type ReservationFilter struct {
	Type    string
	Target  string
	Email   string // Case-insensitive substring match
	Session string
	From    *time.Time // Inclusive
	Until   *time.Time // Exclusive
}

// ReservationQuery is a filtered, sorted, paginated reservation listing request.
type ReservationQuery struct {
	Filter    ReservationFilter
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}

// ReservationPatch holds the fields of a partial reservation update. Nil fields are left unchanged.
type ReservationPatch struct {
	Type         *string
	Target       *string
	EmailAddress *string
	Session      *string
	Reason       *string
	Time         *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p ReservationPatch) IsEmpty() bool {
	return p.Type == nil && p.Target == nil && p.EmailAddress == nil &&
		p.Session == nil && p.Reason == nil && p.Time == nil
}

// ReservationPage is one page of reservations together with the total match count.
type ReservationPage struct {
	Reservations []Reservation
	Total        int
}
