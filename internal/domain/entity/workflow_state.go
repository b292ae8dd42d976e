package entity

import "time"

// BookingKind selects which path of the booking wizard is active
type BookingKind string

const (
	KindRide    BookingKind = "ride"
	KindMission BookingKind = "mission"
)

// WorkflowState is the aggregate driving one booking attempt.
// ChauffeurID belongs to the ride path and Mission to the mission path;
// only the one selected by Kind is ever submitted.
type WorkflowState struct {
	Kind BookingKind `json:"kind"`

	Category               RideCategory           `json:"category"`
	AirportTransferSubtype AirportTransferSubtype `json:"airportTransferSubtype,omitempty"`
	FlightNumber           string                 `json:"flightNumber,omitempty"`
	FlightSchedule         *ScheduleRecord        `json:"flightSchedule,omitempty"`

	EventID   string        `json:"eventId"`
	ClientID  string        `json:"clientId"`
	Passenger PassengerInfo `json:"passengerInfo"`

	PickupAddress  string     `json:"pickupAddress"`
	DropoffAddress string     `json:"dropoffAddress"`
	PickupTime     time.Time  `json:"pickupTime"`
	DurationHours  *float64   `json:"durationHours,omitempty"`
	Status         RideStatus `json:"status"`
	Fare           *float64   `json:"fare,omitempty"`
	Notes          string     `json:"notes,omitempty"`

	ChauffeurID string        `json:"chauffeurId,omitempty"`
	Mission     *MissionDraft `json:"mission,omitempty"`
}

// NewWorkflowState returns the defaults of a fresh booking attempt
func NewWorkflowState(now time.Time) WorkflowState {
	return WorkflowState{
		Kind:       KindRide,
		Category:   CategoryCityTransfer,
		PickupTime: now,
		Status:     RideStatusScheduled,
		Passenger:  PassengerInfo{PassengerCount: 1},
	}
}

// IsMission reports whether the mission path is active
func (s WorkflowState) IsMission() bool {
	return s.Kind == KindMission
}

// RideFields returns the single-ride fields of the state
func (s WorkflowState) RideFields() RideDraft {
	return RideDraft{
		PickupAddress:  s.PickupAddress,
		DropoffAddress: s.DropoffAddress,
		PickupTime:     s.PickupTime,
		Category:       s.Category,
		Status:         s.Status,
		Fare:           s.Fare,
		Notes:          s.Notes,
	}
}

// Clone returns a copy that can be read without holding the owner's lock
func (s WorkflowState) Clone() WorkflowState {
	c := s
	c.Mission = s.Mission.Clone()
	if s.FlightSchedule != nil {
		fs := *s.FlightSchedule
		c.FlightSchedule = &fs
	}
	return c
}
