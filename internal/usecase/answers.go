package usecase

import (
	"time"

	"dispatch-booking-service/internal/domain/entity"
)

// Answers is a partial update of the wizard fields. Nil means unchanged.
type Answers struct {
	IsMission              *bool                          `json:"isMission,omitempty"`
	Category               *entity.RideCategory           `json:"category,omitempty"`
	AirportTransferSubtype *entity.AirportTransferSubtype `json:"airportTransferSubtype,omitempty"`
	FlightNumber           *string                        `json:"flightNumber,omitempty"`
	EventID                *string                        `json:"eventId,omitempty"`
	ClientID               *string                        `json:"clientId,omitempty"`
	Passenger              *entity.PassengerInfo          `json:"passengerInfo,omitempty"`
	PickupAddress          *string                        `json:"pickupAddress,omitempty"`
	DropoffAddress         *string                        `json:"dropoffAddress,omitempty"`
	PickupTime             *time.Time                     `json:"pickupTime,omitempty"`
	DurationHours          *float64                       `json:"durationHours,omitempty"`
	Status                 *entity.RideStatus             `json:"status,omitempty"`
	Fare                   *float64                       `json:"fare,omitempty"`
	Notes                  *string                        `json:"notes,omitempty"`
	ChauffeurID            *string                        `json:"chauffeurId,omitempty"`
	Mission                *entity.MissionDraft           `json:"mission,omitempty"`
}

// applyPlain copies every answer that has no side effect beyond the field
// itself. Kind and flight number are handled by the workflow.
func (a Answers) applyPlain(s *entity.WorkflowState) {
	if a.Category != nil {
		s.Category = *a.Category
	}
	if a.AirportTransferSubtype != nil {
		s.AirportTransferSubtype = *a.AirportTransferSubtype
	}
	if a.EventID != nil {
		s.EventID = *a.EventID
	}
	if a.ClientID != nil {
		s.ClientID = *a.ClientID
	}
	if a.Passenger != nil {
		s.Passenger = *a.Passenger
	}
	if a.PickupAddress != nil {
		s.PickupAddress = *a.PickupAddress
	}
	if a.DropoffAddress != nil {
		s.DropoffAddress = *a.DropoffAddress
	}
	if a.PickupTime != nil {
		s.PickupTime = *a.PickupTime
	}
	if a.DurationHours != nil {
		v := *a.DurationHours
		s.DurationHours = &v
	}
	if a.Status != nil {
		s.Status = *a.Status
	}
	if a.Fare != nil {
		v := *a.Fare
		s.Fare = &v
	}
	if a.Notes != nil {
		s.Notes = *a.Notes
	}
	if a.ChauffeurID != nil {
		s.ChauffeurID = *a.ChauffeurID
	}
	if a.Mission != nil {
		s.Mission = a.Mission.Clone()
	}
}
