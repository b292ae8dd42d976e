package entity

import "time"

// CreationRequest is what the persistence boundary accepts: a *RideRequest
// or a *MissionRequest
type CreationRequest interface {
	Kind() BookingKind
}

// RideRequest is the ride-shaped creation payload
type RideRequest struct {
	PickupAddress          string                 `json:"pickupAddress" validate:"required"`
	DropoffAddress         string                 `json:"dropoffAddress" validate:"required_unless=Category BOOK_BY_HOUR"`
	PickupTime             time.Time              `json:"pickupTime"`
	Category               RideCategory           `json:"category" validate:"required,oneof=CITY_TRANSFER AIRPORT_TRANSFER TRAIN_STATION_TRANSFER BOOK_BY_HOUR"`
	AirportTransferSubtype AirportTransferSubtype `json:"airportTransferSubtype,omitempty" validate:"required_if=Category AIRPORT_TRANSFER"`
	FlightNumber           string                 `json:"flightNumber,omitempty"`
	DurationHours          *float64               `json:"durationHours,omitempty" validate:"omitempty,gt=0"`
	Status                 RideStatus             `json:"status" validate:"required"`
	Fare                   *float64               `json:"fare,omitempty" validate:"omitempty,gte=0"`
	Notes                  string                 `json:"notes,omitempty"`
	ChauffeurID            string                 `json:"chauffeurId,omitempty"`
	PassengerInfo          PassengerInfo          `json:"passengerInfo"`
	EventID                string                 `json:"eventId" validate:"required"`
	ClientID               string                 `json:"clientId" validate:"required"`
}

func (*RideRequest) Kind() BookingKind { return KindRide }

// MissionRequest is the mission-shaped creation payload. The embedded ride
// fields that were folded into Mission.Rides are left empty.
type MissionRequest struct {
	RideRequest `validate:"-"`
	IsMission   bool           `json:"isMission"`
	Mission     MissionPayload `json:"mission"`
}

func (*MissionRequest) Kind() BookingKind { return KindMission }

// MissionPayload is the mission body of a MissionRequest
type MissionPayload struct {
	Title             string               `json:"title" validate:"required"`
	ClientID          string               `json:"clientId" validate:"required"`
	ChauffeurID       string               `json:"chauffeurId,omitempty" validate:"required_without=PartnerID"`
	PartnerID         string               `json:"partnerId,omitempty"`
	IsExternalPartner bool                 `json:"isExternalPartner"`
	StartDate         time.Time            `json:"startDate"`
	EndDate           time.Time            `json:"endDate"`
	Duration          int                  `json:"duration" validate:"gte=0"`
	Status            MissionStatus        `json:"status" validate:"required"`
	PassengerIDs      []string             `json:"passengerIds"`
	Rides             []MissionRidePayload `json:"rides" validate:"required,min=1,dive"`
	Notes             string               `json:"notes,omitempty"`
}

// MissionRidePayload is one ride embedded in a mission
type MissionRidePayload struct {
	PickupAddress  string       `json:"pickupAddress" validate:"required"`
	DropoffAddress string       `json:"dropoffAddress"`
	PickupTime     time.Time    `json:"pickupTime"`
	Category       RideCategory `json:"category" validate:"required"`
	Status         RideStatus   `json:"status" validate:"required"`
	Notes          string       `json:"notes,omitempty"`
	Fare           *float64     `json:"fare,omitempty" validate:"omitempty,gte=0"`
}

// CreatedBooking is what the persistence boundary returns on success
type CreatedBooking struct {
	Kind      BookingKind `json:"kind"`
	RideID    string      `json:"rideId,omitempty"`
	MissionID string      `json:"missionId,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}
