package entity

import "time"

// RideCategory is the kind of transport a ride books
type RideCategory string

const (
	CategoryCityTransfer         RideCategory = "CITY_TRANSFER"
	CategoryAirportTransfer      RideCategory = "AIRPORT_TRANSFER"
	CategoryTrainStationTransfer RideCategory = "TRAIN_STATION_TRANSFER"
	CategoryBookByHour           RideCategory = "BOOK_BY_HOUR"
)

// ParseRideCategory returns the category matching s
func ParseRideCategory(s string) (RideCategory, bool) {
	switch RideCategory(s) {
	case CategoryCityTransfer, CategoryAirportTransfer, CategoryTrainStationTransfer, CategoryBookByHour:
		return RideCategory(s), true
	default:
		return "", false
	}
}

// AirportTransferSubtype tells whether the chauffeur meets an arriving flight
// or brings the passenger to a departing one
type AirportTransferSubtype string

const (
	AirportPickup  AirportTransferSubtype = "AIRPORT_PICKUP"
	AirportDropoff AirportTransferSubtype = "AIRPORT_DROPOFF"
)

// ParseAirportTransferSubtype returns the subtype matching s
func ParseAirportTransferSubtype(s string) (AirportTransferSubtype, bool) {
	switch AirportTransferSubtype(s) {
	case AirportPickup, AirportDropoff:
		return AirportTransferSubtype(s), true
	default:
		return "", false
	}
}

// RideStatus is the lifecycle status of a ride
type RideStatus string

const (
	RideStatusScheduled  RideStatus = "SCHEDULED"
	RideStatusConfirmed  RideStatus = "CONFIRMED"
	RideStatusInProgress RideStatus = "IN_PROGRESS"
	RideStatusCompleted  RideStatus = "COMPLETED"
	RideStatusCancelled  RideStatus = "CANCELLED"
)

// ParseRideStatus returns the status matching s
func ParseRideStatus(s string) (RideStatus, bool) {
	switch RideStatus(s) {
	case RideStatusScheduled, RideStatusConfirmed, RideStatusInProgress, RideStatusCompleted, RideStatusCancelled:
		return RideStatus(s), true
	default:
		return "", false
	}
}

// PassengerInfo describes the lead passenger of a ride
type PassengerInfo struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
	PassengerCount int    `json:"passengerCount" validate:"min=1"`
	Description    string `json:"description,omitempty"`
}

// RideDraft is a single point-to-point or hourly ride as entered in the wizard
type RideDraft struct {
	PickupAddress  string       `json:"pickupAddress"`
	DropoffAddress string       `json:"dropoffAddress"`
	PickupTime     time.Time    `json:"pickupTime"`
	Category       RideCategory `json:"category"`
	Status         RideStatus   `json:"status"`
	Fare           *float64     `json:"fare,omitempty"`
	Notes          string       `json:"notes,omitempty"`
}
