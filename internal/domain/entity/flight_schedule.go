// internal/domain/entity/flight_schedule.go
package entity

import (
	"time"
)

// FlightLeg is one end of a flight: where and when it departs or arrives
type FlightLeg struct {
	AirportCode string     `json:"airportCode" bson:"airportCode"`
	AirportName string     `json:"airportName" bson:"airportName"`
	Terminal    string     `json:"terminal,omitempty" bson:"terminal,omitempty"`
	Gate        string     `json:"gate,omitempty" bson:"gate,omitempty"`
	Scheduled   time.Time  `json:"scheduled" bson:"scheduled"`
	Estimated   *time.Time `json:"estimated,omitempty" bson:"estimated,omitempty"`
}

// ScheduleRecord is the normalized schedule returned by the flight lookup
type ScheduleRecord struct {
	FlightNumber string    `json:"flightNumber" bson:"flightNumber"` // unique index
	AirlineCode  string    `json:"airlineCode" bson:"airlineCode"`
	AirlineName  string    `json:"airlineName,omitempty" bson:"airlineName,omitempty"`
	Departure    FlightLeg `json:"departure" bson:"departure"`
	Arrival      FlightLeg `json:"arrival" bson:"arrival"`
	FetchedAt    time.Time `json:"fetchedAt" bson:"fetchedAt"`
}
