package repository

import (
	"context"
	"time"

	"dispatch-booking-service/internal/domain/entity"
)

// FlightScheduleRepository looks up the schedule of a flight
type FlightScheduleRepository interface {
	// Lookup returns ErrScheduleNotFound when nothing matches; any other
	// error is a transport failure
	Lookup(ctx context.Context, flightNumber string) (*entity.ScheduleRecord, error)
}

// FlightScheduleCache stores fetched schedules by flight number
type FlightScheduleCache interface {
	FindFresh(ctx context.Context, flightNumber string, maxAge time.Duration) (*entity.ScheduleRecord, error)
	Upsert(ctx context.Context, record *entity.ScheduleRecord) error
}
