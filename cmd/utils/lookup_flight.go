package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"dispatch-booking-service/internal/domain/entity"
	"dispatch-booking-service/internal/infrastructure/config"
	"dispatch-booking-service/internal/infrastructure/oauth"
	bookingRepo "dispatch-booking-service/internal/interface/repository"
	"dispatch-booking-service/internal/usecase"
	"dispatch-booking-service/pkg/logger"
	"dispatch-booking-service/pkg/utils"
)

type derivedRide struct {
	Subtype        entity.AirportTransferSubtype `json:"subtype"`
	PickupAddress  string                        `json:"pickupAddress,omitempty"`
	DropoffAddress string                        `json:"dropoffAddress,omitempty"`
	PickupTime     time.Time                     `json:"pickupTime"`
}

// Looks a flight up against the configured provider and prints the schedule
// together with the ride fields an airport transfer would derive from it.
//
//	go run ./cmd/utils LH123
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: lookup_flight <flight-number>")
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	log := logger.NewLogger(cfg.LogLevel)
	defer log.Sync()

	flightNumber := utils.NormalizeFlightNumber(os.Args[1])
	if !utils.IsFlightNumber(flightNumber) {
		log.Fatal("Not a flight number", "input", os.Args[1])
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FlightAPITimeout)
	defer cancel()

	auth := oauth.NewFlightAPIOAuth(cfg.FlightAPIClientID, cfg.FlightAPIClientSecret, cfg.FlightAPITokenURL, cfg.FlightAPITimeout, log)
	flights := bookingRepo.NewHTTPFlightScheduleRepository(auth.HTTPClient(ctx), cfg.FlightAPIURL, nil, nil, log)

	schedule, err := flights.Lookup(ctx, flightNumber)
	if err != nil {
		log.Fatal("Flight lookup failed", "flightNumber", flightNumber, "error", err)
	}

	var derived []derivedRide
	for _, subtype := range []entity.AirportTransferSubtype{entity.AirportPickup, entity.AirportDropoff} {
		d, ok := usecase.DeriveAirportTransfer(entity.CategoryAirportTransfer, subtype, schedule)
		if !ok {
			continue
		}
		ride := derivedRide{Subtype: subtype, PickupTime: d.PickupTime}
		if d.PickupAddress != nil {
			ride.PickupAddress = *d.PickupAddress
		}
		if d.DropoffAddress != nil {
			ride.DropoffAddress = *d.DropoffAddress
		}
		derived = append(derived, ride)
	}

	out, err := json.MarshalIndent(map[string]any{
		"schedule": schedule,
		"derived":  derived,
	}, "", "  ")
	if err != nil {
		log.Fatal("Failed to encode result", "error", err)
	}
	fmt.Println(string(out))
}
