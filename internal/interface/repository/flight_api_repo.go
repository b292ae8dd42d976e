package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dispatch-booking-service/internal/domain/entity"
	"dispatch-booking-service/internal/domain/repository"
	"dispatch-booking-service/pkg/logger"
	"dispatch-booking-service/pkg/utils"
)

// HTTPFlightScheduleRepository looks flights up on the external flight status API
type HTTPFlightScheduleRepository struct {
	client   *http.Client
	baseURL  string
	airports repository.AirportRepository
	airlines repository.AirlineRepository
	logger   logger.Logger
}

// NewHTTPFlightScheduleRepository creates a flight API client. client is
// expected to carry authentication; airports and airlines may be nil.
func NewHTTPFlightScheduleRepository(
	client *http.Client,
	baseURL string,
	airports repository.AirportRepository,
	airlines repository.AirlineRepository,
	logger logger.Logger,
) *HTTPFlightScheduleRepository {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPFlightScheduleRepository{
		client:   client,
		baseURL:  strings.TrimRight(baseURL, "/"),
		airports: airports,
		airlines: airlines,
		logger:   logger,
	}
}

type flightAPIAirport struct {
	IATA string `json:"iata"`
	Name string `json:"name"`
}

type flightAPILeg struct {
	Airport       flightAPIAirport `json:"airport"`
	Terminal      string           `json:"terminal"`
	Gate          string           `json:"gate"`
	ScheduledTime time.Time        `json:"scheduledTime"`
	EstimatedTime *time.Time       `json:"estimatedTime"`
}

type flightAPIResponse struct {
	FlightNumber string `json:"flightNumber"`
	Airline      struct {
		Code string `json:"code"`
		Name string `json:"name"`
	} `json:"airline"`
	Departure flightAPILeg `json:"departure"`
	Arrival   flightAPILeg `json:"arrival"`
}

// Lookup fetches the schedule of flightNumber
func (r *HTTPFlightScheduleRepository) Lookup(ctx context.Context, flightNumber string) (*entity.ScheduleRecord, error) {
	endpoint := fmt.Sprintf("%s/v1/flights/%s", r.baseURL, url.PathEscape(flightNumber))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, repository.ErrScheduleNotFound
	case resp.StatusCode != http.StatusOK:
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return nil, fmt.Errorf("flight API returned status %d: %v", resp.StatusCode, errorBody)
	}

	var body flightAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if body.Arrival.ScheduledTime.IsZero() && body.Departure.ScheduledTime.IsZero() {
		return nil, repository.ErrScheduleNotFound
	}

	record := &entity.ScheduleRecord{
		FlightNumber: flightNumber,
		AirlineCode:  body.Airline.Code,
		AirlineName:  body.Airline.Name,
		Departure:    r.toLeg(ctx, body.Departure),
		Arrival:      r.toLeg(ctx, body.Arrival),
		FetchedAt:    time.Now(),
	}
	if record.AirlineCode == "" {
		record.AirlineCode = utils.AirlineCode(flightNumber)
	}
	if record.AirlineName == "" && r.airlines != nil {
		if airline, err := r.airlines.GetByCode(ctx, record.AirlineCode); err == nil {
			record.AirlineName = airline.Name
		} else {
			r.logger.Debug("Airline not resolved", "code", record.AirlineCode, "error", err)
		}
	}

	r.logger.Info("Flight schedule fetched",
		"flightNumber", flightNumber,
		"departure", record.Departure.AirportCode,
		"arrival", record.Arrival.AirportCode)

	return record, nil
}

// toLeg normalizes a leg, naming the airport from reference data when the
// API only returns its code
func (r *HTTPFlightScheduleRepository) toLeg(ctx context.Context, leg flightAPILeg) entity.FlightLeg {
	out := entity.FlightLeg{
		AirportCode: leg.Airport.IATA,
		AirportName: leg.Airport.Name,
		Terminal:    leg.Terminal,
		Gate:        leg.Gate,
		Scheduled:   leg.ScheduledTime,
		Estimated:   leg.EstimatedTime,
	}
	if out.AirportName == "" && out.AirportCode != "" && r.airports != nil {
		airport, err := r.airports.GetByCode(ctx, out.AirportCode)
		if err != nil {
			r.logger.Debug("Airport not resolved", "code", out.AirportCode, "error", err)
			return out
		}
		out.AirportName = airport.Name
	}
	return out
}
