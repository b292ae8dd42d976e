package usecase

import (
	"context"
	"sync"
	"time"

	"dispatch-booking-service/internal/domain/entity"
	"dispatch-booking-service/internal/domain/repository"

	"github.com/stretchr/testify/mock"
)

var testNow = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func cdgArrival() *entity.ScheduleRecord {
	return &entity.ScheduleRecord{
		FlightNumber: "AB123",
		AirlineCode:  "AB",
		Departure: entity.FlightLeg{
			AirportCode: "ORY",
			AirportName: "Orly",
			Scheduled:   time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC),
		},
		Arrival: entity.FlightLeg{
			AirportCode: "CDG",
			AirportName: "Charles de Gaulle",
			Terminal:    "2E",
			Gate:        "K12",
			Scheduled:   time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC),
		},
	}
}

type lookupResult struct {
	record *entity.ScheduleRecord
	err    error
}

// fakeFlights answers lookups from a table. A flight with a gate blocks
// until the gate is closed, regardless of cancellation.
type fakeFlights struct {
	mu      sync.Mutex
	results map[string]lookupResult
	gates   map[string]chan struct{}
	calls   []string
}

func newFakeFlights() *fakeFlights {
	return &fakeFlights{
		results: make(map[string]lookupResult),
		gates:   make(map[string]chan struct{}),
	}
}

func (f *fakeFlights) set(flightNumber string, record *entity.ScheduleRecord, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if record != nil {
		rec := *record
		rec.FlightNumber = flightNumber
		record = &rec
	}
	f.results[flightNumber] = lookupResult{record: record, err: err}
}

func (f *fakeFlights) hold(flightNumber string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[flightNumber] = gate
	return gate
}

func (f *fakeFlights) Lookup(ctx context.Context, flightNumber string) (*entity.ScheduleRecord, error) {
	f.mu.Lock()
	f.calls = append(f.calls, flightNumber)
	gate := f.gates[flightNumber]
	res, ok := f.results[flightNumber]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if !ok {
		return nil, repository.ErrScheduleNotFound
	}
	return res.record, res.err
}

func (f *fakeFlights) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeSubmitter records what it was asked to persist
type fakeSubmitter struct {
	mu         sync.Mutex
	entered    chan struct{}
	release    chan struct{}
	persistErr error
	requests   []entity.CreationRequest
}

func (s *fakeSubmitter) Assemble(ctx context.Context, state entity.WorkflowState) (entity.CreationRequest, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	req, _ := AssembleRequest(state, nil, "", testNow)
	return req, nil
}

func (s *fakeSubmitter) Persist(ctx context.Context, req entity.CreationRequest) (*entity.CreatedBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.persistErr != nil {
		return nil, s.persistErr
	}
	return &entity.CreatedBooking{Kind: req.Kind(), RideID: "1", CreatedAt: testNow}, nil
}

type mockMissionRepository struct {
	mock.Mock
}

func (m *mockMissionRepository) ListActiveAssignments(ctx context.Context) (entity.MissionAssignments, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.MissionAssignments), args.Error(1)
}

type mockChauffeurRepository struct {
	mock.Mock
}

func (m *mockChauffeurRepository) GetByID(ctx context.Context, id string) (*entity.Chauffeur, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Chauffeur), args.Error(1)
}

type mockBookingRepository struct {
	mock.Mock
}

func (m *mockBookingRepository) Create(ctx context.Context, req entity.CreationRequest) (*entity.CreatedBooking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CreatedBooking), args.Error(1)
}

func ptr[T any](v T) *T { return &v }
