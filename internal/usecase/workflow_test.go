package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dispatch-booking-service/internal/domain/entity"
	"dispatch-booking-service/internal/domain/repository"
	"dispatch-booking-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorkflow(t *testing.T, flights *fakeFlights) *Workflow {
	t.Helper()
	opts := WorkflowOptions{Clock: fixedClock, LookupTimeout: time.Second}
	if flights != nil {
		opts.Flights = flights
	}
	return NewWorkflow("wf-test", opts)
}

func waitFetch(t *testing.T, f *FlightFetch) FetchOutcome {
	t.Helper()
	require.NotNil(t, f, "expected a flight lookup to start")
	select {
	case <-f.Done():
		return f.Outcome()
	case <-time.After(2 * time.Second):
		t.Fatal("flight lookup did not finish")
		return ""
	}
}

func airportTransfer(subtype entity.AirportTransferSubtype) Answers {
	category := entity.CategoryAirportTransfer
	return Answers{Category: &category, AirportTransferSubtype: &subtype}
}

func flightNumber(n string) Answers {
	return Answers{FlightNumber: &n}
}

func TestNewWorkflow_Defaults(t *testing.T) {
	view := newTestWorkflow(t, nil).View()

	assert.Equal(t, "wf-test", view.ID)
	assert.Equal(t, entity.KindRide, view.State.Kind)
	assert.Equal(t, entity.CategoryCityTransfer, view.State.Category)
	assert.Equal(t, testNow, view.State.PickupTime)
	assert.Equal(t, 0, view.ActiveIndex)
	assert.Equal(t, StepRideType, view.ActiveStep)
	assert.Equal(t, LookupIdle, view.FlightLookup.Status)
}

func TestWorkflow_FlightLookupDerivesAirportPickup(t *testing.T) {
	flights := newFakeFlights()
	flights.set("AB123", cdgArrival(), nil)
	wf := newTestWorkflow(t, flights)

	_, err := wf.Apply(airportTransfer(entity.AirportPickup))
	require.NoError(t, err)
	fetch, err := wf.Apply(flightNumber("ab 123"))
	require.NoError(t, err)

	assert.Equal(t, LookupPending, wf.View().FlightLookup.Status)
	assert.Equal(t, FetchApplied, waitFetch(t, fetch))

	view := wf.View()
	assert.Equal(t, "AB123", view.State.FlightNumber)
	assert.Equal(t, LookupFound, view.FlightLookup.Status)
	assert.Equal(t, "Charles de Gaulle - Terminal 2E - Gate K12", view.State.PickupAddress)
	assert.True(t, view.State.PickupTime.Equal(time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC)))
	require.NotNil(t, view.State.FlightSchedule)
	assert.Equal(t, "AB123", view.State.FlightSchedule.FlightNumber)
}

func TestWorkflow_FlightLookupDerivesAirportDropoff(t *testing.T) {
	flights := newFakeFlights()
	flights.set("AB123", cdgArrival(), nil)
	wf := newTestWorkflow(t, flights)

	wf.Apply(airportTransfer(entity.AirportDropoff))
	fetch, _ := wf.Apply(flightNumber("AB123"))
	waitFetch(t, fetch)

	view := wf.View()
	assert.Equal(t, "Orly", view.State.DropoffAddress)
	assert.True(t, view.State.PickupTime.Equal(time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC)))
}

func TestWorkflow_StaleLookupIsDiscarded(t *testing.T) {
	flights := newFakeFlights()
	flights.set("AB111", cdgArrival(), nil)
	flights.set("AB222", &entity.ScheduleRecord{
		Arrival: entity.FlightLeg{AirportName: "Heathrow", Terminal: "5", Scheduled: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)},
	}, nil)
	gate := flights.hold("AB111")
	wf := newTestWorkflow(t, flights)
	wf.Apply(airportTransfer(entity.AirportPickup))

	slow, _ := wf.Apply(flightNumber("AB111"))
	fast, _ := wf.Apply(flightNumber("AB222"))

	assert.Equal(t, FetchApplied, waitFetch(t, fast))
	before := wf.View().State

	close(gate)
	assert.Equal(t, FetchDiscarded, waitFetch(t, slow))

	after := wf.View()
	assert.Equal(t, before, after.State)
	assert.Equal(t, "Heathrow - Terminal 5", after.State.PickupAddress)
	assert.Equal(t, "AB222", after.FlightLookup.FlightNumber)
}

func TestWorkflow_LookupNotFoundLeavesFields(t *testing.T) {
	flights := newFakeFlights()
	wf := newTestWorkflow(t, flights)
	wf.Apply(airportTransfer(entity.AirportPickup))
	pickup := "Hand entered"
	wf.Apply(Answers{PickupAddress: &pickup})

	fetch, _ := wf.Apply(flightNumber("ZZ999"))
	assert.Equal(t, FetchNotFound, waitFetch(t, fetch))

	view := wf.View()
	assert.Equal(t, LookupNotFound, view.FlightLookup.Status)
	assert.NotEmpty(t, view.FlightLookup.Message)
	assert.Equal(t, "Hand entered", view.State.PickupAddress)
	assert.Equal(t, testNow, view.State.PickupTime)
	assert.Nil(t, view.State.FlightSchedule)
}

func TestWorkflow_LookupTransportErrorLeavesFields(t *testing.T) {
	flights := newFakeFlights()
	flights.set("AB123", nil, errors.New("429 too many requests"))
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	wf := NewWorkflow("wf-test", WorkflowOptions{Flights: flights, Clock: fixedClock, Metrics: m})
	wf.Apply(airportTransfer(entity.AirportPickup))

	fetch, _ := wf.Apply(flightNumber("AB123"))
	assert.Equal(t, FetchFailed, waitFetch(t, fetch))

	view := wf.View()
	assert.Equal(t, LookupFailed, view.FlightLookup.Status)
	assert.Empty(t, view.State.PickupAddress)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FlightLookups.WithLabelValues(metrics.LookupError)))
}

func TestWorkflow_SameIdentifierDoesNotRederive(t *testing.T) {
	flights := newFakeFlights()
	flights.set("AB123", cdgArrival(), nil)
	wf := newTestWorkflow(t, flights)
	wf.Apply(airportTransfer(entity.AirportPickup))
	waitFetch(t, mustFetch(t, wf, "AB123"))

	edited := "Meeting point B"
	wf.Apply(Answers{PickupAddress: &edited})

	fetch, err := wf.Apply(flightNumber("ab123"))
	require.NoError(t, err)
	assert.Nil(t, fetch)
	assert.Equal(t, 1, flights.callCount())
	assert.Equal(t, "Meeting point B", wf.View().State.PickupAddress)
}

func TestWorkflow_ReturningToLastFetchedIdentifierReusesSchedule(t *testing.T) {
	flights := newFakeFlights()
	flights.set("AB123", cdgArrival(), nil)
	wf := newTestWorkflow(t, flights)
	wf.Apply(airportTransfer(entity.AirportPickup))
	waitFetch(t, mustFetch(t, wf, "AB123"))

	waitFetch(t, mustFetch(t, wf, "AB999"))
	assert.Nil(t, wf.View().State.FlightSchedule, "a new identifier invalidates the schedule")

	edited := "Meeting point B"
	wf.Apply(Answers{PickupAddress: &edited})

	fetch, _ := wf.Apply(flightNumber("AB123"))
	assert.Nil(t, fetch)
	assert.Equal(t, 2, flights.callCount())

	view := wf.View()
	assert.Equal(t, LookupFound, view.FlightLookup.Status)
	require.NotNil(t, view.State.FlightSchedule)
	assert.Equal(t, "Meeting point B", view.State.PickupAddress)
}

func TestWorkflow_SubtypeChangeReusesCachedSchedule(t *testing.T) {
	flights := newFakeFlights()
	flights.set("AB123", cdgArrival(), nil)
	wf := newTestWorkflow(t, flights)
	wf.Apply(airportTransfer(entity.AirportPickup))
	waitFetch(t, mustFetch(t, wf, "AB123"))

	dropoff := entity.AirportDropoff
	fetch, _ := wf.Apply(Answers{AirportTransferSubtype: &dropoff})
	assert.Nil(t, fetch)

	view := wf.View()
	assert.Equal(t, 1, flights.callCount())
	assert.Equal(t, "Orly", view.State.DropoffAddress)
	assert.True(t, view.State.PickupTime.Equal(time.Date(2024, 5, 1, 17, 0, 0, 0, time.UTC)))
}

func TestWorkflow_CategoryRoundTripKeepsEditedPickup(t *testing.T) {
	flights := newFakeFlights()
	flights.set("AB123", cdgArrival(), nil)
	wf := newTestWorkflow(t, flights)
	wf.Apply(airportTransfer(entity.AirportPickup))
	waitFetch(t, mustFetch(t, wf, "AB123"))

	edited := "Meeting point B"
	mustApply(t, wf, Answers{PickupAddress: &edited})

	city := entity.CategoryCityTransfer
	mustApply(t, wf, Answers{Category: &city})
	view := mustApply(t, wf, airportTransfer(entity.AirportPickup))

	assert.Equal(t, 1, flights.callCount())
	assert.Equal(t, "Meeting point B", view.State.PickupAddress)
	assert.True(t, view.State.PickupTime.Equal(cdgArrival().Arrival.Scheduled))
}

func TestWorkflow_AnswersInSameUpdateWinOverCachedDerivation(t *testing.T) {
	flights := newFakeFlights()
	flights.set("AB123", cdgArrival(), nil)
	wf := newTestWorkflow(t, flights)
	wf.Apply(airportTransfer(entity.AirportDropoff))
	waitFetch(t, mustFetch(t, wf, "AB123"))

	pickup := entity.AirportPickup
	edited := "Meeting point B"
	view := mustApply(t, wf, Answers{AirportTransferSubtype: &pickup, PickupAddress: &edited})

	assert.Equal(t, 1, flights.callCount())
	assert.Equal(t, "Meeting point B", view.State.PickupAddress)
	assert.True(t, view.State.PickupTime.Equal(cdgArrival().Arrival.Scheduled))
}

func TestWorkflow_NewLookupOverwritesEditedFields(t *testing.T) {
	other := cdgArrival()
	other.FlightNumber = "AB999"
	other.Arrival.Gate = "L40"
	flights := newFakeFlights()
	flights.set("AB123", cdgArrival(), nil)
	flights.set("AB999", other, nil)
	wf := newTestWorkflow(t, flights)
	wf.Apply(airportTransfer(entity.AirportPickup))
	waitFetch(t, mustFetch(t, wf, "AB123"))

	edited := "Meeting point B"
	mustApply(t, wf, Answers{PickupAddress: &edited})
	assert.Equal(t, FetchApplied, waitFetch(t, mustFetch(t, wf, "AB999")))
	assert.Equal(t, "Charles de Gaulle - Terminal 2E - Gate L40", wf.View().State.PickupAddress)

	// the new lookup is the baseline again, so a later subtype change derives
	dropoff := entity.AirportDropoff
	view := mustApply(t, wf, Answers{AirportTransferSubtype: &dropoff})
	assert.Equal(t, "Orly", view.State.DropoffAddress)
	pickup := entity.AirportPickup
	view = mustApply(t, wf, Answers{AirportTransferSubtype: &pickup})
	assert.Equal(t, "Charles de Gaulle - Terminal 2E - Gate L40", view.State.PickupAddress)
}

func TestWorkflow_InvalidIdentifierDoesNotLookUp(t *testing.T) {
	flights := newFakeFlights()
	wf := newTestWorkflow(t, flights)
	wf.Apply(airportTransfer(entity.AirportPickup))

	fetch, _ := wf.Apply(flightNumber("A1"))

	assert.Nil(t, fetch)
	assert.Equal(t, 0, flights.callCount())
	assert.Equal(t, LookupIdle, wf.View().FlightLookup.Status)
}

func TestWorkflow_ResetDiscardsPendingLookup(t *testing.T) {
	flights := newFakeFlights()
	flights.set("AB123", cdgArrival(), nil)
	gate := flights.hold("AB123")
	wf := newTestWorkflow(t, flights)
	wf.Apply(airportTransfer(entity.AirportPickup))
	fetch := mustFetch(t, wf, "AB123")

	wf.Reset()
	close(gate)

	assert.Equal(t, FetchDiscarded, waitFetch(t, fetch))
	view := wf.View()
	assert.Equal(t, entity.CategoryCityTransfer, view.State.Category)
	assert.Empty(t, view.State.PickupAddress)
	assert.Equal(t, LookupIdle, view.FlightLookup.Status)
}

func TestWorkflow_ReenteringIdentifierAfterResetStillDiscardsOldLookup(t *testing.T) {
	flights := newFakeFlights()
	flights.set("AB123", cdgArrival(), nil)
	gate := flights.hold("AB123")
	wf := newTestWorkflow(t, flights)
	wf.Apply(airportTransfer(entity.AirportPickup))
	old := mustFetch(t, wf, "AB123")

	wf.Reset()
	wf.Apply(airportTransfer(entity.AirportPickup))
	fresh := mustFetch(t, wf, "AB123")

	close(gate)
	outcomes := []FetchOutcome{waitFetch(t, old), waitFetch(t, fresh)}
	assert.Equal(t, []FetchOutcome{FetchDiscarded, FetchApplied}, outcomes)
}

func TestWorkflow_CloseRejectsFurtherChanges(t *testing.T) {
	flights := newFakeFlights()
	flights.set("AB123", cdgArrival(), nil)
	gate := flights.hold("AB123")
	wf := newTestWorkflow(t, flights)
	wf.Apply(airportTransfer(entity.AirportPickup))
	fetch := mustFetch(t, wf, "AB123")

	wf.Close()
	close(gate)

	assert.Equal(t, FetchDiscarded, waitFetch(t, fetch))
	_, err := wf.Apply(flightNumber("AB456"))
	assert.ErrorIs(t, err, ErrWorkflowClosed)
	_, err = wf.Submit(context.Background(), &fakeSubmitter{})
	assert.ErrorIs(t, err, ErrWorkflowClosed)
}

func TestWorkflow_OnChangeReceivesLookupResult(t *testing.T) {
	flights := newFakeFlights()
	flights.set("AB123", cdgArrival(), nil)

	var mu sync.Mutex
	var views []WorkflowView
	wf := NewWorkflow("wf-test", WorkflowOptions{
		Flights: flights,
		Clock:   fixedClock,
		OnChange: func(v WorkflowView) {
			mu.Lock()
			defer mu.Unlock()
			views = append(views, v)
		},
	})
	wf.Apply(airportTransfer(entity.AirportPickup))
	waitFetch(t, mustFetch(t, wf, "AB123"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, views, 1)
	assert.Equal(t, LookupFound, views[0].FlightLookup.Status)
	assert.Equal(t, "wf-test", views[0].ID)
}

func TestWorkflow_AdvanceIsGatedByActiveStep(t *testing.T) {
	wf := newTestWorkflow(t, nil)

	view, err := wf.Advance()
	require.NoError(t, err)
	assert.Equal(t, StepEvent, view.ActiveStep)

	view, err = wf.Advance()
	assert.ErrorIs(t, err, ErrStepInvalid)
	assert.Equal(t, StepEvent, view.ActiveStep)
	require.Len(t, view.FieldErrors, 1)
	assert.Equal(t, FieldEventID, view.FieldErrors[0].Field)

	event := "event-1"
	view = mustApply(t, wf, Answers{EventID: &event})
	assert.Empty(t, view.FieldErrors, "errors are re-evaluated after a fix")

	view, err = wf.Advance()
	require.NoError(t, err)
	assert.Equal(t, StepClient, view.ActiveStep)
}

func TestWorkflow_RetreatAndJump(t *testing.T) {
	wf := newTestWorkflow(t, nil)
	fillRide(t, wf)
	advanceTo(t, wf, StepDriver)

	view, err := wf.JumpTo(6)
	assert.ErrorIs(t, err, ErrJumpAhead)
	assert.Equal(t, StepDriver, view.ActiveStep)

	view, err = wf.JumpTo(1)
	require.NoError(t, err)
	assert.Equal(t, StepEvent, view.ActiveStep)

	wf.Retreat()
	view, _ = wf.Retreat()
	assert.Equal(t, 0, view.ActiveIndex)
}

func TestWorkflow_TogglingMissionOffFallsBack(t *testing.T) {
	wf := newTestWorkflow(t, nil)
	fillRide(t, wf)
	isMission := true
	view := mustApply(t, wf, Answers{IsMission: &isMission})
	require.NotNil(t, view.State.Mission)
	assert.Equal(t, "client-1", view.State.Mission.ClientID)
	advanceTo(t, wf, StepMission)

	isMission = false
	view = mustApply(t, wf, Answers{IsMission: &isMission})

	assert.Equal(t, StepLocationDetails, view.ActiveStep)
	assert.NotContains(t, view.Steps, StepMission)
	assert.Contains(t, view.Steps, StepDriver)
}

func TestWorkflow_SubmitSuccessResets(t *testing.T) {
	wf := newTestWorkflow(t, nil)
	fillRide(t, wf)
	advanceTo(t, wf, StepReview)
	submitter := &fakeSubmitter{}

	result, err := wf.Submit(context.Background(), submitter)

	require.NoError(t, err)
	assert.Equal(t, "1", result.Booking.RideID)
	ride := result.Request.(*entity.RideRequest)
	assert.Equal(t, "Hotel Adlon", ride.PickupAddress)

	assert.Equal(t, 0, result.Workflow.ActiveIndex)
	assert.Empty(t, result.Workflow.State.PickupAddress)
	assert.Empty(t, result.Workflow.State.EventID)
}

func TestWorkflow_SubmitFailurePreservesState(t *testing.T) {
	wf := newTestWorkflow(t, nil)
	fillRide(t, wf)
	advanceTo(t, wf, StepReview)
	rejection := &repository.RejectionError{Kind: repository.RejectionValidation, Message: "Pickup time must be in the future"}

	_, err := wf.Submit(context.Background(), &fakeSubmitter{persistErr: rejection})

	assert.Same(t, rejection, err)
	view := wf.View()
	assert.Equal(t, "Pickup time must be in the future", view.SubmissionError)
	assert.Equal(t, StepReview, view.ActiveStep)
	assert.Equal(t, "Hotel Adlon", view.State.PickupAddress)
	assert.False(t, view.Submitting)
}

func TestWorkflow_SubmitValidatesEverything(t *testing.T) {
	wf := newTestWorkflow(t, nil)
	submitter := &fakeSubmitter{}

	_, err := wf.Submit(context.Background(), submitter)

	assert.ErrorIs(t, err, ErrStepInvalid)
	assert.NotEmpty(t, wf.View().FieldErrors)
	assert.Empty(t, submitter.requests)
}

func TestWorkflow_DoubleSubmitIsRejected(t *testing.T) {
	wf := newTestWorkflow(t, nil)
	fillRide(t, wf)
	submitter := &fakeSubmitter{entered: make(chan struct{}), release: make(chan struct{})}

	done := make(chan error, 1)
	go func() {
		_, err := wf.Submit(context.Background(), submitter)
		done <- err
	}()
	<-submitter.entered

	assert.True(t, wf.View().Submitting)
	_, err := wf.Submit(context.Background(), submitter)
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	close(submitter.release)
	require.NoError(t, <-done)
	assert.Len(t, submitter.requests, 1)
}

func mustFetch(t *testing.T, wf *Workflow, n string) *FlightFetch {
	t.Helper()
	fetch, err := wf.Apply(flightNumber(n))
	require.NoError(t, err)
	require.NotNil(t, fetch)
	return fetch
}

func mustApply(t *testing.T, wf *Workflow, a Answers) WorkflowView {
	t.Helper()
	_, err := wf.Apply(a)
	require.NoError(t, err)
	return wf.View()
}

func fillRide(t *testing.T, wf *Workflow) {
	t.Helper()
	event, client := "event-1", "client-1"
	pickup, dropoff := "Hotel Adlon", "Brandenburg Gate"
	mustApply(t, wf, Answers{
		EventID:        &event,
		ClientID:       &client,
		Passenger:      &entity.PassengerInfo{FirstName: "Ada", LastName: "Lovelace", PassengerCount: 1},
		PickupAddress:  &pickup,
		DropoffAddress: &dropoff,
	})
}

func advanceTo(t *testing.T, wf *Workflow, step StepID) {
	t.Helper()
	for i := 0; i < 10; i++ {
		view := wf.View()
		if view.ActiveStep == step {
			return
		}
		_, err := wf.Advance()
		require.NoError(t, err)
	}
	t.Fatalf("never reached step %s", step)
}
