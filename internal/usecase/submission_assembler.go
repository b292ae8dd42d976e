package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch-booking-service/internal/domain/entity"
	"dispatch-booking-service/internal/domain/repository"
	"dispatch-booking-service/pkg/logger"
	"dispatch-booking-service/pkg/metrics"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidPayload wraps a creation request that fails its own constraints
var ErrInvalidPayload = errors.New("invalid creation request")

// BuildRideRequest shapes the ride-path payload from state
func BuildRideRequest(state entity.WorkflowState) *entity.RideRequest {
	req := &entity.RideRequest{
		PickupAddress:  state.PickupAddress,
		DropoffAddress: state.DropoffAddress,
		PickupTime:     state.PickupTime,
		Category:       state.Category,
		Status:         state.Status,
		Fare:           state.Fare,
		Notes:          state.Notes,
		PassengerInfo:  state.Passenger,
		EventID:        state.EventID,
		ClientID:       state.ClientID,
	}
	switch state.Category {
	case entity.CategoryAirportTransfer:
		req.AirportTransferSubtype = state.AirportTransferSubtype
		req.FlightNumber = state.FlightNumber
	case entity.CategoryBookByHour:
		req.DurationHours = state.DurationHours
	}
	if !state.IsMission() {
		req.ChauffeurID = state.ChauffeurID
	}
	return req
}

// BuildMissionRequest shapes the mission-path payload from state. The ride
// entered in the location step is the first embedded ride, followed by any
// rides added to the mission draft.
func BuildMissionRequest(state entity.WorkflowState, today time.Time) *entity.MissionRequest {
	draft := state.Mission
	if draft == nil {
		draft = &entity.MissionDraft{}
	}

	ride := BuildRideRequest(state)
	first := missionRideFromRequest(ride)
	outer := *ride
	clearFolded(&outer)

	rides := []entity.MissionRidePayload{first}
	for _, r := range draft.Rides {
		rides = append(rides, missionRideFromDraft(r))
	}

	start, end := draft.StartDate, draft.EndDate
	if start.IsZero() || end.IsZero() {
		start, end = MissionDateRange(today)
	}
	duration := draft.Duration
	if duration <= 0 {
		duration = missionDays(start, end)
	}
	status := draft.Status
	if status == "" {
		status = entity.MissionStatusScheduled
	}
	clientID := draft.ClientID
	if clientID == "" {
		clientID = state.ClientID
	}
	passengers := append([]string{}, draft.PassengerIDs...)

	return &entity.MissionRequest{
		RideRequest: outer,
		IsMission:   true,
		Mission: entity.MissionPayload{
			Title:             draft.Title,
			ClientID:          clientID,
			ChauffeurID:       draft.ChauffeurID,
			PartnerID:         draft.PartnerID,
			IsExternalPartner: draft.IsExternalPartner,
			StartDate:         start,
			EndDate:           end,
			Duration:          duration,
			Status:            status,
			PassengerIDs:      passengers,
			Rides:             rides,
			Notes:             draft.Notes,
		},
	}
}

// AssembleRequest applies the promotion decision and returns the payload to
// persist. It is deterministic for a given state, assignment set and day.
func AssembleRequest(state entity.WorkflowState, existing entity.MissionAssignments, chauffeurName string, today time.Time) (entity.CreationRequest, PromotionDecision) {
	if state.IsMission() {
		return BuildMissionRequest(state, today), PromotionDecision{}
	}

	ride := BuildRideRequest(state)
	decision := DecidePromotion(ride.ChauffeurID, existing)
	if !decision.Promote {
		return ride, decision
	}
	return PromoteRide(ride, chauffeurName, today), decision
}

func clearFolded(r *entity.RideRequest) {
	r.PickupAddress = ""
	r.DropoffAddress = ""
	r.Category = ""
	r.Status = ""
	r.Notes = ""
	r.Fare = nil
}

func missionRideFromRequest(r *entity.RideRequest) entity.MissionRidePayload {
	return entity.MissionRidePayload{
		PickupAddress:  r.PickupAddress,
		DropoffAddress: r.DropoffAddress,
		PickupTime:     r.PickupTime,
		Category:       r.Category,
		Status:         r.Status,
		Notes:          r.Notes,
		Fare:           r.Fare,
	}
}

func missionRideFromDraft(r entity.RideDraft) entity.MissionRidePayload {
	status := r.Status
	if status == "" {
		status = entity.RideStatusScheduled
	}
	return entity.MissionRidePayload{
		PickupAddress:  r.PickupAddress,
		DropoffAddress: r.DropoffAddress,
		PickupTime:     r.PickupTime,
		Category:       r.Category,
		Status:         status,
		Notes:          r.Notes,
		Fare:           r.Fare,
	}
}

// SubmissionAssembler loads what the promotion decision needs, shapes the
// payload and hands it to the persistence boundary
type SubmissionAssembler struct {
	missions   repository.MissionRepository
	chauffeurs repository.ChauffeurRepository
	bookings   repository.BookingRepository
	validate   *validator.Validate
	clock      func() time.Time
	logger     logger.Logger
	metrics    *metrics.Metrics
}

// NewSubmissionAssembler creates a new submission assembler
func NewSubmissionAssembler(
	missions repository.MissionRepository,
	chauffeurs repository.ChauffeurRepository,
	bookings repository.BookingRepository,
	clock func() time.Time,
	logger logger.Logger,
	metrics *metrics.Metrics,
) *SubmissionAssembler {
	if clock == nil {
		clock = time.Now
	}
	return &SubmissionAssembler{
		missions:   missions,
		chauffeurs: chauffeurs,
		bookings:   bookings,
		validate:   validator.New(),
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
	}
}

// Assemble turns a validated state into a creation request
func (a *SubmissionAssembler) Assemble(ctx context.Context, state entity.WorkflowState) (entity.CreationRequest, error) {
	var existing entity.MissionAssignments
	chauffeurName := ""

	if !state.IsMission() && state.ChauffeurID != "" {
		var err error
		existing, err = a.missions.ListActiveAssignments(ctx)
		if err != nil {
			a.countError("list_assignments")
			return nil, fmt.Errorf("failed to load chauffeur missions: %w", err)
		}
		if _, claimed := existing.ForChauffeur(state.ChauffeurID); !claimed {
			chauffeurName = a.chauffeurName(ctx, state.ChauffeurID)
		}
	}

	req, decision := AssembleRequest(state, existing, chauffeurName, a.clock())
	if decision.Promote {
		a.logger.Info("Promoting ride to mission", "chauffeurId", state.ChauffeurID)
		if a.metrics != nil {
			a.metrics.Promotions.Inc()
		}
	}

	if err := a.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return req, nil
}

// Persist sends req to the persistence boundary. A refusal is returned
// unchanged so its message reaches the user verbatim.
func (a *SubmissionAssembler) Persist(ctx context.Context, req entity.CreationRequest) (*entity.CreatedBooking, error) {
	start := time.Now()
	created, err := a.bookings.Create(ctx, req)
	if a.metrics != nil {
		a.metrics.SubmissionTime.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		var rejection *repository.RejectionError
		if errors.As(err, &rejection) {
			a.logger.Warn("Submission rejected", "kind", rejection.Kind, "reason", rejection.Message)
			if a.metrics != nil {
				a.metrics.SubmissionRejections.WithLabelValues(rejection.Kind).Inc()
			}
			return nil, err
		}
		a.countError("persist_booking")
		a.logger.Error("Failed to persist booking", "error", err)
		return nil, err
	}

	if a.metrics != nil {
		a.metrics.SubmissionsTotal.WithLabelValues(string(req.Kind())).Inc()
	}
	a.logger.Info("Booking created", "kind", req.Kind(), "rideId", created.RideID, "missionId", created.MissionID)
	return created, nil
}

// chauffeurName falls back to the id when the chauffeur cannot be read, so a
// lookup failure never blocks the booking
func (a *SubmissionAssembler) chauffeurName(ctx context.Context, id string) string {
	c, err := a.chauffeurs.GetByID(ctx, id)
	if err != nil {
		a.logger.Warn("Failed to load chauffeur for mission title", "chauffeurId", id, "error", err)
		return id
	}
	if name := c.FullName(); name != "" {
		return name
	}
	return id
}

func (a *SubmissionAssembler) countError(op string) {
	if a.metrics != nil {
		a.metrics.ErrorsCount.WithLabelValues(op).Inc()
	}
}
